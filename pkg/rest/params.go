package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/edgeflare/passgen/pkg/httputil"
	"github.com/edgeflare/passgen/pkg/passgen"
	"github.com/mitchellh/mapstructure"
)

var (
	// ErrInvalidCount is returned when count is negative or above the
	// server's maximum.
	ErrInvalidCount = errors.New("invalid count")
	// ErrInvalidParameter is returned for unknown or malformed parameters.
	ErrInvalidParameter = errors.New("invalid parameter")
)

const (
	CodeInvalidCount     = "invalid_count"
	CodeInvalidParameter = "invalid_parameter"
)

// GenerateRequest is the body of POST /passwords and the decoded form of the
// GET /passwords query.
type GenerateRequest struct {
	passgen.Request `mapstructure:",squash"`
	Count           int `json:"count,omitempty" mapstructure:"count"`
}

// GenerateResponse lists the generated passwords.
type GenerateResponse struct {
	Passwords []string `json:"passwords"`
	Length    int      `json:"length"`
	Classes   []string `json:"classes"`
}

// CheckRequest is the body of POST /passwords/check.
type CheckRequest struct {
	Password string `json:"password"`
	Lower    bool   `json:"lower"`
	Upper    bool   `json:"upper"`
	Digits   bool   `json:"digits"`
	Symbols  bool   `json:"symbols"`
}

func (c CheckRequest) required() passgen.ClassSet {
	return passgen.Request{Lower: c.Lower, Upper: c.Upper, Digits: c.Digits, Symbols: c.Symbols}.Classes()
}

// CheckResponse reports the classes found in a password. Valid is true when
// none of the required classes is missing.
type CheckResponse struct {
	Valid   bool     `json:"valid"`
	Length  int      `json:"length"`
	Classes []string `json:"classes"`
	Missing []string `json:"missing"`
}

// ClassInfo describes one character class.
type ClassInfo struct {
	Name     string `json:"name"`
	Alphabet string `json:"alphabet"`
	Weight   int    `json:"weight"`
}

// reservedParams are query parameters that do not describe the password.
var reservedParams = map[string]bool{
	"format": true,
}

// decodeQuery overlays the query parameters onto dst. Fields without a
// parameter keep their value. Names are case-insensitive; spelling one
// parameter two ways is rejected. A length that is not an integer is reported
// as passgen.ErrInvalidLength.
func decodeQuery(values url.Values, dst *GenerateRequest) error {
	raw := make(map[string]any, len(values))
	seen := make(map[string]string, len(values))
	for key, vs := range values {
		name := strings.ToLower(key)
		if reservedParams[name] || len(vs) == 0 {
			continue
		}
		if prev, ok := seen[name]; ok {
			a, b := prev, key
			if b < a {
				a, b = b, a
			}
			return fmt.Errorf("%w: %q and %q name the same parameter", ErrInvalidParameter, a, b)
		}
		seen[name] = key
		raw[name] = strings.TrimSpace(vs[len(vs)-1])
	}

	if v, ok := raw["length"]; ok {
		if _, err := strconv.Atoi(v.(string)); err != nil {
			return fmt.Errorf("%w: %q", passgen.ErrInvalidLength, v)
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncKind(checkboxHook),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return nil
}

// decodeBody binds a JSON generate request. A length that is not an integer
// is reported as passgen.ErrInvalidLength, like in decodeQuery. Any other
// decode failure is ErrInvalidParameter.
func decodeBody(r *http.Request, w http.ResponseWriter, dst *GenerateRequest) error {
	err := httputil.Bind(r, w, dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "length" {
		return fmt.Errorf("%w: expected an integer, got %s", passgen.ErrInvalidLength, typeErr.Value)
	}
	return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
}

// checkboxHook accepts HTML form checkbox values for booleans.
func checkboxHook(from, to reflect.Kind, data any) (any, error) {
	if from != reflect.String || to != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(data.(string)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	return data, nil
}

// normalizeCount applies the default of one password and enforces limit.
func normalizeCount(count, limit int) (int, error) {
	switch {
	case count == 0:
		return 1, nil
	case count < 0 || count > limit:
		return 0, fmt.Errorf("%w: %d is outside 1..%d", ErrInvalidCount, count, limit)
	}
	return count, nil
}

func classNames(set passgen.ClassSet) []string {
	names := make([]string, 0, set.Len())
	for _, c := range set.Classes() {
		names = append(names, c.String())
	}
	return names
}

// errorCode extends passgen.Code with the request errors of this package.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCount):
		return CodeInvalidCount
	case errors.Is(err, ErrInvalidParameter):
		return CodeInvalidParameter
	}
	return passgen.Code(err)
}
