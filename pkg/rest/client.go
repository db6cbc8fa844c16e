package rest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/edgeflare/passgen/pkg/httputil"
	"github.com/edgeflare/passgen/pkg/passgen"
	"go.uber.org/zap"
)

// Client calls a remote passgen server.
type Client struct {
	Logger     *zap.Logger
	BaseURL    string // server URL including the API prefix, e.g. http://localhost:8080/v1
	Username   string
	Password   string
	Timeout    time.Duration
	MaxRetries int
}

// NewClient returns a Client for baseURL with the default request settings.
func NewClient(baseURL string) *Client {
	defaults := httputil.DefaultRequestConfig(http.MethodGet, baseURL)
	return &Client{
		Logger:     zap.NewNop(),
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Timeout:    defaults.Timeout,
		MaxRetries: defaults.MaxRetries,
	}
}

// APIError is a non-2xx response from the server. It unwraps to the matching
// passgen or rest sentinel error when the reason is known.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded %d", e.StatusCode)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return reasonErrors[e.Reason]
}

var reasonErrors = map[string]error{
	passgen.CodeInvalidLength:     passgen.ErrInvalidLength,
	passgen.CodeLengthTooHigh:     passgen.ErrLengthTooHigh,
	passgen.CodeLengthTooShort:    passgen.ErrLengthTooShort,
	passgen.CodeNoClassSelected:   passgen.ErrNoClassSelected,
	passgen.CodeTooManyIterations: passgen.ErrTooManyIterations,
	CodeInvalidCount:              ErrInvalidCount,
	CodeInvalidParameter:          ErrInvalidParameter,
}

// Generate requests count passwords for req.
func (c *Client) Generate(ctx context.Context, req passgen.Request, count int) ([]string, error) {
	var resp GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/passwords", GenerateRequest{Request: req, Count: count}, &resp); err != nil {
		return nil, err
	}
	return resp.Passwords, nil
}

// Check asks the server which classes a password contains.
func (c *Client) Check(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	var resp CheckResponse
	if err := c.do(ctx, http.MethodPost, "/passwords/check", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	config := httputil.DefaultRequestConfig(method, c.BaseURL+path)
	config.Logger = c.Logger
	if c.Timeout > 0 {
		config.Timeout = c.Timeout
	}
	config.MaxRetries = c.MaxRetries
	config.RetryEnabled = c.MaxRetries > 0
	config.Headers = map[string][]string{"Accept": {"application/json"}}
	if c.Username != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
		config.Headers["Authorization"] = []string{"Basic " + creds}
	}

	resp, err := httputil.Request(ctx, config, payload)
	if err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) {
			return decodeAPIError(statusErr)
		}
		return err
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(statusErr *httputil.StatusError) error {
	apiErr := &APIError{StatusCode: statusErr.StatusCode}
	var body httputil.ErrorResponse
	if err := json.Unmarshal(statusErr.Body, &body); err == nil {
		apiErr.Reason = body.Reason
		apiErr.Message = body.Message
	}
	return apiErr
}
