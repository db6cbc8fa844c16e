package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edgeflare/passgen/internal/testutil"
	"github.com/edgeflare/passgen/pkg/httputil"
	mw "github.com/edgeflare/passgen/pkg/httputil/middleware"
	"github.com/edgeflare/passgen/pkg/metrics"
	"github.com/edgeflare/passgen/pkg/passgen"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type generateCase struct {
	Name   string          `json:"name"`
	Method string          `json:"method"`
	Target string          `json:"target"`
	Body   json.RawMessage `json:"body"`
	Status int             `json:"status"`
	Reason string          `json:"reason"`
	Count  int             `json:"count"`
	Length int             `json:"length"`
}

type checkCase struct {
	Name    string          `json:"name"`
	Body    json.RawMessage `json:"body"`
	Valid   bool            `json:"valid"`
	Length  int             `json:"length"`
	Classes []string        `json:"classes"`
	Missing []string        `json:"missing"`
}

func newTestServer(t *testing.T, src passgen.Source, opts ...Option) *Server {
	t.Helper()
	gen := passgen.New(passgen.WithSource(src))
	return NewServer(gen, append([]Option{WithMaxCount(5)}, opts...)...)
}

func serve(s *Server, method, target string, body []byte, header ...string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		r.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func TestGenerateEndpoints(t *testing.T) {
	var cases []generateCase
	testutil.LoadJSON(t, "generate_cases.json", &cases)
	require.NotEmpty(t, cases)

	s := newTestServer(t, passgen.NewSeededSource(7))

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			var body []byte
			if len(tc.Body) > 0 {
				body = tc.Body
			}
			w := serve(s, tc.Method, tc.Target, body)
			require.Equal(t, tc.Status, w.Code, w.Body.String())
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

			if tc.Status != http.StatusOK {
				var resp httputil.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tc.Reason, resp.Reason)
				assert.Equal(t, tc.Status, resp.Code)
				assert.NotEmpty(t, resp.Message)
				return
			}

			var resp GenerateResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.Len(t, resp.Passwords, tc.Count)
			assert.Equal(t, tc.Length, resp.Length)

			var required passgen.ClassSet
			for _, name := range resp.Classes {
				c, err := passgen.ParseClass(name)
				require.NoError(t, err)
				required = required.With(c)
			}
			alphabet := passgen.NewWeightedAlphabet(required)
			for _, pw := range resp.Passwords {
				assert.Len(t, pw, tc.Length)
				assert.True(t, passgen.Check(pw, required), "password %q misses a class of %s", pw, required)
				for i := 0; i < len(pw); i++ {
					assert.True(t, alphabet.Contains(pw[i]), "unexpected character %q", pw[i])
				}
			}
		})
	}
}

func TestGenerateServerDefaults(t *testing.T) {
	s := newTestServer(t, passgen.NewSeededSource(1),
		WithDefaults(passgen.NewRequest(6, passgen.Digit)))

	w := serve(s, http.MethodGet, "/v1/passwords", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Passwords, 1)
	assert.Regexp(t, `^[0-9]{6}$`, resp.Passwords[0])
	assert.Equal(t, []string{"digits"}, resp.Classes)
}

func TestGenerateTextFormat(t *testing.T) {
	s := newTestServer(t, passgen.NewSeededSource(3))

	t.Run("query parameter", func(t *testing.T) {
		w := serve(s, http.MethodGet, "/v1/passwords?format=text&count=3&length=12", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

		lines := strings.Split(strings.TrimSuffix(w.Body.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		for _, line := range lines {
			assert.Len(t, line, 12)
		}
	})

	t.Run("accept header", func(t *testing.T) {
		w := serve(s, http.MethodPost, "/v1/passwords", []byte(`{"length": 8}`), "Accept", "text/plain")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, strings.TrimSuffix(w.Body.String(), "\n"), 8)
	})

	t.Run("errors stay json", func(t *testing.T) {
		w := serve(s, http.MethodGet, "/v1/passwords?format=text&length=0", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})
}

func TestGenerateDeterministic(t *testing.T) {
	a := newTestServer(t, passgen.NewSeededSource(99))
	b := newTestServer(t, passgen.NewSeededSource(99))

	wa := serve(a, http.MethodGet, "/v1/passwords?count=5", nil)
	wb := serve(b, http.MethodGet, "/v1/passwords?count=5", nil)
	require.Equal(t, http.StatusOK, wa.Code)
	assert.Equal(t, wa.Body.String(), wb.Body.String())
}

func TestGenerateTooManyIterations(t *testing.T) {
	// every draw maps to 'q', so no candidate ever has an upper case letter
	s := newTestServer(t, testutil.ConstSource(0))

	before := promtest.ToFloat64(metrics.GeneratedPasswords.WithLabelValues(metricsSource, passgen.CodeTooManyIterations))
	w := serve(s, http.MethodGet, "/v1/passwords?length=8", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, passgen.CodeTooManyIterations, resp.Reason)
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.GeneratedPasswords.WithLabelValues(metricsSource, passgen.CodeTooManyIterations)))
}

func TestGenerateSourceFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := newTestServer(t, testutil.ErrSource{Err: errors.New("entropy pool drained")}, WithLogger(zap.New(core)))

	w := serve(s, http.MethodGet, "/v1/passwords", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, passgen.CodeInternal, resp.Reason)
	assert.NotContains(t, resp.Message, "entropy")

	entries := logs.FilterMessage("password generation failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "entropy pool drained")
}

func TestGenerateSourceFailureRequestID(t *testing.T) {
	s := newTestServer(t, testutil.ErrSource{Err: errors.New("boom")}, WithMiddleware(mw.RequestID))

	w := serve(s, http.MethodGet, "/v1/passwords", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	id := w.Header().Get(mw.RequestIDHeader)
	require.NotEmpty(t, id)

	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Message, id)
	assert.NotContains(t, resp.Message, "boom")
}

func TestGenerateMetrics(t *testing.T) {
	s := newTestServer(t, passgen.NewSeededSource(5))

	ok := metrics.GeneratedPasswords.WithLabelValues(metricsSource, "ok")
	bad := metrics.GeneratedPasswords.WithLabelValues(metricsSource, passgen.CodeInvalidLength)
	param := metrics.GeneratedPasswords.WithLabelValues(metricsSource, CodeInvalidParameter)
	okBefore, badBefore, paramBefore := promtest.ToFloat64(ok), promtest.ToFloat64(bad), promtest.ToFloat64(param)

	serve(s, http.MethodGet, "/v1/passwords", nil)
	serve(s, http.MethodGet, "/v1/passwords?length=abc", nil)
	serve(s, http.MethodPost, "/v1/passwords", []byte(`{"length":"abc"}`))
	serve(s, http.MethodPost, "/v1/passwords", []byte(`{"colour":"red"}`))
	serve(s, http.MethodGet, "/v1/passwords?colour=red", nil)

	assert.Equal(t, okBefore+1, promtest.ToFloat64(ok))
	assert.Equal(t, badBefore+2, promtest.ToFloat64(bad))
	assert.Equal(t, paramBefore+2, promtest.ToFloat64(param))
}

func TestCheckEndpoint(t *testing.T) {
	var cases []checkCase
	testutil.LoadJSON(t, "check_cases.json", &cases)
	require.NotEmpty(t, cases)

	s := newTestServer(t, passgen.NewSeededSource(1))

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			w := serve(s, http.MethodPost, "/v1/passwords/check", tc.Body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp CheckResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tc.Valid, resp.Valid)
			assert.Equal(t, tc.Length, resp.Length)
			assert.Equal(t, tc.Classes, resp.Classes)
			assert.Equal(t, tc.Missing, resp.Missing)
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		w := serve(s, http.MethodPost, "/v1/passwords/check", []byte(`{"pasword": "x"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestClassesEndpoint(t *testing.T) {
	s := newTestServer(t, passgen.NewSeededSource(1))

	w := serve(s, http.MethodGet, "/v1/classes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var classes []ClassInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&classes))
	require.Len(t, classes, 4)
	assert.Equal(t, ClassInfo{Name: "lower", Alphabet: "qwertyuiopasdfghjklzxcvbnm", Weight: 3}, classes[0])
	assert.Equal(t, "symbols", classes[3].Name)
	assert.Equal(t, 1, classes[3].Weight)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, passgen.NewSeededSource(1),
		WithMiddleware(mw.VerifyBasicAuth(mw.BasicAuthCreds(map[string]string{"admin": "secret"}))))

	w := serve(s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := newTestServer(t, passgen.NewSeededSource(1),
		WithBaseURL("/api/"),
		WithMiddleware(
			mw.RequestID,
			mw.LoggerWithOptions(&mw.LoggerOptions{Logger: zap.New(core)}),
			mw.CORSWithOptions(nil),
			mw.VerifyBasicAuth(mw.BasicAuthCreds(map[string]string{"admin": "secret"})),
		))

	t.Run("unauthorized", func(t *testing.T) {
		w := serve(s, http.MethodGet, "/api/passwords", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get(mw.RequestIDHeader))
	})

	t.Run("authorized", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/passwords?length=8", nil)
		r.SetBasicAuth("admin", "secret")
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		w := serve(s, http.MethodOptions, "/api/passwords", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("old prefix is gone", func(t *testing.T) {
		w := serve(s, http.MethodGet, "/v1/passwords", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	entries := logs.FilterMessage("response").All()
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.NotContains(t, e.ContextMap()["path"], "length=")
	}
}
