package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edgeflare/passgen/pkg/httputil"
)

func TestVerifyBasicAuth(t *testing.T) {
	tests := []struct {
		config          *BasicAuthConfig
		name            string
		authHeader      string
		expectedMessage string
		expectedUser    string
		expectedStatus  int
		expectChallenge bool
	}{
		{
			name:            "missing authorization header",
			config:          BasicAuthCreds(map[string]string{"user": "pass"}),
			authHeader:      "",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Authorization header missing",
			expectChallenge: true,
		},
		{
			name:            "invalid authorization format",
			config:          BasicAuthCreds(map[string]string{"user": "pass"}),
			authHeader:      "Bearer some-token",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid authorization format",
		},
		{
			name:            "invalid base64 encoding",
			config:          BasicAuthCreds(map[string]string{"user": "pass"}),
			authHeader:      "Basic invalid-base64",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid authorization format",
		},
		{
			name:            "missing colon",
			config:          BasicAuthCreds(map[string]string{"user": "pass"}),
			authHeader:      "Basic " + base64.StdEncoding.EncodeToString([]byte("userpass")),
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid authorization format",
		},
		{
			name:            "invalid credentials",
			config:          BasicAuthCreds(map[string]string{"user": "pass"}),
			authHeader:      "Basic " + base64.StdEncoding.EncodeToString([]byte("user:wrongpass")),
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid credentials",
			expectChallenge: true,
		},
		{
			name:            "unknown user",
			config:          BasicAuthCreds(map[string]string{"user": "pass"}),
			authHeader:      "Basic " + base64.StdEncoding.EncodeToString([]byte("other:pass")),
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid credentials",
			expectChallenge: true,
		},
		{
			name:           "valid credentials",
			config:         BasicAuthCreds(map[string]string{"user": "pass"}),
			authHeader:     "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass")),
			expectedStatus: http.StatusOK,
			expectedUser:   "user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "http://example.com/v1/passwords", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler := VerifyBasicAuth(tt.config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user, ok := httputil.BasicAuthUser(r)
				if !ok || user != tt.expectedUser {
					http.Error(w, "User not found in context", http.StatusInternalServerError)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))

			handler.ServeHTTP(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("status code: expected %v, got %v", tt.expectedStatus, status)
			}

			if tt.expectedMessage != "" {
				var resp httputil.ErrorResponse
				if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
					t.Fatalf("decode error response: %v", err)
				}
				if resp.Message != tt.expectedMessage {
					t.Errorf("message: expected %q, got %q", tt.expectedMessage, resp.Message)
				}
			}

			if challenge := rr.Header().Get("WWW-Authenticate"); tt.expectChallenge != (challenge != "") {
				t.Errorf("WWW-Authenticate: expected present=%v, got %q", tt.expectChallenge, challenge)
			}
		})
	}
}
