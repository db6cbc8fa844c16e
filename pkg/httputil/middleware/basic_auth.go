package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/edgeflare/passgen/pkg/httputil"
)

const basicAuthRealm = `Basic realm="passgen"`

// BasicAuthConfig holds the username-password pairs for basic authentication.
type BasicAuthConfig struct {
	Credentials map[string]string
}

// BasicAuthCreds creates a new instance of BasicAuthConfig with multiple username/password pairs.
func BasicAuthCreds(credentials map[string]string) *BasicAuthConfig {
	return &BasicAuthConfig{
		Credentials: credentials,
	}
}

// valid compares the password in constant time so response timing does not
// leak how much of it matched.
func (c *BasicAuthConfig) valid(username, password string) bool {
	want, ok := c.Credentials[username]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
}

// VerifyBasicAuth is a middleware function for basic authentication.
func VerifyBasicAuth(config *BasicAuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				w.Header().Set("WWW-Authenticate", basicAuthRealm)
				httputil.Error(w, http.StatusUnauthorized, "Authorization header missing")
				return
			}

			username, password, ok := r.BasicAuth()
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "Invalid authorization format")
				return
			}

			if !config.valid(username, password) {
				w.Header().Set("WWW-Authenticate", basicAuthRealm)
				httputil.Error(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}

			// Store authenticated user in context
			ctx := context.WithValue(r.Context(), httputil.BasicAuthCtxKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
