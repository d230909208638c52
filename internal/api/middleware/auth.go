package middleware

import (
	"context"
	"net/http"
	"strings"
)

// Authenticator verifies admin session tokens.
type Authenticator interface {
	Authenticate(token string) error
}

type ctxKey int

const adminKey ctxKey = iota

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Session marks requests that carry a valid session as admin requests.
// Requests without one pass through anonymously.
func Session(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := BearerToken(r); token != "" && a.Authenticate(token) == nil {
				r = r.WithContext(context.WithValue(r.Context(), adminKey, true))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsAdmin reports whether Session accepted the request's token.
func IsAdmin(r *http.Request) bool {
	ok, _ := r.Context().Value(adminKey).(bool)
	return ok
}

// RequireAdmin rejects anonymous requests with 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="weekwise"`)
			WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
