// Package middleware holds the HTTP middleware chain pieces.
//
// Each middleware is func(next http.Handler) http.Handler; it either calls
// next or stops the request.
package middleware

import (
	"net/http"

	"github.com/akinalp/brickdepot/session"
)

// AuthMiddleware gates routes behind login.
type AuthMiddleware struct {
	loginPath string
}

// NewAuthMiddleware returns a guard redirecting anonymous requests to loginPath.
func NewAuthMiddleware(loginPath string) *AuthMiddleware {
	return &AuthMiddleware{loginPath: loginPath}
}

// Require redirects (302) to the login page unless the request's session is
// authenticated. session.Manager.Middleware must run first.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).IsAuthenticated() {
			http.Redirect(w, r, m.loginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
