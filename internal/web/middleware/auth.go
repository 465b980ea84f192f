package middleware

import (
	"net/http"

	"pressing/internal/auth"
)

// Admin returns the middleware protecting the admin area.
func Admin(gate *auth.Gate) func(http.Handler) http.Handler {
	return gate.RequireAdmin
}

// SecurityHeaders applies the deployment's standard response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
