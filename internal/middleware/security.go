// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects the usual headers on every response:
//
//   • Strict-Transport-Security  (2 years + preload)
//   • Content-Security-Policy    (self, plus https: images and the jsDelivr CDN)
//   • X-Frame-Options, X-Content-Type-Options, Referrer-Policy
//   • Permissions-Policy
//
// Notes
// -----
// • Headers are written *before* next.ServeHTTP; once a handler writes the
//   body the header map is frozen.
// • Handlers may still override any value, e.g. the media admin page.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

const (
	hsts = "max-age=63072000; includeSubDomains; preload"
	// Cover images and team photos live on arbitrary https hosts; the
	// stylesheet and icon font come from jsDelivr.
	csp = "default-src 'self'; img-src 'self' data: https:; " +
		"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; " +
		"font-src 'self' https://cdn.jsdelivr.net; " +
		"object-src 'none'; base-uri 'self'; form-action 'self'; " +
		"frame-ancestors 'none'"
	xfo   = "DENY"
	nosn  = "nosniff"
	refer = "strict-origin-when-cross-origin"
	perm  = "geolocation=(), microphone=(), camera=()"
)

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", hsts)
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Frame-Options", xfo)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("Referrer-Policy", refer)
		h.Set("Permissions-Policy", perm)
		next.ServeHTTP(w, r)
	})
}
