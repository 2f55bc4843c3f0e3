// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years)
//   • Content-Security-Policy   –  self-only policy, inline styles allowed
//                                   for the embedded survey stylesheet
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Headers are set *before* next.ServeHTTP; once a handler writes its
//   first byte the header map is frozen.  Handlers may still override any
//   value before writing, because the middleware only fills gaps.
// • The share link leaves the site through a plain redirect, so
//   form-action does not need to list wa.me.

package middleware

import "net/http"

const (
	hsts = "max-age=63072000; includeSubDomains"
	csp  = "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; " +
		"object-src 'none'; base-uri 'self'; form-action 'self'; frame-ancestors 'none'"
	xfo   = "DENY"
	nosn  = "nosniff"
	refer = "strict-origin-when-cross-origin"
	perm  = "geolocation=(), microphone=(), camera=()"
)

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		setDefault(h, "Content-Security-Policy", csp)
		setDefault(h, "X-Frame-Options", xfo)
		setDefault(h, "X-Content-Type-Options", nosn)
		setDefault(h, "Referrer-Policy", refer)
		setDefault(h, "Permissions-Policy", perm)
		if r.TLS != nil {
			setDefault(h, "Strict-Transport-Security", hsts)
		}
		next.ServeHTTP(w, r)
	})
}

func setDefault(h http.Header, key, val string) {
	if h.Get(key) == "" {
		h.Set(key, val)
	}
}
