// internal/requestinfo/middleware.go
//
// HTTP middleware that attaches *Info to each request.
//
/*
Context
--------
Mounted before the access log.  For every request it:

  1. Classifies the User-Agent (browser, device, bot flag).
  2. Extracts the left-most client IP from X-Forwarded-For or X-Real-IP,
     falling back to r.RemoteAddr.
  3. Looks the IP up in the optional GeoLite2 database.
  4. Stores the *Info in the request context.

Notes
-----
  • Lookups are read-only, so the middleware is safe under concurrency.
  • Forwarded headers are trusted; run behind a proxy that sets them.
*/
package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Middleware returns the enrichment wrapper.  loc may be nil.
func Middleware(loc *Locator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			browser, device, bot := parseUA(r.UserAgent())
			info := &Info{
				IP:      ip,
				Country: loc.Country(ip),
				Browser: browser,
				Device:  device,
				IsBot:   bot,
				Lang:    primaryLang(r.Header.Get("Accept-Language")),
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, info)))
		})
	}
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}
