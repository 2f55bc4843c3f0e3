// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.
//
/*
Context
--------
This handler sits right after request logging.  For every request it:

  1. Parses the User-Agent header and Accept-Language list.
  2. Extracts the left-most client IP from X-Forwarded-For or X-Real-IP,
     falling back to `r.RemoteAddr`.
  3. Performs a GeoLite2 lookup when a Locator is configured.
  4. Stores a `*RequestInfo` in `request.Context` under an unexported key,
     so handlers can tag their log lines without reparsing.

Instrumentation
---------------
At debug level each invocation logs client IP, country, device class, bot
flag, and path.
*/
package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yanizio/survey/internal/logger"
	"github.com/yanizio/survey/internal/ua"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Enrich returns middleware that attaches *RequestInfo.  loc may be nil.
func Enrich(loc *Locator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := &RequestInfo{
				UA:          ua.Parse(r.UserAgent()),
				Geo:         loc.Lookup(clientIP(r)),
				PrimaryLang: primaryLang(r.Header.Get("Accept-Language")),
				Path:        r.URL.Path,
				Timestamp:   time.Now().UTC(),
			}

			logger.FromContext(r.Context()).Debugw("request info",
				"ip", info.Geo.IP,
				"country", info.Geo.CountryISO,
				"device", info.UA.Device,
				"bot", info.UA.IsBot,
				"path", info.Path,
			)

			ctx := context.WithValue(r.Context(), ctxKey{}, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

// clientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
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
