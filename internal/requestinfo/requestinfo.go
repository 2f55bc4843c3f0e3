//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, client IP + geolocation, path, and timestamp).
//  These structs are inert, so they are safe to log or JSON-encode.
//
//  Dependencies
//  • internal/ua                        (UA parsing via uasurfer)
//  • github.com/oschwald/geoip2-golang  (MaxMind lookup)
//  • internal/cache                     (per-IP lookup memo)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/yanizio/survey/internal/cache"
	"github.com/yanizio/survey/internal/ua"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Geo holds IP-based geolocation hints.  These are best-effort and may be
// empty if no database is configured or it has no match.
type Geo struct {
	IP         net.IP `json:"ip"`
	CountryISO string `json:"country,omitempty"`
	City       string `json:"city,omitempty"`
}

// RequestInfo is attached to the request context by Enrich.
type RequestInfo struct {
	UA          ua.Info   `json:"ua"`
	Geo         Geo       `json:"geo"`
	PrimaryLang string    `json:"lang,omitempty"`
	Path        string    `json:"path"`
	Timestamp   time.Time `json:"ts"`
}

//
//  -----------------------------
//  Geo locator
//  -----------------------------
//

// Locator resolves client IPs with a GeoLite2-City database.  A nil
// *Locator is valid and returns bare Geo values.
type Locator struct {
	reader *geoip2.Reader
	memo   *cache.LRU[string, Geo]
}

// OpenGeo opens the database at dbPath.  cacheSize bounds the per-IP memo.
func OpenGeo(dbPath string, cacheSize int) (*Locator, error) {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("requestinfo: open GeoLite2 DB: %w", err)
	}
	if cacheSize < 1 {
		cacheSize = 1
	}
	return &Locator{reader: r, memo: cache.New[string, Geo](cacheSize)}, nil
}

// Lookup returns best-effort Geo data for ip.
func (l *Locator) Lookup(ip net.IP) Geo {
	if l == nil || l.reader == nil || ip == nil {
		return Geo{IP: ip}
	}
	key := ip.String()
	if g, ok := l.memo.Get(key); ok {
		return g
	}
	g := Geo{IP: ip}
	if rec, err := l.reader.City(ip); err == nil {
		g.CountryISO = rec.Country.IsoCode
		g.City = rec.City.Names["en"]
	}
	l.memo.Add(key, g)
	return g
}

// Close releases the database.
func (l *Locator) Close() error {
	if l == nil || l.reader == nil {
		return nil
	}
	return l.reader.Close()
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich.  It returns
// nil if the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// primaryLang extracts the first language subtag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(strings.TrimSpace(tag), ";")
	return strings.ToLower(tag)
}
