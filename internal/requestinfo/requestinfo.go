//
//  internal/requestinfo/requestinfo.go
//
//  Per-request visitor facts: user-agent class, client IP, and a
//  best-effort country.  The public pages use them to keep crawlers out of
//  post view counts; the access log records them.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// Info is inert and safe to log.
type Info struct {
	IP      net.IP
	Country string // ISO code, "" when unknown
	Browser string // "Chrome", "Firefox", ...
	Device  string // "Desktop", "Phone", "Tablet", ...
	IsBot   bool
	Lang    string // primary Accept-Language tag
}

// Locator resolves an IP to a country.  A nil Locator resolves nothing.
type Locator struct {
	db *geoip2.Reader
}

// OpenLocator opens a GeoLite2 Country or City database.  An empty path
// returns a nil Locator and no error.
func OpenLocator(path string) (*Locator, error) {
	if path == "" {
		return nil, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip db: %w", err)
	}
	return &Locator{db: db}, nil
}

// Close releases the database.  nil-safe.
func (l *Locator) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Country returns the ISO code for ip, or "".
func (l *Locator) Country(ip net.IP) string {
	if l == nil || l.db == nil || ip == nil {
		return ""
	}
	rec, err := l.db.Country(ip)
	if err != nil {
		return ""
	}
	return rec.Country.IsoCode
}

type ctxKey struct{}

// FromContext returns the Info stored by Middleware, or nil.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

// IsBot reports whether the request in ctx came from a crawler.  Unknown
// requests count as human.
func IsBot(ctx context.Context) bool {
	i := FromContext(ctx)
	return i != nil && i.IsBot
}

// parseUA classifies the User-Agent header.
func parseUA(raw string) (browser, device string, bot bool) {
	u := uasurfer.Parse(raw)
	browser = strings.TrimPrefix(u.Browser.Name.String(), "Browser")
	device = deviceName(u.DeviceType)
	bot = u.IsBot()
	return
}

func deviceName(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}

// primaryLang extracts the first language tag before any ";q=".
func primaryLang(al string) string {
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}
