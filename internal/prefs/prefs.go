// internal/prefs/prefs.go
//
// Per-browser display preferences kept in plain cookies: the admin sidebar
// width and the colour theme.  Values are read once per request; bad or
// missing values fall back to the defaults.

package prefs

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

const (
	SidebarCookie = "admin-sidebar-width"
	ThemeCookie   = "theme"

	MinSidebarWidth     = 200
	MaxSidebarWidth     = 480
	DefaultSidebarWidth = 280

	ThemeLight = "light"
	ThemeDark  = "dark"

	maxAge = 365 * 24 * time.Hour
)

// Prefs is the resolved preference set for one request.
type Prefs struct {
	SidebarWidth int
	Theme        string
}

// ClampWidth bounds w to [MinSidebarWidth, MaxSidebarWidth].
func ClampWidth(w int) int {
	switch {
	case w < MinSidebarWidth:
		return MinSidebarWidth
	case w > MaxSidebarWidth:
		return MaxSidebarWidth
	default:
		return w
	}
}

// ParseTheme maps anything but "dark" to light.
func ParseTheme(s string) string {
	if s == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Read resolves preferences from r's cookies.
func Read(r *http.Request) Prefs {
	p := Prefs{SidebarWidth: DefaultSidebarWidth, Theme: ThemeLight}
	if c, err := r.Cookie(SidebarCookie); err == nil {
		if n, err := strconv.Atoi(c.Value); err == nil {
			p.SidebarWidth = ClampWidth(n)
		}
	}
	if c, err := r.Cookie(ThemeCookie); err == nil {
		p.Theme = ParseTheme(c.Value)
	}
	return p
}

// SetSidebarWidth clamps and persists w.  It returns the stored value.
func SetSidebarWidth(w http.ResponseWriter, width int) int {
	width = ClampWidth(width)
	set(w, SidebarCookie, strconv.Itoa(width))
	return width
}

// SetTheme persists theme.  It returns the stored value.
func SetTheme(w http.ResponseWriter, theme string) string {
	theme = ParseTheme(theme)
	set(w, ThemeCookie, theme)
	return theme
}

func set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

type prefsKey struct{}

// Middleware stores Read(r) in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), prefsKey{}, Read(r))))
	})
}

// FromContext returns the preferences stored by Middleware, or defaults.
func FromContext(ctx context.Context) Prefs {
	if p, ok := ctx.Value(prefsKey{}).(Prefs); ok {
		return p
	}
	return Prefs{SidebarWidth: DefaultSidebarWidth, Theme: ThemeLight}
}
