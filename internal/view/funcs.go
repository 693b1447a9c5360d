// internal/view/funcs.go
//
// Template helpers shared by every layout.

package view

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/editor"
)

var trMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// FuncMap returns the helpers.  Exposed for tests.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict":       dict,
		"trusted":    func(s string) template.HTML { return template.HTML(s) },
		"trDate":     trDate,
		"difficulty": func(d content.Difficulty) string { return d.Label() },
		"take":       take,
		"more":       more,
		"mailto":     mailto,
		"setting":    setting,
		"isText":     func(k editor.Kind) bool { return k == editor.Text || k == editor.Number || k == editor.Email || k == editor.URL },
		"isArea":     func(k editor.Kind) bool { return k == editor.TextArea || k == editor.List },
		"isCheck":    func(k editor.Kind) bool { return k == editor.Checkbox },
		"isSelect":   func(k editor.Kind) bool { return k == editor.Select },
		"inputType":  inputType,
		"active":     func(path, prefix string) bool { return path == prefix || strings.HasPrefix(path, prefix+"/") },
		"kb":         func(n int64) string { return fmt.Sprintf("%.1f KB", float64(n)/1024) },
		"isImage":    func(mime string) bool { return strings.HasPrefix(mime, "image/") },
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// trDate formats "2 Ocak 2026".  nil or zero prints "".
func trDate(v any) string {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return ""
		}
		t = *x
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), trMonths[t.Month()-1], t.Year())
}

// take returns the first n items.
func take(n int, xs []string) []string {
	if len(xs) <= n {
		return xs
	}
	return xs[:n]
}

// more returns how many items take(n) hid.
func more(n int, xs []string) int {
	if len(xs) <= n {
		return 0
	}
	return len(xs) - n
}

// mailto builds a mailto: URL with an optional subject.
func mailto(addr, subject string) template.URL {
	if addr == "" {
		addr = content.DefaultContactEmail
	}
	u := "mailto:" + addr
	if subject != "" {
		u += "?subject=" + url.PathEscape(subject)
	}
	return template.URL(u)
}

// setting reads key from a settings map with a default.
func setting(m map[string]string, key, def string) string {
	if v := m[key]; v != "" {
		return v
	}
	return def
}

func inputType(k editor.Kind) string {
	switch k {
	case editor.Number:
		return "number"
	case editor.Email:
		return "email"
	case editor.URL:
		return "url"
	default:
		return "text"
	}
}
