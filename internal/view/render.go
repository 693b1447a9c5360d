// internal/view/render.go
//
// Central view engine: embedded templates, func-map injection, and an LRU
// of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render         write a full page to an http.ResponseWriter.
//   - RenderToString return template.HTML (tests, fragments).
//
// Layout
// ------
// Every page is parsed as one set of three files:
//
//   templates/_<layout>.html   the frame ("public" or "admin")
//   templates/_partials.html   shared blocks (cards, notices, form fields)
//   templates/<page>.html      {{ define "content" }} … {{ end }}
//
// and executed through the layout's root template, so sub-templates
// ({{ template "post-card" . }}) work out-of-the-box.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/auth"
	"github.com/yanizio/viyakaptan/internal/cache"
	"github.com/yanizio/viyakaptan/internal/head"
	"github.com/yanizio/viyakaptan/internal/message"
	"github.com/yanizio/viyakaptan/internal/prefs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Layouts.
const (
	Public = "public"
	Admin  = "admin"
)

// Frame is what every layout receives.  Page-specific values go in Data.
type Frame struct {
	Head     *head.Builder
	Prefs    prefs.Prefs
	Notice   message.Notice
	Banner   string
	Session  *auth.Session
	Path     string
	CSRF     string
	Settings map[string]string
	Data     any
}

// Engine renders pages.  Safe for concurrent use.
type Engine struct {
	fsys  fs.FS
	funcs template.FuncMap
	sets  *cache.LRU[string, *template.Template]
	dev   bool
}

// New returns an engine over the embedded templates.  dev disables the
// parse cache.
func New(dev bool) *Engine {
	return &Engine{
		fsys:  templateFS,
		funcs: FuncMap(),
		sets:  cache.New[string, *template.Template](64),
		dev:   dev,
	}
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

//
// public helpers
//

// Render executes page inside layout and writes it with status.  The page
// is rendered into a buffer first so a template error never leaves half a
// page on the wire.
func (e *Engine) Render(w http.ResponseWriter, status int, layout, page string, f *Frame) {
	html, err := e.RenderToString(layout, page, f)
	if err != nil {
		zap.L().Error("render", zap.String("layout", layout), zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

// RenderToString executes and returns HTML.
func (e *Engine) RenderToString(layout, page string, f *Frame) (template.HTML, error) {
	t, err := e.load(layout, page)
	if err != nil {
		return "", err
	}
	if f.Head == nil {
		f.Head = head.New()
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, f); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//
// internal: load
//

func (e *Engine) load(layout, page string) (*template.Template, error) {
	key := layout + "::" + page
	if !e.dev {
		if t, ok := e.sets.Get(key); ok {
			return t, nil
		}
	}
	t, err := template.New(layout).Funcs(e.funcs).ParseFS(e.fsys,
		"templates/_"+layout+".html",
		"templates/_partials.html",
		"templates/"+page+".html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	if !e.dev {
		e.sets.Add(key, t)
	}
	return t, nil
}
