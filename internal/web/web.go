// internal/web/web.go
//
// Server-rendered site: public pages and the admin back office.
//
// Request life-cycle
// ------------------
//
//  1. Recover, request id, visitor facts (requestinfo), access log,
//     security headers, display preferences, session resolution.
//
//  2. Public routes read through the query layer inside a fallback.Page,
//     so an unreachable API degrades to the bundled sample site.
//
//  3. /admin routes sit behind acl.Gate.  Every CRUD page is one
//     editor.Editor per request, driven by the posted form; outcomes
//     travel across the redirect as a flash notice.
//
// Large comment blocks are framed by blank "//" lines; inline comments use
// a single "//".
package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/acl"
	"github.com/yanizio/viyakaptan/internal/auth"
	"github.com/yanizio/viyakaptan/internal/config"
	"github.com/yanizio/viyakaptan/internal/fallback"
	"github.com/yanizio/viyakaptan/internal/form"
	"github.com/yanizio/viyakaptan/internal/head"
	"github.com/yanizio/viyakaptan/internal/message"
	"github.com/yanizio/viyakaptan/internal/middleware"
	"github.com/yanizio/viyakaptan/internal/prefs"
	"github.com/yanizio/viyakaptan/internal/query"
	"github.com/yanizio/viyakaptan/internal/requestinfo"
	"github.com/yanizio/viyakaptan/internal/session"
	"github.com/yanizio/viyakaptan/internal/view"
)

// Version is shown on the dashboard.
const Version = "1.0.0"

// Options configures New.
type Options struct {
	Auth          config.Auth
	CSRFKey       string
	ForceFallback bool
	Locator       *requestinfo.Locator
	// DevTemplates re-parses templates on every render.
	DevTemplates bool
}

// Handler holds the page dependencies.
type Handler struct {
	q       *query.Client
	views   *view.Engine
	csrf    *form.CSRF
	guard   *form.Guard
	login   *auth.Handlers
	authCfg config.Auth
	sample  *fallback.Dataset
	force   bool
}

// New returns the site router.
func New(q *query.Client, sessions *session.Manager, opts Options) http.Handler {
	h := &Handler{
		q:       q,
		views:   view.New(opts.DevTemplates),
		csrf:    form.NewCSRF(opts.CSRFKey),
		guard:   form.NewGuard(),
		login:   auth.NewHandlers(opts.Auth, sessions),
		authCfg: opts.Auth,
		sample:  fallback.Sample(),
		force:   opts.ForceFallback,
	}
	if h.force {
		zap.L().Warn("fallback.force set, every page serves sample data")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recover)
	r.Use(chimw.RequestID)
	r.Use(requestinfo.Middleware(opts.Locator))
	r.Use(middleware.AccessLog)
	r.Use(middleware.Security)
	r.Use(prefs.Middleware)
	r.Use(auth.NewResolver(sessions).Middleware)

	r.Handle("/static/*", view.Static())

	r.Get("/", h.home)
	r.Get("/blog", h.blog)
	r.Get("/blog/{slug}", h.post)
	r.Get("/karavan", h.routes)
	r.Get("/karavan/{slug}", h.route)

	r.Post("/prefs/theme", h.setTheme)
	r.Post("/prefs/sidebar", h.setSidebar)

	r.Get("/login", h.loginPage)
	r.Post("/login", h.login.DevLogin)
	r.Post("/logout", h.login.Logout)
	r.Get("/logout", h.login.Logout)
	r.Get(auth.CallbackPath, h.login.Callback)

	r.Route("/admin", func(r chi.Router) {
		r.Use(acl.Gate(h.gateScreen))
		r.Get("/", h.dashboard)
		h.mountEntities(r)
		r.Get("/settings", h.settingsPage)
		r.Post("/settings", h.saveSettings)
		r.Get("/media", h.mediaPage)
		r.Post("/media", h.uploadMedia)
		r.Get("/media/{id}/delete", h.confirmMediaDelete)
		r.Post("/media/{id}/delete", h.deleteMedia)
	})

	r.NotFound(h.notFound)
	return r
}

//
// frame helpers
//

// frame starts the per-request view state.  The flash notice is consumed
// here, so call it once per response.
func (h *Handler) frame(w http.ResponseWriter, r *http.Request) *view.Frame {
	ctx := r.Context()
	f := &view.Frame{
		Head:  head.New(),
		Prefs: prefs.FromContext(ctx),
		Path:  r.URL.Path,
	}
	if n, ok := message.Pop(w, r); ok {
		f.Notice = n
	}
	return f
}

// adminFrame is frame plus the signed-in admin and a fresh CSRF token.
func (h *Handler) adminFrame(w http.ResponseWriter, r *http.Request, title string) *view.Frame {
	f := h.frame(w, r)
	f.Session = auth.FromContext(r.Context())
	f.Head.Page(title)
	f.Head.Seed(map[string]string{"site_title": "Viya Kaptan Admin"})
	tok, err := h.csrf.Token()
	if err != nil {
		zap.L().Error("csrf token", zap.Error(err))
	}
	f.CSRF = tok
	return f
}

// origin is the scheme and host the visitor used.
func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// localPath accepts only same-site absolute paths; anything else maps to
// def.
func localPath(p, def string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return def
	}
	if u, err := url.Parse(p); err != nil || u.Host != "" {
		return def
	}
	return p
}

//
// small shared handlers
//

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	f := h.frame(w, r)
	f.Head.Page("Sayfa Bulunamadı")
	f.Settings = fallback.Sibling(r.Context(), fallback.NewValue[struct{}]("notfound", h.force), h.q.Settings.Map, h.sampleSettings)
	f.Head.Seed(f.Settings)
	h.views.Render(w, http.StatusNotFound, view.Public, "notfound", f)
}

func (h *Handler) setTheme(w http.ResponseWriter, r *http.Request) {
	prefs.SetTheme(w, r.PostFormValue("theme"))
	http.Redirect(w, r, localPath(r.PostFormValue("next"), "/"), http.StatusSeeOther)
}

// setSidebar answers 204 to the slider's background POST and redirects a
// plain form post.
func (h *Handler) setSidebar(w http.ResponseWriter, r *http.Request) {
	width := prefs.DefaultSidebarWidth
	if n, err := atoi(r.PostFormValue("width")); err == nil {
		width = n
	}
	prefs.SetSidebarWidth(w, width)
	if next := r.PostFormValue("next"); next != "" && r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		http.Redirect(w, r, localPath(next, "/admin"), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if !h.authCfg.DevLogin {
		h.notFound(w, r)
		return
	}
	f := h.frame(w, r)
	f.Head.Page("Giriş Yap")
	h.views.Render(w, http.StatusOK, view.Admin, "login", f)
}

func (h *Handler) sampleSettings() map[string]string { return h.sample.Settings }
