// internal/api/server.go
//
// JSON data API served by cmd/api.
//
// Context
// -------
// Every admin page and public page in cmd/web reads and writes through
// these routes (via internal/apiclient).  Reads are public; writes need a
// bearer session token whose role is admin.
//
//   GET    /api/{entity}                 ?activeOnly=&publishedOnly=
//   GET    /api/{entity}/by-slug/{slug}  categories, posts, routes
//   POST   /api/{entity}
//   PUT    /api/{entity}/{id}
//   DELETE /api/{entity}/{id}            204
//   GET    /api/settings                 PUT /api/settings (bulk upsert)
//   GET    /api/media                    POST /api/media (upload), DELETE /api/media/{id}
//   POST   /api/posts/{id}/view
//   GET    /api/dashboard/stats
//   GET    /api/homepage
//
// Errors are {"error":{"code","message","field"}} with the status from
// errs.Status.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/metrics"
	"github.com/yanizio/viyakaptan/internal/session"
	"github.com/yanizio/viyakaptan/internal/storage"
	"github.com/yanizio/viyakaptan/internal/store"
)

// maxBodyBytes bounds every request body.  Base64 inflates by 4/3, so a
// 10 MiB upload needs ~13.4 MiB on the wire.
const maxBodyBytes = 16 << 20

// Options configures New.
type Options struct {
	AllowedOrigins []string
	// MediaDir, when set, is served at /media/* (disk storage driver).
	MediaDir string
}

// Server holds the handler dependencies.
type Server struct {
	store    *store.Store
	blobs    storage.Blob
	sessions *session.Manager
	now      func() time.Time
}

// New returns the API router.
func New(st *store.Store, blobs storage.Blob, sessions *session.Manager, opts Options) http.Handler {
	s := &Server{store: st, blobs: blobs, sessions: sessions, now: time.Now}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(observe)

	r.Route("/api", func(r chi.Router) {
		mountCRUD[content.Category, content.CategoryInput](r, s, content.EntityCategories, st.Categories, st.Categories)
		mountCRUD[content.Post, content.PostInput](r, s, content.EntityPosts, st.Posts, st.Posts)
		mountCRUD[content.CaravanRoute, content.RouteInput](r, s, content.EntityRoutes, st.Routes, st.Routes)
		mountCRUD[content.HeroSection, content.HeroInput](r, s, content.EntityHero, st.Hero, nil)
		mountCRUD[content.FeatureCard, content.FeatureInput](r, s, content.EntityFeatures, st.Features, nil)
		mountCRUD[content.TeamMember, content.TeamInput](r, s, content.EntityTeam, st.Team, nil)

		r.Post("/posts/{id}/view", s.recordView)

		r.Get("/settings", s.listSettings)
		r.With(s.requireAdmin).Put("/settings", s.upsertSettings)

		r.Get("/media", s.listMedia)
		r.With(s.requireAdmin).Post("/media", s.upload)
		r.With(s.requireAdmin).Delete("/media/{id}", s.deleteMedia)

		r.Get("/dashboard/stats", s.stats)
		r.Get("/homepage", s.homepage)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: wireError{Code: "NOT_FOUND", Message: "bilinmeyen uç nokta"}})
		})
	})

	if opts.MediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(opts.MediaDir))))
	}
	return r
}

// observe records handler latency by route pattern.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		pattern := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			pattern = rc.RoutePattern()
		}
		metrics.APILatency.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	})
}
