// internal/web/public.go
//
// Public pages.  Every handler builds one fallback.Page, runs the primary
// read through it, and issues its sibling reads (settings, categories,
// team) with the page's Skip option so nothing reaches the API once the
// page has fallen back.

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/fallback"
	"github.com/yanizio/viyakaptan/internal/query"
	"github.com/yanizio/viyakaptan/internal/requestinfo"
	"github.com/yanizio/viyakaptan/internal/view"
)

// viewTimeout bounds the detached view-count call.
const viewTimeout = 5 * time.Second

type homeData struct {
	Hero     *content.HeroSection
	Features []content.FeatureCard
	Posts    []content.Post
	Routes   []content.CaravanRoute
	Team     []content.TeamMember
}

type blogData struct {
	Loading    bool
	Posts      []content.Post
	Categories []content.Category
	Active     string
}

type postData struct {
	Loading  bool
	Post     *content.Post
	Category *content.Category
}

type routesData struct {
	Loading bool
	Routes  []content.CaravanRoute
}

type routeData struct {
	Loading bool
	Route   *content.CaravanRoute
}

// settingsFor reads the site settings on p's behalf.
func settingsFor[T any](ctx context.Context, h *Handler, p *fallback.Page[T]) map[string]string {
	return fallback.Sibling(ctx, p, h.q.Settings.Map, h.sampleSettings)
}

//
// home
//

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := fallback.NewValue[content.Homepage]("home", h.force)
	page.Load(ctx, h.q.Homepage, h.sample.Homepage)

	hp := page.Data()
	team := fallback.Sibling(ctx, page,
		func(ctx context.Context, opts ...query.ReadOption) ([]content.TeamMember, error) {
			return h.q.Team.List(ctx, content.Filter{ActiveOnly: true}, opts...)
		},
		func() []content.TeamMember { return h.sample.Team })

	f := h.frame(w, r)
	f.Banner = page.Banner()
	f.Settings = hp.Settings
	f.Head.Seed(hp.Settings)
	f.Head.Canonical(origin(r) + "/")
	f.Data = homeData{
		Hero:     hp.Hero,
		Features: hp.Features,
		Posts:    hp.Posts,
		Routes:   hp.Routes,
		Team:     team,
	}
	h.views.Render(w, http.StatusOK, view.Public, "home", f)
}

//
// blog
//

func (h *Handler) blog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := fallback.NewList[content.Post]("blog", h.force)
	page.Load(ctx,
		func(ctx context.Context, opts ...query.ReadOption) ([]content.Post, error) {
			return h.q.Posts.List(ctx, content.Filter{PublishedOnly: true}, opts...)
		},
		func() []content.Post { return h.sample.Posts })

	cats := fallback.Sibling(ctx, page, h.activeCategories, func() []content.Category { return h.sample.Categories })
	active := strings.TrimSpace(r.URL.Query().Get("category"))

	f := h.frame(w, r)
	f.Banner = page.Banner()
	f.Settings = settingsFor(ctx, h, page)
	f.Head.Seed(f.Settings)
	f.Head.Page("Blog")
	f.Head.Canonical(origin(r) + "/blog")
	f.Data = blogData{
		Loading:    page.Status() == fallback.Loading,
		Posts:      byCategory(page.Data(), cats, active),
		Categories: cats,
		Active:     active,
	}
	h.views.Render(w, http.StatusOK, view.Public, "blog", f)
}

func (h *Handler) activeCategories(ctx context.Context, opts ...query.ReadOption) ([]content.Category, error) {
	return h.q.Categories.List(ctx, content.Filter{ActiveOnly: true}, opts...)
}

// byCategory keeps posts of the category with slug; "" keeps all.  An
// unknown slug yields no posts.
func byCategory(posts []content.Post, cats []content.Category, slug string) []content.Post {
	if slug == "" {
		return posts
	}
	var id int64 = -1
	for _, c := range cats {
		if c.Slug == slug {
			id = c.ID
			break
		}
	}
	out := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if p.CategoryID != nil && *p.CategoryID == id {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	page := fallback.NewDetail[content.Post]("post", h.force)
	page.Load(ctx,
		func(ctx context.Context, opts ...query.ReadOption) (*content.Post, error) {
			return h.q.Posts.GetBySlug(ctx, slug, opts...)
		},
		func() *content.Post { return h.sample.PostBySlug(slug) })

	p := page.Data()
	if p != nil && !p.IsPublished {
		p = nil
	}

	f := h.frame(w, r)
	f.Banner = page.Banner()
	f.Settings = settingsFor(ctx, h, page)
	f.Head.Seed(f.Settings)

	data := postData{Loading: page.Status() == fallback.Loading, Post: p}
	status := http.StatusOK
	switch {
	case data.Loading:
	case p == nil:
		status = http.StatusNotFound
		f.Head.Page("Yazı Bulunamadı")
	default:
		f.Head.Page(p.Title)
		f.Head.Describe(p.Excerpt)
		f.Head.Override(p.MetaTitle, p.MetaDescription)
		f.Head.Image(p.FeaturedImage)
		f.Head.Canonical(origin(r) + "/blog/" + p.Slug)
		f.Head.JSONLD(articleLD(p))
		if p.CategoryID != nil {
			cats := fallback.Sibling(ctx, page, h.activeCategories, func() []content.Category { return h.sample.Categories })
			for i := range cats {
				if cats[i].ID == *p.CategoryID {
					data.Category = &cats[i]
					break
				}
			}
		}
		if page.Status() == fallback.Ready && !requestinfo.IsBot(ctx) {
			h.recordView(ctx, p.ID)
		}
	}
	f.Data = data
	h.views.Render(w, status, view.Public, "post", f)
}

// recordView counts a human page view without holding up the response.
func (h *Handler) recordView(ctx context.Context, id int64) {
	go func() {
		vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), viewTimeout)
		defer cancel()
		if err := h.q.Posts.RecordView(vctx, id); err != nil {
			zap.L().Debug("record view", zap.Int64("post", id), zap.Error(err))
		}
	}()
}

func articleLD(p *content.Post) string {
	ld := map[string]any{
		"@context": "https://schema.org",
		"@type":    "BlogPosting",
		"headline": p.Title,
	}
	if p.AuthorName != "" {
		ld["author"] = map[string]string{"@type": "Person", "name": p.AuthorName}
	}
	if p.FeaturedImage != "" {
		ld["image"] = p.FeaturedImage
	}
	if p.PublishedAt != nil {
		ld["datePublished"] = p.PublishedAt.Format(time.RFC3339)
	}
	b, err := json.Marshal(ld)
	if err != nil {
		return ""
	}
	return string(b)
}

//
// caravan routes
//

func (h *Handler) routes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := fallback.NewList[content.CaravanRoute]("routes", h.force)
	page.Load(ctx,
		func(ctx context.Context, opts ...query.ReadOption) ([]content.CaravanRoute, error) {
			return h.q.Routes.List(ctx, content.Filter{PublishedOnly: true}, opts...)
		},
		func() []content.CaravanRoute { return h.sample.Routes })

	f := h.frame(w, r)
	f.Banner = page.Banner()
	f.Settings = settingsFor(ctx, h, page)
	f.Head.Seed(f.Settings)
	f.Head.Page("Karavan Rotaları")
	f.Head.Canonical(origin(r) + "/karavan")
	f.Data = routesData{Loading: page.Status() == fallback.Loading, Routes: page.Data()}
	h.views.Render(w, http.StatusOK, view.Public, "routes", f)
}

func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	page := fallback.NewDetail[content.CaravanRoute]("route", h.force)
	page.Load(ctx,
		func(ctx context.Context, opts ...query.ReadOption) (*content.CaravanRoute, error) {
			return h.q.Routes.GetBySlug(ctx, slug, opts...)
		},
		func() *content.CaravanRoute { return h.sample.RouteBySlug(slug) })

	rt := page.Data()
	if rt != nil && !rt.IsPublished {
		rt = nil
	}

	f := h.frame(w, r)
	f.Banner = page.Banner()
	f.Settings = settingsFor(ctx, h, page)
	f.Head.Seed(f.Settings)

	data := routeData{Loading: page.Status() == fallback.Loading, Route: rt}
	status := http.StatusOK
	switch {
	case data.Loading:
	case rt == nil:
		status = http.StatusNotFound
		f.Head.Page("Rota Bulunamadı")
	default:
		f.Head.Page(rt.Name)
		f.Head.Describe(rt.Description)
		f.Head.Override(rt.MetaTitle, rt.MetaDescription)
		f.Head.Image(rt.FeaturedImage)
		f.Head.Canonical(origin(r) + "/karavan/" + rt.Slug)
	}
	f.Data = data
	h.views.Render(w, status, view.Public, "route", f)
}
