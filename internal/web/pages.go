// internal/web/pages.go
//
// The six admin CRUD screens and their list columns.

package web

import (
	"context"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/editor"
)

func yesNo(b bool) string {
	if b {
		return "Evet"
	}
	return "Hayır"
}

func activeText(b bool) string {
	if b {
		return "Aktif"
	}
	return "Pasif"
}

func publishedText(b bool) string {
	if b {
		return "Yayında"
	}
	return "Taslak"
}

// mountEntities registers every CRUD page on the /admin sub-router.
func (h *Handler) mountEntities(r chi.Router) {
	(&entityPage[content.Category, content.CategoryInput]{
		h:       h,
		base:    adminPrefix + "/categories",
		schema:  editor.Categories,
		coll:    h.q.Categories,
		columns: []string{"Ad", "Slug", "Sıra", "Durum"},
		cells: func(c content.Category) []string {
			return []string{c.Name, c.Slug, strconv.Itoa(c.SortOrder), activeText(c.IsActive)}
		},
		label: func(c content.Category) string { return c.Name },
	}).mount(r)

	(&entityPage[content.Post, content.PostInput]{
		h:       h,
		base:    adminPrefix + "/posts",
		schema:  editor.Posts,
		coll:    h.q.Posts.Collection,
		columns: []string{"Başlık", "Yazar", "Görüntülenme", "Öne Çıkan", "Durum"},
		cells: func(p content.Post) []string {
			return []string{p.Title, p.AuthorName, strconv.Itoa(p.ViewCount), yesNo(p.IsFeatured), publishedText(p.IsPublished)}
		},
		label:   func(p content.Post) string { return p.Title },
		options: h.categoryOptions,
	}).mount(r)

	(&entityPage[content.CaravanRoute, content.RouteInput]{
		h:       h,
		base:    adminPrefix + "/routes",
		schema:  editor.Routes,
		coll:    h.q.Routes,
		columns: []string{"Rota", "Mesafe", "Süre", "Zorluk", "Durum"},
		cells: func(rt content.CaravanRoute) []string {
			return []string{rt.Name, rt.Distance, rt.Duration, rt.Difficulty.Label(), publishedText(rt.IsPublished)}
		},
		label: func(rt content.CaravanRoute) string { return rt.Name },
	}).mount(r)

	(&entityPage[content.HeroSection, content.HeroInput]{
		h:       h,
		base:    adminPrefix + "/hero",
		schema:  editor.Hero,
		coll:    h.q.Hero,
		columns: []string{"Başlık", "Alt Başlık", "Sıra", "Durum"},
		cells: func(s content.HeroSection) []string {
			return []string{s.Title, s.Subtitle, strconv.Itoa(s.SortOrder), activeText(s.IsActive)}
		},
		label: func(s content.HeroSection) string { return s.Title },
	}).mount(r)

	(&entityPage[content.FeatureCard, content.FeatureInput]{
		h:       h,
		base:    adminPrefix + "/features",
		schema:  editor.Features,
		coll:    h.q.Features,
		columns: []string{"Başlık", "İkon", "Sıra", "Durum"},
		cells: func(fc content.FeatureCard) []string {
			return []string{fc.Title, fc.Icon, strconv.Itoa(fc.SortOrder), activeText(fc.IsActive)}
		},
		label: func(fc content.FeatureCard) string { return fc.Title },
	}).mount(r)

	(&entityPage[content.TeamMember, content.TeamInput]{
		h:       h,
		base:    adminPrefix + "/team",
		schema:  editor.Team,
		coll:    h.q.Team,
		columns: []string{"Ad", "Unvan", "Sıra", "Durum"},
		cells: func(m content.TeamMember) []string {
			return []string{m.Name, m.Title, strconv.Itoa(m.SortOrder), activeText(m.IsActive)}
		},
		label: func(m content.TeamMember) string { return m.Name },
	}).mount(r)
}

// categoryOptions is NoCategory followed by every category, active or not.
// A failed read leaves only NoCategory.
func (h *Handler) categoryOptions(ctx context.Context) map[string][]editor.Option {
	opts := []editor.Option{editor.NoCategory}
	cats, err := h.q.Categories.List(ctx, content.Filter{})
	if err == nil {
		for _, c := range cats {
			opts = append(opts, editor.Option{Value: strconv.FormatInt(c.ID, 10), Label: c.Name})
		}
	}
	return map[string][]editor.Option{"categoryId": opts}
}
