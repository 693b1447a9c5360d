package query

import (
	"context"

	"github.com/yanizio/viyakaptan/internal/apiclient"
	"github.com/yanizio/viyakaptan/internal/content"
)

// Aggregate scopes.  Every write invalidates both.
const (
	ScopeHomepage  = "homepage"
	ScopeDashboard = "dashboard"
)

// Client groups the cached collections the pages use.
type Client struct {
	Categories *Collection[content.Category, content.CategoryInput]
	Posts      *Posts
	Routes     *Collection[content.CaravanRoute, content.RouteInput]
	Hero       *Collection[content.HeroSection, content.HeroInput]
	Features   *Collection[content.FeatureCard, content.FeatureInput]
	Team       *Collection[content.TeamMember, content.TeamInput]
	Settings   *Settings
	Media      *Media

	api       *apiclient.Client
	homepage  *loader
	dashboard *loader
}

// New wires every collection to api through c.
func New(api *apiclient.Client, c Cache) *Client {
	deps := []string{ScopeHomepage, ScopeDashboard}
	return &Client{
		Categories: NewCollection[content.Category, content.CategoryInput](api.Categories, c, deps...),
		Posts:      &Posts{Collection: NewCollection[content.Post, content.PostInput](api.Posts, c, deps...), api: api.Posts},
		Routes:     NewCollection[content.CaravanRoute, content.RouteInput](api.Routes, c, deps...),
		Hero:       NewCollection[content.HeroSection, content.HeroInput](api.Hero, c, deps...),
		Features:   NewCollection[content.FeatureCard, content.FeatureInput](api.Features, c, deps...),
		Team:       NewCollection[content.TeamMember, content.TeamInput](api.Team, c, deps...),
		Settings:   &Settings{Reader: newReader[content.SiteSetting](api.Settings, c, ScopeHomepage), api: api.Settings},
		Media:      &Media{Reader: newReader[content.Media](api.Media, c), api: api.Media},

		api:       api,
		homepage:  newLoader(ScopeHomepage, c),
		dashboard: newLoader(ScopeDashboard, c),
	}
}

// Homepage returns the landing-page bundle.
func (q *Client) Homepage(ctx context.Context, opts ...ReadOption) (content.Homepage, error) {
	return load(ctx, q.homepage, "bundle", opts, q.api.Homepage.Get)
}

// Stats returns the dashboard counters.
func (q *Client) Stats(ctx context.Context, opts ...ReadOption) (content.Stats, error) {
	return load(ctx, q.dashboard, "stats", opts, q.api.Dashboard.Stats)
}

// Posts adds uncached view counting.
type Posts struct {
	*Collection[content.Post, content.PostInput]
	api *apiclient.Posts
}

// RecordView is fire-and-report; it does not invalidate, view counts may
// lag in cached lists until the TTL.
func (p *Posts) RecordView(ctx context.Context, id int64) error {
	return p.api.RecordView(ctx, id)
}

// Settings is the cached settings list plus bulk upsert.
type Settings struct {
	*Reader[content.SiteSetting]
	api *apiclient.Settings
}

// Map returns key → value, skipping empty values.
func (s *Settings) Map(ctx context.Context, opts ...ReadOption) (map[string]string, error) {
	rows, err := s.List(ctx, content.Filter{}, opts...)
	if err != nil {
		return nil, err
	}
	return content.SettingsMap(rows), nil
}

func (s *Settings) BulkUpsert(ctx context.Context, entries []content.SiteSetting) error {
	err := s.api.BulkUpsert(ctx, entries)
	if err == nil {
		s.Invalidate(ctx)
	}
	return err
}

// Media is the cached media list plus upload and delete.
type Media struct {
	*Reader[content.Media]
	api *apiclient.Media
}

func (m *Media) Upload(ctx context.Context, u apiclient.Upload) (content.Media, error) {
	row, err := m.api.Upload(ctx, u)
	if err == nil {
		m.Invalidate(ctx)
	}
	return row, err
}

func (m *Media) Delete(ctx context.Context, id int64) error {
	err := m.api.Delete(ctx, id)
	if err == nil {
		m.Invalidate(ctx)
	}
	return err
}
