// internal/store/aggregate.go
//
// Read-only aggregates: dashboard counters and the landing-page bundle.
//
// Homepage fans its five reads out with errgroup; the first failure cancels
// the rest and is returned as-is.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yanizio/viyakaptan/internal/content"
)

const homepageLimit = 3

// Stats counts the dashboard cards.  Pages are the homepage content blocks
// (hero sections plus feature cards).
func (s *Store) Stats(ctx context.Context) (content.Stats, error) {
	var row struct {
		Posts      int `db:"posts"`
		Routes     int `db:"routes"`
		Categories int `db:"categories"`
		Pages      int `db:"pages"`
	}
	err := s.DB.GetContext(ctx, &row, `SELECT
		(SELECT COUNT(*) FROM posts) AS posts,
		(SELECT COUNT(*) FROM caravan_routes) AS routes,
		(SELECT COUNT(*) FROM categories) AS categories,
		(SELECT COUNT(*) FROM hero_sections) + (SELECT COUNT(*) FROM feature_cards) AS pages`)
	if err != nil {
		return content.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return content.Stats{Posts: row.Posts, Routes: row.Routes, Categories: row.Categories, Pages: row.Pages}, nil
}

// Homepage bundles everything the landing page shows.
func (s *Store) Homepage(ctx context.Context) (content.Homepage, error) {
	var (
		hp   content.Homepage
		hero content.HeroSection
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.DB.GetContext(gctx, &hero,
			"SELECT "+heroCols+" FROM hero_sections WHERE is_active = TRUE ORDER BY sort_order, id LIMIT 1")
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return fmt.Errorf("homepage hero: %w", err)
		}
		hp.Hero = &hero
		return nil
	})
	g.Go(func() (err error) {
		hp.Features, err = s.Features.List(gctx, content.Filter{ActiveOnly: true})
		return err
	})
	g.Go(func() error {
		hp.Posts = []content.Post{}
		err := s.DB.SelectContext(gctx, &hp.Posts,
			"SELECT "+postCols+" FROM posts WHERE is_published = TRUE "+
				"ORDER BY is_featured DESC, published_at DESC, id DESC LIMIT ?", homepageLimit)
		if err != nil {
			return fmt.Errorf("homepage posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		hp.Routes = []content.CaravanRoute{}
		err := s.DB.SelectContext(gctx, &hp.Routes,
			"SELECT "+routeCols+" FROM caravan_routes WHERE is_published = TRUE "+
				"ORDER BY is_featured DESC, id DESC LIMIT ?", homepageLimit)
		if err != nil {
			return fmt.Errorf("homepage routes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		hp.Settings, err = s.Settings.Map(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return content.Homepage{}, err
	}
	return hp, nil
}
