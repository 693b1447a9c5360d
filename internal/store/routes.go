package store

import (
	"context"

	"github.com/yanizio/viyakaptan/internal/content"
)

const routeCols = "id, name, slug, description, content, featured_image, distance, duration, difficulty, " +
	"locations, highlights, tips, gallery, is_published, is_featured, meta_title, meta_description, " +
	"created_at, updated_at"

// Routes stores caravan routes.  List fields are JSON columns.
type Routes struct {
	t table[content.CaravanRoute]
}

func (r *Routes) List(ctx context.Context, f content.Filter) ([]content.CaravanRoute, error) {
	return r.t.list(ctx, publishedWhere(f.PublishedOnly))
}

func (r *Routes) GetBySlug(ctx context.Context, slug string) (*content.CaravanRoute, error) {
	return r.t.bySlug(ctx, slug)
}

func (r *Routes) Get(ctx context.Context, id int64) (content.CaravanRoute, error) {
	return r.t.byID(ctx, id)
}

func (r *Routes) Create(ctx context.Context, in content.RouteInput) (content.CaravanRoute, error) {
	if in.Difficulty == "" {
		in.Difficulty = content.Medium
	}
	if err := content.Validate(in); err != nil {
		return content.CaravanRoute{}, err
	}
	return r.t.insert(ctx,
		`INSERT INTO caravan_routes (name, slug, description, content, featured_image, distance, duration,
		 difficulty, locations, highlights, tips, gallery, is_published, is_featured, meta_title,
		 meta_description) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Slug, in.Description, in.Content, in.FeaturedImage, in.Distance, in.Duration,
		in.Difficulty, in.Locations, in.Highlights, in.Tips, in.Gallery, in.IsPublished, in.IsFeatured,
		in.MetaTitle, in.MetaDescription)
}

func (r *Routes) Update(ctx context.Context, id int64, in content.RouteInput) (content.CaravanRoute, error) {
	if in.Difficulty == "" {
		in.Difficulty = content.Medium
	}
	if err := content.Validate(in); err != nil {
		return content.CaravanRoute{}, err
	}
	return r.t.update(ctx, id,
		`UPDATE caravan_routes SET name = ?, slug = ?, description = ?, content = ?, featured_image = ?,
		 distance = ?, duration = ?, difficulty = ?, locations = ?, highlights = ?, tips = ?, gallery = ?,
		 is_published = ?, is_featured = ?, meta_title = ?, meta_description = ? WHERE id = ?`,
		in.Name, in.Slug, in.Description, in.Content, in.FeaturedImage, in.Distance, in.Duration,
		in.Difficulty, in.Locations, in.Highlights, in.Tips, in.Gallery, in.IsPublished, in.IsFeatured,
		in.MetaTitle, in.MetaDescription)
}

func (r *Routes) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}
