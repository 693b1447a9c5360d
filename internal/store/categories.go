package store

import (
	"context"

	"github.com/yanizio/viyakaptan/internal/content"
)

const categoryCols = "id, name, slug, description, icon, color, sort_order, is_active, created_at, updated_at"

type Categories struct {
	t table[content.Category]
}

func (r *Categories) List(ctx context.Context, f content.Filter) ([]content.Category, error) {
	return r.t.list(ctx, activeWhere(f.ActiveOnly))
}

func (r *Categories) GetBySlug(ctx context.Context, slug string) (*content.Category, error) {
	return r.t.bySlug(ctx, slug)
}

func (r *Categories) Get(ctx context.Context, id int64) (content.Category, error) {
	return r.t.byID(ctx, id)
}

func (r *Categories) Create(ctx context.Context, in content.CategoryInput) (content.Category, error) {
	if err := content.Validate(in); err != nil {
		return content.Category{}, err
	}
	return r.t.insert(ctx,
		`INSERT INTO categories (name, slug, description, icon, color, sort_order, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Slug, in.Description, in.Icon, in.Color, in.SortOrder, in.IsActive)
}

func (r *Categories) Update(ctx context.Context, id int64, in content.CategoryInput) (content.Category, error) {
	if err := content.Validate(in); err != nil {
		return content.Category{}, err
	}
	return r.t.update(ctx, id,
		`UPDATE categories SET name = ?, slug = ?, description = ?, icon = ?, color = ?,
		 sort_order = ?, is_active = ? WHERE id = ?`,
		in.Name, in.Slug, in.Description, in.Icon, in.Color, in.SortOrder, in.IsActive)
}

func (r *Categories) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}
