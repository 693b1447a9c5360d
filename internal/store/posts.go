// internal/store/posts.go
//
// Blog posts.  published_at is written once: the first save with
// is_published = TRUE stamps it, later saves keep whatever is stored, and
// nothing ever clears it.  An explicit PublishedAt on the input wins over
// "now" for that first stamp.

package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/viyakaptan/internal/content"
)

const postCols = "id, title, slug, excerpt, content, featured_image, author_name, author_title, " +
	"author_image, category_id, read_time, view_count, is_published, is_featured, meta_title, " +
	"meta_description, published_at, created_at, updated_at"

type Posts struct {
	t table[content.Post]
}

func newPosts(db *sqlx.DB) *Posts {
	return &Posts{t: newTable[content.Post](db, "posts", "Yazı", postCols, "published_at DESC, id DESC")}
}

func (r *Posts) List(ctx context.Context, f content.Filter) ([]content.Post, error) {
	return r.t.list(ctx, publishedWhere(f.PublishedOnly))
}

func (r *Posts) GetBySlug(ctx context.Context, slug string) (*content.Post, error) {
	return r.t.bySlug(ctx, slug)
}

func (r *Posts) Get(ctx context.Context, id int64) (content.Post, error) {
	return r.t.byID(ctx, id)
}

// firstPublish is the timestamp to stamp if the row has none yet.
func firstPublish(in content.PostInput) *time.Time {
	if !in.IsPublished {
		return nil
	}
	if in.PublishedAt != nil {
		t := in.PublishedAt.UTC()
		return &t
	}
	now := clock()
	return &now
}

func (r *Posts) Create(ctx context.Context, in content.PostInput) (content.Post, error) {
	if err := content.Validate(in); err != nil {
		return content.Post{}, err
	}
	return r.t.insert(ctx,
		`INSERT INTO posts (title, slug, excerpt, content, featured_image, author_name, author_title,
		 author_image, category_id, read_time, is_published, is_featured, meta_title, meta_description,
		 published_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Slug, in.Excerpt, in.Content, in.FeaturedImage, in.AuthorName, in.AuthorTitle,
		in.AuthorImage, in.CategoryID, in.ReadTime, in.IsPublished, in.IsFeatured, in.MetaTitle,
		in.MetaDescription, firstPublish(in))
}

func (r *Posts) Update(ctx context.Context, id int64, in content.PostInput) (content.Post, error) {
	if err := content.Validate(in); err != nil {
		return content.Post{}, err
	}
	return r.t.update(ctx, id,
		`UPDATE posts SET title = ?, slug = ?, excerpt = ?, content = ?, featured_image = ?,
		 author_name = ?, author_title = ?, author_image = ?, category_id = ?, read_time = ?,
		 is_published = ?, is_featured = ?, meta_title = ?, meta_description = ?,
		 published_at = COALESCE(published_at, ?) WHERE id = ?`,
		in.Title, in.Slug, in.Excerpt, in.Content, in.FeaturedImage, in.AuthorName, in.AuthorTitle,
		in.AuthorImage, in.CategoryID, in.ReadTime, in.IsPublished, in.IsFeatured, in.MetaTitle,
		in.MetaDescription, firstPublish(in))
}

func (r *Posts) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

// RecordView bumps the counter of a published post.  Unknown or draft ids
// are ignored.
func (r *Posts) RecordView(ctx context.Context, id int64) error {
	_, err := r.t.db.ExecContext(ctx,
		"UPDATE posts SET view_count = view_count + 1 WHERE id = ? AND is_published = TRUE", id)
	return err
}
