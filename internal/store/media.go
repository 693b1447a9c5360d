package store

import (
	"context"

	"github.com/yanizio/viyakaptan/internal/content"
)

const mediaCols = "id, object_key, url, original_name, mime_type, size, alt, caption, created_at"

// Media holds upload metadata.  Blobs live in internal/storage; the API
// stores the blob first and records it here second.
type Media struct {
	t table[content.Media]
}

func (r *Media) List(ctx context.Context) ([]content.Media, error) {
	return r.t.list(ctx, nil)
}

func (r *Media) Get(ctx context.Context, id int64) (content.Media, error) {
	return r.t.byID(ctx, id)
}

func (r *Media) Create(ctx context.Context, m content.Media) (content.Media, error) {
	return r.t.insert(ctx,
		`INSERT INTO media (object_key, url, original_name, mime_type, size, alt, caption)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ObjectKey, m.URL, m.OriginalName, m.MimeType, m.Size, m.Alt, m.Caption)
}

// Delete removes the row and returns it so the caller can drop the blob.
func (r *Media) Delete(ctx context.Context, id int64) (content.Media, error) {
	m, err := r.t.byID(ctx, id)
	if err != nil {
		return m, err
	}
	return m, r.t.delete(ctx, id)
}
