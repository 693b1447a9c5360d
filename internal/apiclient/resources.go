package apiclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
)

// MaxUploadBytes mirrors the server's decoded-size ceiling.
const MaxUploadBytes = 10 << 20

// Resource is the standard five-operation surface of one entity.
type Resource[T, In any] struct {
	c      *Client
	entity string
}

func newResource[T, In any](c *Client, entity string) *Resource[T, In] {
	return &Resource[T, In]{c: c, entity: entity}
}

// Entity is the API path segment, also used as the cache scope.
func (r *Resource[T, In]) Entity() string { return r.entity }

func (r *Resource[T, In]) List(ctx context.Context, f content.Filter) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, "/"+r.entity, filterQuery(f), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// GetBySlug returns nil, nil when no row has slug.
func (r *Resource[T, In]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	var out *T
	err := r.c.do(ctx, http.MethodGet, "/"+r.entity+"/by-slug/"+url.PathEscape(slug), nil, nil, &out)
	return out, err
}

func (r *Resource[T, In]) Create(ctx context.Context, in In) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, "/"+r.entity, nil, in, &out)
	return out, err
}

func (r *Resource[T, In]) Update(ctx context.Context, id int64, in In) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPut, idPath(r.entity, id), nil, in, &out)
	return out, err
}

func (r *Resource[T, In]) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, http.MethodDelete, idPath(r.entity, id), nil, nil, nil)
}

// Posts adds view counting to the standard surface.
type Posts struct {
	*Resource[content.Post, content.PostInput]
}

func (p *Posts) RecordView(ctx context.Context, id int64) error {
	return p.c.do(ctx, http.MethodPost, idPath(content.EntityPosts, id)+"/view", nil, nil, nil)
}

// Settings is list plus bulk upsert.
type Settings struct{ c *Client }

func (s *Settings) Entity() string { return content.EntitySettings }

// List ignores f; settings have no active/published flags.
func (s *Settings) List(ctx context.Context, _ content.Filter) ([]content.SiteSetting, error) {
	var out []content.SiteSetting
	if err := s.c.do(ctx, http.MethodGet, "/settings", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []content.SiteSetting{}
	}
	return out, nil
}

func (s *Settings) BulkUpsert(ctx context.Context, entries []content.SiteSetting) error {
	return s.c.do(ctx, http.MethodPut, "/settings", nil, entries, nil)
}

// Upload is one file to send to the media library.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
	Alt      string
	Caption  string
}

// Media is list, upload, and delete.
type Media struct{ c *Client }

func (m *Media) Entity() string { return content.EntityMedia }

func (m *Media) List(ctx context.Context, _ content.Filter) ([]content.Media, error) {
	var out []content.Media
	if err := m.c.do(ctx, http.MethodGet, "/media", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []content.Media{}
	}
	return out, nil
}

// Upload rejects files over MaxUploadBytes without contacting the API.
func (m *Media) Upload(ctx context.Context, u Upload) (content.Media, error) {
	if len(u.Data) > MaxUploadBytes {
		return content.Media{}, errs.PayloadTooLarge(fmt.Sprintf("Dosya boyutu %dMB'dan küçük olmalıdır", MaxUploadBytes>>20))
	}
	in := content.UploadInput{
		Filename: u.Filename,
		MimeType: u.MimeType,
		Base64:   base64.StdEncoding.EncodeToString(u.Data),
		Alt:      u.Alt,
		Caption:  u.Caption,
	}
	var out content.Media
	err := m.c.do(ctx, http.MethodPost, "/media", nil, in, &out)
	return out, err
}

func (m *Media) Delete(ctx context.Context, id int64) error {
	return m.c.do(ctx, http.MethodDelete, idPath(content.EntityMedia, id), nil, nil, nil)
}

type Dashboard struct{ c *Client }

func (d *Dashboard) Stats(ctx context.Context) (content.Stats, error) {
	var out content.Stats
	err := d.c.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &out)
	return out, err
}

type Homepage struct{ c *Client }

func (h *Homepage) Get(ctx context.Context) (content.Homepage, error) {
	var out content.Homepage
	err := h.c.do(ctx, http.MethodGet, "/homepage", nil, nil, &out)
	return out, err
}
