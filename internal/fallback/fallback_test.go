package fallback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
	"github.com/yanizio/viyakaptan/internal/query"
)

// countingRead returns rows/err and counts calls that were not skipped.
type countingRead struct {
	rows  []content.Post
	err   error
	calls int
}

func (c *countingRead) read(ctx context.Context, opts ...query.ReadOption) ([]content.Post, error) {
	// Mirror the query layer: a skipped read never reaches the source.
	mem := query.NewMemory(4, 0)
	src := &postSource{c: c}
	col := query.NewCollection[content.Post, content.PostInput](src, mem)
	return col.List(ctx, content.Filter{PublishedOnly: true}, opts...)
}

type postSource struct{ c *countingRead }

func (s *postSource) Entity() string { return content.EntityPosts }
func (s *postSource) List(context.Context, content.Filter) ([]content.Post, error) {
	s.c.calls++
	return s.c.rows, s.c.err
}
func (s *postSource) GetBySlug(context.Context, string) (*content.Post, error) { return nil, nil }
func (s *postSource) Create(context.Context, content.PostInput) (content.Post, error) {
	return content.Post{}, nil
}
func (s *postSource) Update(context.Context, int64, content.PostInput) (content.Post, error) {
	return content.Post{}, nil
}
func (s *postSource) Delete(context.Context, int64) error { return nil }

func samplePosts() []content.Post { return Sample().Posts }

func TestLiveReady(t *testing.T) {
	r := &countingRead{rows: []content.Post{{ID: 1}}}
	p := NewList[content.Post]("blog", false)
	p.Load(context.Background(), r.read, samplePosts)
	if p.Status() != Ready || p.Banner() != "" || len(p.Data()) != 1 {
		t.Fatalf("status=%v banner=%q", p.Status(), p.Banner())
	}
}

func TestLiveEmptyIsNotFallback(t *testing.T) {
	r := &countingRead{rows: []content.Post{}}
	p := NewList[content.Post]("blog", false)
	p.Load(context.Background(), r.read, samplePosts)
	if p.Status() != Empty || p.InFallback() {
		t.Fatalf("status = %v", p.Status())
	}
}

func TestFailureFallsBackOnceAndStays(t *testing.T) {
	r := &countingRead{err: errs.Unreachable(errors.New("connection refused"))}
	p := NewList[content.Post]("blog", false)
	ctx := context.Background()

	p.Load(ctx, r.read, samplePosts)
	if p.Status() != Fallback || p.Banner() != Banner {
		t.Fatalf("status=%v banner=%q", p.Status(), p.Banner())
	}
	if len(p.Data()) != 3 {
		t.Fatalf("sample rows = %d", len(p.Data()))
	}

	// The API recovers, but the page never goes back.
	r.err, r.rows = nil, []content.Post{{ID: 99}}
	p.Load(ctx, r.read, samplePosts)
	if p.Status() != Fallback {
		t.Fatalf("status = %v", p.Status())
	}
	if r.calls != 1 {
		t.Fatalf("live reads after fallback: %d calls", r.calls)
	}
}

func TestForcedFallbackNeverCallsAPI(t *testing.T) {
	r := &countingRead{rows: []content.Post{{ID: 1}}}
	p := NewList[content.Post]("blog", true)
	p.Load(context.Background(), r.read, samplePosts)
	if p.Status() != Fallback || r.calls != 0 {
		t.Fatalf("status=%v calls=%d", p.Status(), r.calls)
	}
}

func TestSiblingSkippedInFallback(t *testing.T) {
	p := NewList[content.Post]("blog", true)
	called := false
	got := Sibling(context.Background(), p, func(context.Context, ...query.ReadOption) (map[string]string, error) {
		called = true
		return nil, query.ErrDisabled
	}, func() map[string]string { return Sample().Settings })
	if got["site_title"] != "Viya Kaptan" || !called {
		t.Fatalf("settings = %v", got)
	}
}

func TestDetailMissIsEmpty(t *testing.T) {
	p := NewDetail[content.Post]("blog-post", false)
	p.Load(context.Background(),
		func(context.Context, ...query.ReadOption) (*content.Post, error) { return nil, nil },
		func() *content.Post { return Sample().PostBySlug("yok") })
	if p.Status() != Empty {
		t.Fatalf("status = %v", p.Status())
	}
}

func TestDatasetShape(t *testing.T) {
	d := Sample()
	if len(d.Categories) != 3 || len(d.Posts) != 3 || len(d.Routes) != 2 ||
		d.Hero == nil || len(d.Features) != 4 || len(d.Team) != 2 {
		t.Fatalf("dataset counts: %d %d %d %v %d %d",
			len(d.Categories), len(d.Posts), len(d.Routes), d.Hero != nil, len(d.Features), len(d.Team))
	}
	if !strings.Contains(d.Posts[0].Content, "<h2>") {
		t.Fatalf("markdown not rendered: %q", d.Posts[0].Content)
	}
	if d.Posts[0].Slug != "tekne-bakimi-ilkbahar-hazirligi" {
		t.Fatalf("posts not newest first: %s", d.Posts[0].Slug)
	}
	r := d.RouteBySlug("kapadokya-cevresi")
	if r == nil || r.Difficulty != content.Easy || len(r.Locations) != 4 {
		t.Fatalf("route = %#v", r)
	}
	if got := d.Team[1].SocialLinks["instagram"]; got == "" {
		t.Fatal("social links not decoded")
	}
}
