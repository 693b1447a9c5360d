package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/errs"
)

// fakeSource counts list calls and serves rows from memory.
type fakeSource struct {
	mu     sync.Mutex
	rows   []content.Category
	lists  atomic.Int32
	gate   chan struct{}
	failOn error
}

func (f *fakeSource) Entity() string { return content.EntityCategories }

func (f *fakeSource) List(ctx context.Context, _ content.Filter) ([]content.Category, error) {
	f.lists.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]content.Category{}, f.rows...), nil
}

func (f *fakeSource) GetBySlug(ctx context.Context, slug string) (*content.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Slug == slug {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeSource) Create(ctx context.Context, in content.CategoryInput) (content.Category, error) {
	if f.failOn != nil {
		return content.Category{}, f.failOn
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	row := content.Category{ID: int64(len(f.rows) + 1), Name: in.Name, Slug: in.Slug}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeSource) Update(ctx context.Context, id int64, in content.CategoryInput) (content.Category, error) {
	if f.failOn != nil {
		return content.Category{}, f.failOn
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Name = in.Name
			return f.rows[i], nil
		}
	}
	return content.Category{}, errs.NotFound("Kategori", id)
}

func (f *fakeSource) Delete(ctx context.Context, id int64) error {
	if f.failOn != nil {
		return f.failOn
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errs.NotFound("Kategori", id)
}

func newFixture() (*fakeSource, *Collection[content.Category, content.CategoryInput], *Memory) {
	src := &fakeSource{rows: []content.Category{{ID: 1, Name: "Rotalar", Slug: "rotalar"}}}
	mem := NewMemory(64, time.Minute)
	return src, NewCollection[content.Category, content.CategoryInput](src, mem, ScopeHomepage), mem
}

func TestListIsCached(t *testing.T) {
	src, c, _ := newFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if got, err := c.List(ctx, content.Filter{}); err != nil || len(got) != 1 {
			t.Fatalf("List = %v, %v", got, err)
		}
	}
	if n := src.lists.Load(); n != 1 {
		t.Fatalf("source called %d times, want 1", n)
	}
	// A different filter is a different read.
	c.List(ctx, content.Filter{ActiveOnly: true})
	if n := src.lists.Load(); n != 2 {
		t.Fatalf("source called %d times, want 2", n)
	}
}

func TestSkipNeverCallsSource(t *testing.T) {
	src, c, _ := newFixture()
	_, err := c.List(context.Background(), content.Filter{}, Skip())
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v", err)
	}
	if _, err := c.GetBySlug(context.Background(), "rotalar", SkipIf(true)); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v", err)
	}
	if src.lists.Load() != 0 {
		t.Fatal("source was called")
	}
}

func TestSuccessfulWriteInvalidates(t *testing.T) {
	src, c, mem := newFixture()
	ctx := context.Background()
	c.List(ctx, content.Filter{})

	if _, err := c.Create(ctx, content.CategoryInput{Name: "Blog", Slug: "blog"}); err != nil {
		t.Fatal(err)
	}
	got, _ := c.List(ctx, content.Filter{})
	if len(got) != 2 || src.lists.Load() != 2 {
		t.Fatalf("after create: rows=%d calls=%d", len(got), src.lists.Load())
	}
	if g, _ := mem.Generation(ctx, ScopeHomepage); g != 1 {
		t.Fatalf("homepage generation = %d, want 1", g)
	}
}

func TestFailedWriteKeepsCache(t *testing.T) {
	src, c, mem := newFixture()
	ctx := context.Background()
	c.List(ctx, content.Filter{})

	src.failOn = errs.Conflict("Bu kategori zaten mevcut")
	if _, err := c.Update(ctx, 1, content.CategoryInput{Name: "X"}); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("err = %v", err)
	}
	if err := c.Delete(ctx, 1); err == nil {
		t.Fatal("expected error")
	}
	c.List(ctx, content.Filter{})
	if src.lists.Load() != 1 {
		t.Fatalf("cache was dropped after failed writes")
	}
	if g, _ := mem.Generation(ctx, content.EntityCategories); g != 0 {
		t.Fatalf("generation = %d, want 0", g)
	}
}

func TestConcurrentMissesShareOneFetch(t *testing.T) {
	src, c, _ := newFixture()
	src.gate = make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.List(context.Background(), content.Filter{})
		}()
	}
	// Let the goroutines pile up on the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	if n := src.lists.Load(); n != 1 {
		t.Fatalf("source called %d times, want 1", n)
	}
}

func TestSharedFetchSurvivesLeaderCancel(t *testing.T) {
	src, c, _ := newFixture()
	src.gate = make(chan struct{})

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.List(leaderCtx, content.Filter{})
		leaderErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	type result struct {
		rows []content.Category
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		rows, err := c.List(context.Background(), content.Filter{})
		follower <- result{rows, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("leader err = %v, want context.Canceled", err)
	}
	close(src.gate)

	got := <-follower
	if got.err != nil || len(got.rows) != 1 {
		t.Fatalf("follower = %v, %v", got.rows, got.err)
	}
	if n := src.lists.Load(); n != 1 {
		t.Fatalf("source called %d times, want 1", n)
	}
}

func TestLoadAcrossInvalidationIsNotServed(t *testing.T) {
	src, c, _ := newFixture()
	src.gate = make(chan struct{})
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		c.List(ctx, content.Filter{})
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	// A write lands while the read is in flight.
	c.Invalidate(ctx)
	close(src.gate)
	<-done

	src.gate = nil
	c.List(ctx, content.Filter{})
	if n := src.lists.Load(); n != 2 {
		t.Fatalf("source called %d times, want 2", n)
	}
}

func TestGetBySlugCachesMiss(t *testing.T) {
	_, c, _ := newFixture()
	got, err := c.GetBySlug(context.Background(), "yok")
	if err != nil || got != nil {
		t.Fatalf("GetBySlug = %v, %v", got, err)
	}
	got, err = c.GetBySlug(context.Background(), "rotalar")
	if err != nil || got == nil || got.ID != 1 {
		t.Fatalf("GetBySlug = %v, %v", got, err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(4, time.Second)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	m.Set(ctx, "posts", 0, "list:all", []byte("[]"))
	if _, ok, _ := m.Get(ctx, "posts", 0, "list:all"); !ok {
		t.Fatal("fresh entry missing")
	}
	now = now.Add(2 * time.Second)
	if _, ok, _ := m.Get(ctx, "posts", 0, "list:all"); ok {
		t.Fatal("expired entry served")
	}
}

func TestRedisKeyScheme(t *testing.T) {
	r := NewRedis(nil, time.Minute)
	if got := r.genKey("posts"); got != "viya:gen:posts" {
		t.Fatalf("genKey = %q", got)
	}
	if got := r.valueKey("posts", 3, "list:published"); got != "viya:posts:3:list:published" {
		t.Fatalf("valueKey = %q", got)
	}
}
