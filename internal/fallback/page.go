// internal/fallback/page.go
//
// Fallback-aware page state for the public list and detail pages.
//
// Context
// -------
// A page prefers live API data.  The first failed primary read flips the
// page into fallback mode; from then on every read the page issues carries
// query.Skip(), so nothing reaches the network, and all content comes from
// the bundled sample.  The flip is one-way: nothing in this file leaves
// Fallback.
//
// A page lives for one request.  The next request starts live again (or in
// fallback when fallback.force is set).
//
// Statuses
// --------
//   Loading   primary read not resolved yet
//   Ready     live data, non-empty
//   Empty     live data, zero rows or no such slug (not a failure)
//   Fallback  sample data, banner shown

package fallback

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/metrics"
	"github.com/yanizio/viyakaptan/internal/query"
)

// Banner is shown on every page rendered from sample data.
const Banner = "Mock Data Modu: Database bağlantısı yok, örnek veriler gösteriliyor."

type Status int

const (
	Loading Status = iota
	Ready
	Empty
	Fallback
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Fallback:
		return "fallback"
	default:
		return "loading"
	}
}

// Read is a live read that honors query read options.
type Read[T any] func(ctx context.Context, opts ...query.ReadOption) (T, error)

// Page holds one page's data and mode.
type Page[T any] struct {
	name  string
	empty func(T) bool

	mu       sync.Mutex
	status   Status
	fallback bool
	data     T
	cause    error
}

// NewList returns a page over a list; zero rows is Empty.
func NewList[E any](name string, force bool) *Page[[]E] {
	return newPage(name, force, func(xs []E) bool { return len(xs) == 0 })
}

// NewDetail returns a page over one record; nil is Empty.
func NewDetail[E any](name string, force bool) *Page[*E] {
	return newPage(name, force, func(x *E) bool { return x == nil })
}

// NewValue returns a page over an aggregate that is never Empty.
func NewValue[T any](name string, force bool) *Page[T] {
	return newPage(name, force, func(T) bool { return false })
}

func newPage[T any](name string, force bool, empty func(T) bool) *Page[T] {
	p := &Page[T]{name: name, empty: empty}
	if force {
		p.fallback = true
	}
	return p
}

// Load runs the primary read.  On error it switches to fallback and serves
// sample() instead.  In fallback mode read is still called, with Skip, so
// the read site stays the same in both modes.
func (p *Page[T]) Load(ctx context.Context, read Read[T], sample func() T) {
	v, err := read(ctx, p.Skip())

	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.fallback:
		p.data, p.status = sample(), Fallback
	case err != nil && ctx.Err() != nil:
		// The visitor left; not an outage.
		p.cause, p.status = err, Loading
	case err != nil:
		p.enter(err)
		p.data, p.status = sample(), Fallback
	case p.empty(v):
		p.data, p.status = v, Empty
	default:
		p.data, p.status = v, Ready
	}
}

// enter flips into fallback.  Caller holds mu.
func (p *Page[T]) enter(err error) {
	if p.fallback {
		return
	}
	p.fallback, p.cause = true, err
	metrics.FallbackActivations.WithLabelValues(p.name).Inc()
	zap.L().Warn("api unavailable, serving sample data", zap.String("page", p.name), zap.Error(err))
}

// Skip is the read option for every read this page issues: live while the
// page is live, disabled once it has fallen back.
func (p *Page[T]) Skip() query.ReadOption {
	return query.SkipIf(p.InFallback())
}

// InFallback reports whether the page has fallen back.
func (p *Page[T]) InFallback() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fallback
}

func (p *Page[T]) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Page[T]) Data() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

// Cause is the error that triggered fallback, if any.
func (p *Page[T]) Cause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cause
}

// Banner is the fallback banner, or "" while live.
func (p *Page[T]) Banner() string {
	if p.InFallback() {
		return Banner
	}
	return ""
}

// Sibling runs a secondary read on p's page (settings, categories).  It is
// skipped once p has fallen back, and sample() is served instead.  A
// secondary failure on a live page is logged and yields the zero value; it
// does not flip the page.
func Sibling[T, S any](ctx context.Context, p *Page[T], read Read[S], sample func() S) S {
	v, err := read(ctx, p.Skip())
	if p.InFallback() {
		return sample()
	}
	if err != nil {
		if !errors.Is(err, query.ErrDisabled) && ctx.Err() == nil {
			zap.L().Warn("secondary read failed", zap.String("page", p.name), zap.Error(err))
		}
		var zero S
		return zero
	}
	return v
}
