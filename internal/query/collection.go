// internal/query/collection.go
//
// Cached entity collections over the API client.
//
// Context
// -------
// Reads go cache → singleflight → API.  Writes go straight to the API and,
// only when the API reports success, invalidate every cached read of that
// entity (plus any dependent scopes such as the homepage bundle).  Nothing
// is patched in place; the next read refetches.
//
// No retries: one call per user action.  A read option can disable a read
// entirely, which is how fallback pages stop talking to the API.

package query

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/viyakaptan/internal/content"
	"github.com/yanizio/viyakaptan/internal/metrics"
)

// ErrDisabled is returned by reads skipped through Skip.
var ErrDisabled = errors.New("query: read disabled")

// sharedFetchTimeout bounds a fetch shared by concurrent misses.
const sharedFetchTimeout = 30 * time.Second

type readOpts struct {
	skip  bool
	fresh bool
}

// ReadOption adjusts a single read.
type ReadOption func(*readOpts)

// Skip disables the read: no cache lookup, no network call, ErrDisabled.
func Skip() ReadOption { return func(o *readOpts) { o.skip = true } }

// SkipIf is Skip when cond holds.
func SkipIf(cond bool) ReadOption { return func(o *readOpts) { o.skip = o.skip || cond } }

// Fresh bypasses the cache lookup; the result is still stored.
func Fresh() ReadOption { return func(o *readOpts) { o.fresh = true } }

func applyOpts(opts []ReadOption) readOpts {
	var o readOpts
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Source is a listable API resource.
type Source[T any] interface {
	Entity() string
	List(ctx context.Context, f content.Filter) ([]T, error)
}

// CRUDSource is a fully writable API resource.
type CRUDSource[T, In any] interface {
	Source[T]
	GetBySlug(ctx context.Context, slug string) (*T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id int64, in In) (T, error)
	Delete(ctx context.Context, id int64) error
}

// loader is the shared read path.
type loader struct {
	entity string
	cache  Cache
	sf     *singleflight.Group
	also   []string
}

// load returns the cached value for key or calls fetch and caches its
// result.  Concurrent misses for the same key share one fetch.
func load[V any](ctx context.Context, l *loader, key string, opts []ReadOption, fetch func(context.Context) (V, error)) (V, error) {
	var zero V
	o := applyOpts(opts)
	if o.skip {
		return zero, ErrDisabled
	}

	gen, err := l.cache.Generation(ctx, l.entity)
	if err != nil {
		zap.L().Warn("cache generation", zap.String("entity", l.entity), zap.Error(err))
		return fetch(ctx)
	}

	if !o.fresh {
		if raw, ok, err := l.cache.Get(ctx, l.entity, gen, key); err == nil && ok {
			var v V
			if err := json.Unmarshal(raw, &v); err == nil {
				metrics.CacheHits.WithLabelValues(l.entity).Inc()
				return v, nil
			}
		} else if err != nil {
			zap.L().Warn("cache get", zap.String("entity", l.entity), zap.Error(err))
		}
	}
	metrics.CacheMisses.WithLabelValues(l.entity).Inc()

	// The shared fetch outlives any single caller; each caller only waits
	// on its own ctx.
	sfKey := entryKey(l.entity, gen, key)
	ch := l.sf.DoChan(sfKey, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		v, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(v); err == nil {
			if err := l.cache.Set(fctx, l.entity, gen, key, raw); err != nil {
				zap.L().Warn("cache set", zap.String("entity", l.entity), zap.Error(err))
			}
		}
		return v, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// invalidate bumps the entity and its dependent scopes.  Failures are
// logged; the TTL bounds how long a stale entry can live.
func (l *loader) invalidate(ctx context.Context) {
	// Detached: the write already succeeded, a departing caller must not
	// leave the cache stale.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	for _, e := range append([]string{l.entity}, l.also...) {
		if err := l.cache.Invalidate(ctx, e); err != nil {
			zap.L().Error("cache invalidate", zap.String("entity", e), zap.Error(err))
			continue
		}
		metrics.CacheInvalidations.WithLabelValues(e).Inc()
	}
}

/*──────────────────────────── Reader ──────────────────────────────────────*/

// Reader is a read-only cached collection.
type Reader[T any] struct {
	l   *loader
	src Source[T]
}

func newLoader(entity string, c Cache, also ...string) *loader {
	return &loader{entity: entity, cache: c, sf: &singleflight.Group{}, also: also}
}

func newReader[T any](src Source[T], c Cache, also ...string) *Reader[T] {
	return &Reader[T]{l: newLoader(src.Entity(), c, also...), src: src}
}

// Entity names the cache scope.
func (c *Reader[T]) Entity() string { return c.l.entity }

// List returns the rows matching f.
func (c *Reader[T]) List(ctx context.Context, f content.Filter, opts ...ReadOption) ([]T, error) {
	return load(ctx, c.l, "list:"+f.Key(), opts, func(ctx context.Context) ([]T, error) {
		return c.src.List(ctx, f)
	})
}

// Invalidate drops every cached read of the entity.
func (c *Reader[T]) Invalidate(ctx context.Context) { c.l.invalidate(ctx) }

/*──────────────────────────── Collection ──────────────────────────────────*/

// Collection adds slug lookup and writes to Reader.
type Collection[T, In any] struct {
	*Reader[T]
	src CRUDSource[T, In]
}

// NewCollection wraps src.  also names extra scopes invalidated by writes.
func NewCollection[T, In any](src CRUDSource[T, In], c Cache, also ...string) *Collection[T, In] {
	return &Collection[T, In]{Reader: newReader[T](src, c, also...), src: src}
}

// GetBySlug returns nil, nil when no row has slug.
func (c *Collection[T, In]) GetBySlug(ctx context.Context, slug string, opts ...ReadOption) (*T, error) {
	return load(ctx, c.l, "slug:"+slug, opts, func(ctx context.Context) (*T, error) {
		return c.src.GetBySlug(ctx, slug)
	})
}

func (c *Collection[T, In]) Create(ctx context.Context, in In) (T, error) {
	row, err := c.src.Create(ctx, in)
	if err == nil {
		c.l.invalidate(ctx)
	}
	return row, err
}

func (c *Collection[T, In]) Update(ctx context.Context, id int64, in In) (T, error) {
	row, err := c.src.Update(ctx, id, in)
	if err == nil {
		c.l.invalidate(ctx)
	}
	return row, err
}

func (c *Collection[T, In]) Delete(ctx context.Context, id int64) error {
	err := c.src.Delete(ctx, id)
	if err == nil {
		c.l.invalidate(ctx)
	}
	return err
}
