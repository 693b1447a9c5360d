// internal/query/cache.go
//
// Collection caches.
//
// Context
// -------
// Cached values are JSON-encoded list results keyed by (entity, generation,
// read key).  Invalidating an entity bumps its generation; older entries
// become unreachable and age out through the LRU or the Redis TTL.
//
// A load captures the generation *before* it fetches.  If a write
// invalidates the entity mid-load, the load stores its result under the old
// generation, where no reader looks, so a slow read can never resurrect
// pre-write data.

package query

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/yanizio/viyakaptan/internal/cache"
)

// Cache stores encoded read results per entity.
type Cache interface {
	// Generation returns the current generation of entity.
	Generation(ctx context.Context, entity string) (uint64, error)
	// Get returns the value stored under (entity, gen, key).
	Get(ctx context.Context, entity string, gen uint64, key string) ([]byte, bool, error)
	// Set stores val under (entity, gen, key).
	Set(ctx context.Context, entity string, gen uint64, key string, val []byte) error
	// Invalidate bumps entity's generation.
	Invalidate(ctx context.Context, entity string) error
}

func entryKey(entity string, gen uint64, key string) string {
	return entity + ":" + strconv.FormatUint(gen, 10) + ":" + key
}

/*──────────────────────────── memory ──────────────────────────────────────*/

type memEntry struct {
	val []byte
	exp time.Time
}

// Memory is an in-process Cache over the generic LRU.
type Memory struct {
	lru *cache.LRU[string, memEntry]
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	gens map[string]uint64
}

// NewMemory returns a Memory cache holding at most capacity entries, each
// for at most ttl (0 = no expiry).
func NewMemory(capacity int, ttl time.Duration) *Memory {
	if capacity < 1 {
		capacity = 512
	}
	return &Memory{
		lru:  cache.New[string, memEntry](capacity),
		ttl:  ttl,
		now:  time.Now,
		gens: map[string]uint64{},
	}
}

func (m *Memory) Generation(_ context.Context, entity string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[entity], nil
}

func (m *Memory) Get(_ context.Context, entity string, gen uint64, key string) ([]byte, bool, error) {
	k := entryKey(entity, gen, key)
	e, ok := m.lru.Get(k)
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && m.now().After(e.exp) {
		m.lru.Remove(k)
		return nil, false, nil
	}
	return e.val, true, nil
}

func (m *Memory) Set(_ context.Context, entity string, gen uint64, key string, val []byte) error {
	e := memEntry{val: val}
	if m.ttl > 0 {
		e.exp = m.now().Add(m.ttl)
	}
	m.lru.Add(entryKey(entity, gen, key), e)
	return nil
}

func (m *Memory) Invalidate(_ context.Context, entity string) error {
	m.mu.Lock()
	m.gens[entity]++
	m.mu.Unlock()
	return nil
}
