// internal/query/redis.go
//
// Redis-backed Cache shared by every cmd/web replica.
//
// Keys
//   <prefix>:gen:<entity>               INCR counter, never expires
//   <prefix>:<entity>:<gen>:<readkey>   SET EX ttl
//
// A missing generation key reads as 0, so a flushed Redis simply starts
// over at generation 0 with an empty value space.

package query

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "viya"

type Redis struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis wraps rdb.  ttl 0 means entries never expire on their own.
func NewRedis(rdb redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: defaultPrefix, ttl: ttl}
}

// DialRedis parses url, pings the server, and returns a Redis cache.
func DialRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedis(rdb, ttl), nil
}

func (r *Redis) genKey(entity string) string {
	return r.prefix + ":gen:" + entity
}

func (r *Redis) valueKey(entity string, gen uint64, key string) string {
	return r.prefix + ":" + entryKey(entity, gen, key)
}

func (r *Redis) Generation(ctx context.Context, entity string) (uint64, error) {
	s, err := r.rdb.Get(ctx, r.genKey(entity)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(s, 10, 64)
}

func (r *Redis) Get(ctx context.Context, entity string, gen uint64, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, r.valueKey(entity, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, entity string, gen uint64, key string, val []byte) error {
	return r.rdb.Set(ctx, r.valueKey(entity, gen, key), val, r.ttl).Err()
}

func (r *Redis) Invalidate(ctx context.Context, entity string) error {
	return r.rdb.Incr(ctx, r.genKey(entity)).Err()
}
