package cache

import (
	"context"
	"time"

	"github.com/redis/rueidis"
)

// Redis stores entries in redis; expiry is native
type Redis struct {
	c rueidis.Client
}

// NewRedis wraps an open rueidis client
func NewRedis(c rueidis.Client) *Redis { return &Redis{c: c} }

// Name implements Backend
func (r *Redis) Name() string { return "redis" }

// Get implements Backend
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.c.Do(ctx, r.c.B().Get().Key(key).Build()).AsBytes()
	if rueidis.IsRedisNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set implements Backend
func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl < time.Second {
		ttl = time.Second
	}
	return r.c.Do(ctx, r.c.B().Set().Key(key).Value(rueidis.BinaryString(val)).Ex(ttl).Build()).Error()
}

// Delete implements Backend
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.c.Do(ctx, r.c.B().Del().Key(key).Build()).Error()
}

// Ping implements Backend
func (r *Redis) Ping(ctx context.Context) error {
	return r.c.Do(ctx, r.c.B().Ping().Build()).Error()
}
