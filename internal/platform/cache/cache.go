// Package cache is the key value store with per entry ttl shared by every pipeline stage
//
// Values are stored as json; backends own expiry so a read never returns an expired entry
package cache

import (
	"context"
	"time"

	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
)

// Backend stores raw bytes with a ttl
type Backend interface {
	// Get returns the stored bytes; found is false for missing or expired keys
	Get(ctx context.Context, key string) (val []byte, found bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Name() string
}

// Cache is the typed facade over a Backend
type Cache struct {
	b     Backend
	codec Codec
	log   logger.Logger
}

// Option tweaks a Cache
type Option func(*Cache)

// WithCodec overrides the value codec
func WithCodec(c Codec) Option { return func(x *Cache) { x.codec = c } }

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option { return func(x *Cache) { x.log = l } }

// New wraps a backend
func New(b Backend, opts ...Option) *Cache {
	c := &Cache{b: b, codec: JSON, log: logger.Nop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Backend returns the backend name
func (c *Cache) Backend() string { return c.b.Name() }

// Get decodes the value at key into dst and reports whether it was present
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if key == "" {
		return false, perr.InvalidArgf("cache: empty key")
	}
	raw, ok, err := c.b.Get(ctx, key)
	if err != nil {
		return false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "cache get %s", key)
	}
	if !ok {
		return false, nil
	}
	if err := c.codec.Unmarshal(raw, dst); err != nil {
		// a value we cannot read is as good as absent; drop it so the next write repairs it
		c.log.Warn().Err(err).Str("key", key).Msg("cache: undecodable value dropped")
		_ = c.b.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// Set encodes v and stores it for ttl
func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if key == "" {
		return perr.InvalidArgf("cache: empty key")
	}
	if ttl <= 0 {
		return perr.InvalidArgf("cache: ttl must be positive")
	}
	raw, err := c.codec.Marshal(v)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "cache encode %s", key)
	}
	if err := c.b.Set(ctx, key, raw, ttl); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "cache set %s", key)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (c *Cache) Delete(ctx context.Context, key string) error {
	if key == "" {
		return perr.InvalidArgf("cache: empty key")
	}
	if err := c.b.Delete(ctx, key); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "cache delete %s", key)
	}
	return nil
}

// Ping checks the backend
func (c *Cache) Ping(ctx context.Context) error { return c.b.Ping(ctx) }

// GetAs is Get for callers that prefer a return value
func GetAs[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var v T
	ok, err := c.Get(ctx, key, &v)
	return v, ok, err
}
