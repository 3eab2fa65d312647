package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"xfriends/internal/platform/logger"
	"xfriends/internal/platform/store"
	ptime "xfriends/internal/platform/time"
)

// Backend kinds accepted by Open
const (
	KindRedis    = "redis"
	KindPostgres = "pg"
	KindMemory   = "memory"
)

// Open picks a backend from the opened store
// an empty kind means redis when the store has it, otherwise memory
func Open(ctx context.Context, kind string, st *store.Store, clock ptime.Clock, opts ...Option) (*Cache, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = KindMemory
		if st != nil && st.RDS != nil {
			kind = KindRedis
		}
	}

	var b Backend
	switch kind {
	case KindRedis:
		if st == nil || st.RDS == nil {
			return nil, fmt.Errorf("cache: backend %q needs SERVICE_REDIS_ENABLED", kind)
		}
		b = NewRedis(st.RDS)
	case KindPostgres, "postgres":
		if st == nil || st.PG == nil {
			return nil, fmt.Errorf("cache: backend %q needs SERVICE_PGSQL_ENABLED", kind)
		}
		pg := NewPostgres(st.PG, clock)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		b = pg
	case KindMemory:
		b = NewMemory(clock)
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", kind)
	}
	return New(b, opts...), nil
}

// Run periodically removes expired entries for backends that keep them around
// redis expires natively so this returns immediately for it
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	switch b := c.b.(type) {
	case *Memory:
		b.Run(ctx, interval)
	case *Postgres:
		log := logger.Named("cache")
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := b.Sweep(ctx)
				if err != nil {
					log.Warn().Err(err).Msg("cache sweep failed")
					continue
				}
				if n > 0 {
					log.Debug().Int64("removed", n).Msg("cache swept")
				}
			}
		}
	}
}
