package store

import (
	"context"
	"fmt"
	"time"

	"xfriends/internal/platform/logger"
	chx "xfriends/internal/platform/store/ch"
	"xfriends/internal/platform/store/pg"
	"xfriends/internal/platform/store/rds"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/rueidis"
)

// pingBackoff is the retry policy for the boot time pg ping; a seam for tests
var pingBackoff = func(ctx context.Context, retries int) backoff.BackOff {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(150*time.Millisecond),
		backoff.WithMaxInterval(2*time.Second),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// openPG opens the pool, then pings with backoff so a postgres still booting next to us is waited for
func openPG(ctx context.Context, cfg Config, log logger.Logger) (SQL, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	retries := cfg.PG.ConnectRetries
	if retries <= 0 {
		retries = 20
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	attempts := 0
	err = backoff.Retry(func() error {
		attempts++
		toCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p.Pool.Ping(toCtx)
	}, pingBackoff(ctx, retries))
	if err != nil {
		p.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, err)
	}

	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openRDS(ctx context.Context, cfg Config) (rueidis.Client, error) {
	return rds.Open(ctx, rds.Config{
		Addr:         cfg.RDS.Addr,
		Username:     cfg.RDS.Username,
		Password:     cfg.RDS.Password,
		DB:           cfg.RDS.DB,
		ClientName:   cfg.AppName,
		DisableCache: cfg.RDS.DisableCache,
	})
}
