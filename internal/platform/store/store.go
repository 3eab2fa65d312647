// Package store opens the optional backends xfriends can run on
// postgres and redis back the cache, clickhouse takes the match log
package store

import (
	"context"
	"errors"
	"fmt"

	"xfriends/internal/platform/logger"
	"xfriends/internal/platform/store/rds"

	"github.com/redis/rueidis"
)

// Store holds whichever backends were enabled; the zero value has none
type Store struct {
	Log logger.Logger

	// PG is the postgres seam, nil when disabled
	PG SQL

	// CH is the clickhouse seam, nil when disabled
	CH Clickhouse

	// RDS is the redis client, nil when disabled
	RDS rueidis.Client
}

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what an Exec touched
type CommandTag interface {
	RowsAffected() int64
}

// SQL is the postgres surface the kv cache needs
type SQL interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Clickhouse is the columnar surface the match log needs
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Option mutates Store during Open
type Option func(*Store)

// WithLogger sets the logger handed to backend tracers
func WithLogger(log logger.Logger) Option { return func(s *Store) { s.Log = log } }

// Open dials every backend cfg enables; a failure closes what was already open
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		o(s)
	}
	s.Log = s.Log.With().Str("component", "store").Logger()

	steps := []struct {
		on   bool
		name string
		open func() error
	}{
		{cfg.PG.Enabled, "pg", func() (err error) { s.PG, err = openPG(ctx, cfg, s.Log); return }},
		{cfg.CH.Enabled, "ch", func() (err error) { s.CH, err = openCH(ctx, cfg); return }},
		{cfg.RDS.Enabled, "redis", func() (err error) { s.RDS, err = openRDS(ctx, cfg); return }},
	}
	for _, st := range steps {
		if !st.on {
			continue
		}
		if err := st.open(); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("store: open %s: %w", st.name, err)
		}
		s.Log.Info().Str("backend", st.name).Msg("backend ready")
	}
	return s, nil
}

// Guard pings every open backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	ping := func(name string, v any) {
		if p, ok := v.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	if s.PG != nil {
		ping("pg", s.PG)
	}
	if s.CH != nil {
		ping("ch", s.CH)
	}
	if s.RDS != nil {
		if err := rds.Ping(ctx, s.RDS); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every open backend; nil ones are skipped
func (s *Store) Close(_ context.Context) error {
	var errs []error
	if s.RDS != nil {
		s.RDS.Close()
	}
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
