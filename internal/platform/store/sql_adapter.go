package store

import (
	"context"
	"time"

	"xfriends/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pool is the part of *pgxpool.Pool the adapter drives
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// pgAdapter implements SQL over a pgx pool and reports each statement to the tracer
type pgAdapter struct {
	pool   pool
	tracer pg.QueryTracer
	slow   time.Duration
	now    func() time.Time
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		pool:   p.Pool,
		tracer: p.Tracer,
		slow:   time.Duration(p.SlowMs) * time.Millisecond,
		now:    time.Now,
	}
}

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := a.now()
	ct, err := a.pool.Exec(ctx, sql, args...)
	a.trace(ctx, sql, args, start, err)
	return ct, err
}

// QueryRow traces once Scan returns so the scan error is the one reported
func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := a.now()
	return tracedRow{
		Row:  a.pool.QueryRow(ctx, sql, args...),
		done: func(err error) { a.trace(ctx, sql, args, start, err) },
	}
}

// Ping goes straight to the pool so probes stay out of the query log
func (a *pgAdapter) Ping(ctx context.Context) error { return a.pool.Ping(ctx) }

func (a *pgAdapter) Close() error {
	a.pool.Close()
	return nil
}

func (a *pgAdapter) trace(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if a.tracer == nil {
		return
	}
	elapsed := a.now().Sub(start)
	a.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsed.Microseconds(),
		Err:       err,
		Slow:      a.slow > 0 && elapsed >= a.slow,
	})
}

type tracedRow struct {
	pgx.Row
	done func(error)
}

func (r tracedRow) Scan(dst ...any) error {
	err := r.Row.Scan(dst...)
	r.done(err)
	return err
}
