package cache

import (
	"context"
	stderrs "errors"
	"time"

	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/store"
	ptime "xfriends/internal/platform/time"

	"github.com/jackc/pgx/v5"
)

// Schema is the kv table the postgres backend expects
const Schema = `
CREATE TABLE IF NOT EXISTS kv_cache (
	key        text PRIMARY KEY,
	value      bytea NOT NULL,
	expires_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS kv_cache_expires_at_idx ON kv_cache (expires_at);
`

const (
	sqlGet    = `SELECT value FROM kv_cache WHERE key = $1 AND expires_at > $2`
	sqlSet    = `INSERT INTO kv_cache (key, value, expires_at) VALUES ($1, $2, $3) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`
	sqlDelete = `DELETE FROM kv_cache WHERE key = $1`
	sqlSweep  = `DELETE FROM kv_cache WHERE expires_at <= $1`
)

// Postgres stores entries in the kv_cache table
// expired rows are filtered on read and removed by Sweep
type Postgres struct {
	q     store.SQL
	clock ptime.Clock
}

// NewPostgres wraps the store sql seam
func NewPostgres(q store.SQL, clock ptime.Clock) *Postgres {
	return &Postgres{q: q, clock: ptime.Or(clock)}
}

// EnsureSchema creates the kv table when missing
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.q.Exec(ctx, Schema)
	return perr.FromPostgres(err, "cache: ensure schema")
}

// Name implements Backend
func (p *Postgres) Name() string { return "postgres" }

// Get implements Backend
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var val []byte
	err := p.q.QueryRow(ctx, sqlGet, key, p.clock.Now()).Scan(&val)
	if stderrs.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, p.wrap(err, "cache: pg get")
	}
	return val, true, nil
}

// Set implements Backend
func (p *Postgres) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	_, err := p.q.Exec(ctx, sqlSet, key, val, p.clock.Now().Add(ttl))
	return p.wrap(err, "cache: pg set")
}

// Delete implements Backend
func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.q.Exec(ctx, sqlDelete, key)
	return p.wrap(err, "cache: pg delete")
}

// Ping implements Backend
func (p *Postgres) Ping(ctx context.Context) error {
	var one int
	return p.q.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// Sweep deletes expired rows and returns how many were removed
func (p *Postgres) Sweep(ctx context.Context) (int64, error) {
	tag, err := p.q.Exec(ctx, sqlSweep, p.clock.Now())
	if err != nil {
		return 0, p.wrap(err, "cache: pg sweep")
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if perr.IsUndefinedTable(err) {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, msg+": kv_cache missing, run EnsureSchema")
	}
	return perr.FromPostgres(err, msg)
}
