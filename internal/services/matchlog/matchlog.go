// Package matchlog records one analytics row per match request in clickhouse
// Recording never blocks a request; rows are buffered and flushed in batches
package matchlog

import (
	"context"
	"sync"
	"time"

	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
	"xfriends/internal/platform/store"
	ptime "xfriends/internal/platform/time"
)

// Table is the clickhouse table events land in
const Table = "match_events"

// Schema creates Table when missing
const Schema = `CREATE TABLE IF NOT EXISTS match_events (
	at       DateTime64(3, 'UTC'),
	owner    String,
	searched UInt32,
	matched  UInt32,
	source   LowCardinality(String)
) ENGINE = MergeTree
ORDER BY (at, owner)
TTL toDateTime(at) + INTERVAL 180 DAY`

const (
	defaultBatch    = 200
	defaultInterval = 5 * time.Second
	// buffered rows past this are dropped rather than grow without bound
	maxBuffered = 10_000
)

// Event is one match request outcome
type Event struct {
	At       time.Time
	Owner    string
	Searched int
	Matched  int
	Source   string
}

// Sink receives events; implementations must not block the caller
type Sink interface {
	Record(ctx context.Context, e Event)
}

// Nop discards events; used when clickhouse is not configured
type Nop struct{}

// Record implements Sink
func (Nop) Record(context.Context, Event) {}

// Totals aggregates events over a window
type Totals struct {
	Requests uint64
	Searched uint64
	Matched  uint64
}

// Writer buffers events and inserts them in batches
type Writer struct {
	ch    store.Clickhouse
	clock ptime.Clock
	log   logger.Logger
	batch int

	mu      sync.Mutex
	buf     []Event
	dropped int
}

// Option tweaks a Writer
type Option func(*Writer)

// WithBatch sets the flush threshold
func WithBatch(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.batch = n
		}
	}
}

// WithClock sets the clock used to stamp events without a time
func WithClock(c ptime.Clock) Option { return func(w *Writer) { w.clock = ptime.Or(c) } }

// NewWriter builds a writer over ch
func NewWriter(ch store.Clickhouse, opts ...Option) *Writer {
	w := &Writer{ch: ch, clock: ptime.System, log: *logger.Named("matchlog"), batch: defaultBatch}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Open returns a clickhouse writer when the store has one, otherwise Nop
func Open(ctx context.Context, st *store.Store) (Sink, *Writer) {
	if st == nil || st.CH == nil {
		return Nop{}, nil
	}
	w := NewWriter(st.CH)
	if err := w.EnsureSchema(ctx); err != nil {
		w.log.Warn().Err(err).Msg("match_events schema check failed")
	}
	return w, w
}

// EnsureSchema creates the events table
func (w *Writer) EnsureSchema(ctx context.Context) error {
	if err := w.ch.Exec(ctx, Schema); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "matchlog: create table")
	}
	return nil
}

// Record implements Sink
func (w *Writer) Record(_ context.Context, e Event) {
	if e.At.IsZero() {
		e.At = w.clock.Now()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) >= maxBuffered {
		w.dropped++
		return
	}
	w.buf = append(w.buf, e)
}

// Pending is the number of buffered events
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buf)
}

// Flush inserts everything buffered, batch rows at a time
// rows from a failed insert are dropped and logged
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	pending := w.buf
	w.buf = nil
	dropped := w.dropped
	w.dropped = 0
	w.mu.Unlock()

	if dropped > 0 {
		w.log.Warn().Int("dropped", dropped).Msg("match events dropped, buffer full")
	}

	var firstErr error
	for start := 0; start < len(pending); start += w.batch {
		end := min(start+w.batch, len(pending))
		rows := make([][]any, 0, end-start)
		for _, e := range pending[start:end] {
			rows = append(rows, []any{e.At.UTC(), e.Owner, uint32(max(e.Searched, 0)), uint32(max(e.Matched, 0)), e.Source})
		}
		if err := w.ch.Insert(ctx, Table, rows); err != nil {
			w.log.Error().Err(err).Int("rows", len(rows)).Msg("match events insert failed")
			if firstErr == nil {
				firstErr = perr.Wrap(err, perr.ErrorCodeUnavailable, "matchlog: insert")
			}
		}
	}
	return firstErr
}

// Run flushes on an interval until ctx ends, then flushes once more
func (w *Writer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			_ = w.Flush(fctx)
			cancel()
			return
		case <-t.C:
			_ = w.Flush(ctx)
		}
	}
}

const totalsSQL = `SELECT count(), sum(searched), sum(matched) FROM match_events WHERE at >= ?`

// Totals sums events since the given time
func (w *Writer) Totals(ctx context.Context, since time.Time) (Totals, error) {
	rows, err := w.ch.Query(ctx, totalsSQL, since.UTC())
	if err != nil {
		return Totals{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "matchlog: totals")
	}
	defer rows.Close()

	var t Totals
	if rows.Next() {
		if err := rows.Scan(&t.Requests, &t.Searched, &t.Matched); err != nil {
			return Totals{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "matchlog: scan totals")
		}
	}
	if err := rows.Err(); err != nil {
		return Totals{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "matchlog: totals rows")
	}
	return t, nil
}
