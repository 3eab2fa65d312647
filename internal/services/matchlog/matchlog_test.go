package matchlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xfriends/internal/platform/store"
	ptime "xfriends/internal/platform/time"
)

type fakeCH struct {
	mu      sync.Mutex
	inserts [][][]any
	execs   []string
	failIns error
	rows    *fakeRows
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if table != Table {
		return errors.New("wrong table")
	}
	if f.failIns != nil {
		return f.failIns
	}
	f.inserts = append(f.inserts, rows)
	return nil
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return f.rows, nil }
func (f *fakeCH) Close() error                                           { return nil }

type fakeRows struct {
	vals []uint64
	done bool
}

func (r *fakeRows) Next() bool {
	if r.done {
		return false
	}
	r.done = true
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	for i, d := range dest {
		*(d.(*uint64)) = r.vals[i]
	}
	return nil
}
func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

func TestWriter_FlushBatches(t *testing.T) {
	ch := &fakeCH{}
	clock := ptime.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	w := NewWriter(ch, WithBatch(2), WithClock(clock))

	for i := range 5 {
		w.Record(context.Background(), Event{Owner: "o", Searched: 10, Matched: i, Source: "api"})
	}
	assert.Equal(t, 5, w.Pending())

	require.NoError(t, w.Flush(context.Background()))
	assert.Zero(t, w.Pending())
	require.Len(t, ch.inserts, 3)
	assert.Len(t, ch.inserts[0], 2)
	assert.Len(t, ch.inserts[2], 1)

	row := ch.inserts[0][1]
	assert.Equal(t, clock.Now(), row[0])
	assert.Equal(t, "o", row[1])
	assert.Equal(t, uint32(10), row[2])
	assert.Equal(t, uint32(1), row[3])
	assert.Equal(t, "api", row[4])
}

func TestWriter_FlushErrorIsReportedAndRowsDropped(t *testing.T) {
	ch := &fakeCH{failIns: errors.New("ch down")}
	w := NewWriter(ch)
	w.Record(context.Background(), Event{Owner: "o"})

	assert.Error(t, w.Flush(context.Background()))
	assert.Zero(t, w.Pending())
}

func TestWriter_RunFlushesOnShutdown(t *testing.T) {
	ch := &fakeCH{}
	w := NewWriter(ch)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, time.Hour)
		close(done)
	}()

	w.Record(context.Background(), Event{Owner: "o"})
	cancel()
	<-done

	ch.mu.Lock()
	defer ch.mu.Unlock()
	require.Len(t, ch.inserts, 1)
}

func TestWriter_Totals(t *testing.T) {
	ch := &fakeCH{rows: &fakeRows{vals: []uint64{3, 30, 7}}}
	tot, err := NewWriter(ch).Totals(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, Totals{Requests: 3, Searched: 30, Matched: 7}, tot)
}

func TestOpen(t *testing.T) {
	sink, w := Open(context.Background(), &store.Store{})
	assert.IsType(t, Nop{}, sink)
	assert.Nil(t, w)
	sink.Record(context.Background(), Event{})

	ch := &fakeCH{}
	sink, w = Open(context.Background(), &store.Store{CH: ch})
	require.NotNil(t, w)
	assert.Same(t, w, sink)
	assert.Equal(t, []string{Schema}, ch.execs)
}
