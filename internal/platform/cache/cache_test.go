package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "xfriends/internal/platform/errors"
	ptime "xfriends/internal/platform/time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Following []string `json:"following"`
	Followers []string `json:"followers"`
	Count     int      `json:"followingCount"`
}

func newMemoryCache(t *testing.T) (*Cache, *ptime.Fake) {
	t.Helper()
	clk := ptime.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(NewMemory(clk)), clk
}

func TestCache_RoundTripThenExpire(t *testing.T) {
	c, clk := newMemoryCache(t)
	ctx := context.Background()
	in := snapshot{Following: []string{"a", "b"}, Followers: []string{}, Count: 2}

	require.NoError(t, c.Set(ctx, SnapshotKey("1"), in, SnapshotTTL))

	var out snapshot
	ok, err := c.Get(ctx, SnapshotKey("1"), &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)

	clk.Advance(SnapshotTTL)
	ok, err = c.Get(ctx, SnapshotKey("1"), &out)
	require.NoError(t, err)
	assert.False(t, ok, "entry must be absent once ttl elapsed")
}

func TestCache_EmptyKeyIsInvalidArgument(t *testing.T) {
	c, _ := newMemoryCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, MatchKey(""), &snapshot{})
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(c.Set(ctx, "", 1, time.Minute)))
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(c.Delete(ctx, "")))
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(c.Set(ctx, "k", 1, 0)))
}

func TestCache_Delete(t *testing.T) {
	c, _ := newMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"), "deleting a missing key is fine")

	_, ok, err := GetAs[string](ctx, c, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_UndecodableValueReadsAsAbsent(t *testing.T) {
	mem := NewMemory(nil)
	c := New(mem)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "k", []byte("{not json"), time.Minute))

	var v map[string]any
	ok, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, mem.Len(), "bad value should be dropped")
}

type brokenBackend struct{ Memory }

func (*brokenBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("conn refused")
}

func (*brokenBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("conn refused")
}

func TestCache_BackendFailureIsUnavailable(t *testing.T) {
	c := New(&brokenBackend{})
	ctx := context.Background()

	_, err := c.Get(ctx, "k", new(string))
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(c.Set(ctx, "k", "v", time.Minute)))
}

func TestMemory_Sweep(t *testing.T) {
	clk := ptime.NewFake(time.Unix(0, 0))
	m := NewMemory(clk)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "short", []byte("1"), time.Second))
	require.NoError(t, m.Set(ctx, "long", []byte("2"), time.Hour))
	clk.Advance(2 * time.Second)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestMemory_RunStopsOnCancel(t *testing.T) {
	c := New(NewMemory(nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
