package snapshot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xfriends/internal/adapters/twitter"
	"xfriends/internal/core/handle"
	"xfriends/internal/platform/cache"
	ptime "xfriends/internal/platform/time"
)

type fakeFetcher struct {
	lists map[twitter.Direction][]string
	errs  map[twitter.Direction]error
	calls atomic.Int32
	limit atomic.Int32
}

func (f *fakeFetcher) FetchFollowList(_ context.Context, _ handle.Handle, dir twitter.Direction, limit int) ([]twitter.Identity, error) {
	f.calls.Add(1)
	f.limit.Store(int32(limit))
	time.Sleep(2 * time.Millisecond)
	if err := f.errs[dir]; err != nil {
		return nil, err
	}
	var out []twitter.Identity
	for _, u := range f.lists[dir] {
		out = append(out, twitter.Identity{Username: u})
	}
	return out, nil
}

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newManager(f Fetcher) (*Manager, *cache.Cache, *ptime.Fake) {
	clock := ptime.NewFake(t0)
	c := cache.New(cache.NewMemory(clock))
	return New(c, f, WithClock(clock)), c, clock
}

func TestSync_OneDirectionFailsOtherStillCached(t *testing.T) {
	f := &fakeFetcher{
		lists: map[twitter.Direction][]string{twitter.Following: {"a", "b"}},
		errs:  map[twitter.Direction]error{twitter.Followers: errors.New("provider down")},
	}
	m, c, _ := newManager(f)
	ctx := context.Background()

	snap, src, err := m.Sync(ctx, "42", "Alice")
	require.NoError(t, err)
	assert.Equal(t, SourceAPI, src)
	assert.Equal(t, []string{"a", "b"}, snap.Following)
	assert.Equal(t, []string{}, snap.Followers)
	assert.Equal(t, 2, snap.FollowingCount)
	assert.Zero(t, snap.FollowersCount)
	assert.Equal(t, "2025-03-01T12:00:00.000Z", snap.SyncedAt)
	assert.Equal(t, "Alice", snap.TwitterUsername)
	assert.Equal(t, int32(SyncLimit), f.limit.Load())

	got, ok, err := m.GetSnapshot(ctx, "42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, got)

	legacy, ok, err := cache.GetAs[[]string](ctx, c, cache.FollowingKey("42"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, legacy)
}

func TestSync_ListsAreCanonicalHandleSets(t *testing.T) {
	f := &fakeFetcher{lists: map[twitter.Direction][]string{
		twitter.Following: {"Alice", "alice", "@Bob", "!!!"},
		twitter.Followers: {"Ｃａｒｏｌ", "carol"},
	}}
	m, _, _ := newManager(f)

	snap, _, err := m.Sync(context.Background(), "42", "jack")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, snap.Following)
	assert.Equal(t, 2, snap.FollowingCount)
	assert.Equal(t, []string{"carol"}, snap.Followers)
	assert.Equal(t, 1, snap.FollowersCount)

	list, _, err := m.Following(context.Background(), "7", "jack", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, list)
}

func TestSync_CacheHitSkipsFetcher(t *testing.T) {
	f := &fakeFetcher{lists: map[twitter.Direction][]string{twitter.Following: {"a"}}}
	m, _, _ := newManager(f)
	ctx := context.Background()

	first, _, err := m.Sync(ctx, "42", "alice")
	require.NoError(t, err)
	calls := f.calls.Load()

	second, src, err := m.Sync(ctx, "42", "alice")
	require.NoError(t, err)
	assert.Equal(t, SourceCache, src)
	assert.Equal(t, first, second)
	assert.Equal(t, calls, f.calls.Load())
}

func TestSync_ExpiresAfterSevenDays(t *testing.T) {
	f := &fakeFetcher{}
	m, _, clock := newManager(f)
	ctx := context.Background()

	_, _, err := m.Sync(ctx, "42", "alice")
	require.NoError(t, err)

	clock.Advance(cache.SnapshotTTL - time.Second)
	_, ok, err := m.GetSnapshot(ctx, "42")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok, err = m.GetSnapshot(ctx, "42")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSync_ConcurrentCallsShareOneBuild(t *testing.T) {
	f := &fakeFetcher{lists: map[twitter.Direction][]string{twitter.Following: {"a"}}}
	m, _, _ := newManager(f)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := m.Sync(context.Background(), "42", "alice")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(2), f.calls.Load())
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}
func (failingBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}
func (failingBackend) Delete(context.Context, string) error { return errors.New("down") }
func (failingBackend) Ping(context.Context) error           { return errors.New("down") }
func (failingBackend) Name() string                         { return "failing" }

func TestSync_CacheFailuresAreNotFatal(t *testing.T) {
	f := &fakeFetcher{lists: map[twitter.Direction][]string{twitter.Followers: {"z"}}}
	m := New(cache.New(failingBackend{}), f)

	snap, src, err := m.Sync(context.Background(), "42", "alice")
	require.NoError(t, err)
	assert.Equal(t, SourceAPI, src)
	assert.Equal(t, []string{"z"}, snap.Followers)

	_, _, err = m.GetSnapshot(context.Background(), "42")
	assert.Error(t, err)
}

func TestSync_Validation(t *testing.T) {
	m, _, _ := newManager(&fakeFetcher{})
	_, _, err := m.Sync(context.Background(), "", "alice")
	assert.Error(t, err)
	_, _, err = m.Sync(context.Background(), "42", "@")
	assert.Error(t, err)
	_, _, err = m.GetSnapshot(context.Background(), "")
	assert.Error(t, err)
}

func TestFollowing(t *testing.T) {
	f := &fakeFetcher{lists: map[twitter.Direction][]string{twitter.Following: {"a", "b", "c"}}}
	m, _, _ := newManager(f)
	ctx := context.Background()

	list, src, err := m.Following(ctx, "", "@Alice", 0)
	require.NoError(t, err)
	assert.Equal(t, SourceAPI, src)
	assert.Equal(t, []string{"a", "b", "c"}, list)
	assert.Equal(t, int32(FollowingLimit), f.limit.Load())

	list, src, err = m.Following(ctx, "alice", "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, src)
	assert.Len(t, list, 3)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestFollowing_FetchErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFetcher{errs: map[twitter.Direction]error{twitter.Following: boom}}
	m, c, _ := newManager(f)

	_, _, err := m.Following(context.Background(), "42", "alice", 10)
	assert.ErrorIs(t, err, boom)

	_, ok, _ := cache.GetAs[[]string](context.Background(), c, cache.FollowingKey("42"))
	assert.False(t, ok)
}

func TestFollowing_ReadsListWrittenBySync(t *testing.T) {
	f := &fakeFetcher{lists: map[twitter.Direction][]string{twitter.Following: {"x"}}}
	m, _, _ := newManager(f)
	ctx := context.Background()

	_, _, err := m.Sync(ctx, "42", "alice")
	require.NoError(t, err)
	calls := f.calls.Load()

	list, src, err := m.Following(ctx, "42", "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, src)
	assert.Equal(t, []string{"x"}, list)
	assert.Equal(t, calls, f.calls.Load())
}
