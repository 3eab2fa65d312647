// Package snapshot keeps a cached capture of an owner's follow graph so repeat matches skip the provider
package snapshot

import (
	"context"

	"github.com/sourcegraph/conc"
	"golang.org/x/sync/singleflight"

	"xfriends/internal/adapters/twitter"
	"xfriends/internal/core/handle"
	"xfriends/internal/platform/cache"
	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
	ptime "xfriends/internal/platform/time"
)

// Fetch limits
const (
	SyncLimit      = 500
	FollowingLimit = 200
)

// Source says where a result came from
type Source string

// Sources
const (
	SourceCache Source = "cache"
	SourceAPI   Source = "api"
)

// Snapshot is one owner's follow graph at a point in time
type Snapshot struct {
	Following       []string `json:"following"`
	Followers       []string `json:"followers"`
	FollowingCount  int      `json:"followingCount"`
	FollowersCount  int      `json:"followersCount"`
	SyncedAt        string   `json:"syncedAt"`
	TwitterUsername string   `json:"twitterUsername"`
}

// Fetcher reads follow lists from the x provider
type Fetcher interface {
	FetchFollowList(ctx context.Context, h handle.Handle, dir twitter.Direction, limit int) ([]twitter.Identity, error)
}

// Manager builds, stores and serves snapshots
type Manager struct {
	c     *cache.Cache
	f     Fetcher
	clock ptime.Clock
	sf    singleflight.Group
	log   logger.Logger
}

// Option tweaks a Manager
type Option func(*Manager)

// WithClock sets the clock used for syncedAt
func WithClock(c ptime.Clock) Option { return func(m *Manager) { m.clock = ptime.Or(c) } }

// New builds a manager
func New(c *cache.Cache, f Fetcher, opts ...Option) *Manager {
	m := &Manager{c: c, f: f, clock: ptime.System, log: *logger.Named("snapshot")}
	for _, o := range opts {
		o(m)
	}
	return m
}

type flight struct {
	snap Snapshot
	src  Source
}

// Sync returns the cached snapshot for owner or builds a fresh one for username
// concurrent syncs for one owner share a single build
func (m *Manager) Sync(ctx context.Context, owner, username string) (Snapshot, Source, error) {
	if owner == "" {
		return Snapshot{}, "", perr.Validationf("owner is required")
	}
	h := handle.Normalize(username)
	if !h.Valid() {
		return Snapshot{}, "", perr.Validationf("twitterUsername is required")
	}

	// the shared build outlives any one caller's cancellation
	shared := context.WithoutCancel(ctx)
	v, err, _ := m.sf.Do(owner, func() (any, error) {
		if snap, ok := m.cached(shared, owner); ok {
			return flight{snap: snap, src: SourceCache}, nil
		}
		snap := m.build(shared, h, username)
		m.store(shared, owner, snap)
		return flight{snap: snap, src: SourceAPI}, nil
	})
	if err != nil {
		return Snapshot{}, "", err
	}
	f := v.(flight)
	return f.snap, f.src, nil
}

func (m *Manager) cached(ctx context.Context, owner string) (Snapshot, bool) {
	snap, ok, err := cache.GetAs[Snapshot](ctx, m.c, cache.SnapshotKey(owner))
	if err != nil {
		m.log.Warn().Err(err).Str("owner", owner).Msg("snapshot read failed, rebuilding")
		return Snapshot{}, false
	}
	return snap, ok
}

// build fetches both directions at once; a failed direction becomes an empty list
func (m *Manager) build(ctx context.Context, h handle.Handle, username string) Snapshot {
	var following, followers []string
	var wg conc.WaitGroup
	wg.Go(func() { following = m.direction(ctx, h, twitter.Following) })
	wg.Go(func() { followers = m.direction(ctx, h, twitter.Followers) })
	wg.Wait()

	return Snapshot{
		Following:       following,
		Followers:       followers,
		FollowingCount:  len(following),
		FollowersCount:  len(followers),
		SyncedAt:        ptime.RFC3339(m.clock.Now()),
		TwitterUsername: username,
	}
}

func (m *Manager) direction(ctx context.Context, h handle.Handle, dir twitter.Direction) []string {
	ids, err := m.f.FetchFollowList(ctx, h, dir, SyncLimit)
	if err != nil {
		m.log.Error().Err(err).Str("handle", string(h)).Str("direction", string(dir)).Msg("fetch failed, using empty list")
		return []string{}
	}
	return handles(ids)
}

// handles keeps each account once, as a canonical handle, in provider order
func handles(ids []twitter.Identity) []string {
	return handle.Strings(handle.NormalizeAll(twitter.Usernames(ids)))
}

// store writes the snapshot and the legacy following list; failures are logged only
func (m *Manager) store(ctx context.Context, owner string, snap Snapshot) {
	if err := m.c.Set(ctx, cache.SnapshotKey(owner), snap, cache.SnapshotTTL); err != nil {
		m.log.Error().Err(err).Str("owner", owner).Msg("snapshot write failed")
	}
	if err := m.c.Set(ctx, cache.FollowingKey(owner), snap.Following, cache.FollowingTTL); err != nil {
		m.log.Error().Err(err).Str("owner", owner).Msg("following list write failed")
	}
}

// GetSnapshot is a read only lookup; it never fetches
func (m *Manager) GetSnapshot(ctx context.Context, owner string) (Snapshot, bool, error) {
	if owner == "" {
		return Snapshot{}, false, perr.Validationf("owner is required")
	}
	return cache.GetAs[Snapshot](ctx, m.c, cache.SnapshotKey(owner))
}

// Following serves the single direction list, fetching and caching it on a miss
// unlike Sync, a fetch failure is returned to the caller
func (m *Manager) Following(ctx context.Context, owner, username string, limit int) ([]string, Source, error) {
	h := handle.Normalize(username)
	if !h.Valid() {
		return nil, "", perr.Validationf("twitterUsername is required")
	}
	if owner == "" {
		owner = string(h)
	}
	if limit <= 0 {
		limit = FollowingLimit
	}

	key := cache.FollowingKey(owner)
	list, ok, err := cache.GetAs[[]string](ctx, m.c, key)
	if err != nil {
		m.log.Warn().Err(err).Str("owner", owner).Msg("following read failed, refetching")
	}
	if ok {
		return list, SourceCache, nil
	}

	ids, err := m.f.FetchFollowList(ctx, h, twitter.Following, limit)
	if err != nil {
		return nil, "", err
	}
	list = handles(ids)
	if err := m.c.Set(ctx, key, list, cache.FollowingTTL); err != nil {
		m.log.Error().Err(err).Str("owner", owner).Msg("following list write failed")
	}
	return list, SourceAPI, nil
}
