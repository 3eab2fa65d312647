// Package app builds the dependency graph shared by the api and the operator cli
package app

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"xfriends/internal/adapters/ledger"
	"xfriends/internal/adapters/neynar"
	"xfriends/internal/adapters/notify"
	"xfriends/internal/adapters/twitter"
	"xfriends/internal/core/match"
	"xfriends/internal/platform/cache"
	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
	"xfriends/internal/platform/ratelimit"
	"xfriends/internal/platform/session"
	"xfriends/internal/platform/store"
	ptime "xfriends/internal/platform/time"
	"xfriends/internal/platform/upstream"
	"xfriends/internal/services/access"
	"xfriends/internal/services/matchlog"
	"xfriends/internal/services/snapshot"
)

// App is the wired graph
type App struct {
	Cfg   Config
	Store *store.Store
	Clock ptime.Clock

	Cache     *cache.Cache
	X         *twitter.Client
	Directory *neynar.Client
	Resolver  *neynar.Resolver
	Engine    *match.Engine
	Gate      *access.Gate
	Snapshots *snapshot.Manager
	Notifier  *notify.Sender
	Limiter   *ratelimit.Window
	Sessions  *session.Signer

	// Events is always usable; EventWriter is nil when clickhouse is off
	Events      matchlog.Sink
	EventWriter *matchlog.Writer

	// Pushes tracks detached notification sends so Close can drain them
	Pushes *conc.WaitGroup

	closers []func()
	log     logger.Logger
}

type buildOpts struct {
	clock  ptime.Clock
	ledger access.Ledger
	up     []upstream.Option
}

// Option tweaks Build
type Option func(*buildOpts)

// WithClock overrides the clock every component uses
func WithClock(c ptime.Clock) Option { return func(o *buildOpts) { o.clock = c } }

// WithLedger skips the rpc dial and uses l
func WithLedger(l access.Ledger) Option { return func(o *buildOpts) { o.ledger = l } }

// WithUpstream passes options to every outbound http client
func WithUpstream(opts ...upstream.Option) Option {
	return func(o *buildOpts) { o.up = append(o.up, opts...) }
}

// Build wires the graph over an opened store
func Build(ctx context.Context, cfg Config, st *store.Store, opts ...Option) (*App, error) {
	var o buildOpts
	for _, fn := range opts {
		fn(&o)
	}
	clock := ptime.Or(o.clock)
	if st == nil {
		st = &store.Store{}
	}

	a := &App{Cfg: cfg, Store: st, Clock: clock, Pushes: &conc.WaitGroup{}, log: *logger.Named("app")}

	c, err := cache.Open(ctx, cfg.CacheBackend, st, clock, cache.WithLogger(*logger.Named("cache")))
	if err != nil {
		return nil, err
	}
	a.Cache = c

	a.X, err = twitter.New(cfg.Twitter, o.up...)
	if err != nil {
		return nil, err
	}
	a.Directory = neynar.New(cfg.Neynar, o.up...)
	a.Resolver = neynar.NewResolver(a.Directory, cfg.Resolver)
	a.Engine = match.New(a.Resolver)

	l := o.ledger
	if l == nil && cfg.PaymentEnabled {
		if cfg.Ledger.Contract == "" {
			return nil, perr.InvalidArgf("LEDGER_CONTRACT_ADDRESS is required when payment is enabled")
		}
		contract, closeFn, err := ledger.Dial(ctx, cfg.Ledger.RPCURL, cfg.Ledger.Contract)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, closeFn)
		l = contract
	}
	a.Gate = access.New(l, cfg.PaymentEnabled)

	a.Snapshots = snapshot.New(a.Cache, a.X, snapshot.WithClock(clock))
	a.Events, a.EventWriter = matchlog.Open(ctx, st)
	a.Notifier = notify.New(cfg.Notify, o.up...)
	a.Limiter = ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow, ratelimit.WithClock(clock))
	a.Sessions = session.New(cfg.SessionSecret)

	a.log.Info().
		Str("cache", a.Cache.Backend()).
		Str("x_provider", a.X.Provider()).
		Bool("payment", cfg.PaymentEnabled).
		Bool("events", a.EventWriter != nil).
		Msg("app wired")
	return a, nil
}

// Run drives the background sweepers until ctx ends
func (a *App) Run(ctx context.Context) {
	var wg conc.WaitGroup
	wg.Go(func() { a.Cache.Run(ctx, a.Cfg.CacheSweep) })
	wg.Go(func() { a.Limiter.Run(ctx) })
	if a.EventWriter != nil {
		wg.Go(func() { a.EventWriter.Run(ctx, a.Cfg.EventsFlush) })
	}
	wg.Wait()
}

// Close releases clients the graph opened; the store is the caller's
func (a *App) Close() {
	a.Pushes.Wait()
	if a.EventWriter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.EventWriter.Flush(ctx)
		cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
