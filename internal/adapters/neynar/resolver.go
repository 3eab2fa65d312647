package neynar

import (
	"context"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"xfriends/internal/core/handle"
	"xfriends/internal/core/match"
	"xfriends/internal/platform/logger"
)

// Batch pacing defaults
const (
	DefaultBatchSize  = 10
	DefaultBatchDelay = time.Second
)

// Searcher is the slice of the client the resolver needs
type Searcher interface {
	Search(ctx context.Context, q string) ([]Profile, error)
}

// ResolverOptions configures batching and candidate selection
type ResolverOptions struct {
	BatchSize  int
	BatchDelay time.Duration
	// Strict accepts a candidate only if it carries a verified x account equal to the handle
	Strict bool
}

// Resolver maps handles to directory profiles in paced batches
type Resolver struct {
	s     Searcher
	opts  ResolverOptions
	log   logger.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// NewResolver builds a resolver over s
func NewResolver(s Searcher, o ResolverOptions) *Resolver {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.BatchDelay < 0 {
		o.BatchDelay = 0
	}
	return &Resolver{s: s, opts: o, log: *logger.Named("neynar.resolver"), sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ResolveBatch resolves hs batch by batch, lookups inside a batch running concurrently
// per handle failures are logged and leave the handle out; cancellation stops before the next batch
func (r *Resolver) ResolveBatch(ctx context.Context, hs []handle.Handle) (*match.Resolved, error) {
	out := match.NewResolved(len(hs))
	size := r.opts.BatchSize

	for start := 0; start < len(hs); start += size {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		end := min(start+size, len(hs))
		batch := hs[start:end]
		found := make([]*Profile, len(batch))

		p := pool.New().WithContext(ctx).WithMaxGoroutines(len(batch))
		for i, h := range batch {
			p.Go(func(ctx context.Context) error {
				prof, ok, err := r.resolveOne(ctx, h)
				if err != nil {
					r.log.Warn().Err(err).Str("handle", string(h)).Msg("directory lookup failed")
					return nil
				}
				if ok {
					found[i] = &prof
				}
				return nil
			})
		}
		_ = p.Wait()

		for i, h := range batch {
			if found[i] != nil {
				out.Put(h, *found[i])
			}
		}

		if end < len(hs) {
			if err := r.sleep(ctx, r.opts.BatchDelay); err != nil {
				return out, err
			}
		}
	}

	r.log.Debug().Int("searched", len(hs)).Int("resolved", out.Len()).Msg("batch resolved")
	return out, nil
}

func (r *Resolver) resolveOne(ctx context.Context, h handle.Handle) (Profile, bool, error) {
	users, err := r.s.Search(ctx, string(h))
	if err != nil {
		return Profile{}, false, err
	}
	if len(users) == 0 {
		return Profile{}, false, nil
	}
	if !r.opts.Strict {
		return users[0], true, nil
	}
	for _, u := range users {
		if verifiedAs(u, h) {
			return u, true, nil
		}
	}
	return Profile{}, false, nil
}

func verifiedAs(p Profile, h handle.Handle) bool {
	for _, va := range p.VerifiedAccounts {
		pl := strings.ToLower(va.Platform)
		if (pl == "x" || pl == "twitter") && handle.Normalize(va.Username) == h {
			return true
		}
	}
	return false
}
