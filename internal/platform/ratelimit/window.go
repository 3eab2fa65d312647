// Package ratelimit holds the inbound fixed window limiter shared by mutating routes
package ratelimit

import (
	"context"
	"sync"
	"time"

	"xfriends/internal/platform/logger"
	ptime "xfriends/internal/platform/time"
)

// Defaults for inbound throttling
const (
	DefaultMax    = 10
	DefaultWindow = time.Minute
)

type window struct {
	count   int
	resetAt time.Time
}

// Window counts calls per identifier in fixed windows
// a window opens on the first call and resets once now passes resetAt
type Window struct {
	mu      sync.Mutex
	max     int
	length  time.Duration
	clock   ptime.Clock
	windows map[string]*window
}

// Option tweaks a Window
type Option func(*Window)

// WithClock overrides the clock
func WithClock(c ptime.Clock) Option { return func(w *Window) { w.clock = c } }

// New builds a limiter allowing max calls per length
func New(max int, length time.Duration, opts ...Option) *Window {
	if max <= 0 {
		max = DefaultMax
	}
	if length <= 0 {
		length = DefaultWindow
	}
	w := &Window{max: max, length: length, windows: make(map[string]*window)}
	for _, o := range opts {
		o(w)
	}
	w.clock = ptime.Or(w.clock)
	return w
}

// Allow records one call for id and reports whether it is within the limit
func (w *Window) Allow(id string) bool {
	now := w.clock.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	cur, ok := w.windows[id]
	if !ok || now.After(cur.resetAt) {
		w.windows[id] = &window{count: 1, resetAt: now.Add(w.length)}
		return true
	}
	if cur.count >= w.max {
		return false
	}
	cur.count++
	return true
}

// Sweep drops every expired window and returns how many were removed
func (w *Window) Sweep() int {
	now := w.clock.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for id, cur := range w.windows {
		if now.After(cur.resetAt) {
			delete(w.windows, id)
			n++
		}
	}
	return n
}

// Len returns the number of tracked identifiers
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.windows)
}

// Run sweeps once per window length until ctx is done
func (w *Window) Run(ctx context.Context) {
	log := logger.Named("ratelimit")
	t := time.NewTicker(w.length)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := w.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("swept expired windows")
			}
		}
	}
}
