// Package time contains time related helpers and a swappable clock
package time

import (
	"sync"
	"time"
)

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Clock is the seam for anything that compares against wall time
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain func to Clock
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time { return f() }

// System is the real clock
var System Clock = ClockFunc(time.Now)

// Or returns c, falling back to System when nil
func Or(c Clock) Clock {
	if c == nil {
		return System
	}
	return c
}

// Fake is a manually advanced clock for tests
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a fake clock frozen at start
func NewFake(start time.Time) *Fake { return &Fake{now: start} }

// Now implements Clock
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// RFC3339 formats t in UTC with millisecond precision, the shape js Date.toISOString produces
func RFC3339(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
