package cache

import (
	"context"
	"sync"
	"time"

	ptime "xfriends/internal/platform/time"
)

// Memory is the in process fallback backend
// entries expire lazily on read and eagerly through Run
type Memory struct {
	mu      sync.RWMutex
	data    map[string][]byte
	expires map[string]time.Time
	clock   ptime.Clock
}

// NewMemory builds an empty store; a nil clock means the system clock
func NewMemory(clock ptime.Clock) *Memory {
	return &Memory{
		data:    make(map[string][]byte),
		expires: make(map[string]time.Time),
		clock:   ptime.Or(clock),
	}
}

// Name implements Backend
func (m *Memory) Name() string { return "memory" }

// Get implements Backend
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := m.clock.Now()

	m.mu.RLock()
	val, ok := m.data[key]
	exp := m.expires[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !now.Before(exp) {
		m.mu.Lock()
		// recheck under the write lock, a concurrent Set may have refreshed it
		if e, still := m.expires[key]; still && !now.Before(e) {
			delete(m.data, key)
			delete(m.expires, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true, nil
}

// Set implements Backend
func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	cp := make([]byte, len(val))
	copy(cp, val)

	m.mu.Lock()
	m.data[key] = cp
	m.expires[key] = m.clock.Now().Add(ttl)
	m.mu.Unlock()
	return nil
}

// Delete implements Backend
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	delete(m.expires, key)
	m.mu.Unlock()
	return nil
}

// Ping implements Backend
func (m *Memory) Ping(context.Context) error { return nil }

// Len returns the number of stored entries, expired ones included until swept
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Sweep removes expired entries and returns how many went
func (m *Memory) Sweep() int {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for k, exp := range m.expires {
		if !now.Before(exp) {
			delete(m.data, k)
			delete(m.expires, k)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
