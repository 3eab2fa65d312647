// Package testkit holds helpers shared by package tests
package testkit

import (
	"bytes"
	"sync"
	"testing"

	"xfriends/internal/platform/logger"
)

var serial sync.Mutex

// Swap replaces *target for the rest of the test
func Swap[T any](t testing.TB, target *T, v T) {
	t.Helper()
	prev := *target
	*target = v
	t.Cleanup(func() { *target = prev })
}

// Serial holds a process lock until the test ends, for tests that Swap package seams
func Serial(t testing.TB) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}

// Logs points the root logger at a buffer of JSON lines until the test ends
func Logs(t testing.TB) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger.Init(logger.Options{Level: "debug", Format: "json", Writer: &buf})
	t.Cleanup(func() { logger.Restore(prev) })
	return &buf
}
