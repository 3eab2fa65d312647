// Package raw reads environment variables without logging, for use before the logger exists
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Env is a prefixed view of the process environment
type Env struct{ prefix string }

func New() Env { return Env{} }

// Prefix nests p under the current prefix
func (e Env) Prefix(p string) Env { return Env{prefix: e.prefix + p} }

func (e Env) lookup(k string) string { return strings.TrimSpace(os.Getenv(e.prefix + k)) }

// Get returns the trimmed value or def when unset or blank
func (e Env) Get(k, def string) string {
	if v := e.lookup(k); v != "" {
		return v
	}
	return def
}

// GetBool treats 1, true and yes as true in any case; unset falls back to def
func (e Env) GetBool(k string, def bool) bool {
	switch strings.ToLower(e.lookup(k)) {
	case "":
		return def
	case "1", "true", "yes":
		return true
	}
	return false
}

// GetInt parses a non negative integer, def on anything else
func (e Env) GetInt(k string, def int) int {
	n, err := strconv.Atoi(e.lookup(k))
	if err != nil || n < 0 {
		return def
	}
	return n
}
