// Package config reads xfriends settings from the environment
// Must* panics through the logger on a missing or malformed value; May* falls back to a default
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"xfriends/internal/platform/logger"
)

// Conf is a view over env vars sharing a prefix such as "SERVICE_NEYNAR_"
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix narrows the view; prefixes concatenate
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// must reads k through parse and panics when it is empty or parse fails
func must[T any](c Conf, k string, parse func(string) (T, error)) T {
	s := c.lookup(k)
	if s == "" {
		logger.Get().Panic().Str("key", c.key(k)).Msg("missing required env")
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().Str("key", c.key(k)).Str("value", s).Err(err).Msg("invalid env value")
	}
	return v
}

// may reads k through parse; an empty value gives def, a bad one warns and gives def
func may[T any](c Conf, k string, def T, parse func(string) (T, error)) T {
	s := c.lookup(k)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(k)).Str("value", s).Interface("default", def).Msg("invalid env value, using default")
		return def
	}
	return v
}

func str(s string) (string, error) { return s, nil }

func absURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%q is not an absolute url", s)
	}
	return u, nil
}

func port(s string) (string, error) {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		return "", fmt.Errorf("port %q outside 1..65535", s)
	}
	return ":" + s, nil
}

func float(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// MustString returns the trimmed value of key
func (c Conf) MustString(key string) string { return must(c, key, str) }

// MustInt returns key as an int
func (c Conf) MustInt(key string) int { return must(c, key, strconv.Atoi) }

// MustBool returns key as a bool
func (c Conf) MustBool(key string) bool { return must(c, key, strconv.ParseBool) }

// MustDuration returns key as a duration such as 250ms or 1h
func (c Conf) MustDuration(key string) time.Duration { return must(c, key, time.ParseDuration) }

// MustURL returns key as an absolute url, e.g. a provider base url
func (c Conf) MustURL(key string) *url.URL { return must(c, key, absURL) }

// MustPort returns key as a listen addr like ":4000"
func (c Conf) MustPort(key string) string { return must(c, key, port) }

// Require panics on the first empty key
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		_ = c.MustString(k)
	}
}

// MayString returns key or def when empty
func (c Conf) MayString(key, def string) string { return may(c, key, def, str) }

// MayInt returns key as an int or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayFloat64 returns key as a float64 or def
func (c Conf) MayFloat64(key string, def float64) float64 { return may(c, key, def, float) }

// MayBool returns key as a bool or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration returns key as a duration or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits key on commas, dropping blanks; def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns key or def and panics when the value is not in allowed
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
