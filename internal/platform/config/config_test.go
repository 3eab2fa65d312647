package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixNests(t *testing.T) {
	c := New().Prefix("SERVICE_").Prefix("NEYNAR_")
	assert.Equal(t, "SERVICE_NEYNAR_API_KEY", c.key("API_KEY"))
}

func TestMust(t *testing.T) {
	c := New().Prefix("XF_")
	t.Setenv("XF_SESSION_SECRET", "  s3cret ")
	t.Setenv("XF_MATCH_LIMIT", " 200 ")
	t.Setenv("XF_PAYMENT_ENABLED", "true")
	t.Setenv("XF_NOTIFY_TIMEOUT", "5s")
	t.Setenv("XF_NEYNAR_URL", "https://api.neynar.com/v2")
	t.Setenv("XF_PORT", "4000")

	assert.Equal(t, "s3cret", c.MustString("SESSION_SECRET"))
	assert.Equal(t, 200, c.MustInt("MATCH_LIMIT"))
	assert.True(t, c.MustBool("PAYMENT_ENABLED"))
	assert.Equal(t, 5*time.Second, c.MustDuration("NOTIFY_TIMEOUT"))
	assert.Equal(t, "api.neynar.com", c.MustURL("NEYNAR_URL").Host)
	assert.Equal(t, ":4000", c.MustPort("PORT"))
	c.Require("SESSION_SECRET", "PORT")

	t.Setenv("XF_BLANK", "   ")
	t.Setenv("XF_WORD", "nope")
	t.Setenv("XF_RELATIVE", "/v2")
	t.Setenv("XF_HIGH", "70000")
	panics := map[string]func(){
		"missing":      func() { c.MustString("MISSING") },
		"blank":        func() { c.MustString("BLANK") },
		"int":          func() { c.MustInt("WORD") },
		"bool":         func() { c.MustBool("WORD") },
		"duration":     func() { c.MustDuration("WORD") },
		"relative url": func() { c.MustURL("RELATIVE") },
		"port range":   func() { c.MustPort("HIGH") },
		"port word":    func() { c.MustPort("WORD") },
		"require":      func() { c.Require("PORT", "BLANK") },
	}
	for name, fn := range panics {
		t.Run(name, func(t *testing.T) { assert.Panics(t, fn) })
	}
}

func TestMay(t *testing.T) {
	c := New().Prefix("XF_")
	t.Setenv("XF_HOST", " api.xfriends.example ")
	t.Setenv("XF_CONNS", "8")
	t.Setenv("XF_RATE", "0.25")
	t.Setenv("XF_STRICT", "1")
	t.Setenv("XF_TTL", "90m")
	t.Setenv("XF_BAD", "nope")

	assert.Equal(t, "api.xfriends.example", c.MayString("HOST", "x"))
	assert.Equal(t, "def", c.MayString("MISSING", "def"))
	assert.Equal(t, 8, c.MayInt("CONNS", 4))
	assert.Equal(t, 4, c.MayInt("BAD", 4))
	assert.InDelta(t, 0.25, c.MayFloat64("RATE", 1), 1e-9)
	assert.InDelta(t, 1.0, c.MayFloat64("BAD", 1), 1e-9)
	assert.True(t, c.MayBool("STRICT", false))
	assert.False(t, c.MayBool("BAD", false))
	assert.Equal(t, 90*time.Minute, c.MayDuration("TTL", time.Hour))
	assert.Equal(t, time.Hour, c.MayDuration("BAD", time.Hour))
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("XF_")
	def := []string{"https://xfriends.example"}
	assert.Equal(t, def, c.MayCSV("ORIGINS", def))

	t.Setenv("XF_ORIGINS", " https://a.example, ,https://b.example ,, ")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.MayCSV("ORIGINS", def))

	t.Setenv("XF_ORIGINS", " , ")
	assert.Equal(t, def, c.MayCSV("ORIGINS", def))
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("XF_")
	assert.Equal(t, "memory", c.MayEnum("CACHE", "memory", "memory", "redis", "pg"))

	t.Setenv("XF_CACHE", "Redis")
	assert.Equal(t, "Redis", c.MayEnum("CACHE", "memory", "memory", "redis", "pg"))

	t.Setenv("XF_CACHE", "etcd")
	assert.Panics(t, func() { c.MayEnum("CACHE", "memory", "memory", "redis", "pg") })

	require.Equal(t, "", c.MayEnum("NONE", "", "a"))
}
