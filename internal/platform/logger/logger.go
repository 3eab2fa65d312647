// Package logger owns the process zerolog root and hands out request scoped children
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"xfriends/internal/core/version"
	"xfriends/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project logging type
type Logger = zerolog.Logger

// Options shapes the root logger
type Options struct {
	Level       string
	Format      string // console or json
	Service     string
	Writer      io.Writer
	Caller      bool
	SampleEvery int
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_CALLER and LOG_SAMPLE_EVERY
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       env.Get("LEVEL", "info"),
		Format:      strings.ToLower(env.Get("FORMAT", "console")),
		Service:     env.Get("SERVICE", version.Service),
		Caller:      env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New builds a logger from opt without touching the process root
func New(opt Options) Logger {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opt.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	b := zerolog.New(w).Level(lvl).With().Timestamp().Str("version", version.Info().Version)
	if opt.Service != "" {
		b = b.Str("service", opt.Service)
	}
	if opt.Caller {
		b = b.Caller()
	}
	l := b.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

var root atomic.Pointer[Logger]

// Init replaces the process root and returns the previous one, nil on first call
func Init(opt Options) *Logger {
	l := New(opt)
	return root.Swap(&l)
}

// Get returns the process root, building it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	l := New(FromEnv())
	root.CompareAndSwap(nil, &l)
	return root.Load()
}

// Restore puts back a root returned by Init
func Restore(prev *Logger) {
	if prev != nil {
		root.Store(prev)
	}
}

type ctxKey uint8

const (
	keyRequestID ctxKey = iota
	keyOwner
)

// WithRequest remembers the request id and caller owner key so C can attach them
func WithRequest(ctx context.Context, reqID, owner string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if owner != "" {
		ctx = context.WithValue(ctx, keyOwner, owner)
	}
	return ctx
}

// C returns a child of the root carrying request_id and owner from ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	if s, _ := ctx.Value(keyRequestID).(string); s != "" {
		b = b.Str("request_id", s)
	}
	if s, _ := ctx.Value(keyOwner).(string); s != "" {
		b = b.Str("owner", s)
	}
	l := b.Logger()
	return &l
}

// Named returns a child of the root tagged with component
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}

func Nop() Logger { return zerolog.Nop() }
