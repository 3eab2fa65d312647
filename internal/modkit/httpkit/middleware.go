package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "xfriends/internal/platform/net/http"
	"xfriends/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// CORSOrigins feeds go-chi/cors, empty means the cors defaults
	CORSOrigins []string
	// Slow marks access log lines as warn at or above this latency
	Slow time.Duration
}

// CommonStack returns a baseline per module middleware slice
// compose with auth, origin and rate limit guards per route group
func CommonStack(opts ...StackOptions) []func(http.Handler) http.Handler {
	var o StackOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Slow == 0 {
		o.Slow = 2 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RequestLogger,
		middleware.AccessLog(o.Slow),
		middleware.Recover(phttp.RespondError),
		middleware.NoCache(),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// Auth wires the auth middleware to the platform envelope writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.RespondError)
}

// Origin wires the origin allowlist to the platform envelope writer
func Origin(allowed []string) func(http.Handler) http.Handler {
	return middleware.Origin(allowed, phttp.RespondError)
}

// RateLimit wires the inbound limiter to the platform envelope writer, keyed by middleware.CallerID
func RateLimit(l middleware.Limiter) func(http.Handler) http.Handler {
	return middleware.RateLimit(l, middleware.CallerID, phttp.RespondError)
}

// OptionalAuth annotates the caller when a valid token is present and never rejects
func OptionalAuth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.OptionalAuth(p)
}
