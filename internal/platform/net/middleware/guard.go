package middleware

import (
	"net"
	"net/http"
	"strings"

	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
)

// Limiter is the inbound throttle seam, satisfied by ratelimit.Window
type Limiter interface {
	Allow(id string) bool
}

// Origin rejects requests whose Origin header does not start with an allowed origin
// a missing Origin is rejected too
func Origin(allowed []string, write ErrorWriter) func(http.Handler) http.Handler {
	clean := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if a = strings.TrimSpace(a); a != "" {
			clean = append(clean, a)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if !originAllowed(origin, clean) {
				logger.C(r.Context()).Warn().Str("origin", origin).Msg("origin rejected")
				write(w, r, perr.Forbiddenf("Invalid origin"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if strings.HasPrefix(origin, a) {
			return true
		}
	}
	return false
}

// Identify returns the throttle key for a request
type Identify func(r *http.Request) string

// CallerID keys by the address query param, then the first X-Forwarded-For hop, then the RemoteAddr host
// the port is dropped so every connection from one ip shares a window
func CallerID(r *http.Request) string {
	if a := strings.TrimSpace(r.URL.Query().Get("address")); a != "" {
		return strings.ToLower(a)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}
	return "unknown"
}

// RateLimit throttles requests per identifier
func RateLimit(l Limiter, id Identify, write ErrorWriter) func(http.Handler) http.Handler {
	if id == nil {
		id = CallerID
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := id(r)
			if !l.Allow(key) {
				logger.C(r.Context()).Warn().Str("caller", key).Msg("rate limited")
				write(w, r, perr.TooManyf("Too many requests. Please try again later."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
