package middleware

import (
	"net/http"

	"xfriends/internal/platform/logger"
	pnet "xfriends/internal/platform/net"
)

// ErrorWriter renders an error for the request, usually the platform envelope writer
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// AuthPort resolves the signed in caller from a request
type AuthPort interface {
	// Parse returns the owner key and x handle of the caller or an error
	Parse(r *http.Request) (owner string, handle string, err error)
}

// Auth annotates the context with the caller resolved by the port
// a nil port passes everything through
func Auth(p AuthPort, write ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			owner, handle, err := p.Parse(r)
			if err != nil {
				write(w, r, err)
				return
			}
			ctx := pnet.WithCaller(r.Context(), owner, handle)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth annotates the context when the port accepts the request and passes through otherwise
func OptionalAuth(p AuthPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil || r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			owner, handle, err := p.Parse(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := pnet.WithCaller(r.Context(), owner, handle)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
