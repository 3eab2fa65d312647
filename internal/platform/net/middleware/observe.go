package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
	pnet "xfriends/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger makes logger.C carry the request id and caller; it must run after RequestID
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		next.ServeHTTP(w, r.WithContext(logger.WithRequest(ctx, pnet.RequestID(ctx), pnet.Owner(ctx))))
	})
}

// Recover turns a panic into a 500 envelope and logs the stack
func Recover(write ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.C(r.Context()).Error().
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				write(w, r, perr.PanicErrf("Internal server error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog writes one line per request, at warn when it took slow or longer
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			took := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.C(r.Context())
			evt := log.Info()
			switch {
			case status >= http.StatusInternalServerError:
				evt = log.Error()
			case slow > 0 && took >= slow:
				evt = log.Warn().Bool("slow", true)
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("took", took).
				Msg("request")
		})
	}
}
