// Package http serves liveness, readiness and build info
package http

import (
	"context"
	"net/http"
	"time"

	"xfriends/internal/core/version"
	"xfriends/internal/modkit/httpkit"
	ptime "xfriends/internal/platform/time"

	"github.com/sourcegraph/conc/iter"
)

// Pinger is any dependency that can report itself reachable
type Pinger interface {
	Ping(context.Context) error
}

// Check names one readiness dependency; a nil Pinger means not configured
type Check struct {
	Name   string
	Pinger Pinger
}

// Deps feeds the handlers
type Deps struct {
	StartedAt time.Time
	Clock     ptime.Clock
	Checks    []Check
	// ProbeTimeout bounds the whole readiness probe, 2s when zero
	ProbeTimeout time.Duration
}

type handlers struct {
	Deps
}

// Register mounts /health, /ready and /version on r
func Register(r httpkit.Router, d Deps) {
	d.Clock = ptime.Or(d.Clock)
	if d.ProbeTimeout <= 0 {
		d.ProbeTimeout = 2 * time.Second
	}
	h := handlers{d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

// HealthResponse reports liveness and uptime
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"xfriends-api"`
	Started string `json:"started" example:"2026-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// ReadyCheck is the outcome of one dependency probe: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name"            example:"cache"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:6379: connect: connection refused"`
}

// ReadyResponse is ok only when every configured dependency answered
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
}

// @Summary Health check
// @Tags meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: version.Service,
		Started: h.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.Clock.Now().Sub(h.StartedAt) / time.Second),
	}, nil
}

// @Summary Readiness probe, pings cache, postgres and clickhouse when configured
// @Tags meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.ProbeTimeout)
	defer cancel()

	checks := iter.Map(h.Checks, func(c *Check) ReadyCheck {
		if c.Pinger == nil {
			return ReadyCheck{Name: c.Name, Status: "skipped"}
		}
		if err := c.Pinger.Ping(ctx); err != nil {
			return ReadyCheck{Name: c.Name, Status: "fail", Error: err.Error()}
		}
		return ReadyCheck{Name: c.Name, Status: "ok"}
	})

	out := ReadyResponse{Status: "ok", Checks: checks}
	for _, c := range checks {
		if c.Status == "fail" {
			out.Status = "fail"
			return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
		}
	}
	return out, nil
}

// @Summary Build and version info
// @Tags meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (handlers) version(*http.Request) (any, error) {
	return version.Info(), nil
}
