// Package module mounts the mini app directory endpoints
package module

import (
	"net/http"

	modkit "xfriends/internal/modkit"
	"xfriends/internal/modkit/httpkit"
	"xfriends/internal/platform/net/middleware"
	"xfriends/internal/services/api/directory/domain"
	dhttp "xfriends/internal/services/api/directory/http"
	dsvc "xfriends/internal/services/api/directory/service"
)

// Ports declares what this module needs injected
// Limiter and Origins guard the follow route when set
type Ports struct {
	Directory domain.Directory
	Limiter   middleware.Limiter
	Origins   []string
}

// Module serves /directory
type Module struct {
	b     modkit.Built
	svc   *dsvc.Service
	guard []func(http.Handler) http.Handler
}

// New panics without Deps.Cache and Ports{Directory}
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("directory"),
		modkit.WithPrefix("/directory"),
	}, opts...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Directory == nil || deps.Cache == nil {
		panic("directory module requires Deps.Cache and Ports{Directory}")
	}

	m := &Module{b: b, svc: dsvc.New(p.Directory, deps.Cache)}
	if len(p.Origins) > 0 {
		m.guard = append(m.guard, httpkit.Origin(p.Origins))
	}
	if p.Limiter != nil {
		m.guard = append(m.guard, httpkit.RateLimit(p.Limiter))
	}
	return m
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { dhttp.Register(rr, m.svc, m.guard...) })
}

func (m *Module) Name() string { return m.b.Name }

// Ports exposes the directory service
func (m *Module) Ports() any { return m.svc }
