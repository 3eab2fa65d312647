// Package module mounts the social endpoints: match, following snapshots and sync
package module

import (
	"net/http"

	modkit "xfriends/internal/modkit"
	"xfriends/internal/modkit/httpkit"
	"xfriends/internal/platform/net/middleware"
	"xfriends/internal/services/api/social/domain"
	shttp "xfriends/internal/services/api/social/http"
	ssvc "xfriends/internal/services/api/social/service"
	"xfriends/internal/services/matchlog"
)

// Ports declares what this module needs injected
// Limiter and Origins are optional; without them the anonymous routes are unguarded
type Ports struct {
	Engine    domain.Matcher
	Gate      domain.Gate
	Snapshots domain.Snapshots
	Events    matchlog.Sink
	Auth      middleware.AuthPort
	Limiter   middleware.Limiter
	Origins   []string
}

// Module serves /social
type Module struct {
	b      modkit.Built
	svc    *ssvc.Service
	guards shttp.Guards
}

// New panics without Deps.Cache and Ports{Engine, Gate, Snapshots, Auth}
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("social"),
		modkit.WithPrefix("/social"),
	}, opts...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Engine == nil || p.Gate == nil || p.Snapshots == nil || p.Auth == nil {
		panic("social module requires Ports{Engine, Gate, Snapshots, Auth}")
	}
	if deps.Cache == nil {
		panic("social module requires Deps.Cache")
	}

	m := &Module{
		b: b,
		svc: ssvc.New(ssvc.Deps{
			Engine:    p.Engine,
			Cache:     deps.Cache,
			Gate:      p.Gate,
			Snapshots: p.Snapshots,
			Events:    p.Events,
		}),
		guards: shttp.Guards{
			Session:  []func(http.Handler) http.Handler{httpkit.Auth(p.Auth)},
			Annotate: []func(http.Handler) http.Handler{httpkit.OptionalAuth(p.Auth)},
		},
	}
	if len(p.Origins) > 0 {
		m.guards.Public = append(m.guards.Public, httpkit.Origin(p.Origins))
	}
	if p.Limiter != nil {
		m.guards.Public = append(m.guards.Public, httpkit.RateLimit(p.Limiter))
	}
	return m
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { shttp.Register(rr, m.svc, m.guards) })
}

func (m *Module) Name() string { return m.b.Name }

// Ports exposes the social service
func (m *Module) Ports() any { return m.svc }
