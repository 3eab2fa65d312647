// Package module mounts the meta endpoints
package module

import (
	modkit "xfriends/internal/modkit"
	"xfriends/internal/modkit/httpkit"
	metahttp "xfriends/internal/services/api/meta/http"
)

// Module serves /meta
type Module struct {
	b    modkit.Built
	meta metahttp.Deps
}

// New never fails; missing stores show up as skipped readiness checks
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	return &Module{b: b, meta: metahttp.Deps{
		StartedAt: deps.Now().Now(),
		Clock:     deps.Clock,
		Checks:    readiness(deps),
	}}
}

func readiness(deps modkit.Deps) []metahttp.Check {
	checks := []metahttp.Check{{Name: "cache"}, {Name: "pg"}, {Name: "ch"}}
	if deps.Cache != nil {
		checks[0].Pinger = deps.Cache
	}
	if deps.Store != nil {
		if p, ok := deps.Store.PG.(metahttp.Pinger); ok {
			checks[1].Pinger = p
		}
		if p, ok := deps.Store.CH.(metahttp.Pinger); ok {
			checks[2].Pinger = p
		}
	}
	return checks
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.meta) })
}

func (m *Module) Name() string { return m.b.Name }
func (m *Module) Ports() any { return nil }
