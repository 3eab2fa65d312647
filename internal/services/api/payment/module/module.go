// Package module mounts the payment check
package module

import (
	modkit "xfriends/internal/modkit"
	"xfriends/internal/modkit/httpkit"
	phttp "xfriends/internal/services/api/payment/http"
	psvc "xfriends/internal/services/api/payment/service"
)

// Ports declares what this module needs injected
type Ports struct {
	Gate psvc.Checker
}

// Module serves /payment
type Module struct {
	b   modkit.Built
	svc *psvc.Service
}

// New panics without Ports{Gate}
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("payment"),
		modkit.WithPrefix("/payment"),
	}, opts...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Gate == nil {
		panic("payment module requires Ports{Gate}")
	}
	return &Module{b: b, svc: psvc.New(p.Gate)}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { phttp.Register(rr, m.svc) })
}

func (m *Module) Name() string { return m.b.Name }

// Ports exposes the payment service
func (m *Module) Ports() any { return m.svc }
