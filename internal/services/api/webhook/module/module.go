// Package module mounts the mini app webhook
package module

import (
	"time"

	modkit "xfriends/internal/modkit"
	"xfriends/internal/modkit/httpkit"
	"xfriends/internal/services/api/webhook/domain"
	whttp "xfriends/internal/services/api/webhook/http"
	wsvc "xfriends/internal/services/api/webhook/service"

	"github.com/sourcegraph/conc"
)

// Ports declares what this module needs injected
// Pushes lets the caller wait for in flight notifications at shutdown
type Ports struct {
	Notifier domain.Notifier
	Timeout  time.Duration
	Pushes   *conc.WaitGroup
}

// Module serves /webhook
type Module struct {
	b   modkit.Built
	svc *wsvc.Service
}

// New panics without Deps.Cache and Ports{Notifier}
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("webhook"),
		modkit.WithPrefix("/webhook"),
	}, opts...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Notifier == nil || deps.Cache == nil {
		panic("webhook module requires Deps.Cache and Ports{Notifier}")
	}
	return &Module{
		b:   b,
		svc: wsvc.New(deps.Cache, p.Notifier, wsvc.Options{Timeout: p.Timeout, Group: p.Pushes}),
	}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { whttp.Register(rr, m.svc) })
}

func (m *Module) Name() string { return m.b.Name }

// Ports exposes the webhook service
func (m *Module) Ports() any { return m.svc }
