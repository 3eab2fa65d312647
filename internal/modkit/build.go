package modkit

import (
	"net/http"

	phttp "xfriends/internal/platform/net/http"
)

// Built is the resolved option set a module constructor reads
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	SwaggerOn bool

	Subrouter func(phttp.Router) phttp.Router
	Register  func(phttp.Router)
}

// Option adjusts a module before it is built
type Option func(*Built)

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	b := Built{
		Subrouter: func(r phttp.Router) phttp.Router { return r },
		Register:  func(phttp.Router) {},
	}
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// WithName names the module in logs and the port registry
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix mounts the module under prefix, below /api/v1
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends module wide middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands the module its services; the concrete type belongs to the module
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithSwagger marks the module as swagger aware
func WithSwagger(enabled bool) Option { return func(b *Built) { b.SwaggerOn = enabled } }

// WithSubrouter wraps the module router before routes register
func WithSubrouter(fn func(phttp.Router) phttp.Router) Option {
	return func(b *Built) {
		if fn != nil {
			b.Subrouter = fn
		}
	}
}

// WithRegister replaces the module's route registration
func WithRegister(fn func(phttp.Router)) Option {
	return func(b *Built) {
		if fn != nil {
			b.Register = fn
		}
	}
}

// Mount opens the module prefix on r, applies its middleware and subrouter,
// then registers the module routes followed by any WithRegister extras
func (b Built) Mount(r phttp.Router, routes func(phttp.Router)) {
	r.Route(b.Prefix, func(rr phttp.Router) {
		rr.Use(b.Mw...)
		rr = b.Subrouter(rr)
		routes(rr)
		b.Register(rr)
	})
}
