// Package modkit wires api modules: shared deps in, routes and ports out
package modkit

import (
	phttp "xfriends/internal/platform/net/http"
)

// Module is what the api mounts; each module owns one route prefix
type Module interface {
	MountRoutes(r phttp.Router)
	// Ports is the module's service surface for cross wiring and tests
	Ports() any
	Name() string
}
