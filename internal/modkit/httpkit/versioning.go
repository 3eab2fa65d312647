package httpkit

import "net/http"

// APIV1 is where every module mounts
const APIV1 = "/api/v1"

// MountAPIV1 scopes mw to /api/v1 and lets mount register modules under it
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(APIV1, func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}
