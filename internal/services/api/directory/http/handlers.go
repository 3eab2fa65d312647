// Package http provides http transport for the directory endpoints
package http

import (
	stdhttp "net/http"

	"xfriends/internal/modkit/httpkit"
	"xfriends/internal/services/api/directory/domain"
)

// Register mounts the routes; guard wraps the follow route
func Register(r httpkit.Router, s domain.ServicePort, guard ...func(stdhttp.Handler) stdhttp.Handler) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/user", h.user)
	r.Group(func(g httpkit.Router) {
		g.Use(guard...)
		httpkit.PostJSON(g, "/follow", h.follow)
	})
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /directory/user Directory directoryUser
// @Summary A Farcaster profile by fid
// @Tags directory
// @Produce json
// @Param id query int false "fid"
// @Param fid query int false "fid, alias of id"
// @Success 200 {object} domain.UserOutput "profile or null"
// @Failure 400 {object} httpkit.Envelope "missing or invalid fid"
// @Failure 500 {object} httpkit.Envelope "directory failure"
// @Router /directory/user [get]
func (h *handlers) user(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	id := q.Get("id")
	if id == "" {
		id = q.Get("fid")
	}
	return h.svc.User(r.Context(), id)
}

// swagger:route POST /directory/follow Directory directoryFollow
// @Summary Follow a Farcaster user with a managed signer
// @Tags directory
// @Accept json
// @Produce json
// @Param body body domain.FollowInput true "follow request"
// @Success 200 {object} domain.FollowOutput "followed"
// @Failure 400 {object} httpkit.Envelope "invalid request"
// @Failure 403 {object} httpkit.Envelope "invalid origin"
// @Failure 500 {object} httpkit.Envelope "directory failure"
// @Router /directory/follow [post]
func (h *handlers) follow(r *stdhttp.Request, in domain.FollowInput) (any, error) {
	return h.svc.Follow(r.Context(), in)
}
