// Package http provides http transport for the social endpoints
package http

import (
	stdhttp "net/http"

	"xfriends/internal/modkit/httpkit"
	pnet "xfriends/internal/platform/net"
	"xfriends/internal/services/api/social/domain"
)

// Guards are the per route group middlewares
type Guards struct {
	// Public guards the anonymous writes (origin and throttle)
	Public []func(stdhttp.Handler) stdhttp.Handler
	// Session guards the signed in sync routes
	Session []func(stdhttp.Handler) stdhttp.Handler
	// Annotate identifies the caller without rejecting
	Annotate []func(stdhttp.Handler) stdhttp.Handler
}

// Register mounts the routes
func Register(r httpkit.Router, s domain.ServicePort, g Guards) {
	h := &handlers{svc: s}

	r.Group(func(pub httpkit.Router) {
		pub.Use(g.Public...)
		httpkit.PostJSON(pub, "/match", h.match)
		pub.Group(func(fr httpkit.Router) {
			fr.Use(g.Annotate...)
			httpkit.PostJSON(fr, "/following", h.following)
		})
	})

	r.Group(func(sr httpkit.Router) {
		sr.Use(g.Session...)
		httpkit.Get(sr, "/sync", h.saved)
		sr.Group(func(wr httpkit.Router) {
			wr.Use(g.Public...)
			httpkit.Post(wr, "/sync", h.sync)
		})
	})
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /social/match Social socialMatch
// @Summary Resolve x handles to Farcaster profiles
// @Tags social
// @Accept json
// @Produce json
// @Param body body domain.MatchInput true "handles"
// @Success 200 {object} domain.MatchOutput "ranked matches"
// @Failure 400 {object} httpkit.Envelope "missing handles"
// @Failure 403 {object} httpkit.Envelope "invalid origin"
// @Failure 429 {object} httpkit.Envelope "rate limited"
// @Failure 500 {object} httpkit.Envelope "directory failure"
// @Router /social/match [post]
func (h *handlers) match(r *stdhttp.Request, in domain.MatchInput) (any, error) {
	return h.svc.Match(r.Context(), in)
}

// swagger:route POST /social/following Social socialFollowing
// @Summary The x following list, behind the payment gate
// @Tags social
// @Accept json
// @Produce json
// @Param body body domain.FollowingInput true "request"
// @Success 200 {object} domain.FollowingOutput "following usernames"
// @Failure 400 {object} httpkit.Envelope "invalid request"
// @Failure 403 {object} httpkit.Envelope "payment required"
// @Failure 500 {object} httpkit.Envelope "provider failure"
// @Router /social/following [post]
func (h *handlers) following(r *stdhttp.Request, in domain.FollowingInput) (any, error) {
	return h.svc.Following(r.Context(), pnet.Owner(r.Context()), in)
}

// swagger:route POST /social/sync Social socialSync
// @Summary Build or return the caller's saved follow graph
// @Tags social
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.SyncOutput "snapshot"
// @Failure 401 {object} httpkit.Envelope "not signed in"
// @Failure 500 {object} httpkit.Envelope "sync failure"
// @Router /social/sync [post]
func (h *handlers) sync(r *stdhttp.Request) (any, error) {
	owner, handle, err := httpkit.Caller(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Sync(r.Context(), owner, handle)
}

// swagger:route GET /social/sync Social socialSaved
// @Summary The caller's saved follow graph, never fetched
// @Tags social
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.SavedOutput "snapshot or empty"
// @Failure 401 {object} httpkit.Envelope "not signed in"
// @Router /social/sync [get]
func (h *handlers) saved(r *stdhttp.Request) (any, error) {
	owner, _, err := httpkit.Caller(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Saved(r.Context(), owner)
}
