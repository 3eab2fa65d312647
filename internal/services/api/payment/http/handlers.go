// Package http provides http transport for payment checks
package http

import (
	stdhttp "net/http"

	"xfriends/internal/modkit/httpkit"
	"xfriends/internal/services/api/payment/domain"
)

// Register mounts the routes
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/check", h.check)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /payment/check Payment paymentCheck
// @Summary Whether the next query for an address must be paid
// @Tags payment
// @Produce json
// @Param address query string true "EVM address"
// @Success 200 {object} domain.CheckOutput "ok"
// @Failure 400 {object} httpkit.Envelope "missing or invalid address"
// @Failure 503 {object} httpkit.Envelope "ledger unavailable"
// @Router /payment/check [get]
func (h *handlers) check(r *stdhttp.Request) (any, error) {
	return h.svc.Check(r.Context(), r.URL.Query().Get("address"))
}
