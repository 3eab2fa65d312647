// Package http provides http transport for the mini app webhook
package http

import (
	"io"
	stdhttp "net/http"

	"github.com/bytedance/sonic"

	"xfriends/internal/modkit/httpkit"
	perr "xfriends/internal/platform/errors"
	"xfriends/internal/services/api/webhook/domain"
)

// MaxBody caps a delivery
const MaxBody = 64 << 10

// Register mounts the routes
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.Post(r, "/", h.receive)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /webhook Webhook webhookReceive
// @Summary Mini app lifecycle events from a Farcaster host
// @Tags webhook
// @Accept json
// @Produce json
// @Param body body domain.Payload true "event, optionally wrapped in data"
// @Success 200 {object} domain.Ack "acknowledged"
// @Failure 400 {object} httpkit.Envelope "invalid webhook payload"
// @Failure 500 {object} httpkit.Envelope "processing failed"
// @Router /webhook [post]
func (h *handlers) receive(r *stdhttp.Request) (any, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, MaxBody))
	if err != nil {
		return nil, perr.Validationf("Invalid webhook payload")
	}
	// unknown fields are ignored; hosts add to the envelope freely
	var w domain.Wire
	if err := sonic.Unmarshal(raw, &w); err != nil {
		return nil, perr.Validationf("Invalid webhook payload")
	}
	return h.svc.Handle(r.Context(), w.Unwrap())
}
