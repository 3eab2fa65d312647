// Package domain holds the mini app webhook payload and ports
package domain

import (
	"context"

	"xfriends/internal/adapters/notify"
)

// Event names a host app sends
const (
	EventMiniAppAdded          = "miniapp_added"
	EventAppAdded              = "app_added"
	EventMiniAppRemoved        = "miniapp_removed"
	EventAppRemoved            = "app_removed"
	EventNotificationsEnabled  = "notifications_enabled"
	EventNotificationsDisabled = "notifications_disabled"
)

// Event is the lifecycle event; older hosts send type instead of event
type Event struct {
	Event               string          `json:"event,omitempty"`
	Type                string          `json:"type,omitempty"`
	NotificationDetails *notify.Details `json:"notificationDetails,omitempty"`
}

// Name returns event, falling back to type
func (e Event) Name() string {
	if e.Event != "" {
		return e.Event
	}
	return e.Type
}

// Payload is one webhook delivery
type Payload struct {
	FID    int64  `json:"fid" example:"3"`
	AppFID int64  `json:"appFid" example:"9152"`
	Event  *Event `json:"event"`
}

// Wire accepts both the bare payload and the {data:{...}} wrapper
type Wire struct {
	Payload
	Data *Payload `json:"data,omitempty"`
}

// Unwrap returns the wrapped payload when present
func (w Wire) Unwrap() Payload {
	if w.Data != nil {
		return *w.Data
	}
	return w.Payload
}

// Ack is returned once the event is recorded; pushes finish later
type Ack struct {
	Success bool `json:"success" example:"true"`
}

// Notifier pushes one notification
type Notifier interface {
	Send(ctx context.Context, d notify.Details, n notify.Notification) notify.Result
}

// ServicePort is implemented by the webhook service
type ServicePort interface {
	Handle(ctx context.Context, p Payload) (Ack, error)
}
