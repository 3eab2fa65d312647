// Package service stores mini app push credentials and sends lifecycle notifications
package service

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"xfriends/internal/adapters/notify"
	"xfriends/internal/platform/cache"
	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
	"xfriends/internal/services/api/webhook/domain"
)

var (
	welcome = notify.Notification{Title: "Welcome to Find X Friends!", Body: "Start discovering your X friends on Farcaster"}
	enabled = notify.Notification{Title: "Notifications enabled!", Body: "We'll notify you when your friends join Farcaster"}
)

// Options configures the service
type Options struct {
	// Timeout bounds each detached push
	Timeout time.Duration
	// Group tracks pushes; nil means the service owns one
	Group *conc.WaitGroup
}

// Service implements domain.ServicePort
type Service struct {
	cache    *cache.Cache
	notifier domain.Notifier
	timeout  time.Duration
	wg       *conc.WaitGroup
}

var _ domain.ServicePort = (*Service)(nil)

// New returns a webhook service
func New(c *cache.Cache, n domain.Notifier, o Options) *Service {
	if o.Timeout <= 0 {
		o.Timeout = notify.DefaultTimeout
	}
	if o.Group == nil {
		o.Group = &conc.WaitGroup{}
	}
	return &Service{cache: c, notifier: n, timeout: o.Timeout, wg: o.Group}
}

// Handle records the event and schedules any push; it never waits on the push
func (s *Service) Handle(ctx context.Context, p domain.Payload) (domain.Ack, error) {
	if p.FID <= 0 || p.Event == nil {
		return domain.Ack{}, perr.WithDetails(perr.Validationf("Invalid webhook payload"), "fid and event are required")
	}
	name := p.Event.Name()
	log := logger.C(ctx).With().Int64("fid", p.FID).Int64("app_fid", p.AppFID).Str("event", name).Logger()
	key := cache.NotificationKey(p.FID, p.AppFID)

	switch name {
	case domain.EventMiniAppAdded, domain.EventAppAdded, domain.EventNotificationsEnabled:
		d := p.Event.NotificationDetails
		if d == nil {
			log.Info().Msg("event without notification details")
			break
		}
		if !d.Valid() {
			log.Warn().Msg("incomplete notification details ignored")
			break
		}
		if err := s.cache.Set(ctx, key, d, cache.NotificationTTL); err != nil {
			log.Error().Err(err).Msg("store notification details")
			return domain.Ack{}, perr.Wrap(err, perr.ErrorCodeUnknown, "Webhook processing failed")
		}
		n := welcome
		if name == domain.EventNotificationsEnabled {
			n = enabled
		}
		s.push(ctx, p.FID, p.AppFID, n)

	case domain.EventMiniAppRemoved, domain.EventAppRemoved, domain.EventNotificationsDisabled:
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Error().Err(err).Msg("delete notification details")
			return domain.Ack{}, perr.Wrap(err, perr.ErrorCodeUnknown, "Webhook processing failed")
		}

	default:
		log.Info().Msg("unknown webhook event")
		return domain.Ack{Success: true}, nil
	}

	log.Info().Msg("webhook handled")
	return domain.Ack{Success: true}, nil
}

// push reads the stored credential and sends n in the background
func (s *Service) push(ctx context.Context, fid, appFid int64, n notify.Notification) {
	base := context.WithoutCancel(ctx)
	s.wg.Go(func() {
		ctx, cancel := context.WithTimeout(base, s.timeout)
		defer cancel()
		log := logger.C(ctx).With().Int64("fid", fid).Int64("app_fid", appFid).Logger()

		var d notify.Details
		ok, err := s.cache.Get(ctx, cache.NotificationKey(fid, appFid), &d)
		if err != nil {
			log.Error().Err(err).Msg("read notification details")
			return
		}
		if !ok || !d.Valid() {
			log.Info().Msg("notification details gone, push skipped")
			return
		}
		res := s.notifier.Send(ctx, d, n)
		ev := log.Info()
		if res.State == notify.StateError {
			ev = log.Warn().Str("error", res.Error)
		}
		ev.Str("state", string(res.State)).Str("title", n.Title).Msg("notification sent")
	})
}

// Wait blocks until scheduled pushes finish
func (s *Service) Wait() { s.wg.Wait() }
