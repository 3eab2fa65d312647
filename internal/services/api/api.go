// Package api provides the HTTP API for the application
package api

import (
	"xfriends/internal/platform/config"
	"xfriends/internal/platform/logger"
	phttp "xfriends/internal/platform/net/http"

	"xfriends/internal/modkit"
	"xfriends/internal/modkit/httpkit"
	"xfriends/internal/modkit/module"
	"xfriends/internal/modkit/swaggerkit"

	directorymod "xfriends/internal/services/api/directory/module"
	metahttp "xfriends/internal/services/api/meta/http"
	metamod "xfriends/internal/services/api/meta/module"
	paymentmod "xfriends/internal/services/api/payment/module"
	socialmod "xfriends/internal/services/api/social/module"
	webhookmod "xfriends/internal/services/api/webhook/module"
	"xfriends/internal/services/app"
)

// Options are the API options
type Options struct {
	App            *app.App
	Config         config.Conf
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	a := opt.App
	deps := modkit.Deps{
		Cfg:   opt.Config,
		Store: a.Store,
		Cache: a.Cache,
		Clock: a.Clock,
	}
	auth := httpkit.NewPortFunc(a.Sessions.Verify)
	origins := a.Cfg.AllowedOrigins

	mods := []modkit.Module{
		metamod.New(deps),
		paymentmod.New(deps, modkit.WithPorts(paymentmod.Ports{Gate: a.Gate})),
		socialmod.New(deps, modkit.WithPorts(socialmod.Ports{
			Engine:    a.Engine,
			Gate:      a.Gate,
			Snapshots: a.Snapshots,
			Events:    a.Events,
			Auth:      auth,
			Limiter:   a.Limiter,
			Origins:   origins,
		})),
		directorymod.New(deps, modkit.WithPorts(directorymod.Ports{
			Directory: a.Directory,
			Limiter:   a.Limiter,
			Origins:   origins,
		})),
		webhookmod.New(deps, modkit.WithPorts(webhookmod.Ports{
			Notifier: a.Notifier,
			Timeout:  a.Cfg.Notify.Timeout,
			Pushes:   a.Pushes,
		})),
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	mountManifest(r, a.Cfg)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackOptions{CORSOrigins: a.Cfg.CORSOrigins})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}

func mountManifest(r phttp.Router, c app.Config) {
	src := metahttp.ManifestSource{File: c.Manifest.File, PublicURL: c.PublicURL, Name: c.Manifest.Name}
	if m := c.Manifest; m.Header != "" && m.Payload != "" && m.Signature != "" {
		src.Association = &metahttp.AccountAssociation{Header: m.Header, Payload: m.Payload, Signature: m.Signature}
	}
	body, err := src.Load()
	if err != nil {
		logger.Get().Warn().Err(err).Msg("farcaster manifest not served")
		return
	}
	metahttp.MountManifest(r, body)
}
