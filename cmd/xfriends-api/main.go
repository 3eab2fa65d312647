// @title         Find X Friends API
// @version       0.1.0
// @description   Matches x follow lists to Farcaster profiles, behind an on chain payment gate
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"xfriends/internal/platform/config"
	"xfriends/internal/platform/logger"
	phttp "xfriends/internal/platform/net/http"
	"xfriends/internal/platform/store"

	"xfriends/internal/services/api"
	"xfriends/internal/services/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	st, err := store.Open(ctx, app.StoreConfig(root), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	a, err := app.Build(ctx, app.FromConfig(root), st)
	if err != nil {
		l.Panic().Err(err).Msg("app.Build failed")
	}
	defer a.Close()
	go a.Run(ctx)

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		App:            a,
		Config:         apiCfg,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.Run(ctx) }()

	select {
	case err := <-errc:
		if err != nil {
			l.Error().Err(err).Msg("http server stopped")
		}
	case <-ctx.Done():
		l.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			l.Error().Err(err).Msg("http shutdown")
		}
	}
}
