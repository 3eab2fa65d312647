// Command xfriends-cli runs the matching pipeline from a terminal against the same config as the api
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v3"

	"xfriends/internal/core/handle"
	"xfriends/internal/core/match"
	"xfriends/internal/platform/config"
	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
	"xfriends/internal/platform/store"
	"xfriends/internal/services/access"
	"xfriends/internal/services/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdout); err != nil {
		logger.Get().Error().Err(err).Msg("xfriends-cli failed")
		stop()
		os.Exit(1)
	}
}

// graph opens the store and builds the app for one command
func graph(ctx context.Context, fn func(context.Context, *app.App) error) error {
	root := config.New()
	st, err := store.Open(ctx, app.StoreConfig(root), store.WithLogger(*logger.Named("store")))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(context.Background()) }()

	a, err := app.Build(ctx, app.FromConfig(root), st)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := sonic.ConfigStd.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	handles := &cli.StringSliceFlag{Name: "handle", Aliases: []string{"H"}, Usage: "x handle, repeatable", Required: true}

	cmd := &cli.Command{
		Name:  "xfriends-cli",
		Usage: "operator tools for the x to farcaster matcher",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "show the payment gate state for an address",
				Flags: []cli.Flag{&cli.StringFlag{Name: "address", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return graph(ctx, func(ctx context.Context, a *app.App) error {
						rec, err := a.Gate.CheckAccess(ctx, c.String("address"))
						if err != nil {
							return err
						}
						n, err := a.Gate.UserQueryCount(ctx, c.String("address"))
						if err != nil {
							return err
						}
						return printJSON(out, map[string]any{
							"needsPayment":   rec.NeedsPayment,
							"queryCount":     rec.QueryCount,
							"userQueryCount": n,
							"message":        access.Message(rec),
						})
					})
				},
			},
			{
				Name:  "profile",
				Usage: "look up one x account through the configured provider",
				Flags: []cli.Flag{&cli.StringFlag{Name: "handle", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return graph(ctx, func(ctx context.Context, a *app.App) error {
						id, ok, err := a.X.Profile(ctx, handle.Normalize(c.String("handle")))
						if err != nil {
							return err
						}
						if !ok {
							return perr.NotFoundf("no x account %q", c.String("handle"))
						}
						return printJSON(out, id)
					})
				},
			},
			{
				Name:  "resolve",
				Usage: "look up directory profiles for handles",
				Flags: []cli.Flag{handles},
				Action: func(ctx context.Context, c *cli.Command) error {
					return graph(ctx, func(ctx context.Context, a *app.App) error {
						res, err := a.Resolver.ResolveBatch(ctx, handle.NormalizeAll(c.StringSlice("handle")))
						if err != nil && res == nil {
							return err
						}
						found := map[string]match.Profile{}
						res.Each(func(h handle.Handle, p match.Profile) bool {
							found[h.String()] = p
							return true
						})
						if werr := printJSON(out, found); werr != nil {
							return werr
						}
						return err
					})
				},
			},
			{
				Name:  "match",
				Usage: "run the match pipeline for handles",
				Flags: []cli.Flag{handles},
				Action: func(ctx context.Context, c *cli.Command) error {
					return graph(ctx, func(ctx context.Context, a *app.App) error {
						res, err := a.Engine.Match(ctx, c.StringSlice("handle"))
						if err != nil {
							return err
						}
						return printJSON(out, res)
					})
				},
			},
			{
				Name:  "sync",
				Usage: "build or show the saved follow graph for an owner",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
					&cli.StringFlag{Name: "handle", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return graph(ctx, func(ctx context.Context, a *app.App) error {
						snap, src, err := a.Snapshots.Sync(ctx, c.String("owner"), c.String("handle"))
						if err != nil {
							return err
						}
						return printJSON(out, map[string]any{"source": src, "data": snap})
					})
				},
			},
			{
				Name:      "normalize",
				Usage:     "print the canonical handle for each input",
				ArgsUsage: "<raw...>",
				Action: func(_ context.Context, c *cli.Command) error {
					rows := make([][2]string, 0, c.Args().Len())
					for _, raw := range c.Args().Slice() {
						rows = append(rows, [2]string{raw, handle.Normalize(raw).String()})
					}
					return printJSON(out, rows)
				},
			},
			{
				Name:  "stats",
				Usage: "match totals from the event store",
				Flags: []cli.Flag{&cli.DurationFlag{Name: "since", Value: 24 * time.Hour}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return graph(ctx, func(ctx context.Context, a *app.App) error {
						if a.EventWriter == nil {
							return perr.Unavailablef("match events need SERVICE_CLICKHOUSE_ENABLED")
						}
						t, err := a.EventWriter.Totals(ctx, a.Clock.Now().Add(-c.Duration("since")))
						if err != nil {
							return err
						}
						return printJSON(out, t)
					})
				},
			},
		},
	}
	return cmd.Run(ctx, args)
}
