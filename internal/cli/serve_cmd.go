package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/ganttkit/internal/config"
	"github.com/alexanderramin/ganttkit/internal/server"
	"github.com/alexanderramin/ganttkit/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var watchFixtures bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve page sessions over the JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				cfg.Watch.Enabled = watchFixtures
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, app, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&watchFixtures, "watch", false, "Reload open pages when fixture files change")

	return cmd
}

// runServe runs the API, and the fixture watcher when enabled, until ctx is
// cancelled or either fails. Open sessions are unloaded on the way out.
func runServe(ctx context.Context, app *App, cfg config.Config) error {
	logger := app.logger()
	srv := server.New(app.Pages, app.Drops, logger)

	var w *watch.Watcher
	if cfg.Watch.Enabled {
		if cfg.FixtureDir == "" {
			return fmt.Errorf("watching fixtures needs fixture_dir (or GANTTKIT_FIXTURES)")
		}
		var err error
		if w, err = watch.New(cfg.FixtureDir, cfg.Watch.Debounce, app.Pages, logger); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.ShutdownTimeout)
	})
	if w != nil {
		g.Go(func() error { return w.Run(gctx) })
	}

	err := g.Wait()
	if cerr := app.Pages.CloseAll(context.WithoutCancel(ctx)); cerr != nil {
		err = errors.Join(err, fmt.Errorf("saving open pages: %w", cerr))
	}
	return err
}
