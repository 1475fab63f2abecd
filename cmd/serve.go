package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TFMV/driftgraph/metrics"
	"github.com/TFMV/driftgraph/server"
	"github.com/TFMV/driftgraph/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var (
		flags sessionFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Animate the graph in a browser",
		Long: `Run the animation and serve it over HTTP.

  driftgraph serve                 # http://localhost:8080
  driftgraph serve --addr :9000 --theme surreal

Routes: / (live canvas), /api/frame, /api/snapshot, /api/stats,
/frame.svg, /frame.png, /frame.txt, /metrics, /healthz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			reg := metrics.NewRegistry()
			sess, err := newSession(cfg, logger, reg)
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
				IdleTimeout:  cfg.Server.IdleTimeout.Duration,
				MaxSurface:   cfg.Server.MaxSurface,
			}, sess, reg, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			ui.Banner(out, "serve")
			ui.Field(out, "Address", ui.Info.Sprint(cfg.Server.Addr))
			ui.Field(out, "Seed", sess.Seed())
			ui.Field(out, "Mover", sess.Mover())

			g, ctx := errgroup.WithContext(ctx)
			sess.Start(ctx)
			g.Go(func() error {
				return srv.Start(ctx)
			})
			g.Go(func() error {
				<-ctx.Done()
				sess.Stop()
				wctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return sess.Wait(wctx)
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}
