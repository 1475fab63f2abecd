package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TFMV/driftgraph/logging"
	"github.com/TFMV/driftgraph/tui"
	"github.com/spf13/cobra"
)

func runCmd(opts *rootOptions) *cobra.Command {
	var (
		flags sessionFlags
		fps   int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate the graph in the terminal",
		Long: `Generate a graph and animate it as ASCII art in the terminal.

  driftgraph run                   # default 20-node graph
  driftgraph run --nodes 40 --seed 7
  driftgraph run --mover surreal   # add simplex-noise wobble

Keys: space pauses, +/- move the background gradient, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			// The terminal is taken over by the animation, so only debug runs log.
			if !opts.debug {
				logger = logging.Discard()
			}

			sess, err := newSession(cfg, logger, nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return tui.Run(ctx, sess, nil, time.Second/time.Duration(max(fps, 1)))
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", 30, "Terminal frames per second")
	return cmd
}
