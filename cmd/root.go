package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/TFMV/driftgraph/config"
	"github.com/TFMV/driftgraph/logging"
	"github.com/TFMV/driftgraph/ui"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	debug      bool
	logFormat  string
}

// load reads the config file and builds the logger, applying the
// persistent flag overrides.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}

	if o.debug {
		cfg.Log.Level = "debug"
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// NewRootCmd builds the driftgraph command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "driftgraph",
		Short: "driftgraph — an animated random graph",
		Long: ui.Brand.Sprint(ui.Mark+" driftgraph") + " — nodes drifting across a gradient canvas\n" +
			ui.Subtle.Sprint("Generate a connected random graph and watch it move in the terminal or a browser"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate("driftgraph {{ .Version }}\n")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/driftgraph/config.toml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(
		runCmd(opts),
		serveCmd(opts),
		renderCmd(opts),
		graphCmd(opts),
		configCmd(opts),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	err := NewRootCmd().ExecuteContext(context.Background())
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "driftgraph: %v\n", err)
	}
	return err
}
