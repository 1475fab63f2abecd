package cmd

import (
	"log/slog"

	"github.com/TFMV/driftgraph/config"
	"github.com/TFMV/driftgraph/metrics"
	"github.com/TFMV/driftgraph/session"
	"github.com/spf13/cobra"
)

// sessionFlags override the file configuration for one invocation.
type sessionFlags struct {
	nodes    int
	edges    int
	seed     uint64
	mover    string
	theme    string
	width    float64
	height   float64
	gradient float64
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&f.nodes, "nodes", "n", 0, "Number of nodes")
	flags.IntVar(&f.edges, "extra-edges", 0, "Random extra-edge attempts")
	flags.Uint64Var(&f.seed, "seed", 0, "Random seed for a reproducible graph and motion")
	flags.StringVar(&f.mover, "mover", "", "Motion rule: drift or surreal")
	flags.StringVar(&f.theme, "theme", "", "Color theme: default, mono or surreal")
	flags.Float64Var(&f.width, "width", 0, "Canvas width")
	flags.Float64Var(&f.height, "height", 0, "Canvas height")
	flags.Float64Var(&f.gradient, "gradient-offset", 0, "Background gradient offset in [0,1]")
}

// apply copies every flag the user set onto cfg and revalidates it.
func (f *sessionFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("nodes") {
		cfg.Graph.Nodes = f.nodes
	}
	if flags.Changed("extra-edges") {
		cfg.Graph.ExtraEdges = f.edges
	}
	if flags.Changed("seed") {
		seed := f.seed
		cfg.Graph.Seed = &seed
	}
	if flags.Changed("mover") {
		cfg.Motion.Mover = f.mover
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = f.theme
	}
	if flags.Changed("width") {
		cfg.Canvas.Width = f.width
	}
	if flags.Changed("height") {
		cfg.Canvas.Height = f.height
	}
	if flags.Changed("gradient-offset") {
		cfg.Render.GradientOffset = f.gradient
	}
	return cfg.Validate()
}

// newSession builds a session from cfg. reg may be nil.
func newSession(cfg *config.Config, logger *slog.Logger, reg *metrics.Registry) (*session.Session, error) {
	opts, err := session.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	opts.Metrics = reg
	return session.New(opts), nil
}
