package cmd

import (
	"fmt"
	"strconv"

	"github.com/TFMV/driftgraph/graph"
	"github.com/TFMV/driftgraph/ui"
	"github.com/spf13/cobra"
)

func graphCmd(opts *rootOptions) *cobra.Command {
	var (
		flags     sessionFlags
		showEdges bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the generated graph's topology",
		Long: `Generate a graph and print its size, degree range and connectivity.

  driftgraph graph --seed 7
  driftgraph graph --nodes 5 --edges`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			sess, err := newSession(cfg, logger, nil)
			if err != nil {
				return err
			}
			snap := sess.Snapshot()
			stats := snap.Stats()
			ring := graph.RingEdgeCount(stats.Nodes)

			out := cmd.OutOrStdout()
			ui.Banner(out, "graph")
			ui.Field(out, "Graph", snap.GraphID)
			ui.Field(out, "Seed", sess.Seed())
			fmt.Fprintln(out)

			ui.Table(out, []string{"METRIC", "VALUE"}, [][]string{
				{"nodes", strconv.Itoa(stats.Nodes)},
				{"edges", strconv.Itoa(stats.Edges)},
				{"ring edges", strconv.Itoa(ring)},
				{"extra edges", strconv.Itoa(stats.Edges - ring)},
				{"min degree", strconv.Itoa(stats.MinDegree)},
				{"max degree", strconv.Itoa(stats.MaxDegree)},
				{"connected", ui.StatusIcon(stats.Connected)},
			})

			if showEdges {
				rows := make([][]string, len(snap.Edges))
				for i, e := range snap.Edges {
					rows[i] = []string{strconv.Itoa(i), strconv.Itoa(e.Start), strconv.Itoa(e.End)}
				}
				fmt.Fprintln(out)
				ui.Table(out, []string{"EDGE", "START", "END"}, rows)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&showEdges, "edges", false, "List every edge")
	return cmd
}
