package models

import (
	"time"

	"github.com/TFMV/driftgraph/geom"
	"github.com/TFMV/driftgraph/graph"
)

// NewSnapshot copies the current state of g
func NewSnapshot(g *graph.Graph, seq uint64, bounds geom.Bounds) *Snapshot {
	snap := &Snapshot{
		GraphID: g.ID,
		Seq:     seq,
		TakenAt: time.Now(),
		Bounds:  bounds,
	}

	g.View(func(nodes []*graph.Node, edges []*graph.Edge) {
		snap.Nodes = make([]NodeState, len(nodes))
		for i, n := range nodes {
			snap.Nodes[i] = NodeState{
				ID:       n.ID,
				Index:    n.Index,
				Position: n.Position,
				Target:   n.Target,
			}
		}

		snap.Edges = make([]EdgeState, len(edges))
		for i, e := range edges {
			snap.Edges[i] = EdgeState{
				ID:    e.ID,
				Start: e.Start.Index,
				End:   e.End.Index,
				From:  e.Start.Position,
				To:    e.End.Position,
			}
		}
	})

	return snap
}
