package graph

import (
	"github.com/TFMV/driftgraph/geom"
	"github.com/google/uuid"
)

const (
	DefaultNodeCount         = 20
	DefaultExtraEdgeAttempts = 40
)

// GenerateOptions describes the graph to build.
type GenerateOptions struct {
	NodeCount         int
	ExtraEdgeAttempts int
	Bounds            geom.Bounds
	// ID fixes the graph identity; a random one is used when zero.
	ID uuid.UUID
}

// DefaultGenerateOptions returns 20 nodes and 40 extra-edge attempts on b.
func DefaultGenerateOptions(b geom.Bounds) GenerateOptions {
	return GenerateOptions{
		NodeCount:         DefaultNodeCount,
		ExtraEdgeAttempts: DefaultExtraEdgeAttempts,
		Bounds:            b,
	}
}

// Generate builds a connected random graph. Every node starts at rest on a
// uniform random point, node i is linked to node (i+1) mod N, and then
// ExtraEdgeAttempts random pairs are tried, keeping only new non-loop pairs.
//
// A non-positive node count yields an empty graph and a single node gets no
// ring edge. With two nodes the ring closes onto the same pair, so only one
// ring edge exists.
func Generate(opts GenerateOptions, rng geom.Rand) *Graph {
	id := opts.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	g := NewWithID(id)

	n := opts.NodeCount
	if n <= 0 {
		return g
	}

	for i := 0; i < n; i++ {
		g.AddNode(geom.RandomPoint(rng, opts.Bounds))
	}

	if n > 1 {
		for i := 0; i < n; i++ {
			g.AddEdge(i, (i+1)%n)
		}
	}

	for i := 0; i < opts.ExtraEdgeAttempts; i++ {
		a := rng.IntN(n)
		b := rng.IntN(n)
		g.AddEdge(a, b)
	}

	return g
}

// RingEdgeCount is the number of edges the ring step contributes for n nodes.
func RingEdgeCount(n int) int {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		return n
	}
}
