// Package graph holds the live node/edge model that the motion engine mutates
// and the snapshot builder reads.
package graph

import (
	"encoding/binary"
	"sync"

	"github.com/TFMV/driftgraph/geom"
	"github.com/google/uuid"
)

// Node is a point that eases toward a target.
type Node struct {
	ID       uuid.UUID
	Index    int
	Position geom.Point // current position, rewritten every tick
	Target   geom.Point // destination, rewritten on retarget
}

// Edge connects two distinct nodes by reference, so it always observes the
// nodes' live positions.
type Edge struct {
	ID    uuid.UUID
	Start *Node
	End   *Node
}

type pairKey struct {
	lo, hi int
}

func newPairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Graph is a fixed set of nodes plus a duplicate-free, self-loop-free set of
// undirected edges. Node fields are guarded by the graph lock; the node and
// edge slices never change after generation.
type Graph struct {
	ID    uuid.UUID
	nodes []*Node
	edges []*Edge
	pairs map[pairKey]struct{}
	mu    sync.RWMutex
}

// New creates a graph with a fresh identity and no nodes.
func New() *Graph {
	return NewWithID(uuid.New())
}

// NewWithID creates an empty graph with the given identity. Node and edge IDs
// are derived from it, so two graphs with the same ID and the same build
// sequence carry identical IDs.
func NewWithID(id uuid.UUID) *Graph {
	return &Graph{
		ID:    id,
		pairs: make(map[pairKey]struct{}),
	}
}

// AddNode appends a node at p with its target set to p.
func (g *Graph) AddNode(p geom.Point) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := len(g.nodes)
	n := &Node{
		ID:       g.deriveID('n', idx, 0),
		Index:    idx,
		Position: p,
		Target:   p,
	}
	g.nodes = append(g.nodes, n)
	return n
}

// AddEdge connects nodes a and b. It reports false and adds nothing when the
// indices are out of range, equal, or the unordered pair is already present.
func (g *Graph) AddEdge(a, b int) (*Edge, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if a == b || a < 0 || b < 0 || a >= len(g.nodes) || b >= len(g.nodes) {
		return nil, false
	}
	key := newPairKey(a, b)
	if _, ok := g.pairs[key]; ok {
		return nil, false
	}
	g.pairs[key] = struct{}{}

	e := &Edge{
		ID:    g.deriveID('e', key.lo, key.hi),
		Start: g.nodes[a],
		End:   g.nodes[b],
	}
	g.edges = append(g.edges, e)
	return e, true
}

// HasEdge reports whether a and b are connected in either direction.
func (g *Graph) HasEdge(a, b int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.pairs[newPairKey(a, b)]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Update runs fn with exclusive access to the nodes. It is the only way node
// positions and targets may change once the graph is shared.
func (g *Graph) Update(fn func(nodes []*Node)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.nodes)
}

// View runs fn with shared access to nodes and edges. fn must not modify
// them or retain the slices.
func (g *Graph) View(fn func(nodes []*Node, edges []*Edge)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn(g.nodes, g.edges)
}

func (g *Graph) deriveID(kind byte, a, b int) uuid.UUID {
	var buf [17]byte
	buf[0] = kind
	binary.BigEndian.PutUint64(buf[1:9], uint64(a))
	binary.BigEndian.PutUint64(buf[9:17], uint64(b))
	return uuid.NewSHA1(g.ID, buf[:])
}
