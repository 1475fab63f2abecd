// Package models provides the read-only snapshot types handed to renderers
// A Snapshot is a copy of graph state taken under the graph's read lock, so
// every position in it comes from the same tick
package models

import (
	"time"

	"github.com/TFMV/driftgraph/geom"
	"github.com/google/uuid"
)

// NodeState is a node as of one snapshot
type NodeState struct {
	ID       uuid.UUID  `json:"id"`
	Index    int        `json:"index"`
	Position geom.Point `json:"position"`
	Target   geom.Point `json:"target"`
}

// EdgeState is an edge with its endpoint positions resolved
type EdgeState struct {
	ID    uuid.UUID  `json:"id"`
	Start int        `json:"start"`
	End   int        `json:"end"`
	From  geom.Point `json:"from"`
	To    geom.Point `json:"to"`
}

// Snapshot represents one consistent view of a graph
type Snapshot struct {
	GraphID uuid.UUID   `json:"graph_id"`
	Seq     uint64      `json:"seq"` // tick count at capture time
	TakenAt time.Time   `json:"taken_at"`
	Bounds  geom.Bounds `json:"bounds"`
	Nodes   []NodeState `json:"nodes"`
	Edges   []EdgeState `json:"edges"`
}

// Stats summarises a snapshot's topology
type Stats struct {
	Nodes     int  `json:"nodes"`
	Edges     int  `json:"edges"`
	MinDegree int  `json:"min_degree"`
	MaxDegree int  `json:"max_degree"`
	Connected bool `json:"connected"`
}
