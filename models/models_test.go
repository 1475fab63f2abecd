package models

import (
	"encoding/json"
	"testing"

	"github.com/TFMV/driftgraph/geom"
	"github.com/TFMV/driftgraph/graph"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bounds = geom.Bounds{Width: 800, Height: 600}

func TestNewSnapshotCopiesState(t *testing.T) {
	g := graph.Generate(graph.GenerateOptions{NodeCount: 3, Bounds: bounds}, geom.NewRand(1))
	snap := NewSnapshot(g, 7, bounds)

	require.Len(t, snap.Nodes, 3)
	require.Len(t, snap.Edges, 3)
	assert.Equal(t, g.ID, snap.GraphID)
	assert.Equal(t, uint64(7), snap.Seq)
	assert.Equal(t, bounds, snap.Bounds)

	for _, e := range snap.Edges {
		assert.Equal(t, snap.Nodes[e.Start].Position, e.From)
		assert.Equal(t, snap.Nodes[e.End].Position, e.To)
	}

	before := snap.Nodes[0].Position
	g.Update(func(nodes []*graph.Node) {
		nodes[0].Position = geom.Point{X: -1, Y: -1}
	})
	assert.Equal(t, before, snap.Nodes[0].Position, "snapshot must not alias live nodes")
}

func TestQueries(t *testing.T) {
	g := graph.Generate(graph.GenerateOptions{NodeCount: 4, Bounds: bounds}, geom.NewRand(2))
	snap := NewSnapshot(g, 0, bounds)

	assert.ElementsMatch(t, []int{1, 3}, snap.Neighbors(0))
	assert.Equal(t, 2, snap.Degree(2))
	assert.True(t, snap.Connected())

	n, err := snap.FindNodeByID(snap.Nodes[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n.Index)

	_, err = snap.FindNodeByID(uuid.New())
	assert.Error(t, err)

	st := snap.Stats()
	assert.Equal(t, Stats{Nodes: 4, Edges: 4, MinDegree: 2, MaxDegree: 2, Connected: true}, st)
}

func TestConnectedDetectsSplit(t *testing.T) {
	snap := &Snapshot{
		Nodes: make([]NodeState, 4),
		Edges: []EdgeState{{Start: 0, End: 1}, {Start: 2, End: 3}},
	}
	assert.False(t, snap.Connected())
	assert.True(t, (&Snapshot{Nodes: make([]NodeState, 1)}).Connected())
}

func TestEmptyStats(t *testing.T) {
	snap := NewSnapshot(graph.New(), 0, geom.Bounds{})
	assert.Equal(t, Stats{Connected: true}, snap.Stats())
}

func TestSnapshotJSON(t *testing.T) {
	g := graph.Generate(graph.GenerateOptions{NodeCount: 2, Bounds: bounds}, geom.NewRand(3))
	data, err := json.Marshal(NewSnapshot(g, 1, bounds))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "graph_id")
	assert.Len(t, decoded["nodes"], 2)
	assert.Len(t, decoded["edges"], 1)
}
