package models

import (
	"fmt"

	"github.com/google/uuid"
)

// FindNodeByID returns a node by its ID
func (s *Snapshot) FindNodeByID(id uuid.UUID) (*NodeState, error) {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i], nil
		}
	}
	return nil, fmt.Errorf("node with ID %s not found", id)
}

// Neighbors returns the indices of nodes directly connected to index
func (s *Snapshot) Neighbors(index int) []int {
	var result []int
	for _, e := range s.Edges {
		switch index {
		case e.Start:
			result = append(result, e.End)
		case e.End:
			result = append(result, e.Start)
		}
	}
	return result
}

// Degree returns the number of edges touching index
func (s *Snapshot) Degree(index int) int {
	return len(s.Neighbors(index))
}

// Connected reports whether every node is reachable from node 0
// Graphs with fewer than two nodes are trivially connected
func (s *Snapshot) Connected() bool {
	if len(s.Nodes) < 2 {
		return true
	}

	adj := make([][]int, len(s.Nodes))
	for _, e := range s.Edges {
		adj[e.Start] = append(adj[e.Start], e.End)
		adj[e.End] = append(adj[e.End], e.Start)
	}

	seen := make([]bool, len(s.Nodes))
	seen[0] = true
	stack := []int{0}
	reached := 1
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adj[cur] {
			if !seen[next] {
				seen[next] = true
				reached++
				stack = append(stack, next)
			}
		}
	}
	return reached == len(s.Nodes)
}

// Stats computes topology counts for the snapshot
func (s *Snapshot) Stats() Stats {
	st := Stats{
		Nodes:     len(s.Nodes),
		Edges:     len(s.Edges),
		Connected: s.Connected(),
	}
	if len(s.Nodes) == 0 {
		return st
	}

	degrees := make([]int, len(s.Nodes))
	for _, e := range s.Edges {
		degrees[e.Start]++
		degrees[e.End]++
	}
	st.MinDegree, st.MaxDegree = degrees[0], degrees[0]
	for _, d := range degrees[1:] {
		st.MinDegree = min(st.MinDegree, d)
		st.MaxDegree = max(st.MaxDegree, d)
	}
	return st
}
