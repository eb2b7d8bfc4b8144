// SPDX-License-Identifier: MIT
// File: methods_adjacent.go
// Role: Neighborhood queries and adjacency bookkeeping.
//
// Determinism:
//   - NeighborIDs() returns unique IDs sorted ascending.
package core

import (
	"fmt"
	"sort"
)

// NeighborIDs returns the unique IDs reachable from id over one edge.
//
// Errors:
//   - ErrVertexNotFound: id is not in the graph.
//
// Complexity: O(d log d) for out-degree d.
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if !g.HasVertex(id) {
		return nil, fmt.Errorf("NeighborIDs(%q): %w", id, ErrVertexNotFound)
	}

	g.muEdgeAdj.RLock()
	out := make([]string, 0, len(g.adjacency[id]))
	for to, ids := range g.adjacency[id] {
		if len(ids) > 0 {
			out = append(out, to)
		}
	}
	g.muEdgeAdj.RUnlock()
	sort.Strings(out)

	return out, nil
}

// ensureAdjacency creates the outer bucket for id. Caller holds muEdgeAdj.
func ensureAdjacency(g *Graph, id string) {
	if _, ok := g.adjacency[id]; !ok {
		g.adjacency[id] = make(map[string]map[string]struct{})
	}
}
