// SPDX-License-Identifier: MIT
// File: methods_edges.go
// Role: Edge creation & queries.
//
// Determinism:
//   - Edge IDs are "e<N>" with a monotonically increasing N.
//   - Edges() is sorted by numeric ID, i.e. insertion order.
//
// Concurrency:
//   - Edge catalog and adjacency protected by muEdgeAdj.
package core

import (
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
)

// AddEdge inserts an edge from -> to and returns its ID. Missing endpoints
// are created implicitly.
//
// Errors:
//   - ErrEmptyVertexID: empty endpoint.
//   - ErrLoopNotAllowed: from == to without WithLoops.
//   - ErrMultiEdgeNotAllowed: parallel edge without WithMultiEdges.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string, opts ...EdgeOption) (string, error) {
	if from == "" || to == "" {
		return "", ErrEmptyVertexID
	}
	if from == to && !g.allowLoops {
		return "", fmt.Errorf("AddEdge(%s→%s): %w", from, to, ErrLoopNotAllowed)
	}

	// Endpoints first; AddVertex takes the locks itself.
	if err := g.AddVertex(from); err != nil {
		return "", err
	}
	if err := g.AddVertex(to); err != nil {
		return "", err
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	if !g.allowMulti && g.hasEdgeLocked(from, to) {
		return "", fmt.Errorf("AddEdge(%s→%s): %w", from, to, ErrMultiEdgeNotAllowed)
	}

	e := &Edge{ID: nextEdgeID(g), From: from, To: to}
	for _, opt := range opts {
		opt(e)
	}
	g.edges[e.ID] = e
	g.link(from, to, e.ID)
	if !g.directed && from != to {
		g.link(to, from, e.ID)
	}

	return e.ID, nil
}

// Edges returns all edges in insertion order.
// Complexity: O(E log E).
func (g *Graph) Edges() []*Edge {
	g.muEdgeAdj.RLock()
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	g.muEdgeAdj.RUnlock()
	sort.Slice(out, func(i, j int) bool { return edgeSeq(out[i].ID) < edgeSeq(out[j].ID) })

	return out
}

func (g *Graph) hasEdgeLocked(from, to string) bool {
	if inner, ok := g.adjacency[from]; ok {
		return len(inner[to]) > 0
	}

	return false
}

func (g *Graph) link(from, to, eid string) {
	ensureAdjacency(g, from)
	if g.adjacency[from][to] == nil {
		g.adjacency[from][to] = make(map[string]struct{})
	}
	g.adjacency[from][to][eid] = struct{}{}
}

// nextEdgeID yields "e1", "e2", ... using an atomic counter.
func nextEdgeID(g *Graph) string {
	return "e" + strconv.FormatUint(atomic.AddUint64(&g.nextEdgeID, 1), 10)
}

func edgeSeq(id string) uint64 {
	n, _ := strconv.ParseUint(id[1:], 10, 64)

	return n
}
