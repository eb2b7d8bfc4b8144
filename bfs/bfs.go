// SPDX-License-Identifier: MIT
// Package: wfpad/bfs
//
// bfs.go - the breadth-first walker and Unreached.
package bfs

import (
	"fmt"

	"github.com/katalvlaran/wfpad/core"
)

// BFS walks g breadth-first from start.
// Complexity: O(V + E) time, O(V) space.
func BFS(g *core.Graph, start string) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if !g.HasVertex(start) {
		return nil, fmt.Errorf("%w: %q", ErrStartVertexNotFound, start)
	}

	n := g.VertexCount()
	res := &Result{
		Order:  make([]string, 0, n),
		Depth:  map[string]int{start: 0},
		Parent: make(map[string]string, n),
	}

	// The queue is res.Order itself: vertices are appended when discovered
	// and head walks over them.
	res.Order = append(res.Order, start)
	for head := 0; head < len(res.Order); head++ {
		cur := res.Order[head]
		next, err := g.NeighborIDs(cur)
		if err != nil {
			return nil, fmt.Errorf("bfs: neighbors of %q: %w", cur, err)
		}
		for _, nb := range next {
			if res.Reached(nb) {
				continue
			}
			res.Depth[nb] = res.Depth[cur] + 1
			res.Parent[nb] = cur
			res.Order = append(res.Order, nb)
		}
	}

	return res, nil
}

// Unreached walks g from start and returns, sorted ascending, every vertex
// the walk never visits, together with the walk itself. An empty slice
// means every state is live.
// Complexity: O(V + E).
func Unreached(g *core.Graph, start string) ([]string, *Result, error) {
	res, err := BFS(g, start)
	if err != nil {
		return nil, nil, err
	}

	var missing []string
	for _, id := range g.Vertices() {
		if !res.Reached(id) {
			missing = append(missing, id)
		}
	}

	return missing, res, nil
}
