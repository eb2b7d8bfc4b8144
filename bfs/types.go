// SPDX-License-Identifier: MIT
// Package: wfpad/bfs
//
// types.go - sentinel errors and the walk result.
package bfs

import "errors"

var (
	// ErrGraphNil is returned for a nil graph.
	ErrGraphNil = errors.New("bfs: graph is nil")
	// ErrStartVertexNotFound is returned when the start label is absent.
	ErrStartVertexNotFound = errors.New("bfs: start vertex not found")
)

// Result is the outcome of one walk.
type Result struct {
	// Order lists visited vertices in visit order, start first.
	Order []string
	// Depth maps each visited vertex to its distance in edges.
	Depth map[string]int
	// Parent maps each visited vertex except the start to its predecessor.
	Parent map[string]string
}

// Reached reports whether id was visited.
func (r *Result) Reached(id string) bool {
	_, ok := r.Depth[id]

	return ok
}

// Path returns the shortest start→dest label sequence, or nil when dest was
// not reached.
func (r *Result) Path(dest string) []string {
	if !r.Reached(dest) {
		return nil
	}
	path := make([]string, r.Depth[dest]+1)
	for i, cur := len(path)-1, dest; i >= 0; i-- {
		path[i] = cur
		cur = r.Parent[cur]
	}

	return path
}
