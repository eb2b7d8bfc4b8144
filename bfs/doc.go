// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over a core.Graph, returning
// shortest distances in edges, parent links and visit order.
//
// In wfpad the walker answers one question for the machine assembler: which
// states of a padding machine can the start state ever reach? Unreached
// wraps BFS for exactly that and returns the orphaned state labels.
//
// Result.Path recovers the shortest label sequence to any reached state,
// which the assembler uses to point at where a broken chain stops. Visit
// order is deterministic because core.NeighborIDs is sorted.
//
// Complexity: O(V + E) time, O(V) space.
package bfs
