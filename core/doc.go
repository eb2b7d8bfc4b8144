// SPDX-License-Identifier: MIT

// Package core defines a small thread-safe graph used as the structural
// view of a padding machine: one vertex per state label, one edge per
// probabilistic transition between real states.
//
// The machine assembler builds a directed graph with loops and multi-edges
// enabled (a state may point at itself, and several events may lead to the
// same target) and hands it to package bfs for reachability checks.
//
// Determinism: Vertices() and NeighborIDs() are sorted; Edges() follows
// insertion order.
package core
