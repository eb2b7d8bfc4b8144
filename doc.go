// SPDX-License-Identifier: MIT

// Package wfpad synthesizes probabilistic padding machines for
// website-fingerprinting defenses.
//
// Given scalar parameters or a reference trace, a family builder emits one or
// more machines (states with timer, action and limit distributions plus
// event-triggered probabilistic transitions) in the compact string form a
// traffic-shaping framework loads, or as YAML/JSON for inspection.
//
// Packages:
//
//	dist/     distributions, seeded samplers and the Rayleigh/decay curves
//	core/     the structural graph behind a machine's state set
//	bfs/      reachability over core graphs
//	machine/  drafts, assembly, the compact encoding and descriptions
//	trace/    reference trace loading (burst and timed formats)
//	builder/  FRONT, Pipelined FRONT, RegulaTor and Surakav constructors
//	config/   HCL parameter files
//
// The wfpad command (cmd/wfpad) wires these together.
package wfpad
