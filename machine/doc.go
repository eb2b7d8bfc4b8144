// SPDX-License-Identifier: MIT

// Package machine defines padding machines (states, distributions,
// event-triggered probabilistic transitions), assembles them from labelled
// drafts, and renders them for the traffic-shaping framework.
//
// Flow:
//
//	builder ──Draft──▶ Assemble ──Machine──▶ Encode / Describe
//
// Assemble is the single gate every machine passes: contiguous indices,
// normalized transition groups, no dangling targets, no orphaned states.
// Encode produces the compact versioned string the framework loads; Decode
// reverses it.
package machine
