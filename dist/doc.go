// SPDX-License-Identifier: MIT

// Package dist holds the probability distributions attached to padding
// machine states, the seeded Sampler that draws from them, and the two
// closed-form curves (Rayleigh, exponential decay) that builders carve into
// state sequences.
//
// Determinism: every draw flows through a Sampler; two Samplers created
// with the same seed produce identical sequences, and Derive hands out
// decorrelated child streams for parallel work.
package dist
