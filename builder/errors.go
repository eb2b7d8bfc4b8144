// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy (explicit and strict):
//   • Only sentinel variables (package-level) are exposed.
//   • Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   • Implementations attach context with `%w`, naming the family and the
//     offending field: "Front: states=0 < min=1: builder: invalid parameter".
//   • Constructors MUST NOT panic at runtime; validation panics are confined
//     to option constructors (WithX...).
//
// Assembly failures surface machine.ErrStructural (wrapped), distribution
// problems dist.ErrDegenerate; both pass through unchanged.

package builder

import "errors"

// ErrInvalidParameter indicates a parameter outside its documented domain
// (non-positive window, budget below the state count, decay ∉ (0,1), ...).
// Usage: if errors.Is(err, ErrInvalidParameter) { /* report bad input */ }.
var ErrInvalidParameter = errors.New("builder: invalid parameter")

// ErrNeedRandSource indicates a stochastic build without a Sampler
// (WithSeed/WithSampler missing and WithFixedWindow not set).
var ErrNeedRandSource = errors.New("builder: random source is required")

// ErrConstructFailed indicates the constructor could not finish without
// breaking an invariant, e.g. a decay curve that needs more than
// MaxRegulatorStates states, or a nil Constructor.
var ErrConstructFailed = errors.New("builder: construction failed")

// ErrOptionViolation indicates an option combination that can only be
// detected at build time.
var ErrOptionViolation = errors.New("builder: invalid option value")
