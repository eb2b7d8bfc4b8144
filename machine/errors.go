// SPDX-License-Identifier: MIT
// Package: wfpad/machine
//
// errors.go - sentinel errors.
//
// Every assembly violation wraps ErrStructural; the narrower sentinels let
// callers and tests tell the classes apart with errors.Is.

package machine

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural indicates the draft graph violates a machine invariant.
	ErrStructural = errors.New("machine: structural violation")

	// ErrDanglingTarget indicates a transition to (or from) an unknown state label.
	ErrDanglingTarget = fmt.Errorf("%w: dangling transition", ErrStructural)

	// ErrUnreachable indicates a state no path from the start state reaches.
	ErrUnreachable = fmt.Errorf("%w: unreachable state", ErrStructural)

	// ErrUnnormalizable indicates transition weights that cannot be turned
	// into a probability distribution (negative, NaN, zero total, or a
	// total too far from 1).
	ErrUnnormalizable = fmt.Errorf("%w: transition weights do not normalize", ErrStructural)

	// ErrDuplicateState indicates an empty or repeated state label.
	ErrDuplicateState = fmt.Errorf("%w: bad state label", ErrStructural)

	// ErrMalformedEncoding indicates a compact string that does not decode.
	ErrMalformedEncoding = errors.New("machine: malformed encoding")

	// ErrUnknownFormat indicates an unsupported description format.
	ErrUnknownFormat = errors.New("machine: unknown output format")
)
