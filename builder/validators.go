// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// validators.go - parameter contract helpers shared by all families.
//
// Each helper returns nil or an error wrapping ErrInvalidParameter of the
// form "<Method>: <field>=<value> <rule>: builder: invalid parameter".
// Complexity: O(1) each.

package builder

import (
	"fmt"
	"math"
)

// validateMin ensures that got ≥ min.
func validateMin(method, field string, got, min int) error {
	if got < min {
		return fmt.Errorf("%s: %s=%d < min=%d: %w", method, field, got, min, ErrInvalidParameter)
	}

	return nil
}

// validatePositive ensures v is finite and > 0.
func validatePositive(method, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%s: %s=%g must be finite and > 0: %w", method, field, v, ErrInvalidParameter)
	}

	return nil
}

// validateOpenUnit ensures v ∈ (0, 1).
func validateOpenUnit(method, field string, v float64) error {
	if !(v > 0 && v < 1) {
		return fmt.Errorf("%s: %s=%g must be in (0,1): %w", method, field, v, ErrInvalidParameter)
	}

	return nil
}

// validateRange ensures v is finite and lo ≤ v ≤ hi.
func validateRange(method, field string, v, lo, hi float64) error {
	if !(v >= lo && v <= hi) {
		return fmt.Errorf("%s: %s=%g must be in [%g, %g]: %w", method, field, v, lo, hi, ErrInvalidParameter)
	}

	return nil
}
