// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// labels.go - state label schemes.

package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/wfpad/machine"
)

// LabelFn forms the label of the idx-th state of a role ("pad", "send",
// "boot", "count", "burst"). It must be pure and injective per role.
type LabelFn func(role string, idx int) string

// DefaultLabelFn returns "<role>/<idx>", e.g. ("send", 3) → "send/3".
func DefaultLabelFn(role string, idx int) string {
	return role + "/" + strconv.Itoa(idx)
}

// UpperLabelFn returns "<ROLE>_<idx>", e.g. ("send", 3) → "SEND_3".
func UpperLabelFn(role string, idx int) string {
	return strings.ToUpper(role) + "_" + strconv.Itoa(idx)
}

// Fixed labels shared by every family.
const (
	labelStart = "start"
	labelBlock = "block"
)

// roleLabels forms n labels for role and rejects a scheme that yields
// empty, reserved or repeated labels.
// Complexity: O(n).
func roleLabels(cfg builderConfig, role string, n int) ([]string, error) {
	out := make([]string, n)
	seen := make(map[string]struct{}, n)
	for i := range out {
		l := cfg.labelFn(role, i)
		switch l {
		case "", labelStart, labelBlock, machine.Nop, machine.End, machine.Cancel:
			return nil, fmt.Errorf("label scheme: (%s, %d) → %q is reserved: %w", role, i, l, ErrOptionViolation)
		}
		if _, dup := seen[l]; dup {
			return nil, fmt.Errorf("label scheme: (%s, %d) → %q repeats: %w", role, i, l, ErrOptionViolation)
		}
		seen[l] = struct{}{}
		out[i] = l
	}

	return out, nil
}
