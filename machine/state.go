// SPDX-License-Identifier: MIT
// Package: wfpad/machine
//
// state.go - State, Transition and the special transition targets.

package machine

import (
	"math"
	"sort"
	"strconv"

	"github.com/katalvlaran/wfpad/dist"
)

// Special transition targets. Real states use indices ≥ 0.
const (
	// TargetNop keeps the machine in its current state without resetting it.
	TargetNop = -1
	// TargetEnd stops the machine.
	TargetEnd = -2
	// TargetCancel cancels the pending timer and stays.
	TargetCancel = -3
)

// Reserved draft labels naming the special targets.
const (
	Nop    = "<nop>"
	End    = "<end>"
	Cancel = "<cancel>"
)

// Transition moves the machine to Target with Probability when Event fires.
type Transition struct {
	Event       Event
	Target      int
	Probability float64
}

// State is one assembled machine state.
//
// Action is the padding size (or block duration in µs when ActionIsBlock),
// Timeout the delay in µs before the action fires, and Limit the number of
// actions before LimitReached.
type State struct {
	Label string

	Action  dist.Dist
	Limit   dist.Dist
	Timeout dist.Dist

	ActionIsBlock           bool
	Bypass                  bool
	Replace                 bool
	LimitIncludesNonpadding bool

	// Transitions are sorted by (Event, Target).
	Transitions []Transition
}

// Budget returns the upper bound on padding actions the state's limit
// allows, when the limit is a finite Uniform.
func (s State) Budget() (uint64, bool) {
	if s.Limit.Kind != dist.KindUniform || math.IsInf(s.Limit.Param2, 0) {
		return 0, false
	}

	return uint64(math.Ceil(s.Limit.Param2)), true
}

// On returns the transitions triggered by ev.
func (s State) On(ev Event) []Transition {
	var out []Transition
	for _, t := range s.Transitions {
		if t.Event == ev {
			out = append(out, t)
		}
	}

	return out
}

// TargetName renders a target index with the machine's labels.
func (m *Machine) TargetName(target int) string {
	switch target {
	case TargetNop:
		return Nop
	case TargetEnd:
		return End
	case TargetCancel:
		return Cancel
	}
	if target >= 0 && target < len(m.States) && m.States[target].Label != "" {
		return m.States[target].Label
	}

	return strconv.Itoa(target)
}

func sortTransitions(ts []Transition) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Event != ts[j].Event {
			return ts[i].Event < ts[j].Event
		}
		return ts[i].Target < ts[j].Target
	})
}
