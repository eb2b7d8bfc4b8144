// SPDX-License-Identifier: MIT
// Package: wfpad/machine
//
// draft.go - the labelled, unassembled state graph builders produce.
//
// Builders address states by label ("start", "pad/0", "send/3") and never
// compute indices; Assemble assigns them in insertion order.

package machine

import "github.com/katalvlaran/wfpad/dist"

// StateSpec carries everything about a state except its transitions.
type StateSpec struct {
	Action  dist.Dist
	Limit   dist.Dist
	Timeout dist.Dist

	ActionIsBlock           bool
	Bypass                  bool
	Replace                 bool
	LimitIncludesNonpadding bool
}

type draftState struct {
	label string
	spec  StateSpec
}

type draftEdge struct {
	from, to string
	event    Event
	weight   float64
}

// Draft accumulates states and weighted transitions. The first state added
// is the start state. A Draft is not safe for concurrent use.
type Draft struct {
	Name       string
	Limits     Limits
	Provenance Provenance

	states []draftState
	edges  []draftEdge
}

// NewDraft starts an empty draft.
func NewDraft(name string, limits Limits) *Draft {
	return &Draft{Name: name, Limits: limits}
}

// AddState appends a state. Duplicate labels are reported by Assemble.
func (d *Draft) AddState(label string, spec StateSpec) *Draft {
	d.states = append(d.states, draftState{label: label, spec: spec})

	return d
}

// On adds a transition from -> to with the given weight when ev fires.
// to may be a state label or one of Nop, End, Cancel. Repeated (from, ev,
// to) triples accumulate their weights.
func (d *Draft) On(from string, ev Event, to string, weight float64) *Draft {
	d.edges = append(d.edges, draftEdge{from: from, to: to, event: ev, weight: weight})

	return d
}

// Len returns the number of states added so far.
func (d *Draft) Len() int { return len(d.states) }
