// SPDX-License-Identifier: MIT
// Package: wfpad/machine
//
// assemble.go - Draft -> Machine.
//
// Contract:
//   • Indices are contiguous, in insertion order; state 0 is the start state.
//   • Every (state, event) group of transitions sums to 1 within 1e-9.
//     Totals within DriftTolerance of 1 are rescaled; anything further off
//     is a builder defect and fails.
//   • A group whose only target is Nop is dropped (it never changes anything).
//   • Every state is reachable from state 0. An unreachable state is
//     reported with the shortest path to the closest reached state before
//     it and with the events that would have entered it.
//   • All violations are reported together; no partial Machine is returned.
//
// Complexity: O(S + T log T) for S states and T transitions.

package machine

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"

	"github.com/katalvlaran/wfpad/bfs"
	"github.com/katalvlaran/wfpad/core"
)

// DriftTolerance is the largest deviation of a transition group's total
// weight from 1 that Assemble silently rescales.
const DriftTolerance = 1e-6

type groupKey struct {
	from  int
	event Event
}

// Assemble validates d and produces an immutable Machine.
func Assemble(d *Draft) (*Machine, error) {
	if d == nil {
		return nil, fmt.Errorf("Assemble: nil draft: %w", ErrStructural)
	}

	var errs error
	if len(d.states) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: no states", ErrStructural))
	}
	errs = multierr.Append(errs, validateLimits(d.Limits))

	// Stage 1: labels and indices.
	index := make(map[string]int, len(d.states))
	labelsOK := true
	for i, s := range d.states {
		switch {
		case s.label == "" || s.label == Nop || s.label == End || s.label == Cancel:
			errs = multierr.Append(errs, fmt.Errorf("%w: state %d has reserved or empty label %q", ErrDuplicateState, i, s.label))
			labelsOK = false
		case hasKey(index, s.label):
			errs = multierr.Append(errs, fmt.Errorf("%w: %q used by states %d and %d", ErrDuplicateState, s.label, index[s.label], i))
			labelsOK = false
		default:
			index[s.label] = i
		}
	}

	// Stage 2: resolve edges into per-(state, event) weight groups.
	groups := make(map[groupKey]map[int]float64)
	var order []groupKey
	for _, e := range d.edges {
		from, ok := index[e.from]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: source %q (%s) is not a state", ErrDanglingTarget, e.from, e.event))
			continue
		}
		to, ok := resolveTarget(index, e.to)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q --%s--> %q", ErrDanglingTarget, e.from, e.event, e.to))
			continue
		}
		if !e.event.Valid() {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q has unknown event %d", ErrStructural, e.from, uint8(e.event)))
			continue
		}
		if math.IsNaN(e.weight) || math.IsInf(e.weight, 0) || e.weight < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q --%s--> %q has weight %g", ErrUnnormalizable, e.from, e.event, e.to, e.weight))
			continue
		}
		k := groupKey{from: from, event: e.event}
		if groups[k] == nil {
			groups[k] = make(map[int]float64)
			order = append(order, k)
		}
		groups[k][to] += e.weight
	}

	// Stage 3: normalize.
	m := &Machine{
		Name:       d.Name,
		Limits:     d.Limits,
		States:     make([]State, len(d.states)),
		Provenance: append(Provenance(nil), d.Provenance...),
	}
	for i, s := range d.states {
		m.States[i] = stateFromSpec(s.label, s.spec)
	}
	for _, k := range order {
		ts, err := normalize(k, groups[k])
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("state %q: %w", d.states[k.from].label, err))
			continue
		}
		m.States[k.from].Transitions = append(m.States[k.from].Transitions, ts...)
	}
	for i := range m.States {
		sortTransitions(m.States[i].Transitions)
	}

	// Stage 4: distributions.
	for _, s := range m.States {
		for _, f := range []struct {
			name string
			err  error
		}{
			{"action", s.Action.Validate()},
			{"limit", s.Limit.Validate()},
			{"timeout", s.Timeout.Validate()},
		} {
			if f.err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%w: state %q %s: %w", ErrStructural, s.Label, f.name, f.err))
			}
		}
	}

	// Stage 5: reachability, only meaningful with sound labels.
	if labelsOK && len(m.States) > 0 {
		errs = multierr.Append(errs, checkReachable(m))
	}

	if errs != nil {
		return nil, fmt.Errorf("Assemble(%s): %w", d.Name, errs)
	}

	return m, nil
}

func stateFromSpec(label string, sp StateSpec) State {
	return State{
		Label:                   label,
		Action:                  sp.Action,
		Limit:                   sp.Limit,
		Timeout:                 sp.Timeout,
		ActionIsBlock:           sp.ActionIsBlock,
		Bypass:                  sp.Bypass,
		Replace:                 sp.Replace,
		LimitIncludesNonpadding: sp.LimitIncludesNonpadding,
	}
}

func normalize(k groupKey, weights map[int]float64) ([]Transition, error) {
	var total float64
	for _, w := range weights {
		total += w
	}
	switch {
	case total == 0:
		return nil, fmt.Errorf("%w: %s weights sum to 0", ErrUnnormalizable, k.event)
	case math.Abs(total-1) > DriftTolerance:
		return nil, fmt.Errorf("%w: %s weights sum to %g", ErrUnnormalizable, k.event, total)
	}

	out := make([]Transition, 0, len(weights))
	onlyNop := true
	for to, w := range weights {
		if w == 0 {
			continue
		}
		if to != TargetNop {
			onlyNop = false
		}
		out = append(out, Transition{Event: k.event, Target: to, Probability: w / total})
	}
	if onlyNop {
		return nil, nil
	}

	return out, nil
}

func checkReachable(m *Machine) error {
	g := core.NewGraph(core.WithDirected(true), core.WithLoops(), core.WithMultiEdges())
	for _, s := range m.States {
		if err := g.AddVertex(s.Label); err != nil {
			return fmt.Errorf("%w: %w", ErrStructural, err)
		}
	}
	for _, s := range m.States {
		for _, t := range s.Transitions {
			if t.Target < 0 || t.Probability == 0 {
				continue
			}
			if _, err := g.AddEdge(s.Label, m.States[t.Target].Label, core.WithEdgeLabel(t.Event.String())); err != nil {
				return fmt.Errorf("%w: %w", ErrStructural, err)
			}
		}
	}

	missing, res, err := bfs.Unreached(g, m.States[0].Label)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStructural, err)
	}
	if len(missing) == 0 {
		return nil
	}

	entries := make(map[string][]string)
	for _, e := range g.Edges() {
		if e.From != e.To {
			entries[e.To] = append(entries[e.To], fmt.Sprintf("%q on %s", e.From, e.Label))
		}
	}
	var errs error
	for _, label := range missing {
		msg := fmt.Sprintf("%q, last reached state before it: %s", label, strings.Join(res.Path(lastReachedBefore(m, res, label)), " -> "))
		if in := entries[label]; len(in) > 0 {
			msg += "; entered only from " + strings.Join(in, ", ")
		}
		errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrUnreachable, msg))
	}

	return errs
}

// lastReachedBefore returns the closest reached state preceding label in
// insertion order. State 0 is always reached.
func lastReachedBefore(m *Machine, res *bfs.Result, label string) string {
	prev := m.States[0].Label
	for _, s := range m.States {
		if s.Label == label {
			break
		}
		if res.Reached(s.Label) {
			prev = s.Label
		}
	}

	return prev
}

func validateLimits(l Limits) error {
	var errs error
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"max_padding_frac", l.MaxPaddingFrac},
		{"max_blocking_frac", l.MaxBlockingFrac},
	} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s=%g outside [0,1]", ErrStructural, f.name, f.v))
		}
	}

	return errs
}

func resolveTarget(index map[string]int, label string) (int, bool) {
	switch label {
	case Nop:
		return TargetNop, true
	case End:
		return TargetEnd, true
	case Cancel:
		return TargetCancel, true
	}
	i, ok := index[label]

	return i, ok
}

func hasKey(m map[string]int, k string) bool {
	_, ok := m[k]

	return ok
}
