// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// impl_front.go - implementation of Front(p) and the FRONT schedule helpers.
//
// Contract:
//   • p.Validate() first (ErrInvalidParameter).
//   • One window draw w ~ U[min(minWindow, Wmax), Wmax] seconds, unless
//     WithFixedWindow; a stochastic build without a Sampler fails with
//     ErrNeedRandSource.
//   • States: "start", then pad/0 .. pad/k-1 (labels via cfg.labelFn).
//   • start: NonPaddingSent, NonPaddingRecv → pad/0.
//   • pad/i: PaddingSent → self, LimitReached → pad/i+1; the last → End.
//   • FrontSchedule carves the Rayleigh CDF (scale w) into k intervals of
//     mass RayleighCoverage/k; the last ends exactly at RayleighMaxT(w).
//   • pad/i's timer is derived from its interval, so the padding window
//     still ahead of it (MaxT − start) shrinks as i grows.
//
// Complexity:
//   • Time: O(k · solverIterations). Space: O(k).
//
// Determinism:
//   • Exactly one Sampler draw per machine (zero with WithFixedWindow).

package builder

import (
	"fmt"
	"math"
	"strconv"

	"github.com/katalvlaran/wfpad/dist"
	"github.com/katalvlaran/wfpad/machine"
)

const rolePad = "pad"

// FrontBudgets splits n padding cells over k states: n/k each, and the
// first n mod k states one extra. The result sums to n exactly.
// Returns nil when k < 1 or n < 0.
// Complexity: O(k).
func FrontBudgets(n, k int) []int {
	if k < 1 || n < 0 {
		return nil
	}
	out := make([]int, k)
	base, extra := n/k, n%k
	for i := range out {
		out[i] = base
		if i < extra {
			out[i]++
		}
	}

	return out
}

// FrontInterval is one padding state's share of the Rayleigh schedule, in
// microseconds.
type FrontInterval struct {
	// Start is where the state's interval begins.
	Start float64
	// Width is the interval length; the state's timer mean is Width/budget.
	Width float64
	// Window is the padding window still ahead of the state, MaxT − Start.
	// It decreases strictly with the state index down to the last Width.
	Window float64
}

// FrontSchedule splits the Rayleigh curve of a w-second window into k
// intervals of equal CDF mass RayleighCoverage/k. The intervals are
// contiguous and the last one ends at RayleighMaxT.
// Complexity: O(k · solverIterations).
func FrontSchedule(w float64, k int) ([]FrontInterval, error) {
	if err := validateRange(methodFront, "window", w, MinFrontWindow, MaxFrontWindow); err != nil {
		return nil, err
	}
	if err := validateMin(methodFront, "states", k, 1); err != nil {
		return nil, err
	}

	scale := w * microsPerSecond
	maxT := dist.RayleighMaxT(scale)
	area := dist.RayleighCoverage / float64(k)

	out := make([]FrontInterval, k)
	var a float64
	for i := range out {
		width := maxT - a
		if i < k-1 {
			width = dist.RayleighIntervalWidth(a, area, maxT, scale)
		}
		if !(width > 0) {
			return nil, fmt.Errorf("%s: interval %d empty at t=%gµs: %w", methodFront, i, a, ErrConstructFailed)
		}
		out[i] = FrontInterval{Start: a, Width: width, Window: maxT - a}
		a += width
	}

	return out, nil
}

// Front returns a Constructor for a single FRONT machine.
func Front(p FrontParams) Constructor {
	return func(cfg builderConfig) (*machine.Defense, error) {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		m, err := frontMachine(cfg, methodFront, p, FamilyFront)
		if err != nil {
			return nil, err
		}

		return &machine.Defense{
			Family:   FamilyFront,
			Name:     FamilyFront,
			Params:   p.provenance(),
			Machines: []*machine.Machine{m},
		}, nil
	}
}

// frontMachine draws a window and assembles one FRONT machine called name.
// p must be valid.
func frontMachine(cfg builderConfig, method string, p FrontParams, name string) (*machine.Machine, error) {
	w, err := frontWindow(cfg, method, p.Window)
	if err != nil {
		return nil, err
	}

	d := machine.NewDraft(name, frontLimits())
	d.Provenance = p.provenance().Add("window", w)
	d.AddState(labelStart, machine.StateSpec{})
	first, err := addFrontChain(d, cfg, rolePad, w, p.Budget, p.States, machine.End)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	d.On(labelStart, machine.NonPaddingSent, first, 1)
	d.On(labelStart, machine.NonPaddingRecv, first, 1)

	m, err := machine.Assemble(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", method, ErrConstructFailed, err)
	}
	cfg.logger.Debug("front machine assembled", "machine", name, "window", w, "states", m.Len())

	return m, nil
}

func frontLimits() machine.Limits {
	return machine.Limits{AllowedPaddingPackets: unlimited}
}

// frontWindow resolves the padding window in seconds.
func frontWindow(cfg builderConfig, method string, wmax float64) (float64, error) {
	if cfg.fixedWindow {
		return wmax, nil
	}
	if cfg.sampler == nil {
		return 0, fmt.Errorf("%s: window draw: %w", method, ErrNeedRandSource)
	}

	lo := math.Max(MinFrontWindow, math.Min(cfg.minWindow, wmax))

	return dist.Uniform(lo, wmax).Sample(cfg.sampler), nil
}

// addFrontChain appends k padding states for a window of w seconds and
// budget n, chains them, and sends the last one's LimitReached to tail.
// It returns the label of the first padding state; the caller wires the
// entry transitions.
func addFrontChain(d *machine.Draft, cfg builderConfig, role string, w float64, n, k int, tail string) (string, error) {
	schedule, err := FrontSchedule(w, k)
	if err != nil {
		return "", err
	}
	labels, err := roleLabels(cfg, role, k)
	if err != nil {
		return "", err
	}

	scale := w * microsPerSecond
	budgets := FrontBudgets(n, k)
	for i, label := range labels {
		iv := schedule[i]
		mid := iv.Start + iv.Width/2
		b := float64(budgets[i])
		mean := iv.Width / b
		stdev := scale * scale / (b * mid * math.Sqrt(math.Pi))

		d.AddState(label, machine.StateSpec{
			Action:  dist.Constant(cfg.cellSize),
			Limit:   dist.Uniform(1, b),
			Timeout: dist.Normal(mean, stdev, 0, 2*mean),
		})
		d.On(label, machine.PaddingSent, label, 1)
		next := tail
		if i < k-1 {
			next = labels[i+1]
		}
		d.On(label, machine.LimitReached, next, 1)
		d.Provenance = d.Provenance.Add(role+"_window/"+strconv.Itoa(i), iv.Window/microsPerSecond)
	}

	return labels[0], nil
}
