package builder_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfpad/machine"
)

// requireWellFormed checks the invariants every emitted machine must hold:
// per (state, event) probabilities sum to 1, targets resolve.
func requireWellFormed(t *testing.T, def *machine.Defense) {
	t.Helper()
	require.NotNil(t, def)
	require.NotEmpty(t, def.Machines)

	for _, m := range def.Machines {
		for _, s := range m.States {
			sums := map[machine.Event]float64{}
			for _, tr := range s.Transitions {
				require.GreaterOrEqual(t, tr.Target, machine.TargetCancel, "%s/%s", m.Name, s.Label)
				require.Less(t, tr.Target, m.Len(), "%s/%s", m.Name, s.Label)
				sums[tr.Event] += tr.Probability
			}
			for ev, sum := range sums {
				require.InDelta(t, 1, sum, 1e-9, "%s/%s on %s", m.Name, s.Label, ev)
			}
		}
	}
}

// stateByLabel returns the index of label in m, or fails.
func stateByLabel(t *testing.T, m *machine.Machine, label string) int {
	t.Helper()
	for i, s := range m.States {
		if s.Label == label {
			return i
		}
	}
	require.Failf(t, "missing state", "%s has no state %q", m.Name, label)

	return -1
}

// targets maps each target of s on ev to its probability.
func targets(s machine.State, ev machine.Event) map[int]float64 {
	out := map[int]float64{}
	for _, tr := range s.On(ev) {
		out[tr.Target] = tr.Probability
	}

	return out
}

func encodeAll(t *testing.T, def *machine.Defense) []string {
	t.Helper()
	out := make([]string, 0, len(def.Machines))
	for _, m := range def.Machines {
		enc, err := machine.Encode(m)
		require.NoError(t, err)
		out = append(out, enc)
	}

	return out
}

func provenance(t *testing.T, p machine.Provenance, name string) float64 {
	t.Helper()
	v, ok := p.Get(name)
	require.True(t, ok, "provenance %q", name)
	require.False(t, math.IsNaN(v))

	return v
}
