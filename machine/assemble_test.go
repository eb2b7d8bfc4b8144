package machine_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfpad/dist"
	"github.com/katalvlaran/wfpad/machine"
)

func padState() machine.StateSpec {
	return machine.StateSpec{
		Action:  dist.Constant(512),
		Limit:   dist.Uniform(1, 10),
		Timeout: dist.Normal(1000, 100, 0, 2000),
	}
}

func chainDraft() *machine.Draft {
	d := machine.NewDraft("chain", machine.Limits{})
	d.AddState("start", machine.StateSpec{})
	d.AddState("pad/0", padState())
	d.AddState("pad/1", padState())
	d.On("start", machine.NonPaddingSent, "pad/0", 1)
	d.On("pad/0", machine.PaddingSent, "pad/0", 1)
	d.On("pad/0", machine.LimitReached, "pad/1", 1)
	d.On("pad/1", machine.PaddingSent, "pad/1", 1)
	d.On("pad/1", machine.LimitReached, machine.End, 1)

	return d
}

func TestAssemble_Chain(t *testing.T) {
	t.Parallel()

	m, err := machine.Assemble(chainDraft())
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())
	require.Equal(t, "start", m.States[0].Label)

	lim := m.States[2].On(machine.LimitReached)
	require.Len(t, lim, 1)
	require.Equal(t, machine.TargetEnd, lim[0].Target)
	require.Equal(t, "<end>", m.TargetName(lim[0].Target))

	budget, ok := m.States[1].Budget()
	require.True(t, ok)
	require.Equal(t, uint64(10), budget)
	_, ok = m.States[0].Budget()
	require.False(t, ok)
}

func TestAssemble_NormalizesDriftAndKeepsNop(t *testing.T) {
	t.Parallel()

	d := chainDraft()
	// 0.3 + 0.7000001 drifts within tolerance.
	d.On("pad/1", machine.NonPaddingSent, "pad/0", 0.3)
	d.On("pad/1", machine.NonPaddingSent, machine.Nop, 0.7000001)
	m, err := machine.Assemble(d)
	require.NoError(t, err)

	ts := m.States[2].On(machine.NonPaddingSent)
	require.Len(t, ts, 2)
	var sum float64
	for _, tr := range ts {
		sum += tr.Probability
	}
	require.InDelta(t, 1, sum, 1e-9)
	// Nop (-1) sorts before real targets.
	require.Equal(t, machine.TargetNop, ts[0].Target)
}

func TestAssemble_DropsNopOnlyGroups(t *testing.T) {
	t.Parallel()

	d := chainDraft()
	d.On("pad/0", machine.BlockingEnd, machine.Nop, 1)
	m, err := machine.Assemble(d)
	require.NoError(t, err)
	require.Empty(t, m.States[1].On(machine.BlockingEnd))
}

func TestAssemble_Violations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(d *machine.Draft)
		want   error
	}{
		{"dangling target", func(d *machine.Draft) { d.On("pad/1", machine.BlockingBegin, "pad/9", 1) }, machine.ErrDanglingTarget},
		{"dangling source", func(d *machine.Draft) { d.On("ghost", machine.PaddingSent, "pad/0", 1) }, machine.ErrDanglingTarget},
		{"unreachable", func(d *machine.Draft) { d.AddState("orphan", padState()) }, machine.ErrUnreachable},
		{"duplicate label", func(d *machine.Draft) { d.AddState("pad/0", padState()) }, machine.ErrDuplicateState},
		{"reserved label", func(d *machine.Draft) { d.AddState(machine.End, padState()) }, machine.ErrDuplicateState},
		{"negative weight", func(d *machine.Draft) { d.On("pad/0", machine.BlockingBegin, "pad/1", -0.5) }, machine.ErrUnnormalizable},
		{"nan weight", func(d *machine.Draft) { d.On("pad/0", machine.BlockingBegin, "pad/1", math.NaN()) }, machine.ErrUnnormalizable},
		{"sum too large", func(d *machine.Draft) { d.On("pad/0", machine.PaddingSent, "pad/1", 0.5) }, machine.ErrUnnormalizable},
		{"zero total", func(d *machine.Draft) { d.On("pad/0", machine.BlockingBegin, "pad/1", 0) }, machine.ErrUnnormalizable},
		{"degenerate timer", func(d *machine.Draft) {
			d.AddState("bad", machine.StateSpec{Timeout: dist.Normal(5, 0, 0, 0)})
			d.On("pad/1", machine.BlockingBegin, "bad", 1)
		}, dist.ErrDegenerate},
		{"bad limits", func(d *machine.Draft) { d.Limits.MaxPaddingFrac = 1.5 }, machine.ErrStructural},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := chainDraft()
			tc.mutate(d)
			m, err := machine.Assemble(d)
			require.Nil(t, m)
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, machine.ErrStructural)
		})
	}
}

func TestAssemble_UnreachableNamesWhereTheChainStops(t *testing.T) {
	t.Parallel()

	d := chainDraft()
	d.AddState("pad/2", padState())
	d.AddState("pad/3", padState())
	d.On("pad/2", machine.LimitReached, "pad/3", 1)
	_, err := machine.Assemble(d)
	require.ErrorIs(t, err, machine.ErrUnreachable)
	require.Contains(t, err.Error(), `"pad/2", last reached state before it: start -> pad/0 -> pad/1`)
	require.Contains(t, err.Error(), `"pad/3", last reached state before it: start -> pad/0 -> pad/1; entered only from "pad/2" on LimitReached`)
}

func TestAssemble_ReportsAllViolations(t *testing.T) {
	t.Parallel()

	d := chainDraft()
	d.AddState("orphan", padState())
	d.On("pad/0", machine.BlockingBegin, "nowhere", 1)
	_, err := machine.Assemble(d)
	require.True(t, errors.Is(err, machine.ErrUnreachable))
	require.True(t, errors.Is(err, machine.ErrDanglingTarget))

	_, err = machine.Assemble(machine.NewDraft("empty", machine.Limits{}))
	require.ErrorIs(t, err, machine.ErrStructural)
	_, err = machine.Assemble(nil)
	require.ErrorIs(t, err, machine.ErrStructural)
}
