package builder_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfpad/builder"
	"github.com/katalvlaran/wfpad/dist"
	"github.com/katalvlaran/wfpad/machine"
)

func TestFrontBudgets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n, k int
		want []int
	}{
		{10, 3, []int{4, 3, 3}},
		{9, 3, []int{3, 3, 3}},
		{5, 1, []int{5}},
		{7, 7, []int{1, 1, 1, 1, 1, 1, 1}},
		{1700, 4, []int{425, 425, 425, 425}},
		{11, 4, []int{3, 3, 3, 2}},
	}
	for _, tc := range cases {
		got := builder.FrontBudgets(tc.n, tc.k)
		require.Equal(t, tc.want, got, "N=%d k=%d", tc.n, tc.k)

		sum := 0
		for _, b := range got {
			sum += b
		}
		require.Equal(t, tc.n, sum)
	}

	require.Nil(t, builder.FrontBudgets(10, 0))
	require.Nil(t, builder.FrontBudgets(-1, 3))
}

func TestFrontSchedule(t *testing.T) {
	t.Parallel()

	maxT := dist.RayleighMaxT(14e6)
	got, err := builder.FrontSchedule(14, 4)
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Zero(t, got[0].Start)
	require.Equal(t, maxT, got[0].Window)

	var sum float64
	for i, iv := range got {
		require.Greater(t, iv.Width, 0.0)
		require.InDelta(t, maxT-iv.Start, iv.Window, 1e-6)
		mass := dist.RayleighCDF(iv.Start+iv.Width, 14e6) - dist.RayleighCDF(iv.Start, 14e6)
		require.InDelta(t, dist.RayleighCoverage/4, mass, 1e-9, "interval %d", i)
		if i > 0 {
			require.Less(t, iv.Window, got[i-1].Window)
			require.InDelta(t, got[i-1].Window-iv.Window, got[i-1].Width, 1e-6)
		}
		sum += iv.Width
	}
	require.InDelta(t, maxT, sum, 1e-6)
	require.InDelta(t, got[3].Width, got[3].Window, 1e-6)

	one, err := builder.FrontSchedule(5, 1)
	require.NoError(t, err)
	require.Equal(t, []builder.FrontInterval{{Width: dist.RayleighMaxT(5e6), Window: dist.RayleighMaxT(5e6)}}, one)

	_, err = builder.FrontSchedule(5, 0)
	require.ErrorIs(t, err, builder.ErrInvalidParameter)
	_, err = builder.FrontSchedule(0, 3)
	require.ErrorIs(t, err, builder.ErrInvalidParameter)
}

func TestFront_TimersFollowSchedule(t *testing.T) {
	t.Parallel()

	def, err := builder.Build(
		builder.Front(builder.FrontParams{Window: 14, Budget: 10, States: 3}),
		builder.WithFixedWindow(),
	)
	require.NoError(t, err)
	m := def.Machines[0]

	schedule, err := builder.FrontSchedule(14, 3)
	require.NoError(t, err)
	budgets := builder.FrontBudgets(10, 3)
	for i, iv := range schedule {
		s := m.States[stateByLabel(t, m, "pad/"+strconv.Itoa(i))]
		require.InDelta(t, iv.Width/float64(budgets[i]), s.Timeout.Param1, 1e-6)
		require.InDelta(t, iv.Window/1e6, provenance(t, m.Provenance, "pad_window/"+strconv.Itoa(i)), 1e-12)
	}
}

func TestFront_ManyStatesFit(t *testing.T) {
	t.Parallel()

	for _, k := range []int{2000, 2981, 2983, 4000} {
		def, err := builder.Build(
			builder.Front(builder.FrontParams{Window: 14, Budget: 10000, States: k}),
			builder.WithFixedWindow(),
		)
		require.NoError(t, err, "k=%d", k)
		m := def.Machines[0]
		require.Equal(t, k+1, m.Len())
		last := m.States[m.Len()-1]
		require.Equal(t, map[int]float64{machine.TargetEnd: 1}, targets(last, machine.LimitReached))
		require.NoError(t, last.Timeout.Validate())
	}
}

func TestFront_Structure(t *testing.T) {
	t.Parallel()

	def, err := builder.Build(
		builder.Front(builder.FrontParams{Window: 14, Budget: 10, States: 3}),
		builder.WithSeed(7),
	)
	require.NoError(t, err)
	requireWellFormed(t, def)
	require.Equal(t, builder.FamilyFront, def.Family)
	require.Len(t, def.Machines, 1)

	m := def.Machines[0]
	require.Equal(t, 4, m.Len())
	require.Equal(t, "start", m.States[0].Label)
	require.Equal(t, uint64(0), m.AllowedBlockedMicrosec)

	pad0 := stateByLabel(t, m, "pad/0")
	pad1 := stateByLabel(t, m, "pad/1")
	pad2 := stateByLabel(t, m, "pad/2")
	require.Equal(t, map[int]float64{pad0: 1}, targets(m.States[0], machine.NonPaddingSent))
	require.Equal(t, map[int]float64{pad0: 1}, targets(m.States[0], machine.NonPaddingRecv))

	wantBudget := []float64{4, 3, 3}
	for i, idx := range []int{pad0, pad1, pad2} {
		s := m.States[idx]
		require.Equal(t, map[int]float64{idx: 1}, targets(s, machine.PaddingSent))
		require.Equal(t, dist.Uniform(1, wantBudget[i]), s.Limit)
		require.Equal(t, dist.Constant(builder.TorCellSize), s.Action)
		require.Equal(t, dist.KindNormal, s.Timeout.Kind)
		require.InDelta(t, 2*s.Timeout.Param1, s.Timeout.Max, 1e-9)
		require.NoError(t, s.Timeout.Validate())
	}
	require.Equal(t, map[int]float64{pad1: 1}, targets(m.States[pad0], machine.LimitReached))
	require.Equal(t, map[int]float64{pad2: 1}, targets(m.States[pad1], machine.LimitReached))
	require.Equal(t, map[int]float64{machine.TargetEnd: 1}, targets(m.States[pad2], machine.LimitReached))

	w := provenance(t, m.Provenance, "window")
	require.GreaterOrEqual(t, w, builder.DefaultMinWindow)
	require.LessOrEqual(t, w, 14.0)
}

func TestFront_SingleState(t *testing.T) {
	t.Parallel()

	def, err := builder.Build(
		builder.Front(builder.FrontParams{Window: 5, Budget: 100, States: 1}),
		builder.WithFixedWindow(),
	)
	require.NoError(t, err)
	requireWellFormed(t, def)

	m := def.Machines[0]
	require.Equal(t, 2, m.Len())
	pad := m.States[1]
	require.Equal(t, dist.Uniform(1, 100), pad.Limit)
	require.Equal(t, map[int]float64{machine.TargetEnd: 1}, targets(pad, machine.LimitReached))
	require.Equal(t, 5.0, provenance(t, m.Provenance, "window"))
}

func TestFront_Randomness(t *testing.T) {
	t.Parallel()

	p := builder.FrontParams{Window: 14, Budget: 1700, States: 4}

	_, err := builder.Build(builder.Front(p))
	require.ErrorIs(t, err, builder.ErrNeedRandSource)

	a, err := builder.Build(builder.Front(p), builder.WithSeed(42))
	require.NoError(t, err)
	b, err := builder.Build(builder.Front(p), builder.WithSeed(42))
	require.NoError(t, err)
	require.Equal(t, encodeAll(t, a), encodeAll(t, b))
	require.Equal(t, a.Machines[0].ID(), b.Machines[0].ID())

	fixed, err := builder.Build(builder.Front(p), builder.WithFixedWindow())
	require.NoError(t, err)
	require.Equal(t, 14.0, provenance(t, fixed.Machines[0].Provenance, "window"))
}

func TestFront_MinWindowClamp(t *testing.T) {
	t.Parallel()

	// A lower bound above Wmax collapses the draw to Wmax.
	def, err := builder.Build(
		builder.Front(builder.FrontParams{Window: 2, Budget: 10, States: 2}),
		builder.WithSeed(1),
		builder.WithMinWindow(30),
	)
	require.NoError(t, err)
	require.Equal(t, 2.0, provenance(t, def.Machines[0].Provenance, "window"))
}

func TestFront_CellSizeAndLabels(t *testing.T) {
	t.Parallel()

	def, err := builder.Build(
		builder.Front(builder.FrontParams{Window: 3, Budget: 6, States: 2}),
		builder.WithFixedWindow(),
		builder.WithCellSize(1500),
		builder.WithLabelScheme(builder.UpperLabelFn),
	)
	require.NoError(t, err)

	m := def.Machines[0]
	require.Equal(t, []string{"start", "PAD_0", "PAD_1"}, []string{m.States[0].Label, m.States[1].Label, m.States[2].Label})
	require.Equal(t, dist.Constant(1500), m.States[1].Action)
}
