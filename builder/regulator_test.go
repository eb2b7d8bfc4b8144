package builder_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfpad/builder"
	"github.com/katalvlaran/wfpad/dist"
	"github.com/katalvlaran/wfpad/machine"
)

// Default RegulaTor parameters from its authors' evaluation.
var regulatorDefaults = builder.RegulatorParams{
	InitialRate:   277,
	Decay:         0.94,
	Threshold:     3.55,
	UploadRatio:   3.95,
	CellsPerState: 100,
}

func TestRegulatorRates(t *testing.T) {
	t.Parallel()

	rates, err := builder.RegulatorRates(regulatorDefaults)
	require.NoError(t, err)
	require.Greater(t, len(rates), 1)
	for i := 1; i < len(rates); i++ {
		require.LessOrEqual(t, rates[i], rates[i-1], "rate %d", i)
	}
	require.Equal(t, builder.RegulatorFloorRate, rates[len(rates)-1])
	require.Less(t, rates[0], regulatorDefaults.InitialRate)

	again, err := builder.RegulatorRates(regulatorDefaults)
	require.NoError(t, err)
	require.Equal(t, rates, again)

	// Threshold and upload ratio never change the schedule.
	p := regulatorDefaults
	p.Threshold, p.UploadRatio = 10, 1
	other, err := builder.RegulatorRates(p)
	require.NoError(t, err)
	require.Len(t, other, len(rates))
}

func TestRegulatorRates_Guard(t *testing.T) {
	t.Parallel()

	_, err := builder.RegulatorRates(builder.RegulatorParams{
		InitialRate: 1e6, Decay: 0.9999, Threshold: 1, UploadRatio: 1, CellsPerState: 1,
	})
	require.ErrorIs(t, err, builder.ErrConstructFailed)
}

func TestRegulator_Relay(t *testing.T) {
	t.Parallel()

	def, err := builder.Build(builder.Regulator(regulatorDefaults))
	require.NoError(t, err)
	requireWellFormed(t, def)
	require.Equal(t, builder.FamilyRegulator, def.Family)

	relay := def.Machine("relay")
	require.NotNil(t, relay)
	rates, err := builder.RegulatorRates(regulatorDefaults)
	require.NoError(t, err)
	require.Equal(t, 2+9+len(rates), relay.Len())
	require.Equal(t, uint64(math.MaxUint64), relay.AllowedBlockedMicrosec)

	block := relay.States[stateByLabel(t, relay, "block")]
	require.True(t, block.ActionIsBlock)
	require.True(t, math.IsInf(block.Action.Param1, 1))
	require.Equal(t, map[int]float64{stateByLabel(t, relay, "boot/0"): 1}, targets(block, machine.BlockingBegin))

	boot8 := relay.States[stateByLabel(t, relay, "boot/8")]
	send0 := stateByLabel(t, relay, "send/0")
	require.Equal(t, map[int]float64{send0: 1}, targets(boot8, machine.NonPaddingSent))
	require.Equal(t, dist.Constant(100000), boot8.Timeout)

	first := relay.States[send0]
	require.Empty(t, first.On(machine.NonPaddingSent))
	require.InDelta(t, 1e6/rates[0], first.Timeout.Param1, 1e-9)
	require.Equal(t, dist.Constant(100), first.Limit)

	s1 := stateByLabel(t, relay, "send/1")
	surge := targets(relay.States[s1], machine.NonPaddingSent)
	want := math.Min(1, 2/(regulatorDefaults.Threshold*rates[1]))
	require.InDelta(t, want, surge[send0], 1e-12)
	if want < 1 {
		require.InDelta(t, 1-want, surge[machine.TargetNop], 1e-12)
	}

	lastIdx := relay.Len() - 1
	last := relay.States[lastIdx]
	require.Equal(t, map[int]float64{lastIdx: 1}, targets(last, machine.LimitReached))
	require.InDelta(t, 1e6/builder.RegulatorFloorRate, last.Timeout.Param1, 1e-9)
}

func TestRegulator_Client(t *testing.T) {
	t.Parallel()

	def, err := builder.Build(builder.Regulator(regulatorDefaults))
	require.NoError(t, err)

	client := def.Machine("client")
	require.NotNil(t, client)
	require.Equal(t, 4, client.Len())

	c0, c1, c2 := stateByLabel(t, client, "count/0"), stateByLabel(t, client, "count/1"), stateByLabel(t, client, "count/2")
	send := stateByLabel(t, client, "send/0")
	require.Equal(t, 0, c0)

	require.Equal(t, map[int]float64{c1: 1}, targets(client.States[c0], machine.PaddingRecv))
	require.Empty(t, client.States[c0].On(machine.LimitReached))
	require.Equal(t, dist.Constant(2), client.States[c0].Limit)

	last := targets(client.States[c2], machine.NonPaddingRecv)
	require.InDelta(t, 0.05, last[send], 1e-9)
	require.InDelta(t, 0.95, last[c2], 1e-9)
	require.Equal(t, map[int]float64{send: 1}, targets(client.States[c2], machine.LimitReached))

	require.Equal(t, map[int]float64{c0: 1}, targets(client.States[send], machine.PaddingSent))
	require.False(t, client.States[send].ActionIsBlock)
}

func TestRegulator_ClientWholeAndSmallRatios(t *testing.T) {
	t.Parallel()

	p := regulatorDefaults
	p.UploadRatio = 2
	def, err := builder.Build(builder.Regulator(p))
	require.NoError(t, err)
	requireWellFormed(t, def)
	client := def.Machine("client")
	require.Equal(t, 3, client.Len())
	require.Empty(t, client.States[1].On(machine.LimitReached))

	p.UploadRatio = 0.5
	def, err = builder.Build(builder.Regulator(p))
	require.NoError(t, err)
	client = def.Machine("client")
	require.Equal(t, 1, client.Len())
	require.Equal(t, map[int]float64{0: 1}, targets(client.States[0], machine.PaddingSent))
}
