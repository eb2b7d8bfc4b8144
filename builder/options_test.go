package builder

import (
	"bytes"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfpad/dist"
)

func TestNewBuilderConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := newBuilderConfig()
	require.Nil(t, cfg.sampler)
	require.Equal(t, "pad/3", cfg.labelFn(rolePad, 3))
	require.Equal(t, float64(TorCellSize), cfg.cellSize)
	require.Equal(t, DefaultMinWindow, cfg.minWindow)
	require.False(t, cfg.fixedWindow)
	require.False(t, cfg.composed)
	require.Equal(t, runtime.GOMAXPROCS(0), cfg.parallelism)
	require.NotNil(t, cfg.logger)
}

func TestNewBuilderConfig_LaterOptionsWin(t *testing.T) {
	t.Parallel()

	s := dist.NewSampler(9)
	cfg := newBuilderConfig(WithSeed(1), WithSampler(s), WithCellSize(100), WithCellSize(200), WithParallelism(3))
	require.Same(t, s, cfg.sampler)
	require.Equal(t, 200.0, cfg.cellSize)
	require.Equal(t, 3, cfg.parallelism)

	cfg = newBuilderConfig(WithSampler(s), WithSeed(1))
	require.NotSame(t, s, cfg.sampler)
	require.Equal(t, int64(1), cfg.sampler.Seed())
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	t.Parallel()

	cases := map[string]func(){
		"nil sampler":   func() { WithSampler(nil) },
		"nil labels":    func() { WithLabelScheme(nil) },
		"zero cell":     func() { WithCellSize(0) },
		"negative min":  func() { WithMinWindow(-1) },
		"zero parallel": func() { WithParallelism(0) },
		"nil logger":    func() { WithLogger(nil) },
	}
	for name, fn := range cases {
		require.Panics(t, fn, name)
	}
}

func TestLabelSchemes(t *testing.T) {
	t.Parallel()

	require.Equal(t, "send/12", DefaultLabelFn("send", 12))
	require.Equal(t, "SEND_12", UpperLabelFn("send", 12))

	cfg := newBuilderConfig(WithLabelScheme(func(string, int) string { return "x" }))
	_, err := roleLabels(cfg, rolePad, 2)
	require.ErrorIs(t, err, ErrOptionViolation)

	cfg = newBuilderConfig(WithLabelScheme(func(string, int) string { return labelStart }))
	_, err = roleLabels(cfg, rolePad, 1)
	require.ErrorIs(t, err, ErrOptionViolation)
}

func TestWithLogger_ReceivesDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := Build(Front(FrontParams{Window: 2, Budget: 4, States: 2}), WithFixedWindow(), WithLogger(l))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "front machine assembled")
	require.Contains(t, buf.String(), "defense built")
}
