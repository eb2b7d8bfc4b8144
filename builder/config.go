// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Design:
//   • builderConfig is the single source of truth for all builder knobs.
//   • Defaults are deterministic and documented; no globals.
//   • newBuilderConfig applies options in-order (later overrides earlier).
//
// Deterministic defaults (no surprises):
//   • sampler     = nil               (stochastic builds need WithSeed/WithSampler)
//   • labelFn     = DefaultLabelFn    ("pad/0", "send/3", ...)
//   • cellSize    = TorCellSize       (512 bytes)
//   • minWindow   = DefaultMinWindow  (1 s)
//   • fixedWindow = false
//   • composed    = false             (one machine per pipeline)
//   • parallelism = GOMAXPROCS
//   • logger      = discard

package builder

import (
	"log/slog"
	"runtime"

	"github.com/katalvlaran/wfpad/dist"
)

// builderConfig is passed by value to every Constructor.
type builderConfig struct {
	sampler     *dist.Sampler
	labelFn     LabelFn
	cellSize    float64
	minWindow   float64
	fixedWindow bool
	composed    bool
	parallelism int
	logger      *slog.Logger
}

// newBuilderConfig resolves opts over the defaults.
// Complexity: O(len(opts)).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		labelFn:     DefaultLabelFn,
		cellSize:    TorCellSize,
		minWindow:   DefaultMinWindow,
		parallelism: runtime.GOMAXPROCS(0),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
