// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// options.go - functional options for the builder package.
//
// Contract (strict):
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves MUST NOT panic.
//   • Determinism is explicit: randomness comes only from WithSeed or
//     WithSampler.

package builder

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/wfpad/dist"
)

// BuilderOption customizes a build by mutating the builderConfig before
// the Constructor runs.
// Complexity: applying N options costs O(N) time, O(1) space.
type BuilderOption func(*builderConfig)

// WithSeed creates a fresh Sampler with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.sampler = dist.NewSampler(seed)
	}
}

// WithSampler provides an explicit stream; the build consumes draws from
// it, so reuse across builds changes later results. Panics on nil.
func WithSampler(s *dist.Sampler) BuilderOption {
	if s == nil {
		panic("builder: WithSampler(nil)")
	}
	return func(c *builderConfig) {
		c.sampler = s
	}
}

// WithLabelScheme overrides how state labels are formed. Panics on nil.
func WithLabelScheme(fn LabelFn) BuilderOption {
	if fn == nil {
		panic("builder: WithLabelScheme(nil)")
	}
	return func(c *builderConfig) {
		c.labelFn = fn
	}
}

// WithCellSize sets the padding action size in bytes. Panics if size <= 0.
func WithCellSize(size float64) BuilderOption {
	if !(size > 0) || math.IsInf(size, 0) {
		panic("builder: WithCellSize(size<=0)")
	}
	return func(c *builderConfig) {
		c.cellSize = size
	}
}

// WithMinWindow sets the lower bound, in seconds, of FRONT's window draw.
// Bounds above the requested maximum window are clamped to it.
// Panics if sec <= 0.
func WithMinWindow(sec float64) BuilderOption {
	if !(sec > 0) || math.IsInf(sec, 0) {
		panic("builder: WithMinWindow(sec<=0)")
	}
	return func(c *builderConfig) {
		c.minWindow = sec
	}
}

// WithFixedWindow makes FRONT use the maximum window verbatim instead of a
// random draw; such builds need no Sampler.
func WithFixedWindow() BuilderOption {
	return func(c *builderConfig) {
		c.fixedWindow = true
	}
}

// WithComposedPipelines makes PipelinedFront emit one machine whose start
// state fans out to all pipelines, instead of one machine per pipeline.
func WithComposedPipelines() BuilderOption {
	return func(c *builderConfig) {
		c.composed = true
	}
}

// WithParallelism bounds concurrent pipeline builds. Panics if n < 1.
func WithParallelism(n int) BuilderOption {
	if n < 1 {
		panic("builder: WithParallelism(n<1)")
	}
	return func(c *builderConfig) {
		c.parallelism = n
	}
}

// WithLogger routes debug output of constructors. Panics on nil.
func WithLogger(l *slog.Logger) BuilderOption {
	if l == nil {
		panic("builder: WithLogger(nil)")
	}
	return func(c *builderConfig) {
		c.logger = l
	}
}
