// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// api.go - thin public entry-points for the builder package.
//
// Design contract (strict):
//   - One orchestrator: Build(cons, opts...). Resolves cfg, runs cons once.
//   - All public factories are declared here, implemented in impl_*.go.
//   - Functional options (BuilderOption) resolve into an immutable builderConfig (no global state).
//   - Determinism: same params, options and seed ⇒ identical machines, byte for byte.
//   - Safety: never panic at runtime; return sentinel errors from constructors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/wfpad/machine"
)

// Constructor produces a Defense from the resolved builderConfig.
// Constructors MUST:
//   - Validate parameters before any work and return sentinel errors.
//   - Draw randomness only from cfg.sampler.
//   - Hand every Draft to machine.Assemble; no hand-built Machines.
//
// Complexity (this type): O(1) to pass; actual cost is in the closure body.
type Constructor func(cfg builderConfig) (*machine.Defense, error)

// Build resolves the builder configuration from opts and runs cons.
// Constructor errors are wrapped with "Build: %w"; no partial Defense is
// ever returned.
//
// Complexity:
//   - Resolving options: O(len(opts)).
//   - Running cons: see the family's impl_*.go.
func Build(cons Constructor, opts ...BuilderOption) (*machine.Defense, error) {
	if cons == nil {
		return nil, fmt.Errorf("%s: nil constructor: %w", methodBuild, ErrConstructFailed)
	}
	cfg := newBuilderConfig(opts...)

	def, err := cons(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuild, err)
	}
	cfg.logger.Debug("defense built",
		"family", def.Family,
		"machines", len(def.Machines),
	)

	return def, nil
}

// =============================================================================
// Family factories (declarations) - implemented in impl_*.go
// =============================================================================
//
// Each factory returns a Constructor closure. The closure MUST:
//   - Label states via cfg.labelFn (except the fixed "start"/"block").
//   - Add states and transitions in a stable, documented order.
//   - Return only sentinel errors; NEVER panic at runtime.

// Front builds one FRONT machine: a Rayleigh-shaped burst of padding over a
// window drawn from [minWindow, p.Window].
// Complexity: O(p.States · solver) time, O(p.States) space.
//func Front(p FrontParams) Constructor

// PipelinedFront builds p.Pipelines independent FRONT machines, concurrently.
// Complexity: O(p.Pipelines · p.States · solver); parallelism bounded by cfg.
//func PipelinedFront(p PipelinedFrontParams) Constructor

// Regulator builds the RegulaTor relay/client pair.
// Complexity: O(len(RegulatorRates(p)) + ⌊p.UploadRatio⌋).
//func Regulator(p RegulatorParams) Constructor

// Surakav builds the client/relay pair that replays a reference trace.
// Complexity: O(len(tr.Bursts)).
//func Surakav(tr *trace.Trace) Constructor
