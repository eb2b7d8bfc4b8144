// Package builder turns a handful of defense parameters (or a reference
// trace) into assembled padding machines. It lives between dist, which
// supplies the curves and distributions, and machine, which assembles and
// emits what the builders draft.
//
// The package offers the following key components:
//
//   - Orchestration:
//     – Build(cons, opts...):  resolve options, run one Constructor.
//     – Constructor:           func(builderConfig) (*machine.Defense, error).
//   - Families (impl_*.go):
//     – Front(FrontParams):                   one FRONT machine.
//     – PipelinedFront(PipelinedFrontParams): k independent FRONT machines.
//     – Regulator(RegulatorParams):           RegulaTor relay + client.
//     – Surakav(*trace.Trace):                client + relay replaying a trace.
//   - Schedule helpers, exported for inspection and tests:
//     – FrontBudgets(n, k):    remainder goes to the earliest states.
//     – FrontSchedule(w, k):   Rayleigh interval and remaining window per state.
//     – ComposedBudgets(n, k, p): graded chain budgets of composed pipelines.
//     – RegulatorRates(p):     midpoint rate of every relay SEND state.
//   - Configuration primitives:
//     – BuilderOption:  WithSeed, WithSampler, WithLabelScheme, WithCellSize,
//     WithMinWindow, WithFixedWindow, WithComposedPipelines,
//     WithParallelism, WithLogger.
//     – LabelFn:        DefaultLabelFn ("send/3"), UpperLabelFn ("SEND_3").
//
// Errors:
//
//	ErrInvalidParameter  - a parameter set failed Validate.
//	ErrNeedRandSource    - a stochastic build got no Sampler.
//	ErrConstructFailed   - assembly rejected the draft, or a guard tripped.
//	ErrOptionViolation   - options are mutually inconsistent.
//
// Determinism: for equal parameters, options and seed the emitted machines
// are identical byte for byte, including Pipelined FRONT built in parallel.
//
// Example:
//
//	def, err := builder.Build(
//		builder.Front(builder.FrontParams{Window: 14, Budget: 1700, States: 4}),
//		builder.WithSeed(7),
//	)
package builder
