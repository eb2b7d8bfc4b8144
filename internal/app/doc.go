// Package app wires parameter sets, the random source, the builders and
// the emitter into one run. It owns process-level concerns (logging,
// output files, the root Sampler) so that the library packages stay free
// of them.
package app
