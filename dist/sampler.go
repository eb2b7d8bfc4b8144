// SPDX-License-Identifier: MIT
// Package: wfpad/dist
//
// sampler.go - seeded random streams for builders.
//
// Concurrency:
//   - A Sampler wraps one math/rand/v2 PCG stream and is NOT goroutine-safe.
//   - Dist.Sample draws through gonum's distuv with the same stream.
//   - Use Derive to hand each parallel unit its own stream; derive all
//     children before starting goroutines so the result does not depend on
//     scheduling.

package dist

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
)

// pcgIncrement is the fixed second word of every stream's PCG state.
const pcgIncrement = 0xda3e39cb94b95bdb

// Sampler is a deterministic random stream.
type Sampler struct {
	rng  *rand.Rand
	seed int64
}

// NewSampler returns a stream fully determined by seed.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(uint64(seed), pcgIncrement)), seed: seed}
}

// NewRandomSampler seeds a stream from the operating system. Call it once
// at process start; the chosen seed is available through Seed for logging.
func NewRandomSampler() (*Sampler, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("dist: seed from crypto/rand: %w", err)
	}

	return NewSampler(int64(binary.LittleEndian.Uint64(b[:]))), nil
}

// Seed returns the seed the stream was created with.
func (s *Sampler) Seed() int64 { return s.seed }

// Derive returns an independent child stream. One parent draw is consumed,
// so deriving the same stream id twice yields different children.
// Complexity: O(1).
func (s *Sampler) Derive(stream uint64) *Sampler {
	return NewSampler(deriveSeed(s.rng.Uint64(), stream))
}

// Uniform returns a value in [lo, hi); lo when the interval is empty.
func (s *Sampler) Uniform(lo, hi float64) float64 {
	if hi <= lo || math.IsInf(lo, 0) {
		return lo
	}

	return lo + s.rng.Float64()*(hi-lo)
}

// source exposes the stream to gonum's distributions.
func (s *Sampler) source() rand.Source { return s.rng }

// deriveSeed is a SplitMix64 finalizer over (parent, stream).
func deriveSeed(parent, stream uint64) int64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}
