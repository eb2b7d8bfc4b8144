// SPDX-License-Identifier: MIT
// Package: wfpad/dist
//
// curves.go - closed-form curves the builders carve into states.
//
// Rayleigh (FRONT): padding density over time, CDF 1 - exp(-t²/2σ²).
// Exponential decay (RegulaTor): sending rate R·D^t.
//
// Both interval solvers are pure and deterministic.

package dist

import "math"

// RayleighCoverage is the CDF mass covered by the FRONT schedule; time past
// RayleighMaxT is ignored.
const RayleighCoverage = 0.9996645373720975

// solverIterations bounds every bisection below.
const solverIterations = 200

// RayleighCDF returns P(T ≤ t) for a Rayleigh variable with the given scale.
func RayleighCDF(t, scale float64) float64 {
	return 1 - math.Exp(-(t*t)/(2*scale*scale))
}

// RayleighMaxT returns the time at which the CDF reaches RayleighCoverage.
func RayleighMaxT(scale float64) float64 {
	return math.Sqrt(-2 * scale * scale * math.Log(1-RayleighCoverage))
}

// RayleighIntervalWidth returns the width w such that the CDF mass in
// [a, a+w] equals area, capped so that a+w ≤ maxT.
// Complexity: O(solverIterations).
func RayleighIntervalWidth(a, area, maxT, scale float64) float64 {
	base := RayleighCDF(a, scale)
	if RayleighCDF(maxT, scale)-base <= area {
		return maxT - a
	}

	lo, hi := a, maxT
	for i := 0; i < solverIterations; i++ {
		mid := lo + (hi-lo)/2
		got := RayleighCDF(mid, scale) - base
		if math.Abs(got-area) <= 1e-15 {
			return mid - a
		}
		if got < area {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo + (hi-lo)/2 - a
}

// DecayRate returns r·d^t.
func DecayRate(t, r, d float64) float64 {
	return r * math.Pow(d, t)
}

// DecayIntervalWidth returns the smallest width w such that an interval
// starting at a, sending at its midpoint rate, emits count packets:
//
//	DecayRate(a + w/2, r, d) · w = count
//
// It returns +Inf when the decayed rate can never emit count more packets.
// Requires r > 0, 0 < d < 1 and count > 0.
// Complexity: O(solverIterations).
func DecayIntervalWidth(a, count, r, d float64) float64 {
	emitted := func(w float64) float64 { return DecayRate(a+w/2, r, d) * w }

	// w·d^(w/2) peaks at w* = -2/ln d.
	peak := -2 / math.Log(d)
	if emitted(peak) < count {
		return math.Inf(1)
	}

	lo, hi := 0.0, peak
	for i := 0; i < solverIterations; i++ {
		mid := lo + (hi-lo)/2
		got := emitted(mid)
		if math.Abs(got-count) <= 1e-9*count {
			return mid
		}
		if got < count {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo + (hi-lo)/2
}
