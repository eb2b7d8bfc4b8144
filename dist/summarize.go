// SPDX-License-Identifier: MIT
// Package: wfpad/dist

package dist

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrNoSamples is returned by Summarize for an empty sample set.
var ErrNoSamples = errors.New("dist: no samples")

// zeroSpread is the standard deviation below which samples count as constant.
const zeroSpread = 1e-12

// Summarize fits observed non-negative values (e.g. inter-cell gaps in µs)
// with a moment-matched Normal clipped to [0, max observed]. A single sample
// or a zero spread yields Constant(mean).
// Complexity: O(n).
func Summarize(samples []float64) (Dist, error) {
	if len(samples) == 0 {
		return Dist{}, ErrNoSamples
	}

	var hi float64
	for i, v := range samples {
		if !finiteNonNegative(v) {
			return Dist{}, fmt.Errorf("Summarize: sample %d = %g: %w", i, v, ErrDegenerate)
		}
		hi = math.Max(hi, v)
	}
	if len(samples) == 1 {
		return Constant(samples[0]), nil
	}

	mean, stdev := stat.MeanStdDev(samples, nil)
	if stdev < zeroSpread {
		return Constant(mean), nil
	}

	return Normal(mean, stdev, 0, hi), nil
}
