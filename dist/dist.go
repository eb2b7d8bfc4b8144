// SPDX-License-Identifier: MIT
// Package: wfpad/dist
//
// dist.go - the Dist value, its validation and one-draw sampling.
//
// Contract:
//   • A zero Dist (KindNone) is "unset" and always valid.
//   • Validate rejects NaN, negative or degenerate parameters with ErrDegenerate.
//   • Sample returns max(0, draw) + Start, clamped to Max when Max > 0.
//   • Uniform is the only kind allowed to carry +Inf (infinite block duration).

package dist

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDegenerate indicates a distribution whose parameters cannot produce a
// meaningful sample (zero variance normal, negative scale, NaN, ...).
var ErrDegenerate = errors.New("dist: degenerate distribution")

// SkewNormalShape is the fixed shape (alpha) of KindSkewNormal.
const SkewNormalShape = 1.0

// Dist is one parameterized distribution attached to a machine state.
type Dist struct {
	Kind   Kind    `json:"kind" yaml:"kind"`
	Param1 float64 `json:"param1" yaml:"param1"`
	Param2 float64 `json:"param2" yaml:"param2"`
	Start  float64 `json:"start,omitempty" yaml:"start,omitempty"`
	Max    float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Constant returns Uniform{v, v}.
func Constant(v float64) Dist {
	return Dist{Kind: KindUniform, Param1: v, Param2: v}
}

// Infinite returns a constant +Inf draw, used for open-ended blocking.
func Infinite() Dist {
	return Constant(math.Inf(1))
}

// Uniform returns Uniform{lo, hi}.
func Uniform(lo, hi float64) Dist {
	return Dist{Kind: KindUniform, Param1: lo, Param2: hi}
}

// Normal returns Normal{mean, stdev} clamped to [start, max].
func Normal(mean, stdev, start, max float64) Dist {
	return Dist{Kind: KindNormal, Param1: mean, Param2: stdev, Start: start, Max: max}
}

// IsZero reports whether d is unset.
func (d Dist) IsZero() bool { return d.Kind == KindNone }

// String renders a compact human form, e.g. "Normal(1.5, 0.2) [0, 3]".
func (d Dist) String() string {
	if d.IsZero() {
		return "None"
	}
	s := fmt.Sprintf("%s(%g, %g)", d.Kind, d.Param1, d.Param2)
	if d.Start != 0 || d.Max != 0 {
		s += fmt.Sprintf(" [%g, %g]", d.Start, d.Max)
	}

	return s
}

// Validate checks the parameter domain of d's kind.
// Complexity: O(1).
func (d Dist) Validate() error {
	if !d.Kind.Valid() {
		return fmt.Errorf("%s: %w", d.Kind, ErrDegenerate)
	}
	if d.IsZero() {
		return nil
	}
	if !finiteNonNegative(d.Start) || !finiteNonNegative(d.Max) {
		return fmt.Errorf("%s: start=%g max=%g must be finite and ≥ 0: %w", d.Kind, d.Start, d.Max, ErrDegenerate)
	}

	p1, p2 := d.Param1, d.Param2
	var bad string
	switch d.Kind {
	case KindUniform:
		switch {
		case math.IsNaN(p1) || math.IsNaN(p2):
			bad = "NaN bound"
		case p1 < 0:
			bad = "negative low bound"
		case p1 > p2:
			bad = "low > high"
		}
	case KindNormal, KindSkewNormal, KindLogNormal:
		if !finite(p1) || !finite(p2) || p2 <= 0 {
			bad = "spread must be finite and > 0"
		}
	case KindBinomial:
		if !finite(p1) || p1 < 1 || p1 != math.Trunc(p1) || !(p2 >= 0 && p2 <= 1) {
			bad = "need integer trials ≥ 1 and p in [0,1]"
		}
	case KindGeometric:
		if !(p1 > 0 && p1 <= 1) {
			bad = "p must be in (0,1]"
		}
	case KindPoisson:
		if !finite(p1) || p1 <= 0 {
			bad = "lambda must be finite and > 0"
		}
	case KindPareto, KindWeibull, KindGamma, KindBeta:
		if !finite(p1) || !finite(p2) || p1 <= 0 || p2 <= 0 {
			bad = "both parameters must be finite and > 0"
		}
	}
	if bad != "" {
		return fmt.Errorf("%s(%g, %g): %s: %w", d.Kind, p1, p2, bad, ErrDegenerate)
	}

	return nil
}

// Sample draws one value from d using s. Unset distributions yield 0.
// d must have passed Validate.
func (d Dist) Sample(s *Sampler) float64 {
	if d.IsZero() {
		return 0
	}
	v := math.Max(0, d.draw(s)) + d.Start
	if d.Max > 0 {
		v = math.Min(v, d.Max)
	}

	return v
}

func (d Dist) draw(s *Sampler) float64 {
	p1, p2, src := d.Param1, d.Param2, s.source()
	switch d.Kind {
	case KindUniform:
		return s.Uniform(p1, p2)
	case KindNormal:
		return distuv.Normal{Mu: p1, Sigma: p2, Src: src}.Rand()
	case KindSkewNormal:
		return p1 + p2*skewNormal(src)
	case KindLogNormal:
		return distuv.LogNormal{Mu: p1, Sigma: p2, Src: src}.Rand()
	case KindBinomial:
		return distuv.Binomial{N: p1, P: p2, Src: src}.Rand()
	case KindGeometric:
		if p1 == 1 {
			return 0
		}
		// Failures before the first success: ⌊Exp(−ln(1−p))⌋.
		return math.Floor(distuv.Exponential{Rate: -math.Log1p(-p1), Src: src}.Rand())
	case KindPareto:
		return distuv.Pareto{Xm: p1, Alpha: p2, Src: src}.Rand()
	case KindPoisson:
		return distuv.Poisson{Lambda: p1, Src: src}.Rand()
	case KindWeibull:
		return distuv.Weibull{Lambda: p1, K: p2, Src: src}.Rand()
	case KindGamma:
		return distuv.Gamma{Alpha: p1, Beta: 1 / p2, Src: src}.Rand()
	case KindBeta:
		return distuv.Beta{Alpha: p1, Beta: p2, Src: src}.Rand()
	}

	return 0
}

// skewNormal draws a standard skew-normal with shape SkewNormalShape from
// two independent unit normals (Azzalini).
func skewNormal(src rand.Source) float64 {
	unit := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	u0, v := unit.Rand(), unit.Rand()
	delta := SkewNormalShape / math.Sqrt(1+SkewNormalShape*SkewNormalShape)
	u1 := delta*u0 + math.Sqrt(1-delta*delta)*v
	if u0 < 0 {
		return -u1
	}

	return u1
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func finiteNonNegative(v float64) bool { return finite(v) && v >= 0 }
