// SPDX-License-Identifier: MIT
// Package: wfpad/dist
//
// kind.go - the closed set of distribution families a machine may carry.
//
// The numeric values are part of the compact wire format; never renumber.

package dist

import (
	"fmt"
	"strings"
)

// Kind names a distribution family.
type Kind uint8

const (
	// KindNone marks an unset distribution (no action, no limit, no timer).
	KindNone Kind = iota
	// KindUniform: Param1 = low, Param2 = high.
	KindUniform
	// KindNormal: Param1 = mean, Param2 = standard deviation.
	KindNormal
	// KindSkewNormal: Param1 = location, Param2 = scale, shape SkewNormalShape.
	KindSkewNormal
	// KindLogNormal: Param1 = mu, Param2 = sigma of the underlying normal.
	KindLogNormal
	// KindBinomial: Param1 = trials, Param2 = success probability.
	KindBinomial
	// KindGeometric: Param1 = success probability.
	KindGeometric
	// KindPareto: Param1 = scale, Param2 = shape.
	KindPareto
	// KindPoisson: Param1 = lambda.
	KindPoisson
	// KindWeibull: Param1 = scale, Param2 = shape.
	KindWeibull
	// KindGamma: Param1 = shape, Param2 = scale.
	KindGamma
	// KindBeta: Param1 = alpha, Param2 = beta.
	KindBeta

	kindSentinel
)

var kindNames = [...]string{
	KindNone:       "None",
	KindUniform:    "Uniform",
	KindNormal:     "Normal",
	KindSkewNormal: "SkewNormal",
	KindLogNormal:  "LogNormal",
	KindBinomial:   "Binomial",
	KindGeometric:  "Geometric",
	KindPareto:     "Pareto",
	KindPoisson:    "Poisson",
	KindWeibull:    "Weibull",
	KindGamma:      "Gamma",
	KindBeta:       "Beta",
}

// Valid reports whether k is a known kind (KindNone included).
func (k Kind) Valid() bool { return k < kindSentinel }

// String returns the family name, or "Kind(<n>)" for unknown values.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}

	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler (YAML/JSON descriptions).
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("dist: unknown kind %d", uint8(k))
	}

	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler; matching is
// case-insensitive.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed

	return nil
}

// ParseKind resolves a family name such as "normal" or "Uniform".
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(i), nil
		}
	}

	return KindNone, fmt.Errorf("dist: unknown kind %q", name)
}
