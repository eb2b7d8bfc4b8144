// SPDX-License-Identifier: MIT
// Package: wfpad/dist

package dist

import (
	"encoding/json"
	"math"
	"strconv"
)

// number renders ±Inf as the JSON strings "+Inf"/"-Inf"; JSON has no
// infinity literal and blocking states carry one.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}

	return json.Marshal(v)
}

func (n *number) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = number(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = number(v)

	return nil
}

type jsonDist struct {
	Kind   Kind   `json:"kind"`
	Param1 number `json:"param1"`
	Param2 number `json:"param2"`
	Start  number `json:"start,omitempty"`
	Max    number `json:"max,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d Dist) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDist{
		Kind:   d.Kind,
		Param1: number(d.Param1),
		Param2: number(d.Param2),
		Start:  number(d.Start),
		Max:    number(d.Max),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dist) UnmarshalJSON(b []byte) error {
	var j jsonDist
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*d = Dist{
		Kind:   j.Kind,
		Param1: float64(j.Param1),
		Param2: float64(j.Param2),
		Start:  float64(j.Start),
		Max:    float64(j.Max),
	}

	return nil
}
