// SPDX-License-Identifier: MIT
// Package: wfpad/machine
//
// machine.go - Machine, Defense and provenance records.

package machine

import "strconv"

// Limits are the machine-wide padding and blocking budgets enforced by the
// framework. Zero values mean "framework default".
type Limits struct {
	AllowedPaddingPackets  uint64
	MaxPaddingFrac         float64
	AllowedBlockedMicrosec uint64
	MaxBlockingFrac        float64
}

// Param is one named input recorded for provenance.
type Param struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// Provenance lists the inputs a machine was built from, in build order.
type Provenance []Param

// Add appends a parameter and returns the extended list.
func (p Provenance) Add(name string, v float64) Provenance {
	return append(p, Param{Name: name, Value: v})
}

// AddInt appends an integer parameter.
func (p Provenance) AddInt(name string, v int) Provenance {
	return p.Add(name, float64(v))
}

// Get returns the value recorded under name.
func (p Provenance) Get(name string) (float64, bool) {
	for _, kv := range p {
		if kv.Name == name {
			return kv.Value, true
		}
	}

	return 0, false
}

// Machine is an assembled, immutable padding machine. State 0 is the start
// state. Only Limits and States reach the compact wire form.
type Machine struct {
	Name string
	Limits
	States     []State
	Provenance Provenance
}

// Len returns the number of states.
func (m *Machine) Len() int { return len(m.States) }

// Defense is the set of machines one family emits for one parameter set,
// e.g. a relay/client pair or one machine per pipeline.
type Defense struct {
	Family   string
	Name     string
	Params   Provenance
	Machines []*Machine
}

// Machine returns the machine called name, or nil.
func (d *Defense) Machine(name string) *Machine {
	for _, m := range d.Machines {
		if m.Name == name {
			return m
		}
	}

	return nil
}

// PipelineName is the machine name used for pipeline i.
func PipelineName(i int) string { return "pipeline/" + strconv.Itoa(i) }
