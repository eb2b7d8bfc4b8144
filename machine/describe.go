// SPDX-License-Identifier: MIT
// Package: wfpad/machine
//
// describe.go - human and tooling oriented renderings of a Defense.
//
// Formats:
//   • compact: one "<machine name> <compact string>" line per machine.
//   • yaml / json: the full structure with labels, IDs and provenance, plus
//     the padding budget of every state whose limit is a finite Uniform.

package machine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/wfpad/dist"
)

// Format selects a Describe rendering.
type Format string

const (
	FormatCompact Format = "compact"
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
)

// ParseFormat resolves a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCompact, FormatYAML, FormatJSON:
		return f, nil
	case "maybenot", "":
		return FormatCompact, nil
	}

	return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
}

type defenseDoc struct {
	Family   string       `json:"family" yaml:"family"`
	Name     string       `json:"name,omitempty" yaml:"name,omitempty"`
	Params   Provenance   `json:"params,omitempty" yaml:"params,omitempty"`
	Machines []machineDoc `json:"machines" yaml:"machines"`
}

type machineDoc struct {
	Name                   string     `json:"name" yaml:"name"`
	ID                     string     `json:"id" yaml:"id"`
	Encoded                string     `json:"encoded" yaml:"encoded"`
	AllowedPaddingPackets  uint64     `json:"allowed_padding_packets" yaml:"allowed_padding_packets"`
	MaxPaddingFrac         float64    `json:"max_padding_frac" yaml:"max_padding_frac"`
	AllowedBlockedMicrosec uint64     `json:"allowed_blocked_microsec" yaml:"allowed_blocked_microsec"`
	MaxBlockingFrac        float64    `json:"max_blocking_frac" yaml:"max_blocking_frac"`
	Provenance             Provenance `json:"provenance,omitempty" yaml:"provenance,omitempty"`
	States                 []stateDoc `json:"states" yaml:"states"`
}

type stateDoc struct {
	Index                   int             `json:"index" yaml:"index"`
	Label                   string          `json:"label" yaml:"label"`
	Action                  *dist.Dist      `json:"action,omitempty" yaml:"action,omitempty"`
	Limit                   *dist.Dist      `json:"limit,omitempty" yaml:"limit,omitempty"`
	Budget                  *uint64         `json:"budget,omitempty" yaml:"budget,omitempty"`
	Timeout                 *dist.Dist      `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	ActionIsBlock           bool            `json:"action_is_block,omitempty" yaml:"action_is_block,omitempty"`
	Bypass                  bool            `json:"bypass,omitempty" yaml:"bypass,omitempty"`
	Replace                 bool            `json:"replace,omitempty" yaml:"replace,omitempty"`
	LimitIncludesNonpadding bool            `json:"limit_includes_nonpadding,omitempty" yaml:"limit_includes_nonpadding,omitempty"`
	Transitions             []transitionDoc `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

type transitionDoc struct {
	Event       Event   `json:"event" yaml:"event"`
	Target      string  `json:"target" yaml:"target"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// Describe writes d to w in the requested format.
func Describe(w io.Writer, d *Defense, f Format) error {
	if f == FormatCompact {
		for _, m := range d.Machines {
			enc, err := Encode(m)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s %s\n", m.Name, enc); err != nil {
				return err
			}
		}
		return nil
	}

	doc, err := newDefenseDoc(d)
	if err != nil {
		return err
	}
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("Describe(yaml): %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("Describe(json): %w", err)
		}
		return nil
	}

	return fmt.Errorf("Describe(%q): %w", f, ErrUnknownFormat)
}

func newDefenseDoc(d *Defense) (defenseDoc, error) {
	doc := defenseDoc{Family: d.Family, Name: d.Name, Params: d.Params}
	for _, m := range d.Machines {
		enc, err := Encode(m)
		if err != nil {
			return defenseDoc{}, err
		}
		md := machineDoc{
			Name:                   m.Name,
			ID:                     m.ID().String(),
			Encoded:                enc,
			AllowedPaddingPackets:  m.AllowedPaddingPackets,
			MaxPaddingFrac:         m.MaxPaddingFrac,
			AllowedBlockedMicrosec: m.AllowedBlockedMicrosec,
			MaxBlockingFrac:        m.MaxBlockingFrac,
			Provenance:             m.Provenance,
			States:                 make([]stateDoc, len(m.States)),
		}
		for i, s := range m.States {
			sd := stateDoc{
				Index:                   i,
				Label:                   s.Label,
				Action:                  optional(s.Action),
				Limit:                   optional(s.Limit),
				Timeout:                 optional(s.Timeout),
				ActionIsBlock:           s.ActionIsBlock,
				Bypass:                  s.Bypass,
				Replace:                 s.Replace,
				LimitIncludesNonpadding: s.LimitIncludesNonpadding,
			}
			for _, t := range s.Transitions {
				sd.Transitions = append(sd.Transitions, transitionDoc{
					Event:       t.Event,
					Target:      m.TargetName(t.Target),
					Probability: t.Probability,
				})
			}
			if b, ok := s.Budget(); ok {
				sd.Budget = &b
			}
			md.States[i] = sd
		}
		doc.Machines = append(doc.Machines, md)
	}

	return doc, nil
}

func optional(d dist.Dist) *dist.Dist {
	if d.IsZero() {
		return nil
	}

	return &d
}
