// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// impl_surakav.go - implementation of Surakav(tr): replay a reference trace.
//
// Contract:
//   • tr must be non-nil with at least one burst (ErrInvalidParameter
//     wrapping trace.ErrEmptyTrace otherwise).
//   • Both machines: start (NonPaddingSent, NonPaddingRecv → block), block
//     (infinite block, BlockingBegin → burst/0), then burst/0..n-1.
//   • For a burst sent by side X, X's machine gets a sending state
//     (PaddingSent → self) and the peer a blocking receiving state
//     (PaddingRecv, NonPaddingRecv → self); both have Limit = burst cells.
//   • LimitReached → next burst; the last burst loops on itself.
//
// Complexity:
//   • Time: O(len(tr.Bursts) + Σ len(Gaps)). Space: O(len(tr.Bursts)).

package builder

import (
	"fmt"

	"github.com/katalvlaran/wfpad/dist"
	"github.com/katalvlaran/wfpad/machine"
	"github.com/katalvlaran/wfpad/trace"
)

const roleBurst = "burst"

// Surakav returns a Constructor for the Surakav client/relay pair.
func Surakav(tr *trace.Trace) Constructor {
	return func(cfg builderConfig) (*machine.Defense, error) {
		if tr == nil || len(tr.Bursts) == 0 {
			return nil, fmt.Errorf("%s: %w: %w", methodSurakav, ErrInvalidParameter, trace.ErrEmptyTrace)
		}

		client, relay, err := surakavDrafts(cfg, tr)
		if err != nil {
			return nil, err
		}

		out := make([]*machine.Machine, 0, 2)
		for _, d := range []*machine.Draft{client, relay} {
			m, err := machine.Assemble(d)
			if err != nil {
				return nil, fmt.Errorf("%s: %w: %w", methodSurakav, ErrConstructFailed, err)
			}
			out = append(out, m)
		}
		cfg.logger.Debug("surakav assembled",
			"source", tr.Source,
			"bursts", len(tr.Bursts),
			"truncated", tr.Truncated,
		)

		return &machine.Defense{
			Family:   FamilySurakav,
			Name:     FamilySurakav,
			Params:   surakavProvenance(tr),
			Machines: out,
		}, nil
	}
}

func surakavProvenance(tr *trace.Trace) machine.Provenance {
	return machine.Provenance{}.
		AddInt("bursts", len(tr.Bursts)).
		AddInt("cells", tr.CellCount()).
		Add("duration", tr.Duration())
}

func surakavDrafts(cfg builderConfig, tr *trace.Trace) (client, relay *machine.Draft, err error) {
	limits := regulatorLimits()
	client = machine.NewDraft(trace.Outgoing.Sender(), limits)
	relay = machine.NewDraft(trace.Incoming.Sender(), limits)

	labels, err := roleLabels(cfg, roleBurst, len(tr.Bursts))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", methodSurakav, err)
	}

	for _, d := range []*machine.Draft{client, relay} {
		d.Provenance = surakavProvenance(tr)
		d.AddState(labelStart, machine.StateSpec{})
		d.On(labelStart, machine.NonPaddingSent, labelBlock, 1)
		d.On(labelStart, machine.NonPaddingRecv, labelBlock, 1)
		d.AddState(labelBlock, blockSpec())
		d.On(labelBlock, machine.BlockingBegin, labels[0], 1)
	}

	for i, b := range tr.Bursts {
		if b.Cells < 1 {
			return nil, nil, fmt.Errorf("%s: burst %d has %d cells: %w", methodSurakav, i, b.Cells, ErrInvalidParameter)
		}
		timeout, err := surakavTimeout(b)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: burst %d: %w: %w", methodSurakav, i, ErrInvalidParameter, err)
		}

		sender, receiver := client, relay
		if b.Dir == trace.Incoming {
			sender, receiver = relay, client
		}
		label, next := labels[i], labels[i]
		if i < len(labels)-1 {
			next = labels[i+1]
		}
		limit := dist.Constant(float64(b.Cells))

		sender.AddState(label, machine.StateSpec{
			Action:  dist.Constant(cfg.cellSize),
			Limit:   limit,
			Timeout: timeout,
			Bypass:  true,
			Replace: true,
		})
		sender.On(label, machine.PaddingSent, label, 1)
		sender.On(label, machine.LimitReached, next, 1)

		spec := blockSpec()
		spec.Limit = limit
		receiver.AddState(label, spec)
		receiver.On(label, machine.NonPaddingRecv, label, 1)
		receiver.On(label, machine.PaddingRecv, label, 1)
		receiver.On(label, machine.LimitReached, next, 1)
	}

	return client, relay, nil
}

// surakavTimeout fits a timed burst's gaps; burst-count traces and
// single-cell bursts use the fixed send delay.
func surakavTimeout(b trace.Burst) (dist.Dist, error) {
	if len(b.Gaps) == 0 {
		return dist.Constant(surakavSendTimeout), nil
	}

	return dist.Summarize(b.Gaps)
}
