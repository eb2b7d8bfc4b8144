// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// impl_regulator.go - implementation of Regulator(p): the relay/client pair.
//
// Relay contract:
//   • start: NonPaddingSent → block.
//   • block: infinite block action; BlockingBegin → boot/0.
//   • boot/0..8: one cell every 100 ms; NonPaddingSent → next boot, the last → send/0.
//   • send/i: one cell every 1e6/rate_i µs, cells_per_state cells, then
//     LimitReached → send/i+1. The last loops on itself at the floor rate.
//     For i > 0, NonPaddingSent restarts the surge at send/0 with
//     probability min(1, 2/(T·rate_i)).
//
// Client contract:
//   • ⌊U⌋ count states then one send state. Each count state blocks with a
//     limit of 2 and advances on PaddingRecv/NonPaddingRecv; the last
//     advances with probability 1 − frac(U) and otherwise stays.
//   • send emits one cell immediately and returns to the first state.
//
// Complexity:
//   • Time: O(len(rates) · solverIterations + ⌊U⌋). Space: O(len(rates) + ⌊U⌋).

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/wfpad/dist"
	"github.com/katalvlaran/wfpad/machine"
)

const (
	roleBoot  = "boot"
	roleSend  = "send"
	roleCount = "count"

	// Machine names of two-sided families.
	nameRelay  = "relay"
	nameClient = "client"

	// clientCountLimit is how many blocking actions a count state allows.
	clientCountLimit = 2
)

// RegulatorRates returns the sending rate of every relay SEND state, in
// packets per second. The sequence is non-increasing and its final value
// is RegulatorFloorRate. Its length depends only on (InitialRate, Decay,
// CellsPerState).
// Complexity: O(len(result) · solverIterations).
func RegulatorRates(p RegulatorParams) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cells := float64(p.CellsPerState)

	var (
		rates []float64
		a     float64
	)
	for {
		width := dist.DecayIntervalWidth(a, cells, p.InitialRate, p.Decay)
		rate := dist.DecayRate(a+width/2, p.InitialRate, p.Decay)
		if math.IsInf(width, 1) || rate < RegulatorFloorRate {
			return append(rates, RegulatorFloorRate), nil
		}
		rates = append(rates, rate)
		if len(rates) >= MaxRegulatorStates {
			return nil, fmt.Errorf("%s: more than %d send states: %w", methodRegulator, MaxRegulatorStates, ErrConstructFailed)
		}
		a += width
	}
}

// Regulator returns a Constructor for the RegulaTor relay/client pair.
func Regulator(p RegulatorParams) Constructor {
	return func(cfg builderConfig) (*machine.Defense, error) {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		rates, err := RegulatorRates(p)
		if err != nil {
			return nil, err
		}
		if p.UploadRatio >= MaxRegulatorStates {
			return nil, fmt.Errorf("%s: upload_ratio=%g needs more than %d states: %w",
				methodRegulator, p.UploadRatio, MaxRegulatorStates, ErrConstructFailed)
		}

		relayDraft, err := regulatorRelay(cfg, p, rates)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", methodRegulator, err)
		}
		clientDraft, err := regulatorClient(cfg, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", methodRegulator, err)
		}
		relay, err := machine.Assemble(relayDraft)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", methodRegulator, ErrConstructFailed, err)
		}
		client, err := machine.Assemble(clientDraft)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", methodRegulator, ErrConstructFailed, err)
		}
		cfg.logger.Debug("regulator assembled",
			"send_states", len(rates),
			"relay_states", relay.Len(),
			"client_states", client.Len(),
		)

		return &machine.Defense{
			Family:   FamilyRegulator,
			Name:     FamilyRegulator,
			Params:   p.provenance(),
			Machines: []*machine.Machine{relay, client},
		}, nil
	}
}

func regulatorLimits() machine.Limits {
	return machine.Limits{AllowedPaddingPackets: unlimited, AllowedBlockedMicrosec: unlimited}
}

func regulatorRelay(cfg builderConfig, p RegulatorParams, rates []float64) (*machine.Draft, error) {
	d := machine.NewDraft(nameRelay, regulatorLimits())
	d.Provenance = p.provenance().AddInt("send_states", len(rates))

	boot, err := roleLabels(cfg, roleBoot, regulatorBootStates)
	if err != nil {
		return nil, err
	}
	send, err := roleLabels(cfg, roleSend, len(rates))
	if err != nil {
		return nil, err
	}

	d.AddState(labelStart, machine.StateSpec{})
	d.On(labelStart, machine.NonPaddingSent, labelBlock, 1)

	d.AddState(labelBlock, blockSpec())
	d.On(labelBlock, machine.BlockingBegin, boot[0], 1)

	for i, label := range boot {
		d.AddState(label, machine.StateSpec{
			Action:  dist.Constant(cfg.cellSize),
			Timeout: dist.Constant(regulatorBootTimeout),
			Bypass:  true,
			Replace: true,
		})
		next := send[0]
		if i < len(boot)-1 {
			next = boot[i+1]
		}
		d.On(label, machine.PaddingSent, label, 1)
		d.On(label, machine.NonPaddingSent, next, 1)
	}

	for i, label := range send {
		rate := rates[i]
		d.AddState(label, machine.StateSpec{
			Action:  dist.Constant(cfg.cellSize),
			Limit:   dist.Constant(float64(p.CellsPerState)),
			Timeout: dist.Constant(microsPerSecond / rate),
			Bypass:  true,
			Replace: true,
		})
		next := label
		if i < len(send)-1 {
			next = send[i+1]
		}
		d.On(label, machine.PaddingSent, label, 1)
		d.On(label, machine.LimitReached, next, 1)
		if i > 0 {
			surge := math.Min(1, 2/(p.Threshold*rate))
			d.On(label, machine.NonPaddingSent, send[0], surge)
			d.On(label, machine.NonPaddingSent, machine.Nop, 1-surge)
		}
	}

	return d, nil
}

func regulatorClient(cfg builderConfig, p RegulatorParams) (*machine.Draft, error) {
	d := machine.NewDraft(nameClient, regulatorLimits())
	d.Provenance = p.provenance()

	whole, frac := math.Modf(p.UploadRatio)
	count, err := roleLabels(cfg, roleCount, int(whole))
	if err != nil {
		return nil, err
	}
	sendLabels, err := roleLabels(cfg, roleSend, 1)
	if err != nil {
		return nil, err
	}
	send := sendLabels[0]
	first := send
	if len(count) > 0 {
		first = count[0]
	}

	for i, label := range count {
		spec := blockSpec()
		spec.Limit = dist.Constant(clientCountLimit)
		d.AddState(label, spec)

		next := send
		if i < len(count)-1 {
			next = count[i+1]
		}
		prob := 1.0
		if i == len(count)-1 {
			prob = 1 - frac
		}
		for _, ev := range []machine.Event{machine.PaddingRecv, machine.NonPaddingRecv} {
			d.On(label, ev, next, prob)
			if prob < 1 {
				d.On(label, ev, label, 1-prob)
			}
		}
		if prob < 1 {
			d.On(label, machine.LimitReached, next, 1)
		}
	}

	d.AddState(send, machine.StateSpec{
		Action:  dist.Constant(cfg.cellSize),
		Timeout: dist.Constant(0),
		Bypass:  true,
		Replace: true,
	})
	d.On(send, machine.PaddingSent, first, 1)

	return d, nil
}

// blockSpec is an immediate, open-ended block of outgoing traffic.
func blockSpec() machine.StateSpec {
	return machine.StateSpec{
		Action:        dist.Infinite(),
		Timeout:       dist.Constant(0),
		ActionIsBlock: true,
		Bypass:        true,
		Replace:       true,
	}
}
