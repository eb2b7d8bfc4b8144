// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// params.go - parameter sets of each family and their validation.
//
// Contract:
//   • Validate is the first thing every Constructor does.
//   • Failures wrap ErrInvalidParameter and name the family and field.
//   • provenance() records the inputs in a stable order for descriptions.

package builder

import (
	"fmt"

	"github.com/katalvlaran/wfpad/machine"
)

// FrontParams configures FRONT.
type FrontParams struct {
	// Window is the maximum padding window Wmax, in seconds.
	Window float64
	// Budget is the total padding cells N across all states.
	Budget int
	// States is the number of padding states k.
	States int
}

// Validate checks the FRONT parameter domain.
func (p FrontParams) Validate() error {
	if err := validatePositive(methodFront, "window", p.Window); err != nil {
		return err
	}
	if err := validateRange(methodFront, "window", p.Window, MinFrontWindow, MaxFrontWindow); err != nil {
		return err
	}
	if err := validateMin(methodFront, "budget", p.Budget, 1); err != nil {
		return err
	}
	if err := validateMin(methodFront, "states", p.States, 1); err != nil {
		return err
	}
	if p.States > MaxFrontStates {
		return fmt.Errorf("%s: states=%d > max=%d: %w", methodFront, p.States, MaxFrontStates, ErrInvalidParameter)
	}
	if p.Budget < p.States {
		return fmt.Errorf("%s: budget=%d < states=%d: %w", methodFront, p.Budget, p.States, ErrInvalidParameter)
	}

	return nil
}

func (p FrontParams) provenance() machine.Provenance {
	return machine.Provenance{}.
		Add("window_max", p.Window).
		AddInt("budget", p.Budget).
		AddInt("states", p.States)
}

// PipelinedFrontParams configures Pipelined FRONT; every pipeline shares
// the embedded FRONT parameters.
type PipelinedFrontParams struct {
	FrontParams
	Pipelines int
}

// Validate checks the Pipelined FRONT parameter domain.
func (p PipelinedFrontParams) Validate() error {
	if err := p.FrontParams.Validate(); err != nil {
		return fmt.Errorf("%s: %w", methodPipelinedFront, err)
	}

	return validateMin(methodPipelinedFront, "pipelines", p.Pipelines, 1)
}

func (p PipelinedFrontParams) provenance() machine.Provenance {
	return p.FrontParams.provenance().AddInt("pipelines", p.Pipelines)
}

// RegulatorParams configures RegulaTor.
type RegulatorParams struct {
	// InitialRate R is the relay's sending rate at t=0, packets/s.
	InitialRate float64
	// Decay D is the per-second decay factor of the rate, in (0,1).
	Decay float64
	// Threshold T controls the surge restart probability 2/(T·rate).
	Threshold float64
	// UploadRatio U is how many received packets buy one client packet.
	UploadRatio float64
	// CellsPerState is how many cells each relay SEND state emits.
	CellsPerState int
}

// Validate checks the RegulaTor parameter domain.
func (p RegulatorParams) Validate() error {
	if err := validatePositive(methodRegulator, "initial_rate", p.InitialRate); err != nil {
		return err
	}
	if err := validateOpenUnit(methodRegulator, "decay", p.Decay); err != nil {
		return err
	}
	if err := validatePositive(methodRegulator, "threshold", p.Threshold); err != nil {
		return err
	}
	if err := validatePositive(methodRegulator, "upload_ratio", p.UploadRatio); err != nil {
		return err
	}

	return validateMin(methodRegulator, "cells_per_state", p.CellsPerState, 1)
}

func (p RegulatorParams) provenance() machine.Provenance {
	return machine.Provenance{}.
		Add("initial_rate", p.InitialRate).
		Add("decay", p.Decay).
		Add("threshold", p.Threshold).
		Add("upload_ratio", p.UploadRatio).
		AddInt("cells_per_state", p.CellsPerState)
}
