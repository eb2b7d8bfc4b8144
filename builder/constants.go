// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// constants.go - family names, method tags and numeric defaults.

package builder

import "math"

// Family names as used on the command line and in parameter files.
const (
	FamilyFront          = "front"
	FamilyPipelinedFront = "pipelined-front"
	FamilyRegulator      = "regulator"
	FamilySurakav        = "surakav"
)

// Method tags prefix every error with the constructor name.
const (
	methodFront          = "Front"
	methodPipelinedFront = "PipelinedFront"
	methodRegulator      = "Regulator"
	methodSurakav        = "Surakav"
	methodBuild          = "Build"
)

// TorCellSize is the default padding action size in bytes.
const TorCellSize = 512

// DefaultMinWindow is the lower bound, in seconds, of FRONT's window draw.
const DefaultMinWindow = 1.0

// FRONT windows are bounded so the Rayleigh scale (µs) and its square stay
// finite and non-zero.
const (
	MinFrontWindow = 1e-6
	MaxFrontWindow = 1e6
)

// MaxFrontStates bounds k so the per-state Rayleigh mass stays well above
// the interval solver's tolerance.
const MaxFrontStates = 100000

// RegulatorFloorRate is the slowest sending rate (packets/s); the decay
// schedule ends once it falls below.
const RegulatorFloorRate = 1.0

// MaxRegulatorStates bounds the SEND states (and client COUNT states) one
// RegulaTor machine may carry.
const MaxRegulatorStates = 10000

// regulatorBootStates is the number of bootstrap states between BLOCK and
// the first SEND state.
const regulatorBootStates = 9

// regulatorBootTimeout is the bootstrap padding interval in µs.
const regulatorBootTimeout = 100000.0

// surakavSendTimeout is the send timer, in µs, for traces without timing.
const surakavSendTimeout = 5.0

// microsPerSecond converts seconds to the framework's µs.
const microsPerSecond = 1e6

// unlimited is the machine-wide budget meaning "no framework cap".
const unlimited = math.MaxUint64
