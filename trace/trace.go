// SPDX-License-Identifier: MIT
// Package: wfpad/trace
//
// trace.go - reference trace model and burst segmentation.

package trace

import (
	"errors"
	"strconv"
)

// Sentinel errors.
var (
	// ErrEmptyTrace indicates a trace without a single burst.
	ErrEmptyTrace = errors.New("trace: empty trace")

	// ErrMalformedTrace indicates a line that does not parse.
	ErrMalformedTrace = errors.New("trace: malformed line")

	// ErrNonMonotonic indicates a timestamp earlier than its predecessor.
	ErrNonMonotonic = errors.New("trace: timestamps go backwards")
)

// DefaultCutoff is the maximum number of bursts read from a trace.
const DefaultCutoff = 8000

// Direction says which side sent a cell.
type Direction int8

const (
	// Outgoing cells travel client -> relay.
	Outgoing Direction = 1
	// Incoming cells travel relay -> client.
	Incoming Direction = -1
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction { return -d }

// Sender names the side that sends in direction d.
func (d Direction) Sender() string {
	if d == Incoming {
		return "relay"
	}

	return "client"
}

func (d Direction) String() string { return d.Sender() }

// Format identifies the on-disk trace layout.
type Format int

const (
	// FormatAuto detects the layout from the first data line.
	FormatAuto Format = iota
	// FormatBursts: one cell count per line, 0 switches the sending side.
	FormatBursts
	// FormatTimed: "<seconds> <direction>" per cell.
	FormatTimed
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatBursts:
		return "bursts"
	case FormatTimed:
		return "timed"
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Cell is one observed cell of a timed trace.
type Cell struct {
	Time float64 // seconds since trace start
	Dir  Direction
}

// Burst is a maximal run of cells sent by one side.
type Burst struct {
	Dir   Direction
	Cells int
	// Gaps holds the µs between consecutive cells of the burst; empty for
	// burst-count traces.
	Gaps []float64
}

// Trace is a parsed reference trace, immutable once returned.
type Trace struct {
	Source    string
	Format    Format
	Cells     []Cell
	Bursts    []Burst
	Truncated bool
}

// CellCount sums the cells of all bursts.
func (t *Trace) CellCount() int {
	n := 0
	for _, b := range t.Bursts {
		n += b.Cells
	}

	return n
}

// Duration is the span between the first and last cell, in seconds; 0 for
// burst-count traces.
func (t *Trace) Duration() float64 {
	if len(t.Cells) == 0 {
		return 0
	}

	return t.Cells[len(t.Cells)-1].Time - t.Cells[0].Time
}

// Segment groups consecutive same-direction cells into bursts, recording
// intra-burst gaps in µs. At most cutoff bursts are returned; truncated
// reports whether cells were dropped.
// Complexity: O(n).
func Segment(cells []Cell, cutoff int) (bursts []Burst, truncated bool) {
	for i, c := range cells {
		if i > 0 && c.Dir == cells[i-1].Dir {
			b := &bursts[len(bursts)-1]
			b.Cells++
			b.Gaps = append(b.Gaps, (c.Time-cells[i-1].Time)*1e6)
			continue
		}
		if len(bursts) == cutoff {
			return bursts, true
		}
		bursts = append(bursts, Burst{Dir: c.Dir, Cells: 1})
	}

	return bursts, false
}
