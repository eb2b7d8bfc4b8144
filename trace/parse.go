// SPDX-License-Identifier: MIT
// Package: wfpad/trace
//
// parse.go - reading trace files.
//
// Lines are trimmed; blank lines and lines starting with '#' are skipped.
// The first data line decides the format unless WithFormat forces one.

package trace

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Option configures Parse and Load.
type Option func(*options)

type options struct {
	cutoff int
	format Format
}

// WithCutoff caps the number of bursts read. Panics on n <= 0.
func WithCutoff(n int) Option {
	if n <= 0 {
		panic("trace: WithCutoff(n<=0)")
	}

	return func(o *options) { o.cutoff = n }
}

// WithFormat forces a layout instead of detecting it.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// Load opens path and parses it.
func Load(path string, opts ...Option) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer f.Close()

	t, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Source = path

	return t, nil
}

// Parse reads a trace from r.
func Parse(r io.Reader, opts ...Option) (*Trace, error) {
	o := options{cutoff: DefaultCutoff, format: FormatAuto}
	for _, opt := range opts {
		opt(&o)
	}

	p := &parser{opts: o, t: &Trace{Format: o.format}}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		done, err := p.line(lineNo, strings.Fields(line))
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}

	return p.finish()
}

type parser struct {
	opts options
	t    *Trace

	// burst-count state
	sender Direction
}

func (p *parser) line(n int, fields []string) (bool, error) {
	if p.t.Format == FormatAuto {
		switch len(fields) {
		case 1:
			p.t.Format = FormatBursts
		case 2:
			p.t.Format = FormatTimed
		default:
			return false, fmt.Errorf("line %d: cannot detect format from %d fields: %w", n, len(fields), ErrMalformedTrace)
		}
	}

	switch p.t.Format {
	case FormatBursts:
		return p.burstLine(n, fields)
	case FormatTimed:
		return false, p.timedLine(n, fields)
	}

	return false, fmt.Errorf("line %d: unsupported format %s: %w", n, p.t.Format, ErrMalformedTrace)
}

// burstLine: a count c > 0 adds a burst for the current sender and hands
// the turn to the other side; 0 only hands the turn over.
func (p *parser) burstLine(n int, fields []string) (bool, error) {
	if len(fields) != 1 {
		return false, fmt.Errorf("line %d: want 1 field, got %d: %w", n, len(fields), ErrMalformedTrace)
	}
	c, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return false, fmt.Errorf("line %d: %q: %w", n, fields[0], ErrMalformedTrace)
	}
	if p.sender == 0 {
		p.sender = Outgoing
	}
	if c == 0 {
		p.sender = p.sender.Flip()
		return false, nil
	}
	if len(p.t.Bursts) == p.opts.cutoff {
		p.t.Truncated = true
		return true, nil
	}
	p.t.Bursts = append(p.t.Bursts, Burst{Dir: p.sender, Cells: int(c)})
	p.sender = p.sender.Flip()

	return false, nil
}

func (p *parser) timedLine(n int, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("line %d: want 2 fields, got %d: %w", n, len(fields), ErrMalformedTrace)
	}
	ts, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(ts) || math.IsInf(ts, 0) {
		return fmt.Errorf("line %d: timestamp %q: %w", n, fields[0], ErrMalformedTrace)
	}
	dir, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || dir == 0 || math.IsNaN(dir) {
		return fmt.Errorf("line %d: direction %q: %w", n, fields[1], ErrMalformedTrace)
	}
	if k := len(p.t.Cells); k > 0 && ts < p.t.Cells[k-1].Time {
		return fmt.Errorf("line %d: %g after %g: %w", n, ts, p.t.Cells[k-1].Time, ErrNonMonotonic)
	}

	d := Outgoing
	if dir < 0 {
		d = Incoming
	}
	p.t.Cells = append(p.t.Cells, Cell{Time: ts, Dir: d})

	return nil
}

func (p *parser) finish() (*Trace, error) {
	if p.t.Format == FormatTimed {
		p.t.Bursts, p.t.Truncated = Segment(p.t.Cells, p.opts.cutoff)
	}
	if len(p.t.Bursts) == 0 {
		return nil, ErrEmptyTrace
	}

	return p.t, nil
}
