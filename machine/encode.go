// SPDX-License-Identifier: MIT
// Package: wfpad/machine
//
// encode.go - the compact string form consumed by the traffic-shaping
// framework.
//
// Layout: EncodingVersion + base64(zlib(payload)), payload little-endian:
//
//	u64 allowed_padding_packets | f64 max_padding_frac
//	u64 allowed_blocked_microsec | f64 max_blocking_frac
//	u64 #states, then per state:
//	  dist action | dist limit | dist timeout   (u8 kind, f64 p1, p2, start, max)
//	  u8 flags (1 block, 2 bypass, 4 replace, 8 limit includes nonpadding)
//	  u64 #transitions, then per transition: u8 event | u64 target | f64 p
//
// Nop mass is implicit (1 - sum of the group); End is encoded as n+1 and
// Cancel as n. Labels, names and provenance are not part of the payload.
// Equal machines produce byte-identical strings.

package machine

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zlib"

	"github.com/katalvlaran/wfpad/dist"
)

// EncodingVersion prefixes every compact string.
const EncodingVersion = "02"

// maxDecodedPayload caps decompression of untrusted input.
const maxDecodedPayload = 1 << 24

const (
	flagBlock = 1 << iota
	flagBypass
	flagReplace
	flagLimitIncludesNonpadding
)

// machineNamespace scopes Machine.ID.
var machineNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/katalvlaran/wfpad/machine"))

// Encode renders m in the compact form.
func Encode(m *Machine) (string, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", fmt.Errorf("Encode(%s): %w", m.Name, err)
	}
	if _, err := zw.Write(payload(m)); err != nil {
		return "", fmt.Errorf("Encode(%s): %w", m.Name, err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("Encode(%s): %w", m.Name, err)
	}

	return EncodingVersion + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ID returns a deterministic name-based UUID of m's wire payload.
func (m *Machine) ID() uuid.UUID {
	return uuid.NewSHA1(machineNamespace, payload(m))
}

func payload(m *Machine) []byte {
	w := &wire{}
	w.u64(m.AllowedPaddingPackets)
	w.f64(m.MaxPaddingFrac)
	w.u64(m.AllowedBlockedMicrosec)
	w.f64(m.MaxBlockingFrac)

	n := len(m.States)
	w.u64(uint64(n))
	for _, s := range m.States {
		w.dist(s.Action)
		w.dist(s.Limit)
		w.dist(s.Timeout)
		var flags uint8
		if s.ActionIsBlock {
			flags |= flagBlock
		}
		if s.Bypass {
			flags |= flagBypass
		}
		if s.Replace {
			flags |= flagReplace
		}
		if s.LimitIncludesNonpadding {
			flags |= flagLimitIncludesNonpadding
		}
		w.u8(flags)

		var real []Transition
		for _, t := range s.Transitions {
			if t.Target != TargetNop {
				real = append(real, t)
			}
		}
		w.u64(uint64(len(real)))
		for _, t := range real {
			w.u8(uint8(t.Event))
			w.u64(wireTarget(t.Target, n))
			w.f64(t.Probability)
		}
	}

	return w.buf.Bytes()
}

func wireTarget(target, n int) uint64 {
	switch target {
	case TargetEnd:
		return uint64(n) + 1
	case TargetCancel:
		return uint64(n)
	}

	return uint64(target)
}

// Decode parses a compact string back into a Machine. Implicit Nop mass is
// restored as explicit TargetNop transitions; labels are "0", "1", ...
func Decode(s string) (*Machine, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, EncodingVersion) {
		return nil, fmt.Errorf("%w: missing version prefix %q", ErrMalformedEncoding, EncodingVersion)
	}
	raw, err := base64.StdEncoding.DecodeString(s[len(EncodingVersion):])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEncoding, err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEncoding, err)
	}
	defer zr.Close()
	body, err := io.ReadAll(io.LimitReader(zr, maxDecodedPayload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEncoding, err)
	}

	m, err := parsePayload(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEncoding, err)
	}

	return m, nil
}

func parsePayload(r *bytes.Reader) (*Machine, error) {
	rd := &reader{r: r}
	m := &Machine{}
	m.AllowedPaddingPackets = rd.u64()
	m.MaxPaddingFrac = rd.f64()
	m.AllowedBlockedMicrosec = rd.u64()
	m.MaxBlockingFrac = rd.f64()

	n := rd.u64()
	if rd.err != nil {
		return nil, rd.err
	}
	// Each state needs well over 64 bytes; reject impossible counts early.
	if n > uint64(r.Len()/64) {
		return nil, fmt.Errorf("state count %d exceeds payload", n)
	}
	m.States = make([]State, n)
	for i := range m.States {
		s := &m.States[i]
		s.Label = fmt.Sprint(i)
		s.Action, s.Limit, s.Timeout = rd.dist(), rd.dist(), rd.dist()
		flags := rd.u8()
		s.ActionIsBlock = flags&flagBlock != 0
		s.Bypass = flags&flagBypass != 0
		s.Replace = flags&flagReplace != 0
		s.LimitIncludesNonpadding = flags&flagLimitIncludesNonpadding != 0

		count := rd.u64()
		if rd.err != nil {
			return nil, rd.err
		}
		if count > uint64(r.Len()) {
			return nil, fmt.Errorf("state %d: transition count %d exceeds payload", i, count)
		}
		sums := map[Event]float64{}
		for j := uint64(0); j < count; j++ {
			ev := Event(rd.u8())
			raw := rd.u64()
			p := rd.f64()
			if rd.err != nil {
				return nil, rd.err
			}
			if !ev.Valid() {
				return nil, fmt.Errorf("state %d: unknown event %d", i, uint8(ev))
			}
			target, ok := targetFromWire(raw, n)
			if !ok {
				return nil, fmt.Errorf("state %d: target %d out of range", i, raw)
			}
			if math.IsNaN(p) || p < 0 || p > 1 {
				return nil, fmt.Errorf("state %d: probability %g", i, p)
			}
			sums[ev] += p
			s.Transitions = append(s.Transitions, Transition{Event: ev, Target: target, Probability: p})
		}
		for _, ev := range Events() {
			sum, ok := sums[ev]
			if !ok {
				continue
			}
			if sum > 1+DriftTolerance {
				return nil, fmt.Errorf("state %d: %s probabilities sum to %g", i, ev, sum)
			}
			if rest := 1 - sum; rest > 1e-12 {
				s.Transitions = append(s.Transitions, Transition{Event: ev, Target: TargetNop, Probability: rest})
			}
		}
		sortTransitions(s.Transitions)
	}
	if rd.err != nil {
		return nil, rd.err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes", r.Len())
	}

	return m, nil
}

func targetFromWire(raw, n uint64) (int, bool) {
	switch {
	case raw < n:
		return int(raw), true
	case raw == n:
		return TargetCancel, true
	case raw == n+1:
		return TargetEnd, true
	}

	return 0, false
}

// wire is a little-endian append buffer.
type wire struct{ buf bytes.Buffer }

func (w *wire) u8(v uint8) { w.buf.WriteByte(v) }

func (w *wire) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *wire) f64(v float64) { w.u64(math.Float64bits(v)) }

func (w *wire) dist(d dist.Dist) {
	w.u8(uint8(d.Kind))
	w.f64(d.Param1)
	w.f64(d.Param2)
	w.f64(d.Start)
	w.f64(d.Max)
}

// reader mirrors wire; the first error sticks and later reads return zero.
type reader struct {
	r   *bytes.Reader
	err error
}

func (rd *reader) u8() uint8 {
	if rd.err != nil {
		return 0
	}
	b, err := rd.r.ReadByte()
	if err != nil {
		rd.err = fmt.Errorf("truncated payload: %w", err)
	}

	return b
}

func (rd *reader) u64() uint64 {
	if rd.err != nil {
		return 0
	}
	var b [8]byte
	if _, err := io.ReadFull(rd.r, b[:]); err != nil {
		rd.err = fmt.Errorf("truncated payload: %w", err)
		return 0
	}

	return binary.LittleEndian.Uint64(b[:])
}

func (rd *reader) f64() float64 { return math.Float64frombits(rd.u64()) }

func (rd *reader) dist() dist.Dist {
	d := dist.Dist{Kind: dist.Kind(rd.u8())}
	d.Param1, d.Param2, d.Start, d.Max = rd.f64(), rd.f64(), rd.f64(), rd.f64()
	if rd.err == nil && !d.Kind.Valid() {
		rd.err = fmt.Errorf("unknown distribution kind %d", uint8(d.Kind))
	}

	return d
}
