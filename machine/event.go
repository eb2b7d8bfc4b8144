// SPDX-License-Identifier: MIT
// Package: wfpad/machine
//
// event.go - the events a running machine reacts to.
//
// The numeric values are part of the compact wire format; never renumber.

package machine

import (
	"fmt"
	"strings"
)

// Event is a traffic or framework event that can trigger a transition.
type Event uint8

const (
	// NonPaddingRecv fires when a real cell is received.
	NonPaddingRecv Event = iota
	// PaddingRecv fires when a padding cell is received.
	PaddingRecv
	// NonPaddingSent fires when a real cell is sent.
	NonPaddingSent
	// PaddingSent fires when a padding cell is sent.
	PaddingSent
	// BlockingBegin fires when outgoing traffic starts being blocked.
	BlockingBegin
	// BlockingEnd fires when blocking stops.
	BlockingEnd
	// LimitReached fires when the state's limit counter is exhausted.
	LimitReached

	eventSentinel
)

var eventNames = [...]string{
	NonPaddingRecv: "NonPaddingRecv",
	PaddingRecv:    "PaddingRecv",
	NonPaddingSent: "NonPaddingSent",
	PaddingSent:    "PaddingSent",
	BlockingBegin:  "BlockingBegin",
	BlockingEnd:    "BlockingEnd",
	LimitReached:   "LimitReached",
}

// Events lists every event in wire order.
func Events() []Event {
	out := make([]Event, 0, eventSentinel)
	for e := Event(0); e < eventSentinel; e++ {
		out = append(out, e)
	}

	return out
}

// Valid reports whether e is a known event.
func (e Event) Valid() bool { return e < eventSentinel }

func (e Event) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Event(%d)", uint8(e))
	}

	return eventNames[e]
}

// MarshalText implements encoding.TextMarshaler.
func (e Event) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("machine: unknown event %d", uint8(e))
	}

	return []byte(eventNames[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Event) UnmarshalText(b []byte) error {
	for i, n := range eventNames {
		if strings.EqualFold(n, string(b)) {
			*e = Event(i)
			return nil
		}
	}

	return fmt.Errorf("machine: unknown event %q", b)
}
