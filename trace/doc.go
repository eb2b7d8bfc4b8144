// SPDX-License-Identifier: MIT

// Package trace loads the reference traces Surakav machines replay.
//
// Two line formats are accepted and auto-detected:
//
//	bursts:  one cell count per line; the client sends the first burst,
//	         sides alternate after every burst, and a 0 line passes the
//	         turn without a burst.
//	timed:   "<timestamp seconds> <direction>" per cell; direction > 0 is
//	         client -> relay, < 0 relay -> client. Consecutive cells in one
//	         direction form a burst.
//
// At most DefaultCutoff bursts are kept (WithCutoff overrides).
package trace
