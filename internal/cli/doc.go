// Package cli defines the wfpad command tree. It parses flags into
// parameter sets and app.Config, then hands the work to internal/app.
//
// Exit codes: 0 on success, 1 on build or I/O errors, 2 on usage errors
// (reported as *ExitError).
package cli
