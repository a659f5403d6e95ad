// Package alog is Aura's logging facade. It wraps github.com/luxfi/log the
// same way the teacher's log package wraps it (log/noop.go), so every
// subsystem logs through one injected Logger instead of reaching for the
// standard library's log package directly.
package alog

import "github.com/luxfi/log"

// Logger is Aura's structured logger. It is the luxfi/log.Logger
// interface re-exported so callers don't need to import luxfi/log
// directly just to hold a reference.
type Logger = log.Logger

// NewNoOp returns a logger that discards everything, the default for
// unit tests and for the deterministic simulator.
func NewNoOp() Logger {
	return log.NewNoOpLogger()
}
