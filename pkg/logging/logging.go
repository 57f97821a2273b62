// Package logging builds the slog loggers used across codemerge.
package logging

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// LevelSilent is above every standard level
const LevelSilent = slog.Level(100)

// NewLogger creates a text logger writing to w
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewRunLogger creates a logger whose records carry a fresh run_id
func NewRunLogger(w io.Writer, level slog.Level) (*slog.Logger, string) {
	runID := uuid.NewString()
	return NewLogger(w, level).With("run_id", runID), runID
}

// NewDiscardLogger creates a logger that discards all output.
func NewDiscardLogger() *slog.Logger {
	return NewLogger(io.Discard, LevelSilent)
}

// LevelFromVerbosity converts CLI verbosity flags to a slog.Level.
//   - quiet=true: errors only
//   - verbosity=0: info, the progress of a run
//   - verbosity>=1: debug
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return slog.LevelError
	}
	if verbosity <= 0 {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
