// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

// Diagnostics is the side channel for commands that replay could not
// paint. Implementations must not block; they are called from inside a
// frame.
type Diagnostics interface {
	UnrecognizedCommand(index int, cmd Unknown)
}

// DiagnosticsFunc adapts a function to Diagnostics.
type DiagnosticsFunc func(index int, cmd Unknown)

// UnrecognizedCommand implements Diagnostics.
func (f DiagnosticsFunc) UnrecognizedCommand(index int, cmd Unknown) { f(index, cmd) }

// LogDiagnostics reports unrecognized commands as warnings on Logger().
type LogDiagnostics struct{}

// UnrecognizedCommand implements Diagnostics.
func (LogDiagnostics) UnrecognizedCommand(index int, cmd Unknown) {
	attrs := []any{"index", index, "tag", cmd.Tag}
	if cmd.Reason != "" {
		attrs = append(attrs, "reason", cmd.Reason)
	}
	Logger().Warn("linecanvas: unknown command", attrs...)
}
