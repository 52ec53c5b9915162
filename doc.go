// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package linecanvas renders sequences of line-drawing commands onto a
// device-pixel-ratio aware surface.
//
// # Overview
//
// A host describes a drawing as a Sequence of commands (MoveTo, LineTo,
// Line) in logical units. A Surface keeps its backing buffer at the logical
// size times the device pixel ratio and replays sequences through a
// pluggable backend. Two adapters drive a surface from a host:
//
//   - Canvas is imperative: Clear and Draw operations are queued and applied
//     at the next frame.
//   - Element is declarative: the host sets width and height attributes and
//     the current sequence, and the element repaints to match.
//
// Both adapters paint only inside FrameScheduler callbacks and coalesce
// requests made within one refresh window.
//
// # Quick Start
//
//	import "github.com/gogpu/linecanvas"
//
//	s := linecanvas.NewSurface(nil, linecanvas.WithDisplayMetrics(linecanvas.FixedRatio(2)))
//	s.Configure(100, 50) // 200x100 backing pixels
//
//	seq := linecanvas.Sequence{
//	    linecanvas.MoveTo{X: 0, Y: 0},
//	    linecanvas.LineTo{X: 100, Y: 50},
//	}
//	if _, err := s.Render(seq); err != nil {
//	    log.Fatal(err)
//	}
//	img := s.Image()
//
// # Commands
//
// Commands arrive from hosts as JSON:
//
//	[{"tag":"moveTo","x":0,"y":0},{"tag":"lineTo","x":10,"y":10,"strokeWidth":2}]
//
// Tags the interpreter does not know are decoded as Unknown, reported
// through Diagnostics and skipped. A sequence that is not an array of
// tagged objects is rejected with ErrMalformedSequence.
//
// # Logging
//
// The package logs through a *slog.Logger that discards everything until
// SetLogger is called. The logger is shared with gg.
package linecanvas
