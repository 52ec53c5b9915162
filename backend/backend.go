// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend defines the paint contracts a linecanvas surface draws
// through, and a registry of named implementations.
//
// A Backend owns the backing pixel buffer of one surface. The surface tells
// it the displayed (logical) size and the backing size, sets its transform,
// and replays command sequences through the embedded Painter. All
// coordinates handed to a Painter are logical units; the backend maps them
// through the current transform.
//
// Implementations live in sub-packages and register themselves in init(),
// following the database/sql driver pattern:
//
//	import _ "github.com/gogpu/linecanvas/backend/scanline"
//
//	b, err := backend.New("scanline")
package backend

import (
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"
)

// Painter is the path-drawing subset of a 2D canvas context that command
// replay needs.
type Painter interface {
	// BeginPath discards any in-progress path.
	BeginPath()

	// MoveTo starts a new subpath at (x, y).
	MoveTo(x, y float64)

	// LineTo appends a straight segment from the current point to (x, y).
	LineTo(x, y float64)

	// SetLineWidth sets the width used by subsequent Stroke calls.
	SetLineWidth(width float64)

	// Stroke paints every accumulated subpath and clears the path.
	Stroke() error
}

// Backend is a drawable surface's backing store.
type Backend interface {
	Painter

	// Resize sets the displayed size (logical units) and reallocates the
	// backing buffer to backingWidth x backingHeight pixels. Zero backing
	// sizes are valid and produce an invisible surface.
	Resize(logicalWidth, logicalHeight float64, backingWidth, backingHeight int) error

	// SetTransform replaces the active transform.
	SetTransform(m gg.Matrix)

	// Erase clears the whole backing buffer to transparent, ignoring the
	// active transform.
	Erase()

	// SetStrokeColor sets the color used by Stroke.
	SetStrokeColor(c color.Color)
}

// Snapshotter is implemented by backends that can return their pixels.
type Snapshotter interface {
	// Image returns a copy of the backing buffer, or nil for a zero-size
	// surface.
	Image() image.Image
}

// PNGEncoder is implemented by backends with their own PNG encoder.
type PNGEncoder interface {
	EncodePNG(w io.Writer) error
}

// Closer is implemented by backends holding releasable resources.
type Closer interface {
	Close() error
}
