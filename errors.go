// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import "errors"

var (
	// ErrMalformedSequence is returned when a command sequence is not an
	// ordered list of tagged commands. It indicates a bug in the producer;
	// the surface keeps its previous content.
	ErrMalformedSequence = errors.New("linecanvas: malformed command sequence")

	// ErrClosed is returned by operations on a closed Canvas.
	ErrClosed = errors.New("linecanvas: canvas is closed")

	// ErrEmptySurface is returned when encoding a surface with no pixels.
	ErrEmptySurface = errors.New("linecanvas: surface is empty")
)
