// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software implements a linecanvas backend on top of the gg
// software rasterizer.
//
// Importing the package registers it as "software":
//
//	import _ "github.com/gogpu/linecanvas/backend/software"
package software

import (
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"github.com/gogpu/linecanvas/backend"
)

// Name is the registry name of this backend.
const Name = "software"

func init() {
	backend.Register(Name, 50, func() (backend.Backend, error) {
		return New(), nil
	}, nil)
}

var (
	_ backend.Backend     = (*Backend)(nil)
	_ backend.Snapshotter = (*Backend)(nil)
	_ backend.Closer      = (*Backend)(nil)
	_ backend.PNGEncoder  = (*Backend)(nil)
)

// Backend paints into a gg.Context sized to the backing buffer.
// A zero-size backend holds no context and ignores paint calls.
//
// Backend is NOT safe for concurrent use.
type Backend struct {
	dc        *gg.Context
	transform gg.Matrix
	lineWidth float64
	color     color.Color

	logicalWidth  float64
	logicalHeight float64
}

// New returns a zero-size backend. Resize allocates the pixel buffer.
func New() *Backend {
	return &Backend{
		transform: gg.Identity(),
		lineWidth: 1,
		color:     color.Black,
	}
}

// Resize reallocates the backing buffer. Like an HTML canvas, resizing
// always discards the previous content and resets transform and line width.
func (b *Backend) Resize(logicalWidth, logicalHeight float64, backingWidth, backingHeight int) error {
	b.logicalWidth, b.logicalHeight = logicalWidth, logicalHeight
	b.transform = gg.Identity()
	b.lineWidth = 1

	if backingWidth <= 0 || backingHeight <= 0 {
		if b.dc != nil {
			_ = b.dc.Close()
			b.dc = nil
		}
		return nil
	}

	if b.dc == nil {
		b.dc = gg.NewContext(backingWidth, backingHeight)
	} else if err := b.dc.Resize(backingWidth, backingHeight); err != nil {
		return err
	}
	b.dc.Clear()
	b.apply()
	return nil
}

// apply pushes the cached state into the current context.
func (b *Backend) apply() {
	b.dc.SetTransform(b.transform)
	b.dc.SetLineWidth(b.lineWidth)
	b.dc.SetColor(b.color)
}

// DisplaySize returns the logical size last passed to Resize.
func (b *Backend) DisplaySize() (width, height float64) {
	return b.logicalWidth, b.logicalHeight
}

// SetTransform implements backend.Backend.
func (b *Backend) SetTransform(m gg.Matrix) {
	b.transform = m
	if b.dc != nil {
		b.dc.SetTransform(m)
	}
}

// Erase implements backend.Backend.
func (b *Backend) Erase() {
	if b.dc != nil {
		b.dc.Clear()
	}
}

// SetStrokeColor implements backend.Backend.
func (b *Backend) SetStrokeColor(c color.Color) {
	b.color = c
	if b.dc != nil {
		b.dc.SetColor(c)
	}
}

// BeginPath implements backend.Painter.
func (b *Backend) BeginPath() {
	if b.dc != nil {
		b.dc.ClearPath()
	}
}

// MoveTo implements backend.Painter.
func (b *Backend) MoveTo(x, y float64) {
	if b.dc != nil {
		b.dc.MoveTo(x, y)
	}
}

// LineTo implements backend.Painter.
func (b *Backend) LineTo(x, y float64) {
	if b.dc != nil {
		b.dc.LineTo(x, y)
	}
}

// SetLineWidth implements backend.Painter.
func (b *Backend) SetLineWidth(width float64) {
	b.lineWidth = width
	if b.dc != nil {
		b.dc.SetLineWidth(width)
	}
}

// Stroke implements backend.Painter.
func (b *Backend) Stroke() error {
	if b.dc == nil {
		return nil
	}
	return b.dc.Stroke()
}

// Image implements backend.Snapshotter.
func (b *Backend) Image() image.Image {
	if b.dc == nil {
		return nil
	}
	_ = b.dc.FlushGPU()
	return b.dc.Image()
}

// ErrEmpty is returned when encoding a zero-size backend.
var ErrEmpty = errors.New("software: empty backing buffer")

// EncodePNG implements backend.PNGEncoder.
func (b *Backend) EncodePNG(w io.Writer) error {
	if b.dc == nil {
		return ErrEmpty
	}
	_ = b.dc.FlushGPU()
	return b.dc.EncodePNG(w)
}

// Context returns the underlying gg context, or nil for a zero-size
// backend. Drawing through it bypasses command replay.
func (b *Backend) Context() *gg.Context {
	return b.dc
}

// Close releases the context. Close is idempotent.
func (b *Backend) Close() error {
	if b.dc == nil {
		return nil
	}
	err := b.dc.Close()
	b.dc = nil
	return err
}
