// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scanline implements a linecanvas backend with the rasterx
// scanline stroker, as a pure-Go alternative to the gg rasterizer.
//
// Importing the package registers it as "scanline".
package scanline

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/linecanvas/backend"
)

// Name is the registry name of this backend.
const Name = "scanline"

func init() {
	backend.Register(Name, 10, func() (backend.Backend, error) {
		return New(), nil
	}, nil)
}

var (
	_ backend.Backend     = (*Backend)(nil)
	_ backend.Snapshotter = (*Backend)(nil)
)

// Backend strokes paths into an *image.RGBA through a rasterx.Dasher.
// Points are mapped through the transform when they are appended, as a 2D
// canvas does, so changing the transform mid-path does not move earlier
// points.
//
// Backend is NOT safe for concurrent use.
type Backend struct {
	img     *image.RGBA
	scanner *rasterx.ScannerGV
	dasher  *rasterx.Dasher

	transform gg.Matrix
	lineWidth float64
	color     color.Color

	// subpaths in backing pixels; each starts with its MoveTo point.
	subpaths [][]gg.Point
}

// New returns a zero-size backend.
func New() *Backend {
	return &Backend{
		transform: gg.Identity(),
		lineWidth: 1,
		color:     color.Black,
	}
}

// Resize reallocates the backing image and resets transform and line width.
func (b *Backend) Resize(_, _ float64, backingWidth, backingHeight int) error {
	b.transform = gg.Identity()
	b.lineWidth = 1
	b.subpaths = nil

	if backingWidth <= 0 || backingHeight <= 0 {
		b.img, b.scanner, b.dasher = nil, nil, nil
		return nil
	}
	b.img = image.NewRGBA(image.Rect(0, 0, backingWidth, backingHeight))
	b.scanner = rasterx.NewScannerGV(backingWidth, backingHeight, b.img, b.img.Bounds())
	b.dasher = rasterx.NewDasher(backingWidth, backingHeight, b.scanner)
	b.scanner.SetColor(b.color)
	return nil
}

// SetTransform implements backend.Backend.
func (b *Backend) SetTransform(m gg.Matrix) { b.transform = m }

// Erase implements backend.Backend.
func (b *Backend) Erase() {
	if b.img != nil {
		draw.Draw(b.img, b.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}
}

// SetStrokeColor implements backend.Backend.
func (b *Backend) SetStrokeColor(c color.Color) {
	b.color = c
	if b.scanner != nil {
		b.scanner.SetColor(c)
	}
}

// BeginPath implements backend.Painter.
func (b *Backend) BeginPath() { b.subpaths = b.subpaths[:0] }

// MoveTo implements backend.Painter.
func (b *Backend) MoveTo(x, y float64) {
	p := b.transform.TransformPoint(gg.Pt(x, y))
	b.subpaths = append(b.subpaths, []gg.Point{p})
}

// LineTo implements backend.Painter. Without a current point it behaves
// like MoveTo.
func (b *Backend) LineTo(x, y float64) {
	if len(b.subpaths) == 0 {
		b.MoveTo(x, y)
		return
	}
	p := b.transform.TransformPoint(gg.Pt(x, y))
	last := len(b.subpaths) - 1
	b.subpaths[last] = append(b.subpaths[last], p)
}

// SetLineWidth implements backend.Painter.
func (b *Backend) SetLineWidth(width float64) { b.lineWidth = width }

// Stroke implements backend.Painter.
func (b *Backend) Stroke() error {
	defer b.BeginPath()
	if b.dasher == nil {
		return nil
	}

	width := b.lineWidth * scaleFactor(b.transform)
	b.dasher.Clear()
	b.dasher.SetStroke(toFixed(width), toFixed(4*width),
		rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter, nil, 0)

	for _, sp := range b.subpaths {
		if len(sp) < 2 {
			continue
		}
		b.dasher.Start(toFixedP(sp[0]))
		for _, p := range sp[1:] {
			b.dasher.Line(toFixedP(p))
		}
		b.dasher.Stop(false)
	}
	b.dasher.Draw()
	return nil
}

// Image implements backend.Snapshotter.
func (b *Backend) Image() image.Image {
	if b.img == nil {
		return nil
	}
	out := image.NewRGBA(b.img.Bounds())
	copy(out.Pix, b.img.Pix)
	return out
}

// scaleFactor is the geometric mean of the transform's axis scales, the
// factor a canvas applies to line widths.
func scaleFactor(m gg.Matrix) float64 {
	return math.Sqrt(math.Abs(m.A*m.E - m.B*m.D))
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func toFixedP(p gg.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(p.X), Y: toFixed(p.Y)}
}
