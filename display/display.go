// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package display presents linecanvas surfaces on pixel panels that
// implement tinygo's drivers.Displayer, such as SPI TFT and e-paper
// controllers or an emulated framebuffer.
//
// This is a library for firmware and emulator hosts that hold a
// drivers.Displayer. The linecanvas commands target desktops, browsers and
// HTTP, where no panel exists, so none of them import this package.
package display

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"tinygo.org/x/drivers"

	"github.com/gogpu/linecanvas"
)

var _ linecanvas.Presenter = (*Panel)(nil)

// Panel scales each presented image to fit the display, letterboxed and
// centered, composites it over a background color and pushes the pixels
// that changed since the previous frame.
//
// Panel is NOT safe for concurrent use.
type Panel struct {
	d          drivers.Displayer
	background color.RGBA
	scaler     draw.Scaler

	frame *image.RGBA // composited frame sent to the panel
	prev  *image.RGBA // last frame pushed
}

// Option configures a Panel.
type Option func(*Panel)

// WithBackground sets the color behind transparent pixels. The default is
// white, matching an unstyled page.
func WithBackground(c color.RGBA) Option {
	return func(p *Panel) { p.background = c }
}

// WithScaler sets the resampling filter. The default is
// draw.ApproxBiLinear.
func WithScaler(s draw.Scaler) Option {
	return func(p *Panel) {
		if s != nil {
			p.scaler = s
		}
	}
}

// New returns a presenter for d.
func New(d drivers.Displayer, opts ...Option) *Panel {
	p := &Panel{
		d:          d,
		background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		scaler:     draw.ApproxBiLinear,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Present implements linecanvas.Presenter.
func (p *Panel) Present(img image.Image) error {
	w, h := p.d.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	bounds := image.Rect(0, 0, int(w), int(h))
	if p.frame == nil || p.frame.Rect != bounds {
		p.frame = image.NewRGBA(bounds)
		p.prev = nil
	}

	draw.Draw(p.frame, bounds, image.NewUniform(p.background), image.Point{}, draw.Src)
	if img != nil && !img.Bounds().Empty() {
		p.scaler.Scale(p.frame, fit(img.Bounds(), bounds), img, img.Bounds(), draw.Over, nil)
	}

	p.push()
	return p.d.Display()
}

// push writes the pixels that differ from the previous frame.
func (p *Panel) push() {
	b := p.frame.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := p.frame.PixOffset(x, y)
			px := p.frame.Pix[i : i+4 : i+4]
			if p.prev != nil {
				q := p.prev.Pix[i : i+4 : i+4]
				if px[0] == q[0] && px[1] == q[1] && px[2] == q[2] && px[3] == q[3] {
					continue
				}
			}
			p.d.SetPixel(int16(x), int16(y), color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]})
		}
	}
	if p.prev == nil {
		p.prev = image.NewRGBA(b)
	}
	copy(p.prev.Pix, p.frame.Pix)
}

// fit returns the largest rectangle with src's aspect ratio centered in dst.
func fit(src, dst image.Rectangle) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	dw, dh := float64(dst.Dx()), float64(dst.Dy())
	s := math.Min(dw/sw, dh/sh)
	w, h := int(math.Round(sw*s)), int(math.Round(sh*s))
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// FitRatio returns the device pixel ratio at which a surface of the given
// logical size has a backing buffer filling d without scaling.
func FitRatio(d drivers.Displayer, logicalWidth, logicalHeight float64) linecanvas.FixedRatio {
	w, h := d.Size()
	if w <= 0 || h <= 0 || logicalWidth <= 0 || logicalHeight <= 0 {
		return 1
	}
	return linecanvas.FixedRatio(math.Min(float64(w)/logicalWidth, float64(h)/logicalHeight))
}
