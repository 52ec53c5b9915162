// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package present uploads rendered linecanvas surfaces to GPU textures and
// draws them through a gpucontext.TextureDrawer, such as the one a gogpu
// window hands out each frame.
//
// Usage:
//
//	p, err := present.New(drawer, present.WithPosition(8, 8))
//	el := linecanvas.NewElement(nil, linecanvas.WithPresenter(p))
//
// The texture is created lazily on the first Present and updated in place
// while the surface keeps its size.
//
// This is a library for hosts that own a GPU surface, such as a gogpu
// application. None of the linecanvas commands create one, so none of them
// import this package.
package present

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/linecanvas"
)

var (
	// ErrNilDrawer is returned when New is given a nil drawer.
	ErrNilDrawer = errors.New("present: nil TextureDrawer")

	// ErrNoTextureCreator is returned when the drawer cannot create textures.
	ErrNoTextureCreator = errors.New("present: drawer has no TextureCreator")

	// ErrClosed is returned by Present after Close.
	ErrClosed = errors.New("present: presenter is closed")
)

var _ linecanvas.Presenter = (*Presenter)(nil)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithPosition sets where the texture is drawn, in target pixels.
func WithPosition(x, y float32) Option {
	return func(p *Presenter) {
		p.x, p.y = x, y
	}
}

// Presenter is a linecanvas.Presenter backed by a GPU texture.
//
// Presenter is NOT safe for concurrent use; call it from the frame that
// renders the surface.
type Presenter struct {
	drawer gpucontext.TextureDrawer
	tex    gpucontext.Texture
	old    gpucontext.Texture // replaced texture awaiting destruction
	x, y   float32
	buf    *image.RGBA
	closed bool

	uploads int
	creates int
}

// New returns a presenter drawing through drawer.
func New(drawer gpucontext.TextureDrawer, opts ...Option) (*Presenter, error) {
	if drawer == nil {
		return nil, ErrNilDrawer
	}
	p := &Presenter{drawer: drawer}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewForProvider is like New and also logs the GPU the drawer belongs to.
// A provider whose surface format cannot take RGBA8 uploads is rejected.
func NewForProvider(provider gpucontext.DeviceProvider, drawer gpucontext.TextureDrawer, opts ...Option) (*Presenter, error) {
	if provider != nil {
		info := provider.AdapterInfo()
		format := provider.SurfaceFormat()
		linecanvas.Logger().Info("present: gpu surface",
			slog.String("adapter", info.Name),
			slog.String("type", info.Type.String()),
			slog.String("format", format.String()))
		if !SupportedFormat(format) {
			return nil, fmt.Errorf("present: unsupported surface format %s", format)
		}
	}
	return New(drawer, opts...)
}

// SupportedFormat reports whether textures uploaded as 8-bit RGBA can be
// composited onto a surface of format f. Undefined means headless and is
// accepted.
func SupportedFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatUndefined,
		gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}

// Present uploads img and draws it. A size change replaces the texture;
// otherwise the existing texture is updated in place.
func (p *Presenter) Present(img image.Image) error {
	if p.closed {
		return ErrClosed
	}
	rgba := p.pixels(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	if p.tex != nil && (p.tex.Width() != w || p.tex.Height() != h) {
		p.retire()
	}

	if p.tex == nil {
		creator := p.drawer.TextureCreator()
		if creator == nil {
			return ErrNoTextureCreator
		}
		tex, err := creator.NewTextureFromRGBA(w, h, rgba.Pix)
		if err != nil {
			return fmt.Errorf("present: create texture: %w", err)
		}
		// gg pixels are premultiplied.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		p.tex = tex
		p.creates++
		// Creation waits for the GPU, so the replaced texture is idle now.
		p.destroyOld()
	} else if updater, ok := p.tex.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(rgba.Pix); err != nil {
			return fmt.Errorf("present: update texture: %w", err)
		}
		p.uploads++
	}

	return p.drawer.DrawTexture(p.tex, p.x, p.y)
}

// pixels returns img as a tightly packed RGBA image anchored at the origin.
func (p *Presenter) pixels(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	if p.buf == nil || p.buf.Rect.Dx() != b.Dx() || p.buf.Rect.Dy() != b.Dy() {
		p.buf = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(p.buf, p.buf.Rect, img, b.Min, draw.Src)
	return p.buf
}

// retire defers destruction of the current texture until the next one has
// been created, since in-flight command buffers may still sample it.
func (p *Presenter) retire() {
	p.destroyOld()
	p.old = p.tex
	p.tex = nil
}

func (p *Presenter) destroyOld() {
	if p.old == nil {
		return
	}
	if d, ok := p.old.(textureDestroyer); ok {
		d.Destroy()
	}
	p.old = nil
}

// Texture returns the current texture, or nil before the first Present.
func (p *Presenter) Texture() gpucontext.Texture {
	return p.tex
}

// Close destroys the textures. Close is idempotent.
func (p *Presenter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.destroyOld()
	if d, ok := p.tex.(textureDestroyer); ok {
		d.Destroy()
	}
	p.tex = nil
	return nil
}
