// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

// Package browser paints linecanvas surfaces into an HTML canvas element
// through its CanvasRenderingContext2D, and provides the browser's frame
// scheduler and pixel ratio.
//
// A page hosts a canvas like this:
//
//	cv := js.Global().Get("document").Call("getElementById", "chart")
//	el := linecanvas.NewElement(browser.New(cv),
//	    linecanvas.WithDisplayMetrics(browser.DevicePixelRatio{}),
//	    linecanvas.WithFrameScheduler(browser.AnimationFrames{}))
//	release := browser.Bind(cv, el)
//	defer release()
package browser

import (
	"errors"
	"image/color"
	"syscall/js"

	"github.com/gogpu/gg"

	"github.com/gogpu/linecanvas"
	"github.com/gogpu/linecanvas/backend"
)

// Name is the registry name of this backend.
const Name = "browser"

// DefaultCanvasID is the element id the registered factory draws into.
const DefaultCanvasID = "linecanvas"

func init() {
	backend.Register(Name, 80, func() (backend.Backend, error) {
		cv := defaultCanvas()
		if cv.IsNull() {
			return nil, errNoCanvas
		}
		return New(cv), nil
	}, func() bool {
		return !defaultCanvas().IsNull()
	})
}

var errNoCanvas = errors.New("browser: no canvas element with id " + DefaultCanvasID)

func defaultCanvas() js.Value {
	doc := js.Global().Get("document")
	if doc.IsUndefined() {
		return js.Null()
	}
	return doc.Call("getElementById", DefaultCanvasID)
}

var _ backend.Backend = (*Backend)(nil)

// Backend drives one <canvas> element. Resizing sets both the backing
// size (the width and height properties) and the displayed CSS size.
type Backend struct {
	canvas js.Value
	ctx    js.Value
	color  string
}

// New returns a backend for canvas.
func New(canvas js.Value) *Backend {
	return &Backend{
		canvas: canvas,
		ctx:    canvas.Call("getContext", "2d"),
		color:  cssColor(color.Black),
	}
}

// Canvas returns the canvas element.
func (b *Backend) Canvas() js.Value {
	return b.canvas
}

// Resize implements backend.Backend. Assigning the canvas size resets the
// context state, so the stroke color is restored afterwards.
func (b *Backend) Resize(logicalWidth, logicalHeight float64, backingWidth, backingHeight int) error {
	style := b.canvas.Get("style")
	style.Set("width", formatPx(logicalWidth))
	style.Set("height", formatPx(logicalHeight))
	b.canvas.Set("width", backingWidth)
	b.canvas.Set("height", backingHeight)
	b.ctx.Set("strokeStyle", b.color)
	return nil
}

func formatPx(v float64) string {
	return linecanvas.FormatLength(v) + "px"
}

// SetTransform implements backend.Backend.
func (b *Backend) SetTransform(m gg.Matrix) {
	t := canvasTransform(m.A, m.B, m.C, m.D, m.E, m.F)
	b.ctx.Call("setTransform", t[0], t[1], t[2], t[3], t[4], t[5])
}

// Erase implements backend.Backend.
func (b *Backend) Erase() {
	b.ctx.Call("clearRect", 0, 0, b.canvas.Get("width"), b.canvas.Get("height"))
}

// SetStrokeColor implements backend.Backend.
func (b *Backend) SetStrokeColor(c color.Color) {
	b.color = cssColor(c)
	b.ctx.Set("strokeStyle", b.color)
}

// BeginPath implements backend.Painter.
func (b *Backend) BeginPath() { b.ctx.Call("beginPath") }

// MoveTo implements backend.Painter.
func (b *Backend) MoveTo(x, y float64) { b.ctx.Call("moveTo", x, y) }

// LineTo implements backend.Painter.
func (b *Backend) LineTo(x, y float64) { b.ctx.Call("lineTo", x, y) }

// SetLineWidth implements backend.Painter.
func (b *Backend) SetLineWidth(w float64) { b.ctx.Set("lineWidth", w) }

// Stroke implements backend.Painter.
func (b *Backend) Stroke() error {
	b.ctx.Call("stroke")
	return nil
}

// DevicePixelRatio reads window.devicePixelRatio.
type DevicePixelRatio struct{}

// DevicePixelRatio implements linecanvas.DisplayMetrics.
func (DevicePixelRatio) DevicePixelRatio() float64 {
	v := js.Global().Get("devicePixelRatio")
	if v.Type() != js.TypeNumber {
		return 1
	}
	return v.Float()
}

// AnimationFrames schedules callbacks with requestAnimationFrame.
type AnimationFrames struct{}

// RequestFrame implements linecanvas.FrameScheduler.
func (AnimationFrames) RequestFrame(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	js.Global().Call("requestAnimationFrame", cb)
}
