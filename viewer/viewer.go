// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package viewer hosts a linecanvas Element in a desktop window using
// ebiten. The window size drives the element's width and height, the
// monitor's device scale factor drives its pixel ratio, and ebiten's update
// loop is the frame scheduler.
package viewer

import (
	"image"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/linecanvas"
	"github.com/gogpu/linecanvas/backend"
	"github.com/gogpu/linecanvas/frame"
)

// Config controls Run.
type Config struct {
	Title  string
	Width  int // initial window width in logical pixels
	Height int // initial window height in logical pixels
	TPS    int // updates per second; zero keeps ebiten's default
}

// Game is an ebiten.Game showing one Element.
type Game struct {
	queue *frame.Queue
	el    *linecanvas.Element
	scale func() float64

	mu     sync.Mutex
	pix    *image.RGBA // last presented frame
	fresh  bool
	screen *ebiten.Image

	outsideW, outsideH int
}

var (
	_ ebiten.Game          = (*Game)(nil)
	_ linecanvas.Presenter = (*Game)(nil)
)

// NewGame creates a game painting into b, or the default backend when b is
// nil. Extra options are applied to the element after the viewer's own.
func NewGame(b backend.Backend, opts ...linecanvas.Option) *Game {
	g := &Game{
		queue: frame.NewQueue(),
		scale: monitorScale,
	}
	base := []linecanvas.Option{
		linecanvas.WithFrameScheduler(g.queue),
		linecanvas.WithDisplayMetrics(linecanvas.MetricsFunc(func() float64 { return g.scale() })),
		linecanvas.WithPresenter(g),
	}
	g.el = linecanvas.NewElement(b, append(base, opts...)...)
	g.el.Connect()
	return g
}

func monitorScale() float64 {
	return ebiten.Monitor().DeviceScaleFactor()
}

// Element returns the hosted element. Commands may be set from any
// goroutine; they are painted on the next update.
func (g *Game) Element() *linecanvas.Element {
	return g.el
}

// Present implements linecanvas.Presenter by keeping a copy of the frame
// for the next Draw.
func (g *Game) Present(img image.Image) error {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pix == nil || g.pix.Rect != rgba.Rect {
		g.pix = image.NewRGBA(rgba.Rect)
	}
	copy(g.pix.Pix, rgba.Pix)
	g.fresh = true
	return nil
}

// Update runs the frame callbacks queued since the last tick.
func (g *Game) Update() error {
	g.queue.RunFrame()
	return nil
}

// Draw blits the last presented frame at device resolution.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pix == nil {
		return
	}
	b := g.pix.Rect
	if g.screen == nil || g.screen.Bounds() != b {
		if g.screen != nil {
			g.screen.Deallocate()
		}
		g.screen = ebiten.NewImage(b.Dx(), b.Dy())
		g.fresh = true
	}
	if g.fresh {
		g.screen.WritePixels(g.pix.Pix)
		g.fresh = false
	}
	screen.DrawImage(g.screen, nil)
}

// Layout sizes the element to the window and renders at device resolution.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outsideW || outsideHeight != g.outsideH {
		g.outsideW, g.outsideH = outsideWidth, outsideHeight
		g.el.SetSize(float64(outsideWidth), float64(outsideHeight))
	}
	return screenSize(outsideWidth, outsideHeight, g.scale())
}

// screenSize matches the element's backing size for a window size.
func screenSize(w, h int, scale float64) (int, int) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	sw, sh := int(math.Floor(float64(w)*scale)), int(math.Floor(float64(h)*scale))
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	return sw, sh
}

// Run opens a window showing g and blocks until it closes.
func Run(g *Game, cfg Config) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.Title == "" {
		cfg.Title = "linecanvas"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	defer func() { _ = g.el.Close() }()
	return ebiten.RunGame(g)
}
