// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/linecanvas/frame"
)

// TestDefaultOptions tests the values used when no option is given.
func TestDefaultOptions(t *testing.T) {
	o := buildOptions(nil)

	if got := o.metrics.DevicePixelRatio(); got != 1 {
		t.Errorf("default ratio = %v, want 1", got)
	}
	if _, ok := o.scheduler.(frame.Immediate); !ok {
		t.Errorf("default scheduler = %T, want frame.Immediate", o.scheduler)
	}
	if _, ok := o.diagnostics.(LogDiagnostics); !ok {
		t.Errorf("default diagnostics = %T, want LogDiagnostics", o.diagnostics)
	}
	if o.strokeColor != color.Black {
		t.Errorf("default stroke color = %v, want black", o.strokeColor)
	}
	if len(o.presenters) != 0 {
		t.Errorf("default presenters = %d, want 0", len(o.presenters))
	}
}

// TestOptionsOverride tests that each option replaces its default.
func TestOptionsOverride(t *testing.T) {
	q := frame.NewQueue()
	var diagnosed int
	red := color.RGBA{R: 255, A: 255}

	o := buildOptions([]Option{
		WithDisplayMetrics(FixedRatio(2)),
		WithFrameScheduler(q),
		WithDiagnostics(DiagnosticsFunc(func(int, Unknown) { diagnosed++ })),
		WithStrokeColor(red),
	})

	if got := o.metrics.DevicePixelRatio(); got != 2 {
		t.Errorf("ratio = %v, want 2", got)
	}
	if o.scheduler != FrameScheduler(q) {
		t.Errorf("scheduler = %T, want the injected queue", o.scheduler)
	}
	o.diagnostics.UnrecognizedCommand(0, Unknown{Tag: "arc"})
	if diagnosed != 1 {
		t.Errorf("injected diagnostics called %d times, want 1", diagnosed)
	}
	if o.strokeColor != color.Color(red) {
		t.Errorf("stroke color = %v, want %v", o.strokeColor, red)
	}
}

// TestOptionsIgnoreNil tests that nil values keep the defaults.
func TestOptionsIgnoreNil(t *testing.T) {
	o := buildOptions([]Option{
		WithDisplayMetrics(nil),
		WithFrameScheduler(nil),
		WithDiagnostics(nil),
		WithStrokeColor(nil),
		WithPresenter(nil),
	})

	if o.metrics == nil || o.scheduler == nil || o.diagnostics == nil || o.strokeColor == nil {
		t.Fatal("nil option replaced a default")
	}
	if len(o.presenters) != 0 {
		t.Errorf("presenters = %d, want 0", len(o.presenters))
	}
}

// TestWithPresenterOrder tests that presenters accumulate in order.
func TestWithPresenterOrder(t *testing.T) {
	var order []int
	p := func(n int) Presenter {
		return PresenterFunc(func(image.Image) error {
			order = append(order, n)
			return nil
		})
	}

	o := buildOptions([]Option{WithPresenter(p(1)), WithPresenter(p(2))})
	for _, pr := range o.presenters {
		_ = pr.Present(nil)
	}

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("presenter order = %v, want [1 2]", order)
	}
}
