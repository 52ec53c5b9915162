// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"image/color"

	"github.com/gogpu/linecanvas/frame"
)

// Option configures a Surface, Canvas or Element during creation.
//
// Example:
//
//	queue := frame.NewQueue()
//	el := linecanvas.NewElement(nil,
//	    linecanvas.WithDisplayMetrics(linecanvas.FixedRatio(2)),
//	    linecanvas.WithFrameScheduler(queue),
//	)
type Option func(*options)

type options struct {
	metrics     DisplayMetrics
	scheduler   FrameScheduler
	diagnostics Diagnostics
	strokeColor color.Color
	presenters  []Presenter
}

func defaultOptions() options {
	return options{
		metrics:     FixedRatio(1),
		scheduler:   frame.Immediate{},
		diagnostics: LogDiagnostics{},
		strokeColor: color.Black,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDisplayMetrics sets the device pixel ratio provider, read on every
// configuration. The default reports a ratio of 1.
func WithDisplayMetrics(m DisplayMetrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithFrameScheduler sets the scheduler adapters use for repaints. The
// default, frame.Immediate, paints synchronously, which suits batch tools
// but gives up coalescing.
func WithFrameScheduler(s FrameScheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithDiagnostics sets where unrecognized commands are reported.
// The default logs a warning through Logger().
func WithDiagnostics(d Diagnostics) Option {
	return func(o *options) {
		if d != nil {
			o.diagnostics = d
		}
	}
}

// WithStrokeColor sets the stroke color. The default is black, like a
// freshly created 2D canvas.
func WithStrokeColor(c color.Color) Option {
	return func(o *options) {
		if c != nil {
			o.strokeColor = c
		}
	}
}

// WithPresenter adds a presenter called with the backing image after every
// completed render. Presenters run inside the frame, in the order added.
func WithPresenter(p Presenter) Option {
	return func(o *options) {
		if p != nil {
			o.presenters = append(o.presenters, p)
		}
	}
}
