// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backendtest provides a backend that records paint operations
// instead of rasterizing them, for tests of code that drives a backend.
package backendtest

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/gogpu/gg"
)

// Op is one recorded backend call.
type Op struct {
	Name string
	Args []float64
}

// String renders the op the way tests compare it, e.g. "lineTo(10,10)".
func (o Op) String() string {
	if len(o.Args) == 0 {
		return o.Name + "()"
	}
	parts := make([]string, len(o.Args))
	for i, a := range o.Args {
		parts[i] = fmt.Sprintf("%g", a)
	}
	return o.Name + "(" + strings.Join(parts, ",") + ")"
}

// Recorder implements backend.Backend by appending every call to a log.
// It is safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	ops       []Op
	transform gg.Matrix
	width     int
	height    int
	color     color.Color

	// StrokeErr, when set, is returned by every Stroke call.
	StrokeErr error
}

// NewRecorder returns an empty recorder with an identity transform.
func NewRecorder() *Recorder {
	return &Recorder{transform: gg.Identity()}
}

func (r *Recorder) record(name string, args ...float64) {
	r.mu.Lock()
	r.ops = append(r.ops, Op{Name: name, Args: args})
	r.mu.Unlock()
}

// BeginPath implements backend.Painter.
func (r *Recorder) BeginPath() { r.record("beginPath") }

// MoveTo implements backend.Painter.
func (r *Recorder) MoveTo(x, y float64) { r.record("moveTo", x, y) }

// LineTo implements backend.Painter.
func (r *Recorder) LineTo(x, y float64) { r.record("lineTo", x, y) }

// SetLineWidth implements backend.Painter.
func (r *Recorder) SetLineWidth(w float64) { r.record("lineWidth", w) }

// Stroke implements backend.Painter.
func (r *Recorder) Stroke() error {
	r.record("stroke")
	return r.StrokeErr
}

// Resize implements backend.Backend.
func (r *Recorder) Resize(lw, lh float64, bw, bh int) error {
	r.mu.Lock()
	r.width, r.height = bw, bh
	r.mu.Unlock()
	r.record("resize", lw, lh, float64(bw), float64(bh))
	return nil
}

// SetTransform implements backend.Backend.
func (r *Recorder) SetTransform(m gg.Matrix) {
	r.mu.Lock()
	r.transform = m
	r.mu.Unlock()
	r.record("setTransform", m.A, m.B, m.C, m.D, m.E, m.F)
}

// Erase implements backend.Backend.
func (r *Recorder) Erase() { r.record("erase") }

// SetStrokeColor implements backend.Backend.
func (r *Recorder) SetStrokeColor(c color.Color) {
	r.mu.Lock()
	r.color = c
	r.mu.Unlock()
	r.record("strokeColor")
}

// Ops returns a copy of the recorded calls.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Trace returns the recorded calls as strings, optionally filtered to the
// given op names.
func (r *Recorder) Trace(names ...string) []string {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	var out []string
	for _, op := range r.Ops() {
		if len(keep) == 0 || keep[op.Name] {
			out = append(out, op.String())
		}
	}
	return out
}

// Count returns how many times the named op was recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops() {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}

// Transform returns the last transform set.
func (r *Recorder) Transform() gg.Matrix {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transform
}

// BackingSize returns the last backing size passed to Resize.
func (r *Recorder) BackingSize() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}
