// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import "github.com/gogpu/gg"

// DefaultLineWidth is the line width every replay starts with.
const DefaultLineWidth = 1.0

// PenState is the state of the virtual pen.
type PenState uint8

const (
	// Unpositioned is the initial state: no MoveTo has been seen yet.
	Unpositioned PenState = iota
	// Positioned means the pen has a current point.
	Positioned
)

// Pen is the virtual cursor threaded through a replay. It is a value;
// transitions return a new Pen.
type Pen struct {
	State PenState
	X, Y  float64
}

// MoveTo returns the pen positioned at (x, y).
func (p Pen) MoveTo(x, y float64) Pen {
	return Pen{State: Positioned, X: x, Y: y}
}

// LineTo returns the start of a segment ending at (x, y) and the pen after
// it. An unpositioned pen starts segments at the origin.
func (p Pen) LineTo(x, y float64) (from gg.Point, next Pen) {
	return p.Point(), p.MoveTo(x, y)
}

// Point returns the pen position, or the origin when unpositioned.
func (p Pen) Point() gg.Point {
	if p.State == Unpositioned {
		return gg.Pt(0, 0)
	}
	return gg.Pt(p.X, p.Y)
}

// Segment is one straight stroke produced by a replay, in logical units.
type Segment struct {
	From, To gg.Point
	Width    float64
}

// visitor receives the effects of a sequence in order.
type visitor interface {
	// moveTo places the pen; index is -1 for the priming move.
	moveTo(index int, p gg.Point)
	// lineTo appends seg. implicitStart is set when the pen was
	// unpositioned; widthChanged when seg.Width differs from the previous
	// segment's width.
	lineTo(index int, seg Segment, implicitStart, widthChanged bool)
	unrecognized(index int, cmd Unknown)
	skipped(index int, cmd Command)
}

// fold walks seq through the pen state machine. It is the single definition
// of command semantics shared by Replay and Trace.
func fold(seq Sequence, v visitor) {
	pen := Pen{}
	width := DefaultLineWidth

	if len(seq) > 0 {
		if first, ok := seq[0].(Line); ok && finite(first.X1, first.Y1) {
			pen = pen.MoveTo(first.X1, first.Y1)
			v.moveTo(-1, pen.Point())
		}
	}

	lineTo := func(i int, cmd Command, x, y, w float64) {
		if !finite(x, y) {
			v.skipped(i, cmd)
			return
		}
		changed := false
		if validWidth(w) && w != width {
			width = w
			changed = true
		}
		implicit := pen.State == Unpositioned
		from, next := pen.LineTo(x, y)
		pen = next
		v.lineTo(i, Segment{From: from, To: gg.Pt(x, y), Width: width}, implicit, changed)
	}

	for i, cmd := range seq {
		switch c := cmd.(type) {
		case MoveTo:
			if !finite(c.X, c.Y) {
				v.skipped(i, c)
				continue
			}
			pen = pen.MoveTo(c.X, c.Y)
			v.moveTo(i, pen.Point())
		case LineTo:
			lineTo(i, c, c.X, c.Y, c.StrokeWidth)
		case Line:
			lineTo(i, c, c.X2, c.Y2, c.StrokeWidth)
		case Unknown:
			v.unrecognized(i, c)
		}
	}
}

// Trace returns the segments a sequence paints, in order, without touching
// any surface. Unknown and non-finite commands contribute nothing.
func Trace(seq Sequence) []Segment {
	t := &tracer{}
	fold(seq, t)
	return t.segments
}

type tracer struct {
	segments []Segment
}

func (t *tracer) moveTo(int, gg.Point) {}

func (t *tracer) lineTo(_ int, seg Segment, _, _ bool) {
	t.segments = append(t.segments, seg)
}

func (t *tracer) unrecognized(int, Unknown) {}
func (t *tracer) skipped(int, Command)      {}
