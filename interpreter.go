// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/gogpu/linecanvas/backend"
)

// Stats summarizes one replay.
type Stats struct {
	Commands     int // Commands in the sequence
	Segments     int // Segments appended to the path
	Strokes      int // Stroke calls issued
	Unrecognized int // Unknown commands reported
	Skipped      int // Commands dropped for non-finite coordinates
}

// Replay paints seq onto p as one path batch:
//
//  1. Begin a new path and reset the line width to DefaultLineWidth.
//  2. If the first command is a Line, move to its start point.
//  3. Apply each command in order. A segment whose stroke width differs
//     from the active one first strokes what has accumulated, so every
//     segment is painted with the width in effect when it was appended.
//     Unknown commands are reported to diag and skipped.
//  4. Stroke once at the end if anything was appended.
//
// A structurally invalid sequence is rejected with ErrMalformedSequence
// before p is touched. A nil diag reports to Logger().
func Replay(p backend.Painter, seq Sequence, diag Diagnostics) (Stats, error) {
	if err := seq.Validate(); err != nil {
		return Stats{}, err
	}
	if diag == nil {
		diag = LogDiagnostics{}
	}

	r := &replayer{p: p, diag: diag}
	r.stats.Commands = len(seq)

	p.BeginPath()
	p.SetLineWidth(DefaultLineWidth)
	fold(seq, r)
	if r.dirty {
		r.stroke()
	}

	if r.err != nil {
		return r.stats, fmt.Errorf("linecanvas: stroke: %w", r.err)
	}
	return r.stats, nil
}

type replayer struct {
	p     backend.Painter
	diag  Diagnostics
	dirty bool // path holds segments not yet stroked
	stats Stats
	err   error
}

func (r *replayer) stroke() {
	r.stats.Strokes++
	r.dirty = false
	if err := r.p.Stroke(); err != nil && r.err == nil {
		r.err = err
	}
}

func (r *replayer) moveTo(_ int, pt gg.Point) {
	r.p.MoveTo(pt.X, pt.Y)
}

func (r *replayer) lineTo(_ int, seg Segment, implicitStart, widthChanged bool) {
	if widthChanged {
		if r.dirty {
			r.stroke()
			r.p.BeginPath()
			r.p.MoveTo(seg.From.X, seg.From.Y)
		}
		r.p.SetLineWidth(seg.Width)
	}
	if implicitStart {
		r.p.MoveTo(seg.From.X, seg.From.Y)
	}
	r.p.LineTo(seg.To.X, seg.To.Y)
	r.dirty = true
	r.stats.Segments++
}

func (r *replayer) unrecognized(index int, cmd Unknown) {
	r.stats.Unrecognized++
	r.diag.UnrecognizedCommand(index, cmd)
}

func (r *replayer) skipped(int, Command) {
	r.stats.Skipped++
}
