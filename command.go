// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"encoding/json"
	"fmt"
	"math"
)

// CommandType identifies the kind of a drawing command.
type CommandType uint8

const (
	CmdMoveTo  CommandType = iota // Reposition the pen
	CmdLineTo                     // Segment from the pen to a point
	CmdLine                       // Segment record with explicit endpoints
	CmdUnknown                    // Unrecognized or malformed record
)

// commandTypeNames are also the wire tags of the JSON encoding.
var commandTypeNames = [...]string{
	CmdMoveTo:  "moveTo",
	CmdLineTo:  "lineTo",
	CmdLine:    "line",
	CmdUnknown: "unknown",
}

// String returns the wire tag of the command type.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return fmt.Sprintf("CommandType(%d)", c)
}

// Command is one drawing command. The set of implementations is closed:
// MoveTo, LineTo, Line and Unknown.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType

	command()
}

// MoveTo relocates the pen without painting.
type MoveTo struct {
	X, Y float64
}

// LineTo paints a straight segment from the pen to (X, Y) and advances the
// pen. A positive finite StrokeWidth becomes the active line width before the
// segment is drawn; zero keeps the current width.
type LineTo struct {
	X, Y        float64
	StrokeWidth float64
}

// Line is a segment record carrying both endpoints. In a sequence it draws
// to (X2, Y2) from the pen; as the first command it also places the pen at
// (X1, Y1).
type Line struct {
	X1, Y1      float64
	X2, Y2      float64
	StrokeWidth float64
}

// Unknown stands for a record the interpreter cannot paint: a foreign tag,
// or a known tag whose fields did not decode.
type Unknown struct {
	// Tag is the record's tag as received.
	Tag string
	// Raw is the undecoded record, when it came from JSON.
	Raw json.RawMessage
	// Reason explains why a known tag was rejected; empty for foreign tags.
	Reason string
}

func (MoveTo) Type() CommandType  { return CmdMoveTo }
func (LineTo) Type() CommandType  { return CmdLineTo }
func (Line) Type() CommandType    { return CmdLine }
func (Unknown) Type() CommandType { return CmdUnknown }

func (MoveTo) command()  {}
func (LineTo) command()  {}
func (Line) command()    {}
func (Unknown) command() {}

// Sequence is an ordered list of commands replayed as one batch.
type Sequence []Command

// Validate reports ErrMalformedSequence when the sequence contains nil
// entries. Individual unknown commands are not an error.
func (s Sequence) Validate() error {
	for i, c := range s {
		if c == nil {
			return fmt.Errorf("%w: nil command at index %d", ErrMalformedSequence, i)
		}
	}
	return nil
}

// validWidth reports whether a 2D canvas would accept w as lineWidth.
func validWidth(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
