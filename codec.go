// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DecodeJSON decodes a JSON array of tagged command records:
//
//	[{"tag":"moveTo","x":0,"y":0},
//	 {"tag":"lineTo","x":100,"y":50,"strokeWidth":2},
//	 {"tag":"line","x1":0,"y1":0,"x2":10,"y2":10}]
//
// Records with a foreign tag, or a known tag with missing or non-numeric
// coordinates, decode to Unknown so that replay can diagnose and skip them.
// Input that is not an array of objects carrying a string "tag" is rejected
// with ErrMalformedSequence.
func DecodeJSON(data []byte) (Sequence, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSequence, err)
	}
	if raws == nil {
		return nil, fmt.Errorf("%w: expected an array", ErrMalformedSequence)
	}

	seq := make(Sequence, 0, len(raws))
	for i, raw := range raws {
		cmd, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedSequence, i, err)
		}
		seq = append(seq, cmd)
	}
	return seq, nil
}

// UnmarshalJSON implements json.Unmarshaler with DecodeJSON semantics.
func (s *Sequence) UnmarshalJSON(data []byte) error {
	seq, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*s = seq
	return nil
}

type record map[string]json.RawMessage

func decodeRecord(raw json.RawMessage) (Command, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil || rec == nil {
		return nil, errors.New("not an object")
	}
	tagRaw, ok := rec["tag"]
	if !ok {
		return nil, errors.New("missing tag")
	}
	var tag string
	if err := json.Unmarshal(tagRaw, &tag); err != nil {
		return nil, errors.New("tag is not a string")
	}

	unknown := func(reason string) Command {
		return Unknown{Tag: tag, Raw: raw, Reason: reason}
	}

	switch tag {
	case CmdMoveTo.String():
		x, y, err := rec.point("x", "y")
		if err != nil {
			return unknown(err.Error()), nil
		}
		return MoveTo{X: x, Y: y}, nil

	case CmdLineTo.String():
		x, y, err := rec.point("x", "y")
		if err != nil {
			return unknown(err.Error()), nil
		}
		w, err := rec.optional("strokeWidth")
		if err != nil {
			return unknown(err.Error()), nil
		}
		return LineTo{X: x, Y: y, StrokeWidth: w}, nil

	case CmdLine.String():
		x1, y1, err := rec.point("x1", "y1")
		if err != nil {
			return unknown(err.Error()), nil
		}
		x2, y2, err := rec.point("x2", "y2")
		if err != nil {
			return unknown(err.Error()), nil
		}
		w, err := rec.optional("strokeWidth")
		if err != nil {
			return unknown(err.Error()), nil
		}
		return Line{X1: x1, Y1: y1, X2: x2, Y2: y2, StrokeWidth: w}, nil
	}
	return unknown(""), nil
}

func (r record) number(key string) (float64, error) {
	raw, ok := r[key]
	if !ok {
		return 0, fmt.Errorf("missing %q", key)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%q is not a number", key)
	}
	return v, nil
}

func (r record) point(xKey, yKey string) (x, y float64, err error) {
	if x, err = r.number(xKey); err != nil {
		return 0, 0, err
	}
	if y, err = r.number(yKey); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// optional decodes a number that may be absent or null.
func (r record) optional(key string) (float64, error) {
	raw, ok := r[key]
	if !ok || string(raw) == "null" {
		return 0, nil
	}
	return r.number(key)
}

type wireMoveTo struct {
	Tag string  `json:"tag"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

type wireLineTo struct {
	Tag         string  `json:"tag"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

type wireLine struct {
	Tag         string  `json:"tag"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// MarshalJSON encodes the sequence in the format DecodeJSON reads. Unknown
// commands are written back as received.
func (s Sequence) MarshalJSON() ([]byte, error) {
	out := make([]any, len(s))
	for i, c := range s {
		switch c := c.(type) {
		case MoveTo:
			out[i] = wireMoveTo{Tag: CmdMoveTo.String(), X: c.X, Y: c.Y}
		case LineTo:
			out[i] = wireLineTo{Tag: CmdLineTo.String(), X: c.X, Y: c.Y, StrokeWidth: c.StrokeWidth}
		case Line:
			out[i] = wireLine{Tag: CmdLine.String(), X1: c.X1, Y1: c.Y1, X2: c.X2, Y2: c.Y2, StrokeWidth: c.StrokeWidth}
		case Unknown:
			if len(c.Raw) > 0 {
				out[i] = c.Raw
			} else {
				out[i] = map[string]string{"tag": c.Tag}
			}
		case nil:
			return nil, fmt.Errorf("%w: nil command at index %d", ErrMalformedSequence, i)
		}
	}
	return json.Marshal(out)
}
