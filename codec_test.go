// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	data := []byte(`[
		{"tag":"moveTo","x":1,"y":2},
		{"tag":"lineTo","x":3,"y":4},
		{"tag":"lineTo","x":5,"y":6,"strokeWidth":2.5},
		{"tag":"line","x1":0,"y1":0,"x2":7,"y2":8,"strokeWidth":null}
	]`)

	seq, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	want := Sequence{
		MoveTo{X: 1, Y: 2},
		LineTo{X: 3, Y: 4},
		LineTo{X: 5, Y: 6, StrokeWidth: 2.5},
		Line{X1: 0, Y1: 0, X2: 7, Y2: 8},
	}
	if !reflect.DeepEqual(seq, want) {
		t.Errorf("DecodeJSON() = %#v, want %#v", seq, want)
	}
}

func TestDecodeJSONUnknownRecords(t *testing.T) {
	tests := []struct {
		name       string
		record     string
		wantTag    string
		wantReason bool
	}{
		{"foreign tag", `{"tag":"arc","r":3}`, "arc", false},
		{"missing coordinate", `{"tag":"moveTo","x":1}`, "moveTo", true},
		{"string coordinate", `{"tag":"lineTo","x":"1","y":2}`, "lineTo", true},
		{"bad width", `{"tag":"lineTo","x":1,"y":2,"strokeWidth":"wide"}`, "lineTo", true},
		{"line missing end", `{"tag":"line","x1":1,"y1":2}`, "line", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := DecodeJSON([]byte("[" + tt.record + "]"))
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if len(seq) != 1 {
				t.Fatalf("len = %d, want 1", len(seq))
			}
			u, ok := seq[0].(Unknown)
			if !ok {
				t.Fatalf("got %T, want Unknown", seq[0])
			}
			if u.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", u.Tag, tt.wantTag)
			}
			if (u.Reason != "") != tt.wantReason {
				t.Errorf("Reason = %q, want reason %v", u.Reason, tt.wantReason)
			}
			if string(u.Raw) != tt.record {
				t.Errorf("Raw = %s, want %s", u.Raw, tt.record)
			}
		})
	}
}

func TestDecodeJSONMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"object", `{"tag":"moveTo","x":0,"y":0}`},
		{"null", `null`},
		{"number element", `[1]`},
		{"null element", `[null]`},
		{"missing tag", `[{"x":0,"y":0}]`},
		{"numeric tag", `[{"tag":3}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.data))
			if !errors.Is(err, ErrMalformedSequence) {
				t.Errorf("DecodeJSON(%s) error = %v, want ErrMalformedSequence", tt.data, err)
			}
		})
	}
}

func TestDecodeJSONEmpty(t *testing.T) {
	seq, err := DecodeJSON([]byte(`[]`))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if seq == nil || len(seq) != 0 {
		t.Errorf("DecodeJSON([]) = %#v, want empty non-nil sequence", seq)
	}
}

func TestSequenceJSONField(t *testing.T) {
	var doc struct {
		Commands Sequence `json:"commands"`
	}
	in := `{"commands":[{"tag":"moveTo","x":0,"y":0},{"tag":"foo"},{"tag":"lineTo","x":10,"y":10}]}`
	if err := json.Unmarshal([]byte(in), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(doc.Commands) != 3 {
		t.Fatalf("len = %d, want 3", len(doc.Commands))
	}

	out, err := json.Marshal(doc.Commands)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `[{"tag":"moveTo","x":0,"y":0},{"tag":"foo"},{"tag":"lineTo","x":10,"y":10}]`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestSequenceMarshalNil(t *testing.T) {
	_, err := json.Marshal(Sequence{MoveTo{}, nil})
	if !errors.Is(err, ErrMalformedSequence) {
		t.Errorf("Marshal() error = %v, want ErrMalformedSequence", err)
	}
}

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{MoveTo{}, "moveTo"},
		{LineTo{}, "lineTo"},
		{Line{}, "line"},
		{Unknown{Tag: "foo"}, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.cmd.Type().String(); got != tt.want {
			t.Errorf("%T.Type() = %q, want %q", tt.cmd, got, tt.want)
		}
	}
	if got := CommandType(42).String(); got != "CommandType(42)" {
		t.Errorf("CommandType(42).String() = %q", got)
	}
}

func TestSequenceValidate(t *testing.T) {
	if err := (Sequence{MoveTo{}, Unknown{Tag: "x"}}).Validate(); err != nil {
		t.Errorf("Validate() with unknown command = %v, want nil", err)
	}
	if err := (Sequence{MoveTo{}, nil}).Validate(); !errors.Is(err, ErrMalformedSequence) {
		t.Errorf("Validate() with nil entry = %v, want ErrMalformedSequence", err)
	}
	if err := Sequence(nil).Validate(); err != nil {
		t.Errorf("Validate() on nil sequence = %v, want nil", err)
	}
}
