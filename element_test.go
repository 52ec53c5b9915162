// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"errors"
	"image"
	"reflect"
	"testing"

	"github.com/gogpu/linecanvas/backend/backendtest"
	"github.com/gogpu/linecanvas/backend/software"
	"github.com/gogpu/linecanvas/frame"
)

func newQueuedElement(opts ...Option) (*Element, *backendtest.Recorder, *frame.Queue) {
	rec := backendtest.NewRecorder()
	q := frame.NewQueue()
	opts = append([]Option{WithFrameScheduler(q)}, opts...)
	return NewElement(rec, opts...), rec, q
}

func TestElementCoalescesUpdates(t *testing.T) {
	e, rec, q := newQueuedElement()
	e.SetSize(10, 10)
	e.Connect()
	q.RunFrame()
	rec.Reset()

	const k = 5
	for i := 1; i <= k; i++ {
		_ = e.SetCommands(Sequence{MoveTo{X: float64(i), Y: 0}, LineTo{X: 9, Y: 9}})
	}
	if q.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", q.Pending())
	}
	q.RunFrame()

	if got := rec.Trace("moveTo"); !reflect.DeepEqual(got, []string{"moveTo(5,0)"}) {
		t.Errorf("moves = %v, want only the last sequence", got)
	}
	if e.Renders() != 2 {
		t.Errorf("Renders() = %d, want 2", e.Renders())
	}
}

func TestElementSizeAndCommandsInOneFrame(t *testing.T) {
	e, rec, q := newQueuedElement(WithDisplayMetrics(FixedRatio(2)))
	e.Connect()
	e.SetAttribute(AttrWidth, "100")
	e.SetAttribute(AttrHeight, "50")
	_ = e.SetCommands(Sequence{MoveTo{}, LineTo{X: 100, Y: 50}})
	q.RunFrame()

	want := []string{"resize(100,50,200,100)", "erase()", "lineTo(100,50)", "stroke()"}
	if got := rec.Trace("resize", "erase", "lineTo", "stroke"); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
	if e.Renders() != 1 {
		t.Errorf("Renders() = %d, want 1", e.Renders())
	}
}

func TestElementConfiguresOnlyOnSizeChange(t *testing.T) {
	e, rec, q := newQueuedElement()
	e.SetSize(10, 10)
	e.Connect()
	q.RunFrame()

	_ = e.SetCommands(Sequence{})
	q.RunFrame()
	e.SetAttribute(AttrWidth, "10")
	if q.Pending() != 0 {
		t.Error("setting an unchanged width scheduled a frame")
	}
	e.SetAttribute("title", "x")
	if q.Pending() != 0 {
		t.Error("unobserved attribute scheduled a frame")
	}
	e.SetAttribute(AttrWidth, "12")
	q.RunFrame()

	if n := rec.Count("resize"); n != 2 {
		t.Errorf("resize count = %d, want 2", n)
	}
	if w, _ := e.Surface().LogicalSize(); w != 12 {
		t.Errorf("logical width = %v, want 12", w)
	}
}

func TestElementRemoveAttribute(t *testing.T) {
	e, rec, q := newQueuedElement()
	e.SetSize(10, 10)
	e.Connect()
	q.RunFrame()

	e.RemoveAttribute(AttrHeight)
	q.RunFrame()
	if _, ok := e.Attribute(AttrHeight); ok {
		t.Error("height still set after RemoveAttribute")
	}
	if w, h := rec.BackingSize(); w != 0 || h != 0 {
		t.Errorf("BackingSize() = %dx%d, want 0x0", w, h)
	}
}

func TestElementDisconnected(t *testing.T) {
	e, rec, q := newQueuedElement()
	rec.Reset()
	e.SetSize(10, 10)
	_ = e.SetCommands(Sequence{MoveTo{}, LineTo{X: 1, Y: 1}})
	if q.Pending() != 0 {
		t.Fatalf("disconnected element scheduled %d frames", q.Pending())
	}

	e.Connect()
	e.Disconnect()
	q.RunFrame()

	if ops := rec.Ops(); len(ops) != 0 {
		t.Errorf("disconnected element painted %v", ops)
	}
	if e.Renders() != 0 {
		t.Errorf("Renders() = %d, want 0", e.Renders())
	}
}

func TestElementMalformedKeepsCommands(t *testing.T) {
	e, _, q := newQueuedElement()
	e.SetSize(10, 10)
	e.Connect()
	good := Sequence{MoveTo{}, LineTo{X: 1, Y: 1}}
	_ = e.SetCommands(good)
	q.RunFrame()

	if err := e.SetCommandsJSON([]byte(`{"tag":"moveTo"}`)); !errors.Is(err, ErrMalformedSequence) {
		t.Errorf("SetCommandsJSON() error = %v, want ErrMalformedSequence", err)
	}
	if err := e.SetCommands(Sequence{nil}); !errors.Is(err, ErrMalformedSequence) {
		t.Errorf("SetCommands() error = %v, want ErrMalformedSequence", err)
	}
	if !reflect.DeepEqual(e.Commands(), good) {
		t.Errorf("Commands() = %v, want previous sequence", e.Commands())
	}
	if q.Pending() != 0 {
		t.Errorf("malformed assignment scheduled %d frames", q.Pending())
	}
}

func TestElementUnknownCommandDiagnosed(t *testing.T) {
	var tags []string
	e, _, q := newQueuedElement(WithDiagnostics(DiagnosticsFunc(func(_ int, cmd Unknown) {
		tags = append(tags, cmd.Tag)
	})))
	e.SetSize(20, 20)
	e.Connect()

	err := e.SetCommandsJSON([]byte(`[{"tag":"moveTo","x":0,"y":0},{"tag":"foo"},{"tag":"lineTo","x":10,"y":10}]`))
	if err != nil {
		t.Fatal(err)
	}
	q.RunFrame()

	if !reflect.DeepEqual(tags, []string{"foo"}) {
		t.Errorf("diagnosed %v, want [foo]", tags)
	}
	if s := e.LastStats(); s.Segments != 1 || s.Unrecognized != 1 {
		t.Errorf("LastStats() = %+v", s)
	}
}

func TestElementSnapshot(t *testing.T) {
	e := NewElement(software.New(), WithDisplayMetrics(FixedRatio(2)))
	defer func() { _ = e.Close() }()

	if e.Snapshot() != nil {
		t.Error("Snapshot() before first render should be nil")
	}
	e.SetSize(100, 50)
	_ = e.SetCommands(Sequence{MoveTo{X: 0, Y: 0}, LineTo{X: 100, Y: 50}})
	e.Connect()

	img := e.Snapshot()
	if img == nil {
		t.Fatal("Snapshot() = nil after render")
	}
	if got := img.Bounds().Size(); got != image.Pt(200, 100) {
		t.Errorf("snapshot size = %v, want 200x100", got)
	}
	if a := alphaAt(img, 101, 51); a == 0 {
		t.Error("diagonal midpoint is not painted")
	}
}

func TestElementInfo(t *testing.T) {
	e, _, q := newQueuedElement(WithDisplayMetrics(FixedRatio(1.5)))
	e.SetSize(20, 10)
	e.SetAttribute("title", "chart")
	_ = e.SetCommands(Sequence{MoveTo{}, LineTo{X: 1, Y: 1}})
	e.Connect()

	before := e.Info()
	if before.Renders != 0 || before.BackingWidth != 0 {
		t.Errorf("Info() before frame = %+v", before)
	}
	q.RunFrame()

	info := e.Info()
	if !info.Connected || info.Renders != 1 || info.Commands != 2 {
		t.Errorf("Info() = %+v", info)
	}
	if info.BackingWidth != 30 || info.BackingHeight != 15 || info.Ratio != 1.5 {
		t.Errorf("backing = %dx%d @%v, want 30x15 @1.5", info.BackingWidth, info.BackingHeight, info.Ratio)
	}
	if info.Attributes["title"] != "chart" || info.Attributes[AttrWidth] != "20" {
		t.Errorf("Attributes = %v", info.Attributes)
	}
	info.Attributes["title"] = "changed"
	if v, _ := e.Attribute("title"); v != "chart" {
		t.Error("Info() attributes alias the element's map")
	}
}
