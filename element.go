// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/linecanvas/backend"
)

// Observed attribute names. Changing either one reconfigures the surface.
const (
	AttrWidth  = "width"
	AttrHeight = "height"
)

// ObservedAttributes lists the attributes whose changes trigger a render.
var ObservedAttributes = []string{AttrWidth, AttrHeight}

// Element is the declarative adapter: the host states the current size and
// command sequence, and the element repaints to match at the next frame.
//
// Each render configures the surface if the size changed, clears it, and
// replays the latest sequence. Any number of changes within one refresh
// window produce a single render with the latest values. Nothing is
// painted while the element is disconnected.
//
// Element is safe for concurrent use.
type Element struct {
	mu      sync.Mutex
	surface *Surface
	frame   *frameRequest

	attrs     map[string]string
	commands  Sequence
	connected bool
	sized     bool // surface matches attrs

	renders int
	last    Stats
}

// NewElement creates a disconnected element painting into b. A nil b
// selects the gg software backend.
func NewElement(b backend.Backend, opts ...Option) *Element {
	s := NewSurface(b, opts...)
	e := &Element{
		surface: s,
		attrs:   make(map[string]string),
	}
	e.frame = &frameRequest{scheduler: s.opts.scheduler, run: e.runFrame}
	return e
}

func isObserved(name string) bool {
	return name == AttrWidth || name == AttrHeight
}

// SetAttribute sets an attribute. Observed attributes schedule a render
// when their value changes.
func (e *Element) SetAttribute(name, value string) {
	e.mu.Lock()
	old, had := e.attrs[name]
	e.attrs[name] = value
	changed := isObserved(name) && (!had || old != value)
	if changed {
		e.sized = false
	}
	e.mu.Unlock()

	if changed {
		e.schedule()
	}
}

// RemoveAttribute removes an attribute. A removed size attribute reads
// as zero.
func (e *Element) RemoveAttribute(name string) {
	e.mu.Lock()
	_, had := e.attrs[name]
	delete(e.attrs, name)
	changed := had && isObserved(name)
	if changed {
		e.sized = false
	}
	e.mu.Unlock()

	if changed {
		e.schedule()
	}
}

// Attribute returns the value of an attribute and whether it is set.
func (e *Element) Attribute(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.attrs[name]
	return v, ok
}

// SetSize sets both size attributes at once.
func (e *Element) SetSize(width, height float64) {
	e.SetAttribute(AttrWidth, FormatLength(width))
	e.SetAttribute(AttrHeight, FormatLength(height))
}

// Size returns the logical size the attributes describe.
func (e *Element) Size() (width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ParseLength(e.attrs[AttrWidth]), ParseLength(e.attrs[AttrHeight])
}

// SetCommands replaces the command sequence and schedules a render.
// A structurally invalid sequence is rejected and the previous one kept.
func (e *Element) SetCommands(seq Sequence) error {
	if err := seq.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.commands = seq
	e.mu.Unlock()
	e.schedule()
	return nil
}

// SetCommandsJSON decodes data with DecodeJSON and assigns the result.
func (e *Element) SetCommandsJSON(data []byte) error {
	seq, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	return e.SetCommands(seq)
}

// Commands returns the current command sequence.
func (e *Element) Commands() Sequence {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commands
}

// Connect attaches the element to its host and schedules the first render.
func (e *Element) Connect() {
	e.mu.Lock()
	e.connected = true
	e.sized = false
	e.mu.Unlock()
	e.schedule()
}

// Disconnect detaches the element. Pending frames become no-ops.
func (e *Element) Disconnect() {
	e.mu.Lock()
	e.connected = false
	e.mu.Unlock()
}

// Connected reports whether the element is attached.
func (e *Element) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}

// ElementInfo is a consistent snapshot of an element's state.
type ElementInfo struct {
	Attributes    map[string]string
	Connected     bool
	LogicalWidth  float64
	LogicalHeight float64
	BackingWidth  int
	BackingHeight int
	Ratio         float64
	Renders       int
	Commands      int
	LastStats     Stats
}

// Info returns the element's state as of the last completed frame.
func (e *Element) Info() ElementInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	attrs := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		attrs[k] = v
	}
	info := ElementInfo{
		Attributes: attrs,
		Connected:  e.connected,
		Ratio:      e.surface.Ratio(),
		Renders:    e.renders,
		Commands:   len(e.commands),
		LastStats:  e.last,
	}
	info.LogicalWidth, info.LogicalHeight = e.surface.LogicalSize()
	info.BackingWidth, info.BackingHeight = e.surface.BackingSize()
	return info
}

// Renders returns how many renders have completed.
func (e *Element) Renders() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renders
}

// LastStats returns the statistics of the last render.
func (e *Element) LastStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Snapshot returns the painted pixels, or nil before the first render.
func (e *Element) Snapshot() image.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.Image()
}

// EncodePNG writes the painted pixels as PNG.
func (e *Element) EncodePNG(w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.EncodePNG(w)
}

// Surface returns the underlying surface.
func (e *Element) Surface() *Surface {
	return e.surface
}

// Close disconnects the element and releases the backend.
func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connected = false
	return e.surface.Close()
}

// schedule requests a frame only while connected; Connect schedules the
// render for changes made before it.
func (e *Element) schedule() {
	if e.Connected() {
		e.frame.request()
	}
}

func (e *Element) runFrame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.connected {
		return
	}

	if !e.sized {
		e.surface.Configure(ParseLength(e.attrs[AttrWidth]), ParseLength(e.attrs[AttrHeight]))
		e.sized = true
	}
	stats, err := e.surface.Render(e.commands)
	e.renders++
	e.last = stats
	if err != nil {
		Logger().Warn("linecanvas: render failed", slog.String("error", err.Error()))
	}
}
