// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package server

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/gogpu/linecanvas"
)

// maxDiagnostics is how many rejected commands a canvas remembers.
const maxDiagnostics = 32

// Diagnostic is one command a render could not paint.
type Diagnostic struct {
	Index  int             `json:"index"`
	Tag    string          `json:"tag"`
	Reason string          `json:"reason,omitempty"`
	Record json.RawMessage `json:"record,omitempty"`
}

// diagnostics logs unknown commands through logrus and keeps the most
// recent ones for the diagnostics endpoint.
type diagnostics struct {
	entry *log.Entry

	mu   sync.Mutex
	ring []Diagnostic
}

var _ linecanvas.Diagnostics = (*diagnostics)(nil)

func newDiagnostics(canvasID string) *diagnostics {
	return &diagnostics{
		entry: log.WithField("canvas", canvasID),
	}
}

func (d *diagnostics) UnrecognizedCommand(index int, cmd linecanvas.Unknown) {
	fields := log.Fields{"index": index, "tag": cmd.Tag}
	if cmd.Reason != "" {
		fields["reason"] = cmd.Reason
	}
	d.entry.WithFields(fields).Warn("unknown command")

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ring = append(d.ring, Diagnostic{
		Index:  index,
		Tag:    cmd.Tag,
		Reason: cmd.Reason,
		Record: cmd.Raw,
	})
	if len(d.ring) > maxDiagnostics {
		d.ring = append(d.ring[:0], d.ring[len(d.ring)-maxDiagnostics:]...)
	}
}

func (d *diagnostics) recent() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.ring))
	copy(out, d.ring)
	return out
}
