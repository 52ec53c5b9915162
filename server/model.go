// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package server

import (
	"encoding/json"
	"time"

	"github.com/gogpu/linecanvas"
)

type createRequest struct {
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Ratio    float64         `json:"ratio,omitempty"`
	Backend  string          `json:"backend,omitempty"`
	Commands json.RawMessage `json:"commands,omitempty"`
}

// CanvasView describes one canvas in responses.
type CanvasView struct {
	ID            string            `json:"id"`
	Backend       string            `json:"backend"`
	Created       time.Time         `json:"created"`
	Attributes    map[string]string `json:"attributes"`
	Width         float64           `json:"width"`
	Height        float64           `json:"height"`
	BackingWidth  int               `json:"backingWidth"`
	BackingHeight int               `json:"backingHeight"`
	Ratio         float64           `json:"ratio"`
	Renders       int               `json:"renders"`
	Commands      int               `json:"commands"`
	Stats         StatsView         `json:"stats"`
}

// StatsView mirrors linecanvas.Stats.
type StatsView struct {
	Segments     int `json:"segments"`
	Strokes      int `json:"strokes"`
	Unrecognized int `json:"unrecognized"`
	Skipped      int `json:"skipped"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
}

// Error types.
const (
	errInvalidRequest  = "Client.InvalidRequest"
	errMalformed       = "Client.MalformedCommands"
	errNotFound        = "Client.CanvasNotFound"
	errTooManyCanvases = "Client.TooManyCanvases"
	errTooLarge        = "Client.CanvasTooLarge"
	errBackend         = "Server.BackendUnavailable"
	errRender          = "Server.RenderFailed"
)

func (c *canvas) view() CanvasView {
	info := c.el.Info()
	return CanvasView{
		ID:            c.id,
		Backend:       c.backend,
		Created:       c.created,
		Attributes:    info.Attributes,
		Width:         info.LogicalWidth,
		Height:        info.LogicalHeight,
		BackingWidth:  info.BackingWidth,
		BackingHeight: info.BackingHeight,
		Ratio:         info.Ratio,
		Renders:       info.Renders,
		Commands:      info.Commands,
		Stats:         statsView(info.LastStats),
	}
}

func statsView(s linecanvas.Stats) StatsView {
	return StatsView{
		Segments:     s.Segments,
		Strokes:      s.Strokes,
		Unrecognized: s.Unrecognized,
		Skipped:      s.Skipped,
	}
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Canvases   int        `json:"canvases"`
	ImageCache CacheStats `json:"imageCache"`
}
