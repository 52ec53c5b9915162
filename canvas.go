// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"log/slog"
	"sync"

	"github.com/gogpu/linecanvas/backend"
)

// Canvas is the imperative adapter: the host pushes Clear and Draw
// operations and the canvas applies them at the next frame.
//
// All operations requested within one refresh window run in a single frame
// callback, in request order, after any pending resize. A Clear or Resize
// discards the draws queued before it in the same window, since their
// pixels would be erased anyway.
//
// After Close, Resize, Clear and Draw schedule nothing and return ErrClosed.
//
// Canvas is safe for concurrent use.
type Canvas struct {
	mu      sync.Mutex
	surface *Surface
	frame   *frameRequest

	resize *[2]float64
	ops    []canvasOp
	closed bool
	last   Stats
}

type canvasOp struct {
	clear bool
	seq   Sequence
}

// NewCanvas creates a canvas over b with the given logical size. The
// initial configuration is scheduled like any other operation.
func NewCanvas(b backend.Backend, width, height float64, opts ...Option) *Canvas {
	s := NewSurface(b, opts...)
	c := &Canvas{surface: s}
	c.frame = &frameRequest{scheduler: s.opts.scheduler, run: c.runFrame}
	_ = c.Resize(width, height)
	return c
}

// Resize schedules a reconfiguration. It runs before any operation queued
// after it in the same window and discards content, as resizing a canvas
// does.
func (c *Canvas) Resize(width, height float64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.resize = &[2]float64{width, height}
	c.ops = c.ops[:0]
	c.mu.Unlock()
	c.frame.request()
	return nil
}

// Clear schedules an erase of the whole surface.
func (c *Canvas) Clear() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.ops = append(c.ops[:0], canvasOp{clear: true})
	c.mu.Unlock()
	c.frame.request()
	return nil
}

// Draw schedules seq to be painted over the current content. A structurally
// invalid sequence is rejected immediately and nothing is scheduled.
func (c *Canvas) Draw(seq Sequence) error {
	if err := seq.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.ops = append(c.ops, canvasOp{seq: seq})
	c.mu.Unlock()
	c.frame.request()
	return nil
}

// Close drops pending operations and releases the backend. Frames already
// requested become no-ops.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.ops = nil
	c.resize = nil
	return c.surface.Close()
}

// Surface returns the underlying surface. Reading it outside a frame
// callback races with painting unless the scheduler is synchronous.
func (c *Canvas) Surface() *Surface {
	return c.surface
}

// LastStats returns the statistics of the last draw.
func (c *Canvas) LastStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Canvas) runFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	resize, ops := c.resize, c.ops
	c.resize, c.ops = nil, nil

	if resize != nil {
		c.surface.Configure(resize[0], resize[1])
	}
	for _, op := range ops {
		if op.clear {
			c.surface.Clear()
			continue
		}
		stats, err := c.surface.Draw(op.seq)
		c.last = stats
		if err != nil {
			Logger().Warn("linecanvas: draw failed", slog.String("error", err.Error()))
		}
	}
	if resize != nil || len(ops) > 0 {
		_ = c.surface.present()
	}
}
