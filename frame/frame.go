// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame provides frame schedulers for hosts without a display
// refresh callback of their own.
//
// Queue collects callbacks until the host runs a frame, the way a browser
// collects requestAnimationFrame callbacks between refreshes. Run drives a
// Queue from a ticker. Immediate runs every callback synchronously.
package frame

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultHz is the refresh rate Run uses when none is given.
const DefaultHz = 60

// Immediate runs each callback as soon as it is requested.
type Immediate struct{}

// RequestFrame calls fn before returning.
func (Immediate) RequestFrame(fn func()) { fn() }

// Queue holds callbacks for the next frame. Callbacks requested while a
// frame is running are deferred to the following frame.
//
// Queue is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	frames  uint64
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// RequestFrame appends fn to the next frame. Nil callbacks are ignored.
func (q *Queue) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// RunFrame runs the callbacks queued so far in request order and returns
// how many ran.
func (q *Queue) RunFrame() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.frames++
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending returns the number of callbacks waiting for the next frame.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Frames returns how many frames have run.
func (q *Queue) Frames() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.frames
}

// Config controls Run.
type Config struct {
	// Hz is the refresh rate. Zero or negative selects DefaultHz.
	Hz int
	// Frames stops the loop after this many frames. Zero runs until the
	// context is done.
	Frames uint64
	// OnFrame, if set, is called after each frame with the number of
	// callbacks that ran.
	OnFrame func(ran int)
}

// Run drains q once per tick until ctx is done or cfg.Frames frames have
// run. It returns ctx.Err() on cancellation and nil when the frame budget
// is reached.
func Run(ctx context.Context, q *Queue, cfg Config) error {
	if cfg.Hz <= 0 {
		cfg.Hz = DefaultHz
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("frame: invalid refresh rate: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			ran := q.RunFrame()
			if cfg.OnFrame != nil {
				cfg.OnFrame(ran)
			}
			n++
			if cfg.Frames > 0 && n >= cfg.Frames {
				return nil
			}
		}
	}
}
