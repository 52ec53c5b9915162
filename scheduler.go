// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import "sync"

// FrameScheduler runs callbacks at the next display refresh opportunity.
// Callbacks requested before a refresh run in request order during that
// refresh. Implementations live in the frame package, the viewer package
// and the browser backend.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// SchedulerFunc adapts a function to FrameScheduler.
type SchedulerFunc func(fn func())

// RequestFrame implements FrameScheduler.
func (f SchedulerFunc) RequestFrame(fn func()) { f(fn) }

// frameRequest keeps at most one callback outstanding per adapter, so that
// any number of updates within one refresh window produce a single paint.
type frameRequest struct {
	mu        sync.Mutex
	scheduler FrameScheduler
	pending   bool
	run       func()
}

// request schedules run unless a request is already outstanding.
func (f *frameRequest) request() {
	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return
	}
	f.pending = true
	f.mu.Unlock()

	f.scheduler.RequestFrame(f.fire)
}

func (f *frameRequest) fire() {
	f.mu.Lock()
	f.pending = false
	f.mu.Unlock()
	f.run()
}
