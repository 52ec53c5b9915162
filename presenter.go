// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import "image"

// Presenter receives the backing image after a render completes, for
// display outside the backend (a GPU texture, an LCD panel, a window).
// The image is only valid for the duration of the call.
type Presenter interface {
	Present(img image.Image) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(img image.Image) error

// Present implements Presenter.
func (f PresenterFunc) Present(img image.Image) error { return f(img) }
