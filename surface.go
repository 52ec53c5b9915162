// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/gogpu/linecanvas/backend"
	"github.com/gogpu/linecanvas/backend/software"
)

// Surface owns a drawing backend and keeps its backing buffer matched to
// the logical size times the device pixel ratio. Commands are always given
// in logical units; the surface transform maps them to backing pixels and
// offsets them by half a logical unit so 1-unit lines land on pixel
// centers.
//
// Surface is NOT safe for concurrent use. Canvas and Element serialize
// access to their surface.
type Surface struct {
	b    backend.Backend
	opts options

	logicalW, logicalH float64
	backingW, backingH int
	ratio              float64
	transform          gg.Matrix
}

// NewSurface returns a zero-size surface painting into b. A nil b selects
// the gg software backend.
func NewSurface(b backend.Backend, opts ...Option) *Surface {
	if b == nil {
		b = software.New()
	}
	s := &Surface{
		b:         b,
		opts:      buildOptions(opts),
		ratio:     1,
		transform: gg.Identity(),
	}
	s.b.SetStrokeColor(s.opts.strokeColor)
	return s
}

// Configure sizes the surface for a logical width and height. The device
// pixel ratio is read from the display metrics on every call. Negative and
// non-finite sizes are treated as zero. The backing buffer is
// floor(logical * ratio) pixels in each dimension and the transform becomes
// a scale by the ratio.
//
// Configure discards painted content, even when the size is unchanged.
// Backend failures are logged and leave the surface empty.
func (s *Surface) Configure(logicalWidth, logicalHeight float64) {
	w, h := logicalLength(logicalWidth), logicalLength(logicalHeight)
	r := devicePixelRatio(s.opts.metrics)
	bw, bh := BackingSize(w, h, r)

	log := Logger()
	if w != logicalWidth || h != logicalHeight {
		log.Debug("linecanvas: invalid size treated as zero",
			slog.Float64("width", logicalWidth),
			slog.Float64("height", logicalHeight))
	}
	if w > 0 && h > 0 && bw == 0 {
		log.Debug("linecanvas: backing size out of range",
			slog.Float64("width", w),
			slog.Float64("height", h),
			slog.Float64("ratio", r),
			slog.Int("max", MaxBackingSize))
	}

	s.logicalW, s.logicalH = w, h
	s.ratio = r
	s.backingW, s.backingH = bw, bh

	if err := s.b.Resize(w, h, bw, bh); err != nil {
		log.Debug("linecanvas: resize failed",
			slog.Float64("width", w),
			slog.Float64("height", h),
			slog.Float64("ratio", r),
			slog.String("error", err.Error()))
		s.backingW, s.backingH = 0, 0
		_ = s.b.Resize(w, h, 0, 0)
	}
	s.b.SetStrokeColor(s.opts.strokeColor)
	s.setTransform(gg.Scale(r, r))
	log.Debug("linecanvas: configured",
		slog.Float64("width", w),
		slog.Float64("height", h),
		slog.Float64("ratio", r),
		slog.Int("backingWidth", s.backingW),
		slog.Int("backingHeight", s.backingH))
}

// Clear erases the whole backing buffer and installs the drawing transform:
// scale by the ratio, then translate by half a logical unit.
func (s *Surface) Clear() {
	s.setTransform(gg.Identity())
	s.b.Erase()
	s.setTransform(drawingTransform(s.ratio))
}

// drawingTransform maps logical coordinates to backing pixels with the
// half-unit offset applied first.
func drawingTransform(ratio float64) gg.Matrix {
	return gg.Scale(ratio, ratio).Multiply(gg.Translate(0.5, 0.5))
}

func (s *Surface) setTransform(m gg.Matrix) {
	s.transform = m
	s.b.SetTransform(m)
}

// Draw replays seq onto the surface without clearing it first.
func (s *Surface) Draw(seq Sequence) (Stats, error) {
	return Replay(s.b, seq, s.opts.diagnostics)
}

// Render validates seq, clears the surface, draws seq and hands the result
// to the configured presenters. An invalid sequence leaves the previous
// content in place.
func (s *Surface) Render(seq Sequence) (Stats, error) {
	if err := seq.Validate(); err != nil {
		return Stats{}, err
	}
	s.Clear()
	stats, err := s.Draw(seq)
	if err != nil {
		return stats, err
	}
	return stats, s.present()
}

// present passes the current image to every presenter. Presenter failures
// are logged; the first one is returned.
func (s *Surface) present() error {
	if len(s.opts.presenters) == 0 {
		return nil
	}
	img := s.Image()
	if img == nil {
		return nil
	}
	var first error
	for _, p := range s.opts.presenters {
		if err := p.Present(img); err != nil {
			Logger().Warn("linecanvas: present failed", slog.String("error", err.Error()))
			if first == nil {
				first = fmt.Errorf("linecanvas: present: %w", err)
			}
		}
	}
	return first
}

// LogicalSize returns the size in logical units, as last configured.
func (s *Surface) LogicalSize() (width, height float64) {
	return s.logicalW, s.logicalH
}

// BackingSize returns the size of the backing buffer in pixels.
func (s *Surface) BackingSize() (width, height int) {
	return s.backingW, s.backingH
}

// Ratio returns the device pixel ratio used by the last Configure.
func (s *Surface) Ratio() float64 {
	return s.ratio
}

// Transform returns the transform currently installed on the backend.
func (s *Surface) Transform() gg.Matrix {
	return s.transform
}

// Backend returns the backend the surface paints into.
func (s *Surface) Backend() backend.Backend {
	return s.b
}

// Image returns the backing buffer contents, or nil when the backend cannot
// snapshot or the surface is empty.
func (s *Surface) Image() image.Image {
	snap, ok := s.b.(backend.Snapshotter)
	if !ok || s.backingW == 0 || s.backingH == 0 {
		return nil
	}
	return snap.Image()
}

// EncodePNG writes the backing buffer as PNG, using the backend's encoder
// when it has one.
func (s *Surface) EncodePNG(w io.Writer) error {
	if s.backingW == 0 || s.backingH == 0 {
		return ErrEmptySurface
	}
	if enc, ok := s.b.(backend.PNGEncoder); ok {
		return enc.EncodePNG(w)
	}
	img := s.Image()
	if img == nil {
		return ErrEmptySurface
	}
	return png.Encode(w, img)
}

// Close releases backend resources when the backend holds any.
func (s *Surface) Close() error {
	if c, ok := s.b.(backend.Closer); ok {
		return c.Close()
	}
	return nil
}
