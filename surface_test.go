// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/linecanvas/backend/backendtest"
	"github.com/gogpu/linecanvas/backend/software"
)

func alphaAt(img image.Image, x, y int) uint32 {
	_, _, _, a := img.At(x, y).RGBA()
	return a
}

func TestSurfaceBackingSize(t *testing.T) {
	tests := []struct {
		ratio  float64
		w, h   float64
		bw, bh int
	}{
		{1, 100, 50, 100, 50},
		{1.5, 100, 50, 150, 75},
		{2, 100, 50, 200, 100},
		{3, 100, 50, 300, 150},
		{1.5, 33, 11, 49, 16},
		{2, 0.4, 10, 0, 0},
	}

	for _, tt := range tests {
		rec := backendtest.NewRecorder()
		s := NewSurface(rec, WithDisplayMetrics(FixedRatio(tt.ratio)))
		s.Configure(tt.w, tt.h)

		bw, bh := s.BackingSize()
		if bw != tt.bw || bh != tt.bh {
			t.Errorf("ratio %v, %vx%v: BackingSize() = %dx%d, want %dx%d",
				tt.ratio, tt.w, tt.h, bw, bh, tt.bw, tt.bh)
		}
		if rbw, rbh := rec.BackingSize(); rbw != bw || rbh != bh {
			t.Errorf("backend sized %dx%d, surface reports %dx%d", rbw, rbh, bw, bh)
		}
		if lw, lh := s.LogicalSize(); lw != tt.w || lh != tt.h {
			t.Errorf("LogicalSize() = %vx%v, want %vx%v", lw, lh, tt.w, tt.h)
		}
		if got, want := s.Transform(), gg.Scale(tt.ratio, tt.ratio); got != want {
			t.Errorf("Transform() = %+v, want %+v", got, want)
		}
	}
}

func TestSurfaceRatioFallback(t *testing.T) {
	tests := []struct {
		name    string
		metrics DisplayMetrics
	}{
		{"zero", FixedRatio(0)},
		{"negative", FixedRatio(-2)},
		{"nan", FixedRatio(math.NaN())},
		{"inf", MetricsFunc(func() float64 { return math.Inf(1) })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(backendtest.NewRecorder(), WithDisplayMetrics(tt.metrics))
			s.Configure(10, 20)
			if s.Ratio() != 1 {
				t.Errorf("Ratio() = %v, want 1", s.Ratio())
			}
			if w, h := s.BackingSize(); w != 10 || h != 20 {
				t.Errorf("BackingSize() = %dx%d, want 10x20", w, h)
			}
		})
	}
}

func TestSurfaceInvalidLogicalSize(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
	}{
		{"negative", -10, 20},
		{"nan", math.NaN(), 20},
		{"inf", 10, math.Inf(1)},
		{"too large", 1 << 20, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(backendtest.NewRecorder())
			s.Configure(tt.w, tt.h)
			if w, h := s.BackingSize(); w != 0 || h != 0 {
				t.Errorf("BackingSize() = %dx%d, want 0x0", w, h)
			}
		})
	}
}

func TestSurfaceRatioReadOnEveryConfigure(t *testing.T) {
	ratio := 1.0
	s := NewSurface(backendtest.NewRecorder(), WithDisplayMetrics(MetricsFunc(func() float64 { return ratio })))

	s.Configure(10, 10)
	ratio = 2
	s.Configure(10, 10)
	if w, _ := s.BackingSize(); w != 20 {
		t.Errorf("BackingSize() width = %d after ratio change, want 20", w)
	}
}

func TestSurfaceClear(t *testing.T) {
	rec := backendtest.NewRecorder()
	s := NewSurface(rec, WithDisplayMetrics(FixedRatio(2)))
	s.Configure(10, 10)
	rec.Reset()

	s.Clear()

	want := []string{
		"setTransform(1,0,0,0,1,0)",
		"erase()",
		"setTransform(2,0,1,0,2,1)",
	}
	got := rec.Trace()
	if len(got) != len(want) {
		t.Fatalf("Clear() ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d = %s, want %s", i, got[i], want[i])
		}
	}

	// The origin lands half a logical unit in, in backing pixels.
	p := s.Transform().TransformPoint(gg.Pt(0, 0))
	if p != gg.Pt(1, 1) {
		t.Errorf("origin maps to %v, want (1,1)", p)
	}
}

func TestSurfaceDiagonal(t *testing.T) {
	s := NewSurface(software.New(), WithDisplayMetrics(FixedRatio(2)))
	defer func() { _ = s.Close() }()
	s.Configure(100, 50)

	stats, err := s.Render(Sequence{MoveTo{X: 0, Y: 0}, LineTo{X: 100, Y: 50}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if stats.Segments != 1 || stats.Strokes != 1 {
		t.Errorf("stats = %+v, want one segment and one stroke", stats)
	}

	img := s.Image()
	if img == nil {
		t.Fatal("Image() = nil")
	}
	if got := img.Bounds().Size(); got != image.Pt(200, 100) {
		t.Fatalf("image size = %v, want 200x100", got)
	}
	// Logical (50,25) maps to backing (101,51).
	if a := alphaAt(img, 101, 51); a == 0 {
		t.Error("diagonal midpoint is not painted")
	}
	if a := alphaAt(img, 150, 20); a != 0 {
		t.Errorf("pixel off the diagonal alpha = %d, want 0", a)
	}
	if a := alphaAt(img, 20, 80); a != 0 {
		t.Errorf("pixel off the diagonal alpha = %d, want 0", a)
	}
}

func TestSurfaceRenderIdempotent(t *testing.T) {
	s := NewSurface(software.New(), WithDisplayMetrics(FixedRatio(1.5)))
	defer func() { _ = s.Close() }()
	s.Configure(64, 64)

	seq := Sequence{
		Line{X1: 2, Y1: 2, X2: 60, Y2: 10},
		LineTo{X: 30, Y: 60, StrokeWidth: 3},
		LineTo{X: 2, Y: 2, StrokeWidth: 1},
	}
	if _, err := s.Render(seq); err != nil {
		t.Fatal(err)
	}
	first := s.Image().(*image.RGBA)
	if _, err := s.Render(seq); err != nil {
		t.Fatal(err)
	}
	second := s.Image().(*image.RGBA)

	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("replaying the same sequence produced different pixels")
	}
}

func TestSurfaceRenderMalformedKeepsContent(t *testing.T) {
	rec := backendtest.NewRecorder()
	s := NewSurface(rec)
	s.Configure(10, 10)
	rec.Reset()

	_, err := s.Render(Sequence{nil})
	if !errors.Is(err, ErrMalformedSequence) {
		t.Fatalf("Render() error = %v, want ErrMalformedSequence", err)
	}
	if n := rec.Count("erase"); n != 0 {
		t.Errorf("erase called %d times, want 0", n)
	}
}

func TestSurfaceEmptySequence(t *testing.T) {
	rec := backendtest.NewRecorder()
	s := NewSurface(rec)
	s.Configure(10, 10)

	stats, err := s.Render(Sequence{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if rec.Count("stroke") != 0 || stats.Strokes != 0 {
		t.Errorf("empty sequence stroked %d times", rec.Count("stroke"))
	}
}

func TestSurfacePresenters(t *testing.T) {
	var sizes []image.Point
	failing := errors.New("panel offline")

	s := NewSurface(software.New(),
		WithPresenter(PresenterFunc(func(img image.Image) error {
			sizes = append(sizes, img.Bounds().Size())
			return nil
		})),
		WithPresenter(PresenterFunc(func(image.Image) error { return failing })),
	)
	defer func() { _ = s.Close() }()
	s.Configure(8, 4)

	_, err := s.Render(Sequence{MoveTo{}, LineTo{X: 8, Y: 4}})
	if !errors.Is(err, failing) {
		t.Errorf("Render() error = %v, want wrapped presenter error", err)
	}
	if len(sizes) != 1 || sizes[0] != image.Pt(8, 4) {
		t.Errorf("presented sizes = %v, want [(8,4)]", sizes)
	}
}

func TestSurfaceConfigureLogsClampedSizes(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	tests := []struct {
		name   string
		ratio  float64
		w, h   float64
		want   string
		silent string
	}{
		{"negative", 1, -10, 20, "invalid size treated as zero", "out of range"},
		{"nan", 1, math.NaN(), 20, "invalid size treated as zero", "out of range"},
		{"infinite", 1, 20, math.Inf(1), "invalid size treated as zero", "out of range"},
		{"over cap", 2, MaxBackingSize, 10, "backing size out of range", "invalid size"},
		{"valid", 2, 100, 50, "configured", "invalid size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

			s := NewSurface(backendtest.NewRecorder(), WithDisplayMetrics(FixedRatio(tt.ratio)))
			s.Configure(tt.w, tt.h)

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("log = %q, want it to contain %q", out, tt.want)
			}
			if strings.Contains(out, tt.silent) {
				t.Errorf("log = %q, must not contain %q", out, tt.silent)
			}
		})
	}
}

func TestBackingSize(t *testing.T) {
	tests := []struct {
		w, h, ratio float64
		bw, bh      int
	}{
		{100, 50, 2, 200, 100},
		{10.5, 3, 1.5, 15, 4},
		{100, 50, 0, 100, 50},
		{100, 0, 2, 0, 0},
		{-1, 50, 1, 0, 0},
		{MaxBackingSize, 1, 2, 0, 0},
	}
	for _, tt := range tests {
		bw, bh := BackingSize(tt.w, tt.h, tt.ratio)
		if bw != tt.bw || bh != tt.bh {
			t.Errorf("BackingSize(%v, %v, %v) = %dx%d, want %dx%d", tt.w, tt.h, tt.ratio, bw, bh, tt.bw, tt.bh)
		}
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{" 12.5 ", 12.5},
		{"", 0},
		{"abc", 0},
		{"-4", 0},
		{"NaN", 0},
		{"1e3", 1000},
	}
	for _, tt := range tests {
		if got := ParseLength(tt.in); got != tt.want {
			t.Errorf("ParseLength(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := FormatLength(12.5); got != "12.5" {
		t.Errorf("FormatLength(12.5) = %q", got)
	}
}

func TestSurfaceEncodePNG(t *testing.T) {
	s := NewSurface(software.New(), WithDisplayMetrics(FixedRatio(2)))
	defer func() { _ = s.Close() }()

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); !errors.Is(err, ErrEmptySurface) {
		t.Fatalf("EncodePNG() on empty surface = %v, want ErrEmptySurface", err)
	}

	s.Configure(10, 5)
	if _, err := s.Render(Sequence{MoveTo{}, LineTo{X: 10, Y: 5}}); err != nil {
		t.Fatal(err)
	}
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if cfg.Width != 20 || cfg.Height != 10 {
		t.Errorf("PNG is %dx%d, want 20x10", cfg.Width, cfg.Height)
	}
}
