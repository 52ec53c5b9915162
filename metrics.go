// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package linecanvas

import (
	"math"
	"strconv"
	"strings"
)

// DisplayMetrics reports the ratio between backing pixels and logical
// units of the display a surface is shown on.
type DisplayMetrics interface {
	DevicePixelRatio() float64
}

// FixedRatio is a DisplayMetrics that always reports the same ratio.
type FixedRatio float64

// DevicePixelRatio implements DisplayMetrics.
func (r FixedRatio) DevicePixelRatio() float64 { return float64(r) }

// MetricsFunc adapts a function to DisplayMetrics.
type MetricsFunc func() float64

// DevicePixelRatio implements DisplayMetrics.
func (f MetricsFunc) DevicePixelRatio() float64 { return f() }

// MaxBackingSize bounds each backing dimension. Larger requests are treated
// like an invalid size and produce an empty surface.
const MaxBackingSize = 1 << 15

// devicePixelRatio reads m, falling back to 1 when m is nil or reports a
// value that cannot scale a surface.
func devicePixelRatio(m DisplayMetrics) float64 {
	if m == nil {
		return 1
	}
	r := m.DevicePixelRatio()
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

// logicalLength maps unset, negative and non-finite lengths to zero.
func logicalLength(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// backingLength is floor(logical * ratio), the truncation a canvas applies
// when its width is assigned a fractional value.
func backingLength(logical, ratio float64) int {
	v := math.Floor(logical * ratio)
	if v <= 0 || v > MaxBackingSize {
		return 0
	}
	return int(v)
}

// BackingSize returns the backing buffer Configure allocates for a logical
// size at ratio: floor(logical * ratio) pixels per dimension, or 0x0 when
// either dimension is empty or exceeds MaxBackingSize. Invalid lengths
// count as 0 and an invalid ratio as 1.
func BackingSize(logicalWidth, logicalHeight, ratio float64) (width, height int) {
	r := devicePixelRatio(FixedRatio(ratio))
	width = backingLength(logicalLength(logicalWidth), r)
	height = backingLength(logicalLength(logicalHeight), r)
	if width == 0 || height == 0 {
		return 0, 0
	}
	return width, height
}

// ParseLength converts a sizing attribute to a logical length. Surrounding
// space is ignored; empty or non-numeric values give 0.
func ParseLength(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return logicalLength(v)
}

// FormatLength is the inverse of ParseLength for attribute values.
func FormatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
