// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package browser

import (
	"fmt"
	"image/color"
	"strconv"
)

// cssColor formats c as a CSS rgba() value.
func cssColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	alpha := strconv.FormatFloat(float64(n.A)/255, 'f', -1, 64)
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", n.R, n.G, n.B, alpha)
}

// canvasTransform reorders a gg-style matrix (x' = A*x + B*y + C,
// y' = D*x + E*y + F) into setTransform's (a, b, c, d, e, f) arguments.
func canvasTransform(a, b, c, d, e, f float64) [6]float64 {
	return [6]float64{a, d, b, e, c, f}
}
