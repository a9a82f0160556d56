// Package colorutil provides shared color utilities for the toolkit checker.
package colorutil

import (
	"image/color"
	"math"
)

// Overlay colors for verdict rendering (RGB).
var (
	PresentGreen    = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	MissingRed      = color.RGBA{R: 220, G: 0, B: 0, A: 255}
	UncertainOrange = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	White           = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	OverlayGrey     = color.RGBA{R: 40, G: 40, B: 40, A: 255}
)

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0 // V in 0-255

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0 // S in 0-255
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // Convert to OpenCV's 0-180 range

	return h, s, v
}

// Luminance converts RGB (0-255) to grayscale using the BT.601 weighting
// OpenCV applies in its BGR→GRAY conversion.
func Luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// Darken reduces the brightness of a color by the given factor (0-1).
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * (1 - factor)),
		G: uint8(float64(c.G) * (1 - factor)),
		B: uint8(float64(c.B) * (1 - factor)),
		A: c.A,
	}
}
