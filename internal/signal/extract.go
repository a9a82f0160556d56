// Package signal computes the per-region pixel signals that drive presence
// classification: brightness ratio, saturation ratio and edge density.
package signal

import (
	"image"
	"math"

	"toolcheck/internal/config"
	"toolcheck/internal/model"
	"toolcheck/pkg/colorutil"
	"toolcheck/pkg/geometry"
)

// Extract computes the signals for one region of the working image.
//
// The region's bounding rectangle is clipped to the image; polygon regions
// additionally mask out pixels whose centers fall outside the polygon. The
// second return value is false when no region pixel lies inside the image,
// in which case the signals are all zero — the caller records the slot as
// uncertain rather than failing the whole analysis.
//
// The computation is deterministic: identical image bytes and region always
// produce identical signals.
func Extract(img image.Image, region model.Region, params config.DetectionParams) (model.RegionSignals, bool) {
	var signals model.RegionSignals

	imgBounds := img.Bounds()
	clip := region.Bounds().Intersect(geometry.NewRect(
		float64(imgBounds.Min.X), float64(imgBounds.Min.Y),
		float64(imgBounds.Dx()), float64(imgBounds.Dy()),
	))
	if clip.Empty() {
		return signals, false
	}

	x0 := int(math.Floor(clip.X))
	y0 := int(math.Floor(clip.Y))
	x1 := int(math.Ceil(clip.X + clip.Width))
	y1 := int(math.Ceil(clip.Y + clip.Height))
	w := x1 - x0
	h := y1 - y0
	if w <= 0 || h <= 0 {
		return signals, false
	}

	// One pass to build the grayscale patch and mask, counting brightness
	// and saturation as we go. Edges need the full patch first.
	gray := make([]float64, w*h)
	mask := make([]bool, w*h)
	masked := region.Kind == model.RegionPolygon

	var count, bright, saturated int
	var luminanceSum float64

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			px, py := x0+x, y0+y

			r16, g16, b16, _ := img.At(px, py).RGBA()
			r := float64(r16 >> 8)
			g := float64(g16 >> 8)
			b := float64(b16 >> 8)

			lum := colorutil.Luminance(r, g, b)
			gray[idx] = lum

			if masked && !region.Contains(geometry.NewPoint2D(float64(px)+0.5, float64(py)+0.5)) {
				continue
			}
			mask[idx] = true
			count++
			luminanceSum += lum

			if lum > float64(params.BrightnessThreshold) {
				bright++
			}
			_, s, _ := colorutil.RGBToHSV(r, g, b)
			if s > float64(params.SaturationThreshold) {
				saturated++
			}
		}
	}

	if count == 0 {
		return signals, false
	}

	edges := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx := y*w + x
			if !mask[idx] {
				continue
			}
			if sobelMagnitude(gray, w, x, y) > float64(params.EdgeMagnitudeThreshold) {
				edges++
			}
		}
	}

	total := float64(count)
	signals.BrightnessRatio = float64(bright) / total
	signals.SaturationRatio = float64(saturated) / total
	signals.EdgeDensity = float64(edges) / total
	signals.MeanBrightness = luminanceSum / total
	return signals, true
}

// sobelMagnitude returns the gradient magnitude at (x, y), normalized back
// to the 0-255 channel scale. Callers must keep (x, y) off the patch border.
func sobelMagnitude(gray []float64, w, x, y int) float64 {
	i := y*w + x

	gx := -gray[i-w-1] + gray[i-w+1] +
		-2*gray[i-1] + 2*gray[i+1] +
		-gray[i+w-1] + gray[i+w+1]
	gy := -gray[i-w-1] - 2*gray[i-w] - gray[i-w+1] +
		gray[i+w-1] + 2*gray[i+w] + gray[i+w+1]

	// The Sobel kernels weight each axis by 4; divide back out so the
	// threshold stays on the channel scale.
	return math.Sqrt(gx*gx+gy*gy) / 4
}
