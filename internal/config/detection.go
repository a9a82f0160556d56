// Package config holds detection parameter resolution and service settings.
package config

import "toolcheck/internal/model"

// DetectionParams are the pixel-level thresholds and scoring constants used
// by the analysis pipeline. Values are on a 0-255 channel scale unless noted.
type DetectionParams struct {
	// Pixels with luminance above this are "bright" (metallic tool surfaces
	// against dark foam).
	BrightnessThreshold int
	// Pixels with HSV saturation above this count as colored (plastic
	// handles, grips).
	SaturationThreshold int
	// Gradient magnitude above this marks a pixel as an edge.
	EdgeMagnitudeThreshold int
	// Edge density above this ratio is a strong occupancy signal; retained
	// for diagnostics and authoring-tool display.
	EdgeDensityThreshold float64

	// Confidence weights for the three signals. They sum to 1.
	WeightBrightness float64
	WeightSaturation float64
	WeightEdges      float64

	// Verdict cutoffs on the combined confidence.
	PresentCutoff float64
	MissingCutoff float64
}

// DefaultDetectionParams returns the global defaults, tuned for dark foam.
func DefaultDetectionParams() DetectionParams {
	return DetectionParams{
		BrightnessThreshold:    60,
		SaturationThreshold:    45,
		EdgeMagnitudeThreshold: 100,
		EdgeDensityThreshold:   0.05,

		WeightBrightness: 0.5,
		WeightSaturation: 0.3,
		WeightEdges:      0.2,

		PresentCutoff: 0.7,
		MissingCutoff: 0.3,
	}
}

// Resolve returns a copy of the params with the template's overrides
// applied. Consulted once per analysis; templates never mutate globals.
func (p DetectionParams) Resolve(t *model.Template) DetectionParams {
	if t == nil {
		return p
	}
	if t.Thresholds.Brightness != nil {
		p.BrightnessThreshold = *t.Thresholds.Brightness
	}
	if t.Thresholds.Saturation != nil {
		p.SaturationThreshold = *t.Thresholds.Saturation
	}
	return p
}

// Marker registration constants. The marker dictionary and corner ids are a
// global standard shared by every template, not configuration.
const (
	// MarkerIDTopLeft..MarkerIDBottomLeft are the corner assignments.
	MarkerIDTopLeft     = 0
	MarkerIDTopRight    = 1
	MarkerIDBottomRight = 2
	MarkerIDBottomLeft  = 3
	// MarkersExpected is the size of a complete corner set.
	MarkersExpected = 4
)
