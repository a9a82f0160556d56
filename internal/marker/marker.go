// Package marker locates the ArUco fiducial markers used to register
// captured toolkit photos against a template's reference frame.
package marker

import (
	"toolcheck/internal/config"
	"toolcheck/internal/model"
	"toolcheck/pkg/geometry"
)

// Marker is one detected fiducial instance.
type Marker struct {
	ID      int                 `json:"id"`
	Corners [4]geometry.Point2D `json:"corners"`
	Center  geometry.Point2D    `json:"center"`
}

// Corners selects the detections carrying a corner id 0-3, keyed by id.
// The first detection of each id wins; stray ids are ignored here so that
// callers showing raw detections still see them.
func Corners(markers []Marker) map[int]Marker {
	out := make(map[int]Marker, config.MarkersExpected)
	for _, m := range markers {
		if m.ID < 0 || m.ID >= config.MarkersExpected {
			continue
		}
		if _, seen := out[m.ID]; !seen {
			out[m.ID] = m
		}
	}
	return out
}

// Complete reports whether the set contains all four corner ids 0-3.
func Complete(markers []Marker) bool {
	return len(Corners(markers)) == config.MarkersExpected
}

// Layout converts a complete detection into the template's stored marker
// layout. Returns false when any corner id is missing.
func Layout(markers []Marker) (*model.MarkerLayout, bool) {
	corners := Corners(markers)
	if len(corners) < config.MarkersExpected {
		return nil, false
	}
	return &model.MarkerLayout{
		TopLeft:     corners[config.MarkerIDTopLeft].Center,
		TopRight:    corners[config.MarkerIDTopRight].Center,
		BottomRight: corners[config.MarkerIDBottomRight].Center,
		BottomLeft:  corners[config.MarkerIDBottomLeft].Center,
	}, true
}
