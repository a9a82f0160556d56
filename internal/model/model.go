// Package model defines the domain types shared across the toolkit checker:
// templates, toolkits, verdicts and check-in records.
package model

import (
	"time"

	"toolcheck/pkg/geometry"
)

// FoamColor tags the foam material a template's slots are cut into. The
// detector defaults are tuned for the dark variants.
type FoamColor string

const (
	FoamDarkGrey FoamColor = "dark_grey"
	FoamBlack    FoamColor = "black"
	FoamYellow   FoamColor = "yellow"
	FoamRed      FoamColor = "red"
	FoamBlue     FoamColor = "blue"
)

// ToolStatus is the per-slot verdict.
type ToolStatus string

const (
	ToolPresent   ToolStatus = "present"
	ToolMissing   ToolStatus = "missing"
	ToolUncertain ToolStatus = "uncertain"
	// ToolUnknown marks slots that have never been analyzed.
	ToolUnknown ToolStatus = "unknown"
)

// ToolkitStatus is the lifecycle state of a physical toolkit.
type ToolkitStatus string

const (
	StatusNeverChecked ToolkitStatus = "never_checked"
	StatusCheckedIn    ToolkitStatus = "checked_in"
	StatusCheckedOut   ToolkitStatus = "checked_out"
	StatusIncomplete   ToolkitStatus = "incomplete"
)

// ToolDefinition describes one slot in a template layout.
type ToolDefinition struct {
	ID          string `json:"tool_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// SlotIndex is 1-based and gives slots a stable ordering.
	SlotIndex int    `json:"slot_index"`
	Region    Region `json:"region"`
}

// MarkerLayout records the four reference-image marker centers, keyed by
// their fixed corner assignment (id 0=TL, 1=TR, 2=BR, 3=BL).
type MarkerLayout struct {
	TopLeft     geometry.Point2D `json:"top_left"`
	TopRight    geometry.Point2D `json:"top_right"`
	BottomRight geometry.Point2D `json:"bottom_right"`
	BottomLeft  geometry.Point2D `json:"bottom_left"`
}

// CenterByID returns the recorded center for a marker id 0-3.
func (m MarkerLayout) CenterByID(id int) (geometry.Point2D, bool) {
	switch id {
	case 0:
		return m.TopLeft, true
	case 1:
		return m.TopRight, true
	case 2:
		return m.BottomRight, true
	case 3:
		return m.BottomLeft, true
	default:
		return geometry.Point2D{}, false
	}
}

// Thresholds holds the per-template detection overrides. Nil fields fall
// back to the global defaults.
type Thresholds struct {
	Brightness *int `json:"brightness_threshold,omitempty"`
	Saturation *int `json:"saturation_threshold,omitempty"`
}

// Template is the immutable layout blueprint a toolkit is verified against.
type Template struct {
	ID          string    `json:"template_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	FoamColor   FoamColor `json:"foam_color"`
	// Reference image dimensions; zero until a reference image is uploaded.
	ImageWidth  int              `json:"image_width,omitempty"`
	ImageHeight int              `json:"image_height,omitempty"`
	Tools       []ToolDefinition `json:"tools"`
	// Markers is nil until all four corner markers were located on the
	// reference image.
	Markers    *MarkerLayout `json:"markers,omitempty"`
	Thresholds Thresholds    `json:"thresholds,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// RegionSignals are the three pixel-level signals computed for one slot,
// plus the raw mean brightness kept for diagnostics.
type RegionSignals struct {
	BrightnessRatio float64 `json:"brightness_ratio"`
	SaturationRatio float64 `json:"saturation_ratio"`
	EdgeDensity     float64 `json:"edge_density"`
	MeanBrightness  float64 `json:"mean_brightness"`
}

// SlotVerdict is the classification outcome for one slot.
type SlotVerdict struct {
	ToolID     string        `json:"tool_id"`
	Name       string        `json:"name"`
	SlotIndex  int           `json:"slot_index"`
	Status     ToolStatus    `json:"status"`
	Confidence float64       `json:"confidence"`
	Signals    RegionSignals `json:"signals"`
}

// SlotState is the per-slot entry of a toolkit's current snapshot.
type SlotState struct {
	ToolID     string     `json:"tool_id"`
	Name       string     `json:"name"`
	Status     ToolStatus `json:"status"`
	Confidence float64    `json:"confidence"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
}

// Toolkit binds a template to one physical toolkit.
type Toolkit struct {
	ID           string        `json:"toolkit_id"`
	TemplateID   string        `json:"template_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Status       ToolkitStatus `json:"status"`
	Location     string        `json:"location,omitempty"`
	Snapshot     []SlotState   `json:"tool_states"`
	LastCheckIn  *time.Time    `json:"last_checkin,omitempty"`
	LastCheckOut *time.Time    `json:"last_checkout,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Summary counts verdicts by status for one check-in.
type Summary struct {
	Present   int `json:"present"`
	Missing   int `json:"missing"`
	Uncertain int `json:"uncertain"`
	Total     int `json:"total"`
}

// Complete reports whether every slot was verified present.
func (s Summary) Complete() bool {
	return s.Missing == 0 && s.Uncertain == 0 && s.Total > 0
}

// RegistrationInfo describes how (or whether) the captured image was
// registered onto the template's reference frame.
type RegistrationInfo struct {
	MarkersDetected int    `json:"markers_detected"`
	MarkersExpected int    `json:"markers_expected"`
	Applied         bool   `json:"homography_applied"`
	Reason          string `json:"fallback_reason,omitempty"`
}

// CheckInRecord is the append-only history entry produced by each check-in.
// Records are never mutated after creation.
type CheckInRecord struct {
	ID           string           `json:"checkin_id"`
	ToolkitID    string           `json:"toolkit_id"`
	TemplateID   string           `json:"template_id"`
	Timestamp    time.Time        `json:"timestamp"`
	Status       ToolkitStatus    `json:"status"`
	Verdicts     []SlotVerdict    `json:"tools"`
	Summary      Summary          `json:"summary"`
	Registration RegistrationInfo `json:"registration"`
	// Thumbnail is a media-relative path to a reduced annotated image.
	Thumbnail string `json:"thumbnail,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Actor     string `json:"checked_in_by,omitempty"`
}
