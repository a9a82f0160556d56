package model

import (
	"encoding/json"
	"fmt"

	"toolcheck/pkg/geometry"
)

// RegionKind discriminates the two region shapes a tool slot can use.
type RegionKind string

const (
	RegionRect    RegionKind = "rect"
	RegionPolygon RegionKind = "polygon"
)

// Region is the image area bound to one tool slot: either an axis-aligned
// rectangle or a simple polygon. The zero value is invalid and marks a slot
// whose layout has not been drawn yet.
type Region struct {
	Kind    RegionKind
	Rect    geometry.RectInt
	Polygon []geometry.Point2D
}

// RectRegion builds a rectangular region.
func RectRegion(x, y, width, height int) Region {
	return Region{Kind: RegionRect, Rect: geometry.RectInt{X: x, Y: y, Width: width, Height: height}}
}

// PolygonRegion builds a polygonal region from ordered vertices.
func PolygonRegion(vertices []geometry.Point2D) Region {
	return Region{Kind: RegionPolygon, Polygon: vertices}
}

// Valid reports whether the region can be used for analysis.
func (r Region) Valid() bool {
	switch r.Kind {
	case RegionRect:
		return r.Rect.Width > 0 && r.Rect.Height > 0
	case RegionPolygon:
		return geometry.IsSimplePolygon(r.Polygon)
	default:
		return false
	}
}

// Bounds returns the minimal axis-aligned bounding rectangle. For polygons
// this is derived from the vertices.
func (r Region) Bounds() geometry.Rect {
	switch r.Kind {
	case RegionRect:
		return r.Rect.ToFloat()
	case RegionPolygon:
		return geometry.BoundingBox(r.Polygon)
	default:
		return geometry.Rect{}
	}
}

// Contains reports whether an image point belongs to the region. Rectangles
// contain every point of their bounds; polygons mask by ray casting.
func (r Region) Contains(p geometry.Point2D) bool {
	switch r.Kind {
	case RegionRect:
		return r.Rect.ToFloat().Contains(p)
	case RegionPolygon:
		return geometry.PointInPolygon(p, r.Polygon)
	default:
		return false
	}
}

// Scale returns the region with all coordinates scaled by independent x/y
// ratios. Used by the non-registered fallback path when the captured image
// resolution differs from the template's.
func (r Region) Scale(sx, sy float64) Region {
	switch r.Kind {
	case RegionRect:
		return Region{Kind: RegionRect, Rect: geometry.RectInt{
			X:      int(float64(r.Rect.X) * sx),
			Y:      int(float64(r.Rect.Y) * sy),
			Width:  int(float64(r.Rect.Width) * sx),
			Height: int(float64(r.Rect.Height) * sy),
		}}
	case RegionPolygon:
		scaled := make([]geometry.Point2D, len(r.Polygon))
		for i, v := range r.Polygon {
			scaled[i] = v.Scale(sx, sy)
		}
		return Region{Kind: RegionPolygon, Polygon: scaled}
	default:
		return r
	}
}

// regionJSON is the wire form of the tagged variant.
type regionJSON struct {
	Kind    RegionKind         `json:"kind"`
	Rect    *geometry.RectInt  `json:"rect,omitempty"`
	Polygon []geometry.Point2D `json:"points,omitempty"`
}

// MarshalJSON encodes the region with an explicit kind tag.
func (r Region) MarshalJSON() ([]byte, error) {
	out := regionJSON{Kind: r.Kind}
	switch r.Kind {
	case RegionRect:
		rect := r.Rect
		out.Rect = &rect
	case RegionPolygon:
		out.Polygon = r.Polygon
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the tagged variant.
func (r *Region) UnmarshalJSON(data []byte) error {
	var in regionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case RegionRect:
		if in.Rect == nil {
			return fmt.Errorf("region kind %q without rect", in.Kind)
		}
		*r = Region{Kind: RegionRect, Rect: *in.Rect}
	case RegionPolygon:
		if len(in.Polygon) < 3 {
			return fmt.Errorf("region kind %q needs at least 3 points, got %d", in.Kind, len(in.Polygon))
		}
		*r = Region{Kind: RegionPolygon, Polygon: in.Polygon}
	case "":
		*r = Region{}
	default:
		return fmt.Errorf("unknown region kind %q", in.Kind)
	}
	return nil
}
