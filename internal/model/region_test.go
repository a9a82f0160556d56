package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolcheck/pkg/geometry"
)

func TestRegionValid(t *testing.T) {
	tests := []struct {
		name   string
		region Region
		want   bool
	}{
		{"rect", RectRegion(10, 10, 50, 40), true},
		{"zero width rect", RectRegion(10, 10, 0, 40), false},
		{"negative height rect", RectRegion(10, 10, 50, -1), false},
		{"triangle", PolygonRegion([]geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 8}}), true},
		{"two-point polygon", PolygonRegion([]geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}}), false},
		{"collinear polygon", PolygonRegion([]geometry.Point2D{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}}), false},
		{"zero value", Region{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.region.Valid())
		})
	}
}

func TestRegionBounds(t *testing.T) {
	rect := RectRegion(10, 20, 30, 40)
	assert.Equal(t, geometry.NewRect(10, 20, 30, 40), rect.Bounds())

	poly := PolygonRegion([]geometry.Point2D{{X: 5, Y: 5}, {X: 25, Y: 10}, {X: 15, Y: 30}})
	assert.Equal(t, geometry.NewRect(5, 5, 20, 25), poly.Bounds())
}

func TestRegionScale(t *testing.T) {
	rect := RectRegion(10, 20, 30, 40).Scale(2, 0.5)
	assert.Equal(t, RectRegion(20, 10, 60, 20), rect)

	poly := PolygonRegion([]geometry.Point2D{{X: 4, Y: 8}}).Scale(0.5, 0.25)
	assert.Equal(t, geometry.Point2D{X: 2, Y: 2}, poly.Polygon[0])
}

func TestRegionJSONRoundTrip(t *testing.T) {
	regions := []Region{
		RectRegion(1, 2, 3, 4),
		PolygonRegion([]geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 8}}),
	}
	for _, region := range regions {
		raw, err := json.Marshal(region)
		require.NoError(t, err)

		var back Region
		require.NoError(t, json.Unmarshal(raw, &back))
		assert.Equal(t, region, back)
	}
}

func TestRegionJSONRejectsUnknownKind(t *testing.T) {
	var r Region
	err := json.Unmarshal([]byte(`{"kind":"circle","rect":{"x":0,"y":0,"width":5,"height":5}}`), &r)
	assert.Error(t, err)
}

func TestRegionJSONRejectsMissingShape(t *testing.T) {
	var r Region
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"rect"}`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"polygon","points":[{"x":0,"y":0}]}`), &r))
}
