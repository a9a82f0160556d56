package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolcheck/pkg/geometry"
)

func at(id int, x, y float64) Marker {
	return Marker{ID: id, Center: geometry.Point2D{X: x, Y: y}}
}

func TestCornersIgnoresStrayIDs(t *testing.T) {
	markers := []Marker{
		at(0, 10, 10),
		at(7, 300, 300),
		at(2, 500, 400),
		at(-1, 50, 50),
	}

	corners := Corners(markers)
	assert.Len(t, corners, 2)
	assert.Contains(t, corners, 0)
	assert.Contains(t, corners, 2)
}

func TestCornersFirstDetectionWins(t *testing.T) {
	markers := []Marker{
		at(1, 600, 10),
		at(1, 620, 30),
	}

	corners := Corners(markers)
	require.Contains(t, corners, 1)
	assert.Equal(t, 600.0, corners[1].Center.X)
}

func TestComplete(t *testing.T) {
	full := []Marker{at(0, 10, 10), at(1, 600, 10), at(2, 600, 400), at(3, 10, 400)}
	assert.True(t, Complete(full))

	// A stray id does not stand in for a missing corner.
	assert.False(t, Complete([]Marker{at(0, 10, 10), at(1, 600, 10), at(2, 600, 400), at(9, 10, 400)}))
	assert.False(t, Complete(nil))
}

func TestLayout(t *testing.T) {
	markers := []Marker{
		at(2, 600, 400),
		at(0, 10, 10),
		at(3, 10, 400),
		at(1, 600, 10),
		at(12, 300, 200),
	}

	layout, ok := Layout(markers)
	require.True(t, ok)
	assert.Equal(t, geometry.Point2D{X: 10, Y: 10}, layout.TopLeft)
	assert.Equal(t, geometry.Point2D{X: 600, Y: 10}, layout.TopRight)
	assert.Equal(t, geometry.Point2D{X: 600, Y: 400}, layout.BottomRight)
	assert.Equal(t, geometry.Point2D{X: 10, Y: 400}, layout.BottomLeft)

	_, ok = Layout(markers[:3])
	assert.False(t, ok)
}
