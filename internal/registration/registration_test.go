package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"toolcheck/internal/marker"
	"toolcheck/internal/model"
	"toolcheck/pkg/geometry"
)

func testLayout() *model.MarkerLayout {
	return &model.MarkerLayout{
		TopLeft:     geometry.Point2D{X: 40, Y: 40},
		TopRight:    geometry.Point2D{X: 600, Y: 40},
		BottomRight: geometry.Point2D{X: 600, Y: 440},
		BottomLeft:  geometry.Point2D{X: 40, Y: 440},
	}
}

func TestRegisterDegradedPaths(t *testing.T) {
	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()
	refSize := geometry.Size{Width: 640, Height: 480}

	t.Run("no layout", func(t *testing.T) {
		res := Register(img, nil, nil, refSize)
		assert.False(t, res.Applied)
		assert.Contains(t, res.Reason, "marker layout")
	})

	t.Run("no reference dimensions", func(t *testing.T) {
		res := Register(img, nil, testLayout(), geometry.Size{})
		assert.False(t, res.Applied)
		assert.Contains(t, res.Reason, "dimensions")
	})

	t.Run("incomplete marker set", func(t *testing.T) {
		markers := []marker.Marker{
			{ID: 0, Center: geometry.Point2D{X: 50, Y: 50}},
			{ID: 2, Center: geometry.Point2D{X: 590, Y: 430}},
		}
		res := Register(img, markers, testLayout(), refSize)
		assert.False(t, res.Applied)
		assert.Equal(t, 2, res.MarkersDetected)
		assert.Contains(t, res.Reason, "2 of 4")
	})

	t.Run("stray ids do not count as corners", func(t *testing.T) {
		markers := []marker.Marker{
			{ID: 0, Center: geometry.Point2D{X: 50, Y: 50}},
			{ID: 1, Center: geometry.Point2D{X: 590, Y: 50}},
			{ID: 2, Center: geometry.Point2D{X: 590, Y: 430}},
			{ID: 17, Center: geometry.Point2D{X: 50, Y: 430}},
		}
		res := Register(img, markers, testLayout(), refSize)
		assert.False(t, res.Applied)
		assert.Equal(t, 3, res.MarkersDetected)
		assert.Contains(t, res.Reason, "3 of 4")
	})
}

func TestRegisterInfo(t *testing.T) {
	res := Result{Applied: false, Reason: "0 of 4 corner markers detected"}
	info := res.Info()
	assert.Equal(t, 4, info.MarkersExpected)
	assert.False(t, info.Applied)
	assert.NotEmpty(t, info.Reason)
}
