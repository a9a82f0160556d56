package registration

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"toolcheck/internal/config"
	"toolcheck/internal/marker"
	"toolcheck/internal/model"
	"toolcheck/pkg/geometry"
)

// Result describes the outcome of registering one captured image.
//
// Registration never fails a check-in: when Applied is false the pipeline
// keeps working on the unwarped image and Reason says why. The warped Mat
// (when Applied) is owned by the caller and must be Closed.
type Result struct {
	Image           gocv.Mat
	Homography      geometry.Projective
	Applied         bool
	Reason          string
	MarkersDetected int
}

// Info converts the result to the record form persisted with a check-in.
func (r Result) Info() model.RegistrationInfo {
	return model.RegistrationInfo{
		MarkersDetected: r.MarkersDetected,
		MarkersExpected: config.MarkersExpected,
		Applied:         r.Applied,
		Reason:          r.Reason,
	}
}

// Register warps the captured image into the template's reference frame.
//
// Both marker sets must be complete (ids 0-3): the captured set comes from
// the current photo, the reference layout from the template. When either
// side is incomplete the original image is returned untouched and the
// caller falls back to resolution-scaled ROI coordinates. refSize is the
// reference image resolution, which becomes the output resolution.
func Register(captured gocv.Mat, capturedMarkers []marker.Marker, layout *model.MarkerLayout, refSize geometry.Size) Result {
	corners := marker.Corners(capturedMarkers)
	res := Result{Image: captured, MarkersDetected: len(corners)}

	if layout == nil {
		res.Reason = "template has no reference marker layout"
		return res
	}
	if refSize.Width <= 0 || refSize.Height <= 0 {
		res.Reason = "template has no reference image dimensions"
		return res
	}
	if len(corners) < config.MarkersExpected {
		res.Reason = fmt.Sprintf("%d of %d corner markers detected", res.MarkersDetected, config.MarkersExpected)
		return res
	}

	src := make([]geometry.Point2D, 0, config.MarkersExpected)
	dst := make([]geometry.Point2D, 0, config.MarkersExpected)
	for id := 0; id < config.MarkersExpected; id++ {
		ref, _ := layout.CenterByID(id)
		src = append(src, corners[id].Center)
		dst = append(dst, ref)
	}

	h, err := EstimateHomography(src, dst)
	if err != nil {
		res.Reason = fmt.Sprintf("homography estimation failed: %v", err)
		return res
	}

	res.Image = Warp(captured, h, refSize)
	res.Homography = h
	res.Applied = true
	return res
}

// Warp applies a homography to an image, producing an output of the given
// size. The returned Mat is newly allocated.
func Warp(src gocv.Mat, h geometry.Projective, size geometry.Size) gocv.Mat {
	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer m.Close()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.SetDoubleAt(row, col, h.M[row][col])
		}
	}

	dst := gocv.NewMat()
	gocv.WarpPerspective(src, &dst, m, image.Point{X: size.Width, Y: size.Height})
	return dst
}

// ScaleFactors returns the deterministic x/y ratios for projecting template
// ROI coordinates onto an unregistered capture of a different resolution.
// Factors are 1 when the template has no recorded dimensions.
func ScaleFactors(captured, reference geometry.Size) (sx, sy float64) {
	sx, sy = 1, 1
	if reference.Width > 0 && captured.Width > 0 {
		sx = float64(captured.Width) / float64(reference.Width)
	}
	if reference.Height > 0 && captured.Height > 0 {
		sy = float64(captured.Height) / float64(reference.Height)
	}
	return sx, sy
}
