package marker

import (
	"gocv.io/x/gocv"

	"toolcheck/pkg/geometry"
)

// Detector finds DICT_4X4_50 ArUco markers in an image. Detection fails
// softly: an image without markers yields an empty slice, never an error.
//
// A Detector holds OpenCV state and must be Closed. It is safe for
// sequential reuse across images; create one per worker for concurrency.
type Detector struct {
	detector gocv.ArucoDetector
}

// NewDetector creates a detector with parameters relaxed for hand-held,
// angled photos (small markers, perspective distortion).
func NewDetector() *Detector {
	params := gocv.NewArucoDetectorParameters()
	params.SetAdaptiveThreshWinSizeMin(3)
	params.SetAdaptiveThreshWinSizeMax(53)
	params.SetAdaptiveThreshWinSizeStep(4)
	params.SetMinMarkerPerimeterRate(0.01)
	params.SetMaxMarkerPerimeterRate(4.0)
	params.SetPolygonalApproxAccuracyRate(0.05)
	params.SetMinCornerDistanceRate(0.01)
	params.SetMinMarkerDistanceRate(0.01)
	params.SetPerspectiveRemovePixelPerCell(8)
	params.SetPerspectiveRemoveIgnoredMarginPerCell(0.2)

	dict := gocv.GetPredefinedDictionary(gocv.ArucoDict4x4_50)
	return &Detector{detector: gocv.NewArucoDetectorWithParams(dict, params)}
}

// Close releases the OpenCV detector.
func (d *Detector) Close() {
	d.detector.Close()
}

// Detect locates markers in the image, in detection order. Every detection
// is returned, stray and duplicate ids included, so authoring previews can
// show a mislabeled marker; Corners does the 0-3 selection downstream.
func (d *Detector) Detect(img gocv.Mat) []Marker {
	if img.Empty() {
		return nil
	}

	gray := img
	if img.Channels() > 1 {
		gray = gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}

	corners, ids, _ := d.detector.DetectMarkers(gray)

	out := make([]Marker, 0, len(ids))
	for i, id := range ids {
		if len(corners[i]) != 4 {
			continue
		}

		var m Marker
		m.ID = id
		pts := make([]geometry.Point2D, 0, 4)
		for j, c := range corners[i] {
			p := geometry.Point2D{X: float64(c.X), Y: float64(c.Y)}
			m.Corners[j] = p
			pts = append(pts, p)
		}
		m.Center = geometry.Centroid(pts)
		out = append(out, m)
	}
	return out
}
