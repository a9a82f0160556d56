// Package registration aligns captured toolkit photos with a template's
// reference frame using the four corner markers.
package registration

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"toolcheck/pkg/geometry"
)

// EstimateHomography computes the planar perspective transform mapping each
// src point onto the corresponding dst point. With exactly four
// correspondences the system is fully determined; more points are solved in
// a least-squares sense via QR.
//
// The matrix is normalized with h33 = 1, which excludes only homographies
// that map the origin plane through infinity — none occur for camera views
// of a flat toolkit.
func EstimateHomography(src, dst []geometry.Point2D) (geometry.Projective, error) {
	if len(src) != len(dst) {
		return geometry.Projective{}, fmt.Errorf("point count mismatch: %d vs %d", len(src), len(dst))
	}
	n := len(src)
	if n < 4 {
		return geometry.Projective{}, fmt.Errorf("need at least 4 points, got %d", n)
	}

	// Each correspondence contributes two rows:
	//   x' = (h11 x + h12 y + h13) / (h31 x + h32 y + 1)
	//   y' = (h21 x + h22 y + h23) / (h31 x + h32 y + 1)
	// rearranged into a linear system in the 8 unknowns.
	A := mat.NewDense(n*2, 8, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -x*xp)
		A.Set(i*2, 7, -y*xp)
		B.SetVec(i*2, xp)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -x*yp)
		A.Set(i*2+1, 7, -y*yp)
		B.SetVec(i*2+1, yp)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return geometry.Projective{}, fmt.Errorf("solve homography: %w", err)
	}

	var h geometry.Projective
	h.M[0][0] = params.AtVec(0)
	h.M[0][1] = params.AtVec(1)
	h.M[0][2] = params.AtVec(2)
	h.M[1][0] = params.AtVec(3)
	h.M[1][1] = params.AtVec(4)
	h.M[1][2] = params.AtVec(5)
	h.M[2][0] = params.AtVec(6)
	h.M[2][1] = params.AtVec(7)
	h.M[2][2] = 1
	return h, nil
}

// ReprojectionError returns the mean distance between transformed src
// points and their dst correspondences.
func ReprojectionError(h geometry.Projective, src, dst []geometry.Point2D) float64 {
	if len(src) == 0 || len(src) != len(dst) {
		return 0
	}
	var total float64
	for i := range src {
		total += h.Apply(src[i]).Distance(dst[i])
	}
	return total / float64(len(src))
}
