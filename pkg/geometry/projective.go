package geometry

import "math"

// Projective represents a 3x3 planar perspective (homography) matrix.
// Points transform as [x' y' w']ᵀ = H · [x y 1]ᵀ followed by division by w'.
type Projective struct {
	M [3][3]float64
}

// IdentityProjective returns the identity homography.
func IdentityProjective() Projective {
	return Projective{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// ScaleProjective returns a homography that scales x and y independently.
func ScaleProjective(sx, sy float64) Projective {
	return Projective{M: [3][3]float64{{sx, 0, 0}, {0, sy, 0}, {0, 0, 1}}}
}

// Apply transforms a point through the homography.
func (h Projective) Apply(p Point2D) Point2D {
	x := h.M[0][0]*p.X + h.M[0][1]*p.Y + h.M[0][2]
	y := h.M[1][0]*p.X + h.M[1][1]*p.Y + h.M[1][2]
	w := h.M[2][0]*p.X + h.M[2][1]*p.Y + h.M[2][2]
	if math.Abs(w) < 1e-12 {
		return Point2D{}
	}
	return Point2D{X: x / w, Y: y / w}
}

// ApplyAll transforms a slice of points.
func (h Projective) ApplyAll(points []Point2D) []Point2D {
	out := make([]Point2D, len(points))
	for i, p := range points {
		out[i] = h.Apply(p)
	}
	return out
}

// Inverse returns the inverse homography, if it exists.
func (h Projective) Inverse() (Projective, bool) {
	m := h.M
	// Cofactor expansion of the 3x3 determinant.
	c00 := m[1][1]*m[2][2] - m[1][2]*m[2][1]
	c01 := m[1][2]*m[2][0] - m[1][0]*m[2][2]
	c02 := m[1][0]*m[2][1] - m[1][1]*m[2][0]

	det := m[0][0]*c00 + m[0][1]*c01 + m[0][2]*c02
	if math.Abs(det) < 1e-12 {
		return Projective{}, false
	}
	inv := 1.0 / det

	var out Projective
	out.M[0][0] = c00 * inv
	out.M[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * inv
	out.M[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * inv
	out.M[1][0] = c01 * inv
	out.M[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * inv
	out.M[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * inv
	out.M[2][0] = c02 * inv
	out.M[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * inv
	out.M[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * inv
	return out, true
}
