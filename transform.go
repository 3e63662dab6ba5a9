package pad

import (
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Matrix is a 2D affine matrix.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// The layout matches the argument order of the CSS matrix() function.
type Matrix [6]float64

// Identity is the identity affine matrix.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// TranslateMatrix returns a translation by (x, y).
func TranslateMatrix(x, y float64) Matrix {
	return Matrix{1, 0, 0, 1, x, y}
}

// RotateMatrix returns a clockwise rotation (Y down) by deg degrees.
func RotateMatrix(deg float64) Matrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// ScaleMatrix returns a scale by (sx, sy).
func ScaleMatrix(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Multiply returns m * o: o is applied first, then m.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Invert computes the inverse of the matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func (m Matrix) Invert() Matrix {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms a point.
func (m Matrix) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// ApplyVector transforms a displacement: only the linear part is applied,
// translation cancels out for a difference of two points.
func (m Matrix) ApplyVector(v Vec2) Vec2 {
	return Vec2{m[0]*v.X + m[2]*v.Y, m[1]*v.X + m[3]*v.Y}
}

// CSS renders the matrix as a CSS transform function.
func (m Matrix) CSS() string {
	var sb strings.Builder
	sb.WriteString("matrix(")
	for i, v := range m {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatNumber(v))
	}
	sb.WriteByte(')')
	return sb.String()
}

// GeoM converts the matrix to an ebiten.GeoM for direct drawing.
func (m Matrix) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

// formatNumber renders v in its shortest form, with -0 printed as 0.
func formatNumber(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// --- Transform parameters ---

// TranslateTransform holds the translation of a TransformStack in the
// parent frame of the owning element.
type TranslateTransform struct {
	X, Y float64
}

// Set replaces the translation.
func (t *TranslateTransform) Set(x, y float64) {
	t.X = x
	t.Y = y
}

// RotateTransform holds a rotation in degrees. The angle is stored as given;
// callers that want it wrapped must wrap it themselves.
type RotateTransform struct {
	Angle float64
}

// Set replaces the angle.
func (r *RotateTransform) Set(angle float64) {
	r.Angle = angle
}

// ScaleTransform holds independent per-axis scale factors.
type ScaleTransform struct {
	X, Y float64
}

// Set replaces both factors.
func (s *ScaleTransform) Set(x, y float64) {
	s.X = x
	s.Y = y
}

// TransformOrigin is the pivot for rotate and scale, as fractions of the
// owning element's bounding box: (0, 0) is top-left, (1, 1) bottom-right.
type TransformOrigin struct {
	X, Y float64
}

// Set replaces the origin.
func (o *TransformOrigin) Set(x, y float64) {
	o.X = x
	o.Y = y
}

// composeTransform computes the matrix for the given parameters on a box of
// size (w, h).
//
// Composition order:
//
//	Translate(-origin) -> Scale -> Rotate -> Translate(origin) -> Translate(X, Y)
func composeTransform(t TranslateTransform, r RotateTransform, s ScaleTransform, o TransformOrigin, w, h float64) Matrix {
	ox := o.X * w
	oy := o.Y * h

	sin, cos := math.Sincos(r.Angle * math.Pi / 180)

	// After Scale * Translate(-origin):
	//   a=sx, b=0, c=0, d=sy, tx=-ox*sx, ty=-oy*sy
	preTx := -ox * s.X
	preTy := -oy * s.Y

	// After Rotate:
	a := cos * s.X
	b := sin * s.X
	c := -sin * s.Y
	d := cos * s.Y
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	// After Translate(origin) and Translate(X, Y):
	return Matrix{a, b, c, d, rtx + ox + t.X, rty + oy + t.Y}
}
