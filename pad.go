package pad

import "math"

// MinScale is the smallest scale factor user input may drive a transform to.
// It keeps transforms invertible and prevents mirrored content.
const MinScale = 0.01

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Mid returns the point halfway between v and o.
func (v Vec2) Mid(o Vec2) Vec2 {
	return Vec2{v.X + (o.X-v.X)/2, v.Y + (o.Y-v.Y)/2}
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Point is a pen sample: a position tagged with the pressure reported by the
// input device. Force is in [0, 1]; mouse samples typically report 0.
type Point struct {
	X, Y  float64
	Force float64
}

// Vec2 returns the position of p.
func (p Point) Vec2() Vec2 { return Vec2{p.X, p.Y} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Has reports whether all modifiers in m are held.
func (k KeyModifiers) Has(m KeyModifiers) bool { return k&m == m }

// clampMin returns v, or floor when v is below floor or NaN.
func clampMin(v, floor float64) float64 {
	if !(v >= floor) {
		return floor
	}
	return v
}

// wrapDegrees maps an angle into [0, 360).
func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
