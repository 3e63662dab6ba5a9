package pad

import (
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Stroke accumulates pen samples for one freehand stroke. Samples are
// validated on entry so synthesis never sees NaN or infinite values.
//
// The outline is rebuilt from every sample on each call; cost grows
// linearly with stroke length, which is fine for hand-drawn strokes.
type Stroke struct {
	Width float64
	Color string
	// Zoom is the canvas zoom the stroke was last synthesized at.
	Zoom   float64
	points []Point
}

// NewStroke creates an empty stroke at zoom 1.
func NewStroke(width float64, color string) *Stroke {
	return &Stroke{Width: width, Color: color, Zoom: 1}
}

// Add appends a sample. Non-finite coordinates and forces outside [0, 1]
// are rejected with an INVALID_INPUT error.
func (s *Stroke) Add(p Point) error {
	if !p.Vec2().IsFinite() {
		return NewError(CodeInvalidInput, "stroke sample (%v, %v) is not finite", p.X, p.Y)
	}
	if math.IsNaN(p.Force) || p.Force < 0 || p.Force > 1 {
		return NewError(CodeInvalidInput, "stroke force %v outside [0, 1]", p.Force)
	}
	s.points = append(s.points, p)
	return nil
}

// Points returns the accepted samples. The slice MUST NOT be mutated.
func (s *Stroke) Points() []Point { return s.points }

// Len returns the number of accepted samples.
func (s *Stroke) Len() int { return len(s.points) }

// Outline returns the closed outline of the stroke at the given zoom.
func (s *Stroke) Outline(zoom float64) []Vec2 {
	return Outline(s.points, s.Width, zoom)
}

// PathData returns the SVG path of the stroke at the given zoom and
// remembers the zoom.
func (s *Stroke) PathData(zoom float64) string {
	s.Zoom = zoom
	return PathData(s.Outline(zoom))
}

// CheckStrokeParams rejects stroke widths and zooms that are not finite and
// positive with an INVALID_INPUT error.
func CheckStrokeParams(width, zoom float64) error {
	if !isFinite(width) || width <= 0 {
		return NewError(CodeInvalidInput, "stroke width %v must be finite and positive", width)
	}
	if !isFinite(zoom) || zoom <= 0 {
		return NewError(CodeInvalidInput, "stroke zoom %v must be finite and positive", zoom)
	}
	return nil
}

// Outline offsets every interior sample along the unit normal of the chord
// between its neighbors by force*width/zoom: forward for the right edge,
// backward over the reversed samples for the left edge. The endpoints are
// kept as is. Samples whose chord has zero length are skipped. zoom is
// floored at MinScale. A non-finite zoom, or a width that is negative or
// not finite, yields no outline.
func Outline(points []Point, width, zoom float64) []Vec2 {
	n := len(points)
	if n == 0 || !isFinite(zoom) || !isFinite(width) || width < 0 {
		return nil
	}
	zoom = clampMin(zoom, MinScale)
	out := make([]Vec2, 0, 2*n)

	out = append(out, points[0].Vec2())
	for j := 1; j < n-1; j++ {
		if p, ok := offsetPoint(points[j-1], points[j], points[j+1], width, zoom); ok {
			out = append(out, p)
		}
	}
	out = append(out, points[n-1].Vec2())
	for j := n - 2; j > 0; j-- {
		if p, ok := offsetPoint(points[j+1], points[j], points[j-1], width, zoom); ok {
			out = append(out, p)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// offsetPoint moves p along the left-hand normal of the chord prev->next.
func offsetPoint(prev, p, next Point, width, zoom float64) (Vec2, bool) {
	cx := next.X - prev.X
	cy := next.Y - prev.Y
	nx, ny := -cy, cx
	l := math.Hypot(nx, ny)
	if l == 0 {
		return Vec2{}, false
	}
	k := p.Force * width / zoom
	return Vec2{p.X + nx/l*k, p.Y + ny/l*k}, true
}

// PathData smooths a closed outline with running-midpoint quadratics: each
// sample is a control point and each curve ends halfway to the next sample.
// The last curve returns to the midpoint of the closing edge before Z.
//
//	M x0 y0 Q x0 y0 m01 Q x1 y1 m12 ... Q xn yn mn0 Z
func PathData(outline []Vec2) string {
	if len(outline) == 0 {
		return ""
	}
	var sb strings.Builder
	p0 := outline[0]
	sb.WriteByte('M')
	writeCoords(&sb, p0)
	for i, p := range outline {
		next := p0
		if i+1 < len(outline) {
			next = outline[i+1]
		}
		sb.WriteString(" Q ")
		writeCoords(&sb, p)
		sb.WriteByte(' ')
		writeCoords(&sb, p.Mid(next))
	}
	sb.WriteString(" Z")
	return sb.String()
}

func writeCoords(sb *strings.Builder, p Vec2) {
	sb.WriteString(formatNumber(p.X))
	sb.WriteByte(' ')
	sb.WriteString(formatNumber(p.Y))
}

// AppendPath traces the same curves as PathData into an ebiten vector path.
func AppendPath(path *vector.Path, outline []Vec2) {
	if len(outline) == 0 {
		return
	}
	p0 := outline[0]
	path.MoveTo(float32(p0.X), float32(p0.Y))
	for i, p := range outline {
		next := p0
		if i+1 < len(outline) {
			next = outline[i+1]
		}
		m := p.Mid(next)
		path.QuadTo(float32(p.X), float32(p.Y), float32(m.X), float32(m.Y))
	}
	path.Close()
}

// AppendVertices triangulates the outline for filling and appends the
// result. Draw with ebiten.FillRuleNonZero.
func AppendVertices(outline []Vec2, vertices []ebiten.Vertex, indices []uint16) ([]ebiten.Vertex, []uint16) {
	var path vector.Path
	AppendPath(&path, outline)
	return path.AppendVerticesAndIndicesForFilling(vertices, indices)
}
