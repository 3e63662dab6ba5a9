package plugins

import (
	"testing"

	"github.com/phanxgames/pad"
)

func TestPenStroke(t *testing.T) {
	d := NewCanvasDrawing()
	m := loadManager(t, NewCanvasInteraction(), d)
	canvasIt := m.Canvas().Interactable()

	pointer(m, pad.PointerDown, 1, 400, 300, 0.5, ms(0), nil)
	paths := m.DrawingSurface().Children()
	if len(paths) != 1 {
		t.Fatalf("drawing surface has %d children", len(paths))
	}
	path := paths[0]
	if fill, _ := path.Attribute("fill"); fill != "black" {
		t.Errorf("fill = %q", fill)
	}
	if canvasIt.Enabled() {
		t.Error("canvas enabled while drawing")
	}

	pointer(m, pad.PointerMove, 1, 420, 300, 0.5, ms(10), nil)
	pointer(m, pad.PointerMove, 1, 440, 310, 0.8, ms(20), nil)
	pointer(m, pad.PointerUp, 1, 440, 310, 0.8, ms(30), nil)

	stroke, ok := path.UserData.(*pad.Stroke)
	if !ok || stroke.Len() != 3 {
		t.Fatalf("stroke = %#v", path.UserData)
	}
	want := stroke.PathData(1)
	if got, _ := path.Attribute("d"); got != want || got == "" {
		t.Errorf("d = %q, want %q", got, want)
	}
	if x := m.Canvas().Stack().Translate.X; !near(x, 0) {
		t.Errorf("canvas panned by %v under the pen", x)
	}

	m.Frame(ms(49))
	if canvasIt.Enabled() {
		t.Error("canvas re-enabled before the delay")
	}
	m.Frame(ms(1))
	if !canvasIt.Enabled() {
		t.Error("canvas not re-enabled after the delay")
	}
}

func TestPenSamplesInCanvasSpace(t *testing.T) {
	d := NewCanvasDrawing()
	m := loadManager(t, NewCanvasInteraction(), d)
	st := m.Canvas().Stack()
	st.Translate.Set(100, 0)
	st.ReapplyTransforms(true)

	pointer(m, pad.PointerDown, 1, 400, 300, 1, ms(0), nil)
	pointer(m, pad.PointerUp, 1, 400, 300, 1, ms(10), nil)

	stroke := m.DrawingSurface().Children()[0].UserData.(*pad.Stroke)
	p := stroke.Points()[0]
	if !near(p.X, 300) || !near(p.Y, 300) || p.Force != 1 {
		t.Errorf("sample = %+v, want (300, 300, 1)", p)
	}
}

func TestMouseWithoutForcePans(t *testing.T) {
	m := loadManager(t, NewCanvasInteraction(), NewCanvasDrawing())
	dragPointer(m, 400, 300, 450, 300, 0, 0)
	if len(m.DrawingSurface().Children()) != 0 {
		t.Error("zero-force input drew")
	}
	if x := m.Canvas().Stack().Translate.X; !near(x, 50) {
		t.Errorf("canvas translate = %v, want 50", x)
	}
}

func TestSecondPointerDoesNotDraw(t *testing.T) {
	m := loadManager(t, NewCanvasInteraction(), NewCanvasDrawing())
	pointer(m, pad.PointerDown, 1, 400, 300, 0, ms(0), nil)
	pointer(m, pad.PointerDown, 2, 500, 300, 0.5, ms(1), nil)
	if len(m.DrawingSurface().Children()) != 0 {
		t.Error("multi-touch press drew")
	}
}

func TestPaletteTapSelectsColor(t *testing.T) {
	d := NewCanvasDrawing()
	m := loadManager(t, NewCanvasInteraction(), d)
	if d.Color() != "black" {
		t.Fatalf("initial color = %q", d.Color())
	}

	// Second swatch: the palette sits at (10, 10) with 40px swatches.
	tap(m, 10+40+5, 15, 0, nil)
	if d.Color() != "red" {
		t.Fatalf("color = %q, want red", d.Color())
	}
	active := 0
	for _, s := range d.swatches {
		if v, _ := s.Attribute("active"); v == "true" {
			active++
		}
	}
	if active != 1 {
		t.Errorf("%d active swatches", active)
	}

	// A pen press on the palette never starts a stroke.
	pointer(m, pad.PointerDown, 1, 15, 15, 0.5, ms(1000), nil)
	pointer(m, pad.PointerUp, 1, 15, 15, 0.5, ms(1010), nil)
	if len(m.DrawingSurface().Children()) != 0 {
		t.Error("pen on the palette drew")
	}
}

func TestSelectColor(t *testing.T) {
	d := NewCanvasDrawing()
	loadManager(t, d)
	if !d.SelectColor("blue") || d.Color() != "blue" {
		t.Error("blue not selected")
	}
	if d.SelectColor("teal") || d.Color() != "blue" {
		t.Error("unknown color changed the selection")
	}
}

func TestDrawingUnload(t *testing.T) {
	d := NewCanvasDrawing()
	m := loadManager(t, NewCanvasInteraction(), d)
	pointer(m, pad.PointerDown, 1, 400, 300, 0.5, ms(0), nil)

	if err := d.OnUnload(); err != nil {
		t.Fatal(err)
	}
	if d.Palette().Connected() {
		t.Error("palette still attached")
	}
	if !m.Canvas().Interactable().Enabled() {
		t.Error("canvas left disabled")
	}
	pointer(m, pad.PointerMove, 1, 450, 300, 0.5, ms(10), nil)
	stroke := m.DrawingSurface().Children()[0].UserData.(*pad.Stroke)
	if stroke.Len() != 1 {
		t.Error("unloaded plugin kept sampling")
	}
}
