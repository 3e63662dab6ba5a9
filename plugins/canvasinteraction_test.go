package plugins

import (
	"strings"
	"testing"

	"github.com/phanxgames/pad"
)

func TestCanvasRulePublished(t *testing.T) {
	m := loadManager(t, NewCanvasInteraction())
	canvas := m.Canvas()

	st := canvas.Stack()
	if st == nil || canvas.Interactable() == nil {
		t.Fatal("canvas not bound and attached after load")
	}
	if st.Origin.X != 0.5 || st.Origin.Y != 0.5 {
		t.Errorf("origin = %+v", st.Origin)
	}
	if !strings.Contains(m.Style().Text, "transform: matrix(1, 0, 0, 1, 0, 0);") {
		t.Errorf("style = %q", m.Style().Text)
	}
}

func TestCanvasPanWritesRule(t *testing.T) {
	m := loadManager(t, NewCanvasInteraction())
	canvas := m.Canvas()

	dragPointer(m, 400, 300, 450, 300, 0, 0)
	st := canvas.Stack()
	if !near(st.Translate.X, 50) || !near(st.Translate.Y, 0) {
		t.Fatalf("translate = %+v", st.Translate)
	}
	if !strings.Contains(m.Style().Text, "matrix(1, 0, 0, 1, 50, 0)") {
		t.Errorf("style = %q", m.Style().Text)
	}
	// The rule is the only sink; the element's own transform stays put.
	if canvas.Transform() != pad.Identity {
		t.Errorf("canvas transform = %v", canvas.Transform())
	}
	// Hit testing follows the stack.
	if got := m.Document().HitTest(pad.Vec2{X: 845, Y: 300}); got != canvas {
		t.Errorf("hit %v, want the panned canvas", got)
	}
}

func TestCanvasWheelZoom(t *testing.T) {
	m := loadManager(t, NewCanvasInteraction())
	m.Document().Input().Wheel(pad.WheelEvent{X: 400, Y: 300, DeltaY: -100, Modifiers: pad.ModCtrl})
	st := m.Canvas().Stack()
	if !near(st.Scale.X, 1.1) || !near(st.Scale.Y, 1.1) {
		t.Errorf("scale = %+v", st.Scale)
	}
}

func TestCanvasUnloadDetaches(t *testing.T) {
	m := loadManager(t, NewCanvasInteraction())
	p := m.Plugin("CanvasInteraction")
	if err := p.OnUnload(); err != nil {
		t.Fatal(err)
	}
	if m.Canvas().Interactable() != nil {
		t.Error("canvas still interactive")
	}
	dragPointer(m, 400, 300, 450, 300, 0, 0)
	if !near(m.Canvas().Stack().Translate.X, 0) {
		t.Error("detached canvas moved")
	}
}

func TestCanvasRuleVendorPrefixes(t *testing.T) {
	rule := CanvasRule("matrix(2, 0, 0, 2, 0, 0)")
	for _, prefix := range []string{"-webkit-", "-moz-", "-ms-", "-o-", "    "} {
		if !strings.Contains(rule, prefix+"transform: matrix(2, 0, 0, 2, 0, 0);") {
			t.Errorf("rule lacks %q:\n%s", prefix, rule)
		}
	}
	if !strings.Contains(rule, "#canvas {") {
		t.Errorf("rule selector:\n%s", rule)
	}
}
