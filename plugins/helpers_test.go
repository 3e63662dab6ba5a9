package plugins

import (
	"testing"
	"time"

	"github.com/phanxgames/pad"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// loadManager creates an 800x600 manager, registers ps in order, loads them
// and runs two frames so deferred binds settle.
func loadManager(t *testing.T, ps ...pad.Plugin) *pad.Manager {
	t.Helper()
	m, err := pad.NewManager(pad.DefaultConfig(), pad.Rect{Width: 800, Height: 600})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range ps {
		if err := m.AddPlugin(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := m.Unload(); err != nil {
			t.Errorf("unload: %v", err)
		}
	})
	settle(m)
	return m
}

// settle runs enough frames for an rAF-deferred bind to resolve.
func settle(m *pad.Manager) {
	m.Frame(0)
	m.Frame(0)
}

func pointer(m *pad.Manager, kind pad.PointerKind, id int, x, y, force float64, at time.Duration, target *pad.Element) {
	m.Document().Input().Pointer(pad.PointerEvent{
		ID: id, Kind: kind, X: x, Y: y, Force: force, Time: at, Target: target,
	})
}

func dragPointer(m *pad.Manager, x0, y0, x1, y1, force float64, at int) {
	pointer(m, pad.PointerDown, 1, x0, y0, force, ms(at), nil)
	pointer(m, pad.PointerMove, 1, (x0+x1)/2, (y0+y1)/2, force, ms(at+10), nil)
	pointer(m, pad.PointerMove, 1, x1, y1, force, ms(at+20), nil)
	pointer(m, pad.PointerUp, 1, x1, y1, force, ms(at+30), nil)
}

func tap(m *pad.Manager, x, y float64, at int, target *pad.Element) {
	pointer(m, pad.PointerDown, 1, x, y, 0, ms(at), target)
	pointer(m, pad.PointerUp, 1, x, y, 0, ms(at+10), target)
}

// addObject appends a measured div to the canvas.
func addObject(m *pad.Manager, x, y, w, h float64, classes ...string) *pad.Element {
	el := m.Document().CreateElement("div", classes...)
	el.SetPosition(x, y)
	el.SetSize(w, h)
	m.Canvas().AppendChild(el)
	return el
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
