package pad

import (
	"testing"
	"time"
)

const frameStep = 16 * time.Millisecond

// runScript attaches r and runs frames until it finishes.
func runScript(t *testing.T, doc *Document, r *ScriptRunner) {
	t.Helper()
	doc.SetScript(r)
	for i := 0; !r.Done(); i++ {
		if i > 1000 {
			t.Fatal("script did not finish")
		}
		doc.Frame(frameStep)
	}
}

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "snapshot", "label": "initial"},
			{"action": "tap", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "wheel", "x": 1, "y": 2, "deltaY": -10, "modifiers": ["Ctrl", "alt"]},
			{"action": "snapshot", "label": "after"}
		]
	}`)

	r, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(r.steps))
	}
	if r.steps[1].Action != "tap" || r.steps[1].X != 100 || r.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if r.steps[3].mods != ModCtrl|ModAlt {
		t.Errorf("modifiers = %v", r.steps[3].mods)
	}
}

func TestLoadScriptInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "screenshot"}]}`},
		{"unknown modifier", `{"steps": [{"action": "wheel", "modifiers": ["hyper"]}]}`},
		{"force", `{"steps": [{"action": "drag", "force": 2}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.data)); !IsCode(err, CodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestScriptWaitsForInjections(t *testing.T) {
	doc := newTestDocument()
	r, err := LoadScript([]byte(`{"steps": [{"action": "tap", "x": 50, "y": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}
	doc.SetScript(r)

	// The tap queues two events; the first drains in the same frame.
	doc.Frame(frameStep)
	if r.Done() || doc.Input().Pending() != 1 {
		t.Fatalf("done=%v pending=%d", r.Done(), doc.Input().Pending())
	}
	doc.Frame(frameStep)
	doc.Frame(frameStep)
	if !r.Done() {
		t.Error("runner not done after the queue drained")
	}
}

func TestScriptWait(t *testing.T) {
	doc := newTestDocument()
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "snapshot", "label": "late"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, doc, r)
	snaps := r.Snapshots()
	if len(snaps) != 1 || snaps[0].Frame != 4 {
		t.Errorf("snapshots = %+v", snaps)
	}
}

func TestScriptSnapshotsTransforms(t *testing.T) {
	doc := newTestDocument()
	box := addBox(doc.Body(), 0, 0, 100, 100)
	mustBind(t, box)
	if _, err := Attach(box, ManipulationOptions{}); err != nil {
		t.Fatal(err)
	}
	unbound := addBox(doc.Body(), 300, 300, 10, 10)

	r, err := LoadScript([]byte(`{"steps": [
		{"action": "snapshot", "label": "before"},
		{"action": "drag", "fromX": 50, "fromY": 50, "toX": 90, "toY": 50, "frames": 5},
		{"action": "wheel", "x": 50, "y": 50, "deltaY": -900, "modifiers": ["alt"]},
		{"action": "snapshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, doc, r)

	snaps := r.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %+v", snaps)
	}
	if got := snaps[0].Transforms[box.ID]; got != "matrix(1, 0, 0, 1, 0, 0)" {
		t.Errorf("before = %q", got)
	}
	// Translated by 40, then rotated 90 degrees around the center.
	if got, want := snaps[1].Transforms[box.ID], box.Stack().Matrix().CSS(); got != want {
		t.Errorf("after = %q, want %q", got, want)
	}
	assertNear(t, "translate", box.Stack().Translate.X, 40)
	assertNear(t, "angle", box.Stack().Rotate.Angle, 90)
	if _, ok := snaps[1].Transforms[unbound.ID]; ok {
		t.Error("unbound element in snapshot")
	}
}

func TestScriptDoubleTap(t *testing.T) {
	doc := newTestDocument()
	_, log := newRecorded(doc, doc.Body())
	r, err := LoadScript([]byte(`{"steps": [{"action": "doubletap", "x": 5, "y": 5}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, doc, r)
	if log.count(GestureDoubleTap, PhaseNone) != 1 {
		t.Errorf("double taps = %d", log.count(GestureDoubleTap, PhaseNone))
	}
}

func TestScriptDetach(t *testing.T) {
	doc := newTestDocument()
	r, _ := LoadScript([]byte(`{"steps": [{"action": "tap", "x": 5, "y": 5}]}`))
	doc.SetScript(r)
	doc.SetScript(nil)
	doc.Frame(frameStep)
	if doc.Input().Pending() != 0 || r.Done() {
		t.Error("detached script advanced")
	}
}
