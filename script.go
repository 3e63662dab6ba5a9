package pad

import (
	"encoding/json"
	"strings"
)

// scriptStep is a single action in a replay script.
type scriptStep struct {
	Action    string   `json:"action"`
	Label     string   `json:"label,omitempty"`
	X         float64  `json:"x,omitempty"`
	Y         float64  `json:"y,omitempty"`
	FromX     float64  `json:"fromX,omitempty"`
	FromY     float64  `json:"fromY,omitempty"`
	ToX       float64  `json:"toX,omitempty"`
	ToY       float64  `json:"toY,omitempty"`
	Frames    int      `json:"frames,omitempty"`
	Force     float64  `json:"force,omitempty"`
	DeltaY    float64  `json:"deltaY,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`

	mods KeyModifiers
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// Snapshot records the composed matrix of every bound element at one point
// of a replay, keyed by element ID.
type Snapshot struct {
	Label      string            `toml:"label"`
	Frame      int               `toml:"frame"`
	Transforms map[string]string `toml:"transforms"`
}

// ScriptRunner sequences injected input and snapshots across frames. Attach
// it with Document.SetScript; it advances once per Frame.
//
//	{"steps": [
//	  {"action": "drag", "fromX": 400, "fromY": 300, "toX": 450, "toY": 300, "frames": 6},
//	  {"action": "wheel", "x": 400, "y": 300, "deltaY": -100, "modifiers": ["ctrl"]},
//	  {"action": "snapshot", "label": "zoomed"}
//	]}
//
// Actions: tap, doubletap, drag (force > 0 draws), wheel, wait, snapshot.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	snapshots []Snapshot
}

var modifierNames = map[string]KeyModifiers{
	"shift": ModShift,
	"ctrl":  ModCtrl,
	"alt":   ModAlt,
	"meta":  ModMeta,
}

// LoadScript parses a JSON replay script. Malformed JSON, an empty step
// list, unknown actions and unknown modifiers fail with INVALID_INPUT.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, WrapError(CodeInvalidInput, err, "parse script")
	}
	if len(s.Steps) == 0 {
		return nil, NewError(CodeInvalidInput, "parse script: no steps")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		switch st.Action {
		case "tap", "doubletap", "drag", "wheel", "wait", "snapshot":
		default:
			return nil, NewError(CodeInvalidInput, "step %d: unknown action %q", i, st.Action)
		}
		if st.Force < 0 || st.Force > 1 {
			return nil, NewError(CodeInvalidInput, "step %d: force %v outside [0, 1]", i, st.Force)
		}
		for _, name := range st.Modifiers {
			m, ok := modifierNames[strings.ToLower(name)]
			if !ok {
				return nil, NewError(CodeInvalidInput, "step %d: unknown modifier %q", i, name)
			}
			st.mods |= m
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScript attaches a runner to the document. Nil detaches the current one.
func (d *Document) SetScript(r *ScriptRunner) {
	d.script = r
}

// Done reports whether every step has run and all injected input drained.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Snapshots returns the snapshots taken so far.
func (r *ScriptRunner) Snapshots() []Snapshot {
	return r.snapshots
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(d *Document) {
	if r.done {
		return
	}
	in := d.input
	// Wait for pending injections to drain before advancing.
	if in.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "snapshot":
		r.snapshots = append(r.snapshots, takeSnapshot(d, st.Label))
	case "tap":
		in.InjectTap(st.X, st.Y)
	case "doubletap":
		in.InjectTap(st.X, st.Y)
		in.InjectTap(st.X, st.Y)
	case "drag":
		in.InjectDrag(Vec2{st.FromX, st.FromY}, Vec2{st.ToX, st.ToY}, st.Frames, st.Force)
	case "wheel":
		in.InjectWheel(st.X, st.Y, st.DeltaY, st.mods)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && in.Pending() == 0 {
		r.done = true
	}
}

func takeSnapshot(d *Document, label string) Snapshot {
	snap := Snapshot{Label: label, Frame: d.frames, Transforms: make(map[string]string)}
	var walk func(*Element)
	walk = func(e *Element) {
		if e.stack != nil {
			snap.Transforms[e.ID] = e.stack.Matrix().CSS()
		}
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(d.body)
	logger.Debug("snapshot", "label", label, "frame", snap.Frame, "elements", len(snap.Transforms))
	return snap
}
