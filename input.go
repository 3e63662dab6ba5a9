package pad

import (
	"slices"
	"time"
)

// PointerKind is the transition reported by a PointerEvent.
type PointerKind uint8

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerEvent is one raw pointer sample. Mouse, pen and touch input all
// arrive this way; ID distinguishes simultaneous pointers.
type PointerEvent struct {
	ID        int
	Kind      PointerKind
	X, Y      float64
	Force     float64
	Modifiers KeyModifiers

	// Target is the element under the pointer at press time. Leave it nil to
	// let the document hit test. Move and Up events always report the
	// target captured at press.
	Target *Element

	// Time is the event timestamp on the document clock. Zero means now.
	Time time.Duration

	// Src is filled in by Input before listeners run.
	Src *NativeEvent
}

// Pos returns the event position.
func (e *PointerEvent) Pos() Vec2 { return Vec2{e.X, e.Y} }

// WheelEvent is one discrete wheel step.
type WheelEvent struct {
	X, Y      float64
	DeltaY    float64
	Modifiers KeyModifiers
	Target    *Element
	Src       *NativeEvent
}

type captureListener struct {
	id uint32
	fn func(*PointerEvent)
}

// CaptureHandle allows removing a capture listener.
type CaptureHandle struct {
	id uint32
	in *Input
}

// Remove unregisters the listener so it no longer fires.
func (h CaptureHandle) Remove() {
	if h.in == nil {
		return
	}
	h.in.capture = slices.DeleteFunc(h.in.capture, func(l captureListener) bool { return l.id == h.id })
}

type pressState struct {
	target *Element
	start  Vec2
	pos    Vec2
	at     time.Duration
}

// Input routes raw pointer and wheel events to capture listeners and to the
// recognizers registered on the target's ancestor path.
//
// Dispatch order: capture listeners in registration order, then recognizers
// from the deepest source element up to the root, recognizers on the same
// element in registration order. Recognizers always observe pointer
// transitions so their pointer bookkeeping stays correct; they emit gestures
// only while the native event has not been stopped.
type Input struct {
	doc         *Document
	pressed     map[int]*pressState
	capture     []captureListener
	recognizers []*Recognizer
	store       EventStore
	defaults    RecognizerConfig
	nextID      uint32
	visit       uint32
	inject      []syntheticEvent
}

func newInput(doc *Document) *Input {
	return &Input{doc: doc, pressed: make(map[int]*pressState), defaults: DefaultRecognizerConfig()}
}

// SetRecognizerConfig changes the tap limits of every existing and future
// recognizer.
func (in *Input) SetRecognizerConfig(cfg RecognizerConfig) {
	in.defaults = cfg.withDefaults()
	for _, r := range in.recognizers {
		r.cfg = in.defaults
	}
}

// SetEventStore forwards every emitted gesture to store. Nil disables it.
func (in *Input) SetEventStore(store EventStore) {
	in.store = store
}

// ActivePointers returns the number of pointers currently pressed.
func (in *Input) ActivePointers() int {
	return len(in.pressed)
}

// AddCaptureListener registers fn to see every pointer event before any
// recognizer does.
func (in *Input) AddCaptureListener(fn func(*PointerEvent)) CaptureHandle {
	in.nextID++
	in.capture = append(in.capture, captureListener{id: in.nextID, fn: fn})
	return CaptureHandle{id: in.nextID, in: in}
}

// NewRecognizer creates an enabled recognizer whose gestures are fed by
// pointers pressed on source or its descendants.
func (in *Input) NewRecognizer(source *Element) *Recognizer {
	r := &Recognizer{input: in, source: source, cfg: in.defaults, enabled: true}
	in.recognizers = append(in.recognizers, r)
	return r
}

func (in *Input) removeRecognizer(r *Recognizer) {
	in.recognizers = slices.DeleteFunc(in.recognizers, func(x *Recognizer) bool { return x == r })
}

// Pointer dispatches a raw pointer event. Moves and releases of pointers
// that are not pressed are ignored.
func (in *Input) Pointer(ev PointerEvent) {
	if ev.Time == 0 {
		ev.Time = in.doc.now
	}

	switch ev.Kind {
	case PointerDown:
		if _, ok := in.pressed[ev.ID]; ok {
			return
		}
		if ev.Target == nil {
			ev.Target = in.doc.HitTest(ev.Pos())
		}
		in.pressed[ev.ID] = &pressState{target: ev.Target, start: ev.Pos(), pos: ev.Pos(), at: ev.Time}
	case PointerMove, PointerUp:
		ps, ok := in.pressed[ev.ID]
		if !ok {
			return
		}
		ev.Target = ps.target
		ps.pos = ev.Pos()
		if ev.Kind == PointerUp {
			delete(in.pressed, ev.ID)
			defer in.maybeClick(&ev, ps)
		}
	}

	ev.Src = &NativeEvent{Target: ev.Target}
	native := ev.Src

	for _, l := range slices.Clone(in.capture) {
		l.fn(&ev)
		if native.immediateStopped {
			break
		}
	}

	in.visit++
	stopped := native.propagationStopped
	for el := ev.Target; el != nil; el = el.Parent {
		for _, r := range in.recognizersOn(el) {
			r.visit = in.visit
			r.handlePointer(&ev, stopped || native.immediateStopped)
		}
		if native.propagationStopped {
			stopped = true
		}
	}

	// Recognizers still tracking this pointer after the tree changed under it
	// must see the transition too.
	if ev.Kind != PointerDown {
		for _, r := range slices.Clone(in.recognizers) {
			if r.visit != in.visit && r.tracks(ev.ID) {
				r.handlePointer(&ev, true)
			}
		}
	}
}

// Wheel dispatches a wheel step along the target's ancestor path.
func (in *Input) Wheel(ev WheelEvent) {
	if ev.Target == nil {
		ev.Target = in.doc.HitTest(Vec2{ev.X, ev.Y})
	}
	ev.Src = &NativeEvent{Target: ev.Target}
	native := ev.Src

	for el := ev.Target; el != nil; el = el.Parent {
		for _, r := range in.recognizersOn(el) {
			if native.immediateStopped {
				return
			}
			r.handleWheel(&ev)
		}
		if native.propagationStopped {
			return
		}
	}
}

// maybeClick dispatches a "click" element event on the press target when the
// release completes a short, still press whose default was not prevented.
func (in *Input) maybeClick(ev *PointerEvent, ps *pressState) {
	if ev.Target == nil || ev.Src.defaultPrevented {
		return
	}
	if ev.Time-ps.at > in.defaults.TapTime || ps.pos.Sub(ps.start).Len() > in.defaults.TapSlop {
		return
	}
	ev.Target.DispatchEvent("click", ev.Pos())
}

func (in *Input) recognizersOn(el *Element) []*Recognizer {
	var out []*Recognizer
	for _, r := range in.recognizers {
		if r.source == el {
			out = append(out, r)
		}
	}
	return out
}

func (in *Input) emit(ev GestureEvent) {
	if in.store != nil {
		in.store.EmitEvent(ev)
	}
}
