package pad

import (
	"testing"
)

type recordingStore struct {
	events []GestureEvent
}

func (s *recordingStore) EmitEvent(ev GestureEvent) { s.events = append(s.events, ev) }

func TestCaptureListenersRunFirst(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()

	var order []string
	in.AddCaptureListener(func(*PointerEvent) { order = append(order, "capture") })
	r := in.NewRecognizer(doc.Body())
	r.On(GesturePan, func(GestureEvent) { order = append(order, "pan") })

	down(in, 1, 0, 0, ms(0), nil)
	move(in, 1, 20, 0, ms(10))

	if len(order) < 3 || order[0] != "capture" || order[1] != "capture" || order[2] != "pan" {
		t.Errorf("order = %v", order)
	}
}

func TestCaptureImmediateStopMutesRecognizers(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()

	var second int
	in.AddCaptureListener(func(ev *PointerEvent) { ev.Src.StopImmediatePropagation() })
	in.AddCaptureListener(func(*PointerEvent) { second++ })
	_, log := newRecorded(doc, doc.Body())

	down(in, 1, 0, 0, ms(0), nil)
	move(in, 1, 20, 0, ms(10))
	up(in, 1, 20, 0, ms(20))

	if second != 0 {
		t.Error("later capture listener ran")
	}
	if len(log.events) != 0 {
		t.Errorf("recognizer emitted %d events", len(log.events))
	}
	if in.ActivePointers() != 0 {
		t.Errorf("active pointers = %d after release", in.ActivePointers())
	}
}

func TestCaptureHandleRemove(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()
	var n int
	h := in.AddCaptureListener(func(*PointerEvent) { n++ })
	down(in, 1, 0, 0, ms(0), nil)
	h.Remove()
	up(in, 1, 0, 0, ms(10))
	if n != 1 {
		t.Errorf("listener ran %d times, want 1", n)
	}
}

func TestStopPropagationSparesSameElement(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()
	child := addBox(doc.Body(), 0, 0, 100, 100)

	var childA, childB, parent int
	a := in.NewRecognizer(child)
	a.On(GesturePan, func(ev GestureEvent) {
		childA++
		ev.Src.StopPropagation()
	})
	b := in.NewRecognizer(child)
	b.On(GesturePan, func(GestureEvent) { childB++ })
	p := in.NewRecognizer(doc.Body())
	p.On(GesturePan, func(GestureEvent) { parent++ })

	down(in, 1, 10, 10, ms(0), nil)
	move(in, 1, 30, 10, ms(10))

	if childA == 0 || childB == 0 {
		t.Errorf("same-element recognizers: a=%d b=%d", childA, childB)
	}
	if parent != 0 {
		t.Errorf("ancestor received %d events after StopPropagation", parent)
	}
}

func TestStopImmediatePropagationStopsSiblings(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()
	child := addBox(doc.Body(), 0, 0, 100, 100)

	var b int
	a := in.NewRecognizer(child)
	a.On(GesturePan, func(ev GestureEvent) { ev.Src.StopImmediatePropagation() })
	second := in.NewRecognizer(child)
	second.On(GesturePan, func(GestureEvent) { b++ })

	down(in, 1, 10, 10, ms(0), nil)
	move(in, 1, 30, 10, ms(10))
	move(in, 1, 50, 10, ms(20))
	if b != 0 {
		t.Errorf("sibling received %d events", b)
	}
}

func TestTargetCapturedAtPress(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()
	box := addBox(doc.Body(), 0, 0, 50, 50)

	var targets []*Element
	in.AddCaptureListener(func(ev *PointerEvent) { targets = append(targets, ev.Target) })

	down(in, 1, 10, 10, ms(0), nil)
	move(in, 1, 400, 400, ms(10))
	up(in, 1, 400, 400, ms(20))
	for i, tg := range targets {
		if tg != box {
			t.Errorf("event %d target = %v, want box", i, tg)
		}
	}
}

func TestUnpressedMovesIgnored(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()
	var n int
	in.AddCaptureListener(func(*PointerEvent) { n++ })
	move(in, 7, 1, 1, ms(0))
	up(in, 7, 1, 1, ms(1))
	if n != 0 {
		t.Errorf("listener saw %d events for an unpressed pointer", n)
	}
}

func TestClickOnShortPress(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()
	box := addBox(doc.Body(), 0, 0, 50, 50)

	var clicks int
	box.AddEventListener("click", func(ev Event) {
		clicks++
		if ev.Target != box {
			t.Error("click target")
		}
	})

	down(in, 1, 10, 10, ms(0), nil)
	up(in, 1, 11, 10, ms(50))
	if clicks != 1 {
		t.Fatalf("clicks = %d, want 1", clicks)
	}

	// A drag is not a click.
	down(in, 1, 10, 10, ms(1000), nil)
	move(in, 1, 40, 40, ms(1010))
	up(in, 1, 40, 40, ms(1020))
	if clicks != 1 {
		t.Errorf("drag clicked, clicks = %d", clicks)
	}

	// Neither is a consumed press.
	in.AddCaptureListener(func(ev *PointerEvent) { ev.Src.PreventDefault() })
	down(in, 1, 10, 10, ms(2000), nil)
	up(in, 1, 10, 10, ms(2010))
	if clicks != 1 {
		t.Errorf("prevented press clicked, clicks = %d", clicks)
	}
}

func TestRemovedTargetStillEndsGesture(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()
	box := addBox(doc.Body(), 0, 0, 100, 100)
	_, log := newRecorded(doc, box)

	down(in, 1, 10, 10, ms(0), nil)
	move(in, 1, 30, 10, ms(10))
	box.Remove()
	up(in, 1, 30, 10, ms(20))

	if log.count(GesturePan, PhaseEnd) != 1 {
		t.Error("pan on the removed element did not end")
	}
}

func TestDetachedTargetReleasesPointer(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()
	box := addBox(doc.Body(), 0, 0, 100, 100)
	_, log := newRecorded(doc, doc.Body())

	down(in, 1, 10, 10, ms(0), nil)
	move(in, 1, 30, 10, ms(10))
	box.Remove()
	// The body is no longer on the target's path; the release reaches it
	// muted so the pointer is forgotten without an end.
	up(in, 1, 30, 10, ms(20))
	if log.count(GesturePan, PhaseEnd) != 0 {
		t.Error("muted release emitted an end")
	}

	down(in, 2, 10, 10, ms(100), nil)
	move(in, 2, 30, 10, ms(110))
	if log.count(GesturePan, PhaseStart) != 2 {
		t.Errorf("pan starts = %d, want 2", log.count(GesturePan, PhaseStart))
	}
	if ev, _ := log.last(GesturePan); ev.Pointers != 1 {
		t.Errorf("pointers = %d, want 1", ev.Pointers)
	}
}

func TestEventStoreReceivesGestures(t *testing.T) {
	doc := newTestDocument()
	in := doc.Input()
	store := &recordingStore{}
	in.SetEventStore(store)
	in.NewRecognizer(doc.Body())

	down(in, 1, 0, 0, ms(0), nil)
	up(in, 1, 0, 0, ms(10))
	if len(store.events) != 1 || store.events[0].Type != GestureTap {
		t.Fatalf("store events = %+v", store.events)
	}

	in.SetEventStore(nil)
	down(in, 1, 0, 0, ms(1000), nil)
	up(in, 1, 0, 0, ms(1010))
	if len(store.events) != 1 {
		t.Error("store still receiving after reset")
	}
}

func TestHitTestTopmost(t *testing.T) {
	doc := newTestDocument()
	a := addBox(doc.Body(), 0, 0, 100, 100)
	b := addBox(doc.Body(), 50, 50, 100, 100)
	ghost := addBox(doc.Body(), 0, 0, 200, 200)
	ghost.SetStyle("pointer-events", "none")

	if got := doc.HitTest(Vec2{75, 75}); got != b {
		t.Errorf("overlap hit %v, want b", got)
	}
	if got := doc.HitTest(Vec2{10, 10}); got != a {
		t.Errorf("hit %v, want a", got)
	}
	if got := doc.HitTest(Vec2{500, 500}); got != doc.Body() {
		t.Errorf("miss hit %v, want body", got)
	}
}

func TestHitTestRespectsTransform(t *testing.T) {
	doc := newTestDocument()
	box := addBox(doc.Body(), 0, 0, 100, 100)
	st := mustBind(t, box)
	st.Translate.Set(300, 0)
	st.ReapplyTransforms(true)

	if got := doc.HitTest(Vec2{50, 50}); got == box {
		t.Error("hit the box at its untransformed position")
	}
	if got := doc.HitTest(Vec2{350, 50}); got != box {
		t.Errorf("hit %v, want box", got)
	}
}
