package pad

import "testing"

func countingOptions(n *int) ManipulationOptions {
	return ManipulationOptions{OnEvent: func(GestureEvent) { *n++ }}
}

func TestAttachTwiceDeliversOnce(t *testing.T) {
	doc := newTestDocument()
	box := addBox(doc.Body(), 0, 0, 100, 100)
	st := mustBind(t, box)

	var first, second int
	if _, err := Attach(box, countingOptions(&first)); err != nil {
		t.Fatal(err)
	}
	it, err := Attach(box, countingOptions(&second))
	if err != nil {
		t.Fatal(err)
	}
	if box.Interactable() != it {
		t.Fatal("element does not hold the latest binding")
	}

	in := doc.Input()
	down(in, 1, 10, 10, ms(0), box)
	move(in, 1, 30, 10, ms(10))
	up(in, 1, 30, 10, ms(20))

	if first != 0 {
		t.Errorf("replaced binding saw %d events", first)
	}
	// Start and Move on the first sample, then End.
	if second != 3 {
		t.Errorf("events = %d, want 3", second)
	}
	assertNear(t, "translate", st.Translate.X, 20)
}

func TestDetachThenAttach(t *testing.T) {
	doc := newTestDocument()
	box := addBox(doc.Body(), 0, 0, 100, 100)
	st := mustBind(t, box)
	in := doc.Input()

	if _, err := Attach(box, ManipulationOptions{}); err != nil {
		t.Fatal(err)
	}
	Detach(box)
	Detach(box) // no-op
	if box.Interactable() != nil {
		t.Fatal("binding survived Detach")
	}

	down(in, 1, 10, 10, ms(0), box)
	move(in, 1, 30, 10, ms(10))
	up(in, 1, 30, 10, ms(20))
	assertNear(t, "detached", st.Translate.X, 0)

	if _, err := Attach(box, ManipulationOptions{}); err != nil {
		t.Fatal(err)
	}
	down(in, 1, 10, 10, ms(100), box)
	move(in, 1, 30, 10, ms(110))
	up(in, 1, 30, 10, ms(120))
	assertNear(t, "reattached", st.Translate.X, 20)
}

func TestDetachNil(t *testing.T) {
	Detach(nil)
	if _, err := Attach(nil, ManipulationOptions{}); !IsCode(err, CodeInvalidTarget) {
		t.Errorf("err = %v, want INVALID_TARGET", err)
	}
}

// arbitrationFixture builds body > canvas > a > b, each interactive. The
// canvas listens on the body and owns presses on the body or itself; a owns
// anything inside it that b does not take first.
func arbitrationFixture(t *testing.T) (doc *Document, canvas, a, b *Element) {
	t.Helper()
	doc = newTestDocument()
	canvas = addBox(doc.Body(), 0, 0, 800, 600)
	a = addBox(canvas, 100, 100, 200, 200)
	b = addBox(a, 50, 50, 50, 50)
	for _, el := range []*Element{canvas, a, b} {
		mustBind(t, el)
	}

	mustAttach := func(el *Element, opts ManipulationOptions) {
		t.Helper()
		if _, err := Attach(el, opts); err != nil {
			t.Fatalf("attach %s: %v", el.ID, err)
		}
	}
	mustAttach(canvas, ManipulationOptions{
		EventSource:  doc.Body(),
		IsValidEvent: ConsumeIfTarget(doc.Body(), canvas),
	})
	mustAttach(a, ManipulationOptions{IsValidEvent: ConsumeIfWithin(a)})
	mustAttach(b, ManipulationOptions{})
	return doc, canvas, a, b
}

func drag(in *Input, from, to Vec2, at int) {
	down(in, 1, from.X, from.Y, ms(at), nil)
	move(in, 1, (from.X+to.X)/2, (from.Y+to.Y)/2, ms(at+10))
	move(in, 1, to.X, to.Y, ms(at+20))
	up(in, 1, to.X, to.Y, ms(at+30))
}

func TestArbitrationInnermostWins(t *testing.T) {
	tests := []struct {
		name  string
		from  Vec2
		owner string
	}{
		{"inner box", Vec2{175, 175}, "b"},
		{"outer box", Vec2{120, 120}, "a"},
		{"empty canvas", Vec2{600, 500}, "canvas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, canvas, a, b := arbitrationFixture(t)
			drag(doc.Input(), tt.from, tt.from.Add(Vec2{30, 0}), 0)

			moved := map[string]float64{
				"canvas": canvas.Stack().Translate.X,
				"a":      a.Stack().Translate.X,
				"b":      b.Stack().Translate.X,
			}
			for name, x := range moved {
				if name == tt.owner {
					assertNear(t, name, x, 30)
				} else {
					assertNear(t, name, x, 0)
				}
			}
		})
	}
}

func TestArbitrationDisabledChildFallsThrough(t *testing.T) {
	doc, _, a, b := arbitrationFixture(t)
	b.Interactable().SetEnabled(false)

	// b no longer consumes, so a's within-predicate takes the drag.
	drag(doc.Input(), Vec2{175, 175}, Vec2{205, 175}, 0)
	assertNear(t, "a", a.Stack().Translate.X, 30)
	assertNear(t, "b", b.Stack().Translate.X, 0)
}

func TestConsumePredicates(t *testing.T) {
	doc := newTestDocument()
	outer := addBox(doc.Body(), 0, 0, 100, 100)
	inner := addBox(outer, 10, 10, 10, 10)
	other := addBox(doc.Body(), 200, 0, 10, 10)

	tests := []struct {
		name   string
		pred   func(GestureEvent) bool
		target *Element
		want   bool
	}{
		{"target is source", ConsumeIfTarget(doc.Body(), outer), doc.Body(), true},
		{"target is target", ConsumeIfTarget(doc.Body(), outer), outer, true},
		{"target is descendant", ConsumeIfTarget(doc.Body(), outer), inner, false},
		{"within self", ConsumeIfWithin(outer), outer, true},
		{"within descendant", ConsumeIfWithin(outer), inner, true},
		{"within elsewhere", ConsumeIfWithin(outer), other, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &NativeEvent{Target: tt.target}
			got := tt.pred(GestureEvent{Target: tt.target, Src: src})
			if got != tt.want {
				t.Fatalf("valid = %v, want %v", got, tt.want)
			}
			if consumed := src.DefaultPrevented() && src.ImmediatePropagationStopped(); consumed != tt.want {
				t.Errorf("consumed = %v, want %v", consumed, tt.want)
			}
		})
	}
}
