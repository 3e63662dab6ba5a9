package pad

// Interactable binds one element to the Manipulation driving its transform
// stack. An element holds at most one; see Attach and Detach.
type Interactable struct {
	el    *Element
	manip *Manipulation
}

// Attach makes el interactive. el must already have a transform stack. If el
// already has an Interactable it is destroyed first, so attaching twice
// never delivers an event twice.
func Attach(el *Element, opts ManipulationOptions) (*Interactable, error) {
	if el == nil {
		return nil, NewError(CodeInvalidTarget, "attach target is nil")
	}
	if el.interactable != nil {
		logger.Warn("element already interactable, replacing binding", "element", el.ID)
		Detach(el)
	}
	m, err := NewManipulation(el, opts)
	if err != nil {
		return nil, err
	}
	it := &Interactable{el: el, manip: m}
	el.interactable = it
	return it, nil
}

// Detach removes el's Interactable. Detaching an element without one is a
// no-op.
func Detach(el *Element) {
	if el == nil || el.interactable == nil {
		return
	}
	el.interactable.manip.Destroy()
	el.interactable = nil
}

// Element returns the bound element.
func (i *Interactable) Element() *Element { return i.el }

// Manipulation returns the behavior driving the element.
func (i *Interactable) Manipulation() *Manipulation { return i.manip }

// Enabled reports whether the element currently reacts to gestures.
func (i *Interactable) Enabled() bool { return i.manip.Enabled() }

// SetEnabled toggles gesture handling. Ancestors are disabled this way while
// a nested element owns the gesture.
func (i *Interactable) SetEnabled(enabled bool) { i.manip.SetEnabled(enabled) }

// ConsumeIfTarget returns the default predicate: an event is valid when it
// originated at source or at target itself. Valid events are consumed.
func ConsumeIfTarget(source, target *Element) func(GestureEvent) bool {
	return func(ev GestureEvent) bool {
		if ev.Target != source && ev.Target != target {
			return false
		}
		consume(ev)
		return true
	}
}

// ConsumeIfWithin returns a predicate accepting events whose target is el or
// one of its descendants. Valid events are consumed.
func ConsumeIfWithin(el *Element) func(GestureEvent) bool {
	return func(ev GestureEvent) bool {
		if !el.Contains(ev.Target) {
			return false
		}
		consume(ev)
		return true
	}
}

func consume(ev GestureEvent) {
	if ev.Src == nil {
		return
	}
	ev.Src.PreventDefault()
	ev.Src.StopPropagation()
	ev.Src.StopImmediatePropagation()
}
