package pad

// InjectedPointerID is the pointer ID used by synthetic pointer events. It
// never collides with mouse (0) or touch (1 and up) pointers from Run.
const InjectedPointerID = 1 << 20

// syntheticEvent is one queued pointer or wheel event. Exactly one of the
// two is set.
type syntheticEvent struct {
	pointer *PointerEvent
	wheel   *WheelEvent
}

// InjectPress queues a press of the synthetic pointer at viewport (x, y).
// Events are delivered one per Frame, before timers run. A non-zero force
// presses as a pen.
func (in *Input) InjectPress(x, y, force float64) {
	in.inject = append(in.inject, syntheticEvent{pointer: &PointerEvent{
		ID: InjectedPointerID, Kind: PointerDown, X: x, Y: y, Force: force,
	}})
}

// InjectMove queues a move of the pressed synthetic pointer.
func (in *Input) InjectMove(x, y, force float64) {
	in.inject = append(in.inject, syntheticEvent{pointer: &PointerEvent{
		ID: InjectedPointerID, Kind: PointerMove, X: x, Y: y, Force: force,
	}})
}

// InjectRelease queues a release of the synthetic pointer.
func (in *Input) InjectRelease(x, y float64) {
	in.inject = append(in.inject, syntheticEvent{pointer: &PointerEvent{
		ID: InjectedPointerID, Kind: PointerUp, X: x, Y: y,
	}})
}

// InjectTap queues a press followed by a release at the same point.
// Consumes two frames.
func (in *Input) InjectTap(x, y float64) {
	in.InjectPress(x, y, 0)
	in.InjectRelease(x, y)
}

// InjectDrag queues a press at from, frames-2 linearly interpolated moves
// ending on to, and a release at to. The sequence consumes frames frames,
// at least three.
func (in *Input) InjectDrag(from, to Vec2, frames int, force float64) {
	if frames < 3 {
		frames = 3
	}
	in.InjectPress(from.X, from.Y, force)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		in.InjectMove(from.X+(to.X-from.X)*t, from.Y+(to.Y-from.Y)*t, force)
	}
	in.InjectRelease(to.X, to.Y)
}

// InjectWheel queues one wheel step.
func (in *Input) InjectWheel(x, y, deltaY float64, mods KeyModifiers) {
	in.inject = append(in.inject, syntheticEvent{wheel: &WheelEvent{
		X: x, Y: y, DeltaY: deltaY, Modifiers: mods,
	}})
}

// Pending returns the number of queued synthetic events.
func (in *Input) Pending() int {
	return len(in.inject)
}

// drainInjected delivers the oldest queued event. It reports whether one
// was delivered.
func (in *Input) drainInjected() bool {
	if len(in.inject) == 0 {
		return false
	}
	ev := in.inject[0]
	copy(in.inject, in.inject[1:])
	in.inject[len(in.inject)-1] = syntheticEvent{}
	in.inject = in.inject[:len(in.inject)-1]

	switch {
	case ev.pointer != nil:
		in.Pointer(*ev.pointer)
	case ev.wheel != nil:
		in.Wheel(*ev.wheel)
	}
	return true
}
