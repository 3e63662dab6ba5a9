package pad

// GestureType identifies a classified gesture family.
type GestureType uint8

const (
	GesturePan       GestureType = iota // one or more pointers moving together
	GestureRotate                       // two pointers turning around their midpoint
	GesturePinch                        // two pointers moving apart or together
	GestureTap                          // short press without movement
	GestureDoubleTap                    // two taps close in time and space
	GestureWheel                        // discrete wheel step
)

var gestureNames = [...]string{"pan", "rotate", "pinch", "tap", "doubletap", "wheel"}

func (t GestureType) String() string {
	if int(t) < len(gestureNames) {
		return gestureNames[t]
	}
	return "unknown"
}

// GesturePhase is the lifecycle stage of a continuous gesture. Taps and
// wheel steps are discrete and carry PhaseNone.
type GesturePhase uint8

const (
	PhaseNone GesturePhase = iota
	PhaseStart
	PhaseMove
	PhaseEnd
)

var phaseNames = [...]string{"", "start", "move", "end"}

func (p GesturePhase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// NativeEvent is the raw input event behind a gesture. Handlers use it to
// suppress the default action and to stop delivery to other listeners.
type NativeEvent struct {
	Target *Element

	defaultPrevented   bool
	propagationStopped bool
	immediateStopped   bool
}

// PreventDefault marks the event's default action as suppressed.
func (n *NativeEvent) PreventDefault() { n.defaultPrevented = true }

// StopPropagation stops delivery to listeners on further elements. Other
// listeners on the current element still run.
func (n *NativeEvent) StopPropagation() { n.propagationStopped = true }

// StopImmediatePropagation stops delivery to every remaining listener.
func (n *NativeEvent) StopImmediatePropagation() {
	n.propagationStopped = true
	n.immediateStopped = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (n *NativeEvent) DefaultPrevented() bool { return n.defaultPrevented }

// PropagationStopped reports whether either stop method was called.
func (n *NativeEvent) PropagationStopped() bool { return n.propagationStopped }

// ImmediatePropagationStopped reports whether StopImmediatePropagation was called.
func (n *NativeEvent) ImmediatePropagationStopped() bool { return n.immediateStopped }

// GestureEvent is a classified, phase-tagged gesture emitted by a Recognizer.
type GestureEvent struct {
	Type   GestureType
	Phase  GesturePhase
	Target *Element

	// Center is the centroid of the active pointers in viewport space.
	Center Vec2

	// DeltaX and DeltaY are the cumulative pan displacement since the pan
	// started, in viewport pixels.
	DeltaX, DeltaY float64

	// Rotation is in degrees relative to the start of the two-pointer
	// session. Scale is the ratio of the current pointer distance to the
	// distance at session start.
	Rotation float64
	Scale    float64

	// WheelDeltaY is set for GestureWheel only.
	WheelDeltaY float64

	Modifiers KeyModifiers
	Pointers  int

	Src *NativeEvent
}

// Is reports whether the event has the given type and phase.
func (e GestureEvent) Is(t GestureType, p GesturePhase) bool {
	return e.Type == t && e.Phase == p
}

// PreventDefault forwards to the native event.
func (e GestureEvent) PreventDefault() {
	if e.Src != nil {
		e.Src.PreventDefault()
	}
}

// EventStore receives every gesture emitted by the document's recognizers.
// The ecs module bridges it into a donburi world.
type EventStore interface {
	EmitEvent(event GestureEvent)
}
