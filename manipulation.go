package pad

import "strings"

// OriginPolicy decides where rotate, pinch and wheel gestures pivot.
type OriginPolicy uint8

const (
	// OriginCenter always pivots around the element's center.
	OriginCenter OriginPolicy = iota
	// OriginPointer pivots around the gesture center. The translation is
	// compensated so moving the pivot does not move the element.
	OriginPointer
)

func (p OriginPolicy) String() string {
	if p == OriginPointer {
		return "pointer"
	}
	return "center"
}

// ParseOriginPolicy maps "center" or "pointer" to a policy. Empty means center.
func ParseOriginPolicy(s string) (OriginPolicy, error) {
	switch strings.ToLower(s) {
	case "", "center":
		return OriginCenter, nil
	case "pointer":
		return OriginPointer, nil
	}
	return OriginCenter, NewError(CodeInvalidConfig, "unknown origin policy %q", s)
}

// ManipulationConfig tunes gesture-to-transform mapping.
type ManipulationConfig struct {
	Origin          string  `toml:"origin"`
	WheelRotateStep float64 `toml:"wheel_rotate_step"` // wheel delta units per degree
	WheelZoomFactor float64 `toml:"wheel_zoom_factor"` // wheel delta units per unit of scale, at scale 1
	MinScale        float64 `toml:"min_scale"`
}

// DefaultManipulationConfig returns the default mapping constants.
func DefaultManipulationConfig() ManipulationConfig {
	return ManipulationConfig{
		Origin:          "center",
		WheelRotateStep: 10,
		WheelZoomFactor: 1000,
		MinScale:        MinScale,
	}
}

func (c ManipulationConfig) withDefaults() ManipulationConfig {
	def := DefaultManipulationConfig()
	if c.Origin == "" {
		c.Origin = def.Origin
	}
	if c.WheelRotateStep <= 0 {
		c.WheelRotateStep = def.WheelRotateStep
	}
	if c.WheelZoomFactor <= 0 {
		c.WheelZoomFactor = def.WheelZoomFactor
	}
	if c.MinScale <= 0 {
		c.MinScale = def.MinScale
	}
	return c
}

// ManipulationOptions configures a Manipulation.
type ManipulationOptions struct {
	// EventSource is the element whose pointers drive the gestures.
	// Defaults to the target.
	EventSource *Element

	// IsValidEvent gates every pan, rotate and pinch event. It must also
	// consume the events it accepts. Defaults to ConsumeIfTarget.
	IsValidEvent func(GestureEvent) bool

	// OnEvent is called for every accepted gesture and every handled wheel step.
	OnEvent func(GestureEvent)

	Config ManipulationConfig
}

// --- Gesture sessions ---

type panSession struct {
	prev Vec2 // local delta already committed to the translation
}

type rotateSession struct {
	offset float64 // recognizer rotation at session start
	prev   float64 // gesture-relative rotation already committed
}

type pinchSession struct {
	prev float64 // recognizer scale already committed
}

// Manipulation maps pan, rotate, pinch and modified wheel gestures onto the
// transform stack of its target element.
type Manipulation struct {
	target  *Element
	stack   *TransformStack
	source  *Element
	rec     *Recognizer
	handles []GestureHandle

	isValid func(GestureEvent) bool
	onEvent func(GestureEvent)
	cfg     ManipulationConfig
	origin  OriginPolicy

	pan    panSession
	rotate rotateSession
	pinch  pinchSession
}

// NewManipulation wires gesture handling for target. The target must already
// have a transform stack; otherwise an INVALID_TARGET error is returned and
// nothing is registered.
func NewManipulation(target *Element, opts ManipulationOptions) (*Manipulation, error) {
	if target == nil {
		return nil, NewError(CodeInvalidTarget, "manipulation target is nil")
	}
	if target.stack == nil {
		return nil, NewError(CodeInvalidTarget, "element %s has no transform stack", target.ID)
	}
	cfg := opts.Config.withDefaults()
	origin, err := ParseOriginPolicy(cfg.Origin)
	if err != nil {
		return nil, err
	}

	m := &Manipulation{
		target:  target,
		stack:   target.stack,
		source:  opts.EventSource,
		isValid: opts.IsValidEvent,
		onEvent: opts.OnEvent,
		cfg:     cfg,
		origin:  origin,
	}
	if m.source == nil {
		m.source = target
	}
	if m.isValid == nil {
		m.isValid = ConsumeIfTarget(m.source, target)
	}

	m.rec = target.doc.input.NewRecognizer(m.source)
	m.handles = []GestureHandle{
		m.rec.On(GesturePan, m.handlePan),
		m.rec.On(GestureRotate, m.handleRotate),
		m.rec.On(GesturePinch, m.handlePinch),
		m.rec.On(GestureWheel, m.handleWheel),
	}
	return m, nil
}

// Target returns the manipulated element.
func (m *Manipulation) Target() *Element { return m.target }

// Stack returns the manipulated transform stack.
func (m *Manipulation) Stack() *TransformStack { return m.stack }

// Recognizer returns the recognizer feeding this manipulation.
func (m *Manipulation) Recognizer() *Recognizer { return m.rec }

// Enabled reports whether pan, rotate and pinch gestures are recognized.
func (m *Manipulation) Enabled() bool { return m.rec.Enabled() }

// SetEnabled toggles pan, rotate and pinch recognition. Wheel handling is
// unaffected.
func (m *Manipulation) SetEnabled(enabled bool) { m.rec.SetEnabled(enabled) }

// Destroy removes every handler registered by the manipulation.
func (m *Manipulation) Destroy() {
	for _, h := range m.handles {
		h.Remove()
	}
	m.handles = nil
	m.rec.Destroy()
}

func (m *Manipulation) accept(ev GestureEvent) bool {
	if !m.isValid(ev) {
		return false
	}
	if m.onEvent != nil {
		m.onEvent(ev)
	}
	return true
}

func (m *Manipulation) handlePan(ev GestureEvent) {
	if !m.accept(ev) {
		return
	}
	switch ev.Phase {
	case PhaseStart:
		m.pan = panSession{}
	case PhaseMove:
		d := m.stack.FromGlobalToLocalDelta(Vec2{ev.DeltaX, ev.DeltaY})
		t := &m.stack.Translate
		t.Set(t.X-m.pan.prev.X+d.X, t.Y-m.pan.prev.Y+d.Y)
		m.pan.prev = d
		m.stack.ReapplyTransforms(false)
	}
}

func (m *Manipulation) handleRotate(ev GestureEvent) {
	// Only start and move are handled; end is left to pan end.
	if ev.Phase == PhaseEnd || !m.accept(ev) {
		return
	}
	switch ev.Phase {
	case PhaseStart:
		m.rotate = rotateSession{offset: ev.Rotation}
	case PhaseMove:
		m.setOrigin(ev.Center)
		r := ev.Rotation - m.rotate.offset
		a := &m.stack.Rotate
		a.Set(a.Angle - m.rotate.prev + r)
		m.rotate.prev = r
		m.stack.ReapplyTransforms(false)
	}
}

func (m *Manipulation) handlePinch(ev GestureEvent) {
	// Only start and move are handled; end is left to pan end.
	if ev.Phase == PhaseEnd || !m.accept(ev) {
		return
	}
	switch ev.Phase {
	case PhaseStart:
		m.pinch = pinchSession{prev: ev.Scale}
	case PhaseMove:
		if m.pinch.prev == 0 {
			m.pinch.prev = ev.Scale
			return
		}
		m.setOrigin(ev.Center)
		s := &m.stack.Scale
		f := ev.Scale / m.pinch.prev
		s.Set(clampMin(s.X*f, m.cfg.MinScale), clampMin(s.Y*f, m.cfg.MinScale))
		m.pinch.prev = ev.Scale
		m.stack.ReapplyTransforms(false)
	}
}

// handleWheel rotates with Alt and zooms with Ctrl. Unmodified wheel steps
// are left alone so the page can scroll.
func (m *Manipulation) handleWheel(ev GestureEvent) {
	alt := ev.Modifiers.Has(ModAlt)
	ctrl := ev.Modifiers.Has(ModCtrl)
	if !alt && !ctrl {
		return
	}
	if ev.Src != nil {
		ev.Src.PreventDefault()
		ev.Src.StopImmediatePropagation()
	}
	if m.onEvent != nil {
		m.onEvent(ev)
	}

	m.setOrigin(ev.Center)
	dy := ev.WheelDeltaY
	switch {
	case alt:
		a := &m.stack.Rotate
		a.Set(wrapDegrees(a.Angle - dy/m.cfg.WheelRotateStep))
	case ctrl:
		s := &m.stack.Scale
		s.Set(
			clampMin(s.X-dy/(m.cfg.WheelZoomFactor/s.X), m.cfg.MinScale),
			clampMin(s.Y-dy/(m.cfg.WheelZoomFactor/s.Y), m.cfg.MinScale),
		)
	}
	m.stack.ReapplyTransforms(false)
}

// setOrigin moves the pivot according to the origin policy.
func (m *Manipulation) setOrigin(center Vec2) {
	st := m.stack
	if m.origin == OriginCenter {
		st.Origin.Set(0.5, 0.5)
		return
	}

	w, h := m.target.Bounds.Width, m.target.Bounds.Height
	if w == 0 || h == 0 {
		return
	}
	p := st.FromGlobalToContent(center)
	if !p.IsFinite() {
		return
	}
	oldO := Vec2{st.Origin.X * w, st.Origin.Y * h}
	newO := p

	// The composed translation is t + o - L*o for linear part L. Keep it
	// constant across the pivot change.
	mat := st.Matrix()
	shift := oldO.Sub(newO)
	lin := mat.ApplyVector(shift)
	st.Translate.Set(st.Translate.X+shift.X-lin.X, st.Translate.Y+shift.Y-lin.Y)
	st.Origin.Set(newO.X/w, newO.Y/h)
}
