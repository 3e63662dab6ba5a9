package pad

import (
	"math"
	"slices"
	"time"
)

// Recognizer defaults. Tap and double-tap limits follow common touch
// toolkit conventions.
const (
	DefaultTapTime       = 250 * time.Millisecond
	DefaultTapSlop       = 9.0
	DefaultDoubleTapTime = 300 * time.Millisecond
	DefaultDoubleTapSlop = 10.0
)

// RecognizerConfig tunes tap classification.
type RecognizerConfig struct {
	TapTime       time.Duration
	TapSlop       float64
	DoubleTapTime time.Duration
	DoubleTapSlop float64
}

// DefaultRecognizerConfig returns the default tap limits.
func DefaultRecognizerConfig() RecognizerConfig {
	return RecognizerConfig{
		TapTime:       DefaultTapTime,
		TapSlop:       DefaultTapSlop,
		DoubleTapTime: DefaultDoubleTapTime,
		DoubleTapSlop: DefaultDoubleTapSlop,
	}
}

// --- Per-pointer and per-family tracking ---

type trackedPointer struct {
	id        int
	pos       Vec2
	start     Vec2
	startTime time.Duration
}

type panTrack struct {
	started bool
	live    bool // start was emitted; later phases may emit
	base    Vec2 // cumulative delta at the last pointer-count change
	anchor  Vec2 // centroid at the last pointer-count change
	delta   Vec2
}

type twoFingerTrack struct {
	tracking   bool
	ids        [2]int
	startDist  float64
	prevAngle  float64
	rotation   float64
	scale      float64
	center     Vec2
	rotating   bool
	rotateLive bool
	pinching   bool
	pinchLive  bool
}

type tapTrack struct {
	multi    bool // the current press session saw more than one pointer
	has      bool
	lastTime time.Duration
	lastPos  Vec2
}

type gestureHandler struct {
	id  uint32
	typ GestureType
	fn  func(GestureEvent)
}

// GestureHandle allows removing a gesture handler.
type GestureHandle struct {
	id uint32
	r  *Recognizer
}

// Remove unregisters the handler so it no longer fires.
func (h GestureHandle) Remove() {
	if h.r == nil {
		return
	}
	h.r.handlers = slices.DeleteFunc(h.r.handlers, func(g gestureHandler) bool { return g.id == h.id })
}

// Recognizer classifies the pointers pressed on its source element (or any
// descendant) into pan, rotate, pinch, tap and double-tap gestures, and
// forwards wheel steps. Create one with Input.NewRecognizer.
type Recognizer struct {
	input   *Input
	source  *Element
	cfg     RecognizerConfig
	enabled bool
	dead    bool
	visit   uint32

	handlers []gestureHandler
	nextID   uint32

	pointers []trackedPointer
	pan      panTrack
	two      twoFingerTrack
	tap      tapTrack
}

// Source returns the element the recognizer listens on.
func (r *Recognizer) Source() *Element { return r.source }

// Enabled reports whether continuous gestures and taps are emitted.
func (r *Recognizer) Enabled() bool { return r.enabled }

// SetEnabled toggles gesture emission. Pointer bookkeeping continues while
// disabled. Wheel steps are forwarded regardless.
func (r *Recognizer) SetEnabled(enabled bool) { r.enabled = enabled }

// SetConfig replaces the tap limits. Zero fields keep their defaults.
func (r *Recognizer) SetConfig(cfg RecognizerConfig) {
	r.cfg = cfg.withDefaults()
}

func (cfg RecognizerConfig) withDefaults() RecognizerConfig {
	def := DefaultRecognizerConfig()
	if cfg.TapTime <= 0 {
		cfg.TapTime = def.TapTime
	}
	if cfg.TapSlop <= 0 {
		cfg.TapSlop = def.TapSlop
	}
	if cfg.DoubleTapTime <= 0 {
		cfg.DoubleTapTime = def.DoubleTapTime
	}
	if cfg.DoubleTapSlop <= 0 {
		cfg.DoubleTapSlop = def.DoubleTapSlop
	}
	return cfg
}

// On registers fn for gestures of type t.
func (r *Recognizer) On(t GestureType, fn func(GestureEvent)) GestureHandle {
	r.nextID++
	r.handlers = append(r.handlers, gestureHandler{id: r.nextID, typ: t, fn: fn})
	return GestureHandle{id: r.nextID, r: r}
}

// Destroy removes every handler and detaches the recognizer from input.
func (r *Recognizer) Destroy() {
	if r.dead {
		return
	}
	r.dead = true
	r.handlers = nil
	r.pointers = nil
	r.input.removeRecognizer(r)
}

func (r *Recognizer) tracks(id int) bool {
	return r.find(id) >= 0
}

func (r *Recognizer) find(id int) int {
	for i := range r.pointers {
		if r.pointers[i].id == id {
			return i
		}
	}
	return -1
}

func (r *Recognizer) canEmit(stopped bool) bool {
	return r.enabled && !stopped && !r.dead
}

func (r *Recognizer) emit(ev GestureEvent) {
	for _, h := range slices.Clone(r.handlers) {
		if h.typ == ev.Type {
			h.fn(ev)
		}
	}
	r.input.emit(ev)
}

func (r *Recognizer) centroid() Vec2 {
	var c Vec2
	for _, p := range r.pointers {
		c = c.Add(p.pos)
	}
	if n := len(r.pointers); n > 0 {
		c = c.Scale(1 / float64(n))
	}
	return c
}

func (r *Recognizer) event(t GestureType, phase GesturePhase, ev *PointerEvent) GestureEvent {
	center := ev.Pos()
	if len(r.pointers) > 0 {
		center = r.centroid()
	}
	return GestureEvent{
		Type:      t,
		Phase:     phase,
		Target:    ev.Target,
		Center:    center,
		DeltaX:    r.pan.delta.X,
		DeltaY:    r.pan.delta.Y,
		Rotation:  r.two.rotation,
		Scale:     r.two.scaleOrOne(),
		Modifiers: ev.Modifiers,
		Pointers:  len(r.pointers),
		Src:       ev.Src,
	}
}

func (t *twoFingerTrack) scaleOrOne() float64 {
	if t.scale == 0 {
		return 1
	}
	return t.scale
}

// --- Pointer state machine ---

func (r *Recognizer) handlePointer(ev *PointerEvent, stopped bool) {
	if r.dead {
		return
	}
	pos := ev.Pos()
	switch ev.Kind {
	case PointerDown:
		if r.tracks(ev.ID) {
			return
		}
		if len(r.pointers) == 0 {
			r.tap.multi = false
		}
		r.pointers = append(r.pointers, trackedPointer{id: ev.ID, pos: pos, start: pos, startTime: ev.Time})
		r.pointerCountChanged(ev, stopped)

	case PointerMove:
		i := r.find(ev.ID)
		if i < 0 || r.pointers[i].pos == pos {
			return
		}
		r.pointers[i].pos = pos
		r.updatePan(ev, stopped)
		r.updateTwoFinger(ev, stopped)

	case PointerUp:
		i := r.find(ev.ID)
		if i < 0 {
			return
		}
		p := r.pointers[i]
		p.pos = pos
		single := len(r.pointers) == 1 && !r.tap.multi
		r.pointers = slices.Delete(r.pointers, i, i+1)
		r.pointerCountChanged(ev, stopped)
		if single {
			r.detectTap(ev, p, stopped)
		}
	}
}

// pointerCountChanged rebases the pan delta so it stays continuous, and
// starts or ends the two-pointer session.
func (r *Recognizer) pointerCountChanged(ev *PointerEvent, stopped bool) {
	n := len(r.pointers)
	if n > 1 {
		r.tap.multi = true
	}

	if n == 0 {
		if r.pan.started && r.pan.live && r.canEmit(stopped) {
			r.emit(r.event(GesturePan, PhaseEnd, ev))
		}
		r.pan = panTrack{}
	} else {
		r.pan.base = r.pan.delta
		r.pan.anchor = r.centroid()
	}

	two := &r.two
	if two.tracking && (n < 2 || r.pointers[0].id != two.ids[0] || r.pointers[1].id != two.ids[1]) {
		r.endTwoFinger(ev, stopped)
	}
	if !two.tracking && n >= 2 {
		a, b := r.pointers[0].pos, r.pointers[1].pos
		d := b.Sub(a)
		*two = twoFingerTrack{
			tracking:  true,
			ids:       [2]int{r.pointers[0].id, r.pointers[1].id},
			startDist: d.Len(),
			prevAngle: math.Atan2(d.Y, d.X),
			scale:     1,
			center:    a.Mid(b),
		}
	}
}

func (r *Recognizer) updatePan(ev *PointerEvent, stopped bool) {
	r.pan.delta = r.pan.base.Add(r.centroid().Sub(r.pan.anchor))
	// The sample that starts a session is also its first move.
	if !r.pan.started {
		r.pan.started = true
		r.pan.live = r.canEmit(stopped)
		if r.pan.live {
			r.emit(r.event(GesturePan, PhaseStart, ev))
		}
	}
	if r.pan.live && r.canEmit(stopped) {
		r.emit(r.event(GesturePan, PhaseMove, ev))
	}
}

func (r *Recognizer) updateTwoFinger(ev *PointerEvent, stopped bool) {
	two := &r.two
	if !two.tracking || (ev.ID != two.ids[0] && ev.ID != two.ids[1]) {
		return
	}
	a, b := r.pointers[0].pos, r.pointers[1].pos
	d := b.Sub(a)
	angle := math.Atan2(d.Y, d.X)

	// Accumulate the per-move change so the rotation stays continuous past
	// the atan2 branch cut.
	step := (angle - two.prevAngle) * 180 / math.Pi
	if step > 180 {
		step -= 360
	} else if step <= -180 {
		step += 360
	}
	two.rotation += step
	two.prevAngle = angle
	if two.startDist > 0 {
		two.scale = d.Len() / two.startDist
	}
	two.center = a.Mid(b)

	if !two.rotating && two.rotation != 0 {
		two.rotating = true
		two.rotateLive = r.canEmit(stopped)
		if two.rotateLive {
			r.emit(r.twoFingerEvent(GestureRotate, PhaseStart, ev))
		}
	}
	if two.rotating && two.rotateLive && r.canEmit(stopped) {
		r.emit(r.twoFingerEvent(GestureRotate, PhaseMove, ev))
	}

	if !two.pinching && two.scale != 1 {
		two.pinching = true
		two.pinchLive = r.canEmit(stopped)
		if two.pinchLive {
			r.emit(r.twoFingerEvent(GesturePinch, PhaseStart, ev))
		}
	}
	if two.pinching && two.pinchLive && r.canEmit(stopped) {
		r.emit(r.twoFingerEvent(GesturePinch, PhaseMove, ev))
	}
}

func (r *Recognizer) endTwoFinger(ev *PointerEvent, stopped bool) {
	two := &r.two
	if two.rotating && two.rotateLive && r.canEmit(stopped) {
		r.emit(r.twoFingerEvent(GestureRotate, PhaseEnd, ev))
	}
	if two.pinching && two.pinchLive && r.canEmit(stopped) {
		r.emit(r.twoFingerEvent(GesturePinch, PhaseEnd, ev))
	}
	*two = twoFingerTrack{}
}

func (r *Recognizer) twoFingerEvent(t GestureType, phase GesturePhase, ev *PointerEvent) GestureEvent {
	ge := r.event(t, phase, ev)
	ge.Center = r.two.center
	ge.Rotation = r.two.rotation
	ge.Scale = r.two.scale
	return ge
}

func (r *Recognizer) detectTap(ev *PointerEvent, p trackedPointer, stopped bool) {
	cfg := r.cfg
	if ev.Time-p.startTime > cfg.TapTime || p.pos.Sub(p.start).Len() > cfg.TapSlop {
		r.tap.has = false
		return
	}
	if !r.canEmit(stopped) {
		return
	}

	ge := r.event(GestureTap, PhaseNone, ev)
	ge.Center = p.pos
	ge.Scale = 1
	ge.Rotation = 0
	r.emit(ge)

	if r.tap.has && ev.Time-r.tap.lastTime <= cfg.DoubleTapTime && p.pos.Sub(r.tap.lastPos).Len() <= cfg.DoubleTapSlop {
		ge.Type = GestureDoubleTap
		r.emit(ge)
		r.tap.has = false
		return
	}
	r.tap.has = true
	r.tap.lastTime = ev.Time
	r.tap.lastPos = p.pos
}

func (r *Recognizer) handleWheel(ev *WheelEvent) {
	if r.dead {
		return
	}
	r.emit(GestureEvent{
		Type:        GestureWheel,
		Phase:       PhaseNone,
		Target:      ev.Target,
		Center:      Vec2{ev.X, ev.Y},
		Scale:       1,
		WheelDeltaY: ev.DeltaY,
		Modifiers:   ev.Modifiers,
		Src:         ev.Src,
	})
}
