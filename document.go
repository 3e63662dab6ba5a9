package pad

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ElementAdded describes an element inserted into the tree.
type ElementAdded struct {
	Element *Element
	Parent  *Element
	Local   bool // false when the change arrived from another client
}

// ElementRemoved describes an element detached from the tree.
type ElementRemoved struct {
	Element *Element
	Parent  *Element
	Local   bool
}

// AttributeChanged describes an attribute transition on an element.
type AttributeChanged struct {
	Element  *Element
	Name     string
	OldValue string
	NewValue string
	Local    bool
}

// --- Observer registry ---

type observerKind uint8

const (
	observeAdded observerKind = iota
	observeRemoved
	observeAttribute
)

type addedObserver struct {
	id uint32
	fn func(ElementAdded)
}

type removedObserver struct {
	id uint32
	fn func(ElementRemoved)
}

type attributeObserver struct {
	id uint32
	fn func(AttributeChanged)
}

type observerRegistry struct {
	added     []addedObserver
	removed   []removedObserver
	attribute []attributeObserver
	nextID    uint32
}

// CallbackHandle allows removing a registered document observer.
type CallbackHandle struct {
	id   uint32
	reg  *observerRegistry
	kind observerKind
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.kind {
	case observeAdded:
		h.reg.added = slices.DeleteFunc(h.reg.added, func(o addedObserver) bool { return o.id == h.id })
	case observeRemoved:
		h.reg.removed = slices.DeleteFunc(h.reg.removed, func(o removedObserver) bool { return o.id == h.id })
	case observeAttribute:
		h.reg.attribute = slices.DeleteFunc(h.reg.attribute, func(o attributeObserver) bool { return o.id == h.id })
	}
}

// --- Frame scheduling ---

type frameCallback struct {
	id int
	fn func()
}

// Timer is a one-shot callback scheduled on the document clock.
type Timer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
}

// Stop prevents the timer from firing. It reports whether the call stopped
// a pending timer.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Document is the in-process stand-in for the synchronized document: it owns
// the element tree, change notifications, pointer input and the frame loop.
// Everything runs on one goroutine; no method is safe for concurrent use.
type Document struct {
	body  *Element
	input *Input
	debug bool

	observers observerRegistry
	remote    int

	frameQueue  []frameCallback
	nextFrameID int
	timers      []*Timer
	timerSeq    int
	now         time.Duration

	binds  []*BindTask
	tweens []*tweenJob
	script *ScriptRunner
	frames int
	newID  func() string
	hitBuf []*Element
}

// NewDocument creates a document whose body covers the given viewport.
func NewDocument(viewport Rect) *Document {
	d := &Document{newID: uuid.NewString}
	d.body = newElement(d, d.newID(), "body")
	d.body.Bounds = viewport
	d.input = newInput(d)
	return d
}

// Body returns the root element.
func (d *Document) Body() *Element {
	return d.body
}

// Input returns the pointer and wheel input router of the document.
func (d *Document) Input() *Input {
	return d.input
}

// CreateElement creates a detached element with the given tag and classes.
func (d *Document) CreateElement(tag string, classes ...string) *Element {
	e := newElement(d, d.newID(), tag)
	if len(classes) > 0 {
		e.attrs["class"] = strings.Join(classes, " ")
	}
	return e
}

// CreateTransient creates a detached local-only helper element.
func (d *Document) CreateTransient(classes ...string) *Element {
	e := d.CreateElement("transient", classes...)
	e.Transient = true
	return e
}

// ElementByID searches the connected tree for an element with the given ID.
func (d *Document) ElementByID(id string) *Element {
	var find func(*Element) *Element
	find = func(e *Element) *Element {
		if e.ID == id {
			return e
		}
		for _, c := range e.children {
			if f := find(c); f != nil {
				return f
			}
		}
		return nil
	}
	return find(d.body)
}

// Remote runs fn with every change notification flagged as remote, the way
// changes replicated from another client are reported.
func (d *Document) Remote(fn func()) {
	d.remote++
	defer func() { d.remote-- }()
	fn()
}

// SetDebugMode enables or disables debug logging of document activity.
func (d *Document) SetDebugMode(enabled bool) {
	d.debug = enabled
	if enabled {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// --- Observers ---

// OnElementAdded registers a callback for element insertions anywhere in the tree.
func (d *Document) OnElementAdded(fn func(ElementAdded)) CallbackHandle {
	d.observers.nextID++
	id := d.observers.nextID
	d.observers.added = append(d.observers.added, addedObserver{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &d.observers, kind: observeAdded}
}

// OnElementRemoved registers a callback for element removals anywhere in the tree.
func (d *Document) OnElementRemoved(fn func(ElementRemoved)) CallbackHandle {
	d.observers.nextID++
	id := d.observers.nextID
	d.observers.removed = append(d.observers.removed, removedObserver{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &d.observers, kind: observeRemoved}
}

// OnAttributeChanged registers a callback for attribute transitions.
func (d *Document) OnAttributeChanged(fn func(AttributeChanged)) CallbackHandle {
	d.observers.nextID++
	id := d.observers.nextID
	d.observers.attribute = append(d.observers.attribute, attributeObserver{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &d.observers, kind: observeAttribute}
}

func (d *Document) notifyAdded(el, parent *Element) {
	ev := ElementAdded{Element: el, Parent: parent, Local: d.remote == 0}
	for _, o := range slices.Clone(d.observers.added) {
		o.fn(ev)
	}
}

func (d *Document) notifyRemoved(el, parent *Element) {
	ev := ElementRemoved{Element: el, Parent: parent, Local: d.remote == 0}
	for _, o := range slices.Clone(d.observers.removed) {
		o.fn(ev)
	}
}

func (d *Document) notifyAttributeChanged(el *Element, name, old, value string) {
	ev := AttributeChanged{Element: el, Name: name, OldValue: old, NewValue: value, Local: d.remote == 0}
	for _, o := range slices.Clone(d.observers.attribute) {
		o.fn(ev)
	}
}

// --- Frame loop ---

// Frames returns the number of frames run so far.
func (d *Document) Frames() int {
	return d.frames
}

// Now returns the document clock: the total time advanced by Frame.
func (d *Document) Now() time.Duration {
	return d.now
}

// RequestAnimationFrame queues fn to run during the next Frame. It returns an
// id usable with CancelAnimationFrame.
func (d *Document) RequestAnimationFrame(fn func()) int {
	d.nextFrameID++
	d.frameQueue = append(d.frameQueue, frameCallback{id: d.nextFrameID, fn: fn})
	return d.nextFrameID
}

// CancelAnimationFrame removes a queued animation-frame callback.
func (d *Document) CancelAnimationFrame(id int) {
	d.frameQueue = slices.DeleteFunc(d.frameQueue, func(c frameCallback) bool { return c.id == id })
}

// AfterFunc schedules fn to run during the first Frame at or after d from now.
func (d *Document) AfterFunc(delay time.Duration, fn func()) *Timer {
	d.timerSeq++
	t := &Timer{at: d.now + delay, seq: d.timerSeq, fn: fn}
	d.timers = append(d.timers, t)
	return t
}

// Frame advances the document clock by dt and runs, in order: the attached
// script and one injected input event, due timers, transform binds requested
// before this frame, animation-frame callbacks queued before this frame, and
// active tweens.
func (d *Document) Frame(dt time.Duration) {
	d.now += dt
	d.frames++

	if d.script != nil {
		d.script.step(d)
	}
	d.input.drainInjected()

	d.runTimers()

	binds := d.binds
	d.binds = nil
	for _, b := range binds {
		if !b.tryResolve() {
			d.binds = append(d.binds, b)
		}
	}

	queue := d.frameQueue
	d.frameQueue = nil
	for _, c := range queue {
		c.fn()
	}

	d.updateTweens(float32(dt.Seconds()))
}

func (d *Document) runTimers() {
	var due []*Timer
	keep := d.timers[:0]
	for _, t := range d.timers {
		switch {
		case t.stopped:
		case t.at <= d.now:
			due = append(due, t)
		default:
			keep = append(keep, t)
		}
	}
	clear(d.timers[len(keep):])
	d.timers = keep

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

// --- Hit testing ---

// collectHittable walks the tree in painter order (DFS, child order),
// appending elements with geometry to buf. Elements styled
// "pointer-events: none" are skipped, their children are not.
func collectHittable(e *Element, buf []*Element) []*Element {
	if e.Measured() && e.style["pointer-events"] != "none" {
		buf = append(buf, e)
	}
	for _, child := range e.children {
		buf = collectHittable(child, buf)
	}
	return buf
}

// HitTest finds the topmost element whose box contains the viewport point.
// Returns the body if nothing else is hit.
func (d *Document) HitTest(p Vec2) *Element {
	d.hitBuf = collectHittable(d.body, d.hitBuf[:0])

	// Iterate backward (reverse painter order): topmost visual element first.
	for i := len(d.hitBuf) - 1; i >= 0; i-- {
		e := d.hitBuf[i]
		if e == d.body {
			continue
		}
		local := e.WorldMatrix().Invert().Apply(p)
		if local.X >= 0 && local.X <= e.Bounds.Width && local.Y >= 0 && local.Y <= e.Bounds.Height {
			return e
		}
	}
	return d.body
}
