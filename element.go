package pad

import (
	"slices"
	"strings"
)

// Event is a named element event such as "click", "blur" or "change".
type Event struct {
	Type   string
	Target *Element
	Data   any
}

type elementListener struct {
	id uint32
	fn func(Event)
}

// Element is a node of the synchronized document tree. Elements are created
// through a Document and carry their layout box, attributes, an optional
// transform stack and an optional interaction binding.
type Element struct {
	// Identity
	ID  string
	Tag string

	// Hierarchy
	Parent   *Element
	children []*Element
	doc      *Document

	// Content
	Text  string
	attrs map[string]string
	style map[string]string

	// Layout box in the parent's content space. Geometry counts as measured
	// once Width or Height is non-zero.
	Bounds Rect

	// Transient elements are local helpers (tool palettes, rendered html)
	// that the sync layer does not replicate.
	Transient bool

	// UserData is an arbitrary payload for application use.
	UserData any

	// Displayed transform, written by the default application of a stack.
	transform   Matrix
	tween       *tweenJob
	tweenTarget Matrix

	stack        *TransformStack
	interactable *Interactable

	listeners      map[string][]elementListener
	nextListenerID uint32
}

func newElement(doc *Document, id, tag string) *Element {
	return &Element{
		ID:        id,
		Tag:       tag,
		doc:       doc,
		attrs:     make(map[string]string),
		style:     make(map[string]string),
		transform: Identity,
	}
}

// Document returns the document that created the element.
func (e *Element) Document() *Document {
	return e.doc
}

// --- Attributes ---

// Attribute returns the value of an attribute and whether it is set.
func (e *Element) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttribute sets an attribute and notifies attribute observers when the
// value changed.
func (e *Element) SetAttribute(name, value string) {
	old, had := e.attrs[name]
	if had && old == value {
		return
	}
	e.attrs[name] = value
	e.doc.notifyAttributeChanged(e, name, old, value)
}

// RemoveAttribute deletes an attribute, notifying observers if it was set.
func (e *Element) RemoveAttribute(name string) {
	old, had := e.attrs[name]
	if !had {
		return
	}
	delete(e.attrs, name)
	e.doc.notifyAttributeChanged(e, name, old, "")
}

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.attrs["class"])
}

// HasClass reports whether the class list contains class.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.Classes(), class)
}

// AddClass appends class to the class list if missing.
func (e *Element) AddClass(class string) {
	if e.HasClass(class) {
		return
	}
	e.SetAttribute("class", strings.TrimSpace(e.attrs["class"]+" "+class))
}

// Style returns an inline style property.
func (e *Element) Style(prop string) string {
	return e.style[prop]
}

// SetStyle sets an inline style property. Inline styles are local and do not
// notify observers.
func (e *Element) SetStyle(prop, value string) {
	e.style[prop] = value
}

// --- Geometry ---

// SetSize sets the measured width and height of the element's box.
func (e *Element) SetSize(w, h float64) {
	e.Bounds.Width = w
	e.Bounds.Height = h
}

// SetPosition sets the layout offset of the element's box in its parent.
func (e *Element) SetPosition(x, y float64) {
	e.Bounds.X = x
	e.Bounds.Y = y
}

// Measured reports whether the element has usable geometry.
func (e *Element) Measured() bool {
	return e.Bounds.Width > 0 || e.Bounds.Height > 0
}

// Transform returns the transform currently displayed for the element.
func (e *Element) Transform() Matrix {
	return e.transform
}

// SetTransform assigns the displayed transform directly.
func (e *Element) SetTransform(m Matrix) {
	e.cancelTween()
	e.transform = m
}

// Stack returns the bound transform stack, or nil.
func (e *Element) Stack() *TransformStack {
	return e.stack
}

// Interactable returns the element's interaction binding, or nil.
func (e *Element) Interactable() *Interactable {
	return e.interactable
}

// localMatrix maps the element's content space into its parent's content
// space: layout offset followed by the transform parameters.
func (e *Element) localMatrix() Matrix {
	offset := TranslateMatrix(e.Bounds.X, e.Bounds.Y)
	if e.stack != nil {
		return offset.Multiply(e.stack.Matrix())
	}
	return offset.Multiply(e.transform)
}

// frameMatrix maps the frame in which the element's transform parameters are
// expressed into viewport space.
func (e *Element) frameMatrix() Matrix {
	m := TranslateMatrix(e.Bounds.X, e.Bounds.Y)
	if e.Parent != nil {
		m = e.Parent.WorldMatrix().Multiply(m)
	}
	return m
}

// WorldMatrix maps the element's content space into viewport space.
func (e *Element) WorldMatrix() Matrix {
	local := e.localMatrix()
	if e.Parent == nil {
		return local
	}
	return e.Parent.WorldMatrix().Multiply(local)
}

// --- Tree manipulation ---

// AppendChild appends child to this element's children and notifies
// element-added observers. If child already has a parent, it is removed from
// that parent first. Panics if child is nil or an ancestor of this element.
func (e *Element) AppendChild(child *Element) {
	if child == nil {
		panic("pad: cannot add nil child")
	}
	if isAncestor(child, e) {
		panic("pad: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = e
	e.children = append(e.children, child)
	e.doc.notifyAdded(child, e)
}

// RemoveChild detaches child from this element and notifies element-removed
// observers. Transform stacks bound inside the removed subtree are released.
// Panics if child.Parent != e.
func (e *Element) RemoveChild(child *Element) {
	if child.Parent != e {
		panic("pad: child's parent is not this element")
	}
	e.removeChildByPtr(child)
	child.Parent = nil
	e.doc.notifyRemoved(child, e)
	releaseSubtree(child)
}

// Remove detaches the element from its parent. No-op without a parent.
func (e *Element) Remove() {
	if e.Parent == nil {
		return
	}
	e.Parent.RemoveChild(e)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Element) Children() []*Element {
	return e.children
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	return other != nil && isAncestor(e, other)
}

// Closest returns the nearest inclusive ancestor carrying class, or nil.
func (e *Element) Closest(class string) *Element {
	for p := e; p != nil; p = p.Parent {
		if p.HasClass(class) {
			return p
		}
	}
	return nil
}

// FindClass returns the first descendant (depth-first) carrying class, or nil.
func (e *Element) FindClass(class string) *Element {
	for _, c := range e.children {
		if c.HasClass(class) {
			return c
		}
		if found := c.FindClass(class); found != nil {
			return found
		}
	}
	return nil
}

// FindTag returns the first descendant (depth-first) with the given tag, or nil.
func (e *Element) FindTag(tag string) *Element {
	for _, c := range e.children {
		if c.Tag == tag {
			return c
		}
		if found := c.FindTag(tag); found != nil {
			return found
		}
	}
	return nil
}

// Connected reports whether the element is attached to its document's body.
func (e *Element) Connected() bool {
	return e.doc != nil && isAncestor(e.doc.body, e)
}

// --- Events ---

// ListenerHandle allows removing an element event listener.
type ListenerHandle struct {
	id    uint32
	el    *Element
	event string
}

// Remove unregisters the listener so it no longer fires.
func (h ListenerHandle) Remove() {
	if h.el == nil {
		return
	}
	s := h.el.listeners[h.event]
	for i := range s {
		if s[i].id == h.id {
			h.el.listeners[h.event] = slices.Delete(s, i, i+1)
			return
		}
	}
}

// AddEventListener registers fn for named events dispatched on this element.
func (e *Element) AddEventListener(event string, fn func(Event)) ListenerHandle {
	if e.listeners == nil {
		e.listeners = make(map[string][]elementListener)
	}
	e.nextListenerID++
	id := e.nextListenerID
	e.listeners[event] = append(e.listeners[event], elementListener{id: id, fn: fn})
	return ListenerHandle{id: id, el: e, event: event}
}

// DispatchEvent invokes the listeners registered for event on this element.
func (e *Element) DispatchEvent(event string, data any) {
	ls := slices.Clone(e.listeners[event])
	for _, l := range ls {
		l.fn(Event{Type: event, Target: e, Data: data})
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is an inclusive ancestor of node.
func isAncestor(candidate, node *Element) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.Parent.
func (e *Element) removeChildByPtr(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}

// releaseSubtree unbinds every transform stack in the subtree rooted at el.
func releaseSubtree(el *Element) {
	if el.stack != nil {
		el.stack.Unbind()
	}
	for _, c := range el.children {
		releaseSubtree(c)
	}
}
