package pad

import "errors"

// SkipDefault is returned by an ApplyFunc to veto the default application of
// the composed matrix to the element. It is not reported as an error.
var SkipDefault = errors.New("skip default application")

// ApplyHint carries presentation hints alongside a published matrix.
type ApplyHint struct {
	// SuppressAnimation asks the sink to show the matrix immediately.
	SuppressAnimation bool
}

// ApplyFunc receives every composed matrix a stack publishes. Returning
// SkipDefault keeps the element's displayed transform untouched, for sinks
// that render the matrix themselves (a CSS rule, a GPU uniform).
type ApplyFunc func(m Matrix, hint ApplyHint) error

// TransformStack composes a translate, a rotate and a scale around a
// normalized origin into one affine matrix for the element it is bound to.
//
// The parameter holders are exported for direct mutation; nothing is
// published until ReapplyTransforms is called.
type TransformStack struct {
	Translate TranslateTransform
	Rotate    RotateTransform
	Scale     ScaleTransform
	Origin    TransformOrigin

	el       *Element
	onApply  ApplyFunc
	animator *Animator
	bound    bool
}

func newTransformStack(el *Element, onApply ApplyFunc) *TransformStack {
	return &TransformStack{
		Scale:   ScaleTransform{1, 1},
		el:      el,
		onApply: onApply,
		bound:   true,
	}
}

// Element returns the element the stack is bound to.
func (s *TransformStack) Element() *Element {
	return s.el
}

// Bound reports whether the stack is still attached to its element.
func (s *TransformStack) Bound() bool {
	return s.bound
}

// SetAnimator installs a tween used by the default application when a
// reapply does not suppress animation. A nil animator disables tweening.
func (s *TransformStack) SetAnimator(a *Animator) {
	s.animator = a
}

// Matrix returns the matrix composed from the current parameter values.
func (s *TransformStack) Matrix() Matrix {
	return composeTransform(s.Translate, s.Rotate, s.Scale, s.Origin, s.el.Bounds.Width, s.el.Bounds.Height)
}

// ReapplyTransforms recomputes the composed matrix and publishes it, either
// through the ApplyFunc or by assigning it to the element. Calling it again
// without parameter changes publishes the same matrix.
func (s *TransformStack) ReapplyTransforms(suppressAnimation bool) {
	if !s.bound {
		return
	}
	m := s.Matrix()
	hint := ApplyHint{SuppressAnimation: suppressAnimation}
	if s.onApply != nil {
		err := s.onApply(m, hint)
		if errors.Is(err, SkipDefault) {
			return
		}
		if err != nil {
			logger.Warn("apply callback failed", "element", s.el.ID, "err", err)
		}
	}
	if s.animator != nil && !suppressAnimation {
		s.animator.start(s.el, m)
		return
	}
	s.el.cancelTween()
	s.el.transform = m
}

// FromGlobalToLocal maps a viewport point into the frame the stack's
// parameters are expressed in: ancestors' transforms and the element's
// layout offset are undone, the stack's own transform is not.
func (s *TransformStack) FromGlobalToLocal(p Vec2) Vec2 {
	return s.el.frameMatrix().Invert().Apply(p)
}

// FromLocalToGlobal is the inverse of FromGlobalToLocal.
func (s *TransformStack) FromLocalToGlobal(p Vec2) Vec2 {
	return s.el.frameMatrix().Apply(p)
}

// FromGlobalToLocalDelta maps a viewport displacement into the parameter
// frame. Only rotation and scale are undone; translation cancels out.
func (s *TransformStack) FromGlobalToLocalDelta(v Vec2) Vec2 {
	return s.el.frameMatrix().Invert().ApplyVector(v)
}

// FromGlobalToContent maps a viewport point into the element's content
// space, undoing the stack's own transform as well.
func (s *TransformStack) FromGlobalToContent(p Vec2) Vec2 {
	return s.el.frameMatrix().Multiply(s.Matrix()).Invert().Apply(p)
}

// FromContentToGlobal is the inverse of FromGlobalToContent.
func (s *TransformStack) FromContentToGlobal(p Vec2) Vec2 {
	return s.el.frameMatrix().Multiply(s.Matrix()).Apply(p)
}

// Unbind detaches the stack from its element. The element keeps the last
// displayed transform. Later reapplies are ignored.
func (s *TransformStack) Unbind() {
	if !s.bound {
		return
	}
	s.bound = false
	s.el.cancelTween()
	if s.el.stack == s {
		s.el.stack = nil
	}
}

// --- Binding ---

// BindTask is the pending result of Bind. It resolves during a later
// Document.Frame, once the element's geometry can be measured.
type BindTask struct {
	el        *Element
	onApply   ApplyFunc
	connected bool // el was seen in the document

	done  bool
	stack *TransformStack
	err   error
	then  []func(*TransformStack, error)
}

// Bind allocates a transform stack for el. The returned task resolves on the
// next frame in which el is connected and measured. If el leaves the document
// first, the task fails with CodeElementRemoved; if el was never appended,
// it fails with CodeNotConnected.
//
// Binding an element that already has a stack keeps the existing stack;
// a non-nil onApply replaces the previous callback.
func Bind(el *Element, onApply ApplyFunc) *BindTask {
	t := &BindTask{el: el, onApply: onApply, connected: el.Connected()}
	el.doc.binds = append(el.doc.binds, t)
	return t
}

// Then registers fn to run when the task resolves, or immediately if it
// already has. Callbacks run in registration order.
func (t *BindTask) Then(fn func(*TransformStack, error)) *BindTask {
	if t.done {
		fn(t.stack, t.err)
		return t
	}
	t.then = append(t.then, fn)
	return t
}

// Done reports whether the task has resolved.
func (t *BindTask) Done() bool {
	return t.done
}

// Result returns the outcome. Before resolution both values are nil.
func (t *BindTask) Result() (*TransformStack, error) {
	return t.stack, t.err
}

// tryResolve settles the task if possible and reports whether it did.
func (t *BindTask) tryResolve() bool {
	el := t.el
	if !el.Connected() {
		if t.connected {
			t.resolve(nil, NewError(CodeElementRemoved, "element %s left the document before binding", el.ID))
		} else {
			t.resolve(nil, NewError(CodeNotConnected, "element %s was never appended to the document", el.ID))
		}
		return true
	}
	t.connected = true
	if !el.Measured() {
		return false
	}
	if el.stack != nil {
		logger.Warn("element already has a transform stack, reusing it", "element", el.ID)
		if t.onApply != nil {
			el.stack.onApply = t.onApply
		}
		t.resolve(el.stack, nil)
		return true
	}
	el.stack = newTransformStack(el, t.onApply)
	logger.Debug("transform stack bound", "element", el.ID, "tag", el.Tag)
	t.resolve(el.stack, nil)
	return true
}

func (t *BindTask) resolve(s *TransformStack, err error) {
	t.done = true
	t.stack = s
	t.err = err
	callbacks := t.then
	t.then = nil
	for _, fn := range callbacks {
		fn(s, err)
	}
}
