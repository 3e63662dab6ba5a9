// Package pad is a collaborative whiteboard engine: a retained element tree
// with per-element transform stacks, a multi-touch gesture recognizer, and the
// manipulation logic that turns pans, rotations, pinches and wheel steps into
// transform updates. Rendering runs on [Ebitengine].
//
// # Quick start
//
// Build a [Manager], register plugins and hand it to [Run]:
//
//	m, err := pad.NewManager(pad.DefaultConfig(), pad.Rect{Width: 1280, Height: 800})
//	if err != nil {
//		return err
//	}
//	m.AddPlugin(plugins.NewCanvasObjectInteraction())
//	m.AddPlugin(plugins.NewCanvasInteraction())
//	m.AddPlugin(plugins.NewCanvasDrawing())
//	return pad.Run(m, pad.RunConfig{Title: "pad", Width: 1280, Height: 800})
//
// Without a window, feed [Input.Pointer] and [Input.Wheel] yourself and
// advance time with [Manager.Frame].
//
// # Transforms
//
// [Bind] attaches a [TransformStack] to an element once the element is
// connected and measured. The stack composes
//
//	T(translate) · T(origin) · R(rotate) · S(scale) · T(-origin)
//
// and publishes the result through [TransformStack.ReapplyTransforms], either
// directly, through a tween ([Animator]) or through a custom [ApplyFunc].
//
// # Gestures
//
// A [Recognizer] turns pointer events on its source element into pan, rotate,
// pinch, tap and double-tap [GestureEvent]s. [Attach] wires a recognizer to a
// target's stack through a [Manipulation]. Nested interactables arbitrate via
// IsValidEvent predicates such as [ConsumeIfWithin]: the innermost object
// claims the native event and stops propagation, so its ancestors stay put.
//
// Gesture events can also be forwarded to an [EventStore]; the ecs
// subpackage ships one backed by a [Donburi] world.
//
// # Scripted input
//
// [Input.InjectTap], [Input.InjectDrag] and [Input.InjectWheel] queue
// synthetic events that [Document.Frame] delivers one per frame. A
// [ScriptRunner] loaded with [LoadScript] sequences them from JSON and
// records [Snapshot]s of every bound element's matrix, which is how
// `pad replay` checks behavior without a window.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package pad
