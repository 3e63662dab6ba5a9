package plugins

import (
	"slices"

	"github.com/phanxgames/pad"
)

// CanvasObjectInteraction makes every direct child of the canvas
// manipulable on its own. While an object owns a gesture the canvas
// interaction is disabled; it comes back on pan end or on a wheel step.
type CanvasObjectInteraction struct {
	m        *pad.Manager
	loaded   bool
	handles  []pad.CallbackHandle
	deletors map[*pad.Element]*pad.Element
}

// DeleteActionSize is the side of the delete button in an object's
// top-right corner.
const DeleteActionSize = 16

// NewCanvasObjectInteraction creates the plugin.
func NewCanvasObjectInteraction() *CanvasObjectInteraction {
	return &CanvasObjectInteraction{}
}

func (p *CanvasObjectInteraction) Name() string { return "CanvasObjectInteraction" }

func (p *CanvasObjectInteraction) OnLoad(m *pad.Manager) error {
	p.m = m
	p.loaded = true
	p.deletors = make(map[*pad.Element]*pad.Element)
	doc := m.Document()
	canvas := m.Canvas()

	for _, el := range slices.Clone(canvas.Children()) {
		p.makeInteractive(el, true)
	}

	p.handles = append(p.handles,
		doc.OnElementAdded(func(ev pad.ElementAdded) {
			if ev.Parent != canvas {
				return
			}
			el, local := ev.Element, ev.Local
			doc.RequestAnimationFrame(func() {
				p.makeInteractive(el, local)
			})
		}),
		doc.OnElementRemoved(func(ev pad.ElementRemoved) {
			if ev.Parent != canvas {
				return
			}
			p.removeInteractivity(ev.Element)
		}),
	)
	return nil
}

func (p *CanvasObjectInteraction) OnUnload() error {
	p.loaded = false
	for _, h := range p.handles {
		h.Remove()
	}
	p.handles = nil
	for _, el := range slices.Clone(p.m.Canvas().Children()) {
		p.removeInteractivity(el)
	}
	return nil
}

func (p *CanvasObjectInteraction) makeInteractive(el *pad.Element, local bool) {
	canvas := p.m.Canvas()
	if !p.loaded || el.Parent != canvas || el == p.m.DrawingSurface() || el.Transient {
		return
	}
	doc := p.m.Document()

	if _, ok := p.deletors[el]; !ok {
		del := doc.CreateTransient("delete-action")
		del.SetSize(DeleteActionSize, DeleteActionSize)
		del.SetStyle("background", "#cc3333")
		del.AddEventListener("click", func(pad.Event) {
			el.Remove()
		})
		el.AppendChild(del)
		p.deletors[el] = del
	}
	placeDeleteAction(el, p.deletors[el])

	el.SetStyle("position", "absolute")
	el.SetStyle("transform-origin", "0 0 0")

	pad.Bind(el, nil).Then(func(st *pad.TransformStack, err error) {
		if err != nil {
			pad.Logger().Debug("object bind abandoned", "element", el.ID, "err", err)
			return
		}
		if !p.loaded {
			return
		}
		placeDeleteAction(el, p.deletors[el])
		st.Origin.Set(0.5, 0.5)
		st.SetAnimator(p.m.Config().Animator())

		_, err = pad.Attach(el, pad.ManipulationOptions{
			IsValidEvent: pad.ConsumeIfWithin(el),
			OnEvent: func(ev pad.GestureEvent) {
				if it := canvas.Interactable(); it != nil {
					it.SetEnabled(ev.Is(pad.GesturePan, pad.PhaseEnd) || ev.Type == pad.GestureWheel)
				}
			},
			Config: p.m.Config().Manipulation,
		})
		if err != nil {
			pad.Logger().Warn("object attach failed", "element", el.ID, "err", err)
			return
		}
		st.ReapplyTransforms(local)
	})
}

// placeDeleteAction pins del to the top-right corner of el. Binding runs it
// again once el is measured.
func placeDeleteAction(el, del *pad.Element) {
	if del == nil {
		return
	}
	del.SetPosition(max(0, el.Bounds.Width-DeleteActionSize), 0)
}

func (p *CanvasObjectInteraction) removeInteractivity(el *pad.Element) {
	pad.Detach(el)
	if del, ok := p.deletors[el]; ok {
		del.Remove()
		delete(p.deletors, el)
	}
}
