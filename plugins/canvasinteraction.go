package plugins

import (
	"fmt"

	"github.com/phanxgames/pad"
)

// CanvasInteraction pans, rotates and zooms the whole canvas. The canvas
// transform is published as a CSS rule in the manager's style element
// rather than assigned to the canvas directly.
type CanvasInteraction struct {
	m      *pad.Manager
	loaded bool
}

// NewCanvasInteraction creates the plugin.
func NewCanvasInteraction() *CanvasInteraction {
	return &CanvasInteraction{}
}

func (p *CanvasInteraction) Name() string { return "CanvasInteraction" }

func (p *CanvasInteraction) OnLoad(m *pad.Manager) error {
	p.m = m
	p.loaded = true
	canvas := m.Canvas()

	pad.Bind(canvas, p.apply).Then(func(st *pad.TransformStack, err error) {
		if err != nil {
			pad.Logger().Warn("canvas bind failed", "err", err)
			return
		}
		if !p.loaded {
			return
		}
		st.Origin.Set(0.5, 0.5)
		st.ReapplyTransforms(true)

		_, err = pad.Attach(canvas, pad.ManipulationOptions{
			EventSource: m.Document().Body(),
			Config:      m.Config().Manipulation,
		})
		if err != nil {
			pad.Logger().Warn("canvas attach failed", "err", err)
		}
	})
	return nil
}

func (p *CanvasInteraction) OnUnload() error {
	p.loaded = false
	pad.Detach(p.m.Canvas())
	return nil
}

// apply writes the canvas rule and vetoes the default application.
func (p *CanvasInteraction) apply(m pad.Matrix, _ pad.ApplyHint) error {
	p.m.Style().Text = CanvasRule(m.CSS())
	return pad.SkipDefault
}

// CanvasRule renders the style rule transforming #canvas, with every vendor
// prefix.
func CanvasRule(css string) string {
	return fmt.Sprintf(`
#canvas {
    -webkit-transform: %[1]s;
    -moz-transform: %[1]s;
    -ms-transform: %[1]s;
    -o-transform: %[1]s;
    transform: %[1]s;
}
`, css)
}
