package plugins

import (
	"github.com/phanxgames/pad"
)

const paletteSwatch = 40.0

// CanvasDrawing draws pressure-sensitive freehand strokes onto the canvas
// drawing surface. Only single-pointer input reporting a non-zero force
// draws; everything else falls through to the other plugins.
type CanvasDrawing struct {
	m *pad.Manager

	palette  *pad.Element
	swatches []*pad.Element
	color    string
	rec      *pad.Recognizer
	capture  pad.CaptureHandle

	stroke    *pad.Stroke
	path      *pad.Element
	pointerID int
	reenable  *pad.Timer
	disabled  bool
}

// NewCanvasDrawing creates the plugin.
func NewCanvasDrawing() *CanvasDrawing {
	return &CanvasDrawing{}
}

func (p *CanvasDrawing) Name() string { return "CanvasDrawing" }

// Color returns the active pen color.
func (p *CanvasDrawing) Color() string { return p.color }

// Palette returns the tool palette element.
func (p *CanvasDrawing) Palette() *pad.Element { return p.palette }

func (p *CanvasDrawing) OnLoad(m *pad.Manager) error {
	p.m = m
	doc := m.Document()

	p.createToolPalette()
	p.rec = doc.Input().NewRecognizer(p.palette)
	p.rec.On(pad.GestureTap, func(ev pad.GestureEvent) {
		swatch := ev.Target.Closest("color")
		if swatch == nil {
			return
		}
		ev.PreventDefault()
		ev.Src.StopImmediatePropagation()
		p.selectSwatch(swatch)
	})

	p.capture = doc.Input().AddCaptureListener(p.onPointer)
	return nil
}

func (p *CanvasDrawing) OnUnload() error {
	p.capture.Remove()
	p.rec.Destroy()
	p.reenable.Stop()
	p.setCanvasEnabled(true)
	p.palette.Remove()
	p.stroke = nil
	p.path = nil
	return nil
}

func (p *CanvasDrawing) createToolPalette() {
	doc := p.m.Document()
	colors := p.m.Config().Drawing.Colors

	p.palette = doc.CreateTransient("drawing-tool-palette")
	p.palette.SetPosition(10, 10)
	p.palette.SetSize(paletteSwatch*float64(len(colors)), paletteSwatch)

	list := doc.CreateElement("ul", "colors")
	p.palette.AppendChild(list)

	p.swatches = p.swatches[:0]
	for i, c := range colors {
		li := doc.CreateElement("li", "color")
		li.SetStyle("background", c)
		li.SetPosition(paletteSwatch*float64(i), 0)
		li.SetSize(paletteSwatch, paletteSwatch)
		list.AppendChild(li)
		p.swatches = append(p.swatches, li)
	}
	p.selectSwatch(p.swatches[0])

	doc.Body().AppendChild(p.palette)
}

// SelectColor activates the palette swatch with the given color. It
// reports whether the color is on the palette.
func (p *CanvasDrawing) SelectColor(color string) bool {
	for _, s := range p.swatches {
		if s.Style("background") == color {
			p.selectSwatch(s)
			return true
		}
	}
	return false
}

func (p *CanvasDrawing) selectSwatch(swatch *pad.Element) {
	for _, s := range p.swatches {
		if s != swatch {
			s.RemoveAttribute("active")
		}
	}
	swatch.SetAttribute("active", "true")
	p.color = swatch.Style("background")
}

func (p *CanvasDrawing) onPointer(ev *pad.PointerEvent) {
	in := p.m.Document().Input()

	switch ev.Kind {
	case pad.PointerDown:
		if in.ActivePointers() != 1 || ev.Force == 0 {
			return
		}
		if ev.Target != nil && p.palette.Contains(ev.Target) {
			return
		}
		consume(ev.Src)
		p.reenable.Stop()
		p.setCanvasEnabled(false)

		p.stroke = pad.NewStroke(p.m.Config().Drawing.StrokeWidth, p.color)
		p.pointerID = ev.ID
		p.path = p.m.Document().CreateElement("path")
		p.path.UserData = p.stroke
		p.addSample(ev)
		p.path.SetAttribute("fill", p.color)
		p.m.DrawingSurface().AppendChild(p.path)

	case pad.PointerMove:
		if p.stroke == nil || ev.ID != p.pointerID || in.ActivePointers() != 1 || ev.Force == 0 {
			return
		}
		consume(ev.Src)
		p.addSample(ev)

	case pad.PointerUp:
		if p.stroke == nil || ev.ID != p.pointerID {
			return
		}
		consume(ev.Src)
		p.stroke = nil
		p.path = nil
		p.reenable = p.m.Document().AfterFunc(p.m.Config().Drawing.ReenableDelay.Std(), func() {
			p.setCanvasEnabled(true)
		})
	}
}

// addSample maps the pointer into canvas content space and rebuilds the path.
func (p *CanvasDrawing) addSample(ev *pad.PointerEvent) {
	canvas := p.m.Canvas()
	zoom := 1.0
	var pos pad.Vec2
	if st := canvas.Stack(); st != nil {
		pos = st.FromGlobalToContent(ev.Pos())
		zoom = st.Scale.X
	} else {
		pos = canvas.WorldMatrix().Invert().Apply(ev.Pos())
	}

	if err := p.stroke.Add(pad.Point{X: pos.X, Y: pos.Y, Force: ev.Force}); err != nil {
		pad.Logger().Warn("dropping pen sample", "err", err)
		return
	}
	p.path.SetAttribute("d", p.stroke.PathData(zoom))
}

func (p *CanvasDrawing) setCanvasEnabled(enabled bool) {
	if !enabled && p.disabled {
		return
	}
	it := p.m.Canvas().Interactable()
	if it == nil {
		p.disabled = false
		return
	}
	if enabled {
		if p.disabled {
			it.SetEnabled(true)
		}
		p.disabled = false
		return
	}
	it.SetEnabled(false)
	p.disabled = true
}

func consume(src *pad.NativeEvent) {
	src.PreventDefault()
	src.StopPropagation()
	src.StopImmediatePropagation()
}
