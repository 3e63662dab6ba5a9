package plugins

import (
	"bytes"
	"math"
	"slices"
	"strconv"

	"github.com/phanxgames/pad"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownRenderer converts markdown source to HTML.
type MarkdownRenderer interface {
	Render(src string) (string, error)
}

// GoldmarkRenderer renders GitHub-flavored markdown with goldmark.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates a renderer with the GFM extensions enabled.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	return &GoldmarkRenderer{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

func (r *GoldmarkRenderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DefaultNoteSize is the box of a note created by double tap.
var DefaultNoteSize = pad.Vec2{X: 240, Y: 160}

type note struct {
	input     *pad.Element
	html      *pad.Element
	transient *pad.Element
	blur      pad.ListenerHandle
}

// MarkdownNote turns .markdown-note canvas children into editable notes
// whose markdown source is shown rendered outside edit mode. Double tapping
// a note enters edit mode; double tapping empty canvas creates a note that
// faces the viewer regardless of the canvas rotation and zoom.
type MarkdownNote struct {
	Renderer MarkdownRenderer
	NoteSize pad.Vec2

	m       *pad.Manager
	rec     *pad.Recognizer
	handles []pad.CallbackHandle
	notes   map[*pad.Element]*note
}

// NewMarkdownNote creates the plugin. A nil renderer selects goldmark.
func NewMarkdownNote(r MarkdownRenderer) *MarkdownNote {
	if r == nil {
		r = NewGoldmarkRenderer()
	}
	return &MarkdownNote{Renderer: r, NoteSize: DefaultNoteSize}
}

func (p *MarkdownNote) Name() string { return "MarkdownNote" }

func (p *MarkdownNote) OnLoad(m *pad.Manager) error {
	p.m = m
	p.notes = make(map[*pad.Element]*note)
	doc := m.Document()
	canvas := m.Canvas()

	for _, el := range slices.Clone(canvas.Children()) {
		if el.HasClass("markdown-note") {
			p.makeNoteInteractive(el)
		}
	}

	p.handles = append(p.handles,
		doc.OnElementAdded(func(ev pad.ElementAdded) {
			if ev.Parent == canvas && ev.Element.HasClass("markdown-note") {
				p.makeNoteInteractive(ev.Element)
			}
		}),
		doc.OnElementRemoved(func(ev pad.ElementRemoved) {
			if n, ok := p.notes[ev.Element]; ok {
				n.blur.Remove()
				delete(p.notes, ev.Element)
			}
		}),
		doc.OnAttributeChanged(func(ev pad.AttributeChanged) {
			if ev.Name != "editmode" {
				return
			}
			if _, ok := p.notes[ev.Element]; ok {
				p.render(ev.Element)
			}
		}),
	)

	p.rec = doc.Input().NewRecognizer(doc.Body())
	p.rec.On(pad.GestureDoubleTap, p.onDoubleTap)
	return nil
}

func (p *MarkdownNote) OnUnload() error {
	p.rec.Destroy()
	for _, h := range p.handles {
		h.Remove()
	}
	p.handles = nil
	for _, n := range p.notes {
		n.blur.Remove()
		n.transient.Remove()
	}
	clear(p.notes)
	return nil
}

func (p *MarkdownNote) makeNoteInteractive(el *pad.Element) {
	if _, ok := p.notes[el]; ok {
		return
	}
	doc := p.m.Document()

	input := el.FindClass("markdown-input")
	if input == nil {
		input = doc.CreateElement("div", "markdown-input")
		el.AppendChild(input)
	}
	input.SetAttribute("contenteditable", "true")

	transient := doc.CreateTransient()
	html := doc.CreateElement("div", "marked-html")
	transient.AppendChild(html)
	el.AppendChild(transient)

	n := &note{input: input, html: html, transient: transient}
	n.blur = input.AddEventListener("blur", func(pad.Event) {
		p.SwitchEditMode(el, false)
	})
	p.notes[el] = n
	p.render(el)
}

// render re-renders the note's markdown into its html element.
func (p *MarkdownNote) render(el *pad.Element) {
	n := p.notes[el]
	out, err := p.Renderer.Render(n.input.Text)
	if err != nil {
		pad.Logger().Warn("markdown render failed", "element", el.ID, "err", err)
		return
	}
	n.html.Text = out
}

// SwitchEditMode sets the note's editmode attribute and focuses the input
// when entering edit mode.
func (p *MarkdownNote) SwitchEditMode(el *pad.Element, editable bool) {
	el.SetAttribute("editmode", strconv.FormatBool(editable))
	if !editable {
		return
	}
	if n, ok := p.notes[el]; ok {
		n.input.DispatchEvent("focus", nil)
	}
}

func (p *MarkdownNote) onDoubleTap(ev pad.GestureEvent) {
	if ev.Target == nil {
		return
	}
	if el := ev.Target.Closest("markdown-note"); el != nil {
		p.SwitchEditMode(el, true)
		return
	}

	body := p.m.Document().Body()
	canvas := p.m.Canvas()
	if ev.Target != body && ev.Target != canvas {
		return
	}

	pos := canvas.WorldMatrix().Invert().Apply(ev.Center)
	angle, sx, sy := 0.0, 1.0, 1.0
	if st := canvas.Stack(); st != nil {
		pos = st.FromGlobalToContent(ev.Center)
		angle = -math.Mod(st.Rotate.Angle, 360)
		sx = 1 / st.Scale.X
		sy = 1 / st.Scale.Y
	}

	el := p.CreateNote()
	doc := p.m.Document()
	pad.Bind(el, nil).Then(func(st *pad.TransformStack, err error) {
		if err != nil {
			return
		}
		st.Origin.Set(0.5, 0.5)
		st.Translate.Set(pos.X, pos.Y)
		st.Rotate.Set(angle)
		st.Scale.Set(sx, sy)
		doc.RequestAnimationFrame(func() {
			st.ReapplyTransforms(false)
		})
	})
}

// CreateNote appends an empty note to the canvas.
func (p *MarkdownNote) CreateNote() *pad.Element {
	doc := p.m.Document()
	el := doc.CreateElement("div", "markdown-note")
	el.SetAttribute("editmode", "false")
	el.SetSize(p.NoteSize.X, p.NoteSize.Y)
	el.AppendChild(doc.CreateElement("div", "markdown-input"))
	p.m.Canvas().AppendChild(el)
	return el
}
