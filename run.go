package pad

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
	// Background fills the window before drawing. Nil means white.
	Background color.Color
	// Script, if set, is played against the document alongside live input.
	Script *ScriptRunner
}

// Run loads the manager's plugins and runs it in an ebiten window until the
// window closes. Mouse input is pointer 0 with zero force; holding Shift
// turns the mouse into a pen. Touches report Drawing.TouchForce.
func Run(m *Manager, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return NewError(CodeInvalidConfig, "window size %dx%d", cfg.Width, cfg.Height)
	}
	if !m.Loaded() {
		if err := m.Load(); err != nil {
			return err
		}
	}
	defer func() {
		if err := m.Unload(); err != nil {
			logger.Warn("unload failed", "err", err)
		}
	}()

	if cfg.Script != nil {
		m.Document().SetScript(cfg.Script)
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(newRunner(m, cfg))
}

type runner struct {
	m   *Manager
	cfg RunConfig

	mouseDown bool
	touches   map[ebiten.TouchID]Vec2
	touchBuf  []ebiten.TouchID

	verts   []ebiten.Vertex
	indices []uint16
}

func newRunner(m *Manager, cfg RunConfig) *runner {
	return &runner{m: m, cfg: cfg, touches: make(map[ebiten.TouchID]Vec2)}
}

// Update implements ebiten.Game.
func (r *runner) Update() error {
	in := r.m.Document().Input()
	mods := readModifiers()

	r.pollMouse(in, mods)
	r.pollTouches(in, mods)

	if _, dy := ebiten.Wheel(); dy != 0 {
		x, y := ebiten.CursorPosition()
		// ebiten reports wheel-up as positive; DOM deltaY grows downward in
		// roughly 100px notches.
		in.Wheel(WheelEvent{X: float64(x), Y: float64(y), DeltaY: -dy * 100, Modifiers: mods})
	}

	r.m.Frame(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (r *runner) pollMouse(in *Input, mods KeyModifiers) {
	x, y := ebiten.CursorPosition()
	force := 0.0
	if mods.Has(ModShift) {
		force = 0.5
	}
	ev := PointerEvent{ID: 0, X: float64(x), Y: float64(y), Force: force, Modifiers: mods}

	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case pressed && !r.mouseDown:
		ev.Kind = PointerDown
	case pressed:
		ev.Kind = PointerMove
	case r.mouseDown:
		ev.Kind = PointerUp
	default:
		return
	}
	r.mouseDown = pressed
	in.Pointer(ev)
}

// pollTouches diffs the current touch set against the previous tick. Touch
// IDs are offset by one so they never collide with the mouse pointer.
func (r *runner) pollTouches(in *Input, mods KeyModifiers) {
	force := r.m.Config().Drawing.TouchForce
	r.touchBuf = ebiten.AppendTouchIDs(r.touchBuf[:0])

	seen := make(map[ebiten.TouchID]bool, len(r.touchBuf))
	for _, id := range r.touchBuf {
		seen[id] = true
		x, y := ebiten.TouchPosition(id)
		pos := Vec2{float64(x), float64(y)}
		ev := PointerEvent{ID: int(id) + 1, X: pos.X, Y: pos.Y, Force: force, Modifiers: mods}
		if prev, ok := r.touches[id]; !ok {
			ev.Kind = PointerDown
		} else if prev != pos {
			ev.Kind = PointerMove
		} else {
			continue
		}
		r.touches[id] = pos
		in.Pointer(ev)
	}
	for id, pos := range r.touches {
		if seen[id] {
			continue
		}
		delete(r.touches, id)
		in.Pointer(PointerEvent{ID: int(id) + 1, Kind: PointerUp, X: pos.X, Y: pos.Y, Modifiers: mods})
	}
}

// Draw implements ebiten.Game. Boxes are filled with their background style
// and strokes are filled from their outlines; text is drawn with the debug
// font.
func (r *runner) Draw(screen *ebiten.Image) {
	bg := r.cfg.Background
	if bg == nil {
		bg = color.White
	}
	screen.Fill(bg)

	body := r.m.Document().Body()
	for _, c := range body.children {
		r.drawElement(screen, c, displayMatrix(c))
	}

	if r.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout implements ebiten.Game.
func (r *runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.cfg.Width, r.cfg.Height
}

func (r *runner) drawElement(screen *ebiten.Image, el *Element, world Matrix) {
	if el.Style("display") == "none" {
		return
	}
	if s, ok := el.UserData.(*Stroke); ok {
		r.drawStroke(screen, s, world)
	} else if el.Measured() {
		if c, ok := parseColor(el.Style("background")); ok {
			r.fillBox(screen, el.Bounds.Width, el.Bounds.Height, world, c)
		}
	}
	if el.Text != "" && !el.HasClass("marked-html") {
		p := world.Apply(Vec2{})
		ebitenutil.DebugPrintAt(screen, el.Text, int(p.X), int(p.Y))
	}
	for _, c := range el.children {
		r.drawElement(screen, c, world.Multiply(displayMatrix(c)))
	}
}

func (r *runner) fillBox(screen *ebiten.Image, w, h float64, world Matrix, c color.RGBA) {
	corners := [4]Vec2{{0, 0}, {w, 0}, {w, h}, {0, h}}
	r.verts = r.verts[:0]
	for _, p := range corners {
		r.verts = append(r.verts, ebiten.Vertex{DstX: float32(p.X), DstY: float32(p.Y), ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1})
	}
	r.indices = append(r.indices[:0], 0, 1, 2, 0, 2, 3)
	transformVertices(r.verts, world, c)
	screen.DrawTriangles(r.verts, r.indices, whitePixel(), &ebiten.DrawTrianglesOptions{})
}

func (r *runner) drawStroke(screen *ebiten.Image, s *Stroke, world Matrix) {
	c, ok := parseColor(s.Color)
	if !ok {
		c = color.RGBA{A: 255}
	}
	r.verts, r.indices = AppendVertices(s.Outline(s.Zoom), r.verts[:0], r.indices[:0])
	if len(r.indices) == 0 {
		return
	}
	transformVertices(r.verts, world, c)
	screen.DrawTriangles(r.verts, r.indices, whitePixel(), &ebiten.DrawTrianglesOptions{
		FillRule:  ebiten.FillRuleNonZero,
		AntiAlias: true,
	})
}

// displayMatrix is the local matrix as currently shown: the tweened
// transform while an animation runs, the stack's matrix otherwise.
func displayMatrix(el *Element) Matrix {
	if el.tween != nil {
		return TranslateMatrix(el.Bounds.X, el.Bounds.Y).Multiply(el.transform)
	}
	return el.localMatrix()
}

// transformVertices maps vertices through m in place and tints them with c.
func transformVertices(vs []ebiten.Vertex, m Matrix, c color.RGBA) {
	cr := float32(c.R) / 255
	cg := float32(c.G) / 255
	cb := float32(c.B) / 255
	ca := float32(c.A) / 255
	for i := range vs {
		v := &vs[i]
		p := m.Apply(Vec2{float64(v.DstX), float64(v.DstY)})
		v.DstX, v.DstY = float32(p.X), float32(p.Y)
		v.SrcX, v.SrcY = 0.5, 0.5
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = cr*ca, cg*ca, cb*ca, ca
	}
}

var whitePixelImage *ebiten.Image

func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

var namedColors = map[string]color.RGBA{
	"black":  {0, 0, 0, 255},
	"white":  {255, 255, 255, 255},
	"red":    {255, 0, 0, 255},
	"green":  {0, 128, 0, 255},
	"blue":   {0, 0, 255, 255},
	"yellow": {255, 255, 0, 255},
	"gray":   {128, 128, 128, 255},
}

// parseColor understands the named colors above and #rgb / #rrggbb.
func parseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, false
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}
