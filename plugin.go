package pad

import (
	"errors"
	"time"
)

// Plugin extends a Manager. OnLoad runs once when the manager loads and
// OnUnload once when it unloads; a plugin must release every listener and
// binding it created in OnUnload.
type Plugin interface {
	Name() string
	OnLoad(m *Manager) error
	OnUnload() error
}

// Manager is the composition root of a pad: it owns the document, the
// canvas, the drawing surface inside the canvas, the style element the
// canvas transform is written to, and the plugins registered with it.
type Manager struct {
	doc     *Document
	canvas  *Element
	drawing *Element
	style   *Element
	cfg     Config

	plugins []Plugin
	byName  map[string]Plugin
	loaded  []Plugin
	running bool
}

// NewManager creates a document sized to viewport with a full-size canvas.
func NewManager(cfg Config, viewport Rect) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lvl, err := ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}

	doc := NewDocument(viewport)
	doc.Input().SetRecognizerConfig(cfg.Recognizer.Std())

	canvas := doc.CreateElement("div")
	canvas.ID = "canvas"
	canvas.SetSize(viewport.Width, viewport.Height)

	drawing := doc.CreateElement("svg")
	drawing.SetStyle("pointer-events", "none")
	canvas.AppendChild(drawing)

	style := doc.CreateElement("style")
	doc.Body().AppendChild(style)
	doc.Body().AppendChild(canvas)

	return &Manager{
		doc:     doc,
		canvas:  canvas,
		drawing: drawing,
		style:   style,
		cfg:     cfg,
		byName:  make(map[string]Plugin),
	}, nil
}

// Document returns the managed document.
func (m *Manager) Document() *Document { return m.doc }

// Canvas returns the #canvas element holding every canvas object.
func (m *Manager) Canvas() *Element { return m.canvas }

// DrawingSurface returns the svg element strokes are appended to.
func (m *Manager) DrawingSurface() *Element { return m.drawing }

// Style returns the style element holding the canvas transform rule.
func (m *Manager) Style() *Element { return m.style }

// Config returns the configuration the manager was created with.
func (m *Manager) Config() Config { return m.cfg }

// Loaded reports whether Load has run without a matching Unload.
func (m *Manager) Loaded() bool { return m.running }

// AddPlugin registers p. Names must be unique. If the manager is already
// loaded, p is loaded immediately.
func (m *Manager) AddPlugin(p Plugin) error {
	name := p.Name()
	if _, ok := m.byName[name]; ok {
		return NewError(CodePluginExists, "plugin %q already registered", name)
	}
	m.plugins = append(m.plugins, p)
	m.byName[name] = p
	if m.running {
		return m.load(p)
	}
	return nil
}

// Plugin returns the plugin registered under name, or nil.
func (m *Manager) Plugin(name string) Plugin {
	return m.byName[name]
}

// Plugins returns the registered plugins in registration order.
func (m *Manager) Plugins() []Plugin {
	return m.plugins
}

// Load runs OnLoad for every registered plugin in registration order. It
// stops at the first failure; plugins loaded so far stay loaded.
func (m *Manager) Load() error {
	if m.running {
		return nil
	}
	m.running = true
	for _, p := range m.plugins {
		if err := m.load(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) load(p Plugin) error {
	if err := p.OnLoad(m); err != nil {
		return WrapError(CodePluginFailed, err, "load plugin %q", p.Name())
	}
	m.loaded = append(m.loaded, p)
	logger.Debug("plugin loaded", "plugin", p.Name())
	return nil
}

// Unload runs OnUnload for every loaded plugin in reverse load order and
// joins their errors.
func (m *Manager) Unload() error {
	if !m.running {
		return nil
	}
	m.running = false
	var errs []error
	for i := len(m.loaded) - 1; i >= 0; i-- {
		p := m.loaded[i]
		if err := p.OnUnload(); err != nil {
			errs = append(errs, WrapError(CodePluginFailed, err, "unload plugin %q", p.Name()))
			continue
		}
		logger.Debug("plugin unloaded", "plugin", p.Name())
	}
	m.loaded = nil
	return errors.Join(errs...)
}

// Frame advances the document by dt.
func (m *Manager) Frame(dt time.Duration) {
	m.doc.Frame(dt)
}
