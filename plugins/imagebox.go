package plugins

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"github.com/phanxgames/pad"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ImageBox adds a file-input tool that inserts images onto the canvas as
// .image-box elements sized to the image.
type ImageBox struct {
	m      *pad.Manager
	tool   *pad.Element
	input  *pad.Element
	change pad.ListenerHandle
}

// NewImageBox creates the plugin.
func NewImageBox() *ImageBox {
	return &ImageBox{}
}

func (p *ImageBox) Name() string { return "ImageBox" }

// Input returns the file input element. Dispatch a "change" event with the
// file contents as []byte to insert an image.
func (p *ImageBox) Input() *pad.Element { return p.input }

func (p *ImageBox) OnLoad(m *pad.Manager) error {
	p.m = m
	doc := m.Document()

	p.tool = doc.CreateTransient("image-box-tool")
	label := doc.CreateElement("label", "input-button")
	p.input = doc.CreateElement("input")
	p.input.SetAttribute("type", "file")
	p.input.SetAttribute("accept", "image/*")
	p.change = p.input.AddEventListener("change", func(ev pad.Event) {
		data, ok := ev.Data.([]byte)
		if !ok {
			pad.Logger().Warn("image input change without file data")
			return
		}
		if _, err := p.Insert(data); err != nil {
			pad.Logger().Warn("image insert failed", "err", err)
		}
	})
	label.AppendChild(p.input)
	p.tool.AppendChild(label)
	doc.Body().AppendChild(p.tool)
	return nil
}

func (p *ImageBox) OnUnload() error {
	p.change.Remove()
	p.tool.Remove()
	return nil
}

// Insert decodes the image dimensions and appends an .image-box holding the
// image as a data URL to the canvas. Formats: PNG, JPEG, GIF, BMP, WebP.
func (p *ImageBox) Insert(data []byte) (*pad.Element, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, pad.WrapError(pad.CodeUnsupportedImage, err, "decode image header")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, pad.NewError(pad.CodeUnsupportedImage, "image has no pixels (%dx%d)", cfg.Width, cfg.Height)
	}
	doc := p.m.Document()
	w, h := float64(cfg.Width), float64(cfg.Height)

	box := doc.CreateElement("div", "image-box")
	box.SetStyle("left", "0px")
	box.SetStyle("top", "0px")
	box.SetStyle("width", fmt.Sprintf("%dpx", cfg.Width))
	box.SetStyle("height", fmt.Sprintf("%dpx", cfg.Height))
	box.SetSize(w, h)

	img := doc.CreateElement("img")
	img.SetAttribute("src", DataURL("image/"+format, data))
	img.SetStyle("pointer-events", "none")
	box.AppendChild(img)

	p.m.Canvas().AppendChild(box)
	p.input.SetAttribute("value", "")
	pad.Logger().Debug("image inserted", "format", format, "width", cfg.Width, "height", cfg.Height)
	return box, nil
}

// DataURL encodes data as a base64 data URL.
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
