// Package raster implements [backend.Canvas] with github.com/fogleman/gg,
// producing one image per page.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/laughinglion/PeachPDF-sub000/backend"
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	"github.com/laughinglion/PeachPDF-sub000/logger"
	"github.com/laughinglion/PeachPDF-sub000/matrix"
	"github.com/laughinglion/PeachPDF-sub000/text"
)

// Output paints pages on in-memory images.
type Output struct {
	scale  backend.Fl       // device pixels per CSS pixel
	device matrix.Transform // CSS pixels to device pixels

	fonts  *text.FontRegistry
	parsed map[string]*truetype.Font
	faces  map[string]font.Face

	measure *gg.Context
	pages   []*gg.Context
	dc      *gg.Context
	clips   int
}

var _ backend.Canvas = (*Output)(nil)

// New returns an empty document. [scale] is the resolution,
// relative to 96 dpi; [fonts] may be nil.
func New(fonts *text.FontRegistry, scale backend.Fl) *Output {
	if fonts == nil {
		fonts = text.NewFontRegistry()
	}
	if scale <= 0 {
		scale = 1
	}
	return &Output{
		scale:   scale,
		device:  matrix.Scaling(scale, scale),
		fonts:   fonts,
		parsed:  make(map[string]*truetype.Font),
		faces:   make(map[string]font.Face),
		measure: gg.NewContext(1, 1),
	}
}

func (o *Output) parse(key string, data []byte) *truetype.Font {
	if f, ok := o.parsed[key]; ok {
		return f
	}
	f, err := truetype.Parse(data)
	if err != nil {
		logger.WarningLogger.Printf("loading font %s: %s", key, err)
	}
	o.parsed[key] = f
	return f
}

func fallbackData(fd text.FontDescription) (string, []byte) {
	switch {
	case fd.Bold() && fd.Italic:
		return "go-bold-italic", gobolditalic.TTF
	case fd.Bold():
		return "go-bold", gobold.TTF
	case fd.Italic:
		return "go-italic", goitalic.TTF
	default:
		return "go", goregular.TTF
	}
}

// face returns the font face for [fd], at [scale] times its size.
func (o *Output) face(fd text.FontDescription, scale backend.Fl) font.Face {
	size := backend.Fl(fd.Size)
	if size <= 0 {
		size = backend.Fl(pr.MediumFontSize)
	}
	size *= scale

	var ft *truetype.Font
	fontKey := ""
	if name, variant, data, ok := o.fonts.Lookup(fd); ok {
		fontKey = fmt.Sprintf("%s|%v", name, variant)
		ft = o.parse(fontKey, data)
	}
	if ft == nil {
		var data []byte
		fontKey, data = fallbackData(fd)
		ft = o.parse(fontKey, data)
	}
	key := fmt.Sprintf("%s|%g", fontKey, size)
	if face, ok := o.faces[key]; ok {
		return face
	}
	// at 72 dpi, one point is one pixel
	face := truetype.NewFace(ft, &truetype.Options{Size: size, DPI: 72})
	o.faces[key] = face
	return face
}

func (o *Output) MeasureText(s string, fd text.FontDescription) (width, height pr.Float) {
	face := o.face(fd, 1)
	o.measure.SetFontFace(face)
	w, _ := o.measure.MeasureString(s)
	return pr.Float(w), pr.Float(float64(face.Metrics().Height) / 64)
}

// AddPage starts a new white page.
func (o *Output) AddPage(width, height backend.Fl) {
	if o.clips != 0 {
		logger.WarningLogger.Printf("%d clip(s) not restored at the end of page %d", o.clips, len(o.pages))
		o.clips = 0
	}
	_, _, dw, dh := o.device.ApplyRect(0, 0, width, height)
	w, h := int(math.Ceil(dw)), int(math.Ceil(dh))
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	o.dc = dc
	o.pages = append(o.pages, dc)
}

func (o *Output) ClipPush(x, y, width, height backend.Fl) {
	o.dc.Push()
	o.dc.DrawRectangle(o.device.ApplyRect(x, y, width, height))
	o.dc.Clip()
	o.clips++
}

func (o *Output) ClipPop() {
	if o.clips == 0 {
		logger.WarningLogger.Println("unbalanced ClipPop")
		return
	}
	o.clips--
	o.dc.Pop()
}

func (o *Output) FillRect(x, y, width, height backend.Fl, c color.Color) {
	if o.dc == nil {
		return
	}
	o.dc.SetColor(c)
	o.dc.DrawRectangle(o.device.ApplyRect(x, y, width, height))
	o.dc.Fill()
}

func (o *Output) StrokeRect(x, y, width, height, lineWidth backend.Fl, c color.Color) {
	if o.dc == nil {
		return
	}
	o.dc.SetColor(c)
	o.dc.SetLineWidth(o.device.ApplyLength(lineWidth))
	o.dc.DrawRectangle(o.device.ApplyRect(x, y, width, height))
	o.dc.Stroke()
}

func (o *Output) DrawText(s string, x, y backend.Fl, fd text.FontDescription, c color.Color) {
	if o.dc == nil || s == "" {
		return
	}
	face := o.face(fd, o.scale)
	ascent := float64(face.Metrics().Ascent) / 64
	o.dc.SetFontFace(face)
	o.dc.SetColor(c)
	dx, dy := o.device.Apply(x, y)
	o.dc.DrawString(s, dx, dy+ascent)
}

func (o *Output) DrawImage(img image.Image, x, y, width, height backend.Fl) {
	b := img.Bounds()
	if o.dc == nil || b.Empty() || width <= 0 || height <= 0 {
		return
	}
	dx, dy, dw, dh := o.device.ApplyRect(x, y, width, height)
	o.dc.Push()
	o.dc.Translate(dx, dy)
	o.dc.Scale(dw/float64(b.Dx()), dh/float64(b.Dy()))
	o.dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	o.dc.Pop()
}

// Pages returns the painted pages.
func (o *Output) Pages() []image.Image {
	out := make([]image.Image, len(o.pages))
	for i, p := range o.pages {
		out[i] = p.Image()
	}
	return out
}

// WritePNG encodes the page [index] (0-based).
func (o *Output) WritePNG(index int, w io.Writer) error {
	if index < 0 || index >= len(o.pages) {
		return fmt.Errorf("invalid page index %d (%d pages)", index, len(o.pages))
	}
	return o.pages[index].EncodePNG(w)
}
