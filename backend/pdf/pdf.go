// Package pdf implements [backend.Canvas] on top of github.com/tdewolff/canvas,
// writing PDF files.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/laughinglion/PeachPDF-sub000/backend"
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	"github.com/laughinglion/PeachPDF-sub000/logger"
	"github.com/laughinglion/PeachPDF-sub000/text"
	"github.com/laughinglion/PeachPDF-sub000/version"
)

// canvas works in millimeters, and font sizes in points
const (
	pxToMm = 25.4 / 96
	pxToPt = 0.75
)

var transparent = color.RGBA{}

type rect struct{ x, y, w, h backend.Fl }

func (r rect) intersect(o rect) rect {
	x0, y0 := max(r.x, o.x), max(r.y, o.y)
	x1, y1 := min(r.x+r.w, o.x+o.w), min(r.y+r.h, o.y+o.h)
	return rect{x0, y0, max(0, x1-x0), max(0, y1-y0)}
}

func (r rect) isEmpty() bool { return r.w <= 0 || r.h <= 0 }

type page struct {
	c    *canvas.Canvas
	w, h backend.Fl
}

// Output accumulates pages, which are written by [Output.WritePDF].
type Output struct {
	fonts    *text.FontRegistry
	families map[string]*canvas.FontFamily

	pages []page
	ctx   *canvas.Context
	clips []rect
}

var _ backend.Canvas = (*Output)(nil)

// New returns an empty document. [fonts] may be nil,
// in which case only the Go fonts are used.
func New(fonts *text.FontRegistry) *Output {
	if fonts == nil {
		fonts = text.NewFontRegistry()
	}
	return &Output{fonts: fonts, families: make(map[string]*canvas.FontFamily)}
}

// PageCount returns the number of pages added.
func (o *Output) PageCount() int { return len(o.pages) }

func canvasStyle(v text.FontVariant) canvas.FontStyle {
	style := canvas.FontRegular
	if v.Bold {
		style = canvas.FontBold
	}
	if v.Italic {
		style |= canvas.FontItalic
	}
	return style
}

// goFamily loads the fallback family, with its four variants.
func (o *Output) goFamily(mono bool) *canvas.FontFamily {
	name := "go"
	if mono {
		name = "go-mono"
	}
	if f := o.families[name]; f != nil {
		return f
	}
	family := canvas.NewFontFamily(name)
	variants := map[canvas.FontStyle][]byte{
		canvas.FontRegular:                  goregular.TTF,
		canvas.FontBold:                     gobold.TTF,
		canvas.FontItalic:                   goitalic.TTF,
		canvas.FontBold | canvas.FontItalic: gobolditalic.TTF,
	}
	if mono {
		variants = map[canvas.FontStyle][]byte{canvas.FontRegular: gomono.TTF}
	}
	for style, data := range variants {
		if err := family.LoadFont(data, 0, style); err != nil {
			logger.WarningLogger.Printf("loading fallback font: %s", err)
		}
	}
	o.families[name] = family
	return family
}

// face resolves the font description to a canvas face.
func (o *Output) face(fd text.FontDescription, col color.Color) *canvas.FontFace {
	size := float64(fd.Size) * pxToPt
	if size <= 0 {
		size = float64(pr.MediumFontSize) * pxToPt
	}
	if name, variant, data, ok := o.fonts.Lookup(fd); ok {
		key := fmt.Sprintf("%s|%v", name, variant)
		family := o.families[key]
		if family == nil {
			family = canvas.NewFontFamily(name)
			if err := family.LoadFont(data, 0, canvasStyle(variant)); err != nil {
				logger.WarningLogger.Printf("loading font %s: %s", name, err)
				family = nil
			}
			o.families[key] = family
		}
		if family != nil {
			return family.Face(size, col, canvasStyle(variant), canvas.FontNormal)
		}
	}
	mono := false
	for _, f := range fd.Family {
		if f == "monospace" || f == "courier" || f == "Courier New" {
			mono = true
			break
		}
	}
	style := canvasStyle(text.FontVariant{Bold: fd.Bold(), Italic: fd.Italic})
	if mono {
		style = canvas.FontRegular
	}
	return o.goFamily(mono).Face(size, col, style, canvas.FontNormal)
}

func (o *Output) MeasureText(s string, fd text.FontDescription) (width, height pr.Float) {
	face := o.face(fd, color.Black)
	w := face.TextWidth(s) / pxToMm
	h := face.Metrics().LineHeight / pxToMm
	return pr.Float(w), pr.Float(h)
}

// AddPage starts a page of the given size, in pixels.
func (o *Output) AddPage(width, height backend.Fl) {
	if len(o.clips) != 0 {
		logger.WarningLogger.Printf("%d clip(s) not restored at the end of page %d", len(o.clips), len(o.pages))
		o.clips = o.clips[:0]
	}
	c := canvas.New(width*pxToMm, height*pxToMm)
	o.ctx = canvas.NewContext(c)
	o.ctx.SetCoordSystem(canvas.CartesianIV) // origin at the top-left, as in layout
	o.pages = append(o.pages, page{c: c, w: width, h: height})
}

func (o *Output) currentClip() (rect, bool) {
	if len(o.clips) == 0 {
		return rect{}, false
	}
	return o.clips[len(o.clips)-1], true
}

// ClipPush restricts further drawing to the rectangle. The canvas context
// has no clip path, so rectangles are intersected and other content
// outside the clip is skipped.
func (o *Output) ClipPush(x, y, width, height backend.Fl) {
	r := rect{x, y, width, height}
	if current, ok := o.currentClip(); ok {
		r = r.intersect(current)
	}
	o.clips = append(o.clips, r)
	o.ctx.Push()
}

func (o *Output) ClipPop() {
	if len(o.clips) == 0 {
		logger.WarningLogger.Println("unbalanced ClipPop")
		return
	}
	o.clips = o.clips[:len(o.clips)-1]
	o.ctx.Pop()
}

// visible clips [r] against the current clip.
func (o *Output) visible(r rect) (rect, bool) {
	if current, ok := o.currentClip(); ok {
		r = r.intersect(current)
	}
	return r, !r.isEmpty()
}

func (o *Output) FillRect(x, y, width, height backend.Fl, c color.Color) {
	r, ok := o.visible(rect{x, y, width, height})
	if !ok || o.ctx == nil {
		return
	}
	o.ctx.SetFillColor(c)
	o.ctx.SetStrokeColor(transparent)
	o.ctx.DrawPath(r.x*pxToMm, r.y*pxToMm, canvas.Rectangle(r.w*pxToMm, r.h*pxToMm))
}

func (o *Output) StrokeRect(x, y, width, height, lineWidth backend.Fl, c color.Color) {
	if _, ok := o.visible(rect{x, y, width, height}); !ok || o.ctx == nil {
		return
	}
	o.ctx.SetFillColor(transparent)
	o.ctx.SetStrokeColor(c)
	o.ctx.SetStrokeWidth(lineWidth * pxToMm)
	o.ctx.DrawPath(x*pxToMm, y*pxToMm, canvas.Rectangle(width*pxToMm, height*pxToMm))
}

func (o *Output) DrawText(s string, x, y backend.Fl, fd text.FontDescription, c color.Color) {
	if o.ctx == nil || s == "" {
		return
	}
	face := o.face(fd, c)
	w := face.TextWidth(s) / pxToMm
	h := face.Metrics().LineHeight / pxToMm
	if _, ok := o.visible(rect{x, y, w, h}); !ok {
		return
	}
	line := canvas.NewTextLine(face, s, canvas.Left)
	baseline := y*pxToMm + face.Metrics().Ascent
	o.ctx.DrawText(x*pxToMm, baseline, line)
}

func (o *Output) DrawImage(img image.Image, x, y, width, height backend.Fl) {
	if o.ctx == nil || img == nil || width <= 0 || height <= 0 {
		return
	}
	if _, ok := o.visible(rect{x, y, width, height}); !ok {
		return
	}
	dpmm := float64(img.Bounds().Dx()) / (width * pxToMm)
	if dpmm <= 0 {
		dpmm = 1
	}
	o.ctx.DrawImage(x*pxToMm, y*pxToMm, img, canvas.DPMM(dpmm))
}

// WritePDF writes the accumulated pages.
func (o *Output) WritePDF(w io.Writer) error {
	if len(o.pages) == 0 {
		return fmt.Errorf("no page to write")
	}
	first := o.pages[0]
	writer := pdf.New(w, first.w*pxToMm, first.h*pxToMm, nil)
	writer.SetInfo("", "", "", "", version.VersionString)
	for i, p := range o.pages {
		if i > 0 {
			writer.NewPage(p.w*pxToMm, p.h*pxToMm)
		}
		p.c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// Bytes is a convenience wrapper around [Output.WritePDF].
func (o *Output) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := o.WritePDF(&buf)
	return buf.Bytes(), err
}
