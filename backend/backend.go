// Package backend defines the surfaces used by layout and painting,
// in an output-agnostic manner, so that various output formats may be
// generated (PDF files, raster images, or a recording for tests).
//
// Every length is in CSS pixels, with the origin at the top-left of the page
// and the y axis growing downward.
package backend

import (
	"image"
	"image/color"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	"github.com/laughinglion/PeachPDF-sub000/text"
	"github.com/laughinglion/PeachPDF-sub000/utils"
)

type Fl = utils.Fl

// Measurer is the read-only part of a surface, used during layout.
type Measurer interface {
	// MeasureText returns the advance and the line height of [s]
	// drawn with [font].
	MeasureText(s string, font text.FontDescription) (width, height pr.Float)
}

// Canvas is the drawing target of the paint pass.
type Canvas interface {
	Measurer

	// AddPage starts a new page, which becomes the target of the drawing
	// methods.
	AddPage(width, height Fl)

	// ClipPush restricts the drawing to the given rectangle, until
	// the matching ClipPop. Calls must be balanced.
	ClipPush(x, y, width, height Fl)
	ClipPop()

	FillRect(x, y, width, height Fl, c color.Color)
	StrokeRect(x, y, width, height, lineWidth Fl, c color.Color)

	// DrawText draws [s] in the box whose top-left corner is (x, y).
	DrawText(s string, x, y Fl, font text.FontDescription, c color.Color)

	// DrawImage scales [img] to fill the given rectangle.
	DrawImage(img image.Image, x, y, width, height Fl)
}
