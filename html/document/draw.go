package document

import (
	"context"
	"image/color"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/html/layout"
)

// color of the border drawn around images which failed to load
var errorColor = color.NRGBA{R: 255, A: 255}

type sides struct{ top, right, bottom, left bool }

var allSides = sides{true, true, true, true}

// paintBlock draws the background and the borders of a block-level box
// (or table part), and its replaced content if any.
func (p *painter) paintBlock(box *bo.Box) {
	defer p.recoverBox(box)

	if !box.Style.IsVisible() || box.Kind == bo.KindSpacer {
		return
	}
	r := box.BorderBox()
	if !p.visible(r) && len(box.Words) == 0 {
		return
	}
	if box != p.canvasBox {
		p.paintBackground(box, r)
	}
	p.paintBorders(box, r, allSides)
	p.paintWords(box)
}

// paintInline draws the parts of an inline box on each of its lines,
// then its words.
func (p *painter) paintInline(box *bo.Box) {
	defer p.recoverBox(box)

	if !box.Style.IsVisible() {
		return
	}
	lines := orderedLines(box)
	rtl := box.Style.Direction() == "rtl"
	for i, line := range lines {
		r := box.Rectangles[line]
		if !p.visible(r) {
			continue
		}
		first, last := i == 0, i == len(lines)-1
		s := sides{top: true, bottom: true, left: first, right: last}
		if rtl {
			s.left, s.right = last, first
		}
		p.paintBackground(box, r)
		p.paintBorders(box, r, s)
	}
	p.paintWords(box)
}

// orderedLines returns the lines [box] contributes to, in order.
func orderedLines(box *bo.Box) []*bo.LineBox {
	if len(box.Rectangles) == 0 {
		return nil
	}
	var owner *bo.Box
	for line := range box.Rectangles {
		owner = line.Owner
		break
	}
	var out []*bo.LineBox
	if owner != nil {
		for _, line := range owner.LineBoxes {
			if _, ok := box.Rectangles[line]; ok {
				out = append(out, line)
			}
		}
	}
	return out
}

func (p *painter) paintBackground(box *bo.Box, r bo.Rect) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	if c := box.Style.Color(pr.PBackgroundColor); c.A != 0 {
		x, y, w, h := p.toPage(r)
		p.canvas.FillRect(x, y, w, h, c)
	}
	p.paintBackgroundImage(box, r)
}

// paintBackgroundImage draws the background image of [box], at its
// intrinsic size from the top-left corner of [r], clipped to [r].
func (p *painter) paintBackgroundImage(box *bo.Box, r bo.Rect) {
	src := box.Style.BackgroundImage()
	if src == "" || p.opts.Images == nil {
		return
	}
	img, err := p.opts.Images.LoadImage(context.Background(), src)
	if err != nil {
		p.report(box, layout.KindMeasurement, err)
		return
	}
	pixels, err := img.Decode()
	if err != nil {
		p.report(box, layout.KindPaint, err)
		return
	}
	p.clipPush(r)
	defer p.clipPop()
	x, y, _, _ := p.toPage(r)
	p.canvas.DrawImage(pixels, x, y, fl(img.Width), fl(img.Height))
}

// paintBorders draws the border of the given [sides] of [box],
// on the edges of the border box [r].
func (p *painter) paintBorders(box *bo.Box, r bo.Rect, s sides) {
	x, y, w, h := p.toPage(r)
	paint := func(side pr.Side, width pr.Float, x, y, w, h fl) {
		if width <= 0 {
			return
		}
		if st := box.Style.Keyword(side.BorderStyle()); st == "none" || st == "hidden" {
			return
		}
		c := box.Style.Color(side.BorderColor())
		if c.A == 0 {
			return
		}
		p.canvas.FillRect(x, y, w, h, c)
	}
	if s.top {
		paint(pr.Top, box.BorderTopWidth, x, y, w, fl(box.BorderTopWidth))
	}
	if s.bottom {
		paint(pr.Bottom, box.BorderBottomWidth, x, y+h-fl(box.BorderBottomWidth), w, fl(box.BorderBottomWidth))
	}
	if s.left {
		paint(pr.Left, box.BorderLeftWidth, x, y, fl(box.BorderLeftWidth), h)
	}
	if s.right {
		paint(pr.Right, box.BorderRightWidth, x+w-fl(box.BorderRightWidth), y, fl(box.BorderRightWidth), h)
	}
}

// paintWords draws the text and images of [box].
// Inline blocks are painted with their own stacking context.
func (p *painter) paintWords(box *bo.Box) {
	if len(box.Words) == 0 {
		return
	}
	font := box.Font()
	textColor := box.Style.Color(pr.PColor)
	for _, w := range box.Words {
		if w.IsLineBreak || w.Atomic != nil || !p.visible(w.Rect()) {
			continue
		}
		switch {
		case box.Kind == bo.KindFrame:
			// frames are empty
		case w.IsImage:
			p.paintImageWord(box, w)
		case w.IsSpaces || w.Text == "":
		default:
			x, y, _, _ := p.toPage(w.Rect())
			p.canvas.DrawText(w.Text, x, y, font, textColor)
		}
	}
}

func (p *painter) paintImageWord(box *bo.Box, w *bo.Word) {
	x, y, width, height := p.toPage(w.Rect())
	if w.Image == nil || box.ErrorBorder {
		p.canvas.StrokeRect(x, y, width, height, 1, errorColor)
		return
	}
	pixels, err := w.Image.Decode()
	if err != nil {
		p.report(box, layout.KindPaint, err)
		p.canvas.StrokeRect(x, y, width, height, 1, errorColor)
		return
	}
	p.canvas.DrawImage(pixels, x, y, width, height)
}

// paintMarker draws the outside marker of a list item.
func (p *painter) paintMarker(item *bo.Box) {
	defer p.recoverBox(item)

	marker := item.Marker
	if marker == nil || !marker.Style.IsVisible() {
		return
	}
	p.paintWords(marker)
}
