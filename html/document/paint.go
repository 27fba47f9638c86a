// Package document paints a laid out box tree on a [backend.Canvas],
// one page at a time.
package document

import (
	"errors"
	"fmt"
	"math"

	"github.com/laughinglion/PeachPDF-sub000/backend"
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/html/layout"
	"github.com/laughinglion/PeachPDF-sub000/logger"
)

// ErrUnbalancedClip is returned when the clip stack of a page is not
// empty once the page is painted.
var ErrUnbalancedClip = errors.New("unbalanced clip stack")

type fl = backend.Fl

// painter draws the boxes visible on one page. Layout coordinates
// are translated by [offset] to page coordinates.
type painter struct {
	canvas backend.Canvas
	opts   layout.Options

	offset     pr.Float // top of the page, in layout coordinates
	pageHeight pr.Float

	// the box whose background is used for the whole page
	canvasBox *bo.Box

	clipDepth int
}

// Paint draws the tree rooted at [root], laid out with [opts], adding one
// page to [c] per page of the layout. When [opts] has no page height, the
// content is painted on a single page fitting it.
//
// Failures of individual boxes are reported through [layout.Options.OnError]
// and do not stop the painting.
func Paint(root *bo.Box, c backend.Canvas, opts layout.Options) (pages int, err error) {
	if root == nil {
		return 0, errors.New("no box to paint")
	}
	opts.OnError = opts.ErrorHandler()
	logger.ProgressLogger.Println("Step 3 - Painting pages")

	right, bottom := extent(root)
	width, pageHeight := opts.PageWidth, opts.PageHeight
	if width <= 0 {
		width = right + opts.MarginRight
	}
	pages = 1
	if pageHeight > 0 {
		pages = int(math.Ceil(float64(bottom / pageHeight)))
		if pages < 1 {
			pages = 1
		}
	} else {
		pageHeight = bottom + opts.MarginBottom
	}

	sc := NewStackingContextFromBox(root)
	canvasBox := backgroundBox(root)
	for i := 0; i < pages; i++ {
		c.AddPage(fl(width), fl(pageHeight))
		p := painter{
			canvas: c, opts: opts,
			offset: pr.Float(i) * pageHeight, pageHeight: pageHeight,
			canvasBox: canvasBox,
		}
		p.clipPush(bo.Rect{X: 0, Y: p.offset, Width: width, Height: pageHeight})
		p.paintCanvas(width, pageHeight)
		p.paintContext(sc)
		p.clipPop()
		if p.clipDepth != 0 {
			return i + 1, fmt.Errorf("page %d: %w (%d)", i+1, ErrUnbalancedClip, p.clipDepth)
		}
	}
	return pages, nil
}

// extent returns the right and bottom edges of the content.
func extent(root *bo.Box) (right, bottom pr.Float) {
	root.Walk(func(box *bo.Box) bool {
		if box.Display() == "none" {
			return false
		}
		if !pr.IsAuto(box.ActualRight) {
			right = pr.Max(right, box.ActualRight.V())
		}
		if !pr.IsAuto(box.ActualBottom) {
			bottom = pr.Max(bottom, box.ActualBottom.V())
		}
		for _, w := range box.Words {
			right, bottom = pr.Max(right, w.Right()), pr.Max(bottom, w.Bottom())
		}
		return true
	})
	if !pr.IsAuto(root.ActualBottom) {
		bottom = pr.Max(bottom, root.ActualBottom.V()+root.CollapsedMarginBottom)
	}
	return right, bottom
}

// backgroundBox returns the box whose background covers the page:
// the root, or its body when the root has no background.
func backgroundBox(root *bo.Box) *bo.Box {
	if hasBackground(root) {
		return root
	}
	for _, child := range root.Children {
		if child.Tag() == "body" && hasBackground(child) {
			return child
		}
	}
	return nil
}

func hasBackground(box *bo.Box) bool {
	return box.Style.Color(pr.PBackgroundColor).A != 0 || box.Style.BackgroundImage() != ""
}

func (p *painter) paintCanvas(width, height pr.Float) {
	if p.canvasBox == nil {
		return
	}
	if c := p.canvasBox.Style.Color(pr.PBackgroundColor); c.A != 0 {
		p.canvas.FillRect(0, 0, fl(width), fl(height), c)
	}
	p.paintBackgroundImage(p.canvasBox, p.canvasBox.BorderBox())
}

func (p *painter) report(box *bo.Box, kind layout.ErrorKind, err error) {
	p.opts.OnError(&layout.Error{Kind: kind, Box: box, Err: err})
}

// recoverBox is deferred at box boundaries, so that a failure only
// affects one box.
func (p *painter) recoverBox(box *bo.Box) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		p.report(box, layout.KindPaint, err)
	}
}

// visible returns true if [r] intersects the current page.
func (p *painter) visible(r bo.Rect) bool {
	return r.Bottom() >= p.offset && r.Y <= p.offset+p.pageHeight
}

// toPage converts a rectangle to page coordinates.
func (p *painter) toPage(r bo.Rect) (x, y, w, h fl) {
	return fl(r.X), fl(r.Y - p.offset), fl(r.Width), fl(r.Height)
}

func (p *painter) clipPush(r bo.Rect) {
	p.clipDepth++
	p.canvas.ClipPush(p.toPage(r))
}

func (p *painter) clipPop() {
	p.clipDepth--
	p.canvas.ClipPop()
}

// clips returns true for the boxes hiding their overflowing content.
func clips(box *bo.Box) bool {
	o := box.Style.Overflow()
	return o != "" && o != "visible"
}

// paddingBox returns the area clipped by [box].
func paddingBox(box *bo.Box) bo.Rect {
	return bo.Rect{
		X:     box.Location.X + box.BorderLeftWidth,
		Y:     box.Location.Y + box.BorderTopWidth,
		Width: box.PaddingWidth(), Height: box.PaddingHeight(),
	}
}

func (p *painter) paintContext(sc StackingContext) {
	defer p.recoverBox(sc.box)

	if sc.box.Style.Position() == "fixed" && p.opts.PageHeight > 0 {
		// fixed boxes are repeated on every page
		saved := p.offset
		p.offset = 0
		defer func() { p.offset = saved }()
	}

	if isInlineLevel(sc.box) {
		p.paintInline(sc.box)
	} else {
		p.paintBlock(sc.box)
	}
	if clips(sc.box) {
		p.clipPush(paddingBox(sc.box))
		defer p.clipPop()
	}

	for _, box := range sc.blocksAndCells {
		p.paintBlock(box)
	}
	for _, child := range sc.floats {
		p.paintContext(child)
	}
	for _, box := range sc.inlines {
		p.paintInline(box)
	}
	for _, child := range sc.atomics {
		p.paintContext(child)
	}
	for _, item := range sc.markers {
		p.paintMarker(item)
	}
	for _, child := range sc.positioned {
		p.paintContext(child)
	}
}
