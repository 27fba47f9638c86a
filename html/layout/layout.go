// Package layout computes the geometry of a box tree: the position and size
// of block boxes, the line boxes of inline content, tables and page breaks.
//
// Boxes are laid out in place: after [PerformLayout], every box of the tree has
// its used Location, Size, ActualRight and ActualBottom, and inline boxes have
// one rectangle per line box they contribute to.
// The laid out tree is ready to be painted, which is done by the
// higher level `document` package.
package layout

import (
	"context"
	"errors"
	"math"

	"github.com/laughinglion/PeachPDF-sub000/backend"
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/images"
	"github.com/laughinglion/PeachPDF-sub000/logger"
)

// unboundedWidth is the available width of the measuring pass.
const unboundedWidth = 1 << 20

// Options configures the layout.
type Options struct {
	// PageWidth and PageHeight are the size of the pages, in pixels.
	// A zero PageWidth lays out the document at its natural width, in two passes.
	// A zero PageHeight disables pagination.
	PageWidth, PageHeight pr.Float

	MarginTop, MarginRight, MarginBottom, MarginLeft pr.Float

	// MaxWidth caps the natural width when PageWidth is zero.
	// A zero value means no limit.
	MaxWidth pr.Float

	// ScrollX and ScrollY are the viewport offset applied to
	// fixed boxes.
	ScrollX, ScrollY pr.Float

	// Images resolves the images of the document.
	// If nil, images are rendered as placeholders.
	Images images.Loader

	// OnError is called for each non fatal failure.
	// If nil, errors are logged to [logger.WarningLogger].
	OnError func(*Error)
}

// DefaultOptions returns US Letter pages with half inch margins.
func DefaultOptions() Options {
	return Options{
		PageWidth: 612, PageHeight: 792,
		MarginTop: 36, MarginRight: 36, MarginBottom: 36, MarginLeft: 36,
	}
}

// Result sums up a layout.
type Result struct {
	// ActualSize is the extent of the content, from the page origin.
	ActualSize bo.Size
	PageCount  int
	// Passes is 2 when the natural width had to be measured first.
	Passes int
}

type layoutContext struct {
	ctx      context.Context
	measurer backend.Measurer
	opts     Options
	root     *bo.Box

	actualSize bo.Size

	// atomic inline boxes are laid out away from their final position:
	// pagination and actual size tracking are disabled meanwhile
	suspended int
}

// PerformLayout lays out the tree rooted at [root], using [m] to measure text.
// It may be called again on the same tree, with the same or other options.
//
// Failures of individual boxes are reported through [Options.OnError]
// and do not stop the layout. An error is returned for inconsistent trees.
func PerformLayout(ctx context.Context, root *bo.Box, m backend.Measurer, opts Options) (res Result, err error) {
	if root == nil {
		return res, errors.New("no box to lay out")
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	opts.OnError = opts.ErrorHandler()
	root.SetRoot(true)

	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(bo.StructuralError)
			if !ok {
				panic(r)
			}
			err = se
		}
	}()

	logger.ProgressLogger.Println("Step 2 - Laying out boxes")

	lc := &layoutContext{ctx: ctx, measurer: m, opts: opts, root: root}
	if opts.PageWidth > 0 {
		lc.layoutRoot(opts.PageWidth - opts.MarginLeft - opts.MarginRight)
		res.Passes = 1
	} else {
		// the final width depends on the content: measure it first
		lc.layoutRoot(unboundedWidth)
		width := pr.Float(math.Ceil(float64(lc.actualSize.Width - opts.MarginLeft)))
		if opts.MaxWidth > 0 && width > opts.MaxWidth {
			width = opts.MaxWidth
		}
		lc.actualSize = bo.Size{}
		lc.layoutRoot(pr.Max(width, 0))
		res.Passes = 2
	}

	res.ActualSize = lc.actualSize
	res.PageCount = 1
	if opts.PageHeight > 0 {
		res.PageCount = int(math.Ceil(float64(lc.actualSize.Height / opts.PageHeight)))
		if res.PageCount < 1 {
			res.PageCount = 1
		}
	}
	return res, nil
}

// layoutRoot runs one layout pass with the given available width.
func (lc *layoutContext) layoutRoot(availableWidth pr.Float) {
	root := lc.root
	lc.measureTree(root)

	defer lc.recoverBox(root, KindLayout)

	resolveSides(root, availableWidth)
	marginLeft, marginRight := root.MarginLeft, root.MarginRight
	root.Size.Width = lc.blockWidth(root, availableWidth)
	root.Location = bo.Point{
		X: lc.opts.MarginLeft + root.MarginLeft,
		Y: lc.opts.MarginTop + root.MarginTop,
	}
	root.CollapsedMarginTop = root.MarginTop
	natural := lc.layoutBlockContents(root) - (root.MarginLeft - marginLeft)
	lc.extend(natural+marginRight, root.ActualBottom.V()+root.CollapsedMarginBottom)
}

// extend updates the overall size of the content.
func (lc *layoutContext) extend(right, bottom pr.Float) {
	if lc.suspended > 0 {
		return
	}
	lc.actualSize.Width = pr.Max(lc.actualSize.Width, right)
	lc.actualSize.Height = pr.Max(lc.actualSize.Height, bottom)
}

// paginated returns true if page breaks are handled.
func (lc *layoutContext) paginated() bool {
	return lc.opts.PageHeight > 0 && lc.suspended == 0
}
