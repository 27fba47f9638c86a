package layout

import (
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
)

// Layout for block-level and block-container boxes: widths, vertical flow,
// margin collapsing, floats and forced page breaks.

// blockFlow is the cursor of the vertical flow of a block container.
type blockFlow struct {
	parent *bo.Box

	// y is the bottom border edge of the last in-flow box,
	// or the content top of the parent
	y pr.Float
	// marginBottom is the margin exposed by the last in-flow box
	marginBottom pr.Float
	prev         *bo.Box

	// natural is the right edge of the content, when laid out
	// without constraint.
	natural pr.Float

	// current row of floats
	inFloatRow            bool
	floatLeft, floatRight pr.Float
	floatTop, floatBottom pr.Float
	floatRowWidth         pr.Float

	absolutes []absolutePlaceholder
}

// Return the amount of collapsed margin for a list of adjoining margins.
func collapseMargin(adjoiningMargins ...pr.Float) pr.Float {
	var maxPos, minNeg pr.Float
	for _, m := range adjoiningMargins {
		if m > maxPos {
			maxPos = m
		} else if m < minNeg {
			minNeg = m
		}
	}
	return maxPos + minNeg
}

// Return wether a box establishes a block formatting context,
// which prevents the margins of its children to collapse with its own.
func establishesFormattingContext(box *bo.Box) bool {
	return box.IsRoot() || box.IsFloated() || box.IsOutOfFlow() ||
		box.IsAtomicInline() || box.IsTable() ||
		box.Display() == "table-cell" || box.Display() == "table-caption" ||
		(box.Style.Overflow() != "" && box.Style.Overflow() != "visible")
}

// shrinkToFit returns true for the boxes whose auto width
// is computed from their content.
func shrinkToFit(box *bo.Box) bool {
	return box.IsFloated() || box.IsAtomicInline() || box.IsOutOfFlow()
}

// topMarginsAdjoin returns true if the top margin of the first in-flow
// [child] collapses with the one of [parent].
func topMarginsAdjoin(parent, child *bo.Box) bool {
	return !establishesFormattingContext(parent) && !shrinkToFit(child) &&
		parent.PaddingTop == 0 && parent.BorderTopWidth == 0 &&
		child.PaddingTop == 0 && child.BorderTopWidth == 0
}

// bottomMarginsAdjoin returns true if the bottom margin of the last
// in-flow [child] collapses with the one of [parent].
func bottomMarginsAdjoin(parent, child *bo.Box) bool {
	return !establishesFormattingContext(parent) &&
		pr.IsAuto(specifiedHeight(parent, pr.AutoF)) &&
		parent.PaddingBottom == 0 && parent.BorderBottomWidth == 0 &&
		child.PaddingBottom == 0 && child.BorderBottomWidth == 0
}

// isFirstInFlow returns true if no in-flow block precedes [box].
func isFirstInFlow(box *bo.Box) bool {
	if box.Parent == nil {
		return true
	}
	for _, c := range box.Parent.Children {
		if c == box {
			return true
		}
		if c.Display() != "none" && !c.IsOutOfFlow() && !c.IsFloated() {
			return false
		}
	}
	return true
}

// effectiveMarginTop returns the collapsed margin in effect at the top
// border edge of [box], which includes the margins of the ancestors it
// collapsed with.
func effectiveMarginTop(box *bo.Box) pr.Float {
	if p := box.Parent; p != nil && !box.IsRoot() && isFirstInFlow(box) && topMarginsAdjoin(p, box) {
		return effectiveMarginTop(p) + box.CollapsedMarginTop
	}
	return box.CollapsedMarginTop
}

// blockWidth returns the used content width of a block-level box,
// whose sides are resolved, and sets its auto horizontal margins.
// Table widths are only a maximum, refined by the table layout.
func (lc *layoutContext) blockWidth(box *bo.Box, cbWidth pr.Float) pr.Float {
	spacing := box.PaddingLeft + box.PaddingRight + box.BorderLeftWidth + box.BorderRightWidth
	available := cbWidth - spacing - box.MarginLeft - box.MarginRight

	var width pr.Float
	w := specifiedWidth(box, cbWidth)
	switch {
	case (box.Kind == bo.KindImage || box.Kind == bo.KindFrame) && len(box.Words) != 0:
		sizeReplaced(box, cbWidth)
		width = box.Words[0].Width
	case box.IsTable():
		// the width of tables includes their borders and paddings
		if raw := resolveOne(box, pr.PWidth, cbWidth); !pr.IsAuto(raw) {
			width = raw.V() - spacing
		} else {
			width = available
		}
	case !pr.IsAuto(w):
		width = w.V()
	case shrinkToFit(box):
		cmin, cmax := contentMinMax(box)
		width = pr.Min(pr.Max(cmin, available), cmax)
	default:
		width = available
	}
	if box.IsTable() {
		return pr.Max(0, width)
	}
	width = clampWidth(box, width, cbWidth)
	if shrinkToFit(box) {
		return width
	}

	if free := available - width; free > 0 {
		autoL, autoR := isAutoMargin(box, pr.Left), isAutoMargin(box, pr.Right)
		switch {
		case autoL && autoR:
			box.MarginLeft += free / 2
			box.MarginRight += free / 2
		case autoL:
			box.MarginLeft += free
		case autoR:
			box.MarginRight += free
		}
	}
	return width
}

// layoutBlockContents lays out the content of [box], whose width and
// location are set, and computes its height. It returns the right edge
// of the border box when laid out without width constraint.
func (lc *layoutContext) layoutBlockContents(box *bo.Box) pr.Float {
	var (
		bottom, natural pr.Float
		absolutes       []absolutePlaceholder
	)
	box.CollapsedMarginBottom = box.MarginBottom
	switch {
	case box.IsTable():
		bottom, natural = lc.layoutTable(box)
	case len(box.Words) != 0 || box.ContainsInlinesOnly():
		bottom, natural, absolutes = lc.layoutInlineContent(box)
	default:
		f := lc.layoutChildren(box)
		bottom, natural, absolutes = f.y, f.natural, f.absolutes
		if f.prev != nil {
			if bottomMarginsAdjoin(box, f.prev) {
				box.CollapsedMarginBottom = collapseMargin(box.MarginBottom, f.marginBottom)
			} else {
				bottom += f.marginBottom
			}
		}
		if f.inFloatRow {
			bottom = pr.Max(bottom, f.floatBottom)
		}
	}

	height := pr.Max(0, bottom-box.ClientTop())
	var cbHeight pr.MaybeFloat = pr.AutoF
	if !box.IsRoot() && box.Parent != nil {
		cbHeight = definiteHeight(box.Parent)
	}
	if h := specifiedHeight(box, cbHeight); !pr.IsAuto(h) {
		if box.IsTable() || box.Display() == "table-cell" {
			// tables and cells grow to fit their content
			height = pr.Max(height, h.V())
		} else {
			height = h.V()
		}
	}
	box.Size.Height = clampHeight(box, height, cbHeight)
	box.ActualRight = box.Location.X + box.BorderWidth()
	box.ActualBottom = box.Location.Y + box.BorderHeight()

	if !box.IsTable() && !pr.IsAuto(specifiedWidth(box, pr.AutoF)) {
		natural = pr.Max(natural, box.ActualRight.V())
	} else {
		natural = pr.Max(natural, box.ClientLeft()) + box.PaddingRight + box.BorderRightWidth
	}

	if box.Marker != nil {
		lc.placeMarker(box)
	}
	for _, p := range absolutes {
		lc.layoutAbsolute(box, p)
	}
	lc.extend(0, box.ActualBottom.V())
	return natural
}

// layoutChildren lays out the block-level children of [box].
func (lc *layoutContext) layoutChildren(box *bo.Box) *blockFlow {
	f := &blockFlow{parent: box, y: box.ClientTop(), natural: box.ClientLeft()}
	for _, child := range box.Children {
		if err := lc.ctx.Err(); err != nil {
			lc.report(KindLayout, child, err)
			break
		}
		switch {
		case child.Display() == "none":
		case child.IsOutOfFlow():
			f.absolutes = append(f.absolutes, absolutePlaceholder{
				box: child, staticX: box.ClientLeft(), staticY: f.staticTop(),
			})
		case child.IsFloated():
			lc.layoutFloat(f, child)
		default:
			lc.layoutInFlow(f, child)
		}
	}
	return f
}

// staticTop returns the top border edge of a box following the
// current content, ignoring its margins.
func (f *blockFlow) staticTop() pr.Float {
	y := f.y
	if f.prev != nil {
		y += f.marginBottom
	}
	if f.inFloatRow {
		y = pr.Max(y, f.floatBottom)
	}
	return y
}

// top returns the position of the top border edge of the in-flow [box]
// and the margin used above it.
func (f *blockFlow) top(box *bo.Box) (y, collapsed pr.Float) {
	if f.prev == nil {
		collapsed = box.MarginTop
		if topMarginsAdjoin(f.parent, box) {
			above := effectiveMarginTop(f.parent)
			collapsed = collapseMargin(above, box.MarginTop) - above
		}
	} else {
		collapsed = collapseMargin(f.marginBottom, box.MarginTop)
	}
	y = f.y + collapsed
	if f.inFloatRow {
		if below := f.floatBottom + box.MarginTop; below > y {
			y, collapsed = below, box.MarginTop
		}
	}
	return y, collapsed
}

func (f *blockFlow) advance(box *bo.Box, natural pr.Float) {
	f.y = box.ActualBottom.V()
	f.marginBottom = box.CollapsedMarginBottom
	f.prev = box
	f.natural = pr.Max(f.natural, natural)
	f.inFloatRow = false
}

// layoutInFlow lays out an in-flow block-level child, below the
// previous one.
func (lc *layoutContext) layoutInFlow(f *blockFlow, box *bo.Box) {
	defer lc.recoverBox(box, KindLayout)

	parent := f.parent
	cbWidth := parent.Size.Width
	resolveSides(box, cbWidth)
	marginLeft, marginRight := box.MarginLeft, box.MarginRight
	box.Size.Width = lc.blockWidth(box, cbWidth)

	y, collapsed := f.top(box)
	if lc.paginated() && f.prev != nil && (box.Style.PageBreakBefore() || f.prev.Style.PageBreakAfter()) {
		y, collapsed = lc.forcedBreakTop(f.y), 0
	}
	box.Location = bo.Point{X: parent.ClientLeft() + box.MarginLeft, Y: y}
	box.CollapsedMarginTop = collapsed

	// auto margins do not contribute to the natural width
	natural := lc.layoutBlockContents(box) - (box.MarginLeft - marginLeft)
	if box.Style.AvoidPageBreakInside() {
		lc.breakPage(box)
	}
	f.advance(box, natural+marginRight)
	relativePositioning(box, cbWidth, definiteHeight(parent))
}

// layoutFloat places a floated box in the current row of floats,
// starting a new row when it does not fit.
func (lc *layoutContext) layoutFloat(f *blockFlow, box *bo.Box) {
	defer lc.recoverBox(box, KindLayout)

	parent := f.parent
	cbWidth := parent.Size.Width
	resolveSides(box, cbWidth)
	box.Size.Width = lc.blockWidth(box, cbWidth)
	width := box.MarginWidth()

	if !f.inFloatRow || (f.floatLeft+width > f.floatRight && f.floatRowWidth > 0) {
		top := f.staticTop()
		if f.inFloatRow {
			top = f.floatBottom
		}
		f.inFloatRow = true
		f.floatLeft, f.floatRight = parent.ClientLeft(), parent.ClientRight()
		f.floatTop, f.floatBottom = top, top
		f.floatRowWidth = 0
	}

	x := f.floatLeft
	if box.Style.Float() == "right" {
		x = f.floatRight - width
		f.floatRight -= width
	} else {
		f.floatLeft += width
	}
	f.floatRowWidth += width
	box.Location = bo.Point{X: x + box.MarginLeft, Y: f.floatTop + box.MarginTop}
	box.CollapsedMarginTop = box.MarginTop

	lc.layoutBlockContents(box)
	if box.Style.AvoidPageBreakInside() {
		lc.breakPage(box)
	}
	f.floatBottom = pr.Max(f.floatBottom, box.ActualBottom.V()+box.MarginBottom)
	f.natural = pr.Max(f.natural, parent.ClientLeft()+f.floatRowWidth)
	relativePositioning(box, cbWidth, definiteHeight(parent))
}

// Translate the “box“ if it is relatively positioned.
func relativePositioning(box *bo.Box, cbWidth pr.Float, cbHeight pr.MaybeFloat) {
	if box.Style.Position() != "relative" {
		return
	}
	left, top, right, bottom := resolvePosition(box, cbWidth, cbHeight)
	var translateX, translateY pr.Float
	if !pr.IsAuto(left) && !pr.IsAuto(right) {
		if box.Style.Direction() == "rtl" {
			translateX = -right.V()
		} else {
			translateX = left.V()
		}
	} else if !pr.IsAuto(left) {
		translateX = left.V()
	} else if !pr.IsAuto(right) {
		translateX = -right.V()
	}

	if !pr.IsAuto(top) {
		translateY = top.V()
	} else if !pr.IsAuto(bottom) {
		translateY = -bottom.V()
	}
	box.Translate(translateX, translateY)
}
