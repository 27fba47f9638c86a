package layout

import (
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
)

// ---------------------- Absolutely positioned boxes management. ----------------

// absolutePlaceholder is left where an absolutely-positioned box was taken out of the flow.
// It stores the position the box would have had as a static box.
type absolutePlaceholder struct {
	box              *bo.Box
	staticX, staticY pr.Float
}

// absoluteContainingBlock returns the padding box of the containing
// block of [box]. [owner] is the block which has just been laid out
// and whose height is known.
func (lc *layoutContext) absoluteContainingBlock(owner, box *bo.Box, fixed bool) (left, top, width pr.Float, height pr.MaybeFloat) {
	if fixed {
		// the viewport
		width, height = lc.root.MarginWidth(), pr.AutoF
		if lc.opts.PageWidth > 0 {
			width = lc.opts.PageWidth - lc.opts.MarginLeft - lc.opts.MarginRight
		}
		if lc.opts.PageHeight > 0 {
			height = lc.pageContentHeight()
		}
		return lc.opts.ScrollX, lc.opts.ScrollY, width, height
	}
	cb := box.PositionedAncestor()
	height = definiteHeight(cb)
	if cb == owner {
		height = cb.Size.Height
	}
	if !pr.IsAuto(height) {
		height = height.V() + cb.PaddingTop + cb.PaddingBottom
	}
	return cb.Location.X + cb.BorderLeftWidth, cb.Location.Y + cb.BorderTopWidth, cb.PaddingWidth(), height
}

// layoutAbsolute lays out an absolute or fixed box. Absolute boxes are offset from
// the padding box of their positioned ancestor, fixed boxes from the viewport.
// Auto offsets keep the static position.
func (lc *layoutContext) layoutAbsolute(owner *bo.Box, p absolutePlaceholder) {
	box := p.box
	defer lc.recoverBox(box, KindLayout)

	fixed := box.Style.Position() == "fixed"
	if fixed {
		// fixed boxes do not take part in the pages
		lc.suspended++
		defer func() { lc.suspended-- }()
	}

	cbLeft, cbTop, cbWidth, cbHeight := lc.absoluteContainingBlock(owner, box, fixed)
	resolveSides(box, cbWidth)
	left, top, right, bottom := resolvePosition(box, cbWidth, cbHeight)

	box.Size.Width = lc.blockWidth(box, cbWidth)
	if pr.IsAuto(specifiedWidth(box, cbWidth)) && !pr.IsAuto(left) && !pr.IsAuto(right) && !box.IsTable() {
		// stretched between both offsets
		spacing := box.MarginWidth() - box.Size.Width
		box.Size.Width = clampWidth(box, pr.Max(0, cbWidth-left.V()-right.V()-spacing), cbWidth)
	}

	x := p.staticX + box.MarginLeft
	if !pr.IsAuto(left) {
		x = cbLeft + left.V() + box.MarginLeft
	} else if !pr.IsAuto(right) {
		x = cbLeft + cbWidth - right.V() - box.MarginWidth() + box.MarginLeft
	}
	y := p.staticY + box.MarginTop
	if !pr.IsAuto(top) {
		y = cbTop + top.V() + box.MarginTop
	}
	box.Location = bo.Point{X: x, Y: y}
	box.CollapsedMarginTop = box.MarginTop

	lc.layoutBlockContents(box)

	if pr.IsAuto(top) && !pr.IsAuto(bottom) && !pr.IsAuto(cbHeight) {
		box.Translate(0, cbTop+cbHeight.V()-bottom.V()-box.MarginBottom-box.ActualBottom.V())
	}

	naturalRight := box.ActualRight.V() + box.MarginRight
	if pr.IsAuto(left) && !pr.IsAuto(right) {
		// anchored to the right: the content needs its width plus the offset
		naturalRight = cbLeft + right.V() + box.MarginWidth()
	}
	lc.extend(naturalRight, box.ActualBottom.V()+box.MarginBottom)
}
