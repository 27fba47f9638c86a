package layout

import (
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
)

// Resolve percentages into fixed values.

// resolveOne returns the used value of the length property [p],
// with percentages resolved against [referTo]. Auto values are returned as [pr.AutoF].
func resolveOne(box *bo.Box, p pr.KnownProp, referTo pr.MaybeFloat) pr.MaybeFloat {
	return box.Style.Resolve(p, referTo)
}

// isAutoMargin returns true if the margin of [side] is "auto".
func isAutoMargin(box *bo.Box, side pr.Side) bool {
	return box.Style.Length(side.Margin()).Keyword == "auto"
}

// resolveSides sets the used margins, paddings and borders of the box.
// Percentages refer to the width of the containing block, even for
// vertical sides. Auto margins are set to 0.
func resolveSides(box *bo.Box, cbWidth pr.Float) {
	margin := func(side pr.Side) pr.Float {
		return pr.Or(resolveOne(box, side.Margin(), cbWidth), 0)
	}
	padding := func(side pr.Side) pr.Float {
		return pr.Max(0, pr.Or(resolveOne(box, side.Padding(), cbWidth), 0))
	}
	box.MarginTop, box.MarginRight = margin(pr.Top), margin(pr.Right)
	box.MarginBottom, box.MarginLeft = margin(pr.Bottom), margin(pr.Left)
	box.PaddingTop, box.PaddingRight = padding(pr.Top), padding(pr.Right)
	box.PaddingBottom, box.PaddingLeft = padding(pr.Bottom), padding(pr.Left)

	// Used value == computed value
	box.BorderTopWidth = box.Style.BorderWidth(pr.Top)
	box.BorderRightWidth = box.Style.BorderWidth(pr.Right)
	box.BorderBottomWidth = box.Style.BorderWidth(pr.Bottom)
	box.BorderLeftWidth = box.Style.BorderWidth(pr.Left)
}

// horizontalDelta returns the part of the specified width which is not
// content, according to box-sizing.
func horizontalDelta(box *bo.Box) pr.Float {
	switch box.Style.BoxSizing() {
	case "border-box":
		return box.PaddingLeft + box.PaddingRight + box.BorderLeftWidth + box.BorderRightWidth
	case "padding-box":
		return box.PaddingLeft + box.PaddingRight
	default:
		return 0
	}
}

func verticalDelta(box *bo.Box) pr.Float {
	switch box.Style.BoxSizing() {
	case "border-box":
		return box.PaddingTop + box.PaddingBottom + box.BorderTopWidth + box.BorderBottomWidth
	case "padding-box":
		return box.PaddingTop + box.PaddingBottom
	default:
		return 0
	}
}

// specifiedWidth returns the content width set by the width property,
// or [pr.AutoF].
func specifiedWidth(box *bo.Box, cbWidth pr.MaybeFloat) pr.MaybeFloat {
	w := resolveOne(box, pr.PWidth, cbWidth)
	if pr.IsAuto(w) {
		return w
	}
	// Keep at least 0 to prevent funny output with large paddings.
	return pr.Max(0, w.V()-horizontalDelta(box))
}

// specifiedHeight returns the content height set by the height property,
// or [pr.AutoF]. Percentages need a definite containing block height.
func specifiedHeight(box *bo.Box, cbHeight pr.MaybeFloat) pr.MaybeFloat {
	h := resolveOne(box, pr.PHeight, cbHeight)
	if pr.IsAuto(h) {
		return h
	}
	return pr.Max(0, h.V()-verticalDelta(box))
}

// clampWidth applies min-width and max-width to a content width.
func clampWidth(box *bo.Box, width, cbWidth pr.Float) pr.Float {
	if maxW := resolveOne(box, pr.PMaxWidth, cbWidth); !pr.IsAuto(maxW) {
		width = pr.Min(width, pr.Max(0, maxW.V()-horizontalDelta(box)))
	}
	if minW := resolveOne(box, pr.PMinWidth, cbWidth); !pr.IsAuto(minW) {
		width = pr.Max(width, minW.V()-horizontalDelta(box))
	}
	return pr.Max(0, width)
}

// clampHeight applies min-height and max-height to a content height.
func clampHeight(box *bo.Box, height pr.Float, cbHeight pr.MaybeFloat) pr.Float {
	if maxH := resolveOne(box, pr.PMaxHeight, cbHeight); !pr.IsAuto(maxH) {
		height = pr.Min(height, pr.Max(0, maxH.V()-verticalDelta(box)))
	}
	if minH := resolveOne(box, pr.PMinHeight, cbHeight); !pr.IsAuto(minH) {
		height = pr.Max(height, minH.V()-verticalDelta(box))
	}
	return pr.Max(0, height)
}

// definiteHeight returns the content height of [box] if it does not depend
// on its content, or [pr.AutoF].
func definiteHeight(box *bo.Box) pr.MaybeFloat {
	if box.IsRoot() {
		return pr.AutoF
	}
	var cbHeight pr.MaybeFloat = pr.AutoF
	if box.Parent != nil {
		cbHeight = definiteHeight(box.Parent)
	}
	return specifiedHeight(box, cbHeight)
}

// resolvePosition returns the used left, top, right and bottom offsets.
func resolvePosition(box *bo.Box, cbWidth pr.Float, cbHeight pr.MaybeFloat) (left, top, right, bottom pr.MaybeFloat) {
	left = resolveOne(box, pr.PLeft, cbWidth)
	right = resolveOne(box, pr.PRight, cbWidth)
	top = resolveOne(box, pr.PTop, cbHeight)
	bottom = resolveOne(box, pr.PBottom, cbHeight)
	return
}
