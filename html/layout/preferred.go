package layout

import (
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/text"
)

// Preferred widths only read the style and the measured words:
// they never modify the geometry of the tree.

// GetMinimumWidth returns the minimum width of the margin box of [box]:
// the width of its widest unbreakable content, plus its horizontal spacing.
func GetMinimumWidth(box *bo.Box) pr.Float {
	min, _ := GetMinMaxWidth(box)
	return min
}

// GetMinMaxWidth returns the minimum and maximum widths of the margin
// box of [box]. The maximum width is the width of its content laid out
// without any line break except the forced ones.
func GetMinMaxWidth(box *bo.Box) (min, max pr.Float) {
	if box.Display() == "none" {
		return 0, 0
	}
	spacing := preferredSpacing(box)
	if w := specifiedWidth(box, pr.AutoF); !pr.IsAuto(w) && !box.IsTable() && len(box.Words) == 0 {
		v := w.V()
		if box.Display() == "table-cell" {
			// cells grow to fit their content
			cmin, _ := contentMinMax(box)
			v = pr.Max(v, cmin)
		}
		return v + spacing, v + spacing
	}
	min, max = contentMinMax(box)
	return min + spacing, max + spacing
}

// contentMinMax returns the preferred widths of the content box.
func contentMinMax(box *bo.Box) (min, max pr.Float) {
	switch {
	case box.IsTable():
		return tableMinMax(box)
	case len(box.Words) != 0 || box.ContainsInlinesOnly():
		return inlineMinMax(box)
	default:
		for _, child := range box.Children {
			if child.IsOutOfFlow() || child.Display() == "none" {
				continue
			}
			cmin, cmax := GetMinMaxWidth(child)
			min, max = pr.Max(min, cmin), pr.Max(max, cmax)
		}
		return min, max
	}
}

// preferredSpacing returns the sum of the horizontal margins, borders and
// paddings. Percentages and auto values count as 0.
func preferredSpacing(box *bo.Box) pr.Float {
	var out pr.Float
	for _, side := range [2]pr.Side{pr.Left, pr.Right} {
		out += pr.Or(resolveOne(box, side.Margin(), pr.Float(0)), 0)
		out += pr.Max(0, pr.Or(resolveOne(box, side.Padding(), pr.Float(0)), 0))
		out += box.Style.BorderWidth(side)
	}
	return out
}

// inlineSpacing returns the left and right spacing of an inline box.
func inlineSpacing(box *bo.Box) (left, right pr.Float) {
	left = pr.Or(resolveOne(box, pr.PMarginLeft, pr.Float(0)), 0) + box.Style.BorderWidth(pr.Left) +
		pr.Max(0, pr.Or(resolveOne(box, pr.PPaddingLeft, pr.Float(0)), 0))
	right = pr.Or(resolveOne(box, pr.PMarginRight, pr.Float(0)), 0) + box.Style.BorderWidth(pr.Right) +
		pr.Max(0, pr.Or(resolveOne(box, pr.PPaddingRight, pr.Float(0)), 0))
	return left, right
}

// isAtomic returns true for the boxes laid out as a single word
// in an inline formatting context.
func isAtomic(box *bo.Box) bool {
	return box.IsAtomicInline() || (box.IsBlockLevel() && !box.IsOutOfFlow())
}

// inlineState accumulates preferred widths over an inline formatting context.
type inlineState struct {
	min, max pr.Float
	line     pr.Float // width of the current line
	// set when the last content ends with a space
	spaceAfter bool
	// advance of the space ending the line, not counted at a break
	trailing pr.Float
}

func (st *inlineState) breakLine() {
	st.max = pr.Max(st.max, st.line-st.trailing)
	st.trailing = 0
	st.line = 0
	st.spaceAfter = false
}

func inlineMinMax(block *bo.Box) (min, max pr.Float) {
	var st inlineState
	st.line = pr.Max(0, pr.Or(resolveOne(block, pr.PTextIndent, pr.Float(0)), 0))
	st.addWords(block)
	for _, child := range block.Children {
		st.addInline(child)
	}
	st.breakLine()
	return st.min, st.max
}

func (st *inlineState) addWords(box *bo.Box) {
	nowrap := !text.NewWhiteSpace(box.Style.WhiteSpace()).CanWrap()
	var run pr.Float
	for _, w := range box.Words {
		if w.IsLineBreak {
			st.breakLine()
			run = 0
			continue
		}
		if w.HasSpaceBefore && !st.spaceAfter && st.line > 0 {
			st.line += w.SpaceWidth
			run += w.SpaceWidth
		}
		st.min = pr.Max(st.min, w.Width)
		st.line += w.FullWidth()
		run += w.FullWidth()
		st.spaceAfter = w.HasSpaceAfter || w.IsSpaces
		st.trailing = 0
		if w.HasSpaceAfter {
			st.trailing = w.SpaceWidth
		}
	}
	if nowrap {
		st.min = pr.Max(st.min, run)
	}
}

func (st *inlineState) addInline(box *bo.Box) {
	if box.Display() == "none" || box.IsOutOfFlow() {
		return
	}
	if isAtomic(box) {
		cmin, cmax := GetMinMaxWidth(box)
		st.min = pr.Max(st.min, cmin)
		st.line += cmax
		st.spaceAfter = false
		st.trailing = 0
		return
	}
	left, right := inlineSpacing(box)
	st.line += left
	st.addWords(box)
	for _, child := range box.Children {
		st.addInline(child)
	}
	st.line += right
	if right != 0 {
		st.trailing = 0
	}
}
