package layout

import (
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/text"
)

// Line breaking and layout for inline-level boxes.
//
// Words are first placed horizontally, opening a new line box when a word
// does not fit. Each line is then aligned, its right-to-left runs are
// reversed, and it is placed vertically. Finally the rectangles of the
// inline boxes are computed from their words.

// tolerance on the right limit of the lines
const lineEpsilon = 0.01

// lineCursor is the placement state of an inline formatting context,
// threaded through the inline boxes in document order.
type lineCursor struct {
	block       *bo.Box
	left, right pr.Float // horizontal limits of the lines

	x    pr.Float
	line *bo.LineBox // nil until the first word of the line is placed
	// spaceAfter is set when the last placed word ends with a space
	spaceAfter bool
	// pending is the left spacing of the inline boxes opened since
	// the last placed word, carried over to the next line on wrap
	pending pr.Float

	// ends stores the right edge of the content of each line
	ends map[*bo.LineBox]pr.Float
	// forced is set for the lines ended by a forced break
	forced map[*bo.LineBox]bool
	// natural is the right edge of the widest line, before alignment
	natural pr.Float

	atomics   []*bo.Word
	absolutes []inlineAbsolute
}

// inlineAbsolute is an absolute box found in inline content, whose static
// position is the top of the line with index [line].
type inlineAbsolute struct {
	placeholder absolutePlaceholder
	line        int
}

func (c *lineCursor) lineEmpty() bool { return c.line == nil }

func (c *lineCursor) newLine() {
	c.line = nil
	c.x = c.left + c.pending
	c.spaceAfter = false
}

// endLine closes the current line after a forced break.
func (c *lineCursor) endLine() {
	if c.line != nil {
		c.forced[c.line] = true
	}
	c.newLine()
}

func (c *lineCursor) add(w *bo.Word) {
	if c.line == nil {
		c.line = bo.NewLineBox(c.block)
	}
	w.Left = c.x
	c.line.AddWord(w)
	c.x += w.FullWidth()
	c.spaceAfter = w.HasSpaceAfter || w.IsSpaces
	c.pending = 0
	c.setEnd(w.Right())
}

func (c *lineCursor) setEnd(end pr.Float) {
	if c.line == nil {
		return
	}
	c.ends[c.line] = pr.Max(c.ends[c.line], end)
	c.natural = pr.Max(c.natural, end)
}

// layoutInlineContent creates the line boxes of [block] and returns the bottom
// of the last line and the natural right edge of the content.
func (lc *layoutContext) layoutInlineContent(block *bo.Box) (bottom, natural pr.Float, absolutes []absolutePlaceholder) {
	block.LineBoxes = nil
	c := &lineCursor{
		block: block,
		left:  block.ClientLeft(), right: block.ClientRight(),
		ends:   make(map[*bo.LineBox]pr.Float),
		forced: make(map[*bo.LineBox]bool),
	}
	c.natural = c.left
	c.x = c.left + pr.Or(resolveOne(block, pr.PTextIndent, block.Size.Width), 0)

	lc.placeWords(c, block)
	for _, child := range block.Children {
		lc.flowInline(c, child)
	}

	tops := make([]pr.Float, len(block.LineBoxes))
	bottom = block.ClientTop()
	align := block.Style.TextAlign()
	for i, line := range block.LineBoxes {
		last := i == len(block.LineBoxes)-1 || c.forced[line]
		alignLine(line, c.left, c.right, c.ends[line], align, last)
		reverseRTL(block, line)
		tops[i], bottom = lc.placeLine(line, bottom)
	}

	for _, w := range c.atomics {
		box := w.Atomic
		box.Translate(w.Left+box.MarginLeft-box.Location.X, w.Top+box.MarginTop-box.Location.Y)
	}
	bubbleRectangles(block)
	assignRectangles(block)

	for _, abs := range c.absolutes {
		p := abs.placeholder
		p.staticY = bottom
		if abs.line < len(tops) {
			p.staticY = tops[abs.line]
		}
		absolutes = append(absolutes, p)
	}
	return bottom, c.natural, absolutes
}

// flowInline places the content of an inline-level box.
func (lc *layoutContext) flowInline(c *lineCursor, box *bo.Box) {
	switch {
	case box.Display() == "none":
		return
	case box.IsOutOfFlow():
		line := len(c.block.LineBoxes)
		if c.line != nil {
			line--
		}
		c.absolutes = append(c.absolutes, inlineAbsolute{
			placeholder: absolutePlaceholder{box: box, staticX: c.x},
			line:        line,
		})
		return
	case isAtomic(box):
		lc.placeAtomic(c, box)
		return
	}

	box.Rectangles = nil
	resolveSides(box, c.block.Size.Width)
	start, startLine := c.x, c.line
	c.x += box.SpacingLeft()
	c.pending += box.SpacingLeft()

	lc.placeWords(c, box)
	for _, child := range box.Children {
		lc.flowInline(c, child)
	}

	c.x += box.SpacingRight()
	c.setEnd(c.x - trailingSpace(c))

	// an explicit width advances the cursor
	if w := specifiedWidth(box, c.block.Size.Width); !pr.IsAuto(w) && c.line != nil && c.line == startLine {
		if end := start + box.SpacingLeft() + w.V() + box.SpacingRight(); end > c.x {
			c.x = end
			c.setEnd(end)
		}
	}
}

// trailingSpace returns the advance of the space after the last word.
func trailingSpace(c *lineCursor) pr.Float {
	if c.line == nil || len(c.line.Words) == 0 {
		return 0
	}
	last := c.line.Words[len(c.line.Words)-1]
	if last.HasSpaceAfter {
		return last.SpaceWidth
	}
	return 0
}

// runWidth returns the width of the words up to the next forced break.
func runWidth(words []*bo.Word) pr.Float {
	var out pr.Float
	for i, w := range words {
		if w.IsLineBreak {
			break
		}
		if i == len(words)-1 || words[i+1].IsLineBreak {
			out += w.Width
		} else {
			out += w.FullWidth()
		}
	}
	return out
}

// placeWords places the words of [box], opening new lines as needed.
func (lc *layoutContext) placeWords(c *lineCursor, box *bo.Box) {
	if len(box.Words) == 0 {
		return
	}
	if box.Kind == bo.KindImage || box.Kind == bo.KindFrame {
		sizeReplaced(box, c.block.Size.Width)
	}
	ws := text.NewWhiteSpace(box.Style.WhiteSpace())
	wrap := ws.CanWrap()
	for i, w := range box.Words {
		if w.IsLineBreak {
			c.add(w)
			c.endLine()
			continue
		}
		if w.IsSpaces && w.Text == "" && (c.lineEmpty() || c.spaceAfter) {
			// collapsed away
			continue
		}
		if !wrap && (i == 0 || box.Words[i-1].IsLineBreak) {
			// the run wraps as a whole
			if !c.lineEmpty() && c.x+runWidth(box.Words[i:]) > c.right+lineEpsilon {
				c.newLine()
			}
		}
		var space pr.Float
		if w.HasSpaceBefore && !c.spaceAfter && !c.lineEmpty() {
			space = w.SpaceWidth
		}
		canBreak := wrap && !(ws == text.WPreWrap && w.IsSpaces)
		if canBreak && !c.lineEmpty() && c.x+space+w.Width > c.right+lineEpsilon {
			c.newLine()
			space = 0
		}
		c.x += space
		c.add(w)
	}
}

// placeAtomic lays out an inline-block (or a block inside inline content)
// and places it as a single word.
func (lc *layoutContext) placeAtomic(c *lineCursor, box *bo.Box) {
	w := lc.layoutAtomic(c.block, box)
	if w == nil {
		return
	}
	// block-level boxes stand on their own line
	blockLevel := box.IsBlockLevel() && !box.IsFloated()
	if !c.lineEmpty() && (blockLevel || c.x+w.Width > c.right+lineEpsilon) {
		c.newLine()
	}
	c.add(w)
	c.atomics = append(c.atomics, w)
	if blockLevel {
		c.endLine()
	}
}

// layoutAtomic lays out [box] away from its final position, which is only
// known once its line is placed. It returns nil on failure.
func (lc *layoutContext) layoutAtomic(block, box *bo.Box) (w *bo.Word) {
	defer lc.recoverBox(box, KindLayout)
	lc.suspended++
	defer func() { lc.suspended-- }()

	cbWidth := block.Size.Width
	resolveSides(box, cbWidth)
	box.Size.Width = lc.blockWidth(box, cbWidth)
	box.Location = bo.Point{X: box.MarginLeft, Y: box.MarginTop}
	box.CollapsedMarginTop = box.MarginTop
	lc.layoutBlockContents(box)
	return &bo.Word{
		Owner:  box,
		Atomic: box,
		Width:  box.MarginWidth(),
		Height: box.BorderHeight() + box.MarginTop + box.MarginBottom,
	}
}

// alignLine applies text-align to the words of [line], whose content ends at [end].
// Justification is not applied to the last line of a paragraph.
func alignLine(line *bo.LineBox, left, right, end pr.Float, align string, last bool) {
	gap := right - end
	if gap <= 0 || len(line.Words) == 0 {
		return
	}
	var dx pr.Float
	switch align {
	case "right":
		dx = gap
	case "center":
		dx = gap / 2
	case "justify":
		if last {
			return
		}
		var words []*bo.Word
		for _, w := range line.Words {
			if !w.IsLineBreak {
				words = append(words, w)
			}
		}
		if len(words) < 2 {
			return
		}
		step := gap / pr.Float(len(words)-1)
		for i, w := range words {
			w.Left += pr.Float(i) * step
		}
		return
	default:
		return
	}
	for _, w := range line.Words {
		w.Left += dx
	}
}

func isRTLWord(w *bo.Word) bool {
	return w.RTL || (w.Owner != nil && w.Owner.Style.Direction() == "rtl")
}

// mirror reverses the visual order of [words], inside the span they occupy.
func mirror(words []*bo.Word) {
	if len(words) < 2 {
		return
	}
	lo, hi := words[0].Left, words[0].Right()
	for _, w := range words[1:] {
		lo, hi = pr.Min(lo, w.Left), pr.Max(hi, w.Right())
	}
	for _, w := range words {
		w.Left = lo + hi - w.Right()
	}
}

// reverseRTL mirrors the whole line for right-to-left blocks, or
// only the runs of right-to-left words otherwise.
func reverseRTL(block *bo.Box, line *bo.LineBox) {
	words := line.Words
	if block.Style.Direction() == "rtl" {
		mirror(words)
		return
	}
	for i := 0; i < len(words); {
		if !isRTLWord(words[i]) {
			i++
			continue
		}
		j := i
		for j < len(words) && isRTLWord(words[j]) {
			j++
		}
		mirror(words[i:j])
		i = j
	}
}

// lineSlotHeight returns the height used by [w] in its line: the line-height
// of text words, the margin height of atomic boxes.
func lineSlotHeight(w *bo.Word) pr.Float {
	if w.Atomic != nil || w.IsImage || w.Owner == nil {
		return w.Height
	}
	if lh := w.Owner.Style.LineHeight(); !pr.IsAuto(lh) {
		return lh.V()
	}
	return w.Height
}

// verticalAlign returns the first vertical alignment set on the inline
// boxes between [w] and the line owner.
func verticalAlign(w *bo.Word, block *bo.Box) string {
	for b := w.Owner; b != nil && b != block; b = b.Parent {
		if va := b.Style.VerticalAlign(); va != "" && va != "baseline" {
			return va
		}
	}
	return "baseline"
}

// placeLine sets the vertical position of the words of [line], starting at [y],
// moving the line to the next page if it would be cut.
// It returns the top and the bottom of the line.
func (lc *layoutContext) placeLine(line *bo.LineBox, y pr.Float) (top, bottom pr.Float) {
	var h0 pr.Float
	for _, w := range line.Words {
		h0 = pr.Max(h0, lineSlotHeight(w))
	}
	// top of the slot of each word, relative to the line
	slots := make([]pr.Float, len(line.Words))
	var minSlot pr.Float
	for i, w := range line.Words {
		sh := lineSlotHeight(w)
		s := h0 - sh // bottom aligned, which approximates the baseline
		switch verticalAlign(w, line.Owner) {
		case "top", "text-top":
			s = 0
		case "middle":
			s = (h0 - sh) / 2
		case "sub":
			s += 0.5 * w.Height
		case "super":
			s -= 0.2 * w.Height
		}
		slots[i] = s
		minSlot = pr.Min(minSlot, s)
	}
	height := h0
	for i, w := range line.Words {
		height = pr.Max(height, slots[i]+lineSlotHeight(w))
	}
	height -= minSlot

	if lc.paginated() {
		y += lc.pageBreakShift(y, y+height)
	}
	for i, w := range line.Words {
		w.Top = y + slots[i] - minSlot + (lineSlotHeight(w)-w.Height)/2
	}
	return y, y + height
}

// bubbleRectangles computes, for each line, the rectangle of every inline
// box contributing to it: the union of its words and of its children
// rectangles, expanded by its vertical padding and border, and by its
// horizontal ones on the first and last lines it appears in.
func bubbleRectangles(block *bo.Box) {
	first, last := map[*bo.Box]int{}, map[*bo.Box]int{}
	for i, line := range block.LineBoxes {
		for _, b := range line.RelatedBoxes {
			if _, ok := first[b]; !ok {
				first[b] = i
			}
			last[b] = i
		}
	}
	for i, line := range block.LineBoxes {
		rects := line.Rectangles
		for _, w := range line.Words {
			if w.Owner == block {
				continue
			}
			rects[w.Owner] = rects[w.Owner].Union(w.Rect())
		}
		// ancestors come before their descendants
		for j := len(line.RelatedBoxes) - 1; j >= 0; j-- {
			b := line.RelatedBoxes[j]
			r, ok := rects[b]
			if !ok {
				continue
			}
			if !isAtomic(b) {
				r.Y -= b.PaddingTop + b.BorderTopWidth
				r.Height += b.PaddingTop + b.BorderTopWidth + b.PaddingBottom + b.BorderBottomWidth
				if first[b] == i {
					r.X -= b.PaddingLeft + b.BorderLeftWidth
					r.Width += b.PaddingLeft + b.BorderLeftWidth
				}
				if last[b] == i {
					r.Width += b.PaddingRight + b.BorderRightWidth
				}
			}
			rects[b] = r
			if p := b.Parent; p != nil && p != block {
				rects[p] = rects[p].Union(r)
			}
		}
	}
}

// assignRectangles stores the line rectangles in the inline boxes and sets
// their geometry from the union of their rectangles.
func assignRectangles(block *bo.Box) {
	var order []*bo.Box
	for _, line := range block.LineBoxes {
		for _, b := range line.RelatedBoxes {
			r, ok := line.Rectangles[b]
			if !ok || isAtomic(b) {
				continue
			}
			if b.Rectangles == nil {
				b.Rectangles = make(map[*bo.LineBox]bo.Rect)
				order = append(order, b)
			}
			b.Rectangles[line] = r
		}
	}
	for _, b := range order {
		var u bo.Rect
		for _, r := range b.Rectangles {
			u = u.Union(r)
		}
		b.Location = bo.Point{X: u.X, Y: u.Y}
		b.Size = bo.Size{
			Width:  pr.Max(0, u.Width-b.PaddingLeft-b.PaddingRight-b.BorderLeftWidth-b.BorderRightWidth),
			Height: pr.Max(0, u.Height-b.PaddingTop-b.PaddingBottom-b.BorderTopWidth-b.BorderBottomWidth),
		}
		b.ActualRight, b.ActualBottom = u.Right(), u.Bottom()
	}
	for _, b := range order {
		relativePositioning(b, block.Size.Width, pr.AutoF)
	}
}

// firstLine returns the first line box of [box] or of its first in-flow descendant.
func firstLine(box *bo.Box) *bo.LineBox {
	if len(box.LineBoxes) != 0 {
		return box.LineBoxes[0]
	}
	for _, c := range box.Children {
		if c.IsOutOfFlow() || c.IsFloated() || !c.IsBlockLevel() {
			continue
		}
		if l := firstLine(c); l != nil {
			return l
		}
	}
	return nil
}

// placeMarker puts the outside marker of a list item
// on the left of its first line.
func (lc *layoutContext) placeMarker(item *bo.Box) {
	marker := item.Marker
	if len(marker.Words) == 0 {
		return
	}
	top := item.ClientTop()
	if line := firstLine(item); line != nil && len(line.Words) != 0 {
		top = line.Words[0].Top
		for _, w := range line.Words[1:] {
			top = pr.Min(top, w.Top)
		}
	}
	var width, height pr.Float
	for i, w := range marker.Words {
		if i == len(marker.Words)-1 {
			width += w.Width
		} else {
			width += w.FullWidth()
		}
		height = pr.Max(height, w.Height)
	}
	x := item.ClientLeft() - marker.Words[0].SpaceWidth - width
	marker.Location = bo.Point{X: x, Y: top}
	marker.Size = bo.Size{Width: width, Height: height}
	marker.ActualRight, marker.ActualBottom = x+width, top+height
	for _, w := range marker.Words {
		w.Left, w.Top = x, top
		x += w.FullWidth()
	}
}
