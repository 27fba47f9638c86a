package layout

import (
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/utils"
)

// Page breaks are decided during the flow layout: pages are consecutive
// bands of PageHeight pixels, whose content starts MarginTop
// pixels below the page boundary.

// nextPageTop returns the position where the content of the page following
// the one containing [y] starts. A position on a page boundary starts
// its page.
func (lc *layoutContext) nextPageTop(y pr.Float) pr.Float {
	ph := lc.opts.PageHeight
	boundary := y
	if mod := pr.Float(utils.FloatModulo(utils.Fl(y), utils.Fl(ph))); mod != 0 {
		boundary = y - mod + ph
	}
	return boundary + lc.opts.MarginTop
}

// pageContentHeight returns the height available on one page.
func (lc *layoutContext) pageContentHeight() pr.Float {
	return lc.opts.PageHeight - lc.opts.MarginTop - lc.opts.MarginBottom
}

// crossesPage returns true if the band [top, bottom] (plus the bottom
// page margin) spans a page boundary: the position modulo the page
// height decreases.
func (lc *layoutContext) crossesPage(top, bottom pr.Float) bool {
	if !lc.paginated() {
		return false
	}
	ph := utils.Fl(lc.opts.PageHeight)
	return utils.FloatModulo(utils.Fl(top), ph) > utils.FloatModulo(utils.Fl(bottom+lc.opts.MarginBottom), ph)
}

// pageBreakShift returns the vertical offset to apply to the band
// [top, bottom] so that it does not cross a page boundary, or 0 if it
// already fits or can't fit on one page anyway.
func (lc *layoutContext) pageBreakShift(top, bottom pr.Float) pr.Float {
	if !lc.crossesPage(top, bottom) || bottom-top > lc.pageContentHeight() {
		return 0
	}
	return lc.nextPageTop(top) - top
}

// breakPage moves [box] to the next page if it would be cut by a page
// boundary and fits on one page. It returns the applied offset.
func (lc *layoutContext) breakPage(box *bo.Box) pr.Float {
	if pr.IsAuto(box.ActualBottom) {
		return 0
	}
	dy := lc.pageBreakShift(box.Location.Y, box.ActualBottom.V())
	box.Translate(0, dy)
	return dy
}

// forcedBreakTop returns the position of a box starting a new page,
// placed after content ending at [prevBottom]. Margins are truncated at
// forced breaks.
func (lc *layoutContext) forcedBreakTop(prevBottom pr.Float) pr.Float {
	return lc.nextPageTop(prevBottom)
}
