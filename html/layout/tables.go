package layout

import (
	"math"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/utils"
)

// Layout for tables: spanning cells, column widths negotiation, rows
// and page breaks between rows.

// maxIterations bounds the width negotiation loops.
const maxIterations = 15

// the explicit widths of cells are only looked for in the first columns
const maxScannedColumns = 20

// cellPosition locates a (non spacer) cell in the grid.
type cellPosition struct {
	cell     *bo.Box
	row, col int
	rowspan  int // resolved: at least 1, clipped to the table
}

func (p cellPosition) lastRow() int { return p.row + p.rowspan - 1 }

// tableParts is the classification of the children of a table.
type tableParts struct {
	captions []*bo.Box
	groups   []*bo.Box // row groups, in document order
	rows     []*bo.Box // header rows, then body rows, then footer rows
	columns  []*bo.Box
}

func classifyTable(table *bo.Box) tableParts {
	var (
		out                  tableParts
		header, body, footer []*bo.Box
	)
	for _, child := range table.Children {
		switch child.Display() {
		case "table-caption":
			out.captions = append(out.captions, child)
		case "table-header-group":
			out.groups = append(out.groups, child)
			header = append(header, rowsOf(child)...)
		case "table-footer-group":
			out.groups = append(out.groups, child)
			footer = append(footer, rowsOf(child)...)
		case "table-row-group":
			out.groups = append(out.groups, child)
			body = append(body, rowsOf(child)...)
		case "table-row":
			body = append(body, child)
		}
	}
	out.rows = append(append(header, body...), footer...)
	out.columns = bo.Columns(table)
	return out
}

func rowsOf(group *bo.Box) []*bo.Box {
	var out []*bo.Box
	for _, c := range group.Children {
		if c.Display() == "table-row" {
			out = append(out, c)
		}
	}
	return out
}

// cellPositions places the cells of [rows] in the grid: a cell takes the
// first column not occupied by a cell spanning from a previous row.
// Spacers are ignored, so that the result does not depend on their insertion.
// It also returns the number of columns.
func cellPositions(rows []*bo.Box) ([][]cellPosition, int) {
	out := make([][]cellPosition, len(rows))
	occupied := make([]map[int]bool, len(rows))
	for i := range occupied {
		occupied[i] = make(map[int]bool)
	}
	ncols := 0
	for ri, row := range rows {
		col := 0
		for _, cell := range row.Children {
			if cell.Kind == bo.KindSpacer || cell.Display() != "table-cell" {
				continue
			}
			for occupied[ri][col] {
				col++
			}
			rowspan := cell.Rowspan
			if rowspan <= 0 || ri+rowspan > len(rows) {
				// 0 spans to the end of the table
				rowspan = len(rows) - ri
			}
			colspan := cell.Colspan
			if colspan < 1 {
				colspan = 1
			}
			for r := ri; r < ri+rowspan; r++ {
				for c := col; c < col+colspan; c++ {
					occupied[r][c] = true
				}
			}
			out[ri] = append(out[ri], cellPosition{cell: cell, row: ri, col: col, rowspan: rowspan})
			col += colspan
			if col > ncols {
				ncols = col
			}
		}
	}
	return out, ncols
}

// insertSpacers adds, once per table, a spacer in each row spanned by a cell
// from a previous row, at the column of that cell.
func insertSpacers(table *bo.Box, rows []*bo.Box, positions [][]cellPosition) {
	if table.TableFixed {
		return
	}
	table.TableFixed = true

	colOf := make(map[*bo.Box]int)
	for _, row := range positions {
		for _, p := range row {
			colOf[p.cell] = p.col
		}
	}
	column := func(child *bo.Box) int {
		if child.Spacer != nil {
			return colOf[child.Spacer.Extended]
		}
		return colOf[child]
	}
	for _, row := range positions {
		for _, p := range row {
			for r := p.row + 1; r <= p.lastRow(); r++ {
				target := rows[r]
				index := len(target.Children)
				for i, child := range target.Children {
					if column(child) > p.col {
						index = i
						break
					}
				}
				target.InsertChild(index, bo.NewSpacer(p.cell, p.row))
			}
		}
	}
}

// columnNegotiation resolves the widths of the columns of a table.
// Widths are the border box widths of the cells, without the spacing
// between cells. Unresolved widths are NaN.
type columnNegotiation struct {
	widths, minWidths, maxWidths []pr.Float
	// iterations counts the turns of the last bounded loop
	iterations int
}

func isUnresolved(w pr.Float) bool { return math.IsNaN(float64(w)) }

func newColumnNegotiation(ncols int) *columnNegotiation {
	cn := &columnNegotiation{
		widths:    make([]pr.Float, ncols),
		minWidths: make([]pr.Float, ncols),
		maxWidths: make([]pr.Float, ncols),
	}
	for i := range cn.widths {
		cn.widths[i] = pr.Float(math.NaN())
	}
	return cn
}

func (cn *columnNegotiation) sum() pr.Float {
	var out pr.Float
	for _, w := range cn.widths {
		if !isUnresolved(w) {
			out += w
		}
	}
	return out
}

func (cn *columnNegotiation) unresolved() []int {
	var out []int
	for i, w := range cn.widths {
		if isUnresolved(w) {
			out = append(out, i)
		}
	}
	return out
}

// resolveExplicit shares [space] between the columns of a table with
// an explicit width. Columns whose maximum width is below an even share
// get their maximum width; the rest is split evenly.
func (cn *columnNegotiation) resolveExplicit(space pr.Float) {
	remaining := space - cn.sum()
	unresolved := cn.unresolved()
	cn.iterations = 0
	for len(unresolved) != 0 && cn.iterations < maxIterations {
		cn.iterations++
		share := remaining / pr.Float(len(unresolved))
		var kept []int
		for _, i := range unresolved {
			if cn.maxWidths[i] < share {
				cn.widths[i] = cn.maxWidths[i]
				remaining -= cn.maxWidths[i]
			} else {
				kept = append(kept, i)
			}
		}
		if len(kept) == len(unresolved) {
			break
		}
		unresolved = kept
	}

	if len(unresolved) != 0 {
		share := pr.Max(0, remaining/pr.Float(len(unresolved)))
		for _, i := range unresolved {
			cn.widths[i] = share
		}
		return
	}
	// every column is resolved: spread the difference proportionally
	total := cn.sum()
	if remaining == 0 || len(cn.widths) == 0 {
		return
	}
	for i, w := range cn.widths {
		if total > 0 {
			cn.widths[i] = pr.Max(0, w+remaining*w/total)
		} else {
			cn.widths[i] = pr.Max(0, w+remaining/pr.Float(len(cn.widths)))
		}
	}
}

// resolveAuto seeds the unresolved columns with their minimum width and
// spreads the remaining [space] proportionally to their headroom,
// up to their maximum width.
func (cn *columnNegotiation) resolveAuto(space pr.Float) {
	unresolved := cn.unresolved()
	for _, i := range unresolved {
		cn.widths[i] = cn.minWidths[i]
	}
	remaining := space - cn.sum()
	if remaining <= 0 {
		return
	}
	var headroom pr.Float
	for _, i := range unresolved {
		headroom += pr.Max(0, cn.maxWidths[i]-cn.minWidths[i])
	}
	if headroom <= 0 {
		return
	}
	for _, i := range unresolved {
		h := pr.Max(0, cn.maxWidths[i]-cn.minWidths[i])
		cn.widths[i] += pr.Min(h, remaining*h/headroom)
	}
}

// enforceMinWidths grows the columns narrower than their minimum width,
// taking the difference from the next column when possible.
func (cn *columnNegotiation) enforceMinWidths() {
	for i := range cn.widths {
		deficit := cn.minWidths[i] - cn.widths[i]
		if deficit <= 0 {
			continue
		}
		cn.widths[i] = cn.minWidths[i]
		if i+1 < len(cn.widths) {
			take := pr.Min(deficit, cn.widths[i+1]-cn.minWidths[i+1])
			if take > 0 {
				cn.widths[i+1] -= take
			}
		}
	}
	for i, w := range cn.widths {
		cn.widths[i] = pr.Max(0, w)
	}
}

// enforceMaxWidth shrinks the columns so that they fit in [space], without
// going below their minimum width: each column gives up part of the excess,
// in proportion to its width above the minimum.
// If [maxSpace] is set and still exceeded, columns are forced to their
// minimum width, then the largest ones are shrunk. Otherwise, when [grow] is set,
// the space up to [maxSpace] is spread to the columns below their maximum width.
func (cn *columnNegotiation) enforceMaxWidth(space pr.Float, maxSpace pr.MaybeFloat, grow bool) {
	total := cn.sum()
	for round := 0; total > space+lineEpsilon && round < maxIterations; round++ {
		var slack pr.Float
		for i, w := range cn.widths {
			slack += pr.Max(0, w-cn.minWidths[i])
		}
		if slack <= 0 {
			break
		}
		excess := total - space
		for i, w := range cn.widths {
			if s := w - cn.minWidths[i]; s > 0 {
				cn.widths[i] -= pr.Min(s, excess*s/slack)
			}
		}
		total = cn.sum()
	}

	cn.iterations = 0
	if pr.IsAuto(maxSpace) {
		return
	}
	limit := maxSpace.V()
	if total > limit+lineEpsilon {
		copy(cn.widths, cn.minWidths)
		for cn.sum() > limit+lineEpsilon && cn.iterations < maxIterations {
			cn.iterations++
			cn.shrinkLargest(cn.sum() - limit)
		}
	} else if grow {
		for cn.iterations < maxIterations {
			spare := limit - cn.sum()
			var open []int
			for i, w := range cn.widths {
				if w < cn.maxWidths[i] {
					open = append(open, i)
				}
			}
			if spare <= lineEpsilon || len(open) == 0 {
				break
			}
			cn.iterations++
			share := spare / pr.Float(len(open))
			for _, i := range open {
				cn.widths[i] += pr.Min(share, cn.maxWidths[i]-cn.widths[i])
			}
		}
	}
}

// shrinkLargest reduces the largest columns by [excess], without
// going below the next largest width.
func (cn *columnNegotiation) shrinkLargest(excess pr.Float) {
	var largest, second pr.Float
	for _, w := range cn.widths {
		if w > largest {
			largest, second = w, largest
		} else if w < largest && w > second {
			second = w
		}
	}
	var count int
	for _, w := range cn.widths {
		if w == largest {
			count++
		}
	}
	if count == 0 || largest <= 0 {
		return
	}
	d := excess / pr.Float(count)
	if count < len(cn.widths) {
		d = pr.Min(d, largest-second)
	}
	for i, w := range cn.widths {
		if w == largest {
			cn.widths[i] = pr.Max(0, w-d)
		}
	}
}

// columnContentWidths sets the minimum and maximum widths of each column
// from the preferred widths of its cells. Spanning cells are divided evenly.
func (cn *columnNegotiation) columnContentWidths(positions [][]cellPosition) {
	for _, row := range positions {
		for _, p := range row {
			cmin, cmax := GetMinMaxWidth(p.cell)
			span := p.cell.Colspan
			if span < 1 {
				span = 1
			}
			for c := p.col; c < p.col+span && c < len(cn.widths); c++ {
				cn.minWidths[c] = pr.Max(cn.minWidths[c], cmin/pr.Float(span))
				cn.maxWidths[c] = pr.Max(cn.maxWidths[c], cmax/pr.Float(span))
			}
		}
	}
}

// explicitWidths fills the widths set by the column boxes, or
// by the cells of the first columns.
func (cn *columnNegotiation) explicitWidths(columns []*bo.Box, positions [][]cellPosition, space pr.Float) {
	if len(columns) != 0 {
		for i, col := range columns {
			if i >= len(cn.widths) {
				break
			}
			if w := resolveOne(col, pr.PWidth, space); !pr.IsAuto(w) {
				cn.widths[i] = pr.Max(0, w.V())
			}
		}
		return
	}
	for _, row := range positions {
		for _, p := range row {
			if p.col >= maxScannedColumns {
				continue
			}
			w := specifiedWidth(p.cell, space)
			if pr.IsAuto(w) {
				continue
			}
			span := p.cell.Colspan
			if span < 1 {
				span = 1
			}
			border := w.V() + p.cell.PaddingLeft + p.cell.PaddingRight + p.cell.BorderLeftWidth + p.cell.BorderRightWidth
			for c := p.col; c < p.col+span && c < len(cn.widths); c++ {
				share := border / pr.Float(span)
				if isUnresolved(cn.widths[c]) || share > cn.widths[c] {
					cn.widths[c] = share
				}
			}
		}
	}
}

// tableMinMax returns the preferred widths of the content box of a table.
func tableMinMax(table *bo.Box) (min, max pr.Float) {
	parts := classifyTable(table)
	positions, ncols := cellPositions(parts.rows)
	ncols = utils.MaxInt(ncols, len(parts.columns))
	cn := newColumnNegotiation(ncols)
	cn.columnContentWidths(positions)
	for i, col := range parts.columns {
		if w := resolveOne(col, pr.PWidth, pr.AutoF); !pr.IsAuto(w) {
			cn.minWidths[i] = pr.Max(cn.minWidths[i], w.V())
			cn.maxWidths[i] = pr.Max(cn.maxWidths[i], w.V())
		}
	}
	h, _ := table.Style.BorderSpacing()
	spacing := h * pr.Float(ncols+1)
	for i := range cn.minWidths {
		min += cn.minWidths[i]
		max += pr.Max(cn.maxWidths[i], cn.minWidths[i])
	}
	min, max = min+spacing, max+spacing
	for _, caption := range parts.captions {
		cmin, _ := GetMinMaxWidth(caption)
		min = pr.Max(min, cmin)
		max = pr.Max(max, cmin)
	}
	if w := resolveOne(table, pr.PWidth, pr.AutoF); !pr.IsAuto(w) {
		own := table.Style.BorderWidth(pr.Left) + table.Style.BorderWidth(pr.Right) +
			pr.Or(resolveOne(table, pr.PPaddingLeft, pr.Float(0)), 0) +
			pr.Or(resolveOne(table, pr.PPaddingRight, pr.Float(0)), 0)
		min = pr.Max(min, w.V()-own)
		max = min
	}
	return min, max
}

// layoutTable lays out the captions and the rows of [table], whose
// available width is set. It sets the final width of the table and
// returns the bottom of its content and its right edge.
func (lc *layoutContext) layoutTable(table *bo.Box) (bottom, natural pr.Float) {
	parts := classifyTable(table)
	positions, ncols := cellPositions(parts.rows)
	insertSpacers(table, parts.rows, positions)
	ncols = utils.MaxInt(ncols, len(parts.columns))

	hSpacing, vSpacing := table.Style.BorderSpacing()
	if ncols == 0 {
		hSpacing = 0
	}
	available := table.Size.Width
	space := pr.Max(0, available-hSpacing*pr.Float(ncols+1))

	for _, row := range positions {
		for _, p := range row {
			resolveSides(p.cell, available)
		}
	}

	cn := newColumnNegotiation(ncols)
	cn.explicitWidths(parts.columns, positions, space)
	cn.columnContentWidths(positions)
	explicit := table.Style.Length(pr.PWidth).Keyword == ""
	if explicit {
		cn.resolveExplicit(space)
	} else {
		cn.resolveAuto(space)
	}
	cn.enforceMinWidths()

	var maxSpace pr.MaybeFloat = pr.AutoF
	if mw := resolveOne(table, pr.PMaxWidth, lc.tableContainingWidth(table)); !pr.IsAuto(mw) {
		own := table.PaddingLeft + table.PaddingRight + table.BorderLeftWidth + table.BorderRightWidth
		maxSpace = pr.Max(0, mw.V()-own-hSpacing*pr.Float(ncols+1))
	}
	cn.enforceMaxWidth(space, maxSpace, !explicit)

	width := cn.sum() + hSpacing*pr.Float(ncols+1)
	if explicit {
		width = pr.Max(width, available)
	}
	table.Size.Width = width
	lc.alignTable(table, available-width)

	// captions
	y := table.ClientTop()
	for _, caption := range parts.captions {
		y = lc.layoutCaption(table, caption, y)
	}

	colX := make([]pr.Float, ncols+1)
	colX[0] = table.ClientLeft() + hSpacing
	for i, w := range cn.widths {
		colX[i+1] = colX[i] + w + hSpacing
	}

	rowY := y + vSpacing
	rowTops := make([]pr.Float, len(parts.rows))
	for ri := range parts.rows {
		rowY = lc.layoutRow(table, parts, positions, ri, colX, rowY, rowTops)
		rowY += vSpacing
	}
	if len(parts.rows) == 0 {
		rowY = y
	}
	setGroupsGeometry(table, parts.groups)
	return rowY, table.ClientLeft() + table.Size.Width
}

// tableContainingWidth returns the width percentages of the table refer to.
func (lc *layoutContext) tableContainingWidth(table *bo.Box) pr.Float {
	if cb := table.ContainingBlock(); cb != table {
		return cb.Size.Width
	}
	return table.MarginWidth()
}

// alignTable centers (or right aligns) a table narrower than the available width,
// according to its auto margins or its text-align value.
func (lc *layoutContext) alignTable(table *bo.Box, free pr.Float) {
	if free <= 0 || shrinkToFit(table) {
		return
	}
	var dx pr.Float
	autoL, autoR := isAutoMargin(table, pr.Left), isAutoMargin(table, pr.Right)
	switch {
	case autoL && autoR:
		dx = free / 2
	case autoL:
		dx = free
	case autoR:
	case table.Style.TextAlign() == "center":
		dx = free / 2
	case table.Style.TextAlign() == "right":
		dx = free
	}
	table.MarginLeft += dx
	table.MarginRight += free - dx
	table.Location.X += dx
}

func (lc *layoutContext) layoutCaption(table, caption *bo.Box, y pr.Float) pr.Float {
	defer lc.recoverBox(caption, KindLayout)
	resolveSides(caption, table.Size.Width)
	caption.Size.Width = lc.blockWidth(caption, table.Size.Width)
	caption.Location = bo.Point{X: table.ClientLeft() + caption.MarginLeft, Y: y + caption.MarginTop}
	caption.CollapsedMarginTop = caption.MarginTop
	lc.layoutBlockContents(caption)
	return caption.ActualBottom.V() + caption.MarginBottom
}

// layoutCell lays out [cell] at (x, y), with the given border box width.
func (lc *layoutContext) layoutCell(cell *bo.Box, x, y, width pr.Float) {
	defer lc.recoverBox(cell, KindLayout)
	cell.MarginTop, cell.MarginRight, cell.MarginBottom, cell.MarginLeft = 0, 0, 0, 0
	cell.Size.Width = pr.Max(0, width-cell.PaddingLeft-cell.PaddingRight-cell.BorderLeftWidth-cell.BorderRightWidth)
	cell.Location = bo.Point{X: x, Y: y}
	cell.CollapsedMarginTop = 0
	lc.layoutBlockContents(cell)
}

// avoidsBreak returns true if the row should not be cut by a page break.
func avoidsBreak(row *bo.Box, cells []cellPosition) bool {
	if row.Style.AvoidPageBreakInside() {
		return true
	}
	for _, p := range cells {
		if p.cell.Style.AvoidPageBreakInside() {
			return true
		}
	}
	return false
}

// layoutRow lays out the cells starting at row [ri], placed at [rowY],
// and the cells spanning from previous rows ending at [ri]. It returns
// the bottom of the row.
func (lc *layoutContext) layoutRow(table *bo.Box, parts tableParts, positions [][]cellPosition,
	ri int, colX []pr.Float, rowY pr.Float, rowTops []pr.Float,
) pr.Float {
	row := parts.rows[ri]
	hSpacing, _ := table.Style.BorderSpacing()

	layoutCells := func(rowY pr.Float) {
		for _, p := range positions[ri] {
			span := utils.MinInt(p.cell.Colspan, len(colX)-1-p.col)
			if span < 1 {
				span = 1
			}
			lc.layoutCell(p.cell, colX[p.col], rowY, colX[p.col+span]-colX[p.col]-hSpacing)
		}
	}
	rowBottom := func(rowY pr.Float) pr.Float {
		bottom := rowY
		if h := specifiedHeight(row, pr.AutoF); !pr.IsAuto(h) {
			bottom = rowY + h.V()
		}
		for r := 0; r <= ri; r++ {
			for _, p := range positions[r] {
				if p.lastRow() != ri || pr.IsAuto(p.cell.ActualBottom) {
					continue
				}
				bottom = pr.Max(bottom, p.cell.ActualBottom.V())
			}
		}
		return bottom
	}

	layoutCells(rowY)
	bottom := rowBottom(rowY)
	if lc.paginated() && avoidsBreak(row, positions[ri]) {
		if dy := lc.pageBreakShift(rowY, bottom); dy != 0 {
			if ri == 0 {
				// the table starts on the next page, instead of leaving its
				// top border alone
				lc.moveTableTop(table, parts, dy)
			}
			rowY += dy
			layoutCells(rowY)
			bottom = rowBottom(rowY)
		}
	}
	rowTops[ri] = rowY

	row.MarginTop, row.MarginRight, row.MarginBottom, row.MarginLeft = 0, 0, 0, 0
	row.Location = bo.Point{X: colX[0], Y: rowY}
	row.Size = bo.Size{Width: pr.Max(0, colX[len(colX)-1]-colX[0]-hSpacing), Height: bottom - rowY}
	row.ActualRight, row.ActualBottom = row.Location.X+row.Size.Width, bottom

	// stretch the cells ending here to the row bottom
	for r := 0; r <= ri; r++ {
		for _, p := range positions[r] {
			if p.lastRow() == ri {
				stretchCell(p.cell, bottom)
			}
		}
	}
	for _, child := range row.Children {
		if child.Spacer != nil {
			child.Location = child.Spacer.Extended.Location
			child.Location.Y = rowY
			child.Size = bo.Size{}
			child.ActualRight, child.ActualBottom = child.Location.X, rowY
		}
	}
	return bottom
}

// moveTableTop translates the table border and captions, before its rows are laid out.
func (lc *layoutContext) moveTableTop(table *bo.Box, parts tableParts, dy pr.Float) {
	table.Location.Y += dy
	for _, caption := range parts.captions {
		caption.Translate(0, dy)
	}
}

// stretchCell sets the height of [cell] so that it ends at [bottom], and
// applies its vertical alignment to its content.
func stretchCell(cell *bo.Box, bottom pr.Float) {
	if pr.IsAuto(cell.ActualBottom) {
		return
	}
	free := bottom - cell.ActualBottom.V()
	if free <= 0 {
		return
	}
	var dy pr.Float
	switch cell.Style.VerticalAlign() {
	case "middle":
		dy = free / 2
	case "bottom":
		dy = free
	}
	if dy != 0 {
		for _, w := range cell.Words {
			w.Top += dy
		}
		for _, c := range cell.Children {
			c.Translate(0, dy)
		}
		for _, line := range cell.LineBoxes {
			line.Translate(0, dy)
		}
	}
	cell.Size.Height += free
	cell.ActualBottom = bottom
}

// setGroupsGeometry sets the bounds of the row groups from their rows.
func setGroupsGeometry(table *bo.Box, groups []*bo.Box) {
	for _, g := range groups {
		rows := rowsOf(g)
		if len(rows) == 0 {
			g.Location = bo.Point{X: table.ClientLeft(), Y: table.ClientTop()}
			g.Size = bo.Size{}
			continue
		}
		first, last := rows[0], rows[len(rows)-1]
		g.Location = first.Location
		g.Size = bo.Size{Width: first.Size.Width, Height: last.ActualBottom.V() - first.Location.Y}
		g.ActualRight, g.ActualBottom = first.ActualRight, last.ActualBottom
	}
}
