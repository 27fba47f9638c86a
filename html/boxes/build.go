package boxes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	"github.com/laughinglion/PeachPDF-sub000/html/tree"
	"github.com/laughinglion/PeachPDF-sub000/logger"
	"github.com/laughinglion/PeachPDF-sub000/utils"
)

// BuildOptions tunes the construction of the box tree.
type BuildOptions struct {
	// Lang is the language used when no lang attribute applies.
	Lang string
	// IgnoreHints disables the presentational hints
	// (width, bgcolor, cellspacing, ... attributes).
	IgnoreHints bool
}

// user agent styles, applied before hints and style attributes
var uaStyles = map[atom.Atom]string{
	atom.Html:       "display: block",
	atom.Body:       "display: block; margin: 8px",
	atom.Address:    "display: block; font-style: italic",
	atom.Article:    "display: block",
	atom.Aside:      "display: block",
	atom.Blockquote: "display: block; margin: 1em 40px",
	atom.Center:     "display: block; text-align: center",
	atom.Dd:         "display: block; margin-left: 40px",
	atom.Div:        "display: block",
	atom.Dl:         "display: block; margin: 1em 0",
	atom.Dt:         "display: block",
	atom.Fieldset:   "display: block; margin: 0 2px; padding: 0.35em 0.75em 0.625em; border: 2px groove",
	atom.Figure:     "display: block; margin: 1em 40px",
	atom.Footer:     "display: block",
	atom.Form:       "display: block",
	atom.Header:     "display: block",
	atom.Hr:         "display: block; margin: 0.5em 0; border: 1px inset gray",
	atom.Main:       "display: block",
	atom.Nav:        "display: block",
	atom.Section:    "display: block",
	atom.P:          "display: block; margin: 1em 0",
	atom.Pre:        "display: block; margin: 1em 0; white-space: pre; font-family: monospace",
	atom.H1:         "display: block; font-size: 2em; margin: 0.67em 0; font-weight: bold",
	atom.H2:         "display: block; font-size: 1.5em; margin: 0.83em 0; font-weight: bold",
	atom.H3:         "display: block; font-size: 1.17em; margin: 1em 0; font-weight: bold",
	atom.H4:         "display: block; margin: 1.33em 0; font-weight: bold",
	atom.H5:         "display: block; font-size: 0.83em; margin: 1.67em 0; font-weight: bold",
	atom.H6:         "display: block; font-size: 0.67em; margin: 2.33em 0; font-weight: bold",
	atom.Ul:         "display: block; margin: 1em 0; padding-left: 40px; list-style-type: disc",
	atom.Ol:         "display: block; margin: 1em 0; padding-left: 40px; list-style-type: decimal",
	atom.Li:         "display: list-item",

	atom.Table:    "display: table; border-spacing: 2px",
	atom.Caption:  "display: table-caption; text-align: center",
	atom.Thead:    "display: table-header-group; vertical-align: middle",
	atom.Tbody:    "display: table-row-group; vertical-align: middle",
	atom.Tfoot:    "display: table-footer-group; vertical-align: middle",
	atom.Tr:       "display: table-row; vertical-align: inherit",
	atom.Td:       "display: table-cell; padding: 1px; vertical-align: inherit",
	atom.Th:       "display: table-cell; padding: 1px; vertical-align: inherit; font-weight: bold; text-align: center",
	atom.Colgroup: "display: table-column-group",
	atom.Col:      "display: table-column",

	atom.B:      "font-weight: bold",
	atom.Strong: "font-weight: bold",
	atom.I:      "font-style: italic",
	atom.Em:     "font-style: italic",
	atom.Cite:   "font-style: italic",
	atom.Var:    "font-style: italic",
	atom.Code:   "font-family: monospace",
	atom.Kbd:    "font-family: monospace",
	atom.Samp:   "font-family: monospace",
	atom.Tt:     "font-family: monospace",
	atom.Big:    "font-size: larger",
	atom.Small:  "font-size: smaller",
	atom.Sub:    "vertical-align: sub; font-size: smaller",
	atom.Sup:    "vertical-align: super; font-size: smaller",
	atom.A:      "color: blue",
	atom.Nobr:   "white-space: nowrap",
	atom.Img:    "display: inline",
	atom.Iframe: "display: inline; border: 2px inset",
}

// elements never rendered
var skippedTags = utils.NewSet("head", "script", "style", "title", "meta", "link",
	"template", "noscript", "base")

// the default size of frames
const frameWidth, frameHeight = 300, 150

// BuildTree creates the box tree of the document rooted at [root], which
// may be a document node or an element. The returned box is the layout root.
func BuildTree(root *html.Node, opts BuildOptions) (*Box, error) {
	el := root
	for el != nil && el.Type != html.ElementNode {
		el = firstElementChild(el)
	}
	if el == nil {
		return nil, errors.New("no root element")
	}
	bd := builder{opts: opts}
	box := bd.element(el, nil)
	if box == nil {
		return nil, fmt.Errorf("root element <%s> is not rendered", el.Data)
	}
	box.SetRoot(true)
	return box, nil
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode || c.Type == html.DocumentNode {
			return c
		}
	}
	return nil
}

type builder struct {
	opts BuildOptions
}

// isDigit returns true for non empty ASCII digit strings
func isDigit(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// hintLength adds the implicit px unit of HTML length attributes.
func hintLength(v string) string {
	v = strings.TrimSpace(v)
	if isDigit(v) {
		return v + "px"
	}
	return v
}

// integerAttribute returns the value of [name], defaulting to 1
// and clamped to [minimum].
func integerAttribute(n *html.Node, name string, minimum int) int {
	v := strings.TrimSpace(tree.Attr(n, name))
	if v == "" {
		return 1
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logger.WarningLogger.Printf("Invalid value for %s: %q", name, v)
		return 1
	}
	return utils.MaxInt(minimum, i)
}

// presentationalHints returns the declarations implied by the
// (deprecated) styling attributes of [n].
func presentationalHints(n *html.Node) string {
	var decls []string
	add := func(format string, args ...interface{}) {
		decls = append(decls, fmt.Sprintf(format, args...))
	}
	attr := func(name string) string { return strings.TrimSpace(tree.Attr(n, name)) }
	switch n.DataAtom {
	case atom.Body:
		if v := attr("bgcolor"); v != "" {
			add("background-color: %s", v)
		}
		if v := attr("text"); v != "" {
			add("color: %s", v)
		}
		if v := attr("background"); v != "" {
			add("background-image: url(%s)", v)
		}
	case atom.Div, atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		switch align := strings.ToLower(attr("align")); align {
		case "middle":
			add("text-align: center")
		case "center", "left", "right", "justify":
			add("text-align: %s", align)
		}
	case atom.Font:
		if v := attr("color"); v != "" {
			add("color: %s", v)
		}
		if v := attr("face"); v != "" {
			add("font-family: %s", v)
		}
	case atom.Table:
		if v := attr("cellspacing"); v != "" {
			add("border-spacing: %s", hintLength(v))
		}
		if v := attr("width"); v != "" {
			add("width: %s", hintLength(v))
		}
		if v := attr("height"); v != "" {
			add("height: %s", hintLength(v))
		}
		if v := attr("bgcolor"); v != "" {
			add("background-color: %s", v)
		}
		if v := attr("bordercolor"); v != "" {
			add("border-color: %s", v)
		}
		if v := attr("border"); v != "" {
			add("border: %s outset", hintLength(v))
		}
		switch strings.ToLower(attr("align")) {
		case "center":
			add("margin-left: auto; margin-right: auto")
		case "right":
			add("margin-left: auto")
		}
	case atom.Tr, atom.Td, atom.Th, atom.Thead, atom.Tbody, atom.Tfoot:
		switch align := strings.ToLower(attr("align")); align {
		case "left", "right", "center", "justify":
			add("text-align: %s", align)
		}
		switch valign := strings.ToLower(attr("valign")); valign {
		case "top", "middle", "bottom":
			add("vertical-align: %s", valign)
		}
		if v := attr("bgcolor"); v != "" {
			add("background-color: %s", v)
		}
		if n.DataAtom == atom.Tr || n.DataAtom == atom.Td || n.DataAtom == atom.Th {
			if v := attr("height"); v != "" {
				add("height: %s", hintLength(v))
			}
		}
		if n.DataAtom == atom.Td || n.DataAtom == atom.Th {
			if v := attr("width"); v != "" {
				add("width: %s", hintLength(v))
			}
			if tree.HasAttr(n, "nowrap") {
				add("white-space: nowrap")
			}
			if table := enclosingTable(n); table != nil {
				if v := strings.TrimSpace(tree.Attr(table, "cellpadding")); v != "" {
					add("padding: %s", hintLength(v))
				}
				if v := strings.TrimSpace(tree.Attr(table, "border")); v != "" && v != "0" {
					add("border: 1px inset")
				}
			}
		}
	case atom.Caption:
		switch align := strings.ToLower(attr("align")); align {
		case "left", "right", "justify":
			add("text-align: %s", align)
		}
	case atom.Col, atom.Colgroup:
		if v := attr("width"); v != "" {
			add("width: %s", hintLength(v))
		}
	case atom.Img, atom.Iframe:
		if v := attr("width"); v != "" {
			add("width: %s", hintLength(v))
		}
		if v := attr("height"); v != "" {
			add("height: %s", hintLength(v))
		}
		if n.DataAtom == atom.Img {
			switch align := strings.ToLower(attr("align")); align {
			case "left", "right":
				add("float: %s", align)
			case "top", "middle", "bottom":
				add("vertical-align: %s", align)
			}
		}
	case atom.Hr:
		if v := attr("width"); v != "" {
			add("width: %s", hintLength(v))
		}
		if v := attr("color"); v != "" {
			add("border-color: %s", v)
		}
	}
	return strings.Join(decls, "; ")
}

// enclosingTable returns the nearest <table> ancestor of a cell.
func enclosingTable(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Table {
			return p
		}
	}
	return nil
}

// computeStyle cascades the user agent styles, the hints and the
// style attribute, then inherits from [parent].
func (bd builder) computeStyle(n *html.Node, parent *Box) *pr.Style {
	style := pr.NewStyle()
	if ua, ok := uaStyles[n.DataAtom]; ok {
		style.SetDeclarations(ua)
	}
	if !bd.opts.IgnoreHints {
		if hints := presentationalHints(n); hints != "" {
			style.SetDeclarations(hints)
		}
	}
	if attr := tree.Attr(n, "style"); attr != "" {
		style.SetDeclarations(attr)
	}
	if parent != nil {
		style.InheritFrom(parent.Style)
	} else {
		style.InheritFrom(nil)
	}
	return style
}

// element builds the box of [n] and its descendants, or returns nil
// if the element is not rendered.
func (bd builder) element(n *html.Node, parent *Box) *Box {
	if skippedTags.Has(strings.ToLower(n.Data)) {
		return nil
	}
	style := bd.computeStyle(n, parent)
	if style.Display() == "none" {
		return nil
	}

	box := NewBox(KindGeneric, n, style)
	box.Parent = parent
	switch {
	case tree.HasAttr(n, "lang"):
		box.Lang = tree.Attr(n, "lang")
	case parent != nil:
		box.Lang = parent.Lang
	default:
		box.Lang = bd.opts.Lang
	}

	switch n.DataAtom {
	case atom.Img:
		src := strings.TrimSpace(tree.Attr(n, "src"))
		if src == "" {
			// nothing to load: render the alternative text
			if alt := tree.Attr(n, "alt"); alt != "" {
				box.AppendChild(NewTextBox(box, alt))
			}
			return box
		}
		box.Kind = KindImage
		box.ImageSrc = src
		box.Words = []*Word{{Owner: box, IsImage: true}}
		return box
	case atom.Iframe:
		box.Kind = KindFrame
		box.Words = []*Word{{Owner: box, IsImage: true, Width: frameWidth, Height: frameHeight}}
		return box
	case atom.Br:
		box.Words = []*Word{{Owner: box, IsLineBreak: true}}
		return box
	case atom.Td, atom.Th:
		box.Colspan = integerAttribute(n, "colspan", 1)
		box.Rowspan = integerAttribute(n, "rowspan", 0)
	case atom.Col:
		box.Colspan = integerAttribute(n, "span", 1)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data != "" {
				box.AppendChild(NewTextBox(box, c.Data))
			}
		case html.ElementNode:
			if child := bd.element(c, box); child != nil {
				box.AppendChild(child)
			}
		}
	}

	if box.Display() == "list-item" {
		bd.addMarker(box)
	}
	switch box.Display() {
	case "table", "inline-table", "table-row-group", "table-header-group", "table-footer-group":
		fixTableChildren(box)
	case "table-row":
		fixRowChildren(box)
	case "table-column-group":
		expandColumnGroup(box)
	case "table-column":
		box.Children = nil
	default:
		if !isInline(box) {
			wrapInlineRuns(box)
		}
	}
	return box
}

func isInline(b *Box) bool { return b.Display() == "inline" }

// isWhitespaceOnly returns true for anonymous text boxes
// without visible content.
func isWhitespaceOnly(b *Box) bool {
	if b.Element != nil || b.Kind != KindGeneric || len(b.Children) != 0 {
		return false
	}
	return strings.TrimFunc(b.Text, unicode.IsSpace) == ""
}

// wrapInlineRuns encloses the runs of inline-level children of a block
// container with block children into anonymous blocks. Runs of white space
// only are dropped.
func wrapInlineRuns(box *Box) {
	hasBlock, hasInline := false, false
	for _, c := range box.Children {
		if c.IsBlockLevel() && !c.IsOutOfFlow() {
			hasBlock = true
		} else {
			hasInline = true
		}
	}
	if !hasBlock || !hasInline {
		return
	}
	var (
		out []*Box
		run []*Box
	)
	flush := func() {
		visible := false
		for _, c := range run {
			if !isWhitespaceOnly(c) {
				visible = true
				break
			}
		}
		if visible {
			anon := NewAnonymousBox(box, "block")
			for _, c := range run {
				anon.AppendChild(c)
			}
			anon.Parent = box
			out = append(out, anon)
		}
		run = nil
	}
	for _, c := range box.Children {
		if c.IsBlockLevel() && !c.IsOutOfFlow() {
			flush()
			out = append(out, c)
		} else {
			run = append(run, c)
		}
	}
	flush()
	box.Children = out
}

func isRowGroup(b *Box) bool {
	switch b.Display() {
	case "table-row-group", "table-header-group", "table-footer-group":
		return true
	}
	return false
}

func isColumnLike(b *Box) bool {
	d := b.Display()
	return d == "table-column" || d == "table-column-group"
}

// fixTableChildren drops white space in tables and row groups and wraps
// stray content into anonymous rows.
func fixTableChildren(box *Box) {
	var out, run []*Box
	flush := func() {
		if len(run) == 0 {
			return
		}
		row := NewAnonymousBox(box, "table-row")
		row.Parent = box
		for _, c := range run {
			row.AppendChild(c)
		}
		fixRowChildren(row)
		out = append(out, row)
		run = nil
	}
	for _, c := range box.Children {
		switch {
		case isWhitespaceOnly(c):
		case c.Display() == "table-row",
			box.IsTable() && (isRowGroup(c) || isColumnLike(c) || c.Display() == "table-caption"):
			flush()
			out = append(out, c)
		default:
			run = append(run, c)
		}
	}
	flush()
	box.Children = out
}

// fixRowChildren wraps the non-cell content of a row into anonymous cells.
func fixRowChildren(row *Box) {
	var out, run []*Box
	flush := func() {
		if len(run) == 0 {
			return
		}
		cell := NewAnonymousBox(row, "table-cell")
		cell.Parent = row
		for _, c := range run {
			cell.AppendChild(c)
		}
		wrapInlineRuns(cell)
		out = append(out, cell)
		run = nil
	}
	for _, c := range row.Children {
		switch {
		case isWhitespaceOnly(c):
		case c.Display() == "table-cell":
			flush()
			out = append(out, c)
		default:
			run = append(run, c)
		}
	}
	flush()
	row.Children = out
}

// expandColumnGroup replaces the span attribute of columns by as many
// column boxes, and gives an empty group [span] columns.
func expandColumnGroup(group *Box) {
	var cols []*Box
	for _, c := range group.Children {
		if c.Display() == "table-column" {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 && group.Element != nil {
		span := integerAttribute(group.Element, "span", 1)
		for i := 0; i < span; i++ {
			col := NewAnonymousBox(group, "table-column")
			col.Style.Set(pr.PWidth, group.Style.Get(pr.PWidth))
			col.Parent = group
			cols = append(cols, col)
		}
	}
	var out []*Box
	for _, col := range cols {
		out = append(out, col)
		for i := 1; i < col.Colspan; i++ {
			clone := NewBox(KindGeneric, col.Element, col.Style)
			clone.Parent = group
			out = append(out, clone)
		}
		col.Colspan = 1
	}
	group.Children = out
}

// Columns returns the explicit column boxes of a table, flattening
// column groups.
func Columns(table *Box) []*Box {
	var out []*Box
	for _, c := range table.Children {
		switch c.Display() {
		case "table-column":
			out = append(out, c)
			for i := 1; i < c.Colspan; i++ {
				out = append(out, c)
			}
		case "table-column-group":
			out = append(out, c.Children...)
		}
	}
	return out
}

// addMarker creates the marker box of a list item.
func (bd builder) addMarker(item *Box) {
	markerText := MarkerText(item.Style.ListStyleType(), listIndex(item))
	if markerText == "" {
		return
	}
	marker := NewAnonymousBox(item, "inline")
	marker.Kind = KindListMarker
	marker.Text = markerText
	marker.SetWords(markerText)
	if item.Style.Keyword(pr.PListStylePosition) == "inside" {
		marker.Style.Set(pr.PWhiteSpace, "nowrap")
		marker.SetWords(markerText + " ")
		item.InsertChild(0, marker)
		return
	}
	marker.Parent = item
	item.Marker = marker
}

// listIndex returns the ordinal of a list item, taking the start
// attribute of <ol> and the value attribute of <li> into account.
func listIndex(item *Box) int {
	if item.Element != nil && tree.HasAttr(item.Element, "value") {
		if v, err := strconv.Atoi(strings.TrimSpace(tree.Attr(item.Element, "value"))); err == nil {
			return v
		}
	}
	parent := item.Parent
	if parent == nil {
		return 1
	}
	index := 1
	if parent.Element != nil && parent.Element.DataAtom == atom.Ol {
		if v, err := strconv.Atoi(strings.TrimSpace(tree.Attr(parent.Element, "start"))); err == nil {
			index = v
		}
	}
	for _, c := range parent.Children {
		if c == item {
			break
		}
		if c.Display() == "list-item" {
			index++
		}
	}
	return index
}

// MarkerText returns the text of the marker of the [index]-th item
// of a list, or "" for "list-style-type: none".
func MarkerText(listStyleType string, index int) string {
	switch listStyleType {
	case "none":
		return ""
	case "disc":
		return "•"
	case "circle":
		return "◦"
	case "square":
		return "▪"
	case "decimal":
		return strconv.Itoa(index) + "."
	case "decimal-leading-zero":
		return fmt.Sprintf("%02d.", index)
	case "lower-alpha", "lower-latin":
		return alphabetic(index, 'a') + "."
	case "upper-alpha", "upper-latin":
		return alphabetic(index, 'A') + "."
	case "lower-roman":
		return strings.ToLower(roman(index)) + "."
	case "upper-roman":
		return roman(index) + "."
	default:
		return "•"
	}
}

// alphabetic returns a, b, ..., z, aa, ab, ...
func alphabetic(index int, first rune) string {
	if index <= 0 {
		return strconv.Itoa(index)
	}
	var out []rune
	for index > 0 {
		index--
		out = append([]rune{first + rune(index%26)}, out...)
		index /= 26
	}
	return string(out)
}

var romanSymbols = [...]struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// roman returns the upper case roman numeral of [index], falling back
// to decimal outside 1-3999.
func roman(index int) string {
	if index <= 0 || index >= 4000 {
		return strconv.Itoa(index)
	}
	var sb strings.Builder
	for _, rs := range romanSymbols {
		for index >= rs.value {
			sb.WriteString(rs.symbol)
			index -= rs.value
		}
	}
	return sb.String()
}
