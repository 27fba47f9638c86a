// Package boxes defines the box tree consumed and updated by layout,
// and builds it from an HTML document.
package boxes

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	"github.com/laughinglion/PeachPDF-sub000/html/tree"
	"github.com/laughinglion/PeachPDF-sub000/images"
	"github.com/laughinglion/PeachPDF-sub000/text"
)

// Kind is the closed set of box variants. Kinds differ in how
// their content is measured and painted.
type Kind uint8

const (
	KindGeneric    Kind = iota // elements and anonymous boxes
	KindImage                  // <img>, replaced by an image word
	KindFrame                  // <iframe>, replaced by an empty frame
	KindSpacer                 // placeholder for a cell spanning several rows
	KindListMarker             // bullet or number of a list item
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "Image"
	case KindFrame:
		return "Frame"
	case KindSpacer:
		return "Spacer"
	case KindListMarker:
		return "ListMarker"
	default:
		return "Generic"
	}
}

// ErrNoContainingBlock is reported when the ancestors chain of a box
// does not end at the layout root.
var ErrNoContainingBlock = errors.New("no containing block")

// StructuralError is raised (as a panic value) when the tree
// is inconsistent. It is never recovered by box level error handling.
type StructuralError struct {
	Box *Box
	Err error
}

func (e StructuralError) Error() string { return fmt.Sprintf("%s: %s", e.Box, e.Err) }

func (e StructuralError) Unwrap() error { return e.Err }

type Point struct{ X, Y pr.Float }

type Size struct{ Width, Height pr.Float }

// Rect is a rectangle, with the y axis growing downward.
type Rect struct{ X, Y, Width, Height pr.Float }

func (r Rect) Right() pr.Float  { return r.X + r.Width }
func (r Rect) Bottom() pr.Float { return r.Y + r.Height }

// IsEmpty returns true for the zero rectangle, used as "not set yet".
func (r Rect) IsEmpty() bool { return r == Rect{} }

// Union returns the bounding rectangle of [r] and [o].
// An empty rectangle is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x, y := pr.Min(r.X, o.X), pr.Min(r.Y, o.Y)
	right, bottom := pr.Max(r.Right(), o.Right()), pr.Max(r.Bottom(), o.Bottom())
	return Rect{x, y, right - x, bottom - y}
}

// Contains returns true if [o] is inside [r], with a small tolerance.
func (r Rect) Contains(o Rect) bool {
	const eps = 0.01
	return o.X >= r.X-eps && o.Y >= r.Y-eps && o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// Translate returns [r] moved by (dx, dy).
func (r Rect) Translate(dx, dy pr.Float) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Word is an atomic piece of inline content: a text run which
// can't be broken, an image, or a forced line break.
type Word struct {
	Owner *Box // non-owning

	Text  string
	Image *images.Image // for image words, nil if loading failed

	Left, Top     pr.Float
	Width, Height pr.Float // measured size

	// SpaceWidth is the advance of the collapsed space following
	// (HasSpaceAfter) or preceding (HasSpaceBefore) the word.
	SpaceWidth pr.Float

	HasSpaceBefore bool
	HasSpaceAfter  bool
	IsImage        bool
	IsLineBreak    bool
	IsSpaces       bool // preserved or collapsed white space only
	RTL            bool

	// Atomic is set for inline-block boxes, laid out as a single word.
	Atomic *Box
}

// FullWidth returns the advance of the word, including the
// trailing space.
func (w *Word) FullWidth() pr.Float {
	if w.HasSpaceAfter {
		return w.Width + w.SpaceWidth
	}
	return w.Width
}

func (w *Word) Right() pr.Float  { return w.Left + w.Width }
func (w *Word) Bottom() pr.Float { return w.Top + w.Height }

// Rect returns the bounds of the word, without spaces.
func (w *Word) Rect() Rect { return Rect{w.Left, w.Top, w.Width, w.Height} }

func (w *Word) String() string {
	switch {
	case w.IsLineBreak:
		return "<br>"
	case w.IsImage:
		return "<img>"
	case w.Atomic != nil:
		return "<inline-block>"
	default:
		return w.Text
	}
}

// LineBox aggregates the words placed on one line of a block.
type LineBox struct {
	Owner *Box // the block establishing the line, non-owning

	Words []*Word

	// RelatedBoxes lists, in order of first appearance, the inline
	// boxes contributing to the line.
	RelatedBoxes []*Box

	// Rectangles stores the bounds of each related box on this line.
	Rectangles map[*Box]Rect
}

// Translate moves the rectangles of the line and its atomic words.
// Other words are moved with their owner box.
func (lb *LineBox) Translate(dx, dy pr.Float) {
	for b, r := range lb.Rectangles {
		lb.Rectangles[b] = r.Translate(dx, dy)
	}
	for _, w := range lb.Words {
		if w.Atomic != nil {
			w.Left += dx
			w.Top += dy
		}
	}
}

// NewLineBox creates a line box and registers it in [owner].
func NewLineBox(owner *Box) *LineBox {
	lb := &LineBox{Owner: owner, Rectangles: make(map[*Box]Rect)}
	owner.LineBoxes = append(owner.LineBoxes, lb)
	return lb
}

// AddWord appends [w] and registers its owner (and the owner's
// inline ancestors up to the line owner) as related boxes.
func (lb *LineBox) AddWord(w *Word) {
	lb.Words = append(lb.Words, w)
	var chain []*Box
	for b := w.Owner; b != nil && b != lb.Owner; b = b.Parent {
		chain = append(chain, b)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		lb.relate(chain[i])
	}
}

func (lb *LineBox) relate(b *Box) {
	for _, r := range lb.RelatedBoxes {
		if r == b {
			return
		}
	}
	lb.RelatedBoxes = append(lb.RelatedBoxes, b)
}

// IsRelated returns true if [b] contributes to the line.
func (lb *LineBox) IsRelated(b *Box) bool {
	for _, r := range lb.RelatedBoxes {
		if r == b {
			return true
		}
	}
	return false
}

// Width returns the sum of the word advances, without the
// trailing space of the last word.
func (lb *LineBox) Width() pr.Float {
	var out pr.Float
	for i, w := range lb.Words {
		if i == len(lb.Words)-1 {
			out += w.Width
		} else {
			out += w.FullWidth()
		}
	}
	return out
}

// SpacerInfo links a spacer box to the cell it extends.
type SpacerInfo struct {
	Extended *Box // the spanning cell
	StartRow int  // index of the row of the spanning cell
}

// Box is a node of the layout tree.
type Box struct {
	Kind    Kind
	Element *html.Node // nil for anonymous boxes
	Parent  *Box       // non-owning, nil for the root

	Children []*Box
	Style    *pr.Style
	Lang     string

	// Text is the source of the words of anonymous text boxes.
	Text  string
	Words []*Word

	// ImageSrc is the source of image boxes, loaded on measurement.
	ImageSrc string
	Image    *images.Image
	// ErrorBorder is set when the replaced content failed to load.
	ErrorBorder bool

	// Marker is the list marker of list items, laid out outside
	// of the principal box.
	Marker *Box

	Colspan, Rowspan int
	Spacer           *SpacerInfo
	// TableFixed is set once the spacers of a table have been inserted.
	TableFixed bool

	// Layout outputs, recomputed on every pass.

	// Location is the top-left corner of the border box.
	Location Point
	// Size is the size of the content box.
	Size Size
	// ActualRight and ActualBottom are the right and bottom edges
	// of the border box, or [pr.AutoF] until resolved.
	ActualRight, ActualBottom pr.MaybeFloat

	// CollapsedMarginTop is the space actually used above the border box,
	// CollapsedMarginBottom the margin exposed to the next sibling.
	CollapsedMarginTop, CollapsedMarginBottom pr.Float

	MarginTop, MarginRight, MarginBottom, MarginLeft                     pr.Float
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft                 pr.Float
	BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth pr.Float

	// LineBoxes are the lines established by this block.
	LineBoxes []*LineBox
	// Rectangles stores the bounds of this inline box on each line.
	Rectangles map[*LineBox]Rect

	isRoot       bool
	measuredFont string
}

// NewBox returns an element box, whose style is not inherited yet.
func NewBox(kind Kind, element *html.Node, style *pr.Style) *Box {
	if style == nil {
		style = pr.NewStyle()
	}
	return &Box{
		Kind: kind, Element: element, Style: style,
		Colspan: 1, Rowspan: 1,
		ActualRight: pr.AutoF, ActualBottom: pr.AutoF,
	}
}

// NewAnonymousBox returns a box inheriting its style from [parent].
func NewAnonymousBox(parent *Box, display string) *Box {
	style := pr.NewStyle()
	style.Set(pr.PDisplay, display)
	if parent != nil {
		style.InheritFrom(parent.Style)
	} else {
		style.InheritFrom(nil)
	}
	b := NewBox(KindGeneric, nil, style)
	if parent != nil {
		b.Lang = parent.Lang
	}
	return b
}

// NewTextBox returns an anonymous inline box holding [s].
func NewTextBox(parent *Box, s string) *Box {
	b := NewAnonymousBox(parent, "inline")
	b.Text = s
	b.SetWords(s)
	return b
}

// NewSpacer returns a spacer standing for [extended] in a row spanned
// by it. Its colspan matches the one of the extended cell.
func NewSpacer(extended *Box, startRow int) *Box {
	b := NewAnonymousBox(extended.Parent, "table-cell")
	b.Kind = KindSpacer
	b.Colspan = extended.Colspan
	b.Spacer = &SpacerInfo{Extended: extended, StartRow: startRow}
	return b
}

// SetWords replaces the words of the box by the segmentation of [s].
func (b *Box) SetWords(s string) {
	ws := text.NewWhiteSpace(b.Style.WhiteSpace())
	b.Words = b.Words[:0]
	for _, seg := range text.SplitWords(s, ws, text.NewLanguage(b.Lang)) {
		b.Words = append(b.Words, &Word{
			Owner:          b,
			Text:           seg.Text,
			HasSpaceBefore: seg.SpaceBefore,
			HasSpaceAfter:  seg.SpaceAfter,
			IsLineBreak:    seg.LineBreak,
			IsSpaces:       seg.IsSpace,
			RTL:            seg.RTL,
		})
	}
	b.measuredFont = ""
}

// AppendChild adds [child] at the end of the children.
func (b *Box) AppendChild(child *Box) {
	child.Parent = b
	b.Children = append(b.Children, child)
}

// InsertChild inserts [child] at [index], clamped to the valid range.
func (b *Box) InsertChild(index int, child *Box) {
	if index < 0 {
		index = 0
	}
	if index > len(b.Children) {
		index = len(b.Children)
	}
	child.Parent = b
	b.Children = append(b.Children, nil)
	copy(b.Children[index+1:], b.Children[index:])
	b.Children[index] = child
}

// Dispose releases the images held by the subtree and detaches it.
func (b *Box) Dispose() {
	for _, c := range b.Children {
		c.Dispose()
	}
	if b.Marker != nil {
		b.Marker.Dispose()
	}
	for _, w := range b.Words {
		w.Image = nil
		w.Owner = nil
	}
	b.Image = nil
	b.Words = nil
	b.Children = nil
	b.LineBoxes = nil
	b.Rectangles = nil
	b.Parent = nil
}

// Tag returns the element tag, or "" for anonymous boxes.
func (b *Box) Tag() string {
	if b.Element == nil {
		return ""
	}
	return b.Element.Data
}

// Attr returns the value of an attribute of the element, or "".
func (b *Box) Attr(name string) string {
	if b.Element == nil {
		return ""
	}
	return tree.Attr(b.Element, name)
}

func (b *Box) String() string {
	tag := b.Tag()
	if tag == "" {
		tag = "anonymous"
	}
	return fmt.Sprintf("<%s %s %s>", b.Kind, tag, b.Style.Display())
}

func (b *Box) Display() string { return b.Style.Display() }

// IsBlockLevel returns true for boxes taking part in the block flow.
func (b *Box) IsBlockLevel() bool {
	switch b.Display() {
	case "block", "list-item", "table", "flex", "grid", "flow-root",
		"table-row-group", "table-header-group", "table-footer-group",
		"table-row", "table-cell", "table-caption", "table-column", "table-column-group":
		return true
	}
	return false
}

// IsTable returns true for table and inline-table boxes.
func (b *Box) IsTable() bool {
	d := b.Display()
	return d == "table" || d == "inline-table"
}

// IsAtomicInline returns true for inline-block and inline-table boxes,
// which are laid out as blocks and placed as a single word.
func (b *Box) IsAtomicInline() bool {
	d := b.Display()
	return d == "inline-block" || d == "inline-table"
}

// IsPositioned returns true if the position is not static.
func (b *Box) IsPositioned() bool { return b.Style.Position() != "static" }

// IsOutOfFlow returns true for absolute and fixed boxes.
func (b *Box) IsOutOfFlow() bool {
	p := b.Style.Position()
	return p == "absolute" || p == "fixed"
}

// IsFloated returns true for left and right floats.
func (b *Box) IsFloated() bool { return b.Style.Float() != "none" }

// IsRoot returns true for the box given to layout.
func (b *Box) IsRoot() bool { return b.isRoot }

// SetRoot marks (or unmarks) the box as a layout root: its own
// containing block.
func (b *Box) SetRoot(root bool) { b.isRoot = root }

// ContainingBlock returns the nearest block-level (or table cell) ancestor.
// The root is its own containing block. It panics with a [StructuralError]
// if the ancestors chain does not reach the root.
func (b *Box) ContainingBlock() *Box {
	if b.isRoot {
		return b
	}
	for p := b.Parent; p != nil; p = p.Parent {
		if p.isRoot || p.IsBlockLevel() || p.IsAtomicInline() {
			return p
		}
		if p.Parent == nil {
			break
		}
	}
	panic(StructuralError{Box: b, Err: ErrNoContainingBlock})
}

// PositionedAncestor returns the nearest positioned ancestor,
// or the root.
func (b *Box) PositionedAncestor() *Box {
	for p := b.Parent; p != nil; p = p.Parent {
		if p.isRoot || p.IsPositioned() {
			return p
		}
	}
	return b.ContainingBlock()
}

// Root returns the top-most ancestor.
func (b *Box) Root() *Box {
	for b.Parent != nil {
		b = b.Parent
	}
	return b
}

// PrevSibling returns the previous in-flow sibling, or nil.
func (b *Box) PrevSibling() *Box {
	if b.Parent == nil {
		return nil
	}
	var prev *Box
	for _, c := range b.Parent.Children {
		if c == b {
			return prev
		}
		if !c.IsOutOfFlow() && c.Display() != "none" {
			prev = c
		}
	}
	return nil
}

// ContainsInlinesOnly returns true if every child is inline-level.
func (b *Box) ContainsInlinesOnly() bool {
	for _, c := range b.Children {
		if c.IsBlockLevel() && !c.IsOutOfFlow() {
			return false
		}
	}
	return true
}

// Font returns the font used to measure the words of the box.
func (b *Box) Font() text.FontDescription {
	return text.FontDescription{
		Family: b.Style.FontFamily(),
		Size:   b.Style.FontSize(),
		Weight: b.Style.FontWeight(),
		Italic: b.Style.IsItalic(),
	}
}

// MeasuredWith returns true if the words have been measured with [font].
func (b *Box) MeasuredWith(fontKey string) bool { return b.measuredFont == fontKey }

// SetMeasuredWith records the font used for the last measurement.
func (b *Box) SetMeasuredWith(fontKey string) { b.measuredFont = fontKey }

// ClientLeft returns the left edge of the content box.
func (b *Box) ClientLeft() pr.Float { return b.Location.X + b.BorderLeftWidth + b.PaddingLeft }

// ClientTop returns the top edge of the content box.
func (b *Box) ClientTop() pr.Float { return b.Location.Y + b.BorderTopWidth + b.PaddingTop }

// ClientRight returns the right edge of the content box.
func (b *Box) ClientRight() pr.Float { return b.ClientLeft() + b.Size.Width }

// ClientBottom returns the bottom edge of the content box.
func (b *Box) ClientBottom() pr.Float { return b.ClientTop() + b.Size.Height }

// PaddingWidth returns the width of the padding box.
func (b *Box) PaddingWidth() pr.Float { return b.Size.Width + b.PaddingLeft + b.PaddingRight }

// PaddingHeight returns the height of the padding box.
func (b *Box) PaddingHeight() pr.Float { return b.Size.Height + b.PaddingTop + b.PaddingBottom }

// BorderWidth returns the width of the border box.
func (b *Box) BorderWidth() pr.Float {
	return b.PaddingWidth() + b.BorderLeftWidth + b.BorderRightWidth
}

// BorderHeight returns the height of the border box.
func (b *Box) BorderHeight() pr.Float {
	return b.PaddingHeight() + b.BorderTopWidth + b.BorderBottomWidth
}

// MarginWidth returns the width of the margin box.
func (b *Box) MarginWidth() pr.Float { return b.BorderWidth() + b.MarginLeft + b.MarginRight }

// SpacingLeft returns the sum of the left margin, border and padding.
func (b *Box) SpacingLeft() pr.Float { return b.MarginLeft + b.BorderLeftWidth + b.PaddingLeft }

// SpacingRight returns the sum of the right margin, border and padding.
func (b *Box) SpacingRight() pr.Float { return b.MarginRight + b.BorderRightWidth + b.PaddingRight }

// BorderBox returns the border box rectangle.
func (b *Box) BorderBox() Rect {
	return Rect{b.Location.X, b.Location.Y, b.BorderWidth(), b.BorderHeight()}
}

// Walk calls [fn] on the box and its descendants, in document order.
// Returning false from fn skips the children of a box.
func (b *Box) Walk(fn func(*Box) bool) {
	if !fn(b) {
		return
	}
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// Translate moves the box and its descendants, including words,
// line boxes and line rectangles.
func (b *Box) Translate(dx, dy pr.Float) {
	if dx == 0 && dy == 0 {
		return
	}
	b.Walk(func(box *Box) bool {
		box.Location.X += dx
		box.Location.Y += dy
		if !pr.IsAuto(box.ActualRight) {
			box.ActualRight = box.ActualRight.V() + dx
		}
		if !pr.IsAuto(box.ActualBottom) {
			box.ActualBottom = box.ActualBottom.V() + dy
		}
		for _, w := range box.Words {
			w.Left += dx
			w.Top += dy
		}
		for lb, r := range box.Rectangles {
			box.Rectangles[lb] = r.Translate(dx, dy)
		}
		for _, lb := range box.LineBoxes {
			lb.Translate(dx, dy)
		}
		if box.Marker != nil {
			box.Marker.Translate(dx, dy)
		}
		return true
	})
}

// Dump returns a textual representation of the tree, for debugging.
func (b *Box) Dump() string {
	var sb strings.Builder
	var dump func(box *Box, indent int)
	dump = func(box *Box, indent int) {
		fmt.Fprintf(&sb, "%s%s (%g, %g) %gx%g", strings.Repeat("  ", indent), box,
			box.Location.X, box.Location.Y, box.Size.Width, box.Size.Height)
		for _, w := range box.Words {
			fmt.Fprintf(&sb, " [%s]", w)
		}
		sb.WriteByte('\n')
		for _, c := range box.Children {
			dump(c, indent+1)
		}
	}
	dump(b, 0)
	return sb.String()
}
