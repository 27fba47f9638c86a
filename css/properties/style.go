package properties

import (
	"fmt"
	"strconv"
	"strings"

	pa "github.com/laughinglion/PeachPDF-sub000/css/parser"
	"github.com/laughinglion/PeachPDF-sub000/logger"
)

// Style stores the specified values of one box, as strings,
// and caches their parsed form.
//
// An empty string means the property is not set: its
// initial value (or its inherited one, after [Style.InheritFrom]) is used.
type Style struct {
	values [NbProperties]string

	fontSize Float // computed, in pixels
	lengths  map[KnownProp]Value
}

// NewStyle returns a style with only initial values.
func NewStyle() *Style {
	return &Style{fontSize: MediumFontSize}
}

// Copy returns a deep copy of the specified values.
func (s *Style) Copy() *Style {
	out := *s
	out.lengths = nil
	return &out
}

// Get returns the specified value of [p], or its initial value.
func (s *Style) Get(p KnownProp) string {
	if v := s.values[p]; v != "" {
		return v
	}
	return InitialValues[p]
}

// IsSet returns true if [p] has been explicitly set (or inherited).
func (s *Style) IsSet(p KnownProp) bool { return s.values[p] != "" }

// Set stores the specified value of [p]. An empty value resets [p].
func (s *Style) Set(p KnownProp, value string) {
	s.values[p] = strings.TrimSpace(value)
	delete(s.lengths, p)
	if p == PFontSize {
		s.lengths = nil
	}
}

// GetPropertyValue returns the value of the (longhand) property named [name].
func (s *Style) GetPropertyValue(name string) (string, bool) {
	p, ok := PropFromName(strings.ToLower(name))
	if !ok {
		return "", false
	}
	return s.Get(p), true
}

// SetProperty parses [value] and stores it, expanding shorthands.
func (s *Style) SetProperty(name, value string) error {
	tokens, err := pa.ParseComponentValues(value)
	if err != nil {
		return err
	}
	longhands, err := Expand(name, tokens)
	if err != nil {
		return err
	}
	for _, l := range longhands {
		s.Set(l.Prop, l.Value)
	}
	return nil
}

// SetDeclarations applies the declarations found in [css], typically the
// content of a style attribute. Invalid or unsupported declarations are
// logged and ignored.
func (s *Style) SetDeclarations(css string) {
	decls, err := pa.ParseDeclarationListString(css)
	if err != nil {
		logger.WarningLogger.Printf("Ignored style %q: %s", css, err)
		return
	}
	for _, decl := range decls {
		longhands, err := Expand(decl.Name, decl.Value)
		if err != nil {
			logger.WarningLogger.Printf("Ignored `%s: %s` at %d:%d, %s.",
				decl.Name, pa.Serialize(decl.Value), decl.Pos.Line, decl.Pos.Column, err)
			continue
		}
		for _, l := range longhands {
			s.Set(l.Prop, l.Value)
		}
	}
}

// InheritFrom resolves the "inherit" keyword and the inherited
// properties against [parent], which is nil for the root.
// It also computes the font size, and converts font relative line heights
// to pixels so that children inherit the computed value.
func (s *Style) InheritFrom(parent *Style) {
	parentFontSize := MediumFontSize
	if parent != nil {
		parentFontSize = parent.fontSize
	}
	ownFontSize := s.values[PFontSize]
	if strings.EqualFold(ownFontSize, "inherit") {
		ownFontSize = ""
	}
	for p := KnownProp(1); p < NbProperties; p++ {
		v := s.values[p]
		if strings.EqualFold(v, "inherit") || (v == "" && Inherited[p]) {
			if parent != nil {
				s.values[p] = parent.values[p]
			} else {
				s.values[p] = ""
			}
		}
	}
	s.lengths = nil
	s.fontSize = computeFontSize(ownFontSize, parentFontSize)

	if lh := s.values[PLineHeight]; lh != "" {
		v, err := parseValue(lh)
		if err == nil && v.Keyword == "" && v.Unit != Scalar && v.Unit != Px {
			s.values[PLineHeight] = fmt.Sprintf("%gpx", Fl(v.ToPixels(s.fontSize, s.fontSize)))
		}
	}
}

func computeFontSize(value string, parentFontSize Float) Float {
	value = strings.ToLower(value)
	switch value {
	case "":
		return parentFontSize
	case "larger":
		return parentFontSize * 1.2
	case "smaller":
		return parentFontSize / 1.2
	}
	if fs, ok := FontSizeKeywords[value]; ok {
		return fs
	}
	v, err := parseValue(value)
	if err != nil || v.Keyword != "" {
		logger.WarningLogger.Printf("Ignored font-size %q", value)
		return parentFontSize
	}
	if v.Unit == Rem {
		return v.Value * MediumFontSize
	}
	return v.ToPixels(parentFontSize, parentFontSize)
}

// FontSize returns the computed font size, in pixels.
func (s *Style) FontSize() Float { return s.fontSize }

// parseValue parses a single keyword or length.
func parseValue(value string) (Value, error) {
	tokens, err := pa.ParseComponentValues(value)
	if err != nil {
		return Value{}, err
	}
	if len(tokens) != 1 {
		return Value{}, fmt.Errorf("expected one component, got %q", value)
	}
	return tokenToValue(tokens[0])
}

func tokenToValue(token pa.Token) (Value, error) {
	if token.Kind() == pa.KIdent {
		return Value{Keyword: strings.ToLower(token.Ident)}, nil
	}
	v, unitName, ok := token.Numeric()
	if !ok {
		return Value{}, fmt.Errorf("invalid length %s", pa.Serialize([]pa.Token{token}))
	}
	unit, ok := unitNames[unitName]
	if !ok {
		return Value{}, fmt.Errorf("unknown unit %s", unitName)
	}
	return Value{Dimension: Dimension{Value: Float(v), Unit: unit}}, nil
}

// Length returns the parsed value of [p], which must be a length property
// (width, margin-top, text-indent, ...). An invalid value is logged and
// replaced by the initial value.
func (s *Style) Length(p KnownProp) Value {
	if v, ok := s.lengths[p]; ok {
		return v
	}
	v, err := parseValue(s.Get(p))
	if err != nil {
		logger.WarningLogger.Printf("Ignored %s: %s", p, err)
		v, _ = parseValue(InitialValues[p])
	}
	if v.Keyword == "" && v.Unit == Scalar {
		// unitless lengths are only valid for 0; accept them as pixels
		v.Unit = Px
	}
	if s.lengths == nil {
		s.lengths = make(map[KnownProp]Value)
	}
	s.lengths[p] = v
	return v
}

// Resolve returns the length of [p] in pixels, resolving percentages
// against [referTo].
func (s *Style) Resolve(p KnownProp, referTo MaybeFloat) MaybeFloat {
	return ResolveLength(s.Length(p), referTo, s.fontSize)
}

// Keyword returns the lower-cased specified value of [p].
func (s *Style) Keyword(p KnownProp) string {
	return strings.ToLower(s.Get(p))
}

func (s *Style) Display() string       { return s.Keyword(PDisplay) }
func (s *Style) Position() string      { return s.Keyword(PPosition) }
func (s *Style) Float() string         { return s.Keyword(PFloat) }
func (s *Style) WhiteSpace() string    { return s.Keyword(PWhiteSpace) }
func (s *Style) Direction() string     { return s.Keyword(PDirection) }
func (s *Style) VerticalAlign() string { return s.Keyword(PVerticalAlign) }
func (s *Style) ListStyleType() string { return s.Keyword(PListStyleType) }
func (s *Style) BoxSizing() string     { return s.Keyword(PBoxSizing) }
func (s *Style) Overflow() string      { return s.Keyword(POverflow) }

// TextAlign returns left, right, center or justify,
// resolving start and end against the direction.
func (s *Style) TextAlign() string {
	switch ta := s.Keyword(PTextAlign); ta {
	case "start":
		if s.Direction() == "rtl" {
			return "right"
		}
		return "left"
	case "end":
		if s.Direction() == "rtl" {
			return "left"
		}
		return "right"
	default:
		return ta
	}
}

// IsVisible returns false for "visibility: hidden" and "visibility: collapse".
func (s *Style) IsVisible() bool { return s.Keyword(PVisibility) == "visible" }

// BorderWidth returns the used border width of [side]:
// 0 when the border style is none or hidden.
func (s *Style) BorderWidth(side Side) Float {
	if st := s.Keyword(side.BorderStyle()); st == "none" || st == "hidden" {
		return 0
	}
	raw := s.Keyword(side.BorderWidth())
	if w, ok := BorderWidthKeywords[raw]; ok {
		return w
	}
	v := s.Length(side.BorderWidth())
	if v.Keyword != "" || v.Unit == Perc {
		return BorderWidthKeywords["medium"]
	}
	return Max(0, v.ToPixels(0, s.fontSize))
}

// Color returns the color stored in [p], resolving "currentcolor".
func (s *Style) Color(p KnownProp) Color {
	raw := s.Get(p)
	if p != PColor && strings.EqualFold(raw, "currentcolor") {
		return s.Color(PColor)
	}
	c, ok := ParseColor(raw)
	if !ok {
		logger.WarningLogger.Printf("Ignored %s: invalid color %q", p, raw)
		c, _ = ParseColor(InitialValues[p])
		if p != PColor && strings.EqualFold(InitialValues[p], "currentcolor") {
			return s.Color(PColor)
		}
	}
	return c
}

// BorderSpacing returns the horizontal and vertical spacing between cells.
func (s *Style) BorderSpacing() (h, v Float) {
	if s.Keyword(PBorderCollapse) == "collapse" {
		return 0, 0
	}
	tokens, err := pa.ParseComponentValues(s.Get(PBorderSpacing))
	if err != nil || len(tokens) == 0 || len(tokens) > 2 {
		return 0, 0
	}
	var out [2]Float
	for i, token := range tokens {
		d, err := tokenToValue(token)
		if err != nil || d.Keyword != "" {
			return 0, 0
		}
		out[i] = d.ToPixels(0, s.fontSize)
	}
	if len(tokens) == 1 {
		out[1] = out[0]
	}
	return out[0], out[1]
}

// LineHeight returns the used line height, or [AutoF] for "normal".
func (s *Style) LineHeight() MaybeFloat {
	v, err := parseValue(s.Get(PLineHeight))
	if err != nil || v.Keyword != "" {
		return AutoF
	}
	if v.Unit == Scalar {
		return v.Value * s.fontSize
	}
	return v.ToPixels(s.fontSize, s.fontSize)
}

// WordSpacing returns the extra spacing between words.
func (s *Style) WordSpacing() Float {
	v := s.Length(PWordSpacing)
	if v.Keyword != "" {
		return 0
	}
	return v.ToPixels(0, s.fontSize)
}

// FontWeight returns the numeric font weight.
func (s *Style) FontWeight() int {
	switch w := s.Keyword(PFontWeight); w {
	case "normal", "lighter":
		return 400
	case "bold", "bolder":
		return 700
	default:
		n, err := strconv.Atoi(w)
		if err != nil {
			return 400
		}
		return n
	}
}

// IsItalic returns true for italic and oblique font styles.
func (s *Style) IsItalic() bool {
	st := s.Keyword(PFontStyle)
	return st == "italic" || st == "oblique"
}

// FontFamily returns the list of families, unquoted.
func (s *Style) FontFamily() []string {
	var out []string
	for _, f := range strings.Split(s.Get(PFontFamily), ",") {
		f = strings.Trim(strings.TrimSpace(f), `"'`)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// BackgroundImage returns the target of a background-image url(), or "".
func (s *Style) BackgroundImage() string {
	tokens, err := pa.ParseComponentValues(s.Get(PBackgroundImage))
	if err != nil || len(tokens) != 1 {
		return ""
	}
	u, _ := tokens[0].URLTarget()
	return u
}

// PageBreakBefore returns true for forced page breaks before the box.
func (s *Style) PageBreakBefore() bool {
	v := s.Keyword(PPageBreakBefore)
	return v == "always" || v == "page" || v == "left" || v == "right"
}

// PageBreakAfter returns true for forced page breaks after the box.
func (s *Style) PageBreakAfter() bool {
	v := s.Keyword(PPageBreakAfter)
	return v == "always" || v == "page" || v == "left" || v == "right"
}

// AvoidPageBreakInside returns true for "page-break-inside: avoid".
func (s *Style) AvoidPageBreakInside() bool {
	return s.Keyword(PPageBreakInside) == "avoid"
}
