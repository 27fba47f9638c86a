package properties

// KnownProp is a CSS property used by the layout engine.
type KnownProp uint8

const (
	_ KnownProp = iota
	PBackgroundColor
	PBackgroundImage
	PBorderCollapse
	PBorderSpacing
	PBottom
	PBoxSizing
	PClear
	PColor
	PDirection
	PDisplay
	PFloat
	PFontFamily
	PFontSize
	PFontStyle
	PFontWeight
	PHeight
	PLeft
	PLineHeight
	PListStyleType
	PListStylePosition
	PMaxHeight
	PMaxWidth
	PMinHeight
	PMinWidth
	POverflow
	PPageBreakAfter
	PPageBreakBefore
	PPageBreakInside
	PPosition
	PRight
	PTextAlign
	PTextIndent
	PTop
	PUnicodeBidi
	PVerticalAlign
	PVisibility
	PWhiteSpace
	PWidth
	PWordSpacing

	// the following properties are grouped by side,
	// in the [bottom, left, right, top] order,
	// so that, if side in an index (0, 1, 2 or 3),
	// the property is a PBorderBottomColor + side * 5
	// DO NOT CHANGE the order
	PBorderBottomColor
	PBorderBottomStyle
	PBorderBottomWidth
	PMarginBottom
	PPaddingBottom

	PBorderLeftColor
	PBorderLeftStyle
	PBorderLeftWidth
	PMarginLeft
	PPaddingLeft

	PBorderRightColor
	PBorderRightStyle
	PBorderRightWidth
	PMarginRight
	PPaddingRight

	PBorderTopColor
	PBorderTopStyle
	PBorderTopWidth
	PMarginTop
	PPaddingTop

	NbProperties
)

// Side is an index in the side grouped properties.
type Side uint8

const (
	Bottom Side = iota
	Left
	Right
	Top
)

// Sides lists the sides in the usual CSS order.
var Sides = [4]Side{Top, Right, Bottom, Left}

func (s Side) String() string {
	return [...]string{"bottom", "left", "right", "top"}[s]
}

func (s Side) BorderColor() KnownProp { return PBorderBottomColor + KnownProp(s)*5 }
func (s Side) BorderStyle() KnownProp { return PBorderBottomStyle + KnownProp(s)*5 }
func (s Side) BorderWidth() KnownProp { return PBorderBottomWidth + KnownProp(s)*5 }
func (s Side) Margin() KnownProp      { return PMarginBottom + KnownProp(s)*5 }
func (s Side) Padding() KnownProp     { return PPaddingBottom + KnownProp(s)*5 }

var propsNames = [...]string{
	PBackgroundColor:   "background-color",
	PBackgroundImage:   "background-image",
	PBorderCollapse:    "border-collapse",
	PBorderSpacing:     "border-spacing",
	PBottom:            "bottom",
	PBoxSizing:         "box-sizing",
	PClear:             "clear",
	PColor:             "color",
	PDirection:         "direction",
	PDisplay:           "display",
	PFloat:             "float",
	PFontFamily:        "font-family",
	PFontSize:          "font-size",
	PFontStyle:         "font-style",
	PFontWeight:        "font-weight",
	PHeight:            "height",
	PLeft:              "left",
	PLineHeight:        "line-height",
	PListStyleType:     "list-style-type",
	PListStylePosition: "list-style-position",
	PMaxHeight:         "max-height",
	PMaxWidth:          "max-width",
	PMinHeight:         "min-height",
	PMinWidth:          "min-width",
	POverflow:          "overflow",
	PPageBreakAfter:    "page-break-after",
	PPageBreakBefore:   "page-break-before",
	PPageBreakInside:   "page-break-inside",
	PPosition:          "position",
	PRight:             "right",
	PTextAlign:         "text-align",
	PTextIndent:        "text-indent",
	PTop:               "top",
	PUnicodeBidi:       "unicode-bidi",
	PVerticalAlign:     "vertical-align",
	PVisibility:        "visibility",
	PWhiteSpace:        "white-space",
	PWidth:             "width",
	PWordSpacing:       "word-spacing",

	PBorderBottomColor: "border-bottom-color",
	PBorderBottomStyle: "border-bottom-style",
	PBorderBottomWidth: "border-bottom-width",
	PMarginBottom:      "margin-bottom",
	PPaddingBottom:     "padding-bottom",
	PBorderLeftColor:   "border-left-color",
	PBorderLeftStyle:   "border-left-style",
	PBorderLeftWidth:   "border-left-width",
	PMarginLeft:        "margin-left",
	PPaddingLeft:       "padding-left",
	PBorderRightColor:  "border-right-color",
	PBorderRightStyle:  "border-right-style",
	PBorderRightWidth:  "border-right-width",
	PMarginRight:       "margin-right",
	PPaddingRight:      "padding-right",
	PBorderTopColor:    "border-top-color",
	PBorderTopStyle:    "border-top-style",
	PBorderTopWidth:    "border-top-width",
	PMarginTop:         "margin-top",
	PPaddingTop:        "padding-top",
}

var propsFromNames = map[string]KnownProp{}

func init() {
	for p, name := range propsNames {
		if name != "" {
			propsFromNames[name] = KnownProp(p)
		}
	}
}

func (p KnownProp) String() string {
	if int(p) < len(propsNames) {
		return propsNames[p]
	}
	return "<unknown property>"
}

// PropFromName returns the property for the (lower case) CSS name,
// or false.
func PropFromName(name string) (KnownProp, bool) {
	p, ok := propsFromNames[name]
	return p, ok
}

// InitialValues stores the CSS initial value of each property,
// as specified strings.
var InitialValues = [NbProperties]string{
	PBackgroundColor:   "transparent",
	PBackgroundImage:   "none",
	PBorderCollapse:    "separate",
	PBorderSpacing:     "0",
	PBottom:            "auto",
	PBoxSizing:         "content-box",
	PClear:             "none",
	PColor:             "black",
	PDirection:         "ltr",
	PDisplay:           "inline",
	PFloat:             "none",
	PFontFamily:        "serif",
	PFontSize:          "medium",
	PFontStyle:         "normal",
	PFontWeight:        "normal",
	PHeight:            "auto",
	PLeft:              "auto",
	PLineHeight:        "normal",
	PListStyleType:     "disc",
	PListStylePosition: "outside",
	PMaxHeight:         "none",
	PMaxWidth:          "none",
	PMinHeight:         "0",
	PMinWidth:          "0",
	POverflow:          "visible",
	PPageBreakAfter:    "auto",
	PPageBreakBefore:   "auto",
	PPageBreakInside:   "auto",
	PPosition:          "static",
	PRight:             "auto",
	PTextAlign:         "start",
	PTextIndent:        "0",
	PTop:               "auto",
	PUnicodeBidi:       "normal",
	PVerticalAlign:     "baseline",
	PVisibility:        "visible",
	PWhiteSpace:        "normal",
	PWidth:             "auto",
	PWordSpacing:       "normal",

	PBorderBottomColor: "currentcolor",
	PBorderBottomStyle: "none",
	PBorderBottomWidth: "medium",
	PMarginBottom:      "0",
	PPaddingBottom:     "0",
	PBorderLeftColor:   "currentcolor",
	PBorderLeftStyle:   "none",
	PBorderLeftWidth:   "medium",
	PMarginLeft:        "0",
	PPaddingLeft:       "0",
	PBorderRightColor:  "currentcolor",
	PBorderRightStyle:  "none",
	PBorderRightWidth:  "medium",
	PMarginRight:       "0",
	PPaddingRight:      "0",
	PBorderTopColor:    "currentcolor",
	PBorderTopStyle:    "none",
	PBorderTopWidth:    "medium",
	PMarginTop:         "0",
	PPaddingTop:        "0",
}

// Inherited stores the properties inherited by default.
var Inherited = map[KnownProp]bool{
	PBorderCollapse:    true,
	PBorderSpacing:     true,
	PColor:             true,
	PDirection:         true,
	PFontFamily:        true,
	PFontSize:          true,
	PFontStyle:         true,
	PFontWeight:        true,
	PLineHeight:        true,
	PListStyleType:     true,
	PListStylePosition: true,
	PTextAlign:         true,
	PTextIndent:        true,
	PVisibility:        true,
	PWhiteSpace:        true,
	PWordSpacing:       true,
}
