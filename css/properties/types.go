package properties

import (
	"fmt"
	"math"

	"github.com/laughinglion/PeachPDF-sub000/utils"
)

type Fl = utils.Fl

// Float is a resolved length, in pixels.
type Float Fl

// MaybeFloat is either a resolved [Float] or [AutoF],
// which stands for a length not known yet.
type MaybeFloat interface {
	// V returns the resolved value. It panics on [AutoF]:
	// callers must check with [IsAuto] first.
	V() Float
}

func (f Float) V() Float { return f }

func (f Float) String() string { return fmt.Sprintf("%g", Fl(f)) }

type autoFloat struct{}

func (autoFloat) V() Float { panic("unresolved length read as a dimension") }

func (autoFloat) String() string { return "auto" }

// AutoF is the unresolved length.
var AutoF MaybeFloat = autoFloat{}

// Inf is used for unbounded available widths.
var Inf = Float(math.Inf(1))

// IsAuto returns true for [AutoF] (and nil).
func IsAuto(m MaybeFloat) bool {
	_, ok := m.(Float)
	return !ok
}

// Or returns the resolved value, or [def] if [m] is [AutoF].
func Or(m MaybeFloat, def Float) Float {
	if f, ok := m.(Float); ok {
		return f
	}
	return def
}

// MaxM returns the max of the resolved values, ignoring [AutoF].
// It returns [AutoF] if no value is resolved.
func MaxM(values ...MaybeFloat) MaybeFloat {
	var (
		out   Float
		found bool
	)
	for _, v := range values {
		f, ok := v.(Float)
		if !ok {
			continue
		}
		if !found || f > out {
			out, found = f, true
		}
	}
	if !found {
		return AutoF
	}
	return out
}

func Max(a, b Float) Float {
	if a > b {
		return a
	}
	return b
}

func Min(a, b Float) Float {
	if a < b {
		return a
	}
	return b
}

type Unit uint8

const (
	Scalar Unit = iota // no unit
	Perc               // %
	Px
	Pt
	Pc
	In
	Cm
	Mm
	Q
	Em
	Ex
	Rem
)

var unitNames = map[string]Unit{
	"":    Scalar,
	"%":   Perc,
	"px":  Px,
	"pt":  Pt,
	"pc":  Pc,
	"in":  In,
	"cm":  Cm,
	"mm":  Mm,
	"q":   Q,
	"em":  Em,
	"ex":  Ex,
	"rem": Rem,
}

// LengthsToPixels maps absolute units to their value in pixels.
var LengthsToPixels = map[Unit]Float{
	Px: 1,
	Pt: 1. / 0.75,
	Pc: 16.,             // LengthsToPixels["pt"] * 12
	In: 96.,             // LengthsToPixels["pt"] * 72
	Cm: 96. / 2.54,      // LengthsToPixels["in"] / 2.54
	Mm: 96. / 25.4,      // LengthsToPixels["in"] / 25.4
	Q:  96. / 25.4 / 4., // LengthsToPixels[Mm] / 4
}

// MediumFontSize is the initial font size, in pixels.
const MediumFontSize Float = 16

// FontSizeKeywords gives the value of <absolute-size> keywords, as a ratio of medium.
var FontSizeKeywords = map[string]Float{
	"xx-small": MediumFontSize * 3 / 5,
	"x-small":  MediumFontSize * 3 / 4,
	"small":    MediumFontSize * 8 / 9,
	"medium":   MediumFontSize,
	"large":    MediumFontSize * 6 / 5,
	"x-large":  MediumFontSize * 3 / 2,
	"xx-large": MediumFontSize * 2,
}

// BorderWidthKeywords gives the width of border keywords.
var BorderWidthKeywords = map[string]Float{
	"thin":   1,
	"medium": 3,
	"thick":  5,
}

type Dimension struct {
	Value Float
	Unit  Unit
}

func (d Dimension) String() string {
	for name, u := range unitNames {
		if u == d.Unit {
			return fmt.Sprintf("%g%s", Fl(d.Value), name)
		}
	}
	return fmt.Sprintf("%g", Fl(d.Value))
}

// ToPixels converts an absolute or font relative length.
// Percentages are resolved against [referTo].
func (d Dimension) ToPixels(referTo, fontSize Float) Float {
	switch d.Unit {
	case Scalar:
		return d.Value
	case Perc:
		return referTo * d.Value / 100
	case Em, Rem:
		return fontSize * d.Value
	case Ex:
		return fontSize * d.Value / 2
	default:
		return d.Value * LengthsToPixels[d.Unit]
	}
}

// Value is a parsed length value: either a keyword (like "auto")
// or a dimension.
type Value struct {
	Keyword string
	Dimension
}

// IsNone returns true for the "none" keyword, used by max-width and max-height.
func (v Value) IsNone() bool { return v.Keyword == "none" }

func (v Value) String() string {
	if v.Keyword != "" {
		return v.Keyword
	}
	return v.Dimension.String()
}

var (
	auto = Value{Keyword: "auto"}
	zero = Value{Dimension: Dimension{Unit: Px}}
)

// ResolveLength returns the length in pixels of [v], resolving
// percentages against [referTo]. Keywords ("auto", "none", "normal")
// resolve to [AutoF], as do percentages of an unresolved reference.
func ResolveLength(v Value, referTo MaybeFloat, fontSize Float) MaybeFloat {
	if v.Keyword != "" {
		return AutoF
	}
	if v.Unit == Perc {
		if IsAuto(referTo) {
			return AutoF
		}
		return v.ToPixels(referTo.V(), fontSize)
	}
	return v.ToPixels(0, fontSize)
}
