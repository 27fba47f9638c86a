package properties

import (
	"image/color"
	"strconv"
	"strings"

	pa "github.com/laughinglion/PeachPDF-sub000/css/parser"
)

// Color is a non-premultiplied RGBA color.
type Color = color.NRGBA

// Transparent is the "transparent" keyword.
var Transparent = Color{}

var namedColors = map[string]Color{
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"silver":  {R: 192, G: 192, B: 192, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"maroon":  {R: 128, G: 0, B: 0, A: 255},
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"purple":  {R: 128, G: 0, B: 128, A: 255},
	"fuchsia": {R: 255, G: 0, B: 255, A: 255},
	"green":   {R: 0, G: 128, B: 0, A: 255},
	"lime":    {R: 0, G: 255, B: 0, A: 255},
	"olive":   {R: 128, G: 128, B: 0, A: 255},
	"yellow":  {R: 255, G: 255, B: 0, A: 255},
	"navy":    {R: 0, G: 0, B: 128, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"teal":    {R: 0, G: 128, B: 128, A: 255},
	"aqua":    {R: 0, G: 255, B: 255, A: 255},
	"orange":  {R: 255, G: 165, B: 0, A: 255},

	"darkgray":  {R: 169, G: 169, B: 169, A: 255},
	"lightgray": {R: 211, G: 211, B: 211, A: 255},
	"lightgrey": {R: 211, G: 211, B: 211, A: 255},
	"darkblue":  {R: 0, G: 0, B: 139, A: 255},
	"darkred":   {R: 139, G: 0, B: 0, A: 255},
	"darkgreen": {R: 0, G: 100, B: 0, A: 255},
	"brown":     {R: 165, G: 42, B: 42, A: 255},
	"pink":      {R: 255, G: 192, B: 203, A: 255},
	"gold":      {R: 255, G: 215, B: 0, A: 255},
	"beige":     {R: 245, G: 245, B: 220, A: 255},

	"transparent": Transparent,
}

// ParseColor parses a named, hexadecimal, rgb() or rgba() color.
// "currentcolor" is handled by [Style.Color].
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHash(s[1:])
	}
	tokens, err := pa.ParseComponentValues(s)
	if err != nil || len(tokens) != 1 || tokens[0].Kind() != pa.KFunction {
		return Color{}, false
	}
	fn := tokens[0].Function
	switch fn.FunctionName() {
	case "rgb", "rgba":
		return parseRGB(fn.Arguments)
	}
	return Color{}, false
}

func parseHash(s string) (Color, bool) {
	switch len(s) {
	case 3, 4:
		// #rgb expands to #rrggbb
		expanded := make([]byte, 0, 8)
		for i := 0; i < len(s); i++ {
			expanded = append(expanded, s[i], s[i])
		}
		s = string(expanded)
	case 6, 8:
	default:
		return Color{}, false
	}
	var channels [4]uint8
	channels[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return Color{}, false
		}
		channels[i] = uint8(v)
	}
	return Color{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, true
}

func parseRGB(args []pa.Token) (Color, bool) {
	var values []float64
	var units []string
	for _, arg := range args {
		if arg.Literal == "," || arg.Literal == "/" {
			continue
		}
		v, unit, ok := arg.Numeric()
		if !ok {
			return Color{}, false
		}
		values = append(values, v)
		units = append(units, unit)
	}
	if len(values) != 3 && len(values) != 4 {
		return Color{}, false
	}
	var channels [4]uint8
	channels[3] = 255
	for i, v := range values {
		if i == 3 { // alpha
			if units[i] == "%" {
				v /= 100
			}
			channels[3] = clampChannel(v * 255)
			continue
		}
		if units[i] == "%" {
			v = v * 255 / 100
		}
		channels[i] = clampChannel(v)
	}
	return Color{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, true
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
