package properties

import (
	"fmt"
	"strings"

	pa "github.com/laughinglion/PeachPDF-sub000/css/parser"
)

// Longhand is one expanded declaration.
type Longhand struct {
	Prop  KnownProp
	Value string
}

type expander func(name string, tokens []pa.Token) ([]Longhand, error)

var expanders = map[string]expander{
	"margin":        expandFourSides,
	"padding":       expandFourSides,
	"border-width":  expandFourSides,
	"border-style":  expandFourSides,
	"border-color":  expandFourSides,
	"border":        expandBorder,
	"border-top":    expandBorderSide,
	"border-right":  expandBorderSide,
	"border-bottom": expandBorderSide,
	"border-left":   expandBorderSide,
	"list-style":    expandListStyle,
	"background":    expandBackground,
}

// Expand returns the longhand declarations for the property [name],
// which may be a shorthand.
func Expand(name string, tokens []pa.Token) ([]Longhand, error) {
	name = strings.ToLower(name)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty value for %s", name)
	}
	if exp, ok := expanders[name]; ok {
		return exp(name, tokens)
	}
	prop, ok := PropFromName(name)
	if !ok {
		return nil, fmt.Errorf("unknown property %s", name)
	}
	return []Longhand{{prop, pa.Serialize(tokens)}}, nil
}

func expandFourSides(name string, tokens []pa.Token) ([]Longhand, error) {
	// Make sure we have 4 tokens
	switch len(tokens) {
	case 1:
		tokens = []pa.Token{tokens[0], tokens[0], tokens[0], tokens[0]}
	case 2:
		tokens = []pa.Token{tokens[0], tokens[1], tokens[0], tokens[1]} // (bottom, left) defaults to (top, right)
	case 3:
		tokens = append(tokens, tokens[1]) // left defaults to right
	case 4:
	default:
		return nil, fmt.Errorf("expected 1 to 4 token components got %d", len(tokens))
	}

	out := make([]Longhand, 4)
	for i, side := range Sides {
		var prop KnownProp
		switch name {
		case "margin":
			prop = side.Margin()
		case "padding":
			prop = side.Padding()
		case "border-width":
			prop = side.BorderWidth()
		case "border-style":
			prop = side.BorderStyle()
		case "border-color":
			prop = side.BorderColor()
		}
		out[i] = Longhand{prop, pa.Serialize(tokens[i : i+1])}
	}
	return out, nil
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// splitBorder classifies the components of a border shorthand.
// Missing components are reset to their initial value.
func splitBorder(tokens []pa.Token) (width, style, color string, err error) {
	width, style, color = "medium", "none", "currentcolor"
	for _, token := range tokens {
		_, _, isNumeric := token.Numeric()
		switch {
		case isNumeric:
			width = pa.Serialize([]pa.Token{token})
		case token.Kind() == pa.KIdent && BorderWidthKeywords[strings.ToLower(token.Ident)] != 0:
			width = strings.ToLower(token.Ident)
		case token.Kind() == pa.KIdent && borderStyles[strings.ToLower(token.Ident)]:
			style = strings.ToLower(token.Ident)
		default:
			c := pa.Serialize([]pa.Token{token})
			if _, ok := ParseColor(c); !ok {
				return "", "", "", fmt.Errorf("invalid border component %s", c)
			}
			color = c
		}
	}
	return width, style, color, nil
}

func borderSide(side Side, tokens []pa.Token) ([]Longhand, error) {
	width, style, color, err := splitBorder(tokens)
	if err != nil {
		return nil, err
	}
	return []Longhand{
		{side.BorderWidth(), width},
		{side.BorderStyle(), style},
		{side.BorderColor(), color},
	}, nil
}

func expandBorderSide(name string, tokens []pa.Token) ([]Longhand, error) {
	var side Side
	switch name {
	case "border-top":
		side = Top
	case "border-right":
		side = Right
	case "border-bottom":
		side = Bottom
	default:
		side = Left
	}
	return borderSide(side, tokens)
}

func expandBorder(_ string, tokens []pa.Token) ([]Longhand, error) {
	var out []Longhand
	for _, side := range Sides {
		l, err := borderSide(side, tokens)
		if err != nil {
			return nil, err
		}
		out = append(out, l...)
	}
	return out, nil
}

func expandListStyle(_ string, tokens []pa.Token) ([]Longhand, error) {
	var out []Longhand
	for _, token := range tokens {
		if token.Kind() != pa.KIdent {
			continue // list-style-image is not supported
		}
		switch kw := strings.ToLower(token.Ident); kw {
		case "inside", "outside":
			out = append(out, Longhand{PListStylePosition, kw})
		default:
			out = append(out, Longhand{PListStyleType, kw})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("invalid list-style %s", pa.Serialize(tokens))
	}
	return out, nil
}

func expandBackground(_ string, tokens []pa.Token) ([]Longhand, error) {
	out := []Longhand{{PBackgroundColor, "transparent"}, {PBackgroundImage, "none"}}
	for _, token := range tokens {
		if _, isURL := token.URLTarget(); isURL {
			out[1].Value = pa.Serialize([]pa.Token{token})
			continue
		}
		c := pa.Serialize([]pa.Token{token})
		if _, ok := ParseColor(c); ok {
			out[0].Value = c
		}
		// positions, repeat and attachment are ignored
	}
	return out, nil
}
