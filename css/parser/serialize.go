package parser

import (
	"strconv"
	"strings"
)

// Serialize writes back the tokens, normalizing whitespace:
// one space between components, none before commas.
func Serialize(l []Token) string {
	var b strings.Builder
	serializeTo(l, &b)
	return b.String()
}

func serializeTo(l []Token, b *strings.Builder) {
	for i, t := range l {
		if i > 0 && t.Literal != "," {
			b.WriteByte(' ')
		}
		t.serializeTo(b)
	}
}

func (t Token) serializeTo(b *strings.Builder) {
	switch t.Kind() {
	case KFunction:
		b.WriteString(t.Function.Name)
		serializeTo(t.Function.Arguments, b)
		b.WriteByte(')')
	case KURL:
		b.WriteString(t.URL)
	case KDimension:
		b.WriteString(t.Dimension)
	case KNumber:
		b.WriteString(t.Number)
	case KHash:
		b.WriteString(t.Hash)
	case KString:
		b.WriteString(strconv.Quote(t.String.Value))
	case KIdent:
		b.WriteString(t.Ident)
	case KLiteral:
		b.WriteString(t.Literal)
	}
}
