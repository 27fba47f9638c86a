// Package parser implements the small subset of CSS syntax needed to read
// style attributes and property values: declaration lists
// ("width: 50%; margin: 0 auto") and component values ("1px solid red").
//
// The grammar is written with participle; selectors and stylesheets are out of
// scope, since boxes come with their declarations already matched.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	cssLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "Whitespace", Pattern: `[ \t\r\n\f]+`},
		{Name: "URL", Pattern: `(?i)url\(\s*[^"'()\s]*\s*\)`},
		{Name: "Dimension", Pattern: `[-+]?(?:\d+\.\d+|\.\d+|\d+)(?:%|[A-Za-z]+)`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d+|\.\d+|\d+)`},
		{Name: "Hash", Pattern: `#[-\w]+`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},
		{Name: "Function", Pattern: `-?[A-Za-z_][-\w]*\(`},
		{Name: "Ident", Pattern: `-?[A-Za-z_][-\w]*`},
		{Name: "Punct", Pattern: `[:;,/!()*+>=]`},
	})

	declarationsParser = participle.MustBuild[declarationList](
		participle.Lexer(cssLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
	)

	valuesParser = participle.MustBuild[componentList](
		participle.Lexer(cssLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
	)
)

type declarationList struct {
	Declarations []*Declaration `parser:"';'* ( @@ ';'* )*"`
}

type componentList struct {
	Tokens []Token `parser:"@@*"`
}

// Declaration is one "name: value [!important]" item.
type Declaration struct {
	Pos       lexer.Position
	Name      string  `parser:"@Ident ':'"`
	Value     []Token `parser:"@@*"`
	Important string  `parser:"( '!' @Ident )?"`
}

// IsImportant returns true for "!important" declarations.
func (d Declaration) IsImportant() bool {
	return strings.EqualFold(d.Important, "important")
}

// Token is a component value. Exactly one field is set.
type Token struct {
	Pos       lexer.Position
	Function  *FunctionBlock `parser:"  @@"`
	URL       string         `parser:"| @URL"`
	Dimension string         `parser:"| @Dimension"`
	Number    string         `parser:"| @Number"`
	Hash      string         `parser:"| @Hash"`
	String    *StringLit     `parser:"| @@"`
	Ident     string         `parser:"| @Ident"`
	Literal   string         `parser:"| @( ',' | '/' | '*' | '+' | '>' | '=' )"`
}

// StringLit is an unquoted string token.
type StringLit struct {
	Value string `parser:"@String"`
}

// FunctionBlock is a function call like "rgb(0, 0, 0)".
type FunctionBlock struct {
	Name      string  `parser:"@Function"`
	Arguments []Token `parser:"@@* ')'"`
}

// FunctionName returns the lower-cased name, without the parenthesis.
func (f FunctionBlock) FunctionName() string {
	return strings.ToLower(strings.TrimSuffix(f.Name, "("))
}

type TokenKind uint8

const (
	KInvalid TokenKind = iota
	KIdent
	KNumber
	KDimension
	KHash
	KString
	KURL
	KFunction
	KLiteral
)

func (t Token) Kind() TokenKind {
	switch {
	case t.Function != nil:
		return KFunction
	case t.URL != "":
		return KURL
	case t.Dimension != "":
		return KDimension
	case t.Number != "":
		return KNumber
	case t.Hash != "":
		return KHash
	case t.String != nil:
		return KString
	case t.Ident != "":
		return KIdent
	case t.Literal != "":
		return KLiteral
	default:
		return KInvalid
	}
}

// IsIdent returns true if the token is the (ASCII case-insensitive) keyword.
func (t Token) IsIdent(keyword string) bool {
	return t.Ident != "" && strings.EqualFold(t.Ident, keyword)
}

// Numeric splits a number or a dimension token into its value and unit.
// The unit is lower-cased, "%" for percentages and empty for numbers.
func (t Token) Numeric() (value float64, unit string, ok bool) {
	s := t.Number
	if t.Dimension != "" {
		s = t.Dimension
	}
	if s == "" {
		return 0, "", false
	}
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if ('0' <= c && c <= '9') || c == '.' {
			break
		}
		end--
	}
	value, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, "", false
	}
	return value, strings.ToLower(s[end:]), true
}

// URLTarget returns the address of an url(...) token, quoted or not.
func (t Token) URLTarget() (string, bool) {
	if t.URL != "" {
		inner := t.URL[strings.IndexByte(t.URL, '(')+1 : len(t.URL)-1]
		return strings.TrimSpace(inner), true
	}
	if t.Function != nil && t.Function.FunctionName() == "url" && len(t.Function.Arguments) == 1 {
		if arg := t.Function.Arguments[0]; arg.String != nil {
			return arg.String.Value, true
		}
	}
	return "", false
}

// ParseDeclarationListString parses the content of a style attribute.
func ParseDeclarationListString(css string) ([]Declaration, error) {
	list, err := declarationsParser.ParseString("", css)
	if err != nil {
		return nil, fmt.Errorf("invalid declaration list %q: %w", css, err)
	}
	out := make([]Declaration, len(list.Declarations))
	for i, d := range list.Declarations {
		out[i] = *d
		out[i].Name = strings.ToLower(d.Name)
	}
	return out, nil
}

// ParseComponentValues tokenizes a property value.
func ParseComponentValues(value string) ([]Token, error) {
	list, err := valuesParser.ParseString("", value)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", value, err)
	}
	return list.Tokens, nil
}
