// Package text splits inline content into words and describes the fonts
// used to measure them.
package text

import (
	"strings"

	"github.com/benoitkugler/textlayout/language"
	"golang.org/x/text/unicode/bidi"
)

// WhiteSpace is the value of the CSS white-space property.
type WhiteSpace uint8

const (
	WNormal WhiteSpace = iota
	WNowrap
	WPre
	WPreWrap
	WPreLine
)

// NewWhiteSpace parses a CSS keyword, defaulting to normal.
func NewWhiteSpace(keyword string) WhiteSpace {
	switch keyword {
	case "nowrap":
		return WNowrap
	case "pre":
		return WPre
	case "pre-wrap":
		return WPreWrap
	case "pre-line":
		return WPreLine
	default:
		return WNormal
	}
}

// CanWrap returns false for nowrap and pre, where only forced
// line breaks are allowed.
func (ws WhiteSpace) CanWrap() bool { return ws != WNowrap && ws != WPre }

// PreservesSpaces returns true if spaces are kept as words.
func (ws WhiteSpace) PreservesSpaces() bool { return ws == WPre || ws == WPreWrap }

// PreservesNewlines returns true if newlines are forced line breaks.
func (ws WhiteSpace) PreservesNewlines() bool { return ws == WPre || ws == WPreWrap || ws == WPreLine }

// tabSize is the number of spaces replacing a tab in preserved text.
const tabSize = 8

// Segment is an unbreakable piece of text.
type Segment struct {
	Text string

	SpaceBefore bool
	SpaceAfter  bool

	// LineBreak is set for forced breaks (preserved newlines).
	// Text is empty in this case.
	LineBreak bool

	// IsSpace is set for preserved runs of white space.
	IsSpace bool

	// RTL is true if the first strong character is right-to-left.
	RTL bool
}

func isCollapsibleSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// breaksAround returns true for the characters around which a line may
// be broken without space: ideographs, kana and Yi syllables, and Hangul
// syllables except in Korean text, which is broken at spaces.
func breaksAround(r rune, lang language.Language) bool {
	switch language.LookupScript(r) {
	case language.Han, language.Hiragana, language.Katakana,
		language.Katakana_Or_Hiragana, language.Bopomofo, language.Yi:
		return true
	case language.Hangul:
		return !lang.IsDerivedFrom("ko")
	default:
		return false
	}
}

// SplitWords cuts [s] into segments according to the white-space mode.
// [lang] is the language of the content, and may be empty.
func SplitWords(s string, ws WhiteSpace, lang language.Language) []Segment {
	var out []Segment
	if ws.PreservesNewlines() {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			if i > 0 {
				out = append(out, Segment{LineBreak: true})
			}
			if ws == WPreLine {
				out = append(out, splitCollapsed(line, lang)...)
			} else {
				out = append(out, splitPreserved(line)...)
			}
		}
		return out
	}
	return splitCollapsed(s, lang)
}

func splitCollapsed(s string, lang language.Language) []Segment {
	var (
		out          []Segment
		current      strings.Builder
		spaceBefore  bool
		pendingSpace bool
	)
	flush := func(spaceAfter bool) {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		out = append(out, Segment{Text: word, SpaceBefore: spaceBefore, SpaceAfter: spaceAfter, RTL: IsRTL(word)})
		current.Reset()
		spaceBefore = false
	}
	for _, r := range s {
		if isCollapsibleSpace(r) {
			if current.Len() == 0 && len(out) == 0 {
				spaceBefore = true
			}
			pendingSpace = true
			continue
		}
		if pendingSpace {
			flush(true)
			pendingSpace = false
		}
		breaks := breaksAround(r, lang)
		if breaks && current.Len() != 0 {
			flush(false)
		}
		current.WriteRune(r)
		if breaks {
			flush(false)
		}
	}
	flush(pendingSpace)
	if len(out) == 0 && pendingSpace {
		// white space only: a single collapsible space
		out = append(out, Segment{SpaceBefore: true, IsSpace: true})
	}
	return out
}

func splitPreserved(s string) []Segment {
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabSize))
	var out []Segment
	for len(s) != 0 {
		i := strings.IndexByte(s, ' ')
		switch {
		case i == 0:
			end := len(s) - len(strings.TrimLeft(s, " "))
			out = append(out, Segment{Text: s[:end], IsSpace: true})
			s = s[end:]
		case i == -1:
			out = append(out, Segment{Text: s, RTL: IsRTL(s)})
			s = ""
		default:
			out = append(out, Segment{Text: s[:i], RTL: IsRTL(s[:i])})
			s = s[i:]
		}
	}
	return out
}

// IsRTL returns true if the first strong character of [s]
// is right-to-left (Hebrew, Arabic, ...).
func IsRTL(s string) bool {
	for _, r := range s {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return true
		case bidi.L:
			return false
		}
	}
	return false
}
