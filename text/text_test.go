package text

import (
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	tu "github.com/laughinglion/PeachPDF-sub000/utils/testutils"
)

func texts(segments []Segment) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = s.Text
		if s.LineBreak {
			out[i] = "\n"
		}
	}
	return out
}

func TestSplitCollapsed(t *testing.T) {
	segs := SplitWords("  Hello \n\t world  ", WNormal, "")
	tu.AssertEqual(t, texts(segs), []string{"Hello", "world"})
	tu.AssertEqual(t, segs[0].SpaceBefore, true)
	tu.AssertEqual(t, segs[0].SpaceAfter, true)
	tu.AssertEqual(t, segs[1].SpaceBefore, false)
	tu.AssertEqual(t, segs[1].SpaceAfter, true)

	segs = SplitWords("Hello world", WNowrap, "")
	tu.AssertEqual(t, segs[0].SpaceBefore, false)
	tu.AssertEqual(t, segs[1].SpaceAfter, false)
}

func TestSplitWhiteSpaceOnly(t *testing.T) {
	segs := SplitWords("   ", WNormal, "")
	tu.AssertEqual(t, len(segs), 1)
	tu.AssertEqual(t, segs[0].IsSpace, true)
	tu.AssertEqual(t, segs[0].Text, "")
	tu.AssertEqual(t, len(SplitWords("", WNormal, "")), 0)
}

func TestSplitPreserved(t *testing.T) {
	segs := SplitWords("a  b\nc", WPre, "")
	tu.AssertEqual(t, texts(segs), []string{"a", "  ", "b", "\n", "c"})
	tu.AssertEqual(t, segs[1].IsSpace, true)
	tu.AssertEqual(t, segs[3].LineBreak, true)

	segs = SplitWords("a  b\nc", WPreLine, "")
	tu.AssertEqual(t, texts(segs), []string{"a", "b", "\n", "c"})

	segs = SplitWords("\tx", WPreWrap, "")
	tu.AssertEqual(t, texts(segs), []string{"        ", "x"})
}

func TestSplitCJK(t *testing.T) {
	segs := SplitWords("ab中文cd", WNormal, "")
	tu.AssertEqual(t, texts(segs), []string{"ab", "中", "文", "cd"})
	for _, s := range segs {
		tu.AssertEqual(t, s.SpaceAfter, false)
	}
}

func TestSplitHangul(t *testing.T) {
	// Korean is broken at spaces only
	segs := SplitWords("한국어 문장", WNormal, NewLanguage("ko-KR"))
	tu.AssertEqual(t, texts(segs), []string{"한국어", "문장"})

	segs = SplitWords("한국어", WNormal, "")
	tu.AssertEqual(t, texts(segs), []string{"한", "국", "어"})

	// the language does not change ideographs
	segs = SplitWords("中文", WNormal, NewLanguage("KO"))
	tu.AssertEqual(t, texts(segs), []string{"中", "文"})
	tu.AssertEqual(t, NewLanguage("ko_KR"), NewLanguage("ko-kr"))
}

func TestRTL(t *testing.T) {
	tu.AssertEqual(t, IsRTL("שלום"), true)
	tu.AssertEqual(t, IsRTL("مرحبا"), true)
	tu.AssertEqual(t, IsRTL("hello"), false)
	tu.AssertEqual(t, IsRTL("123 שלום"), true)
	segs := SplitWords("hello שלום", WNormal, "")
	tu.AssertEqual(t, segs[0].RTL, false)
	tu.AssertEqual(t, segs[1].RTL, true)
}

func TestWhiteSpaceKeywords(t *testing.T) {
	tu.AssertEqual(t, NewWhiteSpace("pre-wrap"), WPreWrap)
	tu.AssertEqual(t, NewWhiteSpace("bogus"), WNormal)
	tu.AssertEqual(t, WNowrap.CanWrap(), false)
	tu.AssertEqual(t, WPreWrap.CanWrap(), true)
	tu.AssertEqual(t, WPreLine.PreservesSpaces(), false)
}

func TestFontRegistry(t *testing.T) {
	fr := NewFontRegistry()
	if err := fr.Add("Go", FontVariant{}, goregular.TTF); err != nil {
		t.Fatal(err)
	}
	if err := fr.Add("Go", FontVariant{Bold: true}, gobold.TTF); err != nil {
		t.Fatal(err)
	}
	if err := fr.Add("Broken", FontVariant{}, []byte("not a font")); err == nil {
		t.Fatal("expected an error for an invalid font")
	}
	tu.AssertEqual(t, fr.Families(), []string{"go"})

	family, variant, data, ok := fr.Lookup(FontDescription{Family: []string{"Arial", "GO"}, Weight: 700, Italic: true})
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, family, "go")
	tu.AssertEqual(t, variant, FontVariant{Bold: true})
	tu.AssertEqual(t, len(data), len(gobold.TTF))

	_, _, _, ok = fr.Lookup(FontDescription{Family: []string{"serif"}})
	tu.AssertEqual(t, ok, false)
}

func TestFontDescriptionKey(t *testing.T) {
	fd := FontDescription{Family: []string{"a", "b"}, Size: 12, Weight: 400}
	tu.AssertEqual(t, fd.Key(), "a,b|12|400|false")
	tu.AssertEqual(t, fd.Bold(), false)
}
