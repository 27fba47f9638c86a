package layout

import (
	"testing"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
	tu "github.com/laughinglion/PeachPDF-sub000/utils/testutils"
)

// Tests for line breaking and inline boxes.

func wordTexts(line *bo.LineBox) []string {
	var out []string
	for _, w := range line.Words {
		out = append(out, w.String())
	}
	return out
}

func TestTextAlign(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="text-align: center">Hello</div>`+
		`<div style="text-align: right">Hello</div>`+
		`<div style="text-align: end; direction: rtl">Hello</div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")
	tu.AssertApprox(t, divs[0].LineBoxes[0].Words[0].Left, 75)
	tu.AssertApprox(t, divs[1].LineBoxes[0].Words[0].Left, 150)
	tu.AssertApprox(t, divs[2].LineBoxes[0].Words[0].Left, 0)
}

func TestJustify(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="text-align: justify; width: 100px">aa bb cc dd ee</div>`+
		`<div style="text-align: justify; width: 100px">aa bb<br>cc dd ee</div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")

	lines := divs[0].LineBoxes
	tu.AssertEqual(t, len(lines), 2)
	first := lines[0].Words
	tu.AssertApprox(t, first[0].Left, 0)
	tu.AssertApprox(t, first[len(first)-1].Right(), 100)
	// the last line is not justified
	tu.AssertApprox(t, lines[1].Words[0].Left, 0)

	// neither is a line ended by a forced break
	lines = divs[1].LineBoxes
	tu.AssertEqual(t, len(lines), 2)
	tu.AssertApprox(t, lines[0].Words[1].Left, 25)
}

func TestLineBreak(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div>aa<br>bb<br><br>cc</div></body></html>`, flatOptions(200))
	div := find(root, "div")
	tu.AssertEqual(t, len(div.LineBoxes), 4)
	tu.AssertEqual(t, wordTexts(div.LineBoxes[0]), []string{"aa", "<br>"})
	tu.AssertEqual(t, wordTexts(div.LineBoxes[1]), []string{"bb", "<br>"})
	tu.AssertEqual(t, wordTexts(div.LineBoxes[3]), []string{"cc"})
	tu.AssertApprox(t, div.LineBoxes[3].Words[0].Top, 60)
	tu.AssertApprox(t, div.Size.Height, 80)
}

func TestNoWrap(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="width: 60px">aa <span style="white-space: nowrap">bb cc</span></div>`+
		`<div style="width: 30px; white-space: nowrap">aa bb cc</div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")

	// the run moves as a whole
	lines := divs[0].LineBoxes
	tu.AssertEqual(t, len(lines), 2)
	tu.AssertEqual(t, wordTexts(lines[1]), []string{"bb", "cc"})
	tu.AssertApprox(t, lines[1].Words[1].Left, 25)
	tu.AssertApprox(t, lines[1].Words[0].Top, 20)

	// and overflows when it can't fit
	tu.AssertEqual(t, len(divs[1].LineBoxes), 1)
}

func TestPreservedWhiteSpace(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, "<html><body style=\"margin: 0\"><pre style=\"margin: 0\">a  b\ncc</pre></body></html>", flatOptions(200))
	pre := find(root, "pre")
	tu.AssertEqual(t, len(pre.LineBoxes), 2)
	words := pre.LineBoxes[0].Words
	tu.AssertEqual(t, wordTexts(pre.LineBoxes[0]), []string{"a", "  ", "b", "<br>"})
	tu.AssertApprox(t, words[2].Left, 20)
}

func TestTextIndent(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div style="text-indent: 10%">aa bb</div></body></html>`, flatOptions(200))
	div := find(root, "div")
	tu.AssertApprox(t, div.LineBoxes[0].Words[0].Left, 20)
}

func TestInlineBoxesSpacing(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div style="width: 100px">`+
		`aa <span style="padding: 0 3px; border: 2px solid black; margin-left: 5px">bb cc dd ee</span> ff`+
		`</div></body></html>`, flatOptions(200))
	div, span := find(root, "div"), find(root, "span")

	// the left spacing is applied once, on the first line of the span
	first := div.LineBoxes[0].Words
	tu.AssertEqual(t, wordTexts(div.LineBoxes[0])[:3], []string{"aa", "bb", "cc"})
	tu.AssertApprox(t, first[1].Left, 25+5+2+3)

	tu.AssertEqual(t, len(span.Rectangles), len(div.LineBoxes))
	r := span.Rectangles[div.LineBoxes[0]]
	tu.AssertApprox(t, r.X, 25+5)
	tu.AssertApprox(t, r.Y, -2)
	tu.AssertApprox(t, r.Height, 24)
	tu.AssertApprox(t, span.Location.X, 0)
}

// the rectangle of an inline box contains the ones of its children
func TestRectanglesContainment(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	const content = `<html><body style="margin: 0"><p style="margin: 0">Lorem ipsum
		<span style="padding: 2px">dolor <b>sit amet, <i style="border: 1px solid black">consectetur adipiscing</i>
		elit</b>, sed</span> do eiusmod tempor incididunt ut labore et dolore magna aliqua.</p></body></html>`
	for _, width := range []pr.Float{100, 150, 240} {
		root, _ := render(t, content, flatOptions(width))
		p := find(root, "p")
		for _, line := range p.LineBoxes {
			for _, b := range line.RelatedBoxes {
				parent := b.Parent
				if parent == p {
					continue
				}
				r, outer := line.Rectangles[b], line.Rectangles[parent]
				if !outer.Contains(r) {
					t.Fatalf("%s: rectangle %v is not inside %v (parent %s)", b, r, outer, parent)
				}
			}
		}
	}
}

func TestVerticalAlign(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div>`+
		`aa<span style="display: inline-block; height: 60px; width: 10px"></span>`+
		`<span style="vertical-align: top">bb</span>`+
		`<span style="vertical-align: middle">cc</span>`+
		`</div></body></html>`, flatOptions(200))
	div := find(root, "div")
	words := div.LineBoxes[0].Words
	tu.AssertEqual(t, len(words), 4)
	tu.AssertApprox(t, words[0].Top, 40)
	tu.AssertApprox(t, words[2].Top, 0)
	tu.AssertApprox(t, words[3].Top, 20)
	tu.AssertApprox(t, div.Size.Height, 60)
}

func TestLineHeight(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div style="line-height: 30px">aa<br>bb</div></body></html>`, flatOptions(200))
	div := find(root, "div")
	tu.AssertApprox(t, div.Size.Height, 60)
	// the glyphs are centered in the line
	tu.AssertApprox(t, div.LineBoxes[1].Words[0].Top, 35)
}

func TestRightToLeft(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="direction: rtl; text-align: left">ab cd</div>`+
		`<div>ab שלום עולם cd</div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")

	words := divs[0].LineBoxes[0].Words
	tu.AssertApprox(t, words[0].Left, 25)
	tu.AssertApprox(t, words[1].Left, 0)

	// only the right-to-left run is reversed
	words = divs[1].LineBoxes[0].Words
	tu.AssertApprox(t, words[0].Left, 0)
	tu.AssertApprox(t, words[1].Left, 25+40+5)
	tu.AssertApprox(t, words[2].Left, 25)
	tu.AssertApprox(t, words[3].Left, 25+40+5+40+5)
}

func TestImagesInline(t *testing.T) {
	opts := flatOptions(200)
	opts.OnError = func(*Error) {}

	root, _ := render(t, `<html><body style="margin: 0"><div>`+
		`aa <img src="a.png"> <img src="b.png" style="width: 50px; height: 50px">`+
		`</div></body></html>`, opts)
	div := find(root, "div")
	imgs := findAll(root, "img")
	tu.AssertEqual(t, len(div.LineBoxes), 1)
	tu.AssertApprox(t, imgs[0].Words[0].Left, 25)
	tu.AssertApprox(t, imgs[0].Words[0].Width, placeholderSize)
	tu.AssertApprox(t, imgs[1].Words[0].Left, 50)
}

func TestFrameSize(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><iframe></iframe><iframe style="width: 60px"></iframe></body></html>`, flatOptions(800))
	frames := findAll(root, "iframe")
	tu.AssertApprox(t, frames[0].Words[0].Width, frameWidth)
	tu.AssertApprox(t, frames[0].Words[0].Height, frameHeight)
	tu.AssertApprox(t, frames[1].Words[0].Width, 60)
	tu.AssertApprox(t, frames[1].Words[0].Height, 30)
}

// moving a block moves the rectangles of its lines and its inline blocks
func TestLineRectanglesFollowBoxes(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="position: relative; top: 40px"><span>Hello</span>`+
		`<span style="display: inline-block; width: 10px; height: 10px"></span></div>`+
		`</body></html>`, flatOptions(200))
	div := find(root, "div")
	span := find(div, "span")
	line := div.LineBoxes[0]

	tu.AssertApprox(t, span.Rectangles[line].Y, 40)
	tu.AssertEqual(t, line.Rectangles[span], span.Rectangles[line])
	for _, w := range line.Words {
		if w.Atomic != nil {
			tu.AssertApprox(t, w.Left+w.Atomic.MarginLeft, w.Atomic.Location.X)
			tu.AssertApprox(t, w.Top+w.Atomic.MarginTop, w.Atomic.Location.Y)
		}
	}
}
