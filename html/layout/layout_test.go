package layout

import (
	"context"
	"errors"
	"io"
	"testing"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/html/tree"
	"github.com/laughinglion/PeachPDF-sub000/logger"
	"github.com/laughinglion/PeachPDF-sub000/text"
	tu "github.com/laughinglion/PeachPDF-sub000/utils/testutils"
)

func init() {
	logger.ProgressLogger.SetOutput(io.Discard)
}

// fakeMeasurer gives 10px to each glyph and 5px to each space,
// with a 20px line height.
type fakeMeasurer struct {
	// panics when measuring this text, if not empty
	failOn string
}

func (fm fakeMeasurer) MeasureText(s string, _ text.FontDescription) (width, height pr.Float) {
	if fm.failOn != "" && s == fm.failOn {
		panic("broken font")
	}
	for _, r := range s {
		if r == ' ' {
			width += 5
		} else {
			width += 10
		}
	}
	return width, 20
}

// flatOptions lays out on a single page of the given width, without margins.
func flatOptions(width pr.Float) Options { return Options{PageWidth: width} }

func buildTree(t *testing.T, content string) *bo.Box {
	t.Helper()
	doc, err := tree.NewHTMLString(content)
	if err != nil {
		t.Fatal(err)
	}
	root, err := bo.BuildTree(doc.Root, bo.BuildOptions{Lang: "en"})
	if err != nil {
		t.Fatal(err)
	}
	return root
}

// render builds the box tree of [content] and lays it out with the fake measurer.
func render(t *testing.T, content string, opts Options) (*bo.Box, Result) {
	t.Helper()
	root := buildTree(t, content)
	res, err := PerformLayout(context.Background(), root, fakeMeasurer{}, opts)
	if err != nil {
		t.Fatal(err)
	}
	return root, res
}

// find returns the first box of the tree for the element [tag].
func find(root *bo.Box, tag string) *bo.Box {
	all := findAll(root, tag)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

func findAll(root *bo.Box, tag string) []*bo.Box {
	var out []*bo.Box
	root.Walk(func(b *bo.Box) bool {
		if b.Tag() == tag {
			out = append(out, b)
		}
		return true
	})
	return out
}

// lines returns the line boxes of the tree, in document order.
func lines(root *bo.Box) []*bo.LineBox {
	var out []*bo.LineBox
	root.Walk(func(b *bo.Box) bool {
		out = append(out, b.LineBoxes...)
		return true
	})
	return out
}

func TestPerformLayoutNoRoot(t *testing.T) {
	_, err := PerformLayout(context.Background(), nil, fakeMeasurer{}, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestPerformLayoutCancelled(t *testing.T) {
	root := buildTree(t, `<p>Hello</p>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := PerformLayout(ctx, root, fakeMeasurer{}, DefaultOptions())
	tu.AssertEqual(t, errors.Is(err, context.Canceled), true)
}

func TestSingleLine(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div>Hello world</div></body></html>`, flatOptions(200))
	div := find(root, "div")
	tu.AssertEqual(t, len(div.LineBoxes), 1)
	words := div.LineBoxes[0].Words
	tu.AssertEqual(t, len(words), 2)
	tu.AssertApprox(t, words[0].Left, 0)
	tu.AssertApprox(t, words[1].Left, 55)
	tu.AssertApprox(t, div.Size.Height, 20)
}

func TestWrappedLines(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div>Hello world</div></body></html>`, flatOptions(80))
	div := find(root, "div")
	tu.AssertEqual(t, len(div.LineBoxes), 2)
	for i, line := range div.LineBoxes {
		tu.AssertEqual(t, len(line.Words), 1)
		tu.AssertApprox(t, line.Words[0].Left, 0)
		tu.AssertApprox(t, line.Words[0].Top, pr.Float(20*i))
	}
	tu.AssertApprox(t, div.Size.Height, 40)
}

func TestLineWidthBound(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	const content = `<html><body style="margin: 0">
		<p style="margin: 0">Lorem ipsum dolor sit amet, consectetur adipiscing elit,
		sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.</p>
		<p style="margin: 0; padding: 0 7px">Ut enim <b>ad minim veniam</b>, quis nostrud
		<i>exercitation ullamco laboris</i> nisi ut aliquip ex ea commodo consequat.</p>
	</body></html>`
	for _, width := range []pr.Float{90, 130, 200, 333} {
		root, _ := render(t, content, flatOptions(width))
		for _, line := range lines(root) {
			limit := line.Owner.Size.Width
			if len(line.Words) == 1 {
				continue // a single word may overflow
			}
			if line.Width() > limit+lineEpsilon {
				t.Fatalf("line %v is %g wide, limit is %g", line.Words, line.Width(), limit)
			}
		}
	}
}

func TestTwoPassLayout(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, res := render(t, `<html><body style="margin: 0">Hello world</body></html>`, Options{})
	tu.AssertEqual(t, res.Passes, 2)
	tu.AssertApprox(t, res.ActualSize.Width, 105)
	body := find(root, "body")
	tu.AssertEqual(t, len(body.LineBoxes), 1)
	tu.AssertApprox(t, body.Size.Width, 105)
}

func TestTwoPassMaxWidth(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, res := render(t, `<html><body style="margin: 0">Hello world</body></html>`, Options{MaxWidth: 80})
	tu.AssertEqual(t, res.Passes, 2)
	body := find(root, "body")
	tu.AssertApprox(t, body.Size.Width, 80)
	tu.AssertEqual(t, len(body.LineBoxes), 2)
}

func TestRelayout(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root := buildTree(t, `<html><body style="margin: 0"><div>Hello world</div></body></html>`)
	for _, width := range []pr.Float{200, 80, 200} {
		_, err := PerformLayout(context.Background(), root, fakeMeasurer{}, flatOptions(width))
		if err != nil {
			t.Fatal(err)
		}
	}
	div := find(root, "div")
	tu.AssertEqual(t, len(div.LineBoxes), 1)
	tu.AssertApprox(t, div.LineBoxes[0].Words[1].Left, 55)
}

func TestMeasurementFailure(t *testing.T) {
	var reported []*Error
	opts := flatOptions(200)
	opts.OnError = func(err *Error) { reported = append(reported, err) }

	root := buildTree(t, `<html><body style="margin: 0"><div>boom</div><div>fine</div></body></html>`)
	_, err := PerformLayout(context.Background(), root, fakeMeasurer{failOn: "boom"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	tu.AssertEqual(t, len(reported), 1)
	tu.AssertEqual(t, reported[0].Kind, KindMeasurement)

	divs := findAll(root, "div")
	tu.AssertEqual(t, len(divs[1].LineBoxes), 1)
	tu.AssertApprox(t, divs[1].Size.Height, 20)
}

func TestLayoutFailureIsLocal(t *testing.T) {
	var reported []*Error
	opts := flatOptions(200)
	opts.OnError = func(err *Error) { reported = append(reported, err) }

	root := buildTree(t, `<html><body style="margin: 0"><div>broken</div><div>fine</div></body></html>`)
	divs := findAll(root, "div")
	// a nil word breaks both the measure and the layout of the first div
	divs[0].Children[0].Words = append(divs[0].Children[0].Words, nil)

	_, err := PerformLayout(context.Background(), root, fakeMeasurer{}, opts)
	if err != nil {
		t.Fatal(err)
	}
	var kinds []ErrorKind
	for _, err := range reported {
		kinds = append(kinds, err.Kind)
	}
	tu.AssertEqual(t, kinds, []ErrorKind{KindMeasurement, KindLayout})
	tu.AssertEqual(t, reported[1].Box, divs[0])

	tu.AssertEqual(t, len(divs[1].LineBoxes), 1)
	tu.AssertApprox(t, divs[1].Size.Height, 20)
}

func TestDefaultErrorHandlerLogs(t *testing.T) {
	logs := tu.CaptureLogs()
	root := buildTree(t, `<html><body><img src="missing.png"></body></html>`)
	_, err := PerformLayout(context.Background(), root, fakeMeasurer{}, flatOptions(200))
	if err != nil {
		t.Fatal(err)
	}
	logs.AssertLogsContain(t, "Measurement error", "no image loader")
}

func TestImagePlaceholder(t *testing.T) {
	var reported []*Error
	opts := flatOptions(200)
	opts.OnError = func(err *Error) { reported = append(reported, err) }

	root := buildTree(t, `<html><body style="margin: 0"><img src="missing.png"></body></html>`)
	_, err := PerformLayout(context.Background(), root, fakeMeasurer{}, opts)
	if err != nil {
		t.Fatal(err)
	}
	img := find(root, "img")
	tu.AssertEqual(t, img.ErrorBorder, true)
	tu.AssertEqual(t, len(reported), 1)
	tu.AssertEqual(t, errors.Is(reported[0], errNoImageLoader), true)
	word := img.Words[0]
	tu.AssertApprox(t, word.Width, placeholderSize)
	tu.AssertApprox(t, word.Height, placeholderSize)
}

func TestStructuralError(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	block := pr.NewStyle()
	block.Set(pr.PDisplay, "block")
	block.InheritFrom(nil)
	root := bo.NewBox(bo.KindGeneric, nil, block)

	abs := pr.NewStyle()
	abs.Set(pr.PDisplay, "block")
	abs.Set(pr.PPosition, "absolute")
	abs.InheritFrom(block)
	child := bo.NewBox(bo.KindGeneric, nil, abs)
	root.AppendChild(child)
	// the parent link does not lead back to the root
	child.Parent = bo.NewAnonymousBox(nil, "inline")

	_, err := PerformLayout(context.Background(), root, fakeMeasurer{}, flatOptions(200))
	var se bo.StructuralError
	tu.AssertEqual(t, errors.As(err, &se), true)
	tu.AssertEqual(t, errors.Is(err, bo.ErrNoContainingBlock), true)
}

func TestPreferredWidths(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body>
		<div id=a>aa bbbb</div>
		<div id=b style="padding: 0 3px; border: 1px solid black">aa <span style="white-space: nowrap">bb cc</span></div>
		<div id=c style="width: 50px; margin-left: 10px">aaaaaaaaaaaaaaaaaaaa</div>
	</body></html>`, flatOptions(400))
	divs := findAll(root, "div")

	min, max := GetMinMaxWidth(divs[0])
	tu.AssertApprox(t, min, 40)
	tu.AssertApprox(t, max, 65)

	min, max = GetMinMaxWidth(divs[1])
	tu.AssertApprox(t, min, 45+8)
	tu.AssertApprox(t, max, 70+8)

	min, max = GetMinMaxWidth(divs[2])
	tu.AssertApprox(t, min, 60)
	tu.AssertApprox(t, max, 60)
	tu.AssertApprox(t, GetMinimumWidth(divs[0]), 40)
}

func TestPreferredWidthsDoNotModifyLayout(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div>Hello world</div></body></html>`, flatOptions(80))
	div := find(root, "div")
	before := div.Dump()
	GetMinMaxWidth(root)
	tu.AssertEqual(t, div.Dump(), before)
}
