package layout

import (
	"testing"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	tu "github.com/laughinglion/PeachPDF-sub000/utils/testutils"
)

// Tests for blocks layout.

func TestMarginCollapsing(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="margin-bottom: 20px; height: 10px"></div>`+
		`<div style="margin-top: 10px; height: 10px"></div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")
	gap := divs[1].Location.Y - divs[0].ActualBottom.V()
	tu.AssertApprox(t, gap, 20)
}

func TestNegativeMarginCollapsing(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="margin-bottom: 20px; height: 10px"></div>`+
		`<div style="margin-top: -5px; height: 10px"></div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")
	tu.AssertApprox(t, divs[1].Location.Y, 25)
}

func TestParentChildMarginCollapsing(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="margin-top: 10px"><p style="margin: 15px 0 30px">a</p></div>`+
		`<div style="border-top: 2px solid black"><p style="margin: 15px 0">a</p></div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")
	ps := findAll(root, "p")

	// the margins of the first child collapse with the one of its parent:
	// only the difference is added
	tu.AssertApprox(t, divs[0].Location.Y, 10)
	tu.AssertApprox(t, ps[0].Location.Y, 15)
	// and the last child bottom margin is exposed by the parent
	tu.AssertApprox(t, divs[0].ActualBottom.V(), 35)
	tu.AssertApprox(t, divs[0].CollapsedMarginBottom, 30)

	// the border prevents collapsing
	tu.AssertApprox(t, divs[1].Location.Y, 35+30)
	tu.AssertApprox(t, ps[1].Location.Y, 65+2+15)
}

func TestBlockWidths(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div style="margin: 10px">`+
		`<p style="margin: 0; padding: 2px; border: 1px solid black"></p>`+
		`<p style="margin: 0; width: 50px"></p>`+
		`<p style="margin: 0 auto; width: 50px"></p>`+
		`<p style="margin: 0 0 0 auto; width: 50px"></p>`+
		`<p style="margin: 0; width: 70%"></p>`+
		`<p style="margin: 0; max-width: 30px"></p>`+
		`<p style="margin: 0; width: 50px; padding: 5px; box-sizing: border-box"></p>`+
		`</div></body></html>`, flatOptions(120))
	ps := findAll(root, "p")

	tu.AssertApprox(t, ps[0].Size.Width, 94)
	tu.AssertApprox(t, ps[0].Location.X, 10)
	tu.AssertApprox(t, ps[1].Size.Width, 50)
	tu.AssertApprox(t, ps[2].Location.X, 10+25)
	tu.AssertApprox(t, ps[3].Location.X, 10+50)
	tu.AssertApprox(t, ps[4].Size.Width, 70)
	tu.AssertApprox(t, ps[5].Size.Width, 30)
	tu.AssertApprox(t, ps[6].Size.Width, 40)
	tu.AssertApprox(t, ps[6].BorderWidth(), 50)
}

func TestExplicitHeights(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="height: 100px"><p style="margin: 0; height: 50%">a</p></div>`+
		`<div style="height: 10px; min-height: 30px">a</div>`+
		`<div style="max-height: 5px">a</div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")
	tu.AssertApprox(t, find(root, "p").Size.Height, 50)
	tu.AssertApprox(t, divs[1].Size.Height, 30)
	tu.AssertApprox(t, divs[2].Size.Height, 5)
	tu.AssertApprox(t, divs[2].Location.Y, 130)
}

func TestFloats(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="float: left; width: 50px; height: 30px"></div>`+
		`<div style="float: right; width: 40px; height: 10px"></div>`+
		`<div style="float: left; width: 60px; height: 10px"></div>`+
		`<div style="float: left; width: 100px; height: 15px"></div>`+
		`<div style="height: 10px"></div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")
	body := find(root, "body")

	tu.AssertApprox(t, divs[0].Location.X, 0)
	tu.AssertApprox(t, divs[1].Location.X, 160)
	tu.AssertApprox(t, divs[2].Location.X, 50)
	tu.AssertApprox(t, divs[2].Location.Y, 0)
	// no room left: a new row of floats
	tu.AssertApprox(t, divs[3].Location.X, 0)
	tu.AssertApprox(t, divs[3].Location.Y, 30)
	// in-flow content goes below the floats
	tu.AssertApprox(t, divs[4].Location.Y, 45)
	tu.AssertApprox(t, body.Size.Height, 55)
}

func TestFloatShrinkToFit(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="float: left">Hello world</div>`+
		`<div style="float: left">Hello world again and again</div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")
	tu.AssertApprox(t, divs[0].Size.Width, 105)
	// wider than the remaining space: starts a new row, at the available width
	tu.AssertApprox(t, divs[1].Location.Y, 20)
	tu.AssertApprox(t, divs[1].Size.Width, 200)
}

func TestRelativePositioning(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="position: relative; left: 10px; top: 5px; height: 10px">a</div>`+
		`<div style="position: relative; right: 10px; bottom: 5px; height: 10px"></div>`+
		`</body></html>`, flatOptions(200))
	divs := findAll(root, "div")
	tu.AssertApprox(t, divs[0].Location.X, 10)
	tu.AssertApprox(t, divs[0].Location.Y, 5)
	// descendants move along
	tu.AssertApprox(t, divs[0].LineBoxes[0].Words[0].Left, 10)
	// the flow is not affected
	tu.AssertApprox(t, divs[1].Location.X, -10)
	tu.AssertApprox(t, divs[1].Location.Y, 5)
}

func TestAbsolutePositioning(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="position: relative; height: 100px; padding: 4px">`+
		`<p style="margin: 0; height: 10px"></p>`+
		`<span style="display: block; position: absolute; right: 10px; top: 5px; width: 20px; height: 20px"></span>`+
		`<em style="display: block; position: absolute; width: 20px; height: 20px"></em>`+
		`<b style="display: block; position: absolute; left: 0; right: 0; bottom: 0; height: 20px"></b>`+
		`</div></body></html>`, flatOptions(200))

	span := find(root, "span")
	tu.AssertApprox(t, span.Location.X, 200-10-20)
	tu.AssertApprox(t, span.Location.Y, 5)

	// static position
	em := find(root, "em")
	tu.AssertApprox(t, em.Location.X, 4)
	tu.AssertApprox(t, em.Location.Y, 14)

	// stretched and anchored to the bottom of the padding box
	b := find(root, "b")
	tu.AssertApprox(t, b.Size.Width, 200)
	tu.AssertApprox(t, b.Location.Y, 108-20)

	// out of flow boxes do not contribute to the height
	div := find(root, "div")
	tu.AssertApprox(t, div.Size.Height, 100)
}

func TestFixedPositioning(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	opts := Options{PageWidth: 300, PageHeight: 200, ScrollY: 40}
	root, res := render(t, `<html><body style="margin: 0">`+
		`<div style="height: 50px"></div>`+
		`<div style="position: fixed; top: 10px; right: 0; width: 20px; height: 500px"></div>`+
		`</body></html>`, opts)
	divs := findAll(root, "div")
	tu.AssertApprox(t, divs[1].Location.X, 280)
	tu.AssertApprox(t, divs[1].Location.Y, 50)
	// fixed boxes do not extend the document
	tu.AssertEqual(t, res.PageCount, 1)
}

func TestInlineBlock(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div>`+
		`ab <span style="display: inline-block; width: 30px; height: 40px"></span> cd`+
		`</div></body></html>`, flatOptions(200))
	div := find(root, "div")
	span := find(root, "span")

	tu.AssertEqual(t, len(div.LineBoxes), 1)
	tu.AssertApprox(t, span.Location.X, 25)
	tu.AssertApprox(t, span.Location.Y, 0)
	words := div.LineBoxes[0].Words
	tu.AssertApprox(t, words[len(words)-1].Left, 60)
	// text is aligned on the bottom of the line
	tu.AssertApprox(t, words[0].Top, 20)
	tu.AssertApprox(t, div.Size.Height, 40)
}

func TestInlineBlockShrinkToFit(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0"><div>`+
		`<span style="display: inline-block; padding: 0 5px">Hello world</span>`+
		`</div></body></html>`, flatOptions(200))
	span := find(root, "span")
	tu.AssertApprox(t, span.Size.Width, 105)
	tu.AssertApprox(t, span.BorderWidth(), 115)
	tu.AssertApprox(t, span.LineBoxes[0].Words[0].Left, 5)
}

func TestListMarker(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<ul style="margin: 0; padding-left: 40px"><li>Item</li><li style="list-style-type: none">Item</li></ul>`+
		`</body></html>`, flatOptions(200))
	items := findAll(root, "li")
	marker := items[0].Marker
	if marker == nil {
		t.Fatal("expected a marker")
	}
	tu.AssertApprox(t, marker.Location.X, 40-5-10)
	tu.AssertApprox(t, marker.Location.Y, 0)
	tu.AssertApprox(t, marker.Words[0].Left, 25)
	tu.AssertEqual(t, items[1].Marker == nil, true)
}

func TestOverflowEstablishesContext(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="overflow: hidden"><p style="margin: 10px 0">a</p></div>`+
		`</body></html>`, flatOptions(200))
	div, p := find(root, "div"), find(root, "p")
	tu.AssertApprox(t, div.Location.Y, 0)
	tu.AssertApprox(t, p.Location.Y, 10)
	tu.AssertApprox(t, div.Size.Height, 40)
}

func TestCollapseMargin(t *testing.T) {
	for _, test := range []struct {
		margins []pr.Float
		exp     pr.Float
	}{
		{nil, 0},
		{[]pr.Float{20, 10}, 20},
		{[]pr.Float{20, -5}, 15},
		{[]pr.Float{-20, -5}, -20},
		{[]pr.Float{0, 10, -3, 4}, 7},
	} {
		tu.AssertEqual(t, collapseMargin(test.margins...), test.exp)
	}
}
