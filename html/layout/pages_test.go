package layout

import (
	"testing"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	tu "github.com/laughinglion/PeachPDF-sub000/utils/testutils"
)

func pagedOptions(width, height pr.Float) Options {
	return Options{PageWidth: width, PageHeight: height}
}

func TestForcedPageBreak(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, res := render(t, `<html><body style="margin: 0">`+
		`<div style="height: 650px"></div><div style="page-break-before: always; margin-top: 30px">aa</div>`+
		`</body></html>`, pagedOptions(612, 792))
	divs := findAll(root, "div")
	// the margin is truncated at the break
	tu.AssertApprox(t, divs[1].Location.Y, 792)
	tu.AssertEqual(t, res.PageCount, 2)

	opts := pagedOptions(612, 792)
	opts.MarginTop = 20
	root, _ = render(t, `<html><body style="margin: 0">`+
		`<div style="height: 630px; page-break-after: always"></div><div>aa</div>`+
		`</body></html>`, opts)
	divs = findAll(root, "div")
	tu.AssertApprox(t, divs[0].Location.Y, 20)
	tu.AssertApprox(t, divs[1].Location.Y, 812)

	// no pages, no breaks
	root, res = render(t, `<html><body style="margin: 0">`+
		`<div style="height: 650px"></div><div style="page-break-before: always">aa</div>`+
		`</body></html>`, flatOptions(612))
	tu.AssertApprox(t, findAll(root, "div")[1].Location.Y, 650)
	tu.AssertEqual(t, res.PageCount, 1)
}

func TestForcedBreakOnFirstChild(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// nothing precedes the box on its page
	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="page-break-before: always">aa</div>`+
		`</body></html>`, pagedOptions(612, 792))
	tu.AssertApprox(t, find(root, "div").Location.Y, 0)
}

func TestAvoidPageBreakInside(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, res := render(t, `<html><body style="margin: 0">`+
		`<div style="height: 780px"></div>`+
		`<div style="height: 40px; page-break-inside: avoid"></div>`+
		`<div style="height: 40px"></div>`+
		`</body></html>`, pagedOptions(612, 792))
	divs := findAll(root, "div")
	tu.AssertApprox(t, divs[1].Location.Y, 792)
	// the following content flows after the moved box
	tu.AssertApprox(t, divs[2].Location.Y, 832)
	tu.AssertEqual(t, res.PageCount, 2)

	// boxes are cut when allowed
	root, _ = render(t, `<html><body style="margin: 0">`+
		`<div style="height: 780px"></div><div style="height: 40px"></div>`+
		`</body></html>`, pagedOptions(612, 792))
	tu.AssertApprox(t, findAll(root, "div")[1].Location.Y, 780)

	// or too tall for one page
	root, _ = render(t, `<html><body style="margin: 0">`+
		`<div style="height: 100px"></div><div style="height: 900px; page-break-inside: avoid"></div>`+
		`</body></html>`, pagedOptions(612, 792))
	tu.AssertApprox(t, findAll(root, "div")[1].Location.Y, 100)
}

func TestPageMargins(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	opts := Options{PageWidth: 200, PageHeight: 100, MarginTop: 10, MarginBottom: 10, MarginLeft: 15, MarginRight: 15}
	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="height: 70px"></div><div style="height: 15px; page-break-inside: avoid"></div>`+
		`</body></html>`, opts)
	divs := findAll(root, "div")
	tu.AssertApprox(t, divs[0].Location.X, 15)
	tu.AssertApprox(t, divs[0].Size.Width, 170)
	// 80 + 15 ends in the bottom margin of the first page
	tu.AssertApprox(t, divs[1].Location.Y, 110)
}

func TestLinesAvoidPageBoundaries(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, res := render(t, `<html><body style="margin: 0">`+
		`<div style="height: 780px"></div><p style="margin: 0">aa<br>bb</p>`+
		`</body></html>`, pagedOptions(612, 792))
	p := find(root, "p")
	tu.AssertApprox(t, p.Location.Y, 780)
	tu.AssertApprox(t, p.LineBoxes[0].Words[0].Top, 792)
	tu.AssertApprox(t, p.LineBoxes[1].Words[0].Top, 812)
	tu.AssertApprox(t, p.ClientBottom(), 832)
	tu.AssertEqual(t, res.PageCount, 2)
}

func TestPageCount(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	_, res := render(t, `<html><body style="margin: 0"><div style="height: 1600px"></div></body></html>`, pagedOptions(612, 792))
	tu.AssertEqual(t, res.PageCount, 3)

	_, res = render(t, `<html><body style="margin: 0"></body></html>`, pagedOptions(612, 792))
	tu.AssertEqual(t, res.PageCount, 1)
}

func TestTableRowAvoidsPageBreak(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="height: 70px"></div>`+
		`<table style="border-spacing: 0">`+
		`<tr><td style="padding: 0">a</td></tr>`+
		`<tr style="page-break-inside: avoid"><td style="padding: 0">b<br>c</td></tr>`+
		`</table></body></html>`, pagedOptions(200, 100))
	rows := findAll(root, "tr")
	tu.AssertApprox(t, find(root, "table").Location.Y, 70)
	tu.AssertApprox(t, rows[0].Location.Y, 70)
	tu.AssertApprox(t, rows[1].Location.Y, 100)
	tu.AssertApprox(t, rows[1].Size.Height, 40)
}

func TestTableMovesWithFirstRow(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, _ := render(t, `<html><body style="margin: 0">`+
		`<div style="height: 70px"></div>`+
		`<table style="border-spacing: 0">`+
		`<tr style="page-break-inside: avoid"><td style="padding: 0">b<br>c</td></tr>`+
		`</table></body></html>`, pagedOptions(200, 100))
	table, row := find(root, "table"), find(root, "tr")
	tu.AssertApprox(t, table.Location.Y, 100)
	tu.AssertApprox(t, row.Location.Y, 100)
	tu.AssertApprox(t, table.Size.Height, 40)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	tu.AssertApprox(t, opts.PageWidth, 612)
	tu.AssertApprox(t, opts.PageHeight, 792)
	tu.AssertApprox(t, opts.MarginTop, 36)
}
