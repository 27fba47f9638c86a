package document

import (
	"testing"

	tu "github.com/laughinglion/PeachPDF-sub000/utils/testutils"
)

// Test the painting layers.

type serializedStacking struct {
	tag           string
	blockAndCells []string
	floats        int
	inlines       int
	positioned    []serializedStacking
}

func serializeStacking(context StackingContext) serializedStacking {
	out := serializedStacking{
		tag:     context.box.Tag(),
		floats:  len(context.floats),
		inlines: len(context.inlines),
	}
	for _, b := range context.blocksAndCells {
		out.blockAndCells = append(out.blockAndCells, b.Tag())
	}
	for _, c := range context.positioned {
		out.positioned = append(out.positioned, serializeStacking(c))
	}
	return out
}

func TestNested(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	for _, data := range []struct {
		source   string
		contexts serializedStacking
	}{
		{
			`<p id=lorem></p><div style="position: relative"><p id=lipsum></p></div>`,
			serializedStacking{
				tag: "html", blockAndCells: []string{"body", "p"}, positioned: []serializedStacking{
					{tag: "div", blockAndCells: []string{"p"}},
				},
			},
		},
		{
			`<div style="position: relative"><p style="position: absolute"></p></div>`,
			serializedStacking{
				tag: "html", blockAndCells: []string{"body"}, positioned: []serializedStacking{
					{tag: "div", positioned: []serializedStacking{{tag: "p"}}},
				},
			},
		},
		{
			`<div style="float: left">a</div><div style="overflow: hidden">b</div><p>c<span>d</span></p>`,
			serializedStacking{
				tag: "html", blockAndCells: []string{"body", "p"}, floats: 2, inlines: 3,
			},
		},
	} {
		root := layoutDoc(t, "<html><body>"+data.source+"</body></html>", testOptions())
		tu.AssertEqual(t, serializeStacking(NewStackingContextFromBox(root)), data.contexts)
	}
}

func TestTableLayers(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root := layoutDoc(t, `<html><body><table><tr><td rowspan=2>a</td><td>b</td></tr><tr><td>c</td></tr></table></body></html>`, testOptions())
	sc := NewStackingContextFromBox(root)
	// spacers are not painted
	tu.AssertEqual(t, serializeStacking(sc).blockAndCells, []string{"body", "table", "tbody", "tr", "td", "td", "tr", "td"})
}
