// Package tracer provides a function to dump the current layout tree,
// which may be used in debug mode.
package tracer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/laughinglion/PeachPDF-sub000/css/properties"
	"github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/utils"
)

type Tracer struct {
	out *os.File
}

// NewTracer panics if an error occurs.
func NewTracer(outFile string) Tracer {
	f, err := os.Create(outFile)
	if err != nil {
		panic(err)
	}

	return Tracer{out: f}
}

func formatMaybeFloat(v properties.MaybeFloat) string {
	if v, ok := v.(properties.Float); ok {
		return strconv.FormatFloat(utils.RoundPrec(utils.Fl(v), 2), 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

// DumpTree writes the geometry of the tree rooted at [box],
// one line per box, preceded by [context].
func (t Tracer) DumpTree(box *boxes.Box, context string) {
	fmt.Fprintln(t.out, context)

	var printer func(box *boxes.Box, indent int)
	printer = func(box *boxes.Box, indent int) {
		fmt.Fprint(t.out, strings.Repeat(" ", indent))
		fmt.Fprintf(t.out, "%s: %s %s %s %s (bottom %s)\n", box,
			formatMaybeFloat(box.Location.X),
			formatMaybeFloat(box.Location.Y),
			formatMaybeFloat(box.Size.Width),
			formatMaybeFloat(box.Size.Height),
			formatMaybeFloat(box.ActualBottom),
		)
		if box.Text != "" {
			fmt.Fprint(t.out, strings.Repeat(" ", indent))
			fmt.Fprintln(t.out, strconv.Quote(box.Text))
		}

		for _, child := range box.Children {
			printer(child, indent+1)
		}
	}

	printer(box, 0)

	fmt.Fprintln(t.out)
}

// Close closes the underlying file.
func (t Tracer) Close() error { return t.out.Close() }
