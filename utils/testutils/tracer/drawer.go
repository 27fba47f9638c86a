package tracer

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/laughinglion/PeachPDF-sub000/backend"
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	"github.com/laughinglion/PeachPDF-sub000/text"
)

// implements a logging backend, used for debugging and
// for the tests of the paint pass

var _ backend.Canvas = &Drawer{}

// Drawer writes one line per drawing operation. Text is measured
// with fixed metrics: half the font size per glyph, a quarter for
// spaces, and 1.25 times the font size for the line height.
type Drawer struct {
	out    io.Writer
	indent int

	// Pages is the number of pages added.
	Pages int
}

func NewDrawerNoOp() *Drawer { return &Drawer{out: io.Discard} }

// NewDrawer writes the operations to [out].
func NewDrawer(out io.Writer) *Drawer { return &Drawer{out: out} }

// NewDrawerFile panics if an error occurs.
func NewDrawerFile(outFile string) *Drawer {
	f, err := os.Create(outFile)
	if err != nil {
		panic(err)
	}

	return &Drawer{out: f}
}

type fl = backend.Fl

func (dr Drawer) printf(f string, args ...interface{}) {
	fmt.Fprintf(dr.out, strings.Repeat("  ", dr.indent)+f+"\n", args...)
}

func hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

func (dr *Drawer) MeasureText(s string, font text.FontDescription) (width, height pr.Float) {
	for _, r := range s {
		if r == ' ' {
			width += font.Size / 4
		} else {
			width += font.Size / 2
		}
	}
	return width, font.Size * 5 / 4
}

func (dr *Drawer) AddPage(width, height fl) {
	dr.Pages++
	dr.indent = 0
	dr.printf("AddPage : %.2f %.2f", width, height)
}

func (dr *Drawer) ClipPush(x, y, width, height fl) {
	dr.printf("ClipPush : %.2f %.2f %.2f %.2f", x, y, width, height)
	dr.indent++
}

func (dr *Drawer) ClipPop() {
	dr.indent--
	dr.printf("ClipPop :")
}

func (dr *Drawer) FillRect(x, y, width, height fl, c color.Color) {
	dr.printf("FillRect : %.2f %.2f %.2f %.2f %s", x, y, width, height, hex(c))
}

func (dr *Drawer) StrokeRect(x, y, width, height, lineWidth fl, c color.Color) {
	dr.printf("StrokeRect : %.2f %.2f %.2f %.2f %.2f %s", x, y, width, height, lineWidth, hex(c))
}

func (dr *Drawer) DrawText(s string, x, y fl, font text.FontDescription, c color.Color) {
	dr.printf("DrawText : %q %.2f %.2f %d %s", s, x, y, utf8.RuneCountInString(s), hex(c))
}

func (dr *Drawer) DrawImage(img image.Image, x, y, width, height fl) {
	b := img.Bounds()
	dr.printf("DrawImage : %dx%d %.2f %.2f %.2f %.2f", b.Dx(), b.Dy(), x, y, width, height)
}
