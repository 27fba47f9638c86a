package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/laughinglion/PeachPDF-sub000/text"
	tu "github.com/laughinglion/PeachPDF-sub000/utils/testutils"
)

func TestPaint(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	out := New(nil, 1)
	out.AddPage(100, 80)
	out.FillRect(10, 10, 20, 20, color.NRGBA{255, 0, 0, 255})

	out.ClipPush(50, 0, 10, 10)
	out.FillRect(40, 0, 60, 60, color.NRGBA{0, 0, 255, 255})
	out.ClipPop()

	pages := out.Pages()
	tu.AssertEqual(t, len(pages), 1)
	img := pages[0]
	tu.AssertEqual(t, img.Bounds().Dx(), 100)

	r, g, b, _ := img.At(15, 15).RGBA()
	tu.AssertEqual(t, [3]uint32{r >> 8, g >> 8, b >> 8}, [3]uint32{255, 0, 0})
	// inside the clip
	r, g, b, _ = img.At(55, 5).RGBA()
	tu.AssertEqual(t, [3]uint32{r >> 8, g >> 8, b >> 8}, [3]uint32{0, 0, 255})
	// outside the clip: still white
	r, g, b, _ = img.At(45, 30).RGBA()
	tu.AssertEqual(t, [3]uint32{r >> 8, g >> 8, b >> 8}, [3]uint32{255, 255, 255})

	var buf bytes.Buffer
	if err := out.WritePNG(0, &buf); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatal(err)
	}
	if err := out.WritePNG(3, &buf); err == nil {
		t.Fatal("expected an error for an invalid page index")
	}
}

func TestMeasureScales(t *testing.T) {
	out := New(nil, 2)
	fd := text.FontDescription{Size: 16, Weight: 400}
	w, h := out.MeasureText("Hello", fd)
	if w <= 0 || h <= 0 {
		t.Fatalf("invalid size %g x %g", w, h)
	}
	// measurement does not depend on the output resolution
	w1, _ := New(nil, 1).MeasureText("Hello", fd)
	tu.AssertEqual(t, w, w1)
}
