package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/laughinglion/PeachPDF-sub000/text"
	tu "github.com/laughinglion/PeachPDF-sub000/utils/testutils"
)

func TestFontFlags(t *testing.T) {
	var ff fontFlags
	for _, v := range []string{"Serif=a.ttf", "Serif:bold=b.ttf", "Serif:BoldItalic=c.ttf"} {
		if err := ff.Set(v); err != nil {
			t.Fatal(err)
		}
	}
	tu.AssertEqual(t, ff, fontFlags{
		{family: "Serif", path: "a.ttf"},
		{family: "Serif", variant: text.FontVariant{Bold: true}, path: "b.ttf"},
		{family: "Serif", variant: text.FontVariant{Bold: true, Italic: true}, path: "c.ttf"},
	})

	for _, v := range []string{"a.ttf", "=a.ttf", "Serif=", "Serif:heavy=a.ttf"} {
		if err := ff.Set(v); err == nil {
			t.Fatalf("expected error for %q", v)
		}
	}
}

func TestPageFileName(t *testing.T) {
	tu.AssertEqual(t, pageFileName("out/doc.png", 0, 1), "out/doc.png")
	tu.AssertEqual(t, pageFileName("out/doc.png", 0, 3), "out/doc-1.png")
	tu.AssertEqual(t, pageFileName("out/doc.png", 2, 3), "out/doc-3.png")
}

func TestLayoutOptions(t *testing.T) {
	opts := config{pageWidth: 612, pageHeight: 792, margin: 36}.layoutOptions()
	tu.AssertEqual(t, float64(opts.PageWidth), 612.)
	tu.AssertEqual(t, float64(opts.MarginLeft), 36.)

	// a content width without page width
	opts = config{width: 300, margin: 10}.layoutOptions()
	tu.AssertEqual(t, float64(opts.PageWidth), 320.)
	tu.AssertEqual(t, float64(opts.PageHeight), 0.)
}

func TestRunErrors(t *testing.T) {
	err := run(context.Background(), config{input: "missing.html", format: "pdf"})
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	err = run(context.Background(), config{input: "missing.html", format: "svg"})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRunPNG(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "in.html")
	err := os.WriteFile(input, []byte(`<html><body><p style="height: 150px; background: red">Hello</p><p>World</p></body></html>`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.png")
	err = run(context.Background(), config{
		input: input, output: output, format: "png",
		pageWidth: 200, pageHeight: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"out-1.png", "out-2.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatal(err)
		}
	}
}
