// Command htmltopdf converts an HTML file to a PDF document,
// or to one PNG image per page.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/laughinglion/PeachPDF-sub000/backend"
	"github.com/laughinglion/PeachPDF-sub000/backend/pdf"
	"github.com/laughinglion/PeachPDF-sub000/backend/raster"
	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
	"github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/html/document"
	"github.com/laughinglion/PeachPDF-sub000/html/layout"
	"github.com/laughinglion/PeachPDF-sub000/html/tree"
	"github.com/laughinglion/PeachPDF-sub000/images"
	"github.com/laughinglion/PeachPDF-sub000/text"
	"github.com/laughinglion/PeachPDF-sub000/utils/testutils/tracer"
)

// fontFlags collects the -font flags, given as family=path or
// family:variant=path, with variant one of bold, italic, bolditalic.
type fontFlags []fontFile

type fontFile struct {
	family  string
	variant text.FontVariant
	path    string
}

func (ff *fontFlags) String() string {
	var parts []string
	for _, f := range *ff {
		parts = append(parts, f.family+"="+f.path)
	}
	return strings.Join(parts, ",")
}

func (ff *fontFlags) Set(value string) error {
	name, path, ok := strings.Cut(value, "=")
	if !ok || name == "" || path == "" {
		return fmt.Errorf("expected family=path, got %q", value)
	}
	family, variant, _ := strings.Cut(name, ":")
	var v text.FontVariant
	switch strings.ToLower(variant) {
	case "", "regular":
	case "bold":
		v.Bold = true
	case "italic":
		v.Italic = true
	case "bolditalic":
		v.Bold, v.Italic = true, true
	default:
		return fmt.Errorf("unknown font variant %q", variant)
	}
	*ff = append(*ff, fontFile{family: strings.TrimSpace(family), variant: v, path: path})
	return nil
}

type config struct {
	input, output, format, trace string

	width                 float64
	pageWidth, pageHeight float64
	margin                float64
	fonts                 fontFlags
}

func (cf config) layoutOptions() layout.Options {
	opts := layout.Options{
		PageWidth: pr.Float(cf.pageWidth), PageHeight: pr.Float(cf.pageHeight),
		MarginTop: pr.Float(cf.margin), MarginRight: pr.Float(cf.margin),
		MarginBottom: pr.Float(cf.margin), MarginLeft: pr.Float(cf.margin),
		MaxWidth: pr.Float(cf.width),
	}
	if cf.width > 0 && cf.pageWidth <= 0 {
		// a fixed content width, without pagination
		opts.PageWidth = pr.Float(cf.width) + 2*pr.Float(cf.margin)
		opts.MaxWidth = 0
	}
	return opts
}

func main() {
	var cf config
	flag.StringVar(&cf.input, "in", "", "HTML file to convert")
	flag.StringVar(&cf.output, "out", "output.pdf", "output path; with -format png, page numbers are inserted before the extension")
	flag.StringVar(&cf.format, "format", "pdf", "output format: pdf or png")
	flag.StringVar(&cf.trace, "trace", "", "if not empty, dump the laid out box tree to this file")
	flag.Float64Var(&cf.width, "width", 0, "content width in pixels, used when -page-width is 0")
	flag.Float64Var(&cf.pageWidth, "page-width", 612, "page width in pixels; 0 fits the content")
	flag.Float64Var(&cf.pageHeight, "page-height", 792, "page height in pixels; 0 disables pagination")
	flag.Float64Var(&cf.margin, "margin", 36, "page margins in pixels")
	flag.Var(&cf.fonts, "font", "additional font, as family=path or family:bold=path (repeatable)")
	flag.Parse()

	if cf.input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(context.Background(), cf); err != nil {
		log.Fatalf("conversion failed: %s", err)
	}
	fmt.Printf("written %s\n", cf.output)
}

// surface is implemented by the output backends
type surface interface {
	backend.Canvas
	write(outputPath string, pages int) error
}

type pdfSurface struct{ *pdf.Output }

func (s pdfSurface) write(outputPath string, _ int) error {
	return writeFile(outputPath, s.WritePDF)
}

type pngSurface struct{ *raster.Output }

func (s pngSurface) write(outputPath string, pages int) error {
	for i := 0; i < pages; i++ {
		index := i
		err := writeFile(pageFileName(outputPath, i, pages), func(w io.Writer) error {
			return s.WritePNG(index, w)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// pageFileName returns the output path of the page [index] (0-based),
// out.png becoming out-1.png, out-2.png, etc. when there are several pages.
func pageFileName(outputPath string, index, pages int) string {
	if pages <= 1 {
		return outputPath
	}
	ext := filepath.Ext(outputPath)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(outputPath, ext), index+1, ext)
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func newSurface(format string, fonts *text.FontRegistry) (surface, error) {
	switch format {
	case "pdf":
		return pdfSurface{pdf.New(fonts)}, nil
	case "png":
		return pngSurface{raster.New(fonts, 1)}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// run chains parsing, box building, layout and painting.
func run(ctx context.Context, cf config) error {
	fonts := text.NewFontRegistry()
	for _, f := range cf.fonts {
		if err := fonts.AddFile(f.family, f.variant, f.path); err != nil {
			return fmt.Errorf("loading font %s: %w", f.path, err)
		}
	}
	out, err := newSurface(cf.format, fonts)
	if err != nil {
		return err
	}

	doc, err := tree.NewHTMLFile(cf.input)
	if err != nil {
		return err
	}
	root, err := boxes.BuildTree(doc.Root, boxes.BuildOptions{})
	if err != nil {
		return fmt.Errorf("building boxes: %w", err)
	}

	opts := cf.layoutOptions()
	opts.Images = images.NewFetcher(doc.BaseDir)
	if _, err := layout.PerformLayout(ctx, root, out, opts); err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	if cf.trace != "" {
		tr := tracer.NewTracer(cf.trace)
		tr.DumpTree(root, "after layout")
		tr.Close()
	}

	pages, err := document.Paint(root, out, opts)
	if err != nil && !errors.Is(err, document.ErrUnbalancedClip) {
		return fmt.Errorf("painting: %w", err)
	}
	if err != nil {
		log.Printf("warning: %s", err)
	}
	return out.write(cf.output, pages)
}
