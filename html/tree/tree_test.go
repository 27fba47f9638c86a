package tree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tu "github.com/laughinglion/PeachPDF-sub000/utils/testutils"
)

func TestParse(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	doc, err := NewHTMLString(`<!DOCTYPE html><title> My doc </title><p id="a" class>Hello <b>world</b></p>`)
	if err != nil {
		t.Fatal(err)
	}
	tu.AssertEqual(t, doc.Root.Data, "html")
	tu.AssertEqual(t, doc.Title(), "My doc")
	body := doc.Body()
	tu.AssertEqual(t, body.Data, "body")
	p := body.FirstChild
	tu.AssertEqual(t, Attr(p, "id"), "a")
	tu.AssertEqual(t, HasAttr(p, "class"), true)
	tu.AssertEqual(t, HasAttr(p, "style"), false)
	tu.AssertEqual(t, TextContent(p), "Hello world")
}

func TestCharset(t *testing.T) {
	// "é" in ISO-8859-1
	content := "<html><body>caf\xe9</body></html>"
	doc, err := NewHTML(strings.NewReader(content), "text/html; charset=iso-8859-1", "")
	if err != nil {
		t.Fatal(err)
	}
	tu.AssertEqual(t, TextContent(doc.Body()), "café")
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(`<base href="assets/"><img src="a.png">`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := NewHTMLFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tu.AssertEqual(t, doc.BaseDir, filepath.Join(dir, "assets"))

	if _, err := NewHTMLFile(filepath.Join(dir, "missing.html")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
