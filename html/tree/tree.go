// Package tree loads HTML documents with golang.org/x/net/html.
package tree

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/laughinglion/PeachPDF-sub000/logger"
)

// HTML represents an HTML document parsed by net/html.
type HTML struct {
	// Root is the <html> element.
	Root *html.Node

	// BaseDir is used to resolve relative image paths.
	BaseDir string
}

// NewHTML parses the document read from [r]. [contentType] is used to
// detect the encoding, and may be empty (UTF-8 and <meta charset> are
// then used).
func NewHTML(r io.Reader, contentType, baseDir string) (*HTML, error) {
	logger.ProgressLogger.Println("Step 1 - Fetching and parsing HTML")
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("can't fetch html input : %s", err)
	}
	utf8Reader, err := charset.NewReader(bytes.NewReader(content), contentType)
	if err != nil {
		return nil, fmt.Errorf("invalid html encoding : %s", err)
	}
	root, err := html.ParseWithOptions(utf8Reader, html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("invalid html input : %s", err)
	}

	var out HTML
	// html.Parse wraps the <html> tag
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			out.Root = c
			break
		}
	}
	if out.Root == nil {
		return nil, fmt.Errorf("invalid html input : missing <html> element")
	}
	out.BaseDir = baseDir
	if href := out.baseHref(); href != "" && !strings.Contains(href, "://") {
		out.BaseDir = filepath.Join(baseDir, filepath.FromSlash(href))
	}
	return &out, nil
}

// NewHTMLString parses an in-memory UTF-8 document.
func NewHTMLString(content string) (*HTML, error) {
	return NewHTML(strings.NewReader(content), "text/html; charset=utf-8", "")
}

// NewHTMLFile parses the file at [path]. Relative resources are
// resolved against its directory.
func NewHTMLFile(path string) (*HTML, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't fetch html input : %s", err)
	}
	defer f.Close()
	return NewHTML(f, "", filepath.Dir(path))
}

func (h *HTML) findElement(a atom.Atom) *html.Node {
	var find func(n *html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.DataAtom == a {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	return find(h.Root)
}

// Body returns the <body> element, which html.Parse always creates.
func (h *HTML) Body() *html.Node { return h.findElement(atom.Body) }

// Title returns the text content of <title>, or "".
func (h *HTML) Title() string {
	title := h.findElement(atom.Title)
	if title == nil {
		return ""
	}
	return strings.TrimSpace(TextContent(title))
}

func (h *HTML) baseHref() string {
	base := h.findElement(atom.Base)
	if base == nil {
		return ""
	}
	return Attr(base, "href")
}

// Attr returns the value of the attribute [name], or "".
func Attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HasAttr returns true if the attribute [name] is present.
func HasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return true
		}
	}
	return false
}

// TextContent concatenates the text of [n] and its descendants.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
