package text

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/benoitkugler/textlayout/fonts/truetype"
	"github.com/benoitkugler/textlayout/language"

	pr "github.com/laughinglion/PeachPDF-sub000/css/properties"
)

// FontDescription selects the font used to measure and draw a word.
type FontDescription struct {
	Family []string // by order of preference
	Size   pr.Float // in pixels
	Weight int      // 400 is normal, 700 is bold
	Italic bool
}

// Bold returns true for weights heavier than 550.
func (fd FontDescription) Bold() bool { return fd.Weight > 550 }

// Key returns a string identifying the description, suitable
// for measurement caches.
func (fd FontDescription) Key() string {
	return fmt.Sprintf("%s|%g|%d|%t", strings.Join(fd.Family, ","), pr.Fl(fd.Size), fd.Weight, fd.Italic)
}

// NewLanguage normalizes a lang attribute, as used by [SplitWords].
func NewLanguage(tag string) language.Language {
	if tag == "" {
		return ""
	}
	return language.NewLanguage(tag)
}

// FontVariant is one face of a family.
type FontVariant struct {
	Bold, Italic bool
}

// FontRegistry stores the content of the font files
// made available to a backend, by family and variant.
type FontRegistry struct {
	fonts map[string]map[FontVariant][]byte
}

func NewFontRegistry() *FontRegistry {
	return &FontRegistry{fonts: make(map[string]map[FontVariant][]byte)}
}

// Add registers [data] for the given family, after checking
// it is a valid TrueType or OpenType font.
func (fr *FontRegistry) Add(family string, variant FontVariant, data []byte) error {
	if _, err := truetype.Parse(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("invalid font for family %s: %w", family, err)
	}
	family = strings.ToLower(family)
	if fr.fonts[family] == nil {
		fr.fonts[family] = make(map[FontVariant][]byte)
	}
	fr.fonts[family][variant] = data
	return nil
}

// AddFile reads and registers a font file.
func (fr *FontRegistry) AddFile(family string, variant FontVariant, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loading font file: %w", err)
	}
	return fr.Add(family, variant, data)
}

// Families returns the registered families, sorted.
func (fr *FontRegistry) Families() []string {
	out := make([]string, 0, len(fr.fonts))
	for f := range fr.fonts {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the first family of [fd] which is registered,
// preferring the exact variant and falling back to the regular one.
func (fr *FontRegistry) Lookup(fd FontDescription) (family string, variant FontVariant, data []byte, ok bool) {
	want := FontVariant{Bold: fd.Bold(), Italic: fd.Italic}
	for _, f := range fd.Family {
		f = strings.ToLower(f)
		variants := fr.fonts[f]
		if variants == nil {
			continue
		}
		for _, v := range []FontVariant{want, {Bold: want.Bold}, {Italic: want.Italic}, {}} {
			if data := variants[v]; data != nil {
				return f, v, data, true
			}
		}
	}
	return "", FontVariant{}, nil, false
}
