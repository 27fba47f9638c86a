// Package images fetches images and reads their intrinsic size.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/laughinglion/PeachPDF-sub000/version"
)

// Image is a fetched raster image, whose intrinsic size is known.
// Decoding the pixels is delayed until painting.
type Image struct {
	Source string
	Format string // as returned by image.DecodeConfig
	Width  int    // intrinsic width, in pixels
	Height int    // intrinsic height, in pixels

	content []byte

	once    sync.Once
	decoded image.Image
	err     error
}

// NewImage reads the intrinsic size of the encoded [content].
func NewImage(source string, content []byte) (*Image, error) {
	config, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, imageLoadingError(err)
	}
	return &Image{Source: source, Format: format, Width: config.Width, Height: config.Height, content: content}, nil
}

// Decode returns the pixels of the image. The result is cached.
func (img *Image) Decode() (image.Image, error) {
	img.once.Do(func() {
		img.decoded, _, img.err = image.Decode(bytes.NewReader(img.content))
		if img.err != nil {
			img.err = imageLoadingError(img.err)
		}
	})
	return img.decoded, img.err
}

// An error occured when loading an image.
// The image data is probably corrupted or in an invalid format.
func imageLoadingError(err error) error {
	return fmt.Errorf("error loading image : %s", err)
}

// Loader resolves the source of replaced content (<img src>, background-image)
// to an image.
type Loader interface {
	LoadImage(ctx context.Context, src string) (*Image, error)
}

// Fetcher is the default [Loader]. It supports local files
// (resolved against [Fetcher.BaseDir]), data: URIs and http(s) URLs.
// Results, including failures, are cached by source.
type Fetcher struct {
	BaseDir string
	Client  *http.Client

	mu    sync.Mutex
	cache map[string]cached
}

type cached struct {
	img *Image
	err error
}

var _ Loader = (*Fetcher)(nil)

// NewFetcher returns a fetcher resolving relative paths against [baseDir].
func NewFetcher(baseDir string) *Fetcher {
	return &Fetcher{
		BaseDir: baseDir,
		Client:  &http.Client{Timeout: 30 * time.Second},
		cache:   make(map[string]cached),
	}
}

func (f *Fetcher) LoadImage(ctx context.Context, src string) (*Image, error) {
	src = strings.TrimSpace(src)
	f.mu.Lock()
	if c, ok := f.cache[src]; ok {
		f.mu.Unlock()
		return c.img, c.err
	}
	f.mu.Unlock()

	content, err := f.fetch(ctx, src)
	var img *Image
	if err == nil {
		img, err = NewImage(src, content)
	}
	if err != nil {
		err = fmt.Errorf(`Failed to load image at "%s" (%s)`, shorten(src), err)
	}

	f.mu.Lock()
	if f.cache == nil {
		f.cache = make(map[string]cached)
	}
	f.cache[src] = cached{img, err}
	f.mu.Unlock()
	return img, err
}

func shorten(src string) string {
	if len(src) > 60 {
		return src[:57] + "..."
	}
	return src
}

func (f *Fetcher) fetch(ctx context.Context, src string) ([]byte, error) {
	lower := strings.ToLower(src)
	switch {
	case src == "":
		return nil, fmt.Errorf("empty image source")
	case strings.HasPrefix(lower, "data:"):
		return DecodeDataURI(src)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return f.fetchHTTP(ctx, src)
	case strings.HasPrefix(lower, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(u.Path)
	default:
		path := src
		if !filepath.IsAbs(path) && f.BaseDir != "" {
			path = filepath.Join(f.BaseDir, path)
		}
		return os.ReadFile(path)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", version.VersionString)
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, src)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// DecodeDataURI returns the payload of a data: URI,
// either base64 or percent encoded.
func DecodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma == -1 {
		return nil, fmt.Errorf("invalid data URI: missing comma")
	}
	header, payload := uri[len("data:"):comma], uri[comma+1:]
	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		if unescaped, err := url.PathUnescape(payload); err == nil {
			payload = unescaped
		}
		out, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// some producers omit the padding
			out, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URI: %w", err)
		}
		return out, nil
	}
	out, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid data URI: %w", err)
	}
	return []byte(out), nil
}
