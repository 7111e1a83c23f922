// internal/raster/images.go
//
// Image source resolution for raster operations.
//
// Context
//   ImageOps in a layout reference photos by URL, data URL, or the
//   placeholder identifier.  Loader hides the fetch; the HTTP loader is
//   used in production and tests substitute a fixed in-memory loader so
//   raster output stays deterministic.
//
//   A fetch or decode failure is fatal to the whole capture.  The photo
//   is part of the document's integrity, so it is never silently dropped.
//
//------------------------------------------------------------------------------

package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Loader resolves an ImageOp source into a decoded image.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// HTTPLoader fetches images over HTTP(S) and decodes inline data URLs.
type HTTPLoader struct {
	Client *http.Client
}

// NewHTTPLoader returns a loader with a bounded-timeout client.
func NewHTTPLoader() *HTTPLoader {
	return &HTTPLoader{Client: &http.Client{Timeout: 15 * time.Second}}
}

// maxImageBytes caps decoded source size; applicant photos are small.
const maxImageBytes = 16 << 20

func (l *HTTPLoader) Load(ctx context.Context, src string) (image.Image, error) {
	if strings.HasPrefix(src, "data:") {
		return decodeDataURL(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("image request %q: %w", src, err)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image %q: %w", src, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image %q: status %d", src, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image %q: %w", src, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", src, err)
	}
	return img, nil
}

// MediaLoader resolves site-relative /media URLs straight from the local
// media directory and hands everything else to an HTTP loader.  Photos the
// portal stored itself never round-trip through its own HTTP stack.
type MediaLoader struct {
	mediaDir string
	next     Loader
}

// NewMediaLoader returns a loader rooted at mediaDir.
func NewMediaLoader(mediaDir string) *MediaLoader {
	return &MediaLoader{mediaDir: mediaDir, next: NewHTTPLoader()}
}

func (l *MediaLoader) Load(ctx context.Context, src string) (image.Image, error) {
	rel, ok := strings.CutPrefix(src, "/media/")
	if !ok {
		return l.next.Load(ctx, src)
	}
	rel = filepath.FromSlash(path.Clean(rel))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("image path %q escapes media dir", src)
	}

	data, err := os.ReadFile(filepath.Join(l.mediaDir, rel))
	if err != nil {
		return nil, fmt.Errorf("read media image %q: %w", src, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode media image %q: %w", src, err)
	}
	return img, nil
}

// decodeDataURL handles data:<mediatype>;base64,<payload> sources.
func decodeDataURL(src string) (image.Image, error) {
	idx := strings.Index(src, ",")
	if idx < 0 {
		return nil, fmt.Errorf("malformed data URL")
	}
	meta, payload := src[:idx], src[idx+1:]

	var raw []byte
	var err error
	if strings.HasSuffix(meta, ";base64") {
		raw, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data URL: %w", err)
		}
	} else {
		raw = []byte(payload)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode data URL image: %w", err)
	}
	return img, nil
}
