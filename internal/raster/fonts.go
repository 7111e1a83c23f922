// internal/raster/fonts.go
//
// Embedded font handling.
//
// Context
//   Raster output must be identical across hosts, so the rasterizer never
//   touches system fonts.  The Go font family ships embedded in the
//   binary; faces are parsed once and cached per size and weight.
//
//------------------------------------------------------------------------------

package raster

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce    sync.Once
	fontRegular *opentype.Font
	fontBold    *opentype.Font
	fontErr     error

	faceMu    sync.Mutex
	faceCache = map[faceKey]font.Face{}
)

type faceKey struct {
	size float64
	bold bool
}

func loadFonts() error {
	fontOnce.Do(func() {
		fontRegular, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("parse regular font: %w", fontErr)
			return
		}
		fontBold, fontErr = opentype.Parse(gobold.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("parse bold font: %w", fontErr)
		}
	})
	return fontErr
}

// face returns a cached font.Face for the given pixel size and weight.
func face(size float64, bold bool) (font.Face, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}

	key := faceKey{size: size, bold: bold}
	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceCache[key]; ok {
		return f, nil
	}

	src := fontRegular
	if bold {
		src = fontBold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build face size=%.1f bold=%v: %w", size, bold, err)
	}
	faceCache[key] = f
	return f, nil
}
