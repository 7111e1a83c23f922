// internal/raster/raster.go
//
// Rasterizer: layout to pixels.
//
// Context
//   Capture executes a document.Layout on a white RGBA canvas at a fixed
//   scale factor and returns the encoded PNG.  The high scale keeps the
//   micro security text legible after PDF embedding.  Everything the
//   rasterizer touches is deterministic — embedded fonts, pure drawing,
//   injected image loader — so identical layouts produce identical bytes.
//
// Workflow
//   •  Operations are drawn in layout order.  The context is checked
//      between operations so an export timeout aborts mid-page.
//   •  Any failure (image fetch, font setup) aborts the whole capture and
//      surfaces as a document.RenderCaptureError.  No partial output.
//
//------------------------------------------------------------------------------

package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/ica-so/etas-portal/internal/document"
)

// DefaultScale multiplies base-pixel coordinates; 4 gives ~384 dpi output.
const DefaultScale = 4

// Rasterizer converts layouts to PNG images.
type Rasterizer struct {
	scale  float64
	loader Loader
}

// New returns a Rasterizer at the given scale.  Scale values below one
// fall back to DefaultScale.
func New(scale int, loader Loader) *Rasterizer {
	if scale < 1 {
		scale = DefaultScale
	}
	if loader == nil {
		loader = NewHTTPLoader()
	}
	return &Rasterizer{scale: float64(scale), loader: loader}
}

// Capture renders l and returns PNG bytes.
func (r *Rasterizer) Capture(ctx context.Context, l *document.Layout) ([]byte, error) {
	w := int(l.Width * r.scale)
	h := int(l.Height * r.scale)
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))

	// White background beneath any transparency.
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, op := range l.Ops {
		if err := ctx.Err(); err != nil {
			return nil, &document.RenderCaptureError{Stage: "canvas", Err: err}
		}
		if err := r.drawOp(ctx, canvas, op); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, &document.RenderCaptureError{Stage: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

func (r *Rasterizer) drawOp(ctx context.Context, canvas *image.RGBA, op document.Op) error {
	switch v := op.(type) {
	case document.WatermarkOp:
		if err := drawWatermark(canvas, v, r.scale); err != nil {
			return &document.RenderCaptureError{Stage: "watermark", Err: err}
		}
	case document.MicroTextOp:
		if err := drawMicroText(canvas, v, r.scale); err != nil {
			return &document.RenderCaptureError{Stage: "microtext", Err: err}
		}
	case document.TextOp:
		if err := drawText(canvas, v, r.scale); err != nil {
			return &document.RenderCaptureError{Stage: "text", Err: err}
		}
	case document.RectOp:
		drawRect(canvas, v, r.scale)
	case document.LineOp:
		drawLine(canvas, v, r.scale)
	case document.ImageOp:
		if err := r.drawImage(ctx, canvas, v); err != nil {
			return &document.RenderCaptureError{Stage: "image", Err: err}
		}
	case document.BarcodeOp:
		if err := drawBarcode(canvas, v, r.scale); err != nil {
			return &document.RenderCaptureError{Stage: "barcode", Err: err}
		}
	case document.QRCodeOp:
		if err := drawQRCode(canvas, v, r.scale); err != nil {
			return &document.RenderCaptureError{Stage: "qrcode", Err: err}
		}
	default:
		return &document.RenderCaptureError{
			Stage: "layout",
			Err:   fmt.Errorf("unknown operation %T", op),
		}
	}
	return nil
}

// drawImage resolves and paints an ImageOp.  The placeholder identifier
// never touches the loader.
func (r *Rasterizer) drawImage(ctx context.Context, canvas *image.RGBA, op document.ImageOp) error {
	box := scaleRect(op.Box, r.scale)

	if op.Source == document.PlaceholderPhoto {
		drawPlaceholder(canvas, box, op.Border)
		return nil
	}

	img, err := r.loader.Load(ctx, op.Source)
	if err != nil {
		return err
	}
	drawImageCover(canvas, box, img)
	if op.Border {
		strokeRect(canvas, box, int(r.scale), color.RGBA{180, 180, 180, 255})
	}
	return nil
}

func scaleRect(b document.Rect, s float64) image.Rectangle {
	return image.Rect(
		int(b.X*s), int(b.Y*s),
		int((b.X+b.W)*s), int((b.Y+b.H)*s),
	)
}
