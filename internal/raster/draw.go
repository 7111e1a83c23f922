// internal/raster/draw.go
//
// Drawing primitives used by the rasterizer.
//
// Notes
//   •  Text baselines approximate the ascent as the point size, which is
//      close enough for the Go fonts at the sizes this layout uses.
//   •  The watermark is rendered as an oversized straight tile and then
//      rotated onto the canvas in one affine transform, so no gaps appear
//      at the corners of the rotated bounding box.
//
//------------------------------------------------------------------------------

package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/ica-so/etas-portal/internal/document"
)

func drawText(dst *image.RGBA, op document.TextOp, s float64) error {
	f, err := face(op.Size*s, op.Bold)
	if err != nil {
		return err
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(op.Color), Face: f}
	textW := d.MeasureString(op.Text).Ceil()

	x := op.Box.X * s
	switch op.Align {
	case document.AlignCenter:
		x += (op.Box.W*s - float64(textW)) / 2
	case document.AlignRight:
		x += op.Box.W*s - float64(textW)
	}
	baseline := (op.Box.Y + op.Size) * s

	d.Dot = fixed.P(int(x), int(baseline))
	d.DrawString(op.Text)
	return nil
}

func drawRect(dst *image.RGBA, op document.RectOp, s float64) {
	box := scaleRect(op.Box, s)
	if op.Fill != nil {
		draw.Draw(dst, box, image.NewUniform(*op.Fill), image.Point{}, draw.Over)
	}
	if op.Stroke != nil {
		w := int(op.StrokeWidth * s)
		if w < 1 {
			w = 1
		}
		strokeRect(dst, box, w, *op.Stroke)
	}
}

func strokeRect(dst *image.RGBA, box image.Rectangle, w int, c color.RGBA) {
	u := image.NewUniform(c)
	draw.Draw(dst, image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+w), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(box.Min.X, box.Max.Y-w, box.Max.X, box.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(box.Min.X, box.Min.Y, box.Min.X+w, box.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(box.Max.X-w, box.Min.Y, box.Max.X, box.Max.Y), u, image.Point{}, draw.Over)
}

func drawLine(dst *image.RGBA, op document.LineOp, s float64) {
	w := int(op.Width * s)
	if w < 1 {
		w = 1
	}
	u := image.NewUniform(op.Color)

	// Axis-aligned fast path covers every rule in the layout.
	switch {
	case op.Y1 == op.Y2:
		y := int(op.Y1 * s)
		draw.Draw(dst, image.Rect(int(op.X1*s), y, int(op.X2*s), y+w), u, image.Point{}, draw.Over)
	case op.X1 == op.X2:
		x := int(op.X1 * s)
		draw.Draw(dst, image.Rect(x, int(op.Y1*s), x+w, int(op.Y2*s)), u, image.Point{}, draw.Over)
	default:
		steps := int(math.Hypot((op.X2-op.X1)*s, (op.Y2-op.Y1)*s))
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			x := int((op.X1 + t*(op.X2-op.X1)) * s)
			y := int((op.Y1 + t*(op.Y2-op.Y1)) * s)
			draw.Draw(dst, image.Rect(x, y, x+w, y+w), u, image.Point{}, draw.Over)
		}
	}
}

// drawImageCover scales img to fill box completely, cropping overflow so
// the aspect ratio is preserved (the photo slot is fixed 3.5:4.5).
func drawImageCover(dst *image.RGBA, box image.Rectangle, img image.Image) {
	sb := img.Bounds()
	boxAspect := float64(box.Dx()) / float64(box.Dy())
	srcAspect := float64(sb.Dx()) / float64(sb.Dy())

	crop := sb
	if srcAspect > boxAspect {
		// Too wide: crop left/right.
		w := int(float64(sb.Dy()) * boxAspect)
		off := (sb.Dx() - w) / 2
		crop = image.Rect(sb.Min.X+off, sb.Min.Y, sb.Min.X+off+w, sb.Max.Y)
	} else if srcAspect < boxAspect {
		h := int(float64(sb.Dx()) / boxAspect)
		off := (sb.Dy() - h) / 2
		crop = image.Rect(sb.Min.X, sb.Min.Y+off, sb.Max.X, sb.Min.Y+off+h)
	}

	xdraw.CatmullRom.Scale(dst, box, img, crop, xdraw.Over, nil)
}

// drawPlaceholder marks an absent image with a framed empty slot.
func drawPlaceholder(dst *image.RGBA, box image.Rectangle, bordered bool) {
	fill := color.RGBA{244, 244, 244, 255}
	draw.Draw(dst, box, image.NewUniform(fill), image.Point{}, draw.Over)
	if bordered {
		strokeRect(dst, box, 2, color.RGBA{170, 170, 170, 255})
	}
}

func drawBarcode(dst *image.RGBA, op document.BarcodeOp, s float64) error {
	box := scaleRect(op.Box, s)

	bc, err := code128.Encode(op.Content)
	if err != nil {
		return fmt.Errorf("encode code128 %q: %w", op.Content, err)
	}
	scaled, err := barcode.Scale(bc, box.Dx(), box.Dy())
	if err != nil {
		return fmt.Errorf("scale barcode: %w", err)
	}
	draw.Draw(dst, box, scaled, scaled.Bounds().Min, draw.Over)
	return nil
}

func drawQRCode(dst *image.RGBA, op document.QRCodeOp, s float64) error {
	box := scaleRect(op.Box, s)
	side := box.Dx()
	if box.Dy() < side {
		side = box.Dy()
	}

	qr, err := qrcode.New(op.Content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encode qr %q: %w", op.Content, err)
	}
	img := qr.Image(side)
	target := image.Rect(box.Min.X, box.Min.Y, box.Min.X+side, box.Min.Y+side)
	draw.Draw(dst, target, img, img.Bounds().Min, draw.Over)
	return nil
}

// drawMicroText repeats tiny security text across the full page width.
func drawMicroText(dst *image.RGBA, op document.MicroTextOp, s float64) error {
	f, err := face(op.Size*s, true)
	if err != nil {
		return err
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{51, 51, 51, 255}),
		Face: f,
		Dot:  fixed.P(0, int((op.Y+op.Size)*s)),
	}
	width := dst.Bounds().Dx()
	line := op.Text
	for d.MeasureString(line).Ceil() < width {
		line += op.Text
	}
	d.DrawString(line)
	return nil
}

// drawWatermark tiles the security line into an oversized square layer and
// rotates it onto the canvas about the page center.  The layer spans the
// page diagonal, so the rotated copy covers every corner without gaps.
func drawWatermark(dst *image.RGBA, op document.WatermarkOp, s float64) error {
	f, err := face(op.Size*s, true)
	if err != nil {
		return err
	}

	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	diag := int(math.Ceil(math.Hypot(float64(w), float64(h))))

	layer := image.NewRGBA(image.Rect(0, 0, diag, diag))
	d := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, op.Alpha}),
		Face: f,
	}

	// One long repeated line, re-used for every row.
	line := op.Text
	for d.MeasureString(line).Ceil() < diag {
		line += "   " + op.Text
	}

	lineH := int(op.Size * s * 2) // loose leading between rows
	shift := int(op.Size * s)     // stagger alternate rows
	for row, y := 0, lineH; y < diag+lineH; row, y = row+1, y+lineH {
		x := 0
		if row%2 == 1 {
			x = -shift
		}
		d.Dot = fixed.P(x, y)
		d.DrawString(line)
	}

	// Rotate the layer about its center onto the page center.
	rad := op.Angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	cx, cy := float64(w)/2, float64(h)/2
	lc := float64(diag) / 2
	m := f64.Aff3{
		cos, -sin, cx - cos*lc + sin*lc,
		sin, cos, cy - sin*lc - cos*lc,
	}
	xdraw.BiLinear.Transform(dst, m, layer, layer.Bounds(), xdraw.Over, nil)
	return nil
}
