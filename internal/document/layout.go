// internal/document/layout.go
//
// Document layout primitives.
//
// Context
//   The renderer (renderer.go) describes the authorization document as an
//   ordered list of drawing operations on a fixed A4 canvas.  The
//   rasterizer (internal/raster) executes those operations at a scale
//   factor.  Keeping layout and pixel work separate makes the layout
//   deterministic and unit-testable without touching image code.
//
// Notes
//   •  Coordinates are in base pixels on a 794 × 1123 canvas, which is A4
//      at 96 dpi.  The rasterizer multiplies by its scale factor.
//   •  Operation order is z-order: earlier operations are drawn first.
//
//------------------------------------------------------------------------------

package document

import "image/color"

// Base canvas dimensions: A4 (210 × 297 mm) at 96 dpi.
const (
	PageWidth  = 794.0
	PageHeight = 1123.0
)

// Rect is an axis-aligned region in base-pixel coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Align controls horizontal text placement inside a TextOp rect.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Op is one drawing operation.  The rasterizer switches on the concrete
// type.
type Op interface{ op() }

// TextOp draws a single line of text inside Box.  Size is the font height
// in base pixels.
type TextOp struct {
	Box   Rect
	Text  string
	Size  float64
	Bold  bool
	Align Align
	Color color.RGBA
}

// RectOp draws a filled and/or stroked rectangle.
type RectOp struct {
	Box         Rect
	Fill        *color.RGBA // nil = no fill
	Stroke      *color.RGBA // nil = no stroke
	StrokeWidth float64
}

// LineOp draws a straight line segment.
type LineOp struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          color.RGBA
}

// ImageOp draws an external image scaled into Box.  Source is a URL or the
// PlaceholderPhoto identifier; the rasterizer resolves it.
type ImageOp struct {
	Box    Rect
	Source string
	Border bool
}

// BarcodeOp draws a Code 128 linear barcode encoding Content.
type BarcodeOp struct {
	Box     Rect
	Content string
}

// QRCodeOp draws a QR code encoding Content, fitted square inside Box.
type QRCodeOp struct {
	Box     Rect
	Content string
}

// WatermarkOp tiles Text diagonally across the whole page at Angle degrees
// with low-opacity ink.
type WatermarkOp struct {
	Text  string
	Angle float64 // degrees, counter-clockwise
	Size  float64
	Alpha uint8 // ink opacity, 0–255
}

// MicroTextOp repeats Text in very small type across the page width at Y,
// a visual security cue distinct from the watermark.
type MicroTextOp struct {
	Y    float64
	Text string
	Size float64
}

func (TextOp) op()      {}
func (RectOp) op()      {}
func (LineOp) op()      {}
func (ImageOp) op()     {}
func (BarcodeOp) op()   {}
func (QRCodeOp) op()    {}
func (WatermarkOp) op() {}
func (MicroTextOp) op() {}

// Layout is the complete drawable document.
type Layout struct {
	Width, Height float64
	Ops           []Op
}
