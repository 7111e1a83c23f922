// internal/pdfgen/pdfgen.go
//
// PDF Packager.
//
// Context
//   The rasterized document becomes the sole page of an A4 PDF, placed at
//   the origin and spanning the full 210 × 297 mm bleed.  Two variants
//   exist: an open PDF delivered as a named download, and a protected PDF
//   encrypted with the applicant's passport number (user and owner
//   password alike) with permissions restricted to printing.
//
// Workflow
//   •  Package registers the PNG from memory and writes it full-bleed.
//   •  Protected mode requires a non-blank passport number; packaging
//      fails fast with a document.ValidationError otherwise.
//   •  Any gofpdf failure surfaces as a document.PackagingError; no
//      partial artifact leaves this package.
//
//------------------------------------------------------------------------------

package pdfgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/ica-so/etas-portal/internal/document"
)

// A4 page size in millimetres.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
)

// Result is a finished PDF artifact.
type Result struct {
	Bytes     []byte
	Filename  string
	Protected bool
}

// Package embeds pngData as the single page of an A4 PDF.  When protect is
// set the output is encrypted with the uppercased passport number and
// print-only permissions.
func Package(pngData []byte, passportNumber string, protect bool) (*Result, error) {
	passport := strings.ToUpper(strings.TrimSpace(passportNumber))
	if passport == "" {
		return nil, &document.ValidationError{
			Field:  "passport_number",
			Reason: "passport number required before packaging",
		}
	}
	if len(pngData) == 0 {
		return nil, &document.PackagingError{Err: fmt.Errorf("empty raster input")}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	if protect {
		// User and owner password are both the passport number.
		pdf.SetProtection(gofpdf.CnProtectPrint, passport, passport)
	}
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("document", opts, bytes.NewReader(pngData))
	pdf.ImageOptions("document", 0, 0, pageWidthMM, pageHeightMM, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &document.PackagingError{Err: err}
	}
	if err := pdf.Error(); err != nil {
		return nil, &document.PackagingError{Err: err}
	}

	return &Result{
		Bytes:     buf.Bytes(),
		Filename:  fmt.Sprintf("eTAS_%s.pdf", passport),
		Protected: protect,
	}, nil
}
