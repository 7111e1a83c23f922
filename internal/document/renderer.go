// internal/document/renderer.go
//
// Document Renderer.
//
// Context
//   BuildLayout turns a DisplayModel into the fixed A4 authorization
//   layout: header block, diagonal watermark, micro-text security line,
//   authorization banner with barcode, photo and detail grid, numbered
//   notes with verification QR code, and the authority footer.  The result
//   is deterministic for a given model, which is what makes repeated
//   raster output bit-identical.
//
// Workflow
//   •  Regions are appended in z-order: watermark and emblem first, then
//      content top to bottom.
//   •  Every region renders even when optional data is absent; the photo
//      slot falls back to a framed placeholder.  Missing record identity
//      (id or passport number) is a precondition violation and returns a
//      ValidationError before any drawing is described.
//
//------------------------------------------------------------------------------

package document

import (
	"fmt"
	"image/color"
	"net/url"
	"strings"
)

// Options selects per-deployment rendering configuration.
type Options struct {
	// VerificationBase is the public host for QR verification URLs,
	// e.g. https://etas.example.gov.
	VerificationBase string
	// PathStyleVerify selects /verify/etas/<n> URLs instead of the query
	// form /verify?etas=<n>.
	PathStyleVerify bool
	// InstitutionCode prefixes the human-readable authorization number in
	// the banner, e.g. "FGS".
	InstitutionCode string
}

// Fixed document strings.
const (
	headerLine1 = "JAMHUURIYADDA FEDERAALKA SOOMAALIYA"
	headerLine2 = "Federal Republic of Somalia"
	headerLine3 = "Immigration and Citizenship Agency"

	microText = "Federal Republic of Somalia Immigration and Citizenship Agency "

	note1 = "A colored copy of this eTAS, along with your passport, must be presented to the immigration officer upon arrival at the designated point of entry."
	note2 = "This Travel Authorization allows for a single entry and is valid for 90 days from the date of approval."
	note3 = "Providing false information to immigration authorities constitutes a criminal offense and is punishable by law."

	attestation = "THIS DOCUMENT WAS ISSUED UNDER THE AUTHORITY OF IMMIGRATION AND CITIZENSHIP AGENCY"
	siteLine    = "ETAS.GOV.SO"
	footerOrg   = "IMMIGRATION AND CITIZENSHIP AGENCY"
	footerMail  = "Email: visa.dept@immigration.gov.so | www.immigration.gov.so"
)

// Watermark geometry.
const (
	watermarkAngle = -50.0
	watermarkSize  = 20.0
	watermarkAlpha = 36 // ~14% opacity
)

var (
	ink      = color.RGBA{0, 0, 0, 255}
	grayInk  = color.RGBA{70, 70, 70, 255}
	bannerBg = color.RGBA{221, 224, 225, 255}
	frame    = color.RGBA{180, 180, 180, 255}
)

// BuildLayout describes the complete document for m.  It fails with a
// ValidationError when record identity is missing.
func BuildLayout(m *DisplayModel, opts Options) (*Layout, error) {
	if strings.TrimSpace(m.ID) == "" {
		return nil, &ValidationError{Field: "id", Reason: "record identity required"}
	}
	if strings.TrimSpace(m.PassportNumber) == "" {
		return nil, &ValidationError{Field: "passport_number", Reason: "passport number required"}
	}

	l := &Layout{Width: PageWidth, Height: PageHeight}

	// Background security layers first.
	l.Ops = append(l.Ops, WatermarkOp{
		Text:  m.WatermarkLine(),
		Angle: watermarkAngle,
		Size:  watermarkSize,
		Alpha: watermarkAlpha,
	})

	appendHeader(l)
	l.Ops = append(l.Ops, MicroTextOp{Y: 168, Text: microText, Size: 4})
	appendBanner(l, m, opts)
	appendDetails(l, m)
	appendNotes(l, m, opts)
	appendFooter(l)

	return l, nil
}

// VerifyURL builds the QR payload for an authorization number.
func VerifyURL(opts Options, etasNumber string) string {
	base := strings.TrimRight(opts.VerificationBase, "/")
	if opts.PathStyleVerify {
		return base + "/verify/etas/" + url.PathEscape(etasNumber)
	}
	return base + "/verify?etas=" + url.QueryEscape(etasNumber)
}

func appendHeader(l *Layout) {
	// Coat-of-arms slot, centered.
	l.Ops = append(l.Ops,
		ImageOp{Box: Rect{X: 356, Y: 28, W: 82, H: 82}, Source: PlaceholderPhoto},
		TextOp{Box: Rect{X: 40, Y: 116, W: 714, H: 18}, Text: headerLine1, Size: 14, Bold: true, Align: AlignCenter, Color: ink},
		TextOp{Box: Rect{X: 40, Y: 136, W: 714, H: 20}, Text: headerLine2, Size: 16, Bold: true, Align: AlignCenter, Color: ink},
		TextOp{Box: Rect{X: 40, Y: 157, W: 714, H: 14}, Text: headerLine3, Size: 11, Bold: true, Align: AlignCenter, Color: grayInk},
	)
}

func appendBanner(l *Layout, m *DisplayModel, opts Options) {
	const top = 182.0
	bg, fr := bannerBg, frame
	l.Ops = append(l.Ops,
		RectOp{Box: Rect{X: 40, Y: top, W: 714, H: 86}, Fill: &bg, Stroke: &fr, StrokeWidth: 1},

		// Center block: document title and validity dates.
		TextOp{Box: Rect{X: 240, Y: top + 8, W: 314, H: 34}, Text: "eTAS", Size: 34, Bold: true, Align: AlignCenter, Color: ink},
		TextOp{Box: Rect{X: 240, Y: top + 48, W: 314, H: 14}, Text: "Etas Issued On:  " + m.FormattedIssueDate, Size: 12, Bold: true, Align: AlignCenter, Color: ink},
		TextOp{Box: Rect{X: 240, Y: top + 64, W: 314, H: 14}, Text: "Etas Expires On:  " + m.FormattedExpiryDate, Size: 12, Bold: true, Align: AlignCenter, Color: ink},

		// Right block: barcode over the human-readable number.
		BarcodeOp{Box: Rect{X: 566, Y: top + 10, W: 176, H: 40}, Content: m.EtasNumber},
		TextOp{
			Box:  Rect{X: 566, Y: top + 56, W: 176, H: 16},
			Text: fmt.Sprintf("%s - %s", opts.InstitutionCode, m.EtasNumber),
			Size: 14, Bold: true, Align: AlignCenter, Color: ink,
		},
	)
}

// detail grid: two columns of label/value pairs in record order.
func appendDetails(l *Layout, m *DisplayModel) {
	const (
		top      = 296.0
		photoW   = 155.0
		photoH   = photoW * 4.5 / 3.5 // fixed passport aspect
		gridX    = 250.0
		colWidth = 252.0
		rowH     = 38.0
	)

	l.Ops = append(l.Ops, ImageOp{
		Box:    Rect{X: 40, Y: top, W: photoW, H: photoH},
		Source: m.PhotoURL,
		Border: true,
	})

	type field struct{ label, value string }
	fields := []field{
		{"Given Name", m.GivenName},
		{"Surname", m.Surname},
		{"Date of Birth", m.DateOfBirth},
		{"Sex", m.Sex},
		{"Current Nationality", m.Nationality},
		{"Passport No.", m.PassportNumber},
		{"Passport Issue Place", m.IssuePlace},
		{"Passport Issue Date", m.PassportIssue},
		{"Passport Expiry Date", m.PassportExpiry},
		{"Purpose of Visit", m.VisitPurpose},
		{"Sponsored By", m.Sponsor},
	}

	for i, f := range fields {
		col, row := i%2, i/2
		x := gridX + float64(col)*colWidth
		y := top + float64(row)*rowH
		if i == len(fields)-1 && col == 0 {
			// Last field spans both columns, matching the printed form.
			l.Ops = append(l.Ops, labelValue(x, y, colWidth*2, f.label, f.value)...)
			break
		}
		l.Ops = append(l.Ops, labelValue(x, y, colWidth, f.label, f.value)...)
	}
}

func labelValue(x, y, w float64, label, value string) []Op {
	if value == "" {
		value = "—"
	}
	return []Op{
		TextOp{Box: Rect{X: x, Y: y, W: w, H: 14}, Text: label + ":", Size: 12, Align: AlignLeft, Color: grayInk},
		TextOp{Box: Rect{X: x, Y: y + 16, W: w, H: 15}, Text: value, Size: 13, Bold: true, Align: AlignLeft, Color: ink},
	}
}

func appendNotes(l *Layout, m *DisplayModel, opts Options) {
	const (
		top    = 560.0
		qrSize = 135.0
		qrX    = PageWidth - 40 - qrSize
		noteW  = qrX - 40 - 30
	)

	l.Ops = append(l.Ops, TextOp{
		Box: Rect{X: 40, Y: top, W: noteW, H: 18}, Text: "Notes",
		Size: 16, Bold: true, Align: AlignLeft, Color: ink,
	})

	y := top + 30
	for i, note := range []string{note1, note2, note3} {
		for j, line := range wrapText(note, 78) {
			prefix := "    "
			if j == 0 {
				prefix = fmt.Sprintf("%d.  ", i+1)
			}
			l.Ops = append(l.Ops, TextOp{
				Box: Rect{X: 40, Y: y, W: noteW, H: 16}, Text: prefix + line,
				Size: 13, Align: AlignLeft, Color: ink,
			})
			y += 20
		}
		y += 8
	}

	l.Ops = append(l.Ops,
		QRCodeOp{Box: Rect{X: qrX, Y: top + 14, W: qrSize, H: qrSize}, Content: VerifyURL(opts, m.EtasNumber)},
		TextOp{
			Box: Rect{X: qrX, Y: top + 14 + qrSize + 4, W: qrSize, H: 8},
			Text: m.GivenName, Size: 6, Bold: true, Align: AlignCenter, Color: grayInk,
		},
	)
}

func appendFooter(l *Layout) {
	l.Ops = append(l.Ops,
		TextOp{Box: Rect{X: 40, Y: 830, W: 714, H: 16}, Text: attestation, Size: 13, Bold: true, Align: AlignCenter, Color: grayInk},
		TextOp{Box: Rect{X: 40, Y: 852, W: 714, H: 16}, Text: siteLine, Size: 13, Bold: true, Align: AlignCenter, Color: grayInk},

		// Decorative silhouette strip above the contact block.
		ImageOp{Box: Rect{X: 97, Y: 950, W: 600, H: 60}, Source: PlaceholderPhoto},

		LineOp{X1: 40, Y1: 1028, X2: 754, Y2: 1028, Width: 1, Color: frame},
		TextOp{Box: Rect{X: 40, Y: 1040, W: 714, H: 15}, Text: footerOrg, Size: 12, Bold: true, Align: AlignCenter, Color: ink},
		TextOp{Box: Rect{X: 40, Y: 1060, W: 714, H: 14}, Text: footerMail, Size: 12, Align: AlignCenter, Color: grayInk},
	)
}

// wrapText splits s into lines of at most width characters, breaking on
// spaces.  Monospace-ish approximation is fine for the fixed note copy.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	var lines []string
	var cur string
	for _, w := range words {
		if cur == "" {
			cur = w
			continue
		}
		if len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
