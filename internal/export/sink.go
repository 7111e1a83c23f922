// internal/export/sink.go
//
// Export Sink: hand a finished PDF to the client.
//
// Context
//   Two delivery modes mirror the two packaging variants: Download writes
//   an attachment named after the passport number, and Inline serves the
//   document for in-browser viewing (used behind transient blob tokens).
//   A short write is reported as a document.DeliveryError — distinct from
//   pipeline failures, since the PDF itself was produced.
//
//------------------------------------------------------------------------------

package export

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ica-so/etas-portal/internal/document"
	"github.com/ica-so/etas-portal/internal/pdfgen"
)

// Download delivers res as a named file attachment.
func Download(w http.ResponseWriter, res *pdfgen.Result) error {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Bytes)))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", res.Filename))
	return write(w, res.Bytes)
}

// Inline delivers res for direct viewing in the browser.
func Inline(w http.ResponseWriter, res *pdfgen.Result) error {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Bytes)))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("inline; filename=%q", res.Filename))
	w.Header().Set("Cache-Control", "no-store")
	return write(w, res.Bytes)
}

func write(w http.ResponseWriter, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return &document.DeliveryError{Err: err}
	}
	return nil
}
