// internal/pdfgen/pdfgen_test.go
//
// Run: go test ./internal/pdfgen -v

package pdfgen

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/ica-so/etas-portal/internal/document"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestPackageOpenVariant(t *testing.T) {
	res, err := Package(tinyPNG(t), "x7610849", false)
	if err != nil {
		t.Fatalf("Package error: %v", err)
	}
	if res.Filename != "eTAS_X7610849.pdf" {
		t.Fatalf("filename = %q", res.Filename)
	}
	if !bytes.HasPrefix(res.Bytes, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	if bytes.Contains(res.Bytes, []byte("/Encrypt")) {
		t.Fatal("open variant must not be encrypted")
	}
}

func TestPackageProtectedVariantIsEncrypted(t *testing.T) {
	res, err := Package(tinyPNG(t), "X7610849", true)
	if err != nil {
		t.Fatalf("Package error: %v", err)
	}
	if !res.Protected {
		t.Fatal("result not marked protected")
	}
	// RC4/AES dictionary presence is the observable contract without a
	// full PDF reader: an encrypted document carries /Encrypt.
	if !bytes.Contains(res.Bytes, []byte("/Encrypt")) {
		t.Fatal("protected variant missing encryption dictionary")
	}
}

func TestPackageRejectsBlankPassport(t *testing.T) {
	for _, passport := range []string{"", "   ", "\t"} {
		_, err := Package(tinyPNG(t), passport, true)
		var ve *document.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("passport %q: got %v, want ValidationError", passport, err)
		}
	}
}

func TestPackageRejectsEmptyRaster(t *testing.T) {
	_, err := Package(nil, "X7610849", false)
	var pe *document.PackagingError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want PackagingError", err)
	}
}
