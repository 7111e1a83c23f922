// internal/raster/raster_test.go
//
// Run: go test ./internal/raster -v

package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/ica-so/etas-portal/internal/applicant"
	"github.com/ica-so/etas-portal/internal/document"
)

// fixedLoader serves one solid-color image for any source, keeping test
// captures deterministic and offline.
type fixedLoader struct{ fail bool }

func (l fixedLoader) Load(ctx context.Context, src string) (image.Image, error) {
	if l.fail {
		return nil, errors.New("boom")
	}
	img := image.NewRGBA(image.Rect(0, 0, 35, 45))
	for y := 0; y < 45; y++ {
		for x := 0; x < 35; x++ {
			img.Set(x, y, color.RGBA{90, 120, 150, 255})
		}
	}
	return img, nil
}

func testLayout(t *testing.T) *document.Layout {
	t.Helper()
	rec := &applicant.Record{
		ID:             "rec-1",
		EtasNumber:     "1764821907",
		GivenName:      "Amina",
		Surname:        "Hassan",
		DateOfBirth:    "1994-03-12",
		Sex:            "Female",
		Nationality:    "India",
		PassportNumber: "X7610849",
		VisitPurpose:   "Business",
		PhotoURL:       "https://cdn.example/p.png",
		CreatedAt:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	l, err := document.BuildLayout(document.Normalize(rec), document.Options{
		VerificationBase: "https://etas.example.gov",
		InstitutionCode:  "FGS",
	})
	if err != nil {
		t.Fatalf("BuildLayout: %v", err)
	}
	return l
}

func TestCaptureDeterministic(t *testing.T) {
	// Scale 1 keeps the test fast; determinism does not depend on scale.
	r := New(1, fixedLoader{})
	l := testLayout(t)

	a, err := r.Capture(context.Background(), l)
	if err != nil {
		t.Fatalf("first capture: %v", err)
	}
	b, err := r.Capture(context.Background(), l)
	if err != nil {
		t.Fatalf("second capture: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("captures of the same layout differ")
	}
	if len(a) == 0 {
		t.Fatal("empty capture output")
	}
}

func TestCaptureFailsAtomicallyOnImageError(t *testing.T) {
	r := New(1, fixedLoader{fail: true})

	out, err := r.Capture(context.Background(), testLayout(t))
	if out != nil {
		t.Fatal("partial output returned after failure")
	}
	var rce *document.RenderCaptureError
	if !errors.As(err, &rce) {
		t.Fatalf("error = %v, want RenderCaptureError", err)
	}
}

func TestCaptureHonorsContext(t *testing.T) {
	r := New(1, fixedLoader{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Capture(ctx, testLayout(t)); err == nil {
		t.Fatal("cancelled context should abort capture")
	}
}
