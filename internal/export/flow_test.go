// internal/export/flow_test.go
//
// Run: go test ./internal/export -v

package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/ica-so/etas-portal/internal/applicant"
	"github.com/ica-so/etas-portal/internal/document"
	"github.com/ica-so/etas-portal/internal/raster"
)

// memLookup serves records from a map, standing in for the repository.
type memLookup struct {
	records map[string]*applicant.Record
}

func (l *memLookup) ByID(ctx context.Context, id string) (*applicant.Record, error) {
	rec, ok := l.records[id]
	if !ok {
		return nil, applicant.ErrNotFound
	}
	return rec, nil
}

// countingLoader tracks whether the raster stage was ever invoked.
type countingLoader struct{ calls int }

func (l *countingLoader) Load(ctx context.Context, src string) (image.Image, error) {
	l.calls++
	img := image.NewRGBA(image.Rect(0, 0, 35, 45))
	for y := 0; y < 45; y++ {
		for x := 0; x < 35; x++ {
			img.Set(x, y, color.RGBA{90, 120, 150, 255})
		}
	}
	return img, nil
}

func testRecord() *applicant.Record {
	return &applicant.Record{
		ID:             "rec-1",
		EtasNumber:     "1764821907",
		GivenName:      "Amina",
		Surname:        "Hassan",
		Nationality:    "India",
		PassportNumber: "X7610849",
		PhotoURL:       "https://cdn.example/p.png",
		CreatedAt:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testCoordinator(loader raster.Loader) (*Coordinator, *memLookup) {
	lookup := &memLookup{records: map[string]*applicant.Record{"rec-1": testRecord()}}
	r := raster.New(1, loader)
	opts := document.Options{VerificationBase: "https://etas.example.gov", InstitutionCode: "FGS"}
	return New(lookup, r, opts, 10*time.Second), lookup
}

func TestUnknownRecordFailsWithoutRendering(t *testing.T) {
	loader := &countingLoader{}
	c, _ := testCoordinator(loader)

	_, err := c.Export(context.Background(), "missing", false)
	var le *document.LookupError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want LookupError", err)
	}
	if loader.calls != 0 {
		t.Fatalf("raster stage ran %d times for a failed lookup", loader.calls)
	}
	if got := c.State("missing"); got != StateIdle {
		t.Fatalf("state after failed lookup = %v, want idle", got)
	}
}

func TestFetchTransitionsToReady(t *testing.T) {
	c, _ := testCoordinator(&countingLoader{})

	m, err := c.Fetch(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if m.GivenName != "AMINA" {
		t.Fatalf("model not normalized: %+v", m)
	}
	if got := c.State("rec-1"); got != StateReady {
		t.Fatalf("state = %v, want ready", got)
	}
}

func TestExportProducesPDF(t *testing.T) {
	c, _ := testCoordinator(&countingLoader{})

	res, err := c.Export(context.Background(), "rec-1", false)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if res.Filename != "eTAS_X7610849.pdf" {
		t.Fatalf("filename = %q", res.Filename)
	}
	if got := c.State("rec-1"); got != StateSucceeded {
		t.Fatalf("state = %v, want succeeded", got)
	}
}

type failingLoader struct{}

func (failingLoader) Load(ctx context.Context, src string) (image.Image, error) {
	return nil, errors.New("fetch refused")
}

func TestRenderFailureStaysObservable(t *testing.T) {
	c, _ := testCoordinator(failingLoader{})

	_, err := c.Export(context.Background(), "rec-1", false)
	var rce *document.RenderCaptureError
	if !errors.As(err, &rce) {
		t.Fatalf("error = %v, want RenderCaptureError", err)
	}
	if got := c.State("rec-1"); got != StateFailed {
		t.Fatalf("state after render failure = %v, want failed", got)
	}

	// The next trigger leaves Failed behind.
	if _, err := c.Fetch(context.Background(), "rec-1"); err != nil {
		t.Fatalf("Fetch after failure: %v", err)
	}
	if got := c.State("rec-1"); got != StateReady {
		t.Fatalf("state after retry fetch = %v, want ready", got)
	}
}

func TestExportOutlivesCallerCancellation(t *testing.T) {
	c, _ := testCoordinator(&countingLoader{})

	// A disconnected first caller must not poison the shared execution;
	// only the export timeout bounds the pipeline.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := c.Export(ctx, "rec-1", false)
	if err != nil {
		t.Fatalf("Export under cancelled caller context: %v", err)
	}
	if len(res.Bytes) == 0 {
		t.Fatal("empty PDF from detached export")
	}
}

func TestExportTransientParksBlob(t *testing.T) {
	c, _ := testCoordinator(&countingLoader{})

	token, err := c.ExportTransient(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("ExportTransient error: %v", err)
	}
	res, ok := c.Blobs.Get(token)
	if !ok {
		t.Fatal("blob not retrievable right after export")
	}
	if !res.Protected {
		t.Fatal("transient export must use the protected variant")
	}
}
