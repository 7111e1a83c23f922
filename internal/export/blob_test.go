// internal/export/blob_test.go
//
// Run: go test ./internal/export -v

package export

import (
	"testing"
	"time"

	"github.com/ica-so/etas-portal/internal/pdfgen"
)

func TestBlobExpiry(t *testing.T) {
	b := NewBlobStore(50 * time.Millisecond)
	token := b.Put(&pdfgen.Result{Bytes: []byte("%PDF"), Filename: "eTAS_X.pdf"})

	if _, ok := b.Get(token); !ok {
		t.Fatal("fresh token should resolve")
	}

	// Past the TTL the entry is invalid even before the sweeper runs.
	time.Sleep(60 * time.Millisecond)
	if _, ok := b.Get(token); ok {
		t.Fatal("expired token still resolved")
	}

	// And the sweeper drops it from the table entirely.
	b.sweep(time.Now())
	b.mu.Lock()
	n := len(b.m)
	b.mu.Unlock()
	if n != 0 {
		t.Fatalf("sweep left %d entries", n)
	}
}

func TestBlobUnknownToken(t *testing.T) {
	b := NewBlobStore(time.Minute)
	if _, ok := b.Get("nope"); ok {
		t.Fatal("unknown token resolved")
	}
}
