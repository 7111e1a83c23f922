// internal/export/blob.go
//
// Transient PDF registry.
//
// Context
//   The protected variant is never written to disk.  The finished PDF is
//   parked in memory under a random token, the browser is redirected to
//   the token URL, and a sweeper invalidates the reference shortly after
//   so abandoned exports do not accumulate.
//
// Notes
//   •  Tokens are UUIDs; guessing one inside the 60-second window is not a
//      meaningful attack surface given the PDF is also password protected.
//   •  Get does not consume the entry, so the viewer may range-request the
//      document until it expires.
//
//------------------------------------------------------------------------------

package export

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ica-so/etas-portal/internal/metrics"
	"github.com/ica-so/etas-portal/internal/pdfgen"
)

// DefaultBlobTTL is how long a transient reference stays usable.
const DefaultBlobTTL = 60 * time.Second

type blobEntry struct {
	res     *pdfgen.Result
	expires time.Time
}

// BlobStore holds finished PDFs keyed by one-time tokens.
type BlobStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]blobEntry
}

// NewBlobStore returns an empty registry.  Run must be started for
// expiry to take effect.
func NewBlobStore(ttl time.Duration) *BlobStore {
	if ttl <= 0 {
		ttl = DefaultBlobTTL
	}
	return &BlobStore{ttl: ttl, m: make(map[string]blobEntry)}
}

// Put registers res and returns its access token.
func (b *BlobStore) Put(res *pdfgen.Result) string {
	token := uuid.NewString()
	b.mu.Lock()
	b.m[token] = blobEntry{res: res, expires: time.Now().Add(b.ttl)}
	metrics.ActiveBlobRefs.Set(float64(len(b.m)))
	b.mu.Unlock()
	return token
}

// Get returns the PDF for token if it is still valid.
func (b *BlobStore) Get(token string) (*pdfgen.Result, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.m[token]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.res, true
}

// Run sweeps expired entries until ctx is cancelled.
func (b *BlobStore) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			b.sweep(now)
		}
	}
}

func (b *BlobStore) sweep(now time.Time) {
	b.mu.Lock()
	for token, e := range b.m {
		if now.After(e.expires) {
			delete(b.m, token)
		}
	}
	metrics.ActiveBlobRefs.Set(float64(len(b.m)))
	b.mu.Unlock()
}
