// internal/storage/storage.go
//
// Media storage abstraction.
//
// Context
//   Applicant photos are uploaded during the apply flow and later fetched
//   by the rasterizer when the document is drawn.  Store hides where the
//   bytes live: the filesystem implementation in fs.go serves local
//   deployments, and an object-store implementation can slot in behind the
//   same interface later.
//
//------------------------------------------------------------------------------

package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// Store persists media objects and maps them to public URLs.
type Store interface {
	// Upload writes data under bucket/object and returns the public URL
	// clients (and the rasterizer) use to fetch it back.
	Upload(ctx context.Context, bucket, object string, data []byte, contentType string) (string, error)

	// PublicURL returns the URL for an already stored object.
	PublicURL(bucket, object string) string
}

// PhotoBucket holds applicant photos.
const PhotoBucket = "photos"

// PhotoObjectName builds the canonical photo object name: the uppercased
// passport number plus an upload timestamp, keeping the original file
// extension.  Repeated uploads for the same passport never collide.
func PhotoObjectName(passport, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s_%d%s",
		strings.ToUpper(strings.TrimSpace(passport)),
		time.Now().UnixMilli(),
		ext,
	)
}
