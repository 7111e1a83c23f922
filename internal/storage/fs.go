// internal/storage/fs.go
//
// Filesystem-backed media store.
//
// Context
//   Objects live under <MediaDir>/<bucket>/<object> and are served by the
//   /media file server mounted in cmd/web.  PublicBase lets deployments
//   point URLs at a CDN or reverse-proxy host instead of the app itself.
//
//------------------------------------------------------------------------------

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS stores objects on the local filesystem.
type FS struct {
	mediaDir   string
	publicBase string // e.g. https://etas.example.gov, no trailing slash
}

// NewFS returns a filesystem store rooted at mediaDir.  publicBase prefixes
// all returned URLs; an empty base yields site-relative /media paths.
func NewFS(mediaDir, publicBase string) *FS {
	return &FS{
		mediaDir:   mediaDir,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// Upload writes data to disk and returns its public URL.  Parent
// directories are created as needed; writes go through a temp file and
// rename so readers never see partial content.
func (s *FS) Upload(ctx context.Context, bucket, object string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !safeName(bucket) || !safeName(object) {
		return "", fmt.Errorf("storage: unsafe object name %q/%q", bucket, object)
	}

	dir := filepath.Join(s.mediaDir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage mkdir: %w", err)
	}

	dst := filepath.Join(dir, object)
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("storage temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage close: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage rename: %w", err)
	}

	return s.PublicURL(bucket, object), nil
}

// PublicURL maps bucket/object onto the /media URL space.
func (s *FS) PublicURL(bucket, object string) string {
	return s.publicBase + "/media/" + bucket + "/" + object
}

// safeName rejects separators and traversal so object names cannot escape
// the media directory.
func safeName(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}
