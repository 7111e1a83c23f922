// internal/storage/fs_test.go
//
// Run: go test ./internal/storage -v

package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestUploadWritesAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	s := NewFS(dir, "https://etas.example.gov/")

	url, err := s.Upload(context.Background(), PhotoBucket, "X7610849_1.png",
		[]byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if url != "https://etas.example.gov/media/photos/X7610849_1.png" {
		t.Fatalf("unexpected URL %q", url)
	}

	got, err := os.ReadFile(filepath.Join(dir, PhotoBucket, "X7610849_1.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "png-bytes" {
		t.Fatalf("stored content mismatch: %q", got)
	}
}

func TestUploadRejectsTraversal(t *testing.T) {
	s := NewFS(t.TempDir(), "")
	for _, object := range []string{"../escape.png", "a/b.png", "..", ""} {
		if _, err := s.Upload(context.Background(), PhotoBucket, object, nil, ""); err == nil {
			t.Errorf("Upload accepted unsafe object %q", object)
		}
	}
}

func TestPhotoObjectName(t *testing.T) {
	name := PhotoObjectName(" x7610849 ", "me.JPEG")
	if !regexp.MustCompile(`^X7610849_\d+\.jpeg$`).MatchString(name) {
		t.Fatalf("unexpected object name %q", name)
	}
	if got := PhotoObjectName("X7610849", "noext"); !regexp.MustCompile(`^X7610849_\d+\.jpg$`).MatchString(got) {
		t.Fatalf("missing extension should default to .jpg, got %q", got)
	}
}
