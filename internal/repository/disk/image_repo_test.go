package disk

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
)

func TestImageRepo_UploadOpenDelete(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewImageRepo(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewImageRepo() error = %v", err)
	}
	ctx := context.Background()

	key, err := repo.Upload(ctx, domain.NewImage("1700000000000-a.png", strings.NewReader("png-bytes"), 9, "image/png"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if key != "1700000000000-a.png" {
		t.Errorf("key = %q", key)
	}

	img, err := repo.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	body, _ := io.ReadAll(img.Body)
	_ = img.Body.Close()
	if string(body) != "png-bytes" || img.Size != 9 || img.ContentType != "image/png" {
		t.Errorf("image = %q size=%d type=%q", body, img.Size, img.ContentType)
	}

	if err := repo.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, key); err != nil {
		t.Fatalf("second Delete() error = %v, want nil", err)
	}
	if _, err := repo.Open(ctx, key); !errors.Is(err, e.ErrImageNotFound) {
		t.Errorf("Open() after delete error = %v, want %v", err, e.ErrImageNotFound)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "uploads"))
	if len(entries) != 0 {
		t.Errorf("leftover files: %v", entries)
	}
}

func TestImageRepo_RejectsPathTraversal(t *testing.T) {
	repo, err := NewImageRepo(t.TempDir())
	if err != nil {
		t.Fatalf("NewImageRepo() error = %v", err)
	}

	for _, key := range []string{"../etc/passwd", "a/b.png", ".."} {
		if _, err := repo.Open(context.Background(), key); !errors.Is(err, e.ErrImageNotFound) {
			t.Errorf("Open(%q) error = %v, want %v", key, err, e.ErrImageNotFound)
		}
	}
}

func TestImageRepo_UploadCancelled(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewImageRepo(dir)
	if err != nil {
		t.Fatalf("NewImageRepo() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Upload(ctx, domain.NewImage("x.png", strings.NewReader("data"), 4, "image/png")); err == nil {
		t.Fatal("Upload() error = nil, want context error")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("leftover files after cancelled upload: %v", entries)
	}
}
