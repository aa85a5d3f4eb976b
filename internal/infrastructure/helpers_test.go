package infrastructure

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/plant-catalog/pkg/e"
)

func TestImageExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{"fern.jpg", ".jpg", false},
		{"fern.JPEG", ".jpeg", false},
		{"photo.final.Png", ".png", false},
		{"fern.gif", "", true},
		{"fern", "", true},
		{"fern.png.exe", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ImageExtension(tt.filename)
		if tt.wantErr {
			if !errors.Is(err, e.ErrUploadRejected) {
				t.Errorf("ImageExtension(%q) error = %v, want %v", tt.filename, err, e.ErrUploadRejected)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ImageExtension(%q) = %q, %v; want %q", tt.filename, got, err, tt.want)
		}
	}
}

func TestContentTypeFromExt(t *testing.T) {
	if got := ContentTypeFromExt(".JPG"); got != "image/jpeg" {
		t.Errorf("ContentTypeFromExt(.JPG) = %q", got)
	}
	if got := ContentTypeFromExt(".bin"); got != "application/octet-stream" {
		t.Errorf("ContentTypeFromExt(.bin) = %q", got)
	}
}

func TestIsPlainFilename(t *testing.T) {
	for name, want := range map[string]bool{
		"1700000000000-abc.png": true,
		"../secret":             false,
		"a/b.png":               false,
		`a\b.png`:               false,
		"..":                    false,
		"":                      false,
	} {
		if got := IsPlainFilename(name); got != want {
			t.Errorf("IsPlainFilename(%q) = %v, want %v", name, got, want)
		}
	}
}
