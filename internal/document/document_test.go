package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"scan.pdf", FormatPDF},
		{"scan.PDF", FormatPDF},
		{"page.png", FormatPNG},
		{"photo.jpg", FormatJPEG},
		{"photo.jpeg", FormatJPEG},
		{"fax.bmp", FormatBMP},
		{"fax.tif", FormatTIFF},
		{"fax.tiff", FormatTIFF},
		{"notes.txt", FormatUnknown},
		{"archive.zip", FormatUnknown},
		{"noextension", FormatUnknown},
		{"/some/dir/scan.Pdf", FormatPDF},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectFormat(tt.path); got != tt.expected {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "page.png")
	if err := os.WriteFile(pngPath, []byte("fake png"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("valid image file", func(t *testing.T) {
		doc, err := New(pngPath)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if doc.Format != FormatPNG {
			t.Errorf("Format = %q, want %q", doc.Format, FormatPNG)
		}
		if doc.Size != int64(len("fake png")) {
			t.Errorf("Size = %d, want %d", doc.Size, len("fake png"))
		}
		if doc.BaseName() != "page" {
			t.Errorf("BaseName() = %q, want %q", doc.BaseName(), "page")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := New(filepath.Join(dir, "nope.png")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("directory", func(t *testing.T) {
		if _, err := New(dir); err == nil {
			t.Fatal("expected error for directory path")
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		txtPath := filepath.Join(dir, "notes.txt")
		if err := os.WriteFile(txtPath, []byte("hello"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := New(txtPath)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestSupportedExt(t *testing.T) {
	for _, ext := range SupportedExtensions() {
		if !SupportedExt(ext) {
			t.Errorf("SupportedExt(%q) = false", ext)
		}
	}
	if SupportedExt(".txt") {
		t.Error("SupportedExt(.txt) = true, want false")
	}
}
