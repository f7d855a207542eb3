// Package document models input files and the page units they split into.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a supported input file format by its MIME type.
type Format string

const (
	FormatPDF     Format = "application/pdf"
	FormatPNG     Format = "image/png"
	FormatJPEG    Format = "image/jpeg"
	FormatBMP     Format = "image/bmp"
	FormatTIFF    Format = "image/tiff"
	FormatUnknown Format = "application/octet-stream"
)

// ErrUnsupportedFormat indicates a file extension outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrCorrupt indicates a document that could not be opened or rasterized.
// It is fatal to that document only, never to the batch.
var ErrCorrupt = errors.New("corrupt document")

var formatByExt = map[string]Format{
	".pdf":  FormatPDF,
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
}

// SupportedExtensions returns the recognized file extensions, dot included.
func SupportedExtensions() []string {
	return []string{".pdf", ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}
}

// SupportedExt reports whether ext (dot included, any case) is recognized.
func SupportedExt(ext string) bool {
	_, ok := formatByExt[strings.ToLower(ext)]
	return ok
}

// DetectFormat maps a path's extension to its Format.
func DetectFormat(path string) Format {
	if f, ok := formatByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return FormatUnknown
}

// Document is a single input file plus its detected format.
// Immutable once created.
type Document struct {
	Path   string
	Format Format
	Size   int64
}

// New validates path and builds a Document from it.
// Returns ErrUnsupportedFormat for extensions outside the supported set.
func New(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	return &Document{
		Path:   path,
		Format: format,
		Size:   info.Size(),
	}, nil
}

// BaseName returns the file name without directory or extension.
// Used to name the output artifact.
func (d *Document) BaseName() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsPDF reports whether the document needs page-by-page rasterization.
func (d *Document) IsPDF() bool {
	return d.Format == FormatPDF
}

// PageUnit is one page's raster image, the atomic unit of OCR work.
// Index is 1-based and reflects original document order.
type PageUnit struct {
	Doc   *Document
	Index int
	Image []byte
}
