// Package splitter converts a document into an ordered sequence of page images.
package splitter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/docparse/docparse/internal/document"
)

// RenderDPI is the resolution used when rasterizing PDF pages for OCR.
const RenderDPI = 300

// Splitter produces page units from documents.
type Splitter struct {
	logger *slog.Logger
}

// New creates a Splitter.
func New(logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{logger: logger}
}

// Split converts doc into its ordered page units.
// Image formats yield exactly one unit carrying the file's raw content.
// PDFs yield one unit per page, rendered to PNG at RenderDPI.
// Failures are reported as document.ErrCorrupt and affect this document only.
func (s *Splitter) Split(ctx context.Context, doc *document.Document) ([]document.PageUnit, error) {
	if doc.IsPDF() {
		return s.splitPDF(ctx, doc)
	}

	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", document.ErrCorrupt, doc.Path, err)
	}

	return []document.PageUnit{{Doc: doc, Index: 1, Image: data}}, nil
}

// splitPDF rasterizes each page of a PDF in page order.
func (s *Splitter) splitPDF(ctx context.Context, doc *document.Document) ([]document.PageUnit, error) {
	f, err := os.Open(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", document.ErrCorrupt, doc.Path, err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", document.ErrCorrupt, doc.Path, err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: %s: no pages", document.ErrCorrupt, doc.Path)
	}

	s.logger.Debug("rendering PDF pages", "path", doc.Path, "pages", pageCount)

	units := make([]document.PageUnit, pageCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for page := 1; page <= pageCount; page++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := renderPage(doc.Path, page)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			units[page-1] = document.PageUnit{Doc: doc, Index: page, Image: img}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", document.ErrCorrupt, doc.Path, err)
	}

	return units, nil
}

// renderPage renders a single PDF page to PNG using pdftoppm (poppler-utils).
func renderPage(pdfPath string, page int) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "docparse-page-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPrefix := filepath.Join(tmpDir, "page")

	pageStr := fmt.Sprintf("%d", page)
	cmd := exec.Command("pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", fmt.Sprintf("%d", RenderDPI),
		"-singlefile",
		pdfPath,
		outputPrefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	data, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}

	return data, nil
}
