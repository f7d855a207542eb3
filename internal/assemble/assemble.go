// Package assemble merges per-page OCR results into ordered Markdown artifacts.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docparse/docparse/internal/processor"
)

// Assemble merges page results for one document into a single text artifact.
// Pages are emitted in ascending index order regardless of completion order.
// Single-page documents yield the page text verbatim; multi-page documents get
// a "## Page {n}" heading per page. Failed pages are rendered as inline
// placeholders so pagination is preserved.
func Assemble(results []processor.PageResult) string {
	if len(results) == 0 {
		return ""
	}

	ordered := make([]processor.PageResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	if len(ordered) == 1 {
		return pageText(ordered[0])
	}

	var b strings.Builder
	for i, page := range ordered {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## Page %d\n\n%s", page.Index, pageText(page))
	}
	return b.String()
}

// pageText returns a page's extracted text or its failure placeholder.
func pageText(r processor.PageResult) string {
	if r.Failed() {
		return fmt.Sprintf("> OCR failed for this page: %v", r.Err)
	}
	return r.Text
}

// Write persists an artifact to outputDir as baseName.md, creating the
// directory if needed. An existing file at that path is overwritten.
func Write(outputDir, baseName, artifact string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, baseName+".md")
	if err := os.WriteFile(path, []byte(artifact), 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	return path, nil
}
