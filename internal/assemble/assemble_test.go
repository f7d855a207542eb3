package assemble

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docparse/docparse/internal/processor"
)

func TestAssembleSinglePage(t *testing.T) {
	artifact := Assemble([]processor.PageResult{{Index: 1, Text: "Hello"}})
	if artifact != "Hello" {
		t.Errorf("artifact = %q, want %q", artifact, "Hello")
	}
}

func TestAssembleSinglePageFailure(t *testing.T) {
	artifact := Assemble([]processor.PageResult{
		{Index: 1, Err: errors.New("provider unavailable")},
	})
	if !strings.Contains(artifact, "OCR failed for this page") {
		t.Errorf("expected failure placeholder, got %q", artifact)
	}
	if !strings.Contains(artifact, "provider unavailable") {
		t.Errorf("placeholder should carry the error message, got %q", artifact)
	}
}

func TestAssembleMultiPageOrder(t *testing.T) {
	// Completion order deliberately scrambled; output must follow page index.
	results := []processor.PageResult{
		{Index: 3, Text: "C"},
		{Index: 1, Text: "A"},
		{Index: 2, Text: "B"},
	}

	artifact := Assemble(results)
	expected := "## Page 1\n\nA\n\n## Page 2\n\nB\n\n## Page 3\n\nC"
	if artifact != expected {
		t.Errorf("artifact = %q, want %q", artifact, expected)
	}
}

func TestAssembleMultiPageWithFailure(t *testing.T) {
	results := []processor.PageResult{
		{Index: 1, Text: "first"},
		{Index: 2, Err: errors.New("timeout")},
		{Index: 3, Text: "third"},
	}

	artifact := Assemble(results)

	pos1 := strings.Index(artifact, "## Page 1")
	pos2 := strings.Index(artifact, "## Page 2")
	pos3 := strings.Index(artifact, "## Page 3")
	if pos1 < 0 || pos2 < 0 || pos3 < 0 || !(pos1 < pos2 && pos2 < pos3) {
		t.Fatalf("page headings missing or out of order: %q", artifact)
	}
	if !strings.Contains(artifact, "> OCR failed for this page: timeout") {
		t.Errorf("expected inline placeholder for page 2, got %q", artifact)
	}
	if !strings.Contains(artifact, "third") {
		t.Errorf("page 3 text should survive page 2's failure")
	}
}

func TestAssembleEmpty(t *testing.T) {
	if artifact := Assemble(nil); artifact != "" {
		t.Errorf("artifact = %q, want empty", artifact)
	}
}

func TestAssembleDeterminism(t *testing.T) {
	results := []processor.PageResult{
		{Index: 2, Text: "B"},
		{Index: 1, Text: "A"},
	}
	first := Assemble(results)
	second := Assemble(results)
	if first != second {
		t.Error("Assemble should be deterministic for identical input")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "nested", "output")

	path, err := Write(outDir, "scan", "content")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if path != filepath.Join(outDir, "scan.md") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content" {
		t.Errorf("file content = %q", data)
	}

	// Existing artifacts are overwritten without warning.
	if _, err := Write(outDir, "scan", "replaced"); err != nil {
		t.Fatalf("Write() overwrite error = %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "replaced" {
		t.Errorf("file content after overwrite = %q", data)
	}
}
