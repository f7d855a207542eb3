package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/docparse/docparse/internal/document"
)

// ScanDir enumerates the supported files directly inside dir, optionally
// filtered by a glob-style name pattern. Results are sorted for deterministic
// batch ordering. Subdirectories are not descended into.
func ScanDir(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !document.SupportedExt(filepath.Ext(name)) {
			continue
		}
		if pattern != "" {
			ok, err := filepath.Match(pattern, name)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}
		paths = append(paths, filepath.Join(dir, name))
	}

	sort.Strings(paths)
	return paths, nil
}
