// Package artifact reads and writes the JSON files that carry records from
// one pipeline stage to the next.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Default locations of the intermediate and final files.
const (
	DefaultReposFile     = "out/raw_repos.json"
	DefaultSummariesFile = "out/summaries.json"
	DefaultPortfolioFile = "out/portfolio.md"
)

// ReadJSON decodes the array stored at path.
func ReadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return items, nil
}

// WriteJSON writes items as an indented UTF-8 JSON array, creating parent
// directories. A nil slice is written as [].
func WriteJSON[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return WriteFile(path, buf.Bytes())
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
