package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteBounds writes a bounds registry document holding categories.
func WriteBounds(t testing.TB, path string, categories map[string][]string) {
	t.Helper()

	sets := make(map[string]any, len(categories))
	for name, cats := range categories {
		sets[name] = map[string]any{"categories": cats}
	}
	data, err := json.MarshalIndent(map[string]any{"BOUNDS": sets}, "", "  ")
	if err != nil {
		t.Fatalf("marshal bounds: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadBounds returns the categories stored in a bounds registry document.
func ReadBounds(t testing.TB, path string) map[string][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var doc struct {
		Bounds map[string]struct {
			Categories []string `json:"categories"`
		} `json:"BOUNDS"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	out := make(map[string][]string, len(doc.Bounds))
	for name, set := range doc.Bounds {
		out[name] = set.Categories
	}
	return out
}
