package cache

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// plainCache supports Get/Set only.
type plainCache struct{}

func (plainCache) Get(string) (string, bool) { return "", false }
func (plainCache) Set(string, string) error  { return nil }

func TestExporter_Export(t *testing.T) {
	c := NewInMemoryCache(3600)
	c.Set("b1:gemma3", `{"translated_text": "Olá"}`)
	c.Set("a9:gemma3", `{"translated_text": "Mundo"}`)

	e := NewExporter(c)
	e.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600)) }

	var buf bytes.Buffer
	n, err := e.Export(&buf, map[string]string{"backend": "ollama"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Export() = %d, want 2", n)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if export.Version != ExportVersion {
		t.Errorf("Version = %q, want %q", export.Version, ExportVersion)
	}
	if export.ExportedAt != "2024-05-01T15:00:00Z" {
		t.Errorf("ExportedAt = %q, want UTC timestamp", export.ExportedAt)
	}
	if len(export.Entries) != 2 || export.Entries[0].Key != "a9:gemma3" {
		t.Errorf("Entries = %v, want 2 entries sorted by key", export.Entries)
	}
	if export.Metadata["backend"] != "ollama" {
		t.Errorf("Metadata = %v", export.Metadata)
	}
}

func TestExporter_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewExporter(plainCache{}).Export(&buf, nil); err == nil {
		t.Error("expected error for a cache without Entries")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written, got %q", buf.String())
	}
}

func TestExporter_ExportToFileLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if _, err := NewExporter(plainCache{}).ExportToFile(path, nil); err == nil {
		t.Fatal("expected error for a cache without Entries")
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("directory should be empty, has %d files", len(files))
	}
}

const importDoc = `{
	"version": "1.0",
	"exported_at": "2024-01-01T00:00:00Z",
	"entries": [
		{"key": "k1:gemma3", "value": "{\"translated_text\": \"a\"}"},
		{"key": "", "value": "orphan"},
		{"key": "k2:gemma3", "value": "{\"translated_text\": \"b\"}"}
	],
	"metadata": {"backend": "ollama"}
}`

func TestImporter_Import(t *testing.T) {
	c := NewInMemoryCache(3600)
	c.Set("k1:gemma3", "old")

	result, err := NewImporter(c).Import(strings.NewReader(importDoc))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 || result.Failed != 1 || result.Skipped != 0 {
		t.Errorf("result = %+v, want 2 imported, 1 failed", result)
	}
	if result.Metadata["backend"] != "ollama" {
		t.Errorf("Metadata = %v", result.Metadata)
	}
	if val, _ := c.Get("k1:gemma3"); val != `{"translated_text": "a"}` {
		t.Errorf("k1 should be overwritten, got %q", val)
	}
}

func TestImporter_SkipExisting(t *testing.T) {
	c := NewInMemoryCache(3600)
	c.Set("k1:gemma3", "old")

	imp := NewImporter(c)
	imp.SkipExisting = true
	result, err := imp.Import(strings.NewReader(importDoc))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 1 || result.Skipped != 1 || result.Failed != 1 {
		t.Errorf("result = %+v, want 1 imported, 1 skipped, 1 failed", result)
	}
	if val, _ := c.Get("k1:gemma3"); val != "old" {
		t.Errorf("k1 should be kept, got %q", val)
	}
}

func TestImporter_Errors(t *testing.T) {
	c := NewInMemoryCache(3600)

	tests := map[string]func() error{
		"invalid json": func() error {
			_, err := NewImporter(c).Import(strings.NewReader("invalid json"))
			return err
		},
		"unknown version": func() error {
			_, err := NewImporter(c).Import(strings.NewReader(`{"version": "9.9", "entries": []}`))
			return err
		},
		"missing file": func() error {
			_, err := NewImporter(c).ImportFromFile(filepath.Join(t.TempDir(), "missing.json"))
			return err
		},
	}

	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			if fn() == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestExportImport_FileRoundTrip(t *testing.T) {
	src := newTestSQLiteCache(t, 0)
	src.Set("h1:gemma3", "one")
	src.Set("h2:gemma3", "two")

	path := filepath.Join(t.TempDir(), "export.json")
	n, err := NewExporter(src).ExportToFile(path, nil)
	if err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}
	if n != 2 {
		t.Errorf("ExportToFile() = %d, want 2", n)
	}

	dst := NewInMemoryCache(0)
	result, err := NewImporter(dst).ImportFromFile(path)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if val, _ := dst.Get("h2:gemma3"); val != "two" {
		t.Errorf("h2 = %q", val)
	}
}
