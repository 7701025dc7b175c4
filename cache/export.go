package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// ExportVersion is written to every snapshot and checked on import.
const ExportVersion = "1.0"

// ExportFormat is the JSON document written by Export. Values are raw
// backend responses, keyed the same way the translator keys the cache.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry is one cached response.
type ExportEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Exporter snapshots an EnumerableCache.
type Exporter struct {
	cache TranslationCache
	now   func() time.Time
}

func NewExporter(cache TranslationCache) *Exporter {
	return &Exporter{cache: cache, now: time.Now}
}

// Snapshot lists the live entries sorted by key.
func (e *Exporter) Snapshot(metadata map[string]string) (*ExportFormat, error) {
	c, ok := e.cache.(EnumerableCache)
	if !ok {
		return nil, fmt.Errorf("cache type %T does not support export", e.cache)
	}

	live := c.Entries()
	entries := make([]ExportEntry, 0, len(live))
	for k, v := range live {
		entries = append(entries, ExportEntry{Key: k, Value: v})
	}
	slices.SortFunc(entries, func(a, b ExportEntry) int { return strings.Compare(a.Key, b.Key) })

	return &ExportFormat{
		Version:    ExportVersion,
		ExportedAt: e.now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}, nil
}

// Export writes an indented snapshot to w and returns the number of entries.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) (int, error) {
	snap, err := e.Snapshot(metadata)
	if err != nil {
		return 0, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return 0, fmt.Errorf("encoding snapshot: %w", err)
	}
	return len(snap.Entries), nil
}

// ExportToFile writes the snapshot next to path and renames it into place,
// so an interrupted export never leaves a truncated file behind.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".glossa-export-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // No-op after a successful rename

	n, err := e.Export(tmp, metadata)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return n, nil
}

// ImportResult counts what an import did.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Skipped  int // Keys already present, with SkipExisting
	Failed   int // Empty keys or Set errors
}

// Importer loads snapshots into a cache.
type Importer struct {
	cache TranslationCache

	// SkipExisting keeps entries the cache already holds instead of
	// overwriting them.
	SkipExisting bool
}

func NewImporter(cache TranslationCache) *Importer {
	return &Importer{cache: cache}
}

// Import decodes a snapshot from r and stores its entries.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var snap ExportFormat
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != "" && snap.Version != ExportVersion {
		return nil, fmt.Errorf("unsupported export version %q", snap.Version)
	}

	res := &ImportResult{Version: snap.Version, Metadata: snap.Metadata}
	for _, entry := range snap.Entries {
		switch {
		case entry.Key == "":
			res.Failed++
		case i.SkipExisting && i.has(entry.Key):
			res.Skipped++
		case i.cache.Set(entry.Key, entry.Value) != nil:
			res.Failed++
		default:
			res.Imported++
		}
	}
	return res, nil
}

func (i *Importer) has(key string) bool {
	_, ok := i.cache.Get(key)
	return ok
}

// ImportFromFile imports the snapshot stored at path.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - user-chosen path
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}
