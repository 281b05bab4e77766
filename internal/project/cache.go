package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const cacheIndexVersion = 1

// analyzerVersion is folded into every fingerprint. Bump it when analyzer
// output changes for unchanged input.
const analyzerVersion = "vhdp-analyzer-1"

type cacheEntry struct {
	ContentHash string `json:"content_hash"`
	Fingerprint string `json:"fingerprint"`
	ResultPath  string `json:"result_path"`
}

type cacheIndex struct {
	Version int                   `json:"version"`
	Entries map[string]cacheEntry `json:"entries"`
}

// resultCache stores the unfiltered diagnostics of each VHDP file. An entry
// is valid while both the file content and the project fingerprint match.
type resultCache struct {
	dir   string
	mu    sync.Mutex
	index cacheIndex
}

func newResultCache(dir string) *resultCache {
	return &resultCache{
		dir: dir,
		index: cacheIndex{
			Version: cacheIndexVersion,
			Entries: make(map[string]cacheEntry),
		},
	}
}

func (c *resultCache) indexPath() string {
	return filepath.Join(c.dir, "index.json")
}

func (c *resultCache) resultPathForFile(filePath string) string {
	return filepath.Join(c.dir, "results", hashString(filePath)+".json")
}

func (c *resultCache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache mkdir: %w", err)
	}
	data, err := os.ReadFile(c.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache index: %w", err)
	}
	var idx cacheIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("parse cache index: %w", err)
	}
	if idx.Version != cacheIndexVersion {
		c.index = cacheIndex{Version: cacheIndexVersion, Entries: make(map[string]cacheEntry)}
		return nil
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]cacheEntry)
	}
	c.index = idx
	return nil
}

func (c *resultCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return writeJSONAtomic(c.indexPath(), c.index)
}

func (c *resultCache) Get(filePath, contentHash, fingerprint string) ([]Diagnostic, bool, error) {
	c.mu.Lock()
	entry, ok := c.index.Entries[filePath]
	c.mu.Unlock()
	if !ok || entry.ContentHash != contentHash || entry.Fingerprint != fingerprint {
		return nil, false, nil
	}

	data, err := os.ReadFile(entry.ResultPath)
	if err != nil {
		return nil, false, fmt.Errorf("read cached result: %w", err)
	}
	var diags []Diagnostic
	if err := json.Unmarshal(data, &diags); err != nil {
		return nil, false, fmt.Errorf("parse cached result: %w", err)
	}
	return diags, true, nil
}

func (c *resultCache) Put(filePath, contentHash, fingerprint string, diags []Diagnostic) error {
	resultPath := c.resultPathForFile(filePath)
	if diags == nil {
		diags = []Diagnostic{}
	}
	if err := writeJSONAtomic(resultPath, diags); err != nil {
		return err
	}

	c.mu.Lock()
	c.index.Entries[filePath] = cacheEntry{
		ContentHash: contentHash,
		Fingerprint: fingerprint,
		ResultPath:  resultPath,
	}
	c.mu.Unlock()
	return nil
}

// Clear removes the cache directory.
func (c *resultCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = cacheIndex{Version: cacheIndexVersion, Entries: make(map[string]cacheEntry)}
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("remove cache: %w", err)
	}
	return nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache json: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}
