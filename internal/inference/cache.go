package inference

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AnalysisCache avoids paying for the same extraction twice: results
// are keyed by the normalized input text and stored as JSON files.
type AnalysisCache struct {
	rootDir string
}

func NewAnalysisCache(cacheDirectory string) *AnalysisCache {
	return &AnalysisCache{rootDir: cacheDirectory}
}

func normalizeKey(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	sum := sha1.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

func (cache *AnalysisCache) filePath(input string) string {
	return filepath.Join(cache.rootDir, normalizeKey(input)+".json")
}

// Get returns the cached entries for input, or ok=false on a miss.
// Unreadable cache files count as misses.
func (cache *AnalysisCache) Get(input string) ([]Entry, bool) {
	contents, err := os.ReadFile(cache.filePath(input))
	if err != nil {
		return nil, false
	}
	var entries []Entry
	if err := json.Unmarshal(contents, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// Put stores the entries for input.
func (cache *AnalysisCache) Put(input string, entries []Entry) error {
	if err := os.MkdirAll(cache.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	contents, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := os.WriteFile(cache.filePath(input), contents, 0644); err != nil {
		return fmt.Errorf("os.WriteFile > %w", err)
	}
	return nil
}

// Remove deletes the cached result for input, reporting whether a
// cached file existed.
func (cache *AnalysisCache) Remove(input string) bool {
	err := os.Remove(cache.filePath(input))
	return err == nil
}

// CachedClient wraps an inference client with the analysis cache.
type CachedClient struct {
	client Client
	cache  *AnalysisCache
}

func NewCachedClient(client Client, cache *AnalysisCache) *CachedClient {
	return &CachedClient{client: client, cache: cache}
}

// ExtractEntries implements the Client interface.
func (c *CachedClient) ExtractEntries(ctx context.Context, input string) ([]Entry, error) {
	if entries, ok := c.cache.Get(input); ok {
		return entries, nil
	}
	entries, err := c.client.ExtractEntries(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("c.client.ExtractEntries > %w", err)
	}
	if err := c.cache.Put(input, entries); err != nil {
		return entries, fmt.Errorf("c.cache.Put > %w", err)
	}
	return entries, nil
}
