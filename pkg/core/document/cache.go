package document

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PageCache provides file-based caching of parsed page texts so repeated runs
// over the same filing skip the parsing collaborator.
type PageCache struct {
	cacheDir string
}

// NewPageCache creates a cache under .cache/finstmt/pages in the working directory.
func NewPageCache() *PageCache {
	cacheDir := filepath.Join(".cache", "finstmt", "pages")
	os.MkdirAll(cacheDir, 0755)
	return &PageCache{cacheDir: cacheDir}
}

// NewPageCacheWithDir creates a cache with a custom directory.
func NewPageCacheWithDir(dir string) *PageCache {
	os.MkdirAll(dir, 0755)
	return &PageCache{cacheDir: dir}
}

// Key derives a stable cache key from the source document bytes.
func (c *PageCache) Key(source []byte) string {
	return fmt.Sprintf("%x", md5.Sum(source))
}

func (c *PageCache) filePath(key string) string {
	return filepath.Join(c.cacheDir, key+".json")
}

// Get retrieves cached pages for a document key. Returns nil if not cached.
func (c *PageCache) Get(key string) []Page {
	data, err := os.ReadFile(c.filePath(key))
	if err != nil {
		return nil
	}
	var pages []Page
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil
	}
	return pages
}

// Set stores pages in the cache.
func (c *PageCache) Set(key string, pages []Page) error {
	data, err := json.Marshal(pages)
	if err != nil {
		return err
	}
	return os.WriteFile(c.filePath(key), data, 0644)
}

// Has checks whether a document key is cached.
func (c *PageCache) Has(key string) bool {
	_, err := os.Stat(c.filePath(key))
	return err == nil
}
