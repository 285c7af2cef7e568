package unsplash

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type cacheEntry struct {
	Body      json.RawMessage `json:"body"`
	UpdatedAt int64           `json:"updated_at"`
}

// Cache persists API response bodies in a single JSON file, keyed by request
// path and query (the access key is never part of the key).
type Cache struct {
	path string
	ttl  time.Duration
	mu   sync.Mutex
	now  func() time.Time
}

// NewCache returns nil when ttl is not positive; a nil *Cache misses every lookup.
func NewCache(path string, ttl time.Duration) *Cache {
	if ttl <= 0 || path == "" {
		return nil
	}
	return &Cache{path: path, ttl: ttl, now: time.Now}
}

// CachePath is where the response cache lives under data_root.
func CachePath(dataRoot string) string {
	return filepath.Join(dataRoot, "api-cache.json")
}

func loadCache(path string) (map[string]cacheEntry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]cacheEntry{}, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return map[string]cacheEntry{}, nil
	}
	var m map[string]cacheEntry
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]cacheEntry{}, err
	}
	return m, nil
}

func saveCache(path string, m map[string]cacheEntry) error {
	tmp := path + ".tmp"
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := loadCache(c.path)
	if err != nil {
		return nil, false
	}
	ce, ok := m[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(time.Unix(ce.UpdatedAt, 0)) > c.ttl {
		delete(m, key)
		_ = saveCache(c.path, m)
		return nil, false
	}
	return ce.Body, true
}

func (c *Cache) Set(key string, body []byte) error {
	if c == nil {
		return nil
	}
	if !json.Valid(body) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := loadCache(c.path)
	if err != nil {
		m = map[string]cacheEntry{}
	}
	// Drop expired entries so the file does not grow without bound
	for k, ce := range m {
		if c.now().Sub(time.Unix(ce.UpdatedAt, 0)) > c.ttl {
			delete(m, k)
		}
	}
	m[key] = cacheEntry{Body: append(json.RawMessage(nil), body...), UpdatedAt: c.now().Unix()}
	return saveCache(c.path, m)
}

// ClearCache removes the cache file at path.
func ClearCache(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
