// Package assets handles asset loading and caching.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrNotFound is returned when no root contains the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager loads assets from a set of directory roots.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddRoot adds a directory to the search path.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening asset root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset root %s is not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()

	return nil
}

// Load loads a file by its path relative to one of the roots.
// The returned slice is shared with the cache and must not be modified.
func (m *Manager) Load(path string) ([]byte, error) {
	rel, err := cleanPath(path)
	if err != nil {
		return nil, err
	}

	// Check cache first
	if data, ok := m.cache.Get(rel); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Search roots in reverse order
	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := os.ReadFile(filepath.Join(m.roots[i], rel))
		if err == nil {
			m.cache.Set(rel, data)
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Resolve returns the absolute path of the file in the highest-priority
// root that contains it.
func (m *Manager) Resolve(path string) (string, error) {
	rel, err := cleanPath(path)
	if err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		full := filepath.Join(m.roots[i], rel)
		if _, err := os.Stat(full); err == nil {
			return full, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

// List returns the sorted file names directly under dir, merged across
// all roots. Subdirectories are skipped.
func (m *Manager) List(dir string) ([]string, error) {
	rel, err := cleanPath(dir)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	found := false
	for i := len(m.roots) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(filepath.Join(m.roots[i], rel))
		if err != nil {
			continue
		}
		found = true
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			seen[e.Name()] = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether any root contains the given file.
func (m *Manager) Exists(path string) bool {
	rel, err := cleanPath(path)
	if err != nil {
		return false
	}

	if _, ok := m.cache.Get(rel); ok {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		if _, err := os.Stat(filepath.Join(m.roots[i], rel)); err == nil {
			return true
		}
	}
	return false
}

// Close drops all roots and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Clear()
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// cleanPath normalizes an asset path and rejects escapes from the roots.
func cleanPath(path string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid asset path: %s", path)
	}
	return rel, nil
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	data, ok := c.data[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	return int(c.hits.Load()), int(c.misses.Load())
}
