// Package memory provides a process-lifetime embedding cache.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

// Cache maps exact input text to its embedding. Entries are never evicted.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]float32
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string][]float32)}
}

// Get returns a copy of the cached vector.
func (c *Cache) Get(_ context.Context, text string) ([]float32, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[text]
	if !ok {
		return nil, false, nil
	}
	return append([]float32(nil), v...), true, nil
}

// Put stores a copy of the vector.
func (c *Cache) Put(_ context.Context, text string, embedding []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[text] = append([]float32(nil), embedding...)
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

// Close releases resources.
func (c *Cache) Close() error {
	return nil
}
