// Package embcache derives and caches per-product lexical embeddings.
package embcache

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/matcher/internal/domain"
)

// Cache maps product identifiers to their lexical embedding strings.
// Entries are computed lazily on first lookup and kept for the process
// lifetime: the catalog is immutable, so there is no eviction and no
// invalidation hook. Derivation is idempotent, but the map itself still
// needs a lock under concurrent requests.
type Cache struct {
	mu         sync.RWMutex
	embeddings map[int]string
	cacheTotal *prometheus.CounterVec
}

// New creates an empty cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(cacheTotal *prometheus.CounterVec) *Cache {
	return &Cache{
		embeddings: make(map[int]string),
		cacheTotal: cacheTotal,
	}
}

// Embedding returns the lexical embedding for a product, deriving and
// storing it on first call. Subsequent calls for the same identifier return
// the stored value without recomputation.
func (c *Cache) Embedding(p domain.Product) string {
	c.mu.RLock()
	emb, ok := c.embeddings[p.ID]
	c.mu.RUnlock()
	if ok {
		c.incCache("hit")
		return emb
	}

	c.incCache("miss")
	emb = derive(p)

	c.mu.Lock()
	// Another request may have stored it since the read; keep the first value.
	if stored, ok := c.embeddings[p.ID]; ok {
		emb = stored
	} else {
		c.embeddings[p.ID] = emb
	}
	c.mu.Unlock()

	return emb
}

// Len returns the number of cached embeddings.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.embeddings)
}

// derive builds the lexical embedding: the lowercase, space-joined
// concatenation of the product's textual fields.
func derive(p domain.Product) string {
	return strings.ToLower(p.Name + " " + p.Category + " " + p.Description)
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
