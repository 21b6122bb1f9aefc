package memory

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// EmbeddingCache keeps recent query embeddings so repeated questions skip the
// embedding round trip.
type EmbeddingCache struct {
	cache *cache.Cache
}

// NewEmbeddingCache expires entries after ttl and purges expired items every 2*ttl.
func NewEmbeddingCache(ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &EmbeddingCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func (c *EmbeddingCache) Save(query string, vector []float32) {
	c.cache.Set(cacheKey(query), vector, cache.DefaultExpiration)
}

func (c *EmbeddingCache) Get(query string) ([]float32, bool) {
	if x, found := c.cache.Get(cacheKey(query)); found {
		return x.([]float32), true
	}
	return nil, false
}

func (c *EmbeddingCache) Len() int {
	return c.cache.ItemCount()
}

func (c *EmbeddingCache) Flush() {
	c.cache.Flush()
}
