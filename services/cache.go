package services

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Fixed TTLs per cached operation. Eviction is time-based only; writes do
// not invalidate, so a result can be stale for up to its TTL.
const (
	ProductCacheTTL = 5 * time.Minute
	CountsCacheTTL  = time.Minute
)

// Cache memoizes service results under (operation, arguments) keys with a
// fixed per-entry TTL. A nil *Cache disables memoization, which is what the
// tests use.
type Cache struct {
	entries *gocache.Cache
}

func NewCache() *Cache {
	return &Cache{entries: gocache.New(ProductCacheTTL, 10*time.Minute)}
}

// Key builds the canonical cache key for an operation and its arguments.
func (c *Cache) Key(op string, args ...string) string {
	if len(args) == 0 {
		return op
	}
	return op + ":" + strings.Join(args, ":")
}

func (c *Cache) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(key)
}

func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	c.entries.Set(key, value, ttl)
}
