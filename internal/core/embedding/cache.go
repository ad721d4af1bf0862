package embedding

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	perr "satd/internal/platform/errors"
)

// Cache stores token vectors. Implementations serialize their own access
type Cache interface {
	Get(token string) (Vector, bool)
	Add(token string, v Vector)
	Len() int
}

// MapCache never evicts; memory grows with the number of distinct tokens seen
type MapCache struct {
	mu sync.RWMutex
	m  map[string]Vector
}

// NewMapCache returns an empty unbounded cache
func NewMapCache() *MapCache {
	return &MapCache{m: make(map[string]Vector)}
}

// Get implements Cache
func (c *MapCache) Get(token string) (Vector, bool) {
	c.mu.RLock()
	v, ok := c.m[token]
	c.mu.RUnlock()
	return v, ok
}

// Add implements Cache
func (c *MapCache) Add(token string, v Vector) {
	c.mu.Lock()
	c.m[token] = v
	c.mu.Unlock()
}

// Len implements Cache
func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// LRUCache holds at most n tokens, evicting the least recently used
type LRUCache struct {
	c *lru.Cache[string, Vector]
}

// NewLRUCache returns a bounded cache of n entries
func NewLRUCache(n int) (*LRUCache, error) {
	if n <= 0 {
		return nil, perr.InvalidArgf("lru cache size must be positive, got %d", n)
	}
	c, err := lru.New[string, Vector](n)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "lru cache")
	}
	return &LRUCache{c: c}, nil
}

// Get implements Cache
func (c *LRUCache) Get(token string) (Vector, bool) { return c.c.Get(token) }

// Add implements Cache
func (c *LRUCache) Add(token string, v Vector) { c.c.Add(token, v) }

// Len implements Cache
func (c *LRUCache) Len() int { return c.c.Len() }

// CacheFor picks the cache policy for a size setting: 0 or less is unbounded
func CacheFor(size int) (Cache, error) {
	if size <= 0 {
		return NewMapCache(), nil
	}
	return NewLRUCache(size)
}
