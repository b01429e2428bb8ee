package see

import (
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/hailam/shogiorder/internal/board"
)

// Cache memoizes SEE results keyed by position hash and move fingerprint.
// It is independent of the move ordering caches and safe for concurrent use.
type Cache struct {
	c *ristretto.Cache[uint64, int32]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache creates a SEE cache holding roughly maxEntries results.
func NewCache(maxEntries int64) (*Cache, error) {
	if maxEntries < 1 {
		maxEntries = 1
	}
	c, err := ristretto.NewCache(&ristretto.Config[uint64, int32]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

func cacheKey(posHash uint64, m board.Move) uint64 {
	return posHash ^ (m.Fingerprint() * 0x9E3779B97F4A7C15)
}

// Get returns a cached SEE value.
func (c *Cache) Get(posHash uint64, m board.Move) (int, bool) {
	v, ok := c.c.Get(cacheKey(posHash, m))
	if ok {
		c.hits.Add(1)
		return int(v), true
	}
	c.misses.Add(1)
	return 0, false
}

// Put stores a SEE value. Admission is asynchronous; call Wait to flush.
func (c *Cache) Put(posHash uint64, m board.Move, value int) {
	c.c.Set(cacheKey(posHash, m), int32(value), 1)
}

// Wait blocks until pending writes are applied.
func (c *Cache) Wait() {
	c.c.Wait()
}

// Clear removes every cached value and resets the counters.
func (c *Cache) Clear() {
	c.c.Clear()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Close releases the cache's background goroutines.
func (c *Cache) Close() {
	c.c.Close()
}

// Hits returns the number of successful lookups.
func (c *Cache) Hits() uint64 {
	return c.hits.Load()
}

// Misses returns the number of failed lookups.
func (c *Cache) Misses() uint64 {
	return c.misses.Load()
}

// CachedCalculator wraps a Calculator with a Cache.
type CachedCalculator struct {
	inner Calculator
	cache *Cache
}

// NewCachedCalculator creates a caching SEE calculator.
func NewCachedCalculator(inner Calculator, cache *Cache) *CachedCalculator {
	return &CachedCalculator{inner: inner, cache: cache}
}

// CalculateSEE returns the cached value when present, otherwise computes and stores it.
func (cc *CachedCalculator) CalculateSEE(m board.Move, pos *board.Position) int {
	if pos == nil {
		return cc.inner.CalculateSEE(m, pos)
	}
	h := pos.Hash()
	if v, ok := cc.cache.Get(h, m); ok {
		return v
	}
	v := cc.inner.CalculateSEE(m, pos)
	cc.cache.Put(h, m, v)
	return v
}

// Cache returns the underlying result cache.
func (cc *CachedCalculator) Cache() *Cache {
	return cc.cache
}
