package ordering

import (
	"github.com/hailam/shogiorder/internal/board"
)

// CacheKey identifies a cached ordering result.
type CacheKey struct {
	Hash  uint64
	Depth int
}

// CacheEntry is a cached ordering result. Source is the move list as it was
// supplied and SourceFP its sequence fingerprint; Moves is the ordered result
// and Sources the rule that ranked each of its moves.
type CacheEntry struct {
	Moves       []board.Move
	Sources     []HeuristicSource
	Source      []board.Move
	SourceFP    uint64
	LastAccess  uint64
	Depth       int
	AccessCount uint64

	inserted uint64
}

// Matches reports whether moves equals the stored source list, pairwise and in order.
func (e *CacheEntry) Matches(moves []board.Move) bool {
	if len(e.Source) != len(moves) {
		return false
	}
	for i := range moves {
		if !e.Source[i].Equal(moves[i]) {
			return false
		}
	}
	return true
}

// OrderingResultCache caches whole ordering results by position and depth.
type OrderingResultCache struct {
	entries   map[CacheKey]*CacheEntry
	clock     uint64 // access counter
	inserts   uint64 // insertion counter for FIFO
	evictions uint64
}

// NewOrderingResultCache creates an empty result cache.
func NewOrderingResultCache() *OrderingResultCache {
	return &OrderingResultCache{entries: make(map[CacheKey]*CacheEntry)}
}

// Get returns the entry for key and marks it as most recently used.
func (c *OrderingResultCache) Get(key CacheKey) (*CacheEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.clock++
	e.LastAccess = c.clock
	e.AccessCount++
	return e, true
}

// Peek returns the entry for key without touching recency.
func (c *OrderingResultCache) Peek(key CacheKey) (*CacheEntry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Insert stores entry under key. When the cache already holds maxSize entries
// and key is new, exactly one entry chosen by policy is evicted first; its key
// is returned.
func (c *OrderingResultCache) Insert(key CacheKey, entry CacheEntry, maxSize int, policy EvictionPolicy, lruWeight float64) (CacheKey, bool) {
	var evicted CacheKey
	didEvict := false

	if _, exists := c.entries[key]; !exists && len(c.entries) >= maxSize {
		if k, ok := c.EvictEntry(policy, lruWeight); ok {
			delete(c.entries, k)
			c.evictions++
			evicted, didEvict = k, true
		}
	}

	c.clock++
	c.inserts++
	entry.LastAccess = c.clock
	entry.inserted = c.inserts
	c.entries[key] = &entry
	return evicted, didEvict
}

// EvictEntry selects the key policy would remove. It does not modify the cache.
func (c *OrderingResultCache) EvictEntry(policy EvictionPolicy, lruWeight float64) (CacheKey, bool) {
	if len(c.entries) == 0 {
		return CacheKey{}, false
	}
	switch policy {
	case EvictFIFO:
		return c.selectMin(func(e *CacheEntry) float64 { return float64(e.inserted) })
	case EvictLRU:
		return c.selectMin(func(e *CacheEntry) float64 { return float64(e.LastAccess) })
	case EvictDepthPreferred:
		return c.selectMin(func(e *CacheEntry) float64 { return float64(e.Depth) })
	default:
		return c.selectHybrid(lruWeight)
	}
}

// selectMin returns the key with the smallest score, older insertions winning ties.
func (c *OrderingResultCache) selectMin(score func(*CacheEntry) float64) (CacheKey, bool) {
	var best CacheKey
	var bestEntry *CacheEntry
	bestScore := 0.0
	for k, e := range c.entries {
		s := score(e)
		if bestEntry == nil || s < bestScore || (s == bestScore && e.inserted < bestEntry.inserted) {
			best, bestEntry, bestScore = k, e, s
		}
	}
	return best, bestEntry != nil
}

// selectHybrid normalizes recency and depth to [0,1] across all entries and
// removes the entry minimizing depthWeight*(1-depthNorm) + lruWeight*recencyNorm.
func (c *OrderingResultCache) selectHybrid(lruWeight float64) (CacheKey, bool) {
	depthWeight := 1 - lruWeight

	first := true
	var minAccess, maxAccess uint64
	var minDepth, maxDepth int
	for _, e := range c.entries {
		if first {
			minAccess, maxAccess = e.LastAccess, e.LastAccess
			minDepth, maxDepth = e.Depth, e.Depth
			first = false
			continue
		}
		minAccess = min(minAccess, e.LastAccess)
		maxAccess = max(maxAccess, e.LastAccess)
		minDepth = min(minDepth, e.Depth)
		maxDepth = max(maxDepth, e.Depth)
	}

	norm := func(v, lo, hi float64) float64 {
		if hi == lo {
			return 0
		}
		return (v - lo) / (hi - lo)
	}

	return c.selectMin(func(e *CacheEntry) float64 {
		recency := norm(float64(e.LastAccess), float64(minAccess), float64(maxAccess))
		depth := norm(float64(e.Depth), float64(minDepth), float64(maxDepth))
		return depthWeight*(1-depth) + lruWeight*recency
	})
}

// Shrink evicts entries by policy until at most maxSize remain.
func (c *OrderingResultCache) Shrink(maxSize int, policy EvictionPolicy, lruWeight float64) {
	for len(c.entries) > maxSize {
		k, ok := c.EvictEntry(policy, lruWeight)
		if !ok {
			return
		}
		delete(c.entries, k)
		c.evictions++
	}
}

// Len returns the number of cached results.
func (c *OrderingResultCache) Len() int {
	return len(c.entries)
}

// Evictions returns the number of entries evicted since the last clear.
func (c *OrderingResultCache) Evictions() uint64 {
	return c.evictions
}

// Clear removes every entry and resets the counters.
func (c *OrderingResultCache) Clear() {
	clear(c.entries)
	c.clock = 0
	c.inserts = 0
	c.evictions = 0
}
