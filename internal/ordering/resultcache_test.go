package ordering

import (
	"testing"

	"github.com/matryer/is"
)

func entryAt(depth int) CacheEntry {
	return CacheEntry{Depth: depth}
}

func TestResultCacheCapacity(t *testing.T) {
	for _, policy := range []EvictionPolicy{EvictFIFO, EvictLRU, EvictDepthPreferred, EvictHybrid} {
		t.Run(policy.String(), func(t *testing.T) {
			is := is.New(t)
			c := NewOrderingResultCache()
			const maxSize = 8

			for i := 0; i < 50; i++ {
				key := CacheKey{Hash: uint64(i), Depth: i % 5}
				before := c.Len()
				_, evicted := c.Insert(key, entryAt(i%5), maxSize, policy, 0.5)
				is.True(c.Len() <= maxSize)
				if before == maxSize {
					is.True(evicted) // a full cache evicts exactly one entry
					is.Equal(c.Len(), maxSize)
				} else {
					is.True(!evicted)
				}
				if i%3 == 0 {
					c.Get(CacheKey{Hash: uint64(i / 2), Depth: (i / 2) % 5})
				}
			}
			is.Equal(c.Evictions(), uint64(50-maxSize))
		})
	}
}

func TestResultCacheReplaceDoesNotEvict(t *testing.T) {
	is := is.New(t)
	c := NewOrderingResultCache()
	k := CacheKey{Hash: 1, Depth: 3}

	c.Insert(k, entryAt(3), 1, EvictLRU, 0.5)
	_, evicted := c.Insert(k, entryAt(4), 1, EvictLRU, 0.5)
	is.True(!evicted)
	e, ok := c.Peek(k)
	is.True(ok)
	is.Equal(e.Depth, 4)
}

func TestResultCacheLRU(t *testing.T) {
	is := is.New(t)
	c := NewOrderingResultCache()
	a, b, cc := CacheKey{Hash: 'A'}, CacheKey{Hash: 'B'}, CacheKey{Hash: 'C'}

	c.Insert(a, entryAt(1), 2, EvictLRU, 0)
	c.Insert(b, entryAt(1), 2, EvictLRU, 0)
	_, ok := c.Get(a)
	is.True(ok)

	evicted, ok := c.Insert(cc, entryAt(1), 2, EvictLRU, 0)
	is.True(ok)
	is.Equal(evicted, b)

	_, ok = c.Peek(b)
	is.True(!ok)
	_, ok = c.Peek(a)
	is.True(ok)
	_, ok = c.Peek(cc)
	is.True(ok)
}

func TestResultCacheFIFOSizeOne(t *testing.T) {
	is := is.New(t)
	c := NewOrderingResultCache()
	k1, k2 := CacheKey{Hash: 1}, CacheKey{Hash: 2}

	c.Insert(k1, entryAt(1), 1, EvictFIFO, 0)
	evicted, ok := c.Insert(k2, entryAt(1), 1, EvictFIFO, 0)
	is.True(ok)
	is.Equal(evicted, k1)
	is.Equal(c.Len(), 1)
	_, ok = c.Peek(k2)
	is.True(ok)
}

func TestResultCacheFIFOIgnoresAccess(t *testing.T) {
	is := is.New(t)
	c := NewOrderingResultCache()

	for i := uint64(1); i <= 3; i++ {
		c.Insert(CacheKey{Hash: i}, entryAt(1), 3, EvictFIFO, 0)
	}
	c.Get(CacheKey{Hash: 1})

	evicted, ok := c.Insert(CacheKey{Hash: 4}, entryAt(1), 3, EvictFIFO, 0)
	is.True(ok)
	is.Equal(evicted, CacheKey{Hash: 1}) // oldest insertion, even though recently read
}

func TestResultCacheDepthPreferred(t *testing.T) {
	is := is.New(t)
	c := NewOrderingResultCache()

	c.Insert(CacheKey{Hash: 1, Depth: 6}, entryAt(6), 3, EvictDepthPreferred, 0)
	c.Insert(CacheKey{Hash: 2, Depth: 2}, entryAt(2), 3, EvictDepthPreferred, 0)
	c.Insert(CacheKey{Hash: 3, Depth: 9}, entryAt(9), 3, EvictDepthPreferred, 0)

	evicted, ok := c.Insert(CacheKey{Hash: 4, Depth: 5}, entryAt(5), 3, EvictDepthPreferred, 0)
	is.True(ok)
	is.Equal(evicted, CacheKey{Hash: 2, Depth: 2})
}

func TestResultCacheHybrid(t *testing.T) {
	is := is.New(t)

	// With all weight on recency the hybrid policy behaves like LRU
	c := NewOrderingResultCache()
	c.Insert(CacheKey{Hash: 1}, entryAt(1), 3, EvictHybrid, 1)
	c.Insert(CacheKey{Hash: 2}, entryAt(8), 3, EvictHybrid, 1)
	c.Insert(CacheKey{Hash: 3}, entryAt(4), 3, EvictHybrid, 1)
	c.Get(CacheKey{Hash: 1})
	key, ok := c.EvictEntry(EvictHybrid, 1)
	is.True(ok)
	is.Equal(key, CacheKey{Hash: 2})

	// With equal depths only recency separates the entries
	c = NewOrderingResultCache()
	c.Insert(CacheKey{Hash: 10}, entryAt(3), 2, EvictHybrid, 0.5)
	c.Insert(CacheKey{Hash: 11}, entryAt(3), 2, EvictHybrid, 0.5)
	key, ok = c.EvictEntry(EvictHybrid, 0.5)
	is.True(ok)
	is.Equal(key, CacheKey{Hash: 10})
}

func TestEvictEntryDoesNotMutate(t *testing.T) {
	is := is.New(t)
	c := NewOrderingResultCache()

	_, ok := c.EvictEntry(EvictLRU, 0)
	is.True(!ok) // empty cache has nothing to select

	c.Insert(CacheKey{Hash: 1}, entryAt(1), 4, EvictLRU, 0)
	c.Insert(CacheKey{Hash: 2}, entryAt(1), 4, EvictLRU, 0)
	for _, p := range []EvictionPolicy{EvictFIFO, EvictLRU, EvictDepthPreferred, EvictHybrid} {
		_, ok := c.EvictEntry(p, 0.5)
		is.True(ok)
	}
	is.Equal(c.Len(), 2)
	is.Equal(c.Evictions(), uint64(0))
}

func TestResultCacheShrink(t *testing.T) {
	is := is.New(t)
	c := NewOrderingResultCache()
	for i := uint64(0); i < 10; i++ {
		c.Insert(CacheKey{Hash: i}, entryAt(int(i)), 10, EvictDepthPreferred, 0)
	}

	c.Shrink(4, EvictDepthPreferred, 0)
	is.Equal(c.Len(), 4)
	_, ok := c.Peek(CacheKey{Hash: 9})
	is.True(ok) // deepest entries survive
	_, ok = c.Peek(CacheKey{Hash: 0})
	is.True(!ok)

	c.Clear()
	is.Equal(c.Len(), 0)
	is.Equal(c.Evictions(), uint64(0))
}
