package ordering

// MoveScoreCache maps a move fingerprint to a previously computed composite
// score. A short hot list is scanned linearly before the map is consulted;
// map hits are promoted into the hot list.
type MoveScoreCache struct {
	hot     []hotScore
	hotSize int

	scores  map[uint64]cachedScore
	order   fifoQueue[uint64]
	maxSize int

	hits   uint64
	misses uint64
}

type hotScore struct {
	fp    uint64
	score int
}

type cachedScore struct {
	score int
	seq   uint64
}

// NewMoveScoreCache creates a cache with the given map capacity and hot list length.
func NewMoveScoreCache(maxSize, hotSize int) *MoveScoreCache {
	return &MoveScoreCache{
		hot:     make([]hotScore, 0, hotSize),
		hotSize: hotSize,
		scores:  make(map[uint64]cachedScore, maxSize),
		maxSize: maxSize,
	}
}

// Get returns the cached score for a fingerprint.
func (c *MoveScoreCache) Get(fp uint64) (int, bool) {
	for i, h := range c.hot {
		if h.fp == fp {
			// Transpose toward the front so frequent moves are found sooner
			if i > 0 {
				c.hot[i-1], c.hot[i] = c.hot[i], c.hot[i-1]
			}
			c.hits++
			return h.score, true
		}
	}
	if e, ok := c.scores[fp]; ok {
		c.promote(fp, e.score)
		c.hits++
		return e.score, true
	}
	c.misses++
	return 0, false
}

// Insert stores a score, evicting the oldest map entry when full.
func (c *MoveScoreCache) Insert(fp uint64, score int) {
	if e, ok := c.scores[fp]; ok {
		e.score = score
		c.scores[fp] = e
	} else {
		if len(c.scores) >= c.maxSize {
			if old, ok := c.order.popOldest(c.live); ok {
				delete(c.scores, old)
			}
		}
		c.scores[fp] = cachedScore{score: score, seq: c.order.push(fp)}
	}
	c.promote(fp, score)
}

func (c *MoveScoreCache) live(fp uint64) (uint64, bool) {
	e, ok := c.scores[fp]
	return e.seq, ok
}

// promote places fp at the front of the hot list, dropping the last entry if needed.
func (c *MoveScoreCache) promote(fp uint64, score int) {
	if c.hotSize == 0 {
		return
	}
	for i, h := range c.hot {
		if h.fp == fp {
			copy(c.hot[1:i+1], c.hot[:i])
			c.hot[0] = hotScore{fp: fp, score: score}
			return
		}
	}
	if len(c.hot) < c.hotSize {
		c.hot = append(c.hot, hotScore{})
	}
	copy(c.hot[1:], c.hot[:len(c.hot)-1])
	c.hot[0] = hotScore{fp: fp, score: score}
}

// Len returns the number of entries in the map tier.
func (c *MoveScoreCache) Len() int {
	return len(c.scores)
}

// HotLen returns the number of entries in the hot list.
func (c *MoveScoreCache) HotLen() int {
	return len(c.hot)
}

// Resize changes both capacities, clearing the cache.
func (c *MoveScoreCache) Resize(maxSize, hotSize int) {
	c.maxSize = maxSize
	c.hotSize = hotSize
	c.hot = make([]hotScore, 0, hotSize)
	c.Clear()
}

// Clear drops every entry and resets the hit counters.
func (c *MoveScoreCache) Clear() {
	c.hot = c.hot[:0]
	clear(c.scores)
	c.order.reset()
	c.hits = 0
	c.misses = 0
}

// Hits returns the number of successful lookups since the last clear.
func (c *MoveScoreCache) Hits() uint64 {
	return c.hits
}

// Misses returns the number of failed lookups since the last clear.
func (c *MoveScoreCache) Misses() uint64 {
	return c.misses
}
