package ordering

// boundedMap is a map that evicts its oldest inserted key once it holds max entries.
type boundedMap[K comparable, V any] struct {
	m     map[K]boundedEntry[V]
	order fifoQueue[K]
	max   int
}

type boundedEntry[V any] struct {
	val V
	seq uint64
}

func newBoundedMap[K comparable, V any](max int) *boundedMap[K, V] {
	return &boundedMap[K, V]{m: make(map[K]boundedEntry[V]), max: max}
}

func (b *boundedMap[K, V]) get(k K) (V, bool) {
	e, ok := b.m[k]
	return e.val, ok
}

// put inserts or replaces k. Replacing keeps the original insertion position.
// It reports whether an older key was evicted to make room.
func (b *boundedMap[K, V]) put(k K, v V) bool {
	if e, ok := b.m[k]; ok {
		e.val = v
		b.m[k] = e
		return false
	}
	evicted := false
	for len(b.m) >= b.max {
		old, ok := b.order.popOldest(b.live)
		if !ok {
			break
		}
		delete(b.m, old)
		evicted = true
	}
	b.m[k] = boundedEntry[V]{val: v, seq: b.order.push(k)}
	return evicted
}

func (b *boundedMap[K, V]) live(k K) (uint64, bool) {
	e, ok := b.m[k]
	return e.seq, ok
}

func (b *boundedMap[K, V]) len() int {
	return len(b.m)
}

// resize lowers or raises the capacity, evicting oldest keys as needed.
func (b *boundedMap[K, V]) resize(max int) {
	b.max = max
	for len(b.m) > b.max {
		old, ok := b.order.popOldest(b.live)
		if !ok {
			break
		}
		delete(b.m, old)
	}
}

func (b *boundedMap[K, V]) each(fn func(K, V)) {
	for k, e := range b.m {
		fn(k, e.val)
	}
}

func (b *boundedMap[K, V]) clear() {
	clear(b.m)
	b.order.reset()
}
