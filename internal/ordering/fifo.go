package ordering

// fifoQueue tracks insertion order of map keys. Entries removed from the owning
// map by other means are skipped lazily: each push is tagged with a sequence
// number that the owner stores alongside the value.
type fifoQueue[K comparable] struct {
	items []fifoItem[K]
	head  int
	seq   uint64
}

type fifoItem[K comparable] struct {
	key K
	seq uint64
}

// push records key as newest and returns its sequence number.
func (q *fifoQueue[K]) push(key K) uint64 {
	q.seq++
	q.items = append(q.items, fifoItem[K]{key: key, seq: q.seq})
	return q.seq
}

// popOldest returns the oldest key whose sequence number is still current
// according to live. It returns false when no live key remains.
func (q *fifoQueue[K]) popOldest(live func(K) (uint64, bool)) (K, bool) {
	for q.head < len(q.items) {
		it := q.items[q.head]
		q.items[q.head] = fifoItem[K]{}
		q.head++
		if seq, ok := live(it.key); ok && seq == it.seq {
			q.compact()
			return it.key, true
		}
	}
	q.reset()
	var zero K
	return zero, false
}

// compact drops the consumed prefix once it dominates the slice.
func (q *fifoQueue[K]) compact() {
	if q.head > 64 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
}

func (q *fifoQueue[K]) reset() {
	q.items = q.items[:0]
	q.head = 0
}
