// Package tt implements a sharded transposition table shared by search workers.
package tt

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/shogiorder/internal/board"
)

// Flag indicates the type of bound stored in the transposition table.
type Flag uint8

const (
	Exact      Flag = iota // Exact score
	LowerBound             // Failed high (beta cutoff)
	UpperBound             // Failed low
)

func (f Flag) String() string {
	switch f {
	case Exact:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	}
	return "unknown"
}

// Source records which part of the search produced an entry.
type Source uint8

const (
	SourceMainSearch Source = iota
	SourceQuiescence
	SourceNullMove
	SourceIID
)

// Number of shards for TT locking (power of 2 for fast modulo)
const shardCount = 256
const shardMask = shardCount - 1

// Entry is one transposition table record.
type Entry struct {
	Key         uint64 // Full 64-bit hash for verification
	BestMove    board.Move
	HasBestMove bool
	Score       int32
	Depth       int
	Flag        Flag
	Age         uint8 // Generation for replacement
	Source      Source
}

// Table is a hash table for storing search results.
// Uses sharded locking so it can be shared by parallel workers.
type Table struct {
	entries []Entry
	shards  [shardCount]sync.RWMutex
	size    uint64
	mask    uint64
	age     atomic.Uint32

	hits   atomic.Uint64
	probes atomic.Uint64
}

// entrySize approximates the in-memory size of Entry in bytes.
const entrySize = 40

// New creates a transposition table with the given size in MB.
func New(sizeMB int) *Table {
	numEntries := (uint64(sizeMB) * 1024 * 1024) / entrySize
	if numEntries < 1 {
		numEntries = 1
	}

	// Round down to power of 2 for fast modulo
	numEntries = roundDownToPowerOf2(numEntries)

	return &Table{
		entries: make([]Entry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (t *Table) shardIndex(idx uint64) int {
	return int(idx & shardMask)
}

// Probe looks up a position searched to at least depth.
func (t *Table) Probe(hash uint64, depth int) (Entry, bool) {
	t.probes.Add(1)

	idx := hash & t.mask
	shard := t.shardIndex(idx)

	t.shards[shard].RLock()
	entry := t.entries[idx]
	t.shards[shard].RUnlock()

	// Depth 0 marks an unused slot
	if entry.Key == hash && entry.Depth > 0 && entry.Depth >= depth {
		t.hits.Add(1)
		return entry, true
	}

	return Entry{}, false
}

// Store saves an entry. Deeper entries from the current search are kept;
// entries from older searches are always replaced.
func (t *Table) Store(e Entry) {
	idx := e.Key & t.mask
	shard := t.shardIndex(idx)

	t.shards[shard].Lock()
	slot := &t.entries[idx]

	currentAge := uint8(t.age.Load())
	if slot.Age != currentAge || e.Depth >= slot.Depth || slot.Key == 0 {
		e.Age = currentAge
		*slot = e
	}
	t.shards[shard].Unlock()
}

// NewSearch increments the age counter for a new search.
func (t *Table) NewSearch() {
	t.age.Add(1)
}

// Clear clears the transposition table.
func (t *Table) Clear() {
	for i := range t.shards {
		t.shards[i].Lock()
	}
	clear(t.entries)
	for i := range t.shards {
		t.shards[i].Unlock()
	}
	t.age.Store(0)
	t.hits.Store(0)
	t.probes.Store(0)
}

// HashFull returns the permille (parts per thousand) of the table used by the current search.
func (t *Table) HashFull() int {
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > t.size {
		sampleSize = int(t.size)
	}

	currentAge := uint8(t.age.Load())
	for i := 0; i < sampleSize; i++ {
		shard := t.shardIndex(uint64(i))
		t.shards[shard].RLock()
		e := t.entries[i]
		t.shards[shard].RUnlock()
		if e.Depth > 0 && e.Age == currentAge {
			used++
		}
	}

	return (used * 1000) / sampleSize
}

// HitRate returns the probe hit rate as a percentage.
func (t *Table) HitRate() float64 {
	probes := t.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(t.hits.Load()) / float64(probes) * 100
}

// Size returns the number of entries in the table.
func (t *Table) Size() uint64 {
	return t.size
}
