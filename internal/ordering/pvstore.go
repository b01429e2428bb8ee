package ordering

import (
	"github.com/samber/lo"

	"github.com/hailam/shogiorder/internal/board"
)

// PVEntry is a cached best move for a position. HasMove is false when the
// transposition table was probed but held no best move.
type PVEntry struct {
	Move    board.Move `json:"move"`
	HasMove bool       `json:"has_move"`
}

// PVStore caches best moves by position hash, together with multi-PV lists,
// a snapshot of the previous iterative deepening pass and sibling-node moves.
type PVStore struct {
	best     *boundedMap[uint64, PVEntry]
	multiple *boundedMap[uint64, []board.Move]
	siblings *boundedMap[uint64, []board.Move]
	previous map[uint64]PVEntry

	maxPerPosition int
}

// NewPVStore creates a PV store bounded to maxSize positions per table.
func NewPVStore(maxSize, maxPerPosition int) *PVStore {
	return &PVStore{
		best:           newBoundedMap[uint64, PVEntry](maxSize),
		multiple:       newBoundedMap[uint64, []board.Move](maxSize),
		siblings:       newBoundedMap[uint64, []board.Move](maxSize),
		previous:       make(map[uint64]PVEntry),
		maxPerPosition: maxPerPosition,
	}
}

// Get returns the cached entry for a position. The boolean reports cache presence.
func (s *PVStore) Get(hash uint64) (PVEntry, bool) {
	return s.best.get(hash)
}

// Update records m as the best move of a position.
func (s *PVStore) Update(hash uint64, m board.Move) {
	s.best.put(hash, PVEntry{Move: m, HasMove: true})
}

// MarkEmpty records that the position was probed and had no best move.
func (s *PVStore) MarkEmpty(hash uint64) {
	s.best.put(hash, PVEntry{})
}

// StoreMultiple records the top moves of a position, truncated to the per-position limit.
func (s *PVStore) StoreMultiple(hash uint64, moves []board.Move) {
	n := min(len(moves), s.maxPerPosition)
	s.multiple.put(hash, append([]board.Move(nil), moves[:n]...))
}

// Multiple returns the top moves recorded for a position.
func (s *PVStore) Multiple(hash uint64) []board.Move {
	moves, _ := s.multiple.get(hash)
	return moves
}

// SaveIteration snapshots the best-move cache as the previous iteration.
func (s *PVStore) SaveIteration() {
	clear(s.previous)
	s.best.each(func(h uint64, e PVEntry) {
		s.previous[h] = e
	})
}

// Previous returns the best move recorded for a position in the previous iteration.
func (s *PVStore) Previous(hash uint64) (PVEntry, bool) {
	e, ok := s.previous[hash]
	return e, ok
}

// StoreSibling adds a move discovered in a sibling node of parent.
// Duplicates are ignored; the oldest move is dropped beyond the per-position limit.
func (s *PVStore) StoreSibling(parent uint64, m board.Move) {
	list, _ := s.siblings.get(parent)
	if containsMove(list, m) {
		return
	}
	list = append(list, m)
	if len(list) > s.maxPerPosition {
		list = lo.Drop(list, len(list)-s.maxPerPosition)
	}
	s.siblings.put(parent, list)
}

// Siblings returns the moves recorded for sibling nodes of parent.
func (s *PVStore) Siblings(parent uint64) []board.Move {
	moves, _ := s.siblings.get(parent)
	return moves
}

// Len returns the number of positions with a cached best move.
func (s *PVStore) Len() int {
	return s.best.len()
}

// Resize changes the capacities, evicting oldest entries as needed.
func (s *PVStore) Resize(maxSize, maxPerPosition int) {
	s.best.resize(maxSize)
	s.multiple.resize(maxSize)
	s.siblings.resize(maxSize)
	s.maxPerPosition = maxPerPosition
}

// Clear removes every entry, the previous iteration included.
func (s *PVStore) Clear() {
	s.best.clear()
	s.multiple.clear()
	s.siblings.clear()
	clear(s.previous)
}

// PVRecord is one serialized best-move entry.
type PVRecord struct {
	Hash  uint64  `json:"hash"`
	Entry PVEntry `json:"entry"`
}

// Snapshot returns the best-move cache as records.
func (s *PVStore) Snapshot() []PVRecord {
	out := make([]PVRecord, 0, s.best.len())
	s.best.each(func(h uint64, e PVEntry) {
		out = append(out, PVRecord{Hash: h, Entry: e})
	})
	return out
}

// Restore replaces the best-move cache with records, keeping the capacity bound.
func (s *PVStore) Restore(records []PVRecord) {
	s.best.clear()
	for _, r := range records {
		s.best.put(r.Hash, r.Entry)
	}
}
