package ordering

import (
	"github.com/samber/lo"

	"github.com/hailam/shogiorder/internal/board"
)

// moveLists maps a key to a short list of distinct moves, oldest first.
type moveLists[K comparable] struct {
	lists  map[K][]board.Move
	maxLen int
}

func newMoveLists[K comparable](maxLen int) moveLists[K] {
	return moveLists[K]{lists: make(map[K][]board.Move), maxLen: maxLen}
}

// add appends m under key unless already present, dropping the oldest entry
// when the list grows past maxLen. It reports whether the move was added.
func (t *moveLists[K]) add(key K, m board.Move) bool {
	list := t.lists[key]
	if containsMove(list, m) {
		return false
	}
	list = append(list, m)
	if len(list) > t.maxLen {
		list = append(list[:0], list[len(list)-t.maxLen:]...)
	}
	t.lists[key] = list
	return true
}

func (t *moveLists[K]) contains(key K, m board.Move) bool {
	return containsMove(t.lists[key], m)
}

func (t *moveLists[K]) get(key K) ([]board.Move, bool) {
	list, ok := t.lists[key]
	if !ok || len(list) == 0 {
		return nil, false
	}
	return list, true
}

// resize changes maxLen, keeping the newest moves of each list.
func (t *moveLists[K]) resize(maxLen int) {
	t.maxLen = maxLen
	for k, list := range t.lists {
		if len(list) > maxLen {
			t.lists[k] = append(list[:0], list[len(list)-maxLen:]...)
		}
	}
}

func (t *moveLists[K]) count() int {
	n := 0
	for _, list := range t.lists {
		n += len(list)
	}
	return n
}

func (t *moveLists[K]) clear() {
	clear(t.lists)
}

func containsMove(list []board.Move, m board.Move) bool {
	return lo.ContainsBy(list, func(x board.Move) bool { return x.Equal(m) })
}

// KillerTable keeps, per search depth, the quiet moves that caused beta cutoffs.
type KillerTable struct {
	moveLists[int]
}

// NewKillerTable creates a killer table holding maxLen moves per depth.
func NewKillerTable(maxLen int) *KillerTable {
	return &KillerTable{newMoveLists[int](maxLen)}
}

// Add records a killer at depth. It returns false if the move is already present.
func (kt *KillerTable) Add(depth int, m board.Move) bool {
	return kt.add(depth, m)
}

// IsKiller returns true if m is a killer at depth.
func (kt *KillerTable) IsKiller(depth int, m board.Move) bool {
	return kt.contains(depth, m)
}

// Get returns the killers at depth, oldest first.
func (kt *KillerTable) Get(depth int) ([]board.Move, bool) {
	return kt.get(depth)
}

// Resize changes the per-depth capacity.
func (kt *KillerTable) Resize(maxLen int) {
	kt.resize(maxLen)
}

// Count returns the total number of stored killers.
func (kt *KillerTable) Count() int {
	return kt.count()
}

// Clear removes every killer.
func (kt *KillerTable) Clear() {
	kt.clear()
}

// CounterMoveTable keeps, per opponent move, the moves that refuted it.
// Storage is permissive; the orderer only consults it for quiet moves.
type CounterMoveTable struct {
	moveLists[board.MoveKey]
}

// NewCounterMoveTable creates a counter-move table holding maxLen moves per opponent move.
func NewCounterMoveTable(maxLen int) *CounterMoveTable {
	return &CounterMoveTable{newMoveLists[board.MoveKey](maxLen)}
}

// Add records m as a refutation of opponent. It returns false if already present.
func (ct *CounterMoveTable) Add(opponent, m board.Move) bool {
	return ct.add(opponent.Key(), m)
}

// IsCounter returns true if m is a recorded refutation of opponent.
func (ct *CounterMoveTable) IsCounter(opponent, m board.Move) bool {
	return ct.contains(opponent.Key(), m)
}

// Get returns the refutations of opponent, oldest first.
func (ct *CounterMoveTable) Get(opponent board.Move) ([]board.Move, bool) {
	return ct.get(opponent.Key())
}

// Resize changes the per-move capacity.
func (ct *CounterMoveTable) Resize(maxLen int) {
	ct.resize(maxLen)
}

// Count returns the total number of stored counter-moves.
func (ct *CounterMoveTable) Count() int {
	return ct.count()
}

// Clear removes every counter-move.
func (ct *CounterMoveTable) Clear() {
	ct.clear()
}
