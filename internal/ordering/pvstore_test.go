package ordering

import (
	"testing"

	"github.com/matryer/is"

	"github.com/hailam/shogiorder/internal/board"
)

func TestPVStoreGet(t *testing.T) {
	is := is.New(t)
	s := NewPVStore(10, 3)

	_, ok := s.Get(1)
	is.True(!ok)

	s.MarkEmpty(1)
	e, ok := s.Get(1)
	is.True(ok)
	is.True(!e.HasMove) // probed, but the table had no move

	s.Update(1, quiet(0))
	e, ok = s.Get(1)
	is.True(ok)
	is.True(e.HasMove)
	is.True(e.Move.Equal(quiet(0)))
}

func TestPVStoreBounded(t *testing.T) {
	is := is.New(t)
	s := NewPVStore(4, 3)

	for i := 0; i < 20; i++ {
		s.Update(uint64(i), quiet(i))
		is.True(s.Len() <= 4)
	}
	_, ok := s.Get(0)
	is.True(!ok) // oldest positions evicted
	_, ok = s.Get(19)
	is.True(ok)

	s.Resize(2, 3)
	is.Equal(s.Len(), 2)
}

func TestPVStoreMultiple(t *testing.T) {
	is := is.New(t)
	s := NewPVStore(10, 2)

	s.StoreMultiple(7, []board.Move{quiet(0), quiet(1), quiet(2)})
	got := s.Multiple(7)
	is.Equal(len(got), 2)
	is.True(got[0].Equal(quiet(0)))
	is.True(got[1].Equal(quiet(1)))
	is.Equal(len(s.Multiple(8)), 0)
}

func TestPVStorePreviousIteration(t *testing.T) {
	is := is.New(t)
	s := NewPVStore(10, 3)

	s.Update(1, quiet(1))
	s.SaveIteration()
	s.Clear()
	_, ok := s.Previous(1)
	is.True(!ok) // Clear drops the previous iteration too

	s.Update(1, quiet(1))
	s.SaveIteration()
	s.Update(1, quiet(2))

	prev, ok := s.Previous(1)
	is.True(ok)
	is.True(prev.Move.Equal(quiet(1)))
	cur, _ := s.Get(1)
	is.True(cur.Move.Equal(quiet(2)))
}

func TestPVStoreSiblings(t *testing.T) {
	is := is.New(t)
	s := NewPVStore(10, 2)

	s.StoreSibling(5, quiet(0))
	s.StoreSibling(5, quiet(0))
	s.StoreSibling(5, quiet(1))
	s.StoreSibling(5, quiet(2))

	got := s.Siblings(5)
	is.Equal(len(got), 2)
	is.True(got[0].Equal(quiet(1)))
	is.True(got[1].Equal(quiet(2)))
}

func TestPVStoreSnapshotRestore(t *testing.T) {
	is := is.New(t)
	src := NewPVStore(10, 3)
	src.Update(1, quiet(1))
	src.MarkEmpty(2)

	dst := NewPVStore(10, 3)
	dst.Restore(src.Snapshot())
	is.Equal(dst.Len(), 2)
	e, ok := dst.Get(1)
	is.True(ok && e.HasMove)
	e, ok = dst.Get(2)
	is.True(ok && !e.HasMove)
}
