package ordering

import (
	"testing"

	"github.com/matryer/is"

	"github.com/hailam/shogiorder/internal/board"
)

// quiet returns a distinct Black pawn push for each i in [0, 72).
func quiet(i int) board.Move {
	from := board.Square(9 + i)
	return board.NewMove(from, from-9, board.Pawn, board.Black)
}

func TestKillerTableBounded(t *testing.T) {
	is := is.New(t)
	kt := NewKillerTable(2)

	for i := 0; i < 20; i++ {
		depth := i % 3
		kt.Add(depth, quiet(i))
		kt.Add(depth, quiet(i)) // duplicate is ignored
		for d := 0; d < 3; d++ {
			list, _ := kt.Get(d)
			is.True(len(list) <= 2)
			for a := range list {
				for b := a + 1; b < len(list); b++ {
					is.True(!list[a].Equal(list[b]))
				}
			}
		}
	}
	is.Equal(kt.Count(), 6)
}

func TestKillerTableOrder(t *testing.T) {
	is := is.New(t)
	kt := NewKillerTable(2)

	is.True(kt.Add(4, quiet(0)))
	is.True(kt.Add(4, quiet(1)))
	is.True(!kt.Add(4, quiet(0)))
	is.True(kt.Add(4, quiet(2)))

	list, ok := kt.Get(4)
	is.True(ok)
	is.Equal(len(list), 2)
	is.True(list[0].Equal(quiet(1))) // oldest was dropped
	is.True(list[1].Equal(quiet(2)))
	is.True(!kt.IsKiller(4, quiet(0)))
	is.True(!kt.IsKiller(5, quiet(1)))

	_, ok = kt.Get(7)
	is.True(!ok)

	kt.Resize(1)
	list, _ = kt.Get(4)
	is.Equal(len(list), 1)
	is.True(list[0].Equal(quiet(2)))

	kt.Clear()
	is.Equal(kt.Count(), 0)
	is.True(!kt.IsKiller(4, quiet(2)))
}

func TestKillerIdentityIgnoresFlags(t *testing.T) {
	is := is.New(t)
	kt := NewKillerTable(2)

	m := quiet(3)
	checking := m
	checking.GivesCheck = true
	kt.Add(1, m)
	is.True(kt.IsKiller(1, checking))
	is.True(!kt.Add(1, checking))

	promoting := m
	promoting.IsPromotion = true
	is.True(!kt.IsKiller(1, promoting))
}

func TestCounterMoveTable(t *testing.T) {
	is := is.New(t)
	ct := NewCounterMoveTable(2)

	opp := board.NewMove(board.NewSquare(2, 2), board.NewSquare(2, 3), board.Pawn, board.White)
	other := board.NewMove(board.NewSquare(6, 2), board.NewSquare(6, 3), board.Pawn, board.White)

	for i := 0; i < 5; i++ {
		ct.Add(opp, quiet(i))
		list, _ := ct.Get(opp)
		is.True(len(list) <= 2)
	}
	is.True(ct.IsCounter(opp, quiet(4)))
	is.True(!ct.IsCounter(opp, quiet(0)))
	is.True(!ct.IsCounter(other, quiet(4)))

	// Captures are stored; the orderer decides whether to consult them
	capture := board.NewCapture(board.NewSquare(2, 6), board.NewSquare(2, 3), board.Rook, board.Black, board.Pawn)
	is.True(ct.Add(opp, capture))
	is.True(ct.IsCounter(opp, capture))

	is.Equal(ct.Count(), 2)
	ct.Clear()
	_, ok := ct.Get(opp)
	is.True(!ok)
}
