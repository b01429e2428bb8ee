package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestSquareNotation(t *testing.T) {
	is := is.New(t)

	sq, err := ParseSquare("7g")
	is.NoErr(err)
	is.Equal(sq.File(), 2)
	is.Equal(sq.Rank(), 6)
	is.Equal(sq.String(), "7g")

	_, err = ParseSquare("0a")
	is.True(err != nil)
	_, err = ParseSquare("5j")
	is.True(err != nil)

	is.Equal(NoSquare.String(), "-")
	is.Equal(NewSquare(4, 4).CenterDistance(), 0)
	is.Equal(NewSquare(0, 0).CenterDistance(), 4)
}

func TestPromotionZone(t *testing.T) {
	is := is.New(t)

	is.True(NewSquare(4, 2).InPromotionZone(Black))
	is.True(!NewSquare(4, 3).InPromotionZone(Black))
	is.True(NewSquare(4, 6).InPromotionZone(White))
	is.True(!NewSquare(4, 2).InPromotionZone(White))
}

func TestPieceTypes(t *testing.T) {
	is := is.New(t)

	is.Equal(Pawn.Promoted(), PromotedPawn)
	is.Equal(PromotedRook.Unpromoted(), Rook)
	is.Equal(Gold.Promoted(), Gold)
	is.True(!Gold.CanPromote())
	is.True(!King.CanPromote())
	is.True(PromotedBishop.IsPromoted())
	is.True(!NoPieceType.IsValid())
	is.Equal(Gold.BaseValue(), 500)

	p := NewPiece(Silver, White)
	is.Equal(p.Type(), Silver)
	is.Equal(p.Owner(), White)
	is.Equal(p.String(), "s")
	is.Equal(NewPiece(PromotedRook, Black).String(), "+R")
}

func TestMoveIdentity(t *testing.T) {
	is := is.New(t)

	a := NewMove(NewSquare(2, 6), NewSquare(2, 5), Pawn, Black)
	b := a
	b.GivesCheck = true
	b.IsCapture = true
	is.True(a.Equal(b)) // annotations are not part of identity

	c := a
	c.IsPromotion = true
	is.True(!a.Equal(c))

	d := NewDrop(NewSquare(4, 4), Pawn, Black)
	is.True(d.IsDrop())
	is.Equal(d.String(), "P*5e")
}

func TestMoveValidate(t *testing.T) {
	is := is.New(t)

	is.NoErr(NewMove(NewSquare(2, 6), NewSquare(2, 5), Pawn, Black).Validate())
	is.NoErr(NewDrop(NewSquare(0, 0), Rook, White).Validate())

	bad := NewMove(Square(81), NewSquare(2, 5), Pawn, Black)
	is.True(errors.Is(bad.Validate(), ErrSourceOffBoard))

	bad = NewMove(NewSquare(2, 6), Square(90), Pawn, Black)
	is.True(errors.Is(bad.Validate(), ErrDestinationOffBoard))

	bad = NewMove(NewSquare(2, 6), NewSquare(2, 5), NoPieceType, Black)
	is.True(errors.Is(bad.Validate(), ErrUnknownPiece))
}

func TestHashSideAndHands(t *testing.T) {
	is := is.New(t)

	pos := NewPosition()
	h := pos.Hash()
	is.True(h != 0)
	is.True(Hash(pos, White, pos.Hands) != h)

	hands := pos.Hands
	hands[Black][Pawn] = 1
	is.True(Hash(pos, Black, hands) != h)
}

func TestMakeUnmakeRestoresHash(t *testing.T) {
	is := is.New(t)

	pos := NewPosition()
	before := pos.Hash()

	m, err := ParseMove("7g7f", pos)
	is.NoErr(err)
	is.Equal(m.Piece, Pawn)
	is.Equal(m.Player, Black)

	undo := pos.MakeMove(m)
	is.True(pos.Hash() != before)
	is.Equal(pos.SideToMove, White)

	pos.UnmakeMove(m, undo)
	is.Equal(pos.Hash(), before)
}

func TestCaptureMovesPieceToHand(t *testing.T) {
	is := is.New(t)

	pos := NewEmptyPosition()
	from := NewSquare(4, 4)
	to := NewSquare(4, 3)
	pos.Put(from, NewPiece(Rook, Black))
	pos.Put(to, NewPiece(PromotedSilver, White))

	m, err := ParseMove("5e5d", pos)
	is.NoErr(err)
	is.True(m.IsCapture)
	is.Equal(m.CapturedPiece, PromotedSilver)

	undo := pos.MakeMove(m)
	is.Equal(pos.Hands[Black][Silver], uint8(1))
	is.Equal(pos.PieceAt(to), NewPiece(Rook, Black))

	pos.UnmakeMove(m, undo)
	is.Equal(pos.Hands[Black][Silver], uint8(0))
	is.Equal(pos.PieceAt(to), NewPiece(PromotedSilver, White))
}

func TestPhase(t *testing.T) {
	is := is.New(t)

	pos := NewPosition()
	is.Equal(pos.Phase(), Opening)

	pos.Hands[Black][Pawn] = 2
	is.Equal(pos.Phase(), Middlegame)

	pos.Hands[White][Rook] = 1
	pos.Hands[White][Pawn] = 5
	is.Equal(pos.Phase(), Endgame)
}

func TestInitialMoveCount(t *testing.T) {
	is := is.New(t)
	pos := NewPosition()

	moves := pos.GenerateLegalMoves()
	is.Equal(len(moves), 30)
	for _, m := range moves {
		is.NoErr(m.Validate())
		is.True(!m.IsCapture)
		is.True(!m.IsDrop())
	}
	is.Equal(len(pos.GenerateCaptures()), 0)
}

func TestDropsAndPromotions(t *testing.T) {
	is := is.New(t)
	pos := NewEmptyPosition()
	pos.Put(NewSquare(4, 8), NewPiece(King, Black))
	pos.Put(NewSquare(4, 0), NewPiece(King, White))
	pos.Put(NewSquare(0, 1), NewPiece(Pawn, Black))
	pos.Hands[Black][Pawn] = 1

	var promotions, drops int
	for _, m := range pos.GeneratePseudoLegalMoves() {
		if m.IsDrop() {
			drops++
			// Not on the pawn's file, not on the last rank
			is.True(m.To.File() != 0)
			is.True(m.To.RelativeRank(Black) != 8)
		}
		if m.From == NewSquare(0, 1) {
			is.True(m.IsPromotion) // pawn reaching the last rank must promote
			promotions++
		}
	}
	is.Equal(promotions, 1)
	is.Equal(drops, 8*8-1) // eight files by eight ranks, minus Black's king square
}

func TestGivesCheckAndLegality(t *testing.T) {
	is := is.New(t)
	pos := NewEmptyPosition()
	pos.Put(NewSquare(4, 8), NewPiece(King, Black))
	pos.Put(NewSquare(4, 0), NewPiece(King, White))
	pos.Put(NewSquare(0, 4), NewPiece(Rook, Black))
	pos.Put(NewSquare(4, 4), NewPiece(Lance, White))

	checks := 0
	for _, m := range pos.GenerateLegalMoves() {
		if m.GivesCheck {
			checks++
		}
		// The king may not step onto the lance's file
		is.True(!(m.Piece == King && m.To.File() == 4 && m.To.Rank() == 7))
	}
	is.True(checks > 0)
	is.True(pos.InCheck(Black))
}
