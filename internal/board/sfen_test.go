package board

import (
	"testing"

	"github.com/matryer/is"
)

func TestSFENStartPosition(t *testing.T) {
	is := is.New(t)

	is.Equal(NewPosition().SFEN(), StartSFEN)

	pos, err := ParseSFEN(StartSFEN)
	is.NoErr(err)
	is.Equal(pos.Hash(), NewPosition().Hash())
	is.Equal(pos.SideToMove, Black)
	is.Equal(pos.Ply, 0)
}

func TestSFENHandsAndPromotions(t *testing.T) {
	is := is.New(t)
	const sfen = "8l/1l+R2P3/p2pBG1pp/kps1p4/Nn1P2G2/P1P1P2PP/1PS6/1KSG3+r1/LN2+p3L w Sbgn3p 124"

	pos, err := ParseSFEN(sfen)
	is.NoErr(err)
	is.Equal(pos.SideToMove, White)
	is.Equal(pos.Ply, 123)
	is.Equal(pos.PieceAt(NewSquare(2, 1)), NewPiece(PromotedRook, Black))
	is.Equal(pos.PieceAt(NewSquare(7, 7)), NewPiece(PromotedRook, White))
	is.Equal(pos.Hands[Black][Silver], uint8(1))
	is.Equal(pos.Hands[White][Pawn], uint8(3))
	is.Equal(pos.Hands[White][Bishop], uint8(1))
	is.Equal(pos.SFEN(), sfen)
}

func TestSFENErrors(t *testing.T) {
	tests := []string{
		"",
		"9/9/9 b - 1",
		"lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL x - 1",
		"lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNLL b - 1",
		"lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNS+GKGSNL b - 1",
		"lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b 2K 1",
		"lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 0",
	}
	for _, sfen := range tests {
		if _, err := ParseSFEN(sfen); err == nil {
			t.Errorf("ParseSFEN(%q) succeeded, want error", sfen)
		}
	}
}
