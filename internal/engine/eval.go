// Package engine runs a parallel alpha-beta search over shogi positions.
// Each search worker orders its moves with an ordering.Orderer and feeds
// cutoffs, best moves and transposition hits back into it.
package engine

import (
	"github.com/hailam/shogiorder/internal/board"
)

// Pieces in hand are worth a little more than on the board since they can
// be dropped anywhere.
const handBonusPercent = 10

// Evaluate returns the material balance from the side to move's perspective.
func Evaluate(pos *board.Position) int {
	us := pos.SideToMove
	score := 0

	for sq := board.Square(0); sq < board.NumSquares; sq++ {
		pc := pos.PieceAt(sq)
		if pc == board.NoPiece || pc.Type() == board.King {
			continue
		}
		if v := pc.Type().BaseValue(); pc.Owner() == us {
			score += v
		} else {
			score -= v
		}
	}

	for pt := 0; pt < board.NumHandTypes; pt++ {
		v := board.PieceType(pt).BaseValue()
		v += v * handBonusPercent / 100
		score += v * int(pos.Hands[us][pt])
		score -= v * int(pos.Hands[us.Other()][pt])
	}
	return score
}
