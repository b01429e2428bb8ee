// Package see provides static exchange evaluation for capture ordering.
package see

import (
	"sort"

	"github.com/hailam/shogiorder/internal/board"
)

// Calculator estimates the material outcome of a capture sequence.
type Calculator interface {
	CalculateSEE(m board.Move, pos *board.Position) int
}

// MaterialSEE runs a swap-off over the direct attackers and defenders of the
// target square. X-ray attackers and pins are not considered.
type MaterialSEE struct{}

// CalculateSEE returns the expected material gain of m for the moving side.
// Non-captures and captures of an empty square return 0.
func (MaterialSEE) CalculateSEE(m board.Move, pos *board.Position) int {
	if !m.IsCapture || pos == nil {
		return 0
	}

	victim := m.CapturedPiece
	if !victim.IsValid() {
		victim = pos.PieceAt(m.To).Type()
	}
	if !victim.IsValid() {
		return 0
	}

	onSquare := m.Piece
	if m.IsPromotion {
		onSquare = onSquare.Promoted()
	}

	// lists[0] = defenders (side to reply), lists[1] = remaining supporters
	var lists [2][]int
	for _, sq := range pos.Attackers(m.To, m.Player.Other()) {
		lists[0] = append(lists[0], pos.PieceAt(sq).Type().BaseValue())
	}
	for _, sq := range pos.Attackers(m.To, m.Player) {
		if sq == m.From {
			continue
		}
		lists[1] = append(lists[1], pos.PieceAt(sq).Type().BaseValue())
	}
	sort.Ints(lists[0])
	sort.Ints(lists[1])

	gain := make([]int, 1, len(lists[0])+len(lists[1])+1)
	gain[0] = victim.BaseValue()
	valueOnSquare := onSquare.BaseValue()

	var idx [2]int
	for d := 0; ; d++ {
		side := d % 2
		if idx[side] >= len(lists[side]) {
			break
		}
		gain = append(gain, valueOnSquare-gain[len(gain)-1])
		valueOnSquare = lists[side][idx[side]]
		idx[side]++
	}

	for d := len(gain) - 1; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}
