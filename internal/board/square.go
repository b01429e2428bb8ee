// Package board implements the shogi move and position model used by move ordering.
package board

import "fmt"

// Board dimensions.
const (
	Files      = 9
	Ranks      = 9
	NumSquares = Files * Ranks
)

// Square represents a square on the shogi board (0-80).
// Index = rank*9 + file, where rank 0 is rank "a" (White's back rank)
// and file 0 is file 9 (the leftmost file from Black's side).
type Square uint8

// NoSquare marks an absent square, e.g. the origin of a drop.
const NoSquare Square = 0xFF

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*Files + file)
}

// File returns the file index of the square (0-8).
func (sq Square) File() int {
	return int(sq) % Files
}

// Rank returns the rank index of the square (0-8, where 0 = rank "a").
func (sq Square) Rank() int {
	return int(sq) / Files
}

// IsValid returns true if the square lies on the board.
func (sq Square) IsValid() bool {
	return sq < NumSquares
}

// RelativeRank returns the rank counted from the given player's own back rank.
// 0 is the player's back rank, 8 is the opponent's back rank.
func (sq Square) RelativeRank(p Player) int {
	if p == Black {
		return Ranks - 1 - sq.Rank()
	}
	return sq.Rank()
}

// InPromotionZone returns true if the square is in the opponent's camp for player p.
func (sq Square) InPromotionZone(p Player) bool {
	return sq.RelativeRank(p) >= 6
}

// String returns shogi coordinate notation for the square (e.g., "7g").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d%c", Files-sq.File(), 'a'+sq.Rank())
}

// ParseSquare parses shogi coordinate notation (e.g., "7g") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := Files - int(s[0]-'0')
	rank := int(s[1] - 'a')

	if file < 0 || file >= Files || rank < 0 || rank >= Ranks {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// CenterDistance returns the Chebyshev distance from the square to the board center (5e).
func (sq Square) CenterDistance() int {
	df := abs(sq.File() - Files/2)
	dr := abs(sq.Rank() - Ranks/2)
	if df > dr {
		return df
	}
	return dr
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
