package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartSFEN is the SFEN string for the starting position.
const StartSFEN = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"

// handOrder is the conventional order of pieces in an SFEN hand field.
var handOrder = [...]PieceType{Rook, Bishop, Gold, Silver, Knight, Lance, Pawn}

// ParseSFEN parses an SFEN string and returns a Position.
func ParseSFEN(sfen string) (*Position, error) {
	parts := strings.Fields(sfen)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid SFEN: need at least 3 fields, got %d", len(parts))
	}

	pos := NewEmptyPosition()

	// Piece placement (field 0)
	if err := parsePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	// Side to move (field 1)
	switch parts[1] {
	case "b":
		pos.SideToMove = Black
	case "w":
		pos.SideToMove = White
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Pieces in hand (field 2)
	if err := parseHands(pos, parts[2]); err != nil {
		return nil, err
	}

	// Move number (field 3, optional)
	if len(parts) > 3 {
		n, err := strconv.Atoi(parts[3])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid move number: %s", parts[3])
		}
		pos.Ply = n - 1
	}

	return pos, nil
}

// parsePlacement parses the board section. Ranks run from "a" to "i",
// files from 9 to 1.
func parsePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != Ranks {
		return fmt.Errorf("invalid piece placement: need %d ranks, got %d", Ranks, len(ranks))
	}

	for rank, rankStr := range ranks {
		file := 0
		promoted := false

		for i := 0; i < len(rankStr); i++ {
			c := rankStr[i]
			switch {
			case c == '+':
				promoted = true
				continue
			case c >= '1' && c <= '9':
				if promoted {
					return fmt.Errorf("dangling '+' in rank %c", 'a'+rank)
				}
				file += int(c - '0')
				continue
			}
			if file >= Files {
				return fmt.Errorf("too many squares in rank %c", 'a'+rank)
			}

			owner := Black
			if c >= 'a' && c <= 'z' {
				owner = White
				c -= 'a' - 'A'
			}
			pt, ok := pieceFromChar(c)
			if !ok {
				return fmt.Errorf("invalid piece character: %c", rankStr[i])
			}
			if promoted {
				if !pt.CanPromote() {
					return fmt.Errorf("piece cannot promote: %c", rankStr[i])
				}
				pt = pt.Promoted()
				promoted = false
			}
			pos.Put(NewSquare(file, rank), NewPiece(pt, owner))
			file++
		}

		if file != Files {
			return fmt.Errorf("invalid number of squares in rank %c: got %d", 'a'+rank, file)
		}
	}
	return nil
}

// parseHands parses the hand section, e.g. "S2Pb" or "-".
func parseHands(pos *Position, hands string) error {
	if hands == "-" {
		return nil
	}

	count := 0
	for i := 0; i < len(hands); i++ {
		c := hands[i]
		if c >= '0' && c <= '9' {
			count = count*10 + int(c-'0')
			continue
		}

		owner := Black
		if c >= 'a' && c <= 'z' {
			owner = White
			c -= 'a' - 'A'
		}
		pt, ok := dropPieceFromChar(c)
		if !ok {
			return fmt.Errorf("invalid hand piece: %c", hands[i])
		}
		pos.Hands[owner][pt] += uint8(max(count, 1))
		count = 0
	}
	if count != 0 {
		return fmt.Errorf("hand count without piece: %s", hands)
	}
	return nil
}

func pieceFromChar(c byte) (PieceType, bool) {
	if c == 'K' {
		return King, true
	}
	return dropPieceFromChar(c)
}

// SFEN returns the SFEN representation of the position.
func (p *Position) SFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 0; rank < Ranks; rank++ {
		empty := 0
		for file := 0; file < Files; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank < Ranks-1 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Hands
	sb.WriteByte(' ')
	n := sb.Len()
	for _, owner := range []Player{Black, White} {
		for _, pt := range handOrder {
			count := int(p.Hands[owner][pt])
			if count == 0 {
				continue
			}
			if count > 1 {
				sb.WriteString(strconv.Itoa(count))
			}
			sb.WriteString(NewPiece(pt, owner).String())
		}
	}
	if sb.Len() == n {
		sb.WriteByte('-')
	}

	// Move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.Ply + 1))

	return sb.String()
}
