package board

// direction is a (file, rank) step seen from Black's side; rank -1 is forward.
type direction struct {
	df, dr int
}

var (
	forward     = direction{0, -1}
	backward    = direction{0, 1}
	left        = direction{-1, 0}
	right       = direction{1, 0}
	fwdLeft     = direction{-1, -1}
	fwdRight    = direction{1, -1}
	backLeft    = direction{-1, 1}
	backRight   = direction{1, 1}
	orthogonals = []direction{forward, backward, left, right}
	diagonals   = []direction{fwdLeft, fwdRight, backLeft, backRight}
	goldSteps   = []direction{forward, fwdLeft, fwdRight, left, right, backward}
	silverSteps = []direction{forward, fwdLeft, fwdRight, backLeft, backRight}
	kingSteps   = []direction{forward, backward, left, right, fwdLeft, fwdRight, backLeft, backRight}
	knightSteps = []direction{{-1, -2}, {1, -2}}
)

// stepsAndSlides returns the single-step and sliding directions of a piece type.
func stepsAndSlides(pt PieceType) (steps, slides []direction) {
	switch pt {
	case Pawn:
		return []direction{forward}, nil
	case Lance:
		return nil, []direction{forward}
	case Knight:
		return knightSteps, nil
	case Silver:
		return silverSteps, nil
	case Gold, PromotedPawn, PromotedLance, PromotedKnight, PromotedSilver:
		return goldSteps, nil
	case King:
		return kingSteps, nil
	case Bishop:
		return nil, diagonals
	case Rook:
		return nil, orthogonals
	case PromotedBishop:
		return orthogonals, diagonals
	case PromotedRook:
		return diagonals, orthogonals
	}
	return nil, nil
}

// offset applies a direction for the given player, flipping ranks for White.
func offset(sq Square, d direction, p Player) (Square, bool) {
	df, dr := d.df, d.dr
	if p == White {
		df, dr = -df, -dr
	}
	f := sq.File() + df
	r := sq.Rank() + dr
	if f < 0 || f >= Files || r < 0 || r >= Ranks {
		return NoSquare, false
	}
	return NewSquare(f, r), true
}

// Attacks returns true if the piece on from attacks target.
func (p *Position) Attacks(from, target Square) bool {
	piece := p.PieceAt(from)
	if piece == NoPiece || from == target {
		return false
	}
	owner := piece.Owner()
	steps, slides := stepsAndSlides(piece.Type())

	for _, d := range steps {
		if sq, ok := offset(from, d, owner); ok && sq == target {
			return true
		}
	}
	for _, d := range slides {
		sq := from
		for {
			var ok bool
			sq, ok = offset(sq, d, owner)
			if !ok {
				break
			}
			if sq == target {
				return true
			}
			if !p.IsEmpty(sq) {
				break
			}
		}
	}
	return false
}

// Attackers returns the squares holding pieces of player by that attack target.
func (p *Position) Attackers(target Square, by Player) []Square {
	var result []Square
	for sq := Square(0); sq < NumSquares; sq++ {
		piece := p.squares[sq]
		if piece == NoPiece || piece.Owner() != by {
			continue
		}
		if p.Attacks(sq, target) {
			result = append(result, sq)
		}
	}
	return result
}

// IsAttacked returns true if any piece of player by attacks target.
func (p *Position) IsAttacked(target Square, by Player) bool {
	for sq := Square(0); sq < NumSquares; sq++ {
		piece := p.squares[sq]
		if piece != NoPiece && piece.Owner() == by && p.Attacks(sq, target) {
			return true
		}
	}
	return false
}
