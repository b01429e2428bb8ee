package board

// GenerateLegalMoves generates all moves that do not leave the mover's king attacked.
func (p *Position) GenerateLegalMoves() []Move {
	moves := p.GeneratePseudoLegalMoves()
	legal := moves[:0]
	for _, m := range moves {
		if p.IsLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// GeneratePseudoLegalMoves generates board moves and drops for the side to
// move (may leave the king in check).
func (p *Position) GeneratePseudoLegalMoves() []Move {
	moves := make([]Move, 0, 128)
	us := p.SideToMove
	for from := Square(0); from < NumSquares; from++ {
		piece := p.squares[from]
		if piece == NoPiece || piece.Owner() != us {
			continue
		}
		for _, to := range p.targets(from) {
			moves = p.addBoardMoves(moves, from, to, piece)
		}
	}
	return p.addDrops(moves, us)
}

// GenerateCaptures generates pseudo-legal captures only.
func (p *Position) GenerateCaptures() []Move {
	all := p.GeneratePseudoLegalMoves()
	captures := all[:0]
	for _, m := range all {
		if m.IsCapture {
			captures = append(captures, m)
		}
	}
	return captures
}

// targets returns the squares the piece on from can move to: empty squares
// and squares holding enemy pieces.
func (p *Position) targets(from Square) []Square {
	piece := p.squares[from]
	owner := piece.Owner()
	steps, slides := stepsAndSlides(piece.Type())

	var result []Square
	canLand := func(sq Square) bool {
		other := p.squares[sq]
		return other == NoPiece || other.Owner() != owner
	}
	for _, d := range steps {
		if sq, ok := offset(from, d, owner); ok && canLand(sq) {
			result = append(result, sq)
		}
	}
	for _, d := range slides {
		sq := from
		for {
			var ok bool
			sq, ok = offset(sq, d, owner)
			if !ok || !canLand(sq) {
				break
			}
			result = append(result, sq)
			if !p.IsEmpty(sq) {
				break
			}
		}
	}
	return result
}

// isDeadSquare reports whether an unpromoted piece on sq could never move again.
func isDeadSquare(pt PieceType, sq Square, p Player) bool {
	rel := sq.RelativeRank(p)
	switch pt {
	case Pawn, Lance:
		return rel == Ranks-1
	case Knight:
		return rel >= Ranks-2
	}
	return false
}

// addBoardMoves appends the promoting and non-promoting versions of a move.
func (p *Position) addBoardMoves(moves []Move, from, to Square, piece Piece) []Move {
	pt, us := piece.Type(), piece.Owner()

	m := NewMove(from, to, pt, us)
	if target := p.squares[to]; target != NoPiece {
		m = NewCapture(from, to, pt, us, target.Type())
	}

	if pt.CanPromote() && (from.InPromotionZone(us) || to.InPromotionZone(us)) {
		promo := m
		promo.IsPromotion = true
		promo.GivesCheck = p.givesCheck(promo)
		moves = append(moves, promo)
		if isDeadSquare(pt, to, us) {
			return moves
		}
	}
	m.GivesCheck = p.givesCheck(m)
	return append(moves, m)
}

// addDrops appends every drop of a piece in hand onto an empty square.
// Two unpromoted pawns of the same side may not share a file.
func (p *Position) addDrops(moves []Move, us Player) []Move {
	var pawnFiles [Files]bool
	for sq := Square(0); sq < NumSquares; sq++ {
		if p.squares[sq] == NewPiece(Pawn, us) {
			pawnFiles[sq.File()] = true
		}
	}

	for pt := PieceType(0); pt < PieceType(NumHandTypes); pt++ {
		if p.Hands[us][pt] == 0 {
			continue
		}
		for to := Square(0); to < NumSquares; to++ {
			if !p.IsEmpty(to) || isDeadSquare(pt, to, us) {
				continue
			}
			if pt == Pawn && pawnFiles[to.File()] {
				continue
			}
			m := NewDrop(to, pt, us)
			m.GivesCheck = p.givesCheck(m)
			moves = append(moves, m)
		}
	}
	return moves
}

// givesCheck reports whether m attacks the opponent's king.
func (p *Position) givesCheck(m Move) bool {
	undo := p.MakeMove(m)
	check := p.InCheck(m.Player.Other())
	p.UnmakeMove(m, undo)
	return check
}

// KingSquare returns the square of the player's king, or NoSquare.
func (p *Position) KingSquare(pl Player) Square {
	king := NewPiece(King, pl)
	for sq := Square(0); sq < NumSquares; sq++ {
		if p.squares[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// InCheck returns true if the player's king is attacked.
func (p *Position) InCheck(pl Player) bool {
	ksq := p.KingSquare(pl)
	return ksq != NoSquare && p.IsAttacked(ksq, pl.Other())
}

// IsLegal returns true if the move does not leave the mover's king attacked.
func (p *Position) IsLegal(m Move) bool {
	undo := p.MakeMove(m)
	legal := !p.InCheck(m.Player)
	p.UnmakeMove(m, undo)
	return legal
}
