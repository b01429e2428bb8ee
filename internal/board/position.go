package board

import "strings"

// Hands holds the captured pieces available for dropping, indexed [Player][PieceType]
// for the unpromoted types Pawn..Rook.
type Hands [2][NumHandTypes]uint8

// Count returns the total number of pieces held by both players.
func (h Hands) Count() int {
	n := 0
	for p := range h {
		for _, c := range h[p] {
			n += int(c)
		}
	}
	return n
}

// GamePhase classifies a position for phase-aware heuristics.
type GamePhase uint8

const (
	Opening GamePhase = iota
	Middlegame
	Endgame
)

// NumPhases is the number of game phases.
const NumPhases = 3

// String returns the phase name.
func (gp GamePhase) String() string {
	switch gp {
	case Opening:
		return "Opening"
	case Middlegame:
		return "Middlegame"
	case Endgame:
		return "Endgame"
	default:
		return "Unknown"
	}
}

// Position represents a shogi position: the 9x9 grid, both hands and the side to move.
type Position struct {
	squares    [NumSquares]Piece
	Hands      Hands
	SideToMove Player
	Ply        int // half-moves played from the initial position
}

// UndoInfo stores the information needed to unmake a move.
type UndoInfo struct {
	Captured Piece
}

// NewEmptyPosition creates a position with no pieces on the board.
func NewEmptyPosition() *Position {
	p := &Position{}
	for i := range p.squares {
		p.squares[i] = NoPiece
	}
	return p
}

// NewPosition creates the standard starting position.
func NewPosition() *Position {
	p := NewEmptyPosition()
	back := []PieceType{Lance, Knight, Silver, Gold, King, Gold, Silver, Knight, Lance}
	for file, pt := range back {
		p.Put(NewSquare(file, 0), NewPiece(pt, White))
		p.Put(NewSquare(file, 8), NewPiece(pt, Black))
	}
	p.Put(NewSquare(1, 1), NewPiece(Rook, White))
	p.Put(NewSquare(7, 1), NewPiece(Bishop, White))
	p.Put(NewSquare(1, 7), NewPiece(Bishop, Black))
	p.Put(NewSquare(7, 7), NewPiece(Rook, Black))
	for file := 0; file < Files; file++ {
		p.Put(NewSquare(file, 2), NewPiece(Pawn, White))
		p.Put(NewSquare(file, 6), NewPiece(Pawn, Black))
	}
	p.SideToMove = Black
	return p
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return p.squares[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.PieceAt(sq) == NoPiece
}

// Put places a piece on a square.
func (p *Position) Put(sq Square, piece Piece) {
	p.squares[sq] = piece
}

// Remove clears a square.
func (p *Position) Remove(sq Square) {
	p.squares[sq] = NoPiece
}

// Hash returns the position key for the side to move and current hands.
func (p *Position) Hash() uint64 {
	return Hash(p, p.SideToMove, p.Hands)
}

// Phase classifies the position by how much material has changed hands.
func (p *Position) Phase() GamePhase {
	inHand := p.Hands.Count()
	promoted := 0
	for _, piece := range p.squares {
		if piece != NoPiece && piece.Type().IsPromoted() {
			promoted++
		}
	}
	switch {
	case inHand >= 8 || promoted >= 3:
		return Endgame
	case inHand == 0 && promoted == 0 && p.Ply < 30:
		return Opening
	default:
		return Middlegame
	}
}

// MakeMove applies a move without legality checks and returns undo information.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{Captured: p.squares[m.To]}

	if m.IsDrop() {
		p.Hands[m.Player][m.Piece.Unpromoted()]--
	} else {
		p.squares[m.From] = NoPiece
	}
	if undo.Captured != NoPiece && undo.Captured.Type() != King {
		p.Hands[m.Player][undo.Captured.Type().Unpromoted()]++
	}

	pt := m.Piece
	if m.IsPromotion {
		pt = pt.Promoted()
	}
	p.squares[m.To] = NewPiece(pt, m.Player)

	p.SideToMove = p.SideToMove.Other()
	p.Ply++
	return undo
}

// UnmakeMove reverts a move made with MakeMove.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	p.SideToMove = p.SideToMove.Other()
	p.Ply--

	if m.IsDrop() {
		p.Hands[m.Player][m.Piece.Unpromoted()]++
	} else {
		p.squares[m.From] = NewPiece(m.Piece, m.Player)
	}
	if undo.Captured != NoPiece && undo.Captured.Type() != King {
		p.Hands[m.Player][undo.Captured.Type().Unpromoted()]--
	}
	p.squares[m.To] = undo.Captured
}

// String returns an ASCII diagram of the board.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 0; rank < Ranks; rank++ {
		for file := 0; file < Files; file++ {
			s := p.squares[NewSquare(file, rank)].String()
			if len(s) == 1 {
				s = " " + s
			}
			sb.WriteString(s)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
