package board

import (
	"errors"
	"fmt"
)

// Move is a shogi move together with the tactical annotations produced by
// move generation. Drops have From == NoSquare.
type Move struct {
	From          Square
	To            Square
	Piece         PieceType
	Player        Player
	IsPromotion   bool
	IsCapture     bool
	GivesCheck    bool
	IsRecapture   bool
	CapturedPiece PieceType // NoPieceType when nothing is captured
}

// MoveKey is the identity of a move for all heuristic lookups.
// Capture and check annotations are deliberately not part of it.
type MoveKey struct {
	From      Square
	To        Square
	Piece     PieceType
	Player    Player
	Promotion bool
}

// Validation errors.
var (
	ErrSourceOffBoard      = errors.New("source square off board")
	ErrDestinationOffBoard = errors.New("destination square off board")
	ErrUnknownPiece        = errors.New("unknown piece type")
	ErrUnknownPlayer       = errors.New("unknown player")
)

// NewMove creates a quiet board move.
func NewMove(from, to Square, pt PieceType, p Player) Move {
	return Move{From: from, To: to, Piece: pt, Player: p, CapturedPiece: NoPieceType}
}

// NewDrop creates a drop of a piece from hand.
func NewDrop(to Square, pt PieceType, p Player) Move {
	return Move{From: NoSquare, To: to, Piece: pt, Player: p, CapturedPiece: NoPieceType}
}

// NewCapture creates a capturing move.
func NewCapture(from, to Square, pt PieceType, p Player, captured PieceType) Move {
	return Move{From: from, To: to, Piece: pt, Player: p, IsCapture: true, CapturedPiece: captured}
}

// Key returns the identity key of the move.
func (m Move) Key() MoveKey {
	return MoveKey{From: m.From, To: m.To, Piece: m.Piece, Player: m.Player, Promotion: m.IsPromotion}
}

// Equal reports whether two moves have the same identity.
func (m Move) Equal(o Move) bool {
	return m.Key() == o.Key()
}

// IsDrop returns true if the move places a piece from hand.
func (m Move) IsDrop() bool {
	return m.From == NoSquare
}

// IsQuiet returns true if the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture && !m.IsPromotion
}

// Validate checks that the squares lie on the board and the piece type is defined.
func (m Move) Validate() error {
	if m.From != NoSquare && !m.From.IsValid() {
		return fmt.Errorf("%w: %d", ErrSourceOffBoard, m.From)
	}
	if !m.To.IsValid() {
		return fmt.Errorf("%w: %d", ErrDestinationOffBoard, m.To)
	}
	if !m.Piece.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownPiece, m.Piece)
	}
	if m.Player >= NoPlayer {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, m.Player)
	}
	return nil
}

// String returns USI notation for the move (e.g., "7g7f", "P*5e", "8h2b+").
func (m Move) String() string {
	if m.IsDrop() {
		return fmt.Sprintf("%c*%s", m.Piece.Char(), m.To)
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion {
		s += "+"
	}
	return s
}

// ParseMove parses a USI move string. The piece type and player are taken from pos
// for board moves; capture annotations are filled in from the destination square.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return Move{}, fmt.Errorf("invalid move string: %s", s)
	}

	if s[1] == '*' {
		pt, ok := dropPieceFromChar(s[0])
		if !ok {
			return Move{}, fmt.Errorf("invalid drop piece: %c", s[0])
		}
		to, err := ParseSquare(s[2:4])
		if err != nil {
			return Move{}, err
		}
		return NewDrop(to, pt, pos.SideToMove), nil
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return Move{}, fmt.Errorf("no piece at %s", from)
	}

	m := NewMove(from, to, piece.Type(), piece.Owner())
	m.IsPromotion = len(s) == 5 && s[4] == '+'
	if target := pos.PieceAt(to); target != NoPiece {
		m.IsCapture = true
		m.CapturedPiece = target.Type()
	}
	return m, nil
}

func dropPieceFromChar(c byte) (PieceType, bool) {
	switch c {
	case 'P':
		return Pawn, true
	case 'L':
		return Lance, true
	case 'N':
		return Knight, true
	case 'S':
		return Silver, true
	case 'G':
		return Gold, true
	case 'B':
		return Bishop, true
	case 'R':
		return Rook, true
	}
	return NoPieceType, false
}
