package board

// Player represents the side to move. Black (sente) moves first.
type Player uint8

const (
	Black Player = iota
	White
	NoPlayer Player = 2
)

// Other returns the opposing player.
func (p Player) Other() Player {
	return p ^ 1
}

// String returns the player name.
func (p Player) String() string {
	switch p {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "NoPlayer"
	}
}

// PieceType represents the type of a shogi piece, promoted forms included.
type PieceType uint8

const (
	Pawn PieceType = iota
	Lance
	Knight
	Silver
	Gold
	Bishop
	Rook
	King
	PromotedPawn
	PromotedLance
	PromotedKnight
	PromotedSilver
	PromotedBishop
	PromotedRook
	NoPieceType PieceType = 14
)

// NumPieceTypes is the number of defined piece types.
const NumPieceTypes = int(NoPieceType)

// NumHandTypes is the number of piece types that can be held in hand (Pawn..Rook).
const NumHandTypes = int(King)

var pieceNames = [...]string{
	"Pawn", "Lance", "Knight", "Silver", "Gold", "Bishop", "Rook", "King",
	"PromotedPawn", "PromotedLance", "PromotedKnight", "PromotedSilver",
	"PromotedBishop", "PromotedRook",
}

// String returns the piece type name.
func (pt PieceType) String() string {
	if !pt.IsValid() {
		return "None"
	}
	return pieceNames[pt]
}

// Char returns the SFEN letter for the piece type (uppercase, unpromoted form).
func (pt PieceType) Char() byte {
	chars := []byte{'P', 'L', 'N', 'S', 'G', 'B', 'R', 'K'}
	if !pt.IsValid() {
		return ' '
	}
	return chars[pt.Unpromoted()]
}

// IsValid returns true for any defined piece type.
func (pt PieceType) IsValid() bool {
	return pt < NoPieceType
}

// IsPromoted returns true for promoted piece types.
func (pt PieceType) IsPromoted() bool {
	return pt >= PromotedPawn && pt <= PromotedRook
}

// CanPromote returns true if the piece type has a promoted form.
func (pt PieceType) CanPromote() bool {
	switch pt {
	case Pawn, Lance, Knight, Silver, Bishop, Rook:
		return true
	}
	return false
}

// Promoted returns the promoted form, or the type itself if it cannot promote.
func (pt PieceType) Promoted() PieceType {
	switch pt {
	case Pawn:
		return PromotedPawn
	case Lance:
		return PromotedLance
	case Knight:
		return PromotedKnight
	case Silver:
		return PromotedSilver
	case Bishop:
		return PromotedBishop
	case Rook:
		return PromotedRook
	}
	return pt
}

// Unpromoted returns the base form of a piece type, as it is held in hand.
func (pt PieceType) Unpromoted() PieceType {
	switch pt {
	case PromotedPawn:
		return Pawn
	case PromotedLance:
		return Lance
	case PromotedKnight:
		return Knight
	case PromotedSilver:
		return Silver
	case PromotedBishop:
		return Bishop
	case PromotedRook:
		return Rook
	}
	return pt
}

// PieceValue is the material value of each piece type.
var PieceValue = [NumPieceTypes + 1]int{
	Pawn:           100,
	Lance:          300,
	Knight:         350,
	Silver:         450,
	Gold:           500,
	Bishop:         800,
	Rook:           1000,
	King:           20000,
	PromotedPawn:   500,
	PromotedLance:  500,
	PromotedKnight: 500,
	PromotedSilver: 500,
	PromotedBishop: 1100,
	PromotedRook:   1300,
	NoPieceType:    0,
}

// BaseValue returns the material value of the piece type.
func (pt PieceType) BaseValue() int {
	if !pt.IsValid() {
		return 0
	}
	return PieceValue[pt]
}

// Piece combines PieceType and Player into a single value.
// Encoded as: pieceType + player*14
type Piece uint8

// NoPiece marks an empty square.
const NoPiece Piece = Piece(NumPieceTypes * 2)

// NewPiece creates a Piece from PieceType and Player.
func NewPiece(pt PieceType, p Player) Piece {
	if !pt.IsValid() || p >= NoPlayer {
		return NoPiece
	}
	return Piece(pt) + Piece(p)*Piece(NumPieceTypes)
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % Piece(NumPieceTypes))
}

// Owner returns the Player owning the piece.
func (p Piece) Owner() Player {
	if p >= NoPiece {
		return NoPlayer
	}
	return Player(p / Piece(NumPieceTypes))
}

// String returns the SFEN representation of the piece.
// Uppercase for Black, lowercase for White, "+" prefix for promoted pieces.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	c := p.Type().Char()
	if p.Owner() == White {
		c += 'a' - 'A'
	}
	if p.Type().IsPromoted() {
		return "+" + string(c)
	}
	return string(c)
}
