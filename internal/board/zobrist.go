package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][NumPieceTypes][NumSquares]uint64
	zobristHand       [2][NumHandTypes][maxHandCount + 1]uint64
	zobristSideToMove uint64 // XOR when White to move
)

// maxHandCount is the largest number of one piece type a player can hold (18 pawns).
const maxHandCount = 18

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x5B0C1E7A2D9F4E31)

	for p := Black; p <= White; p++ {
		for pt := 0; pt < NumPieceTypes; pt++ {
			for sq := 0; sq < NumSquares; sq++ {
				zobristPiece[p][pt][sq] = rng.next()
			}
		}
	}

	// Hand keys: one per (player, type, count); count 0 hashes to zero
	for p := Black; p <= White; p++ {
		for pt := 0; pt < NumHandTypes; pt++ {
			for n := 1; n <= maxHandCount; n++ {
				zobristHand[p][pt][n] = rng.next()
			}
		}
	}

	zobristSideToMove = rng.next()
}

// ZobristPiece returns the Zobrist key for a piece on a square.
func ZobristPiece(p Player, pt PieceType, sq Square) uint64 {
	return zobristPiece[p][pt][sq]
}

// ZobristHand returns the Zobrist key for holding n pieces of a type in hand.
func ZobristHand(p Player, pt PieceType, n int) uint64 {
	if n > maxHandCount {
		n = maxHandCount
	}
	return zobristHand[p][pt][n]
}

// ZobristSideToMove returns the Zobrist key for side to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}

// Hash computes the position key from the board, the player to move and the
// pieces each side has captured. Callers own collision handling.
func Hash(pos *Position, player Player, hands Hands) uint64 {
	var h uint64
	for sq := Square(0); sq < NumSquares; sq++ {
		piece := pos.squares[sq]
		if piece == NoPiece {
			continue
		}
		h ^= zobristPiece[piece.Owner()][piece.Type()][sq]
	}
	for p := Black; p <= White; p++ {
		for pt := 0; pt < NumHandTypes; pt++ {
			if n := hands[p][pt]; n > 0 {
				h ^= ZobristHand(p, PieceType(pt), int(n))
			}
		}
	}
	if player == White {
		h ^= zobristSideToMove
	}
	return h
}
