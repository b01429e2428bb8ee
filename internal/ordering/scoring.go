package ordering

import (
	"math"
	"math/bits"

	"github.com/hailam/shogiorder/internal/board"
)

// IIDScore is the score of the internal iterative deepening move; it is always searched first.
const IIDScore = math.MaxInt

// maxRuleScore bounds every other rule so nothing ties or beats the IID move.
const maxRuleScore = IIDScore - 1

// MaxWeight is the largest accepted weight. Composite sums of weights stay
// far from overflow below it.
const MaxWeight = 1 << 48

// belowIID clamps a rule score under IIDScore.
func belowIID(s int) int {
	return min(s, maxRuleScore)
}

// perMille returns v*weight/1000, saturating instead of overflowing.
func perMille(v int, weight int) int {
	if v == 0 || weight <= 0 {
		return 0
	}
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-v)
	}
	hi, lo := bits.Mul64(u, uint64(weight))
	var q uint64
	if hi >= 1000 {
		q = math.MaxInt
	} else {
		q, _ = bits.Div64(hi, lo, 1000)
		q = min(q, math.MaxInt)
	}
	if neg {
		return -int(q)
	}
	return int(q)
}

// captureBonus rewards taking a piece on top of its material value.
var captureBonus = [board.NumPieceTypes]int{
	board.Pawn:           50,
	board.Lance:          80,
	board.Knight:         100,
	board.Silver:         150,
	board.Gold:           200,
	board.Bishop:         350,
	board.Rook:           400,
	board.King:           0,
	board.PromotedPawn:   150,
	board.PromotedLance:  150,
	board.PromotedKnight: 150,
	board.PromotedSilver: 180,
	board.PromotedBishop: 450,
	board.PromotedRook:   500,
}

// attackerBonus prefers capturing with cheap pieces (the LVA half of MVV/LVA).
var attackerBonus = [board.NumPieceTypes]int{
	board.Pawn:           100,
	board.Lance:          80,
	board.Knight:         70,
	board.Silver:         50,
	board.Gold:           40,
	board.Bishop:         30,
	board.Rook:           20,
	board.King:           0,
	board.PromotedPawn:   40,
	board.PromotedLance:  40,
	board.PromotedKnight: 40,
	board.PromotedSilver: 40,
	board.PromotedBishop: 25,
	board.PromotedRook:   15,
}

// compositeScore is the fallback heuristic for moves no table knows about.
// Captures score by MVV/LVA; positional terms only apply to quiet moves.
func compositeScore(m board.Move, w *Weights) int {
	score := 0

	if m.IsCapture {
		score += w.CaptureWeight
		if m.Piece.IsValid() {
			score += attackerBonus[m.Piece]
		}
		if m.CapturedPiece.IsValid() {
			score += m.CapturedPiece.BaseValue() + captureBonus[m.CapturedPiece]
		}
	}

	if m.IsPromotion {
		score += w.PromotionWeight + m.Piece.Promoted().BaseValue() - m.Piece.BaseValue()
		if m.To.CenterDistance() <= 1 {
			score += w.CenterControlWeight
		}
	}

	if m.GivesCheck {
		score += w.TacticalWeight
	}
	if m.IsRecapture {
		score += w.TacticalWeight / 2
	}

	if m.IsQuiet() {
		score += m.Piece.BaseValue() * w.PieceValueScale / 1000
		score += centerControl(m.To) * w.CenterControlWeight / 4
		if isDevelopingMove(m) {
			score += w.DevelopmentWeight
		}
		score += w.QuietWeight
	}

	return score
}

// centerControl is 4 on the center square and falls to 0 on the edge.
func centerControl(sq board.Square) int {
	return 4 - sq.CenterDistance()
}

// isDevelopingMove is true for a minor piece leaving its two home ranks forward.
func isDevelopingMove(m board.Move) bool {
	if m.IsDrop() {
		return false
	}
	switch m.Piece {
	case board.Silver, board.Gold, board.Knight:
	default:
		return false
	}
	from := m.From.RelativeRank(m.Player)
	return from <= 1 && m.To.RelativeRank(m.Player) > from
}

// HeuristicSource identifies the priority rule that scored a move.
type HeuristicSource uint8

const (
	SourceIID HeuristicSource = iota
	SourcePV
	SourceKiller
	SourceCounter
	SourceHistory
	SourceSEE
	SourceComposite
	numSources
)

// SourceNone marks a move no rule scored, such as an invalid one. Learning ignores it.
const SourceNone = numSources

var sourceNames = [numSources]string{"iid", "pv", "killer", "counter", "history", "see", "composite"}

func (s HeuristicSource) String() string {
	if s < numSources {
		return sourceNames[s]
	}
	return "unknown"
}

// weight returns the weight a source's score is driven by, if any.
func (s HeuristicSource) weight() (WeightID, bool) {
	switch s {
	case SourcePV:
		return WeightPVMove, true
	case SourceKiller:
		return WeightKillerMove, true
	case SourceCounter:
		return WeightCounterMove, true
	case SourceHistory:
		return WeightHistory, true
	case SourceSEE:
		return WeightSEE, true
	case SourceComposite:
		return WeightCapture, true
	}
	return 0, false
}
