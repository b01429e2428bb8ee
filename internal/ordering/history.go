package ordering

import (
	"math"

	"github.com/hailam/shogiorder/internal/board"
)

// HistoryEntry is an aging success score for one move shape.
type HistoryEntry struct {
	Score       uint32 `json:"score"`
	LastUpdate  uint64 `json:"last_update"` // logical timestamp
	UpdateCount uint32 `json:"update_count"`
}

type pieceSquareKey struct {
	Piece    board.PieceType
	From, To board.Square
}

type squareKey struct {
	From, To board.Square
}

// historyLookup is one source consulted by HistoryTable.Score.
type historyLookup struct {
	enabled func(cfg *HistoryConfig, m board.Move) bool
	lookup  func(m board.Move, phase board.GamePhase) (HistoryEntry, bool)
}

// HistoryTable holds four parallel history tables:
// absolute (piece, from, to), relative (from, to), quiet-only (piece, from, to)
// and per-phase (piece, from, to). The absolute table is always maintained.
type HistoryTable struct {
	absolute map[pieceSquareKey]HistoryEntry
	relative map[squareKey]HistoryEntry
	quiet    map[pieceSquareKey]HistoryEntry
	phased   [board.NumPhases]map[pieceSquareKey]HistoryEntry

	lookups []historyLookup
}

// NewHistoryTable creates an empty history table.
func NewHistoryTable() *HistoryTable {
	ht := &HistoryTable{
		absolute: make(map[pieceSquareKey]HistoryEntry),
		relative: make(map[squareKey]HistoryEntry),
		quiet:    make(map[pieceSquareKey]HistoryEntry),
	}
	for i := range ht.phased {
		ht.phased[i] = make(map[pieceSquareKey]HistoryEntry)
	}

	// Lookup precedence: quiet-only, phase-aware, relative, absolute
	ht.lookups = []historyLookup{
		{
			enabled: func(cfg *HistoryConfig, m board.Move) bool { return cfg.EnableQuietOnly && !m.IsCapture },
			lookup: func(m board.Move, _ board.GamePhase) (HistoryEntry, bool) {
				e, ok := ht.quiet[psKey(m)]
				return e, ok
			},
		},
		{
			enabled: func(cfg *HistoryConfig, _ board.Move) bool { return cfg.EnablePhaseAware },
			lookup: func(m board.Move, phase board.GamePhase) (HistoryEntry, bool) {
				e, ok := ht.phased[phase][psKey(m)]
				return e, ok
			},
		},
		{
			enabled: func(cfg *HistoryConfig, _ board.Move) bool { return cfg.EnableRelative },
			lookup: func(m board.Move, _ board.GamePhase) (HistoryEntry, bool) {
				e, ok := ht.relative[sqKey(m)]
				return e, ok
			},
		},
		{
			enabled: func(*HistoryConfig, board.Move) bool { return true },
			lookup: func(m board.Move, _ board.GamePhase) (HistoryEntry, bool) {
				e, ok := ht.absolute[psKey(m)]
				return e, ok
			},
		},
	}
	return ht
}

func psKey(m board.Move) pieceSquareKey {
	return pieceSquareKey{Piece: m.Piece, From: m.From, To: m.To}
}

func sqKey(m board.Move) squareKey {
	return squareKey{From: m.From, To: m.To}
}

// bump adds bonus to e, saturating at limit.
func bump(e HistoryEntry, bonus, limit uint32, now uint64) HistoryEntry {
	if bonus >= limit || e.Score > limit-bonus {
		e.Score = limit
	} else {
		e.Score += bonus
	}
	e.LastUpdate = now
	e.UpdateCount++
	return e
}

// Update adds bonus to the absolute table and to every enabled sub-table.
// Drops have no source square and are ignored.
func (ht *HistoryTable) Update(m board.Move, bonus uint32, cfg *HistoryConfig, phase board.GamePhase, now uint64) {
	if m.IsDrop() {
		return
	}
	limit := cfg.MaxHistoryScore
	ps := psKey(m)

	ht.absolute[ps] = bump(ht.absolute[ps], bonus, limit, now)
	if cfg.EnableRelative {
		sq := sqKey(m)
		ht.relative[sq] = bump(ht.relative[sq], bonus, limit, now)
	}
	if cfg.EnableQuietOnly && !m.IsCapture {
		ht.quiet[ps] = bump(ht.quiet[ps], bonus, limit, now)
	}
	if cfg.EnablePhaseAware {
		ht.phased[phase][ps] = bump(ht.phased[phase][ps], bonus, limit, now)
	}
}

// Score returns the history score of m from the first enabled table holding
// an entry, decayed by elapsed time when time-based aging is enabled.
func (ht *HistoryTable) Score(m board.Move, cfg *HistoryConfig, phase board.GamePhase, now uint64) uint32 {
	if m.IsDrop() {
		return 0
	}
	for _, l := range ht.lookups {
		if !l.enabled(cfg, m) {
			continue
		}
		if e, ok := l.lookup(m, phase); ok {
			return decayedScore(e, cfg, now)
		}
	}
	return 0
}

// Entry returns the raw absolute-table entry for m.
func (ht *HistoryTable) Entry(m board.Move) (HistoryEntry, bool) {
	e, ok := ht.absolute[psKey(m)]
	return e, ok
}

func decayedScore(e HistoryEntry, cfg *HistoryConfig, now uint64) uint32 {
	if !cfg.EnableTimeBasedAging || cfg.TimeDecayWindow == 0 || now <= e.LastUpdate {
		return e.Score
	}
	elapsed := min(now-e.LastUpdate, cfg.TimeDecayWindow)
	f := math.Pow(cfg.TimeDecayFactor, float64(elapsed)/float64(cfg.TimeDecayWindow))
	return uint32(float64(e.Score) * f)
}

// AgingFactor returns the decay applied by Age for the given phase.
func AgingFactor(cfg *HistoryConfig, phase board.GamePhase) float64 {
	if !cfg.EnablePhaseAwareAging {
		return cfg.HistoryAgingFactor
	}
	switch phase {
	case board.Opening:
		return cfg.OpeningAgingFactor
	case board.Endgame:
		return cfg.EndgameAgingFactor
	default:
		return cfg.MiddlegameAgingFactor
	}
}

func ageMap[K comparable](m map[K]HistoryEntry, factor float64) {
	for k, e := range m {
		e.Score = uint32(float64(e.Score) * factor)
		if e.Score == 0 {
			delete(m, k)
			continue
		}
		m[k] = e
	}
}

// Age multiplies every score by the aging factor and removes entries that reach zero.
func (ht *HistoryTable) Age(cfg *HistoryConfig, phase board.GamePhase) {
	factor := AgingFactor(cfg, phase)
	ageMap(ht.absolute, factor)
	ageMap(ht.relative, factor)
	ageMap(ht.quiet, factor)
	for _, m := range ht.phased {
		ageMap(m, factor)
	}
}

// Len returns the total number of entries across all tables.
func (ht *HistoryTable) Len() int {
	n := len(ht.absolute) + len(ht.relative) + len(ht.quiet)
	for _, m := range ht.phased {
		n += len(m)
	}
	return n
}

// Clear removes every entry from every table.
func (ht *HistoryTable) Clear() {
	clear(ht.absolute)
	clear(ht.relative)
	clear(ht.quiet)
	for _, m := range ht.phased {
		clear(m)
	}
}

// HistoryRecord is one serialized history entry.
type HistoryRecord struct {
	Table string          `json:"table"` // "absolute", "relative", "quiet" or "phase"
	Phase board.GamePhase `json:"phase,omitempty"`
	Piece board.PieceType `json:"piece"`
	From  board.Square    `json:"from"`
	To    board.Square    `json:"to"`
	Entry HistoryEntry    `json:"entry"`
}

// Snapshot returns every entry as a flat record list.
func (ht *HistoryTable) Snapshot() []HistoryRecord {
	out := make([]HistoryRecord, 0, ht.Len())
	for k, e := range ht.absolute {
		out = append(out, HistoryRecord{Table: "absolute", Piece: k.Piece, From: k.From, To: k.To, Entry: e})
	}
	for k, e := range ht.relative {
		out = append(out, HistoryRecord{Table: "relative", Piece: board.NoPieceType, From: k.From, To: k.To, Entry: e})
	}
	for k, e := range ht.quiet {
		out = append(out, HistoryRecord{Table: "quiet", Piece: k.Piece, From: k.From, To: k.To, Entry: e})
	}
	for phase, m := range ht.phased {
		for k, e := range m {
			out = append(out, HistoryRecord{Table: "phase", Phase: board.GamePhase(phase), Piece: k.Piece, From: k.From, To: k.To, Entry: e})
		}
	}
	return out
}

// Restore replaces the table contents with records. Unknown tables are skipped.
func (ht *HistoryTable) Restore(records []HistoryRecord) {
	ht.Clear()
	for _, r := range records {
		ps := pieceSquareKey{Piece: r.Piece, From: r.From, To: r.To}
		switch r.Table {
		case "absolute":
			ht.absolute[ps] = r.Entry
		case "relative":
			ht.relative[squareKey{From: r.From, To: r.To}] = r.Entry
		case "quiet":
			ht.quiet[ps] = r.Entry
		case "phase":
			if int(r.Phase) < board.NumPhases {
				ht.phased[r.Phase][ps] = r.Entry
			}
		}
	}
}
