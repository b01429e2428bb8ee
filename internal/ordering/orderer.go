// Package ordering ranks the legal moves of a search node so that the moves
// most likely to cause a beta cutoff are searched first, and keeps the
// cross-node heuristic state (killers, counter-moves, history, PV and cached
// orderings) that improves the ranking as the search proceeds.
//
// An Orderer is owned by one search thread. Parallel searches run one Orderer
// per worker and share only the history and PV tables (see SharedTables).
package ordering

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/shogiorder/internal/board"
	"github.com/hailam/shogiorder/internal/see"
	"github.com/hailam/shogiorder/internal/tt"
)

// TranspositionTable is the part of the transposition table the Orderer uses.
type TranspositionTable interface {
	Probe(hash uint64, depth int) (tt.Entry, bool)
	Store(e tt.Entry)
}

// Hasher computes a position key from the board, the player to move and both hands.
type Hasher func(pos *board.Position, player board.Player, hands board.Hands) uint64

// Node is the search context of one ordering call.
type Node struct {
	Position *board.Position
	Hands    board.Hands
	Player   board.Player
	Depth    int

	IIDMove          *board.Move // searched first when set; bypasses the result cache
	OpponentLastMove *board.Move
}

// Option configures an Orderer.
type Option func(*Orderer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orderer) {
		o.log = l
	}
}

// WithSEE replaces the built-in material SEE calculator.
func WithSEE(calc see.Calculator) Option {
	return func(o *Orderer) {
		o.see = calc
		o.ownSEE = false
		if cc, ok := calc.(*see.CachedCalculator); ok {
			o.seeCache = cc.Cache()
		}
	}
}

// WithTranspositionTable connects the transposition table used for PV lookups.
func WithTranspositionTable(t TranspositionTable) Option {
	return func(o *Orderer) {
		o.tt = t
	}
}

// WithHasher replaces board.Hash as the position key function.
func WithHasher(h Hasher) Option {
	return func(o *Orderer) {
		o.hasher = h
	}
}

// WithSharedTables makes the Orderer use the shared history and PV tables of a
// parallel search instead of private ones. Nil fields are ignored.
func WithSharedTables(st *SharedTables) Option {
	return func(o *Orderer) {
		if st == nil {
			return
		}
		o.shared = st
		if st.History != nil {
			o.history = st.History
		}
		if st.Clock != nil {
			o.clock = st.Clock
		}
		if st.PV != nil {
			o.pv = st.PV
		}
	}
}

// scoredMove pairs a move with its priority and the rule that produced it.
type scoredMove struct {
	move   board.Move
	score  int
	source HeuristicSource
}

// Orderer combines every heuristic table into a single priority function.
type Orderer struct {
	cfg Config
	log zerolog.Logger

	scoreCache *MoveScoreCache
	killers    *KillerTable
	counters   *CounterMoveTable
	history    HistoryStore
	pv         PVCache
	results    *OrderingResultCache

	see      see.Calculator
	seeCache *see.Cache
	ownSEE   bool
	tt       TranspositionTable
	hasher   Hasher
	shared   *SharedTables

	currentDepth int
	phase        board.GamePhase
	clock        *HistoryClock // shared with other workers along with the history table

	stats    Stats
	errors   *ErrorLog
	learning learningState

	scratch []scoredMove
}

// New creates an Orderer. The configuration is validated first.
func New(cfg Config, opts ...Option) (*Orderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &Orderer{
		cfg:        cfg,
		log:        zerolog.Nop(),
		scoreCache: NewMoveScoreCache(cfg.Cache.MaxScoreCacheSize, cfg.Cache.HotCacheSize),
		killers:    NewKillerTable(cfg.Killer.MaxKillerMoves),
		counters:   NewCounterMoveTable(cfg.Counter.MaxCounterMoves),
		history:    NewHistoryTable(),
		clock:      &HistoryClock{},
		pv:         NewPVStore(cfg.PV.MaxCacheSize, cfg.PV.MaxPVMovesPerPosition),
		results:    NewOrderingResultCache(),
		ownSEE:     true,
		hasher:     board.Hash,
		errors:     NewErrorLog(cfg.ErrorLogSize),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.ownSEE {
		if err := o.configureSEE(); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// configureSEE builds the material SEE calculator and its cache from the config.
func (o *Orderer) configureSEE() error {
	if o.seeCache != nil {
		o.seeCache.Close()
		o.seeCache = nil
	}
	o.see = nil
	if !o.cfg.SEE.Enabled {
		return nil
	}

	var calc see.Calculator = see.MaterialSEE{}
	if o.cfg.SEE.EnableCache {
		c, err := see.NewCache(o.cfg.SEE.MaxSEECacheSize)
		if err != nil {
			return newError(KindCache, err, "creating SEE cache")
		}
		o.seeCache = c
		calc = see.NewCachedCalculator(calc, c)
	}
	o.see = calc
	return nil
}

// Close releases the SEE cache.
func (o *Orderer) Close() {
	if o.seeCache != nil && o.ownSEE {
		o.seeCache.Close()
	}
}

// scoreContext is the per-call input of the priority function.
type scoreContext struct {
	iid      *board.Move
	pv       *board.Move
	depth    int
	opponent *board.Move
	pos      *board.Position
}

// priority scores m by the first matching rule:
// IID move, PV move, killer, counter-move (quiet moves only), history,
// SEE for captures, then the composite heuristic.
func (o *Orderer) priority(m board.Move, ctx *scoreContext) (int, HeuristicSource) {
	w := &o.cfg.Weights

	if ctx.iid != nil && m.Equal(*ctx.iid) {
		o.stats.IIDHits++
		return IIDScore, SourceIID
	}
	if ctx.pv != nil && m.Equal(*ctx.pv) {
		o.stats.PVHits++
		return belowIID(w.PVMoveWeight), SourcePV
	}
	if o.cfg.Killer.Enabled && o.killers.IsKiller(ctx.depth, m) {
		o.stats.KillerHits++
		return belowIID(w.KillerMoveWeight), SourceKiller
	}
	if o.cfg.Counter.Enabled && !m.IsCapture && ctx.opponent != nil && o.counters.IsCounter(*ctx.opponent, m) {
		o.stats.CounterHits++
		return belowIID(w.CounterMoveWeight), SourceCounter
	}
	if o.cfg.History.Enabled {
		if h := o.history.Score(m, &o.cfg.History, o.phase, o.clock.Now()); h > 0 {
			o.stats.HistoryHits++
			return belowIID(perMille(int(h), w.HistoryWeight)), SourceHistory
		}
	}
	if m.IsCapture && o.cfg.SEE.Enabled && o.see != nil && ctx.pos != nil {
		o.stats.SEECalculations++
		// A zero exchange says nothing; let the composite heuristic decide
		if s := perMille(o.see.CalculateSEE(m, ctx.pos), w.SEEWeight); s != 0 {
			o.stats.SEEHits++
			return belowIID(s), SourceSEE
		}
	}
	return belowIID(o.composite(m)), SourceComposite
}

// composite returns the composite heuristic score of m through the score cache.
func (o *Orderer) composite(m board.Move) int {
	if !o.cfg.Cache.EnableScoreCache {
		return compositeScore(m, &o.cfg.Weights)
	}
	fp := m.Fingerprint()
	if s, ok := o.scoreCache.Get(fp); ok {
		o.stats.ScoreCacheHits++
		return s
	}
	o.stats.ScoreCacheMisses++
	s := compositeScore(m, &o.cfg.Weights)
	o.scoreCache.Insert(fp, s)
	return s
}

// ScoreMove returns the composite heuristic score of a single move.
func (o *Orderer) ScoreMove(m board.Move) (int, error) {
	if err := m.Validate(); err != nil {
		return 0, newError(KindInvalidMove, err, "scoring move")
	}
	return o.composite(m), nil
}

// ScoreMoveInNode returns the priority of m in a search node and the rule that produced it.
func (o *Orderer) ScoreMoveInNode(m board.Move, node Node) (int, HeuristicSource, error) {
	if err := m.Validate(); err != nil {
		return 0, SourceComposite, newError(KindInvalidMove, err, "scoring move")
	}
	ctx := o.nodeContext(node)
	s, src := o.priority(m, &ctx)
	return s, src, nil
}

// sortByScore returns moves sorted by descending score with the source of
// each score. Equal scores keep their input order.
func (o *Orderer) sortByScore(moves []board.Move, score func(board.Move) (int, HeuristicSource)) ([]board.Move, []HeuristicSource) {
	buf := o.scratch[:0]
	for _, m := range moves {
		s, src := score(m)
		buf = append(buf, scoredMove{move: m, score: s, source: src})
	}
	slices.SortStableFunc(buf, func(a, b scoredMove) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]board.Move, len(buf))
	sources := make([]HeuristicSource, len(buf))
	for i := range buf {
		out[i] = buf[i].move
		sources[i] = buf[i].source
	}
	o.scratch = buf
	return out, sources
}

// OrderMoves sorts moves using the killer, history and SEE-free heuristics at
// the current depth. Any invalid move fails the whole call.
func (o *Orderer) OrderMoves(moves []board.Move) ([]board.Move, error) {
	if len(moves) == 0 {
		return []board.Move{}, nil
	}
	start := time.Now()

	for i, m := range moves {
		if err := m.Validate(); err != nil {
			o.stats.InvalidMoves++
			return nil, newError(KindInvalidMove, err, "move %d", i)
		}
	}

	ctx := scoreContext{depth: o.currentDepth}
	out, _ := o.sortByScore(moves, func(m board.Move) (int, HeuristicSource) {
		return o.priority(m, &ctx)
	})

	o.stats.OrderingCalls++
	o.stats.MovesOrdered += uint64(len(moves))
	o.stats.OrderingTime += time.Since(start)
	return out, nil
}

// nodeContext resolves the PV move of a node and builds its scoring context.
func (o *Orderer) nodeContext(node Node) scoreContext {
	ctx := scoreContext{
		iid:      node.IIDMove,
		depth:    node.Depth,
		opponent: node.OpponentLastMove,
		pos:      node.Position,
	}
	if node.Position != nil {
		hash := o.hasher(node.Position, node.Player, node.Hands)
		if m, ok := o.pvMoveAt(hash, node.Depth); ok {
			ctx.pv = &m
		}
	}
	return ctx
}

// OrderMovesWithAllHeuristics sorts moves using every enabled heuristic. It
// never fails: invalid moves score 0 and sort after every positive score.
func (o *Orderer) OrderMovesWithAllHeuristics(moves []board.Move, node Node) []board.Move {
	out, _ := o.OrderMovesWithSources(moves, node)
	return out
}

// OrderMovesWithSources is OrderMovesWithAllHeuristics that also returns, for
// each ordered move, the rule that ranked it. Invalid moves get SourceNone.
// Lists with invalid moves are never cached.
func (o *Orderer) OrderMovesWithSources(moves []board.Move, node Node) ([]board.Move, []HeuristicSource) {
	if len(moves) == 0 {
		return []board.Move{}, []HeuristicSource{}
	}
	start := time.Now()

	o.currentDepth = node.Depth
	if node.Position != nil {
		o.phase = node.Position.Phase()
	}

	var key CacheKey
	var fp uint64
	useCache := o.cfg.Cache.EnableResultCache && node.Position != nil && node.IIDMove == nil
	if useCache {
		key = CacheKey{Hash: o.hasher(node.Position, node.Player, node.Hands), Depth: node.Depth}
		fp = board.SequenceFingerprint(moves)
		if e, ok := o.results.Get(key); ok && e.SourceFP == fp && e.Matches(moves) {
			o.stats.ResultCacheHits++
			o.finishCall(len(moves), start)
			return slices.Clone(e.Moves), slices.Clone(e.Sources)
		}
		o.stats.ResultCacheMisses++
	}

	ctx := o.nodeContext(node)
	invalid := 0
	out, sources := o.sortByScore(moves, func(m board.Move) (int, HeuristicSource) {
		if err := m.Validate(); err != nil {
			invalid++
			return 0, SourceNone
		}
		return o.priority(m, &ctx)
	})
	o.stats.InvalidMoves += uint64(invalid)

	if useCache && invalid == 0 {
		entry := CacheEntry{
			Moves:    slices.Clone(out),
			Sources:  slices.Clone(sources),
			Source:   slices.Clone(moves),
			SourceFP: fp,
			Depth:    node.Depth,
		}
		if evicted, ok := o.results.Insert(key, entry, o.cfg.Cache.MaxCacheSize, o.cfg.Cache.EvictionPolicy, o.cfg.Cache.LRUWeight); ok {
			o.stats.ResultCacheEvictions++
			o.log.Trace().Uint64("hash", evicted.Hash).Int("depth", evicted.Depth).Msg("result-evicted")
		}
	}

	o.finishCall(len(moves), start)
	return out, sources
}

func (o *Orderer) finishCall(n int, start time.Time) {
	o.stats.OrderingCalls++
	o.stats.MovesOrdered += uint64(n)
	o.stats.OrderingTime += time.Since(start)
}

// SetCurrentDepth sets the depth used by OrderMoves and AddKillerMove.
func (o *Orderer) SetCurrentDepth(depth int) {
	o.currentDepth = depth
}

// CurrentDepth returns the depth of the last ordering call or SetCurrentDepth.
func (o *Orderer) CurrentDepth() int {
	return o.currentDepth
}

// AddKillerMove records m as a killer at the current depth.
func (o *Orderer) AddKillerMove(m board.Move) {
	o.AddKillerMoveAt(o.currentDepth, m)
}

// AddKillerMoveAt records m as a killer at depth.
func (o *Orderer) AddKillerMoveAt(depth int, m board.Move) {
	if !o.cfg.Killer.Enabled {
		return
	}
	if o.killers.Add(depth, m) {
		o.stats.KillersAdded++
	}
}

// IsKillerMove reports whether m is a killer at the current depth.
func (o *Orderer) IsKillerMove(m board.Move) bool {
	return o.killers.IsKiller(o.currentDepth, m)
}

// AddCounterMove records m as a refutation of the opponent's move.
func (o *Orderer) AddCounterMove(opponent, m board.Move) {
	if !o.cfg.Counter.Enabled {
		return
	}
	if o.counters.Add(opponent, m) {
		o.stats.CountersAdded++
	}
}

// IsCounterMove reports whether m is a recorded refutation of opponent.
func (o *Orderer) IsCounterMove(opponent, m board.Move) bool {
	return o.counters.IsCounter(opponent, m)
}

// UpdateHistoryScore rewards m with depth² in the history tables. pos, when
// given, selects the phase-aware table. Drops are ignored.
func (o *Orderer) UpdateHistoryScore(m board.Move, depth int, pos *board.Position) {
	if !o.cfg.History.Enabled || m.IsDrop() {
		return
	}
	if pos != nil {
		o.phase = pos.Phase()
	}
	depth = max(depth, 0)
	bonus := uint32(min(uint64(depth)*uint64(depth), math.MaxUint32))

	now := o.clock.Tick()
	o.history.Update(m, bonus, &o.cfg.History, o.phase, now)
	o.stats.HistoryUpdates++

	if o.cfg.History.EnableAutomaticAging && o.clock.DueForAging(o.cfg.History.AgingFrequency) {
		o.AgeHistoryTable()
	}
}

// HistoryScore returns the current history score of m.
func (o *Orderer) HistoryScore(m board.Move) uint32 {
	return o.history.Score(m, &o.cfg.History, o.phase, o.clock.Now())
}

// AgeHistoryTable decays every history score by the configured aging factor.
func (o *Orderer) AgeHistoryTable() {
	o.history.Age(&o.cfg.History, o.phase)
	o.clock.AgingDone()
	o.stats.HistoryAgings++
	o.log.Debug().Str("phase", o.phase.String()).
		Float64("factor", AgingFactor(&o.cfg.History, o.phase)).
		Int("entries", o.history.Len()).Msg("history-aged")
}

// pvMoveAt returns the PV move of a position. On a PV store miss the
// transposition table is probed and the result cached; positions without a
// move fall back to the previous iteration.
func (o *Orderer) pvMoveAt(hash uint64, depth int) (board.Move, bool) {
	if !o.cfg.PV.Enabled {
		return board.Move{}, false
	}

	e, cached := o.pv.Get(hash)
	if !cached && o.tt != nil {
		if te, ok := o.tt.Probe(hash, depth); ok {
			if te.HasBestMove {
				e = PVEntry{Move: te.BestMove, HasMove: true}
				o.pv.Update(hash, te.BestMove)
			} else {
				o.pv.MarkEmpty(hash)
			}
		}
	}
	if e.HasMove {
		return e.Move, true
	}

	if o.cfg.PV.EnablePreviousIteration {
		if prev, ok := o.pv.Previous(hash); ok && prev.HasMove {
			return prev.Move, true
		}
	}
	return board.Move{}, false
}

// PVMove returns the PV move of a node's position.
func (o *Orderer) PVMove(node Node) (board.Move, bool) {
	if node.Position == nil {
		return board.Move{}, false
	}
	return o.pvMoveAt(o.hasher(node.Position, node.Player, node.Hands), node.Depth)
}

// UpdatePVMove records m as the best move of a node's position and, when a
// transposition table is connected, stores it there as well.
func (o *Orderer) UpdatePVMove(node Node, m board.Move, score int, flag tt.Flag) {
	if node.Position == nil {
		return
	}
	hash := o.hasher(node.Position, node.Player, node.Hands)
	if o.cfg.PV.Enabled {
		o.pv.Update(hash, m)
	}
	if o.tt != nil {
		o.tt.Store(tt.Entry{
			Key:         hash,
			BestMove:    m,
			HasBestMove: true,
			Score:       int32(score),
			Depth:       node.Depth,
			Flag:        flag,
		})
	}
}

// StoreMultiPV records the top moves of a node's position.
func (o *Orderer) StoreMultiPV(node Node, moves []board.Move) {
	if !o.cfg.PV.Enabled || node.Position == nil {
		return
	}
	o.pv.StoreMultiple(o.hasher(node.Position, node.Player, node.Hands), moves)
}

// MultiPV returns the top moves recorded for a node's position.
func (o *Orderer) MultiPV(node Node) []board.Move {
	if node.Position == nil {
		return nil
	}
	return o.pv.Multiple(o.hasher(node.Position, node.Player, node.Hands))
}

// StoreSiblingMove records a good move found in a child of parent.
func (o *Orderer) StoreSiblingMove(parent Node, m board.Move) {
	if !o.cfg.PV.Enabled || !o.cfg.PV.EnableSiblings || parent.Position == nil {
		return
	}
	o.pv.StoreSibling(o.hasher(parent.Position, parent.Player, parent.Hands), m)
}

// SiblingMoves returns the moves recorded for the children of parent.
func (o *Orderer) SiblingMoves(parent Node) []board.Move {
	if parent.Position == nil {
		return nil
	}
	return o.pv.Siblings(o.hasher(parent.Position, parent.Player, parent.Hands))
}

// SaveIteration snapshots the PV store before a new iterative deepening pass.
func (o *Orderer) SaveIteration() {
	if o.cfg.PV.EnablePreviousIteration {
		o.pv.SaveIteration()
	}
}

// IntegrateWithTranspositionTable feeds a transposition table result into the
// heuristic tables: exact results update the PV store, and best moves of exact
// or fail-high results update the killer and history tables.
func (o *Orderer) IntegrateWithTranspositionTable(entry *tt.Entry, pos *board.Position, hands board.Hands, player board.Player, depth int) {
	if entry == nil || pos == nil {
		return
	}
	o.stats.TTIntegrations++
	if !entry.HasBestMove {
		return
	}

	m := entry.BestMove
	hash := o.hasher(pos, player, hands)
	if entry.Flag == tt.Exact && o.cfg.PV.Enabled {
		o.pv.Update(hash, m)
	}
	if entry.Flag != tt.UpperBound {
		if m.IsQuiet() {
			o.AddKillerMoveAt(depth, m)
		}
		o.UpdateHistoryScore(m, max(entry.Depth, depth), pos)
	}

	o.log.Debug().Uint64("hash", hash).Str("flag", entry.Flag.String()).
		Str("move", m.String()).Int("depth", depth).Msg("tt-integrated")
}

// ClearKillers removes every killer move.
func (o *Orderer) ClearKillers() {
	o.killers.Clear()
}

// ClearCounterMoves removes every counter-move.
func (o *Orderer) ClearCounterMoves() {
	o.counters.Clear()
}

// ClearHistory removes every history entry and resets the aging counter.
func (o *Orderer) ClearHistory() {
	o.history.Clear()
	o.clock.Reset()
}

// ClearPV empties the PV store, the previous iteration included.
func (o *Orderer) ClearPV() {
	o.pv.Clear()
}

// ClearResultCache empties the ordering result cache.
func (o *Orderer) ClearResultCache() {
	o.results.Clear()
}

// ClearScoreCache empties the move score cache.
func (o *Orderer) ClearScoreCache() {
	o.scoreCache.Clear()
}

// ClearSEECache empties the SEE result cache, if any.
func (o *Orderer) ClearSEECache() {
	if o.seeCache != nil {
		o.seeCache.Clear()
	}
}

func (o *Orderer) clearCaches() {
	o.ClearResultCache()
	o.ClearScoreCache()
	o.ClearSEECache()
	o.ClearPV()
}

// ClearAll resets every table, the statistics and the learning samples.
func (o *Orderer) ClearAll() {
	o.clearCaches()
	o.ClearKillers()
	o.ClearCounterMoves()
	o.ClearHistory()
	o.stats.Reset()
	o.learning.reset()
	o.currentDepth = 0
	o.phase = board.Opening
	o.log.Debug().Msg("ordering-cleared")
}

// Config returns a copy of the active configuration.
func (o *Orderer) Config() Config {
	return o.cfg
}

// SetConfig validates and applies cfg. Bounded tables are resized and the
// score and result caches are cleared since their contents depend on the weights.
func (o *Orderer) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	old := o.cfg
	o.cfg = cfg

	o.killers.Resize(cfg.Killer.MaxKillerMoves)
	o.counters.Resize(cfg.Counter.MaxCounterMoves)
	o.pv.Resize(cfg.PV.MaxCacheSize, cfg.PV.MaxPVMovesPerPosition)
	o.scoreCache.Resize(cfg.Cache.MaxScoreCacheSize, cfg.Cache.HotCacheSize)
	o.results.Clear()

	if cfg.ErrorLogSize != old.ErrorLogSize {
		o.errors = NewErrorLog(cfg.ErrorLogSize)
	}
	if o.ownSEE && cfg.SEE != old.SEE {
		if err := o.configureSEE(); err != nil {
			return err
		}
	}

	o.log.Debug().Str("eviction", cfg.Cache.EvictionPolicy.String()).
		Int("result_cache", cfg.Cache.MaxCacheSize).Msg("config-applied")
	return nil
}

// SetWeight sets a weight by name, e.g. "killer_move_weight".
func (o *Orderer) SetWeight(name string, v int) error {
	id, ok := WeightByName(name)
	if !ok {
		return newError(KindConfiguration, nil, "unknown weight %q", name)
	}
	if v < 0 {
		return newError(KindConfiguration, nil, "%s must be non-negative, got %d", name, v)
	}
	o.cfg.Weights.Set(id, v)
	o.scoreCache.Clear()
	o.results.Clear()
	return nil
}

// Weight returns a weight by name.
func (o *Orderer) Weight(name string) (int, bool) {
	id, ok := WeightByName(name)
	if !ok {
		return 0, false
	}
	return o.cfg.Weights.Get(id), true
}

// HandleError records err and applies the degradation policy. Low and medium
// errors are absorbed. High cache, memory and statistics errors are recovered
// from by clearing the affected state; other high errors and every critical
// error are returned.
func (o *Orderer) HandleError(err error, sev Severity, context string) error {
	if err == nil {
		return nil
	}
	o.errors.Record(ErrorEntry{Err: err, Severity: sev, Context: context, Time: time.Now()})
	o.log.WithLevel(sev.level()).Err(err).Str("severity", sev.String()).
		Str("context", context).Msg("ordering-error")

	switch sev {
	case SeverityLow, SeverityMedium:
		return nil
	case SeverityHigh:
		if o.recoverFrom(kindOf(err)) {
			return nil
		}
	}
	return err
}

func (o *Orderer) recoverFrom(kind ErrorKind) bool {
	switch kind {
	case KindCache:
		o.clearCaches()
	case KindMemory:
		o.clearCaches()
		o.ShrinkBuffers()
	case KindStatistics:
		o.stats.Reset()
	default:
		return false
	}
	o.log.Info().Str("kind", kind.String()).Msg("recovered")
	return true
}

// IsUnstable reports whether recent errors suggest falling back to a plain ordering.
func (o *Orderer) IsUnstable() bool {
	return o.errors.IsUnstable()
}

// ErrorLog returns the error log.
func (o *Orderer) ErrorLog() *ErrorLog {
	return o.errors
}

// ShrinkBuffers releases the scoring buffer.
func (o *Orderer) ShrinkBuffers() {
	o.scratch = nil
}

// Stats returns a copy of the statistics.
func (o *Orderer) Stats() Stats {
	return o.stats
}

// ResetStats zeroes the statistics.
func (o *Orderer) ResetStats() {
	o.stats.Reset()
}

// PrepareForParallelSearch declares the sharing plan for threads workers. With
// more than one thread the history and PV tables move into SharedTables,
// seeded with the current contents; Shared returns them for the other workers.
func (o *Orderer) PrepareForParallelSearch(threads int) ParallelPlan {
	threads = max(threads, 1)
	plan := ParallelPlan{
		Threads:              threads,
		ShareHistory:         threads > 1 && o.cfg.History.Enabled,
		SharePV:              threads > 1 && o.cfg.PV.Enabled,
		PerThreadKillers:     true,
		PerThreadResultCache: true,
	}
	if !plan.ShareHistory && !plan.SharePV {
		return plan
	}

	if o.shared == nil {
		o.shared = &SharedTables{}
	}
	if plan.ShareHistory && o.shared.History == nil {
		h := NewSyncHistoryTable()
		h.Restore(o.history.Snapshot())
		o.shared.History = h
		o.history = h
		o.shared.Clock = o.clock
	}
	if plan.SharePV && o.shared.PV == nil {
		p := NewSyncPVStore(o.cfg.PV.MaxCacheSize, o.cfg.PV.MaxPVMovesPerPosition)
		p.Restore(o.pv.Snapshot())
		o.shared.PV = p
		o.pv = p
	}

	o.log.Debug().Int("threads", threads).Bool("share_history", plan.ShareHistory).
		Bool("share_pv", plan.SharePV).Msg("parallel-prepared")
	return plan
}

// Shared returns the tables shared with other workers, or nil.
func (o *Orderer) Shared() *SharedTables {
	return o.shared
}

// Killers returns the killer table.
func (o *Orderer) Killers() *KillerTable {
	return o.killers
}

// CounterMoves returns the counter-move table.
func (o *Orderer) CounterMoves() *CounterMoveTable {
	return o.counters
}

// History returns the history store.
func (o *Orderer) History() HistoryStore {
	return o.history
}

// PV returns the PV store.
func (o *Orderer) PV() PVCache {
	return o.pv
}

// ResultCache returns the ordering result cache.
func (o *Orderer) ResultCache() *OrderingResultCache {
	return o.results
}

// ScoreCache returns the move score cache.
func (o *Orderer) ScoreCache() *MoveScoreCache {
	return o.scoreCache
}

// SEECache returns the SEE result cache, or nil when disabled.
func (o *Orderer) SEECache() *see.Cache {
	return o.seeCache
}
