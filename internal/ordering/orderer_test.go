package ordering

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/hailam/shogiorder/internal/board"
	"github.com/hailam/shogiorder/internal/tt"
)

func newOrderer(t *testing.T, cfg Config, opts ...Option) *Orderer {
	t.Helper()
	o, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(o.Close)
	return o
}

// rootNode returns a node for the initial position with Black to move.
func rootNode(depth int) (Node, uint64) {
	pos := board.NewPosition()
	node := Node{Position: pos, Hands: pos.Hands, Player: board.Black, Depth: depth}
	return node, board.Hash(pos, board.Black, pos.Hands)
}

func sameOrder(a, b []board.Move) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Killer.MaxKillerMoves = 0

	_, err := New(cfg)
	is.True(errors.Is(err, ErrConfiguration))
}

func TestOrderMovesEmpty(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())

	out, err := o.OrderMoves(nil)
	is.NoErr(err)
	is.True(out != nil)
	is.Equal(len(out), 0)

	node, _ := rootNode(3)
	is.Equal(len(o.OrderMovesWithAllHeuristics([]board.Move{}, node)), 0)
	is.Equal(o.Stats(), Stats{})
}

func TestOrderMovesInvalid(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())

	bad := quiet(0)
	bad.Piece = board.NoPieceType
	_, err := o.OrderMoves([]board.Move{quiet(1), bad})
	is.True(errors.Is(err, ErrInvalidMove))
	is.True(errors.Is(err, board.ErrUnknownPiece))
	is.Equal(o.Stats().MovesOrdered, uint64(0))

	_, err = o.ScoreMove(bad)
	is.True(errors.Is(err, ErrInvalidMove))
	is.Equal(o.ScoreCache().Len(), 0) // invalid moves are never cached
}

func TestOrderMovesStable(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())

	// Mirror-image pawn pushes score the same
	a := board.NewMove(board.NewSquare(3, 6), board.NewSquare(3, 5), board.Pawn, board.Black)
	b := board.NewMove(board.NewSquare(5, 6), board.NewSquare(5, 5), board.Pawn, board.Black)
	sa, _ := o.ScoreMove(a)
	sb, _ := o.ScoreMove(b)
	is.Equal(sa, sb)

	out, err := o.OrderMoves([]board.Move{a, b})
	is.NoErr(err)
	is.True(sameOrder(out, []board.Move{a, b}))

	out, err = o.OrderMoves([]board.Move{b, a})
	is.NoErr(err)
	is.True(sameOrder(out, []board.Move{b, a}))

	st := o.Stats()
	is.Equal(st.OrderingCalls, uint64(2))
	is.Equal(st.MovesOrdered, uint64(4))
}

func TestPriorityPrecedence(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())
	node, hash := rootNode(5)

	iid, pv, killer, ordinary := quiet(0), quiet(1), quiet(2), quiet(3)
	node.IIDMove = &iid
	o.PV().Update(hash, pv)
	o.AddKillerMoveAt(5, killer)

	out := o.OrderMovesWithAllHeuristics([]board.Move{ordinary, killer, pv, iid}, node)
	is.True(sameOrder(out, []board.Move{iid, pv, killer, ordinary}))

	st := o.Stats()
	is.Equal(st.IIDHits, uint64(1))
	is.Equal(st.PVHits, uint64(1))
	is.Equal(st.KillerHits, uint64(1))
}

func TestIIDMoveOutranksLargeWeights(t *testing.T) {
	is := is.New(t)

	cfg := DefaultConfig()
	cfg.Weights.KillerMoveWeight = math.MaxInt32 + 1
	o := newOrderer(t, cfg)
	node, _ := rootNode(4)
	iid, killer := quiet(0), quiet(1)
	node.IIDMove = &iid
	o.AddKillerMoveAt(4, killer)

	out := o.OrderMovesWithAllHeuristics([]board.Move{killer, iid}, node)
	is.True(out[0].Equal(iid))

	cfg = DefaultConfig()
	cfg.History.MaxHistoryScore = math.MaxUint32
	cfg.Weights.HistoryWeight = MaxWeight
	o = newOrderer(t, cfg)
	hist := quiet(2)
	o.UpdateHistoryScore(hist, 50000, nil)
	is.Equal(o.HistoryScore(hist), uint32(2500000000))

	out = o.OrderMovesWithAllHeuristics([]board.Move{hist, iid}, node)
	is.True(out[0].Equal(iid))

	s, src := o.priority(hist, &scoreContext{depth: 4})
	is.Equal(src, SourceHistory)
	is.Equal(s, IIDScore-1) // saturated, not wrapped
}

func TestPerMille(t *testing.T) {
	is := is.New(t)
	is.Equal(perMille(2500, 1000), 2500)
	is.Equal(perMille(-300, 500), -150)
	is.Equal(perMille(7, 0), 0)
	is.Equal(perMille(1<<50, 1<<20), (1<<70)/1000) // product above 64 bits
	is.Equal(perMille(math.MaxInt, math.MaxInt), math.MaxInt)
	is.Equal(perMille(-math.MaxInt, math.MaxInt), -math.MaxInt)
}

func TestSourcesFromSortPass(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())
	node, _ := rootNode(3)
	killer, ordinary := quiet(1), quiet(2)
	o.AddKillerMoveAt(3, killer)

	bad := quiet(3)
	bad.Piece = board.NoPieceType
	out, sources := o.OrderMovesWithSources([]board.Move{ordinary, bad, killer}, node)
	is.True(sameOrder(out, []board.Move{killer, ordinary, bad}))
	is.Equal(sources, []HeuristicSource{SourceKiller, SourceComposite, SourceNone})
	is.Equal(o.Stats().KillerHits, uint64(1))

	// A cached result carries its sources without rescoring
	moves := []board.Move{ordinary, killer}
	o.OrderMovesWithSources(moves, node)
	out, sources = o.OrderMovesWithSources(moves, node)
	is.True(sameOrder(out, []board.Move{killer, ordinary}))
	is.Equal(sources, []HeuristicSource{SourceKiller, SourceComposite})
	is.Equal(o.Stats().KillerHits, uint64(2))
	is.Equal(o.Stats().ResultCacheHits, uint64(1))
}

func TestGoldCaptureScenario(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())

	m := board.NewCapture(board.NewSquare(4, 5), board.NewSquare(4, 4), board.Pawn, board.Black, board.Gold)
	want := 1000 + board.Gold.BaseValue() + 200 + 100

	s, err := o.ScoreMove(m)
	is.NoErr(err)
	is.Equal(s, want)

	s, src, err := o.ScoreMoveInNode(m, Node{Depth: 1})
	is.NoErr(err)
	is.Equal(src, SourceComposite)
	is.Equal(s, want)

	// Second lookup comes from the score cache
	is.Equal(o.Stats().ScoreCacheHits, uint64(1))
}

func TestCounterMovesOnlyForQuietMoves(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())

	opp := board.NewMove(board.NewSquare(2, 2), board.NewSquare(2, 3), board.Pawn, board.White)
	reply := quiet(30)
	capture := board.NewCapture(board.NewSquare(2, 6), board.NewSquare(2, 3), board.Rook, board.Black, board.Pawn)
	o.AddCounterMove(opp, reply)
	o.AddCounterMove(opp, capture)
	is.True(o.IsCounterMove(opp, capture))

	node := Node{Depth: 2, OpponentLastMove: &opp}
	s, src, _ := o.ScoreMoveInNode(reply, node)
	is.Equal(src, SourceCounter)
	is.Equal(s, o.Config().Weights.CounterMoveWeight)

	_, src, _ = o.ScoreMoveInNode(capture, node)
	is.True(src != SourceCounter)
}

func TestHistoryAndSEERules(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())

	m := quiet(12)
	o.UpdateHistoryScore(m, 4, nil)
	s, src, _ := o.ScoreMoveInNode(m, Node{Depth: 1})
	is.Equal(src, SourceHistory)
	is.Equal(s, 16)

	from, to := board.NewSquare(4, 5), board.NewSquare(4, 4)
	pos := board.NewEmptyPosition()
	pos.Put(from, board.NewPiece(board.Pawn, board.Black))
	pos.Put(to, board.NewPiece(board.Gold, board.White))
	capture := board.NewCapture(from, to, board.Pawn, board.Black, board.Gold)
	node := Node{Position: pos, Player: board.Black, Depth: 1}

	s, src, _ = o.ScoreMoveInNode(capture, node)
	is.Equal(src, SourceSEE)
	is.Equal(s, 500)

	// An even exchange falls through to the composite heuristic
	pos.Put(to, board.NewPiece(board.Pawn, board.White))
	pos.Put(board.NewSquare(4, 3), board.NewPiece(board.Gold, board.White))
	even := board.NewCapture(from, to, board.Pawn, board.Black, board.Pawn)
	s, src, _ = o.ScoreMoveInNode(even, node)
	is.Equal(src, SourceComposite)
	is.Equal(s, 1000+100+board.Pawn.BaseValue()+50)
}

func TestResultCacheReuse(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())
	node, _ := rootNode(3)
	moves := []board.Move{quiet(0), quiet(40), quiet(20)}

	first := o.OrderMovesWithAllHeuristics(moves, node)
	second := o.OrderMovesWithAllHeuristics(moves, node)
	is.True(sameOrder(first, second))
	is.Equal(o.Stats().ResultCacheHits, uint64(1))
	is.Equal(o.Stats().ResultCacheMisses, uint64(1))

	// A different move list at the same key is a miss and replaces the entry
	o.OrderMovesWithAllHeuristics([]board.Move{quiet(20), quiet(0)}, node)
	is.Equal(o.Stats().ResultCacheMisses, uint64(2))
	is.Equal(o.ResultCache().Len(), 1)

	// IID moves bypass the cache entirely
	iid := quiet(0)
	node.IIDMove = &iid
	out := o.OrderMovesWithAllHeuristics(moves, node)
	is.True(out[0].Equal(iid))
	is.Equal(o.Stats().ResultCacheHits, uint64(1))
	is.Equal(o.Stats().ResultCacheMisses, uint64(2))
}

func TestResultCacheEvictionCounted(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Cache.MaxCacheSize = 2
	o := newOrderer(t, cfg)
	node, _ := rootNode(1)

	for depth := 1; depth <= 5; depth++ {
		node.Depth = depth
		o.OrderMovesWithAllHeuristics([]board.Move{quiet(depth)}, node)
		is.True(o.ResultCache().Len() <= 2)
	}
	is.Equal(o.Stats().ResultCacheEvictions, uint64(3))
}

func TestInvalidMovesScoreZeroInFullPipeline(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())
	node, _ := rootNode(2)

	bad := quiet(0)
	bad.To = board.NoSquare
	out := o.OrderMovesWithAllHeuristics([]board.Move{bad, quiet(1)}, node)
	is.Equal(len(out), 2)
	is.True(out[0].Equal(quiet(1)))
	is.Equal(o.Stats().InvalidMoves, uint64(1))
	is.Equal(o.ResultCache().Len(), 0) // lists with invalid moves are not cached

	o.OrderMovesWithAllHeuristics([]board.Move{bad, quiet(1)}, node)
	is.Equal(o.Stats().ResultCacheHits, uint64(0))
	is.Equal(o.Stats().InvalidMoves, uint64(2))
}

func TestAutomaticHistoryAging(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.History.AgingFrequency = 3
	o := newOrderer(t, cfg)

	for i := 0; i < 7; i++ {
		o.UpdateHistoryScore(quiet(i), 2, nil)
	}
	st := o.Stats()
	is.Equal(st.HistoryUpdates, uint64(7))
	is.Equal(st.HistoryAgings, uint64(2))
	is.Equal(o.HistoryScore(quiet(0)), uint32(2)) // 4 aged twice: 3.6 then 2.7

	o.UpdateHistoryScore(board.NewDrop(board.NewSquare(4, 4), board.Gold, board.Black), 5, nil)
	is.Equal(o.Stats().HistoryUpdates, uint64(7))
}

func TestHistoryBonusSaturatesForDeepSearches(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	o := newOrderer(t, cfg)

	// 65536² does not fit in 32 bits
	m := quiet(5)
	o.UpdateHistoryScore(m, 1<<16, nil)
	is.Equal(o.HistoryScore(m), cfg.History.MaxHistoryScore)
}

func TestSharedHistoryAgesOnGlobalCount(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.History.AgingFrequency = 4
	o1 := newOrderer(t, cfg)
	o1.PrepareForParallelSearch(2)
	o2 := newOrderer(t, cfg, WithSharedTables(o1.Shared()))

	for i := 0; i < 2; i++ {
		o1.UpdateHistoryScore(quiet(i), 2, nil)
		o2.UpdateHistoryScore(quiet(10+i), 2, nil)
	}
	is.Equal(o1.Stats().HistoryAgings+o2.Stats().HistoryAgings, uint64(1))
	is.Equal(o1.clock.Now(), uint64(4))
	is.Equal(o2.clock.Now(), uint64(4))
	is.Equal(o1.clock.UpdatesSinceAging(), 0)

	o2.ClearHistory()
	is.Equal(o1.clock.Now(), uint64(0))
}

func TestPVMoveFromTranspositionTable(t *testing.T) {
	is := is.New(t)
	table := tt.New(1)
	o := newOrderer(t, DefaultConfig(), WithTranspositionTable(table))
	node, hash := rootNode(3)

	best := quiet(50)
	table.Store(tt.Entry{Key: hash, BestMove: best, HasBestMove: true, Depth: 6, Flag: tt.Exact})

	out := o.OrderMovesWithAllHeuristics([]board.Move{quiet(1), quiet(2), best}, node)
	is.True(out[0].Equal(best))
	e, ok := o.PV().Get(hash)
	is.True(ok)
	is.True(e.Move.Equal(best))

	// A probe without a best move is cached as empty
	other, _ := rootNode(3)
	other.Player = board.White
	otherHash := board.Hash(other.Position, board.White, other.Hands)
	table.Store(tt.Entry{Key: otherHash, Depth: 6, Flag: tt.UpperBound})
	_, found := o.PVMove(other)
	is.True(!found)
	e, ok = o.PV().Get(otherHash)
	is.True(ok)
	is.True(!e.HasMove)
}

func TestPVPreviousIterationFallback(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())
	node, hash := rootNode(2)

	o.PV().Update(hash, quiet(7))
	o.SaveIteration()
	o.PV().MarkEmpty(hash)

	m, ok := o.PVMove(node)
	is.True(ok)
	is.True(m.Equal(quiet(7)))
}

func TestUpdatePVMoveStoresInTable(t *testing.T) {
	is := is.New(t)
	table := tt.New(1)
	o := newOrderer(t, DefaultConfig(), WithTranspositionTable(table))
	node, hash := rootNode(4)

	o.UpdatePVMove(node, quiet(9), 120, tt.Exact)
	e, ok := table.Probe(hash, 4)
	is.True(ok)
	is.True(e.BestMove.Equal(quiet(9)))
	is.Equal(e.Score, int32(120))

	o.StoreMultiPV(node, []board.Move{quiet(9), quiet(10), quiet(11), quiet(12)})
	is.Equal(len(o.MultiPV(node)), 3)

	o.StoreSiblingMove(node, quiet(13))
	is.Equal(len(o.SiblingMoves(node)), 1)
}

func TestIntegrateWithTranspositionTable(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())
	node, hash := rootNode(4)

	o.IntegrateWithTranspositionTable(nil, node.Position, node.Hands, node.Player, 4)
	is.Equal(o.Stats().TTIntegrations, uint64(0))

	best := quiet(21)
	o.IntegrateWithTranspositionTable(&tt.Entry{Key: hash, BestMove: best, HasBestMove: true, Depth: 4, Flag: tt.Exact},
		node.Position, node.Hands, node.Player, 4)
	e, ok := o.PV().Get(hash)
	is.True(ok && e.Move.Equal(best))
	is.True(o.Killers().IsKiller(4, best))
	is.Equal(o.HistoryScore(best), uint32(16))

	weak := quiet(22)
	o.IntegrateWithTranspositionTable(&tt.Entry{Key: hash, BestMove: weak, HasBestMove: true, Depth: 4, Flag: tt.UpperBound},
		node.Position, node.Hands, node.Player, 4)
	is.True(!o.Killers().IsKiller(4, weak))
	is.Equal(o.HistoryScore(weak), uint32(0))
	is.Equal(o.Stats().TTIntegrations, uint64(2))
}

func TestClearAllRoundTrip(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())
	node, hash := rootNode(3)
	opp := board.NewMove(board.NewSquare(2, 2), board.NewSquare(2, 3), board.Pawn, board.White)

	o.SetCurrentDepth(3)
	o.AddKillerMove(quiet(1))
	o.AddCounterMove(opp, quiet(2))
	o.UpdateHistoryScore(quiet(3), 5, node.Position)
	o.PV().Update(hash, quiet(4))
	o.SaveIteration()
	o.StoreSiblingMove(node, quiet(5))
	o.OrderMovesWithAllHeuristics([]board.Move{quiet(1), quiet(3)}, node)
	o.RecordCutoff(SourceKiller)

	o.ClearAll()

	o.SetCurrentDepth(3)
	is.True(!o.IsKillerMove(quiet(1)))
	is.True(!o.IsCounterMove(opp, quiet(2)))
	is.Equal(o.HistoryScore(quiet(3)), uint32(0))
	is.Equal(o.History().Len(), 0)
	_, ok := o.PV().Get(hash)
	is.True(!ok)
	_, ok = o.PVMove(node)
	is.True(!ok)
	is.Equal(len(o.SiblingMoves(node)), 0)
	is.Equal(o.ResultCache().Len(), 0)
	is.Equal(o.ScoreCache().Len(), 0)
	is.Equal(o.Stats(), Stats{})
	_, samples := o.CutoffRate(SourceKiller)
	is.Equal(samples, uint64(0))
}

func TestHandleErrorPolicy(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig(), WithLogger(zerolog.New(zerolog.NewTestWriter(t))))

	is.NoErr(o.HandleError(nil, SeverityCritical, "nothing"))
	is.Equal(o.ErrorLog().Len(), 0)

	is.NoErr(o.HandleError(errors.New("slow"), SeverityLow, "probe"))
	is.NoErr(o.HandleError(errors.New("odd"), SeverityMedium, "probe"))

	o.ScoreMove(quiet(1))
	is.True(o.ScoreCache().Len() > 0)
	is.NoErr(o.HandleError(newError(KindCache, nil, "corrupt"), SeverityHigh, "lookup"))
	is.Equal(o.ScoreCache().Len(), 0)

	o.OrderMoves([]board.Move{quiet(1)})
	is.NoErr(o.HandleError(newError(KindStatistics, nil, "overflow"), SeverityHigh, "stats"))
	is.Equal(o.Stats(), Stats{})

	o.ScoreMove(quiet(2))
	is.NoErr(o.HandleError(newError(KindMemory, nil, "pressure"), SeverityHigh, "alloc"))
	is.Equal(o.ScoreCache().Len(), 0)

	seeErr := newError(KindSEE, nil, "bad exchange")
	// No recovery for SEE errors; four high severity entries make the orderer unstable
	is.Equal(o.HandleError(seeErr, SeverityHigh, "see"), error(seeErr))
	is.True(o.IsUnstable())

	crit := newError(KindHash, nil, "collision")
	is.True(errors.Is(o.HandleError(crit, SeverityCritical, "hash"), ErrHash))
	is.True(o.IsUnstable())
	is.Equal(o.ErrorLog().Len(), 7)
	is.Equal(o.ErrorLog().Recent(1)[0].Context, "hash")
}

func TestSetConfig(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())

	o.AddKillerMoveAt(1, quiet(1))
	o.AddKillerMoveAt(1, quiet(2))

	bad := DefaultConfig()
	bad.Cache.HotCacheSize = -1
	err := o.SetConfig(bad)
	var ce *ConfigError
	is.True(errors.As(err, &ce))
	is.Equal(o.Config().Cache.HotCacheSize, DefaultConfig().Cache.HotCacheSize)

	cfg := DefaultConfig()
	cfg.Killer.MaxKillerMoves = 1
	cfg.SEE.Enabled = false
	is.NoErr(o.SetConfig(cfg))
	list, _ := o.Killers().Get(1)
	is.Equal(len(list), 1)
	is.True(o.SEECache() == nil)
}

func TestSetWeight(t *testing.T) {
	is := is.New(t)
	o := newOrderer(t, DefaultConfig())

	is.True(errors.Is(o.SetWeight("queen_weight", 1), ErrConfiguration))
	is.True(errors.Is(o.SetWeight("killer_move_weight", -5), ErrConfiguration))

	is.NoErr(o.SetWeight("killer_move_weight", 777))
	w, ok := o.Weight("killer_move_weight")
	is.True(ok)
	is.Equal(w, 777)

	o.AddKillerMoveAt(2, quiet(3))
	s, src, _ := o.ScoreMoveInNode(quiet(3), Node{Depth: 2})
	is.Equal(src, SourceKiller)
	is.Equal(s, 777)
}

func TestApplyLearning(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	o := newOrderer(t, cfg)

	o.RecordCutoff(SourceKiller)
	is.Equal(o.ApplyLearning(), 0) // disabled

	cfg.Learning.Enabled = true
	cfg.Learning.MinSamples = 10
	is.NoErr(o.SetConfig(cfg))

	for i := 0; i < 10; i++ {
		o.RecordCutoff(SourceKiller)
		o.RecordNoCutoff(SourceHistory)
	}
	o.RecordNoCutoff(SourcePV) // below min samples

	rate, n := o.CutoffRate(SourceKiller)
	is.Equal(n, uint64(11))
	is.Equal(rate, 1.0)

	is.Equal(o.ApplyLearning(), 2)
	w, _ := o.Weight("killer_move_weight")
	is.Equal(w, 51250)
	w, _ = o.Weight("history_weight")
	is.Equal(w, 975)
	w, _ = o.Weight("pv_move_weight")
	is.Equal(w, 100000)

	_, n = o.CutoffRate(SourceKiller)
	is.Equal(n, uint64(0))
	_, n = o.CutoffRate(SourcePV)
	is.Equal(n, uint64(1))
}

func TestPrepareForParallelSearch(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	o1 := newOrderer(t, cfg)
	m := quiet(8)
	o1.UpdateHistoryScore(m, 3, nil)

	plan := o1.PrepareForParallelSearch(1)
	is.True(!plan.ShareHistory && !plan.SharePV)
	is.True(o1.Shared() == nil)

	plan = o1.PrepareForParallelSearch(4)
	is.Equal(plan.Threads, 4)
	is.True(plan.ShareHistory)
	is.True(plan.SharePV)
	is.True(plan.PerThreadKillers)
	is.True(plan.PerThreadResultCache)
	is.True(o1.Shared() != nil)
	is.Equal(o1.HistoryScore(m), uint32(9)) // carried into the shared table

	o2 := newOrderer(t, cfg, WithSharedTables(o1.Shared()))
	is.Equal(o2.HistoryScore(m), uint32(9))

	o2.UpdateHistoryScore(quiet(9), 2, nil)
	is.Equal(o1.HistoryScore(quiet(9)), uint32(4))

	o1.AddKillerMoveAt(2, m)
	is.True(!o2.Killers().IsKiller(2, m))
}
