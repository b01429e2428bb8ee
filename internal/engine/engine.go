package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/shogiorder/internal/board"
	"github.com/hailam/shogiorder/internal/ordering"
	"github.com/hailam/shogiorder/internal/tt"
)

// SearchInfo describes one completed iteration.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	Move     board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = DefaultDepth)
	Nodes    uint64        // Maximum nodes (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = use Clock)
	Clock    Clock
}

// DefaultDepth is the depth searched when SearchLimits.Depth is zero.
const DefaultDepth = 4

// Result is the best move found by a search.
type Result struct {
	Move    board.Move
	HasMove bool
	Score   int
	Depth   int
	Nodes   uint64
	Time    time.Duration
}

// Options configures an Engine.
type Options struct {
	Threads  int
	TTSizeMB int
	Ordering ordering.Config
	Logger   zerolog.Logger
}

// DefaultOptions returns a single-threaded engine with a 16MB table.
func DefaultOptions() Options {
	return Options{
		Threads:  1,
		TTSizeMB: 16,
		Ordering: ordering.DefaultConfig(),
		Logger:   zerolog.Nop(),
	}
}

// Engine runs a lazy-SMP search: all workers search the same root and share
// the transposition table, history and PV tables. Killers and the ordering
// result cache stay per worker.
type Engine struct {
	id      uuid.UUID
	tt      *tt.Table
	workers []*Worker
	plan    ordering.ParallelPlan
	shared  *ordering.SharedTables
	tm      *TimeManager
	log     zerolog.Logger

	stopFlag atomic.Bool

	// Callbacks
	OnInfo func(SearchInfo)
}

// New creates an engine. The first worker's Orderer prepares the shared
// tables; the others are built on top of them.
func New(opts Options) (*Engine, error) {
	threads := max(opts.Threads, 1)
	e := &Engine{
		id: uuid.New(),
		tt: tt.New(max(opts.TTSizeMB, 1)),
		tm: NewTimeManager(),
	}
	e.log = opts.Logger.With().Str("engine", e.id.String()).Logger()

	first, err := ordering.New(opts.Ordering,
		ordering.WithLogger(e.log.With().Int("worker", 0).Logger()),
		ordering.WithTranspositionTable(e.tt),
	)
	if err != nil {
		return nil, fmt.Errorf("creating orderer: %w", err)
	}
	e.plan = first.PrepareForParallelSearch(threads)
	e.shared = first.Shared()
	e.workers = append(e.workers, NewWorker(0, first, e.tt, &e.stopFlag, e.log))

	for i := 1; i < threads; i++ {
		o, err := ordering.New(opts.Ordering,
			ordering.WithLogger(e.log.With().Int("worker", i).Logger()),
			ordering.WithTranspositionTable(e.tt),
			ordering.WithSharedTables(e.shared),
		)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("creating orderer %d: %w", i, err)
		}
		e.workers = append(e.workers, NewWorker(i, o, e.tt, &e.stopFlag, e.log))
	}

	e.log.Info().Int("threads", threads).Bool("share_history", e.plan.ShareHistory).
		Bool("share_pv", e.plan.SharePV).Msg("engine ready")
	return e, nil
}

// ID returns the engine's session ID.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Plan returns which tables are shared between workers.
func (e *Engine) Plan() ordering.ParallelPlan {
	return e.plan
}

// Orderer returns the orderer of worker 0. Its history and PV tables are the
// shared ones when more than one worker runs.
func (e *Engine) Orderer() *ordering.Orderer {
	return e.workers[0].orderer
}

// Workers returns the number of search workers.
func (e *Engine) Workers() int {
	return len(e.workers)
}

// Search runs iterative deepening on pos until a limit is reached. It
// returns the deepest result completed by any worker.
func (e *Engine) Search(ctx context.Context, pos *board.Position, limits SearchLimits) (Result, error) {
	e.stopFlag.Store(false)
	e.tt.NewSearch()
	for _, w := range e.workers {
		w.Reset()
	}

	e.tm.Init(limits.MoveTime, limits.Clock, pos.SideToMove, pos.Ply)
	ctx, cancel := context.WithTimeout(ctx, e.tm.MaximumTime())
	defer cancel()

	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = DefaultDepth
	}

	start := time.Now()
	var best Result
	var lastMove board.Move
	stability := 0

	for depth := 1; depth <= maxDepth; depth++ {
		results := make([]WorkerResult, len(e.workers))
		g, gctx := errgroup.WithContext(ctx)
		for i, w := range e.workers {
			g.Go(func() error {
				// Odd helpers run one ply deeper to diversify the shared tables
				d := depth
				if i%2 == 1 && depth < maxDepth {
					d++
				}
				r, err := w.SearchDepth(gctx, pos, d)
				results[i] = r
				return err
			})
		}
		err := g.Wait()
		if err != nil && !isStop(err) {
			return best, err
		}

		if r, ok := deepest(results); ok {
			best = Result{Move: r.Move, HasMove: r.HasMove, Score: r.Score, Depth: r.Depth}
		}
		best.Nodes = e.Nodes()
		best.Time = time.Since(start)
		if err != nil {
			break
		}

		for _, w := range e.workers {
			w.orderer.SaveIteration()
		}
		e.report(best)

		if best.HasMove && best.Move.Equal(lastMove) {
			stability++
		} else {
			stability = 0
		}
		lastMove = best.Move
		e.tm.AdjustForStability(stability)

		if limits.Nodes > 0 && best.Nodes >= limits.Nodes {
			break
		}
		if limits.MoveTime == 0 && e.tm.PastOptimum() {
			break
		}
	}

	e.log.Debug().Int("depth", best.Depth).Int("score", best.Score).Uint64("nodes", best.Nodes).
		Dur("elapsed", best.Time).Msg("search done")
	return best, nil
}

func (e *Engine) report(r Result) {
	e.log.Debug().Int("depth", r.Depth).Int("score", r.Score).Str("move", r.Move.String()).
		Uint64("nodes", r.Nodes).Msg("iteration")
	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth:    r.Depth,
			Score:    r.Score,
			Nodes:    r.Nodes,
			Time:     r.Time,
			Move:     r.Move,
			HashFull: e.tt.HashFull(),
		})
	}
}

// deepest picks the completed result with the greatest depth; worker order
// breaks ties.
func deepest(results []WorkerResult) (WorkerResult, bool) {
	done := lo.Filter(results, func(r WorkerResult, _ int) bool {
		return r.HasMove
	})
	if len(done) == 0 {
		return WorkerResult{}, false
	}
	return lo.MaxBy(done, func(a, b WorkerResult) bool {
		return a.Depth > b.Depth
	}), true
}

func isStop(err error) bool {
	return errors.Is(err, errStopped) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Stop signals all workers to stop.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Nodes returns the total node count of the current or last search.
func (e *Engine) Nodes() uint64 {
	return lo.SumBy(e.workers, func(w *Worker) uint64 {
		return w.Nodes()
	})
}

// Stats merges the ordering statistics of all workers.
func (e *Engine) Stats() ordering.Stats {
	var s ordering.Stats
	for _, w := range e.workers {
		s.Merge(w.orderer.Stats())
	}
	return s
}

// ApplyLearning adjusts every worker's heuristic weights from the cutoffs
// recorded so far and returns the number of adjusted weights.
func (e *Engine) ApplyLearning() int {
	return lo.SumBy(e.workers, func(w *Worker) int {
		return w.orderer.ApplyLearning()
	})
}

// Clear resets the transposition table and all ordering state.
func (e *Engine) Clear() {
	e.tt.Clear()
	for _, w := range e.workers {
		w.orderer.ClearAll()
	}
}

// Close releases the workers' caches.
func (e *Engine) Close() {
	for _, w := range e.workers {
		w.orderer.Close()
	}
}

// Perft counts the leaf nodes of the legal move tree to depth (for debugging
// move generation).
func Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		undo := pos.MakeMove(m)
		nodes += Perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}

// ScoreToString formats a score in USI terms.
func ScoreToString(score int) string {
	switch {
	case score > MateScore-MaxPly:
		return "mate " + strconv.Itoa(MateScore-score)
	case score < -MateScore+MaxPly:
		return "mate -" + strconv.Itoa(MateScore+score)
	}
	return "cp " + strconv.Itoa(score)
}
