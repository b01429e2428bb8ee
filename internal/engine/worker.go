package engine

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/hailam/shogiorder/internal/board"
	"github.com/hailam/shogiorder/internal/ordering"
	"github.com/hailam/shogiorder/internal/tt"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 64

	iidMinDepth   = 4 // Minimum depth for internal iterative deepening
	iidReduction  = 2
	stopCheckMask = 1023
)

var errStopped = errors.New("search stopped")

// Worker is one search thread. It owns an Orderer; the history and PV tables
// inside it may be shared with the other workers of an Engine.
type Worker struct {
	id       int
	pos      *board.Position
	orderer  *ordering.Orderer
	tt       *tt.Table
	stopFlag *atomic.Bool
	log      zerolog.Logger

	nodes    uint64
	rootMove board.Move
	hasRoot  bool
}

// WorkerResult is the outcome of one completed iteration on one worker.
type WorkerResult struct {
	WorkerID int
	Depth    int
	Score    int
	Move     board.Move
	HasMove  bool
	Nodes    uint64
}

// NewWorker creates a worker that orders moves with o and probes table.
func NewWorker(id int, o *ordering.Orderer, table *tt.Table, stopFlag *atomic.Bool, log zerolog.Logger) *Worker {
	return &Worker{
		id:       id,
		orderer:  o,
		tt:       table,
		stopFlag: stopFlag,
		log:      log,
	}
}

// ID returns the worker's ID.
func (w *Worker) ID() int {
	return w.id
}

// Nodes returns the number of nodes searched since the last Reset.
func (w *Worker) Nodes() uint64 {
	return w.nodes
}

// Orderer returns the worker's move orderer.
func (w *Worker) Orderer() *ordering.Orderer {
	return w.orderer
}

// Reset clears the node counter before a new search.
func (w *Worker) Reset() {
	w.nodes = 0
}

// SearchDepth runs one full-window iteration from pos to depth.
func (w *Worker) SearchDepth(ctx context.Context, pos *board.Position, depth int) (WorkerResult, error) {
	w.pos = pos.Copy()
	w.hasRoot = false
	w.orderer.SetCurrentDepth(depth)

	score, err := w.negamax(ctx, depth, 0, -Infinity, Infinity, nil)
	if err != nil {
		return WorkerResult{}, err
	}
	return WorkerResult{
		WorkerID: w.id,
		Depth:    depth,
		Score:    score,
		Move:     w.rootMove,
		HasMove:  w.hasRoot,
		Nodes:    w.nodes,
	}, nil
}

func (w *Worker) stopped(ctx context.Context) bool {
	return w.stopFlag.Load() || ctx.Err() != nil
}

// negamax is a plain alpha-beta search. Every interior node is ordered by the
// Orderer and every result is fed back into it.
func (w *Worker) negamax(ctx context.Context, depth, ply, alpha, beta int, prev *board.Move) (int, error) {
	w.nodes++
	if w.nodes&stopCheckMask == 0 && w.stopped(ctx) {
		return 0, errStopped
	}
	if depth <= 0 || ply >= MaxPly {
		return Evaluate(w.pos), nil
	}

	us := w.pos.SideToMove
	hash := w.pos.Hash()
	alphaOrig := alpha

	if entry, ok := w.tt.Probe(hash, depth); ok && ply > 0 {
		w.orderer.IntegrateWithTranspositionTable(&entry, w.pos, w.pos.Hands, us, depth)
		score := int(entry.Score)
		switch {
		case entry.Flag == tt.Exact,
			entry.Flag == tt.LowerBound && score >= beta,
			entry.Flag == tt.UpperBound && score <= alpha:
			return score, nil
		}
	}

	moves := w.pos.GenerateLegalMoves()
	if len(moves) == 0 {
		// No legal move loses in shogi, whether in check or not
		return -MateScore + ply, nil
	}
	if prev != nil {
		for i := range moves {
			if moves[i].IsCapture && moves[i].To == prev.To {
				moves[i].IsRecapture = true
			}
		}
	}

	node := ordering.Node{
		Position:         w.pos,
		Hands:            w.pos.Hands,
		Player:           us,
		Depth:            depth,
		OpponentLastMove: prev,
	}
	if depth >= iidMinDepth {
		if _, ok := w.orderer.PVMove(node); !ok {
			m, found, err := w.iidMove(ctx, hash, depth, ply, alpha, beta, prev)
			if err != nil {
				return 0, err
			}
			if found {
				node.IIDMove = &m
			}
		}
	}

	ordered, sources := w.orderer.OrderMovesWithSources(moves, node)

	best, bestMove := -Infinity, ordered[0]
	cutoff := -1
	for i, m := range ordered {
		undo := w.pos.MakeMove(m)
		score, err := w.negamax(ctx, depth-1, ply+1, -beta, -alpha, &m)
		w.pos.UnmakeMove(m, undo)
		if err != nil {
			return 0, err
		}
		score = -score

		if score > best {
			best, bestMove = score, m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			cutoff = i
			break
		}
	}

	w.learn(sources, cutoff)
	if cutoff >= 0 && bestMove.IsQuiet() {
		w.orderer.AddKillerMoveAt(depth, bestMove)
		if prev != nil {
			w.orderer.AddCounterMove(*prev, bestMove)
		}
		w.orderer.UpdateHistoryScore(bestMove, depth, w.pos)
	}

	flag := tt.Exact
	switch {
	case best <= alphaOrig:
		flag = tt.UpperBound
	case best >= beta:
		flag = tt.LowerBound
	}
	if flag == tt.Exact {
		// Stores into the transposition table as well
		w.orderer.UpdatePVMove(node, bestMove, best, flag)
	} else {
		w.tt.Store(tt.Entry{
			Key:         hash,
			BestMove:    bestMove,
			HasBestMove: flag == tt.LowerBound,
			Score:       int32(best),
			Depth:       depth,
			Flag:        flag,
			Source:      tt.SourceMainSearch,
		})
	}

	if ply == 0 {
		w.rootMove, w.hasRoot = bestMove, true
	}
	return best, nil
}

// iidMove runs a reduced-depth search for a node without a stored best move
// and returns the move it found.
func (w *Worker) iidMove(ctx context.Context, hash uint64, depth, ply, alpha, beta int, prev *board.Move) (board.Move, bool, error) {
	reduced := depth - iidReduction
	if _, err := w.negamax(ctx, reduced, ply, alpha, beta, prev); err != nil {
		return board.Move{}, false, err
	}
	entry, ok := w.tt.Probe(hash, reduced)
	if !ok || !entry.HasBestMove {
		return board.Move{}, false, nil
	}
	return entry.BestMove, true, nil
}

// learn reports to the Orderer whether the heuristic that ranked a move
// first was right. On a cutoff the cutting move's heuristic is credited;
// otherwise the first move's heuristic is charged. sources are the rules
// that ranked the ordered moves.
func (w *Worker) learn(sources []ordering.HeuristicSource, cutoff int) {
	if cutoff >= 0 {
		w.orderer.RecordCutoff(sources[cutoff])
		return
	}
	w.orderer.RecordNoCutoff(sources[0])
}
