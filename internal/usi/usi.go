// Package usi implements the Universal Shogi Interface protocol on top of
// the search engine.
package usi

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/shogiorder/internal/board"
	"github.com/hailam/shogiorder/internal/engine"
	"github.com/hailam/shogiorder/internal/ordering"
)

// USI implements the Universal Shogi Interface protocol.
type USI struct {
	opts     engine.Options
	engine   *engine.Engine
	dirty    bool // options changed since the engine was built
	position *board.Position
	log      zerolog.Logger

	outMu sync.Mutex
	out   io.Writer

	// Search state
	searching  bool
	searchDone chan struct{}
	cancel     context.CancelFunc
}

// New creates a protocol handler writing responses to out.
func New(opts engine.Options, out io.Writer) *USI {
	return &USI{
		opts:     opts,
		dirty:    true,
		position: board.NewPosition(),
		log:      opts.Logger,
		out:      out,
	}
}

// Run reads commands from in until "quit" or end of input. At end of input
// a running search is allowed to finish.
func (u *USI) Run(ctx context.Context, in io.Reader) error {
	defer u.close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd, args := parts[0], parts[1:]
		u.log.Debug().Str("cmd", cmd).Strs("args", args).Msg("usi")

		switch cmd {
		case "usi":
			u.handleUSI()
		case "isready":
			if err := u.ensureEngine(); err != nil {
				u.printf("info string %v", err)
				continue
			}
			u.printf("readyok")
		case "usinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(ctx, args)
		case "stop":
			u.handleStop()
		case "gameover":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.printf("%s", u.position.String())
			u.printf("sfen %s", u.position.SFEN())
		case "perft":
			u.handlePerft(args)
		case "stats":
			u.handleStats()
		default:
			u.printf("info string unknown command: %s", cmd)
		}
	}

	u.wait()
	return scanner.Err()
}

func (u *USI) printf(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format+"\n", args...)
}

// handleUSI responds to the "usi" command.
func (u *USI) handleUSI() {
	u.printf("id name ShogiOrder")
	u.printf("id author ShogiOrder Team")
	u.printf("option name USI_Hash type spin default %d min 1 max 4096", u.opts.TTSizeMB)
	u.printf("option name Threads type spin default %d min 1 max 256", max(u.opts.Threads, 1))
	u.printf("option name EvictionPolicy type combo default %s var fifo var lru var depth-preferred var hybrid",
		u.opts.Ordering.Cache.EvictionPolicy)
	u.printf("option name ResultCacheSize type spin default %d min 1 max 1000000", u.opts.Ordering.Cache.MaxCacheSize)
	u.printf("option name Learning type check default %t", u.opts.Ordering.Learning.Enabled)
	u.printf("usiok")
}

// ensureEngine (re)builds the engine when options have changed.
func (u *USI) ensureEngine() error {
	if u.engine != nil && !u.dirty {
		return nil
	}
	if u.engine != nil {
		u.engine.Close()
		u.engine = nil
	}
	eng, err := engine.New(u.opts)
	if err != nil {
		return err
	}
	eng.OnInfo = u.sendInfo
	u.engine = eng
	u.dirty = false
	return nil
}

// handleNewGame resets the engine for a new game.
func (u *USI) handleNewGame() {
	u.handleStop()
	if u.engine != nil {
		u.engine.Clear()
	}
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves 7g7f 3c3d
//   - position sfen <sfen>
//   - position sfen <sfen> moves 7g7f
func (u *USI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "sfen":
		var err error
		pos, err = board.ParseSFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.printf("info string invalid sfen: %v", err)
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			m, err := legalMove(pos, s)
			if err != nil {
				u.printf("info string invalid move %s: %v", s, err)
				return
			}
			pos.MakeMove(m)
		}
	}
	u.position = pos
}

// legalMove finds the legal move in pos written as s.
func legalMove(pos *board.Position, s string) (board.Move, error) {
	parsed, err := board.ParseMove(s, pos)
	if err != nil {
		return board.Move{}, err
	}
	for _, m := range pos.GenerateLegalMoves() {
		if m.Equal(parsed) {
			return m, nil
		}
	}
	return board.Move{}, fmt.Errorf("illegal in %s", pos.SFEN())
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration
	Infinite bool
	BTime    time.Duration
	WTime    time.Duration
	BInc     time.Duration
	WInc     time.Duration
	Byoyomi  time.Duration
}

// ParseGoOptions parses "go" command arguments.
func ParseGoOptions(args []string) GoOptions {
	var opts GoOptions
	millis := func(s string) time.Duration {
		ms, _ := strconv.Atoi(s)
		return time.Duration(ms) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "infinite" {
			opts.Infinite = true
			continue
		}
		if i+1 >= len(args) {
			break
		}
		val := args[i+1]
		switch arg {
		case "depth":
			opts.Depth, _ = strconv.Atoi(val)
		case "nodes":
			opts.Nodes, _ = strconv.ParseUint(val, 10, 64)
		case "movetime":
			opts.MoveTime = millis(val)
		case "btime":
			opts.BTime = millis(val)
		case "wtime":
			opts.WTime = millis(val)
		case "binc":
			opts.BInc = millis(val)
		case "winc":
			opts.WInc = millis(val)
		case "byoyomi":
			opts.Byoyomi = millis(val)
		default:
			continue
		}
		i++
	}
	return opts
}

// Limits converts the options to engine search limits.
func (o GoOptions) Limits() engine.SearchLimits {
	limits := engine.SearchLimits{
		Depth:    o.Depth,
		Nodes:    o.Nodes,
		MoveTime: o.MoveTime,
		Clock: engine.Clock{
			Time:    [2]time.Duration{board.Black: o.BTime, board.White: o.WTime},
			Inc:     [2]time.Duration{board.Black: o.BInc, board.White: o.WInc},
			Byoyomi: o.Byoyomi,
		},
	}
	if o.Infinite {
		limits.Depth = engine.MaxPly
		limits.Clock = engine.Clock{}
		limits.MoveTime = 0
	}
	return limits
}

// handleGo starts a search in the background.
func (u *USI) handleGo(ctx context.Context, args []string) {
	u.handleStop()
	if err := u.ensureEngine(); err != nil {
		u.printf("info string %v", err)
		u.printf("bestmove resign")
		return
	}

	limits := ParseGoOptions(args).Limits()
	pos := u.position.Copy()

	ctx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)
		defer cancel()

		res, err := u.engine.Search(ctx, pos, limits)
		if err != nil {
			u.printf("info string search failed: %v", err)
		}
		if !res.HasMove {
			u.printf("bestmove resign")
			return
		}
		u.printf("bestmove %s", res.Move)
	}()
}

// sendInfo outputs search info in USI format.
func (u *USI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + engine.ScoreToString(info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}
	if info.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", uint64(float64(info.Nodes)/info.Time.Seconds())))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	parts = append(parts, "pv "+info.Move.String())
	u.printf("info %s", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove.
func (u *USI) handleStop() {
	if !u.searching {
		return
	}
	u.engine.Stop()
	u.cancel()
	u.wait()
}

// wait blocks until the running search, if any, has finished.
func (u *USI) wait() {
	if !u.searching {
		return
	}
	<-u.searchDone
	u.searching = false
}

func (u *USI) close() {
	u.handleStop()
	if u.engine != nil {
		u.engine.Close()
		u.engine = nil
	}
}

// handleSetOption processes "setoption name <name> value <value>".
func (u *USI) handleSetOption(args []string) {
	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}
	val := strings.Join(value, " ")

	switch strings.ToLower(strings.Join(name, " ")) {
	case "usi_hash", "hash":
		if mb, err := strconv.Atoi(val); err == nil && mb >= 1 {
			u.opts.TTSizeMB = mb
			u.dirty = true
		}
	case "threads":
		if n, err := strconv.Atoi(val); err == nil && n >= 1 {
			u.opts.Threads = n
			u.dirty = true
		}
	case "evictionpolicy":
		p, ok := ordering.ParseEvictionPolicy(val)
		if !ok {
			u.printf("info string unknown eviction policy: %s", val)
			return
		}
		u.opts.Ordering.Cache.EvictionPolicy = p
		u.dirty = true
	case "resultcachesize":
		if n, err := strconv.Atoi(val); err == nil && n >= 1 {
			u.opts.Ordering.Cache.MaxCacheSize = n
			u.dirty = true
		}
	case "learning":
		u.opts.Ordering.Learning.Enabled = strings.EqualFold(val, "true")
		u.dirty = true
	}
}

// handlePerft runs a perft test on the current position.
func (u *USI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := engine.Perft(u.position.Copy(), depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d", nodes)
	u.printf("Time: %v", elapsed)
}

// handleStats prints the ordering statistics of the last searches.
func (u *USI) handleStats() {
	if u.engine == nil {
		u.printf("info string no engine")
		return
	}
	s := u.engine.Stats()
	for _, line := range strings.Split(s.Summary(), "\n") {
		u.printf("info string %s", line)
	}
}
