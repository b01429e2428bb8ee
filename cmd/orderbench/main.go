// Command orderbench plays random shogi openings, orders and searches the
// resulting positions and prints move-ordering statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/hailam/shogiorder/internal/board"
	"github.com/hailam/shogiorder/internal/engine"
	"github.com/hailam/shogiorder/internal/ordering"
	"github.com/hailam/shogiorder/internal/storage"
)

var (
	threads    = flag.Int("threads", 1, "search threads")
	depth      = flag.Int("depth", 4, "search depth per position")
	hashMB     = flag.Int("hash", 64, "transposition table size in MB")
	positions  = flag.Int("positions", 20, "number of random positions")
	plies      = flag.Int("plies", 16, "random plies played from the start position")
	seed       = flag.Uint64("seed", 1, "random seed")
	preset     = flag.String("preset", "default", "ordering preset: default, performance, memory or debug")
	policy     = flag.String("policy", "", "override result cache eviction policy: fifo, lru, depth-preferred or hybrid")
	learn      = flag.Bool("learn", false, "enable weight learning between positions")
	dbDir      = flag.String("db", "", "snapshot database directory (empty disables persistence)")
	load       = flag.Bool("load", false, "start from the latest stored snapshot")
	verbose    = flag.Bool("v", false, "debug logging")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(log); err != nil {
		log.Error().Err(err).Msg("orderbench failed")
		os.Exit(1)
	}
}

func config() (ordering.Config, error) {
	var cfg ordering.Config
	switch *preset {
	case "default":
		cfg = ordering.DefaultConfig()
	case "performance":
		cfg = ordering.PerformanceConfig()
	case "memory":
		cfg = ordering.MemoryOptimizedConfig()
	case "debug":
		cfg = ordering.DebugConfig()
	default:
		return cfg, fmt.Errorf("unknown preset %q", *preset)
	}
	if *policy != "" {
		p, ok := ordering.ParseEvictionPolicy(*policy)
		if !ok {
			return cfg, fmt.Errorf("unknown eviction policy %q", *policy)
		}
		cfg.Cache.EvictionPolicy = p
	}
	if *learn {
		cfg.Learning.Enabled = true
	}
	return cfg, cfg.Validate()
}

func run(log zerolog.Logger) error {
	cfg, err := config()
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Options{
		Threads:  *threads,
		TTSizeMB: *hashMB,
		Ordering: cfg,
		Logger:   log,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	var store *storage.Store
	if *dbDir != "" {
		if store, err = storage.Open(*dbDir, log); err != nil {
			return err
		}
		defer store.Close()

		if *load {
			snap, err := store.Latest()
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}
			if err := snap.Apply(eng.Orderer()); err != nil {
				return err
			}
			log.Info().Str("id", snap.ID.String()).Str("label", snap.Label).
				Int("history", len(snap.History)).Msg("snapshot loaded")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	start := time.Now()
	var nodes uint64

	for i := 0; i < *positions && ctx.Err() == nil; i++ {
		pos := randomPosition(rng, *plies)

		// Order a shuffled list once directly, so the orderer sees input in
		// an order the generator never produces
		moves := pos.GenerateLegalMoves()
		rng.Shuffle(len(moves), func(a, b int) { moves[a], moves[b] = moves[b], moves[a] })
		eng.Orderer().OrderMovesWithAllHeuristics(moves, ordering.Node{
			Position: pos,
			Hands:    pos.Hands,
			Player:   pos.SideToMove,
			Depth:    *depth,
		})

		res, err := eng.Search(ctx, pos, engine.SearchLimits{Depth: *depth})
		if err != nil {
			return err
		}
		nodes += res.Nodes
		log.Info().Int("position", i+1).Str("best", res.Move.String()).
			Str("score", engine.ScoreToString(res.Score)).Int("depth", res.Depth).
			Str("nodes", humanize.Comma(int64(res.Nodes))).Msg("searched")

		if *learn {
			if n := eng.ApplyLearning(); n > 0 {
				log.Debug().Int("weights", n).Msg("learning applied")
			}
		}
	}

	elapsed := time.Since(start)
	stats := eng.Stats()
	fmt.Println(stats.Summary())
	fmt.Printf("search: %s nodes in %v (%s nps)\n", humanize.Comma(int64(nodes)),
		elapsed.Round(time.Millisecond), humanize.Comma(int64(float64(nodes)/elapsed.Seconds())))

	if store != nil {
		snap := storage.Capture(eng.Orderer(), eng.ID(), fmt.Sprintf("orderbench seed=%d depth=%d", *seed, *depth))
		if _, err := store.Save(snap); err != nil {
			return err
		}
		log.Info().Str("id", snap.ID.String()).Int("history", len(snap.History)).
			Int("pv", len(snap.PV)).Msg("snapshot saved")
	}
	return nil
}

// randomPosition plays up to n uniformly random legal moves from the start.
func randomPosition(rng *rand.Rand, n int) *board.Position {
	pos := board.NewPosition()
	for range n {
		moves := pos.GenerateLegalMoves()
		if len(moves) == 0 {
			break
		}
		pos.MakeMove(moves[rng.IntN(len(moves))])
	}
	return pos
}
