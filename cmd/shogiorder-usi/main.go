// Command shogiorder-usi runs the engine behind the USI protocol on stdin/stdout.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/rs/zerolog"

	"github.com/hailam/shogiorder/internal/engine"
	"github.com/hailam/shogiorder/internal/usi"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	threads    = flag.Int("threads", 1, "default search threads")
	verbose    = flag.Bool("v", false, "debug logging to stderr")
)

func main() {
	flag.Parse()

	// stdout belongs to the protocol; logs go to stderr
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	opts := engine.DefaultOptions()
	opts.Threads = *threads
	opts.TTSizeMB = 64
	opts.Logger = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := usi.New(opts, os.Stdout).Run(ctx, os.Stdin); err != nil {
		log.Error().Err(err).Msg("usi loop failed")
	}
}
