package engine

import (
	"time"

	"github.com/hailam/shogiorder/internal/board"
)

// Clock is a shogi time control: main time per side, an optional increment
// (Fischer) and byoyomi once the main time has run out.
type Clock struct {
	Time    [2]time.Duration
	Inc     [2]time.Duration
	Byoyomi time.Duration
}

// TimeManager decides how long a single search may run.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock for a search by player us at the given game ply.
// A fixed move time overrides the clock; no time at all means no limit.
func (tm *TimeManager) Init(moveTime time.Duration, clock Clock, us board.Player, ply int) {
	tm.startTime = time.Now()

	if moveTime > 0 {
		tm.optimumTime = moveTime
		tm.maximumTime = moveTime
		return
	}

	timeLeft := clock.Time[us]
	if timeLeft == 0 && clock.Byoyomi == 0 {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	// Shogi games run longer than chess games; expect more moves early on
	mtg := min(max(80-ply/3, 20), 80)

	base := timeLeft/time.Duration(mtg) + clock.Inc[us]*9/10
	if ply < 16 {
		base = base * 85 / 100
	}
	tm.optimumTime = base + clock.Byoyomi*8/10
	tm.maximumTime = min(tm.optimumTime*4, timeLeft*8/10) + clock.Byoyomi*9/10

	tm.optimumTime = max(tm.optimumTime, 10*time.Millisecond)
	tm.maximumTime = max(tm.maximumTime, tm.optimumTime)
}

// Elapsed returns the time elapsed since the search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the target time for this move.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the hard limit for this move.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// PastOptimum returns true once the target time has been used; iterative
// deepening does not start another iteration after that.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// AdjustForStability shortens the target when the best move has not changed
// for several iterations.
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}
