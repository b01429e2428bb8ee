package ordering

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats collects counters for one Orderer.
type Stats struct {
	OrderingCalls uint64
	MovesOrdered  uint64
	InvalidMoves  uint64
	OrderingTime  time.Duration

	ResultCacheHits      uint64
	ResultCacheMisses    uint64
	ResultCacheEvictions uint64

	ScoreCacheHits   uint64
	ScoreCacheMisses uint64

	IIDHits     uint64
	PVHits      uint64
	KillerHits  uint64
	CounterHits uint64
	HistoryHits uint64
	SEEHits     uint64

	SEECalculations uint64
	TTIntegrations  uint64
	HistoryUpdates  uint64
	HistoryAgings   uint64
	KillersAdded    uint64
	CountersAdded   uint64
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	*s = Stats{}
}

// Merge adds the counters of other to s, for combining per-worker statistics.
func (s *Stats) Merge(other Stats) {
	s.OrderingCalls += other.OrderingCalls
	s.MovesOrdered += other.MovesOrdered
	s.InvalidMoves += other.InvalidMoves
	s.OrderingTime += other.OrderingTime
	s.ResultCacheHits += other.ResultCacheHits
	s.ResultCacheMisses += other.ResultCacheMisses
	s.ResultCacheEvictions += other.ResultCacheEvictions
	s.ScoreCacheHits += other.ScoreCacheHits
	s.ScoreCacheMisses += other.ScoreCacheMisses
	s.IIDHits += other.IIDHits
	s.PVHits += other.PVHits
	s.KillerHits += other.KillerHits
	s.CounterHits += other.CounterHits
	s.HistoryHits += other.HistoryHits
	s.SEEHits += other.SEEHits
	s.SEECalculations += other.SEECalculations
	s.TTIntegrations += other.TTIntegrations
	s.HistoryUpdates += other.HistoryUpdates
	s.HistoryAgings += other.HistoryAgings
	s.KillersAdded += other.KillersAdded
	s.CountersAdded += other.CountersAdded
}

func rate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// ResultCacheHitRate returns the ordering result cache hit rate as a percentage.
func (s *Stats) ResultCacheHitRate() float64 {
	return rate(s.ResultCacheHits, s.ResultCacheMisses)
}

// ScoreCacheHitRate returns the move score cache hit rate as a percentage.
func (s *Stats) ScoreCacheHitRate() float64 {
	return rate(s.ScoreCacheHits, s.ScoreCacheMisses)
}

// AverageOrderingTime returns the mean wall time per ordering call.
func (s *Stats) AverageOrderingTime() time.Duration {
	if s.OrderingCalls == 0 {
		return 0
	}
	return s.OrderingTime / time.Duration(s.OrderingCalls)
}

// Summary formats the counters for display.
func (s *Stats) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "orderings: %s (%s moves, %s invalid), avg %v\n",
		humanize.Comma(int64(s.OrderingCalls)), humanize.Comma(int64(s.MovesOrdered)),
		humanize.Comma(int64(s.InvalidMoves)), s.AverageOrderingTime())
	fmt.Fprintf(&sb, "result cache: %s hits, %s misses (%.1f%%), %s evictions\n",
		humanize.Comma(int64(s.ResultCacheHits)), humanize.Comma(int64(s.ResultCacheMisses)),
		s.ResultCacheHitRate(), humanize.Comma(int64(s.ResultCacheEvictions)))
	fmt.Fprintf(&sb, "score cache: %s hits, %s misses (%.1f%%)\n",
		humanize.Comma(int64(s.ScoreCacheHits)), humanize.Comma(int64(s.ScoreCacheMisses)), s.ScoreCacheHitRate())
	fmt.Fprintf(&sb, "heuristics: iid %s, pv %s, killer %s, counter %s, history %s, see %s\n",
		humanize.Comma(int64(s.IIDHits)), humanize.Comma(int64(s.PVHits)), humanize.Comma(int64(s.KillerHits)),
		humanize.Comma(int64(s.CounterHits)), humanize.Comma(int64(s.HistoryHits)), humanize.Comma(int64(s.SEEHits)))
	fmt.Fprintf(&sb, "updates: %s history (%s agings), %s killers, %s counters, %s TT integrations",
		humanize.Comma(int64(s.HistoryUpdates)), humanize.Comma(int64(s.HistoryAgings)),
		humanize.Comma(int64(s.KillersAdded)), humanize.Comma(int64(s.CountersAdded)),
		humanize.Comma(int64(s.TTIntegrations)))
	return sb.String()
}
