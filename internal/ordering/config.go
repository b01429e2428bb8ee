package ordering

import (
	"fmt"
)

// Weights are the scoring constants used by the priority function.
type Weights struct {
	CaptureWeight       int `json:"capture_weight"`
	PromotionWeight     int `json:"promotion_weight"`
	TacticalWeight      int `json:"tactical_weight"`
	QuietWeight         int `json:"quiet_weight"`
	PVMoveWeight        int `json:"pv_move_weight"`
	KillerMoveWeight    int `json:"killer_move_weight"`
	CounterMoveWeight   int `json:"counter_move_weight"`
	HistoryWeight       int `json:"history_weight"` // per mille of the history score
	SEEWeight           int `json:"see_weight"`     // per mille of the SEE value
	CenterControlWeight int `json:"center_control_weight"`
	DevelopmentWeight   int `json:"development_weight"`
	PieceValueScale     int `json:"piece_value_scale"` // per mille of the moving piece value for quiet moves
}

// WeightID names one field of Weights.
type WeightID uint8

const (
	WeightCapture WeightID = iota
	WeightPromotion
	WeightTactical
	WeightQuiet
	WeightPVMove
	WeightKillerMove
	WeightCounterMove
	WeightHistory
	WeightSEE
	WeightCenterControl
	WeightDevelopment
	WeightPieceValueScale
	numWeights
)

var weightNames = [numWeights]string{
	"capture_weight",
	"promotion_weight",
	"tactical_weight",
	"quiet_weight",
	"pv_move_weight",
	"killer_move_weight",
	"counter_move_weight",
	"history_weight",
	"see_weight",
	"center_control_weight",
	"development_weight",
	"piece_value_scale",
}

func (id WeightID) String() string {
	if id < numWeights {
		return weightNames[id]
	}
	return fmt.Sprintf("weight(%d)", uint8(id))
}

// WeightByName resolves a weight name such as "killer_move_weight".
func WeightByName(name string) (WeightID, bool) {
	for i, n := range weightNames {
		if n == name {
			return WeightID(i), true
		}
	}
	return 0, false
}

func (w *Weights) field(id WeightID) *int {
	switch id {
	case WeightCapture:
		return &w.CaptureWeight
	case WeightPromotion:
		return &w.PromotionWeight
	case WeightTactical:
		return &w.TacticalWeight
	case WeightQuiet:
		return &w.QuietWeight
	case WeightPVMove:
		return &w.PVMoveWeight
	case WeightKillerMove:
		return &w.KillerMoveWeight
	case WeightCounterMove:
		return &w.CounterMoveWeight
	case WeightHistory:
		return &w.HistoryWeight
	case WeightSEE:
		return &w.SEEWeight
	case WeightCenterControl:
		return &w.CenterControlWeight
	case WeightDevelopment:
		return &w.DevelopmentWeight
	case WeightPieceValueScale:
		return &w.PieceValueScale
	}
	return nil
}

// Get returns the value of a weight; unknown IDs return 0.
func (w *Weights) Get(id WeightID) int {
	if f := w.field(id); f != nil {
		return *f
	}
	return 0
}

// Set assigns a weight. It reports false for unknown IDs.
func (w *Weights) Set(id WeightID, v int) bool {
	f := w.field(id)
	if f == nil {
		return false
	}
	*f = v
	return true
}

// EvictionPolicy selects the entry removed when the ordering result cache is full.
type EvictionPolicy uint8

const (
	EvictFIFO EvictionPolicy = iota
	EvictLRU
	EvictDepthPreferred
	EvictHybrid
)

func (p EvictionPolicy) String() string {
	switch p {
	case EvictFIFO:
		return "fifo"
	case EvictLRU:
		return "lru"
	case EvictDepthPreferred:
		return "depth-preferred"
	case EvictHybrid:
		return "hybrid"
	}
	return "unknown"
}

// ParseEvictionPolicy returns the policy with the given String name.
func ParseEvictionPolicy(s string) (EvictionPolicy, bool) {
	for p := EvictFIFO; p <= EvictHybrid; p++ {
		if p.String() == s {
			return p, true
		}
	}
	return 0, false
}

// CacheConfig controls the ordering result cache and the move score cache.
type CacheConfig struct {
	EnableResultCache bool           `json:"enable_result_cache"`
	MaxCacheSize      int            `json:"max_cache_size"`
	EvictionPolicy    EvictionPolicy `json:"eviction_policy"`
	LRUWeight         float64        `json:"lru_weight"` // hybrid policy; depth weight is 1 - LRUWeight
	EnableScoreCache  bool           `json:"enable_score_cache"`
	MaxScoreCacheSize int            `json:"max_score_cache_size"`
	HotCacheSize      int            `json:"hot_cache_size"`
}

// KillerConfig controls the killer move table.
type KillerConfig struct {
	Enabled        bool `json:"enabled"`
	MaxKillerMoves int  `json:"max_killer_moves"`
}

// CounterConfig controls the counter-move table.
type CounterConfig struct {
	Enabled         bool `json:"enabled"`
	MaxCounterMoves int  `json:"max_counter_moves"`
}

// HistoryConfig controls the history tables and their aging.
type HistoryConfig struct {
	Enabled              bool    `json:"enabled"`
	MaxHistoryScore      uint32  `json:"max_history_score"`
	HistoryAgingFactor   float64 `json:"history_aging_factor"`
	EnableAutomaticAging bool    `json:"enable_automatic_aging"`
	AgingFrequency       int     `json:"aging_frequency"` // updates between automatic agings

	EnableRelative   bool `json:"enable_relative"`
	EnableQuietOnly  bool `json:"enable_quiet_only"`
	EnablePhaseAware bool `json:"enable_phase_aware"`

	EnablePhaseAwareAging bool    `json:"enable_phase_aware_aging"`
	OpeningAgingFactor    float64 `json:"opening_aging_factor"`
	MiddlegameAgingFactor float64 `json:"middlegame_aging_factor"`
	EndgameAgingFactor    float64 `json:"endgame_aging_factor"`

	// Read-time exponential decay; never persisted into the tables.
	EnableTimeBasedAging bool    `json:"enable_time_based_aging"`
	TimeDecayFactor      float64 `json:"time_decay_factor"`
	TimeDecayWindow      uint64  `json:"time_decay_window"`
}

// PVConfig controls the PV store.
type PVConfig struct {
	Enabled                 bool `json:"enabled"`
	MaxCacheSize            int  `json:"max_cache_size"`
	MaxPVMovesPerPosition   int  `json:"max_pv_moves_per_position"`
	EnablePreviousIteration bool `json:"enable_previous_iteration"`
	EnableSiblings          bool `json:"enable_siblings"`
}

// SEEConfig controls static exchange evaluation in the priority function.
type SEEConfig struct {
	Enabled         bool  `json:"enabled"`
	EnableCache     bool  `json:"enable_cache"`
	MaxSEECacheSize int64 `json:"max_see_cache_size"`
}

// LearningConfig controls adaptive weight adjustment.
type LearningConfig struct {
	Enabled      bool    `json:"enabled"`
	LearningRate float64 `json:"learning_rate"`
	MinSamples   int     `json:"min_samples"`
	MinWeight    int     `json:"min_weight"`
	MaxWeight    int     `json:"max_weight"`
}

// Config is the complete move ordering configuration.
type Config struct {
	Weights      Weights        `json:"weights"`
	Cache        CacheConfig    `json:"cache"`
	Killer       KillerConfig   `json:"killer"`
	Counter      CounterConfig  `json:"counter"`
	History      HistoryConfig  `json:"history"`
	PV           PVConfig       `json:"pv"`
	SEE          SEEConfig      `json:"see"`
	Learning     LearningConfig `json:"learning"`
	ErrorLogSize int            `json:"error_log_size"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			CaptureWeight:       1000,
			PromotionWeight:     800,
			TacticalWeight:      300,
			QuietWeight:         25,
			PVMoveWeight:        100000,
			KillerMoveWeight:    50000,
			CounterMoveWeight:   30000,
			HistoryWeight:       1000,
			SEEWeight:           1000,
			CenterControlWeight: 20,
			DevelopmentWeight:   15,
			PieceValueScale:     20,
		},
		Cache: CacheConfig{
			EnableResultCache: true,
			MaxCacheSize:      1000,
			EvictionPolicy:    EvictLRU,
			LRUWeight:         0.7,
			EnableScoreCache:  true,
			MaxScoreCacheSize: 4096,
			HotCacheSize:      16,
		},
		Killer: KillerConfig{
			Enabled:        true,
			MaxKillerMoves: 2,
		},
		Counter: CounterConfig{
			Enabled:         true,
			MaxCounterMoves: 2,
		},
		History: HistoryConfig{
			Enabled:               true,
			MaxHistoryScore:       10000,
			HistoryAgingFactor:    0.9,
			EnableAutomaticAging:  true,
			AgingFrequency:        1000,
			OpeningAgingFactor:    0.95,
			MiddlegameAgingFactor: 0.9,
			EndgameAgingFactor:    0.8,
			TimeDecayFactor:       0.5,
			TimeDecayWindow:       1000,
		},
		PV: PVConfig{
			Enabled:                 true,
			MaxCacheSize:            10000,
			MaxPVMovesPerPosition:   3,
			EnablePreviousIteration: true,
			EnableSiblings:          true,
		},
		SEE: SEEConfig{
			Enabled:         true,
			EnableCache:     true,
			MaxSEECacheSize: 1 << 16,
		},
		Learning: LearningConfig{
			LearningRate: 0.05,
			MinSamples:   100,
			MinWeight:    0,
			MaxWeight:    200000,
		},
		ErrorLogSize: 100,
	}
}

// PerformanceConfig favours large caches and fewer table updates.
func PerformanceConfig() Config {
	cfg := DefaultConfig()
	cfg.Cache.MaxCacheSize = 10000
	cfg.Cache.MaxScoreCacheSize = 16384
	cfg.Cache.EvictionPolicy = EvictHybrid
	cfg.History.AgingFrequency = 5000
	cfg.PV.MaxCacheSize = 50000
	return cfg
}

// MemoryOptimizedConfig keeps every table small.
func MemoryOptimizedConfig() Config {
	cfg := DefaultConfig()
	cfg.Cache.MaxCacheSize = 100
	cfg.Cache.MaxScoreCacheSize = 256
	cfg.Cache.HotCacheSize = 4
	cfg.Cache.EvictionPolicy = EvictDepthPreferred
	cfg.PV.MaxCacheSize = 1000
	cfg.PV.MaxPVMovesPerPosition = 1
	cfg.PV.EnableSiblings = false
	cfg.SEE.MaxSEECacheSize = 1 << 12
	cfg.History.EnableRelative = false
	cfg.History.EnablePhaseAware = false
	cfg.ErrorLogSize = 20
	return cfg
}

// DebugConfig disables caching so every call recomputes scores.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Cache.EnableResultCache = false
	cfg.Cache.EnableScoreCache = false
	cfg.SEE.EnableCache = false
	cfg.History.EnableAutomaticAging = false
	return cfg
}

// Violations returns every constraint the configuration breaks.
func (c Config) Violations() []string {
	var v []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			v = append(v, fmt.Sprintf(format, args...))
		}
	}

	for id := WeightID(0); id < numWeights; id++ {
		w := c.Weights.Get(id)
		check(w >= 0 && w <= MaxWeight, "%s must be in [0,%d], got %d", id, MaxWeight, w)
	}

	check(c.Cache.MaxCacheSize > 0, "cache.max_cache_size must be positive, got %d", c.Cache.MaxCacheSize)
	check(c.Cache.EvictionPolicy <= EvictHybrid, "cache.eviction_policy %d is unknown", c.Cache.EvictionPolicy)
	check(c.Cache.LRUWeight >= 0 && c.Cache.LRUWeight <= 1, "cache.lru_weight must be in [0,1], got %g", c.Cache.LRUWeight)
	check(c.Cache.MaxScoreCacheSize > 0, "cache.max_score_cache_size must be positive, got %d", c.Cache.MaxScoreCacheSize)
	check(c.Cache.HotCacheSize >= 0, "cache.hot_cache_size must be non-negative, got %d", c.Cache.HotCacheSize)
	check(c.Cache.HotCacheSize <= c.Cache.MaxScoreCacheSize, "cache.hot_cache_size must not exceed cache.max_score_cache_size")

	check(c.Killer.MaxKillerMoves > 0, "killer.max_killer_moves must be positive, got %d", c.Killer.MaxKillerMoves)
	check(c.Counter.MaxCounterMoves > 0, "counter.max_counter_moves must be positive, got %d", c.Counter.MaxCounterMoves)

	h := c.History
	check(h.MaxHistoryScore > 0, "history.max_history_score must be positive")
	checkFactor := func(name string, f float64) {
		check(f > 0 && f <= 1, "history.%s must be in (0,1], got %g", name, f)
	}
	checkFactor("history_aging_factor", h.HistoryAgingFactor)
	checkFactor("opening_aging_factor", h.OpeningAgingFactor)
	checkFactor("middlegame_aging_factor", h.MiddlegameAgingFactor)
	checkFactor("endgame_aging_factor", h.EndgameAgingFactor)
	checkFactor("time_decay_factor", h.TimeDecayFactor)
	check(!h.EnableAutomaticAging || h.AgingFrequency > 0, "history.aging_frequency must be positive when automatic aging is enabled")
	check(!h.EnableTimeBasedAging || h.TimeDecayWindow > 0, "history.time_decay_window must be positive when time-based aging is enabled")

	check(c.PV.MaxCacheSize > 0, "pv.max_cache_size must be positive, got %d", c.PV.MaxCacheSize)
	check(c.PV.MaxPVMovesPerPosition > 0, "pv.max_pv_moves_per_position must be positive, got %d", c.PV.MaxPVMovesPerPosition)

	check(!c.SEE.EnableCache || c.SEE.MaxSEECacheSize > 0, "see.max_see_cache_size must be positive when the SEE cache is enabled")

	l := c.Learning
	check(l.LearningRate >= 0 && l.LearningRate <= 1, "learning.learning_rate must be in [0,1], got %g", l.LearningRate)
	check(l.MinSamples >= 0, "learning.min_samples must be non-negative")
	check(l.MinWeight <= l.MaxWeight, "learning.min_weight must not exceed learning.max_weight")
	check(l.MaxWeight <= MaxWeight, "learning.max_weight must not exceed %d", MaxWeight)

	check(c.ErrorLogSize > 0, "error_log_size must be positive, got %d", c.ErrorLogSize)
	return v
}

// Validate returns a *ConfigError listing all violations, or nil.
func (c Config) Validate() error {
	if v := c.Violations(); len(v) > 0 {
		return &ConfigError{Violations: v}
	}
	return nil
}
