package ordering

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/shogiorder/internal/board"
)

// HistoryStore is the history table as seen by the Orderer. *HistoryTable is the
// single-threaded implementation; *SyncHistoryTable may be shared across workers.
type HistoryStore interface {
	Update(m board.Move, bonus uint32, cfg *HistoryConfig, phase board.GamePhase, now uint64)
	Score(m board.Move, cfg *HistoryConfig, phase board.GamePhase, now uint64) uint32
	Age(cfg *HistoryConfig, phase board.GamePhase)
	Len() int
	Clear()
	Snapshot() []HistoryRecord
	Restore(records []HistoryRecord)
}

// PVCache is the PV store as seen by the Orderer.
type PVCache interface {
	Get(hash uint64) (PVEntry, bool)
	Update(hash uint64, m board.Move)
	MarkEmpty(hash uint64)
	StoreMultiple(hash uint64, moves []board.Move)
	Multiple(hash uint64) []board.Move
	SaveIteration()
	Previous(hash uint64) (PVEntry, bool)
	StoreSibling(parent uint64, m board.Move)
	Siblings(parent uint64) []board.Move
	Len() int
	Resize(maxSize, maxPerPosition int)
	Clear()
	Snapshot() []PVRecord
	Restore(records []PVRecord)
}

// SyncHistoryTable guards a HistoryTable with a reader-writer lock.
type SyncHistoryTable struct {
	mu sync.RWMutex
	t  *HistoryTable
}

// NewSyncHistoryTable creates an empty shared history table.
func NewSyncHistoryTable() *SyncHistoryTable {
	return &SyncHistoryTable{t: NewHistoryTable()}
}

func (s *SyncHistoryTable) Update(m board.Move, bonus uint32, cfg *HistoryConfig, phase board.GamePhase, now uint64) {
	s.mu.Lock()
	s.t.Update(m, bonus, cfg, phase, now)
	s.mu.Unlock()
}

func (s *SyncHistoryTable) Score(m board.Move, cfg *HistoryConfig, phase board.GamePhase, now uint64) uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.Score(m, cfg, phase, now)
}

func (s *SyncHistoryTable) Age(cfg *HistoryConfig, phase board.GamePhase) {
	s.mu.Lock()
	s.t.Age(cfg, phase)
	s.mu.Unlock()
}

func (s *SyncHistoryTable) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.Len()
}

func (s *SyncHistoryTable) Clear() {
	s.mu.Lock()
	s.t.Clear()
	s.mu.Unlock()
}

func (s *SyncHistoryTable) Snapshot() []HistoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.Snapshot()
}

func (s *SyncHistoryTable) Restore(records []HistoryRecord) {
	s.mu.Lock()
	s.t.Restore(records)
	s.mu.Unlock()
}

// SyncPVStore guards a PVStore with a reader-writer lock.
type SyncPVStore struct {
	mu sync.RWMutex
	s  *PVStore
}

// NewSyncPVStore creates an empty shared PV store.
func NewSyncPVStore(maxSize, maxPerPosition int) *SyncPVStore {
	return &SyncPVStore{s: NewPVStore(maxSize, maxPerPosition)}
}

func (p *SyncPVStore) Get(hash uint64) (PVEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.s.Get(hash)
}

func (p *SyncPVStore) Update(hash uint64, m board.Move) {
	p.mu.Lock()
	p.s.Update(hash, m)
	p.mu.Unlock()
}

func (p *SyncPVStore) MarkEmpty(hash uint64) {
	p.mu.Lock()
	p.s.MarkEmpty(hash)
	p.mu.Unlock()
}

func (p *SyncPVStore) StoreMultiple(hash uint64, moves []board.Move) {
	p.mu.Lock()
	p.s.StoreMultiple(hash, moves)
	p.mu.Unlock()
}

func (p *SyncPVStore) Multiple(hash uint64) []board.Move {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]board.Move(nil), p.s.Multiple(hash)...)
}

func (p *SyncPVStore) SaveIteration() {
	p.mu.Lock()
	p.s.SaveIteration()
	p.mu.Unlock()
}

func (p *SyncPVStore) Previous(hash uint64) (PVEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.s.Previous(hash)
}

func (p *SyncPVStore) StoreSibling(parent uint64, m board.Move) {
	p.mu.Lock()
	p.s.StoreSibling(parent, m)
	p.mu.Unlock()
}

func (p *SyncPVStore) Siblings(parent uint64) []board.Move {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]board.Move(nil), p.s.Siblings(parent)...)
}

func (p *SyncPVStore) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.s.Len()
}

func (p *SyncPVStore) Resize(maxSize, maxPerPosition int) {
	p.mu.Lock()
	p.s.Resize(maxSize, maxPerPosition)
	p.mu.Unlock()
}

func (p *SyncPVStore) Clear() {
	p.mu.Lock()
	p.s.Clear()
	p.mu.Unlock()
}

func (p *SyncPVStore) Snapshot() []PVRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.s.Snapshot()
}

func (p *SyncPVStore) Restore(records []PVRecord) {
	p.mu.Lock()
	p.s.Restore(records)
	p.mu.Unlock()
}

// HistoryClock is the logical time of a history table and its count of
// updates since the last aging. Workers sharing a history table share its
// clock, so aging_frequency counts updates from every worker.
type HistoryClock struct {
	now        atomic.Uint64
	sinceAging atomic.Int64
}

// Tick advances the clock for one history update and returns the new time.
func (c *HistoryClock) Tick() uint64 {
	c.sinceAging.Add(1)
	return c.now.Add(1)
}

// Now returns the current logical time.
func (c *HistoryClock) Now() uint64 {
	return c.now.Load()
}

// DueForAging reports whether frequency updates have passed since the last
// aging. Only one caller sees true for each period.
func (c *HistoryClock) DueForAging(frequency int) bool {
	n := c.sinceAging.Load()
	return n >= int64(frequency) && c.sinceAging.CompareAndSwap(n, 0)
}

// UpdatesSinceAging returns the number of updates since the last aging.
func (c *HistoryClock) UpdatesSinceAging() int {
	return int(c.sinceAging.Load())
}

// AgingDone restarts the update count.
func (c *HistoryClock) AgingDone() {
	c.sinceAging.Store(0)
}

// Reset sets the clock back to zero.
func (c *HistoryClock) Reset() {
	c.now.Store(0)
	c.sinceAging.Store(0)
}

// SharedTables are the read-mostly tables that workers of a parallel search may share.
type SharedTables struct {
	History *SyncHistoryTable
	PV      *SyncPVStore
	Clock   *HistoryClock
}

// NewSharedTables creates shared history and PV tables sized by cfg.
func NewSharedTables(cfg Config) *SharedTables {
	return &SharedTables{
		Clock:   &HistoryClock{},
		History: NewSyncHistoryTable(),
		PV:      NewSyncPVStore(cfg.PV.MaxCacheSize, cfg.PV.MaxPVMovesPerPosition),
	}
}

// ParallelPlan declares which tables are shared between search threads.
// Killer moves and the ordering result cache are depth and context sensitive
// and always stay per thread.
type ParallelPlan struct {
	Threads              int
	ShareHistory         bool
	SharePV              bool
	PerThreadKillers     bool
	PerThreadResultCache bool
}
