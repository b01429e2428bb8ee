// Package storage persists learned move-ordering tables (history, PV and
// heuristic weights) in BadgerDB. Values are zstd-compressed JSON.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"github.com/hailam/shogiorder/internal/ordering"
)

// Storage keys
const (
	snapshotPrefix = "snapshot/"
	keyLatest      = "latest"
)

// ErrNotFound is returned when no snapshot exists under the requested ID.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a saved copy of the tables an Orderer learns during search.
type Snapshot struct {
	ID      uuid.UUID                `json:"id"`
	Session uuid.UUID                `json:"session"` // engine that produced it
	Label   string                   `json:"label"`
	Created time.Time                `json:"created"`
	Weights ordering.Weights         `json:"weights"`
	History []ordering.HistoryRecord `json:"history"`
	PV      []ordering.PVRecord      `json:"pv"`
}

// Info summarises a stored snapshot.
type Info struct {
	ID             uuid.UUID
	Session        uuid.UUID
	Label          string
	Created        time.Time
	HistoryEntries int
	PVEntries      int
}

// Capture copies o's history, PV and weights into a new snapshot.
func Capture(o *ordering.Orderer, session uuid.UUID, label string) *Snapshot {
	return &Snapshot{
		ID:      uuid.New(),
		Session: session,
		Label:   label,
		Created: time.Now(),
		Weights: o.Config().Weights,
		History: o.History().Snapshot(),
		PV:      o.PV().Snapshot(),
	}
}

// Apply loads the snapshot into o, replacing its history and PV tables and
// its heuristic weights.
func (snap *Snapshot) Apply(o *ordering.Orderer) error {
	cfg := o.Config()
	cfg.Weights = snap.Weights
	if err := o.SetConfig(cfg); err != nil {
		return err
	}
	o.History().Restore(snap.History)
	o.PV().Restore(snap.PV)
	return nil
}

// Store wraps BadgerDB for snapshot storage.
type Store struct {
	db  *badger.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
	log zerolog.Logger
}

// Open opens (or creates) the snapshot database in dir. An empty dir uses
// DatabaseDir().
func Open(dir string, log zerolog.Logger) (*Store, error) {
	if dir == "" {
		var err error
		if dir, err = DatabaseDir(); err != nil {
			return nil, err
		}
	}
	log.Debug().Str("dir", dir).Msg("opening snapshot store")
	return open(badger.DefaultOptions(dir), log)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory(log zerolog.Logger) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), log)
}

func open(opts badger.Options, log zerolog.Logger) (*Store, error) {
	opts.Logger = badgerLogger{log.With().Str("component", "badger").Logger()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}
	return &Store{db: db, enc: enc, dec: dec, log: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.dec.Close()
	s.enc.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func snapshotKey(id uuid.UUID) []byte {
	return []byte(snapshotPrefix + id.String())
}

func (s *Store) encode(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return s.enc.EncodeAll(data, nil), nil
}

func (s *Store) decode(val []byte) (*Snapshot, error) {
	data, err := s.dec.DecodeAll(val, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing snapshot: %w", err)
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}

// Save stores the snapshot and marks it as the latest. A snapshot without an
// ID gets a fresh one.
func (s *Store) Save(snap *Snapshot) (uuid.UUID, error) {
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	if snap.Created.IsZero() {
		snap.Created = time.Now()
	}

	data, err := s.encode(snap)
	if err != nil {
		return uuid.Nil, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(snapshotKey(snap.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(keyLatest), []byte(snap.ID.String()))
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.log.Debug().Str("id", snap.ID.String()).Int("history", len(snap.History)).
		Int("pv", len(snap.PV)).Int("bytes", len(data)).Msg("snapshot saved")
	return snap.ID, nil
}

// Load returns the snapshot stored under id.
func (s *Store) Load(id uuid.UUID) (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			snap, err = s.decode(val)
			return err
		})
	})
	return snap, err
}

// Latest returns the most recently saved snapshot.
func (s *Store) Latest() (*Snapshot, error) {
	var id uuid.UUID
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyLatest))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id, err = uuid.ParseBytes(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Load(id)
}

// List describes every stored snapshot in key order.
func (s *Store) List() ([]Info, error) {
	var out []Info
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(snapshotPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				snap, err := s.decode(val)
				if err != nil {
					return err
				}
				out = append(out, Info{
					ID:             snap.ID,
					Session:        snap.Session,
					Label:          snap.Label,
					Created:        snap.Created,
					HistoryEntries: len(snap.History),
					PVEntries:      len(snap.PV),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// Delete removes a snapshot. Deleting the latest snapshot clears the latest
// marker.
func (s *Store) Delete(id uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyLatest))
		switch {
		case err == nil:
			var latest bool
			if err := item.Value(func(val []byte) error {
				latest = string(val) == id.String()
				return nil
			}); err != nil {
				return err
			}
			if latest {
				if err := txn.Delete([]byte(keyLatest)); err != nil {
					return err
				}
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Delete(snapshotKey(id))
	})
}

// badgerLogger routes badger's log output through zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(format, args...)
}
