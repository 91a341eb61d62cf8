// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package temporal implements §4.1: the temporal key-value store. Every
// write appends a history entry holding a full copy of the value rather
// than replacing it (no anchor+delta compression is applied), reads see
// a point-in-time-consistent record even while a write to the same key
// is in flight, and every successful write emits a ChangeEvent to the
// channels registered with Subscribe.
package temporal

import (
	"context"
	"sync"
	"time"

	"github.com/agrama-db/agrama/observability/logging"
	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
	"github.com/agrama-db/agrama/storage"
)

// ChangeKind distinguishes a new value from a deletion.
type ChangeKind int

const (
	// ChangePut indicates a key's current value changed.
	ChangePut ChangeKind = iota
	// ChangeDelete indicates a key's current value was removed. History
	// is retained; Get returns NotFound afterward.
	ChangeDelete
)

// ChangeEvent is emitted on every successful mutation. Subscribers
// receive it after the mutation is applied in the store, never before.
type ChangeEvent struct {
	Kind      ChangeKind
	Key       types.Key
	Value     types.Value
	Metadata  types.Metadata
	Timestamp int64
}

// entry is one key's full temporal record, held under the store's
// key-level lock.
type entry struct {
	mu       sync.RWMutex
	current  types.Value
	metadata types.Metadata
	history  []types.HistoryEntry // most recent last
	deleted  bool
}

// Config bounds the store's per-key history retention.
type Config struct {
	// MaxHistoryPerKey caps how many HistoryEntry records a key retains;
	// the oldest are dropped once the cap is exceeded. Zero means
	// unbounded.
	MaxHistoryPerKey int
	// MaxValueBytes overrides types.MaxValueBytes if non-zero, mostly
	// for tests that want a tighter bound.
	MaxValueBytes int
	// Durability is an optional write-through hook (§6: "the store may
	// be memory-only with an optional durability hook"). When set,
	// every successful Put/Delete is mirrored to it on a best-effort
	// basis and New rehydrates prior state from it. Nil means the
	// store is purely in-memory.
	Durability storage.Storage
	// Logger records durability-hook failures. Defaults to a no-op
	// logger if nil.
	Logger logging.Logger
}

// DefaultConfig returns the store's default history and size limits.
func DefaultConfig() *Config {
	return &Config{MaxHistoryPerKey: 1000, MaxValueBytes: types.MaxValueBytes}
}

// Store is the temporal key-value store. Each key is guarded by its own
// lock (§5: "per-key writer locks"), so concurrent writers to distinct
// keys never contend, and a reader of key K never blocks on a writer of
// key J.
type Store struct {
	cfg *Config

	mu      sync.RWMutex // guards the top-level map only
	entries map[types.Key]*entry

	subsMu sync.RWMutex
	subs   []chan<- ChangeEvent

	now func() int64 // overridable for deterministic tests
}

// New creates a Store. A nil Config uses DefaultConfig. When cfg.Durability
// is set, New rehydrates every key it finds under the "current" namespace
// before returning, so a restarted process picks up where the prior one
// left off.
func New(cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	s := &Store{
		cfg:     cfg,
		entries: make(map[types.Key]*entry),
		now:     func() int64 { return time.Now().UnixNano() },
	}
	if cfg.Durability != nil {
		s.rehydrate()
	}
	return s
}

// rehydrate loads every record found in the durability hook's "current"
// namespace into memory. Failures are logged and otherwise ignored: a
// cold start with an unreachable hook still serves as an empty store
// rather than refusing to start.
func (s *Store) rehydrate() {
	ctx := context.Background()
	records, err := s.cfg.Durability.List(ctx, "current")
	if err != nil {
		s.cfg.Logger.Warn(ctx, "temporal: durability hook rehydration failed", logging.Error(err))
		return
	}
	for _, v := range records {
		rec, ok := v.(types.Record)
		if !ok {
			continue
		}
		e := s.entryFor(rec.Key, true)
		e.mu.Lock()
		e.current = rec.Current
		e.metadata = rec.Metadata
		e.mu.Unlock()
	}
}

// Subscribe registers ch to receive a ChangeEvent for every future
// mutation. Sends are non-blocking: a subscriber that falls behind drops
// events rather than stalling writers, since indices are expected to
// periodically reconcile rather than depend on perfect delivery.
func (s *Store) Subscribe(ch chan<- ChangeEvent) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, ch)
}

func (s *Store) publish(evt ChangeEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Put writes value under key with the given metadata and returns the
// timestamp assigned to the write. Write failures (invalid key, oversize
// value) leave no partial state: the entry's prior current value and
// history are untouched.
func (s *Store) Put(key types.Key, value types.Value, metadata types.Metadata) (int64, error) {
	if key == "" {
		return 0, errors.ErrInvalidKey.WithDetail("reason", "empty key")
	}
	if len(key) > types.MaxKeyBytes {
		return 0, errors.ErrInvalidKey.WithDetail("reason", "key exceeds maximum length")
	}
	maxValue := s.cfg.MaxValueBytes
	if maxValue <= 0 {
		maxValue = types.MaxValueBytes
	}
	if len(value) > maxValue {
		return 0, errors.ErrValueTooLarge.WithDetail("size", len(value)).WithDetail("max", maxValue)
	}

	ts := s.now()

	e := s.entryFor(key, true)
	e.mu.Lock()
	e.current = append(types.Value(nil), value...)
	e.metadata = metadata
	e.deleted = false
	e.history = appendBounded(e.history, types.HistoryEntry{Timestamp: ts, Value: e.current}, s.cfg.MaxHistoryPerKey)
	e.mu.Unlock()

	s.writeThrough(key, value, metadata)
	s.publish(ChangeEvent{Kind: ChangePut, Key: key, Value: value, Metadata: metadata, Timestamp: ts})
	return ts, nil
}

// writeThrough mirrors a Put to the configured durability hook, if any.
// Failures are logged, not returned: the in-memory write already
// succeeded and the hook is a best-effort convenience, not a
// correctness dependency (§6).
func (s *Store) writeThrough(key types.Key, value types.Value, metadata types.Metadata) {
	if s.cfg.Durability == nil {
		return
	}
	ctx := context.Background()
	rec := types.Record{Key: key, Current: append(types.Value(nil), value...), Metadata: metadata}
	if err := s.cfg.Durability.Store(ctx, "current", string(key), rec); err != nil {
		s.cfg.Logger.Warn(ctx, "temporal: durability write-through failed", logging.String("key", string(key)), logging.Error(err))
	}
}

// Get returns the current record for key. A reader sees a
// point-in-time-consistent snapshot of current value and metadata (the
// returned Record's History is left empty; see History) even if a write
// to the same key is concurrently in
// flight: the snapshot is taken entirely under the entry's read lock, so
// it reflects either the state before or after that write, never a mix.
func (s *Store) Get(key types.Key) (types.Record, error) {
	e := s.entryFor(key, false)
	if e == nil {
		return types.Record{}, errors.ErrNotFound.WithDetail("key", string(key))
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.deleted {
		return types.Record{}, errors.ErrNotFound.WithDetail("key", string(key))
	}

	return types.Record{
		Key:      key,
		Current:  append(types.Value(nil), e.current...),
		Metadata: e.metadata,
	}, nil
}

// History returns up to limit of key's most recent history entries,
// newest first. limit <= 0 means unbounded (subject to the store's own
// MaxHistoryPerKey retention).
func (s *Store) History(key types.Key, limit int) ([]types.HistoryEntry, error) {
	e := s.entryFor(key, false)
	if e == nil {
		return nil, errors.ErrNotFound.WithDetail("key", string(key))
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	n := len(e.history)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]types.HistoryEntry, n)
	for i := 0; i < n; i++ {
		out[i] = e.history[len(e.history)-1-i]
	}
	return out, nil
}

// Delete removes key's current value. History is retained and History
// continues to answer for the key's past; Get returns NotFound until
// the key is written again.
func (s *Store) Delete(key types.Key) error {
	e := s.entryFor(key, false)
	if e == nil {
		return errors.ErrNotFound.WithDetail("key", string(key))
	}

	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return errors.ErrNotFound.WithDetail("key", string(key))
	}
	e.deleted = true
	e.current = nil
	e.mu.Unlock()

	if s.cfg.Durability != nil {
		ctx := context.Background()
		if err := s.cfg.Durability.Delete(ctx, "current", string(key)); err != nil {
			s.cfg.Logger.Warn(ctx, "temporal: durability delete failed", logging.String("key", string(key)), logging.Error(err))
		}
	}

	s.publish(ChangeEvent{Kind: ChangeDelete, Key: key, Timestamp: s.now()})
	return nil
}

// entryFor returns the entry for key, creating it if create is true and
// it does not yet exist.
func (s *Store) entryFor(key types.Key, create bool) *entry {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return e
	}
	if !create {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		return e
	}
	e = &entry{metadata: types.Metadata{}}
	s.entries[key] = e
	return e
}

func appendBounded(history []types.HistoryEntry, e types.HistoryEntry, max int) []types.HistoryEntry {
	history = append(history, e)
	if max > 0 && len(history) > max {
		history = history[len(history)-max:]
	}
	return history
}
