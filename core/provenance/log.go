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

// Package provenance implements an append-only log of primitive
// invocations (§4.6) with an optional Ed25519 signature chain over
// each record's blake3 content hash, so a caller holding the log's
// public key can detect tampering in transit to an external UI.
package provenance

import (
	"context"
	"encoding/json"
	"sync"

	"lukechampine.com/blake3"

	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// Entry is one logged record: the provenance record itself, its
// content hash, the hash of the entry preceding it (chaining the
// log), and a signature over Hash when a Signer is configured.
type Entry struct {
	Record    types.ProvenanceRecord `json:"record"`
	Hash      string                 `json:"hash"`
	PrevHash  string                 `json:"prev_hash,omitempty"`
	Signature string                 `json:"signature,omitempty"`
	KeyID     string                 `json:"key_id,omitempty"`
}

// Log is an in-memory, append-only, optionally-signed provenance log.
// It implements primitives.ProvenanceRecorder.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	signer   *Signer
	lastHash string
	cap      int
}

// Config controls Log construction. Signer may be nil, in which case
// entries are hash-chained but not signed. Capacity bounds the number
// of retained entries; 0 means unbounded.
type Config struct {
	Signer   *Signer
	Capacity int
}

// New creates a Log.
func New(cfg Config) *Log {
	return &Log{signer: cfg.Signer, cap: cfg.Capacity}
}

// Record appends rec to the log, satisfying primitives.ProvenanceRecorder.
// It never returns an error to the caller: a record that cannot be
// marshaled for hashing is kept as an entry with an empty hash, and a
// signing failure leaves the hashed entry unsigned, rather than silently
// dropping the invocation it describes.
func (l *Log) Record(_ context.Context, rec types.ProvenanceRecord) {
	entry := l.build(rec)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	l.lastHash = entry.Hash
	if l.cap > 0 && len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
}

func (l *Log) build(rec types.ProvenanceRecord) Entry {
	l.mu.RLock()
	prev := l.lastHash
	l.mu.RUnlock()

	payload, err := json.Marshal(rec)
	if err != nil {
		return Entry{Record: rec, PrevHash: prev}
	}

	sum := blake3.Sum256(append([]byte(prev), payload...))
	hash := encodeHash(sum[:])

	entry := Entry{Record: rec, Hash: hash, PrevHash: prev}
	if l.signer != nil {
		if sig, sigErr := l.signer.Sign(hash); sigErr == nil {
			entry.Signature = sig
			entry.KeyID = l.signer.KeyID()
		}
	}
	return entry
}

// Entries returns a snapshot of every entry currently retained.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Since returns every entry with Record.Timestamp >= ts, oldest first.
func (l *Log) Since(ts int64) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Record.Timestamp >= ts {
			out = append(out, e)
		}
	}
	return out
}

// VerifyChain recomputes every entry's hash and, when a Signer is
// configured, its signature, confirming both the hash chain links
// correctly and (if signed) that no entry was altered after signing.
func (l *Log) VerifyChain() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// After Capacity eviction the oldest retained entry chains to a
	// dropped one, so the walk starts from its recorded PrevHash.
	prev := ""
	if len(l.entries) > 0 {
		prev = l.entries[0].PrevHash
	}
	for i, e := range l.entries {
		payload, err := json.Marshal(e.Record)
		if err != nil {
			return errors.New(errors.CategoryConsistency, "PROVENANCE_MARSHAL_FAILED", "entry could not be re-marshaled").
				WithDetail("index", i)
		}
		sum := blake3.Sum256(append([]byte(prev), payload...))
		if encodeHash(sum[:]) != e.Hash {
			return errors.New(errors.CategoryConsistency, "PROVENANCE_CHAIN_BROKEN", "entry hash does not match its recomputed content hash").
				WithDetail("index", i)
		}
		if l.signer != nil && e.Signature != "" {
			if err := l.signer.Verify(e.Hash, e.Signature); err != nil {
				return errors.New(errors.CategoryConsistency, "PROVENANCE_SIGNATURE_INVALID", "entry signature failed verification").
					WithDetail("index", i)
			}
		}
		prev = e.Hash
	}
	return nil
}
