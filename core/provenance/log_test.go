// SPDX-License-Identifier: LGPL-3.0-or-later

package provenance

import (
	"context"
	"testing"

	"github.com/agrama-db/agrama/pkg/types"
)

func TestLogRecordAndEntries(t *testing.T) {
	l := New(Config{})
	ctx := context.Background()

	l.Record(ctx, types.ProvenanceRecord{Primitive: "store", AgentID: "a1", Timestamp: 1})
	l.Record(ctx, types.ProvenanceRecord{Primitive: "retrieve", AgentID: "a1", Timestamp: 2})

	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Hash == "" || entries[1].Hash == "" {
		t.Error("entries should have non-empty content hashes")
	}
	if entries[1].PrevHash != entries[0].Hash {
		t.Error("second entry's PrevHash should chain to the first entry's Hash")
	}
}

func TestLogVerifyChainUnsigned(t *testing.T) {
	l := New(Config{})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		l.Record(ctx, types.ProvenanceRecord{Primitive: "store", Timestamp: int64(i)})
	}
	if err := l.VerifyChain(); err != nil {
		t.Errorf("VerifyChain() = %v, want nil for an untampered chain", err)
	}
}

func TestLogVerifyChainDetectsTamper(t *testing.T) {
	l := New(Config{})
	ctx := context.Background()
	l.Record(ctx, types.ProvenanceRecord{Primitive: "store", Timestamp: 1})
	l.Record(ctx, types.ProvenanceRecord{Primitive: "retrieve", Timestamp: 2})

	l.entries[0].Record.Primitive = "tampered"

	if err := l.VerifyChain(); err == nil {
		t.Error("VerifyChain() = nil, want an error after mutating a logged record")
	}
}

func TestLogSignedEntries(t *testing.T) {
	signer, err := GenerateSigner("key-1")
	if err != nil {
		t.Fatalf("GenerateSigner() error = %v", err)
	}
	l := New(Config{Signer: signer})
	l.Record(context.Background(), types.ProvenanceRecord{Primitive: "link", Timestamp: 1})

	entries := l.Entries()
	if entries[0].Signature == "" {
		t.Error("Signature should be populated when a Signer is configured")
	}
	if entries[0].KeyID != "key-1" {
		t.Errorf("KeyID = %q, want key-1", entries[0].KeyID)
	}
	if err := l.VerifyChain(); err != nil {
		t.Errorf("VerifyChain() = %v, want nil for a validly signed chain", err)
	}
}

func TestLogCapacityEviction(t *testing.T) {
	l := New(Config{Capacity: 2})
	ctx := context.Background()
	l.Record(ctx, types.ProvenanceRecord{Primitive: "a", Timestamp: 1})
	l.Record(ctx, types.ProvenanceRecord{Primitive: "b", Timestamp: 2})
	l.Record(ctx, types.ProvenanceRecord{Primitive: "c", Timestamp: 3})

	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 after exceeding capacity", len(entries))
	}
	if entries[0].Record.Primitive != "b" || entries[1].Record.Primitive != "c" {
		t.Errorf("entries = %+v, want the two most recent records", entries)
	}
}

func TestLogSince(t *testing.T) {
	l := New(Config{})
	ctx := context.Background()
	l.Record(ctx, types.ProvenanceRecord{Primitive: "a", Timestamp: 10})
	l.Record(ctx, types.ProvenanceRecord{Primitive: "b", Timestamp: 20})
	l.Record(ctx, types.ProvenanceRecord{Primitive: "c", Timestamp: 30})

	recent := l.Since(20)
	if len(recent) != 2 {
		t.Fatalf("len(Since(20)) = %d, want 2", len(recent))
	}
}
