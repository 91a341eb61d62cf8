package crdt

import (
	"sort"
	"strings"
	"sync"

	"github.com/agrama-db/agrama/pkg/types"
)

// entry is one live or tombstoned element of a document's sequence,
// kept sorted by Position.
type entry struct {
	Position string
	Value    string
	Deleted  bool
	OpID     string
}

// Document holds one collaboratively-edited document's full state
// (§4.7): the agent set, vector clock, ordered operation log,
// materialized content, per-agent cursors, and conflict history. All
// mutation goes through Engine, which serializes access via mu.
type Document struct {
	mu sync.Mutex

	ID          string
	Agents      map[string]struct{}
	Clock       types.VectorClock
	Operations  []Operation
	Cursors     map[string]string
	ConflictLog []ConflictEvent

	entries  []entry
	opByID   map[string]Operation
	buffer   *causalBuffer
	resolver Resolver
}

func newDocument(id string, resolver Resolver, bufferCapacity int) *Document {
	return &Document{
		ID:       id,
		Agents:   make(map[string]struct{}),
		Clock:    make(types.VectorClock),
		Cursors:  make(map[string]string),
		opByID:   make(map[string]Operation),
		buffer:   newCausalBuffer(bufferCapacity),
		resolver: resolver,
	}
}

// Text materializes the document's current visible content by
// concatenating non-deleted entries in position order.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var sb strings.Builder
	for _, e := range d.entries {
		if !e.Deleted {
			sb.WriteString(e.Value)
		}
	}
	return sb.String()
}

// neighbors returns the positions immediately at-or-before and after
// anchor, used to compute a fresh insertion position. Caller must hold
// d.mu.
func (d *Document) neighbors(anchor string) (lo, hi string) {
	idx := sort.Search(len(d.entries), func(i int) bool { return d.entries[i].Position > anchor })
	lo = anchor
	if idx < len(d.entries) {
		hi = d.entries[idx].Position
	}
	return lo, hi
}

// findEntry returns the index of the entry at position, if any. Caller
// must hold d.mu.
func (d *Document) findEntry(position string) (int, bool) {
	idx := sort.Search(len(d.entries), func(i int) bool { return d.entries[i].Position >= position })
	if idx < len(d.entries) && d.entries[idx].Position == position {
		return idx, true
	}
	return -1, false
}

// insertEntry inserts e keeping d.entries sorted by Position. Caller
// must hold d.mu.
func (d *Document) insertEntry(e entry) {
	idx := sort.Search(len(d.entries), func(i int) bool { return d.entries[i].Position >= e.Position })
	d.entries = append(d.entries, entry{})
	copy(d.entries[idx+1:], d.entries[idx:])
	d.entries[idx] = e
}

// apply mutates document state for op (already causally ready) and
// reports a conflict if op collides with an existing entry under a
// concurrent vector clock. §4.7 describes conflicts in terms of
// "overlapping position span"; because each operation here edits
// exactly one position (not a character run), overlap degenerates to
// exact position equality. Caller must hold d.mu.
func (d *Document) apply(op Operation) *ConflictEvent {
	d.Agents[op.AgentID] = struct{}{}

	var conflict *ConflictEvent
	switch op.Kind {
	case OpInsert:
		if idx, ok := d.findEntry(op.Position); ok {
			if existing, ok := d.opByID[d.entries[idx].OpID]; ok && existing.Clock.Compare(op.Clock) == types.ClockConcurrent {
				conflict = &ConflictEvent{DocID: d.ID, A: existing, B: op}
			}
		}
		d.insertEntry(entry{Position: op.Position, Value: op.Value, OpID: op.ID})
	case OpDelete:
		if idx, ok := d.findEntry(op.Position); ok {
			if existing, ok := d.opByID[d.entries[idx].OpID]; ok && existing.Clock.Compare(op.Clock) == types.ClockConcurrent {
				conflict = &ConflictEvent{DocID: d.ID, A: existing, B: op}
			}
			d.entries[idx].Deleted = true
		}
		// Deleting a position with no current entry is treated as an
		// idempotent no-op: the position was already removed by a
		// concurrently-delivered delete of the same edit.
	}

	d.opByID[op.ID] = op
	d.Operations = append(d.Operations, op)
	return conflict
}
