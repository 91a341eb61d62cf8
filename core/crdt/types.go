// Package crdt implements the §4.7 collaborative document engine: a
// per-document operation log with vector-clock causal delivery,
// fractional-index position assignment, and a pluggable conflict
// resolver, fronted by an Engine that tracks one Document per key.
package crdt

import "github.com/agrama-db/agrama/pkg/types"

// OpKind distinguishes an insertion from a deletion in the operation log.
type OpKind string

const (
	OpInsert OpKind = "insert"
	OpDelete OpKind = "delete"
)

// OpState tracks where an operation sits in its lifecycle:
// pending -> buffered?{missing deps} -> applied -> {conflict?} -> resolved.
// rejected only occurs if a resolver explicitly rejects (the default
// resolver never does).
type OpState string

const (
	StatePending  OpState = "pending"
	StateBuffered OpState = "buffered"
	StateApplied  OpState = "applied"
	StateResolved OpState = "resolved"
	StateRejected OpState = "rejected"
)

// Operation is one CRDT edit: an insertion of Value at Position, or a
// deletion of the element at Position. Clock is the operation's vector
// clock as minted by its originating agent (its own component already
// incremented); causal readiness at a remote replica is judged against
// this snapshot by Operation.ReadyAt.
type Operation struct {
	ID       string          `json:"id"`
	DocID    string          `json:"doc_id"`
	AgentID  string          `json:"agent_id"`
	Kind     OpKind          `json:"kind"`
	Position string          `json:"position"`
	Value    string          `json:"value,omitempty"`
	Clock    types.VectorClock `json:"clock"`
	Timestamp int64          `json:"timestamp"`
	State    OpState         `json:"state"`
}

// ReadyAt reports whether op is causally deliverable given a replica
// whose document vector clock is local: op's own agent must be exactly
// the next in sequence for that agent, and every other agent's
// component in op.Clock must already be reflected in local.
func (op Operation) ReadyAt(local types.VectorClock) bool {
	for agent, c := range op.Clock {
		if agent == op.AgentID {
			if local[agent]+1 != c {
				return false
			}
			continue
		}
		if local[agent] < c {
			return false
		}
	}
	return true
}

// ConflictEvent records a detected concurrent-edit conflict and its
// resolution.
type ConflictEvent struct {
	DocID     string    `json:"doc_id"`
	A         Operation `json:"a"`
	B         Operation `json:"b"`
	Strategy  string    `json:"strategy"`
	Winner    string    `json:"winner"` // operation ID the resolver picked ("" if it declined); both operations stay applied
	Timestamp int64     `json:"timestamp"`
}
