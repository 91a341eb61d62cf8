package crdt

import (
	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// causalBuffer holds remote operations received out of causal order,
// playing the same role an RGA's "pending orphans" map plays for
// parent-less nodes: an operation sits here until every dependency
// named in its vector clock has already been applied locally.
type causalBuffer struct {
	pending []Operation
	cap     int
}

func newCausalBuffer(capacity int) *causalBuffer {
	return &causalBuffer{cap: capacity}
}

// add buffers op, failing with ErrCausalityViolation if doing so would
// exceed the configured capacity — the only case §4.7 calls out as a
// genuine failure rather than a transient wait.
func (b *causalBuffer) add(op Operation) error {
	if b.cap > 0 && len(b.pending) >= b.cap {
		return errors.ErrCausalityViolation.
			WithDetail("doc_id", op.DocID).
			WithDetail("op_id", op.ID)
	}
	b.pending = append(b.pending, op)
	return nil
}

// drain repeatedly scans the buffer for operations that have become
// ready given the current clock (re-evaluated after each successful
// apply, since applying one operation can unblock another), until a
// full pass makes no further progress.
func (b *causalBuffer) drain(clock func() types.VectorClock, apply func(Operation) error) {
	for {
		progressed := false
		remaining := make([]Operation, 0, len(b.pending))
		for _, op := range b.pending {
			if op.ReadyAt(clock()) {
				if err := apply(op); err == nil {
					progressed = true
					continue
				}
			}
			remaining = append(remaining, op)
		}
		b.pending = remaining
		if !progressed {
			return
		}
	}
}
