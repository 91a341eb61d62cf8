package crdt

import (
	"testing"

	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

func TestCausalBufferOverflow(t *testing.T) {
	b := newCausalBuffer(1)
	op1 := Operation{ID: "op1", DocID: "doc1", AgentID: "a1", Clock: types.VectorClock{"a1": 2}}
	op2 := Operation{ID: "op2", DocID: "doc1", AgentID: "a1", Clock: types.VectorClock{"a1": 3}}

	if err := b.add(op1); err != nil {
		t.Fatalf("add(op1) = %v, want nil", err)
	}
	err := b.add(op2)
	if !errors.Is(err, errors.ErrCausalityViolation) {
		t.Fatalf("add(op2) = %v, want ErrCausalityViolation", err)
	}
}

func TestCausalBufferDrainFixpoint(t *testing.T) {
	b := newCausalBuffer(0)
	// op2 depends on op1 (agent a1 tick 1 then 2); buffer them out of order.
	op2 := Operation{ID: "op2", AgentID: "a1", Clock: types.VectorClock{"a1": 2}}
	op1 := Operation{ID: "op1", AgentID: "a1", Clock: types.VectorClock{"a1": 1}}
	if err := b.add(op2); err != nil {
		t.Fatalf("add(op2): %v", err)
	}
	if err := b.add(op1); err != nil {
		t.Fatalf("add(op1): %v", err)
	}

	clock := types.VectorClock{}
	var applied []string
	b.drain(
		func() types.VectorClock { return clock },
		func(op Operation) error {
			applied = append(applied, op.ID)
			clock = clock.Merge(op.Clock)
			return nil
		},
	)

	if len(applied) != 2 || applied[0] != "op1" || applied[1] != "op2" {
		t.Fatalf("applied = %v, want [op1 op2] in causal order", applied)
	}
	if len(b.pending) != 0 {
		t.Fatalf("expected buffer drained, got %d pending", len(b.pending))
	}
}

func TestCausalBufferDrainLeavesUnreadyOpsPending(t *testing.T) {
	b := newCausalBuffer(0)
	op := Operation{ID: "op1", AgentID: "a1", Clock: types.VectorClock{"a1": 5}}
	if err := b.add(op); err != nil {
		t.Fatalf("add: %v", err)
	}

	clock := types.VectorClock{}
	var applied []string
	b.drain(
		func() types.VectorClock { return clock },
		func(op Operation) error {
			applied = append(applied, op.ID)
			return nil
		},
	)
	if len(applied) != 0 {
		t.Fatalf("expected no progress, got %v", applied)
	}
	if len(b.pending) != 1 {
		t.Fatalf("expected op to remain buffered, got %d pending", len(b.pending))
	}
}
