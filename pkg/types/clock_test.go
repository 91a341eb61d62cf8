package types

import "testing"

func TestVectorClockCompare(t *testing.T) {
	tests := []struct {
		name string
		a    VectorClock
		b    VectorClock
		want ClockOrder
	}{
		{"equal empty", VectorClock{}, VectorClock{}, ClockEqual},
		{"equal", VectorClock{"a": 1, "b": 2}, VectorClock{"a": 1, "b": 2}, ClockEqual},
		{"before", VectorClock{"a": 1}, VectorClock{"a": 2}, ClockBefore},
		{"after", VectorClock{"a": 2}, VectorClock{"a": 1}, ClockAfter},
		{"concurrent", VectorClock{"a": 2, "b": 0}, VectorClock{"a": 0, "b": 2}, ClockConcurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVectorClockTickMonotonic(t *testing.T) {
	vc := VectorClock{}
	for i := 0; i < 5; i++ {
		vc.Tick("agent-a")
	}
	if vc["agent-a"] != 5 {
		t.Errorf("agent-a component = %d, want 5", vc["agent-a"])
	}
}

func TestVectorClockMerge(t *testing.T) {
	a := VectorClock{"a": 3, "b": 1}
	b := VectorClock{"a": 1, "b": 5, "c": 2}

	merged := a.Merge(b)
	if merged["a"] != 3 || merged["b"] != 5 || merged["c"] != 2 {
		t.Errorf("Merge() = %v, want {a:3 b:5 c:2}", merged)
	}
	// a must not be mutated.
	if a["c"] != 0 {
		t.Errorf("Merge() mutated receiver")
	}
}

func TestVectorClockDominatesOrEqual(t *testing.T) {
	vc := VectorClock{"a": 3, "b": 2}

	if !vc.DominatesOrEqual(VectorClock{"a": 2, "b": 2}) {
		t.Error("expected dominance")
	}
	if vc.DominatesOrEqual(VectorClock{"a": 4}) {
		t.Error("expected non-dominance")
	}
	if !vc.DominatesOrEqual(VectorClock{}) {
		t.Error("empty dependency set should always be satisfied")
	}
}
