package types

// VectorClock maps an agent identifier to that agent's event counter. Two
// clocks are compared with Compare; the zero value is a valid empty
// clock.
type VectorClock map[string]uint64

// Clone returns an independent copy of vc.
func (vc VectorClock) Clone() VectorClock {
	out := make(VectorClock, len(vc))
	for k, v := range vc {
		out[k] = v
	}
	return out
}

// Tick increments agentID's component and returns the (possibly new)
// clock — vc is mutated in place.
func (vc VectorClock) Tick(agentID string) VectorClock {
	vc[agentID]++
	return vc
}

// Merge returns a new clock that is the component-wise maximum of vc and
// other (standard vector-clock merge on receipt of a remote event).
func (vc VectorClock) Merge(other VectorClock) VectorClock {
	out := vc.Clone()
	for agent, c := range other {
		if c > out[agent] {
			out[agent] = c
		}
	}
	return out
}

// ClockOrder is the result of comparing two vector clocks.
type ClockOrder int

const (
	// ClockEqual means the clocks are identical.
	ClockEqual ClockOrder = iota
	// ClockBefore means vc happened-before other.
	ClockBefore
	// ClockAfter means vc happened-after other.
	ClockAfter
	// ClockConcurrent means neither clock dominates the other.
	ClockConcurrent
)

// Compare determines the happened-before relationship between vc and
// other.
func (vc VectorClock) Compare(other VectorClock) ClockOrder {
	lessFound, greaterFound := false, false

	agents := make(map[string]struct{}, len(vc)+len(other))
	for a := range vc {
		agents[a] = struct{}{}
	}
	for a := range other {
		agents[a] = struct{}{}
	}

	for a := range agents {
		l, r := vc[a], other[a]
		switch {
		case l < r:
			lessFound = true
		case l > r:
			greaterFound = true
		}
	}

	switch {
	case !lessFound && !greaterFound:
		return ClockEqual
	case lessFound && !greaterFound:
		return ClockBefore
	case !lessFound && greaterFound:
		return ClockAfter
	default:
		return ClockConcurrent
	}
}

// DominatesOrEqual reports whether vc has every dependency in dep already
// satisfied, i.e. dep happened-before-or-equal vc.
func (vc VectorClock) DominatesOrEqual(dep VectorClock) bool {
	for agent, c := range dep {
		if vc[agent] < c {
			return false
		}
	}
	return true
}

// Sum returns the sum of all components, used by the default
// last-writer-wins conflict resolver's (vector_clock_sum, agent_id)
// tie-break (§4.7).
func (vc VectorClock) Sum() uint64 {
	var total uint64
	for _, c := range vc {
		total += c
	}
	return total
}
