package crdt

import "strings"

// alphabet is the base62 digit set positions are built from. Ordering of
// the alphabet string is the ordering used for digit comparison, which
// happens to also be plain byte/lexicographic order — so a position
// string can be compared with ordinary string comparison.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const maxPositionDigits = 64

func digitIndex(b byte) int {
	return strings.IndexByte(alphabet, b)
}

// between returns a position string p such that lo < p < hi, treating
// both bounds as base62 fractional keys. lo == "" means "no lower
// bound", hi == "" means "no upper bound". Panics are avoided by
// capping recursion depth; pathological inputs fall back to the
// longest prefix built so far rather than looping forever.
func between(lo, hi string) string {
	var out []byte
	for i := 0; i < maxPositionDigits; i++ {
		loDigit := 0
		if i < len(lo) {
			loDigit = digitIndex(lo[i])
		}
		hiDigit := len(alphabet)
		if hi != "" {
			hiDigit = 0
			if i < len(hi) {
				hiDigit = digitIndex(hi[i])
			}
		}

		if hiDigit-loDigit > 1 {
			out = append(out, alphabet[loDigit+(hiDigit-loDigit)/2])
			return string(out)
		}
		out = append(out, alphabet[loDigit])
	}
	return string(out)
}

// newPosition computes a position for an insertion between lo and hi,
// then appends a short agent-derived suffix built only from alphabet
// characters (so the result remains a valid input to between() for any
// later insertion relative to it). Two concurrent inserts at the same
// anchor (identical lo/hi, neither having seen the other's edit yet)
// independently compute the same base midpoint; the suffix makes their
// final keys differ while keeping the ordering a pure function of
// (position string, agent_id) — §4.7's required tie-break.
func newPosition(lo, hi, agentID string) string {
	base := between(lo, hi)
	if agentID == "" {
		return base
	}
	return base + string(alphabet[agentDigit(agentID)])
}

// agentDigit maps an agent id to a stable index into alphabet, so the
// tie-break suffix is deterministic across replicas without needing
// every replica to agree on a shared numbering of agents in advance.
func agentDigit(agentID string) int {
	var h uint32 = 2166136261
	for i := 0; i < len(agentID); i++ {
		h ^= uint32(agentID[i])
		h *= 16777619
	}
	return int(h % uint32(len(alphabet)))
}
