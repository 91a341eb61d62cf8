// Package pool implements §4.11's memory pools: a fixed-capacity JSON
// response-object pool, an unbounded []uint64 slice pool, a
// 32-byte-aligned vector byte pool, and the arena allocator handed to
// every primitive invocation (§4.6, §4.9, §9). Pools return objects in a
// cleared state; callers must not retain a pooled object past Put.
package pool
