// Package events implements the §6 pub/sub event feed: a broadcaster
// that fans out primitive_executed, crdt_operation, conflict_detected,
// conflict_resolved, agent_joined, and agent_left records to any number
// of subscribers, with a websocket transport for out-of-process
// consumers. This is a side channel, never the JSON-RPC request/response
// stream itself.
package events

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/agrama-db/agrama/pkg/types"
)

// Config controls Broadcaster construction.
type Config struct {
	// BufferSize is each subscriber's event channel capacity. A
	// subscriber that falls BufferSize events behind has each further
	// event dropped (the queued ones are kept) rather than stalling
	// Emit — the feed is
	// best-effort, never a backpressure source for the primitive
	// engine that calls Emit.
	BufferSize int
}

func (c *Config) applyDefaults() {
	if c.BufferSize <= 0 {
		c.BufferSize = 64
	}
}

// Broadcaster fans out Events to every current subscriber. Its Emit
// method has the exact signature core/primitives.EventEmitter,
// core/crdt.EventEmitter, and core/session.EventEmitter each declare, so
// one Broadcaster instance satisfies all three without any of those
// packages importing this one.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]chan types.Event
	cfg  Config
}

// New creates a Broadcaster.
func New(cfg Config) *Broadcaster {
	cfg.applyDefaults()
	return &Broadcaster{subs: make(map[string]chan types.Event), cfg: cfg}
}

// Emit delivers evt to every current subscriber. Delivery is
// non-blocking per subscriber: a full channel has its event dropped for
// that one subscriber rather than blocking the caller, since Emit is
// invoked from hot paths (primitive execution, CRDT operation apply)
// that must never stall on a slow consumer.
func (b *Broadcaster) Emit(_ context.Context, evt types.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its event channel
// and a cancel function that must be called to release it.
func (b *Broadcaster) Subscribe() (<-chan types.Event, func()) {
	id := subscriberID()
	ch := make(chan types.Event, b.cfg.BufferSize)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if existing, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(existing)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// SubscriberCount reports how many subscribers are currently attached.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func subscriberID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
