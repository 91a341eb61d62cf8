// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
	"github.com/agrama-db/agrama/ratelimit"
)

// EventEmitter is satisfied by anything that can publish a broadcast
// event; core/events.Broadcaster implements it with the same method set
// core/primitives.EventEmitter and core/crdt.EventEmitter expect.
type EventEmitter interface {
	Emit(ctx context.Context, evt types.Event)
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, types.Event) {}

// Config controls Registry construction. Zero values take the §4.8
// defaults: a 100-connection cap and a 10-new-session-per-second,
// 10-token-burst per-peer rate limit.
type Config struct {
	MaxConnections int
	RatePerSecond  float64
	Burst          int
	IdleTimeout    time.Duration
	ReapInterval   time.Duration
	Events         EventEmitter
}

func (c *Config) applyDefaults() {
	if c.MaxConnections <= 0 {
		c.MaxConnections = 100
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 10
	}
	if c.Burst <= 0 {
		c.Burst = int(c.RatePerSecond)
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 10 * time.Minute
	}
	if c.ReapInterval <= 0 {
		c.ReapInterval = time.Minute
	}
	if c.Events == nil {
		c.Events = noopEmitter{}
	}
}

// Registry tracks every connected agent session, enforcing the
// connection cap and per-peer admission rate, and owning the presence
// data (cursor, last-seen vector clock per document) the CRDT layer
// surfaces through cursor_update.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byAgent  map[string]string

	limiter *ratelimit.TokenBucket
	cfg     Config

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Registry and starts its idle-reaping loop.
func New(cfg Config) *Registry {
	cfg.applyDefaults()
	r := &Registry{
		sessions: make(map[string]*Session),
		byAgent:  make(map[string]string),
		cfg:      cfg,
		stopCh:   make(chan struct{}),
		limiter: ratelimit.NewTokenBucket(ratelimit.TokenBucketConfig{
			Rate:     cfg.RatePerSecond,
			Capacity: cfg.Burst,
			Config:   ratelimit.Config{CleanupInterval: cfg.ReapInterval},
		}),
	}
	r.wg.Add(1)
	go r.reapLoop()
	return r
}

// Join admits agentID from peerHash, enforcing the rate limit and
// connection cap, and returns its session (reusing an existing open
// session for the same agent rather than minting a duplicate).
func (r *Registry) Join(ctx context.Context, agentID, peerHash string) (*Session, error) {
	if !r.limiter.Allow(peerHash) {
		return nil, errors.ErrRateLimitExceeded.WithDetail("peer_hash", peerHash)
	}

	r.mu.Lock()
	if existingID, ok := r.byAgent[agentID]; ok {
		if existing, ok := r.sessions[existingID]; ok && existing.State != StateClosed {
			existing.State = StateActive
			existing.LastActive = time.Now()
			r.mu.Unlock()
			return existing, nil
		}
	}

	if r.activeCountLocked() >= r.cfg.MaxConnections {
		r.mu.Unlock()
		return nil, errors.ErrConnectionCapExceeded.WithDetail("max_connections", r.cfg.MaxConnections)
	}

	id, err := generateSessionID()
	if err != nil {
		r.mu.Unlock()
		return nil, errors.ErrInternal.WithDetail("reason", err.Error())
	}
	sess := newSession(id, agentID, peerHash, time.Now())
	r.sessions[id] = sess
	r.byAgent[agentID] = id
	r.mu.Unlock()

	r.cfg.Events.Emit(ctx, types.Event{Type: types.EventAgentJoined, Payload: sess.ID, Timestamp: sess.JoinedAt.UnixMilli()})
	return sess, nil
}

// Leave closes sessionID and emits an agent-left event.
func (r *Registry) Leave(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return errors.ErrSessionNotFound.WithDetail("session_id", sessionID)
	}
	sess.State = StateClosed
	delete(r.sessions, sessionID)
	if r.byAgent[sess.AgentID] == sessionID {
		delete(r.byAgent, sess.AgentID)
	}
	r.mu.Unlock()

	r.cfg.Events.Emit(ctx, types.Event{Type: types.EventAgentLeft, Payload: sess.ID, Timestamp: time.Now().UnixMilli()})
	return nil
}

// Get returns sessionID's session.
func (r *Registry) Get(sessionID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		return nil, errors.ErrSessionNotFound.WithDetail("session_id", sessionID)
	}
	return sess, nil
}

// GetByAgent returns agentID's current session.
func (r *Registry) GetByAgent(agentID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byAgent[agentID]
	if !ok {
		return nil, errors.ErrSessionNotFound.WithDetail("agent_id", agentID)
	}
	return r.sessions[id], nil
}

// IsActive reports whether agentID currently holds an open session. It
// is meant to be wired as core/crdt.Config.KnownAgent so a CRDT
// operation cannot reference an identity the registry never admitted.
func (r *Registry) IsActive(agentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byAgent[agentID]
	if !ok {
		return false
	}
	sess, ok := r.sessions[id]
	return ok && sess.State != StateClosed
}

// Touch refreshes sessionID's last-active timestamp, and any session in
// StateIdle reverts to StateActive.
func (r *Registry) Touch(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		return errors.ErrSessionNotFound.WithDetail("session_id", sessionID)
	}
	sess.LastActive = time.Now()
	sess.State = StateActive
	return nil
}

// SetCursor records agentID's cursor position within docID, the
// presence-layer counterpart to core/crdt's per-document cursor map.
func (r *Registry) SetCursor(sessionID, docID, position string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		return errors.ErrSessionNotFound.WithDetail("session_id", sessionID)
	}
	sess.Cursors[docID] = position
	sess.LastActive = time.Now()
	return nil
}

// SetClock records the last vector clock sessionID has observed for
// docID, letting a reconnecting agent resume synchronization from where
// it left off.
func (r *Registry) SetClock(sessionID, docID string, clock types.VectorClock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		return errors.ErrSessionNotFound.WithDetail("session_id", sessionID)
	}
	sess.Clocks[docID] = clock.Clone()
	return nil
}

// List returns every open session.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	return out
}

// Count returns the number of open sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) activeCountLocked() int {
	return len(r.sessions)
}

// ReapIdle closes every session that has been inactive past the
// configured idle timeout, returning the number reaped.
func (r *Registry) ReapIdle(ctx context.Context) int {
	now := time.Now()
	r.mu.Lock()
	var idle []*Session
	for _, sess := range r.sessions {
		if sess.idleSince(now, r.cfg.IdleTimeout) {
			idle = append(idle, sess)
		}
	}
	for _, sess := range idle {
		sess.State = StateClosed
		delete(r.sessions, sess.ID)
		if r.byAgent[sess.AgentID] == sess.ID {
			delete(r.byAgent, sess.AgentID)
		}
	}
	r.mu.Unlock()

	for _, sess := range idle {
		r.cfg.Events.Emit(ctx, types.Event{Type: types.EventAgentLeft, Payload: sess.ID, Timestamp: now.UnixMilli()})
	}
	return len(idle)
}

// EmergencyCloseAll closes every open session immediately, for
// operational response to an incident. It returns the number closed.
func (r *Registry) EmergencyCloseAll(ctx context.Context) int {
	r.mu.Lock()
	closed := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sess.State = StateClosed
		closed = append(closed, sess)
	}
	r.sessions = make(map[string]*Session)
	r.byAgent = make(map[string]string)
	r.mu.Unlock()

	now := time.Now().UnixMilli()
	for _, sess := range closed {
		r.cfg.Events.Emit(ctx, types.Event{Type: types.EventAgentLeft, Payload: sess.ID, Timestamp: now})
	}
	return len(closed)
}

func (r *Registry) reapLoop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.ReapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.ReapIdle(context.Background())
		case <-r.stopCh:
			return
		}
	}
}

// Close stops the idle-reaping goroutine and the underlying rate
// limiter's cleanup loop.
func (r *Registry) Close() {
	close(r.stopCh)
	r.wg.Wait()
	r.limiter.Close()
}

func generateSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return "session-" + hex.EncodeToString(buf), nil
}
