// SPDX-License-Identifier: LGPL-3.0-or-later

package session

import (
	"context"
	"testing"
	"time"

	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

type recordingEmitter struct {
	events []types.Event
}

func (r *recordingEmitter) Emit(_ context.Context, evt types.Event) {
	r.events = append(r.events, evt)
}

func TestJoinCreatesSessionAndEmitsEvent(t *testing.T) {
	emitter := &recordingEmitter{}
	r := New(Config{Events: emitter})
	defer r.Close()
	ctx := context.Background()

	sess, err := r.Join(ctx, "agent-a", "peer-1")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if sess.AgentID != "agent-a" || sess.State != StateActive {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if len(emitter.events) != 1 || emitter.events[0].Type != types.EventAgentJoined {
		t.Fatalf("expected one EventAgentJoined, got %+v", emitter.events)
	}
}

func TestJoinReusesExistingSessionForSameAgent(t *testing.T) {
	r := New(Config{})
	defer r.Close()
	ctx := context.Background()

	s1, err := r.Join(ctx, "agent-a", "peer-1")
	if err != nil {
		t.Fatalf("Join 1: %v", err)
	}
	s2, err := r.Join(ctx, "agent-a", "peer-1")
	if err != nil {
		t.Fatalf("Join 2: %v", err)
	}
	if s1.ID != s2.ID {
		t.Fatalf("expected reused session, got distinct IDs %q and %q", s1.ID, s2.ID)
	}
	if r.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", r.Count())
	}
}

func TestJoinEnforcesConnectionCap(t *testing.T) {
	r := New(Config{MaxConnections: 1, RatePerSecond: 1000, Burst: 1000})
	defer r.Close()
	ctx := context.Background()

	if _, err := r.Join(ctx, "agent-a", "peer-1"); err != nil {
		t.Fatalf("Join agent-a: %v", err)
	}
	_, err := r.Join(ctx, "agent-b", "peer-2")
	if !errors.Is(err, errors.ErrConnectionCapExceeded) {
		t.Fatalf("Join agent-b = %v, want ErrConnectionCapExceeded", err)
	}
}

func TestJoinEnforcesPerPeerRateLimit(t *testing.T) {
	r := New(Config{RatePerSecond: 1, Burst: 1})
	defer r.Close()
	ctx := context.Background()

	if _, err := r.Join(ctx, "agent-a", "peer-1"); err != nil {
		t.Fatalf("Join agent-a: %v", err)
	}
	_, err := r.Join(ctx, "agent-b", "peer-1")
	if !errors.Is(err, errors.ErrRateLimitExceeded) {
		t.Fatalf("Join agent-b from same peer = %v, want ErrRateLimitExceeded", err)
	}
}

func TestLeaveClosesSessionAndEmitsEvent(t *testing.T) {
	emitter := &recordingEmitter{}
	r := New(Config{Events: emitter})
	defer r.Close()
	ctx := context.Background()

	sess, err := r.Join(ctx, "agent-a", "peer-1")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := r.Leave(ctx, sess.ID); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if _, err := r.Get(sess.ID); !errors.Is(err, errors.ErrSessionNotFound) {
		t.Fatalf("Get after Leave = %v, want ErrSessionNotFound", err)
	}
	if r.IsActive("agent-a") {
		t.Fatalf("expected agent-a inactive after Leave")
	}

	var sawLeft bool
	for _, evt := range emitter.events {
		if evt.Type == types.EventAgentLeft {
			sawLeft = true
		}
	}
	if !sawLeft {
		t.Fatalf("expected an EventAgentLeft, got %+v", emitter.events)
	}
}

func TestLeaveUnknownSession(t *testing.T) {
	r := New(Config{})
	defer r.Close()
	if err := r.Leave(context.Background(), "nope"); !errors.Is(err, errors.ErrSessionNotFound) {
		t.Fatalf("Leave(unknown) = %v, want ErrSessionNotFound", err)
	}
}

func TestSetCursorAndClock(t *testing.T) {
	r := New(Config{})
	defer r.Close()
	ctx := context.Background()

	sess, err := r.Join(ctx, "agent-a", "peer-1")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := r.SetCursor(sess.ID, "doc1", "B"); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}
	clock := types.VectorClock{"agent-a": 3}
	if err := r.SetClock(sess.ID, "doc1", clock); err != nil {
		t.Fatalf("SetClock: %v", err)
	}

	got, err := r.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Cursors["doc1"] != "B" {
		t.Fatalf("Cursors[doc1] = %q, want %q", got.Cursors["doc1"], "B")
	}
	if got.Clocks["doc1"]["agent-a"] != 3 {
		t.Fatalf("Clocks[doc1] = %+v, want agent-a: 3", got.Clocks["doc1"])
	}

	// Mutating the clock passed in must not alias the stored copy.
	clock["agent-a"] = 99
	if got.Clocks["doc1"]["agent-a"] != 3 {
		t.Fatalf("SetClock did not clone its input: stored value changed to %d", got.Clocks["doc1"]["agent-a"])
	}
}

func TestIsActiveForUnknownAgent(t *testing.T) {
	r := New(Config{})
	defer r.Close()
	if r.IsActive("nobody") {
		t.Fatalf("expected IsActive(unknown) to be false")
	}
}

func TestReapIdleClosesStaleSessions(t *testing.T) {
	emitter := &recordingEmitter{}
	r := New(Config{IdleTimeout: 10 * time.Millisecond, ReapInterval: time.Hour, Events: emitter})
	defer r.Close()
	ctx := context.Background()

	sess, err := r.Join(ctx, "agent-a", "peer-1")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if n := r.ReapIdle(ctx); n != 1 {
		t.Fatalf("ReapIdle() = %d, want 1", n)
	}
	if _, err := r.Get(sess.ID); !errors.Is(err, errors.ErrSessionNotFound) {
		t.Fatalf("Get after reap = %v, want ErrSessionNotFound", err)
	}
}

func TestTouchPreventsReap(t *testing.T) {
	r := New(Config{IdleTimeout: 30 * time.Millisecond, ReapInterval: time.Hour})
	defer r.Close()
	ctx := context.Background()

	sess, err := r.Join(ctx, "agent-a", "peer-1")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := r.Touch(sess.ID); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if n := r.ReapIdle(ctx); n != 0 {
		t.Fatalf("ReapIdle() = %d, want 0 (session was touched)", n)
	}
}

func TestEmergencyCloseAll(t *testing.T) {
	emitter := &recordingEmitter{}
	r := New(Config{RatePerSecond: 1000, Burst: 1000, Events: emitter})
	defer r.Close()
	ctx := context.Background()

	if _, err := r.Join(ctx, "agent-a", "peer-1"); err != nil {
		t.Fatalf("Join agent-a: %v", err)
	}
	if _, err := r.Join(ctx, "agent-b", "peer-2"); err != nil {
		t.Fatalf("Join agent-b: %v", err)
	}

	if n := r.EmergencyCloseAll(ctx); n != 2 {
		t.Fatalf("EmergencyCloseAll() = %d, want 2", n)
	}
	if r.Count() != 0 {
		t.Fatalf("Count() after EmergencyCloseAll = %d, want 0", r.Count())
	}
	if r.IsActive("agent-a") || r.IsActive("agent-b") {
		t.Fatalf("expected no active agents after EmergencyCloseAll")
	}
}

func TestGetByAgent(t *testing.T) {
	r := New(Config{})
	defer r.Close()
	ctx := context.Background()

	sess, err := r.Join(ctx, "agent-a", "peer-1")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	got, err := r.GetByAgent("agent-a")
	if err != nil {
		t.Fatalf("GetByAgent: %v", err)
	}
	if got.ID != sess.ID {
		t.Fatalf("GetByAgent returned %q, want %q", got.ID, sess.ID)
	}
	if _, err := r.GetByAgent("nobody"); !errors.Is(err, errors.ErrSessionNotFound) {
		t.Fatalf("GetByAgent(unknown) = %v, want ErrSessionNotFound", err)
	}
}
