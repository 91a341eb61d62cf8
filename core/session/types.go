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

// Package session implements the §4.8 agent session registry: admission
// (connection cap, per-peer rate limit), idle reaping, and the
// cursor/vector-clock storage the CRDT engine's CursorUpdate consults for
// presence.
package session

import (
	"time"

	"github.com/agrama-db/agrama/pkg/types"
)

// State tracks where a session sits in its lifecycle.
type State string

const (
	StateActive State = "active"
	StateIdle   State = "idle"
	StateClosed State = "closed"
)

// Session is one connected agent's registry entry. Cursors and Clocks are
// keyed by document ID, mirroring the per-document state core/crdt keeps,
// so a reconnecting agent can be told where it left off without crdt
// needing to expose its internal Document type.
type Session struct {
	ID         string
	AgentID    string
	PeerHash   string
	State      State
	JoinedAt   time.Time
	LastActive time.Time
	Cursors    map[string]string
	Clocks     map[string]types.VectorClock
}

func newSession(id, agentID, peerHash string, now time.Time) *Session {
	return &Session{
		ID:         id,
		AgentID:    agentID,
		PeerHash:   peerHash,
		State:      StateActive,
		JoinedAt:   now,
		LastActive: now,
		Cursors:    make(map[string]string),
		Clocks:     make(map[string]types.VectorClock),
	}
}

func (s *Session) idleSince(now time.Time, timeout time.Duration) bool {
	return timeout > 0 && now.Sub(s.LastActive) > timeout
}
