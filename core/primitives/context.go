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

package primitives

import (
	"time"

	"github.com/agrama-db/agrama/core/embedding"
	"github.com/agrama-db/agrama/core/index/bm25"
	"github.com/agrama-db/agrama/core/index/fre"
	"github.com/agrama-db/agrama/core/index/hnsw"
	"github.com/agrama-db/agrama/core/pathvalidator"
	"github.com/agrama-db/agrama/core/pool"
	"github.com/agrama-db/agrama/core/query"
	"github.com/agrama-db/agrama/core/temporal"
	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// Context is the PrimitiveContext §4.6 constructs fresh for every
// invocation. A primitive must not retain a reference to Arena past its
// Execute call — the arena is reset and handed to the next invocation
// once this one returns.
type Context struct {
	Arena    *pool.Arena
	Temporal *temporal.Store
	Lex      *bm25.Index
	Sem      *hnsw.Index
	Graph    *fre.Graph
	FRE      *fre.Engine
	Hybrid   *query.Engine
	Embedder embedding.Provider

	PathValidator *pathvalidator.Validator

	EmbedThreshold int

	AgentID   string
	SessionID string
	Timestamp int64

	deadline time.Time
}

// ValidateKey applies PathValidator to key when one is configured.
// Most deployments leave PathValidator nil, since Key is opaque to the
// indices by default (§4.10 applies only when a caller chooses
// path-shaped keys).
func (c *Context) ValidateKey(key types.Key) error {
	if c.PathValidator == nil {
		return nil
	}
	return c.PathValidator.Validate(key)
}

// CheckDeadline is the cooperative checkpoint primitives call from
// inside a loop over unbounded input. It returns
// errors.ErrDeadlineExceeded once the invocation's deadline has
// passed, letting FRE/HNSW/hybrid-style iteration bail out instead of
// running to completion on an already-abandoned request.
func (c *Context) CheckDeadline() error {
	if c.deadline.IsZero() {
		return nil
	}
	if time.Now().After(c.deadline) {
		return errors.ErrDeadlineExceeded
	}
	return nil
}
