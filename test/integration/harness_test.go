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

//go:build e2e

// Package integration exercises the assembled engine — temporal
// store, BM25, HNSW, FRE, hybrid query, and CRDT — through
// core/primitives.Engine exactly as server/rpc.Dispatcher would
// invoke it, rather than through any single component's package
// tests.
package integration

import (
	"testing"

	"github.com/agrama-db/agrama/core/embedding"
	"github.com/agrama-db/agrama/core/index/bm25"
	"github.com/agrama-db/agrama/core/index/fre"
	"github.com/agrama-db/agrama/core/index/hnsw"
	"github.com/agrama-db/agrama/core/primitives"
	"github.com/agrama-db/agrama/core/query"
	"github.com/agrama-db/agrama/core/temporal"
	"github.com/agrama-db/agrama/core/transform"
)

const testEmbedDimension = 32

// newTestEngine assembles a full primitives.Engine over fresh,
// in-memory components, mirroring how cmd/agramad wires the same
// pieces at startup.
func newTestEngine(t *testing.T) *primitives.Engine {
	t.Helper()

	lex := bm25.New(bm25.DefaultConfig())
	sem := hnsw.New(hnsw.DefaultConfig(testEmbedDimension))
	graph := fre.NewGraph()
	freEngine := fre.New(graph, fre.DefaultConfig())
	embedder := embedding.NewMockProvider(testEmbedDimension)
	hybrid := query.New(lex, sem, freEngine, embedder, query.Config{CacheCapacity: 64})
	store := temporal.New(nil)

	reg := primitives.BuiltinRegistry(transform.BuiltinRegistry(transform.Config{Embedder: embedder}))
	return primitives.New(reg, primitives.Config{
		Temporal: store,
		Lex:      lex,
		Sem:      sem,
		Graph:    graph,
		FRE:      freEngine,
		Hybrid:   hybrid,
		Embedder: embedder,
	})
}
