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

package integration

import (
	"context"
	"testing"

	"github.com/agrama-db/agrama/core/primitives"
)

// corpus seeds three documents long enough to clear the default
// store() embedding threshold, so lexical, semantic, and hybrid modes
// all have something to rank.
var corpus = map[string]string{
	"docs/go.md":     "Go is a statically typed, compiled programming language designed at Google for building reliable concurrent software.",
	"docs/python.md": "Python is a dynamically typed interpreted programming language known for readability and a large standard library.",
	"docs/rust.md":   "Rust is a systems programming language focused on memory safety without a garbage collector, using ownership and borrowing.",
}

func seedCorpus(t *testing.T, eng *primitives.Engine) {
	t.Helper()
	ctx := context.Background()
	for key, value := range corpus {
		if _, err := eng.Execute(ctx, "store", map[string]interface{}{
			"key": key, "value": value,
		}, "agent-1", "session-1"); err != nil {
			t.Fatalf("seeding %s failed: %v", key, err)
		}
	}
}

func TestSearchLexicalRanksMatchingDocumentFirst(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	seedCorpus(t, eng)

	res, err := eng.Execute(ctx, "search", map[string]interface{}{
		"query": "concurrent software Google",
		"mode":  "lexical",
		"k":     float64(3),
	}, "agent-1", "session-1")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	sr := res.(primitives.SearchResult)
	if sr.Count == 0 {
		t.Fatal("expected at least one lexical hit")
	}
	if sr.Results[0].Key != "docs/go.md" {
		t.Errorf("top lexical hit = %q, want docs/go.md", sr.Results[0].Key)
	}
}

func TestSearchSemanticReturnsResultsForEmbeddedDocuments(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	seedCorpus(t, eng)

	res, err := eng.Execute(ctx, "search", map[string]interface{}{
		"query": "memory safety without garbage collection",
		"mode":  "semantic",
		"k":     float64(3),
	}, "agent-1", "session-1")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	sr := res.(primitives.SearchResult)
	if sr.Count == 0 {
		t.Fatal("expected at least one semantic hit")
	}
}

func TestSearchHybridFusesLexicalAndSemanticScores(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	seedCorpus(t, eng)

	res, err := eng.Execute(ctx, "search", map[string]interface{}{
		"query": "programming language",
		"mode":  "hybrid",
		"k":     float64(3),
	}, "agent-1", "session-1")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	sr := res.(primitives.SearchResult)
	if sr.Count == 0 {
		t.Fatal("expected at least one hybrid hit")
	}
	for _, hit := range sr.Results {
		if hit.Component == nil {
			t.Errorf("hybrid hit %q missing component score breakdown", hit.Key)
		}
	}
}
