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
	"context"
	"sort"

	"github.com/agrama-db/agrama/core/query"
	"github.com/agrama-db/agrama/core/tools"
	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// SearchHit is one result row. Not every field applies to every mode:
// lexical/semantic/graph populate Score, temporal populates
// Timestamp/Value, hybrid populates Score and Component.
type SearchHit struct {
	Key       string             `json:"key"`
	Score     float64            `json:"score,omitempty"`
	Timestamp int64              `json:"timestamp,omitempty"`
	Value     string             `json:"value,omitempty"`
	Component *query.ComponentScores `json:"component,omitempty"`
}

// SearchResult is search's output shape.
type SearchResult struct {
	Query   string      `json:"query"`
	Mode    string      `json:"mode"`
	Results []SearchHit `json:"results"`
	Count   int         `json:"count"`
}

const (
	modeLexical  = "lexical"
	modeSemantic = "semantic"
	modeGraph    = "graph"
	modeTemporal = "temporal"
	modeHybrid   = "hybrid"
)

var searchSchema = &tools.ParameterSchema{
	Type: "object",
	Properties: map[string]*tools.PropertySchema{
		"query":   {Type: "string"},
		"mode":    {Type: "string", Enum: []string{modeLexical, modeSemantic, modeGraph, modeTemporal, modeHybrid}},
		"options": {Type: "object"},
	},
	Required: []string{"mode"},
}

func validateSearch(params map[string]interface{}) error {
	mode, err := requireString(params, "mode")
	if err != nil {
		return err
	}
	switch mode {
	case modeLexical, modeSemantic, modeGraph, modeTemporal, modeHybrid:
	default:
		return errors.ErrValidationFailed.WithDetail("field", "mode").WithDetail("reason", "unrecognized search mode")
	}

	options := optMetadata(params, "options")
	if mode == modeGraph {
		if _, ok := options["root"].(string); !ok {
			return errors.ErrValidationFailed.WithDetail("field", "options.root").WithDetail("reason", "required for graph mode")
		}
	}
	if mode == modeTemporal {
		if _, ok := options["key"].(string); !ok {
			return errors.ErrValidationFailed.WithDetail("field", "options.key").WithDetail("reason", "required for temporal mode")
		}
	}
	return nil
}

func execSearch(ctx context.Context, pc *Context, params map[string]interface{}) (interface{}, error) {
	queryText := optString(params, "query", "")
	mode, _ := requireString(params, "mode")
	options := optMetadata(params, "options")
	k := optInt(params, "k", 10)

	var hits []SearchHit
	var err error

	switch mode {
	case modeLexical:
		hits, err = searchLexical(pc, queryText, k)
	case modeSemantic:
		hits, err = searchSemantic(ctx, pc, queryText, k)
	case modeGraph:
		hits, err = searchGraph(pc, options)
	case modeTemporal:
		hits, err = searchTemporal(pc, options)
	case modeHybrid:
		hits, err = searchHybrid(ctx, pc, queryText, k, options)
	}
	if err != nil {
		return nil, err
	}

	return SearchResult{Query: queryText, Mode: mode, Results: hits, Count: len(hits)}, nil
}

func searchLexical(pc *Context, queryText string, k int) ([]SearchHit, error) {
	if pc.Lex == nil {
		return nil, nil
	}
	results := pc.Lex.Search(queryText, k)
	out := make([]SearchHit, len(results))
	for i, r := range results {
		out[i] = SearchHit{Key: string(r.Key), Score: r.Score}
	}
	return out, nil
}

func searchSemantic(ctx context.Context, pc *Context, queryText string, k int) ([]SearchHit, error) {
	if pc.Sem == nil || pc.Embedder == nil {
		return nil, nil
	}
	vec, err := pc.Embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}
	results, err := pc.Sem.Search(vec, k)
	if err != nil {
		return nil, err
	}
	out := make([]SearchHit, len(results))
	for i, r := range results {
		out[i] = SearchHit{Key: string(r.Key), Score: float64(r.Distance)}
	}
	return out, nil
}

func searchGraph(pc *Context, options map[string]interface{}) ([]SearchHit, error) {
	if pc.FRE == nil {
		return nil, nil
	}
	root, _ := options["root"].(string)
	bound := 0.0
	if v, ok := options["max_distance"].(float64); ok {
		bound = v
	}

	dist, err := pc.FRE.SingleSource(types.Key(root), bound)
	if err != nil && !errors.Is(err, errors.ErrBoundExceeded) {
		return nil, err
	}

	out := make([]SearchHit, 0, len(dist))
	for key, d := range dist {
		out = append(out, SearchHit{Key: string(key), Score: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func searchTemporal(pc *Context, options map[string]interface{}) ([]SearchHit, error) {
	key, _ := options["key"].(string)
	since, _ := options["since"].(float64)
	until, _ := options["until"].(float64)
	if until == 0 {
		until = 1<<63 - 1
	}

	history, err := pc.Temporal.History(types.Key(key), 0)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]SearchHit, 0, len(history))
	for _, h := range history {
		ts := float64(h.Timestamp)
		if ts < since || ts > until {
			continue
		}
		out = append(out, SearchHit{Key: key, Timestamp: h.Timestamp, Value: string(h.Value)})
	}
	return out, nil
}

func searchHybrid(ctx context.Context, pc *Context, queryText string, k int, options map[string]interface{}) ([]SearchHit, error) {
	if pc.Hybrid == nil {
		return nil, nil
	}

	w := query.Weights{Lex: 1, Sem: 1, Graph: 1}
	if raw, ok := options["weights"].(map[string]interface{}); ok {
		if v, ok := raw["lex"].(float64); ok {
			w.Lex = v
		}
		if v, ok := raw["sem"].(float64); ok {
			w.Sem = v
		}
		if v, ok := raw["graph"].(float64); ok {
			w.Graph = v
		}
	}

	req := query.Request{
		Text:      queryText,
		K:         k,
		Weights:   w,
		Threshold: optFloat(options, "threshold", 0),
	}
	if root, ok := options["graph_root"].(string); ok {
		req.GraphRoot = types.Key(root)
	}
	if depth, ok := options["graph_depth"].(float64); ok {
		req.GraphDepth = int(depth)
	}

	resp, err := pc.Hybrid.Query(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]SearchHit, len(resp.Results))
	for i, r := range resp.Results {
		comp := r.Component
		out[i] = SearchHit{Key: string(r.Key), Score: r.Score, Component: &comp}
	}
	return out, nil
}
