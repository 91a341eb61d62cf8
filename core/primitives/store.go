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

	"github.com/agrama-db/agrama/core/tools"
	"github.com/agrama-db/agrama/pkg/types"
)

// StoreResult is store's output shape.
type StoreResult struct {
	Success   bool       `json:"success"`
	Key       string     `json:"key"`
	Timestamp int64      `json:"timestamp"`
	Indexed   bool       `json:"indexed"`
}

var storeSchema = &tools.ParameterSchema{
	Type: "object",
	Properties: map[string]*tools.PropertySchema{
		"key":      {Type: "string", Description: "record key"},
		"value":    {Type: "string", Description: "record value"},
		"metadata": {Type: "object", Description: "caller-supplied metadata, merged under engine fields"},
	},
	Required: []string{"key", "value"},
}

func validateStore(params map[string]interface{}) error {
	if _, err := requireString(params, "key"); err != nil {
		return err
	}
	if _, err := requireString(params, "value"); err != nil {
		return err
	}
	return nil
}

// execStore writes value under key to the temporal store, always
// reindexes it in BM25, and — when len(value) exceeds pc.EmbedThreshold
// — generates or refreshes its HNSW embedding too (§4.6).
func execStore(ctx context.Context, pc *Context, params map[string]interface{}) (interface{}, error) {
	key, _ := requireString(params, "key")
	value, _ := requireString(params, "value")
	meta := types.Metadata(optMetadata(params, "metadata"))

	k := types.Key(key)
	if err := pc.ValidateKey(k); err != nil {
		return nil, err
	}

	meta = meta.Merge(pc.AgentID, pc.SessionID, pc.Timestamp)

	ts, err := pc.Temporal.Put(k, types.Value(value), meta)
	if err != nil {
		return nil, err
	}

	if pc.Lex != nil {
		pc.Lex.Add(k, value)
	}

	indexed := false
	threshold := pc.EmbedThreshold
	if threshold <= 0 {
		threshold = 50
	}
	if pc.Sem != nil && pc.Embedder != nil && len(value) > threshold {
		vec, embedErr := pc.Embedder.Embed(ctx, value)
		if embedErr == nil {
			if insertErr := pc.Sem.Insert(k, vec); insertErr == nil {
				indexed = true
			}
		}
	}

	return StoreResult{Success: true, Key: key, Timestamp: ts, Indexed: indexed}, nil
}
