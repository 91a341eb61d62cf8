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
	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// RetrieveResult is retrieve's output shape.
type RetrieveResult struct {
	Exists   bool                   `json:"exists"`
	Key      string                 `json:"key"`
	Value    string                 `json:"value,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	History  []types.HistoryEntry   `json:"history,omitempty"`
}

var retrieveSchema = &tools.ParameterSchema{
	Type: "object",
	Properties: map[string]*tools.PropertySchema{
		"key":             {Type: "string", Description: "record key"},
		"include_history": {Type: "boolean", Description: "include the key's history entries"},
		"history_limit":   {Type: "integer", Description: "cap on returned history entries, newest first"},
	},
	Required: []string{"key"},
}

func validateRetrieve(params map[string]interface{}) error {
	_, err := requireString(params, "key")
	return err
}

func execRetrieve(_ context.Context, pc *Context, params map[string]interface{}) (interface{}, error) {
	key, _ := requireString(params, "key")
	k := types.Key(key)
	if err := pc.ValidateKey(k); err != nil {
		return nil, err
	}

	rec, err := pc.Temporal.Get(k)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return RetrieveResult{Exists: false, Key: key}, nil
		}
		return nil, err
	}

	out := RetrieveResult{
		Exists:   true,
		Key:      key,
		Value:    string(rec.Current),
		Metadata: rec.Metadata,
	}

	if optBool(params, "include_history") {
		limit := optInt(params, "history_limit", 0)
		history, histErr := pc.Temporal.History(k, limit)
		if histErr != nil && !errors.Is(histErr, errors.ErrNotFound) {
			return nil, histErr
		}
		out.History = history
	}

	return out, nil
}
