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
	"fmt"

	"github.com/agrama-db/agrama/core/tools"
	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// LinkResult is link's output shape.
type LinkResult struct {
	Success   bool   `json:"success"`
	EdgeID    string `json:"edge_id"`
	Timestamp int64  `json:"timestamp"`
}

var linkSchema = &tools.ParameterSchema{
	Type: "object",
	Properties: map[string]*tools.PropertySchema{
		"from":     {Type: "string"},
		"to":       {Type: "string"},
		"relation": {Type: "string"},
		"metadata": {Type: "object"},
	},
	Required: []string{"from", "to", "relation"},
}

func validateLink(params map[string]interface{}) error {
	if _, err := requireString(params, "from"); err != nil {
		return err
	}
	if _, err := requireString(params, "to"); err != nil {
		return err
	}
	_, err := requireString(params, "relation")
	return err
}

// execLink creates or updates an edge. EdgeID is derived from the
// triple rather than a separate counter — (from, to, relation)
// already uniquely identifies an edge per §3, so a second id space
// would only invite divergence.
func execLink(_ context.Context, pc *Context, params map[string]interface{}) (interface{}, error) {
	from, _ := requireString(params, "from")
	to, _ := requireString(params, "to")
	relation, _ := requireString(params, "relation")
	weight := optFloat(params, "weight", 1)

	if pc.Graph == nil {
		return nil, errors.New(errors.CategoryInternal, "GRAPH_UNAVAILABLE", "graph store not configured")
	}

	if err := pc.ValidateKey(types.Key(from)); err != nil {
		return nil, err
	}
	if err := pc.ValidateKey(types.Key(to)); err != nil {
		return nil, err
	}

	if err := pc.Graph.AddEdge(types.Key(from), types.Key(to), relation, weight); err != nil {
		return nil, err
	}

	if pc.Hybrid != nil {
		pc.Hybrid.NotifyGraphChanged()
	}

	return LinkResult{
		Success:   true,
		EdgeID:    fmt.Sprintf("%s->%s:%s", from, to, relation),
		Timestamp: pc.Timestamp,
	}, nil
}
