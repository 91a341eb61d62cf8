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
)

// PrimitiveSchema is one entry of list_primitives' output.
type PrimitiveSchema struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	InputSchema  *tools.ParameterSchema `json:"input_schema,omitempty"`
	OutputSchema *tools.ParameterSchema `json:"output_schema,omitempty"`
}

var listPrimitivesSchema = &tools.ParameterSchema{Type: "object"}

// newExecListPrimitives closes over the registry so it can enumerate
// its own sibling entries, itself included.
func newExecListPrimitives(reg *Registry) Exec {
	return func(_ context.Context, _ *Context, _ map[string]interface{}) (interface{}, error) {
		entries := reg.List()
		out := make([]PrimitiveSchema, len(entries))
		for i, p := range entries {
			out[i] = PrimitiveSchema{
				Name:         p.Name,
				Description:  p.Description,
				InputSchema:  p.InputSchema,
				OutputSchema: p.OutputSchema,
			}
		}
		return out, nil
	}
}
