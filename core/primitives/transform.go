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
	"github.com/agrama-db/agrama/core/transform"
)

// TransformResult is transform's output shape.
type TransformResult struct {
	Operation string      `json:"operation"`
	Result    interface{} `json:"result"`
}

var transformSchema = &tools.ParameterSchema{
	Type: "object",
	Properties: map[string]*tools.PropertySchema{
		"operation": {Type: "string", Description: "registered transform operation name"},
		"data":      {Type: "string", Description: "opaque input bytes, as text"},
		"options":   {Type: "object"},
	},
	Required: []string{"operation", "data"},
}

func validateTransform(params map[string]interface{}) error {
	if _, err := requireString(params, "operation"); err != nil {
		return err
	}
	_, err := requireString(params, "data")
	return err
}

// newExecTransform closes over the transform registry, keeping the
// primitive package decoupled from which operations are wired in.
func newExecTransform(reg *transform.Registry) Exec {
	return func(ctx context.Context, _ *Context, params map[string]interface{}) (interface{}, error) {
		operation, _ := requireString(params, "operation")
		data, _ := requireString(params, "data")
		options := optMetadata(params, "options")

		result, err := reg.Execute(ctx, operation, []byte(data), options)
		if err != nil {
			return nil, err
		}
		return TransformResult{Operation: operation, Result: result}, nil
	}
}
