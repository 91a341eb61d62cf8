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

// Package transform implements §4.6's transform operation registry.
// Every operation receives opaque bytes plus a JSON options object;
// none of them parse a specific source language's AST, so a caller may
// freely replace or extend the registry without the engine knowing
// anything about document structure.
package transform

import (
	"context"

	"github.com/agrama-db/agrama/pkg/errors"
)

// Func is the executable body of a transform operation.
type Func func(ctx context.Context, data []byte, options map[string]interface{}) (interface{}, error)

// Operation is one named, registered transform.
type Operation struct {
	Name        string
	Description string
	execute     Func
}

// Execute runs the operation.
func (o *Operation) Execute(ctx context.Context, data []byte, options map[string]interface{}) (interface{}, error) {
	return o.execute(ctx, data, options)
}

// NewOperation builds an Operation from a plain function, mirroring
// core/tools.FunctionTool's function-pointer-table shape.
func NewOperation(name, description string, fn Func) *Operation {
	return &Operation{Name: name, Description: description, execute: fn}
}

// Registry holds the set of operations transform() can dispatch to.
// Immutable after construction (§5 shared-resource policy).
type Registry struct {
	operations map[string]*Operation
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{operations: make(map[string]*Operation)}
}

// Register adds op to the registry.
func (r *Registry) Register(op *Operation) {
	r.operations[op.Name] = op
}

// Get retrieves an operation by name.
func (r *Registry) Get(name string) (*Operation, bool) {
	op, ok := r.operations[name]
	return op, ok
}

// List returns every registered operation's name and description, for
// list_primitives()-style discovery.
func (r *Registry) List() []Operation {
	out := make([]Operation, 0, len(r.operations))
	for _, op := range r.operations {
		out = append(out, Operation{Name: op.Name, Description: op.Description})
	}
	return out
}

// Execute dispatches to the named operation.
func (r *Registry) Execute(ctx context.Context, name string, data []byte, options map[string]interface{}) (interface{}, error) {
	op, ok := r.operations[name]
	if !ok {
		return nil, errors.ErrUnknownTransform.WithDetail("operation", name)
	}
	return op.Execute(ctx, data, options)
}
