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

// Package primitives implements §4.6's primitive execution engine: the
// registry of the five primitives store/retrieve/search/link/transform
// (plus the optional list_primitives), each with
// a validator and an executor, dispatched through a PrimitiveContext
// that carries the invocation's arena, agent identity, and component
// handles.
package primitives

import (
	"context"

	"github.com/agrama-db/agrama/core/tools"
	"github.com/agrama-db/agrama/pkg/errors"
)

// Validator checks params before Exec runs, returning a
// *errors.Error (ValidationFailed, with field/reason detail) on
// failure.
type Validator func(params map[string]interface{}) error

// Exec is a primitive's executor body.
type Exec func(ctx context.Context, pc *Context, params map[string]interface{}) (interface{}, error)

// Primitive is one named, schema-described entry in the registry.
type Primitive struct {
	Name         string
	Description  string
	InputSchema  *tools.ParameterSchema
	OutputSchema *tools.ParameterSchema

	validate Validator
	exec     Exec
}

// NewPrimitive builds a Primitive. validate may be nil, in which case
// params pass through unvalidated (used by primitives with no
// required fields).
func NewPrimitive(name, description string, input, output *tools.ParameterSchema, validate Validator, exec Exec) *Primitive {
	return &Primitive{
		Name:         name,
		Description:  description,
		InputSchema:  input,
		OutputSchema: output,
		validate:     validate,
		exec:         exec,
	}
}

// Validate runs the primitive's validator, if any.
func (p *Primitive) Validate(params map[string]interface{}) error {
	if p.validate == nil {
		return nil
	}
	return p.validate(params)
}

// Execute runs the primitive's executor.
func (p *Primitive) Execute(ctx context.Context, pc *Context, params map[string]interface{}) (interface{}, error) {
	return p.exec(ctx, pc, params)
}

// Registry holds the engine's primitive set. Immutable after
// construction (§5 shared-resource policy): Register is only ever
// called while assembling the registry, never concurrently with
// Get/Execute.
type Registry struct {
	primitives map[string]*Primitive
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{primitives: make(map[string]*Primitive)}
}

// Register adds p to the registry.
func (r *Registry) Register(p *Primitive) {
	r.primitives[p.Name] = p
}

// Get retrieves a primitive by name.
func (r *Registry) Get(name string) (*Primitive, bool) {
	p, ok := r.primitives[name]
	return p, ok
}

// List returns every registered primitive's schema, for
// list_primitives() discovery.
func (r *Registry) List() []Primitive {
	out := make([]Primitive, 0, len(r.primitives))
	for _, p := range r.primitives {
		out = append(out, Primitive{
			Name:         p.Name,
			Description:  p.Description,
			InputSchema:  p.InputSchema,
			OutputSchema: p.OutputSchema,
		})
	}
	return out
}

// resolve looks up name, returning errors.ErrUnknownPrimitive if absent.
func (r *Registry) resolve(name string) (*Primitive, error) {
	p, ok := r.primitives[name]
	if !ok {
		return nil, errors.ErrUnknownPrimitive.WithDetail("primitive", name)
	}
	return p, nil
}
