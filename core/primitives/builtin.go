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

import "github.com/agrama-db/agrama/core/transform"

// BuiltinRegistry returns a Registry with §4.6's five mandatory
// primitives plus the optional list_primitives discovery entry.
func BuiltinRegistry(transforms *transform.Registry) *Registry {
	r := NewRegistry()

	r.Register(NewPrimitive("store", "Write a value under a key, indexing it for lexical and (above threshold) semantic search",
		storeSchema, nil, validateStore, execStore))
	r.Register(NewPrimitive("retrieve", "Read a key's current value and, optionally, its history",
		retrieveSchema, nil, validateRetrieve, execRetrieve))
	r.Register(NewPrimitive("search", "Query across lexical, semantic, graph, temporal, or hybrid modes",
		searchSchema, nil, validateSearch, execSearch))
	r.Register(NewPrimitive("link", "Create or update a directed edge between two keys",
		linkSchema, nil, validateLink, execLink))
	r.Register(NewPrimitive("transform", "Run a named transform operation over opaque data",
		transformSchema, nil, validateTransform, newExecTransform(transforms)))

	r.Register(NewPrimitive("list_primitives", "Enumerate every registered primitive's schema",
		listPrimitivesSchema, nil, nil, newExecListPrimitives(r)))

	return r
}
