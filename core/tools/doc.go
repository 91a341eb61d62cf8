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

// Package tools carries the JSON Schema types the primitive and
// transform registries use to describe their input/output shapes
// (§4.6). It used to be the teacher's agent tool-calling framework
// (Tool interface, Registry, built-in calculator/clock/echo tools);
// Agrama's primitives have no standalone callable-tool concept, so
// only the schema types that `core/primitives` and `server/rpc`
// publish through `list_primitives`/`tools/list` survived the cut.
package tools
