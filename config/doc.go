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

// Package config provides configuration management for the agrama
// server process.
//
// The configuration system supports multiple sources with the
// following precedence, highest first:
//  1. Environment variables (prefixed AGRAMA_, e.g. AGRAMA_SESSION_MAXCONNECTIONS)
//  2. Configuration file (YAML, TOML, or JSON; format inferred from extension)
//  3. Compiled-in defaults (DefaultConfig)
//
// # Configuration Structure
//
// Each top-level section mirrors one §4 component's tunables: Temporal,
// BM25, HNSW, FRE, Query, CRDT, Session, Dispatcher, PathSandbox, plus
// the ambient Embedding/Storage/Logging/Metrics/Tracing sections.
//
// # Usage
//
//	cfg, err := config.Load("agrama.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Validation
//
// Load always calls Config.Validate before returning; the rules live in
// validation.go, one validate* method per checked section.
package config
