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

// Package storage provides the optional durability hook behind
// core/temporal.Store (§3, §6: "the store may be memory-only with an
// optional durability hook"). Agrama's core is in-memory by design
// (§1 Non-goals excludes a durable WAL and crash recovery); this
// package is what a deployment reaches for when it wants writes to
// survive a restart anyway, without the temporal store itself taking
// on a storage-engine dependency.
//
// Three backends are provided:
//
//   - MemoryStorage: in-memory, for tests and single-process embedding.
//   - RedisStorage: TTL-aware, for a shared cache-tier durability hook.
//   - PostgresStorage: disk-backed, for a production durability hook.
//
// core/temporal.Store accepts an optional Storage via its Config.
// Durability field: every successful Put/Delete is mirrored to the
// hook on a best-effort basis (a hook failure is logged, never
// returned to the caller, since the in-memory write already
// succeeded), and New rehydrates the "current" namespace from the
// hook at startup when one is configured.
//
// # Basic usage
//
//	store := storage.NewMemoryStorage()
//	err := store.Store(ctx, "current", "README.md", record)
//	val, err := store.Get(ctx, "current", "README.md")
//
// # Redis-backed durability
//
//	cfg := storage.DefaultRedisConfig()
//	cfg.Address = "localhost:6379"
//	rs, err := storage.NewRedisStorage(cfg)
//
// # PostgreSQL-backed durability
//
//	cfg := storage.DefaultPostgresConfig()
//	cfg.DSN = "postgres://localhost:5432/agrama?sslmode=disable"
//	ps, err := storage.NewPostgresStorage(cfg)
//
// # Namespaces
//
// core/temporal.Store writes two namespaces into any configured hook:
//
//   - current:<key>: the store's latest value for key.
//   - history:<key>: that key's bounded history entries, oldest first.
package storage
