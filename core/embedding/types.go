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

// Package embedding provides the embedding-provider registry backing
// the generate_embedding transform and the semantic index's write path.
package embedding

import "context"

// Provider turns text into a fixed-dimensionality vector.
type Provider interface {
	// Name returns the provider's registry name.
	Name() string

	// Dimension returns the vector length this provider produces.
	Dimension() int

	// Embed returns a single text's embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds multiple texts in one call where the
	// underlying API supports it, falling back to sequential Embed
	// calls otherwise.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
