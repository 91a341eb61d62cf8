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

package transform

import (
	"context"

	"github.com/agrama-db/agrama/core/embedding"
)

// EmbeddingResult is generateEmbedding's output.
type EmbeddingResult struct {
	Vector    []float32 `json:"vector"`
	Dimension int       `json:"dimension"`
	Provider  string    `json:"provider"`
}

// newGenerateEmbedding closes over an embedding.Provider, so the
// operation can be registered into a transform.Registry without the
// registry itself needing to know about embedding providers.
func newGenerateEmbedding(provider embedding.Provider) Func {
	return func(ctx context.Context, data []byte, _ map[string]interface{}) (interface{}, error) {
		vec, err := provider.Embed(ctx, string(data))
		if err != nil {
			return nil, err
		}
		return EmbeddingResult{Vector: vec, Dimension: len(vec), Provider: provider.Name()}, nil
	}
}
