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

package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// MockProvider deterministically hashes text into a vector of fixed
// dimension, for tests that need a stable, dependency-free embedder.
type MockProvider struct {
	dimension int
}

// NewMockProvider creates a MockProvider of the given dimension.
func NewMockProvider(dimension int) *MockProvider {
	if dimension <= 0 {
		dimension = 8
	}
	return &MockProvider{dimension: dimension}
}

// Name returns "mock".
func (m *MockProvider) Name() string { return "mock" }

// Dimension returns the configured vector length.
func (m *MockProvider) Dimension() int { return m.dimension }

// Embed deterministically derives a unit vector from text's hash.
func (m *MockProvider) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, m.dimension)
	var sumSq float64
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		v := float32(seed%2000)/1000 - 1 // in [-1, 1)
		vec[i] = v
		sumSq += float64(v) * float64(v)
	}

	if sumSq > 0 {
		norm := float32(1 / math.Sqrt(sumSq))
		for i := range vec {
			vec[i] *= norm
		}
	}
	return vec, nil
}

// EmbedBatch embeds each text independently.
func (m *MockProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}
