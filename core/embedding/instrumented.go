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
	"time"
)

// Metrics observes embedding provider calls (§11 DOMAIN STACK). It is
// satisfied by observability/metrics.EmbeddingMetrics.
type Metrics interface {
	RecordCall(provider string, latencySeconds float64)
	RecordError(provider, errorType string)
}

// InstrumentedProvider wraps a Provider with call-latency and error
// metrics, the same embedding-then-delegate shape CachedProvider uses.
// Wrap the innermost real provider (before CachedProvider) so a cache
// hit never counts as a remote call.
type InstrumentedProvider struct {
	Provider
	metrics Metrics
}

// NewInstrumentedProvider wraps p, reporting every Embed/EmbedBatch
// call to m.
func NewInstrumentedProvider(p Provider, m Metrics) *InstrumentedProvider {
	return &InstrumentedProvider{Provider: p, metrics: m}
}

func (i *InstrumentedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := i.Provider.Embed(ctx, text)
	i.metrics.RecordCall(i.Provider.Name(), time.Since(start).Seconds())
	if err != nil {
		i.metrics.RecordError(i.Provider.Name(), "embed")
	}
	return vec, err
}

func (i *InstrumentedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vecs, err := i.Provider.EmbedBatch(ctx, texts)
	i.metrics.RecordCall(i.Provider.Name(), time.Since(start).Seconds())
	if err != nil {
		i.metrics.RecordError(i.Provider.Name(), "embed_batch")
	}
	return vecs, err
}
