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

package metrics

const (
	// Embedding provider metrics, covering core/embedding's openai,
	// gemini, and cached providers.
	MetricEmbeddingCalls   = "agrama_embedding_calls_total"
	MetricEmbeddingErrors  = "agrama_embedding_errors_total"
	MetricEmbeddingLatency = "agrama_embedding_latency_seconds"
	MetricEmbeddingCacheHits = "agrama_embedding_cache_hits_total"
)

// EmbeddingMetrics tracks generate_embedding's calls into the
// configured remote provider (§4.6), separately from the hybrid query
// cache tracked by EngineMetrics.
type EmbeddingMetrics struct {
	collector Collector
}

// NewEmbeddingMetrics creates a new embedding metrics recorder over
// collector.
func NewEmbeddingMetrics(collector Collector) *EmbeddingMetrics {
	return &EmbeddingMetrics{collector: collector}
}

// RecordCall records an embedding provider call's latency.
func (m *EmbeddingMetrics) RecordCall(provider string, latency float64) {
	labels := NewLabels("provider", provider)
	m.collector.IncrementCounter(MetricEmbeddingCalls, labels)
	m.collector.ObserveHistogram(MetricEmbeddingLatency, latency, labels)
}

// RecordError records an embedding provider call failure.
func (m *EmbeddingMetrics) RecordError(provider, errorType string) {
	m.collector.IncrementCounter(MetricEmbeddingErrors, NewLabels("provider", provider, "type", errorType))
}

// RecordCacheHit records a CachedProvider hit, sparing a remote call.
func (m *EmbeddingMetrics) RecordCacheHit(provider string) {
	m.collector.IncrementCounter(MetricEmbeddingCacheHits, NewLabels("provider", provider))
}
