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

import (
	"context"
	"strconv"
	"time"
)

const (
	// Primitive invocation metrics (§11 DOMAIN STACK: "primitive
	// invocation latency by name").
	MetricPrimitiveInvocations = "agrama_primitive_invocations_total"
	MetricPrimitiveDuration    = "agrama_primitive_duration_seconds"
	MetricPrimitiveErrors      = "agrama_primitive_errors_total"

	// Index size gauges: BM25 terms, HNSW nodes, graph nodes/edges.
	MetricIndexSize = "agrama_index_size"

	// CRDT collaboration metrics.
	MetricCRDTConflicts = "agrama_crdt_conflicts_total"

	// Session registry occupancy.
	MetricSessionOccupancy = "agrama_session_occupancy"

	// Hybrid query cache hit rate.
	MetricCacheHitRatio = "agrama_query_cache_hit_ratio"

	// Per-index circuit breaker state (0=closed, 1=open, 2=half-open).
	MetricCircuitBreakerState = "agrama_circuit_breaker_state"

	// Sideband HTTP surface (health, metrics, the events websocket
	// handshake) request metrics.
	MetricHTTPRequests = "agrama_http_requests_total"
	MetricHTTPDuration = "agrama_http_request_duration_seconds"
)

// EngineMetrics records the primitive-engine, index, CRDT, and session
// observability points described in §11 DOMAIN STACK. It satisfies
// core/primitives.InvocationMetrics and core/crdt.ConflictMetrics by
// duck typing, so both engines can take it directly as their Metrics
// field.
type EngineMetrics struct {
	collector Collector
}

// NewEngineMetrics creates a new engine metrics recorder over
// collector.
func NewEngineMetrics(collector Collector) *EngineMetrics {
	return &EngineMetrics{collector: collector}
}

// RecordInvocation records one primitive invocation's latency and
// outcome. It satisfies core/primitives.InvocationMetrics.
func (m *EngineMetrics) RecordInvocation(_ context.Context, primitive, agentID string, duration time.Duration, err error) {
	labels := NewLabels("primitive", primitive, "agent_id", agentID)
	m.collector.IncrementCounter(MetricPrimitiveInvocations, labels)
	m.collector.ObserveHistogram(MetricPrimitiveDuration, duration.Seconds(), labels)
	if err != nil {
		m.collector.IncrementCounter(MetricPrimitiveErrors, labels)
	}
}

// RecordConflict records one resolved CRDT conflict. It satisfies
// core/crdt.ConflictMetrics.
func (m *EngineMetrics) RecordConflict(docID, strategy string) {
	m.collector.IncrementCounter(MetricCRDTConflicts, NewLabels("doc_id", docID, "strategy", strategy))
}

// SetIndexSize sets the current size of a named index (e.g. "bm25",
// "hnsw", "graph_nodes", "graph_edges").
func (m *EngineMetrics) SetIndexSize(index string, size float64) {
	m.collector.SetGauge(MetricIndexSize, size, NewLabels("index", index))
}

// SetSessionOccupancy sets the number of sessions currently held by
// the session registry.
func (m *EngineMetrics) SetSessionOccupancy(count float64) {
	m.collector.SetGauge(MetricSessionOccupancy, count, NoLabels())
}

// SetCacheHitRatio sets the hybrid query engine's result-cache hit
// ratio in [0,1].
func (m *EngineMetrics) SetCacheHitRatio(ratio float64) {
	m.collector.SetGauge(MetricCacheHitRatio, ratio, NoLabels())
}

// SetCircuitBreakerState sets a named circuit breaker's state (0=closed,
// 1=open, 2=half-open), matching core/resilience.State's ordinal values.
func (m *EngineMetrics) SetCircuitBreakerState(name string, state float64) {
	m.collector.SetGauge(MetricCircuitBreakerState, state, NewLabels("breaker", name))
}

// RecordHTTPRequest records one request served by the sideband HTTP
// mux (health, metrics, events websocket handshake). It satisfies
// observability.HTTPMetrics.
func (m *EngineMetrics) RecordHTTPRequest(path, method string, status int, duration float64) {
	labels := NewLabels("path", path, "method", method, "status", strconv.Itoa(status))
	m.collector.IncrementCounter(MetricHTTPRequests, labels)
	m.collector.ObserveHistogram(MetricHTTPDuration, duration, labels)
}
