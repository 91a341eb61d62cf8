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

package observability

import (
	"context"
	"net/http"

	"github.com/agrama-db/agrama/observability/health"
	"github.com/agrama-db/agrama/observability/logging"
	"github.com/agrama-db/agrama/observability/metrics"
)

// Manager bundles the logging, metrics, and health-check components a
// running agramad process needs, and mounts them on one sideband HTTP
// mux (§6: the stdio JSON-RPC stream and the observability surface
// are never the same connection).
type Manager struct {
	logger           logging.Logger
	collector        metrics.Collector
	engineMetrics    *metrics.EngineMetrics
	embeddingMetrics *metrics.EmbeddingMetrics
	middleware       *Middleware
	livenessChecker  *health.LivenessChecker
	startupChecker   *health.StartupChecker
	readinessChecker *health.ReadinessChecker
}

// ManagerConfig configures the observability manager.
type ManagerConfig struct {
	// Config is the observability configuration.
	Config *Config
}

// NewManager creates a new observability manager.
//
// Example:
//
//	manager, err := observability.NewManager(&observability.ManagerConfig{
//	    Config: &observability.Config{...},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer manager.Shutdown(context.Background())
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	if err := cfg.Config.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewStructuredLogger(logging.Level(cfg.Config.Logging.Level))
	logger.SetSamplingRate(cfg.Config.Logging.SamplingRate)

	collector := metrics.NewPrometheusCollector()
	engineMetrics := metrics.NewEngineMetrics(collector)
	embeddingMetrics := metrics.NewEmbeddingMetrics(collector)

	middleware := NewMiddleware(logger, engineMetrics)

	livenessChecker := health.NewLivenessChecker()
	startupChecker := health.NewStartupChecker()
	readinessChecker := health.NewReadinessChecker(startupChecker)

	livenessChecker.MarkRunning()

	return &Manager{
		logger:           logger,
		collector:        collector,
		engineMetrics:    engineMetrics,
		embeddingMetrics: embeddingMetrics,
		middleware:       middleware,
		livenessChecker:  livenessChecker,
		startupChecker:   startupChecker,
		readinessChecker: readinessChecker,
	}, nil
}

// Logger returns the logger.
func (m *Manager) Logger() logging.Logger {
	return m.logger
}

// Collector returns the metrics collector.
func (m *Manager) Collector() metrics.Collector {
	return m.collector
}

// EngineMetrics returns the primitive/CRDT/index/session metrics recorder.
func (m *Manager) EngineMetrics() *metrics.EngineMetrics {
	return m.engineMetrics
}

// EmbeddingMetrics returns the embedding-provider metrics recorder.
func (m *Manager) EmbeddingMetrics() *metrics.EmbeddingMetrics {
	return m.embeddingMetrics
}

// Middleware returns the HTTP middleware for the sideband mux.
func (m *Manager) Middleware() *Middleware {
	return m.middleware
}

// LivenessChecker returns the liveness checker.
func (m *Manager) LivenessChecker() *health.LivenessChecker {
	return m.livenessChecker
}

// StartupChecker returns the startup checker.
func (m *Manager) StartupChecker() *health.StartupChecker {
	return m.startupChecker
}

// ReadinessChecker returns the readiness checker.
func (m *Manager) ReadinessChecker() *health.ReadinessChecker {
	return m.readinessChecker
}

// MarkReady marks the agent as ready to serve traffic.
func (m *Manager) MarkReady() {
	m.startupChecker.MarkReady()
}

// AddReadinessCheck adds a health check to the readiness checker.
func (m *Manager) AddReadinessCheck(checker health.Checker) {
	m.readinessChecker.AddCheck(checker)
}

// HTTPHandler returns an http.Handler for exposing observability endpoints.
//
// It mounts the following endpoints:
//   - /metrics - Prometheus metrics
//   - /health/live - Liveness probe
//   - /health/ready - Readiness probe
//   - /health/startup - Startup probe
func (m *Manager) HTTPHandler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", m.collector.Handler())
	mux.Handle("/health/live", health.Handler(m.livenessChecker))
	mux.Handle("/health/ready", health.Handler(m.readinessChecker))
	mux.Handle("/health/startup", health.Handler(m.startupChecker))

	return mux
}

// Shutdown gracefully shuts down the observability manager.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info(ctx, "shutting down observability manager")
	m.livenessChecker.MarkStopped()
	return nil
}
