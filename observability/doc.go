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

// Package observability provides monitoring, logging, and tracing capabilities
// for SAGE ADK agents.
//
// # Overview
//
// This package enables comprehensive observability for AI agents through:
//   - Metrics collection (Prometheus)
//   - Structured logging
//   - Distributed tracing (OpenTelemetry)
//   - Health checks
//
// # Metrics
//
// Collect and expose metrics for monitoring:
//
//	collector := metrics.NewPrometheusCollector()
//	engineMetrics := metrics.NewEngineMetrics(collector)
//
//	// Record a primitive invocation
//	engineMetrics.RecordInvocation(ctx, "store", "agent-1", 42*time.Millisecond, nil)
//
//	// Expose metrics
//	http.Handle("/metrics", collector.Handler())
//
// # Logging
//
// Structured logging with context propagation:
//
//	logger := logging.NewStructuredLogger(logging.LevelInfo)
//
//	ctx := logging.WithRequestID(ctx, "req-123")
//	logger.Info(ctx, "message handled",
//	    logging.String("agent_id", "agent-1"),
//	    logging.Int("duration_ms", 42),
//	)
//
// # Tracing
//
// Distributed tracing with OpenTelemetry:
//
//	shutdown, err := tracing.InitTracing(tracing.DefaultConfig())
//	defer shutdown(ctx)
//
//	ctx, span := tracing.StartSpan(ctx, "handle_message")
//	defer span.End()
//
// # Health Checks
//
// Liveness, readiness, and startup probes:
//
//	liveness := health.NewLivenessChecker()
//	startup := health.NewStartupChecker()
//	readiness := health.NewReadinessChecker(startup, customCheck)
//
//	http.Handle("/health/live", health.Handler(liveness))
//	http.Handle("/health/ready", health.Handler(readiness))
//
// # Manager
//
// Manager bundles all of the above and mounts them on one mux:
//
//	manager, err := observability.NewManager(&observability.ManagerConfig{
//	    Config: observability.DefaultConfig(),
//	})
//	http.ListenAndServe(addr, manager.HTTPHandler())
package observability
