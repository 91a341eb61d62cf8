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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agrama-db/agrama/cache"
	"github.com/agrama-db/agrama/config"
	"github.com/agrama-db/agrama/core/crdt"
	"github.com/agrama-db/agrama/core/embedding"
	"github.com/agrama-db/agrama/core/events"
	"github.com/agrama-db/agrama/core/index/bm25"
	"github.com/agrama-db/agrama/core/index/fre"
	"github.com/agrama-db/agrama/core/index/hnsw"
	"github.com/agrama-db/agrama/core/pathvalidator"
	"github.com/agrama-db/agrama/core/primitives"
	"github.com/agrama-db/agrama/core/provenance"
	"github.com/agrama-db/agrama/core/query"
	"github.com/agrama-db/agrama/core/session"
	"github.com/agrama-db/agrama/core/temporal"
	"github.com/agrama-db/agrama/core/transform"
	"github.com/agrama-db/agrama/observability/health"
	"github.com/agrama-db/agrama/observability/logging"
	"github.com/agrama-db/agrama/observability/metrics"
	"github.com/agrama-db/agrama/server/rpc"
	"github.com/agrama-db/agrama/storage"
)

// app bundles every long-lived component a running agramad process
// owns, so serve and bench can assemble the same graph and differ only
// in what they do with the result.
type app struct {
	cfg        *config.Config
	logger     logging.Logger
	engine     *primitives.Engine
	dispatcher *rpc.Dispatcher
	sessions   *session.Registry
	broadcast  *events.Broadcaster
	crdt       *crdt.Engine
	log        *provenance.Log

	metrics       *metrics.PrometheusCollector
	engineMetrics *metrics.EngineMetrics
	liveness      *health.LivenessChecker
	ready         *health.StartupChecker

	lex    *bm25.Index
	sem    *hnsw.Index
	graph  *fre.Graph
	hybrid *query.Engine
}

// buildApp wires every §4 component and the ambient stack described in
// the expanded specification from a loaded Config. It never starts a
// listener of any kind; that is serve's job.
func buildApp(cfg *config.Config) (*app, error) {
	logger := newLogger(cfg.Logging)

	var collector *metrics.PrometheusCollector
	var engineMetrics *metrics.EngineMetrics
	var embeddingMetrics *metrics.EmbeddingMetrics
	if cfg.Metrics.Enabled {
		collector = metrics.NewPrometheusCollector()
		engineMetrics = metrics.NewEngineMetrics(collector)
		embeddingMetrics = metrics.NewEmbeddingMetrics(collector)
	}

	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	if embeddingMetrics != nil {
		embedder = embedding.NewInstrumentedProvider(embedder, embeddingMetrics)
	}
	if cfg.Embedding.CacheSize > 0 {
		memCache := cache.NewMemoryCache(cache.CacheConfig{
			MaxSize:    cfg.Embedding.CacheSize,
			DefaultTTL: cfg.Embedding.CacheTTL,
		})
		embedder = embedding.NewCachedProvider(embedder, memCache, cfg.Embedding.CacheTTL)
	}

	durability, err := newDurabilityHook(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("durability hook: %w", err)
	}

	lex := bm25.New(bm25.Config{K1: cfg.BM25.K1, B: cfg.BM25.B})
	sem := hnsw.New(hnsw.Config{
		Dimension:      cfg.Embedding.Dimension,
		M:              cfg.HNSW.M,
		MMax0:          cfg.HNSW.MMax0,
		EfConstruction: cfg.HNSW.EfConstruction,
		EfSearch:       cfg.HNSW.EfSearch,
		LevelMult:      cfg.HNSW.LevelFactor,
	})
	graph := fre.NewGraph()
	freEngine := fre.New(graph, fre.Config{MaxNodes: cfg.FRE.MaxNodesPerQuery})
	hybrid := query.New(lex, sem, freEngine, embedder, query.Config{CacheCapacity: cfg.Query.CacheCapacity})

	store := temporal.New(&temporal.Config{
		MaxHistoryPerKey: cfg.Temporal.MaxHistoryPerKey,
		MaxValueBytes:    cfg.Temporal.MaxValueBytes,
		Durability:       durability,
		Logger:           logger,
	})

	broadcast := events.New(events.Config{BufferSize: 256})

	sessions := session.New(session.Config{
		MaxConnections: cfg.Session.MaxConnections,
		RatePerSecond:  cfg.Session.RateLimitPerSec,
		Burst:          cfg.Session.RateLimitBurst,
		IdleTimeout:    cfg.Session.IdleTimeout,
		ReapInterval:   cfg.Session.ReapInterval,
		Events:         broadcast,
	})

	collabEngine := crdt.New(crdt.Config{
		BufferCapacity:  cfg.CRDT.MaxBufferedOps,
		DefaultStrategy: cfg.CRDT.ResolverName,
		KnownAgent:      sessions.IsActive,
		Events:          broadcast,
		Metrics:         crdtMetrics(engineMetrics),
	})

	provLog := provenance.New(provenance.Config{Capacity: 100_000})

	var validator *pathvalidator.Validator
	if len(cfg.PathSandbox.AllowedPrefixes) > 0 {
		validator = pathvalidator.New(cfg.PathSandbox.AllowedPrefixes)
	}

	transforms := transform.BuiltinRegistry(transform.Config{
		Embedder:  embedder,
		Anthropic: transform.AnthropicConfig{APIKey: cfg.Embedding.APIKey},
	})
	reg := primitives.BuiltinRegistry(transforms)

	engine := primitives.New(reg, primitives.Config{
		Temporal:       store,
		Lex:            lex,
		Sem:            sem,
		Graph:          graph,
		FRE:            freEngine,
		Hybrid:         hybrid,
		Embedder:       embedder,
		PathValidator:  validator,
		Deadline:       cfg.Dispatcher.DefaultDeadline,
		Provenance:     provLog,
		Events:         broadcast,
		Metrics:        primitiveMetrics(engineMetrics),
	})

	dispatcher := rpc.New(engine, rpc.Config{
		MaxMessageSize: cfg.Dispatcher.MaxMessageBytes,
		ServerName:     cfg.Server.AgentName,
		ServerVersion:  cfg.Server.Version,
		Logger:         logger,
	})

	a := &app{
		cfg:           cfg,
		logger:        logger,
		engine:        engine,
		dispatcher:    dispatcher,
		sessions:      sessions,
		broadcast:     broadcast,
		crdt:          collabEngine,
		log:           provLog,
		liveness:      health.NewLivenessChecker(),
		ready:         health.NewStartupChecker(),
		metrics:       collector,
		engineMetrics: engineMetrics,
		lex:           lex,
		sem:           sem,
		graph:         graph,
		hybrid:        hybrid,
	}

	return a, nil
}

// crdtMetrics adapts an *metrics.EngineMetrics to crdt.ConflictMetrics,
// returning a genuinely nil interface (not a non-nil interface wrapping
// a nil pointer) when metrics are disabled, so crdt.New's own nil check
// still installs its noop default.
func crdtMetrics(m *metrics.EngineMetrics) crdt.ConflictMetrics {
	if m == nil {
		return nil
	}
	return m
}

// primitiveMetrics is crdtMetrics' counterpart for
// primitives.InvocationMetrics.
func primitiveMetrics(m *metrics.EngineMetrics) primitives.InvocationMetrics {
	if m == nil {
		return nil
	}
	return m
}

// sampleMetrics snapshots the index sizes, query cache hit ratio,
// embedding circuit breaker state, and session occupancy into the
// engine metrics gauges (§11 DOMAIN STACK). It is a no-op when metrics
// are disabled.
func (a *app) sampleMetrics() {
	if a.engineMetrics == nil {
		return
	}

	a.engineMetrics.SetIndexSize("bm25", float64(a.lex.Len()))
	a.engineMetrics.SetIndexSize("hnsw", float64(a.sem.Len()))
	graphStats := a.graph.Stats()
	a.engineMetrics.SetIndexSize("graph_nodes", float64(graphStats.Nodes))
	a.engineMetrics.SetIndexSize("graph_edges", float64(graphStats.Edges))

	hits, misses, breakerState := a.hybrid.Stats()
	if total := hits + misses; total > 0 {
		a.engineMetrics.SetCacheHitRatio(float64(hits) / float64(total))
	}
	a.engineMetrics.SetCircuitBreakerState("embedding", float64(breakerState))

	a.engineMetrics.SetSessionOccupancy(float64(a.sessions.Count()))
}

// newLogger builds the sideband structured logger from LoggingConfig.
// The protocol stream (stdin/stdout) never receives a log line; Serve
// writes only JSON-RPC frames to it.
func newLogger(cfg config.LoggingConfig) logging.Logger {
	level := logging.Level(cfg.Level)
	switch level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		level = logging.LevelInfo
	}
	return logging.NewStructuredLoggerWithOutput(level, os.Stderr)
}

// newEmbedder constructs the configured embedding provider. "mock"
// backs local development and the bench subcommand, where hitting a
// real remote API per store call would make results unreproducible.
func newEmbedder(cfg config.EmbeddingConfig) (embedding.Provider, error) {
	switch cfg.Provider {
	case "", "mock":
		dim := cfg.Dimension
		if dim <= 0 {
			dim = 256
		}
		return embedding.NewMockProvider(dim), nil
	case "openai":
		return embedding.OpenAI(embedding.OpenAIConfig{
			APIKey:    cfg.APIKey,
			Dimension: cfg.Dimension,
		}), nil
	case "gemini":
		return embedding.Gemini(context.Background(), embedding.GeminiConfig{
			APIKey:    cfg.APIKey,
			Dimension: cfg.Dimension,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}
}

// newDurabilityHook constructs the optional storage.Storage backing
// the temporal store, or nil for a purely in-memory deployment. A
// network-backed hook (redis, postgres) is wrapped in
// storage.ResilientStorage so a flaky connection trips a circuit
// breaker and retries with backoff instead of stalling every temporal
// write (§5, §7's Resource failure category).
func newDurabilityHook(cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Backend {
	case "", "memory":
		return nil, nil
	case "redis":
		backend, err := storage.NewRedisStorage(&storage.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewResilientStorage(backend, storage.ResilientConfig{}), nil
	case "postgres":
		pgCfg, err := parsePostgresDSN(cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.Table != "" {
			pgCfg.TableName = cfg.Postgres.Table
		}
		backend, err := storage.NewPostgresStorage(pgCfg)
		if err != nil {
			return nil, err
		}
		return storage.NewResilientStorage(backend, storage.ResilientConfig{}), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
