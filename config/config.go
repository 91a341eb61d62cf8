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

package config

import (
	"time"
)

// Config represents the complete configuration for an Agrama server
// process: every tunable named across §4's component budgets plus the
// ambient stack (storage durability hook, logging, metrics, tracing).
type Config struct {
	Server      ServerConfig
	Temporal    TemporalConfig
	BM25        BM25Config
	HNSW        HNSWConfig
	FRE         FREConfig
	Query       QueryConfig
	CRDT        CRDTConfig
	Session     SessionConfig
	Dispatcher  DispatcherConfig
	PathSandbox PathSandboxConfig
	Embedding   EmbeddingConfig
	Storage     StorageConfig
	Logging     LoggingConfig
	Metrics     MetricsConfig
	Tracing     TracingConfig
}

// ServerConfig contains process-level server settings (§6's CLI surface).
type ServerConfig struct {
	AgentName       string
	Version         string
	ShutdownTimeout time.Duration
}

// TemporalConfig bounds the temporal store's per-key history retention
// (§4.1).
type TemporalConfig struct {
	MaxHistoryPerKey int
	MaxValueBytes    int
}

// BM25Config holds the lexical index's scoring parameters (§4.2).
type BM25Config struct {
	K1 float64
	B  float64
}

// HNSWConfig holds the vector index's build- and query-time parameters
// (§4.3).
type HNSWConfig struct {
	M              int
	MMax0          int
	EfConstruction int
	EfSearch       int
	LevelFactor    float64
}

// FREConfig holds the frontier-reduction engine's tuning knobs (§4.4).
type FREConfig struct {
	MaxNodesPerQuery int
	DensityFallback  bool // loaded and defaulted, but not read by any component
}

// QueryConfig holds the hybrid query engine's fusion and cache settings
// (§4.5).
type QueryConfig struct {
	DefaultWeights  Weights
	CacheCapacity   int
	FanoutTimeout   time.Duration
}

// Weights are the lex/sem/graph fusion weights (§4.5).
type Weights struct {
	Lexical float64
	Semantic float64
	Graph    float64
}

// CRDTConfig holds the collaboration engine's causal-buffer bound (§4.7).
type CRDTConfig struct {
	MaxBufferedOps int
	ResolverName   string // "last_writer_wins", "semantic_merge", "syntax_preserving", "human_intervention"; any other name (including "default") selects last_writer_wins
}

// SessionConfig holds the agent session registry's admission controls
// (§4.8).
type SessionConfig struct {
	MaxConnections   int
	RateLimitPerSec  float64
	RateLimitBurst   int
	IdleTimeout      time.Duration
	ReapInterval     time.Duration
}

// DispatcherConfig holds the JSON-RPC dispatcher's size caps and
// deadline (§4.9, §5).
type DispatcherConfig struct {
	MaxMessageBytes int
	DefaultDeadline time.Duration
}

// PathSandboxConfig configures the allow-list path validator (§4.10).
type PathSandboxConfig struct {
	AllowedPrefixes []string
}

// EmbeddingConfig selects and configures the embedding provider backing
// generate_embedding and HNSW writes.
type EmbeddingConfig struct {
	Provider  string // "openai", "gemini", "mock"
	APIKey    string
	Model     string
	Dimension int
	CacheSize int
	CacheTTL  time.Duration
}

// StorageConfig selects the optional durability hook behind the
// temporal store (§3, §6: "opaque persistence hooks").
type StorageConfig struct {
	Backend  string // "memory", "redis", "postgres" ("memory" disables the hook)
	Redis    RedisConfig
	Postgres PostgresConfig
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// PostgresConfig contains PostgreSQL connection settings.
type PostgresConfig struct {
	DSN   string
	Table string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level      string // "debug", "info", "warn", "error"
	Format     string // "json", "console"
	OutputPath string
}

// MetricsConfig contains Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool
	Address string
	Path    string
}

// TracingConfig contains OpenTelemetry/Jaeger exporter settings.
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	JaegerEndpoint string
	SamplingRate   float64
}

// DefaultConfig returns a configuration with every subsystem's
// documented default (§4's per-component defaults, §4.8's "default 100"
// connection cap, §4.9's "default 10 MiB" message cap, etc).
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			AgentName:       "agrama",
			Version:         "0.1.0",
			ShutdownTimeout: 10 * time.Second,
		},
		Temporal: TemporalConfig{
			MaxHistoryPerKey: 1000,
			MaxValueBytes:    50 * 1024 * 1024,
		},
		BM25: BM25Config{K1: 1.2, B: 0.75},
		HNSW: HNSWConfig{
			M:              16,
			MMax0:          32,
			EfConstruction: 200,
			EfSearch:       64,
			LevelFactor:    1.0 / 2.772589, // 1/ln(16), the conventional mL for M=16
		},
		FRE: FREConfig{
			MaxNodesPerQuery: 1_000_000,
			DensityFallback:  true,
		},
		Query: QueryConfig{
			DefaultWeights: Weights{Lexical: 0.3, Semantic: 0.5, Graph: 0.2},
			CacheCapacity:  1000,
			FanoutTimeout:  5 * time.Second,
		},
		CRDT: CRDTConfig{
			MaxBufferedOps: 10_000,
			ResolverName:   "default",
		},
		Session: SessionConfig{
			MaxConnections:  100,
			RateLimitPerSec: 10,
			RateLimitBurst:  10,
			IdleTimeout:     30 * time.Minute,
			ReapInterval:    1 * time.Minute,
		},
		Dispatcher: DispatcherConfig{
			MaxMessageBytes: 10 * 1024 * 1024,
			DefaultDeadline: 30 * time.Second,
		},
		PathSandbox: PathSandboxConfig{AllowedPrefixes: []string{"."}},
		Embedding: EmbeddingConfig{
			Provider:  "mock",
			Dimension: 256,
			CacheSize: 10_000,
			CacheTTL:  1 * time.Hour,
		},
		Storage: StorageConfig{
			Backend: "memory",
			Redis: RedisConfig{
				Address: "localhost:6379",
				DB:      0,
				TTL:     24 * time.Hour,
			},
			Postgres: PostgresConfig{
				DSN:   "postgres://localhost:5432/agrama?sslmode=disable",
				Table: "agrama_store",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			ServiceName:  "agrama",
			SamplingRate: 1.0,
		},
	}
}

// NewConfig creates a new default configuration. An alias for
// DefaultConfig kept for call-site symmetry with the rest of the
// package's New* constructors.
func NewConfig() *Config {
	return DefaultConfig()
}
