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
	"fmt"
)

// Validate validates the entire configuration.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateBM25(); err != nil {
		return err
	}
	if err := c.validateHNSW(); err != nil {
		return err
	}
	if err := c.validateQuery(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateDispatcher(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateTracing(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.AgentName == "" {
		return fmt.Errorf("server agent name must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive")
	}
	return nil
}

// validateBM25 checks the BM25 scoring constants are in their
// conventional ranges (§4.2: "k1, b configurable").
func (c *Config) validateBM25() error {
	if c.BM25.K1 < 0 {
		return fmt.Errorf("bm25 k1 must not be negative")
	}
	if c.BM25.B < 0 || c.BM25.B > 1 {
		return fmt.Errorf("bm25 b must be in [0, 1]")
	}
	return nil
}

func (c *Config) validateHNSW() error {
	if c.HNSW.M < 2 {
		return fmt.Errorf("hnsw M must be at least 2")
	}
	if c.HNSW.MMax0 < c.HNSW.M {
		return fmt.Errorf("hnsw MMax0 must be at least M")
	}
	if c.HNSW.EfConstruction < 1 {
		return fmt.Errorf("hnsw efConstruction must be positive")
	}
	if c.HNSW.EfSearch < 1 {
		return fmt.Errorf("hnsw efSearch must be positive")
	}
	return nil
}

// validateQuery checks the hybrid engine's default weights sum > 0 per
// §4.5 step 1's own invariant on caller-supplied weights.
func (c *Config) validateQuery() error {
	w := c.Query.DefaultWeights
	if w.Lexical < 0 || w.Semantic < 0 || w.Graph < 0 {
		return fmt.Errorf("query weights must not be negative")
	}
	if w.Lexical+w.Semantic+w.Graph <= 0 {
		return fmt.Errorf("query default weights must sum to more than 0")
	}
	if c.Query.CacheCapacity < 0 {
		return fmt.Errorf("query cache capacity must not be negative")
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.MaxConnections < 1 {
		return fmt.Errorf("session max connections must be positive")
	}
	if c.Session.RateLimitPerSec <= 0 {
		return fmt.Errorf("session rate limit must be positive")
	}
	return nil
}

func (c *Config) validateDispatcher() error {
	if c.Dispatcher.MaxMessageBytes < 1 {
		return fmt.Errorf("dispatcher max message bytes must be positive")
	}
	if c.Dispatcher.DefaultDeadline <= 0 {
		return fmt.Errorf("dispatcher default deadline must be positive")
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	validProviders := map[string]bool{"openai": true, "gemini": true, "mock": true}
	if !validProviders[c.Embedding.Provider] {
		return fmt.Errorf("embedding provider must be one of: openai, gemini, mock")
	}
	if c.Embedding.Provider != "mock" && c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding API key must not be empty for provider %q", c.Embedding.Provider)
	}
	validDims := map[int]bool{64: true, 128: true, 256: true, 512: true, 768: true, 1024: true, 1536: true, 3072: true}
	if !validDims[c.Embedding.Dimension] {
		return fmt.Errorf("embedding dimension must be one of {64,128,256,512,768,1024,1536,3072}")
	}
	return nil
}

// validateStorage validates the durability-hook backend selection
// (§3/§6: persistence is opaque and optional).
func (c *Config) validateStorage() error {
	validBackends := map[string]bool{"memory": true, "redis": true, "postgres": true}
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("storage backend must be one of: memory, redis, postgres")
	}
	if c.Storage.Backend == "redis" && c.Storage.Redis.Address == "" {
		return fmt.Errorf("redis address must not be empty")
	}
	if c.Storage.Backend == "postgres" && c.Storage.Postgres.DSN == "" {
		return fmt.Errorf("postgres DSN must not be empty")
	}
	return nil
}

func (c *Config) validateTracing() error {
	if !c.Tracing.Enabled {
		return nil
	}
	if c.Tracing.JaegerEndpoint == "" {
		return fmt.Errorf("tracing jaeger endpoint must not be empty when tracing is enabled")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return fmt.Errorf("tracing sampling rate must be between 0.0 and 1.0")
	}
	return nil
}
