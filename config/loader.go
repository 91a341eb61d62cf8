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
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix viper requires on every environment override,
// e.g. AGRAMA_SESSION_MAXCONNECTIONS for Config.Session.MaxConnections.
const EnvPrefix = "AGRAMA"

// Load builds a Config from, in increasing precedence: compiled-in
// defaults, an optional config file, and environment variables. path
// may be empty, in which case only defaults and the environment apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyShorthandEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// bindDefaults seeds viper's own default layer from a freshly
// constructed Config so that fields absent from both the file and the
// environment keep DefaultConfig's values after Unmarshal, rather than
// being zeroed by mapstructure.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server", cfg.Server)
	v.SetDefault("temporal", cfg.Temporal)
	v.SetDefault("bm25", cfg.BM25)
	v.SetDefault("hnsw", cfg.HNSW)
	v.SetDefault("fre", cfg.FRE)
	v.SetDefault("query", cfg.Query)
	v.SetDefault("crdt", cfg.CRDT)
	v.SetDefault("session", cfg.Session)
	v.SetDefault("dispatcher", cfg.Dispatcher)
	v.SetDefault("pathsandbox", cfg.PathSandbox)
	v.SetDefault("embedding", cfg.Embedding)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("logging", cfg.Logging)
	v.SetDefault("metrics", cfg.Metrics)
	v.SetDefault("tracing", cfg.Tracing)
}

// applyShorthandEnv honors a handful of short, provider-idiomatic
// environment variable names (the convention every LLM SDK in the pack
// already uses) as fallbacks: each applies only when the value from the
// file or the AGRAMA_-prefixed form is still empty, so operators need
// not rename keys they already export for other tools.
func applyShorthandEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.Embedding.APIKey == "" && cfg.Embedding.Provider == "openai" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.Embedding.APIKey == "" && cfg.Embedding.Provider == "gemini" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && os.Getenv("AGRAMA_ANTHROPIC_API_KEY") == "" {
		os.Setenv("AGRAMA_ANTHROPIC_API_KEY", v)
	}
}

// WriteDefault marshals DefaultConfig (or cfg, if non-nil) to path as
// YAML, scaffolding a starting file an operator can then edit.
func WriteDefault(path string, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}
