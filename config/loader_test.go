// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Session.MaxConnections != DefaultConfig().Session.MaxConnections {
		t.Error("expected default session cap when no file is given")
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agrama.yaml")
	yaml := `
session:
  maxconnections: 42
bm25:
  k1: 1.5
  b: 0.8
`
	if err := writeFile(path, yaml); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.MaxConnections != 42 {
		t.Errorf("expected overridden session cap 42, got %d", cfg.Session.MaxConnections)
	}
	if cfg.BM25.K1 != 1.5 || cfg.BM25.B != 0.8 {
		t.Errorf("expected overridden bm25 params, got %+v", cfg.BM25)
	}
	// Fields absent from the file keep DefaultConfig's value.
	if cfg.Dispatcher.MaxMessageBytes != DefaultConfig().Dispatcher.MaxMessageBytes {
		t.Error("expected dispatcher defaults to survive a partial file override")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agrama.yaml")
	if err := writeFile(path, "session:\n  maxconnections: 42\n"); err != nil {
		t.Fatal(err)
	}

	t.Setenv("AGRAMA_SESSION_MAXCONNECTIONS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.MaxConnections != 7 {
		t.Errorf("expected env override to win, got %d", cfg.Session.MaxConnections)
	}
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agrama.yaml")
	if err := writeFile(path, "storage:\n  backend: sqlite\n"); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected Load to reject an invalid storage backend")
	}
}

func TestWriteDefault_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agrama.yaml")
	if err := WriteDefault(path, nil); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load written default: %v", err)
	}
	if cfg.Session.MaxConnections != DefaultConfig().Session.MaxConnections {
		t.Error("round-tripped default config should match DefaultConfig")
	}
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
