// SPDX-License-Identifier: LGPL-3.0-or-later

package transform

import (
	"testing"

	"github.com/agrama-db/agrama/core/embedding"
)

func TestBuiltinRegistryWithEmbedder(t *testing.T) {
	r := BuiltinRegistry(Config{Embedder: embedding.NewMockProvider(8)})

	names := []string{
		"parse_functions", "extract_imports", "extract_dependencies",
		"compress_text", "diff_content", "merge_content", "validate_syntax",
		"summarize_content", "analyze_complexity", "generate_embedding",
	}
	for _, name := range names {
		if _, ok := r.Get(name); !ok {
			t.Errorf("Get(%q) not found, want registered", name)
		}
	}
	if got := len(r.List()); got != len(names) {
		t.Errorf("List() len = %d, want %d", got, len(names))
	}
}

func TestBuiltinRegistryWithoutEmbedder(t *testing.T) {
	r := BuiltinRegistry(Config{})

	if _, ok := r.Get("generate_embedding"); ok {
		t.Error("Get(generate_embedding) found with no Embedder configured, want not found")
	}
	if got := len(r.List()); got != 9 {
		t.Errorf("List() len = %d, want 9 without an embedder", got)
	}
}
