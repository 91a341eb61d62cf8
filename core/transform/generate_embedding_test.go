// SPDX-License-Identifier: LGPL-3.0-or-later

package transform

import (
	"context"
	"testing"

	"github.com/agrama-db/agrama/core/embedding"
)

func TestGenerateEmbedding(t *testing.T) {
	provider := embedding.NewMockProvider(16)
	op := newGenerateEmbedding(provider)

	out, err := op(context.Background(), []byte("store this fact"), nil)
	if err != nil {
		t.Fatalf("generateEmbedding() error = %v", err)
	}
	er := out.(EmbeddingResult)
	if er.Dimension != 16 || len(er.Vector) != 16 {
		t.Errorf("Dimension/len(Vector) = %d/%d, want 16/16", er.Dimension, len(er.Vector))
	}
	if er.Provider != provider.Name() {
		t.Errorf("Provider = %s, want %s", er.Provider, provider.Name())
	}
}

func TestGenerateEmbeddingDeterministic(t *testing.T) {
	provider := embedding.NewMockProvider(8)
	op := newGenerateEmbedding(provider)

	a, err := op(context.Background(), []byte("same text"), nil)
	if err != nil {
		t.Fatalf("generateEmbedding() error = %v", err)
	}
	b, err := op(context.Background(), []byte("same text"), nil)
	if err != nil {
		t.Fatalf("generateEmbedding() error = %v", err)
	}
	if !vectorsEqual(a.(EmbeddingResult).Vector, b.(EmbeddingResult).Vector) {
		t.Error("generateEmbedding() is not deterministic for identical input")
	}
}

func vectorsEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
