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

package embedding

import (
	"context"
	"os"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"github.com/agrama-db/agrama/pkg/errors"
)

// GeminiProvider implements Provider against Google's Gemini embedding
// models, which support Matryoshka representation learning: a longer
// embedding's prefix is itself a valid, lower-dimensional embedding, so
// Dimension can be set below the model's native size without retraining.
type GeminiProvider struct {
	svc       *generativelanguage.Service
	model     string
	dimension int
	taskType  string
}

// GeminiConfig configures a GeminiProvider.
type GeminiConfig struct {
	// APIKey is the Google AI API key. If empty, GEMINI_API_KEY or
	// GOOGLE_API_KEY is used.
	APIKey string

	// Model is the embedding model resource name. Default:
	// "models/text-embedding-004".
	Model string

	// Dimension truncates the model's native embedding to this length,
	// relying on Matryoshka truncation. 0 means use the model's native
	// dimension.
	Dimension int

	// TaskType hints the embedding optimization target, e.g.
	// "RETRIEVAL_DOCUMENT" or "RETRIEVAL_QUERY". Default:
	// "RETRIEVAL_DOCUMENT".
	TaskType string
}

// Gemini creates a GeminiProvider.
func Gemini(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}

	model := cfg.Model
	if model == "" {
		model = "models/text-embedding-004"
	}

	taskType := cfg.TaskType
	if taskType == "" {
		taskType = "RETRIEVAL_DOCUMENT"
	}

	dimension := cfg.Dimension
	if dimension == 0 {
		dimension = 768
	}

	svc, err := generativelanguage.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "gemini service init failed")
	}

	return &GeminiProvider{
		svc:       svc,
		model:     model,
		dimension: dimension,
		taskType:  taskType,
	}, nil
}

// Name returns "gemini".
func (p *GeminiProvider) Name() string { return "gemini" }

// Dimension returns the configured (possibly Matryoshka-truncated)
// vector length.
func (p *GeminiProvider) Dimension() int { return p.dimension }

// Embed embeds a single text.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	req := &generativelanguage.EmbedContentRequest{
		Content: &generativelanguage.Content{
			Parts: []*generativelanguage.Part{{Text: text}},
		},
		TaskType:             p.taskType,
		OutputDimensionality: int64(p.dimension),
	}

	resp, err := p.svc.Models.EmbedContent(p.model, req).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "gemini embed_content request failed")
	}
	if resp.Embedding == nil {
		return nil, errors.New(errors.CategoryNetwork, "EMBEDDING_EMPTY_RESPONSE",
			"gemini returned no embedding")
	}

	return toFloat32(resp.Embedding.Values), nil
}

// EmbedBatch embeds multiple texts. The generativelanguage v1beta API
// exposes BatchEmbedContents per-model; this loops sequentially instead
// since Agrama's write volume does not justify the extra request
// shaping for the batch endpoint.
func (p *GeminiProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func toFloat32(vals []float64) []float32 {
	out := make([]float32, len(vals))
	for i, v := range vals {
		out[i] = float32(v)
	}
	return out
}
