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

	openai "github.com/sashabaranov/go-openai"

	"github.com/agrama-db/agrama/pkg/errors"
)

// OpenAIProvider implements Provider against OpenAI's embeddings API.
type OpenAIProvider struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// OpenAIConfig configures an OpenAIProvider.
type OpenAIConfig struct {
	// APIKey is the OpenAI API key. If empty, OPENAI_API_KEY is used.
	APIKey string

	// Model selects the embedding model. Default: text-embedding-3-small.
	Model openai.EmbeddingModel

	// Dimension is the vector length Model produces. Default: 1536.
	Dimension int

	// BaseURL overrides the API base URL, for custom endpoints.
	BaseURL string
}

// OpenAI creates an OpenAIProvider.
func OpenAI(cfg OpenAIConfig) *OpenAIProvider {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	model := cfg.Model
	if model == "" {
		model = openai.SmallEmbedding3
	}

	dimension := cfg.Dimension
	if dimension == 0 {
		dimension = 1536
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		dimension: dimension,
	}
}

// Name returns "openai".
func (p *OpenAIProvider) Name() string { return "openai" }

// Dimension returns the configured vector length.
func (p *OpenAIProvider) Dimension() int { return p.dimension }

// Embed embeds a single text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds multiple texts in a single API call.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: p.model,
	})
	if err != nil {
		return nil, errors.Wrap(err, "openai embeddings request failed")
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.New(errors.CategoryNetwork, "EMBEDDING_COUNT_MISMATCH",
			"provider returned a different number of embeddings than requested")
	}

	out := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		out[d.Index] = d.Embedding
	}
	return out, nil
}
