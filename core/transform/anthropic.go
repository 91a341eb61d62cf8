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

package transform

import (
	"context"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig configures the optional LLM-backed path of
// summarize_content and analyze_complexity. If APIKey resolves empty
// (neither set here nor in ANTHROPIC_API_KEY), both operations fall
// back to their heuristic implementation instead of erroring — the
// registry always has a usable summarize/analyze even with no API key
// configured.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// anthropicClient wraps the SDK client with the one narrow call shape
// summarize/analyze need: a single-turn completion with no tool use,
// no streaming. The teacher's own adapters/llm/anthropic.go hand-rolls
// this against the raw REST API; here the real SDK client is used
// directly since nothing else in transform needs the REST fallback
// the teacher built it for.
type anthropicClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

func newAnthropicClient(cfg AnthropicConfig) *anthropicClient {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.Model("claude-3-5-haiku-20241022")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &anthropicClient{client: &client, model: model}
}

func (a *anthropicClient) complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(a.model),
		MaxTokens: anthropic.F(maxTokens),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	})
	if err != nil {
		return "", err
	}

	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out, nil
}
