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

import "github.com/agrama-db/agrama/core/embedding"

// Config selects the optional backends the builtin registry wires in.
type Config struct {
	// Embedder backs generate_embedding. Required for that operation
	// to be registered at all.
	Embedder embedding.Provider

	// Anthropic backs the LLM-assisted path of summarize_content and
	// analyze_complexity. Both operations are still registered without
	// it, using their heuristic fallback exclusively.
	Anthropic AnthropicConfig
}

// BuiltinRegistry returns a Registry with §4.6's minimum operation set
// registered (generate_embedding omitted if cfg.Embedder is nil).
func BuiltinRegistry(cfg Config) *Registry {
	r := NewRegistry()

	r.Register(NewOperation("parse_functions", "Extract function signatures from source text", parseFunctions))
	r.Register(NewOperation("extract_imports", "Extract import/include statements from source text", extractImports))
	r.Register(NewOperation("extract_dependencies", "Extract package-manager dependency declarations", extractDependencies))
	r.Register(NewOperation("compress_text", "Compress (or, with options.decode, decompress) text via zstd", compressText))
	r.Register(NewOperation("diff_content", "Compute a line-level diff against options.other", diffContent))
	r.Register(NewOperation("merge_content", "Three-way merge against options.base and options.theirs", mergeContent))
	r.Register(NewOperation("validate_syntax", "Check bracket and string-literal balance", validateSyntax))

	llm := newAnthropicClient(cfg.Anthropic)
	r.Register(NewOperation("summarize_content", "Summarize text, LLM-backed with a heuristic fallback", newSummarizeContent(llm)))
	r.Register(NewOperation("analyze_complexity", "Estimate cyclomatic complexity, LLM-backed assessment optional", newAnalyzeComplexity(llm)))

	if cfg.Embedder != nil {
		r.Register(NewOperation("generate_embedding", "Generate a vector embedding for text", newGenerateEmbedding(cfg.Embedder)))
	}

	return r
}
