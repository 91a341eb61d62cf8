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
	"fmt"
	"strings"
)

// SummaryResult is summarizeContent's output.
type SummaryResult struct {
	Summary string `json:"summary"`
	Method  string `json:"method"` // "llm" or "heuristic"
}

// newSummarizeContent closes over an optional anthropicClient. When
// nil (no API key configured), the operation falls back to a
// heuristic lead-sentence extraction rather than failing the call.
func newSummarizeContent(llm *anthropicClient) Func {
	return func(ctx context.Context, data []byte, options map[string]interface{}) (interface{}, error) {
		maxSentences := 3
		if v, ok := options["max_sentences"].(float64); ok && v > 0 {
			maxSentences = int(v)
		}

		if llm != nil {
			prompt := fmt.Sprintf("Summarize the following content in at most %d sentences:\n\n%s", maxSentences, string(data))
			summary, err := llm.complete(ctx, prompt, 512)
			if err == nil && summary != "" {
				return SummaryResult{Summary: strings.TrimSpace(summary), Method: "llm"}, nil
			}
			// Fall through to the heuristic path on any LLM failure: a
			// degraded summary beats no summary.
		}

		return SummaryResult{Summary: heuristicSummary(string(data), maxSentences), Method: "heuristic"}, nil
	}
}

// heuristicSummary takes the first maxSentences sentences, splitting
// on the usual terminators. It is an extractive, not abstractive,
// summary — good enough as a fallback when no LLM is configured.
func heuristicSummary(text string, maxSentences int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences = append(sentences, strings.TrimSpace(text[start:i+1]))
			start = i + 1
			if len(sentences) >= maxSentences {
				break
			}
		}
	}
	if len(sentences) == 0 {
		return truncateRunes(text, 280)
	}
	return strings.Join(sentences, " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
