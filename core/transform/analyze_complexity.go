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
	"regexp"
	"strings"
)

// ComplexityResult is analyzeComplexity's output.
type ComplexityResult struct {
	CyclomaticComplexity int    `json:"cyclomatic_complexity"`
	Lines                int    `json:"lines"`
	Assessment           string `json:"assessment,omitempty"` // LLM-provided, when available
	Method               string `json:"method"`
}

// branchKeywords approximates cyclomatic complexity by counting
// decision points, the same shortcut most lightweight complexity
// linters take without a real control-flow graph.
var branchKeywords = regexp.MustCompile(`\b(if|else if|elif|for|while|case|catch|except)\b|&&|\|\||\?\s*[^:]+:`)

// newAnalyzeComplexity closes over an optional anthropicClient for a
// narrative assessment on top of the heuristic cyclomatic count; the
// count itself is always computed, LLM or not.
func newAnalyzeComplexity(llm *anthropicClient) Func {
	return func(ctx context.Context, data []byte, _ map[string]interface{}) (interface{}, error) {
		text := string(data)
		matches := branchKeywords.FindAllString(text, -1)
		result := ComplexityResult{
			CyclomaticComplexity: len(matches) + 1,
			Lines:                lineCount(data),
			Method:               "heuristic",
		}

		if llm == nil {
			return result, nil
		}

		prompt := fmt.Sprintf(
			"In one sentence, assess the complexity and readability of this code (cyclomatic complexity estimate: %d):\n\n%s",
			result.CyclomaticComplexity, text)
		assessment, err := llm.complete(ctx, prompt, 256)
		if err != nil || assessment == "" {
			return result, nil
		}

		result.Assessment = strings.TrimSpace(assessment)
		result.Method = "llm"
		return result, nil
	}
}
