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
	"regexp"
)

// FunctionSignature is one match from parseFunctions.
type FunctionSignature struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Line      int    `json:"line"`
}

// functionPatterns covers the common declaration shapes across the
// languages Agrama's code graph is likely to see. This is a heuristic,
// not a parser: per §3's non-goals, transform operations never build a
// real AST, so a pattern miss degrades gracefully rather than failing
// the call.
var functionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?(\w+)\s*\(([^)]*)\)`),                 // Go
	regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(([^)]*)\)`),   // JS/TS
	regexp.MustCompile(`^\s*def\s+(\w+)\s*\(([^)]*)\)\s*:`),                               // Python
	regexp.MustCompile(`^\s*(?:public|private|protected|static|\s)*\w[\w<>\[\],\s]*\s(\w+)\s*\(([^)]*)\)\s*\{`), // Java/C#/C-like
}

func parseFunctions(_ context.Context, data []byte, _ map[string]interface{}) (interface{}, error) {
	var sigs []FunctionSignature
	lines := splitLines(data)

	for i, line := range lines {
		for _, pattern := range functionPatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			sigs = append(sigs, FunctionSignature{
				Name:      m[1],
				Signature: trimSpaceBytes(line),
				Line:      i + 1,
			})
			break
		}
	}

	if sigs == nil {
		sigs = []FunctionSignature{}
	}
	return sigs, nil
}
