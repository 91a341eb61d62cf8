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

var importPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*import\s+"([^"]+)"`),                     // Go single import
	regexp.MustCompile(`^\s*"([^"]+)"\s*$`),                         // Go grouped import line
	regexp.MustCompile(`^\s*import\s+.*from\s+['"]([^'"]+)['"]`),    // JS/TS
	regexp.MustCompile(`^\s*(?:import|from)\s+([\w.]+)\s*(?:import)?`), // Python
}

func extractImports(_ context.Context, data []byte, _ map[string]interface{}) (interface{}, error) {
	seen := make(map[string]bool)
	var imports []string

	for _, line := range splitLines(data) {
		for _, pattern := range importPatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := m[1]
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			imports = append(imports, name)
			break
		}
	}

	if imports == nil {
		imports = []string{}
	}
	return imports, nil
}
