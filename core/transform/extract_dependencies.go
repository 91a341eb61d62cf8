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
	"strings"
)

// Dependency is one match from extractDependencies: a package-manager
// declared dependency, as opposed to extractImports' source-level
// import statements.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

var (
	goRequireLine  = regexp.MustCompile(`^\s*([\w./-]+)\s+(v[\w.\-+]+)`)
	jsonDepLine    = regexp.MustCompile(`^\s*"([^"]+)"\s*:\s*"([^"]+)"\s*,?\s*$`)
	pyRequireLine  = regexp.MustCompile(`^\s*([\w.-]+)\s*([=<>!~]=?\s*[\w.]+)?\s*$`)
)

// extractDependencies looks for go.mod require blocks, package.json
// dependency objects, and requirements.txt-style lines. The caller
// identifies the manifest kind via options["format"] ∈ {"go", "npm",
// "pip"}; without a hint, only the go.mod and package.json patterns are
// tried and de-duped, and requirements.txt lines are matched only with
// format "pip".
func extractDependencies(_ context.Context, data []byte, options map[string]interface{}) (interface{}, error) {
	format, _ := options["format"].(string)

	var deps []Dependency
	seen := make(map[string]bool)
	add := func(name, version string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		deps = append(deps, Dependency{Name: name, Version: strings.TrimSpace(version)})
	}

	for _, line := range splitLines(data) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			continue
		}

		switch format {
		case "go":
			if m := goRequireLine.FindStringSubmatch(line); m != nil {
				add(m[1], m[2])
			}
		case "npm":
			if m := jsonDepLine.FindStringSubmatch(line); m != nil {
				add(m[1], m[2])
			}
		case "pip":
			if m := pyRequireLine.FindStringSubmatch(line); m != nil {
				add(m[1], m[2])
			}
		default:
			if m := goRequireLine.FindStringSubmatch(line); m != nil {
				add(m[1], m[2])
				continue
			}
			if m := jsonDepLine.FindStringSubmatch(line); m != nil {
				add(m[1], m[2])
			}
		}
	}

	if deps == nil {
		deps = []Dependency{}
	}
	return deps, nil
}
