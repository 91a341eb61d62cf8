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

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/agrama-db/agrama/pkg/errors"
)

// MergeResult is mergeContent's output.
type MergeResult struct {
	Merged    string `json:"merged"`
	Conflicts int    `json:"conflicts"`
}

// mergeContent three-way merges data ("ours") with options["theirs"]
// against a common options["base"], by computing base→theirs as a
// patch set and applying it onto ours. Hunks that fail to apply
// cleanly (both sides touched the same region) are counted as
// conflicts and left as the "ours" text at that hunk, rather than
// inserting literal conflict markers into opaque byte content.
func mergeContent(_ context.Context, data []byte, options map[string]interface{}) (interface{}, error) {
	base, ok := options["base"].(string)
	if !ok {
		return nil, errors.ErrValidationFailed.WithDetail("field", "options.base").WithDetail("reason", "missing or not a string")
	}
	theirs, ok := options["theirs"].(string)
	if !ok {
		return nil, errors.ErrValidationFailed.WithDetail("field", "options.theirs").WithDetail("reason", "missing or not a string")
	}
	ours := string(data)

	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(base, theirs)
	merged, applied := dmp.PatchApply(patches, ours)

	conflicts := 0
	for _, ok := range applied {
		if !ok {
			conflicts++
		}
	}

	return MergeResult{Merged: merged, Conflicts: conflicts}, nil
}
