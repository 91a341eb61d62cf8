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

// DiffOp mirrors one diffmatchpatch.Diff entry in a JSON-stable shape.
type DiffOp struct {
	Op   string `json:"op"` // "equal", "insert", "delete"
	Text string `json:"text"`
}

// DiffResult is diffContent's output. diff_content is pure: the same
// (data, options) pair always yields byte-identical DiffResult JSON,
// satisfying §4's determinism requirement for pure transforms.
type DiffResult struct {
	Diffs         []DiffOp `json:"diffs"`
	LevenshteinN  int      `json:"levenshtein"`
}

// diffContent computes a line-level diff between data and
// options["other"], the baseline text to compare against.
func diffContent(_ context.Context, data []byte, options map[string]interface{}) (interface{}, error) {
	other, ok := options["other"].(string)
	if !ok {
		return nil, errors.ErrValidationFailed.WithDetail("field", "options.other").WithDetail("reason", "missing or not a string")
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(other, string(data))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	out := make([]DiffOp, 0, len(diffs))
	for _, d := range diffs {
		out = append(out, DiffOp{Op: diffOpName(d.Type), Text: d.Text})
	}

	return DiffResult{
		Diffs:        out,
		LevenshteinN: dmp.DiffLevenshtein(diffs),
	}, nil
}

func diffOpName(t diffmatchpatch.Operation) string {
	switch t {
	case diffmatchpatch.DiffInsert:
		return "insert"
	case diffmatchpatch.DiffDelete:
		return "delete"
	default:
		return "equal"
	}
}
