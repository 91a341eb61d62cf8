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
	"encoding/base64"

	"github.com/klauspost/compress/zstd"

	"github.com/agrama-db/agrama/pkg/errors"
)

// CompressResult is compressText's output: the compressed bytes,
// base64-encoded so they survive the engine's JSON result envelope.
type CompressResult struct {
	Encoded        string  `json:"encoded"`
	OriginalBytes  int     `json:"original_bytes"`
	CompressedBytes int    `json:"compressed_bytes"`
	Ratio          float64 `json:"ratio"`
}

func compressText(_ context.Context, data []byte, options map[string]interface{}) (interface{}, error) {
	if decode, _ := options["decode"].(bool); decode {
		return decompressText(data)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, errors.Wrap(err, "zstd encoder init failed")
	}
	defer enc.Close()

	compressed := enc.EncodeAll(data, nil)

	ratio := 1.0
	if len(data) > 0 {
		ratio = float64(len(compressed)) / float64(len(data))
	}

	return CompressResult{
		Encoded:         base64.StdEncoding.EncodeToString(compressed),
		OriginalBytes:   len(data),
		CompressedBytes: len(compressed),
		Ratio:           ratio,
	}, nil
}

// DecompressResult is compressText's output when options["decode"] is
// set: data is treated as base64-encoded zstd input to invert.
type DecompressResult struct {
	Decoded string `json:"decoded"`
	Bytes   int    `json:"bytes"`
}

func decompressText(data []byte) (interface{}, error) {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, errors.ErrValidationFailed.WithDetail("reason", "not valid base64").Wrap(err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "zstd decoder init failed")
	}
	defer dec.Close()

	decoded, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, errors.Wrap(err, "zstd decode failed")
	}

	return DecompressResult{Decoded: string(decoded), Bytes: len(decoded)}, nil
}
