// SPDX-License-Identifier: LGPL-3.0-or-later

package transform

import (
	"context"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	original := []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")

	compressed, err := compressText(context.Background(), original, nil)
	if err != nil {
		t.Fatalf("compressText() error = %v", err)
	}
	cr := compressed.(CompressResult)
	if cr.OriginalBytes != len(original) {
		t.Errorf("OriginalBytes = %d, want %d", cr.OriginalBytes, len(original))
	}

	decompressed, err := compressText(context.Background(), []byte(cr.Encoded), map[string]interface{}{"decode": true})
	if err != nil {
		t.Fatalf("compressText() decode error = %v", err)
	}
	dr := decompressed.(DecompressResult)
	if dr.Decoded != string(original) {
		t.Errorf("round trip mismatch: got %q, want %q", dr.Decoded, string(original))
	}
}

func TestCompressEmptyInput(t *testing.T) {
	out, err := compressText(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("compressText() error = %v", err)
	}
	if out.(CompressResult).OriginalBytes != 0 {
		t.Errorf("OriginalBytes = %d, want 0", out.(CompressResult).OriginalBytes)
	}
}
