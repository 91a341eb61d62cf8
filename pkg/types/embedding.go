package types

// SupportedDimensions enumerates the embedding dimensions Agrama accepts
// (§3). Matryoshka embeddings make the smaller entries usable as prefixes
// of the larger ones, but Agrama treats each dimension as an independent
// index configuration.
var SupportedDimensions = [...]int{64, 128, 256, 512, 768, 1024, 1536, 3072}

// IsSupportedDimension reports whether d is one of SupportedDimensions.
func IsSupportedDimension(d int) bool {
	for _, s := range SupportedDimensions {
		if s == d {
			return true
		}
	}
	return false
}

// Embedding is a dense float32 vector associated with a Key. A key has at
// most one current embedding (§3). Storage alignment (32 bytes) is a
// property of the pool that allocates the backing array, not of this
// type — see core/pool.
type Embedding struct {
	Key    Key       `json:"key"`
	Vector []float32 `json:"vector"`
}

// Dimension returns the embedding's vector length.
func (e Embedding) Dimension() int { return len(e.Vector) }
