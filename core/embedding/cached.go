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

package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/agrama-db/agrama/cache"
)

// CachedProvider wraps a Provider with a TTL'd LRU cache of prior
// embeddings, keyed by a hash of the provider name and the input text.
// store() re-embeds content on every call by default (§4.6: "if
// len(value) > threshold ... generates or re-indexes an embedding"); a
// cache in front of the real API call keeps repeated store()s of
// unchanged content from re-billing a remote provider.
type CachedProvider struct {
	Provider
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps p with c, caching entries for ttl.
func NewCachedProvider(p Provider, c cache.Cache, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &CachedProvider{Provider: p, cache: c, ttl: ttl}
}

func (c *CachedProvider) key(text string) string {
	h := sha256.Sum256([]byte(c.Provider.Name() + "\x00" + text))
	return hex.EncodeToString(h[:])
}

// Embed returns a cached embedding if present, otherwise delegates to
// the wrapped Provider and caches the result.
func (c *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)
	if v, found := c.cache.Get(ctx, key); found {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}

	vec, err := c.Provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, vec, c.ttl)
	return vec, nil
}

// EmbedBatch checks the cache per-text, only delegating the uncached
// subset to the wrapped Provider's batch call.
func (c *CachedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	missIdx := make([]int, 0, len(texts))
	missText := make([]string, 0, len(texts))

	for i, text := range texts {
		if v, found := c.cache.Get(ctx, c.key(text)); found {
			if vec, ok := v.([]float32); ok {
				out[i] = vec
				continue
			}
		}
		missIdx = append(missIdx, i)
		missText = append(missText, text)
	}

	if len(missText) == 0 {
		return out, nil
	}

	embedded, err := c.Provider.EmbedBatch(ctx, missText)
	if err != nil {
		return nil, err
	}
	for j, i := range missIdx {
		out[i] = embedded[j]
		_ = c.cache.Set(ctx, c.key(missText[j]), embedded[j], c.ttl)
	}
	return out, nil
}
