// Package query implements §4.5: the hybrid query engine that fans a
// request out to the lexical, semantic, and graph indices concurrently,
// fuses their scores, and caches the fused result.
package query

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// resultCache is a fixed-capacity LRU cache of fused query results,
// keyed by a fingerprint of the request and the index versions that
// produced it. Adapted from cache.MemoryCache's list.List-backed LRU,
// narrowed to this package's single value type and without the
// TTL/eviction-policy generality the shared cache package offers,
// since a query result is invalidated by index version, not by time.
type resultCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used

	group singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

type cacheEntry struct {
	fingerprint string
	result      Response
}

func newResultCache(capacity int) *resultCache {
	if capacity <= 0 {
		capacity = 1000
	}
	return &resultCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (c *resultCache) get(fingerprint string) (Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[fingerprint]
	if !ok {
		c.misses.Add(1)
		return Response{}, false
	}
	c.hits.Add(1)
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).result, true
}

// stats returns the cache's lifetime hit and miss counts, for the
// cache-hit-rate gauge in observability/metrics (§11 DOMAIN STACK).
func (c *resultCache) stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *resultCache) put(fingerprint string, result Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[fingerprint]; ok {
		el.Value.(*cacheEntry).result = result
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheEntry{fingerprint: fingerprint, result: result})
	c.entries[fingerprint] = el

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).fingerprint)
		}
	}
}

// coalesce runs fn at most once per concurrently-requested fingerprint:
// a concurrent miss on the same fingerprint blocks on the first caller's
// in-flight fan-out rather than launching a second one.
func (c *resultCache) coalesce(fingerprint string, fn func() (Response, error)) (Response, error) {
	v, err, _ := c.group.Do(fingerprint, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return Response{}, err
	}
	return v.(Response), nil
}

// fingerprint computes a stable cache key from the query request and
// the current index versions, so a mutation that bumps an index's
// version naturally misses every previously cached result depending on
// it (§4.5: "fingerprint of (query, weights, k, threshold, index
// versions)").
func fingerprint(req Request, indexVersions [3]uint64) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%f|%f|%f|%f|%s|%d|%d|%d|%d",
		req.Text, req.K, req.Weights.Lex, req.Weights.Sem, req.Weights.Graph, req.Threshold,
		req.GraphRoot, req.GraphDepth,
		indexVersions[0], indexVersions[1], indexVersions[2])
	return hex.EncodeToString(h.Sum(nil))
}
