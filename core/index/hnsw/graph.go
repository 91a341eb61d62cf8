package hnsw

import (
	"container/heap"
	"math"
	"math/rand"
	"sync"

	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// Config holds the HNSW build- and query-time parameters (§4.3).
type Config struct {
	Dimension      int
	M              int // edges per node per layer above 0
	MMax0          int // edge cap at layer 0
	EfConstruction int // candidate pool size during insert
	EfSearch       int // candidate pool size during search
	LevelMult      float64
}

// DefaultConfig returns conventional HNSW parameters for the given
// embedding dimension.
func DefaultConfig(dimension int) Config {
	m := 16
	return Config{
		Dimension:      dimension,
		M:              m,
		MMax0:          m * 2,
		EfConstruction: 200,
		EfSearch:       64,
		LevelMult:      1 / math.Log(float64(m)),
	}
}

type node struct {
	key       types.Key
	vector    []float32
	level     int
	links     [][]types.Key // links[l] = neighbors at layer l
	tombstone bool
}

// Result is one scored match from Search.
type Result struct {
	Key      types.Key
	Distance float32
}

// Index is a hierarchical navigable small-world graph over L2-unit
// embeddings.
type Index struct {
	cfg Config

	mu        sync.RWMutex
	nodes     map[types.Key]*node
	entry     types.Key
	entrySet  bool
	rng       *rand.Rand
	liveCount int

	bulkMode bool // suspends per-insert pruning; EndBulkLoad() applies it
}

// New creates an empty Index with the given configuration.
func New(cfg Config) *Index {
	return &Index{
		cfg:   cfg,
		nodes: make(map[types.Key]*node),
		rng:   rand.New(rand.NewSource(1)),
	}
}

// BeginBulkLoad switches the index into bulk-construction mode: inserts
// skip per-node edge pruning until EndBulkLoad runs a single compaction
// pass, avoiding the O(n^2) cost of repeatedly re-pruning already-stable
// neighborhoods during a large load (§4.3).
func (idx *Index) BeginBulkLoad(expectedN int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.bulkMode = true
	if expectedN > 0 {
		newNodes := make(map[types.Key]*node, expectedN)
		for k, v := range idx.nodes {
			newNodes[k] = v
		}
		idx.nodes = newNodes
	}
}

// EndBulkLoad runs the deferred pruning pass and returns the index to
// normal per-insert pruning.
func (idx *Index) EndBulkLoad() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.bulkMode = false
	for _, n := range idx.nodes {
		if n.tombstone {
			continue
		}
		for l := range n.links {
			limit := idx.cfg.M
			if l == 0 {
				limit = idx.cfg.MMax0
			}
			idx.pruneLocked(n, l, limit)
		}
	}
}

// Insert adds key with the given embedding. Dimension must match the
// index's configured dimension.
func (idx *Index) Insert(key types.Key, vector []float32) error {
	if len(vector) != idx.cfg.Dimension {
		return errors.ErrDimensionMismatch.
			WithDetail("expected", idx.cfg.Dimension).
			WithDetail("got", len(vector))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	level := idx.randomLevel()
	n := &node{key: key, vector: vector, level: level, links: make([][]types.Key, level+1)}

	if !idx.entrySet {
		idx.nodes[key] = n
		idx.entry = key
		idx.entrySet = true
		idx.liveCount++
		return nil
	}

	// Greedy descent from the entry point down to the insertion layer.
	entryNode := idx.nodes[idx.entry]
	cur := idx.entry
	curDist := cosineDistance(vector, entryNode.vector)
	for l := entryNode.level; l > level; l-- {
		cur, curDist = idx.greedyStep(cur, curDist, vector, l)
	}

	idx.nodes[key] = n

	for l := min(level, entryNode.level); l >= 0; l-- {
		candidates := idx.searchLayer(vector, cur, idx.cfg.EfConstruction, l, key)
		selected := selectNeighbors(candidates, idx.cfg.M)
		for _, c := range selected {
			n.links[l] = append(n.links[l], c.Key)
			other := idx.nodes[c.Key]
			if l < len(other.links) {
				other.links[l] = append(other.links[l], key)
				if !idx.bulkMode {
					limit := idx.cfg.M
					if l == 0 {
						limit = idx.cfg.MMax0
					}
					idx.pruneLocked(other, l, limit)
				}
			}
		}
		if len(candidates) > 0 {
			cur = candidates[0].Key
		}
	}

	if level > entryNode.level {
		idx.entry = key
	}
	idx.liveCount++
	return nil
}

// Search returns the k nearest (by cosine distance) non-tombstoned
// neighbors of query.
func (idx *Index) Search(query []float32, k int) ([]Result, error) {
	if len(query) != idx.cfg.Dimension {
		return nil, errors.ErrDimensionMismatch.
			WithDetail("expected", idx.cfg.Dimension).
			WithDetail("got", len(query))
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.entrySet {
		return nil, errors.ErrIndexNotReady
	}

	entryNode := idx.nodes[idx.entry]
	cur := idx.entry
	curDist := cosineDistance(query, entryNode.vector)
	for l := entryNode.level; l > 0; l-- {
		cur, curDist = idx.greedyStep(cur, curDist, query, l)
	}
	_ = curDist

	ef := idx.cfg.EfSearch
	if ef < k {
		ef = k
	}
	candidates := idx.searchLayer(query, cur, ef, 0, "")

	if k > 0 && k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// Len reports the number of live (non-tombstoned) vectors currently
// indexed, for the index-size gauge in observability/metrics (§11
// DOMAIN STACK).
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.liveCount
}

// Remove tombstones key so it is skipped during search and insertion
// linking, without disturbing existing edges (a full edge repair would
// require re-linking every neighbor, an expense HNSW implementations
// conventionally defer to a background compaction rather than pay
// synchronously on every delete).
func (idx *Index) Remove(key types.Key) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	n, ok := idx.nodes[key]
	if !ok || n.tombstone {
		return errors.ErrNotFound.WithDetail("key", string(key))
	}
	n.tombstone = true
	idx.liveCount--
	return nil
}

// greedyStep descends one layer from cur toward query, returning the
// locally closest node found at that layer.
func (idx *Index) greedyStep(cur types.Key, curDist float32, query []float32, layer int) (types.Key, float32) {
	improved := true
	for improved {
		improved = false
		n := idx.nodes[cur]
		if layer >= len(n.links) {
			continue
		}
		for _, neighKey := range n.links[layer] {
			neigh := idx.nodes[neighKey]
			if neigh == nil || neigh.tombstone {
				continue
			}
			d := cosineDistance(query, neigh.vector)
			if d < curDist {
				cur, curDist = neighKey, d
				improved = true
			}
		}
	}
	return cur, curDist
}

// searchLayer runs a beam search on the given layer starting from
// entry, keeping up to ef candidates. excludeKey (if non-empty) is
// skipped, for use during insertion when the node being inserted is
// already present in idx.nodes.
func (idx *Index) searchLayer(query []float32, entry types.Key, ef, layer int, excludeKey types.Key) []Result {
	visited := map[types.Key]bool{entry: true}

	startNode := idx.nodes[entry]
	startDist := cosineDistance(query, startNode.vector)

	candidates := &minHeap{{Key: entry, Distance: startDist}}
	heap.Init(candidates)

	results := &maxHeap{}
	if entry != excludeKey && !startNode.tombstone {
		heap.Push(results, Result{Key: entry, Distance: startDist})
	}

	for candidates.Len() > 0 {
		c := heap.Pop(candidates).(Result)
		if results.Len() >= ef {
			worst := (*results)[0]
			if c.Distance > worst.Distance {
				break
			}
		}

		n := idx.nodes[c.Key]
		if layer >= len(n.links) {
			continue
		}
		for _, neighKey := range n.links[layer] {
			if visited[neighKey] {
				continue
			}
			visited[neighKey] = true

			neigh := idx.nodes[neighKey]
			if neigh == nil {
				continue
			}
			d := cosineDistance(query, neigh.vector)
			heap.Push(candidates, Result{Key: neighKey, Distance: d})

			if neighKey == excludeKey || neigh.tombstone {
				continue
			}
			if results.Len() < ef {
				heap.Push(results, Result{Key: neighKey, Distance: d})
			} else if d < (*results)[0].Distance {
				heap.Pop(results)
				heap.Push(results, Result{Key: neighKey, Distance: d})
			}
		}
	}

	out := make([]Result, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(results).(Result)
	}
	return out
}

// selectNeighbors picks up to m of the closest candidates. candidates is
// assumed to already be sorted ascending by distance (searchLayer's
// output is).
func selectNeighbors(candidates []Result, m int) []Result {
	if m < len(candidates) {
		return candidates[:m]
	}
	return candidates
}

// pruneLocked trims n's neighbor list at layer l down to limit entries,
// keeping the closest ones to n itself. Caller must hold idx.mu.
func (idx *Index) pruneLocked(n *node, l, limit int) {
	if len(n.links[l]) <= limit {
		return
	}
	scored := make([]Result, 0, len(n.links[l]))
	for _, neighKey := range n.links[l] {
		neigh := idx.nodes[neighKey]
		if neigh == nil {
			continue
		}
		scored = append(scored, Result{Key: neighKey, Distance: cosineDistance(n.vector, neigh.vector)})
	}
	selected := selectNeighbors(sortAscending(scored), limit)
	keys := make([]types.Key, len(selected))
	for i, s := range selected {
		keys[i] = s.Key
	}
	n.links[l] = keys
}

func sortAscending(r []Result) []Result {
	for i := 1; i < len(r); i++ {
		for j := i; j > 0 && r[j].Distance < r[j-1].Distance; j-- {
			r[j], r[j-1] = r[j-1], r[j]
		}
	}
	return r
}

// randomLevel draws a level via the standard HNSW exponential
// distribution.
func (idx *Index) randomLevel() int {
	level := 0
	for idx.rng.Float64() < 1/math.Exp(1/idx.cfg.LevelMult) {
		level++
	}
	return level
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
