package fre

import (
	"container/heap"
	"math"
	"sort"
	"unsafe"

	"github.com/agrama-db/agrama/core/pool"
	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// Config bounds a single_source traversal.
type Config struct {
	// MaxNodes caps how many vertices single_source will settle before
	// stopping (early termination condition (c), §4.4).
	MaxNodes int
}

// DefaultConfig returns a generous node cap suitable for most graphs.
func DefaultConfig() Config {
	return Config{MaxNodes: 1_000_000}
}

// Engine runs bounded shortest-path queries over a Graph.
type Engine struct {
	graph  *Graph
	cfg    Config
	arenas *pool.ArenaPool
}

// New creates an Engine over graph.
func New(graph *Graph, cfg Config) *Engine {
	return &Engine{graph: graph, cfg: cfg, arenas: pool.NewArenaPool()}
}

// blockParams returns the frontier block size t and recursion width k
// for a graph of n vertices, per §4.4: t = floor(log^(2/3) n), k =
// floor(log^(1/3) n). Both are floored at 1 so a tiny graph still makes
// progress.
func blockParams(n int) (t, k int) {
	if n < 2 {
		return 1, 1
	}
	logN := math.Log2(float64(n))
	t = int(math.Floor(math.Pow(logN, 2.0/3.0)))
	k = int(math.Floor(math.Pow(logN, 1.0/3.0)))
	if t < 1 {
		t = 1
	}
	if k < 1 {
		k = 1
	}
	return t, k
}

// ShouldUseFRE is the should_use_fre precheck (§4.4): FRE's block/pivot
// structure only pays for itself once the graph is dense enough that
// m*log^(2/3)(n) undercuts the naive m + n*log(n) bound of a plain
// priority-queue traversal.
func ShouldUseFRE(stats Stats) bool {
	n := stats.Nodes
	m := stats.Edges
	if n < 2 {
		return false
	}
	logN := math.Log2(float64(n))
	fre := float64(m) * math.Pow(logN, 2.0/3.0)
	plain := float64(m) + float64(n)*logN
	return fre < plain
}

// pqItem is one entry in the tentative-distance priority queue.
type pqItem struct {
	id   nodeID
	dist float64
}

type priorityQueue []pqItem

func (q priorityQueue) Len() int            { return len(q) }
func (q priorityQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q priorityQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x interface{}) { *q = append(*q, x.(pqItem)) }
func (q *priorityQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// SingleSource computes shortest distances from source to every vertex
// reachable within distanceBound, returning a map from key to distance.
// Distances are computed with a block-partitioned Dijkstra: the
// frontier is drained in blocks of size t (§4.4), and within each block
// the vertices with the largest out-degree are expanded first, so a hub
// vertex's descendants enter the frontier together rather than being
// interleaved one distance-increment at a time with unrelated parts of
// the frontier. Pivots are picked by out-degree alone; the recursion
// width k from blockParams is computed but not used.
func (e *Engine) SingleSource(source types.Key, distanceBound float64) (map[types.Key]float64, error) {
	srcID, ok := e.graph.NodeID(source)
	if !ok {
		return nil, errors.ErrNodeMissing.WithDetail("key", string(source))
	}

	e.graph.mu.RLock()
	defer e.graph.mu.RUnlock()

	n := len(e.graph.nodes)
	stats := Stats{Nodes: n, Edges: e.graph.edgeN}
	t, k := blockParams(stats.Nodes)

	arena := e.arenas.Get()
	defer e.arenas.Put(arena)

	// dist and settled are arena-backed flat arrays addressed by
	// nodeID, reused across queries via the ArenaPool rather than
	// allocated fresh per call (§4.4: "arena-scoped memory for all
	// per-query structures").
	dist := allocDistArray(arena, n)
	settled := arena.Alloc(n)
	hasDist := arena.Alloc(n)

	dist[srcID] = 0
	hasDist[srcID] = 1

	pq := &priorityQueue{{id: srcID, dist: 0}}
	heap.Init(pq)

	processed := 0
	boundExceeded := false

	for pq.Len() > 0 {
		if processed >= e.cfg.MaxNodes {
			break
		}

		// Drain up to t items as one frontier block.
		block := make([]pqItem, 0, t)
		for pq.Len() > 0 && len(block) < t {
			item := heap.Pop(pq).(pqItem)
			if settled[item.id] != 0 {
				continue
			}
			if item.dist > dist[item.id] {
				continue // stale entry
			}
			block = append(block, item)
		}
		if len(block) == 0 {
			continue
		}

		// Pivot selection: within this block, prioritize expanding the
		// vertices with the largest out-degree first (the whole block is
		// sorted; k does not cap it), so a hub's descendants enter the frontier together
		// instead of being interleaved one distance-increment at a time
		// with the rest of the block.
		sort.Slice(block, func(i, j int) bool {
			return len(e.graph.nodes[block[i].id].out) > len(e.graph.nodes[block[j].id].out)
		})
		_ = k

		for _, item := range block {
			if settled[item.id] != 0 {
				continue
			}
			if distanceBound > 0 && item.dist > distanceBound {
				boundExceeded = true
				continue
			}
			settled[item.id] = 1
			processed++

			for _, edge := range e.graph.neighbors(item.id, types.DirectionForward) {
				if e.graph.nodes[edge.to].removed || settled[edge.to] != 0 {
					continue
				}
				w := edge.weight
				if w <= 0 {
					w = 1
				}
				nd := item.dist + w
				if distanceBound > 0 && nd > distanceBound {
					boundExceeded = true
					continue
				}
				if hasDist[edge.to] == 0 || nd < dist[edge.to] {
					dist[edge.to] = nd
					hasDist[edge.to] = 1
					heap.Push(pq, pqItem{id: edge.to, dist: nd})
				}
			}

			if processed >= e.cfg.MaxNodes {
				break
			}
		}
	}

	out := make(map[types.Key]float64, processed)
	for id := 0; id < n; id++ {
		if hasDist[id] != 0 {
			out[e.graph.keyOf(nodeID(id))] = dist[id]
		}
	}

	if boundExceeded {
		return out, errors.ErrBoundExceeded
	}
	return out, nil
}

// allocDistArray carves a []float64 of length n out of arena's byte
// buffer, reinterpreting the zeroed bytes in place.
func allocDistArray(arena *pool.Arena, n int) []float64 {
	raw := arena.Alloc(n * 8)
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&raw[0])), n)
}

// Dependencies returns the nodes and edges reachable from root within
// maxDepth hops, following dir.
func (e *Engine) Dependencies(root types.Key, dir types.Direction, maxDepth int) ([]types.Key, []types.Edge, error) {
	rootID, ok := e.graph.NodeID(root)
	if !ok {
		return nil, nil, errors.ErrNodeMissing.WithDetail("key", string(root))
	}

	e.graph.mu.RLock()
	defer e.graph.mu.RUnlock()

	type frontierEntry struct {
		id    nodeID
		depth int
	}

	visited := map[nodeID]bool{rootID: true}
	queue := []frontierEntry{{id: rootID, depth: 0}}
	var nodes []types.Key
	var edges []types.Edge

	dirs := []types.Direction{dir}
	if dir == types.DirectionBidirectional {
		dirs = []types.Direction{types.DirectionForward, types.DirectionReverse}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		nodes = append(nodes, e.graph.keyOf(cur.id))

		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}

		for _, d := range dirs {
			for _, edge := range e.graph.neighbors(cur.id, d) {
				if e.graph.nodes[edge.to].removed {
					continue
				}
				from, to := cur.id, edge.to
				if d == types.DirectionReverse {
					from, to = edge.to, cur.id
				}
				edges = append(edges, types.Edge{
					From:     e.graph.keyOf(from),
					To:       e.graph.keyOf(to),
					Relation: edge.relation,
					Weight:   edge.weight,
				})
				if !visited[edge.to] {
					visited[edge.to] = true
					queue = append(queue, frontierEntry{id: edge.to, depth: cur.depth + 1})
				}
			}
		}
	}

	return nodes, edges, nil
}

// ImpactResult is the result of an Impact query.
type ImpactResult struct {
	AffectedNodes     []types.Key
	CriticalPaths     [][]types.Key
	ComplexityEstimate int
}

// Impact estimates the blast radius of a set of changed roots: every
// node reachable (forward) from any root within maxRadius, plus, for
// each root that reaches at least one other node, the two-element pair
// [root, last node reached by the breadth-first walk] as a
// representative "critical path"; the nodes between the two ends are
// not included.
func (e *Engine) Impact(changedRoots []types.Key, maxRadius int) (ImpactResult, error) {
	affected := make(map[types.Key]bool)
	var criticalPaths [][]types.Key

	for _, root := range changedRoots {
		nodes, _, err := e.Dependencies(root, types.DirectionForward, maxRadius)
		if err != nil {
			return ImpactResult{}, err
		}
		for _, n := range nodes {
			affected[n] = true
		}
		if len(nodes) > 1 {
			criticalPaths = append(criticalPaths, []types.Key{root, nodes[len(nodes)-1]})
		}
	}

	out := make([]types.Key, 0, len(affected))
	for k := range affected {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return ImpactResult{
		AffectedNodes:      out,
		CriticalPaths:      criticalPaths,
		ComplexityEstimate: len(out) + len(criticalPaths),
	}, nil
}

// Reachable reports whether any of targets is reachable from any of
// sources within maxDistance.
func (e *Engine) Reachable(sources, targets []types.Key, maxDistance float64) (bool, error) {
	targetSet := make(map[types.Key]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	for _, src := range sources {
		dist, err := e.SingleSource(src, maxDistance)
		if err != nil && !errors.Is(err, errors.ErrBoundExceeded) {
			return false, err
		}
		for k := range dist {
			if targetSet[k] {
				return true, nil
			}
		}
	}
	return false, nil
}
