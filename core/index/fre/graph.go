// Package fre implements §4.4: the frontier reduction engine and the
// graph storage it traverses. Nodes and edges are addressed by stable
// integer identifiers in flat arenas rather than by pointer, since the
// graph is naturally cyclic and Go's garbage collector has nothing to
// gain from (and real cost in) a pointer-linked cyclic structure; the
// public key space is kept in a separate map so callers never see the
// internal ids.
package fre

import (
	"sync"

	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

type nodeID int32

const noNode nodeID = -1

type graphEdge struct {
	to       nodeID
	relation string
	weight   float64
}

type graphNode struct {
	key     types.Key
	out     []graphEdge
	in      []graphEdge
	removed bool
}

// Graph is the adjacency structure FRE traverses. It is safe for
// concurrent readers and a single writer (§5: single-writer/multi-reader
// per index).
type Graph struct {
	mu      sync.RWMutex
	keyToID map[types.Key]nodeID
	nodes   []*graphNode
	edgeN   int
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{keyToID: make(map[types.Key]nodeID)}
}

// idFor returns key's node id, creating a node for it if it doesn't
// exist yet. Caller must hold g.mu for writing.
func (g *Graph) idFor(key types.Key) nodeID {
	if id, ok := g.keyToID[key]; ok {
		return id
	}
	id := nodeID(len(g.nodes))
	g.nodes = append(g.nodes, &graphNode{key: key})
	g.keyToID[key] = id
	return id
}

// AddEdge inserts or overwrites the edge (from, to, relation). Duplicate
// triples overwrite weight/metadata rather than accumulating a parallel
// edge (§3). Self-loops are rejected.
func (g *Graph) AddEdge(from, to types.Key, relation string, weight float64) error {
	if from == to {
		return errors.ErrValidationFailed.WithDetail("reason", "self-loop not allowed")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	fromID := g.idFor(from)
	toID := g.idFor(to)

	fn := g.nodes[fromID]
	for i, e := range fn.out {
		if e.to == toID && e.relation == relation {
			fn.out[i].weight = weight
			tn := g.nodes[toID]
			for j, ie := range tn.in {
				if ie.to == fromID && ie.relation == relation {
					tn.in[j].weight = weight
				}
			}
			return nil
		}
	}

	fn.out = append(fn.out, graphEdge{to: toID, relation: relation, weight: weight})
	g.nodes[toID].in = append(g.nodes[toID].in, graphEdge{to: fromID, relation: relation, weight: weight})
	g.edgeN++
	return nil
}

// NodeID returns key's internal id and whether it exists (and is not
// removed).
func (g *Graph) NodeID(key types.Key) (nodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.keyToID[key]
	if !ok || g.nodes[id].removed {
		return noNode, false
	}
	return id, true
}

// Exists reports whether key has a (non-removed) node in the graph,
// for callers outside this package that only need a membership check.
func (g *Graph) Exists(key types.Key) bool {
	_, ok := g.NodeID(key)
	return ok
}

// Stats reports the node and edge counts should_use_fre needs.
type Stats struct {
	Nodes int
	Edges int
}

// Stats returns current graph size.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	live := 0
	for _, n := range g.nodes {
		if !n.removed {
			live++
		}
	}
	return Stats{Nodes: live, Edges: g.edgeN}
}

// neighbors returns id's outgoing (or incoming, for reverse traversal)
// edges. Caller must hold at least a read lock.
func (g *Graph) neighbors(id nodeID, dir types.Direction) []graphEdge {
	n := g.nodes[id]
	switch dir {
	case types.DirectionReverse:
		return n.in
	default:
		return n.out
	}
}

func (g *Graph) keyOf(id nodeID) types.Key {
	return g.nodes[id].key
}
