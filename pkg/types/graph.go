package types

// Edge is a directed relation in the graph (§3). Self-loops are
// rejected by fre.Graph.AddEdge (core/index/fre), not by this type. A
// repeated (From, To, Relation) triple overwrites the stored weight
// rather than adding a parallel edge. fre.Graph stores only the weight
// per edge; Metadata and Timestamp are not kept or refreshed by it.
type Edge struct {
	From     Key      `json:"from"`
	To       Key      `json:"to"`
	Relation string   `json:"relation"`
	Weight   float64  `json:"weight"`
	Metadata Metadata `json:"metadata,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// EdgeTriple identifies an edge independent of its weight/metadata —
// the part of an Edge that determines overwrite-vs-insert semantics.
type EdgeTriple struct {
	From     Key
	To       Key
	Relation string
}

// Triple returns the edge's identity triple.
func (e Edge) Triple() EdgeTriple {
	return EdgeTriple{From: e.From, To: e.To, Relation: e.Relation}
}

// Direction controls which way a graph traversal follows edges.
type Direction string

const (
	DirectionForward      Direction = "forward"
	DirectionReverse      Direction = "reverse"
	DirectionBidirectional Direction = "bidirectional"
)
