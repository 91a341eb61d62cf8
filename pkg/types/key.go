package types

// MaxKeyBytes is the maximum encoded length of a Key (§3).
const MaxKeyBytes = 4096

// MaxValueBytes is the maximum encoded length of a Value (§3).
const MaxValueBytes = 50 * 1024 * 1024

// Key identifies a record in the temporal store, a node in the graph, and
// a document in the CRDT layer. Keys are opaque to the indices — they
// need not be filesystem paths, though some callers choose to use
// path-shaped keys, in which case core/pathvalidator applies.
type Key string

// String returns the key as a plain string.
func (k Key) String() string { return string(k) }

// Value is an opaque byte sequence stored under a Key.
type Value []byte

// Metadata is a mapping from short UTF-8 keys to JSON-typed values.
// EngineMetadataKeys lists the fields the engine injects and never
// accepts from a caller unaltered.
type Metadata map[string]interface{}

// Engine-injected metadata field names (§3). Caller-supplied metadata
// under these keys is overwritten, not merged.
const (
	MetaAgentID   = "agent_id"
	MetaTimestamp = "timestamp"
	MetaSessionID = "session_id"
)

// Merge returns a new Metadata with engine fields layered on top of m.
// Caller metadata is preserved for any key the engine does not own.
func (m Metadata) Merge(agentID, sessionID string, timestamp int64) Metadata {
	out := make(Metadata, len(m)+3)
	for k, v := range m {
		out[k] = v
	}
	out[MetaAgentID] = agentID
	out[MetaSessionID] = sessionID
	out[MetaTimestamp] = timestamp
	return out
}

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// NodeType tags a graph node. It is optional metadata, never load-bearing
// for correctness (§3).
type NodeType string

const (
	NodeTypeModule   NodeType = "module"
	NodeTypeClass    NodeType = "class"
	NodeTypeFunction NodeType = "function"
	NodeTypeConcept  NodeType = "concept"
	NodeTypeUnknown  NodeType = ""
)
