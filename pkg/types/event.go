package types

// EventType names one of the pub/sub record kinds §6 lists.
type EventType string

const (
	EventPrimitiveExecuted EventType = "primitive_executed"
	EventCRDTOperation     EventType = "crdt_operation"
	EventConflictDetected  EventType = "conflict_detected"
	EventConflictResolved  EventType = "conflict_resolved"
	EventAgentJoined       EventType = "agent_joined"
	EventAgentLeft         EventType = "agent_left"
)

// Event is one broadcast-layer record. Like ProvenanceRecord, it is a
// plain value so the primitive engine, the CRDT engine, and the session
// registry can all construct one without importing the broadcast
// transport itself.
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp int64       `json:"timestamp"`
}
