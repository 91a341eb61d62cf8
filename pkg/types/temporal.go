package types

// HistoryEntry is one reverse-chronological entry in a key's history.
type HistoryEntry struct {
	Timestamp int64 `json:"timestamp"`
	Value     Value `json:"value"`
}

// Record is the materialized temporal record the store holds for a key.
// History is always returned already materialized (anchor+delta
// compression, if used internally, is invisible to callers — §4.1).
type Record struct {
	Key      Key            `json:"key"`
	Current  Value          `json:"current"`
	Metadata Metadata       `json:"metadata"`
	History  []HistoryEntry `json:"history,omitempty"`
}
