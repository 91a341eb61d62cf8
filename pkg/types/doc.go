// Package types provides the core data-model definitions shared across
// Agrama: keys, values, metadata, embeddings, graph edges, and the
// identifiers used to correlate them. These types are intentionally plain
// data — validation lives in core/pathvalidator and the primitive
// engine's schema validators, not on the types themselves, so that
// indices can share them without import cycles.
package types
