// SPDX-License-Identifier: LGPL-3.0-or-later

package errors

// Persistence-hook errors (§3's "opaque persistence hooks"; the core
// temporal store is in-memory, these cover the optional durable backing).
var (
	// ErrStorageConnection indicates the persistence hook's backend
	// (Redis/Postgres) connection failed.
	ErrStorageConnection = &Error{
		Category: CategoryStorage,
		Code:     "STORAGE_CONNECTION_ERROR",
		Message:  "persistence hook connection failed",
	}

	// ErrStorageTimeout indicates a persistence-hook operation timed
	// out.
	ErrStorageTimeout = &Error{
		Category: CategoryStorage,
		Code:     "STORAGE_TIMEOUT",
		Message:  "persistence hook operation timed out",
	}

	// ErrEmbeddingProviderUnavailable indicates no configured embedding
	// provider could be reached to satisfy generate_embedding.
	ErrEmbeddingProviderUnavailable = &Error{
		Category: CategoryNetwork,
		Code:     "EMBEDDING_PROVIDER_UNAVAILABLE",
		Message:  "embedding provider unavailable",
	}
)
