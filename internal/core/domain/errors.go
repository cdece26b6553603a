package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrShape indicates an embedding matrix is not two-dimensional or
	// a query embedding is not a single row.
	ErrShape = errors.New("embedding shape invalid")

	// ErrDimensionMismatch indicates new embeddings disagree with the
	// store's established embedding dimension. The store is never
	// mutated when this is returned.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStoreCorrupt indicates the persisted metadata and vector
	// artifacts disagree at load time. The store cannot be used until
	// repaired or reset.
	ErrStoreCorrupt = errors.New("store artifacts inconsistent")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Chat answers are disabled; plain search still works.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
