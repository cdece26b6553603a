// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Ingestion and retrieval both require it; the chat surface degrades
// to an error message when it is nil.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Compatible inference servers behind the same REST shape
type EmbeddingService interface {
	// EmbedBatch generates one embedding per input text, rows aligned
	// 1:1 with input order. All rows have the provider's fixed width.
	// Provider failures (network, auth) are returned unchanged so
	// callers can retry or report.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	// The store records it alongside persisted vectors.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
