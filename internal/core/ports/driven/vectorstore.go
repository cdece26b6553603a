package driven

import (
	"context"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
)

// ChunkingOptions control how documents are segmented during ingest.
// Zero values select the chunker defaults.
type ChunkingOptions struct {
	// ChunkSize is the maximum chunk length in tokenizer units.
	ChunkSize int

	// ChunkOverlap is how much of the previous chunk's tail is
	// repeated at the start of the next chunk.
	ChunkOverlap int
}

// VectorStore owns the chunk records and their embedding matrix for
// one store directory. Implementations hold both fully in memory and
// persist synchronously on every mutation.
//
// A store assumes a single process per directory; concurrent
// processes over the same directory are undefined behaviour.
type VectorStore interface {
	// AddDocuments chunks each document, embeds all new chunk texts in
	// one EmbedBatch call, appends chunks and rows, and persists.
	// Documents producing no chunks are a no-op. Returns the number of
	// chunks added. Validation failures (domain.ErrShape,
	// domain.ErrDimensionMismatch) leave the store untouched.
	AddDocuments(ctx context.Context, docs []domain.Document, embedder EmbeddingService, opts ChunkingOptions) (int, error)

	// Search scores every stored row against the query embedding by
	// cosine similarity and returns at most topK results in descending
	// score order, insertion order breaking ties. An empty store or
	// topK <= 0 yields no results. A query whose width disagrees with
	// the store dimension is a domain.ErrShape validation error.
	Search(ctx context.Context, query []float32, topK int) ([]domain.SearchResult, error)

	// Len returns the number of stored chunks.
	Len() int

	// Dimensions returns the established embedding width, or 0 while
	// the store is empty.
	Dimensions() int

	// ModelName returns the recorded embedding model identifier.
	// Informational only; old embeddings are never invalidated.
	ModelName() string
}
