package services

import (
	"context"
	"fmt"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driving"
	"github.com/helpdesk-labs/helpdesk-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService feeds documents from connectors into the vector store.
type IngestService struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
	opts     driven.ChunkingOptions
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	opts driven.ChunkingOptions,
) *IngestService {
	return &IngestService{
		store:    store,
		embedder: embedder,
		opts:     opts,
	}
}

// Ingest chunks, embeds and stores the given documents.
// It returns the number of chunks added to the store.
func (s *IngestService) Ingest(ctx context.Context, docs []domain.Document) (int, error) {
	logger.Section("Ingest")
	logger.Debug("Documents: %d", len(docs))

	if len(docs) == 0 {
		return 0, nil
	}

	added, err := s.store.AddDocuments(ctx, docs, s.embedder, s.opts)
	if err != nil {
		return 0, fmt.Errorf("add documents: %w", err)
	}

	logger.Info("Ingested %d documents as %d chunks (store now holds %d)", len(docs), added, s.store.Len())
	return added, nil
}
