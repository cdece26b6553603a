// Package memory provides an in-memory implementation of the vector
// store port. Nothing is persisted; the store is intended for tests
// and for ad-hoc sessions where a throwaway index is enough.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/helpdesk-labs/helpdesk-cli/internal/chunker"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

const similarityEpsilon = 1e-10

// Store is an in-memory implementation of driven.VectorStore.
type Store struct {
	mu      sync.RWMutex
	chunks  []domain.Chunk
	vectors [][]float32
	dim     int
	model   string
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{}
}

// AddDocuments chunks and embeds documents and appends them to the index.
func (s *Store) AddDocuments(
	ctx context.Context, docs []domain.Document, embedder driven.EmbeddingService, opts driven.ChunkingOptions,
) (int, error) {
	if embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	split := chunker.New(
		chunker.WithChunkSize(opts.ChunkSize),
		chunker.WithOverlap(opts.ChunkOverlap),
	)

	var chunks []domain.Chunk
	var texts []string
	for _, doc := range docs {
		pieces := split.Split(doc.Content)
		if len(pieces) == 0 {
			continue
		}
		ids := chunker.AssignIDs(len(pieces), doc.ID)
		for i, piece := range pieces {
			chunks = append(chunks, domain.Chunk{
				ID:         ids[i],
				DocumentID: doc.ID,
				Source:     doc.Source,
				Content:    piece,
				Metadata:   doc.Metadata,
			})
			texts = append(texts, piece)
		}
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, err
	}
	width, err := matrixWidth(vectors, len(chunks))
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dim != 0 && width != s.dim {
		return 0, fmt.Errorf("%w: store holds %d-dimensional embeddings, got %d", domain.ErrDimensionMismatch, s.dim, width)
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	s.dim = width
	s.model = embedder.ModelName()
	return len(chunks), nil
}

// Search returns the topK chunks ranked by cosine similarity to query.
func (s *Store) Search(_ context.Context, query []float32, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chunks) == 0 || topK <= 0 {
		return nil, nil
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d", domain.ErrShape, len(query), s.dim)
	}

	queryNorm := norm(query) + similarityEpsilon
	results := make([]domain.SearchResult, len(s.chunks))
	for i, row := range s.vectors {
		score := dot(row, query) / ((norm(row) + similarityEpsilon) * queryNorm)
		results[i] = domain.SearchResult{Chunk: s.chunks[i], Score: score}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Len returns the number of indexed chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Dimensions returns the embedding width, or 0 for an empty store.
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// ModelName returns the embedding model that produced the index.
func (s *Store) ModelName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

func matrixWidth(vectors [][]float32, wantRows int) (int, error) {
	if len(vectors) != wantRows {
		return 0, fmt.Errorf("%w: embedded %d rows for %d chunks", domain.ErrShape, len(vectors), wantRows)
	}
	width := len(vectors[0])
	if width == 0 {
		return 0, fmt.Errorf("%w: zero-width embedding row", domain.ErrShape)
	}
	for i, row := range vectors {
		if len(row) != width {
			return 0, fmt.Errorf("%w: row %d has %d dimensions, expected %d", domain.ErrShape, i, len(row), width)
		}
	}
	return width, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
