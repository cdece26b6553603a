package vecfile

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/helpdesk-labs/helpdesk-cli/internal/chunker"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
	"github.com/helpdesk-labs/helpdesk-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Artifact names inside the store directory.
const (
	metadataFile = "metadata.json"
	vectorsFile  = "vectors.bin"
)

// similarityEpsilon is added to both norms to avoid division by zero
// on zero vectors. It perturbs the true cosine negligibly for
// non-degenerate inputs and is part of the scoring contract.
const similarityEpsilon = 1e-10

// Store persists chunk records and their embedding matrix on disk.
// Chunks and matrix rows are index-aligned and held fully in memory
// for the lifetime of the store. Methods are serialised with a mutex;
// concurrent processes over one directory are not supported.
type Store struct {
	mu      sync.RWMutex
	dir     string
	chunks  []domain.Chunk
	vectors [][]float32
	dim     int
	model   string
}

// metadata is the JSON shape of the metadata artifact.
type metadata struct {
	Chunks         []domain.Chunk `json:"chunks"`
	EmbeddingModel string         `json:"embedding_model,omitempty"`
}

// Open creates or loads the store rooted at dir. The directory is
// created if missing. When both artifacts exist they are loaded and
// must agree on row count; disagreement is domain.ErrStoreCorrupt and
// the store is unusable until repaired or reset. With one or neither
// artifact present the store starts empty.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	s := &Store{dir: dir}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// AddDocuments chunks each document, embeds all new chunk texts in a
// single batch, appends them to the store and persists both artifacts.
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

	var newChunks []domain.Chunk
	var texts []string

	for _, doc := range docs {
		pieces := split.Split(doc.Content)
		ids := chunker.AssignIDs(len(pieces), doc.ID)
		for i, content := range pieces {
			newChunks = append(newChunks, domain.Chunk{
				ID:         ids[i],
				DocumentID: doc.ID,
				Source:     doc.Source,
				Content:    content,
				Metadata:   doc.Metadata,
			})
			texts = append(texts, content)
		}
	}

	if len(newChunks) == 0 {
		logger.Debug("No chunks produced from %d documents, nothing to ingest", len(docs))
		return 0, nil
	}

	logger.Debug("Embedding %d chunks from %d documents", len(newChunks), len(docs))
	matrix, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}

	width, err := matrixWidth(matrix, len(newChunks))
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim != 0 && width != s.dim {
		return 0, fmt.Errorf("%w: store has %d, new embeddings have %d", domain.ErrDimensionMismatch, s.dim, width)
	}

	s.chunks = append(s.chunks, newChunks...)
	s.vectors = append(s.vectors, matrix...)
	s.dim = width
	s.model = embedder.ModelName()

	if err := s.save(); err != nil {
		return 0, fmt.Errorf("persist store: %w", err)
	}

	logger.Info("Stored %d chunks (%d total, dimension %d)", len(newChunks), len(s.chunks), s.dim)
	return len(newChunks), nil
}

// matrixWidth validates that matrix is a rectangular 2-D batch with
// one row per chunk and returns the common row width.
func matrixWidth(matrix [][]float32, rows int) (int, error) {
	if len(matrix) != rows {
		return 0, fmt.Errorf("%w: embedder returned %d rows for %d chunks", domain.ErrShape, len(matrix), rows)
	}
	width := len(matrix[0])
	if width == 0 {
		return 0, fmt.Errorf("%w: embedding rows are empty", domain.ErrShape)
	}
	for i := range matrix {
		if len(matrix[i]) != width {
			return 0, fmt.Errorf("%w: row %d has width %d, expected %d", domain.ErrShape, i, len(matrix[i]), width)
		}
	}
	return width, nil
}

// Search scores every stored row against the query by cosine
// similarity and returns the topK best in descending order.
func (s *Store) Search(_ context.Context, query []float32, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chunks) == 0 || topK <= 0 {
		return nil, nil
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query has width %d, store has %d", domain.ErrShape, len(query), s.dim)
	}

	queryNorm := norm(query) + similarityEpsilon

	scores := make([]float64, len(s.vectors))
	for i, row := range s.vectors {
		scores[i] = dot(row, query) / ((norm(row) + similarityEpsilon) * queryNorm)
	}

	// Stable sort keeps insertion order for equal scores.
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}

	results := make([]domain.SearchResult, topK)
	for i := 0; i < topK; i++ {
		idx := order[i]
		results[i] = domain.SearchResult{
			Chunk: s.chunks[idx],
			Score: scores[idx],
		}
	}
	return results, nil
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Dimensions returns the established embedding width, 0 while empty.
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// ModelName returns the recorded embedding model identifier.
func (s *Store) ModelName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// load reads both artifacts when present.
func (s *Store) load() error {
	metaPath := filepath.Join(s.dir, metadataFile)
	vecPath := filepath.Join(s.dir, vectorsFile)

	metaRaw, metaErr := os.ReadFile(metaPath)
	vecRaw, vecErr := os.ReadFile(vecPath)

	if os.IsNotExist(metaErr) || os.IsNotExist(vecErr) {
		// Fresh store, or half a store we deliberately ignore.
		return nil
	}
	if metaErr != nil {
		return fmt.Errorf("read %s: %w", metadataFile, metaErr)
	}
	if vecErr != nil {
		return fmt.Errorf("read %s: %w", vectorsFile, vecErr)
	}

	var meta metadata
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return fmt.Errorf("decode %s: %w", metadataFile, err)
	}

	vectors, dim, err := decodeMatrix(vecRaw)
	if err != nil {
		return err
	}

	if len(vectors) != len(meta.Chunks) {
		return fmt.Errorf("%w: %d chunk records but %d embedding rows",
			domain.ErrStoreCorrupt, len(meta.Chunks), len(vectors))
	}

	s.chunks = meta.Chunks
	s.vectors = vectors
	s.dim = dim
	s.model = meta.EmbeddingModel

	logger.Debug("Loaded store from %s: %d chunks, dimension %d", s.dir, len(s.chunks), s.dim)
	return nil
}

// save writes both artifacts atomically (caller must hold the lock).
func (s *Store) save() error {
	metaRaw, err := json.MarshalIndent(metadata{
		Chunks:         s.chunks,
		EmbeddingModel: s.model,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", metadataFile, err)
	}

	vecRaw := encodeMatrix(s.vectors, s.dim)

	if err := writeAtomic(filepath.Join(s.dir, metadataFile), metaRaw); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.dir, vectorsFile), vecRaw)
}

// writeAtomic writes data to a temp file in the same directory and
// renames it over the target.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

func dot(row []float32, query []float32) float64 {
	var sum float64
	for i := range row {
		sum += float64(row[i]) * float64(query[i])
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
