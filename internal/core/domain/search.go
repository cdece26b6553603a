package domain

// SearchResult represents a single retrieval hit.
// Results are transient: they reference stored chunks which may be
// shared across repeated queries and must not be mutated by callers.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk `json:"chunk"`

	// Score is the cosine similarity against the query embedding.
	// Typically in [-1, 1]; not clamped.
	Score float64 `json:"score"`
}

// Citation returns a human-readable reference for the result derived
// from chunk metadata: the "title" entry if present, else "path",
// else the empty string. Callers fall back to the chunk ID.
func (r *SearchResult) Citation() string {
	if title, ok := r.Chunk.Metadata["title"].(string); ok && title != "" {
		return title
	}
	if path, ok := r.Chunk.Metadata["path"].(string); ok && path != "" {
		return path
	}
	return ""
}
