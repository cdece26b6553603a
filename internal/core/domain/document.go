package domain

// Document represents a raw document ingested from one of the
// knowledge sources. It is immutable once built and consumed exactly
// once by the chunking pipeline.
type Document struct {
	// ID is the identifier assigned by the acquiring connector.
	// Unique within one ingestion batch; repeated ingests of the same
	// source may reuse it.
	ID string `json:"id"`

	// Source is the origin tag (e.g. "web", "notion").
	Source string `json:"source"`

	// Content is the full plain text of the document.
	Content string `json:"content"`

	// Metadata contains arbitrary key-value pairs (title, url, path).
	Metadata map[string]any `json:"metadata"`
}

// Chunk represents a retrievable unit of a document.
// Documents are split into overlapping chunks for granular retrieval.
type Chunk struct {
	// ID is derived from the parent document ID plus a zero-padded
	// ordinal, unique within the store.
	ID string `json:"id"`

	// DocumentID links back to the parent Document.
	DocumentID string `json:"document_id"`

	// Source is copied from the parent document.
	Source string `json:"source"`

	// Content is a substring of the parent document content.
	Content string `json:"content"`

	// Metadata is shared by reference with the parent document and all
	// sibling chunks. It must never be mutated after ingest.
	Metadata map[string]any `json:"metadata"`
}
