package driving

import (
	"context"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
)

// ChatResponse is the answer to one question plus the retrieved
// chunks it was grounded in.
type ChatResponse struct {
	// Answer is the generated reply.
	Answer string `json:"answer"`

	// References are the chunks used as context, best match first.
	References []domain.SearchResult `json:"references"`
}

// ChatService answers questions against the ingested knowledge base.
type ChatService interface {
	// Ask retrieves the topK most relevant chunks for the question and
	// generates a grounded answer.
	Ask(ctx context.Context, question string, topK int) (*ChatResponse, error)

	// Retrieve returns the topK most relevant chunks without invoking
	// the language model.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}

// Ingestor feeds acquired documents into the vector store.
type Ingestor interface {
	// Ingest chunks and embeds the documents and appends them to the
	// store. Returns the number of chunks stored.
	Ingest(ctx context.Context, docs []domain.Document) (int, error)
}
