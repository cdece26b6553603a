package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driving"
	"github.com/helpdesk-labs/helpdesk-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// DefaultTopK is how many chunks a question retrieves when the caller
// does not say otherwise.
const DefaultTopK = 5

// DefaultSystemPrompt instructs the model to stay inside the retrieved
// context and cite its sources.
const DefaultSystemPrompt = "You are an AI helpdesk assistant. Answer questions using only the provided " +
	"context. Cite the titles or paths of the relevant documents in parentheses. " +
	"If the answer is not present in the context, say you do not know."

// noResultsAnswer is returned without calling the LLM when retrieval
// comes back empty.
const noResultsAnswer = "I could not find any relevant information in the knowledge base. " +
	"Please ingest documents before chatting."

// noLLMAnswer is returned when retrieval succeeded but no chat model
// is configured.
const noLLMAnswer = "No chat model is configured, so I can only show the retrieved sources. " +
	"Set an OpenAI API key to get generated answers."

// ChatService glues retrieval and generation together.
type ChatService struct {
	store        driven.VectorStore
	embedder     driven.EmbeddingService
	llm          driven.LLMService
	systemPrompt string
}

// NewChatService creates a new chat service.
// The llm parameter is optional (can be nil); answers then degrade to
// retrieval-only responses.
func NewChatService(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
) *ChatService {
	return &ChatService{
		store:        store,
		embedder:     embedder,
		llm:          llm,
		systemPrompt: DefaultSystemPrompt,
	}
}

// SetSystemPrompt overrides the default system prompt.
func (s *ChatService) SetSystemPrompt(prompt string) {
	if prompt != "" {
		s.systemPrompt = prompt
	}
}

// Retrieve embeds the query and returns the topK most similar chunks.
func (s *ChatService) Retrieve(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	rows, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("%w: embedded query produced %d rows, expected 1", domain.ErrShape, len(rows))
	}

	results, err := s.store.Search(ctx, rows[0], topK)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}
	logger.Debug("Retrieved %d chunks for query %q", len(results), query)
	return results, nil
}

// Ask answers a question from the indexed documents.
func (s *ChatService) Ask(ctx context.Context, question string, topK int) (*driving.ChatResponse, error) {
	logger.Section("Chat Request")
	logger.Debug("Question: %q", question)

	references, err := s.Retrieve(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	contextBlock := buildContext(references)
	if contextBlock == "" {
		logger.Info("No relevant chunks found, returning canned answer")
		return &driving.ChatResponse{Answer: noResultsAnswer, References: []domain.SearchResult{}}, nil
	}

	if s.llm == nil {
		logger.Warn("No LLM configured, returning retrieval-only response")
		return &driving.ChatResponse{Answer: noLLMAnswer, References: references}, nil
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: s.systemPrompt},
		{Role: "user", Content: "Context:\n" + contextBlock + "\n\nQuestion: " + question + "\n"},
	}
	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	logger.Info("Answered with %d references", len(references))
	return &driving.ChatResponse{Answer: answer, References: references}, nil
}

// buildContext renders retrieved chunks as numbered source blocks.
// Chunks without a usable citation fall back to their chunk ID.
func buildContext(results []domain.SearchResult) string {
	segments := make([]string, 0, len(results))
	for i, result := range results {
		citation := result.Citation()
		if citation == "" {
			citation = result.Chunk.ID
		}
		segments = append(segments, fmt.Sprintf("[Source %d: %s]\n%s", i+1, citation, strings.TrimSpace(result.Chunk.Content)))
	}
	return strings.Join(segments, "\n\n")
}
