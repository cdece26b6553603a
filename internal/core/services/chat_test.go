package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	results    []domain.SearchResult
	searchErr  error
	addErr     error
	addedCount int
	gotDocs    []domain.Document
	gotQuery   []float32
	gotTopK    int
}

func (m *mockVectorStore) AddDocuments(
	_ context.Context, docs []domain.Document, _ driven.EmbeddingService, _ driven.ChunkingOptions,
) (int, error) {
	if m.addErr != nil {
		return 0, m.addErr
	}
	m.gotDocs = append(m.gotDocs, docs...)
	return m.addedCount, nil
}

func (m *mockVectorStore) Search(_ context.Context, query []float32, topK int) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotTopK = topK
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if topK < len(m.results) {
		return m.results[:topK], nil
	}
	return m.results, nil
}

func (m *mockVectorStore) Len() int          { return len(m.results) }
func (m *mockVectorStore) Dimensions() int   { return 2 }
func (m *mockVectorStore) ModelName() string { return "mock-store" }

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	rows      int // rows per EmbedBatch call; 0 means one per text
	embedErr  error
	gotTexts  []string
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.gotTexts = append(m.gotTexts, texts...)
	n := m.rows
	if n == 0 {
		n = len(texts)
	}
	result := make([][]float32, n)
	for i := range result {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply       string
	chatErr     error
	gotMessages []driven.ChatMessage
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.gotMessages = messages
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

func result(id, content, title string, score float64) domain.SearchResult {
	var meta map[string]any
	if title != "" {
		meta = map[string]any{"title": title}
	}
	return domain.SearchResult{
		Chunk: domain.Chunk{
			ID:         id,
			DocumentID: "doc",
			Source:     "web",
			Content:    content,
			Metadata:   meta,
		},
		Score: score,
	}
}

// --- Retrieve ---

func TestChatService_Retrieve(t *testing.T) {
	store := &mockVectorStore{results: []domain.SearchResult{
		result("doc-0001", "reset your password in settings", "Password Reset", 0.91),
	}}
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	svc := NewChatService(store, embedder, nil)

	results, err := svc.Retrieve(context.Background(), "how do I reset my password", 3)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "doc-0001", results[0].Chunk.ID)
	assert.Equal(t, []float32{1, 0}, store.gotQuery)
	assert.Equal(t, 3, store.gotTopK)
	assert.Equal(t, []string{"how do I reset my password"}, embedder.gotTexts)
}

func TestChatService_RetrieveEmptyQuery(t *testing.T) {
	store := &mockVectorStore{}
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}}
	svc := NewChatService(store, embedder, nil)

	for _, query := range []string{"", "   ", "\n\t"} {
		results, err := svc.Retrieve(context.Background(), query, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
	assert.Empty(t, embedder.gotTexts, "blank queries must not be embedded")
}

func TestChatService_RetrieveDefaultTopK(t *testing.T) {
	store := &mockVectorStore{}
	svc := NewChatService(store, &mockEmbeddingService{embedding: []float32{1, 0}}, nil)

	_, err := svc.Retrieve(context.Background(), "question", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, store.gotTopK)
}

func TestChatService_RetrieveNoEmbedder(t *testing.T) {
	svc := NewChatService(&mockVectorStore{}, nil, nil)

	_, err := svc.Retrieve(context.Background(), "question", 5)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestChatService_RetrieveEmbedErrorPropagates(t *testing.T) {
	sentinel := errors.New("rate limited")
	svc := NewChatService(&mockVectorStore{}, &mockEmbeddingService{embedErr: sentinel}, nil)

	_, err := svc.Retrieve(context.Background(), "question", 5)
	assert.ErrorIs(t, err, sentinel)
}

func TestChatService_RetrieveMultiRowEmbedding(t *testing.T) {
	// A provider that returns more than one row for a single query is
	// a contract violation, not something to silently index into.
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}, rows: 2}
	svc := NewChatService(&mockVectorStore{}, embedder, nil)

	_, err := svc.Retrieve(context.Background(), "question", 5)
	assert.ErrorIs(t, err, domain.ErrShape)
}

// --- Ask ---

func TestChatService_Ask(t *testing.T) {
	store := &mockVectorStore{results: []domain.SearchResult{
		result("doc-0001", "Reset your password from the settings page.", "Password Reset", 0.91),
		result("doc-0002", "Contact support if you are locked out.", "", 0.55),
	}}
	llm := &mockLLMService{reply: "Go to the settings page (Password Reset)."}
	svc := NewChatService(store, &mockEmbeddingService{embedding: []float32{1, 0}}, llm)

	resp, err := svc.Ask(context.Background(), "how do I reset my password?", 5)
	require.NoError(t, err)

	assert.Equal(t, "Go to the settings page (Password Reset).", resp.Answer)
	assert.Len(t, resp.References, 2)

	require.Len(t, llm.gotMessages, 2)
	assert.Equal(t, "system", llm.gotMessages[0].Role)
	assert.Equal(t, DefaultSystemPrompt, llm.gotMessages[0].Content)

	user := llm.gotMessages[1]
	assert.Equal(t, "user", user.Role)
	assert.Contains(t, user.Content, "[Source 1: Password Reset]")
	assert.Contains(t, user.Content, "Reset your password from the settings page.")
	// Second chunk has no title or path, so the chunk ID stands in.
	assert.Contains(t, user.Content, "[Source 2: doc-0002]")
	assert.Contains(t, user.Content, "Question: how do I reset my password?")
	assert.True(t, strings.HasPrefix(user.Content, "Context:\n"))
}

func TestChatService_AskNoResults(t *testing.T) {
	llm := &mockLLMService{reply: "should not be called"}
	svc := NewChatService(&mockVectorStore{}, &mockEmbeddingService{embedding: []float32{1, 0}}, llm)

	resp, err := svc.Ask(context.Background(), "anything", 5)
	require.NoError(t, err)

	assert.Contains(t, resp.Answer, "could not find any relevant information")
	assert.Empty(t, resp.References)
	assert.Nil(t, llm.gotMessages, "empty retrieval must not reach the LLM")
}

func TestChatService_AskWithoutLLM(t *testing.T) {
	store := &mockVectorStore{results: []domain.SearchResult{
		result("doc-0001", "some content", "Guide", 0.8),
	}}
	svc := NewChatService(store, &mockEmbeddingService{embedding: []float32{1, 0}}, nil)

	resp, err := svc.Ask(context.Background(), "question", 5)
	require.NoError(t, err)

	assert.Contains(t, resp.Answer, "No chat model is configured")
	assert.Len(t, resp.References, 1)
}

func TestChatService_AskLLMErrorPropagates(t *testing.T) {
	store := &mockVectorStore{results: []domain.SearchResult{
		result("doc-0001", "some content", "Guide", 0.8),
	}}
	sentinel := errors.New("model overloaded")
	svc := NewChatService(store, &mockEmbeddingService{embedding: []float32{1, 0}}, &mockLLMService{chatErr: sentinel})

	_, err := svc.Ask(context.Background(), "question", 5)
	assert.ErrorIs(t, err, sentinel)
}

func TestChatService_AskSearchErrorPropagates(t *testing.T) {
	store := &mockVectorStore{searchErr: domain.ErrShape}
	svc := NewChatService(store, &mockEmbeddingService{embedding: []float32{1, 0}}, &mockLLMService{})

	_, err := svc.Ask(context.Background(), "question", 5)
	assert.ErrorIs(t, err, domain.ErrShape)
}

func TestChatService_CustomSystemPrompt(t *testing.T) {
	store := &mockVectorStore{results: []domain.SearchResult{
		result("doc-0001", "content", "Guide", 0.8),
	}}
	llm := &mockLLMService{reply: "ok"}
	svc := NewChatService(store, &mockEmbeddingService{embedding: []float32{1, 0}}, llm)
	svc.SetSystemPrompt("Answer in French only.")

	_, err := svc.Ask(context.Background(), "question", 5)
	require.NoError(t, err)
	require.NotEmpty(t, llm.gotMessages)
	assert.Equal(t, "Answer in French only.", llm.gotMessages[0].Content)
}

func TestChatService_SetSystemPromptIgnoresEmpty(t *testing.T) {
	svc := NewChatService(&mockVectorStore{}, &mockEmbeddingService{}, nil)
	svc.SetSystemPrompt("")
	assert.Equal(t, DefaultSystemPrompt, svc.systemPrompt)
}

func TestBuildContext(t *testing.T) {
	tests := []struct {
		name    string
		results []domain.SearchResult
		want    string
	}{
		{
			name:    "empty",
			results: nil,
			want:    "",
		},
		{
			name: "single with title",
			results: []domain.SearchResult{
				result("a-0001", "  padded content  ", "Title A", 1),
			},
			want: "[Source 1: Title A]\npadded content",
		},
		{
			name: "numbering and separator",
			results: []domain.SearchResult{
				result("a-0001", "first", "Title A", 1),
				result("b-0001", "second", "", 0.5),
			},
			want: "[Source 1: Title A]\nfirst\n\n[Source 2: b-0001]\nsecond",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildContext(tt.results))
		})
	}
}
