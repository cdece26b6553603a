package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driving"
)

type mockChatService struct {
	resp        *driving.ChatResponse
	err         error
	gotQuestion string
	gotTopK     int
}

func (m *mockChatService) Ask(_ context.Context, question string, topK int) (*driving.ChatResponse, error) {
	m.gotQuestion = question
	m.gotTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockChatService) Retrieve(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	return nil, nil
}

type mockStore struct{}

func (m *mockStore) AddDocuments(
	_ context.Context, _ []domain.Document, _ driven.EmbeddingService, _ driven.ChunkingOptions,
) (int, error) {
	return 0, nil
}

func (m *mockStore) Search(_ context.Context, _ []float32, _ int) ([]domain.SearchResult, error) {
	return nil, nil
}

func (m *mockStore) Len() int          { return 7 }
func (m *mockStore) Dimensions() int   { return 2 }
func (m *mockStore) ModelName() string { return "test-model" }

func postChat(t *testing.T, server *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)
	return rec
}

func TestServer_Chat(t *testing.T) {
	chat := &mockChatService{resp: &driving.ChatResponse{
		Answer: "Reset it in settings.",
		References: []domain.SearchResult{
			{
				Chunk: domain.Chunk{ID: "doc-0001", Metadata: map[string]any{"title": "Password Reset"}},
				Score: 0.93,
			},
			{
				Chunk: domain.Chunk{ID: "doc-0002"},
				Score: 0.41,
			},
		},
	}}
	server := NewServer(chat, &mockStore{}, Config{DefaultTopK: 3})

	rec := postChat(t, server, `{"question":"reset password?","top_k":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Reset it in settings.", resp.Answer)
	require.Len(t, resp.References, 2)
	assert.Equal(t, "doc-0001", resp.References[0].ChunkID)
	assert.Equal(t, "Password Reset", resp.References[0].Citation)
	assert.InDelta(t, 0.93, resp.References[0].Score, 1e-9)
	// No title or path falls back to the chunk ID.
	assert.Equal(t, "doc-0002", resp.References[1].Citation)

	assert.Equal(t, "reset password?", chat.gotQuestion)
	assert.Equal(t, 2, chat.gotTopK)
}

func TestServer_ChatDefaultTopK(t *testing.T) {
	chat := &mockChatService{resp: &driving.ChatResponse{Answer: "ok"}}
	server := NewServer(chat, &mockStore{}, Config{DefaultTopK: 4})

	rec := postChat(t, server, `{"question":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, chat.gotTopK)
}

func TestServer_ChatEmptyQuestion(t *testing.T) {
	server := NewServer(&mockChatService{}, &mockStore{}, Config{})

	rec := postChat(t, server, `{"question":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ChatInvalidBody(t *testing.T) {
	server := NewServer(&mockChatService{}, &mockStore{}, Config{})

	rec := postChat(t, server, `{"question": 42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ChatServiceError(t *testing.T) {
	chat := &mockChatService{err: errors.New("backend down")}
	server := NewServer(chat, &mockStore{}, Config{})

	rec := postChat(t, server, `{"question":"q"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "backend down")
}

func TestServer_RequestIDHeader(t *testing.T) {
	chat := &mockChatService{resp: &driving.ChatResponse{Answer: "ok"}}
	server := NewServer(chat, &mockStore{}, Config{})

	rec := postChat(t, server, `{"question":"q"}`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_Health(t *testing.T) {
	server := NewServer(&mockChatService{}, &mockStore{}, Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 7, body["chunks"])
	assert.Equal(t, "test-model", body["model"])
}

func TestServer_Index(t *testing.T) {
	server := NewServer(&mockChatService{}, &mockStore{}, Config{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/chat")
}

func TestServer_StartShutdown(t *testing.T) {
	server := NewServer(&mockChatService{}, &mockStore{}, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Start(ctx, "127.0.0.1:0")
	}()

	cancel()
	err := <-done
	assert.NoError(t, err)
}