// Package web serves the chat UI and JSON API over HTTP using echo.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driving"
	"github.com/helpdesk-labs/helpdesk-cli/internal/logger"
)

// Config holds server configuration.
type Config struct {
	// DefaultTopK is used when a chat request does not set top_k.
	DefaultTopK int
}

// Server exposes the chat pipeline over HTTP.
type Server struct {
	echo        *echo.Echo
	chat        driving.ChatService
	store       driven.VectorStore
	defaultTopK int
}

// NewServer creates a configured but not yet started server.
func NewServer(chat driving.ChatService, store driven.VectorStore, cfg Config) *Server {
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 5
	}

	s := &Server{
		chat:        chat,
		store:       store,
		defaultTopK: cfg.DefaultTopK,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.GET("/", s.handleIndex)
	e.GET("/healthz", s.handleHealth)
	e.POST("/api/chat", s.handleChat)

	s.echo = e
	return s
}

// Start listens on addr until the context is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	errs := make(chan error, 1)
	go func() {
		errs <- s.echo.Start(addr)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// chatRequest is the POST /api/chat request body.
type chatRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// chatResponse is the POST /api/chat response body.
type chatResponse struct {
	Answer     string      `json:"answer"`
	References []reference `json:"references"`
}

// reference is one retrieved chunk in a chat response.
type reference struct {
	ChunkID  string  `json:"chunk_id"`
	Citation string  `json:"citation"`
	Score    float64 `json:"score"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Question == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "question is required"})
	}
	if req.TopK <= 0 {
		req.TopK = s.defaultTopK
	}

	logger.Debug("Chat request %s: %q (top_k=%d)", c.Response().Header().Get(echo.HeaderXRequestID), req.Question, req.TopK)

	resp, err := s.chat.Ask(c.Request().Context(), req.Question, req.TopK)
	if err != nil {
		logger.Warn("Chat request failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	references := make([]reference, 0, len(resp.References))
	for _, ref := range resp.References {
		citation := ref.Citation()
		if citation == "" {
			citation = ref.Chunk.ID
		}
		references = append(references, reference{
			ChunkID:  ref.Chunk.ID,
			Citation: citation,
			Score:    ref.Score,
		})
	}

	return c.JSON(http.StatusOK, chatResponse{
		Answer:     resp.Answer,
		References: references,
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"chunks": s.store.Len(),
		"model":  s.store.ModelName(),
	})
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.HTML(http.StatusOK, indexPage)
}
