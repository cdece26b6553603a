// Package web implements a Connector that crawls a website breadth-first
// and turns each page into a Document.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
	"github.com/helpdesk-labs/helpdesk-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Default configuration values.
const (
	DefaultMaxPages = 50
	DefaultDelay    = 500 * time.Millisecond
	DefaultTimeout  = 15 * time.Second

	userAgent = "helpdesk-cli/1.0"
)

// Config holds configuration for the web connector.
type Config struct {
	// BaseURL is the starting URL of the crawl (required).
	BaseURL string

	// MaxPages caps how many pages are fetched (default: 50).
	MaxPages int

	// Delay is the pause between successive requests (default: 500ms).
	Delay time.Duration

	// AllowedPaths restricts the crawl to links whose path starts with
	// one of these prefixes. Empty means the whole host.
	AllowedPaths []string

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Connector crawls a single website.
type Connector struct {
	base         *url.URL
	maxPages     int
	allowedPaths []string
	client       *http.Client
	limiter      *rate.Limiter
}

// New creates a new web connector.
func New(cfg Config) (*Connector, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL must be absolute, got %q", domain.ErrInvalidInput, cfg.BaseURL)
	}

	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: DefaultTimeout}
	}

	return &Connector{
		base:         base,
		maxPages:     cfg.MaxPages,
		allowedPaths: cfg.AllowedPaths,
		client:       cfg.Client,
		limiter:      rate.NewLimiter(rate.Every(cfg.Delay), 1),
	}, nil
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "web"
}

// Fetch crawls the website breadth-first and returns one Document per
// page. Pages that fail to download are logged and skipped; the crawl
// itself only fails when the context is cancelled.
func (c *Connector) Fetch(ctx context.Context) ([]domain.Document, error) {
	logger.Section("Web Crawl")
	logger.Info("Crawling %s (max %d pages)", c.base, c.maxPages)

	queue := []string{c.base.String()}
	seen := make(map[string]bool)
	var documents []domain.Document

	for len(queue) > 0 && len(documents) < c.maxPages {
		pageURL := queue[0]
		queue = queue[1:]
		if seen[pageURL] {
			continue
		}
		seen[pageURL] = true

		if err := c.limiter.Wait(ctx); err != nil {
			return documents, err
		}

		body, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return documents, ctx.Err()
			}
			logger.Warn("Skipping %s: %v", pageURL, err)
			continue
		}

		page := extractPage(body, pageURL)
		title := page.Title
		if title == "" {
			title = pageURL
		}

		documents = append(documents, domain.Document{
			ID:      pageURL,
			Source:  "web",
			Content: page.Text,
			Metadata: map[string]any{
				"url":   pageURL,
				"title": title,
			},
		})
		logger.Debug("Fetched %s (%d chars)", pageURL, len(page.Text))

		for _, link := range extractLinks(body, pageURL) {
			if c.inScope(link) && !seen[link] {
				queue = append(queue, link)
			}
		}
	}

	logger.Info("Crawl finished: %d pages", len(documents))
	return documents, nil
}

// fetchPage downloads a single page and returns its body.
func (c *Connector) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// inScope reports whether a resolved link should be crawled.
func (c *Connector) inScope(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	if parsed.Host != c.base.Host {
		return false
	}
	if len(c.allowedPaths) == 0 {
		return true
	}
	for _, prefix := range c.allowedPaths {
		if strings.HasPrefix(parsed.Path, prefix) {
			return true
		}
	}
	return false
}
