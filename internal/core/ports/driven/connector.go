package driven

import (
	"context"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
)

// Connector acquires documents from a knowledge source.
// Each connector type (web crawl, notion export) implements this
// interface and hands plain Document records to the ingest service.
type Connector interface {
	// Type returns the connector type identifier ("web", "notion").
	Type() string

	// Fetch acquires all documents from the source. Unreachable
	// individual items are logged and skipped rather than failing the
	// whole fetch.
	Fetch(ctx context.Context) ([]domain.Document, error)
}
