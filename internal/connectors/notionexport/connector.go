// Package notionexport implements a Connector for Notion workspace
// exports: a Markdown or plain-text file, or a directory of them.
package notionexport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
	"github.com/helpdesk-labs/helpdesk-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// exportExtensions are the file types a Notion export contains.
var exportExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// Connector loads documents from a Notion export on disk.
type Connector struct {
	path     string
	sourceID string
}

// New creates a connector for the given export file or directory.
func New(path string) (*Connector, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: export path is required", domain.ErrInvalidInput)
	}
	return &Connector{path: path, sourceID: "notion"}, nil
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return c.sourceID
}

// Fetch loads every export file under the configured path.
// A single file yields one document; a directory yields one per
// matching file, in path order.
func (c *Connector) Fetch(_ context.Context) ([]domain.Document, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("notion export not found: %w", err)
	}

	if !info.IsDir() {
		doc, err := c.loadFile(c.path)
		if err != nil {
			return nil, err
		}
		return []domain.Document{doc}, nil
	}

	var files []string
	err = filepath.WalkDir(c.path, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && exportExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk export directory: %w", err)
	}
	sort.Strings(files)

	documents := make([]domain.Document, 0, len(files))
	for _, file := range files {
		doc, err := c.loadFile(file)
		if err != nil {
			logger.Warn("Skipping %s: %v", file, err)
			continue
		}
		documents = append(documents, doc)
	}

	logger.Info("Loaded %d documents from %s", len(documents), c.path)
	return documents, nil
}

// loadFile reads one export file as a document. The document ID is the
// file stem so re-ingesting a fixed export keeps chunk IDs stable.
func (c *Connector) loadFile(path string) (domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read export file: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return domain.Document{
		ID:      stem,
		Source:  c.sourceID,
		Content: string(content),
		Metadata: map[string]any{
			"path": path,
		},
	}, nil
}
