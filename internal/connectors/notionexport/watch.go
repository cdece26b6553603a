package notionexport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
	"github.com/helpdesk-labs/helpdesk-cli/internal/logger"
)

// Watch re-loads export files as they change and passes them to
// onChange. It blocks until the context is cancelled or the watcher
// fails. Deletions are ignored; the store is append-only.
func (c *Connector) Watch(ctx context.Context, onChange func([]domain.Document)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watchPath := c.path
	if info, err := os.Stat(c.path); err == nil && !info.IsDir() {
		watchPath = filepath.Dir(c.path)
	}
	if err := watcher.Add(watchPath); err != nil {
		return fmt.Errorf("watch %s: %w", watchPath, err)
	}
	logger.Info("Watching %s for changes", watchPath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			doc := c.handleFsEvent(event)
			if doc == nil {
				continue
			}
			logger.Debug("Export file changed: %s", event.Name)
			onChange([]domain.Document{*doc})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleFsEvent turns a filesystem event into a reloaded document, or
// nil when the event is irrelevant.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.Document {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return nil
	}
	if !exportExtensions[strings.ToLower(filepath.Ext(event.Name))] {
		return nil
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return nil
	}

	doc, err := c.loadFile(event.Name)
	if err != nil {
		logger.Warn("Reload %s: %v", event.Name, err)
		return nil
	}
	return &doc
}
