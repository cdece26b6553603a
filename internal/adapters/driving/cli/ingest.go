package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/helpdesk-labs/helpdesk-cli/internal/adapters/driven/config/file"
	"github.com/helpdesk-labs/helpdesk-cli/internal/connectors/notionexport"
	"github.com/helpdesk-labs/helpdesk-cli/internal/connectors/web"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
	"github.com/helpdesk-labs/helpdesk-cli/internal/logger"
)

var (
	ingestWebURL       string
	ingestMaxPages     int
	ingestDelayMS      int
	ingestAllowedPaths []string
	ingestNotionPath   string
	ingestWatch        bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Crawl and index content sources",
	Long: `Fetches documents from the configured sources (or the ones given
via flags), chunks and embeds them, and stores them in the local
vector store. Sources given via flags replace the configured ones
for this run.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestWebURL, "web-url", "", "website base URL to crawl")
	ingestCmd.Flags().IntVar(&ingestMaxPages, "max-pages", configfile.DefaultWebMaxPages, "maximum pages to crawl")
	ingestCmd.Flags().IntVar(&ingestDelayMS, "delay-ms", configfile.DefaultWebDelayMS, "delay between requests in milliseconds")
	ingestCmd.Flags().StringSliceVar(&ingestAllowedPaths, "allowed-path", nil, "restrict crawl to these path prefixes")
	ingestCmd.Flags().StringVar(&ingestNotionPath, "notion-path", "", "Notion export file or directory")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "keep watching Notion exports and re-ingest changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	connectors, watchers, err := buildConnectors()
	if err != nil {
		return err
	}
	if len(connectors) == 0 {
		return errors.New("no sources configured; pass --web-url or --notion-path, or add [[sources]] to the config")
	}

	ctx := cmd.Context()
	total := 0
	for _, connector := range connectors {
		docs, err := connector.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetch from %s: %w", connector.Type(), err)
		}
		added, err := ingestService.Ingest(ctx, docs)
		if err != nil {
			return fmt.Errorf("ingest from %s: %w", connector.Type(), err)
		}
		cmd.Printf("Ingested %d chunks from %s (%d documents)\n", added, connector.Type(), len(docs))
		total += added
	}
	cmd.Printf("Done: %d new chunks, store now holds %d.\n", total, vectorStore.Len())

	if ingestWatch {
		if len(watchers) == 0 {
			return errors.New("--watch requires at least one Notion source")
		}
		return watchNotionSources(ctx, cmd, watchers)
	}
	return nil
}

// buildConnectors assembles the source connectors from flags, or from
// the config file when no source flags are set.
func buildConnectors() ([]driven.Connector, []*notionexport.Connector, error) {
	var connectors []driven.Connector
	var watchers []*notionexport.Connector

	fromFlags := ingestWebURL != "" || ingestNotionPath != ""
	if fromFlags {
		if ingestWebURL != "" {
			conn, err := web.New(web.Config{
				BaseURL:      ingestWebURL,
				MaxPages:     ingestMaxPages,
				Delay:        webDelay(ingestDelayMS),
				AllowedPaths: ingestAllowedPaths,
			})
			if err != nil {
				return nil, nil, err
			}
			connectors = append(connectors, conn)
		}
		if ingestNotionPath != "" {
			conn, err := notionexport.New(ingestNotionPath)
			if err != nil {
				return nil, nil, err
			}
			connectors = append(connectors, conn)
			watchers = append(watchers, conn)
		}
		return connectors, watchers, nil
	}

	for _, src := range cfg.Sources.Web {
		conn, err := web.New(web.Config{
			BaseURL:      src.URL,
			MaxPages:     src.MaxPages,
			Delay:        webDelay(src.DelayMS),
			AllowedPaths: src.AllowedPaths,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("web source %s: %w", src.URL, err)
		}
		connectors = append(connectors, conn)
	}
	for _, src := range cfg.Sources.Notion {
		conn, err := notionexport.New(src.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("notion source %s: %w", src.Path, err)
		}
		connectors = append(connectors, conn)
		watchers = append(watchers, conn)
	}
	return connectors, watchers, nil
}

// watchNotionSources blocks, re-ingesting export files as they change.
func watchNotionSources(ctx context.Context, cmd *cobra.Command, watchers []*notionexport.Connector) error {
	cmd.Println("Watching for changes. Press Ctrl-C to stop.")

	onChange := func(docs []domain.Document) {
		added, err := ingestService.Ingest(ctx, docs)
		if err != nil {
			logger.Warn("Re-ingest failed: %v", err)
			return
		}
		cmd.Printf("Re-ingested %d chunks.\n", added)
	}

	errs := make(chan error, len(watchers))
	for _, watcher := range watchers {
		go func(w *notionexport.Connector) {
			errs <- w.Watch(ctx, onChange)
		}(watcher)
	}

	err := <-errs
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
