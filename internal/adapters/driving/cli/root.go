// Package cli implements the helpdesk command line interface using cobra.
// Commands are thin: they parse flags, wire services in a persistent
// pre-run hook and delegate to the core services.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/helpdesk-labs/helpdesk-cli/internal/adapters/driven/config/file"
	embeddingopenai "github.com/helpdesk-labs/helpdesk-cli/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/helpdesk-labs/helpdesk-cli/internal/adapters/driven/llm/openai"
	"github.com/helpdesk-labs/helpdesk-cli/internal/adapters/driven/storage/vecfile"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driven"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/ports/driving"
	"github.com/helpdesk-labs/helpdesk-cli/internal/core/services"
	"github.com/helpdesk-labs/helpdesk-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	configPath string
	storeDir   string
	verbose    bool
)

// Wired services, shared by the commands. Tests replace these.
var (
	cfg                 *configfile.Config
	vectorStore         driven.VectorStore
	embeddingService    driven.EmbeddingService
	llmService          driven.LLMService
	chatService         driving.ChatService
	ingestService       driving.Ingestor
	servicesInitialized bool
)

var rootCmd = &cobra.Command{
	Use:   "helpdesk",
	Short: "Retrieval-augmented helpdesk over your own documents",
	Long: `helpdesk ingests websites and Notion exports into a local vector
store and answers questions about them using retrieval-augmented
generation.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.helpdesk/config.toml)")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store-dir", "", "vector store directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context, so
// long-running commands (ingest --watch, serve) stop on SIGINT.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// initServices loads config and wires the service graph.
// Commands with no dependencies skip the work.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}
	if servicesInitialized {
		return nil
	}

	path := configPath
	if path == "" {
		var err error
		path, err = configfile.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
	}

	var err error
	cfg, err = configfile.Load(path)
	if err != nil {
		return err
	}
	if storeDir != "" {
		cfg.Store.Dir = storeDir
	}
	logger.Debug("Store directory: %s", cfg.Store.Dir)

	store, err := vecfile.Open(cfg.Store.Dir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	vectorStore = store

	if cfg.OpenAI.APIKey != "" {
		embeddingService, err = embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.EmbeddingModel,
		})
		if err != nil {
			return fmt.Errorf("configure embeddings: %w", err)
		}
		llmService, err = llmopenai.NewLLMService(llmopenai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.ChatModel,
		})
		if err != nil {
			return fmt.Errorf("configure chat model: %w", err)
		}
	} else {
		logger.Warn("No OpenAI API key configured; ingest and chat will be unavailable")
	}

	chatService = services.NewChatService(vectorStore, embeddingService, llmService)
	ingestService = services.NewIngestService(vectorStore, embeddingService, driven.ChunkingOptions{
		ChunkSize:    cfg.Chunking.ChunkSize,
		ChunkOverlap: cfg.Chunking.ChunkOverlap,
	})

	servicesInitialized = true
	return nil
}

// webDelay converts a config delay in milliseconds to a duration.
func webDelay(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
