// Package file loads helpdesk configuration from a TOML file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
	DefaultWebMaxPages  = 50
	DefaultWebDelayMS   = 500
)

// Config is the full helpdesk configuration document.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Chunking ChunkingConfig `toml:"chunking"`
	OpenAI   OpenAIConfig   `toml:"openai"`
	Sources  SourcesConfig  `toml:"sources"`
}

// StoreConfig controls where the vector store lives.
type StoreConfig struct {
	// Dir is the store directory (default: ~/.helpdesk/store).
	Dir string `toml:"dir"`
}

// ChunkingConfig controls how documents are split before embedding.
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
}

// OpenAIConfig holds provider credentials and model choices.
// The API key can also come from the OPENAI_API_KEY environment
// variable, which takes precedence over the file.
type OpenAIConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	EmbeddingModel string `toml:"embedding_model"`
	ChatModel      string `toml:"chat_model"`
}

// SourcesConfig lists the content sources to ingest.
type SourcesConfig struct {
	Web    []WebSource    `toml:"web"`
	Notion []NotionSource `toml:"notion"`
}

// WebSource describes one website to crawl.
type WebSource struct {
	URL          string   `toml:"url"`
	MaxPages     int      `toml:"max_pages"`
	DelayMS      int      `toml:"delay_ms"`
	AllowedPaths []string `toml:"allowed_paths"`
}

// NotionSource describes one Notion export on disk.
type NotionSource struct {
	Path string `toml:"path"`
}

// DefaultPath returns the default config file location,
// ~/.helpdesk/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".helpdesk", "config.toml"), nil
}

// Load reads the config file at path. A missing file yields the
// default config rather than an error, so the CLI works without any
// setup. The OPENAI_API_KEY environment variable overrides the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}

	return cfg, nil
}

// applyDefaults fills in zero values after parsing.
func (c *Config) applyDefaults() {
	if c.Store.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Store.Dir = filepath.Join(home, ".helpdesk", "store")
		} else {
			c.Store.Dir = ".helpdesk-store"
		}
	}
	if c.Chunking.ChunkSize <= 0 {
		c.Chunking.ChunkSize = DefaultChunkSize
	}
	if c.Chunking.ChunkOverlap <= 0 {
		c.Chunking.ChunkOverlap = DefaultChunkOverlap
	}
	for i := range c.Sources.Web {
		if c.Sources.Web[i].MaxPages <= 0 {
			c.Sources.Web[i].MaxPages = DefaultWebMaxPages
		}
		if c.Sources.Web[i].DelayMS <= 0 {
			c.Sources.Web[i].DelayMS = DefaultWebDelayMS
		}
	}
}
