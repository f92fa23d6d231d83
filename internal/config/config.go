package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dshills/dossier-index/internal/chunker"
)

// Config holds all service configuration, loaded from DOSSIER_* environment
// variables with defaults suitable for local development.
type Config struct {
	Port string

	// Index layout
	IndexDir   string // holds index.db and chunks.jsonl
	SourcePath string // default collected stream to build from

	// Chunking
	ChunkSize     int
	ChunkOverlap  int
	ChunkLookback int

	// Build
	Workers int

	// Search
	SearchCacheSize int

	// Logging
	LogLevel  string
	LogPretty bool
}

// Load reads configuration from the environment.
func Load() Config {
	cfg := Config{
		Port: envOr("DOSSIER_PORT", "8070"),

		IndexDir:   envOr("DOSSIER_INDEX_DIR", "data/index"),
		SourcePath: envOr("DOSSIER_SOURCE_PATH", "data/text/ALL.txt"),

		ChunkSize:     envInt("DOSSIER_CHUNK_SIZE", chunker.DefaultChunkSize),
		ChunkOverlap:  envInt("DOSSIER_CHUNK_OVERLAP", chunker.DefaultOverlap),
		ChunkLookback: envInt("DOSSIER_CHUNK_LOOKBACK", chunker.DefaultLookback),

		Workers: envInt("DOSSIER_WORKERS", 0), // 0 = runtime.NumCPU()

		SearchCacheSize: envInt("DOSSIER_SEARCH_CACHE_SIZE", 1000),

		LogLevel:  envOr("DOSSIER_LOG_LEVEL", "info"),
		LogPretty: envBool("DOSSIER_LOG_PRETTY", false),
	}

	return cfg
}

// Validate surfaces misconfiguration early.
func (c Config) Validate() error {
	if c.IndexDir == "" {
		return fmt.Errorf("DOSSIER_INDEX_DIR is required")
	}
	if err := c.Chunker().Validate(); err != nil {
		return err
	}
	return nil
}

// Chunker returns the chunking configuration.
func (c Config) Chunker() chunker.Config {
	return chunker.Config{
		ChunkSize: c.ChunkSize,
		Overlap:   c.ChunkOverlap,
		Lookback:  c.ChunkLookback,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
