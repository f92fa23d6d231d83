package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dshills/dossier-index/internal/config"
	"github.com/dshills/dossier-index/internal/indexer"
	"github.com/dshills/dossier-index/internal/logger"
	"github.com/dshills/dossier-index/internal/mcp"
	"github.com/dshills/dossier-index/internal/searcher"
	"github.com/dshills/dossier-index/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("Dossier Index MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	// Log to stderr (stdout reserved for MCP protocol)
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
	log.Info().
		Str("version", version).
		Str("build_mode", storage.BuildMode).
		Str("driver", storage.DriverName).
		Msg("dossier index MCP server starting")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ix, err := indexer.New(cfg.IndexDir, indexer.Config{
		Chunk:   cfg.Chunker(),
		Workers: cfg.Workers,
		Logger:  log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create indexer")
	}
	defer func() { _ = ix.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ix.LoadExisting(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load existing index")
	}

	srch := searcher.New(ix, searcher.Config{
		CacheSize: cfg.SearchCacheSize,
		Logger:    log,
	})

	server, err := mcp.NewServer(ix, srch, log, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create MCP server")
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		log.Info().Msg("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}

	log.Info().Msg("server stopped")
}
