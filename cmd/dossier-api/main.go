package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/dossier-index/internal/api"
	"github.com/dshills/dossier-index/internal/config"
	"github.com/dshills/dossier-index/internal/indexer"
	"github.com/dshills/dossier-index/internal/logger"
	"github.com/dshills/dossier-index/internal/metrics"
	"github.com/dshills/dossier-index/internal/searcher"
	"github.com/dshills/dossier-index/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: os.Stdout,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	met := metrics.New(prometheus.DefaultRegisterer)

	ix, err := indexer.New(cfg.IndexDir, indexer.Config{
		Chunk:   cfg.Chunker(),
		Workers: cfg.Workers,
		Logger:  log,
		Metrics: met,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create indexer")
	}
	if err := ix.LoadExisting(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load existing index")
	}

	srch := searcher.New(ix, searcher.Config{
		CacheSize: cfg.SearchCacheSize,
		Logger:    log,
		Metrics:   met,
	})

	srv := api.NewServer(ix, srch, log, met, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)

		cancel()
		_ = ix.Close()
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("index_dir", cfg.IndexDir).
		Str("build_mode", storage.BuildMode).
		Msg("starting dossier index API")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}
