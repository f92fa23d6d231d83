package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dshills/dossier-index/internal/config"
	"github.com/dshills/dossier-index/internal/indexer"
	"github.com/dshills/dossier-index/internal/metrics"
	"github.com/dshills/dossier-index/internal/searcher"
)

// Server is the HTTP front door for the build trigger and search API.
type Server struct {
	router   chi.Router
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
	log      zerolog.Logger
	met      *metrics.Metrics
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(ix *indexer.Indexer, srch *searcher.Searcher, log zerolog.Logger, met *metrics.Metrics, cfg config.Config) *Server {
	s := &Server{
		indexer:  ix,
		searcher: srch,
		log:      log,
		met:      met,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(RequestMetrics(s.met))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/index/build", s.handleBuild)
		r.Get("/search", s.handleSearch)
		r.Get("/status", s.handleStatus)
		r.Get("/chunks/{chunkID}", s.handleGetChunk)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
