package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dshills/dossier-index/pkg/types"
)

// buildRequest triggers an index build. SourcePath defaults to the
// configured collected stream location.
type buildRequest struct {
	SourcePath string `json:"source_path"`
}

type buildResponse struct {
	BuildID      string         `json:"build_id"`
	SectionCount int            `json:"section_count"`
	ChunkCount   int            `json:"chunk_count"`
	PerCategory  map[string]int `json:"per_category"`
	DurationMS   int64          `json:"duration_ms"`
}

type searchResponse struct {
	Query   string               `json:"query"`
	Count   int                  `json:"count"`
	Results []types.SearchResult `json:"results"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, types.ErrInvalidArgument, "malformed request body")
			return
		}
	}
	sourcePath := req.SourcePath
	if sourcePath == "" {
		sourcePath = s.cfg.SourcePath
	}

	stats, err := s.indexer.Build(r.Context(), sourcePath)
	if err != nil {
		s.writeError(w, r, err, "build failed")
		return
	}

	s.writeJSON(w, http.StatusOK, buildResponse{
		BuildID:      stats.BuildID,
		SectionCount: stats.SectionCount,
		ChunkCount:   stats.ChunkCount,
		PerCategory:  stats.PerCategory,
		DurationMS:   stats.Duration.Milliseconds(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	k := 10
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, types.ErrInvalidArgument, "k must be an integer")
			return
		}
		k = parsed
	}

	results, err := s.searcher.Search(r.Context(), query, k)
	if err != nil {
		s.writeError(w, r, err, "search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.indexer.Status(r.Context())
	if err != nil {
		s.writeError(w, r, err, "status unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleGetChunk(w http.ResponseWriter, r *http.Request) {
	chunkID := chi.URLParam(r, "chunkID")
	chunk, err := s.searcher.GetChunk(r.Context(), chunkID)
	if err != nil {
		s.writeError(w, r, err, "chunk lookup failed")
		return
	}
	s.writeJSON(w, http.StatusOK, chunk)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrBuildInProgress):
		return http.StatusConflict
	case errors.Is(err, types.ErrIndexUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
