package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/dossier-index/internal/indexer"
	"github.com/dshills/dossier-index/internal/metrics"
	"github.com/dshills/dossier-index/internal/storage"
	"github.com/dshills/dossier-index/pkg/types"
)

const (
	// DefaultCacheSize is the LRU query cache capacity.
	DefaultCacheSize = 1000

	// MaxResults caps k to keep responses bounded.
	MaxResults = 100
)

// Searcher executes ranked keyword queries against the active index.
type Searcher struct {
	index *indexer.Indexer
	cache *lru.Cache[[32]byte, []types.SearchResult]
	log   zerolog.Logger
	met   *metrics.Metrics
}

// Config contains configuration for the searcher.
type Config struct {
	CacheSize int
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics // optional
}

// New creates a Searcher reading through the given indexer.
func New(index *indexer.Indexer, cfg Config) *Searcher {
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[[32]byte, []types.SearchResult](size)
	if err != nil {
		// Only reachable with a non-positive size, which is guarded above.
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return &Searcher{
		index: index,
		cache: cache,
		log:   cfg.Logger,
		met:   cfg.Metrics,
	}
}

// Search returns at most k results for the query, ranked by ascending BM25
// score with ties broken by ascending chunk ID. An empty or token-free
// query returns an empty slice. Fails with ErrInvalidArgument when k is not
// positive and ErrIndexUnavailable before the first successful build.
//
// Cache entries are keyed by (query, k, build ID), so a build swap
// naturally invalidates them: stale versions simply stop being looked up
// and age out of the LRU.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]types.SearchResult, error) {
	start := time.Now()

	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", types.ErrInvalidArgument, k)
	}
	if k > MaxResults {
		k = MaxResults
	}

	reader, err := s.index.Acquire()
	if err != nil {
		return nil, err
	}
	defer reader.Release()

	if s.met != nil {
		s.met.SearchQueriesTotal.Inc()
	}

	match := storage.MatchExpr(query)
	if match == "" {
		return []types.SearchResult{}, nil
	}

	key := cacheKey(query, k, reader.BuildID())
	if cached, ok := s.cache.Get(key); ok {
		if s.met != nil {
			s.met.SearchCacheHits.Inc()
		}
		return cloneResults(cached), nil
	}

	hits, err := reader.Store().SearchText(ctx, match, k)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	results := make([]types.SearchResult, 0, len(hits))
	for i, h := range hits {
		results = append(results, types.SearchResult{
			ChunkID:    h.ChunkID,
			Category:   h.Category,
			Page:       h.Page,
			Citation:   h.Citation,
			SourceName: h.SourceName,
			Snippet:    h.Snippet,
			Score:      h.Score,
			Rank:       i + 1,
		})
	}

	s.cache.Add(key, cloneResults(results))

	if s.met != nil {
		s.met.SearchResultsTotal.Add(float64(len(results)))
		s.met.SearchDuration.Observe(time.Since(start).Seconds())
	}
	s.log.Debug().
		Str("query", query).
		Int("k", k).
		Int("results", len(results)).
		Dur("duration", time.Since(start)).
		Msg("search executed")

	return results, nil
}

// GetChunk returns one chunk by ID from the active index, for citation
// drill-down.
func (s *Searcher) GetChunk(ctx context.Context, chunkID string) (*types.Chunk, error) {
	if strings.TrimSpace(chunkID) == "" {
		return nil, fmt.Errorf("%w: chunk ID cannot be empty", types.ErrInvalidArgument)
	}

	reader, err := s.index.Acquire()
	if err != nil {
		return nil, err
	}
	defer reader.Release()

	return reader.Store().GetChunk(ctx, chunkID)
}

// cacheKey computes a stable hash for one (query, k, build) combination.
func cacheKey(query string, k int, buildID string) [32]byte {
	var data strings.Builder
	data.WriteString(query)
	data.WriteString("|")
	fmt.Fprintf(&data, "%d", k)
	data.WriteString("|")
	data.WriteString(buildID)
	return sha256.Sum256([]byte(data.String()))
}

// cloneResults copies a result slice so cached entries cannot be mutated by
// callers.
func cloneResults(results []types.SearchResult) []types.SearchResult {
	out := make([]types.SearchResult, len(results))
	copy(out, results)
	return out
}
