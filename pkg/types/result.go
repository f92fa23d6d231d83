package types

import "errors"

// SearchResult is a single ranked hit from a keyword query. Score is the raw
// BM25 value from the index; lower (more negative) means more relevant and
// results are ordered ascending by it, with ties broken by ascending ChunkID.
type SearchResult struct {
	ChunkID    string  `json:"chunk_id"`
	Category   string  `json:"category"`
	Page       int     `json:"page"`
	Citation   string  `json:"citation"`
	SourceName string  `json:"source_name"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}

// Validate checks if the search result is well formed.
func (r *SearchResult) Validate() error {
	if r.ChunkID == "" {
		return errors.New("result chunk ID cannot be empty")
	}

	if r.Rank < 1 {
		return errors.New("rank must be >= 1")
	}

	if r.Citation == "" {
		return errors.New("citation cannot be empty")
	}

	return nil
}
