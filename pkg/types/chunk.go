package types

import "errors"

// Chunk is a bounded slice of a section's text, the unit of indexing and
// retrieval. Start and End are half-open byte offsets into the owning
// section's text. The JSON field names are the staged chunk log format and
// must stay stable; the log is both an audit artifact and the bulk-load
// source for the store.
type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	Category   string `json:"category"`
	Page       int    `json:"page"`
	Citation   string `json:"citation"`
	SourceName string `json:"source_name"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Text       string `json:"text"`
}

// Validate checks the chunk's structural invariants.
func (c *Chunk) Validate() error {
	if c.ChunkID == "" {
		return errors.New("chunk ID cannot be empty")
	}

	if c.Category == "" {
		return errors.New("category cannot be empty")
	}

	if c.Page <= 0 {
		return errors.New("page must be positive")
	}

	if c.Start < 0 || c.End <= c.Start {
		return errors.New("offsets must satisfy 0 <= start < end")
	}

	if len(c.Text) != c.End-c.Start {
		return errors.New("text length must match the span")
	}

	return nil
}
