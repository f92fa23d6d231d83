package chunker

import (
	"fmt"
	"strings"
)

const (
	// DefaultChunkSize is the target chunk size in bytes.
	DefaultChunkSize = 1500

	// DefaultOverlap is the number of bytes consecutive chunks share.
	DefaultOverlap = 200

	// DefaultLookback bounds the backward newline search at a candidate
	// boundary.
	DefaultLookback = 500
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize int // Target chunk size in bytes.
	Overlap   int // Overlap between consecutive chunks in bytes.
	Lookback  int // Backward newline search window at a boundary.
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize: DefaultChunkSize,
		Overlap:   DefaultOverlap,
		Lookback:  DefaultLookback,
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.Overlap < 0 || c.Overlap >= c.ChunkSize {
		return fmt.Errorf("overlap must satisfy 0 <= overlap < chunk size, got %d", c.Overlap)
	}
	if c.Lookback < 0 {
		return fmt.Errorf("lookback must be non-negative, got %d", c.Lookback)
	}
	return nil
}

// Span is a half-open byte range into a section's text.
type Span struct {
	Start int
	End   int
}

// Split produces the ordered span sequence for one section's text. Spans
// cover the text from 0 to len(text); consecutive spans overlap by
// cfg.Overlap except where a newline boundary shortened the previous span.
// The final span may be shorter than the target size. Empty text yields no
// spans. The output is a pure function of (text, cfg).
func Split(text string, cfg Config) []Span {
	n := len(text)
	if n == 0 {
		return nil
	}

	var spans []Span
	i := 0
	for {
		j := i + cfg.ChunkSize
		if j > n {
			j = n
		}

		// Prefer a clean line boundary over splitting mid-line, but
		// only search a bounded window so a pathological section
		// cannot trigger unbounded backtracking.
		if j < n && cfg.Lookback > 0 {
			if k := boundaryBefore(text, i, j, cfg.Lookback); k > i {
				// A boundary that erases the forward progress
				// past the overlap would loop; keep the raw
				// candidate in that case.
				if k-i > cfg.Overlap {
					j = k
				}
			}
		}

		spans = append(spans, Span{Start: i, End: j})
		if j == n {
			break
		}

		i = j - cfg.Overlap
		if i < 0 {
			i = 0
		}
	}
	return spans
}

// boundaryBefore returns the index of the last newline in
// text[max(i+1, j-lookback):j], or -1 if the window holds none.
func boundaryBefore(text string, i, j, lookback int) int {
	lo := j - lookback
	if lo <= i {
		lo = i + 1
	}
	if lo >= j {
		return -1
	}
	k := strings.LastIndexByte(text[lo:j], '\n')
	if k < 0 {
		return -1
	}
	return lo + k
}
