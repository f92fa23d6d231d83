package storage

import (
	"context"
	"time"

	"github.com/dshills/dossier-index/pkg/types"
)

// Store is the durable, queryable representation of one index build: a
// metadata table keyed by chunk ID plus an FTS5 lexical index over chunk
// text. Every chunk ID present in either relation is present in the other.
type Store interface {
	// InsertChunks bulk-loads chunk metadata and text. It is called once
	// per build, before the store becomes the active index.
	InsertChunks(ctx context.Context, chunks []types.Chunk) error

	// SearchText runs an FTS5 MATCH query and returns hits ordered by
	// ascending BM25 score, ties broken by ascending chunk ID.
	SearchText(ctx context.Context, match string, limit int) ([]TextResult, error)

	// GetChunk returns one chunk with its text, or types.ErrNotFound.
	GetChunk(ctx context.Context, chunkID string) (*types.Chunk, error)

	// Stats reports total and per-category chunk counts.
	Stats(ctx context.Context) (*IndexStats, error)

	// SetBuildInfo records the provenance of this build.
	SetBuildInfo(ctx context.Context, info *BuildInfo) error

	// BuildInfo returns the recorded build provenance, or types.ErrNotFound
	// for a store no build has committed to.
	BuildInfo(ctx context.Context) (*BuildInfo, error)

	Close() error
}

// TextResult is a single FTS5 hit.
type TextResult struct {
	ChunkID    string
	Category   string
	Page       int
	Citation   string
	SourceName string
	Snippet    string
	Score      float64 // bm25(); lower is more relevant
}

// IndexStats summarizes the chunk population of a store.
type IndexStats struct {
	ChunkCount  int
	PerCategory map[string]int
}

// BuildInfo identifies the build that produced a store.
type BuildInfo struct {
	BuildID    string
	SourcePath string
	ChunkCount int
	BuiltAt    time.Time
}
