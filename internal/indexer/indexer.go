package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/dossier-index/internal/chunker"
	"github.com/dshills/dossier-index/internal/metrics"
	"github.com/dshills/dossier-index/internal/parser"
	"github.com/dshills/dossier-index/internal/storage"
	"github.com/dshills/dossier-index/pkg/types"
)

const (
	// ActiveDBName is the live index database inside the index directory.
	ActiveDBName = "index.db"

	// buildingDBName is the scratch database a build writes before the
	// atomic rename. It never serves queries.
	buildingDBName = "index.building.db"
)

// Config contains configuration for the indexer.
type Config struct {
	Chunk   chunker.Config
	Workers int // concurrent section chunkers (default: runtime.NumCPU())
	Logger  zerolog.Logger
	Metrics *metrics.Metrics // optional
}

// Stats describes one completed build.
type Stats struct {
	BuildID      string         `json:"build_id"`
	SectionCount int            `json:"section_count"`
	ChunkCount   int            `json:"chunk_count"`
	PerCategory  map[string]int `json:"per_category"`
	StagedLog    string         `json:"staged_log"`
	Duration     time.Duration  `json:"-"`
}

// Status describes the currently active index.
type Status struct {
	BuildID     string         `json:"build_id"`
	SourcePath  string         `json:"source_path"`
	ChunkCount  int            `json:"chunk_count"`
	PerCategory map[string]int `json:"per_category"`
	BuiltAt     time.Time      `json:"built_at"`
}

// Indexer coordinates the build pipeline (parse -> chunk -> stage -> store)
// and owns the active index handle. Builds replace the index wholesale: a
// fresh database is written beside the live one and renamed into place only
// after the bulk load commits, so a failed or cancelled build never
// disturbs the index queries are running against.
type Indexer struct {
	dir     string
	chunk   chunker.Config
	workers int
	log     zerolog.Logger
	met     *metrics.Metrics

	lock   BuildLock
	active atomic.Pointer[handle]
}

// handle is a refcounted open store. The owner reference is dropped when a
// newer build swaps the handle out; the store closes once the last in-flight
// reader releases.
type handle struct {
	store *storage.SQLiteStore
	info  storage.BuildInfo
	refs  atomic.Int64
}

func (h *handle) tryRef() bool {
	for {
		n := h.refs.Load()
		if n == 0 {
			return false
		}
		if h.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (h *handle) unref() {
	if h.refs.Add(-1) == 0 {
		_ = h.store.Close()
	}
}

// Reader is a leased view of the active index. A query that acquired a
// Reader keeps its index version until Release, even if a newer build goes
// live mid-query.
type Reader struct {
	h        *handle
	released atomic.Bool
}

// Store returns the underlying store.
func (r *Reader) Store() storage.Store { return r.h.store }

// BuildID identifies the index version this reader is pinned to.
func (r *Reader) BuildID() string { return r.h.info.BuildID }

// Release returns the lease. Safe to call more than once.
func (r *Reader) Release() {
	if r.released.CompareAndSwap(false, true) {
		r.h.unref()
	}
}

// New creates an Indexer rooted at dir, which holds the staged chunk log
// and the index database.
func New(dir string, cfg Config) (*Indexer, error) {
	if cfg.Chunk.ChunkSize == 0 {
		cfg.Chunk = chunker.DefaultConfig()
	}
	if err := cfg.Chunk.Validate(); err != nil {
		return nil, fmt.Errorf("chunker config: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	return &Indexer{
		dir:     dir,
		chunk:   cfg.Chunk,
		workers: cfg.Workers,
		log:     cfg.Logger,
		met:     cfg.Metrics,
	}, nil
}

// LoadExisting activates an index database left by a previous process, if
// one exists. Missing is not an error: the service starts unbuilt and
// queries return ErrIndexUnavailable until the first build.
func (ix *Indexer) LoadExisting(ctx context.Context) error {
	path := filepath.Join(ix.dir, ActiveDBName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	if err := ix.activate(ctx, path); err != nil {
		return fmt.Errorf("failed to load existing index: %w", err)
	}
	ix.log.Info().Str("path", path).Msg("loaded existing index")
	return nil
}

// Build runs one full build from the collected stream at sourcePath and, on
// success, makes the new index the active one. Exactly one build may be in
// flight; a concurrent call fails with ErrBuildInProgress. Cancellation
// before the rename commits leaves the previous index authoritative.
func (ix *Indexer) Build(ctx context.Context, sourcePath string) (*Stats, error) {
	if !ix.lock.TryAcquire() {
		return nil, fmt.Errorf("collection %s: %w", ix.dir, types.ErrBuildInProgress)
	}
	defer ix.lock.Release()

	start := time.Now()
	buildID := uuid.NewString()
	log := ix.log.With().Str("build_id", buildID).Str("source", sourcePath).Logger()
	log.Info().Msg("index build started")

	stats, err := ix.build(ctx, log, buildID, sourcePath)
	if err != nil {
		ix.countBuild("error")
		log.Error().Err(err).Msg("index build failed")
		return nil, err
	}

	stats.Duration = time.Since(start)
	ix.countBuild("ok")
	if ix.met != nil {
		ix.met.BuildDuration.Observe(stats.Duration.Seconds())
		ix.met.ChunksIndexedTotal.Add(float64(stats.ChunkCount))
	}
	log.Info().
		Int("sections", stats.SectionCount).
		Int("chunks", stats.ChunkCount).
		Dur("duration", stats.Duration).
		Msg("index build complete")
	return stats, nil
}

func (ix *Indexer) build(ctx context.Context, log zerolog.Logger, buildID, sourcePath string) (*Stats, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source stream %s: %w", sourcePath, types.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: open source stream: %v", types.ErrBuildFailed, err)
	}
	defer func() { _ = f.Close() }()

	sections, err := parser.ParseAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read source stream: %v", types.ErrBuildFailed, err)
	}

	chunks, err := ix.chunkSections(ctx, sections)
	if err != nil {
		return nil, fmt.Errorf("%w: chunking: %v", types.ErrBuildFailed, err)
	}

	// Duplicate IDs indicate an identity bug; abort rather than let a
	// later chunk silently shadow an earlier one.
	seen := make(map[string]struct{}, len(chunks))
	for i := range chunks {
		if _, dup := seen[chunks[i].ChunkID]; dup {
			return nil, fmt.Errorf("chunk %s: %w", chunks[i].ChunkID, types.ErrIdentityCollision)
		}
		seen[chunks[i].ChunkID] = struct{}{}
	}

	stagedPath, err := ix.stageChunks(chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrBuildFailed, err)
	}
	log.Debug().Str("path", stagedPath).Int("chunks", len(chunks)).Msg("staged chunk log written")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrBuildFailed, err)
	}

	staged, err := loadStagedChunks(stagedPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrBuildFailed, err)
	}

	buildPath := filepath.Join(ix.dir, buildingDBName)
	removeDatabase(buildPath)

	store, err := storage.Open(buildPath)
	if err != nil {
		return nil, fmt.Errorf("%w: create store: %v", types.ErrBuildFailed, err)
	}

	info := storage.BuildInfo{
		BuildID:    buildID,
		SourcePath: sourcePath,
		ChunkCount: len(staged),
		BuiltAt:    time.Now().UTC(),
	}
	if err := store.InsertChunks(ctx, staged); err == nil {
		err = store.SetBuildInfo(ctx, &info)
	}
	if cerr := store.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		removeDatabase(buildPath)
		return nil, fmt.Errorf("%w: bulk load: %v", types.ErrBuildFailed, err)
	}

	// Last cancellation point: after the rename the new index is live.
	if err := ctx.Err(); err != nil {
		removeDatabase(buildPath)
		return nil, fmt.Errorf("%w: %v", types.ErrBuildFailed, err)
	}

	activePath := filepath.Join(ix.dir, ActiveDBName)
	if err := os.Rename(buildPath, activePath); err != nil {
		removeDatabase(buildPath)
		return nil, fmt.Errorf("%w: activate store: %v", types.ErrBuildFailed, err)
	}

	if err := ix.activate(ctx, activePath); err != nil {
		return nil, fmt.Errorf("%w: open active store: %v", types.ErrBuildFailed, err)
	}

	return &Stats{
		BuildID:      buildID,
		SectionCount: len(sections),
		ChunkCount:   len(chunks),
		PerCategory:  countByCategory(chunks),
		StagedLog:    stagedPath,
	}, nil
}

// chunkSections runs chunking and identity derivation across sections.
// Sequence numbers per (category, page, source) are assigned in stream
// order before the parallel phase, so the counters never race.
func (ix *Indexer) chunkSections(ctx context.Context, sections []types.Section) ([]types.Chunk, error) {
	type key struct {
		category string
		page     int
		source   string
	}
	counters := make(map[key]int)
	sectionNos := make([]int, len(sections))
	for i, sec := range sections {
		k := key{sec.Category, sec.Page, sec.SourceName}
		sectionNos[i] = counters[k]
		counters[k]++
	}

	results := make([][]types.Chunk, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)
	for i := range sections {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = ix.chunkSection(sections[i], sectionNos[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var chunks []types.Chunk
	for _, r := range results {
		chunks = append(chunks, r...)
	}
	return chunks, nil
}

// chunkSection materializes the chunk records for one section. A section
// with empty text yields no chunks.
func (ix *Indexer) chunkSection(sec types.Section, sectionNo int) []types.Chunk {
	spans := chunker.Split(sec.Text, ix.chunk)
	if len(spans) == 0 {
		return nil
	}

	chunks := make([]types.Chunk, 0, len(spans))
	for idx, span := range spans {
		chunks = append(chunks, types.Chunk{
			ChunkID:    ChunkID(sec.Category, sec.Page, sec.SourceName, sectionNo, idx, span.Start, span.End),
			Category:   sec.Category,
			Page:       sec.Page,
			Citation:   sec.Citation(),
			SourceName: sec.SourceName,
			Start:      span.Start,
			End:        span.End,
			Text:       sec.Text[span.Start:span.End],
		})
	}
	return chunks
}

// activate opens the database at path and swaps it in as the active index.
// The previous handle, if any, closes once its in-flight readers drain.
func (ix *Indexer) activate(ctx context.Context, path string) error {
	store, err := storage.Open(path)
	if err != nil {
		return err
	}

	info, err := store.BuildInfo(ctx)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("store at %s has no build info: %w", path, err)
	}

	h := &handle{store: store, info: *info}
	h.refs.Store(1)

	if old := ix.active.Swap(h); old != nil {
		old.unref()
	}
	return nil
}

// Acquire leases the active index for one read operation. Fails with
// ErrIndexUnavailable before the first successful build.
func (ix *Indexer) Acquire() (*Reader, error) {
	for {
		h := ix.active.Load()
		if h == nil {
			return nil, types.ErrIndexUnavailable
		}
		if h.tryRef() {
			return &Reader{h: h}, nil
		}
		// Lost a race with a swap; the new handle is an atomic load away.
	}
}

// Status reports the active index's provenance and chunk population.
func (ix *Indexer) Status(ctx context.Context) (*Status, error) {
	r, err := ix.Acquire()
	if err != nil {
		return nil, err
	}
	defer r.Release()

	stats, err := r.Store().Stats(ctx)
	if err != nil {
		return nil, err
	}

	h := r.h
	return &Status{
		BuildID:     h.info.BuildID,
		SourcePath:  h.info.SourcePath,
		ChunkCount:  stats.ChunkCount,
		PerCategory: stats.PerCategory,
		BuiltAt:     h.info.BuiltAt,
	}, nil
}

// Close releases the active index. Outstanding readers finish against
// their leased version before the store closes.
func (ix *Indexer) Close() error {
	if old := ix.active.Swap(nil); old != nil {
		old.unref()
	}
	return nil
}

func (ix *Indexer) countBuild(status string) {
	if ix.met != nil {
		ix.met.BuildsTotal.WithLabelValues(status).Inc()
	}
}

func countByCategory(chunks []types.Chunk) map[string]int {
	counts := make(map[string]int)
	for i := range chunks {
		counts[chunks[i].Category]++
	}
	return counts
}

// removeDatabase deletes a SQLite database file and its WAL sidecars.
func removeDatabase(path string) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		_ = os.Remove(p)
	}
}
