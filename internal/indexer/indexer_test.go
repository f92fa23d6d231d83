package indexer

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/dossier-index/internal/chunker"
	"github.com/dshills/dossier-index/internal/storage"
	"github.com/dshills/dossier-index/pkg/types"
)

func testConfig() Config {
	return Config{
		Chunk:  chunker.Config{ChunkSize: 60, Overlap: 10, Lookback: 20},
		Logger: zerolog.Nop(),
	}
}

func writeSource(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ALL.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func newTestIndexer(t *testing.T) *Indexer {
	t.Helper()
	ix, err := New(t.TempDir(), testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func TestBuild_EndToEnd(t *testing.T) {
	source := writeSource(t,
		"=== Press#12 :: Morning Herald ===",
		"The board announced the appointment.",
		"=== Bios#3 :: Who's Who ===",
		"Early career in shipping.",
	)
	ix := newTestIndexer(t)

	stats, err := ix.Build(context.Background(), source)
	require.NoError(t, err)

	assert.NotEmpty(t, stats.BuildID)
	assert.Equal(t, 2, stats.SectionCount)
	assert.Equal(t, 2, stats.ChunkCount)
	assert.Equal(t, map[string]int{"Press": 1, "Bios": 1}, stats.PerCategory)

	reader, err := ix.Acquire()
	require.NoError(t, err)
	defer reader.Release()

	hits, err := reader.Store().SearchText(context.Background(), storage.MatchExpr("appointment"), 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Press#12", hits[0].Citation)
	assert.True(t, strings.HasPrefix(hits[0].ChunkID, "Press_12_s0_c0_"))
}

func TestBuild_SourceNotFound(t *testing.T) {
	ix := newTestIndexer(t)

	_, err := ix.Build(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, types.ErrNotFound)

	// A failed build must not activate anything.
	_, err = ix.Acquire()
	assert.ErrorIs(t, err, types.ErrIndexUnavailable)
}

func TestBuild_InProgress(t *testing.T) {
	source := writeSource(t,
		"=== Press#1 :: Wire ===",
		"content",
	)
	ix := newTestIndexer(t)

	require.True(t, ix.lock.TryAcquire())
	_, err := ix.Build(context.Background(), source)
	assert.ErrorIs(t, err, types.ErrBuildInProgress)
	ix.lock.Release()

	_, err = ix.Build(context.Background(), source)
	assert.NoError(t, err)
}

func TestBuild_StagedLog(t *testing.T) {
	source := writeSource(t,
		"=== Press#5 :: Gazette ===",
		"A short press clipping about the merger.",
	)
	ix := newTestIndexer(t)

	stats, err := ix.Build(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ix.dir, StagedLogName), stats.StagedLog)

	f, err := os.Open(stats.StagedLog)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var staged []types.Chunk
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var c types.Chunk
		require.NoError(t, json.Unmarshal(sc.Bytes(), &c))
		require.NoError(t, c.Validate())
		staged = append(staged, c)
	}
	require.NoError(t, sc.Err())

	require.Len(t, staged, 1)
	assert.Equal(t, "Press", staged[0].Category)
	assert.Equal(t, 5, staged[0].Page)
	assert.Equal(t, "Press#5", staged[0].Citation)
	assert.Equal(t, "A short press clipping about the merger.", staged[0].Text)
}

func TestBuild_RebuildIsDeterministic(t *testing.T) {
	source := writeSource(t,
		"=== Bios#3 :: Who's Who ===",
		strings.Repeat("biographical detail line\n", 10),
		"=== Bios#3 :: Who's Who ===",
		"A second section on the same page.",
	)
	ix := newTestIndexer(t)

	first, err := ix.Build(context.Background(), source)
	require.NoError(t, err)
	firstIDs := chunkIDsFromLog(t, first.StagedLog)

	second, err := ix.Build(context.Background(), source)
	require.NoError(t, err)
	secondIDs := chunkIDsFromLog(t, second.StagedLog)

	assert.NotEqual(t, first.BuildID, second.BuildID)
	assert.Equal(t, firstIDs, secondIDs)
}

func TestBuild_ReplacesPreviousIndex(t *testing.T) {
	ix := newTestIndexer(t)

	old := writeSource(t,
		"=== Press#1 :: Wire ===",
		"obsolete content about zeppelins",
	)
	_, err := ix.Build(context.Background(), old)
	require.NoError(t, err)

	updated := writeSource(t,
		"=== Press#2 :: Wire ===",
		"fresh content about railways",
	)
	stats, err := ix.Build(context.Background(), updated)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ChunkCount)

	reader, err := ix.Acquire()
	require.NoError(t, err)
	defer reader.Release()

	// The old corpus is gone wholesale, not merged.
	hits, err := reader.Store().SearchText(context.Background(), storage.MatchExpr("zeppelins"), 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = reader.Store().SearchText(context.Background(), storage.MatchExpr("railways"), 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestBuild_ReaderPinnedAcrossSwap(t *testing.T) {
	ix := newTestIndexer(t)

	first := writeSource(t,
		"=== Press#1 :: Wire ===",
		"original edition",
	)
	stats, err := ix.Build(context.Background(), first)
	require.NoError(t, err)

	reader, err := ix.Acquire()
	require.NoError(t, err)
	assert.Equal(t, stats.BuildID, reader.BuildID())

	second := writeSource(t,
		"=== Press#1 :: Wire ===",
		"revised edition",
	)
	next, err := ix.Build(context.Background(), second)
	require.NoError(t, err)

	// The held reader still serves the pre-swap version.
	hits, err := reader.Store().SearchText(context.Background(), storage.MatchExpr("original"), 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	reader.Release()

	fresh, err := ix.Acquire()
	require.NoError(t, err)
	defer fresh.Release()
	assert.Equal(t, next.BuildID, fresh.BuildID())
}

func TestBuild_CancelledContext(t *testing.T) {
	source := writeSource(t,
		"=== Press#1 :: Wire ===",
		"content",
	)
	ix := newTestIndexer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ix.Build(ctx, source)
	require.ErrorIs(t, err, types.ErrBuildFailed)

	_, err = ix.Acquire()
	assert.ErrorIs(t, err, types.ErrIndexUnavailable)
}

func TestStatus(t *testing.T) {
	ix := newTestIndexer(t)

	_, err := ix.Status(context.Background())
	assert.ErrorIs(t, err, types.ErrIndexUnavailable)

	source := writeSource(t,
		"=== Legal#44 :: Court Record ===",
		"In the matter of the estate.",
	)
	stats, err := ix.Build(context.Background(), source)
	require.NoError(t, err)

	status, err := ix.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.BuildID, status.BuildID)
	assert.Equal(t, source, status.SourcePath)
	assert.Equal(t, 1, status.ChunkCount)
	assert.Equal(t, map[string]int{"Legal": 1}, status.PerCategory)
	assert.False(t, status.BuiltAt.IsZero())
}

func TestLoadExisting(t *testing.T) {
	dir := t.TempDir()

	ix, err := New(dir, testConfig())
	require.NoError(t, err)

	// Nothing on disk yet.
	require.NoError(t, ix.LoadExisting(context.Background()))
	_, err = ix.Acquire()
	require.ErrorIs(t, err, types.ErrIndexUnavailable)

	source := writeSource(t,
		"=== Press#1 :: Wire ===",
		"persisted across restarts",
	)
	stats, err := ix.Build(context.Background(), source)
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	// A new process over the same directory picks the index back up.
	ix2, err := New(dir, testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix2.Close() })
	require.NoError(t, ix2.LoadExisting(context.Background()))

	status, err := ix2.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.BuildID, status.BuildID)
}

func TestChunkSections_LongSectionOverlaps(t *testing.T) {
	ix := newTestIndexer(t)

	text := strings.Repeat("abcdefghij", 20) // 200 bytes, no newlines
	sections := []types.Section{{Category: "Press", Page: 1, SourceName: "Wire", Text: text}}

	chunks, err := ix.chunkSections(context.Background(), sections)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		require.NoError(t, c.Validate())
		assert.Equal(t, text[c.Start:c.End], c.Text)
		if i > 0 {
			assert.Equal(t, chunks[i-1].End-10, c.Start, "overlap of 10 bytes")
		}
	}
}

func chunkIDsFromLog(t *testing.T, path string) []string {
	t.Helper()
	chunks, err := loadStagedChunks(path)
	require.NoError(t, err)
	ids := make([]string, len(chunks))
	for i := range chunks {
		ids[i] = chunks[i].ChunkID
	}
	return ids
}
