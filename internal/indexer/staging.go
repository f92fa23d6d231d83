package indexer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/dossier-index/pkg/types"
)

const (
	// StagedLogName is the append-only chunk log in the index directory,
	// one JSON record per line. It is both an audit artifact and the
	// bulk-load source for the store.
	StagedLogName = "chunks.jsonl"

	// maxStagedLineBytes bounds one staged record when reading the log
	// back for bulk load.
	maxStagedLineBytes = 8 * 1024 * 1024
)

// stageChunks writes every chunk record to the staged log. The log is
// written to a temporary file and renamed into place so a crashed build
// never leaves a truncated log behind.
func (ix *Indexer) stageChunks(chunks []types.Chunk) (string, error) {
	path := filepath.Join(ix.dir, StagedLogName)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create staged log: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := range chunks {
		if err := enc.Encode(&chunks[i]); err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return "", fmt.Errorf("failed to stage chunk %s: %w", chunks[i].ChunkID, err)
		}
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to flush staged log: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to sync staged log: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close staged log: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to publish staged log: %w", err)
	}
	return path, nil
}

// loadStagedChunks reads the staged log back as the bulk-load source.
// Loading from the file rather than the in-memory slice means the store is
// always built from the audited records.
func loadStagedChunks(path string) ([]types.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open staged log: %w", err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxStagedLineBytes)

	var chunks []types.Chunk
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var c types.Chunk
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("corrupt staged record %d: %w", len(chunks)+1, err)
		}
		chunks = append(chunks, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read staged log: %w", err)
	}
	return chunks, nil
}
