package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dshills/dossier-index/pkg/types"
)

// SQLiteStore implements the Store interface using SQLite with FTS5.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// WAL allows concurrent readers; the only writer is the build
	// transaction, which completes before the store goes live.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// Open creates a SQLiteStore at dbPath, applying schema migrations.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertChunks bulk-loads chunk metadata and FTS rows in one transaction.
// Either every chunk lands in both relations or none do.
func (s *SQLiteStore) InsertChunks(ctx context.Context, chunks []types.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin bulk insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	metaStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, category, page, citation, source_name, start_offset, end_offset)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare metadata insert: %w", err)
	}
	defer func() { _ = metaStmt.Close() }()

	ftsStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks_fts (chunk_id, content, citation, category, source_name)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare FTS insert: %w", err)
	}
	defer func() { _ = ftsStmt.Close() }()

	for i := range chunks {
		c := &chunks[i]
		if err := c.Validate(); err != nil {
			return fmt.Errorf("chunk %s invalid: %w", c.ChunkID, err)
		}

		if _, err := metaStmt.ExecContext(ctx,
			c.ChunkID, c.Category, c.Page, c.Citation, c.SourceName, c.Start, c.End); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", c.ChunkID, err)
		}

		if _, err := ftsStmt.ExecContext(ctx,
			c.ChunkID, c.Text, c.Citation, c.Category, c.SourceName); err != nil {
			return fmt.Errorf("failed to index chunk %s: %w", c.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}

// SearchText runs an FTS5 MATCH query, ranked by bm25 ascending with the
// chunk ID as a deterministic tiebreak. The snippet window is 12 tokens with
// matches wrapped in square brackets.
func (s *SQLiteStore) SearchText(ctx context.Context, match string, limit int) ([]TextResult, error) {
	if match == "" {
		return nil, fmt.Errorf("empty match expression")
	}

	query := `
		SELECT c.chunk_id, c.category, c.page, c.citation, c.source_name,
		       snippet(chunks_fts, 1, '[', ']', ' … ', 12) AS snip,
		       bm25(chunks_fts) AS score
		FROM chunks_fts
		INNER JOIN chunks c ON c.chunk_id = chunks_fts.chunk_id
		WHERE chunks_fts MATCH ?
		ORDER BY score, c.chunk_id
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, match, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute FTS search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]TextResult, 0)
	for rows.Next() {
		var r TextResult
		if err := rows.Scan(&r.ChunkID, &r.Category, &r.Page, &r.Citation,
			&r.SourceName, &r.Snippet, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetChunk returns one chunk with its text reassembled from the lexical
// index.
func (s *SQLiteStore) GetChunk(ctx context.Context, chunkID string) (*types.Chunk, error) {
	query := `
		SELECT c.chunk_id, c.category, c.page, c.citation, c.source_name,
		       c.start_offset, c.end_offset, f.content
		FROM chunks c
		INNER JOIN chunks_fts f ON f.chunk_id = c.chunk_id
		WHERE c.chunk_id = ?
	`
	var chunk types.Chunk
	err := s.db.QueryRowContext(ctx, query, chunkID).Scan(
		&chunk.ChunkID, &chunk.Category, &chunk.Page, &chunk.Citation,
		&chunk.SourceName, &chunk.Start, &chunk.End, &chunk.Text,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chunk %s: %w", chunkID, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// Stats reports total and per-category chunk counts.
func (s *SQLiteStore) Stats(ctx context.Context) (*IndexStats, error) {
	stats := &IndexStats{PerCategory: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM chunks GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read index stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.PerCategory[category] = count
		stats.ChunkCount += count
	}
	return stats, rows.Err()
}

// SetBuildInfo records the provenance of the build that populated this
// store. A store holds exactly one row.
func (s *SQLiteStore) SetBuildInfo(ctx context.Context, info *BuildInfo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO build_info (id, build_id, source_path, chunk_count, built_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			build_id = excluded.build_id,
			source_path = excluded.source_path,
			chunk_count = excluded.chunk_count,
			built_at = excluded.built_at
	`, info.BuildID, info.SourcePath, info.ChunkCount, info.BuiltAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record build info: %w", err)
	}
	return nil
}

// BuildInfo returns the recorded build provenance.
func (s *SQLiteStore) BuildInfo(ctx context.Context) (*BuildInfo, error) {
	var info BuildInfo
	var builtAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT build_id, source_path, chunk_count, built_at FROM build_info WHERE id = 1
	`).Scan(&info.BuildID, &info.SourcePath, &info.ChunkCount, &builtAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("build info: %w", types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	info.BuiltAt = builtAt
	return &info, nil
}
