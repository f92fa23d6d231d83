//go:build sqlite_fts5
// +build sqlite_fts5

package storage

// This file is compiled when building with CGO and the sqlite_fts5 tag.
// It uses the C SQLite implementation with its native FTS5 module.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_fts5,fts5" ./...
//
// The CGO implementation provides:
//   - Native FTS5 tokenization and BM25 ranking
//   - Fastest bulk-load and query path
//   - Recommended for production deployments
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
