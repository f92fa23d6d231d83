//go:build !sqlite_fts5
// +build !sqlite_fts5

package storage

// This file is compiled when building without the sqlite_fts5 tag. It uses
// a pure Go SQLite implementation, which bundles FTS5.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// The pure Go implementation provides:
//   - No C compiler required
//   - Cross-platform compilation
//   - Slower bulk-load than the CGO driver
//   - Suitable for development and smaller dossiers
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
