// Package storage persists chunk metadata and the FTS5 lexical index in
// SQLite.
//
// # Layout
//
// One database file holds three coupled relations:
//
//   - chunks: metadata keyed by chunk_id (category, page, citation,
//     source_name, byte offsets)
//   - chunks_fts: FTS5 virtual table over chunk text and source document
//     name, with the remaining provenance columns carried UNINDEXED so
//     hits resolve in a single query
//   - build_info: a single row identifying the build that produced the file
//
// A store file is written exactly once, by the builder's bulk-insert
// transaction, and read-only thereafter. Rebuilds never mutate a live file;
// the indexer writes a fresh database and renames it into place.
//
// # Search
//
// SearchText ranks with the FTS5 bm25() auxiliary function (ascending:
// lower means more relevant) and breaks ties on ascending chunk_id so
// repeated queries return results in the same order. Snippets come from the
// snippet() auxiliary with a 12-token window.
//
// # Drivers
//
// Two SQLite drivers are supported via build tags, selected in
// build_cgo.go and build_purego.go:
//
//   - default: modernc.org/sqlite, pure Go, CGO-free
//   - sqlite_fts5 tag: github.com/mattn/go-sqlite3 (build with
//     -tags "sqlite_fts5,fts5")
//
// Both bundle FTS5, so schema and queries are identical across drivers.
package storage
