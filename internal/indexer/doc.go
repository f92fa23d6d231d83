// Package indexer coordinates the build pipeline and owns the active index.
//
// # Build pipeline
//
// A build runs four steps as one logical unit, serialized by a non-blocking
// build lock (one in-flight build per collection):
//
//  1. Parse the collected stream into sections and assign per-(category,
//     page, source) sequence numbers in stream order.
//  2. Chunk sections in parallel and derive stable chunk IDs. Duplicate IDs
//     abort the build with ErrIdentityCollision.
//  3. Stage every chunk record to chunks.jsonl before touching the store.
//  4. Bulk-load a fresh SQLite database from the staged log, then rename it
//     over the active database and swap the open handle.
//
// A failure or cancellation anywhere before the rename leaves the
// previously active index untouched; the scratch database is removed.
//
// # Reader isolation
//
// The active index is a refcounted handle behind an atomic pointer. Acquire
// leases the current version; a query that started against build N finishes
// against build N even if build N+1 swaps in mid-query. The superseded
// store closes when its last reader releases.
package indexer
