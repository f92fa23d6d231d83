// Package searcher serves ranked keyword queries against the active index.
//
// Matching is lexical: the query is lowercased and tokenized, and a chunk
// matches when its text or source document name contains at least one query
// token (OR semantics). Ranking
// is FTS5 BM25, ascending, with the chunk ID as a deterministic tiebreak.
// Repeated identical queries against an unchanged index return results in
// the same order, which also makes them cacheable; a small LRU keyed by
// (query, k, build ID) absorbs repeated report-layer lookups.
package searcher
