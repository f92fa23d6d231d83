// Package mcp implements the Model Context Protocol (MCP) server for the
// dossier index.
//
// The MCP server exposes three tools to AI assistants:
//   - build_index: Rebuild the full-text index from the collected text stream
//   - search_chunks: Keyword search over indexed dossier chunks
//   - index_status: Check whether an index exists and report its statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output.
//
// # Tool: build_index
//
// Rebuild the index from a collected text stream:
//
//	Request:
//	{
//	  "name": "build_index",
//	  "arguments": {
//	    "source_path": "data/text/ALL.txt"
//	  }
//	}
//
//	Response:
//	{
//	  "build_id": "b2f4…",
//	  "section_count": 412,
//	  "chunk_count": 1893,
//	  "per_category": {"Bios": 530, "Press": 701},
//	  "staged_log": "data/index/chunks.jsonl",
//	  "duration_ms": 2140
//	}
//
// # Tool: search_chunks
//
// Search indexed chunks by keyword:
//
//	Request:
//	{
//	  "name": "search_chunks",
//	  "arguments": {
//	    "query": "board appointment",
//	    "limit": 10
//	  }
//	}
//
//	Response:
//	{
//	  "query": "board appointment",
//	  "count": 2,
//	  "results": [
//	    {
//	      "chunk_id": "Press_12_s1_c0_ab34cd56ef",
//	      "citation": "Press#12",
//	      "snippet": "…the [board] announced the [appointment] of…",
//	      "score": -3.42,
//	      "rank": 1
//	    }
//	  ]
//	}
//
// # Tool: index_status
//
// Check index status:
//
//	Request:
//	{
//	  "name": "index_status",
//	  "arguments": {}
//	}
//
//	Response:
//	{
//	  "built": true,
//	  "build_id": "b2f4…",
//	  "chunk_count": 1893,
//	  "per_category": {"Bios": 530, "Press": 701},
//	  "built_at": "2026-08-31T10:15:00Z"
//	}
//
// # Error Handling
//
// The MCP server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32001,
//	    "message": "collected stream not found",
//	    "data": {"param": "source_path"}
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: Collected stream not found
//   - -32002: Build already in progress
//   - -32003: Index not built yet
//   - -32004: Empty search query
//
// # Logging
//
// The MCP server logs to stderr; stdout is reserved for MCP protocol traffic.
package mcp
