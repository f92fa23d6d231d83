package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/dossier-index/internal/chunker"
	"github.com/dshills/dossier-index/internal/config"
	"github.com/dshills/dossier-index/internal/indexer"
	"github.com/dshills/dossier-index/internal/searcher"
)

func newTestMCPServer(t *testing.T) (*Server, string) {
	t.Helper()

	source := filepath.Join(t.TempDir(), "ALL.txt")
	stream := strings.Join([]string{
		"=== Press#12 :: Morning Herald ===",
		"The board announced the appointment of a new director.",
		"=== Bios#3 :: Who's Who ===",
		"Early career at the shipping registry.",
	}, "\n")
	require.NoError(t, os.WriteFile(source, []byte(stream), 0o644))

	ix, err := indexer.New(t.TempDir(), indexer.Config{
		Chunk:  chunker.Config{ChunkSize: 200, Overlap: 20, Lookback: 50},
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })

	srch := searcher.New(ix, searcher.Config{Logger: zerolog.Nop()})

	srv, err := NewServer(ix, srch, zerolog.Nop(), config.Config{SourcePath: source})
	require.NoError(t, err)
	return srv, source
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestNewServer(t *testing.T) {
	srv, _ := newTestMCPServer(t)

	assert.NotNil(t, srv.mcp)
	assert.NotNil(t, srv.indexer)
	assert.NotNil(t, srv.searcher)
}

func TestHandleBuildIndex(t *testing.T) {
	srv, source := newTestMCPServer(t)

	result, err := srv.handleBuildIndex(context.Background(),
		toolRequest("build_index", map[string]interface{}{"source_path": source}))
	require.NoError(t, err)

	payload := resultText(t, result)
	assert.NotEmpty(t, payload["build_id"])
	assert.EqualValues(t, 2, payload["section_count"])
	assert.EqualValues(t, 2, payload["chunk_count"])
}

func TestHandleBuildIndex_DefaultSource(t *testing.T) {
	srv, _ := newTestMCPServer(t)

	// No source_path falls back to the configured stream.
	result, err := srv.handleBuildIndex(context.Background(),
		toolRequest("build_index", map[string]interface{}{}))
	require.NoError(t, err)

	payload := resultText(t, result)
	assert.EqualValues(t, 2, payload["chunk_count"])
}

func TestHandleBuildIndex_MissingSource(t *testing.T) {
	srv, _ := newTestMCPServer(t)

	_, err := srv.handleBuildIndex(context.Background(),
		toolRequest("build_index", map[string]interface{}{"source_path": "/nonexistent/ALL.txt"}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeSourceNotFound, mcpErr.Code)
}

func TestHandleSearchChunks(t *testing.T) {
	srv, source := newTestMCPServer(t)

	_, err := srv.handleBuildIndex(context.Background(),
		toolRequest("build_index", map[string]interface{}{"source_path": source}))
	require.NoError(t, err)

	result, err := srv.handleSearchChunks(context.Background(),
		toolRequest("search_chunks", map[string]interface{}{"query": "director"}))
	require.NoError(t, err)

	payload := resultText(t, result)
	assert.Equal(t, "director", payload["query"])
	assert.EqualValues(t, 1, payload["count"])
}

func TestHandleSearchChunks_Validation(t *testing.T) {
	srv, _ := newTestMCPServer(t)

	var mcpErr *MCPError

	_, err := srv.handleSearchChunks(context.Background(),
		toolRequest("search_chunks", map[string]interface{}{}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeEmptyQuery, mcpErr.Code)

	_, err = srv.handleSearchChunks(context.Background(),
		toolRequest("search_chunks", map[string]interface{}{"query": "x", "limit": float64(0)}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)

	_, err = srv.handleSearchChunks(context.Background(),
		toolRequest("search_chunks", map[string]interface{}{"query": "x", "limit": float64(101)}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleSearchChunks_BeforeBuild(t *testing.T) {
	srv, _ := newTestMCPServer(t)

	_, err := srv.handleSearchChunks(context.Background(),
		toolRequest("search_chunks", map[string]interface{}{"query": "director"}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeIndexUnavailable, mcpErr.Code)
}

func TestHandleIndexStatus(t *testing.T) {
	srv, source := newTestMCPServer(t)

	// Unbuilt is not an error for status; it reports built=false.
	result, err := srv.handleIndexStatus(context.Background(), toolRequest("index_status", nil))
	require.NoError(t, err)
	payload := resultText(t, result)
	assert.Equal(t, false, payload["built"])

	_, err = srv.handleBuildIndex(context.Background(),
		toolRequest("build_index", map[string]interface{}{"source_path": source}))
	require.NoError(t, err)

	result, err = srv.handleIndexStatus(context.Background(), toolRequest("index_status", nil))
	require.NoError(t, err)
	payload = resultText(t, result)
	assert.Equal(t, true, payload["built"])
	assert.EqualValues(t, 2, payload["chunk_count"])
}

func TestHelperExtraction(t *testing.T) {
	args := map[string]interface{}{
		"str":   "value",
		"empty": "",
		"num":   float64(7),
	}

	assert.Equal(t, "value", getStringDefault(args, "str", "fallback"))
	assert.Equal(t, "fallback", getStringDefault(args, "empty", "fallback"))
	assert.Equal(t, "fallback", getStringDefault(args, "missing", "fallback"))
	assert.Equal(t, 7, getIntDefault(args, "num", 3))
	assert.Equal(t, 3, getIntDefault(args, "missing", 3))
}
