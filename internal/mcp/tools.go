package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/dossier-index/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeSourceNotFound   = -32001 // Collected stream missing
	ErrorCodeBuildInProgress  = -32002 // Another build is already running
	ErrorCodeIndexUnavailable = -32003 // No successful build yet
	ErrorCodeEmptyQuery       = -32004 // Query parameter is empty
)

// handleBuildIndex handles the build_index tool invocation
func (s *Server) handleBuildIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	sourcePath := getStringDefault(args, "source_path", s.cfg.SourcePath)
	if sourcePath == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "source_path parameter is required", map[string]interface{}{
			"param":  "source_path",
			"reason": "missing and no configured default",
		})
	}

	stats, err := s.indexer.Build(ctx, sourcePath)
	if err != nil {
		return nil, buildError(err)
	}

	response := map[string]interface{}{
		"build_id":      stats.BuildID,
		"section_count": stats.SectionCount,
		"chunk_count":   stats.ChunkCount,
		"per_category":  stats.PerCategory,
		"staged_log":    stats.StagedLog,
		"duration_ms":   stats.Duration.Milliseconds(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchChunks handles the search_chunks tool invocation
func (s *Server) handleSearchChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	results, err := s.searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, buildError(err)
	}

	response := map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleIndexStatus handles the index_status tool invocation
func (s *Server) handleIndexStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.indexer.Status(ctx)
	if errors.Is(err, types.ErrIndexUnavailable) {
		response := map[string]interface{}{
			"built":   false,
			"message": "No index built yet. Use the build_index tool first.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get index status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"built":        true,
		"build_id":     status.BuildID,
		"source_path":  status.SourcePath,
		"chunk_count":  status.ChunkCount,
		"per_category": status.PerCategory,
		"built_at":     status.BuiltAt.Format(time.RFC3339),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// buildError maps the domain error taxonomy onto MCP error codes
func buildError(err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return newMCPError(ErrorCodeSourceNotFound, err.Error(), nil)
	case errors.Is(err, types.ErrBuildInProgress):
		return newMCPError(ErrorCodeBuildInProgress, err.Error(), nil)
	case errors.Is(err, types.ErrIndexUnavailable):
		return newMCPError(ErrorCodeIndexUnavailable, err.Error(), nil)
	case errors.Is(err, types.ErrInvalidArgument):
		return newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	default:
		return newMCPError(ErrorCodeInternalError, err.Error(), nil)
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}
