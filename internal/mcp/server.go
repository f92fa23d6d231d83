package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/dshills/dossier-index/internal/config"
	"github.com/dshills/dossier-index/internal/indexer"
	"github.com/dshills/dossier-index/internal/searcher"
)

const (
	// ServerName is the MCP server name
	ServerName = "dossier-index"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp      *server.MCPServer
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
	cfg      config.Config
	log      zerolog.Logger
}

// NewServer creates a new MCP server instance over an already-constructed
// indexer and searcher.
func NewServer(ix *indexer.Indexer, srch *searcher.Searcher, log zerolog.Logger, cfg config.Config) (*Server, error) {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		indexer:  ix,
		searcher: srch,
		cfg:      cfg,
		log:      log,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.indexer.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(buildIndexTool(), s.handleBuildIndex)
	s.mcp.AddTool(searchChunksTool(), s.handleSearchChunks)
	s.mcp.AddTool(indexStatusTool(), s.handleIndexStatus)
}
