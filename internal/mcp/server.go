// Package mcp exposes the ranking pipeline as MCP tools over stdio so
// agent hosts can screen resumes directly.
package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hirelens/hirelens/internal/pipeline"
	"github.com/hirelens/hirelens/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "hirelens-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	pipe   *pipeline.Pipeline
	store  storage.Storage
	logger *log.Logger
}

// NewServer creates a new MCP server instance. Store may be nil when
// run history is disabled; the history tools then report an error.
func NewServer(pipe *pipeline.Pipeline, store storage.Storage, logger *log.Logger) *Server {
	s := &Server{
		mcp:    server.NewMCPServer(ServerName, ServerVersion),
		pipe:   pipe,
		store:  store,
		logger: logger,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	if s.store != nil {
		defer func() { _ = s.store.Close() }()
	}
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(rankResumesTool(), s.handleRankResumes)
	s.mcp.AddTool(getConfigTool(), s.handleGetConfig)
	s.mcp.AddTool(listRunsTool(), s.handleListRuns)
	s.mcp.AddTool(getRunTool(), s.handleGetRun)
}
