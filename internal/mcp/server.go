// ABOUTME: MCP server implementation for rssedit
// ABOUTME: Provides tools, resources, and prompts for AI agents to load, edit and regenerate feeds

package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/rssedit/internal/config"
	"github.com/harper/rssedit/internal/loader"
)

// Server wraps the MCP server with rssedit-specific context
type Server struct {
	mcpServer *server.MCPServer
	loader    *loader.Loader
	cfg       *config.Config
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, l *loader.Loader, version string) *Server {
	s := &Server{
		loader: l,
		cfg:    cfg,
	}

	s.mcpServer = server.NewMCPServer(
		"rssedit",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// registerTools is implemented in tools.go
// registerResources is implemented in resources.go
// registerPrompts is implemented in prompts.go
