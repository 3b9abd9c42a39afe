// Package mcp exposes the recall lookups as Model Context Protocol tools.
package mcp

import (
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/rappelscan/backend/internal/usecase"
)

const (
	serverName    = "rappelscan"
	serverVersion = "1.0.0"
)

// Server registers the recall tools on an MCP server
type Server struct {
	recalls *usecase.RecallService
	watch   *usecase.WatchService
	now     func() time.Time
	mcp     *server.MCPServer
}

// NewServer creates the MCP server with all tools registered
func NewServer(recalls *usecase.RecallService, watch *usecase.WatchService) *Server {
	s := &Server{
		recalls: recalls,
		watch:   watch,
		now:     time.Now,
		mcp: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithToolCapabilities(true),
		),
	}
	s.registerTools()
	return s
}

// ServeStdio serves the tools on stdin/stdout until the input closes
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// HTTPHandler returns a stateless streamable HTTP transport for the tools
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp, server.WithStateLess(true))
}
