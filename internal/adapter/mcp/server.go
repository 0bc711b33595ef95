// Package mcp exposes the workflow graph operations as Model Context
// Protocol tools, served over stdio or streamable HTTP.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/domain/workspace"
)

// ServerConfig holds the MCP server identity and HTTP settings.
type ServerConfig struct {
	Addr    string
	Name    string
	Version string
	// APIKey guards the HTTP transport. Empty disables the check.
	APIKey string
	// APIKeySource, when set, is consulted per request instead of APIKey.
	APIKeySource func() string
}

// WorkflowReader loads stored workflows.
type WorkflowReader interface {
	GetWorkflow(ctx context.Context, id string) (*workflow.Record, error)
}

// WorkspaceReader lists workspaces and their members.
type WorkspaceReader interface {
	ListWorkspaces(ctx context.Context) ([]workspace.Workspace, error)
	ListMembers(ctx context.Context, workspaceID string) ([]workspace.Member, error)
}

// ServerDeps are the optional stores backing the stateful tools. The
// stateless tools work with no dependencies at all.
type ServerDeps struct {
	Workflows  WorkflowReader
	Workspaces WorkspaceReader
}

// Server wraps an mcp-go server with the taskgraph tools registered.
type Server struct {
	cfg       ServerConfig
	deps      ServerDeps
	mcpServer *mcpserver.MCPServer
	http      *http.Server
}

// NewServer creates a server and registers every tool and resource.
func NewServer(cfg ServerConfig, deps ServerDeps) *Server {
	s := &Server{
		cfg:  cfg,
		deps: deps,
		mcpServer: mcpserver.NewMCPServer(
			cfg.Name,
			cfg.Version,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithResourceCapabilities(false, true),
			mcpserver.WithRecovery(),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the protocol on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

// Start serves streamable HTTP on cfg.Addr in the background.
func (s *Server) Start() error {
	keySource := s.cfg.APIKeySource
	if keySource == nil && s.cfg.APIKey != "" {
		key := s.cfg.APIKey
		keySource = func() string { return key }
	}
	handler := AuthMiddleware(keySource, mcpserver.NewStreamableHTTPServer(s.mcpServer))
	s.http = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mcp http server failed", "addr", s.cfg.Addr, "error", err)
		}
	}()
	slog.Info("mcp server started", "addr", s.cfg.Addr)
	return nil
}

// Stop shuts the HTTP transport down. It is a no-op if Start was not called.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("mcp shutdown: %w", err)
	}
	slog.Info("mcp server stopped")
	return nil
}
