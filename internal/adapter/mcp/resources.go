package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// registerResources registers all MCP resources on the server.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcplib.NewResource(
			"taskgraph://workspaces",
			"Workspace List",
			mcplib.WithResourceDescription("All workspaces whose members can receive delegated tasks"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleWorkspacesResource,
	)
}

func (s *Server) handleWorkspacesResource(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	if s.deps.Workspaces == nil {
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     `{"error":"workspace store not configured"}`,
			},
		}, nil
	}
	workspaces, err := s.deps.Workspaces.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(workspaces)
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
