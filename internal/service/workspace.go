// Package service implements business logic on top of ports.
package service

import (
	"context"
	"log/slog"

	"github.com/Strob0t/taskgraph/internal/domain/workspace"
	"github.com/Strob0t/taskgraph/internal/port/database"
)

// WorkspaceService handles workspaces and their members.
type WorkspaceService struct {
	store database.Store
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(store database.Store) *WorkspaceService {
	return &WorkspaceService{store: store}
}

// List returns all workspaces.
func (s *WorkspaceService) List(ctx context.Context) ([]workspace.Workspace, error) {
	return s.store.ListWorkspaces(ctx)
}

// Get returns a workspace by ID.
func (s *WorkspaceService) Get(ctx context.Context, id string) (*workspace.Workspace, error) {
	return s.store.GetWorkspace(ctx, id)
}

// Create creates a workspace after validating the request.
func (s *WorkspaceService) Create(ctx context.Context, req *workspace.CreateRequest) (*workspace.Workspace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ws, err := s.store.CreateWorkspace(ctx, *req)
	if err != nil {
		return nil, err
	}
	slog.Info("workspace created", "workspace_id", ws.ID, "name", ws.Name)
	return ws, nil
}

// AddMember adds a member to a workspace. A duplicate email in the same
// workspace yields domain.ErrConflict.
func (s *WorkspaceService) AddMember(ctx context.Context, workspaceID string, req *workspace.AddMemberRequest) (*workspace.Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m, err := s.store.AddMember(ctx, workspaceID, *req)
	if err != nil {
		return nil, err
	}
	slog.Info("member added", "workspace_id", workspaceID, "member_id", m.ID, "role", m.Role)
	return m, nil
}

// ListMembers returns the members of a workspace, which must exist.
func (s *WorkspaceService) ListMembers(ctx context.Context, workspaceID string) ([]workspace.Member, error) {
	if _, err := s.store.GetWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, workspaceID)
}
