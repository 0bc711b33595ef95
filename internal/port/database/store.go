// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/domain/workspace"
)

// Store is the port interface for database operations.
type Store interface {
	// Workspaces
	CreateWorkspace(ctx context.Context, req workspace.CreateRequest) (*workspace.Workspace, error)
	GetWorkspace(ctx context.Context, id string) (*workspace.Workspace, error)
	ListWorkspaces(ctx context.Context) ([]workspace.Workspace, error)

	// Members
	AddMember(ctx context.Context, workspaceID string, req workspace.AddMemberRequest) (*workspace.Member, error)
	ListMembers(ctx context.Context, workspaceID string) ([]workspace.Member, error)

	// Workflows
	CreateWorkflow(ctx context.Context, workspaceID string, w *workflow.Workflow) (*workflow.Record, error)
	GetWorkflow(ctx context.Context, id string) (*workflow.Record, error)
	ListWorkflows(ctx context.Context, workspaceID string) ([]workflow.Record, error)
	// UpdateWorkflow stores rec if its Version still matches the stored row
	// and returns domain.ErrConflict otherwise.
	UpdateWorkflow(ctx context.Context, rec *workflow.Record) error
	DeleteWorkflow(ctx context.Context, id string) error
}
