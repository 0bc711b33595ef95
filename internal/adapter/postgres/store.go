package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/taskgraph/internal/domain"
	"github.com/Strob0t/taskgraph/internal/domain/workspace"
)

// pgForeignKeyViolation is raised when a member or workflow names a missing workspace.
const pgForeignKeyViolation = "23503"

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping checks the connection for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Workspaces ---

func (s *Store) CreateWorkspace(ctx context.Context, req workspace.CreateRequest) (*workspace.Workspace, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO workspaces (name, description) VALUES ($1, $2)
		 RETURNING id, name, description, created_at, updated_at`,
		req.Name, req.Description)

	ws, err := scanWorkspace(row)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &ws, nil
}

func (s *Store) GetWorkspace(ctx context.Context, id string) (*workspace.Workspace, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM workspaces WHERE id = $1`, id)

	ws, err := scanWorkspace(row)
	if err != nil {
		return nil, notFoundWrap(err, "get workspace %s", id)
	}
	return &ws, nil
}

func (s *Store) ListWorkspaces(ctx context.Context) ([]workspace.Workspace, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, created_at, updated_at FROM workspaces ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	var out []workspace.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		out = append(out, ws)
	}
	return orEmpty(out), rows.Err()
}

func scanWorkspace(row scannable) (workspace.Workspace, error) {
	var ws workspace.Workspace
	err := row.Scan(&ws.ID, &ws.Name, &ws.Description, &ws.CreatedAt, &ws.UpdatedAt)
	return ws, err
}

// --- Members ---

func (s *Store) AddMember(ctx context.Context, workspaceID string, req workspace.AddMemberRequest) (*workspace.Member, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO members (workspace_id, name, email, role) VALUES ($1, $2, $3, $4)
		 RETURNING id, workspace_id, name, email, role, created_at`,
		workspaceID, req.Name, req.Email, req.Role)

	m, err := scanMember(row)
	switch {
	case err == nil:
		return &m, nil
	case isPgCode(err, pgUniqueViolation):
		return nil, fmt.Errorf("add member %s: %w", req.Email, domain.ErrConflict)
	case isPgCode(err, pgForeignKeyViolation):
		return nil, fmt.Errorf("add member to workspace %s: %w", workspaceID, domain.ErrNotFound)
	}
	return nil, notFoundWrap(err, "add member to workspace %s", workspaceID)
}

// ListMembers returns members in the order they joined, which is the
// candidate order used for delegation.
func (s *Store) ListMembers(ctx context.Context, workspaceID string) ([]workspace.Member, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, workspace_id, name, email, role, created_at
		 FROM members WHERE workspace_id = $1 ORDER BY created_at, id`, workspaceID)
	if err != nil {
		return nil, notFoundWrap(err, "list members of %s", workspaceID)
	}
	defer rows.Close()

	var out []workspace.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	return orEmpty(out), rows.Err()
}

func scanMember(row scannable) (workspace.Member, error) {
	var m workspace.Member
	err := row.Scan(&m.ID, &m.WorkspaceID, &m.Name, &m.Email, &m.Role, &m.CreatedAt)
	return m, err
}
