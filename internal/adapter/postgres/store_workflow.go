package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/taskgraph/internal/domain"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
)

const workflowColumns = `id, workspace_id, name, tasks, flows, checks, version, created_at, updated_at`

type workflowDocs struct {
	tasks, flows, checks []byte
}

func marshalWorkflow(w *workflow.Workflow) (workflowDocs, error) {
	var (
		d   workflowDocs
		err error
	)
	if d.tasks, err = json.Marshal(orEmpty(w.Tasks)); err != nil {
		return d, fmt.Errorf("marshal tasks: %w", err)
	}
	if d.flows, err = json.Marshal(orEmpty(w.Flows)); err != nil {
		return d, fmt.Errorf("marshal flows: %w", err)
	}
	checks := w.Checks
	checks.Messages = orEmpty(checks.Messages)
	if d.checks, err = json.Marshal(checks); err != nil {
		return d, fmt.Errorf("marshal checks: %w", err)
	}
	return d, nil
}

func (s *Store) CreateWorkflow(ctx context.Context, workspaceID string, w *workflow.Workflow) (*workflow.Record, error) {
	d, err := marshalWorkflow(w)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO workflows (workspace_id, name, tasks, flows, checks)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+workflowColumns,
		workspaceID, w.Name, d.tasks, d.flows, d.checks)

	rec, err := scanWorkflow(row)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return nil, fmt.Errorf("create workflow in %s: %w", workspaceID, domain.ErrNotFound)
		}
		return nil, notFoundWrap(err, "create workflow in %s", workspaceID)
	}
	return &rec, nil
}

func (s *Store) GetWorkflow(ctx context.Context, id string) (*workflow.Record, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE id = $1`, id)

	rec, err := scanWorkflow(row)
	if err != nil {
		return nil, notFoundWrap(err, "get workflow %s", id)
	}
	return &rec, nil
}

func (s *Store) ListWorkflows(ctx context.Context, workspaceID string) ([]workflow.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+workflowColumns+` FROM workflows WHERE workspace_id = $1 ORDER BY created_at DESC`, workspaceID)
	if err != nil {
		return nil, notFoundWrap(err, "list workflows of %s", workspaceID)
	}
	defer rows.Close()

	var out []workflow.Record
	for rows.Next() {
		rec, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		out = append(out, rec)
	}
	return orEmpty(out), rows.Err()
}

// UpdateWorkflow saves rec when rec.Version matches the stored version and
// bumps rec.Version. A stale version yields domain.ErrConflict; a missing
// row yields domain.ErrNotFound.
func (s *Store) UpdateWorkflow(ctx context.Context, rec *workflow.Record) error {
	d, err := marshalWorkflow(&rec.Workflow)
	if err != nil {
		return err
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE workflows SET name = $2, tasks = $3, flows = $4, checks = $5,
		        version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $6
		 RETURNING version, updated_at`,
		rec.ID, rec.Name, d.tasks, d.flows, d.checks, rec.Version)

	err = row.Scan(&rec.Version, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetWorkflow(ctx, rec.ID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("update workflow %s: %w", rec.ID, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("update workflow %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Store) DeleteWorkflow(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete workflow %s", id)
}

func scanWorkflow(row scannable) (workflow.Record, error) {
	var (
		rec                  workflow.Record
		tasks, flows, checks []byte
	)
	err := row.Scan(&rec.ID, &rec.WorkspaceID, &rec.Name, &tasks, &flows, &checks,
		&rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(tasks, &rec.Tasks); err != nil {
		return rec, fmt.Errorf("unmarshal tasks: %w", err)
	}
	if err := json.Unmarshal(flows, &rec.Flows); err != nil {
		return rec, fmt.Errorf("unmarshal flows: %w", err)
	}
	if err := json.Unmarshal(checks, &rec.Checks); err != nil {
		return rec, fmt.Errorf("unmarshal checks: %w", err)
	}
	rec.Checks.Messages = orEmpty(rec.Checks.Messages)
	return rec, nil
}
