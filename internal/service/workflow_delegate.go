package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	cfotel "github.com/Strob0t/taskgraph/internal/adapter/otel"
	"github.com/Strob0t/taskgraph/internal/domain"
	"github.com/Strob0t/taskgraph/internal/domain/delegation"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/domain/workspace"
	"github.com/Strob0t/taskgraph/internal/logger"
	"github.com/Strob0t/taskgraph/internal/port/broadcast"
	"github.com/Strob0t/taskgraph/internal/port/messagequeue"
)

// DelegationResult summarizes one delegated workflow.
type DelegationResult struct {
	Workflow      *workflow.Record `json:"workflow"`
	Assigned      int              `json:"assigned"`
	LowConfidence int              `json:"low_confidence"`
}

// Delegate assigns the tasks of a stored workflow to the members of its
// workspace. Without force only unassigned tasks are touched.
func (s *WorkflowService) Delegate(ctx context.Context, id string, force bool) (*DelegationResult, error) {
	rec, err := s.store.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, rec.WorkspaceID)
	if err != nil {
		return nil, err
	}
	return s.delegateRecord(ctx, rec, workspace.Candidates(members), force)
}

// DelegateWorkspace delegates every workflow of a workspace, at most
// maxParallel at a time. Each workflow is read, delegated and saved on its
// own; the first failure cancels the rest.
func (s *WorkflowService) DelegateWorkspace(ctx context.Context, workspaceID string, force bool) ([]DelegationResult, error) {
	if _, err := s.store.GetWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}
	records, err := s.store.ListWorkflows(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	candidates := workspace.Candidates(members)

	results := make([]DelegationResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i := range records {
		rec := &records[i]
		g.Go(func() error {
			res, err := s.delegateRecord(gctx, rec, candidates, force)
			if err != nil {
				return fmt.Errorf("delegate workflow %s: %w", rec.ID, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slog.Info("workspace delegated", "workspace_id", workspaceID, "workflows", len(results), "candidates", len(candidates))
	return results, nil
}

// RequestDelegation queues a delegation to be run by the subscriber.
func (s *WorkflowService) RequestDelegation(ctx context.Context, id string, force bool) error {
	if s.queue == nil {
		return fmt.Errorf("async delegation requires a message queue: %w", domain.ErrUnavailable)
	}
	if _, err := s.store.GetWorkflow(ctx, id); err != nil {
		return err
	}
	data, err := json.Marshal(messagequeue.DelegateRequestPayload{
		WorkflowID: id,
		Force:      force,
		RequestID:  logger.RequestID(ctx),
	})
	if err != nil {
		return fmt.Errorf("marshal delegate request: %w", err)
	}
	return s.queue.Publish(ctx, messagequeue.SubjectWorkflowDelegate, data)
}

// StartDelegationSubscriber consumes queued delegation requests. Requests
// for workflows that no longer exist are dropped; other failures are
// returned so the queue retries them. The returned function cancels the
// subscription.
func (s *WorkflowService) StartDelegationSubscriber(ctx context.Context) (func(), error) {
	if s.queue == nil {
		return func() {}, nil
	}
	return s.queue.Subscribe(ctx, messagequeue.SubjectWorkflowDelegate, s.handleDelegateRequest)
}

func (s *WorkflowService) handleDelegateRequest(ctx context.Context, _ string, data []byte) error {
	var req messagequeue.DelegateRequestPayload
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decode delegate request: %w", err)
	}
	if req.RequestID != "" && logger.RequestID(ctx) == "" {
		ctx = logger.WithRequestID(ctx, req.RequestID)
	}
	_, err := s.Delegate(ctx, req.WorkflowID, req.Force)
	if errors.Is(err, domain.ErrNotFound) {
		slog.WarnContext(ctx, "delegate request for missing workflow", "workflow_id", req.WorkflowID)
		return nil
	}
	return err
}

func (s *WorkflowService) delegateRecord(ctx context.Context, rec *workflow.Record, candidates []delegation.Candidate, force bool) (*DelegationResult, error) {
	start := time.Now()
	ctx = logger.WithWorkflowID(ctx, rec.ID)
	ctx, span := cfotel.StartDelegationSpan(ctx, rec.ID, len(rec.Tasks), len(candidates), force)
	defer span.End()

	before := rec.Tasks
	rec.Tasks = delegation.AutoDelegate(before, candidates, force)
	rec.Workflow = workflow.WithChecks(rec.Workflow)
	assigned, low := summarize(before, rec.Tasks, candidates, force)

	for i := range rec.Tasks {
		t := &rec.Tasks[i]
		if t.Assignee.IsAssigned() && t.Assignee.Name != nil {
			slog.DebugContext(ctx, "task delegated", "task_id", t.ID, "assignee", *t.Assignee.Name)
		}
	}

	if err := s.save(ctx, rec); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.RecordDelegation(ctx, assigned, low, time.Since(start))
	slog.InfoContext(ctx, "workflow delegated",
		"assigned", assigned,
		"low_confidence", low,
		"has_unassigned", rec.Checks.HasUnassigned,
	)

	s.publish(ctx, messagequeue.SubjectWorkflowDelegated, messagequeue.DelegatedPayload{
		EventID:     uuid.NewString(),
		WorkflowID:  rec.ID,
		WorkspaceID: rec.WorkspaceID,
		Assigned:    assigned,
		LowScore:    low,
		Unassigned:  rec.Checks.HasUnassigned,
	})
	s.broadcast(ctx, rec.WorkspaceID, broadcast.EventWorkflowDelegated, rec)
	return &DelegationResult{Workflow: rec, Assigned: assigned, LowConfidence: low}, nil
}

// summarize counts the tasks the engine assigned in this pass and how many
// of them fell under the low confidence threshold.
func summarize(before, after []workflow.Task, candidates []delegation.Candidate, force bool) (assigned, low int) {
	if len(candidates) == 0 {
		return 0, 0
	}
	for i := range after {
		if before[i].Assignee.IsAssigned() && !force {
			continue
		}
		assigned++
		if delegation.Explain(&after[i], candidates)[0].Score < delegation.LowConfidence {
			low++
		}
	}
	return assigned, low
}
