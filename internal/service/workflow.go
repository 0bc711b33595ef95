package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	cfotel "github.com/Strob0t/taskgraph/internal/adapter/otel"
	"github.com/Strob0t/taskgraph/internal/domain"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/port/broadcast"
	"github.com/Strob0t/taskgraph/internal/port/cache"
	"github.com/Strob0t/taskgraph/internal/port/database"
	"github.com/Strob0t/taskgraph/internal/port/messagequeue"
)

// ValidationResult is the outcome of a stateless validation pass.
type ValidationResult struct {
	workflow.Report
	Checks workflow.Checks `json:"checks"`
}

// WorkflowService handles stored workflows: CRUD with status propagation,
// validation, graph views and delegation.
type WorkflowService struct {
	store       database.Store
	queue       messagequeue.Queue
	hub         broadcast.Broadcaster
	cache       cache.Cache
	cacheTTL    time.Duration
	metrics     *cfotel.Metrics
	maxParallel int
}

// NewWorkflowService creates a new WorkflowService. queue and hub may be nil.
func NewWorkflowService(store database.Store, queue messagequeue.Queue, hub broadcast.Broadcaster, maxParallel int) *WorkflowService {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &WorkflowService{store: store, queue: queue, hub: hub, maxParallel: maxParallel}
}

// SetCache enables read-through caching of workflow records.
func (s *WorkflowService) SetCache(c cache.Cache, ttl time.Duration) {
	s.cache = c
	s.cacheTTL = ttl
}

// SetMetrics sets the OTEL metrics instruments.
func (s *WorkflowService) SetMetrics(m *cfotel.Metrics) {
	s.metrics = m
}

func cacheKey(id string) string {
	return "workflow." + id
}

// List returns the workflows of a workspace.
func (s *WorkflowService) List(ctx context.Context, workspaceID string) ([]workflow.Record, error) {
	if _, err := s.store.GetWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}
	return s.store.ListWorkflows(ctx, workspaceID)
}

// Get returns a workflow by ID, served from the cache when possible.
func (s *WorkflowService) Get(ctx context.Context, id string) (*workflow.Record, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, cacheKey(id)); err == nil && ok {
			var rec workflow.Record
			if err := json.Unmarshal(data, &rec); err == nil {
				return &rec, nil
			}
			slog.Warn("discarding undecodable cache entry", "workflow_id", id)
		}
	}

	rec, err := s.store.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}
	s.storeCache(ctx, rec)
	return rec, nil
}

// Create normalizes the submitted workflow, computes its checks and stores
// it. Structurally invalid workflows are stored too; their problems are
// listed in checks.messages.
func (s *WorkflowService) Create(ctx context.Context, req *workflow.CreateRequest) (*workflow.Record, error) {
	if req.WorkspaceID == "" {
		return nil, fmt.Errorf("workspace_id is required: %w", domain.ErrValidation)
	}
	if _, err := s.store.GetWorkspace(ctx, req.WorkspaceID); err != nil {
		return nil, err
	}
	w := workflow.WithChecks(workflow.Normalize(workflow.Workflow{
		Name:  req.Name,
		Tasks: req.Tasks,
		Flows: req.Flows,
	}))
	s.metrics.RecordValidation(ctx, len(w.Checks.Messages) == 0)

	rec, err := s.store.CreateWorkflow(ctx, req.WorkspaceID, &w)
	if err != nil {
		return nil, err
	}
	slog.Info("workflow created", "workflow_id", rec.ID, "workspace_id", rec.WorkspaceID, "tasks", len(rec.Tasks))
	s.storeCache(ctx, rec)
	s.publishUpdated(ctx, rec)
	return rec, nil
}

// Update applies a partial update. Submitted tasks are advanced one status
// step along the submitted flows, or the stored flows when none are sent.
// Checks are recomputed and the store rejects stale versions with
// domain.ErrConflict.
func (s *WorkflowService) Update(ctx context.Context, id string, req workflow.UpdateRequest) (*workflow.Record, error) {
	rec, err := s.store.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != rec.Version {
		return nil, fmt.Errorf("workflow %s at version %d, got %d: %w", id, rec.Version, *req.Version, domain.ErrConflict)
	}

	w := rec.Workflow
	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Flows != nil {
		w.Flows = *req.Flows
	}
	if req.Tasks != nil {
		w.Tasks = *req.Tasks
	}
	w = workflow.Normalize(w)
	if req.Tasks != nil {
		w.Tasks = workflow.PropagateTaskStatuses(w.Tasks, w.Flows)
	}
	w = workflow.WithChecks(w)
	s.metrics.RecordValidation(ctx, len(w.Checks.Messages) == 0)

	rec.Workflow = w
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}
	slog.Info("workflow updated", "workflow_id", id, "version", rec.Version)
	s.publishUpdated(ctx, rec)
	return rec, nil
}

// UpdateGraph stores an edited node/edge view. Nodes are advanced one status
// step along the edges before conversion. Notes and flow types are not part
// of the view and are kept from the stored workflow. A view with duplicate
// node IDs or edges to unknown nodes is rejected with domain.ErrValidation.
func (s *WorkflowService) UpdateGraph(ctx context.Context, id string, req workflow.GraphUpdate) (*workflow.Record, error) {
	rec, err := s.store.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != rec.Version {
		return nil, fmt.Errorf("workflow %s at version %d, got %d: %w", id, rec.Version, *req.Version, domain.ErrConflict)
	}

	g := workflow.Graph{Nodes: workflow.PropagateStatuses(req.Nodes, req.Edges), Edges: req.Edges}
	w := workflow.FromGraph(rec.Name, g)
	if problems := workflow.CheckConversion(&w, g); len(problems) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(problems, "; "), domain.ErrValidation)
	}

	notes := make(map[string]*string, len(rec.Tasks))
	for i := range rec.Tasks {
		notes[rec.Tasks[i].ID] = rec.Tasks[i].Notes
	}
	for i := range w.Tasks {
		w.Tasks[i].Notes = notes[w.Tasks[i].ID]
	}
	types := make(map[string]workflow.FlowType, len(rec.Flows))
	for _, f := range rec.Flows {
		types[workflow.EdgeID(f.From, f.To)] = f.Type
	}
	for i := range w.Flows {
		if t, ok := types[workflow.EdgeID(w.Flows[i].From, w.Flows[i].To)]; ok {
			w.Flows[i].Type = t
		}
	}

	w = workflow.WithChecks(workflow.Normalize(w))
	s.metrics.RecordValidation(ctx, len(w.Checks.Messages) == 0)

	rec.Workflow = w
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "workflow graph updated", "workflow_id", id, "nodes", len(req.Nodes), "version", rec.Version)
	s.publishUpdated(ctx, rec)
	return rec, nil
}

// Delete removes a workflow.
func (s *WorkflowService) Delete(ctx context.Context, id string) error {
	rec, err := s.store.GetWorkflow(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteWorkflow(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	slog.Info("workflow deleted", "workflow_id", id)

	payload := messagequeue.WorkflowEventPayload{
		EventID:     uuid.NewString(),
		WorkflowID:  id,
		WorkspaceID: rec.WorkspaceID,
		Version:     rec.Version,
	}
	s.publish(ctx, messagequeue.SubjectWorkflowDeleted, payload)
	s.broadcast(ctx, rec.WorkspaceID, broadcast.EventWorkflowDeleted, payload)
	return nil
}

// Validate checks a workflow without storing it. The input is normalized
// first and is not modified.
func (s *WorkflowService) Validate(ctx context.Context, w *workflow.Workflow) ValidationResult {
	n := workflow.Normalize(*w)
	report := workflow.Validate(&n)
	s.metrics.RecordValidation(ctx, report.Valid)
	return ValidationResult{Report: report, Checks: workflow.ComputeChecks(&n)}
}

// Graph returns the node/edge view of a stored workflow.
func (s *WorkflowService) Graph(ctx context.Context, id string) (*workflow.Graph, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	g := workflow.ToGraph(&rec.Workflow)
	return &g, nil
}

// Order returns the task IDs of a stored workflow in dependency order.
func (s *WorkflowService) Order(ctx context.Context, id string) ([]string, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	order, err := workflow.TopologicalSort(rec.TaskIDs(), rec.Flows)
	if errors.Is(err, workflow.ErrCycle) {
		return nil, fmt.Errorf("workflow %s contains cycles: %w", id, domain.ErrValidation)
	}
	return order, err
}

// save writes rec with optimistic locking and drops the cached copy.
func (s *WorkflowService) save(ctx context.Context, rec *workflow.Record) error {
	if err := s.store.UpdateWorkflow(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.evict(ctx, rec.ID)
		}
		return err
	}
	s.evict(ctx, rec.ID)
	return nil
}

func (s *WorkflowService) storeCache(ctx context.Context, rec *workflow.Record) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(rec.ID), data, s.cacheTTL); err != nil {
		slog.Debug("workflow cache write failed", "workflow_id", rec.ID, "error", err)
	}
}

func (s *WorkflowService) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		slog.Warn("workflow cache evict failed", "workflow_id", id, "error", err)
	}
}

func (s *WorkflowService) publishUpdated(ctx context.Context, rec *workflow.Record) {
	payload := messagequeue.WorkflowEventPayload{
		EventID:     uuid.NewString(),
		WorkflowID:  rec.ID,
		WorkspaceID: rec.WorkspaceID,
		Version:     rec.Version,
		Valid:       len(rec.Checks.Messages) == 0,
	}
	s.publish(ctx, messagequeue.SubjectWorkflowUpdated, payload)
	s.broadcast(ctx, rec.WorkspaceID, broadcast.EventWorkflowUpdated, rec)
}

// publish sends an event to the queue. Failures are logged only: the
// database write already succeeded.
func (s *WorkflowService) publish(ctx context.Context, subject string, payload any) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal event", "subject", subject, "error", err)
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		slog.Error("failed to publish event", "subject", subject, "error", err)
	}
}

func (s *WorkflowService) broadcast(ctx context.Context, workspaceID, eventType string, payload any) {
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, workspaceID, eventType, payload)
	}
}
