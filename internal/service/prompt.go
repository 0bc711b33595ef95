package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	cfotel "github.com/Strob0t/taskgraph/internal/adapter/otel"
	"github.com/Strob0t/taskgraph/internal/domain"
	"github.com/Strob0t/taskgraph/internal/domain/delegation"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/domain/workspace"
	"github.com/Strob0t/taskgraph/internal/port/database"
	"github.com/Strob0t/taskgraph/internal/port/generator"
	"github.com/Strob0t/taskgraph/internal/port/messagequeue"
	"github.com/Strob0t/taskgraph/internal/resilience"
)

// Prompt actions.
const (
	ActionCreate       = "create"
	ActionModify       = "modify"
	ActionAutoDelegate = "auto_delegate"
)

// PromptRequest asks for a workflow to be generated, modified or delegated.
// When WorkspaceID is set and AssigneeList is empty, the workspace members
// are the assignees.
type PromptRequest struct {
	Action          string                 `json:"action"`
	UserInput       string                 `json:"user_input,omitempty"`
	InputedWorkflow *workflow.Workflow     `json:"inputed_workflow,omitempty"`
	AssigneeList    []delegation.Candidate `json:"assignee_list"`
	WorkspaceID     string                 `json:"workspace_id,omitempty"`
}

// Validate checks that the fields the action needs are present.
func (r *PromptRequest) Validate() error {
	switch r.Action {
	case "":
		return fmt.Errorf("action is required: %w", domain.ErrValidation)
	case ActionCreate:
		if strings.TrimSpace(r.UserInput) == "" {
			return fmt.Errorf("user_input is required for create action: %w", domain.ErrValidation)
		}
	case ActionModify, ActionAutoDelegate:
		if r.InputedWorkflow == nil {
			return fmt.Errorf("inputed_workflow is required for modify or auto_delegate action: %w", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("invalid action %q, must be create, modify, or auto_delegate: %w", r.Action, domain.ErrValidation)
	}
	if r.AssigneeList == nil && r.WorkspaceID == "" {
		return fmt.Errorf("assignee_list must be an array: %w", domain.ErrValidation)
	}
	return nil
}

// PromptResult is the processed workflow. Error lists the validation
// messages joined by "; " when Success is false.
type PromptResult struct {
	Success  bool               `json:"success"`
	Workflow *workflow.Workflow `json:"workflow,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// PromptService turns natural-language requests into validated workflows.
type PromptService struct {
	primary     generator.Generator
	primaryName string
	fallback    generator.Generator
	store       database.Store
	queue       messagequeue.Queue
	metrics     *cfotel.Metrics
	pool        *resilience.Pool
}

// NewPromptService creates a PromptService. fallback, if non-nil, is used
// whenever primary fails.
func NewPromptService(primary generator.Generator, primaryName string, fallback generator.Generator) *PromptService {
	return &PromptService{primary: primary, primaryName: primaryName, fallback: fallback}
}

// SetStore enables workspace members as assignees.
func (s *PromptService) SetStore(store database.Store) {
	s.store = store
}

// SetQueue enables workflows.generated events.
func (s *PromptService) SetQueue(q messagequeue.Queue) {
	s.queue = q
}

// SetMetrics sets the OTEL metrics instruments.
func (s *PromptService) SetMetrics(m *cfotel.Metrics) {
	s.metrics = m
}

// SetPool bounds the number of generator calls in flight.
func (s *PromptService) SetPool(p *resilience.Pool) {
	s.pool = p
}

// Process runs the request. Invalid generated workflows are a normal
// result with Success false; an error means the request could not be
// served at all.
func (s *PromptService) Process(ctx context.Context, req *PromptRequest) (*PromptResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	candidates, err := s.candidates(ctx, req)
	if err != nil {
		return nil, err
	}

	var w workflow.Workflow
	if req.Action == ActionAutoDelegate {
		w = workflow.Normalize(*req.InputedWorkflow)
		w.Tasks = delegation.AutoDelegate(w.Tasks, candidates, true)
	} else {
		generated, err := s.generate(ctx, req, candidates)
		if err != nil {
			return nil, err
		}
		w = workflow.Normalize(*generated)
	}

	w = workflow.WithChecks(w)
	valid := len(w.Checks.Messages) == 0
	s.metrics.RecordValidation(ctx, valid)

	res := &PromptResult{Success: valid, Workflow: &w}
	if !valid {
		res.Error = strings.Join(w.Checks.Messages, "; ")
	}
	slog.InfoContext(ctx, "prompt processed", "action", req.Action, "tasks", len(w.Tasks), "valid", valid)
	return res, nil
}

func (s *PromptService) candidates(ctx context.Context, req *PromptRequest) ([]delegation.Candidate, error) {
	if len(req.AssigneeList) > 0 || req.WorkspaceID == "" {
		return req.AssigneeList, nil
	}
	if s.store == nil {
		return nil, fmt.Errorf("workspace_id given but no workspace store configured: %w", domain.ErrValidation)
	}
	members, err := s.store.ListMembers(ctx, req.WorkspaceID)
	if err != nil {
		return nil, err
	}
	return workspace.Candidates(members), nil
}

// generate asks the primary generator, then the fallback.
func (s *PromptService) generate(ctx context.Context, req *PromptRequest, candidates []delegation.Candidate) (*workflow.Workflow, error) {
	greq := generator.Request{
		Instruction: req.UserInput,
		Candidates:  candidates,
	}
	if req.Action == ActionModify {
		greq.Existing = req.InputedWorkflow
	}

	w, err := s.run(ctx, req.Action, s.primaryName, s.primary, greq)
	if err == nil {
		return w, nil
	}
	if s.fallback == nil {
		return nil, fmt.Errorf("generate workflow: %w", err)
	}
	slog.WarnContext(ctx, "generator failed, falling back to mock", "generator", s.primaryName, "error", err)
	w, err = s.run(ctx, req.Action, "mock", s.fallback, greq)
	if err != nil {
		return nil, fmt.Errorf("fallback generator: %w", err)
	}
	return w, nil
}

func (s *PromptService) run(ctx context.Context, action, name string, gen generator.Generator, greq generator.Request) (*workflow.Workflow, error) {
	start := time.Now()
	ctx, span := cfotel.StartGenerateSpan(ctx, action, name)
	defer span.End()

	var w *workflow.Workflow
	err := s.pool.Run(ctx, func() error {
		var genErr error
		w, genErr = gen.Generate(ctx, greq)
		return genErr
	})
	s.metrics.RecordGenerate(ctx, name, err == nil, time.Since(start))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.publishGenerated(ctx, action, name, w)
	return w, nil
}

func (s *PromptService) publishGenerated(ctx context.Context, action, name string, w *workflow.Workflow) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(messagequeue.GeneratedPayload{
		EventID:   uuid.NewString(),
		Action:    action,
		Generator: name,
		Tasks:     len(w.Tasks),
		Valid:     workflow.Validate(w).Valid,
	})
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, messagequeue.SubjectWorkflowGenerated, data); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "subject", messagequeue.SubjectWorkflowGenerated, "error", err)
	}
}
