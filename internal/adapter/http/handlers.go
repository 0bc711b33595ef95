package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/service"
)

const defaultBodyLimit = 1 << 20 // 1 MB

// HealthCheck probes one dependency for the /health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Workspaces   *service.WorkspaceService
	Workflows    *service.WorkflowService
	Prompts      *service.PromptService
	BodyLimit    int64
	HealthChecks []HealthCheck
}

func (h *Handlers) bodyLimit() int64 {
	if h.BodyLimit > 0 {
		return h.BodyLimit
	}
	return defaultBodyLimit
}

// Health handles GET /health. Any failing check turns the answer into 503.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	type healthStatus struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	status := healthStatus{Status: "ok", Checks: make(map[string]string, len(h.HealthChecks))}
	code := http.StatusOK

	for _, c := range h.HealthChecks {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := c.Check(ctx)
		cancel()
		if err != nil {
			status.Checks[c.Name] = err.Error()
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status.Checks[c.Name] = "ok"
	}
	writeJSON(w, code, status)
}

// CreateWorkflow handles POST /api/v1/workspaces/{id}/workflows
func (h *Handlers) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[workflow.CreateRequest](w, r, h.bodyLimit())
	if !ok {
		return
	}
	req.WorkspaceID = chi.URLParam(r, "id")
	rec, err := h.Workflows.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "workspace not found")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// ValidateWorkflow handles POST /api/v1/workflows/validate
func (h *Handlers) ValidateWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, ok := readJSON[workflow.Workflow](w, r, h.bodyLimit())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Workflows.Validate(r.Context(), &wf))
}

// WorkflowOrder handles GET /api/v1/workflows/{id}/order
func (h *Handlers) WorkflowOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Workflows.Order(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "workflow not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"order": order})
}

// UpdateWorkflowGraph handles PUT /api/v1/workflows/{id}/graph
func (h *Handlers) UpdateWorkflowGraph(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[workflow.GraphUpdate](w, r, h.bodyLimit())
	if !ok {
		return
	}
	rec, err := h.Workflows.UpdateGraph(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "workflow not found")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		workflow.Graph
		Version int             `json:"version"`
		Checks  workflow.Checks `json:"checks"`
	}{workflow.ToGraph(&rec.Workflow), rec.Version, rec.Checks})
}

// DelegateWorkflow handles POST /api/v1/workflows/{id}/delegate
//
// ?force=true reassigns tasks that already have an owner. ?async=true
// queues the request and answers 202.
func (h *Handlers) DelegateWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	force := queryBool(r, "force")

	if queryBool(r, "async") {
		if err := h.Workflows.RequestDelegation(r.Context(), id, force); err != nil {
			writeDomainError(w, err, "workflow not found")
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "workflow_id": id})
		return
	}

	res, err := h.Workflows.Delegate(r.Context(), id, force)
	if err != nil {
		writeDomainError(w, err, "workflow not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DelegateWorkspace handles POST /api/v1/workspaces/{id}/delegate
func (h *Handlers) DelegateWorkspace(w http.ResponseWriter, r *http.Request) {
	results, err := h.Workflows.DelegateWorkspace(r.Context(), chi.URLParam(r, "id"), queryBool(r, "force"))
	if err != nil {
		writeDomainError(w, err, "workspace not found")
		return
	}
	if results == nil {
		results = []service.DelegationResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

// PromptWorkflow handles POST /api/v1/prompt/workflow
//
// A generated workflow that fails validation is answered with 400 and the
// full result so the client can show the messages.
func (h *Handlers) PromptWorkflow(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[service.PromptRequest](w, r, h.bodyLimit())
	if !ok {
		return
	}
	res, err := h.Prompts.Process(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "workspace not found")
		return
	}
	if !res.Success {
		writeJSON(w, http.StatusBadRequest, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
