package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Workspaces
		r.Get("/workspaces", handleList(h.Workspaces.List))
		r.Post("/workspaces", handleCreate(h.bodyLimit(), h.Workspaces.Create))
		r.Get("/workspaces/{id}", handleGet(h.Workspaces.Get, "workspace not found"))

		// Members (nested under workspaces)
		r.Get("/workspaces/{id}/members", handleListByParam("id", h.Workspaces.ListMembers, "workspace not found"))
		r.Post("/workspaces/{id}/members", handleCreateByParam("id", h.bodyLimit(), h.Workspaces.AddMember, "workspace not found"))

		// Workflows (nested under workspaces)
		r.Get("/workspaces/{id}/workflows", handleListByParam("id", h.Workflows.List, "workspace not found"))
		r.Post("/workspaces/{id}/workflows", h.CreateWorkflow)
		r.Post("/workspaces/{id}/delegate", h.DelegateWorkspace)

		// Workflows (direct access)
		r.Post("/workflows/validate", h.ValidateWorkflow)
		r.Get("/workflows/{id}", handleGet(h.Workflows.Get, "workflow not found"))
		r.Put("/workflows/{id}", handleUpdate(h.bodyLimit(), h.Workflows.Update, "workflow not found"))
		r.Delete("/workflows/{id}", handleDelete(h.Workflows.Delete, "workflow not found"))
		r.Get("/workflows/{id}/graph", handleGet(h.Workflows.Graph, "workflow not found"))
		r.Put("/workflows/{id}/graph", h.UpdateWorkflowGraph)
		r.Get("/workflows/{id}/order", h.WorkflowOrder)
		r.Post("/workflows/{id}/delegate", h.DelegateWorkflow)

		// Prompt-driven generation
		r.Post("/prompt/workflow", h.PromptWorkflow)
	})
}
