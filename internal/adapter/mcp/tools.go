package mcp

import (
	"context"
	"encoding/json"
	"errors"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Strob0t/taskgraph/internal/domain/delegation"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/domain/workspace"
)

const workflowArgHelp = `Workflow JSON: {"workflow_name": "...", "tasks": [...], "flows": [...]}`

// registerTools registers all MCP tools on the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.validateWorkflowTool(),
		s.autoDelegateTool(),
		s.propagateStatusTool(),
		s.topologicalOrderTool(),
		s.workflowGraphTool(),
		s.getWorkflowTool(),
	)
}

func (s *Server) validateWorkflowTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("validate_workflow",
		mcplib.WithDescription("Check a workflow for a missing name, bad task IDs, dangling flows and cycles"),
		mcplib.WithString("workflow", mcplib.Required(), mcplib.Description(workflowArgHelp)),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleValidateWorkflow}
}

func (s *Server) autoDelegateTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("auto_delegate",
		mcplib.WithDescription("Assign workflow tasks to the best matching candidates by role"),
		mcplib.WithString("workflow", mcplib.Required(), mcplib.Description(workflowArgHelp)),
		mcplib.WithString("candidates",
			mcplib.Description(`Candidate JSON array: [{"name": "...", "email": "...", "role": "..."}]`),
		),
		mcplib.WithString("workspace_id",
			mcplib.Description("Use the members of this workspace as candidates instead"),
		),
		mcplib.WithBoolean("force",
			mcplib.Description("Reassign tasks that already have an assignee"),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleAutoDelegate}
}

func (s *Server) propagateStatusTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("propagate_status",
		mcplib.WithDescription("Advance task statuses one step along the flows. Pass either a workflow or its node and edge view"),
		mcplib.WithString("workflow", mcplib.Description(workflowArgHelp)),
		mcplib.WithString("graph",
			mcplib.Description(`Node/edge JSON: {"nodes": [{"id": "...", "status": "pending", "output": "..."}], "edges": [{"source": "...", "target": "..."}]}`),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handlePropagateStatus}
}

func (s *Server) topologicalOrderTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("topological_order",
		mcplib.WithDescription("Order task IDs so every dependency comes first"),
		mcplib.WithString("workflow", mcplib.Required(), mcplib.Description(workflowArgHelp)),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleTopologicalOrder}
}

func (s *Server) workflowGraphTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("workflow_graph",
		mcplib.WithDescription("Convert a workflow to its node and edge view"),
		mcplib.WithString("workflow", mcplib.Required(), mcplib.Description(workflowArgHelp)),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleWorkflowGraph}
}

func (s *Server) getWorkflowTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("get_workflow",
		mcplib.WithDescription("Get a stored workflow by ID"),
		mcplib.WithString("workflow_id", mcplib.Required(), mcplib.Description("The workflow ID to look up")),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleGetWorkflow}
}

func (s *Server) handleValidateWorkflow(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	w, errResult := workflowArg(req)
	if errResult != nil {
		return errResult, nil
	}
	report := workflow.Validate(&w)
	return marshalResult(struct {
		workflow.Report
		Checks workflow.Checks `json:"checks"`
	}{report, workflow.ComputeChecks(&w)})
}

func (s *Server) handleAutoDelegate(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	w, errResult := workflowArg(req)
	if errResult != nil {
		return errResult, nil
	}

	var candidates []delegation.Candidate
	if wsID := req.GetString("workspace_id", ""); wsID != "" {
		if s.deps.Workspaces == nil {
			return mcplib.NewToolResultError("workspace store not configured"), nil
		}
		members, err := s.deps.Workspaces.ListMembers(ctx, wsID)
		if err != nil {
			return mcplib.NewToolResultErrorFromErr("failed to list members", err), nil
		}
		candidates = workspace.Candidates(members)
	} else if raw := req.GetString("candidates", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
			return mcplib.NewToolResultErrorFromErr("candidates is not a valid JSON array", err), nil
		}
	}

	w.Tasks = delegation.AutoDelegate(w.Tasks, candidates, req.GetBool("force", false))
	return marshalResult(workflow.WithChecks(w))
}

func (s *Server) handlePropagateStatus(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if raw := req.GetString("graph", ""); raw != "" {
		var g workflow.Graph
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return mcplib.NewToolResultErrorFromErr("graph is not valid JSON", err), nil
		}
		g.Nodes = workflow.PropagateStatuses(g.Nodes, g.Edges)
		return marshalResult(g)
	}
	w, errResult := workflowArg(req)
	if errResult != nil {
		return errResult, nil
	}
	w.Tasks = workflow.PropagateTaskStatuses(w.Tasks, w.Flows)
	return marshalResult(workflow.WithChecks(w))
}

func (s *Server) handleTopologicalOrder(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	w, errResult := workflowArg(req)
	if errResult != nil {
		return errResult, nil
	}
	order, err := workflow.TopologicalSort(w.TaskIDs(), w.Flows)
	if err != nil {
		if errors.Is(err, workflow.ErrCycle) {
			return mcplib.NewToolResultError("workflow contains cycles: no order exists"), nil
		}
		return mcplib.NewToolResultErrorFromErr("failed to order tasks", err), nil
	}
	return marshalResult(map[string][]string{"order": order})
}

func (s *Server) handleWorkflowGraph(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	w, errResult := workflowArg(req)
	if errResult != nil {
		return errResult, nil
	}
	return marshalResult(workflow.ToGraph(&w))
}

func (s *Server) handleGetWorkflow(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Workflows == nil {
		return mcplib.NewToolResultError("workflow store not configured"), nil
	}
	id := req.GetString("workflow_id", "")
	if id == "" {
		return mcplib.NewToolResultError("workflow_id is required"), nil
	}
	rec, err := s.deps.Workflows.GetWorkflow(ctx, id)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to get workflow", err), nil
	}
	return marshalResult(rec)
}

// workflowArg decodes and normalizes the "workflow" argument. A non-nil
// result is the error to hand back to the caller.
func workflowArg(req mcplib.CallToolRequest) (workflow.Workflow, *mcplib.CallToolResult) { //nolint:gocritic // hugeParam: mcp-go request type
	raw := req.GetString("workflow", "")
	if raw == "" {
		return workflow.Workflow{}, mcplib.NewToolResultError("workflow is required")
	}
	var w workflow.Workflow
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return workflow.Workflow{}, mcplib.NewToolResultErrorFromErr("workflow is not valid JSON", err)
	}
	return workflow.Normalize(w), nil
}

func marshalResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal result", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func toolResultJSON(text string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(text)
}
