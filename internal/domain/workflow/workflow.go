// Package workflow defines the task workflow graph: tasks, flows, their
// validation, and status propagation.
//
// Every function in this package is a pure computation over its arguments.
// Functions never mutate the slices they receive, but the package does no
// locking of its own: callers sharing one mutable task slice between
// goroutines must serialize access themselves.
package workflow

import "time"

// Status is the externally visible task status.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusDone       Status = "DONE"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDone:
		return true
	}
	return false
}

// AssigneeStatus tells whether a task currently has an owner.
type AssigneeStatus string

const (
	AssigneeAssigned   AssigneeStatus = "assigned"
	AssigneeUnassigned AssigneeStatus = "unassigned"
)

// Assignee is the owner of a task. Identity fields are nil exactly when
// Status is AssigneeUnassigned.
type Assignee struct {
	Name   *string        `json:"name" yaml:"name"`
	Email  *string        `json:"email" yaml:"email"`
	Role   *string        `json:"role" yaml:"role"`
	Status AssigneeStatus `json:"status" yaml:"status"`
}

// Unassigned returns an assignee with no identity.
func Unassigned() Assignee {
	return Assignee{Status: AssigneeUnassigned}
}

// AssignedTo returns an assignee carrying the given identity.
func AssignedTo(name, email, role string) Assignee {
	return Assignee{Name: &name, Email: &email, Role: &role, Status: AssigneeAssigned}
}

// IsAssigned reports whether the assignee status is assigned.
func (a Assignee) IsAssigned() bool {
	return a.Status == AssigneeAssigned
}

// Task is the atomic unit of work in a workflow.
type Task struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Output      []string `json:"output" yaml:"output"`
	Deadline    *string  `json:"deadline" yaml:"deadline"` // YYYY-MM-DD
	Status      Status   `json:"status" yaml:"status"`
	Assignee    Assignee `json:"assignee" yaml:"assignee"`
	Notes       *string  `json:"notes" yaml:"notes"`
}

// NotesText returns the notes or "" when absent.
func (t *Task) NotesText() string {
	if t.Notes == nil {
		return ""
	}
	return *t.Notes
}

// FlowType tags the meaning of an edge.
type FlowType string

// FlowDependsOn is the only edge type in use: From must precede To.
const FlowDependsOn FlowType = "depends_on"

// Flow is a directed edge between two task IDs.
type Flow struct {
	From string   `json:"from" yaml:"from"`
	To   string   `json:"to" yaml:"to"`
	Type FlowType `json:"type" yaml:"type"`
}

// Checks is derived state, recomputed on every validation pass.
type Checks struct {
	IsDAG         bool     `json:"is_dag" yaml:"is_dag"`
	HasUnassigned bool     `json:"has_unassigned" yaml:"has_unassigned"`
	Messages      []string `json:"messages" yaml:"messages"`
}

// Workflow is a named set of tasks and the flows between them.
type Workflow struct {
	Name   string `json:"workflow_name" yaml:"workflow_name"`
	Tasks  []Task `json:"tasks" yaml:"tasks"`
	Flows  []Flow `json:"flows" yaml:"flows"`
	Checks Checks `json:"checks" yaml:"checks"`
}

// TaskIDs returns the task IDs in declaration order.
func (w *Workflow) TaskIDs() []string {
	ids := make([]string, len(w.Tasks))
	for i := range w.Tasks {
		ids[i] = w.Tasks[i].ID
	}
	return ids
}

// Record is a persisted workflow owned by a workspace.
type Record struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Workflow
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields for storing a new workflow.
type CreateRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"workflow_name"`
	Tasks       []Task `json:"tasks"`
	Flows       []Flow `json:"flows"`
}

// UpdateRequest carries a partial workflow update. Nil fields are left as
// stored. A non-nil Version must match the stored version.
type UpdateRequest struct {
	Name    *string `json:"workflow_name,omitempty"`
	Tasks   *[]Task `json:"tasks,omitempty"`
	Flows   *[]Flow `json:"flows,omitempty"`
	Version *int    `json:"version,omitempty"`
}
