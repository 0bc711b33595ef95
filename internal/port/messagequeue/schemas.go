package messagequeue

// DelegateRequestPayload is the schema for workflows.delegate messages.
type DelegateRequestPayload struct {
	WorkflowID string `json:"workflow_id"`
	Force      bool   `json:"force"`
	RequestID  string `json:"request_id,omitempty"`
}

// WorkflowEventPayload is the schema for workflows.updated and
// workflows.deleted messages.
type WorkflowEventPayload struct {
	EventID     string `json:"event_id"`
	WorkflowID  string `json:"workflow_id"`
	WorkspaceID string `json:"workspace_id"`
	Version     int    `json:"version"`
	Valid       bool   `json:"valid"`
}

// DelegatedPayload is the schema for workflows.delegated messages.
type DelegatedPayload struct {
	EventID     string `json:"event_id"`
	WorkflowID  string `json:"workflow_id"`
	WorkspaceID string `json:"workspace_id"`
	Assigned    int    `json:"assigned"`
	LowScore    int    `json:"low_confidence"`
	Unassigned  bool   `json:"has_unassigned"`
}

// GeneratedPayload is the schema for workflows.generated messages.
type GeneratedPayload struct {
	EventID   string `json:"event_id"`
	Action    string `json:"action"`
	Generator string `json:"generator"`
	Tasks     int    `json:"tasks"`
	Valid     bool   `json:"valid"`
}
