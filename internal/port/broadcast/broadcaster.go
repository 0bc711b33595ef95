// Package broadcast defines the port for pushing workflow events to
// connected clients.
package broadcast

import "context"

// Event types pushed to clients.
const (
	EventWorkflowUpdated   = "workflow.updated"
	EventWorkflowDelegated = "workflow.delegated"
	EventWorkflowDeleted   = "workflow.deleted"
)

// Broadcaster sends real-time events to connected clients.
type Broadcaster interface {
	// BroadcastEvent sends a typed event to clients watching workspaceID.
	// An empty workspaceID reaches every client.
	BroadcastEvent(ctx context.Context, workspaceID, eventType string, payload any)
}
