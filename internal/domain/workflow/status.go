package workflow

// NodeStatus is the lowercase status used by the graph view and the
// status propagator. It maps one-to-one onto Status.
type NodeStatus string

const (
	NodePending   NodeStatus = "pending"
	NodeProgress  NodeStatus = "progress"
	NodeCompleted NodeStatus = "completed"
	NodeDone      NodeStatus = "done"
)

// Node converts an external status to its node form. Unknown values map to pending.
func (s Status) Node() NodeStatus {
	switch s {
	case StatusInProgress:
		return NodeProgress
	case StatusCompleted:
		return NodeCompleted
	case StatusDone:
		return NodeDone
	default:
		return NodePending
	}
}

// External converts a node status back to the external enum. Unknown values map to PENDING.
func (n NodeStatus) External() Status {
	switch n {
	case NodeProgress:
		return StatusInProgress
	case NodeCompleted:
		return StatusCompleted
	case NodeDone:
		return StatusDone
	default:
		return StatusPending
	}
}
