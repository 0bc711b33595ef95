package workflow

import "strings"

// Node is the graph-view projection of a task used by the status propagator
// and the node/edge conversion.
type Node struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Assignee    NodeOwner  `json:"assignee"`
	Output      string     `json:"output"`
	Deadline    string     `json:"deadline"`
	Status      NodeStatus `json:"status"`
}

// NodeOwner is the display form of an assignee.
type NodeOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Edge is a directed link between two nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// PropagateStatuses advances node statuses by one step. A pending node with
// no incoming edges, or whose predecessors are all done, moves to progress.
// A node in progress with non-blank output moves to completed. Predecessor
// states are read from the input, not from nodes updated in the same pass,
// so a chain advances at most one hop per call. Done is never assigned here.
func PropagateStatuses(nodes []Node, edges []Edge) []Node {
	before := make(map[string]NodeStatus, len(nodes))
	for i := range nodes {
		before[nodes[i].ID] = nodes[i].Status
	}
	incoming := make(map[string][]string, len(edges))
	for _, e := range edges {
		incoming[e.Target] = append(incoming[e.Target], e.Source)
	}

	out := make([]Node, len(nodes))
	for i := range nodes {
		n := nodes[i]
		n.Status = nextStatus(n.Status, n.Output, incoming[n.ID], before)
		out[i] = n
	}
	return out
}

// PropagateTaskStatuses applies PropagateStatuses rules to tasks, treating
// flows as edges and the joined output list as the node output.
func PropagateTaskStatuses(tasks []Task, flows []Flow) []Task {
	before := make(map[string]NodeStatus, len(tasks))
	for i := range tasks {
		before[tasks[i].ID] = tasks[i].Status.Node()
	}
	preds := Predecessors(flows)

	out := make([]Task, len(tasks))
	for i := range tasks {
		t := tasks[i]
		next := nextStatus(t.Status.Node(), strings.Join(t.Output, " "), preds[t.ID], before)
		if next != t.Status.Node() {
			t.Status = next.External()
		}
		out[i] = t
	}
	return out
}

func nextStatus(cur NodeStatus, output string, preds []string, before map[string]NodeStatus) NodeStatus {
	switch cur {
	case NodePending:
		for _, p := range preds {
			// Unknown predecessors are never done.
			if s, ok := before[p]; !ok || s != NodeDone {
				return cur
			}
		}
		return NodeProgress
	case NodeProgress:
		if strings.TrimSpace(output) != "" {
			return NodeCompleted
		}
	}
	return cur
}
