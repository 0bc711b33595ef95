package workflow

import (
	"fmt"
	"strings"
)

// Placeholders shown for an unassigned task in the node view.
const (
	PlaceholderName  = "Unassigned"
	PlaceholderEmail = "unassigned@example.com"
	PlaceholderRole  = "Role"
)

// Graph is the node/edge view of a workflow.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// GraphUpdate replaces the tasks and flows of a stored workflow with an
// edited node/edge view. A non-nil Version must match the stored version.
type GraphUpdate struct {
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
	Version *int   `json:"version,omitempty"`
}

// EdgeID is the identifier given to the edge for a flow.
func EdgeID(from, to string) string {
	return from + "-" + to
}

// ToGraph projects a workflow onto nodes and edges. Missing assignee fields
// are replaced by the placeholder values and outputs are joined by ", ".
func ToGraph(w *Workflow) Graph {
	g := Graph{
		Nodes: make([]Node, len(w.Tasks)),
		Edges: make([]Edge, len(w.Flows)),
	}
	for i := range w.Tasks {
		t := &w.Tasks[i]
		n := Node{
			ID:          t.ID,
			Title:       t.Name,
			Description: t.Description,
			Assignee: NodeOwner{
				Name:  orPlaceholder(t.Assignee.Name, PlaceholderName),
				Email: orPlaceholder(t.Assignee.Email, PlaceholderEmail),
				Role:  orPlaceholder(t.Assignee.Role, PlaceholderRole),
			},
			Output: strings.Join(t.Output, ", "),
			Status: t.Status.Node(),
		}
		if t.Deadline != nil {
			n.Deadline = *t.Deadline
		}
		g.Nodes[i] = n
	}
	for i, f := range w.Flows {
		g.Edges[i] = Edge{ID: EdgeID(f.From, f.To), Source: f.From, Target: f.To}
	}
	return g
}

// FromGraph rebuilds a workflow from its node/edge view. Placeholder
// assignee values become nil, and a node without a real name is unassigned.
// Checks are recomputed; notes are not carried by the view and come back nil.
func FromGraph(name string, g Graph) Workflow {
	w := Workflow{
		Name:  name,
		Tasks: make([]Task, len(g.Nodes)),
		Flows: make([]Flow, len(g.Edges)),
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		t := Task{
			ID:          n.ID,
			Name:        n.Title,
			Description: n.Description,
			Output:      splitOutput(n.Output),
			Status:      n.Status.External(),
			Assignee:    Unassigned(),
		}
		if n.Deadline != "" {
			d := n.Deadline
			t.Deadline = &d
		}
		if n.Assignee.Name != "" && n.Assignee.Name != PlaceholderName {
			t.Assignee = Assignee{
				Name:   fromPlaceholder(n.Assignee.Name, PlaceholderName),
				Email:  fromPlaceholder(n.Assignee.Email, PlaceholderEmail),
				Role:   fromPlaceholder(n.Assignee.Role, PlaceholderRole),
				Status: AssigneeAssigned,
			}
		}
		w.Tasks[i] = t
	}
	for i, e := range g.Edges {
		w.Flows[i] = Flow{From: e.Source, To: e.Target, Type: FlowDependsOn}
	}
	w.Checks = Checks{
		IsDAG:         IsDAG(w.Flows),
		HasUnassigned: HasUnassignedTasks(w.Tasks),
		Messages:      []string{},
	}
	return w
}

// CheckConversion compares a workflow with a node/edge view of it and
// returns every mismatch found. A nil result means the view is consistent.
func CheckConversion(w *Workflow, g Graph) []string {
	var problems []string
	if len(w.Tasks) != len(g.Nodes) {
		problems = append(problems, fmt.Sprintf("Task count mismatch: expected %d, got %d", len(w.Tasks), len(g.Nodes)))
	}
	if len(w.Flows) != len(g.Edges) {
		problems = append(problems, fmt.Sprintf("Flow count mismatch: expected %d, got %d", len(w.Flows), len(g.Edges)))
	}

	ids := make(map[string]bool, len(g.Nodes))
	for i := range g.Nodes {
		ids[g.Nodes[i].ID] = true
	}
	if len(ids) != len(g.Nodes) {
		problems = append(problems, "Duplicate node IDs found")
	}
	for _, e := range g.Edges {
		if !ids[e.Source] {
			problems = append(problems, "Edge references non-existent source node: "+e.Source)
		}
		if !ids[e.Target] {
			problems = append(problems, "Edge references non-existent target node: "+e.Target)
		}
	}
	return problems
}

func orPlaceholder(v *string, placeholder string) string {
	if v == nil || *v == "" {
		return placeholder
	}
	return *v
}

func fromPlaceholder(v, placeholder string) *string {
	if v == "" || v == placeholder {
		return nil
	}
	return &v
}

func splitOutput(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ", ") {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}
