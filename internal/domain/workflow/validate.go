package workflow

import (
	"fmt"
	"strings"
)

// Report is the outcome of Validate. Valid is true iff Messages is empty.
type Report struct {
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages"`
}

// Validate checks a workflow's structural invariants: a non-blank name, at
// least one task, well-formed unique task IDs, resolvable flow endpoints and
// an acyclic flow graph. Every violation is reported; w is not modified.
func Validate(w *Workflow) Report {
	messages := []string{}

	if strings.TrimSpace(w.Name) == "" {
		messages = append(messages, "Workflow name is required")
	}
	if len(w.Tasks) == 0 {
		messages = append(messages, "At least one task is required")
	}

	ids := make(map[string]bool, len(w.Tasks))
	for i := range w.Tasks {
		id := w.Tasks[i].ID
		if !IsValidTaskID(id) {
			messages = append(messages, fmt.Sprintf("Task %d has invalid ID format: %s", i+1, id))
		}
		if ids[id] {
			messages = append(messages, "Duplicate task ID: "+id)
		}
		ids[id] = true
	}

	for i, f := range w.Flows {
		if !ids[f.From] {
			messages = append(messages, fmt.Sprintf("Flow %d references non-existent task: %s", i+1, f.From))
		}
		if !ids[f.To] {
			messages = append(messages, fmt.Sprintf("Flow %d references non-existent task: %s", i+1, f.To))
		}
	}

	if !IsDAG(w.Flows) {
		messages = append(messages, "Workflow contains cycles: "+formatCycles(FindCycles(w.Flows)))
	}

	return Report{Valid: len(messages) == 0, Messages: messages}
}

func formatCycles(cycles [][]string) string {
	parts := make([]string, len(cycles))
	for i, c := range cycles {
		parts[i] = strings.Join(c, " → ")
	}
	return strings.Join(parts, ", ")
}
