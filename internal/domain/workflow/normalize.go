package workflow

import "strings"

// Normalize repairs representation-level drift in a workflow received from
// outside the core (a generator, a client, storage). It never touches the
// structural invariants Validate reports on:
//   - an empty flow type becomes depends_on
//   - an unknown task status becomes PENDING
//   - nil outputs become empty lists
//   - assignee status is made consistent with its identity fields
//
// The input is not modified.
func Normalize(w Workflow) Workflow {
	tasks := make([]Task, len(w.Tasks))
	for i := range w.Tasks {
		tasks[i] = NormalizeTask(w.Tasks[i])
	}
	w.Tasks = tasks

	flows := make([]Flow, len(w.Flows))
	for i, f := range w.Flows {
		if f.Type == "" {
			f.Type = FlowDependsOn
		}
		flows[i] = f
	}
	w.Flows = flows

	if w.Checks.Messages == nil {
		w.Checks.Messages = []string{}
	}
	return w
}

// NormalizeTask applies the task-level rules of Normalize.
func NormalizeTask(t Task) Task {
	if !t.Status.Valid() {
		t.Status = StatusPending
	}
	if t.Output == nil {
		t.Output = []string{}
	} else {
		t.Output = append([]string(nil), t.Output...)
	}

	a := t.Assignee
	switch {
	case a.Status == AssigneeUnassigned:
		t.Assignee = Unassigned()
	case a.Name != nil && strings.TrimSpace(*a.Name) != "":
		t.Assignee.Status = AssigneeAssigned
	default:
		t.Assignee = Unassigned()
	}
	return t
}
