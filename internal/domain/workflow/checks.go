package workflow

// HasUnassignedTasks reports whether any task is unassigned.
func HasUnassignedTasks(tasks []Task) bool {
	for i := range tasks {
		if !tasks[i].Assignee.IsAssigned() {
			return true
		}
	}
	return false
}

// ComputeChecks recomputes the derived checks block from the current tasks
// and flows. Stored checks on w are ignored.
func ComputeChecks(w *Workflow) Checks {
	return Checks{
		IsDAG:         IsDAG(w.Flows),
		HasUnassigned: HasUnassignedTasks(w.Tasks),
		Messages:      Validate(w).Messages,
	}
}

// WithChecks returns a copy of w carrying freshly computed checks.
func WithChecks(w Workflow) Workflow {
	w.Checks = ComputeChecks(&w)
	return w
}
