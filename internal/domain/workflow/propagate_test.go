package workflow_test

import (
	"testing"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
)

func statusOf(nodes []workflow.Node, id string) workflow.NodeStatus {
	for i := range nodes {
		if nodes[i].ID == id {
			return nodes[i].Status
		}
	}
	return ""
}

func TestPropagateStatuses_TwoNodeScenario(t *testing.T) {
	nodes := []workflow.Node{
		{ID: "a", Status: workflow.NodePending},
		{ID: "b", Status: workflow.NodePending},
	}
	edges := []workflow.Edge{{ID: "a-b", Source: "a", Target: "b"}}

	nodes = workflow.PropagateStatuses(nodes, edges)
	if s := statusOf(nodes, "a"); s != workflow.NodeProgress {
		t.Fatalf("pass 1: expected a=progress, got %s", s)
	}
	if s := statusOf(nodes, "b"); s != workflow.NodePending {
		t.Fatalf("pass 1: expected b=pending, got %s", s)
	}

	nodes[0].Output = "x"
	nodes = workflow.PropagateStatuses(nodes, edges)
	if s := statusOf(nodes, "a"); s != workflow.NodeCompleted {
		t.Fatalf("pass 2: expected a=completed, got %s", s)
	}
	if s := statusOf(nodes, "b"); s != workflow.NodePending {
		t.Fatalf("pass 2: expected b=pending, got %s", s)
	}

	nodes = workflow.PropagateStatuses(nodes, edges)
	if s := statusOf(nodes, "b"); s != workflow.NodePending {
		t.Fatalf("pass 3: completed predecessor must still block, got b=%s", s)
	}

	nodes[0].Status = workflow.NodeDone
	nodes = workflow.PropagateStatuses(nodes, edges)
	if s := statusOf(nodes, "a"); s != workflow.NodeDone {
		t.Fatalf("pass 4: done must stay done, got %s", s)
	}
	if s := statusOf(nodes, "b"); s != workflow.NodeProgress {
		t.Fatalf("pass 4: expected b=progress, got %s", s)
	}
}

func TestPropagateStatuses_SinglePass(t *testing.T) {
	// b advances one step only; c still sees b as pending.
	nodes := []workflow.Node{
		{ID: "a", Status: workflow.NodeDone},
		{ID: "b", Status: workflow.NodePending, Output: "ready"},
		{ID: "c", Status: workflow.NodePending},
	}
	edges := []workflow.Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}}
	out := workflow.PropagateStatuses(nodes, edges)

	if s := statusOf(out, "b"); s != workflow.NodeProgress {
		t.Fatalf("expected b=progress (not completed in the same pass), got %s", s)
	}
	if s := statusOf(out, "c"); s != workflow.NodePending {
		t.Fatalf("expected c=pending, got %s", s)
	}
	if nodes[1].Status != workflow.NodePending {
		t.Fatal("input slice was modified")
	}
}

func TestPropagateStatuses_WhitespaceOutput(t *testing.T) {
	nodes := []workflow.Node{{ID: "a", Status: workflow.NodeProgress, Output: "  \n "}}
	if s := workflow.PropagateStatuses(nodes, nil)[0].Status; s != workflow.NodeProgress {
		t.Fatalf("expected progress, got %s", s)
	}
}

func TestPropagateStatuses_UnknownPredecessor(t *testing.T) {
	nodes := []workflow.Node{{ID: "b", Status: workflow.NodePending}}
	edges := []workflow.Edge{{Source: "ghost", Target: "b"}}
	if s := workflow.PropagateStatuses(nodes, edges)[0].Status; s != workflow.NodePending {
		t.Fatalf("expected pending, got %s", s)
	}
}

func TestPropagateTaskStatuses(t *testing.T) {
	a := task("aaa")
	a.Status = workflow.StatusInProgress
	a.Output = []string{"report.pdf"}
	b := task("bbb")
	c := task("ccc")

	out := workflow.PropagateTaskStatuses([]workflow.Task{a, b, c}, flows("aaa>bbb"))
	if out[0].Status != workflow.StatusCompleted {
		t.Fatalf("expected aaa COMPLETED, got %s", out[0].Status)
	}
	if out[1].Status != workflow.StatusPending {
		t.Fatalf("expected bbb PENDING, got %s", out[1].Status)
	}
	if out[2].Status != workflow.StatusInProgress {
		t.Fatalf("expected ccc IN_PROGRESS, got %s", out[2].Status)
	}
}
