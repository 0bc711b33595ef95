package workflow_test

import (
	"testing"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
)

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []workflow.Status{
		workflow.StatusPending, workflow.StatusInProgress, workflow.StatusCompleted, workflow.StatusDone,
	} {
		if got := s.Node().External(); got != s {
			t.Errorf("round trip of %s gave %s", s, got)
		}
	}
	for _, n := range []workflow.NodeStatus{
		workflow.NodePending, workflow.NodeProgress, workflow.NodeCompleted, workflow.NodeDone,
	} {
		if got := n.External().Node(); got != n {
			t.Errorf("round trip of %s gave %s", n, got)
		}
	}
}

func TestStatusUnknownValues(t *testing.T) {
	if got := workflow.Status("BLOCKED").Node(); got != workflow.NodePending {
		t.Fatalf("expected pending, got %s", got)
	}
	if got := workflow.NodeStatus("waiting").External(); got != workflow.StatusPending {
		t.Fatalf("expected PENDING, got %s", got)
	}
	if workflow.Status("BLOCKED").Valid() {
		t.Fatal("expected BLOCKED to be invalid")
	}
}
