package mockgen

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Strob0t/taskgraph/internal/domain/delegation"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/port/generator"
)

var team = []delegation.Candidate{
	{Name: "Ava", Email: "ava@example.com", Role: "Product Manager"},
	{Name: "Noah", Email: "noah@example.com", Role: "Backend Engineer"},
	{Name: "Mia", Email: "mia@example.com", Role: "UI Designer"},
	{Name: "Liam", Email: "liam@example.com", Role: "QA Tester"},
}

func generate(t *testing.T, req generator.Request) *workflow.Workflow {
	t.Helper()
	w, err := New().Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return w
}

func TestCreateFromKeywords(t *testing.T) {
	w := generate(t, generator.Request{Instruction: "Design the landing page, then develop and test it", Candidates: team})

	wantIDs := []string{"task-1-design", "task-2-development", "task-3-testing"}
	if len(w.Tasks) != len(wantIDs) {
		t.Fatalf("expected %d tasks, got %d", len(wantIDs), len(w.Tasks))
	}
	for i, id := range wantIDs {
		if w.Tasks[i].ID != id {
			t.Errorf("task %d: id %q, want %q", i, w.Tasks[i].ID, id)
		}
	}
	if w.Tasks[0].Status != workflow.StatusInProgress || w.Tasks[1].Status != workflow.StatusPending {
		t.Errorf("unexpected statuses %q %q", w.Tasks[0].Status, w.Tasks[1].Status)
	}

	assignees := []string{*w.Tasks[0].Assignee.Name, *w.Tasks[1].Assignee.Name, *w.Tasks[2].Assignee.Name}
	if assignees[0] != "Mia" || assignees[1] != "Noah" || assignees[2] != "Liam" {
		t.Errorf("unexpected assignees %v", assignees)
	}

	if len(w.Flows) != 2 || w.Flows[0].From != "task-1-design" || w.Flows[1].To != "task-3-testing" {
		t.Errorf("expected a sequential chain, got %+v", w.Flows)
	}
	if r := workflow.Validate(w); !r.Valid {
		t.Errorf("generated workflow should validate: %v", r.Messages)
	}
}

func TestCreateFallbacks(t *testing.T) {
	tests := []struct {
		input string
		first string
	}{
		{"마케팅 포스터", "task-1-design-marketing-poster"},
		{"new login feature", "task-1-plan-feature"},
		{"sort out the quarterly offsite", "task-1-plan-prepare"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			w := generate(t, generator.Request{Instruction: tt.input, Candidates: team})
			if len(w.Tasks) != 3 || w.Tasks[0].ID != tt.first {
				t.Fatalf("unexpected tasks %+v", w.Tasks)
			}
			if r := workflow.Validate(w); !r.Valid {
				t.Errorf("fallback workflow should validate: %v", r.Messages)
			}
		})
	}
}

func TestCreateWithoutCandidates(t *testing.T) {
	w := generate(t, generator.Request{Instruction: "review the contract"})
	if w.Tasks[0].Assignee.IsAssigned() {
		t.Error("tasks must stay unassigned without candidates")
	}
}

func TestWorkflowNameTruncated(t *testing.T) {
	long := strings.Repeat("x", 60)
	w := generate(t, generator.Request{Instruction: long, Candidates: team})
	if w.Name != strings.Repeat("x", 47)+"..." {
		t.Errorf("unexpected name %q", w.Name)
	}
	if got := generate(t, generator.Request{}).Name; got != "Generated Workflow" {
		t.Errorf("empty instruction name = %q", got)
	}
}

func TestModifyDeadlinesAndDescriptions(t *testing.T) {
	existing := &workflow.Workflow{
		Name: "Launch",
		Tasks: []workflow.Task{
			{ID: "plan", Name: "Plan", Description: "Plan it.", Output: []string{"plan.md"}},
			{ID: "ship", Name: "Ship", Description: "Ship it."},
		},
		Flows: []workflow.Flow{{From: "plan", To: "ship", Type: workflow.FlowDependsOn}},
	}
	g := New()
	g.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	w, err := g.Generate(context.Background(), generator.Request{Instruction: "Push the deadline and add more detail", Existing: existing})
	if err != nil {
		t.Fatal(err)
	}
	if *w.Tasks[0].Deadline != "2026-03-08" || *w.Tasks[1].Deadline != "2026-03-10" {
		t.Errorf("unexpected deadlines %s %s", *w.Tasks[0].Deadline, *w.Tasks[1].Deadline)
	}
	if !strings.HasSuffix(w.Tasks[1].Description, enhancedNote) {
		t.Errorf("description not enhanced: %q", w.Tasks[1].Description)
	}
	if existing.Tasks[0].Deadline != nil || existing.Tasks[0].Description != "Plan it." {
		t.Error("existing workflow must not be mutated")
	}
	if w.Tasks[0].Output[0] != "plan.md" {
		t.Error("outputs must be preserved on modify")
	}
}

func TestCreateTaskIDsAreValidAndUnique(t *testing.T) {
	inputs := []string{
		"Plan, design, develop, review, test, approve and deploy the release",
		"Plan & prepare the offsite",
		"마케팅 포스터",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			w := generate(t, generator.Request{Instruction: input})
			seen := make(map[string]bool, len(w.Tasks))
			for _, task := range w.Tasks {
				if !workflow.IsValidTaskID(task.ID) {
					t.Errorf("invalid task id %q", task.ID)
				}
				if seen[task.ID] {
					t.Errorf("duplicate task id %q", task.ID)
				}
				seen[task.ID] = true
			}
		})
	}
}
