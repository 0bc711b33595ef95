// Package mockgen is a keyword-driven workflow generator that needs no
// model. It backs local development and is the fallback when the LLM
// generator fails.
package mockgen

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Strob0t/taskgraph/internal/domain/delegation"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/port/generator"
)

const (
	maxNameRunes = 50
	enhancedNote = " (Enhanced with more details based on your request.)"
)

var (
	deadlineWords    = []string{"deadline", "마감", "due"}
	descriptionWords = []string{"description", "설명", "detail"}
)

// Generator implements generator.Generator without any model.
type Generator struct {
	now func() time.Time
}

var _ generator.Generator = (*Generator)(nil)

// New creates a mock generator.
func New() *Generator {
	return &Generator{now: time.Now}
}

// Generate builds a sequential workflow from keywords in the instruction,
// or applies keyword-triggered edits when modifying an existing workflow.
func (g *Generator) Generate(_ context.Context, req generator.Request) (*workflow.Workflow, error) {
	if req.Existing != nil {
		return g.modify(req), nil
	}
	return g.create(req), nil
}

func (g *Generator) create(req generator.Request) *workflow.Workflow {
	input := strings.ToLower(req.Instruction)

	var found []pattern
	for _, p := range taskPatterns {
		if containsAny(input, p.keywords) {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		switch {
		case containsAny(input, posterKeywords):
			found = posterTasks
		case containsAny(input, featureKeywords):
			found = featureTasks
		default:
			found = genericTasks
		}
	}

	w := &workflow.Workflow{
		Name:  workflowName(req.Instruction),
		Tasks: make([]workflow.Task, len(found)),
		Flows: make([]workflow.Flow, 0, len(found)),
	}
	notes := fmt.Sprintf("Generated from: %q", req.Instruction)
	ids := make(map[string]bool, len(found))
	for i, p := range found {
		status := workflow.StatusPending
		if i == 0 {
			status = workflow.StatusInProgress
		}
		n := notes
		id := workflow.GenerateTaskID(fmt.Sprintf("task %d %s", i+1, p.name), ids)
		ids[id] = true
		w.Tasks[i] = workflow.Task{
			ID:          id,
			Name:        p.name,
			Description: p.description,
			Output:      []string{},
			Status:      status,
			Assignee:    pickAssignee(p.name, i, req.Candidates),
			Notes:       &n,
		}
		if i > 0 {
			w.Flows = append(w.Flows, workflow.Flow{
				From: w.Tasks[i-1].ID, To: w.Tasks[i].ID, Type: workflow.FlowDependsOn,
			})
		}
	}
	return w
}

// modify copies the workflow and applies edits for deadline and description
// requests. Everything else is kept.
func (g *Generator) modify(req generator.Request) *workflow.Workflow {
	src := req.Existing
	w := &workflow.Workflow{
		Name:   src.Name,
		Tasks:  make([]workflow.Task, len(src.Tasks)),
		Flows:  slices.Clone(src.Flows),
		Checks: src.Checks,
	}
	for i, t := range src.Tasks {
		t.Output = slices.Clone(t.Output)
		w.Tasks[i] = t
	}

	input := strings.ToLower(req.Instruction)
	if containsAny(input, deadlineWords) {
		today := g.now()
		for i := range w.Tasks {
			d := today.AddDate(0, 0, 7+2*i).Format(time.DateOnly)
			w.Tasks[i].Deadline = &d
		}
	}
	if containsAny(input, descriptionWords) {
		for i := range w.Tasks {
			w.Tasks[i].Description += enhancedNote
		}
	}
	return w
}

// pickAssignee rotates through candidates by task index, preferring a
// candidate whose role suits the task name.
func pickAssignee(taskName string, index int, candidates []delegation.Candidate) workflow.Assignee {
	if len(candidates) == 0 {
		return workflow.Unassigned()
	}
	chosen := candidates[index%len(candidates)]

	name := strings.ToLower(taskName)
	for _, hint := range roleHints {
		if !containsAny(name, hint.words) {
			continue
		}
		for _, c := range candidates {
			if containsAny(strings.ToLower(c.Role), hint.roles) {
				chosen = c
				break
			}
		}
		break
	}
	return workflow.AssignedTo(chosen.Name, chosen.Email, chosen.Role)
}

func workflowName(instruction string) string {
	if instruction == "" {
		return "Generated Workflow"
	}
	r := []rune(instruction)
	if len(r) > maxNameRunes {
		return string(r[:maxNameRunes-3]) + "..."
	}
	return instruction
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
