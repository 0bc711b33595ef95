package litellm

import (
	"strings"
	"testing"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/port/generator"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without tag", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"chatter", "Here you go: {\"a\":{\"b\":2}} hope it helps", `{"a":{"b":2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.reply)
			if err != nil {
				t.Fatalf("extractJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := extractJSON("no braces here"); err == nil {
		t.Error("expected error without a JSON object")
	}
}

func TestBuildUserPromptModify(t *testing.T) {
	existing := &workflow.Workflow{Name: "Launch", Tasks: []workflow.Task{{ID: "plan-launch", Name: "Plan"}}}
	got, err := buildUserPrompt(generator.Request{Instruction: "add a review step", Existing: existing})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"modify the workflow", `"workflow_name": "Launch"`, "add a review step"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}
