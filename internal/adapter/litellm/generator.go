package litellm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Strob0t/taskgraph/internal/config"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/port/generator"
)

// Generator implements generator.Generator with a chat model behind LiteLLM.
type Generator struct {
	client *Client
	cfg    config.Generator
}

var _ generator.Generator = (*Generator)(nil)

// NewGenerator creates an LLM-backed workflow generator.
func NewGenerator(client *Client, cfg config.Generator) *Generator {
	return &Generator{client: client, cfg: cfg}
}

// Generate asks the model for a workflow. Task outputs in the reply are
// discarded since only people fill them in.
func (g *Generator) Generate(ctx context.Context, req generator.Request) (*workflow.Workflow, error) {
	userPrompt, err := buildUserPrompt(req)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.ChatCompletion(ctx, ChatRequest{
		Model: g.cfg.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:      g.cfg.MaxTokens,
		Temperature:    g.cfg.Temperature,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	content, err := resp.Content()
	if err != nil {
		return nil, err
	}
	raw, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var w workflow.Workflow
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("decode generated workflow: %w", err)
	}
	for i := range w.Tasks {
		w.Tasks[i].Output = []string{}
	}

	slog.DebugContext(ctx, "llm workflow generated",
		"model", resp.Model, "tasks", len(w.Tasks), "flows", len(w.Flows),
		"prompt_tokens", resp.Usage.PromptTokens, "completion_tokens", resp.Usage.CompletionTokens)
	return &w, nil
}
