package litellm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Strob0t/taskgraph/internal/adapter/litellm"
	"github.com/Strob0t/taskgraph/internal/config"
	"github.com/Strob0t/taskgraph/internal/domain/delegation"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/port/generator"
	"github.com/Strob0t/taskgraph/internal/resilience"
)

func newClient(url string, b *resilience.Breaker) *litellm.Client {
	return litellm.NewClient(config.LiteLLM{URL: url, MasterKey: "test-key", Timeout: 5 * time.Second}, b)
}

func completion(content string) []byte {
	data, _ := json.Marshal(map[string]any{
		"model": "openai/gpt-4o-mini",
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	})
	return data
}

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Fatalf("unexpected auth: %q", auth)
		}
		var req litellm.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Model != "m" || len(req.Messages) != 1 {
			t.Fatalf("unexpected request body %+v", req)
		}
		_, _ = w.Write(completion("hello"))
	}))
	defer srv.Close()

	resp, err := newClient(srv.URL, nil).ChatCompletion(context.Background(), litellm.ChatRequest{
		Model:    "m",
		Messages: []litellm.ChatMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
	got, err := resp.Content()
	if err != nil || got != "hello" {
		t.Fatalf("Content() = %q, %v", got, err)
	}
}

func TestHealthUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	healthy, err := newClient(srv.URL, nil).Health(context.Background())
	if healthy || err == nil {
		t.Fatalf("expected unhealthy with error, got %v %v", healthy, err)
	}
}

func TestKeySourceRotation(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	key := "rotated-1"
	c := newClient(srv.URL, nil)
	c.SetKeySource(func() string { return key })

	_, _ = c.Health(context.Background())
	key = ""
	_, _ = c.Health(context.Background())

	if len(seen) != 2 || seen[0] != "Bearer rotated-1" || seen[1] != "Bearer test-key" {
		t.Fatalf("unexpected auth headers %v", seen)
	}
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newClient(srv.URL, resilience.NewBreaker("litellm", 2, time.Minute))
	for range 2 {
		_, _ = client.ChatCompletion(context.Background(), litellm.ChatRequest{Model: "m"})
	}
	_, err := client.ChatCompletion(context.Background(), litellm.ChatRequest{Model: "m"})
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls)
	}
}

func TestGeneratorDecodesFencedReply(t *testing.T) {
	reply := "```json\n" + `{
  "workflow_name": "Poster",
  "tasks": [
    {"id": "design-poster", "name": "Design Poster", "description": "d", "output": ["draft.png"],
     "deadline": null, "status": "PENDING",
     "assignee": {"name": "Ava", "email": "ava@example.com", "role": "designer", "status": "assigned"}, "notes": null}
  ],
  "flows": [],
  "checks": {"is_dag": true, "has_unassigned": false, "messages": []}
}` + "\n```"

	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req litellm.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format")
		}
		prompt = req.Messages[len(req.Messages)-1].Content
		_, _ = w.Write(completion(reply))
	}))
	defer srv.Close()

	gen := litellm.NewGenerator(newClient(srv.URL, nil), config.Generator{Model: "m", MaxTokens: 100})
	w, err := gen.Generate(context.Background(), generator.Request{
		Instruction: "make a poster",
		Candidates:  []delegation.Candidate{{Name: "Ava", Email: "ava@example.com", Role: "designer"}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if w.Name != "Poster" || len(w.Tasks) != 1 {
		t.Fatalf("unexpected workflow %+v", w)
	}
	if len(w.Tasks[0].Output) != 0 {
		t.Errorf("outputs must be discarded, got %v", w.Tasks[0].Output)
	}
	if w.Tasks[0].Status != workflow.StatusPending {
		t.Errorf("unexpected status %q", w.Tasks[0].Status)
	}
	if !strings.Contains(prompt, `role="designer"`) || !strings.Contains(prompt, "make a poster") {
		t.Errorf("prompt misses assignees or request:\n%s", prompt)
	}
}

func TestGeneratorRejectsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(completion("I cannot help with that."))
	}))
	defer srv.Close()

	gen := litellm.NewGenerator(newClient(srv.URL, nil), config.Generator{Model: "m"})
	if _, err := gen.Generate(context.Background(), generator.Request{Instruction: "x"}); err == nil {
		t.Fatal("expected an error for a reply without JSON")
	}
}
