package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/Strob0t/taskgraph/internal/config"
)

func TestNew(t *testing.T) {
	cfg := config.Logging{Level: "debug", Service: "test-svc"}
	l, closer := New(cfg)
	defer closer.Close()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewAsync(t *testing.T) {
	cfg := config.Logging{Level: "debug", Service: "test-svc", Async: true}
	l, closer := New(cfg)
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	closer.Close()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input).String()
			if got != tt.want {
				t.Errorf("parseLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()

	// Empty context returns empty string
	if got := RequestID(ctx); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}

	// Set and retrieve
	ctx = WithRequestID(ctx, "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Errorf("expected req-123, got %q", got)
	}
}

func TestRequestIDAttached(t *testing.T) {
	var buf bytes.Buffer
	l, closer := NewWithWriter(config.Logging{Level: "info", Service: "taskgraph"}, &buf)
	defer closer.Close()

	l.InfoContext(WithRequestID(context.Background(), "req-42"), "workflow saved")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if rec["request_id"] != "req-42" {
		t.Errorf("expected request_id req-42, got %v", rec["request_id"])
	}
	if rec["service"] != "taskgraph" {
		t.Errorf("expected service taskgraph, got %v", rec["service"])
	}
}

func TestWorkflowIDContext(t *testing.T) {
	ctx := context.Background()
	if got := WorkflowID(ctx); got != "" {
		t.Errorf("expected empty workflow ID, got %q", got)
	}
	ctx = WithWorkflowID(WithRequestID(ctx, "req-1"), "wf-9")
	if got := WorkflowID(ctx); got != "wf-9" {
		t.Errorf("expected wf-9, got %q", got)
	}
	if got := RequestID(ctx); got != "req-1" {
		t.Errorf("workflow ID must not shadow request ID, got %q", got)
	}
}

func TestWorkflowIDAttached(t *testing.T) {
	var buf bytes.Buffer
	l, closer := NewWithWriter(config.Logging{Level: "info", Service: "taskgraph"}, &buf)
	defer closer.Close()

	l.InfoContext(WithWorkflowID(context.Background(), "wf-3"), "workflow delegated")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if rec["workflow_id"] != "wf-3" {
		t.Errorf("expected workflow_id wf-3, got %v", rec["workflow_id"])
	}
	if _, ok := rec["request_id"]; ok {
		t.Errorf("unexpected request_id without one in context: %v", rec)
	}
}

func TestRequestIDAttachedAsync(t *testing.T) {
	var buf bytes.Buffer
	l, closer := NewWithWriter(config.Logging{Level: "info", Service: "taskgraph", Async: true, AsyncBuffer: 8, AsyncWorkers: 1}, &buf)

	l.InfoContext(WithRequestID(context.Background(), "req-7"), "delegation finished")
	closer.Close()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if rec["request_id"] != "req-7" {
		t.Errorf("expected request_id req-7, got %v", rec["request_id"])
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, closer := NewWithWriter(config.Logging{Level: "error", Service: "taskgraph"}, &buf)
	defer closer.Close()
	t.Cleanup(func() { SetLevel("info") })

	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info record written at error level: %s", buf.String())
	}

	SetLevel("debug")
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug enabled after SetLevel")
	}
}
