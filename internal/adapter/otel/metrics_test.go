package otel

import (
	"context"
	"testing"
	"time"

	"github.com/Strob0t/taskgraph/internal/config"
)

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordValidation(ctx, true)
	m.RecordDelegation(ctx, 3, 1, time.Millisecond)
	m.RecordGenerate(ctx, "mock", true, time.Millisecond)
}

func TestNewMetricsOnNoopProvider(t *testing.T) {
	m, err := NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	m.RecordDelegation(context.Background(), 2, 0, time.Second)
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.Telemetry{Enabled: false}, "taskgraph")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestSpansOnNoopProvider(t *testing.T) {
	_, span := StartDelegationSpan(context.Background(), "wf-1", 3, 2, true)
	span.End()
	_, span = StartGenerateSpan(context.Background(), "create", "mock")
	span.End()
}
