package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "taskgraph"

// Metrics holds the taskgraph metric instruments. A nil *Metrics records
// nothing.
type Metrics struct {
	Validations        metric.Int64Counter
	Assignments        metric.Int64Counter
	LowConfidence      metric.Int64Counter
	DelegationDuration metric.Float64Histogram
	Generations        metric.Int64Counter
	GenerateDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Validations, err = meter.Int64Counter("taskgraph.workflow.validations",
		metric.WithDescription("Workflow validation passes, by outcome"))
	if err != nil {
		return nil, err
	}

	m.Assignments, err = meter.Int64Counter("taskgraph.delegation.assignments",
		metric.WithDescription("Tasks assigned by auto-delegation"))
	if err != nil {
		return nil, err
	}

	m.LowConfidence, err = meter.Int64Counter("taskgraph.delegation.low_confidence",
		metric.WithDescription("Assignments made below the confidence threshold"))
	if err != nil {
		return nil, err
	}

	m.DelegationDuration, err = meter.Float64Histogram("taskgraph.delegation.duration_seconds",
		metric.WithDescription("Time to delegate one workflow"), metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.Generations, err = meter.Int64Counter("taskgraph.generator.calls",
		metric.WithDescription("Workflow generator calls, by generator and outcome"))
	if err != nil {
		return nil, err
	}

	m.GenerateDuration, err = meter.Float64Histogram("taskgraph.generator.duration_seconds",
		metric.WithDescription("Workflow generator latency"), metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordValidation counts one validation pass.
func (m *Metrics) RecordValidation(ctx context.Context, valid bool) {
	if m == nil {
		return
	}
	m.Validations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("valid", valid)))
}

// RecordDelegation records one delegated workflow.
func (m *Metrics) RecordDelegation(ctx context.Context, assigned, low int, d time.Duration) {
	if m == nil {
		return
	}
	m.Assignments.Add(ctx, int64(assigned))
	m.LowConfidence.Add(ctx, int64(low))
	m.DelegationDuration.Record(ctx, d.Seconds())
}

// RecordGenerate records one generator call.
func (m *Metrics) RecordGenerate(ctx context.Context, generator string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("generator", generator), attribute.Bool("ok", ok))
	m.Generations.Add(ctx, 1, attrs)
	m.GenerateDuration.Record(ctx, d.Seconds(), attrs)
}
