package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "taskgraph"

// StartDelegationSpan starts a span for delegating one workflow.
func StartDelegationSpan(ctx context.Context, workflowID string, tasks, candidates int, force bool) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "workflow.delegate",
		trace.WithAttributes(
			attribute.String("workflow.id", workflowID),
			attribute.Int("workflow.tasks", tasks),
			attribute.Int("delegation.candidates", candidates),
			attribute.Bool("delegation.force", force),
		),
	)
}

// StartGenerateSpan starts a span for a generator call.
func StartGenerateSpan(ctx context.Context, action, generator string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "workflow.generate",
		trace.WithAttributes(
			attribute.String("prompt.action", action),
			attribute.String("generator", generator),
		),
	)
}
