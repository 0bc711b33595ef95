package logger

import "context"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	workflowIDKey
)

// WithRequestID returns ctx carrying the request ID. It follows the request
// across NATS into the delegation subscriber.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID carried by ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithWorkflowID returns ctx carrying the workflow being processed, so every
// record logged during delegation is tagged with it.
func WithWorkflowID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, workflowIDKey, id)
}

// WorkflowID returns the workflow ID carried by ctx, or "".
func WorkflowID(ctx context.Context) string {
	id, _ := ctx.Value(workflowIDKey).(string)
	return id
}
