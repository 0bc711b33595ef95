// Package generator defines the port for workflow generators: anything that
// turns a natural-language instruction into a workflow.
package generator

import (
	"context"

	"github.com/Strob0t/taskgraph/internal/domain/delegation"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
)

// Request is the input handed to a generator.
type Request struct {
	// Instruction is the user's natural-language request.
	Instruction string
	// Existing is the workflow to modify, or nil to create a new one.
	Existing *workflow.Workflow
	// Candidates are the people tasks may be assigned to.
	Candidates []delegation.Candidate
}

// Generator produces a workflow from a request. Output is untrusted and is
// validated by the caller.
type Generator interface {
	Generate(ctx context.Context, req Request) (*workflow.Workflow, error)
}
