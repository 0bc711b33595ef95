// Package workspace defines workspaces and their members. Members are the
// people workflows in a workspace are delegated to.
package workspace

import (
	"time"

	"github.com/Strob0t/taskgraph/internal/domain/delegation"
)

// Workspace groups workflows and the team working on them.
type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member is a person belonging to a workspace.
type Member struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Candidate returns the member as a delegation candidate.
func (m Member) Candidate() delegation.Candidate {
	return delegation.Candidate{Name: m.Name, Email: m.Email, Role: m.Role}
}

// Candidates converts members to delegation candidates, keeping order.
func Candidates(members []Member) []delegation.Candidate {
	out := make([]delegation.Candidate, len(members))
	for i := range members {
		out[i] = members[i].Candidate()
	}
	return out
}

// CreateRequest holds the fields needed to create a workspace.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AddMemberRequest holds the fields needed to add a member.
type AddMemberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
