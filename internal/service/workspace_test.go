package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Strob0t/taskgraph/internal/domain"
	"github.com/Strob0t/taskgraph/internal/domain/workspace"
)

func TestWorkspaceServiceCreate(t *testing.T) {
	svc := NewWorkspaceService(newMockStore())
	ctx := context.Background()

	ws, err := svc.Create(ctx, &workspace.CreateRequest{Name: "Marketing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.Get(ctx, ws.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Marketing" {
		t.Fatalf("expected Marketing, got %q", got.Name)
	}
}

func TestWorkspaceServiceCreateInvalid(t *testing.T) {
	svc := NewWorkspaceService(newMockStore())
	_, err := svc.Create(context.Background(), &workspace.CreateRequest{Name: " "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestWorkspaceServiceMembers(t *testing.T) {
	svc := NewWorkspaceService(newMockStore())
	ctx := context.Background()
	ws, _ := svc.Create(ctx, &workspace.CreateRequest{Name: "Product"})

	if _, err := svc.AddMember(ctx, ws.ID, &workspace.AddMemberRequest{Name: "Kim", Email: "kim@example.com", Role: "Designer"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.AddMember(ctx, ws.ID, &workspace.AddMemberRequest{Name: "Kim Two", Email: "kim@example.com"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}
	_, err = svc.AddMember(ctx, ws.ID, &workspace.AddMemberRequest{Name: "Bad", Email: "nope"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad email, got %v", err)
	}

	members, err := svc.ListMembers(ctx, ws.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}
}

func TestWorkspaceServiceListMembersUnknownWorkspace(t *testing.T) {
	svc := NewWorkspaceService(newMockStore())
	_, err := svc.ListMembers(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
