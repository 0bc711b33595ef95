package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Strob0t/taskgraph/internal/domain"
	"github.com/Strob0t/taskgraph/internal/domain/workflow"
	"github.com/Strob0t/taskgraph/internal/domain/workspace"
	"github.com/Strob0t/taskgraph/internal/port/messagequeue"
)

// mockStore implements database.Store in memory.
type mockStore struct {
	mu         sync.Mutex
	workspaces []workspace.Workspace
	members    []workspace.Member
	workflows  map[string]*workflow.Record
	nextID     int
	getCalls   int
}

func newMockStore() *mockStore {
	return &mockStore{workflows: make(map[string]*workflow.Record)}
}

func (m *mockStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockStore) CreateWorkspace(_ context.Context, req workspace.CreateRequest) (*workspace.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws := workspace.Workspace{ID: m.id("ws"), Name: req.Name, Description: req.Description, CreatedAt: time.Now()}
	m.workspaces = append(m.workspaces, ws)
	return &ws, nil
}

func (m *mockStore) GetWorkspace(_ context.Context, id string) (*workspace.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.workspaces {
		if m.workspaces[i].ID == id {
			ws := m.workspaces[i]
			return &ws, nil
		}
	}
	return nil, fmt.Errorf("get workspace %s: %w", id, domain.ErrNotFound)
}

func (m *mockStore) ListWorkspaces(_ context.Context) ([]workspace.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]workspace.Workspace(nil), m.workspaces...), nil
}

func (m *mockStore) AddMember(_ context.Context, workspaceID string, req workspace.AddMemberRequest) (*workspace.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.members {
		if m.members[i].WorkspaceID == workspaceID && m.members[i].Email == req.Email {
			return nil, fmt.Errorf("add member %s: %w", req.Email, domain.ErrConflict)
		}
	}
	mem := workspace.Member{ID: m.id("mem"), WorkspaceID: workspaceID, Name: req.Name, Email: req.Email, Role: req.Role}
	m.members = append(m.members, mem)
	return &mem, nil
}

func (m *mockStore) ListMembers(_ context.Context, workspaceID string) ([]workspace.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []workspace.Member
	for i := range m.members {
		if m.members[i].WorkspaceID == workspaceID {
			out = append(out, m.members[i])
		}
	}
	return out, nil
}

func (m *mockStore) CreateWorkflow(_ context.Context, workspaceID string, w *workflow.Workflow) (*workflow.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &workflow.Record{ID: m.id("wf"), WorkspaceID: workspaceID, Workflow: *w, Version: 1}
	m.workflows[rec.ID] = rec
	cp := *rec
	return &cp, nil
}

func (m *mockStore) GetWorkflow(_ context.Context, id string) (*workflow.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	rec, ok := m.workflows[id]
	if !ok {
		return nil, fmt.Errorf("get workflow %s: %w", id, domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (m *mockStore) ListWorkflows(_ context.Context, workspaceID string) ([]workflow.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []workflow.Record
	for i := 1; i <= m.nextID; i++ {
		if rec, ok := m.workflows[fmt.Sprintf("wf-%d", i)]; ok && rec.WorkspaceID == workspaceID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateWorkflow(_ context.Context, rec *workflow.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.workflows[rec.ID]
	if !ok {
		return fmt.Errorf("update workflow %s: %w", rec.ID, domain.ErrNotFound)
	}
	if stored.Version != rec.Version {
		return fmt.Errorf("update workflow %s: %w", rec.ID, domain.ErrConflict)
	}
	rec.Version++
	rec.UpdatedAt = time.Now()
	cp := *rec
	m.workflows[rec.ID] = &cp
	return nil
}

func (m *mockStore) DeleteWorkflow(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workflows[id]; !ok {
		return fmt.Errorf("delete workflow %s: %w", id, domain.ErrNotFound)
	}
	delete(m.workflows, id)
	return nil
}

// mockQueue implements messagequeue.Queue for testing.
type mockQueue struct {
	mu         sync.Mutex
	published  []published
	handler    messagequeue.Handler
	publishErr error
}

type published struct {
	subject string
	data    []byte
}

func (q *mockQueue) Publish(_ context.Context, subject string, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.publishErr != nil {
		return q.publishErr
	}
	q.published = append(q.published, published{subject, data})
	return nil
}

func (q *mockQueue) Subscribe(_ context.Context, _ string, h messagequeue.Handler) (func(), error) {
	q.handler = h
	return func() {}, nil
}

func (q *mockQueue) Drain() error      { return nil }
func (q *mockQueue) Close() error      { return nil }
func (q *mockQueue) IsConnected() bool { return true }

func (q *mockQueue) subjects() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.published))
	for i, p := range q.published {
		out[i] = p.subject
	}
	return out
}

// mockBroadcaster records broadcast events.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *mockBroadcaster) BroadcastEvent(_ context.Context, _, eventType string, _ any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
}

// memCache implements cache.Cache with a map.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
