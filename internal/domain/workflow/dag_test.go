package workflow_test

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
)

func flows(pairs ...string) []workflow.Flow {
	out := make([]workflow.Flow, 0, len(pairs))
	for _, p := range pairs {
		from, to, _ := strings.Cut(p, ">")
		out = append(out, workflow.Flow{From: from, To: to, Type: workflow.FlowDependsOn})
	}
	return out
}

func TestIsDAG(t *testing.T) {
	tests := []struct {
		name  string
		flows []workflow.Flow
		want  bool
	}{
		{"empty", nil, true},
		{"chain", flows("a>b", "b>c"), true},
		{"diamond", flows("a>b", "a>c", "b>d", "c>d"), true},
		{"two components", flows("a>b", "x>y"), true},
		{"triangle", flows("a>b", "b>c", "c>a"), false},
		{"self loop", flows("a>a"), false},
		{"cycle off the start", flows("a>b", "b>c", "c>b"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflow.IsDAG(tt.flows); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsDAG_DeepChain(t *testing.T) {
	var f []workflow.Flow
	for i := range 20000 {
		f = append(f, workflow.Flow{From: "n" + strconv.Itoa(i), To: "n" + strconv.Itoa(i+1)})
	}
	if !workflow.IsDAG(f) {
		t.Fatal("expected long chain to be a DAG")
	}
	f = append(f, workflow.Flow{From: "n20000", To: "n0"})
	if workflow.IsDAG(f) {
		t.Fatal("expected closed chain to be cyclic")
	}
}

func TestFindCycles_Triangle(t *testing.T) {
	cycles := workflow.FindCycles(flows("a>b", "b>c", "c>a"))
	if len(cycles) == 0 {
		t.Fatal("expected at least one cycle")
	}
	want := []string{"a", "b", "c", "a"}
	if !slices.Equal(cycles[0], want) {
		t.Fatalf("expected %v, got %v", want, cycles[0])
	}
}

func TestFindCycles_PathStartsAtBackEdgeTarget(t *testing.T) {
	cycles := workflow.FindCycles(flows("a>b", "b>c", "c>b"))
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if want := []string{"b", "c", "b"}; !slices.Equal(cycles[0], want) {
		t.Fatalf("expected %v, got %v", want, cycles[0])
	}
}

func TestFindCycles_Acyclic(t *testing.T) {
	if cycles := workflow.FindCycles(flows("a>b", "a>c")); len(cycles) != 0 {
		t.Fatalf("expected no cycles, got %v", cycles)
	}
}

func TestTopologicalSort_RespectsFlows(t *testing.T) {
	ids := []string{"d", "c", "b", "a"}
	f := flows("a>b", "a>c", "b>d", "c>d")
	order, err := workflow.TopologicalSort(ids, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != len(ids) {
		t.Fatalf("expected %d ids, got %v", len(ids), order)
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, fl := range f {
		if pos[fl.From] >= pos[fl.To] {
			t.Fatalf("%s must precede %s in %v", fl.From, fl.To, order)
		}
	}
}

func TestTopologicalSort_StableTieBreak(t *testing.T) {
	order, err := workflow.TopologicalSort([]string{"c", "a", "b"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"c", "a", "b"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}

	order, err = workflow.TopologicalSort([]string{"b", "a", "c"}, flows("a>b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"a", "c", "b"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	_, err := workflow.TopologicalSort([]string{"a", "b", "c"}, flows("a>b", "b>c", "c>a"))
	if !errors.Is(err, workflow.ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
}

func TestTopologicalSort_DuplicateIDs(t *testing.T) {
	order, err := workflow.TopologicalSort([]string{"a", "a"}, nil)
	if !errors.Is(err, workflow.ErrCycle) {
		t.Fatalf("expected ErrCycle for duplicate IDs, got order=%v err=%v", order, err)
	}
	if order != nil {
		t.Fatalf("expected no order, got %v", order)
	}
}

func TestTopologicalSort_IgnoresUnknownEndpoints(t *testing.T) {
	order, err := workflow.TopologicalSort([]string{"a", "b"}, flows("a>b", "ghost>a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"a", "b"}; !slices.Equal(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}
