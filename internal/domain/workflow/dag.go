package workflow

import "errors"

// ErrCycle is returned by TopologicalSort when no complete ordering exists.
var ErrCycle = errors.New("flows contain a cycle")

// graph is the adjacency view of a flow list. nodes keeps first-seen order so
// traversal is deterministic.
type graph struct {
	nodes []string
	adj   map[string][]string
}

func buildGraph(flows []Flow) graph {
	g := graph{adj: make(map[string][]string, len(flows))}
	seen := make(map[string]bool, len(flows)*2)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			g.nodes = append(g.nodes, id)
		}
	}
	for _, f := range flows {
		add(f.From)
		add(f.To)
		g.adj[f.From] = append(g.adj[f.From], f.To)
	}
	return g
}

// frame is one entry of the explicit DFS stack: a node and the index of the
// next neighbor to inspect.
type frame struct {
	node string
	next int
}

// walk runs a depth-first search from every unvisited node. onBack is called
// with the current path whenever an edge leads back into a node still on the
// recursion stack; returning false stops the walk.
func (g graph) walk(onBack func(path []string, target string) bool) {
	visited := make(map[string]bool, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))

	for _, root := range g.nodes {
		if visited[root] {
			continue
		}
		visited[root] = true
		onStack[root] = true
		stack := []frame{{node: root}}
		path := []string{root}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			neighbors := g.adj[top.node]
			if top.next >= len(neighbors) {
				onStack[top.node] = false
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				continue
			}
			n := neighbors[top.next]
			top.next++

			switch {
			case !visited[n]:
				visited[n] = true
				onStack[n] = true
				stack = append(stack, frame{node: n})
				path = append(path, n)
			case onStack[n]:
				if !onBack(path, n) {
					return
				}
			}
		}
	}
}

// IsDAG reports whether the flows form a directed acyclic graph.
// An empty flow list is a DAG.
func IsDAG(flows []Flow) bool {
	acyclic := true
	buildGraph(flows).walk(func([]string, string) bool {
		acyclic = false
		return false
	})
	return acyclic
}

// FindCycles returns every cycle met by the search, each as the node path
// closed by repeating its first node. The result is meant for messages; it
// is not a minimal cycle basis and cycles may overlap.
func FindCycles(flows []Flow) [][]string {
	var cycles [][]string
	buildGraph(flows).walk(func(path []string, target string) bool {
		start := 0
		for i, id := range path {
			if id == target {
				start = i
				break
			}
		}
		cycle := make([]string, 0, len(path)-start+1)
		cycle = append(cycle, path[start:]...)
		cycles = append(cycles, append(cycle, target))
		return true
	})
	return cycles
}

// TopologicalSort orders taskIDs so every flow's From precedes its To, using
// Kahn's algorithm. Ready nodes are taken in taskIDs order. Flows naming IDs
// outside taskIDs are ignored.
//
// ErrCycle is also returned when taskIDs holds duplicates, even for an
// acyclic graph: each ID is emitted once, so the order comes out shorter
// than the input. Callers should run Validate first, which reports
// duplicate IDs by name.
func TopologicalSort(taskIDs []string, flows []Flow) ([]string, error) {
	if !IsDAG(flows) {
		return nil, ErrCycle
	}

	known := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		known[id] = true
	}
	inDegree := make(map[string]int, len(taskIDs))
	adj := make(map[string][]string, len(taskIDs))
	for _, f := range flows {
		if !known[f.From] || !known[f.To] {
			continue
		}
		adj[f.From] = append(adj[f.From], f.To)
		inDegree[f.To]++
	}

	queue := make([]string, 0, len(taskIDs))
	queued := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		if inDegree[id] == 0 && !queued[id] {
			queued[id] = true
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(taskIDs))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, n := range adj[id] {
			inDegree[n]--
			if inDegree[n] == 0 && !queued[n] {
				queued[n] = true
				queue = append(queue, n)
			}
		}
	}

	if len(order) < len(taskIDs) {
		return nil, ErrCycle
	}
	return order, nil
}

// Predecessors returns, for each task ID that has incoming flows, the IDs of
// its direct predecessors in flow order.
func Predecessors(flows []Flow) map[string][]string {
	preds := make(map[string][]string, len(flows))
	for _, f := range flows {
		preds[f.To] = append(preds[f.To], f.From)
	}
	return preds
}
