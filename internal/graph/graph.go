package graph

import (
	"sort"

	"github.com/planloom/planloom/internal/model"
)

// Build constructs a TaskGraph from a flat task list and its dependency
// edges. Edges referencing ids outside the task set are skipped, and
// duplicate predecessor/successor pairs collapse to the first edge seen.
func Build(tasks []model.Task, edges []model.DependencyEdge) *TaskGraph {
	g := &TaskGraph{
		Tasks: make(map[string]*model.Task),
		Preds: make(map[string][]model.DependencyEdge),
		Succs: make(map[string][]model.DependencyEdge),
	}

	for i := range tasks {
		g.Tasks[tasks[i].ID] = &tasks[i]
	}

	seen := make(map[[2]string]bool)
	for _, e := range edges {
		if _, ok := g.Tasks[e.PredecessorID]; !ok {
			continue
		}
		if _, ok := g.Tasks[e.SuccessorID]; !ok {
			continue
		}
		key := [2]string{e.PredecessorID, e.SuccessorID}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.Succs[e.PredecessorID] = append(g.Succs[e.PredecessorID], e)
		g.Preds[e.SuccessorID] = append(g.Preds[e.SuccessorID], e)
	}

	// Sort adjacency for deterministic traversal
	for k := range g.Succs {
		sortEdges(g.Succs[k], func(e model.DependencyEdge) string { return e.SuccessorID })
	}
	for k := range g.Preds {
		sortEdges(g.Preds[k], func(e model.DependencyEdge) string { return e.PredecessorID })
	}

	for id := range g.Tasks {
		if len(g.Preds[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Succs[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}
	sort.Strings(g.Roots)
	sort.Strings(g.Leaves)

	return g
}

func sortEdges(edges []model.DependencyEdge, key func(model.DependencyEdge) string) {
	sort.Slice(edges, func(i, j int) bool { return key(edges[i]) < key(edges[j]) })
}

// PredecessorsOf returns the edges arriving at the given task. Empty
// slice when the task has none or is unknown.
func (g *TaskGraph) PredecessorsOf(taskID string) []model.DependencyEdge {
	return g.Preds[taskID]
}

// SuccessorsOf returns the edges leaving the given task.
func (g *TaskGraph) SuccessorsOf(taskID string) []model.DependencyEdge {
	return g.Succs[taskID]
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}

// DetectCycle returns a cycle path if one exists, or nil for an acyclic
// graph. Uses DFS with coloring: white (unvisited), gray (in progress),
// black (done).
func (g *TaskGraph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, e := range g.Succs[node] {
			next := e.SuccessorID
			if color[next] == gray {
				// Found a cycle — reconstruct it
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	ids := make([]string, 0, len(g.Tasks))
	for id := range g.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
