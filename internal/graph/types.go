package graph

import "github.com/planloom/planloom/internal/model"

// TaskGraph is the dependency graph for one project: tasks indexed by id
// plus adjacency in both directions over typed dependency edges.
type TaskGraph struct {
	Tasks  map[string]*model.Task
	Preds  map[string][]model.DependencyEdge // successor id -> incoming edges
	Succs  map[string][]model.DependencyEdge // predecessor id -> outgoing edges
	Roots  []string                          // tasks with no predecessors
	Leaves []string                          // tasks with no successors
}
