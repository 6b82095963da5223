// Package depgraph holds an in-memory adjacency view of the task dependency
// edges of one project and answers cycle questions against it. It never
// touches storage: callers load a snapshot, check, then write.
package depgraph

import (
	"sort"

	"github.com/alexanderramin/planline/internal/domain"
)

// Graph is an adjacency arena keyed by task id. Edge direction is
// origin -> dependent.
type Graph struct {
	succ  map[string][]string
	pred  map[string][]string
	nodes map[string]struct{}
}

func New() *Graph {
	return &Graph{
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
		nodes: make(map[string]struct{}),
	}
}

// FromEdges builds a graph from stored edges. It does not validate acyclicity.
func FromEdges(edges []domain.DependencyEdge) *Graph {
	g := New()
	for _, e := range edges {
		g.Add(e.OriginTaskID, e.DependentTaskID)
	}
	return g
}

// AddNode registers a task with no edges.
func (g *Graph) AddNode(id string) {
	g.nodes[id] = struct{}{}
}

// Add inserts origin -> dependent without checking for cycles.
func (g *Graph) Add(origin, dependent string) {
	g.nodes[origin] = struct{}{}
	g.nodes[dependent] = struct{}{}
	g.succ[origin] = append(g.succ[origin], dependent)
	g.pred[dependent] = append(g.pred[dependent], origin)
}

// Remove deletes one origin -> dependent edge if present.
func (g *Graph) Remove(origin, dependent string) bool {
	succ, ok := removeOne(g.succ[origin], dependent)
	if !ok {
		return false
	}
	g.succ[origin] = succ
	g.pred[dependent], _ = removeOne(g.pred[dependent], origin)
	return true
}

func (g *Graph) Successors(id string) []string {
	return append([]string(nil), g.succ[id]...)
}

func (g *Graph) Predecessors(id string) []string {
	return append([]string(nil), g.pred[id]...)
}

func (g *Graph) EdgeCount() int {
	n := 0
	for _, s := range g.succ {
		n += len(s)
	}
	return n
}

// HasEdge reports whether origin -> dependent already exists.
func (g *Graph) HasEdge(origin, dependent string) bool {
	for _, s := range g.succ[origin] {
		if s == dependent {
			return true
		}
	}
	return false
}

// Path returns a chain from -> ... -> to following edges forward, found with an
// iterative depth-first walk. ok is false when to is unreachable.
func (g *Graph) Path(from, to string) (path []string, ok bool) {
	if from == to {
		return []string{from}, true
	}
	type frame struct {
		id   string
		next int
	}
	visited := map[string]bool{from: true}
	stack := []frame{{id: from}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succ := g.succ[top.id]
		if top.next >= len(succ) {
			stack = stack[:len(stack)-1]
			continue
		}
		n := succ[top.next]
		top.next++
		if n == to {
			path = make([]string, 0, len(stack)+1)
			for _, f := range stack {
				path = append(path, f.id)
			}
			return append(path, to), true
		}
		if visited[n] {
			continue
		}
		visited[n] = true
		stack = append(stack, frame{id: n})
	}
	return nil, false
}

// CheckEdge validates a proposed origin -> dependent edge against the current
// graph. A self loop, or any existing path dependent -> ... -> origin, is
// rejected with a *domain.CyclicDependencyError.
func (g *Graph) CheckEdge(origin, dependent string, kind domain.RelationKind) error {
	if origin == dependent {
		return &domain.CyclicDependencyError{OriginID: origin, DependentID: dependent, Kind: kind}
	}
	if path, found := g.Path(dependent, origin); found {
		return &domain.CyclicDependencyError{OriginID: origin, DependentID: dependent, Kind: kind, Path: path}
	}
	return nil
}

// TopoOrder returns task ids so that every origin precedes its dependents,
// breaking ties by id. ok is false if the graph contains a cycle.
func (g *Graph) TopoOrder() (order []string, ok bool) {
	indeg := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		indeg[id] = len(g.pred[id])
	}
	var ready []string
	for id, d := range indeg {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		var released []string
		for _, s := range g.succ[id] {
			indeg[s]--
			if indeg[s] == 0 {
				released = append(released, s)
			}
		}
		sort.Strings(released)
		ready = mergeSorted(ready, released)
	}
	return order, len(order) == len(g.nodes)
}

func removeOne(list []string, v string) ([]string, bool) {
	for i, s := range list {
		if s == v {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
