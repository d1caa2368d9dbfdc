package network

import (
	"container/heap"
	"sort"

	"github.com/kilianp07/pmsched/core/model"
)

// Network is an immutable, validated activity-on-node DAG.
type Network struct {
	reg   *model.Registry
	preds [][]int // by registry index, sorted ascending
	succs [][]int // by registry index, sorted ascending
	order []int   // topological order, ties broken by registry index
}

// Build wires the dependency rows onto the registry. Rows may repeat an
// activity; their predecessor lists are merged and duplicate edges collapse.
// Every referenced identifier must exist and the resulting relation must be
// acyclic; otherwise no network is returned.
func Build(reg *model.Registry, deps []Dependency) (*Network, error) {
	n := reg.Len()
	edges := make([]map[int]struct{}, n)
	for _, d := range deps {
		to, ok := reg.Index(d.Activity)
		if !ok {
			return nil, &UnknownActivityError{ID: d.Activity}
		}
		for _, p := range d.Predecessors {
			from, ok := reg.Index(p)
			if !ok {
				return nil, &UnknownActivityError{ID: p, Successor: d.Activity}
			}
			if edges[to] == nil {
				edges[to] = make(map[int]struct{})
			}
			edges[to][from] = struct{}{}
		}
	}

	g := &Network{
		reg:   reg,
		preds: make([][]int, n),
		succs: make([][]int, n),
	}
	for to, set := range edges {
		for from := range set {
			g.preds[to] = append(g.preds[to], from)
			g.succs[from] = append(g.succs[from], to)
		}
	}
	for i := 0; i < n; i++ {
		sort.Ints(g.preds[i])
		sort.Ints(g.succs[i])
	}

	g.order = g.topoOrder()
	if len(g.order) != n {
		return nil, &CycleDetectedError{Cycle: g.findCycle()}
	}
	return g, nil
}

type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// topoOrder runs Kahn's algorithm with a min-heap on the registry index so
// the lowest input position among the ready nodes always goes first.
// Nodes on or behind a cycle are never emitted.
func (g *Network) topoOrder() []int {
	indeg := make([]int, len(g.preds))
	ready := &indexHeap{}
	for i, p := range g.preds {
		indeg[i] = len(p)
		if indeg[i] == 0 {
			*ready = append(*ready, i)
		}
	}
	heap.Init(ready)

	out := make([]int, 0, len(indeg))
	for ready.Len() > 0 {
		u := heap.Pop(ready).(int)
		out = append(out, u)
		for _, v := range g.succs[u] {
			indeg[v]--
			if indeg[v] == 0 {
				heap.Push(ready, v)
			}
		}
	}
	return out
}

// findCycle extracts one cycle with a depth-first search in registry order.
func (g *Network) findCycle() []string {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(g.succs))
	parent := make([]int, len(g.succs))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int
	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range g.succs[u] {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// back edge u -> v closes v ... u -> v
				cycle = append(cycle, v)
				for cur := u; cur != v && cur != -1; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}
	for i := range g.succs {
		if color[i] == white && dfs(i) {
			break
		}
	}

	out := make([]string, len(cycle))
	for i, idx := range cycle {
		out[len(cycle)-1-i] = g.reg.ID(idx)
	}
	return out
}

// Registry returns the activity registry backing the network.
func (g *Network) Registry() *model.Registry { return g.reg }

// Len returns the number of nodes.
func (g *Network) Len() int { return len(g.preds) }

// ID returns the identifier of node i.
func (g *Network) ID(i int) string { return g.reg.ID(i) }

// Duration returns the duration of node i.
func (g *Network) Duration(i int) int { return g.reg.Duration(i) }

// Predecessors returns the direct predecessors of node i.
func (g *Network) Predecessors(i int) []int { return append([]int(nil), g.preds[i]...) }

// Successors returns the direct successors of node i.
func (g *Network) Successors(i int) []int { return append([]int(nil), g.succs[i]...) }

// Order returns the topological order.
func (g *Network) Order() []int { return append([]int(nil), g.order...) }

// OrderIDs returns the topological order as identifiers.
func (g *Network) OrderIDs() []string {
	out := make([]string, len(g.order))
	for i, idx := range g.order {
		out[i] = g.ID(idx)
	}
	return out
}

// Sources returns the nodes without predecessors in registry order.
func (g *Network) Sources() []int {
	var out []int
	for i, p := range g.preds {
		if len(p) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Sinks returns the nodes without successors in registry order.
func (g *Network) Sinks() []int {
	var out []int
	for i, s := range g.succs {
		if len(s) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// PredecessorIDs returns the identifiers of the direct predecessors of id.
func (g *Network) PredecessorIDs(id string) ([]string, bool) {
	i, ok := g.reg.Index(id)
	if !ok {
		return nil, false
	}
	out := make([]string, len(g.preds[i]))
	for k, p := range g.preds[i] {
		out[k] = g.ID(p)
	}
	return out, true
}
