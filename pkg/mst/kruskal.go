// Package mst reduces a habitat graph to its minimum spanning forest.
package mst

import (
	"cmp"
	"context"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ritzau/ecolink/pkg/habitat"
	"github.com/ritzau/ecolink/pkg/logging"
)

// Forest is a minimum spanning forest of a habitat graph: one tree per
// connected component, isolated habitats included as single-node trees.
type Forest struct {
	source *habitat.Graph
	tree   *simple.WeightedUndirectedGraph
	edges  []*habitat.Edge // selection order
	weight float64
}

// Reduce computes the minimum spanning forest of g with Kruskal's
// algorithm. Edges are ranked by weight; equal weights keep the order of
// g.Edges(), so the result is deterministic.
func Reduce(g *habitat.Graph) *Forest {
	logger := logging.New("mst")
	edges := g.Edges()
	slices.SortStableFunc(edges, func(a, b *habitat.Edge) int {
		return cmp.Compare(a.Weight(), b.Weight())
	})

	f := &Forest{
		source: g,
		tree:   simple.NewWeightedUndirectedGraph(0, 0),
	}
	for _, n := range g.Nodes() {
		f.tree.AddNode(simple.Node(n.ID))
	}

	uf := newUnionFind(g.NodeCount())
	for _, e := range edges {
		if !uf.union(e.From().ID(), e.To().ID()) {
			logger.Log(context.Background(), logging.LevelTrace, "corridor would close a cycle", "source", e.Source, "destination", e.Destination, "weight", e.Weight())
			continue
		}
		f.tree.SetWeightedEdge(e)
		f.edges = append(f.edges, e)
		f.weight += e.Weight()
	}

	logger.Debug("spanning forest reduced", "nodes", g.NodeCount(), "edges", len(f.edges), "weight", f.weight)
	return f
}

// Edges returns the selected corridors in the order they were accepted
func (f *Forest) Edges() []*habitat.Edge {
	return append([]*habitat.Edge(nil), f.edges...)
}

// Len returns the number of selected corridors
func (f *Forest) Len() int { return len(f.edges) }

// TotalWeight is the summed weight of the selected corridors
func (f *Forest) TotalWeight() float64 { return f.weight }

// Contains reports whether the named habitat is part of the forest
func (f *Forest) Contains(name string) bool {
	n, ok := f.source.Node(name)
	return ok && f.tree.Node(n.ID) != nil
}

// HasEdge reports whether the forest keeps the corridor between u and v
func (f *Forest) HasEdge(u, v string) bool {
	un, ok := f.source.Node(u)
	if !ok {
		return false
	}
	vn, ok := f.source.Node(v)
	if !ok {
		return false
	}
	return f.tree.HasEdgeBetween(un.ID, vn.ID)
}

// Components returns the number of trees in the forest
func (f *Forest) Components() int {
	return len(topo.ConnectedComponents(f.tree))
}

// Path returns the habitats on the tree path from one named habitat to
// another, both ends included, and the summed edge weight along it. A tree
// has at most one simple path between two nodes, so this is also the
// minimum-weight path. ok is false when the two lie in different trees.
func (f *Forest) Path(from, to string) (names []string, weight float64, ok bool) {
	src, found := f.source.Node(from)
	if !found {
		return nil, 0, false
	}
	dst, found := f.source.Node(to)
	if !found {
		return nil, 0, false
	}

	if !topo.PathExistsIn(f.tree, f.tree.Node(src.ID), f.tree.Node(dst.ID)) {
		return nil, 0, false
	}

	// Depth-first walk from src recording how each habitat was reached
	parent := map[int64]int64{src.ID: src.ID}
	stack := []int64{src.ID}
	for len(stack) > 0 && !hasKey(parent, dst.ID) {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		neighbors := f.tree.From(id)
		for neighbors.Next() {
			next := neighbors.Node().ID()
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = id
			stack = append(stack, next)
		}
	}
	if !hasKey(parent, dst.ID) {
		return nil, 0, false
	}

	ids := []int64{dst.ID}
	for id := dst.ID; id != src.ID; {
		prev := parent[id]
		weight += f.tree.WeightedEdge(prev, id).Weight()
		ids = append(ids, prev)
		id = prev
	}
	slices.Reverse(ids)

	names = make([]string, len(ids))
	for i, id := range ids {
		names[i] = f.source.NodeByID(id).Name
	}
	return names, weight, true
}

func hasKey(m map[int64]int64, k int64) bool {
	_, ok := m[k]
	return ok
}
