// Package habitat holds the corridor graph built from the dataset. A Graph
// is written only by Build and is safe for concurrent readers afterwards.
package habitat

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// RiskPenalty is the distance-equivalent cost of one risk level, in km
const RiskPenalty = 50

// UnknownState is reported for nodes whose state cell was blank
const UnknownState = "Unknown"

// Weight is the edge cost used for spanning tree selection and path ranking
func Weight(distance float64, risk int) float64 {
	return distance + float64(risk)*RiskPenalty
}

// Node is a habitat (sanctuary, park) with the attributes of the last
// dataset row that mentioned it
type Node struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
	State     string
}

// DisplayState returns the node's state, or UnknownState when blank
func (n *Node) DisplayState() string {
	if n.State == "" {
		return UnknownState
	}
	return n.State
}

// Edge is an undirected corridor between two habitats. It implements
// graph.WeightedEdge so it can be stored directly in gonum graphs.
type Edge struct {
	from, to    simple.Node
	Source      string // endpoint names as written by the last row
	Destination string
	Distance    float64
	Risk        int
}

func (e *Edge) From() graph.Node { return e.from }
func (e *Edge) To() graph.Node   { return e.to }

func (e *Edge) ReversedEdge() graph.Edge {
	r := *e
	r.from, r.to = e.to, e.from
	r.Source, r.Destination = e.Destination, e.Source
	return &r
}

// Weight is Distance + Risk*RiskPenalty
func (e *Edge) Weight() float64 { return Weight(e.Distance, e.Risk) }

// Graph is the undirected weighted habitat graph
type Graph struct {
	topology *simple.WeightedUndirectedGraph
	nodes    []*Node          // indexed by ID, first-seen order
	ids      map[string]int64 // node name -> ID
	edges    []*Edge          // first-seen order of each unordered pair
	pairs    map[[2]int64]int // sorted ID pair -> index into edges
	adjacent [][]int64        // per node, neighbours in the order they were linked
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		topology: simple.NewWeightedUndirectedGraph(0, 0),
		ids:      make(map[string]int64),
		pairs:    make(map[[2]int64]int),
	}
}

// node returns the node named name, creating it on first sight
func (g *Graph) node(name string) *Node {
	if id, ok := g.ids[name]; ok {
		return g.nodes[id]
	}
	n := &Node{ID: int64(len(g.nodes)), Name: name}
	g.nodes = append(g.nodes, n)
	g.adjacent = append(g.adjacent, nil)
	g.ids[name] = n.ID
	g.topology.AddNode(simple.Node(n.ID))
	return n
}

// setEdge adds or overwrites the corridor between source and destination.
// Self-loops are not stored; they can never be part of a spanning tree or
// a simple path.
func (g *Graph) setEdge(source, destination *Node, distance float64, risk int) bool {
	if source.ID == destination.ID {
		return false
	}

	e := &Edge{
		from:        simple.Node(source.ID),
		to:          simple.Node(destination.ID),
		Source:      source.Name,
		Destination: destination.Name,
		Distance:    distance,
		Risk:        risk,
	}

	key := pairKey(source.ID, destination.ID)
	if i, ok := g.pairs[key]; ok {
		g.edges[i] = e
	} else {
		g.pairs[key] = len(g.edges)
		g.edges = append(g.edges, e)
		g.adjacent[source.ID] = append(g.adjacent[source.ID], destination.ID)
		g.adjacent[destination.ID] = append(g.adjacent[destination.ID], source.ID)
	}
	g.topology.SetWeightedEdge(e)
	return true
}

func pairKey(u, v int64) [2]int64 {
	if u > v {
		u, v = v, u
	}
	return [2]int64{u, v}
}

// NodeCount returns the number of habitats
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct corridors
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the habitat with the exact (canonical) name
func (g *Graph) Node(name string) (*Node, bool) {
	id, ok := g.ids[name]
	if !ok {
		return nil, false
	}
	return g.nodes[id], true
}

// NodeByID returns the habitat with the given ID, or nil
func (g *Graph) NodeByID(id int64) *Node {
	if id < 0 || id >= int64(len(g.nodes)) {
		return nil
	}
	return g.nodes[id]
}

// Nodes returns all habitats in first-seen order
func (g *Graph) Nodes() []*Node {
	return append([]*Node(nil), g.nodes...)
}

// Names returns all canonical node names in first-seen order
func (g *Graph) Names() []string {
	names := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		names[i] = n.Name
	}
	return names
}

// Edge returns the corridor between two named habitats in either order
func (g *Graph) Edge(u, v string) (*Edge, bool) {
	uid, ok := g.ids[u]
	if !ok {
		return nil, false
	}
	vid, ok := g.ids[v]
	if !ok {
		return nil, false
	}
	i, ok := g.pairs[pairKey(uid, vid)]
	if !ok {
		return nil, false
	}
	return g.edges[i], true
}

// Edges returns every corridor once in adjacency order: habitats are
// visited in first-seen order and each one lists the corridors to
// not-yet-visited neighbours in the order they were first linked.
// Overwritten corridors keep their position.
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(g.edges))
	for u, neighbours := range g.adjacent {
		for _, v := range neighbours {
			if v < int64(u) {
				continue // listed when v was visited
			}
			edges = append(edges, g.edges[g.pairs[pairKey(int64(u), v)]])
		}
	}
	return edges
}

// Topology exposes the graph for gonum algorithms. Callers must not mutate it.
func (g *Graph) Topology() graph.WeightedUndirected {
	return g.topology
}

// Components returns the number of connected components, counting
// isolated habitats as their own component
func (g *Graph) Components() int {
	return len(topo.ConnectedComponents(g.topology))
}
