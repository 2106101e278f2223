package model

import (
	"encoding/json"
	"sort"
)

// Edge is a directed link from one page to another: the source page
// contains at least one anchor pointing at the target page.
type Edge struct {
	// Source is the page the link was found on.
	Source URL `json:"source"`

	// Target is the page the link points to.
	Target URL `json:"target"`
}

// Graph is a directed graph of URL nodes. Edges carry no weights or
// metadata, and parallel edges collapse implicitly through the adjacency
// structure.
//
// A Graph is created empty at crawl start, mutated only by the traversal
// engine for the duration of one crawl, and treated as immutable afterwards.
// It is not safe for concurrent mutation.
type Graph struct {
	nodes map[URL]struct{}
	succ  map[URL]map[URL]struct{}
	edges int
}

// NewGraph creates an empty link graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[URL]struct{}),
		succ:  make(map[URL]map[URL]struct{}),
	}
}

// AddNode inserts a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(u URL) {
	g.nodes[u] = struct{}{}
}

// AddEdge inserts a directed edge from src to dst, inserting both endpoints
// as nodes if they are not present. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(src, dst URL) {
	g.AddNode(src)
	g.AddNode(dst)

	targets, ok := g.succ[src]
	if !ok {
		targets = make(map[URL]struct{})
		g.succ[src] = targets
	}
	if _, ok := targets[dst]; !ok {
		targets[dst] = struct{}{}
		g.edges++
	}
}

// HasNode reports whether the node exists in the graph.
func (g *Graph) HasNode(u URL) bool {
	_, ok := g.nodes[u]
	return ok
}

// HasEdge reports whether the directed edge (src, dst) exists.
func (g *Graph) HasEdge(src, dst URL) bool {
	targets, ok := g.succ[src]
	if !ok {
		return false
	}
	_, ok = targets[dst]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct directed edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Nodes returns all nodes sorted lexicographically.
//
// Design decision: We sort rather than expose map order because every
// consumer (persistence, CSV export, DOT rendering, tests) benefits from
// deterministic output, and graphs are small enough that sorting is cheap.
func (g *Graph) Nodes() []URL {
	nodes := make([]URL, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// Edges returns all edges sorted by source, then target.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for src, targets := range g.succ {
		for dst := range targets {
			edges = append(edges, Edge{Source: src, Target: dst})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// graphJSON is the serialized form of a Graph.
type graphJSON struct {
	Nodes []URL  `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// MarshalJSON serializes the graph as sorted node and edge lists.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphJSON{
		Nodes: g.Nodes(),
		Edges: g.Edges(),
	})
}

// UnmarshalJSON restores a graph from its serialized form. Node and edge
// sets round-trip exactly, including isolated nodes.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var gj graphJSON
	if err := json.Unmarshal(data, &gj); err != nil {
		return err
	}

	g.nodes = make(map[URL]struct{})
	g.succ = make(map[URL]map[URL]struct{})
	g.edges = 0

	for _, n := range gj.Nodes {
		g.AddNode(n)
	}
	for _, e := range gj.Edges {
		g.AddEdge(e.Source, e.Target)
	}
	return nil
}
