package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownNode is returned by [Graph.AddEdge] when either endpoint has
	// not been added to the graph.
	ErrUnknownNode = errors.New("unknown node")
)

// Graph is a directed dependency graph keyed by node ID. An edge From→To
// means From requires To. Unlike a layered DAG, cycles are allowed: Python
// distributions occasionally require each other.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    map[string]bool
	outgoing map[string][]string // nodeID -> requirement IDs
	incoming map[string][]string // nodeID -> dependent IDs
	edges    int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]bool),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	g.nodes[id] = true
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Self-edges and
// duplicate edges are dropped silently; a package requiring itself (through
// one of its own extras) does not make it a dependency of anything.
func (g *Graph) AddEdge(from, to string) error {
	if !g.nodes[from] || !g.nodes[to] {
		return ErrUnknownNode
	}
	if from == to || slices.Contains(g.outgoing[from], to) {
		return nil
	}
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	g.edges++
	return nil
}

// Has reports whether the node exists.
func (g *Graph) Has(id string) bool { return g.nodes[id] }

// Children returns the IDs the node requires, in insertion order.
// The returned slice should not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs of nodes that require this node.
// The returned slice should not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// Nodes returns all node IDs in sorted order.
func (g *Graph) Nodes() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Roots returns the sorted IDs of nodes no other node requires.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.Nodes() {
		if len(g.incoming[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges in the graph.
func (g *Graph) EdgeCount() int { return g.edges }
