package model

import "sort"

// Graph is the directed road network. It is immutable after NewGraph;
// when the input repeats a (from, to) pair the last edge wins.
type Graph struct {
	nodes map[NodeID]struct{}
	out   map[NodeID][]Edge
}

// NewGraph builds a Graph from the edge list. Transit times must be
// non-negative.
func NewGraph(edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes: make(map[NodeID]struct{}),
		out:   make(map[NodeID][]Edge),
	}
	for _, e := range edges {
		if e.Minutes < 0 {
			return nil, &ValidationError{
				Field:  "graph",
				Reason: "negative transit time on edge " + string(e.From) + "->" + string(e.To),
			}
		}
		g.nodes[e.From] = struct{}{}
		g.nodes[e.To] = struct{}{}
		replaced := false
		for i, old := range g.out[e.From] {
			if old.To == e.To {
				g.out[e.From][i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			g.out[e.From] = append(g.out[e.From], e)
		}
	}
	return g, nil
}

// HasNode reports whether id appears as an edge endpoint.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Out returns the outgoing edges of the node. Callers must not mutate
// the returned slice.
func (g *Graph) Out(id NodeID) []Edge { return g.out[id] }

// Nodes returns all node ids in lexicographic order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }
