package graph

import (
	"cmp"
	"maps"
	"slices"
)

// NodeID identifies a node. Every value of the type is a valid identifier.
type NodeID uint

// NodeSet is an unordered set of node identifiers.
// A nil NodeSet is a valid empty set for reads.
type NodeSet map[NodeID]struct{}

// NewNodeSet returns a set holding ids.
func NewNodeSet(ids ...NodeID) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s NodeSet) Add(id NodeID) { s[id] = struct{}{} }

// Contains reports whether id is in the set.
func (s NodeSet) Contains(id NodeID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s NodeSet) Len() int { return len(s) }

// Sorted returns the members in ascending order.
// Returns an empty (non-nil) slice for an empty set.
func (s NodeSet) Sorted() []NodeID {
	if len(s) == 0 {
		return []NodeID{}
	}
	return slices.Sorted(maps.Keys(s))
}

// Equal reports whether both sets hold the same members.
func (s NodeSet) Equal(other NodeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Graph is an undirected graph stored as an adjacency mapping from each node
// to the ordered sequence of its direct neighbors.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	edges map[NodeID][]NodeID
	count int // AddEdge calls
}

// New creates an empty graph with no nodes and no edges.
func New() *Graph {
	return &Graph{edges: make(map[NodeID][]NodeID)}
}

// AddEdge records an undirected edge between source and target.
// Target is appended to source's neighbor sequence and source to target's,
// creating either sequence if the node is new. Repeated edges are kept, and
// a self-loop appends the node to its own sequence twice.
func (g *Graph) AddEdge(source, target NodeID) {
	g.edges[source] = append(g.edges[source], target)
	g.edges[target] = append(g.edges[target], source)
	g.count++
}

// Degree returns the number of entries in the node's neighbor sequence,
// counting duplicates and self-loop entries individually.
// Returns 0 if the node has never appeared in an edge.
func (g *Graph) Degree(n NodeID) int { return len(g.edges[n]) }

// NeighborsAtDistance2 returns the nodes reachable from n by one more hop
// from any of n's direct neighbors, excluding n itself.
// Returns an empty set (never nil) if n is not in the graph.
func (g *Graph) NeighborsAtDistance2(n NodeID) NodeSet {
	result := make(NodeSet)
	for _, m := range g.edges[n] {
		for _, k := range g.edges[m] {
			if k != n {
				result[k] = struct{}{}
			}
		}
	}
	return result
}

// Nodes returns every node that has taken part in at least one edge.
func (g *Graph) Nodes() NodeSet {
	s := make(NodeSet, len(g.edges))
	for id := range g.edges {
		s[id] = struct{}{}
	}
	return s
}

// Neighbors returns a copy of n's neighbor sequence in insertion order.
// Returns nil if the node is not in the graph.
func (g *Graph) Neighbors(n NodeID) []NodeID { return slices.Clone(g.edges[n]) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.edges) }

// EdgeCount returns the number of AddEdge calls, duplicates and self-loops included.
func (g *Graph) EdgeCount() int { return g.count }

// Edge is an undirected edge with From <= To.
type Edge struct {
	From NodeID
	To   NodeID
}

// Edges reconstructs the inserted edges in ascending (From, To) order.
// An edge inserted k times appears k times. Edges reverses the two-entry
// bookkeeping of AddEdge, so it reports what was inserted, not insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.count)
	for _, n := range g.Nodes().Sorted() {
		loops := 0
		for _, m := range g.edges[n] {
			switch {
			case m == n:
				loops++
			case n < m:
				out = append(out, Edge{From: n, To: m})
			}
		}
		// a self-loop leaves two entries in its node's sequence
		for range loops / 2 {
			out = append(out, Edge{From: n, To: n})
		}
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if a.From != b.From {
			return cmp.Compare(a.From, b.From)
		}
		return cmp.Compare(a.To, b.To)
	})
	return out
}
