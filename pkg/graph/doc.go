// Package graph provides an undirected graph over integer node identifiers.
//
// # Overview
//
// The [Graph] type stores adjacency as append-only neighbor sequences keyed by
// [NodeID]. Every call to [Graph.AddEdge] records the edge twice, once in each
// endpoint's sequence, so the mapping is always the symmetric closure of the
// inserted edges. The package is the building block for friendgraph's local
// structure statistics: degree distributions and friend-of-friend counts.
//
// # Basic Usage
//
//	g := graph.New()
//	g.AddEdge(0, 1)
//	g.AddEdge(1, 2)
//	g.AddEdge(1, 3)
//
//	g.Degree(1)                          // 3
//	g.NeighborsAtDistance2(0).Sorted()   // [2 3]
//	g.Nodes().Len()                      // 4
//
// # Multiplicity
//
// Neighbor sequences are never deduplicated. Inserting the same edge twice
// doubles its contribution to both endpoint degrees, and a self-loop (0, 0)
// appends node 0 to its own sequence twice, giving it degree 2. Set-valued
// queries ([Graph.NeighborsAtDistance2], [Graph.Nodes]) collapse duplicates
// naturally.
//
// # Distance-2 Neighbors
//
// [Graph.NeighborsAtDistance2] walks every direct neighbor m of a node n and
// collects m's neighbors, skipping entries equal to n. A direct neighbor of n
// can still appear in the result when another neighbor links to it: in the
// triangle 0-1-2, both 1 and 2 are distance-2 neighbors of 0.
//
// # Unknown Nodes
//
// No operation fails. Querying a node that never took part in an edge yields
// degree 0, a nil neighbor sequence, and an empty distance-2 set.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Hosts that share a graph
// between goroutines must provide their own locking; see pkg/server for a
// read-write locked wrapper.
package graph
