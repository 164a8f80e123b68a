// Package pkg provides the libraries behind friendgraph.
//
// # Overview
//
// Friendgraph answers local-structure questions about undirected graphs
// given as edge lists: how many edge endpoints touch a node, and which nodes
// are friends of its friends. The pkg directory is organized into:
//
//  1. [graph] - The adjacency structure (degree, distance-2 neighbors)
//  2. [io] - Edge list ingestion and report export
//  3. [analysis] - Degree and distance-2 statistics
//  4. [cache], [store] - Report caching and persistence
//  5. [pipeline] - Orchestration (load → analyze → save)
//  6. [render/nodelink] - Graphviz diagrams
//  7. [server] - HTTP API over a shared graph
//  8. [observability], [errors], [buildinfo] - Ambient infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Edge list file
//	     ↓
//	[io] ReadEdgeList
//	     ↓
//	[graph] Graph
//	     ↓
//	[analysis] Report ──→ [cache] / [store]
//
// # Quick Start
//
//	g, err := io.ImportEdgeList("edges.txt")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(g.Degree(1), g.NeighborsAtDistance2(1).Sorted())
//
//	report := analysis.Analyze(g, analysis.Options{Top: 5})
//
// Concurrency: [graph.Graph] is not safe for concurrent use. [server.Shared]
// wraps one with a read-write lock for concurrent hosts.
package pkg
