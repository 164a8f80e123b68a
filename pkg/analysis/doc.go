// Package analysis computes local structure statistics over a [graph.Graph].
//
// The statistics are the ones friend-of-friend studies usually start from:
// how degrees are distributed, how many distance-2 neighbors each node has,
// and which nodes are best connected. [Analyze] bundles them into a
// [Report] that the CLI prints, the cache stores, and the HTTP API serves.
//
// Degrees follow the graph's multiplicity rules: repeated edges and
// self-loops count toward a node's degree.
//
// [graph.Graph]: github.com/matzehuels/friendgraph/pkg/graph.Graph
package analysis
