// Package nodelink renders friendgraph graphs as node-link diagrams.
//
// # Overview
//
// This package produces undirected graph visualizations using Graphviz,
// where nodes appear as circles joined by plain lines.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Focus
//
// Setting [Options.Focus] highlights one node and its neighborhood: the
// focus itself, its direct neighbors, and its distance-2 neighbors each get
// their own fill color. Nodes outside that neighborhood are dimmed. A focus
// node that is not in the graph highlights nothing.
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz "graph" source with "--" edges.
// Nodes and edges are emitted in ascending ID order so output is stable.
// Repeated edges are emitted once per insertion and self-loops as "n -- n",
// mirroring the multiplicity the graph keeps.
package nodelink
