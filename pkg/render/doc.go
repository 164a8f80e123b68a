// Package render groups the graph renderers.
//
// The [nodelink] subpackage converts a graph to Graphviz DOT and renders it
// to SVG with an embedded Graphviz build, so no external binary is needed:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// A focus node highlights its direct and distance-2 neighbors.
//
// [nodelink]: github.com/matzehuels/friendgraph/pkg/render/nodelink
package render
