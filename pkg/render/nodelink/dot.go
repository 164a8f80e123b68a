package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/friendgraph/pkg/graph"
)

// Fill colors for focus rendering.
const (
	colorFocus     = "#f4a261"
	colorNeighbor  = "#2a9d8f"
	colorDistance2 = "#a8dadc"
	colorDimmed    = "#eeeeee"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Focus highlights a node with its direct and distance-2 neighbors.
	// Nil renders every node alike.
	Focus *graph.NodeID

	// ShowDegree appends each node's degree to its label.
	ShowDegree bool
}

// role is a node's relation to the focus node.
type role int

const (
	roleNone role = iota
	roleFocus
	roleNeighbor
	roleDistance2
)

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *graph.Graph, opts Options) string {
	roles := focusRoles(g, opts.Focus)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes().Sorted() {
		fmt.Fprintf(&buf, "  %d [%s];\n", n, fmtAttrs(g, n, roles, opts))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// focusRoles classifies nodes around focus. Returns nil without a focus or
// when the focus is not in the graph.
func focusRoles(g *graph.Graph, focus *graph.NodeID) map[graph.NodeID]role {
	if focus == nil || g.Degree(*focus) == 0 {
		return nil
	}
	roles := make(map[graph.NodeID]role)
	for n := range g.NeighborsAtDistance2(*focus) {
		roles[n] = roleDistance2
	}
	// direct neighbors win over distance-2 membership
	for _, n := range g.Neighbors(*focus) {
		roles[n] = roleNeighbor
	}
	roles[*focus] = roleFocus
	return roles
}

func fmtAttrs(g *graph.Graph, n graph.NodeID, roles map[graph.NodeID]role, opts Options) string {
	label := strconv.FormatUint(uint64(n), 10)
	if opts.ShowDegree {
		label = fmt.Sprintf("%s\\n(%d)", label, g.Degree(n))
	}
	attrs := fmt.Sprintf("label=\"%s\"", label)

	if roles == nil {
		return attrs
	}
	switch roles[n] {
	case roleFocus:
		return attrs + ", fillcolor=\"" + colorFocus + "\", penwidth=2"
	case roleNeighbor:
		return attrs + ", fillcolor=\"" + colorNeighbor + "\", fontcolor=white"
	case roleDistance2:
		return attrs + ", fillcolor=\"" + colorDistance2 + "\""
	default:
		return attrs + ", fillcolor=\"" + colorDimmed + "\", fontcolor=gray"
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing scales from its viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
