package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/friendgraph/pkg/errors"
	"github.com/matzehuels/friendgraph/pkg/graph"
)

// maxLineSize bounds a single edge-list line.
const maxLineSize = 1 << 20

// ReadEdgeList decodes an edge list from r into a new graph.
// See the package documentation for the accepted format. ReadEdgeList does
// not close r.
func ReadEdgeList(r io.Reader) (*graph.Graph, error) {
	g := graph.New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	seenData := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}

		fields := splitFields(line)
		if !seenData && len(fields) == 1 {
			seenData = true
			if _, err := errors.ParseNodeID(fields[0]); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: invalid node count header", lineNo)
			}
			continue
		}
		seenData = true

		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: expected 2 node IDs, got %d fields", lineNo, len(fields))
		}
		src, err := errors.ParseNodeID(fields[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: source", lineNo)
		}
		dst, err := errors.ParseNodeID(fields[1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: target", lineNo)
		}
		g.AddEdge(graph.NodeID(src), graph.NodeID(dst))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read line %d", lineNo+1)
	}
	return g, nil
}

// ImportEdgeList reads the edge list file at path.
// A missing file yields a FILE_NOT_FOUND error.
func ImportEdgeList(path string) (*graph.Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "edge list %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEdgeList(f)
}

func splitFields(line string) []string {
	if strings.Contains(line, ",") {
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return strings.Fields(line)
}
