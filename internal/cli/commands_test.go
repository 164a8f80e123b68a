package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/friendgraph/internal/config"
	"github.com/matzehuels/friendgraph/pkg/analysis"
	"github.com/matzehuels/friendgraph/pkg/errors"
)

// isolate points every XDG directory at a temp dir and clears overrides.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(config.EnvRedisAddr, "")
	t.Setenv(config.EnvMongoURI, "")
}

// runCLI executes the root command and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeEdgeList(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edges.txt")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Path 1-2-3-4 plus a duplicate 1-2 and a self-loop on 4.
const sampleEdges = "# sample\n1 2\n2 3\n3 4\n1 2\n4 4\n"

func TestDegreeCommand(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)

	out, err := runCLI(t, "degree", path, "1", "2", "4", "99")
	if err != nil {
		t.Fatalf("degree: %v", err)
	}
	want := "1\t2\n2\t3\n4\t3\n99\t0\n"
	if out != want {
		t.Errorf("degree output = %q, want %q", out, want)
	}
}

func TestDegreeCommandJSON(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)

	out, err := runCLI(t, "degree", "--json", path, "2")
	if err != nil {
		t.Fatal(err)
	}
	var rows []struct{ Node, Degree int }
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(rows) != 1 || rows[0].Node != 2 || rows[0].Degree != 3 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestDegreeCommandInvalidNode(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)

	_, err := runCLI(t, "degree", path, "abc")
	if !errors.Is(err, errors.ErrCodeInvalidNode) {
		t.Errorf("error = %v, want INVALID_NODE", err)
	}
}

func TestNeighborsCommand(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"distance2", []string{"neighbors", path, "2"}, "4\n"},
		{"self-loop node", []string{"neighbors", path, "4"}, "2\n3\n"},
		{"direct", []string{"neighbors", "--direct", path, "1"}, "2\n2\n"},
		{"unknown", []string{"neighbors", path, "42"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestNodesCommand(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)

	out, err := runCLI(t, "nodes", path)
	if err != nil {
		t.Fatal(err)
	}
	if out != "1\n2\n3\n4\n" {
		t.Errorf("nodes = %q", out)
	}

	out, err = runCLI(t, "nodes", "--count", path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "4" {
		t.Errorf("nodes --count = %q", out)
	}
}

func TestStatsCommandJSON(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)

	out, err := runCLI(t, "stats", "--json", "--top", "2", path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var r analysis.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Nodes != 4 || r.Edges != 5 {
		t.Errorf("nodes=%d edges=%d, want 4/5", r.Nodes, r.Edges)
	}
	if len(r.Top) != 2 {
		t.Errorf("top = %d entries, want 2", len(r.Top))
	}

	// Second run is served from the file cache.
	again, err := runCLI(t, "stats", "--json", "--top", "2", path)
	if err != nil {
		t.Fatal(err)
	}
	var cached analysis.Report
	if err := json.Unmarshal([]byte(again), &cached); err != nil {
		t.Fatal(err)
	}
	if cached.ID != r.ID {
		t.Errorf("cached ID = %s, want %s", cached.ID, r.ID)
	}
}

func TestStatsCommandTable(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)

	out, err := runCLI(t, "stats", "--no-cache", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Graph statistics", "distance-2", "Top nodes by degree", "Degree distribution"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsCommandSaveWithoutStore(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)

	_, err := runCLI(t, "stats", "--save", path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestStatsCommandLatestWithoutStore(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)

	_, err := runCLI(t, "stats", "--latest", path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestStatsCommandMissingFile(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "stats", filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)

	out, err := runCLI(t, "render", "--format", "dot", "--focus", "2", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "graph G {") {
		t.Errorf("not a DOT graph: %q", out)
	}
	if strings.Count(out, "1 -- 2;") != 2 {
		t.Errorf("duplicate edge should appear twice:\n%s", out)
	}

	if _, err := runCLI(t, "render", "--format", "png", path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("png format: %v", err)
	}
}

func TestRenderCommandSVG(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)
	outPath := filepath.Join(t.TempDir(), "graph.svg")

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"render", "-o", outPath, path})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("output is not SVG: %.80s", data)
	}
	if !strings.Contains(stderr.String(), "Laid out 4 nodes") {
		t.Errorf("stderr = %q, want Graphviz success line", stderr.String())
	}
	if strings.Contains(stdout.String(), "Laid out") {
		t.Error("spinner status leaked onto stdout")
	}
}

func TestConfigFlag(t *testing.T) {
	isolate(t)
	path := writeEdgeList(t, sampleEdges)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\nbackend = \"bogus\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "--config", cfgPath, "nodes", path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := cacheDir()
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestParseNodes(t *testing.T) {
	ids, err := parseNodes([]string{"0", "7", " 12 "})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != 0 || ids[1] != 7 || ids[2] != 12 {
		t.Errorf("parseNodes = %v", ids)
	}
	if _, err := parseNodes([]string{"1", "x"}); err == nil {
		t.Error("parseNodes should reject non-numeric IDs")
	}
}
