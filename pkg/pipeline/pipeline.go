// Package pipeline provides the load → analyze → save flow shared by the CLI
// and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read an edge list file and hash its content
//  2. Analyze: compute an [analysis.Report], consulting the cache first
//  3. Save: optionally persist the report in a [store.Store]
//
// With [Options.Latest], a report previously saved for the same input is
// returned in place of stage 2.
//
// Each stage can be run independently or as part of [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Path: "edges.txt"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Report.Nodes)
//
// Run individual stages:
//
//	g, hash, err := runner.Load(ctx, "edges.txt")
//	report, hit, err := runner.Analyze(ctx, g, hash, opts)
package pipeline

import (
	"time"

	"github.com/matzehuels/friendgraph/pkg/analysis"
	"github.com/matzehuels/friendgraph/pkg/errors"
	"github.com/matzehuels/friendgraph/pkg/graph"
)

// Options configures a pipeline run.
type Options struct {
	// Path is the edge list file to load. Required for Execute.
	Path string

	// Top is passed to analysis.Options.
	Top int

	// Refresh skips the cache lookup but still stores the fresh report.
	Refresh bool

	// NoCache bypasses the cache entirely.
	NoCache bool

	// Save persists the report in the runner's store.
	Save bool

	// Latest returns the newest report saved for the same edge list content
	// instead of analyzing. When none is saved the report is computed as usual.
	Latest bool

	// TTL is the cache lifetime of the report. Zero means cache.TTLReport.
	TTL time.Duration
}

// Validate checks that the options can drive Execute.
func (o Options) Validate() error {
	if o.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "edge list path is required")
	}
	return errors.ValidatePath(o.Path)
}

func (o Options) analysisOptions() analysis.Options {
	return analysis.Options{Top: o.Top}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded graph.
	Graph *graph.Graph

	// SourceHash is the content hash of the edge list.
	SourceHash string

	// Report is the analysis of Graph.
	Report *analysis.Report

	// Stats contains timing information.
	Stats Stats

	// CacheHit reports whether Report came from the cache.
	CacheHit bool

	// Saved reports whether Report was written to the store.
	Saved bool

	// Stored reports whether Report was read back from the store.
	Stored bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LoadTime    time.Duration
	AnalyzeTime time.Duration
}
