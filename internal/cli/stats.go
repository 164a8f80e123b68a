package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/friendgraph/pkg/analysis"
	fgio "github.com/matzehuels/friendgraph/pkg/io"
	"github.com/matzehuels/friendgraph/pkg/pipeline"
)

// statsOpts holds the command-line flags for the stats command.
type statsOpts struct {
	json    bool   // print the report as JSON
	output  string // write the JSON report to a file
	top     int    // ranked nodes; 0 uses the config default
	noCache bool   // bypass the report cache
	refresh bool   // recompute even on a cache hit
	save    bool   // persist the report in the store
	latest  bool   // print the newest saved report for this input if there is one
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var opts statsOpts

	cmd := &cobra.Command{
		Use:   "stats [edges]",
		Short: "Report degree and distance-2 statistics for an edge list",
		Long: `Load an edge list and report node and edge counts, the degree distribution,
degree and distance-2 summaries, and the highest-degree nodes.

Reports are cached by the content hash of the edge list. With --latest, the
newest report saved with --save for identical edge list content is printed
instead of a fresh analysis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON report to a file")
	cmd.Flags().IntVar(&opts.top, "top", 0, "number of highest-degree nodes to list (negative disables)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the report cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute the report even if cached")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the report to the configured store")
	cmd.Flags().BoolVar(&opts.latest, "latest", false, "print the newest saved report for this edge list")

	return cmd
}

func (c *CLI) runStats(cmd *cobra.Command, path string, opts statsOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache, opts.save || opts.latest)
	if err != nil {
		return err
	}
	defer runner.Close(ctx)

	top := opts.top
	if top == 0 {
		top = c.Config.Analysis.Top
	}

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Path:    path,
		Top:     top,
		Refresh: opts.refresh,
		NoCache: opts.noCache,
		Save:    opts.save,
		Latest:  opts.latest,
		TTL:     c.Config.Cache.TTL.Duration,
	})
	if err != nil {
		return err
	}
	if result.Stored {
		prog.done(fmt.Sprintf("Loaded saved report %s", result.Report.ID))
	} else {
		prog.done(fmt.Sprintf("Analyzed %d nodes", result.Report.Nodes))
	}

	if opts.output != "" {
		if err := fgio.ExportReportJSON(opts.output, result.Report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return fgio.WriteReportJSON(out, result.Report)
	}

	printReport(out, result.Report, result.CacheHit || result.Stored)
	if opts.output != "" {
		printFile(opts.output)
	}
	if result.Saved {
		printSuccess("Saved report %s", result.Report.ID)
	}
	return nil
}

// printReport writes a human-readable report.
func printReport(w io.Writer, r *analysis.Report, cached bool) {
	fmt.Fprintln(w, StyleTitle.Render("Graph statistics"))
	fmt.Fprintln(w, statsLine(r.Nodes, r.Edges, cached))
	fmt.Fprintln(w)

	fmt.Fprintln(w, summaryTable(r).Render())

	if len(r.Top) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("Top nodes by degree"))
		fmt.Fprintln(w, rankedTable(r.Top).Render())
	}

	if len(r.DegreeDistribution) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("Degree distribution"))
		fmt.Fprintln(w, distributionTable(r.DegreeDistribution).Render())
	}
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle.Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
		})
}

func summaryTable(r *analysis.Report) *table.Table {
	t := newTable("", "mean", "median", "stddev", "min", "max")
	for _, row := range []struct {
		name string
		s    analysis.Summary
	}{
		{"degree", r.Degree},
		{"distance-2", r.Distance2},
	} {
		t.Row(row.name, fmtFloat(row.s.Mean), fmtFloat(row.s.Median), fmtFloat(row.s.StdDev),
			fmtFloat(row.s.Min), fmtFloat(row.s.Max))
	}
	return t
}

func rankedTable(ranked []analysis.Ranked) *table.Table {
	t := newTable("node", "degree", "distance-2")
	for _, r := range ranked {
		t.Row(strconv.FormatUint(uint64(r.Node), 10), strconv.Itoa(r.Degree), strconv.Itoa(r.Distance2))
	}
	return t
}

func distributionTable(buckets []analysis.Bucket) *table.Table {
	t := newTable("degree", "nodes")
	for _, b := range buckets {
		t.Row(strconv.Itoa(b.Degree), strconv.Itoa(b.Count))
	}
	return t
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
