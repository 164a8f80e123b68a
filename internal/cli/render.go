package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/friendgraph/pkg/errors"
	"github.com/matzehuels/friendgraph/pkg/graph"
	"github.com/matzehuels/friendgraph/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path; stdout when empty
	format     string // "dot" or "svg"
	focus      string // node to highlight with its neighborhood
	showDegree bool   // label nodes with their degree
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [edges]",
		Short: "Render an edge list as a node-link diagram",
		Long: `Render an edge list as a Graphviz node-link diagram.

With --focus, the focus node, its direct neighbors, and its distance-2
neighbors are highlighted and every other node is dimmed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "node to highlight")
	cmd.Flags().BoolVar(&opts.showDegree, "show-degree", false, "label nodes with their degree")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	if opts.format != formatDOT && opts.format != formatSVG {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want dot or svg)", opts.format)
	}
	nlOpts := nodelink.Options{ShowDegree: opts.showDegree}
	if opts.focus != "" {
		id, err := errors.ParseNodeID(opts.focus)
		if err != nil {
			return err
		}
		focus := graph.NodeID(id)
		nlOpts.Focus = &focus
	}

	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	g, err := c.loadGraph(ctx, path)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	data := []byte(nodelink.ToDOT(g, nlOpts))
	if opts.format == formatSVG {
		spin := newSpinner(ctx, cmd.ErrOrStderr(), "Running Graphviz...")
		spin.Start()
		data, err = nodelink.RenderSVG(ctx, string(data))
		if err != nil {
			if spin.Cancelled() {
				spin.Stop()
				return ctx.Err()
			}
			spin.StopWithError("Graphviz failed")
			return fmt.Errorf("render svg: %w", err)
		}
		spin.StopWithSuccess(fmt.Sprintf("Laid out %d nodes", g.NodeCount()))
	}
	prog.done(fmt.Sprintf("Rendered %d nodes as %s", g.NodeCount(), opts.format))

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s", opts.format)
	printFile(opts.output)
	return nil
}
