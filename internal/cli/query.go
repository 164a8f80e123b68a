package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/friendgraph/pkg/graph"
)

// degreeCommand creates the degree command.
func (c *CLI) degreeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "degree [edges] [node...]",
		Short: "Print the degree of one or more nodes",
		Long: `Print the degree of each node: the number of edge endpoints at the node.
Duplicate edges count every time and a self-loop counts twice. Nodes absent
from the edge list have degree 0.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseNodes(args[1:])
			if err != nil {
				return err
			}
			g, err := c.loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				type row struct {
					Node   graph.NodeID `json:"node"`
					Degree int          `json:"degree"`
				}
				rows := make([]row, len(ids))
				for i, id := range ids {
					rows[i] = row{Node: id, Degree: g.Degree(id)}
				}
				return writeJSON(out, rows)
			}
			for _, id := range ids {
				fmt.Fprintf(out, "%d\t%d\n", id, g.Degree(id))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// neighborsCommand creates the neighbors command.
func (c *CLI) neighborsCommand() *cobra.Command {
	var (
		asJSON bool
		direct bool
	)

	cmd := &cobra.Command{
		Use:   "neighbors [edges] [node]",
		Short: "Print the distance-2 neighbors of a node",
		Long: `Print every node reachable from the given node in exactly two hops, in
ascending order. The node itself is never listed; a direct neighbor is listed
when it is also reachable through another neighbor.

With --direct, print the direct neighbor sequence in insertion order instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseNodes(args[1:])
			if err != nil {
				return err
			}
			g, err := c.loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var result []graph.NodeID
			if direct {
				result = g.Neighbors(ids[0])
				if result == nil {
					result = []graph.NodeID{}
				}
			} else {
				result = g.NeighborsAtDistance2(ids[0]).Sorted()
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			printIDs(out, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().BoolVar(&direct, "direct", false, "print direct neighbors instead")
	return cmd
}

// nodesCommand creates the nodes command.
func (c *CLI) nodesCommand() *cobra.Command {
	var (
		asJSON bool
		count  bool
	)

	cmd := &cobra.Command{
		Use:   "nodes [edges]",
		Short: "List every node of an edge list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if count {
				fmt.Fprintln(out, g.NodeCount())
				return nil
			}
			ids := g.Nodes().Sorted()
			if asJSON {
				return writeJSON(out, ids)
			}
			printIDs(out, ids)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of nodes")
	return cmd
}

func printIDs(w io.Writer, ids []graph.NodeID) {
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
