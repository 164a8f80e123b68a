package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [edges]",
		Short: "Browse the nodes of an edge list interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := c.loadGraph(ctx, args[0])
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewNodeBrowserModel(g), tea.WithAltScreen(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("explore: %w", err)
			}
			if m, ok := final.(NodeBrowserModel); ok {
				if n, ok := m.Selected(); ok {
					loggerFromContext(ctx).Debug("explore finished", "node", n)
				}
			}
			return nil
		},
	}
}
