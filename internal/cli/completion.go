package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for friendgraph.

To load completions:

Bash:
  $ source <(friendgraph completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ friendgraph completion bash > /etc/bash_completion.d/friendgraph
  # macOS:
  $ friendgraph completion bash > $(brew --prefix)/etc/bash_completion.d/friendgraph

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ friendgraph completion zsh > "${fpath[1]}/_friendgraph"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ friendgraph completion fish | source

  # To load completions for each session, execute once:
  $ friendgraph completion fish > ~/.config/fish/completions/friendgraph.fish

PowerShell:
  PS> friendgraph completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> friendgraph completion powershell > friendgraph.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
