package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints a shell completion script for the fontastic
// command tree. It skips config loading so it works before any setup.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for fontastic to stdout.

Completions cover every subcommand and flag, including the export formats
(svg, png) and the cache subcommands.

  $ source <(fontastic completion bash)
  $ fontastic completion zsh > "${fpath[1]}/_fontastic"
  $ fontastic completion fish | source
  PS> fontastic completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
