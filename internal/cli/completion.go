package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for myseum.

Wall and item ids complete from the configured store.

Bash:
  $ source <(myseum completion bash)

Zsh:
  $ myseum completion zsh > "${fpath[1]}/_myseum"

Fish:
  $ myseum completion fish > ~/.config/fish/completions/myseum.fish

PowerShell:
  PS> myseum completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeIDs returns a completion function for commands taking a wall id
// and, when withItem is set, an item id of that wall. Walls are described
// by name and items by title.
func (c *CLI) completeIDs(withItem bool) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		const noFiles = cobra.ShellCompDirectiveNoFileComp
		if len(args) > 1 || (len(args) == 1 && !withItem) {
			return nil, noFiles
		}
		// Completion skips the persistent pre-run, so the config is loaded here.
		if c.cfg == nil {
			if err := c.setup(cmd, args); err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		svc, closeFn, err := c.openService(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer closeFn()

		if len(args) == 0 {
			walls, err := svc.ListWalls(ctx, local(), "")
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			out := make([]string, 0, len(walls))
			for _, w := range walls {
				out = append(out, w.ID+"\t"+w.Name)
			}
			return out, noFiles
		}

		w, err := svc.GetWall(ctx, local(), args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		out := make([]string, 0, len(w.Items))
		for _, it := range w.Items {
			out = append(out, it.ID+"\t"+titleOf(it))
		}
		return out, noFiles
	}
}
