package cli

import "github.com/spf13/cobra"

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for famtree.

To load completions:

Bash:
  $ source <(famtree completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ famtree completion bash > /etc/bash_completion.d/famtree
  # macOS:
  $ famtree completion bash > $(brew --prefix)/etc/bash_completion.d/famtree

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ famtree completion zsh > "${fpath[1]}/_famtree"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ famtree completion fish | source

  # To load completions for each session, execute once:
  $ famtree completion fish > ~/.config/fish/completions/famtree.fish

PowerShell:
  PS> famtree completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> famtree completion powershell > famtree.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}
