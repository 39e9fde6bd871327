package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for doclens.

To load completions:

Bash:
  $ source <(doclens completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ doclens completion bash > /etc/bash_completion.d/doclens
  # macOS:
  $ doclens completion bash > $(brew --prefix)/etc/bash_completion.d/doclens

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ doclens completion zsh > "${fpath[1]}/_doclens"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ doclens completion fish | source

  # To load completions for each session, execute once:
  $ doclens completion fish > ~/.config/fish/completions/doclens.fish

PowerShell:
  PS> doclens completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> doclens completion powershell > doclens.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			_ = cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			_ = cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			_ = cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			_ = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}
