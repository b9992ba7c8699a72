// Command agentbudget reports how a configuration shapes the token budget of
// an agent turn.
package main

import (
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentbudget",
		Short: "Inspect the token budget of agent requests",
		Long: heredoc.Doc(`
			agentbudget shows how a configuration file, a skill catalog and a
			tool list shape the requests an agent sends: the compaction reserve,
			whether skills are loaded lazily, which tools are offered and
			whether the token-efficient tools encoding is enabled.
		`),
		SilenceUsage: true,
	}
	root.AddCommand(newInspectCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
