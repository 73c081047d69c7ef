package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var agentCmd = &cobra.Command{
	Use:   "agent [request...]",
	Short: "Route a natural-language request to the code tools",
	Long: `Routes a natural-language request to one of the code tools. With arguments
the request is dispatched once; without arguments an interactive session
starts where each line is routed and dispatched in turn.

Examples:
  recode agent                                  # interactive session
  recode agent "analyze src/app.py"             # one-shot request
  recode agent remove dead code from utils.py`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		loop := app.loop()
		if len(args) > 0 {
			return loop.RunOnce(strings.Join(args, " "))
		}
		return loop.Run()
	},
}

func init() {
	rootCmd.AddCommand(agentCmd)
}
