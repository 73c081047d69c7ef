package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/recode/pkg/agent"
)

var deadcodeCmd = &cobra.Command{
	Use:   "deadcode [path]",
	Short: "Remove unused code from files",
	Long: `Rewrites each matched file with unreferenced functions, variables, imports
and unreachable branches removed. Every file's diff is shown and confirmed
before it is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		spec := agent.NewSpec("refactor_dead_code", map[string]interface{}{"path": args[0]})
		return app.dispatcher.RunToolFromSpec(spec, fmt.Sprintf("remove dead code from %s", args[0]))
	},
}

func init() {
	rootCmd.AddCommand(deadcodeCmd)
}
