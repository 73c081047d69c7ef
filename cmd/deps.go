package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/recode/pkg/agent"
)

var depsCmd = &cobra.Command{
	Use:   "deps [path]",
	Short: "Analyze project dependencies",
	Long: `Collects the project's text files, asks the model for outdated, unused,
missing or vulnerable dependencies, and offers to rewrite the named config
files with the suggested fixes. Defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		app, err := newAppContext()
		if err != nil {
			return err
		}
		spec := agent.NewSpec("deps_analyze", map[string]interface{}{"path": path})
		return app.dispatcher.RunToolFromSpec(spec, fmt.Sprintf("analyze dependencies under %s", path))
	},
}

func init() {
	rootCmd.AddCommand(depsCmd)
}
