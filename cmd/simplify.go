package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/recode/pkg/agent"
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify [path]",
	Short: "Simplify files while preserving behavior",
	Long: `Rewrites each matched file in a simpler form: flatter control flow, fewer
redundant constructs, clearer names. Behavior is preserved; every file's
diff is shown and confirmed before it is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		spec := agent.NewSpec("refactor_simplify", map[string]interface{}{"path": args[0]})
		return app.dispatcher.RunToolFromSpec(spec, fmt.Sprintf("simplify %s", args[0]))
	},
}

func init() {
	rootCmd.AddCommand(simplifyCmd)
}
