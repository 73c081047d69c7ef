package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/recode/pkg/agent"
)

var analyzeSummary bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a source file and report its structure and problems",
	Long: `Sends a source file to the analysis model and prints its report. When the
path resolves to several files, only the first is analyzed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		spec := agent.NewSpec("analyze", map[string]interface{}{
			"path":    args[0],
			"summary": analyzeSummary,
		})
		return app.dispatcher.RunToolFromSpec(spec, fmt.Sprintf("analyze %s", args[0]))
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeSummary, "summary", true, "Summarize the findings instead of a full report")
	rootCmd.AddCommand(analyzeCmd)
}
