package cmd

import (
	"github.com/spf13/cobra"
)

var skipPrompt bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recode",
	Short: "AI agent for code analysis, refactoring and conversion",
	Long: `Recode is a command-line agent that routes natural-language requests to
LLM-backed code tools. It can analyze source files, strip dead code,
simplify implementations, refactor specific line ranges, convert whole
projects to another language and review dependency manifests.

Available commands:
  agent    - Route a natural-language request (or start the interactive loop)
  analyze  - Analyze a source file
  deadcode - Remove unused code from files
  simplify - Simplify files while preserving behavior
  refactor - Refactor a specific line range of one file
  convert  - Convert a file or project to another language
  deps     - Analyze project dependencies
  ...and more

Every change is shown as a diff and applied only after confirmation, with a
backup and a revision record so it can be rolled back.

For autonomous operation, try: recode agent "your request here"`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&skipPrompt, "skip-prompt", false, "Skip confirmation prompts; every confirmation takes its default answer")
}
