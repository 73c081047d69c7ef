package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/recode/pkg/filediscovery"
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore [pattern]",
	Short: "Add a pattern to the recodeignore file",
	Long: `Adds a pattern to the .recode/recodeignore file, which is applied on top
of .gitignore when deciding which files the code tools may read.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := args[0]
		if err := filediscovery.AddToRecodeIgnore(".", pattern); err != nil {
			return fmt.Errorf("error adding to recodeignore: %w", err)
		}
		fmt.Printf("Added '%s' to %s\n", pattern, filediscovery.RecodeIgnoreFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ignoreCmd)
}
