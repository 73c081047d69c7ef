package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/recode/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a configuration in the current directory",
	Long: `Creates a .recode/config.json file in the current working directory so this
project can use its own models and settings instead of the home config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Initializing new configuration in the current directory...")
		if err := config.InitConfig(skipPrompt); err != nil {
			return fmt.Errorf("could not initialize config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
